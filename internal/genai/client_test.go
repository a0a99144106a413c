package genai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hdfcgpt/server/internal/models"
	"github.com/hdfcgpt/server/internal/utils"
)

func newTestClient(t *testing.T, upstream http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(upstream)
	t.Cleanup(server.Close)

	client, err := NewClient(utils.GeminiConfig{
		BaseURL: server.URL,
		APIKey:  "test-key",
		Model:   "gemini-test",
		Timeout: 5 * time.Second,
	}, nil)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	return client, server
}

func writeCandidate(t *testing.T, w http.ResponseWriter, text string) {
	t.Helper()
	response := map[string]any{
		"candidates": []map[string]any{
			{
				"content": map[string]any{
					"role":  "model",
					"parts": []map[string]string{{"text": text}},
				},
				"finishReason": "STOP",
			},
		},
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		t.Fatalf("failed to encode response: %v", err)
	}
}

func TestGenerateFromTitle(t *testing.T) {
	var captured generateRequest
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models/gemini-test:generateContent" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("x-goog-api-key") != "test-key" {
			t.Errorf("missing api key header")
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		writeCandidate(t, w, "generated body")
	})

	content, err := client.GenerateFromTitle(context.Background(), "Saving For Retirement")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if content != "generated body" {
		t.Fatalf("expected model text verbatim, got %q", content)
	}

	if len(captured.Contents) != 1 {
		t.Fatalf("expected a single-shot prompt, got %d contents", len(captured.Contents))
	}
	prompt := captured.Contents[0].Parts[0].Text
	if want := `"Saving For Retirement"`; !strings.Contains(prompt, want) {
		t.Fatalf("expected prompt to embed the title, got %q", prompt)
	}
}

func TestGenerateFromTitleEmpty(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("upstream must not be called for an empty title")
	})

	if _, err := client.GenerateFromTitle(context.Background(), "   "); !errors.Is(err, ErrEmptyPrompt) {
		t.Fatalf("expected ErrEmptyPrompt, got %v", err)
	}
}

func TestContinueChatSendsHistory(t *testing.T) {
	var captured generateRequest
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		writeCandidate(t, w, "the reply")
	})

	history := []models.Message{
		{Role: models.RoleUser, Content: "hello"},
		{Role: models.RoleModel, Content: "hi, how can I help?"},
	}

	reply, err := client.ContinueChat(context.Background(), history, "tell me about loans")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply != "the reply" {
		t.Fatalf("expected reply text, got %q", reply)
	}

	if len(captured.Contents) != 3 {
		t.Fatalf("expected history plus new turn, got %d contents", len(captured.Contents))
	}
	if captured.Contents[1].Role != models.RoleModel {
		t.Fatalf("expected second turn role model, got %s", captured.Contents[1].Role)
	}
	if captured.Contents[2].Parts[0].Text != "tell me about loans" {
		t.Fatalf("expected new user turn last, got %q", captured.Contents[2].Parts[0].Text)
	}
}

func TestRateLimitMapping(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
	}{
		{
			name:   "http 429",
			status: http.StatusTooManyRequests,
			body:   `{"error": {"code": 429, "status": "RESOURCE_EXHAUSTED", "message": "Quota exceeded"}}`,
		},
		{
			name:   "resource exhausted status",
			status: http.StatusForbidden,
			body:   `{"error": {"code": 403, "status": "RESOURCE_EXHAUSTED", "message": "limit reached"}}`,
		},
		{
			name:   "quota wording",
			status: http.StatusBadRequest,
			body:   `{"error": {"code": 400, "status": "FAILED_PRECONDITION", "message": "You exceeded your current quota"}}`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			})

			_, err := client.GenerateFromTitle(context.Background(), "anything")
			if !errors.Is(err, ErrRateLimited) {
				t.Fatalf("expected ErrRateLimited, got %v", err)
			}
		})
	}
}

func TestUpstreamErrorMapping(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": {"code": 500, "status": "INTERNAL", "message": "backend blew up"}}`))
	})

	_, err := client.GenerateFromTitle(context.Background(), "anything")
	if err == nil {
		t.Fatalf("expected error")
	}
	if errors.Is(err, ErrRateLimited) {
		t.Fatalf("generic failure must not map to rate limiting: %v", err)
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T", err)
	}
	if apiErr.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", apiErr.HTTPStatus)
	}
}

func TestEmptyCandidateResponse(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates": []}`))
	})

	if _, err := client.GenerateFromTitle(context.Background(), "anything"); err == nil {
		t.Fatalf("expected error for empty candidate list")
	}
}
