package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hdfcgpt/server/internal/models"
	"github.com/hdfcgpt/server/internal/utils"
)

const defaultHTTPTimeout = 60 * time.Second

type httpDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client is a thin adapter over the Gemini generateContent API. It is
// configured once at startup and is safe for concurrent use; every call is
// one independent request/response round trip.
type Client struct {
	baseURL string
	apiKey  string
	model   string
	client  httpDoer
	logger  *zap.SugaredLogger
}

func NewClient(cfg utils.GeminiConfig, logger *zap.SugaredLogger) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("genai: api key is required")
	}

	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = "https://generativelanguage.googleapis.com/v1beta"
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = "gemini-1.5-flash-latest"
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}

	return &Client{
		baseURL: base,
		apiKey:  apiKey,
		model:   model,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}, nil
}

// GenerateFromTitle requests a single-shot blog post for the given title.
// The model's text is returned verbatim.
func (c *Client) GenerateFromTitle(ctx context.Context, title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", ErrEmptyPrompt
	}

	contents := []content{{
		Role:  models.RoleUser,
		Parts: []part{{Text: blogPrompt(title)}},
	}}

	return c.generate(ctx, contents)
}

// ContinueChat sends the prior turns plus the new user turn as one call.
// The model endpoint manages its own context window; nothing is truncated
// locally.
func (c *Client) ContinueChat(ctx context.Context, history []models.Message, userText string) (string, error) {
	userText = strings.TrimSpace(userText)
	if userText == "" {
		return "", ErrEmptyPrompt
	}

	contents := make([]content, 0, len(history)+1)
	for _, msg := range history {
		text := strings.TrimSpace(msg.Content)
		if text == "" {
			continue
		}
		role := msg.Role
		if role != models.RoleModel {
			role = models.RoleUser
		}
		contents = append(contents, content{Role: role, Parts: []part{{Text: text}}})
	}
	contents = append(contents, content{Role: models.RoleUser, Parts: []part{{Text: userText}}})

	return c.generate(ctx, contents)
}

func (c *Client) generate(ctx context.Context, contents []content) (string, error) {
	payload := generateRequest{Contents: contents}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("genai: marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("genai: create request: %w", err)
	}

	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("x-goog-api-key", c.apiKey)

	response, err := c.client.Do(request)
	if err != nil {
		return "", fmt.Errorf("genai: call generate api: %w", err)
	}
	defer response.Body.Close()

	respBody, err := io.ReadAll(response.Body)
	if err != nil {
		return "", fmt.Errorf("genai: read response: %w", err)
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		err := buildAPIError(response.StatusCode, respBody)
		if c.logger != nil {
			c.logger.Warnw("generate content failed", "status", response.StatusCode, "error", err)
		}
		return "", err
	}

	var apiResp generateResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return "", fmt.Errorf("genai: decode response: %w", err)
	}

	if apiResp.Error != nil && apiResp.Error.Message != "" {
		apiResp.Error.HTTPStatus = response.StatusCode
		return "", apiResp.Error
	}

	text := apiResp.text()
	if text == "" {
		return "", fmt.Errorf("genai: response contained no candidates")
	}

	return text, nil
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type candidate struct {
	Content      content `json:"content"`
	FinishReason string  `json:"finishReason,omitempty"`
}

type generateResponse struct {
	Candidates []candidate `json:"candidates"`
	Error      *APIError   `json:"error,omitempty"`
}

// text concatenates the parts of the first candidate.
func (r generateResponse) text() string {
	if len(r.Candidates) == 0 {
		return ""
	}

	var builder strings.Builder
	for _, p := range r.Candidates[0].Content.Parts {
		builder.WriteString(p.Text)
	}
	return builder.String()
}
