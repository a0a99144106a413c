package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hdfcgpt/server/internal/genai"
	"github.com/hdfcgpt/server/internal/models"
	"github.com/hdfcgpt/server/internal/store"
)

const (
	msgRateLimited   = "You have made too many requests. Please wait a minute and try again."
	msgUpstreamError = "Failed to generate content from the AI service."
)

type generateBlogRequest struct {
	Title string `json:"title"`
}

func (h *Handler) handleGenerateBlog(c *gin.Context) {
	var req generateBlogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, http.StatusBadRequest, "invalid payload", err)
		return
	}

	if strings.TrimSpace(req.Title) == "" {
		h.writeError(c, http.StatusBadRequest, "Title is required.", genai.ErrEmptyPrompt)
		return
	}

	content, err := h.generator.GenerateFromTitle(c.Request.Context(), req.Title)
	if err != nil {
		// The reference surfaces rate limiting here as a 500 whose wording
		// tells the user to back off; only /api/chat uses 429.
		if errors.Is(err, genai.ErrRateLimited) {
			h.writeError(c, http.StatusInternalServerError, msgRateLimited, err)
			return
		}
		h.writeError(c, http.StatusInternalServerError, msgUpstreamError, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"content": genai.StripLeadingMarkdown(content)})
}

type chatMessagePayload struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	UserID         string               `json:"userId"`
	Messages       []chatMessagePayload `json:"messages"`
	ConversationID string               `json:"conversationId"`
}

func (h *Handler) handleChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, http.StatusBadRequest, "invalid payload", err)
		return
	}

	if strings.TrimSpace(req.UserID) == "" {
		h.writeError(c, http.StatusBadRequest, "userId is required", errMissingUserID)
		return
	}

	messages := normalizeMessages(req.Messages)
	if len(messages) == 0 {
		h.writeError(c, http.StatusBadRequest, "messages must be a non-empty list", errNoMessages)
		return
	}

	last := messages[len(messages)-1]
	if last.Role != models.RoleUser {
		h.writeError(c, http.StatusBadRequest, "last message must be from user", errNoUserTurn)
		return
	}

	history := messages[:len(messages)-1]
	ctx := c.Request.Context()

	// The model call must succeed before anything is persisted; a failed
	// call leaves the store untouched.
	reply, err := h.generator.ContinueChat(ctx, history, last.Content)
	if err != nil {
		if errors.Is(err, genai.ErrRateLimited) {
			h.writeError(c, http.StatusTooManyRequests, msgRateLimited, err)
			return
		}
		h.writeError(c, http.StatusInternalServerError, msgUpstreamError, err)
		return
	}

	var target store.TurnTarget
	if id := strings.TrimSpace(req.ConversationID); id != "" {
		target = store.ExistingConversation{ID: id}
	} else {
		target = store.NewConversation{UserID: req.UserID}
	}

	conversationID, err := h.conversations.AppendTurn(ctx, target, last.Content, reply)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.writeError(c, http.StatusNotFound, "conversation not found", err)
			return
		}
		h.writeError(c, http.StatusInternalServerError, "failed to save conversation", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"response":       reply,
		"conversationId": conversationID,
	})
}

func (h *Handler) handleListConversations(c *gin.Context) {
	userID := strings.TrimSpace(c.Query("userId"))
	if userID == "" {
		h.writeError(c, http.StatusBadRequest, "userId is required", errMissingUserID)
		return
	}

	summaries, err := h.conversations.List(c.Request.Context(), userID)
	if err != nil {
		h.writeError(c, http.StatusInternalServerError, "failed to list conversations", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"conversations": summaries})
}

type deleteAllRequest struct {
	UserID string `json:"userId"`
}

func (h *Handler) handleDeleteAllConversations(c *gin.Context) {
	var req deleteAllRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, http.StatusBadRequest, "invalid payload", err)
		return
	}

	if strings.TrimSpace(req.UserID) == "" {
		h.writeError(c, http.StatusBadRequest, "userId is required", errMissingUserID)
		return
	}

	deleted, err := h.conversations.DeleteAll(c.Request.Context(), req.UserID)
	if err != nil {
		h.writeError(c, http.StatusInternalServerError, "failed to delete conversations", err)
		return
	}

	if deleted == 0 {
		c.JSON(http.StatusOK, gin.H{"message": "No conversations found to delete."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Deleted %d conversations.", deleted)})
}

func (h *Handler) handleDeleteConversation(c *gin.Context) {
	id := strings.TrimSpace(c.Param("conversationId"))
	if id == "" {
		h.writeError(c, http.StatusBadRequest, "conversationId is required", errMissingConversationID)
		return
	}

	if err := h.conversations.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.writeError(c, http.StatusNotFound, "conversation not found", err)
			return
		}
		h.writeError(c, http.StatusInternalServerError, "failed to delete conversation", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Conversation deleted."})
}

var (
	errMissingUserID         = errors.New("userId is required")
	errNoMessages            = errors.New("messages must be a non-empty list")
	errNoUserTurn            = errors.New("last message must be from user")
	errMissingConversationID = errors.New("conversationId is required")
)

// normalizeMessages drops blank entries and defaults missing roles to user,
// mirroring what the chat client sends.
func normalizeMessages(payload []chatMessagePayload) []models.Message {
	result := make([]models.Message, 0, len(payload))
	for _, msg := range payload {
		content := strings.TrimSpace(msg.Content)
		if content == "" {
			continue
		}
		role := strings.ToLower(strings.TrimSpace(msg.Role))
		if role != models.RoleModel {
			role = models.RoleUser
		}
		result = append(result, models.Message{Role: role, Content: content})
	}
	return result
}
