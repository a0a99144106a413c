package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hdfcgpt/server/internal/auth"
	"github.com/hdfcgpt/server/internal/models"
	"github.com/hdfcgpt/server/internal/store"
)

// ContentGenerator is the outbound boundary to the generative-model
// provider.
type ContentGenerator interface {
	GenerateFromTitle(ctx context.Context, title string) (string, error)
	ContinueChat(ctx context.Context, history []models.Message, userText string) (string, error)
}

// ConversationStore persists chat threads.
type ConversationStore interface {
	AppendTurn(ctx context.Context, target store.TurnTarget, userText, modelText string) (string, error)
	List(ctx context.Context, userID string) ([]models.ConversationSummary, error)
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context, userID string) (int64, error)
}

// PostStore persists blog posts.
type PostStore interface {
	Create(ctx context.Context, post *models.Post) error
	List(ctx context.Context) ([]models.Post, error)
	Get(ctx context.Context, id string) (*models.Post, error)
	Update(ctx context.Context, id, title, content, imageURL string) error
	Delete(ctx context.Context, id string) error
}

// ContactStore records contact-form submissions.
type ContactStore interface {
	Create(ctx context.Context, msg *models.ContactMessage) error
}

type Handler struct {
	authService   *auth.Service
	generator     ContentGenerator
	conversations ConversationStore
	posts         PostStore
	contacts      ContactStore
	logger        *zap.SugaredLogger
}

func NewHandler(
	authService *auth.Service,
	generator ContentGenerator,
	conversations ConversationStore,
	posts PostStore,
	contacts ContactStore,
	logger *zap.SugaredLogger,
) *Handler {
	return &Handler{
		authService:   authService,
		generator:     generator,
		conversations: conversations,
		posts:         posts,
		contacts:      contacts,
		logger:        logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	apiGroup := router.Group("/api")

	apiGroup.POST("/generateBlog", h.handleGenerateBlog)
	apiGroup.POST("/chat", h.handleChat)

	apiGroup.GET("/conversations", h.handleListConversations)
	apiGroup.DELETE("/conversations", h.handleDeleteAllConversations)
	apiGroup.DELETE("/conversations/:conversationId", h.handleDeleteConversation)

	apiGroup.GET("/posts", h.handleListPosts)
	apiGroup.GET("/posts/:id", h.handleGetPost)
	apiGroup.POST("/posts", h.handleCreatePost)
	apiGroup.PUT("/posts/:id", h.handleUpdatePost)
	apiGroup.DELETE("/posts/:id", h.handleDeletePost)

	apiGroup.POST("/contact", h.handleContact)

	authGroup := apiGroup.Group("/auth")
	authGroup.POST("/register", h.handleRegister)
	authGroup.POST("/login", h.handleLogin)
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

func (h *Handler) handleRegister(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, http.StatusBadRequest, "invalid payload", err)
		return
	}

	result, err := h.authService.Register(c.Request.Context(), auth.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUsernameRequired), errors.Is(err, auth.ErrPasswordTooWeak):
			h.writeError(c, http.StatusBadRequest, err.Error(), err)
		case errors.Is(err, auth.ErrUserExists):
			h.writeError(c, http.StatusConflict, err.Error(), err)
		default:
			h.writeError(c, http.StatusInternalServerError, "failed to register user", err)
		}
		return
	}

	c.JSON(http.StatusCreated, newAuthResponse(result))
}

func (h *Handler) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, http.StatusBadRequest, "invalid payload", err)
		return
	}

	if req.Identifier == "" || req.Password == "" {
		h.writeError(c, http.StatusBadRequest, "identifier and password are required", auth.ErrInvalidCredentials)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), auth.LoginInput{
		Identifier: req.Identifier,
		Password:   req.Password,
	})
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			h.writeError(c, http.StatusUnauthorized, err.Error(), err)
			return
		}
		h.writeError(c, http.StatusInternalServerError, "failed to login", err)
		return
	}

	c.JSON(http.StatusOK, newAuthResponse(result))
}

func newAuthResponse(result *auth.AuthResult) gin.H {
	return gin.H{
		"token":     result.Token,
		"expiresAt": result.ExpiresAt,
		"user": gin.H{
			"id":        result.User.ID,
			"username":  result.User.Username,
			"email":     result.User.Email,
			"createdAt": result.User.CreatedAt,
			"updatedAt": result.User.UpdatedAt,
		},
	}
}

// writeError logs the underlying cause and returns only the client-facing
// message; every failure path produces the same {"error": ...} shape.
func (h *Handler) writeError(c *gin.Context, status int, message string, err error) {
	if h.logger != nil && err != nil {
		h.logger.Warnw("request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", status,
			"error", err,
		)
	}
	c.JSON(status, gin.H{"error": message})
}
