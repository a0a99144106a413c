package api

import (
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hdfcgpt/server/internal/models"
	"github.com/hdfcgpt/server/internal/store"
)

type postRequest struct {
	Title       string `json:"title"`
	Content     string `json:"content"`
	ImageURL    string `json:"imageUrl"`
	UserID      string `json:"userId"`
	AuthorEmail string `json:"authorEmail"`
}

func (h *Handler) handleListPosts(c *gin.Context) {
	posts, err := h.posts.List(c.Request.Context())
	if err != nil {
		h.writeError(c, http.StatusInternalServerError, "failed to list posts", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

func (h *Handler) handleGetPost(c *gin.Context) {
	post, err := h.posts.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.writeError(c, http.StatusNotFound, "post not found", err)
			return
		}
		h.writeError(c, http.StatusInternalServerError, "failed to fetch post", err)
		return
	}

	c.JSON(http.StatusOK, post)
}

func (h *Handler) handleCreatePost(c *gin.Context) {
	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, http.StatusBadRequest, "invalid payload", err)
		return
	}

	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Content) == "" {
		h.writeError(c, http.StatusBadRequest, "title and content are required", errPostFieldsRequired)
		return
	}

	post := &models.Post{
		Title:       req.Title,
		Content:     req.Content,
		ImageURL:    req.ImageURL,
		UserID:      req.UserID,
		AuthorEmail: req.AuthorEmail,
	}

	if err := h.posts.Create(c.Request.Context(), post); err != nil {
		h.writeError(c, http.StatusInternalServerError, "failed to create post", err)
		return
	}

	c.JSON(http.StatusCreated, post)
}

func (h *Handler) handleUpdatePost(c *gin.Context) {
	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, http.StatusBadRequest, "invalid payload", err)
		return
	}

	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Content) == "" {
		h.writeError(c, http.StatusBadRequest, "title and content are required", errPostFieldsRequired)
		return
	}

	err := h.posts.Update(c.Request.Context(), c.Param("id"), req.Title, req.Content, req.ImageURL)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.writeError(c, http.StatusNotFound, "post not found", err)
			return
		}
		h.writeError(c, http.StatusInternalServerError, "failed to update post", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post updated."})
}

func (h *Handler) handleDeletePost(c *gin.Context) {
	err := h.posts.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.writeError(c, http.StatusNotFound, "post not found", err)
			return
		}
		h.writeError(c, http.StatusInternalServerError, "failed to delete post", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted."})
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

var (
	errPostFieldsRequired = errors.New("title and content are required")

	nameRe  = regexp.MustCompile(`^[A-Za-z\s]+$`)
	emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	phoneRe = regexp.MustCompile(`^\d{10}$`)
)

func (h *Handler) handleContact(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, http.StatusBadRequest, "invalid payload", err)
		return
	}

	if msg := validateContact(req); msg != "" {
		h.writeError(c, http.StatusBadRequest, msg, errors.New(msg))
		return
	}

	contact := &models.ContactMessage{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.TrimSpace(req.Email),
		Phone:   strings.TrimSpace(req.Phone),
		Message: strings.TrimSpace(req.Message),
	}

	if err := h.contacts.Create(c.Request.Context(), contact); err != nil {
		h.writeError(c, http.StatusInternalServerError, "failed to submit message", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Thank you for reaching out. We will get back to you shortly."})
}

func validateContact(req contactRequest) string {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return "Full Name is required."
	}
	if !nameRe.MatchString(name) {
		return "Full Name can only contain letters and spaces."
	}

	email := strings.TrimSpace(req.Email)
	if email == "" {
		return "Email Address is required."
	}
	if !emailRe.MatchString(email) {
		return "Please enter a valid email address."
	}

	phone := strings.TrimSpace(req.Phone)
	if phone == "" {
		return "Mobile Number is required."
	}
	if !phoneRe.MatchString(phone) {
		return "Please enter a valid 10-digit mobile number."
	}

	if strings.TrimSpace(req.Message) == "" {
		return "Message is required."
	}

	return ""
}
