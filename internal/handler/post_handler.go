package handler

import (
	"net/http"
	"strconv"

	"korus/internal/middleware"
	"korus/internal/models"
	"korus/internal/repository"
	"korus/internal/service"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	postRepo   *repository.PostRepository
	reputation *service.ReputationService
}

func NewPostHandler(postRepo *repository.PostRepository, reputation *service.ReputationService) *PostHandler {
	return &PostHandler{postRepo: postRepo, reputation: reputation}
}

type createPostRequest struct {
	Content  string `json:"content" binding:"required,max=500"`
	Topic    string `json:"topic"`
	Subtopic string `json:"subtopic"`
	HasMedia bool   `json:"has_media"`
}

func (h *PostHandler) Create(c *gin.Context) {
	wallet := middleware.GetWallet(c)
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content is required, max 500 characters"})
		return
	}

	post := &models.Post{
		AuthorWallet: wallet,
		Content:      req.Content,
		Topic:        req.Topic,
		Subtopic:     req.Subtopic,
		HasMedia:     req.HasMedia,
	}
	if err := h.postRepo.Create(post); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create post"})
		return
	}
	h.reputation.OnPostCreated(wallet, req.HasMedia)
	c.JSON(http.StatusCreated, post)
}

func (h *PostHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit < 1 || limit > 100 {
		limit = 20
	}
	posts, err := h.postRepo.List(c.Query("topic"), c.Query("subtopic"), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list posts"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

func (h *PostHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return
	}
	post, err := h.postRepo.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		return
	}
	c.JSON(http.StatusOK, post)
}

type createReplyRequest struct {
	Content string `json:"content" binding:"required,max=500"`
}

func (h *PostHandler) CreateReply(c *gin.Context) {
	wallet := middleware.GetWallet(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return
	}
	var req createReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content is required, max 500 characters"})
		return
	}

	post, err := h.postRepo.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		return
	}

	reply := &models.Reply{
		PostID:       post.ID,
		AuthorWallet: wallet,
		Content:      req.Content,
	}
	if err := h.postRepo.CreateReply(reply); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create reply"})
		return
	}
	h.reputation.OnComment(wallet, post.AuthorWallet)
	c.JSON(http.StatusCreated, reply)
}

func (h *PostHandler) ListReplies(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	replies, err := h.postRepo.ListReplies(uint(id), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list replies"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"replies": replies})
}
