package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"tabor-blooms-api/models"
	"tabor-blooms-api/repository"
	"tabor-blooms-api/utils"
)

type CommentController struct {
	repo   *repository.ForumRepository
	logger *zap.Logger
}

func NewCommentController(repo *repository.ForumRepository, logger *zap.Logger) *CommentController {
	return &CommentController{repo: repo, logger: logger}
}

type CreateCommentRequest struct {
	DisplayName     string `json:"displayName"`
	Content         string `json:"content"`
	ParentCommentID string `json:"parentCommentId"`
	Website         string `json:"website"` // honeypot
}

// GetComments handles GET /posts/:id/comments. Comment lists must
// never be served stale, so caching is disabled outright.
func (cc *CommentController) GetComments(c *gin.Context) {
	postID := c.Param("id")

	if post := cc.repo.GetPost(c.Request.Context(), postID, false); post == nil {
		utils.SendNotFound(c, "Post")
		return
	}

	comments := cc.repo.ListComments(c.Request.Context(), postID, false)

	c.Header("Cache-Control", "no-store, no-cache, must-revalidate")
	c.JSON(http.StatusOK, comments)
}

// CreateComment handles POST /posts/:id/comments.
func (cc *CommentController) CreateComment(c *gin.Context) {
	postID := c.Param("id")

	if post := cc.repo.GetPost(c.Request.Context(), postID, false); post == nil {
		utils.SendNotFound(c, "Post")
		return
	}

	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body")
		return
	}

	if req.Website != "" {
		utils.SendValidationError(c, "Invalid submission")
		return
	}

	displayName := strings.TrimSpace(req.DisplayName)
	if !utils.IsValidDisplayName(displayName) {
		utils.SendValidationError(c, "Display name is required")
		return
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		utils.SendValidationError(c, "Comment content is required")
		return
	}
	if len(content) > utils.MaxCommentLength {
		utils.SendValidationError(c, "Comment is too long (max 1000 characters)")
		return
	}

	comment := models.Comment{
		ID:              uuid.New().String(),
		PostID:          postID,
		ParentCommentID: strings.TrimSpace(req.ParentCommentID),
		DisplayName:     displayName,
		Content:         content,
		CreatedAt:       time.Now(),
		IsDeleted:       false,
	}

	created, err := cc.repo.CreateComment(c.Request.Context(), comment)
	if err != nil {
		cc.logger.Error("comment write failed", zap.String("post_id", postID), zap.Error(err))
		utils.SendStorageError(c)
		return
	}

	c.JSON(http.StatusCreated, created)
}
