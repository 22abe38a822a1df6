// File: /controllers/post_controller.go
package controllers

import (
	"fmt"
	"io"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"tabor-blooms-api/models"
	"tabor-blooms-api/repository"
	"tabor-blooms-api/services"
	"tabor-blooms-api/storage"
	"tabor-blooms-api/utils"
)

// MaxImageSize bounds uploaded image bytes.
const MaxImageSize = 10 * 1024 * 1024 // 10MB

type PostController struct {
	repo         *repository.ForumRepository
	images       storage.ImageStore
	emailService *services.EmailService
	logger       *zap.Logger
}

func NewPostController(repo *repository.ForumRepository, images storage.ImageStore, emailService *services.EmailService, logger *zap.Logger) *PostController {
	return &PostController{
		repo:         repo,
		images:       images,
		emailService: emailService,
		logger:       logger,
	}
}

// GetPosts handles GET /posts.
func (pc *PostController) GetPosts(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 0 {
		limit = 50
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	posts := pc.repo.ListPosts(c.Request.Context(), repository.ListOptions{
		Filter: c.Query("filter"),
		Limit:  limit,
		Offset: offset,
	})

	c.JSON(http.StatusOK, posts)
}

// CreatePost handles POST /posts: a multipart form with the image and
// submission fields. Rate limiting happens in middleware; everything
// here is validation, the image upload, and the repository append.
func (pc *PostController) CreatePost(c *gin.Context) {
	// Honeypot: real visitors never fill this field.
	if c.PostForm("website") != "" {
		utils.SendValidationError(c, "Invalid submission")
		return
	}

	displayName := strings.TrimSpace(c.PostForm("displayName"))
	if !utils.IsValidDisplayName(displayName) {
		utils.SendValidationError(c, "Display name is required")
		return
	}

	title := strings.TrimSpace(c.PostForm("title"))
	if !utils.IsValidTitle(title) {
		utils.SendValidationError(c, "Title is required")
		return
	}

	postType := models.PostType(c.PostForm("postType"))
	if postType == "" {
		postType = models.PostTypeBloom
	}
	if !models.IsValidPostType(postType) {
		utils.SendValidationError(c, "Unknown post type")
		return
	}

	body := strings.TrimSpace(c.PostForm("body"))
	if len(body) > utils.MaxBodyLength {
		utils.SendValidationError(c, "Body is too long")
		return
	}

	caption := strings.TrimSpace(c.PostForm("caption"))
	if len(caption) > utils.MaxCaptionLength {
		utils.SendValidationError(c, "Caption is too long")
		return
	}

	speciesGuess := strings.TrimSpace(c.PostForm("speciesGuess"))
	if len(speciesGuess) > utils.MaxSpeciesGuessLength {
		utils.SendValidationError(c, "Species guess is too long")
		return
	}

	neighborhood := c.PostForm("neighborhood")
	if neighborhood != "" && !models.IsValidNeighborhood(neighborhood) {
		utils.SendValidationError(c, "Unknown neighborhood")
		return
	}

	needsIDHelp := c.PostForm("needsIdHelp") == "on" || c.PostForm("needsIdHelp") == "true"

	var temperature *int
	if postType == models.PostTypeFrostWarning {
		if raw := c.PostForm("temperature"); raw != "" {
			t, err := strconv.Atoi(raw)
			if err != nil {
				utils.SendValidationError(c, "Temperature must be a whole number")
				return
			}
			temperature = &t
		}
	}

	postID := uuid.New().String()

	imageURL, err := pc.uploadImage(c, postID, postType)
	if err != nil {
		// uploadImage already wrote the response for validation failures.
		return
	}

	post := models.Post{
		ID:           postID,
		ImageURL:     imageURL,
		ThumbnailURL: imageURL,
		PostType:     postType,
		DisplayName:  displayName,
		Title:        title,
		Body:         body,
		Caption:      caption,
		Neighborhood: neighborhood,
		SpeciesGuess: speciesGuess,
		NeedsIDHelp:  needsIDHelp,
		Temperature:  temperature,
		CreatedAt:    time.Now(),
		IsDeleted:    false,
	}

	created, err := pc.repo.CreatePost(c.Request.Context(), post)
	if err != nil {
		pc.logger.Error("post write failed", zap.String("post_id", postID), zap.Error(err))
		utils.SendStorageError(c)
		return
	}

	pc.emailService.NotifyNewPost(created)

	c.JSON(http.StatusCreated, created)
}

// uploadImage validates and stores the submitted image, returning its
// public URL. Frost warnings may omit the image; blooms may not. A
// non-nil error means a response has already been written.
func (pc *PostController) uploadImage(c *gin.Context, postID string, postType models.PostType) (string, error) {
	header, err := c.FormFile("image")
	if err != nil {
		if postType == models.PostTypeFrostWarning {
			return "", nil
		}
		utils.SendValidationError(c, "Image is required")
		return "", err
	}

	if header.Size > MaxImageSize {
		utils.SendValidationError(c, "Image is too large. Maximum size is 10MB.")
		return "", fmt.Errorf("image too large: %d bytes", header.Size)
	}

	contentType := header.Header.Get("Content-Type")
	if !utils.IsAllowedImageType(contentType) {
		utils.SendValidationError(c, "Invalid file type. Please upload a JPEG, PNG, or HEIC image.")
		return "", fmt.Errorf("disallowed content type %q", contentType)
	}

	file, err := header.Open()
	if err != nil {
		pc.logger.Error("image open failed", zap.Error(err))
		utils.SendStorageError(c)
		return "", err
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, MaxImageSize+1))
	if err != nil {
		pc.logger.Error("image read failed", zap.Error(err))
		utils.SendStorageError(c)
		return "", err
	}
	if len(data) > MaxImageSize {
		utils.SendValidationError(c, "Image is too large. Maximum size is 10MB.")
		return "", fmt.Errorf("image too large")
	}

	ext := strings.TrimPrefix(path.Ext(header.Filename), ".")
	if ext == "" {
		ext = "jpg"
	}

	objectKey := fmt.Sprintf("posts/%s/original.%s", postID, ext)
	url, err := pc.images.Upload(c.Request.Context(), objectKey, data, contentType)
	if err != nil {
		pc.logger.Error("image upload failed", zap.String("post_id", postID), zap.Error(err))
		utils.SendStorageError(c)
		return "", err
	}

	return url, nil
}

// GetPost handles GET /posts/:id. Soft-deleted posts are invisible
// here; only the admin surface sees them.
func (pc *PostController) GetPost(c *gin.Context) {
	post := pc.repo.GetPost(c.Request.Context(), c.Param("id"), false)
	if post == nil {
		utils.SendNotFound(c, "Post")
		return
	}

	c.JSON(http.StatusOK, post)
}
