package controllers

import (
	"crypto/subtle"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"tabor-blooms-api/middleware"
	"tabor-blooms-api/repository"
	"tabor-blooms-api/services"
	"tabor-blooms-api/utils"
)

type AdminController struct {
	repo          *repository.ForumRepository
	moderation    *services.ModerationService
	adminPassword string
	jwtSecret     string
	logger        *zap.Logger
}

func NewAdminController(repo *repository.ForumRepository, moderation *services.ModerationService, adminPassword, jwtSecret string, logger *zap.Logger) *AdminController {
	return &AdminController{
		repo:          repo,
		moderation:    moderation,
		adminPassword: adminPassword,
		jwtSecret:     jwtSecret,
		logger:        logger,
	}
}

type LoginRequest struct {
	Password string `json:"password"`
}

// validatePassword accepts either a bcrypt hash or a plain secret in
// configuration. Plain secrets are compared in constant time.
func (ac *AdminController) validatePassword(password string) bool {
	if ac.adminPassword == "" {
		ac.logger.Error("ADMIN_PASSWORD not configured, refusing all logins")
		return false
	}

	if strings.HasPrefix(ac.adminPassword, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(ac.adminPassword), []byte(password)) == nil
	}

	return subtle.ConstantTimeCompare([]byte(ac.adminPassword), []byte(password)) == 1
}

// Login handles POST /admin/login: password in, 24h session cookie out.
func (ac *AdminController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Password == "" {
		utils.SendValidationError(c, "Password is required")
		return
	}

	if !ac.validatePassword(req.Password) {
		utils.SendError(c, http.StatusUnauthorized, "Invalid password")
		return
	}

	claims := jwt.RegisteredClaims{
		Subject:   "admin",
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(middleware.SessionDuration)),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(ac.jwtSecret))
	if err != nil {
		ac.logger.Error("session token signing failed", zap.Error(err))
		utils.SendStorageError(c)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AdminCookieName, token, int(middleware.SessionDuration.Seconds()), "/", "", false, true)

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Logout handles POST /admin/logout by expiring the session cookie.
func (ac *AdminController) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AdminCookieName, "", -1, "/", "", false, true)

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetStats handles GET /admin/stats.
func (ac *AdminController) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, ac.moderation.Stats(c.Request.Context()))
}

// GetPosts handles GET /admin/posts: the moderation listing, deleted
// records included.
func (ac *AdminController) GetPosts(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if err != nil || limit < 0 {
		limit = 100
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	posts := ac.repo.ListPosts(c.Request.Context(), repository.ListOptions{
		IncludeDeleted: true,
		Filter:         c.Query("filter"),
		Limit:          limit,
		Offset:         offset,
	})

	c.JSON(http.StatusOK, posts)
}

// DeletePost handles DELETE /posts/:id.
func (ac *AdminController) DeletePost(c *gin.Context) {
	ok, err := ac.moderation.DeletePost(c.Request.Context(), c.Param("id"))
	if err != nil {
		ac.logger.Error("post delete failed", zap.String("post_id", c.Param("id")), zap.Error(err))
		utils.SendStorageError(c)
		return
	}
	if !ok {
		utils.SendNotFound(c, "Post")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DeleteComment handles DELETE /comments/:id.
func (ac *AdminController) DeleteComment(c *gin.Context) {
	ok, err := ac.moderation.DeleteComment(c.Request.Context(), c.Param("id"))
	if err != nil {
		ac.logger.Error("comment delete failed", zap.String("comment_id", c.Param("id")), zap.Error(err))
		utils.SendStorageError(c)
		return
	}
	if !ok {
		utils.SendNotFound(c, "Comment")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
