package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tabor-blooms-api/config"
	"tabor-blooms-api/models"
	"tabor-blooms-api/repository"
	"tabor-blooms-api/services"
	"tabor-blooms-api/storage"
)

func newPostTestRouter(t *testing.T) (*gin.Engine, *repository.ForumRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dataDir := t.TempDir()
	logger := zap.NewNop()
	store := storage.NewLocalStore(dataDir, logger)
	repo := repository.NewForumRepository(store, logger)
	images := storage.NewLocalImageStore(dataDir, logger)
	emailService := services.NewEmailService(&config.Config{}, logger) // disabled

	pc := NewPostController(repo, images, emailService, logger)

	r := gin.New()
	r.GET("/posts", pc.GetPosts)
	r.POST("/posts", pc.CreatePost)
	r.GET("/posts/:id", pc.GetPost)
	return r, repo
}

type formFile struct {
	name        string
	contentType string
	data        []byte
}

func multipartBody(t *testing.T, fields map[string]string, file *formFile) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)

	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}

	if file != nil {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", `form-data; name="image"; filename="`+file.name+`"`)
		header.Set("Content-Type", file.contentType)
		part, err := mw.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write(file.data)
		require.NoError(t, err)
	}

	require.NoError(t, mw.Close())
	return buf, mw.FormDataContentType()
}

func submitPost(t *testing.T, r *gin.Engine, fields map[string]string, file *formFile) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartBody(t, fields, file)
	req := httptest.NewRequest(http.MethodPost, "/posts", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreatePost_Bloom(t *testing.T) {
	r, repo := newPostTestRouter(t)

	w := submitPost(t, r, map[string]string{
		"displayName":  "Rose",
		"title":        "Cherry blossoms on 60th",
		"neighborhood": "mt-tabor",
		"needsIdHelp":  "on",
	}, &formFile{name: "bloom.jpg", contentType: "image/jpeg", data: []byte("jpegbytes")})

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created models.Post
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, models.PostTypeBloom, created.PostType)
	assert.True(t, created.NeedsIDHelp)
	assert.NotEmpty(t, created.ImageURL)
	assert.Equal(t, created.ImageURL, created.ThumbnailURL)

	stored := repo.GetPost(context.Background(), created.ID, false)
	require.NotNil(t, stored)
}

func TestCreatePost_MissingImage(t *testing.T) {
	r, _ := newPostTestRouter(t)

	w := submitPost(t, r, map[string]string{
		"displayName": "Rose",
		"title":       "No photo",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreatePost_FrostWarningWithoutImage(t *testing.T) {
	r, _ := newPostTestRouter(t)

	w := submitPost(t, r, map[string]string{
		"displayName": "Rose",
		"title":       "Cold night coming",
		"postType":    "frost-warning",
		"temperature": "28",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created models.Post
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, models.PostTypeFrostWarning, created.PostType)
	require.NotNil(t, created.Temperature)
	assert.Equal(t, 28, *created.Temperature)
}

func TestCreatePost_Validation(t *testing.T) {
	r, _ := newPostTestRouter(t)
	image := &formFile{name: "bloom.jpg", contentType: "image/jpeg", data: []byte("jpegbytes")}

	tests := []struct {
		name   string
		fields map[string]string
		file   *formFile
	}{
		{"missing display name", map[string]string{"title": "t"}, image},
		{"missing title", map[string]string{"displayName": "Rose"}, image},
		{"honeypot filled", map[string]string{"displayName": "Rose", "title": "t", "website": "spam"}, image},
		{"unknown post type", map[string]string{"displayName": "Rose", "title": "t", "postType": "haiku"}, image},
		{"unknown neighborhood", map[string]string{"displayName": "Rose", "title": "t", "neighborhood": "narnia"}, image},
		{"disallowed file type", map[string]string{"displayName": "Rose", "title": "t"},
			&formFile{name: "a.gif", contentType: "image/gif", data: []byte("gif")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := submitPost(t, r, tt.fields, tt.file)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestGetPosts_FilterQuery(t *testing.T) {
	r, repo := newPostTestRouter(t)
	ctx := context.Background()

	needsID := models.Post{
		ID: "p1", DisplayName: "Rose", Title: "What is this?",
		PostType: models.PostTypeBloom, NeedsIDHelp: true, CreatedAt: time.Now(),
	}
	plain := models.Post{
		ID: "p2", DisplayName: "Fern", Title: "Tulips",
		PostType: models.PostTypeBloom, CreatedAt: time.Now().Add(time.Second),
	}
	for _, p := range []models.Post{needsID, plain} {
		_, err := repo.CreatePost(ctx, p)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(http.MethodGet, "/posts?filter=needs-id", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var posts []models.Post
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &posts))
	require.Len(t, posts, 1)
	assert.Equal(t, "p1", posts[0].ID)
}

func TestGetPost_DeletedIs404(t *testing.T) {
	r, repo := newPostTestRouter(t)
	ctx := context.Background()

	_, err := repo.CreatePost(ctx, models.Post{
		ID: "p1", DisplayName: "Rose", Title: "Bloom",
		PostType: models.PostTypeBloom, CreatedAt: time.Now(),
	})
	require.NoError(t, err)
	_, err = repo.DeletePost(ctx, "p1", "admin")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/posts/p1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
