package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tabor-blooms-api/models"
	"tabor-blooms-api/storage"
)

func newTestRepo(t *testing.T) (*ForumRepository, string) {
	t.Helper()
	dir := t.TempDir()
	store := storage.NewLocalStore(dir, zap.NewNop())
	return NewForumRepository(store, zap.NewNop()), dir
}

func makePost(title string, createdAt time.Time) models.Post {
	return models.Post{
		ID:          "post-" + title,
		ImageURL:    "/uploads/posts/" + title + "/original.jpg",
		DisplayName: "Rose",
		Title:       title,
		PostType:    models.PostTypeBloom,
		CreatedAt:   createdAt,
	}
}

func TestListPosts_ExcludesSoftDeleted(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.CreatePost(ctx, makePost("a", time.Now()))
	require.NoError(t, err)
	_, err = repo.CreatePost(ctx, makePost("b", time.Now().Add(time.Second)))
	require.NoError(t, err)

	ok, err := repo.DeletePost(ctx, "post-a", "admin")
	require.NoError(t, err)
	require.True(t, ok)

	posts := repo.ListPosts(ctx, ListOptions{})
	require.Len(t, posts, 1)
	assert.Equal(t, "post-b", posts[0].ID)

	// The record is still there for anyone allowed to see it.
	deleted := repo.GetPost(ctx, "post-a", true)
	require.NotNil(t, deleted)
	assert.True(t, deleted.IsDeleted)
	assert.Equal(t, "admin", deleted.DeletedBy)
	require.NotNil(t, deleted.DeletedAt)

	// But not for the public detail view.
	assert.Nil(t, repo.GetPost(ctx, "post-a", false))
}

func TestListPosts_NeedsIDFilterAndOrder(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	base := time.Now()
	older := makePost("older", base)
	older.NeedsIDHelp = true
	newer := makePost("newer", base.Add(time.Hour))
	newer.NeedsIDHelp = true
	plain := makePost("plain", base.Add(2*time.Hour))

	for _, p := range []models.Post{older, newer, plain} {
		_, err := repo.CreatePost(ctx, p)
		require.NoError(t, err)
	}

	posts := repo.ListPosts(ctx, ListOptions{Filter: FilterNeedsID})
	require.Len(t, posts, 2)
	assert.Equal(t, "post-newer", posts[0].ID)
	assert.Equal(t, "post-older", posts[1].ID)
}

func TestListPosts_NeighborhoodFilter(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	tabor := makePost("tabor", time.Now())
	tabor.Neighborhood = "mt-tabor"
	richmond := makePost("richmond", time.Now())
	richmond.Neighborhood = "richmond"

	for _, p := range []models.Post{tabor, richmond} {
		_, err := repo.CreatePost(ctx, p)
		require.NoError(t, err)
	}

	posts := repo.ListPosts(ctx, ListOptions{Filter: "mt-tabor"})
	require.Len(t, posts, 1)
	assert.Equal(t, "post-tabor", posts[0].ID)
}

func TestListPosts_OffsetPastEndIsEmpty(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.CreatePost(ctx, makePost("only", time.Now()))
	require.NoError(t, err)

	assert.Empty(t, repo.ListPosts(ctx, ListOptions{Limit: 10, Offset: 5}))
}

func TestListPosts_Pagination(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	base := time.Now()
	for i, title := range []string{"a", "b", "c", "d"} {
		_, err := repo.CreatePost(ctx, makePost(title, base.Add(time.Duration(i)*time.Minute)))
		require.NoError(t, err)
	}

	page := repo.ListPosts(ctx, ListOptions{Limit: 2, Offset: 1})
	require.Len(t, page, 2)
	assert.Equal(t, "post-c", page[0].ID)
	assert.Equal(t, "post-b", page[1].ID)
}

func TestCommentCount_RoundTrip(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	post, err := repo.CreatePost(ctx, makePost("counted", time.Now()))
	require.NoError(t, err)

	const n = 5
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		c, err := repo.CreateComment(ctx, models.Comment{
			ID:          uuidLike("c", i),
			PostID:      post.ID,
			DisplayName: "Fern",
			Content:     "lovely",
			CreatedAt:   time.Now().Add(time.Duration(i) * time.Second),
		})
		require.NoError(t, err)
		ids = append(ids, c.ID)
	}

	const m = 2
	for i := 0; i < m; i++ {
		ok, err := repo.DeleteComment(ctx, ids[i])
		require.NoError(t, err)
		require.True(t, ok)
	}

	got := repo.GetPost(ctx, post.ID, false)
	require.NotNil(t, got)
	assert.Equal(t, n-m, got.CommentCount)
}

func TestDeletePost_Idempotent(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.CreatePost(ctx, makePost("twice", time.Now()))
	require.NoError(t, err)

	ok, err := repo.DeletePost(ctx, "post-twice", "admin")
	require.NoError(t, err)
	assert.True(t, ok)

	first := repo.GetPost(ctx, "post-twice", true)
	require.NotNil(t, first)
	firstStamp := *first.DeletedAt

	ok, err = repo.DeletePost(ctx, "post-twice", "admin")
	require.NoError(t, err)
	assert.True(t, ok)

	second := repo.GetPost(ctx, "post-twice", true)
	require.NotNil(t, second)
	assert.True(t, second.IsDeleted)
	assert.False(t, second.DeletedAt.Before(firstStamp))
}

func TestDeletePost_UnknownID(t *testing.T) {
	repo, _ := newTestRepo(t)

	ok, err := repo.DeletePost(context.Background(), "nope", "admin")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestListComments_OrderAndSuperset(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	post, err := repo.CreatePost(ctx, makePost("threaded", time.Now()))
	require.NoError(t, err)

	base := time.Now()
	for i := 0; i < 3; i++ {
		_, err := repo.CreateComment(ctx, models.Comment{
			ID:          uuidLike("c", i),
			PostID:      post.ID,
			DisplayName: "Moss",
			Content:     "reply",
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	ok, err := repo.DeleteComment(ctx, uuidLike("c", 1))
	require.NoError(t, err)
	require.True(t, ok)

	visible := repo.ListComments(ctx, post.ID, false)
	require.Len(t, visible, 2)
	assert.True(t, visible[0].CreatedAt.Before(visible[1].CreatedAt), "comments read oldest first")

	all := repo.ListComments(ctx, post.ID, true)
	require.Len(t, all, 3)

	// Comment deletion records no actor or timestamp; only the flag
	// flips. Long-standing asymmetry with post deletion.
	assert.True(t, all[1].IsDeleted)

	seen := map[string]bool{}
	for _, c := range all {
		seen[c.ID] = true
	}
	for _, c := range visible {
		assert.True(t, seen[c.ID], "visible comments must be a subset of the full listing")
	}
}

func TestGetPost_LegacyRecordDefaultsToBloom(t *testing.T) {
	repo, dir := newTestRepo(t)
	ctx := context.Background()

	// A record written before the postType field existed.
	legacy := `[{"id":"legacy-1","imageUrl":"/img.jpg","thumbnailUrl":"/img.jpg",` +
		`"displayName":"Old Timer","caption":"spring 2021",` +
		`"needsIdHelp":false,"createdAt":"2021-04-01T10:00:00Z","isDeleted":false}]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "posts.json"), []byte(legacy), 0o644))

	post := repo.GetPost(ctx, "legacy-1", false)
	require.NotNil(t, post)
	assert.Equal(t, models.PostTypeBloom, post.PostType)
	assert.Equal(t, "spring 2021", post.DisplayTitle())
}

func TestStats(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	fresh := makePost("fresh", time.Now().Add(-time.Hour))
	stale := makePost("stale", time.Now().AddDate(0, 0, -30))
	gone := makePost("gone", time.Now())

	for _, p := range []models.Post{fresh, stale, gone} {
		_, err := repo.CreatePost(ctx, p)
		require.NoError(t, err)
	}
	_, err := repo.DeletePost(ctx, "post-gone", "admin")
	require.NoError(t, err)

	_, err = repo.CreateComment(ctx, models.Comment{
		ID: "c-1", PostID: "post-fresh", DisplayName: "Ivy", Content: "hi",
		CreatedAt: time.Now(),
	})
	require.NoError(t, err)
	_, err = repo.CreateComment(ctx, models.Comment{
		ID: "c-2", PostID: "post-fresh", DisplayName: "Ivy", Content: "bye",
		CreatedAt: time.Now(),
	})
	require.NoError(t, err)
	_, err = repo.DeleteComment(ctx, "c-2")
	require.NoError(t, err)

	stats := repo.Stats(ctx)
	assert.Equal(t, 2, stats.TotalPosts)
	assert.Equal(t, 1, stats.PostsThisWeek)
	assert.Equal(t, 1, stats.DeletedPosts)
	assert.Equal(t, 1, stats.TotalComments)
	assert.Equal(t, 1, stats.CommentsThisWeek)
	assert.Equal(t, 1, stats.DeletedComments)
}

// Two writers that interleave read-append-write on the same
// collection race; the later write may discard the earlier append,
// but the stored document must stay parseable either way.
func TestConcurrentAppend_LastWriterWinsNeverCorrupts(t *testing.T) {
	dir := t.TempDir()
	store := storage.NewLocalStore(dir, zap.NewNop())
	repo := NewForumRepository(store, zap.NewNop())
	ctx := context.Background()

	post, err := repo.CreatePost(ctx, makePost("contested", time.Now()))
	require.NoError(t, err)

	// Both writers snapshot the collection before either write lands.
	first := []models.Comment{}
	store.Read(ctx, storage.KeyComments, &first)
	second := []models.Comment{}
	store.Read(ctx, storage.KeyComments, &second)

	first = append(first, models.Comment{
		ID: "c-first", PostID: post.ID, DisplayName: "Ivy", Content: "one",
		CreatedAt: time.Now(),
	})
	second = append(second, models.Comment{
		ID: "c-second", PostID: post.ID, DisplayName: "Moss", Content: "two",
		CreatedAt: time.Now(),
	})

	require.NoError(t, store.Write(ctx, storage.KeyComments, first))
	require.NoError(t, store.Write(ctx, storage.KeyComments, second))

	// The collection parses and reflects the last writer's view.
	comments := repo.ListComments(ctx, post.ID, true)
	require.Len(t, comments, 1)
	assert.Equal(t, "c-second", comments[0].ID)
}

// uuidLike keeps test ids readable.
func uuidLike(prefix string, i int) string {
	return prefix + "-" + string(rune('a'+i))
}
