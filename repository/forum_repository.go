// File: /repository/forum_repository.go
package repository

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"tabor-blooms-api/models"
	"tabor-blooms-api/storage"
)

// Filter values accepted by ListPosts. Anything else is treated as a
// neighborhood name.
const (
	FilterRecent  = "recent"
	FilterNeedsID = "needs-id"
)

// ListOptions narrows and pages a post listing. At most one of the
// filter interpretations applies.
type ListOptions struct {
	IncludeDeleted bool
	Filter         string
	Limit          int
	Offset         int
}

// ForumRepository owns every read and write of the post and comment
// collections: soft-delete policy, derived comment counts, filtering
// and sort order all live here. Each operation reads a whole
// collection, mutates it in memory and writes the whole collection
// back. There is no locking and no transaction: two concurrent
// writers race and the later write silently wins. That is the
// documented contract of the document-overwrite model, kept on
// purpose.
type ForumRepository struct {
	store  storage.DocumentStore
	logger *zap.Logger
}

func NewForumRepository(store storage.DocumentStore, logger *zap.Logger) *ForumRepository {
	return &ForumRepository{store: store, logger: logger}
}

func (r *ForumRepository) readPosts(ctx context.Context) []models.Post {
	posts := []models.Post{}
	r.store.Read(ctx, storage.KeyPosts, &posts)
	for i := range posts {
		posts[i].Normalize()
	}
	return posts
}

func (r *ForumRepository) readComments(ctx context.Context) []models.Comment {
	comments := []models.Comment{}
	r.store.Read(ctx, storage.KeyComments, &comments)
	return comments
}

func countLiveComments(comments []models.Comment, postID string) int {
	n := 0
	for _, c := range comments {
		if c.PostID == postID && !c.IsDeleted {
			n++
		}
	}
	return n
}

// ListPosts returns a page of posts, newest first, with commentCount
// attached. Soft-deleted posts are excluded unless IncludeDeleted is
// set. The filter keeps either posts asking for ID help, posts from
// one neighborhood, or everything ("recent"/empty). An offset past
// the end yields an empty page.
func (r *ForumRepository) ListPosts(ctx context.Context, opts ListOptions) []models.Post {
	posts := r.readPosts(ctx)
	comments := r.readComments(ctx)

	filtered := make([]models.Post, 0, len(posts))
	for _, p := range posts {
		if p.IsDeleted && !opts.IncludeDeleted {
			continue
		}
		switch opts.Filter {
		case "", FilterRecent:
			// keep all
		case FilterNeedsID:
			if !p.NeedsIDHelp {
				continue
			}
		default:
			if p.Neighborhood != opts.Filter {
				continue
			}
		}
		p.CommentCount = countLiveComments(comments, p.ID)
		filtered = append(filtered, p)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})

	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}
	if offset >= len(filtered) {
		return []models.Post{}
	}

	end := len(filtered)
	if opts.Limit > 0 && offset+opts.Limit < end {
		end = offset + opts.Limit
	}

	return filtered[offset:end]
}

// GetPost returns the post with the given id, or nil when it does not
// exist or is soft-deleted and includeDeleted is false. The returned
// post carries its live comment count.
func (r *ForumRepository) GetPost(ctx context.Context, id string, includeDeleted bool) *models.Post {
	for _, p := range r.readPosts(ctx) {
		if p.ID != id {
			continue
		}
		if p.IsDeleted && !includeDeleted {
			return nil
		}
		p.CommentCount = countLiveComments(r.readComments(ctx), id)
		return &p
	}
	return nil
}

// CreatePost appends the post and persists the collection. Field
// validation is the boundary's job; the record is stored as given.
func (r *ForumRepository) CreatePost(ctx context.Context, post models.Post) (models.Post, error) {
	posts := r.readPosts(ctx)
	posts = append(posts, post)

	if err := r.store.Write(ctx, storage.KeyPosts, posts); err != nil {
		return models.Post{}, err
	}
	return post, nil
}

// DeletePost soft-deletes the post, stamping when and by whom. It
// returns false when the id is unknown and is otherwise idempotent:
// re-deleting just re-stamps.
func (r *ForumRepository) DeletePost(ctx context.Context, id, actor string) (bool, error) {
	posts := r.readPosts(ctx)

	idx := -1
	for i := range posts {
		if posts[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return false, nil
	}

	now := time.Now()
	posts[idx].IsDeleted = true
	posts[idx].DeletedAt = &now
	posts[idx].DeletedBy = actor

	if err := r.store.Write(ctx, storage.KeyPosts, posts); err != nil {
		return false, err
	}
	return true, nil
}

// ListComments returns the comments on a post, oldest first. Posts
// list newest first; comments read top to bottom like a conversation.
func (r *ForumRepository) ListComments(ctx context.Context, postID string, includeDeleted bool) []models.Comment {
	comments := r.readComments(ctx)

	filtered := make([]models.Comment, 0, len(comments))
	for _, c := range comments {
		if c.PostID != postID {
			continue
		}
		if c.IsDeleted && !includeDeleted {
			continue
		}
		filtered = append(filtered, c)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].CreatedAt.Before(filtered[j].CreatedAt)
	})

	return filtered
}

// CreateComment appends the comment and persists the collection. The
// caller must already have checked that the parent post exists and is
// not soft-deleted.
func (r *ForumRepository) CreateComment(ctx context.Context, comment models.Comment) (models.Comment, error) {
	comments := r.readComments(ctx)
	comments = append(comments, comment)

	if err := r.store.Write(ctx, storage.KeyComments, comments); err != nil {
		return models.Comment{}, err
	}
	return comment, nil
}

// DeleteComment flips the soft-delete flag only. Unlike post
// deletion, no actor or timestamp is recorded; the asymmetry is
// long-standing observable behavior and kept as is.
func (r *ForumRepository) DeleteComment(ctx context.Context, id string) (bool, error) {
	comments := r.readComments(ctx)

	idx := -1
	for i := range comments {
		if comments[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return false, nil
	}

	comments[idx].IsDeleted = true

	if err := r.store.Write(ctx, storage.KeyComments, comments); err != nil {
		return false, err
	}
	return true, nil
}

// Stats recomputes the moderation dashboard counts from scratch on
// every call. Totals and this-week figures cover live records; the
// deleted figures count the soft-deleted remainder.
func (r *ForumRepository) Stats(ctx context.Context) models.AdminStats {
	posts := r.readPosts(ctx)
	comments := r.readComments(ctx)

	weekAgo := time.Now().AddDate(0, 0, -7)
	var stats models.AdminStats

	for _, p := range posts {
		if p.IsDeleted {
			stats.DeletedPosts++
			continue
		}
		stats.TotalPosts++
		if p.CreatedAt.After(weekAgo) {
			stats.PostsThisWeek++
		}
	}

	for _, c := range comments {
		if c.IsDeleted {
			stats.DeletedComments++
			continue
		}
		stats.TotalComments++
		if c.CreatedAt.After(weekAgo) {
			stats.CommentsThisWeek++
		}
	}

	return stats
}
