package models

import (
	"time"
)

// Comment belongs to a post and may reference a parent comment for one
// level of nesting. Comments are never hard-deleted; isDeleted hides
// them from listings and counts but preserves the record.
type Comment struct {
	ID              string    `json:"id"`
	PostID          string    `json:"postId"`
	ParentCommentID string    `json:"parentCommentId,omitempty"`
	DisplayName     string    `json:"displayName"`
	Content         string    `json:"content"`
	CreatedAt       time.Time `json:"createdAt"`
	IsDeleted       bool      `json:"isDeleted"`
}

// IsReply reports whether the comment is nested under another comment.
func (c *Comment) IsReply() bool {
	return c.ParentCommentID != ""
}
