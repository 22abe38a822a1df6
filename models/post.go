// File: /models/post.go
package models

import (
	"time"
)

// PostType distinguishes the two submission variants.
type PostType string

const (
	PostTypeBloom        PostType = "bloom"
	PostTypeFrostWarning PostType = "frost-warning"
)

// IsValidPostType reports whether t is one of the known variants.
func IsValidPostType(t PostType) bool {
	return t == PostTypeBloom || t == PostTypeFrostWarning
}

// Post is a forum submission. Records are written once and only ever
// mutated to flip the soft-delete flag. The JSON tags double as the
// persisted document format, so they must stay stable.
type Post struct {
	ID           string     `json:"id"`
	ImageURL     string     `json:"imageUrl"`
	ThumbnailURL string     `json:"thumbnailUrl"`
	PostType     PostType   `json:"postType,omitempty"`
	DisplayName  string     `json:"displayName"`
	Title        string     `json:"title"`
	Body         string     `json:"body,omitempty"`
	Caption      string     `json:"caption,omitempty"`
	Neighborhood string     `json:"neighborhood,omitempty"`
	SpeciesGuess string     `json:"speciesGuess,omitempty"`
	NeedsIDHelp  bool       `json:"needsIdHelp"`
	Temperature  *int       `json:"temperature,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	IsDeleted    bool       `json:"isDeleted"`
	DeletedAt    *time.Time `json:"deletedAt,omitempty"`
	DeletedBy    string     `json:"deletedBy,omitempty"`

	// CommentCount is derived on every read, never authoritative in storage.
	CommentCount int `json:"commentCount"`
}

// Normalize fills defaults for fields that older records may lack.
// Records written before the frost-warning variant existed carry no
// postType and read back as blooms.
func (p *Post) Normalize() {
	if p.PostType == "" {
		p.PostType = PostTypeBloom
	}
}

// DisplayTitle falls back to the legacy caption for records created
// before the title field became required.
func (p *Post) DisplayTitle() string {
	if p.Title != "" {
		return p.Title
	}
	if p.Caption != "" {
		return p.Caption
	}
	return "Untitled post"
}

// Neighborhoods is the closed set of accepted neighborhood values.
var Neighborhoods = []string{
	"mt-tabor",
	"montavilla",
	"richmond",
	"division",
	"hawthorne",
	"sellwood",
	"other",
}

// IsValidNeighborhood reports whether n is in the closed set.
func IsValidNeighborhood(n string) bool {
	for _, v := range Neighborhoods {
		if v == n {
			return true
		}
	}
	return false
}
