// File: /utils/validators.go
package utils

// Field length bounds for public submissions. Anything longer is a
// validation error at the boundary, never a repository concern.
const (
	MaxDisplayNameLength  = 100
	MaxTitleLength        = 200
	MaxBodyLength         = 5000
	MaxCaptionLength      = 300
	MaxSpeciesGuessLength = 200
	MaxCommentLength      = 1000
)

func IsValidDisplayName(name string) bool {
	return name != "" && len(name) <= MaxDisplayNameLength
}

func IsValidTitle(title string) bool {
	return title != "" && len(title) <= MaxTitleLength
}

func IsValidCommentContent(content string) bool {
	return content != "" && len(content) <= MaxCommentLength
}

// IsAllowedImageType restricts uploads to the formats phones actually
// produce.
func IsAllowedImageType(contentType string) bool {
	switch contentType {
	case "image/jpeg", "image/png", "image/heic":
		return true
	}
	return false
}
