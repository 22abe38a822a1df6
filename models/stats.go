package models

// AdminStats is the moderation dashboard summary. Total and this-week
// figures count live records only; deleted records are reported
// separately.
type AdminStats struct {
	TotalPosts       int `json:"totalPosts"`
	PostsThisWeek    int `json:"postsThisWeek"`
	TotalComments    int `json:"totalComments"`
	CommentsThisWeek int `json:"commentsThisWeek"`
	DeletedPosts     int `json:"deletedPosts"`
	DeletedComments  int `json:"deletedComments"`
}
