package dto

type SearchPostsQuery struct {
	Q     string `form:"q" binding:"required,max=200"`
	Limit int    `form:"limit" binding:"omitempty,min=1,max=50"`
}

type PostHit struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	AuthorID  string `json:"author_id"`
	CreatedAt int64  `json:"created_at"`
}

type SearchPostsResponse struct {
	Data  []PostHit `json:"data"`
	Query string    `json:"query"`
}
