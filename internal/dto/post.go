package dto

// CreatePostRequest 发布公告
type CreatePostRequest struct {
	Title          string `json:"title" binding:"required,max=200"`
	Content        string `json:"content" binding:"required"`
	TargetAudience string `json:"target_audience" binding:"omitempty,oneof=ALL_EMPLOYEES MANAGERS_ONLY"`
}

// PostResponse 公告响应
type PostResponse struct {
	ID             string `json:"id"`
	BusinessUnitID string `json:"business_unit_id"`
	AuthorUserID   string `json:"author_user_id"`
	AuthorName     string `json:"author_name"`
	Title          string `json:"title"`
	Content        string `json:"content"`
	TargetAudience string `json:"target_audience"`
	CreatedAt      string `json:"created_at"`
}
