package transport

import "time"

type CreateArticleRequest struct {
	Title     string `json:"title" validate:"required,min=3,max=200"`
	Summary   string `json:"summary" validate:"max=500"`
	Body      string `json:"body" validate:"required,max=50000"`
	Published bool   `json:"published"`
}

type UpdateArticleRequest struct {
	Title   *string `json:"title" validate:"omitempty,min=3,max=200"`
	Summary *string `json:"summary" validate:"omitempty,max=500"`
	Body    *string `json:"body" validate:"omitempty,min=1,max=50000"`
}

type PublishRequest struct {
	Published *bool `json:"published" validate:"required"`
}

type ListQuery struct {
	Page     int    `form:"page" validate:"omitempty,min=1"`
	PageSize int    `form:"pageSize" validate:"omitempty,min=1,max=100"`
	Search   string `form:"search" validate:"max=100"`
}

type ArticleResponse struct {
	ID          string     `json:"id"`
	AuthorID    string     `json:"authorId"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Summary     string     `json:"summary"`
	Body        string     `json:"body,omitempty"`
	Published   bool       `json:"published"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type ArticleListResponse struct {
	Items      []ArticleResponse `json:"items"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"pageSize"`
	TotalPages int               `json:"totalPages"`
}
