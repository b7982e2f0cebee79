package transport

import "time"

type CreateReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

type PageQuery struct {
	Page     int `form:"page" validate:"omitempty,min=1"`
	PageSize int `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

type ReviewResponse struct {
	ID         string    `json:"id"`
	ListingID  string    `json:"listingId"`
	AuthorID   string    `json:"authorId"`
	AuthorName string    `json:"authorName"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"createdAt"`
}

type ReviewListResponse struct {
	Items         []ReviewResponse `json:"items"`
	Total         int              `json:"total"`
	AverageRating float64          `json:"averageRating"`
	Page          int              `json:"page"`
	PageSize      int              `json:"pageSize"`
}
