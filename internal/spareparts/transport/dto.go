package transport

import "time"

type CreatePartRequest struct {
	Name           string  `json:"name" validate:"required,min=2,max=200"`
	Description    string  `json:"description" validate:"max=5000"`
	Category       string  `json:"category" validate:"required,partcategory"`
	Brand          string  `json:"brand" validate:"required,max=100"`
	PartNumber     *string `json:"partNumber" validate:"omitempty,max=100"`
	CompatibleMake *string `json:"compatibleMake" validate:"omitempty,vehiclemake"`
	Condition      string  `json:"condition" validate:"required,partcondition"`
	Price          float64 `json:"price" validate:"required,gt=0"`
	StockQuantity  int     `json:"stockQuantity" validate:"gte=0"`
}

// UpdatePartRequest is a partial update; omitted fields keep their value and
// an empty partNumber or compatibleMake clears it.
type UpdatePartRequest struct {
	Name           *string  `json:"name" validate:"omitempty,min=2,max=200"`
	Description    *string  `json:"description" validate:"omitempty,max=5000"`
	Category       *string  `json:"category" validate:"omitempty,partcategory"`
	Brand          *string  `json:"brand" validate:"omitempty,max=100"`
	PartNumber     *string  `json:"partNumber" validate:"omitempty,max=100"`
	CompatibleMake *string  `json:"compatibleMake" validate:"omitempty,vehiclemake"`
	Condition      *string  `json:"condition" validate:"omitempty,partcondition"`
	Price          *float64 `json:"price" validate:"omitempty,gt=0"`
	StockQuantity  *int     `json:"stockQuantity" validate:"omitempty,gte=0"`
}

type PageQuery struct {
	Page      int    `form:"page" validate:"omitempty,min=1"`
	PageSize  int    `form:"pageSize" validate:"omitempty,min=1,max=100"`
	SortBy    string `form:"sortBy" validate:"omitempty,oneof=createdAt name price stock"`
	SortOrder string `form:"sortOrder" validate:"omitempty,oneof=asc desc"`
}

var PageQueryKeys = []string{"page", "pageSize", "sortBy", "sortOrder"}

type SearchPartsRequest struct {
	Criteria  map[string]any `json:"criteria"`
	Page      int            `json:"page" validate:"omitempty,min=1"`
	PageSize  int            `json:"pageSize" validate:"omitempty,min=1,max=100"`
	SortBy    string         `json:"sortBy" validate:"omitempty,oneof=createdAt name price stock"`
	SortOrder string         `json:"sortOrder" validate:"omitempty,oneof=asc desc"`
}

type PartResponse struct {
	ID             string    `json:"id"`
	SellerID       string    `json:"sellerId"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	Category       string    `json:"category"`
	Brand          string    `json:"brand"`
	PartNumber     *string   `json:"partNumber,omitempty"`
	CompatibleMake *string   `json:"compatibleMake,omitempty"`
	Condition      string    `json:"condition"`
	Price          float64   `json:"price"`
	StockQuantity  int       `json:"stockQuantity"`
	InStock        bool      `json:"inStock"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type PartListResponse struct {
	Items      []PartResponse `json:"items"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"pageSize"`
	TotalPages int            `json:"totalPages"`
}
