package transport

import "time"

type CreateListingRequest struct {
	Title        string  `json:"title" validate:"required,min=3,max=200"`
	Description  string  `json:"description" validate:"max=5000"`
	Make         string  `json:"make" validate:"required,vehiclemake"`
	Model        string  `json:"model" validate:"required,max=100"`
	Year         int     `json:"year" validate:"required,gte=1900,lte=2100"`
	Price        float64 `json:"price" validate:"required,gt=0"`
	Mileage      int     `json:"mileage" validate:"gte=0"`
	FuelType     string  `json:"fuelType" validate:"required,fueltype"`
	Transmission string  `json:"transmission" validate:"required,transmission"`
	BodyType     string  `json:"bodyType" validate:"required,bodytype"`
	Condition    string  `json:"condition" validate:"required,vehiclecondition"`
	Color        *string `json:"color" validate:"omitempty,max=50"`
	City         *string `json:"city" validate:"omitempty,max=100"`
}

// UpdateListingRequest is a partial update; omitted fields keep their value.
type UpdateListingRequest struct {
	Title        *string  `json:"title" validate:"omitempty,min=3,max=200"`
	Description  *string  `json:"description" validate:"omitempty,max=5000"`
	Make         *string  `json:"make" validate:"omitempty,vehiclemake"`
	Model        *string  `json:"model" validate:"omitempty,max=100"`
	Year         *int     `json:"year" validate:"omitempty,gte=1900,lte=2100"`
	Price        *float64 `json:"price" validate:"omitempty,gt=0"`
	Mileage      *int     `json:"mileage" validate:"omitempty,gte=0"`
	FuelType     *string  `json:"fuelType" validate:"omitempty,fueltype"`
	Transmission *string  `json:"transmission" validate:"omitempty,transmission"`
	BodyType     *string  `json:"bodyType" validate:"omitempty,bodytype"`
	Condition    *string  `json:"condition" validate:"omitempty,vehiclecondition"`
	Color        *string  `json:"color" validate:"omitempty,max=50"`
	City         *string  `json:"city" validate:"omitempty,max=100"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active sold archived"`
}

// PageQuery holds the pagination and sort keys of a listing query string.
type PageQuery struct {
	Page      int    `form:"page" validate:"omitempty,min=1"`
	PageSize  int    `form:"pageSize" validate:"omitempty,min=1,max=100"`
	SortBy    string `form:"sortBy" validate:"omitempty,oneof=createdAt price year mileage title"`
	SortOrder string `form:"sortOrder" validate:"omitempty,oneof=asc desc"`
}

// Reserved query keys that are not filter criteria.
var PageQueryKeys = []string{"page", "pageSize", "sortBy", "sortOrder"}

// SearchListingsRequest is the JSON body of POST /listings/search.
type SearchListingsRequest struct {
	Criteria  map[string]any `json:"criteria"`
	Page      int            `json:"page" validate:"omitempty,min=1"`
	PageSize  int            `json:"pageSize" validate:"omitempty,min=1,max=100"`
	SortBy    string         `json:"sortBy" validate:"omitempty,oneof=createdAt price year mileage title"`
	SortOrder string         `json:"sortOrder" validate:"omitempty,oneof=asc desc"`
}

type ListingResponse struct {
	ID           string    `json:"id"`
	SellerID     string    `json:"sellerId"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Make         string    `json:"make"`
	Model        string    `json:"model"`
	Year         int       `json:"year"`
	Price        float64   `json:"price"`
	Mileage      int       `json:"mileage"`
	FuelType     string    `json:"fuelType"`
	Transmission string    `json:"transmission"`
	BodyType     string    `json:"bodyType"`
	Condition    string    `json:"condition"`
	Color        *string   `json:"color,omitempty"`
	City         *string   `json:"city,omitempty"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type ListingListResponse struct {
	Items      []ListingResponse `json:"items"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"pageSize"`
	TotalPages int               `json:"totalPages"`
}
