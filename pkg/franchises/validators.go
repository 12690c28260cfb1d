package franchises

import "github.com/orderof/catalog/pkg/models"

type ListFranchisesQuery struct {
	Limit    int     `query:"limit" json:"limit,omitempty" default:"20" validate:"min=1,max=100"`
	Offset   int     `query:"offset" json:"offset,omitempty" validate:"min=0"`
	Category *string `query:"category" json:"category,omitempty" validate:"omitempty,oneof=movies series games books music cars anime other"`
	Search   *string `query:"search" json:"search,omitempty" mod:"trim" validate:"omitempty,max=100"`
}

type CategoryFranchisesQuery struct {
	Limit  int `query:"limit" json:"limit,omitempty" default:"20" validate:"min=1,max=100"`
	Offset int `query:"offset" json:"offset,omitempty" validate:"min=0"`
}

type PopularQuery struct {
	Category *string `query:"category" json:"category,omitempty" validate:"omitempty,oneof=movies series games books music cars anime other"`
	Limit    int     `query:"limit" json:"limit,omitempty" default:"10" validate:"min=1,max=100"`
}

type CreateFranchisePayload struct {
	Name            string  `json:"name" mod:"trim" validate:"required,max=200"`
	Category        string  `json:"category" mod:"trim" validate:"required,oneof=movies series games books music cars anime other"`
	Description     *string `json:"description,omitempty" mod:"trim" validate:"omitempty,max=5000"`
	ImageURL        *string `json:"image_url,omitempty" mod:"trim" validate:"omitempty,http_url"`
	PopularityScore int     `json:"popularity_score,omitempty" validate:"min=0"`
}

type UpdateFranchisePayload struct {
	Name            *string `json:"name,omitempty" mod:"trim" validate:"omitempty,max=200"`
	Category        *string `json:"category,omitempty" mod:"trim" validate:"omitempty,oneof=movies series games books music cars anime other"`
	Description     *string `json:"description,omitempty" mod:"trim" validate:"omitempty,max=5000"`
	ImageURL        *string `json:"image_url,omitempty" mod:"trim" validate:"omitempty,http_url"`
	PopularityScore *int    `json:"popularity_score,omitempty" validate:"omitempty,min=0"`
}

type CreateItemPayload struct {
	Title       string          `json:"title" mod:"trim" validate:"required,max=300"`
	Description *string         `json:"description,omitempty" mod:"trim" validate:"omitempty,max=5000"`
	ReleaseDate *string         `json:"release_date,omitempty" mod:"trim" validate:"omitempty,date"`
	ImageURL    *string         `json:"image_url,omitempty" mod:"trim" validate:"omitempty,http_url"`
	ExternalID  *string         `json:"external_id,omitempty" mod:"trim" validate:"omitempty,max=100"`
	Rating      *float64        `json:"rating,omitempty" validate:"omitempty,min=0"`
	Metadata    models.Metadata `json:"metadata,omitempty"`
}

type CreateOrderPayload struct {
	OrderType   string  `json:"order_type" mod:"trim" validate:"required,max=50"`
	Name        *string `json:"name,omitempty" mod:"trim" validate:"omitempty,max=200"`
	Description *string `json:"description,omitempty" mod:"trim" validate:"omitempty,max=2000"`
	IsOfficial  bool    `json:"is_official"`
}

type ListFranchisesResponse struct {
	Franchises []*models.Franchise `json:"franchises"`
	Total      int                 `json:"total"`
	Limit      int                 `json:"limit"`
	Offset     int                 `json:"offset"`
}

type CategoryFranchisesResponse struct {
	Category   string              `json:"category"`
	Franchises []*models.Franchise `json:"franchises"`
	Total      int                 `json:"total"`
	Limit      int                 `json:"limit"`
	Offset     int                 `json:"offset"`
}

type PopularResponse struct {
	Category   *string             `json:"category"`
	Franchises []*models.Franchise `json:"franchises"`
}

type FranchiseItemsResponse struct {
	Franchise *models.Franchise `json:"franchise"`
	Items     []*models.Item    `json:"items"`
}

type FranchiseOrdersResponse struct {
	Franchise *models.Franchise `json:"franchise"`
	Orders    []*models.Order   `json:"orders"`
}

type FranchiseOrderResponse struct {
	Franchise *models.Franchise `json:"franchise"`
	Order     *models.Order     `json:"order"`
}
