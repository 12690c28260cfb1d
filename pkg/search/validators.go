package search

import "github.com/orderof/catalog/pkg/models"

type SearchQuery struct {
	Query    string  `query:"q" json:"q" mod:"trim" validate:"required,max=100"`
	Category *string `query:"category" json:"category,omitempty" validate:"omitempty,oneof=movies series games books music cars anime other"`
	Limit    int     `query:"limit" json:"limit,omitempty" default:"20" validate:"min=1,max=100"`
	Offset   int     `query:"offset" json:"offset,omitempty" validate:"min=0"`
}

type SearchResponse struct {
	Query      string              `json:"query"`
	Category   *string             `json:"category"`
	Franchises []*models.Franchise `json:"franchises"`
	Items      []*models.Item      `json:"items"`
}
