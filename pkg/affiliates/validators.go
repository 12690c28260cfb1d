package affiliates

import (
	"github.com/orderof/catalog/pkg/models"
	"github.com/shopspring/decimal"
)

type ListLinksQuery struct {
	Active *bool `query:"active" json:"active,omitempty"`
}

type CreateLinkPayload struct {
	Platform     string              `json:"platform" mod:"trim,lcase" validate:"required,oneof=amazon spotify itunes steam other"`
	Region       *string             `json:"region,omitempty" mod:"trim,lcase" validate:"omitempty,oneof=uk us"`
	URL          string              `json:"url" mod:"trim" validate:"required,http_url"`
	AffiliateTag *string             `json:"affiliate_tag,omitempty" mod:"trim" validate:"omitempty,max=100"`
	Price        decimal.NullDecimal `json:"price"`
	Currency     *string             `json:"currency,omitempty" mod:"trim,ucase" validate:"omitempty,len=3"`
	IsActive     *bool               `json:"is_active,omitempty"`
}

type UpdateLinkPayload struct {
	Platform     *string          `json:"platform,omitempty" mod:"trim,lcase" validate:"omitempty,oneof=amazon spotify itunes steam other"`
	Region       *string          `json:"region,omitempty" mod:"trim,lcase" validate:"omitempty,oneof=uk us"`
	URL          *string          `json:"url,omitempty" mod:"trim" validate:"omitempty,http_url"`
	AffiliateTag *string          `json:"affiliate_tag,omitempty" mod:"trim" validate:"omitempty,max=100"`
	Price        *decimal.Decimal `json:"price,omitempty"`
	Currency     *string          `json:"currency,omitempty" mod:"trim,ucase" validate:"omitempty,len=3"`
	IsActive     *bool            `json:"is_active,omitempty"`
}

type ClickPayload struct {
	Timestamp *string `json:"timestamp,omitempty"`
}

type GenerateAmazonPayload struct {
	FranchiseID string  `json:"franchise_id" mod:"trim" validate:"required"`
	AmazonTagUK *string `json:"amazon_tag_uk,omitempty" mod:"trim" validate:"omitempty,max=100"`
	AmazonTagUS *string `json:"amazon_tag_us,omitempty" mod:"trim" validate:"omitempty,max=100"`
}

// BulkLinkEntry is left unvalidated; incomplete entries are skipped.
type BulkLinkEntry struct {
	ItemID       string              `json:"item_id"`
	Platform     string              `json:"platform"`
	Region       *string             `json:"region,omitempty"`
	URL          string              `json:"url"`
	AffiliateTag *string             `json:"affiliate_tag,omitempty"`
	Price        decimal.NullDecimal `json:"price"`
	Currency     *string             `json:"currency,omitempty"`
	IsActive     *bool               `json:"is_active,omitempty"`
}

type BulkCreatePayload struct {
	Links []BulkLinkEntry `json:"links" validate:"required,min=1"`
}

type ListLinksResponse struct {
	AffiliateLinks []*models.AffiliateLink `json:"affiliate_links"`
}

type ClickResponse struct {
	URL     string `json:"url"`
	Tracked bool   `json:"tracked"`
}

type GenerateResponse struct {
	Message      string                  `json:"message"`
	LinksCreated int                     `json:"links_created"`
	Links        []*models.AffiliateLink `json:"links"`
}

type BulkCreateResponse struct {
	Message string                  `json:"message"`
	Links   []*models.AffiliateLink `json:"links"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
