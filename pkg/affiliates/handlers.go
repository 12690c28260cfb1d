package affiliates

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/orderof/catalog/pkg/items"
	"github.com/orderof/catalog/pkg/models"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/shopspring/decimal"
)

type handler struct {
	linkService *Service
	itemService *items.Service
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListLinksQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	item, err := h.itemService.RetrieveItemByID(ctx, c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}

	links, err := h.linkService.ListLinks(ctx, ListLinksOptions{
		ItemID:     &item.ID,
		ActiveOnly: params.Active != nil && *params.Active,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, ListLinksResponse{AffiliateLinks: links}))
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateLinkPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	item, err := h.itemService.RetrieveItemByID(ctx, c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}

	link := &models.AffiliateLink{
		ItemID:       item.ID,
		Platform:     params.Platform,
		Region:       params.Region,
		URL:          params.URL,
		AffiliateTag: params.AffiliateTag,
		Price:        params.Price,
		Currency:     params.Currency,
		IsActive:     params.IsActive == nil || *params.IsActive,
	}
	if err := h.linkService.CreateLink(ctx, link); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, link))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()

	params := UpdateLinkPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	link, err := h.linkService.RetrieveLink(ctx, c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}

	opts := UpdateLinkOptions{Columns: []string{}}
	if params.Platform != nil && *params.Platform != link.Platform {
		link.Platform = *params.Platform
		opts.Columns = append(opts.Columns, "platform")
	}
	if params.Region != nil {
		link.Region = params.Region
		opts.Columns = append(opts.Columns, "region")
	}
	if params.URL != nil && *params.URL != link.URL {
		link.URL = *params.URL
		opts.Columns = append(opts.Columns, "url")
	}
	if params.AffiliateTag != nil {
		link.AffiliateTag = params.AffiliateTag
		opts.Columns = append(opts.Columns, "affiliate_tag")
	}
	if params.Price != nil {
		link.Price = decimal.NewNullDecimal(*params.Price)
		opts.Columns = append(opts.Columns, "price")
	}
	if params.Currency != nil {
		link.Currency = params.Currency
		opts.Columns = append(opts.Columns, "currency")
	}
	if params.IsActive != nil && *params.IsActive != link.IsActive {
		link.IsActive = *params.IsActive
		opts.Columns = append(opts.Columns, "is_active")
	}

	if err := h.linkService.UpdateLink(ctx, link, opts); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, link))
}

func (h *handler) deleteLink(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.linkService.DeleteLink(ctx, c.Param("id")); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, MessageResponse{Message: "Affiliate link deleted successfully"}))
}

func (h *handler) click(c echo.Context) error {
	ctx := c.Request().Context()

	// The click body is optional.
	c.Set("disallow_empty_body", false)
	params := ClickPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	link, err := h.linkService.RetrieveLink(ctx, c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}

	data := logger.Data{
		"link_id":    link.ID,
		"item_id":    link.ItemID,
		"platform":   link.Platform,
		"url":        link.URL,
		"user_agent": c.Request().UserAgent(),
		"referrer":   c.Request().Referer(),
	}
	if params.Timestamp != nil {
		data["timestamp"] = *params.Timestamp
	}
	logger.FromContext(ctx).Info("affiliate click", data)

	return errors.WithStack(c.JSON(http.StatusOK, ClickResponse{URL: link.URL, Tracked: true}))
}

func (h *handler) generateAmazon(c echo.Context) error {
	ctx := c.Request().Context()

	params := GenerateAmazonPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	tags := map[string]string{}
	if params.AmazonTagUK != nil {
		tags[models.RegionUK] = *params.AmazonTagUK
	}
	if params.AmazonTagUS != nil {
		tags[models.RegionUS] = *params.AmazonTagUS
	}

	links, err := h.linkService.GenerateForFranchise(ctx, GenerateOptions{
		FranchiseID: params.FranchiseID,
		Tags:        tags,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	logger.FromContext(ctx).Info("generated amazon links", logger.Data{"franchise_id": params.FranchiseID, "links_created": len(links)})

	return errors.WithStack(c.JSON(http.StatusCreated, GenerateResponse{
		Message:      fmt.Sprintf("Generated %d Amazon affiliate links", len(links)),
		LinksCreated: len(links),
		Links:        links,
	}))
}

func (h *handler) bulkCreate(c echo.Context) error {
	ctx := c.Request().Context()

	params := BulkCreatePayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	links := make([]*models.AffiliateLink, 0, len(params.Links))
	for _, entry := range params.Links {
		links = append(links, &models.AffiliateLink{
			ItemID:       entry.ItemID,
			Platform:     entry.Platform,
			Region:       entry.Region,
			URL:          entry.URL,
			AffiliateTag: entry.AffiliateTag,
			Price:        entry.Price,
			Currency:     entry.Currency,
			IsActive:     entry.IsActive == nil || *entry.IsActive,
		})
	}

	created, err := h.linkService.BulkCreate(ctx, links)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, BulkCreateResponse{
		Message: fmt.Sprintf("Created %d affiliate links", len(created)),
		Links:   created,
	}))
}

func (h *handler) stats(c echo.Context) error {
	ctx := c.Request().Context()

	stats, err := h.linkService.Stats(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, stats))
}
