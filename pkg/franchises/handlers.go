package franchises

import (
	"net/http"

	"github.com/iancoleman/strcase"
	"github.com/labstack/echo/v4"
	"github.com/orderof/catalog/pkg/items"
	"github.com/orderof/catalog/pkg/models"
	"github.com/orderof/catalog/pkg/orders"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
)

type handler struct {
	franchiseService *Service
	itemService      *items.Service
	orderService     *orders.Service
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListFranchisesQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	franchises, total, err := h.franchiseService.ListFranchisesWithTotal(ctx, ListFranchisesOptions{
		Limit:    &params.Limit,
		Offset:   &params.Offset,
		Category: params.Category,
		Search:   params.Search,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, ListFranchisesResponse{
		Franchises: franchises,
		Total:      total,
		Limit:      params.Limit,
		Offset:     params.Offset,
	}))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()

	franchise, err := h.franchiseService.RetrieveFranchiseByID(ctx, c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, franchise))
}

func (h *handler) listItems(c echo.Context) error {
	ctx := c.Request().Context()

	franchise, err := h.franchiseService.RetrieveFranchiseByID(ctx, c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}

	franchiseItems, err := h.itemService.ListItems(ctx, items.ListItemsOptions{FranchiseID: &franchise.ID})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, FranchiseItemsResponse{
		Franchise: franchise,
		Items:     franchiseItems,
	}))
}

func (h *handler) listOrders(c echo.Context) error {
	ctx := c.Request().Context()

	franchise, err := h.franchiseService.RetrieveFranchiseByID(ctx, c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}

	franchiseOrders, err := h.orderService.ListOrders(ctx, orders.ListOrdersOptions{
		FranchiseID: &franchise.ID,
		WithItems:   true,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, FranchiseOrdersResponse{
		Franchise: franchise,
		Orders:    franchiseOrders,
	}))
}

func (h *handler) retrieveOrder(c echo.Context) error {
	ctx := c.Request().Context()

	franchise, err := h.franchiseService.RetrieveFranchiseByID(ctx, c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}

	orderType := c.Param("order_type")
	order, err := h.orderService.RetrieveOrder(ctx, orders.RetrieveOrderOptions{
		FranchiseID: &franchise.ID,
		OrderType:   &orderType,
		WithItems:   true,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, FranchiseOrderResponse{
		Franchise: franchise,
		Order:     order,
	}))
}

func (h *handler) listByCategory(c echo.Context) error {
	ctx := c.Request().Context()

	params := CategoryFranchisesQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	category := c.Param("category")
	franchises, total, err := h.franchiseService.ListFranchisesWithTotal(ctx, ListFranchisesOptions{
		Limit:    &params.Limit,
		Offset:   &params.Offset,
		Category: &category,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, CategoryFranchisesResponse{
		Category:   category,
		Franchises: franchises,
		Total:      total,
		Limit:      params.Limit,
		Offset:     params.Offset,
	}))
}

func (h *handler) popular(c echo.Context) error {
	ctx := c.Request().Context()

	params := PopularQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	franchises, err := h.franchiseService.ListFranchises(ctx, ListFranchisesOptions{
		Limit:    &params.Limit,
		Category: params.Category,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, PopularResponse{
		Category:   params.Category,
		Franchises: franchises,
	}))
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateFranchisePayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	franchise := &models.Franchise{
		Name:            params.Name,
		Category:        params.Category,
		Description:     params.Description,
		ImageURL:        params.ImageURL,
		PopularityScore: params.PopularityScore,
	}
	if err := h.franchiseService.CreateFranchise(ctx, franchise); err != nil {
		return errors.WithStack(err)
	}

	logger.FromContext(ctx).Info("created franchise", logger.Data{"franchise_id": franchise.ID, "slug": franchise.Slug})

	return errors.WithStack(c.JSON(http.StatusCreated, franchise))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()

	params := UpdateFranchisePayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	franchise, err := h.franchiseService.RetrieveFranchiseByID(ctx, c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}

	opts := UpdateFranchiseOptions{Columns: []string{}}
	if params.Name != nil && *params.Name != franchise.Name {
		franchise.Name = *params.Name
		opts.Columns = append(opts.Columns, "name")
	}
	if params.Category != nil && *params.Category != franchise.Category {
		franchise.Category = *params.Category
		opts.Columns = append(opts.Columns, "category")
	}
	if params.Description != nil {
		franchise.Description = params.Description
		opts.Columns = append(opts.Columns, "description")
	}
	if params.ImageURL != nil {
		franchise.ImageURL = params.ImageURL
		opts.Columns = append(opts.Columns, "image_url")
	}
	if params.PopularityScore != nil && *params.PopularityScore != franchise.PopularityScore {
		franchise.PopularityScore = *params.PopularityScore
		opts.Columns = append(opts.Columns, "popularity_score")
	}

	if err := h.franchiseService.UpdateFranchise(ctx, franchise, opts); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, franchise))
}

func (h *handler) createItem(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateItemPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	franchise, err := h.franchiseService.RetrieveFranchiseByID(ctx, c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}

	item := &models.Item{
		FranchiseID: franchise.ID,
		Title:       params.Title,
		Description: params.Description,
		ImageURL:    params.ImageURL,
		ExternalID:  params.ExternalID,
		Rating:      params.Rating,
		APIMetadata: params.Metadata,
	}
	if params.ReleaseDate != nil {
		item.ReleaseDate = models.ParseDate(*params.ReleaseDate)
	}
	if item.ExternalID != nil && *item.ExternalID == "" {
		item.ExternalID = nil
	}

	if err := h.itemService.CreateItem(ctx, item); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, item))
}

func (h *handler) createOrder(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateOrderPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	franchise, err := h.franchiseService.RetrieveFranchiseByID(ctx, c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}

	order := &models.Order{
		FranchiseID: franchise.ID,
		OrderType:   params.OrderType,
		Name:        strcase.ToCamel(params.OrderType) + " Order",
		Description: params.Description,
		IsOfficial:  params.IsOfficial,
	}
	if params.Name != nil && *params.Name != "" {
		order.Name = *params.Name
	}

	if err := h.orderService.CreateOrder(ctx, order); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, order))
}
