package orders

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
)

type handler struct {
	orderService *Service
}

func (h *handler) addItem(c echo.Context) error {
	ctx := c.Request().Context()

	params := AddItemPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	orderItem, err := h.orderService.AddItem(ctx, AddItemOptions{
		OrderID:    c.Param("id"),
		ItemID:     params.ItemID,
		Position:   params.Position,
		Notes:      params.Notes,
		IsOptional: params.IsOptional,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	logger.FromContext(ctx).Info("added item to order", logger.Data{
		"order_id": orderItem.OrderID,
		"item_id":  orderItem.ItemID,
		"position": orderItem.Position,
	})

	return errors.WithStack(c.JSON(http.StatusCreated, orderItem))
}
