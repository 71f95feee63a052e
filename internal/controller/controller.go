package controller

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"order-view-service/internal/backend"
	"order-view-service/internal/dto"
	"order-view-service/internal/middleware"
	"order-view-service/internal/model"
	"order-view-service/internal/repository"
	"order-view-service/internal/service"
)

type OrderViewer interface {
	View(ctx context.Context, orderID string) (*service.OrderView, error)
	Refresh(ctx context.Context, orderID string) (*model.Order, error)
	List(ctx context.Context, status string) ([]*model.Order, error)
	ListForCustomer(ctx context.Context, customerID string) ([]*model.Order, error)
}

type OrderController struct {
	Service OrderViewer
	logger  *zap.Logger
}

func NewOrderController(s OrderViewer, logger *zap.Logger) *OrderController {
	return &OrderController{Service: s, logger: logger}
}

func (ctl *OrderController) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, backend.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
	case errors.Is(err, backend.ErrUnavailable):
		ctl.logger.Warn("backend fetch failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "order backend unavailable"})
	default:
		ctl.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// load fetches the view and enforces that customers only see their own
// orders. It writes the error response itself and returns nil then.
func (ctl *OrderController) load(c *gin.Context) *service.OrderView {
	view, err := ctl.Service.View(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		ctl.fail(c, err)
		return nil
	}
	if !middleware.IsAdmin(c) && view.Order.CustomerID != c.GetString(middleware.KeyUserID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "you cannot view another user's order"})
		return nil
	}
	return view
}

// GET /orders/:orderId
func (ctl *OrderController) GetOrderView(c *gin.Context) {
	view := ctl.load(c)
	if view == nil {
		return
	}
	o := view.Order
	c.JSON(http.StatusOK, dto.OrderViewResponse{
		OrderID:       o.ID,
		OrderNumber:   o.OrderNumber,
		Status:        o.Status.String(),
		PaymentStatus: string(o.PaymentStatus),
		DeliveryMan:   o.DeliveryMan,
		Timeline:      dto.NewTimelineResponse(o.ID, view.Timeline),
		Summary:       dto.NewSummaryResponse(o.ID, view.Summary),
	})
}

// GET /orders/:orderId/timeline
func (ctl *OrderController) GetTimeline(c *gin.Context) {
	view := ctl.load(c)
	if view == nil {
		return
	}
	c.JSON(http.StatusOK, dto.NewTimelineResponse(view.Order.ID, view.Timeline))
}

// GET /orders/:orderId/summary
func (ctl *OrderController) GetSummary(c *gin.Context) {
	view := ctl.load(c)
	if view == nil {
		return
	}
	c.JSON(http.StatusOK, dto.NewSummaryResponse(view.Order.ID, view.Summary))
}

// GET /orders/mine
func (ctl *OrderController) GetMyOrders(c *gin.Context) {
	orders, err := ctl.Service.ListForCustomer(c.Request.Context(), c.GetString(middleware.KeyUserID))
	if err != nil {
		ctl.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, listItems(orders))
}

// GET /admin/orders?status=
func (ctl *OrderController) GetAllOrders(c *gin.Context) {
	orders, err := ctl.Service.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		ctl.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, listItems(orders))
}

// POST /admin/orders/:orderId/refresh
func (ctl *OrderController) RefreshOrder(c *gin.Context) {
	o, err := ctl.Service.Refresh(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		ctl.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewOrderListItem(o))
}

func listItems(orders []*model.Order) []dto.OrderListItem {
	out := make([]dto.OrderListItem, 0, len(orders))
	for _, o := range orders {
		out = append(out, dto.NewOrderListItem(o))
	}
	return out
}
