package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"order-view-service/internal/model"
	"order-view-service/internal/summary"
	"order-view-service/internal/timeline"
)

type TimelineEntryResponse struct {
	Status    string     `json:"status"`
	Active    bool       `json:"active"`
	Current   bool       `json:"current"`
	Timestamp *time.Time `json:"timestamp"`
	Note      *string    `json:"note"`
	ActorName string     `json:"actorName"`
}

type TimelineResponse struct {
	OrderID string                  `json:"orderId"`
	Status  string                  `json:"status"`
	Empty   bool                    `json:"empty"`
	Entries []TimelineEntryResponse `json:"entries"`
}

type SummaryResponse struct {
	OrderID              string           `json:"orderId"`
	ItemsSubtotal        decimal.Decimal  `json:"itemsSubtotal"`
	ProductDiscountTotal decimal.Decimal  `json:"productDiscountTotal"`
	OriginalSubtotal     decimal.Decimal  `json:"originalSubtotal"`
	CouponDiscount       decimal.Decimal  `json:"couponDiscount"`
	ShowCoupon           bool             `json:"showCoupon"`
	CouponCode           string           `json:"couponCode,omitempty"`
	ShippingCost         decimal.Decimal  `json:"shippingCost"`
	Total                decimal.Decimal  `json:"total"`
	DueAmount            *decimal.Decimal `json:"dueAmount,omitempty"`
}

type OrderViewResponse struct {
	OrderID       string           `json:"orderId"`
	OrderNumber   string           `json:"orderNumber"`
	Status        string           `json:"status"`
	PaymentStatus string           `json:"paymentStatus"`
	DeliveryMan   *model.Actor     `json:"deliveryMan"`
	Timeline      TimelineResponse `json:"timeline"`
	Summary       SummaryResponse  `json:"summary"`
}

type OrderListItem struct {
	OrderID       string          `json:"orderId"`
	OrderNumber   string          `json:"orderNumber"`
	CustomerID    string          `json:"customerId"`
	Status        string          `json:"status"`
	PaymentStatus string          `json:"paymentStatus"`
	TotalValue    decimal.Decimal `json:"totalValue"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

func NewTimelineResponse(orderID string, tl timeline.Timeline) TimelineResponse {
	res := TimelineResponse{
		OrderID: orderID,
		Status:  tl.Status.String(),
		Empty:   tl.Empty,
		Entries: make([]TimelineEntryResponse, 0, len(tl.Entries)),
	}
	for _, e := range tl.Entries {
		res.Entries = append(res.Entries, TimelineEntryResponse{
			Status:    e.Status.String(),
			Active:    e.Active,
			Current:   e.Current,
			Timestamp: e.Timestamp,
			Note:      e.Note,
			ActorName: e.ActorName,
		})
	}
	return res
}

func NewSummaryResponse(orderID string, s summary.Summary) SummaryResponse {
	return SummaryResponse{
		OrderID:              orderID,
		ItemsSubtotal:        s.ItemsSubtotal,
		ProductDiscountTotal: s.ProductDiscountTotal,
		OriginalSubtotal:     s.OriginalSubtotal,
		CouponDiscount:       s.CouponDiscount,
		ShowCoupon:           s.ShowCoupon,
		CouponCode:           s.CouponCode,
		ShippingCost:         s.ShippingCost,
		Total:                s.Total,
		DueAmount:            s.DueAmount,
	}
}

func NewOrderListItem(o *model.Order) OrderListItem {
	return OrderListItem{
		OrderID:       o.ID,
		OrderNumber:   o.OrderNumber,
		CustomerID:    o.CustomerID,
		Status:        o.Status.String(),
		PaymentStatus: string(o.PaymentStatus),
		TotalValue:    o.TotalValue,
		UpdatedAt:     o.UpdatedAt,
	}
}
