// dto.go
package dto

import (
	"order-view-service/internal/model"
)

// OrderPayload is the order document returned by the backend API.
type OrderPayload struct {
	ID             string             `json:"id"`
	OrderNumber    string             `json:"orderNumber"`
	CustomerID     string             `json:"customerId"`
	Status         string             `json:"status"`
	PaymentStatus  string             `json:"paymentStatus"`
	TotalValue     Amount             `json:"totalValue"`
	PaidAmount     Amount             `json:"paidAmount"`
	TotalDiscount  Amount             `json:"totalDiscount"`
	Items          []OrderItemPayload `json:"items"`
	ShippingMethod *ShippingPayload   `json:"shippingMethod"`
	Coupon         *CouponPayload     `json:"coupon"`
	StatusTracks   []StatusTrackDTO   `json:"statusTracks"`
	DeliveryMan    *ActorDTO          `json:"deliveryMan"`
	CreatedAt      Timestamp          `json:"createdAt"`
	UpdatedAt      Timestamp          `json:"updatedAt"`
}

type OrderItemPayload struct {
	Product      ProductRef `json:"product"`
	Quantity     Count      `json:"quantity"`
	UnitPrice    Amount     `json:"unitPrice"`
	UnitDiscount Amount     `json:"unitDiscount"`
	TotalPrice   NullAmount `json:"totalPrice"`
}

type ProductRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ShippingPayload struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Cost Amount `json:"cost"`
}

type CouponPayload struct {
	ID   string `json:"id"`
	Code string `json:"code"`
}

type ActorDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type StatusTrackDTO struct {
	Status    string    `json:"status"`
	CreatedAt Timestamp `json:"createdAt"`
	Note      string    `json:"note"`
	User      *ActorDTO `json:"user"`
}

func (a *ActorDTO) toModel() *model.Actor {
	if a == nil {
		return nil
	}
	return &model.Actor{ID: a.ID, Name: a.Name}
}

func (t StatusTrackDTO) ToModel() model.StatusTrack {
	return model.StatusTrack{
		Status:    model.ParseStatus(t.Status),
		CreatedAt: t.CreatedAt.Time(),
		Note:      t.Note,
		Actor:     t.User.toModel(),
	}
}

// ToModel converts the payload into a typed order. Missing collections
// become empty slices.
func (p OrderPayload) ToModel() *model.Order {
	o := &model.Order{
		ID:            p.ID,
		OrderNumber:   p.OrderNumber,
		CustomerID:    p.CustomerID,
		Status:        model.ParseStatus(p.Status),
		PaymentStatus: model.ParsePaymentStatus(p.PaymentStatus),
		TotalValue:    p.TotalValue.Decimal(),
		PaidAmount:    p.PaidAmount.Decimal(),
		TotalDiscount: p.TotalDiscount.Decimal(),
		Items:         make([]model.OrderItem, 0, len(p.Items)),
		StatusTracks:  make([]model.StatusTrack, 0, len(p.StatusTracks)),
		DeliveryMan:   p.DeliveryMan.toModel(),
		CreatedAt:     p.CreatedAt.Time(),
		UpdatedAt:     p.UpdatedAt.Time(),
	}

	for _, it := range p.Items {
		o.Items = append(o.Items, model.OrderItem{
			ProductID:    it.Product.ID,
			ProductName:  it.Product.Name,
			Quantity:     int64(it.Quantity),
			UnitPrice:    it.UnitPrice.Decimal(),
			UnitDiscount: it.UnitDiscount.Decimal(),
			TotalPrice:   it.TotalPrice.NullDecimal(),
		})
	}
	for _, t := range p.StatusTracks {
		o.StatusTracks = append(o.StatusTracks, t.ToModel())
	}
	if p.ShippingMethod != nil {
		o.Shipping = &model.ShippingMethod{
			ID:   p.ShippingMethod.ID,
			Name: p.ShippingMethod.Name,
			Cost: p.ShippingMethod.Cost.Decimal(),
		}
	}
	if p.Coupon != nil {
		o.Coupon = &model.Coupon{ID: p.Coupon.ID, Code: p.Coupon.Code}
	}

	return o
}
