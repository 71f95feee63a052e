// order.go
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID            string          `json:"id"`
	OrderNumber   string          `json:"orderNumber"`
	CustomerID    string          `json:"customerId"`
	Status        Status          `json:"status"`
	PaymentStatus PaymentStatus   `json:"paymentStatus"`
	TotalValue    decimal.Decimal `json:"totalValue"`
	PaidAmount    decimal.Decimal `json:"paidAmount"`
	TotalDiscount decimal.Decimal `json:"totalDiscount"`
	Items         []OrderItem     `json:"items"`
	Shipping      *ShippingMethod `json:"shippingMethod"`
	Coupon        *Coupon         `json:"coupon"`
	StatusTracks  []StatusTrack   `json:"statusTracks"`
	DeliveryMan   *Actor          `json:"deliveryMan"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

type OrderItem struct {
	ProductID    string              `json:"productId"`
	ProductName  string              `json:"productName"`
	Quantity     int64               `json:"quantity"`
	UnitPrice    decimal.Decimal     `json:"unitPrice"`
	UnitDiscount decimal.Decimal     `json:"unitDiscount"`
	TotalPrice   decimal.NullDecimal `json:"totalPrice"`
}

type ShippingMethod struct {
	ID   string          `json:"id"`
	Name string          `json:"name"`
	Cost decimal.Decimal `json:"cost"`
}

type Coupon struct {
	ID   string `json:"id"`
	Code string `json:"code"`
}

// Actor is the user behind a status change or the assigned delivery man.
type Actor struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// StatusTrack is appended once per status change and never rewritten.
type StatusTrack struct {
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	Note      string    `json:"note,omitempty"`
	Actor     *Actor    `json:"actor,omitempty"`
}
