package repository

import (
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"order-view-service/internal/model"
)

// orderDocument is the stored shape of an order snapshot. Money is kept as
// Decimal128 so Mongo aggregations see real numbers.
type orderDocument struct {
	OrderID       string               `bson:"order_id"`
	OrderNumber   string               `bson:"order_number"`
	CustomerID    string               `bson:"customer_id"`
	Status        string               `bson:"status"`
	PaymentStatus string               `bson:"payment_status"`
	TotalValue    primitive.Decimal128 `bson:"total_value"`
	PaidAmount    primitive.Decimal128 `bson:"paid_amount"`
	TotalDiscount primitive.Decimal128 `bson:"total_discount"`
	Items         []itemDocument       `bson:"items"`
	Shipping      *shippingDocument    `bson:"shipping,omitempty"`
	Coupon        *couponDocument      `bson:"coupon,omitempty"`
	StatusTracks  []trackDocument      `bson:"status_tracks"`
	DeliveryMan   *actorDocument       `bson:"delivery_man,omitempty"`
	CreatedAt     time.Time            `bson:"created_at"`
	UpdatedAt     time.Time            `bson:"updated_at"`
}

type itemDocument struct {
	ProductID    string                `bson:"product_id"`
	ProductName  string                `bson:"product_name"`
	Quantity     int64                 `bson:"quantity"`
	UnitPrice    primitive.Decimal128  `bson:"unit_price"`
	UnitDiscount primitive.Decimal128  `bson:"unit_discount"`
	TotalPrice   *primitive.Decimal128 `bson:"total_price,omitempty"`
}

type shippingDocument struct {
	ID   string               `bson:"id"`
	Name string               `bson:"name"`
	Cost primitive.Decimal128 `bson:"cost"`
}

type couponDocument struct {
	ID   string `bson:"id"`
	Code string `bson:"code"`
}

type actorDocument struct {
	ID   string `bson:"id"`
	Name string `bson:"name"`
}

type trackDocument struct {
	Status    string         `bson:"status"`
	CreatedAt time.Time      `bson:"created_at"`
	Note      string         `bson:"note,omitempty"`
	Actor     *actorDocument `bson:"actor,omitempty"`
}

func toDecimal128(d decimal.Decimal) primitive.Decimal128 {
	v, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return primitive.NewDecimal128(0, 0)
	}
	return v
}

func fromDecimal128(v primitive.Decimal128) decimal.Decimal {
	d, err := decimal.NewFromString(v.String())
	if err != nil || d.IsZero() {
		return decimal.Zero
	}
	return d
}

func toActorDocument(a *model.Actor) *actorDocument {
	if a == nil {
		return nil
	}
	return &actorDocument{ID: a.ID, Name: a.Name}
}

func (a *actorDocument) toModel() *model.Actor {
	if a == nil {
		return nil
	}
	return &model.Actor{ID: a.ID, Name: a.Name}
}

func toTrackDocument(t model.StatusTrack) trackDocument {
	return trackDocument{
		Status:    t.Status.String(),
		CreatedAt: t.CreatedAt,
		Note:      t.Note,
		Actor:     toActorDocument(t.Actor),
	}
}

func toDocument(o *model.Order) orderDocument {
	doc := orderDocument{
		OrderID:       o.ID,
		OrderNumber:   o.OrderNumber,
		CustomerID:    o.CustomerID,
		Status:        o.Status.String(),
		PaymentStatus: string(o.PaymentStatus),
		TotalValue:    toDecimal128(o.TotalValue),
		PaidAmount:    toDecimal128(o.PaidAmount),
		TotalDiscount: toDecimal128(o.TotalDiscount),
		Items:         make([]itemDocument, 0, len(o.Items)),
		StatusTracks:  make([]trackDocument, 0, len(o.StatusTracks)),
		DeliveryMan:   toActorDocument(o.DeliveryMan),
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
	for _, it := range o.Items {
		item := itemDocument{
			ProductID:    it.ProductID,
			ProductName:  it.ProductName,
			Quantity:     it.Quantity,
			UnitPrice:    toDecimal128(it.UnitPrice),
			UnitDiscount: toDecimal128(it.UnitDiscount),
		}
		if it.TotalPrice.Valid {
			tp := toDecimal128(it.TotalPrice.Decimal)
			item.TotalPrice = &tp
		}
		doc.Items = append(doc.Items, item)
	}
	for _, t := range o.StatusTracks {
		doc.StatusTracks = append(doc.StatusTracks, toTrackDocument(t))
	}
	if o.Shipping != nil {
		doc.Shipping = &shippingDocument{ID: o.Shipping.ID, Name: o.Shipping.Name, Cost: toDecimal128(o.Shipping.Cost)}
	}
	if o.Coupon != nil {
		doc.Coupon = &couponDocument{ID: o.Coupon.ID, Code: o.Coupon.Code}
	}
	return doc
}

func (d orderDocument) toModel() *model.Order {
	o := &model.Order{
		ID:            d.OrderID,
		OrderNumber:   d.OrderNumber,
		CustomerID:    d.CustomerID,
		Status:        model.ParseStatus(d.Status),
		PaymentStatus: model.ParsePaymentStatus(d.PaymentStatus),
		TotalValue:    fromDecimal128(d.TotalValue),
		PaidAmount:    fromDecimal128(d.PaidAmount),
		TotalDiscount: fromDecimal128(d.TotalDiscount),
		Items:         make([]model.OrderItem, 0, len(d.Items)),
		StatusTracks:  make([]model.StatusTrack, 0, len(d.StatusTracks)),
		DeliveryMan:   d.DeliveryMan.toModel(),
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
	for _, it := range d.Items {
		item := model.OrderItem{
			ProductID:    it.ProductID,
			ProductName:  it.ProductName,
			Quantity:     it.Quantity,
			UnitPrice:    fromDecimal128(it.UnitPrice),
			UnitDiscount: fromDecimal128(it.UnitDiscount),
		}
		if it.TotalPrice != nil {
			item.TotalPrice = decimal.NewNullDecimal(fromDecimal128(*it.TotalPrice))
		}
		o.Items = append(o.Items, item)
	}
	for _, t := range d.StatusTracks {
		o.StatusTracks = append(o.StatusTracks, model.StatusTrack{
			Status:    model.ParseStatus(t.Status),
			CreatedAt: t.CreatedAt,
			Note:      t.Note,
			Actor:     t.Actor.toModel(),
		})
	}
	if d.Shipping != nil {
		o.Shipping = &model.ShippingMethod{ID: d.Shipping.ID, Name: d.Shipping.Name, Cost: fromDecimal128(d.Shipping.Cost)}
	}
	if d.Coupon != nil {
		o.Coupon = &model.Coupon{ID: d.Coupon.ID, Code: d.Coupon.Code}
	}
	return o
}
