package dto

import "order-view-service/internal/model"

// StatusUpdateEvent is pushed by the backend after an order changes status.
type StatusUpdateEvent struct {
	OrderID   string    `json:"orderId"`
	Status    string    `json:"status"`
	Note      string    `json:"note"`
	User      *ActorDTO `json:"user"`
	CreatedAt Timestamp `json:"createdAt"`
}

// PaymentUpdateEvent carries the new payment state. A nil PaidAmount
// leaves the stored amount untouched.
type PaymentUpdateEvent struct {
	OrderID       string  `json:"orderId"`
	PaymentStatus string  `json:"paymentStatus"`
	PaidAmount    *Amount `json:"paidAmount"`
}

type OrderPlacedEvent struct {
	CorrelationID string       `json:"correlation_id"`
	Order         OrderPayload `json:"order"`
}

func (e StatusUpdateEvent) ToTrack() model.StatusTrack {
	return model.StatusTrack{
		Status:    model.ParseStatus(e.Status),
		CreatedAt: e.CreatedAt.Time(),
		Note:      e.Note,
		Actor:     e.User.toModel(),
	}
}
