package service

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"order-view-service/internal/dto"
	"order-view-service/internal/model"
	"order-view-service/internal/notification"
	"order-view-service/internal/repository"
	"order-view-service/internal/summary"
	"order-view-service/internal/timeline"
)

// OrderRepository is implemented by the snapshot store.
type OrderRepository interface {
	Save(ctx context.Context, o *model.Order) error
	FindByOrderID(ctx context.Context, orderID string) (*model.Order, error)
	AppendStatusTrack(ctx context.Context, orderID string, track model.StatusTrack) error
	UpdatePayment(ctx context.Context, orderID string, status model.PaymentStatus, paid *decimal.Decimal) error
	FindAll(ctx context.Context) ([]*model.Order, error)
	FindByStatus(ctx context.Context, status model.Status) ([]*model.Order, error)
	FindByCustomerID(ctx context.Context, customerID string) ([]*model.Order, error)
}

// OrderSource loads the authoritative order from the backend.
type OrderSource interface {
	FetchOrder(ctx context.Context, orderID string) (*model.Order, error)
}

// Notifier fans merged deltas out to the order's customer and to admins.
type Notifier interface {
	Broadcast(customerID string, n notification.Notification)
}

var (
	ErrInvalidEvent = errors.New("invalid event")
	ErrMissingOrder = errors.New("event carries no order")
)

// OrderView bundles everything the order detail screen needs.
type OrderView struct {
	Order    *model.Order
	Timeline timeline.Timeline
	Summary  summary.Summary
}

type OrderViewService struct {
	repo     OrderRepository
	source   OrderSource
	notifier Notifier
	logger   *zap.Logger
	now      func() time.Time
}

func NewOrderViewService(repo OrderRepository, source OrderSource, notifier Notifier, logger *zap.Logger) *OrderViewService {
	return &OrderViewService{
		repo:     repo,
		source:   source,
		notifier: notifier,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// GetOrder returns the cached snapshot, fetching it from the backend on a
// miss.
func (s *OrderViewService) GetOrder(ctx context.Context, orderID string) (*model.Order, error) {
	o, err := s.repo.FindByOrderID(ctx, orderID)
	if err == nil {
		return o, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	return s.Refresh(ctx, orderID)
}

// Refresh replaces the cached snapshot with the backend's current one.
func (s *OrderViewService) Refresh(ctx context.Context, orderID string) (*model.Order, error) {
	o, err := s.source.FetchOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, o); err != nil {
		return nil, err
	}
	s.logger.Debug("order snapshot refreshed", zap.String("orderId", orderID))
	return o, nil
}

func (s *OrderViewService) Timeline(ctx context.Context, orderID string) (timeline.Timeline, error) {
	o, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return timeline.Timeline{}, err
	}
	return timeline.Render(*o), nil
}

func (s *OrderViewService) Summary(ctx context.Context, orderID string) (summary.Summary, error) {
	o, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return summary.Summary{}, err
	}
	return summary.Calculate(summary.ForOrder(*o)), nil
}

func (s *OrderViewService) View(ctx context.Context, orderID string) (*OrderView, error) {
	o, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return &OrderView{
		Order:    o,
		Timeline: timeline.Render(*o),
		Summary:  summary.Calculate(summary.ForOrder(*o)),
	}, nil
}

// List returns every cached order, or only those in status when given.
func (s *OrderViewService) List(ctx context.Context, status string) ([]*model.Order, error) {
	if status == "" {
		return s.repo.FindAll(ctx)
	}
	return s.repo.FindByStatus(ctx, model.ParseStatus(status))
}

func (s *OrderViewService) ListForCustomer(ctx context.Context, customerID string) ([]*model.Order, error) {
	return s.repo.FindByCustomerID(ctx, customerID)
}

// IngestOrder stores a newly placed order.
func (s *OrderViewService) IngestOrder(ctx context.Context, ev dto.OrderPlacedEvent) error {
	if ev.Order.ID == "" {
		return ErrMissingOrder
	}
	o := ev.Order.ToModel()
	if err := s.repo.Save(ctx, o); err != nil {
		return err
	}
	s.logger.Info("order snapshot stored", zap.String("orderId", o.ID), zap.String("status", o.Status.String()))
	return nil
}

// ApplyStatusUpdate appends the track carried by ev to the cached order.
// When the order is not cached yet the backend copy, which already holds
// the change, is stored instead. A redelivered event whose track matches
// the last stored one is acknowledged without appending.
func (s *OrderViewService) ApplyStatusUpdate(ctx context.Context, ev dto.StatusUpdateEvent) error {
	track := ev.ToTrack()
	if ev.OrderID == "" || track.Status == "" {
		return ErrInvalidEvent
	}
	if track.CreatedAt.IsZero() {
		track.CreatedAt = s.now()
	}

	o, err := s.cached(ctx, ev.OrderID)
	if err != nil {
		return err
	}
	if o != nil {
		if isRedelivery(o.StatusTracks, track) {
			s.logger.Debug("duplicate status track skipped", zap.String("orderId", ev.OrderID), zap.String("status", track.Status.String()))
			return nil
		}
		if err := s.repo.AppendStatusTrack(ctx, ev.OrderID, track); err != nil {
			return err
		}
	} else if o, err = s.Refresh(ctx, ev.OrderID); err != nil {
		return err
	}

	if !track.Status.Known() {
		s.logger.Warn("order moved to unknown status", zap.String("orderId", ev.OrderID), zap.String("status", track.Status.String()))
	}
	s.notifier.Broadcast(o.CustomerID, notification.New(notification.TypeOrderStatusUpdate, ev.OrderID, track))
	return nil
}

// ApplyPaymentUpdate merges a payment delta into the cached order.
func (s *OrderViewService) ApplyPaymentUpdate(ctx context.Context, ev dto.PaymentUpdateEvent) error {
	status := model.ParsePaymentStatus(ev.PaymentStatus)
	if ev.OrderID == "" || status == "" {
		return ErrInvalidEvent
	}

	var paid *decimal.Decimal
	if ev.PaidAmount != nil {
		v := ev.PaidAmount.Decimal()
		paid = &v
	}

	o, err := s.cached(ctx, ev.OrderID)
	if err != nil {
		return err
	}
	if o != nil {
		if err := s.repo.UpdatePayment(ctx, ev.OrderID, status, paid); err != nil {
			return err
		}
	} else if o, err = s.Refresh(ctx, ev.OrderID); err != nil {
		return err
	}

	s.notifier.Broadcast(o.CustomerID, notification.New(notification.TypePaymentStatusUpdate, ev.OrderID, PaymentDelta{
		PaymentStatus: status,
		PaidAmount:    paid,
	}))
	return nil
}

// cached returns the cached order, or nil when it is not cached.
func (s *OrderViewService) cached(ctx context.Context, orderID string) (*model.Order, error) {
	o, err := s.repo.FindByOrderID(ctx, orderID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	return o, err
}

// isRedelivery reports whether track repeats the last stored track. Mongo
// keeps millisecond precision, so timestamps are compared at that scale.
func isRedelivery(tracks []model.StatusTrack, track model.StatusTrack) bool {
	if len(tracks) == 0 {
		return false
	}
	last := tracks[len(tracks)-1]
	return last.Status == track.Status &&
		last.CreatedAt.Truncate(time.Millisecond).Equal(track.CreatedAt.Truncate(time.Millisecond))
}

// PaymentDelta is the payload broadcast after a payment update.
type PaymentDelta struct {
	PaymentStatus model.PaymentStatus `json:"paymentStatus"`
	PaidAmount    *decimal.Decimal    `json:"paidAmount,omitempty"`
}
