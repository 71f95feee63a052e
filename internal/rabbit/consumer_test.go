package rabbit

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"order-view-service/internal/dto"
)

type mockHandler struct {
	placed   []dto.OrderPlacedEvent
	statuses []dto.StatusUpdateEvent
	payments []dto.PaymentUpdateEvent
	err      error
}

func (m *mockHandler) IngestOrder(_ context.Context, ev dto.OrderPlacedEvent) error {
	m.placed = append(m.placed, ev)
	return m.err
}

func (m *mockHandler) ApplyStatusUpdate(_ context.Context, ev dto.StatusUpdateEvent) error {
	m.statuses = append(m.statuses, ev)
	return m.err
}

func (m *mockHandler) ApplyPaymentUpdate(_ context.Context, ev dto.PaymentUpdateEvent) error {
	m.payments = append(m.payments, ev)
	return m.err
}

type mockDelivery struct {
	acked, nacked bool
}

func (m *mockDelivery) Ack(bool) error {
	m.acked = true
	return nil
}

func (m *mockDelivery) Nack(bool, bool) error {
	m.nacked = true
	return nil
}

func TestHandleDispatch(t *testing.T) {
	h := &mockHandler{}
	c := NewEventConsumer(h, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, c.Handle(ctx, RoutingOrderPlaced, []byte(`{"order": {"id": "ord-1", "status": "pending"}}`)))
	require.NoError(t, c.Handle(ctx, RoutingOrderStatusUpdate, []byte(`{"orderId": "ord-1", "status": "processing"}`)))
	require.NoError(t, c.Handle(ctx, RoutingPaymentStatusUpdate, []byte(`{"orderId": "ord-1", "paymentStatus": "paid", "paidAmount": 10}`)))

	require.Len(t, h.placed, 1)
	assert.Equal(t, "ord-1", h.placed[0].Order.ID)
	require.Len(t, h.statuses, 1)
	assert.Equal(t, "processing", h.statuses[0].Status)
	require.Len(t, h.payments, 1)
	require.NotNil(t, h.payments[0].PaidAmount)
	assert.Equal(t, "10", h.payments[0].PaidAmount.Decimal().String())
}

func TestHandleErrors(t *testing.T) {
	c := NewEventConsumer(&mockHandler{}, zap.NewNop())

	assert.ErrorIs(t, c.Handle(context.Background(), "orderDeleted", []byte(`{}`)), ErrUnknownEvent)
	assert.Error(t, c.Handle(context.Background(), RoutingOrderStatusUpdate, []byte(`not json`)))
}

func TestProcessAcks(t *testing.T) {
	h := &mockHandler{}
	c := NewEventConsumer(h, zap.NewNop())

	ok := &mockDelivery{}
	process(context.Background(), c, zap.NewNop(), RoutingOrderStatusUpdate, []byte(`{"orderId": "o", "status": "shipped"}`), ok)
	assert.True(t, ok.acked)
	assert.False(t, ok.nacked)

	h.err = errors.New("boom")
	failed := &mockDelivery{}
	process(context.Background(), c, zap.NewNop(), RoutingOrderStatusUpdate, []byte(`{"orderId": "o", "status": "shipped"}`), failed)
	assert.True(t, failed.nacked)
	assert.False(t, failed.acked)
}
