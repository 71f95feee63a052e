package repository

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"order-view-service/internal/model"
)

func TestDocumentKeepsMoneyAndOptionalFields(t *testing.T) {
	ts := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	o := &model.Order{
		ID:            "ord-1",
		Status:        model.StatusProcessing,
		PaymentStatus: model.PaymentPending,
		TotalValue:    decimal.RequireFromString("230.45"),
		Items: []model.OrderItem{
			{ProductID: "p1", Quantity: 2, UnitPrice: decimal.RequireFromString("100.10")},
			{ProductID: "p2", Quantity: 1, UnitPrice: decimal.NewFromInt(5), TotalPrice: decimal.NewNullDecimal(decimal.NewFromInt(4))},
		},
		StatusTracks: []model.StatusTrack{{Status: model.StatusPending, CreatedAt: ts, Actor: &model.Actor{Name: "Marta"}}},
	}

	raw, err := bson.Marshal(toDocument(o))
	require.NoError(t, err)

	var doc orderDocument
	require.NoError(t, bson.Unmarshal(raw, &doc))
	got := doc.toModel()

	assert.True(t, o.TotalValue.Equal(got.TotalValue))
	assert.True(t, got.PaidAmount.IsZero())
	require.Len(t, got.Items, 2)
	assert.True(t, got.Items[0].UnitPrice.Equal(decimal.RequireFromString("100.10")))
	assert.False(t, got.Items[0].TotalPrice.Valid)
	assert.True(t, got.Items[1].TotalPrice.Valid)
	assert.Nil(t, got.Shipping)
	assert.Nil(t, got.Coupon)
	require.Len(t, got.StatusTracks, 1)
	assert.Equal(t, "Marta", got.StatusTracks[0].Actor.Name)
	assert.True(t, ts.Equal(got.StatusTracks[0].CreatedAt))
}

func TestFromDecimal128ZeroValue(t *testing.T) {
	assert.Equal(t, "0", fromDecimal128(primitive.Decimal128{}).String())
}
