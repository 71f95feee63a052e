package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"order-view-service/internal/model"
	"order-view-service/internal/summary"
	"order-view-service/internal/timeline"
)

const orderJSON = `{
	"id": "ord-1",
	"orderNumber": "MX-1001",
	"customerId": "c-9",
	"status": " Shipped",
	"paymentStatus": "PENDING",
	"totalValue": "230",
	"paidAmount": 100,
	"totalDiscount": "20.00",
	"items": [
		{"product": {"id": "p1", "name": "Ribeye"}, "quantity": "2", "unitPrice": 100, "unitDiscount": "10"},
		{"product": {"id": "p2", "name": "Sausages"}, "quantity": 1, "unitPrice": "n/a", "totalPrice": null}
	],
	"shippingMethod": {"id": "s1", "name": "Cold chain", "cost": "50"},
	"coupon": null,
	"statusTracks": [
		{"status": "pending", "createdAt": "2026-03-01T10:00:00Z"},
		{"status": "processing", "createdAt": "2026-03-01T11:00:00Z", "note": "cutting", "user": {"id": "u1", "name": "Marta"}}
	],
	"deliveryMan": {"id": "d1", "name": "Ivan"}
}`

func TestOrderPayloadToModel(t *testing.T) {
	var p OrderPayload
	require.NoError(t, json.Unmarshal([]byte(orderJSON), &p))

	o := p.ToModel()

	assert.Equal(t, model.StatusShipped, o.Status)
	assert.Equal(t, model.PaymentPending, o.PaymentStatus)
	assert.True(t, decimal.NewFromInt(230).Equal(o.TotalValue))
	assert.True(t, decimal.NewFromInt(100).Equal(o.PaidAmount))
	assert.True(t, decimal.NewFromInt(20).Equal(o.TotalDiscount))

	require.Len(t, o.Items, 2)
	assert.Equal(t, int64(2), o.Items[0].Quantity)
	assert.Equal(t, "Ribeye", o.Items[0].ProductName)
	assert.True(t, o.Items[1].UnitPrice.IsZero())
	assert.False(t, o.Items[1].TotalPrice.Valid)

	require.NotNil(t, o.Shipping)
	assert.True(t, decimal.NewFromInt(50).Equal(o.Shipping.Cost))
	assert.Nil(t, o.Coupon)
	require.NotNil(t, o.DeliveryMan)
	assert.Equal(t, "Ivan", o.DeliveryMan.Name)

	require.Len(t, o.StatusTracks, 2)
	assert.Equal(t, time.Date(2026, 3, 1, 11, 0, 0, 0, time.UTC), o.StatusTracks[1].CreatedAt)
	require.NotNil(t, o.StatusTracks[1].Actor)
	assert.Equal(t, "Marta", o.StatusTracks[1].Actor.Name)
}

func TestOrderPayloadMissingTracks(t *testing.T) {
	var p OrderPayload
	require.NoError(t, json.Unmarshal([]byte(`{"id": "ord-2", "status": "pending"}`), &p))

	o := p.ToModel()

	assert.NotNil(t, o.StatusTracks)
	assert.Empty(t, o.StatusTracks)
	assert.Empty(t, o.Items)
	assert.True(t, timeline.Render(*o).Empty)
}

func TestAmountCoercion(t *testing.T) {
	cases := map[string]string{
		`12.5`:    "12.5",
		`"12.5"`:  "12.5",
		`null`:    "0",
		`""`:      "0",
		`"abc"`:   "0",
		`true`:    "0",
		`{"x":1}`: "0",
	}
	for in, want := range cases {
		var a Amount
		require.NoError(t, json.Unmarshal([]byte(in), &a), in)
		assert.True(t, decimal.RequireFromString(want).Equal(a.Decimal()), "%s decoded to %s", in, a.Decimal())
	}
}

func TestCountCoercion(t *testing.T) {
	var c struct {
		A Count `json:"a"`
		B Count `json:"b"`
		C Count `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": "3", "b": 2.9, "c": "many"}`), &c))
	assert.Equal(t, Count(3), c.A)
	assert.Equal(t, Count(2), c.B)
	assert.Equal(t, Count(0), c.C)
}

func TestTimestampMalformed(t *testing.T) {
	var ev StatusUpdateEvent
	require.NoError(t, json.Unmarshal([]byte(`{"orderId": "o", "status": "shipped", "createdAt": "yesterday"}`), &ev))
	assert.True(t, ev.CreatedAt.Time().IsZero())
}

func TestNewTimelineResponse(t *testing.T) {
	ts := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	tl := timeline.Render(model.Order{
		Status:       model.StatusProcessing,
		StatusTracks: []model.StatusTrack{{Status: model.StatusPending, CreatedAt: ts}},
	})

	res := NewTimelineResponse("ord-1", tl)

	assert.Equal(t, "processing", res.Status)
	require.Len(t, res.Entries, 2)
	assert.Equal(t, &ts, res.Entries[0].Timestamp)
	assert.Nil(t, res.Entries[1].Timestamp)

	b, err := json.Marshal(res)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"timestamp":null`)
}

func TestNewSummaryResponseOmitsDueAmount(t *testing.T) {
	res := NewSummaryResponse("ord-1", summary.Calculate(summary.Input{PaymentStatus: model.PaymentPaid}))

	b, err := json.Marshal(res)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "dueAmount")
	assert.NotContains(t, string(b), "couponCode")
}
