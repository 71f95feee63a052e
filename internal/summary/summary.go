// Package summary derives the money lines shown under an order.
package summary

import (
	"github.com/shopspring/decimal"

	"order-view-service/internal/model"
)

type Input struct {
	Items          []model.OrderItem
	ShippingMethod *model.ShippingMethod
	Coupon         *model.Coupon
	TotalDiscount  decimal.Decimal
	TotalValue     decimal.Decimal
	PaymentStatus  model.PaymentStatus
	PaidAmount     decimal.Decimal
}

type Summary struct {
	ItemsSubtotal        decimal.Decimal
	ProductDiscountTotal decimal.Decimal
	OriginalSubtotal     decimal.Decimal
	CouponDiscount       decimal.Decimal
	ShippingCost         decimal.Decimal
	Total                decimal.Decimal

	// ShowCoupon is false when there is no coupon or nothing to attribute
	// to it; CouponCode is empty in that case.
	ShowCoupon bool
	CouponCode string

	// DueAmount is only set while the payment is pending.
	DueAmount *decimal.Decimal
}

// ForOrder collects the calculator input from an order snapshot.
func ForOrder(o model.Order) Input {
	return Input{
		Items:          o.Items,
		ShippingMethod: o.Shipping,
		Coupon:         o.Coupon,
		TotalDiscount:  o.TotalDiscount,
		TotalValue:     o.TotalValue,
		PaymentStatus:  o.PaymentStatus,
		PaidAmount:     o.PaidAmount,
	}
}

// Calculate derives the summary lines. A line without a computed total
// counts as (unit price - unit discount) x quantity, the same net value the
// backend stores in TotalPrice. Total is taken from the order as is; the
// backend owns the grand total.
func Calculate(in Input) Summary {
	var s Summary

	for _, it := range in.Items {
		qty := decimal.NewFromInt(it.Quantity)
		if it.TotalPrice.Valid {
			s.ItemsSubtotal = s.ItemsSubtotal.Add(it.TotalPrice.Decimal)
		} else {
			s.ItemsSubtotal = s.ItemsSubtotal.Add(it.UnitPrice.Sub(it.UnitDiscount).Mul(qty))
		}
		s.ProductDiscountTotal = s.ProductDiscountTotal.Add(it.UnitDiscount.Mul(qty))
	}

	s.OriginalSubtotal = s.ItemsSubtotal.Add(s.ProductDiscountTotal)
	s.CouponDiscount = in.TotalDiscount.Sub(s.ProductDiscountTotal)

	if in.ShippingMethod != nil {
		s.ShippingCost = in.ShippingMethod.Cost
	}
	s.Total = in.TotalValue

	if in.Coupon != nil && s.CouponDiscount.IsPositive() {
		s.ShowCoupon = true
		s.CouponCode = in.Coupon.Code
	}

	if in.PaymentStatus == model.PaymentPending {
		due := in.TotalValue.Sub(in.PaidAmount)
		s.DueAmount = &due
	}

	return s
}
