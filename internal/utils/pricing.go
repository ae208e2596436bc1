package utils

import (
	"fmt"
	"math"

	"aluko-backend/internal/domain"
)

// RenterMarkupPercent is the fixed service markup folded into every
// renter-visible price. The owner never sees it and never receives it.
const RenterMarkupPercent = 18

// ComputePricing turns a listing's daily rate, a rental span and the
// chosen delivery method into the frozen money snapshot stored on the
// rental. It is a pure function: same inputs, same snapshot.
//
// Weekly and monthly discounts are mutually exclusive by span: 7-29 days
// takes the weekly percentage, 30+ days the monthly one, never both.
func ComputePricing(listing *domain.Listing, startDate, endDate string, delivery domain.DeliveryMethod) (domain.PricingSnapshot, error) {
	days, err := DaysBetweenInclusive(startDate, endDate)
	if err != nil {
		return domain.PricingSnapshot{}, err
	}
	if days < 1 {
		days = 1
	}

	renterDaily := roundCents(float64(listing.PricePerDayCents) * (100 + RenterMarkupPercent) / 100)

	var discountPercent float64
	switch {
	case days >= 7 && days < 30:
		discountPercent = listing.DiscountWeekPercent
	case days >= 30:
		discountPercent = listing.DiscountMonthPercent
	}
	if discountPercent < 0 || discountPercent > 100 {
		return domain.PricingSnapshot{}, fmt.Errorf("discount percent %v out of range", discountPercent)
	}
	multiplier := 1 - discountPercent/100

	subtotal := roundCents(float64(renterDaily*int64(days)) * multiplier)
	ownerAmount := roundCents(float64(listing.PricePerDayCents*int64(days)) * multiplier)

	var deliveryFee int64
	if delivery == domain.DeliveryMethodAddress && listing.DeliveryAvailable && !listing.DeliveryFree {
		deliveryFee = listing.DeliveryFeeCents
	}

	return domain.PricingSnapshot{
		TotalDays:          days,
		PricePerDayCents:   listing.PricePerDayCents,
		SubtotalCents:      subtotal,
		ServiceFeeCents:    subtotal - ownerAmount,
		DeliveryFeeCents:   deliveryFee,
		TotalAmountCents:   subtotal + deliveryFee,
		OwnerAmountCents:   ownerAmount,
		DepositAmountCents: listing.DepositAmountCents,
	}, nil
}

// roundCents rounds half away from zero to a whole number of cents.
func roundCents(v float64) int64 {
	return int64(math.Round(v))
}
