package coupons

import (
	"errors"
	"fmt"
	"time"

	"modesta/models"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound          = errors.New("coupon not found or inactive")
	ErrExpired           = errors.New("coupon expired")
	ErrUsageLimitReached = errors.New("coupon usage limit reached")
)

// MinimumNotMetError rejects a cart whose subtotal is below the coupon minimum.
type MinimumNotMetError struct {
	Min float64
}

func (e *MinimumNotMetError) Error() string {
	return fmt.Sprintf("coupon minimum purchase %s not met", decimal.NewFromFloat(e.Min).String())
}

// Reason returns the shopper-facing message for an evaluation error and
// whether err came from Evaluate at all.
func Reason(err error) (string, bool) {
	var minErr *MinimumNotMetError
	switch {
	case errors.Is(err, ErrNotFound):
		return "Invalid coupon code", true
	case errors.Is(err, ErrExpired):
		return "This coupon has expired", true
	case errors.Is(err, ErrUsageLimitReached):
		return "This coupon has reached its usage limit", true
	case errors.As(err, &minErr):
		return fmt.Sprintf("Minimum order of ₹%s required for this coupon", decimal.NewFromFloat(minErr.Min).String()), true
	}
	return "", false
}

// Evaluate computes the discount c grants on subtotal at now. It never
// mutates c; redemption happens when the order commits.
func Evaluate(c *models.Coupon, subtotal float64, now time.Time) (float64, error) {
	if c == nil || !c.IsActive {
		return 0, ErrNotFound
	}
	if !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt) {
		return 0, ErrExpired
	}
	if c.MaxUses != models.UnlimitedUses && c.UsedCount >= c.MaxUses {
		return 0, ErrUsageLimitReached
	}
	if subtotal < c.MinPurchase {
		return 0, &MinimumNotMetError{Min: c.MinPurchase}
	}

	sub := decimal.NewFromFloat(subtotal)
	var discount decimal.Decimal
	switch c.Type {
	case models.CouponPercentage:
		discount = sub.Mul(decimal.NewFromFloat(c.Value)).Div(decimal.NewFromInt(100))
		if c.MaxDiscount != nil {
			discount = decimal.Min(discount, decimal.NewFromFloat(*c.MaxDiscount))
		}
	default:
		discount = decimal.NewFromFloat(c.Value)
	}

	discount = decimal.Max(decimal.Zero, decimal.Min(discount, sub)).Round(2)
	if discount.GreaterThan(sub) {
		discount = sub.Truncate(2)
	}
	f, _ := discount.Float64()
	return f, nil
}
