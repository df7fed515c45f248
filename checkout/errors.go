package checkout

import (
	"errors"
	"fmt"
)

var (
	ErrIncompleteAddress  = errors.New("checkout: incomplete shipping address")
	ErrEmptyCart          = errors.New("checkout: cart is empty")
	ErrProductUnavailable = errors.New("checkout: product no longer available")
	ErrCheckoutInProgress = errors.New("checkout: another checkout is in progress")
	ErrCouponUnavailable  = errors.New("checkout: coupon no longer available")
)

// InsufficientStockError names the first line that cannot be fulfilled.
type InsufficientStockError struct {
	ProductID   string
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("checkout: not enough stock for %s (requested %d, available %d)", e.ProductName, e.Requested, e.Available)
}
