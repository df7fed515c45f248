package orders

import (
	"errors"
	"net/http"

	"modesta/checkout"
	"modesta/coupons"
)

// checkoutStatus maps a PlaceOrder error to a status code and message.
func checkoutStatus(err error) (int, string) {
	var stockErr *checkout.InsufficientStockError
	switch {
	case errors.Is(err, checkout.ErrIncompleteAddress):
		return http.StatusBadRequest, "Please provide complete shipping address"
	case errors.Is(err, checkout.ErrEmptyCart):
		return http.StatusBadRequest, "Cart is empty"
	case errors.Is(err, checkout.ErrProductUnavailable):
		return http.StatusBadRequest, "A product in your cart is no longer available"
	case errors.As(err, &stockErr):
		return http.StatusBadRequest, "Not enough stock for " + stockErr.ProductName
	case errors.Is(err, checkout.ErrCouponUnavailable):
		return http.StatusBadRequest, "This coupon is no longer available"
	case errors.Is(err, checkout.ErrCheckoutInProgress):
		return http.StatusConflict, "Another checkout is already in progress"
	}
	if msg, ok := coupons.Reason(err); ok {
		return http.StatusBadRequest, msg
	}
	return http.StatusInternalServerError, "Failed to create order"
}
