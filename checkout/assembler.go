// Package checkout turns a user's cart into a persisted order.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"modesta/coupons"
	"modesta/models"
	"modesta/mq"
	"modesta/store"
	"modesta/utils"

	"github.com/shopspring/decimal"
)

type Service struct {
	Store   store.Store
	Locker  Locker
	Bus     mq.Publisher
	LockTTL time.Duration
	Now     func() time.Time
	NewID   func() string
}

func NewService(s store.Store, l Locker, bus mq.Publisher, lockTTL time.Duration) *Service {
	if l == nil {
		l = NewLocalLocker()
	}
	if lockTTL <= 0 {
		lockTTL = 10 * time.Second
	}
	return &Service{
		Store:   s,
		Locker:  l,
		Bus:     bus,
		LockTTL: lockTTL,
		Now:     time.Now,
		NewID:   utils.GetUUID,
	}
}

type PlaceOrderInput struct {
	UserID          string
	ShippingAddress models.ShippingAddress
	CouponCode      string
}

// PlaceOrder validates the cart and commits the order, stock decrements,
// coupon redemption and cart clear as one unit.
func (s *Service) PlaceOrder(ctx context.Context, in PlaceOrderInput) (*models.Order, error) {
	if !in.ShippingAddress.Complete() {
		return nil, ErrIncompleteAddress
	}

	unlock, ok, err := s.Locker.TryLock(ctx, LockKey(in.UserID), s.LockTTL)
	switch {
	case err != nil:
		// Stock and coupon writes stay conditional without the lock.
		log.Printf("[Checkout] lock for %s unavailable: %v", in.UserID, err)
	case !ok:
		return nil, ErrCheckoutInProgress
	default:
		defer unlock()
	}

	snap, err := s.snapshot(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if err := CheckStock(snap.Lines); err != nil {
		return nil, err
	}

	now := s.Now()
	code := store.NormalizeCode(in.CouponCode)
	discount := 0.0
	if code != "" {
		if discount, err = s.discount(ctx, code, snap.Subtotal, now); err != nil {
			return nil, err
		}
	}

	total, _ := decimal.NewFromFloat(snap.Subtotal).Sub(decimal.NewFromFloat(discount)).Round(2).Float64()
	order := &models.Order{
		ID:              s.NewID(),
		UserID:          in.UserID,
		Items:           snap.orderItems(),
		ShippingAddress: trimAddress(in.ShippingAddress),
		Subtotal:        snap.Subtotal,
		Discount:        discount,
		CouponCode:      code,
		Total:           total,
		Status:          models.StatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err = s.Store.RunInTx(ctx, func(ctx context.Context, tx store.Tx) error {
		if err := reserve(ctx, tx, snap.Lines); err != nil {
			return err
		}
		if code != "" {
			redeemed, err := tx.RedeemCoupon(ctx, code, now)
			if err != nil {
				return err
			}
			if !redeemed {
				return ErrCouponUnavailable
			}
		}
		if err := tx.InsertOrder(ctx, order); err != nil {
			return err
		}
		return tx.ClearCart(ctx, in.UserID, now)
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[Checkout] order %s placed by %s: %d items, total %.2f", order.ID, order.UserID, len(order.Items), order.Total)
	mq.Emit(ctx, s.Bus, mq.OrderChannel, models.BusEvent{
		Type:      models.OrderPlaced,
		EntityID:  order.ID,
		UserID:    order.UserID,
		Status:    string(order.Status),
		Total:     order.Total,
		ItemCount: len(order.Items),
		At:        now,
	})
	return order, nil
}

func (s *Service) snapshot(ctx context.Context, userID string) (*Snapshot, error) {
	cart, err := s.Store.GetCart(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrEmptyCart
	}
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if len(cart.Items) == 0 {
		return nil, ErrEmptyCart
	}

	ids := make([]string, len(cart.Items))
	for i, it := range cart.Items {
		ids[i] = it.ProductID
	}
	products, err := s.Store.GetProducts(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	return TakeSnapshot(cart, products)
}

func (s *Service) discount(ctx context.Context, code string, subtotal float64, now time.Time) (float64, error) {
	c, err := s.Store.FindCoupon(ctx, code)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return 0, fmt.Errorf("load coupon: %w", err)
	}
	return coupons.Evaluate(c, subtotal, now)
}

func trimAddress(a models.ShippingAddress) models.ShippingAddress {
	return models.ShippingAddress{
		FullName:   strings.TrimSpace(a.FullName),
		Address:    strings.TrimSpace(a.Address),
		City:       strings.TrimSpace(a.City),
		PostalCode: strings.TrimSpace(a.PostalCode),
		Country:    strings.TrimSpace(a.Country),
		Phone:      strings.TrimSpace(a.Phone),
	}
}
