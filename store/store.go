// Package store holds the persistence boundary of the checkout core.
package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"modesta/models"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate key")
)

type ProductReader interface {
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	// GetProducts returns the products that exist, keyed by id.
	GetProducts(ctx context.Context, ids []string) (map[string]*models.Product, error)
}

type CartStore interface {
	GetCart(ctx context.Context, userID string) (*models.Cart, error)
	SaveCart(ctx context.Context, cart *models.Cart) error
}

type CouponStore interface {
	FindCoupon(ctx context.Context, code string) (*models.Coupon, error)
	GetCoupon(ctx context.Context, id string) (*models.Coupon, error)
	ListCoupons(ctx context.Context) ([]models.Coupon, error)
	CreateCoupon(ctx context.Context, c *models.Coupon) error
	// UpdateCoupon writes only the fields named by p and returns the stored coupon.
	UpdateCoupon(ctx context.Context, id string, p CouponPatch, now time.Time) (*models.Coupon, error)
	DeleteCoupon(ctx context.Context, id string) error
}

// CouponPatch holds the admin-editable coupon fields. Nil fields keep their
// stored value. UsedCount is owned by checkout and never patched.
type CouponPatch struct {
	Code             *string
	Type             *models.CouponType
	Value            *float64
	MinPurchase      *float64
	MaxDiscount      *float64
	ClearMaxDiscount bool
	MaxUses          *int
	ExpiresAt        *time.Time
	IsActive         *bool
}

// Apply copies the set fields of p onto c.
func (p CouponPatch) Apply(c *models.Coupon) {
	if p.Code != nil {
		c.Code = NormalizeCode(*p.Code)
	}
	if p.Type != nil {
		c.Type = *p.Type
	}
	if p.Value != nil {
		c.Value = *p.Value
	}
	if p.MinPurchase != nil {
		c.MinPurchase = *p.MinPurchase
	}
	switch {
	case p.ClearMaxDiscount:
		c.MaxDiscount = nil
	case p.MaxDiscount != nil:
		v := *p.MaxDiscount
		c.MaxDiscount = &v
	}
	if p.MaxUses != nil {
		c.MaxUses = *p.MaxUses
	}
	if p.ExpiresAt != nil {
		c.ExpiresAt = *p.ExpiresAt
	}
	if p.IsActive != nil {
		c.IsActive = *p.IsActive
	}
}

type OrderFilter struct {
	Status models.OrderStatus
	Skip   int64
	Limit  int64
}

type OrderStore interface {
	ListOrdersByUser(ctx context.Context, userID string) ([]models.Order, error)
	ListOrders(ctx context.Context, f OrderFilter) ([]models.Order, int64, error)
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus, now time.Time) (*models.Order, error)
}

// Tx is the set of writes that commit or roll back together at checkout.
type Tx interface {
	// DecrementStock applies stock -= qty only if stock >= qty.
	DecrementStock(ctx context.Context, productID string, qty int) (bool, error)
	// RedeemCoupon increments usedCount only while the coupon is still usable.
	RedeemCoupon(ctx context.Context, code string, now time.Time) (bool, error)
	InsertOrder(ctx context.Context, o *models.Order) error
	ClearCart(ctx context.Context, userID string, now time.Time) error
}

type Store interface {
	ProductReader
	CartStore
	CouponStore
	OrderStore
	// RunInTx runs fn atomically. Any error from fn rolls every write back.
	RunInTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// NormalizeCode uppercases and trims a coupon code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
