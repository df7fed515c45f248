package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"modesta/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRunInTxRollsBack(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	m.PutProduct(models.Product{ID: "p1", Name: "Turkey Pashmina", Stock: 5})
	require.NoError(t, m.SaveCart(ctx, &models.Cart{UserID: "u1", Items: []models.CartItem{{ProductID: "p1", Quantity: 2}}}))

	boom := errors.New("boom")
	err := m.RunInTx(ctx, func(ctx context.Context, tx Tx) error {
		ok, err := tx.DecrementStock(ctx, "p1", 2)
		require.NoError(t, err)
		require.True(t, ok)
		require.NoError(t, tx.InsertOrder(ctx, &models.Order{ID: "o1", UserID: "u1"}))
		require.NoError(t, tx.ClearCart(ctx, "u1", time.Now()))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	p, err := m.GetProduct(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 5, p.Stock)

	_, err = m.GetOrder(ctx, "o1")
	assert.ErrorIs(t, err, ErrNotFound)

	cart, err := m.GetCart(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)
}

func TestMemoryDecrementStockIsConditional(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	m.PutProduct(models.Product{ID: "p1", Stock: 1})

	err := m.RunInTx(ctx, func(ctx context.Context, tx Tx) error {
		ok, err := tx.DecrementStock(ctx, "p1", 2)
		assert.False(t, ok)
		return err
	})
	require.NoError(t, err)

	p, _ := m.GetProduct(ctx, "p1")
	assert.Equal(t, 1, p.Stock)
}

func TestMemoryRedeemCoupon(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	m := NewMemory()
	require.NoError(t, m.CreateCoupon(ctx, &models.Coupon{ID: "c1", Code: "ONCE", IsActive: true, MaxUses: 1, ExpiresAt: now.Add(time.Hour)}))
	require.NoError(t, m.CreateCoupon(ctx, &models.Coupon{ID: "c2", Code: "OLD", IsActive: true, MaxUses: models.UnlimitedUses, ExpiresAt: now.Add(-time.Hour)}))

	redeem := func(code string) bool {
		var got bool
		require.NoError(t, m.RunInTx(ctx, func(ctx context.Context, tx Tx) error {
			ok, err := tx.RedeemCoupon(ctx, code, now)
			got = ok
			return err
		}))
		return got
	}

	assert.True(t, redeem("once"))
	assert.False(t, redeem("ONCE"))
	assert.False(t, redeem("OLD"))
	assert.False(t, redeem("MISSING"))

	c, err := m.FindCoupon(ctx, " once ")
	require.NoError(t, err)
	assert.Equal(t, 1, c.UsedCount)
}

func TestMemoryCouponUniqueness(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.CreateCoupon(ctx, &models.Coupon{ID: "c1", Code: "SAVE10"}))
	require.NoError(t, m.CreateCoupon(ctx, &models.Coupon{ID: "c2", Code: "SAVE20"}))

	assert.ErrorIs(t, m.CreateCoupon(ctx, &models.Coupon{ID: "c3", Code: "SAVE10"}), ErrDuplicate)
	taken, other := "save10", "X"
	_, err := m.UpdateCoupon(ctx, "c2", CouponPatch{Code: &taken}, time.Now())
	assert.ErrorIs(t, err, ErrDuplicate)
	_, err = m.UpdateCoupon(ctx, "nope", CouponPatch{Code: &other}, time.Now())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, m.DeleteCoupon(ctx, "nope"), ErrNotFound)
	assert.NoError(t, m.DeleteCoupon(ctx, "c1"))
}

func TestMemoryListOrders(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, m.RunInTx(ctx, func(ctx context.Context, tx Tx) error {
		for i, st := range []models.OrderStatus{models.StatusPending, models.StatusShipped, models.StatusPending} {
			o := &models.Order{ID: string(rune('a' + i)), UserID: "u1", Status: st, CreatedAt: base.Add(time.Duration(i) * time.Hour)}
			if err := tx.InsertOrder(ctx, o); err != nil {
				return err
			}
		}
		return nil
	}))

	all, total, err := m.ListOrders(ctx, OrderFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Equal(t, []string{"c", "b", "a"}, []string{all[0].ID, all[1].ID, all[2].ID})

	pending, total, err := m.ListOrders(ctx, OrderFilter{Status: models.StatusPending, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, pending, 1)
	assert.Equal(t, "c", pending[0].ID)

	page, _, err := m.ListOrders(ctx, OrderFilter{Skip: 5, Limit: 2})
	require.NoError(t, err)
	assert.Empty(t, page)

	updated, err := m.UpdateOrderStatus(ctx, "a", models.StatusDelivered, base)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDelivered, updated.Status)
}
