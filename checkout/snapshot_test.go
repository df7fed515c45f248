package checkout

import (
	"context"
	"testing"
	"time"

	"modesta/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTakeSnapshotSubtotal(t *testing.T) {
	cart := &models.Cart{Items: []models.CartItem{
		{ProductID: "a", Quantity: 3},
		{ProductID: "b", Quantity: 1},
	}}
	products := map[string]*models.Product{
		"a": {ID: "a", Name: "Pashmina", Price: 0.1, Stock: 5},
		"b": {ID: "b", Name: "Brooch", Price: 0.2, Stock: 5},
	}

	snap, err := TakeSnapshot(cart, products)
	require.NoError(t, err)
	assert.Equal(t, 0.5, snap.Subtotal)
	require.Len(t, snap.Lines, 2)
	assert.Equal(t, "Pashmina", snap.Lines[0].Name)
}

func TestTakeSnapshotEmpty(t *testing.T) {
	_, err := TakeSnapshot(nil, nil)
	assert.ErrorIs(t, err, ErrEmptyCart)

	_, err = TakeSnapshot(&models.Cart{}, nil)
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCheckStockReportsFirstShortLine(t *testing.T) {
	err := CheckStock([]Line{
		{ProductID: "a", Name: "A", Quantity: 1, Stock: 1},
		{ProductID: "b", Name: "B", Quantity: 3, Stock: 2},
		{ProductID: "c", Name: "C", Quantity: 9, Stock: 0},
	})
	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "B", stockErr.ProductName)
	assert.Equal(t, 2, stockErr.Available)

	assert.NoError(t, CheckStock([]Line{{Quantity: 2, Stock: 2}}))
}

func TestLocalLocker(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewLocalLocker()
	l.clock = func() time.Time { return clock }

	unlock, ok, err := l.TryLock(ctx, "checkout_lock:u1", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, _ = l.TryLock(ctx, "checkout_lock:u1", time.Minute)
	assert.False(t, ok)

	_, ok, _ = l.TryLock(ctx, "checkout_lock:u2", time.Minute)
	assert.True(t, ok)

	unlock()
	relock, ok, _ := l.TryLock(ctx, "checkout_lock:u1", time.Minute)
	require.True(t, ok)

	// an expired holder's unlock must not release the new holder
	clock = clock.Add(2 * time.Minute)
	_, ok, _ = l.TryLock(ctx, "checkout_lock:u1", time.Minute)
	assert.True(t, ok)
	relock()
	_, ok, _ = l.TryLock(ctx, "checkout_lock:u1", time.Minute)
	assert.False(t, ok)
}
