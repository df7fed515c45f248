package checkout

import (
	"context"

	"modesta/store"
)

// CheckStock fails on the first line whose quantity exceeds stock.
func CheckStock(lines []Line) error {
	for _, l := range lines {
		if l.Stock < l.Quantity {
			return &InsufficientStockError{ProductID: l.ProductID, ProductName: l.Name, Requested: l.Quantity, Available: l.Stock}
		}
	}
	return nil
}

// reserve decrements stock for every line inside tx. A lost race on any
// line returns an error so the transaction rolls back all of them.
func reserve(ctx context.Context, tx store.Tx, lines []Line) error {
	for _, l := range lines {
		ok, err := tx.DecrementStock(ctx, l.ProductID, l.Quantity)
		if err != nil {
			return err
		}
		if !ok {
			return &InsufficientStockError{ProductID: l.ProductID, ProductName: l.Name, Requested: l.Quantity}
		}
	}
	return nil
}
