package checkout

import (
	"modesta/models"

	"github.com/shopspring/decimal"
)

// Line is a cart item priced at the product's current price.
type Line struct {
	ProductID     string
	Name          string
	Image         string
	Price         float64
	Quantity      int
	Stock         int
	SelectedColor string
	SelectedSize  string
}

type Snapshot struct {
	Lines    []Line
	Subtotal float64
}

// TakeSnapshot joins the cart with live product data. Lines keep cart order.
func TakeSnapshot(cart *models.Cart, products map[string]*models.Product) (*Snapshot, error) {
	if cart == nil || len(cart.Items) == 0 {
		return nil, ErrEmptyCart
	}

	snap := &Snapshot{Lines: make([]Line, 0, len(cart.Items))}
	subtotal := decimal.Zero
	for _, it := range cart.Items {
		p, ok := products[it.ProductID]
		if !ok {
			return nil, ErrProductUnavailable
		}
		snap.Lines = append(snap.Lines, Line{
			ProductID:     p.ID,
			Name:          p.Name,
			Image:         p.Image,
			Price:         p.Price,
			Quantity:      it.Quantity,
			Stock:         p.Stock,
			SelectedColor: it.SelectedColor,
			SelectedSize:  it.SelectedSize,
		})
		subtotal = subtotal.Add(decimal.NewFromFloat(p.Price).Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	snap.Subtotal, _ = subtotal.Round(2).Float64()
	return snap, nil
}

func (s *Snapshot) orderItems() []models.OrderItem {
	items := make([]models.OrderItem, len(s.Lines))
	for i, l := range s.Lines {
		items[i] = models.OrderItem{
			ProductID:     l.ProductID,
			Name:          l.Name,
			Price:         l.Price,
			Quantity:      l.Quantity,
			Image:         l.Image,
			SelectedColor: l.SelectedColor,
			SelectedSize:  l.SelectedSize,
		}
	}
	return items
}
