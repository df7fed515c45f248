package cart

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"modesta/checkout"
	"modesta/models"
	"modesta/store"
	"modesta/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/shopspring/decimal"
)

type Store interface {
	store.CartStore
	store.ProductReader
}

// Handler serializes cart writes with checkout through Locker, so a
// checkout's cart clear is never overwritten by a stale save.
type Handler struct {
	Store   Store
	Locker  checkout.Locker
	LockTTL time.Duration
	Now     func() time.Time
}

func NewHandler(s Store, l checkout.Locker) *Handler {
	if l == nil {
		l = checkout.NewLocalLocker()
	}
	return &Handler{Store: s, Locker: l, LockTTL: 10 * time.Second, Now: time.Now}
}

// lock takes the user's checkout lock. A lock backend failure is logged
// and the write goes ahead unlocked.
func (h *Handler) lock(ctx context.Context, w http.ResponseWriter, userID string) (func(), bool) {
	unlock, ok, err := h.Locker.TryLock(ctx, checkout.LockKey(userID), h.LockTTL)
	switch {
	case err != nil:
		log.Printf("[Cart] lock for %s unavailable: %v", userID, err)
		return func() {}, true
	case !ok:
		utils.RespondWithError(w, http.StatusConflict, "Checkout in progress, please try again")
		return nil, false
	}
	return unlock, true
}

type itemRequest struct {
	ProductID     string `json:"productId"`
	Quantity      *int   `json:"quantity"`
	SelectedColor string `json:"selectedColor"`
	SelectedSize  string `json:"selectedSize"`
}

// view joins cart lines with products and totals them at current prices.
// Lines whose product no longer exists are left out.
func (h *Handler) view(ctx context.Context, c *models.Cart) ([]models.CartLine, float64, error) {
	lines := []models.CartLine{}
	if c == nil || len(c.Items) == 0 {
		return lines, 0, nil
	}

	ids := make([]string, len(c.Items))
	for i, it := range c.Items {
		ids[i] = it.ProductID
	}
	products, err := h.Store.GetProducts(ctx, ids)
	if err != nil {
		return nil, 0, err
	}

	total := decimal.Zero
	for _, it := range c.Items {
		p, ok := products[it.ProductID]
		if !ok {
			continue
		}
		lines = append(lines, models.CartLine{
			Product:       p,
			Quantity:      it.Quantity,
			SelectedColor: it.SelectedColor,
			SelectedSize:  it.SelectedSize,
		})
		total = total.Add(decimal.NewFromFloat(p.Price).Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	f, _ := total.Round(2).Float64()
	return lines, f, nil
}

func (h *Handler) respond(ctx context.Context, w http.ResponseWriter, c *models.Cart, message string) {
	lines, total, err := h.view(ctx, c)
	if err != nil {
		log.Printf("Cart view error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch cart")
		return
	}
	out := utils.M{"items": lines, "total": total}
	if message != "" {
		out["message"] = message
	}
	utils.RespondWithJSON(w, http.StatusOK, out)
}

// GetCart returns the caller's cart with live prices.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	c, err := h.Store.GetCart(ctx, userID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		log.Printf("GetCart error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch cart")
		return
	}
	h.respond(ctx, w, c, "")
}

// AddToCart merges quantity into an existing line or appends a new one.
func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req itemRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if req.ProductID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Product ID is required")
		return
	}
	qty := 1
	if req.Quantity != nil {
		qty = *req.Quantity
	}
	if qty < 1 {
		utils.RespondWithError(w, http.StatusBadRequest, "Quantity must be at least 1")
		return
	}

	p, err := h.Store.GetProduct(ctx, req.ProductID)
	if errors.Is(err, store.ErrNotFound) {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}
	if err != nil {
		log.Printf("AddToCart product lookup error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to add to cart")
		return
	}

	unlock, ok := h.lock(ctx, w, userID)
	if !ok {
		return
	}
	defer unlock()

	now := h.Now()
	c, err := h.Store.GetCart(ctx, userID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		c = &models.Cart{ID: utils.GetUUID(), UserID: userID, CreatedAt: now}
	case err != nil:
		log.Printf("AddToCart cart lookup error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to add to cart")
		return
	}

	if i := c.Find(p.ID); i >= 0 {
		line := &c.Items[i]
		qty += line.Quantity
		if p.Stock < qty {
			utils.RespondWithError(w, http.StatusBadRequest, "Not enough stock")
			return
		}
		line.Quantity = qty
		if req.SelectedColor != "" {
			line.SelectedColor = req.SelectedColor
		}
		if req.SelectedSize != "" {
			line.SelectedSize = req.SelectedSize
		}
	} else {
		if p.Stock < qty {
			utils.RespondWithError(w, http.StatusBadRequest, "Not enough stock")
			return
		}
		c.Items = append(c.Items, models.CartItem{
			ProductID:     p.ID,
			Quantity:      qty,
			SelectedColor: req.SelectedColor,
			SelectedSize:  req.SelectedSize,
		})
	}

	c.UpdatedAt = now
	if err := h.Store.SaveCart(ctx, c); err != nil {
		log.Printf("AddToCart save error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to add to cart")
		return
	}
	h.respond(ctx, w, c, "Item added to cart")
}

// UpdateCart sets a line's quantity; zero or less removes the line.
func (h *Handler) UpdateCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req itemRequest
	if err := utils.DecodeJSON(r, &req); err != nil || req.ProductID == "" || req.Quantity == nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Product ID and quantity are required")
		return
	}

	unlock, locked := h.lock(ctx, w, userID)
	if !locked {
		return
	}
	defer unlock()

	c, ok := h.loadCart(ctx, w, userID)
	if !ok {
		return
	}
	i := c.Find(req.ProductID)
	if i < 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Item not in cart")
		return
	}

	if qty := *req.Quantity; qty <= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
	} else {
		p, err := h.Store.GetProduct(ctx, req.ProductID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			log.Printf("UpdateCart product lookup error: %v", err)
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update cart")
			return
		}
		if p != nil && p.Stock < qty {
			utils.RespondWithError(w, http.StatusBadRequest, "Not enough stock")
			return
		}
		c.Items[i].Quantity = qty
	}

	c.UpdatedAt = h.Now()
	if err := h.Store.SaveCart(ctx, c); err != nil {
		log.Printf("UpdateCart save error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update cart")
		return
	}
	h.respond(ctx, w, c, "Cart updated")
}

// RemoveFromCart drops the line for productId.
func (h *Handler) RemoveFromCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req itemRequest
	if err := utils.DecodeJSON(r, &req); err != nil || req.ProductID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Product ID is required")
		return
	}

	unlock, locked := h.lock(ctx, w, userID)
	if !locked {
		return
	}
	defer unlock()

	c, ok := h.loadCart(ctx, w, userID)
	if !ok {
		return
	}
	if i := c.Find(req.ProductID); i >= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
		c.UpdatedAt = h.Now()
		if err := h.Store.SaveCart(ctx, c); err != nil {
			log.Printf("RemoveFromCart save error: %v", err)
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to remove from cart")
			return
		}
	}
	h.respond(ctx, w, c, "Item removed from cart")
}

func (h *Handler) loadCart(ctx context.Context, w http.ResponseWriter, userID string) (*models.Cart, bool) {
	c, err := h.Store.GetCart(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		utils.RespondWithError(w, http.StatusNotFound, "Cart not found")
		return nil, false
	}
	if err != nil {
		log.Printf("Cart lookup error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch cart")
		return nil, false
	}
	return c, true
}
