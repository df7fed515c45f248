package orders

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"modesta/checkout"
	"modesta/globals"
	"modesta/invoice"
	"modesta/models"
	"modesta/mq"
	"modesta/store"
	"modesta/utils"

	"github.com/julienschmidt/httprouter"
)

type Handler struct {
	Checkout *checkout.Service
	Orders   store.OrderStore
	Bus      mq.Publisher
	Now      func() time.Time
}

func NewHandler(svc *checkout.Service, orders store.OrderStore, bus mq.Publisher) *Handler {
	return &Handler{Checkout: svc, Orders: orders, Bus: bus, Now: time.Now}
}

type placeOrderRequest struct {
	ShippingAddress models.ShippingAddress `json:"shippingAddress"`
	CouponCode      string                 `json:"couponCode"`
}

type orderSummary struct {
	ID        string             `json:"id"`
	Total     float64            `json:"total"`
	Status    models.OrderStatus `json:"status"`
	ItemCount int                `json:"itemCount"`
}

// PlaceOrder converts the caller's cart into a pending order.
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req placeOrderRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	order, err := h.Checkout.PlaceOrder(ctx, checkout.PlaceOrderInput{
		UserID:          userID,
		ShippingAddress: req.ShippingAddress,
		CouponCode:      req.CouponCode,
	})
	if err != nil {
		status, msg := checkoutStatus(err)
		if status == http.StatusInternalServerError {
			log.Printf("PlaceOrder error for %s: %v", userID, err)
		}
		utils.RespondWithError(w, status, msg)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"message": "Order placed successfully",
		"order": orderSummary{
			ID:        order.ID,
			Total:     order.Total,
			Status:    order.Status,
			ItemCount: len(order.Items),
		},
	})
}

// MyOrders lists the caller's orders, newest first.
func (h *Handler) MyOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	list, err := h.Orders.ListOrdersByUser(ctx, userID)
	if err != nil {
		log.Printf("ListOrdersByUser error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch orders")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"orders": list})
}

// Invoice streams a PDF invoice to the order owner or an admin.
func (h *Handler) Invoice(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	order, err := h.Orders.GetOrder(ctx, ps.ByName("id"))
	if errors.Is(err, store.ErrNotFound) {
		utils.RespondWithError(w, http.StatusNotFound, "Order not found")
		return
	}
	if err != nil {
		log.Printf("Invoice GetOrder error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch order")
		return
	}
	if order.UserID != userID && !utils.HasRole(r, models.RoleAdmin) {
		utils.RespondWithError(w, http.StatusNotFound, "Order not found")
		return
	}

	pdf, err := invoice.Render(order, globals.JwtSecret)
	if err != nil {
		log.Printf("Invoice render error for %s: %v", order.ID, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate invoice")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=invoice-"+order.ID+".pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}
