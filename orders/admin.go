package orders

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"modesta/globals"
	"modesta/invoice"
	"modesta/models"
	"modesta/mq"
	"modesta/store"
	"modesta/utils"

	"github.com/julienschmidt/httprouter"
)

// List serves the admin order table with an optional ?status filter.
func (h *Handler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	page := utils.ParsePagination(r, 20, 100)
	status := models.OrderStatus(r.URL.Query().Get("status"))
	if status != "" && !status.Valid() {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid status")
		return
	}

	list, total, err := h.Orders.ListOrders(ctx, store.OrderFilter{Status: status, Skip: page.Skip(), Limit: page.Limit})
	if err != nil {
		log.Printf("ListOrders error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch orders")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"orders": list, "pagination": page.WithTotal(total)})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	order, err := h.Orders.GetOrder(ctx, ps.ByName("id"))
	if errors.Is(err, store.ErrNotFound) {
		utils.RespondWithError(w, http.StatusNotFound, "Order not found")
		return
	}
	if err != nil {
		log.Printf("GetOrder error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch order")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"order": order})
}

// UpdateStatus sets any valid status; transitions are not enforced.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var req struct {
		Status models.OrderStatus `json:"status"`
	}
	if err := utils.DecodeJSON(r, &req); err != nil || !req.Status.Valid() {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid status")
		return
	}

	now := h.Now()
	order, err := h.Orders.UpdateOrderStatus(ctx, ps.ByName("id"), req.Status, now)
	if errors.Is(err, store.ErrNotFound) {
		utils.RespondWithError(w, http.StatusNotFound, "Order not found")
		return
	}
	if err != nil {
		log.Printf("UpdateOrderStatus error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update order")
		return
	}

	mq.Emit(ctx, h.Bus, mq.OrderChannel, models.BusEvent{
		Type:     models.OrderStatusChanged,
		EntityID: order.ID,
		UserID:   order.UserID,
		Status:   string(order.Status),
		Total:    order.Total,
		At:       now,
	})
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Order status updated successfully", "order": order})
}

// VerifyInvoice resolves the QR payload printed on an invoice.
func (h *Handler) VerifyInvoice(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	id, ok := invoice.Verify(r.URL.Query().Get("payload"), globals.JwtSecret)
	if !ok {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid invoice code")
		return
	}
	order, err := h.Orders.GetOrder(ctx, id)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Order not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"valid": true, "order": order})
}
