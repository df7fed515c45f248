package coupons

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"modesta/models"
	"modesta/store"
	"modesta/utils"

	"github.com/julienschmidt/httprouter"
)

type Handler struct {
	Store store.CouponStore
	Now   func() time.Time
}

func NewHandler(s store.CouponStore) *Handler {
	return &Handler{Store: s, Now: time.Now}
}

type validateRequest struct {
	Code     string  `json:"code"`
	Subtotal float64 `json:"subtotal"`
}

type couponSummary struct {
	Code  string            `json:"code"`
	Type  models.CouponType `json:"type"`
	Value float64           `json:"value"`
}

// Validate previews a coupon against a subtotal without redeeming it.
func (h *Handler) Validate(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var req validateRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if strings.TrimSpace(req.Code) == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Coupon code is required")
		return
	}

	c, err := h.Store.FindCoupon(ctx, req.Code)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		log.Printf("Validate coupon lookup error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to validate coupon")
		return
	}

	discount, err := Evaluate(c, req.Subtotal, h.Now())
	if err != nil {
		msg, _ := Reason(err)
		status := http.StatusBadRequest
		if errors.Is(err, ErrNotFound) {
			status = http.StatusNotFound
		}
		utils.RespondWithError(w, status, msg)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"valid":    true,
		"coupon":   couponSummary{Code: c.Code, Type: c.Type, Value: c.Value},
		"discount": discount,
	})
}

// optionalFloat tells an explicit null apart from an absent field.
type optionalFloat struct {
	Set   bool
	Value *float64
}

func (o *optionalFloat) UnmarshalJSON(b []byte) error {
	o.Set = true
	return json.Unmarshal(b, &o.Value)
}

// couponInput is the admin create/update body. Absent fields are left
// untouched on update; "maxDiscount": null removes the cap.
type couponInput struct {
	ID          string             `json:"id"`
	Code        *string            `json:"code"`
	Type        *models.CouponType `json:"type"`
	Value       *float64           `json:"value"`
	MinPurchase *float64           `json:"minPurchase"`
	MaxDiscount optionalFloat      `json:"maxDiscount"`
	MaxUses     *int               `json:"maxUses"`
	ExpiresAt   *time.Time         `json:"expiresAt"`
	IsActive    *bool              `json:"isActive"`
}

func (in couponInput) patch() store.CouponPatch {
	return store.CouponPatch{
		Code:             in.Code,
		Type:             in.Type,
		Value:            in.Value,
		MinPurchase:      in.MinPurchase,
		MaxDiscount:      in.MaxDiscount.Value,
		ClearMaxDiscount: in.MaxDiscount.Set && in.MaxDiscount.Value == nil,
		MaxUses:          in.MaxUses,
		ExpiresAt:        in.ExpiresAt,
		IsActive:         in.IsActive,
	}
}

func validate(c *models.Coupon) string {
	switch {
	case c.Code == "":
		return "Coupon code is required"
	case !c.Type.Valid():
		return "Coupon type must be percentage or fixed"
	case c.Value < 0:
		return "Value cannot be negative"
	case c.MinPurchase < 0:
		return "Minimum purchase cannot be negative"
	case c.MaxDiscount != nil && *c.MaxDiscount < 0:
		return "Maximum discount cannot be negative"
	case c.MaxUses < models.UnlimitedUses:
		return "Max uses must be -1 (unlimited) or more"
	case c.ExpiresAt.IsZero():
		return "Please provide an expiration date"
	}
	return ""
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	list, err := h.Store.ListCoupons(ctx)
	if err != nil {
		log.Printf("ListCoupons error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch coupons")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"coupons": list})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var in couponInput
	if err := utils.DecodeJSON(r, &in); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	now := h.Now()
	c := &models.Coupon{
		ID:        utils.GetUUID(),
		MaxUses:   models.UnlimitedUses,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	in.patch().Apply(c)
	if msg := validate(c); msg != "" {
		utils.RespondWithError(w, http.StatusBadRequest, msg)
		return
	}

	if err := h.Store.CreateCoupon(ctx, c); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			utils.RespondWithError(w, http.StatusBadRequest, "Coupon code already exists")
			return
		}
		log.Printf("CreateCoupon error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create coupon")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"message": "Coupon created", "coupon": c})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var in couponInput
	if err := utils.DecodeJSON(r, &in); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if in.ID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Coupon ID is required")
		return
	}

	c, err := h.Store.GetCoupon(ctx, in.ID)
	if errors.Is(err, store.ErrNotFound) {
		utils.RespondWithError(w, http.StatusNotFound, "Coupon not found")
		return
	}
	if err != nil {
		log.Printf("UpdateCoupon lookup error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update coupon")
		return
	}

	p := in.patch()
	p.Apply(c)
	if msg := validate(c); msg != "" {
		utils.RespondWithError(w, http.StatusBadRequest, msg)
		return
	}

	updated, err := h.Store.UpdateCoupon(ctx, in.ID, p, h.Now())
	switch {
	case errors.Is(err, store.ErrDuplicate):
		utils.RespondWithError(w, http.StatusBadRequest, "Coupon code already exists")
	case errors.Is(err, store.ErrNotFound):
		utils.RespondWithError(w, http.StatusNotFound, "Coupon not found")
	case err != nil:
		log.Printf("UpdateCoupon error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update coupon")
	default:
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Coupon updated", "coupon": updated})
	}
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	id := r.URL.Query().Get("id")
	if id == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Coupon ID is required")
		return
	}

	switch err := h.Store.DeleteCoupon(ctx, id); {
	case errors.Is(err, store.ErrNotFound):
		utils.RespondWithError(w, http.StatusNotFound, "Coupon not found")
	case err != nil:
		log.Printf("DeleteCoupon error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete coupon")
	default:
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Coupon deleted"})
	}
}
