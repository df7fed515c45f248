package coupons

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"modesta/models"
	"modesta/store"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T) (*Handler, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	h := NewHandler(mem)
	h.Now = func() time.Time { return now }

	require.NoError(t, mem.CreateCoupon(context.Background(), &models.Coupon{
		ID: "c1", Code: "SAVE10", Type: models.CouponPercentage, Value: 10,
		MinPurchase: 50, MaxUses: models.UnlimitedUses, IsActive: true, ExpiresAt: now.Add(time.Hour),
	}))
	require.NoError(t, mem.CreateCoupon(context.Background(), &models.Coupon{
		ID: "c2", Code: "GONE", Type: models.CouponFixed, Value: 5,
		MaxUses: models.UnlimitedUses, IsActive: true, ExpiresAt: now.Add(-time.Hour),
	}))
	return h, mem
}

func post(h func(http.ResponseWriter, *http.Request, httprouter.Params), body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/coupons/validate", strings.NewReader(body))
	h(rec, req, nil)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestValidateAppliesDiscount(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := post(h.Validate, `{"code":"save10","subtotal":80}`)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, true, body["valid"])
	assert.Equal(t, 8.0, body["discount"])
	assert.Equal(t, "SAVE10", body["coupon"].(map[string]interface{})["code"])
}

func TestValidateRejections(t *testing.T) {
	h, _ := newTestHandler(t)

	tests := []struct {
		name   string
		body   string
		status int
		msg    string
	}{
		{"missing code", `{"subtotal":80}`, http.StatusBadRequest, "Coupon code is required"},
		{"unknown code", `{"code":"NOPE","subtotal":80}`, http.StatusNotFound, "Invalid coupon code"},
		{"expired", `{"code":"gone","subtotal":80}`, http.StatusBadRequest, "This coupon has expired"},
		{"below minimum", `{"code":"SAVE10","subtotal":40}`, http.StatusBadRequest, "Minimum order of ₹50 required for this coupon"},
		{"bad json", `{`, http.StatusBadRequest, "Invalid JSON payload"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(h.Validate, tt.body)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.msg, decode(t, rec)["error"])
		})
	}
}

func TestCreateCouponDefaultsAndDuplicates(t *testing.T) {
	h, mem := newTestHandler(t)

	rec := post(h.Create, `{"code":"welcome","type":"fixed","value":15,"expiresAt":"2026-12-31T00:00:00Z"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	c, err := mem.FindCoupon(context.Background(), "WELCOME")
	require.NoError(t, err)
	assert.Equal(t, models.UnlimitedUses, c.MaxUses)
	assert.True(t, c.IsActive)
	assert.Zero(t, c.MinPurchase)

	rec = post(h.Create, `{"code":"Welcome","type":"fixed","value":5,"expiresAt":"2026-12-31T00:00:00Z"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Coupon code already exists", decode(t, rec)["error"])

	rec = post(h.Create, `{"code":"BAD","type":"bogo","value":5,"expiresAt":"2026-12-31T00:00:00Z"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = post(h.Create, `{"code":"NOEXP","type":"fixed","value":5}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateAndDeleteCoupon(t *testing.T) {
	h, mem := newTestHandler(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/admin/coupons", strings.NewReader(`{"id":"c1","isActive":false}`))
	h.Update(rec, req, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	c, err := mem.GetCoupon(context.Background(), "c1")
	require.NoError(t, err)
	assert.False(t, c.IsActive)
	assert.Equal(t, "SAVE10", c.Code)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPut, "/api/admin/coupons", strings.NewReader(`{"id":"c1","code":"gone"}`))
	h.Update(rec, req, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodDelete, "/api/admin/coupons?id=c2", nil)
	h.Delete(rec, req, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodDelete, "/api/admin/coupons?id=c2", nil)
	h.Delete(rec, req, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// redeemingStore redeems the coupon it hands out once, right after the read,
// the way a checkout committing mid-edit would.
type redeemingStore struct {
	*store.Memory
	redeemed bool
}

func (s *redeemingStore) GetCoupon(ctx context.Context, id string) (*models.Coupon, error) {
	c, err := s.Memory.GetCoupon(ctx, id)
	if err != nil || s.redeemed {
		return c, err
	}
	s.redeemed = true
	err = s.Memory.RunInTx(ctx, func(ctx context.Context, tx store.Tx) error {
		_, err := tx.RedeemCoupon(ctx, c.Code, now)
		return err
	})
	return c, err
}

func put(h *Handler, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/admin/coupons", strings.NewReader(body))
	h.Update(rec, req, nil)
	return rec
}

func TestUpdateCouponKeepsConcurrentRedemption(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	require.NoError(t, mem.CreateCoupon(ctx, &models.Coupon{
		ID: "c1", Code: "ONCE", Type: models.CouponFixed, Value: 5,
		MaxUses: 1, IsActive: true, ExpiresAt: now.Add(time.Hour),
	}))
	h := NewHandler(&redeemingStore{Memory: mem})
	h.Now = func() time.Time { return now }

	rec := put(h, `{"id":"c1","value":6}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1.0, decode(t, rec)["coupon"].(map[string]interface{})["usedCount"])

	c, err := mem.GetCoupon(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, 6.0, c.Value)
	assert.Equal(t, 1, c.UsedCount)

	var again bool
	require.NoError(t, mem.RunInTx(ctx, func(ctx context.Context, tx store.Tx) error {
		var err error
		again, err = tx.RedeemCoupon(ctx, "ONCE", now)
		return err
	}))
	assert.False(t, again)
}

func TestUpdateCouponMaxDiscount(t *testing.T) {
	h, mem := newTestHandler(t)
	ctx := context.Background()

	require.Equal(t, http.StatusOK, put(h, `{"id":"c1","maxDiscount":20}`).Code)
	c, err := mem.GetCoupon(ctx, "c1")
	require.NoError(t, err)
	require.NotNil(t, c.MaxDiscount)
	assert.Equal(t, 20.0, *c.MaxDiscount)

	require.Equal(t, http.StatusOK, put(h, `{"id":"c1","value":15}`).Code)
	c, err = mem.GetCoupon(ctx, "c1")
	require.NoError(t, err)
	require.NotNil(t, c.MaxDiscount)
	assert.Equal(t, 20.0, *c.MaxDiscount)

	require.Equal(t, http.StatusOK, put(h, `{"id":"c1","maxDiscount":null}`).Code)
	c, err = mem.GetCoupon(ctx, "c1")
	require.NoError(t, err)
	assert.Nil(t, c.MaxDiscount)
	assert.Equal(t, 15.0, c.Value)

	assert.Equal(t, http.StatusBadRequest, put(h, `{"id":"c1","maxDiscount":-1}`).Code)
}
