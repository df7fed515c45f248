package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"modesta/checkout"
	"modesta/live"
	"modesta/middleware"
	"modesta/models"
	"modesta/mq"
	"modesta/ratelim"
	"modesta/search"
	"modesta/store"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(t *testing.T, burst int) (*httprouter.Router, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	bus := mq.NewLocalBus()
	hub := live.NewHub()
	go hub.Run()
	t.Cleanup(hub.Stop)

	router := httprouter.New()
	RoutesWrapper(router, Deps{
		Store:    mem,
		Checkout: checkout.NewService(mem, checkout.NewLocalLocker(), bus, time.Second),
		Bus:      bus,
		Limiter:  ratelim.NewRateLimiter(1, burst),
		Search:   search.NewHandler(search.MongoFinder{}, nil),
		Hub:      hub,
	})
	return router, mem
}

func serve(router http.Handler, method, path, tok, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	router, _ := newRouter(t, 10)
	rec := serve(router, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "200", rec.Body.String())
}

func TestAdminRoutesRequireRole(t *testing.T) {
	router, _ := newRouter(t, 10)

	userTok, err := middleware.IssueToken("u1", "aisha", []string{models.RoleUser}, time.Hour)
	require.NoError(t, err)
	adminTok, err := middleware.IssueToken("a1", "admin", []string{models.RoleAdmin}, time.Hour)
	require.NoError(t, err)

	for _, path := range []string{"/api/admin/coupons", "/api/admin/orders", "/api/admin/dashboard", "/api/admin/products"} {
		assert.Equal(t, http.StatusUnauthorized, serve(router, http.MethodGet, path, "", "").Code, path)
		assert.Equal(t, http.StatusForbidden, serve(router, http.MethodGet, path, userTok, "").Code, path)
	}

	rec := serve(router, http.MethodGet, "/api/admin/coupons", adminTok, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCouponValidateIsRateLimited(t *testing.T) {
	router, mem := newRouter(t, 2)
	require.NoError(t, mem.CreateCoupon(context.Background(), &models.Coupon{
		ID: "c1", Code: "EID10", Type: models.CouponPercentage, Value: 10, MaxUses: models.UnlimitedUses, IsActive: true,
	}))

	body := `{"code":"eid10","subtotal":100}`
	assert.Equal(t, http.StatusOK, serve(router, http.MethodPost, "/api/coupons/validate", "", body).Code)
	assert.Equal(t, http.StatusOK, serve(router, http.MethodPost, "/api/coupons/validate", "", body).Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(router, http.MethodPost, "/api/coupons/validate", "", body).Code)
}

func TestCartRequiresAuth(t *testing.T) {
	router, mem := newRouter(t, 10)
	mem.PutProduct(models.Product{ID: "p1", Name: "Turkey Pashmina", Price: 25, Stock: 3})

	assert.Equal(t, http.StatusUnauthorized, serve(router, http.MethodGet, "/api/cart", "", "").Code)

	tok, err := middleware.IssueToken("u1", "aisha", []string{models.RoleUser}, time.Hour)
	require.NoError(t, err)
	rec := serve(router, http.MethodPost, "/api/cart", tok, `{"productId":"p1","quantity":2}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	var out struct {
		Total float64 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, 50.0, out.Total)
}
