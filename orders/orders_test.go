package orders

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"modesta/checkout"
	"modesta/middleware"
	"modesta/models"
	"modesta/store"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullAddress = `{"fullName":"Aisha Rahman","address":"12 Jalan Melati","city":"Kuala Lumpur","postalCode":"50450","country":"Malaysia","phone":"+60123456789"}`

type fixture struct {
	mem    *store.Memory
	router *httprouter.Router
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mem := store.NewMemory()
	mem.PutProduct(models.Product{ID: "p1", Name: "Turkey Pashmina", Price: 25, Stock: 100})
	mem.PutProduct(models.Product{ID: "p2", Name: "Women Dress Abaya Black", Price: 65, Stock: 100})
	mem.PutProduct(models.Product{ID: "p3", Name: "Gamis Mocha", Price: 58, Stock: 1})

	svc := checkout.NewService(mem, checkout.NewLocalLocker(), nil, time.Second)
	h := NewHandler(svc, mem, nil)

	auth := middleware.Authenticate
	admin := middleware.Chain(middleware.Authenticate, middleware.RequireRoles(models.RoleAdmin))

	router := httprouter.New()
	router.POST("/api/orders", auth(h.PlaceOrder))
	router.GET("/api/orders", auth(h.MyOrders))
	router.GET("/api/orders/:id/invoice", auth(h.Invoice))
	router.GET("/api/admin/orders", admin(h.List))
	router.GET("/api/admin/orders/:id", admin(h.Get))
	router.PUT("/api/admin/orders/:id", admin(h.UpdateStatus))
	router.GET("/api/admin/invoices/verify", admin(h.VerifyInvoice))
	return &fixture{mem: mem, router: router}
}

func token(t *testing.T, userID string, roles ...string) string {
	t.Helper()
	tok, err := middleware.IssueToken(userID, userID, roles, time.Hour)
	require.NoError(t, err)
	return tok
}

func (f *fixture) do(method, path, tok, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) cart(t *testing.T, userID string, items ...models.CartItem) {
	t.Helper()
	require.NoError(t, f.mem.SaveCart(context.Background(), &models.Cart{UserID: userID, Items: items}))
}

func body(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestPlaceOrderEndpoint(t *testing.T) {
	f := newFixture(t)
	f.cart(t, "u1", models.CartItem{ProductID: "p1", Quantity: 2}, models.CartItem{ProductID: "p2", Quantity: 1})

	rec := f.do(http.MethodPost, "/api/orders", token(t, "u1", "user"), `{"shippingAddress":`+fullAddress+`}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	out := body(t, rec)
	assert.Equal(t, "Order placed successfully", out["message"])
	order := out["order"].(map[string]interface{})
	assert.Equal(t, 115.0, order["total"])
	assert.Equal(t, "pending", order["status"])
	assert.Equal(t, 2.0, order["itemCount"])
	assert.NotEmpty(t, order["id"])
}

func TestPlaceOrderEndpointErrors(t *testing.T) {
	f := newFixture(t)
	f.cart(t, "short", models.CartItem{ProductID: "p3", Quantity: 2})
	f.cart(t, "ok", models.CartItem{ProductID: "p1", Quantity: 1})

	tests := []struct {
		name   string
		user   string
		body   string
		status int
		msg    string
	}{
		{"empty cart", "nobody", `{"shippingAddress":` + fullAddress + `}`, http.StatusBadRequest, "Cart is empty"},
		{"short stock", "short", `{"shippingAddress":` + fullAddress + `}`, http.StatusBadRequest, "Not enough stock for Gamis Mocha"},
		{"no address", "ok", `{}`, http.StatusBadRequest, "Please provide complete shipping address"},
		{"bad coupon", "ok", `{"shippingAddress":` + fullAddress + `,"couponCode":"NOPE"}`, http.StatusBadRequest, "Invalid coupon code"},
		{"bad json", "ok", `{`, http.StatusBadRequest, "Invalid JSON payload"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(http.MethodPost, "/api/orders", token(t, tt.user), tt.body)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.msg, body(t, rec)["error"])
		})
	}

	rec := f.do(http.MethodPost, "/api/orders", "", `{}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMyOrdersOnlyReturnsCallersOrders(t *testing.T) {
	f := newFixture(t)
	f.cart(t, "u1", models.CartItem{ProductID: "p1", Quantity: 1})
	f.cart(t, "u2", models.CartItem{ProductID: "p2", Quantity: 1})

	require.Equal(t, http.StatusCreated, f.do(http.MethodPost, "/api/orders", token(t, "u1"), `{"shippingAddress":`+fullAddress+`}`).Code)
	require.Equal(t, http.StatusCreated, f.do(http.MethodPost, "/api/orders", token(t, "u2"), `{"shippingAddress":`+fullAddress+`}`).Code)

	rec := f.do(http.MethodGet, "/api/orders", token(t, "u1"), "")
	require.Equal(t, http.StatusOK, rec.Code)
	list := body(t, rec)["orders"].([]interface{})
	require.Len(t, list, 1)
	assert.Equal(t, "u1", list[0].(map[string]interface{})["userId"])
}

func TestAdminUpdateStatus(t *testing.T) {
	f := newFixture(t)
	f.cart(t, "u1", models.CartItem{ProductID: "p1", Quantity: 1})
	rec := f.do(http.MethodPost, "/api/orders", token(t, "u1"), `{"shippingAddress":`+fullAddress+`}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	id := body(t, rec)["order"].(map[string]interface{})["id"].(string)

	admin := token(t, "a1", models.RoleAdmin)

	assert.Equal(t, http.StatusForbidden, f.do(http.MethodPut, "/api/admin/orders/"+id, token(t, "u1", "user"), `{"status":"shipped"}`).Code)
	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodPut, "/api/admin/orders/"+id, "", `{"status":"shipped"}`).Code)

	rec = f.do(http.MethodPut, "/api/admin/orders/"+id, admin, `{"status":"teleported"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid status", body(t, rec)["error"])

	rec = f.do(http.MethodPut, "/api/admin/orders/missing", admin, `{"status":"shipped"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(http.MethodPut, "/api/admin/orders/"+id, admin, `{"status":"delivered"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	out := body(t, rec)
	assert.Equal(t, "Order status updated successfully", out["message"])
	assert.Equal(t, "delivered", out["order"].(map[string]interface{})["status"])

	rec = f.do(http.MethodPut, "/api/admin/orders/"+id, admin, `{"status":"pending"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(http.MethodGet, "/api/admin/orders?status=pending", admin, "")
	require.Equal(t, http.StatusOK, rec.Code)
	out = body(t, rec)
	assert.Len(t, out["orders"], 1)
	assert.Equal(t, 1.0, out["pagination"].(map[string]interface{})["total"])
}

func TestInvoiceAccess(t *testing.T) {
	f := newFixture(t)
	f.cart(t, "u1", models.CartItem{ProductID: "p2", Quantity: 1})
	rec := f.do(http.MethodPost, "/api/orders", token(t, "u1"), `{"shippingAddress":`+fullAddress+`}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	id := body(t, rec)["order"].(map[string]interface{})["id"].(string)

	rec = f.do(http.MethodGet, "/api/orders/"+id+"/invoice", token(t, "u1"), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))

	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/api/orders/"+id+"/invoice", token(t, "u2"), "").Code)
	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/api/orders/"+id+"/invoice", token(t, "a1", models.RoleAdmin), "").Code)
}
