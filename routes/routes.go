package routes

import (
	"fmt"
	"net/http"
	"time"

	"modesta/admin"
	"modesta/banners"
	"modesta/cart"
	"modesta/categories"
	"modesta/checkout"
	"modesta/coupons"
	"modesta/events"
	"modesta/live"
	"modesta/middleware"
	"modesta/models"
	"modesta/mq"
	"modesta/orders"
	"modesta/products"
	"modesta/profile"
	"modesta/ratelim"
	"modesta/reviews"
	"modesta/search"
	"modesta/store"
	"modesta/wishlist"

	"github.com/julienschmidt/httprouter"
)

const idempotencyTTL = 24 * time.Hour

// Deps carries the shared services the route groups are built from.
type Deps struct {
	Store       store.Store
	Checkout    *checkout.Service
	Bus         mq.Bus
	Limiter     *ratelim.RateLimiter
	Idempotency middleware.IdempotencyStore
	Search      *search.Handler
	Hub         *live.Hub
}

var adminOnly = middleware.Chain(middleware.Authenticate, middleware.RequireRoles(models.RoleAdmin))

// Index is a simple health check handler.
func Index(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	fmt.Fprint(w, "200")
}

func AddUtilityRoutes(router *httprouter.Router) {
	router.GET("/health", Index)
}

func AddProductRoutes(router *httprouter.Router, d Deps) {
	h := products.NewHandler(d.Bus)
	router.GET("/api/products", h.GetProducts)
	router.GET("/api/products/:id", h.GetProduct)

	router.GET("/api/admin/products", adminOnly(h.AdminList))
	router.POST("/api/admin/products", adminOnly(h.Create))
	router.GET("/api/admin/products/:id", adminOnly(h.GetProduct))
	router.PUT("/api/admin/products/:id", adminOnly(h.Update))
	router.DELETE("/api/admin/products/:id", adminOnly(h.Delete))
}

func AddCatalogRoutes(router *httprouter.Router) {
	router.GET("/api/categories", categories.GetCategories)
	router.GET("/api/admin/categories", adminOnly(categories.AdminList))
	router.POST("/api/admin/categories", adminOnly(categories.Create))
	router.PUT("/api/admin/categories/:id", adminOnly(categories.Update))
	router.DELETE("/api/admin/categories/:id", adminOnly(categories.Delete))

	router.GET("/api/banners", banners.GetBanners)
	router.GET("/api/admin/banners", adminOnly(banners.AdminList))
	router.POST("/api/admin/banners", adminOnly(banners.Create))
	router.PUT("/api/admin/banners", adminOnly(banners.Update))
	router.DELETE("/api/admin/banners", adminOnly(banners.Delete))

	router.GET("/api/events", events.GetEvents)
	router.GET("/api/admin/events", adminOnly(events.AdminList))
	router.POST("/api/admin/events", adminOnly(events.Create))
	router.PUT("/api/admin/events", adminOnly(events.Update))
	router.DELETE("/api/admin/events", adminOnly(events.Delete))
}

func AddSearchRoutes(router *httprouter.Router, d Deps) {
	router.GET("/api/search", d.Limiter.Limit(d.Search.Search))
}

func AddReviewsRoutes(router *httprouter.Router, d Deps) {
	h := reviews.NewHandler(d.Bus)
	router.GET("/api/reviews", h.GetReviews)
	router.POST("/api/reviews", d.Limiter.Limit(middleware.Authenticate(h.AddReview)))
}

func AddCartRoutes(router *httprouter.Router, d Deps) {
	var locker checkout.Locker
	if d.Checkout != nil {
		locker = d.Checkout.Locker
	}
	h := cart.NewHandler(d.Store, locker)
	router.GET("/api/cart", middleware.Authenticate(h.GetCart))
	router.POST("/api/cart", middleware.Authenticate(h.AddToCart))
	router.PUT("/api/cart", middleware.Authenticate(h.UpdateCart))
	router.DELETE("/api/cart", middleware.Authenticate(h.RemoveFromCart))
}

func AddWishlistRoutes(router *httprouter.Router) {
	router.GET("/api/wishlist", middleware.Authenticate(wishlist.GetWishlist))
	router.POST("/api/wishlist", middleware.Authenticate(wishlist.AddToWishlist))
	router.DELETE("/api/wishlist", middleware.Authenticate(wishlist.RemoveFromWishlist))
}

func AddProfileRoutes(router *httprouter.Router) {
	router.GET("/api/user/profile", middleware.Authenticate(profile.GetProfile))
	router.PUT("/api/user/profile", middleware.Authenticate(profile.UpdateProfile))
	router.GET("/api/user/addresses", middleware.Authenticate(profile.GetAddresses))
	router.POST("/api/user/addresses", middleware.Authenticate(profile.AddAddress))
	router.PUT("/api/user/addresses", middleware.Authenticate(profile.UpdateAddress))
	router.DELETE("/api/user/addresses", middleware.Authenticate(profile.DeleteAddress))
}

func AddCouponRoutes(router *httprouter.Router, d Deps) {
	h := coupons.NewHandler(d.Store)
	router.POST("/api/coupons/validate", d.Limiter.Limit(h.Validate))

	router.GET("/api/admin/coupons", adminOnly(h.List))
	router.POST("/api/admin/coupons", adminOnly(h.Create))
	router.PUT("/api/admin/coupons", adminOnly(h.Update))
	router.DELETE("/api/admin/coupons", adminOnly(h.Delete))
}

func AddOrderRoutes(router *httprouter.Router, d Deps) {
	h := orders.NewHandler(d.Checkout, d.Store, d.Bus)
	place := middleware.Chain(d.Limiter.Limit, middleware.Authenticate, middleware.Idempotency(d.Idempotency, idempotencyTTL))

	router.POST("/api/orders", place(h.PlaceOrder))
	router.GET("/api/orders", middleware.Authenticate(h.MyOrders))
	router.GET("/api/orders/:id/invoice", middleware.Authenticate(h.Invoice))

	router.GET("/api/admin/orders", adminOnly(h.List))
	router.GET("/api/admin/orders/:id", adminOnly(h.Get))
	router.PUT("/api/admin/orders/:id", adminOnly(h.UpdateStatus))
	router.GET("/api/admin/invoices/verify", adminOnly(h.VerifyInvoice))
}

func AddAdminRoutes(router *httprouter.Router, d Deps) {
	router.GET("/api/admin/dashboard", adminOnly(admin.Dashboard))
	router.GET("/api/admin/analytics", adminOnly(admin.Analytics))
	router.GET("/api/admin/users", adminOnly(admin.ListUsers))
	router.GET("/api/admin/live/orders", adminOnly(live.WebSocketHandler(d.Hub)))
}
