package routes

import (
	"github.com/julienschmidt/httprouter"
)

func RoutesWrapper(router *httprouter.Router, d Deps) {
	AddUtilityRoutes(router)
	AddAdminRoutes(router, d)
	AddCartRoutes(router, d)
	AddCatalogRoutes(router)
	AddCouponRoutes(router, d)
	AddOrderRoutes(router, d)
	AddProductRoutes(router, d)
	AddProfileRoutes(router)
	AddReviewsRoutes(router, d)
	AddSearchRoutes(router, d)
	AddWishlistRoutes(router)
}
