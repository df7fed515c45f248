package admin

import (
	"context"
	"log"
	"net/http"
	"time"

	"modesta/db"
	"modesta/models"
	"modesta/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"
)

type daySales struct {
	Day     string  `json:"date" bson:"_id"`
	Revenue float64 `json:"revenue" bson:"revenue"`
	Orders  int64   `json:"orders" bson:"orders"`
}

type topProduct struct {
	ID        string  `json:"id" bson:"_id"`
	Name      string  `json:"name" bson:"name"`
	Image     string  `json:"image" bson:"image"`
	TotalSold int64   `json:"totalSold" bson:"totalSold"`
	Revenue   float64 `json:"revenue" bson:"revenue"`
}

type categorySales struct {
	Category string  `json:"category" bson:"_id"`
	Revenue  float64 `json:"revenue" bson:"revenue"`
	Count    int64   `json:"count" bson:"count"`
}

var lineRevenue = bson.M{"$sum": bson.M{"$multiply": bson.A{"$items.price", "$items.quantity"}}}

// GET /api/admin/analytics?period=30
func Analytics(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 20*time.Second)
	defer cancel()

	win := periodWindow(time.Now(), parsePeriod(r.URL.Query().Get("period")))
	inPeriod := bson.M{"createdAt": bson.M{"$gte": win.Start}}
	paid := bson.M{"createdAt": bson.M{"$gte": win.Start}, "status": notCancelled}
	prev := bson.M{"createdAt": bson.M{"$gte": win.PrevStart, "$lt": win.Start}}
	prevPaid := bson.M{"createdAt": bson.M{"$gte": win.PrevStart, "$lt": win.Start}, "status": notCancelled}

	var (
		orders, prevOrders, products, users int64
		rev, prevRev                        float64
		days                                []daySales
		top                                 []topProduct
		cats                                []categorySales
		statuses                            map[models.OrderStatus]int64
		recent                              []models.Order
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { orders, err = db.OrdersCollection.CountDocuments(gctx, inPeriod); return })
	g.Go(func() (err error) { prevOrders, err = db.OrdersCollection.CountDocuments(gctx, prev); return })
	g.Go(func() (err error) { products, err = db.ProductsCollection.CountDocuments(gctx, bson.M{}); return })
	g.Go(func() (err error) { users, err = db.UserCollection.CountDocuments(gctx, bson.M{}); return })
	g.Go(func() (err error) { rev, err = revenue(gctx, paid); return })
	g.Go(func() (err error) { prevRev, err = revenue(gctx, prevPaid); return })
	g.Go(func() (err error) { statuses, err = ordersByStatus(gctx, inPeriod); return })
	g.Go(func() (err error) { recent, err = recentOrders(gctx); return })
	g.Go(func() (err error) {
		days, err = aggregate[daySales](gctx, db.OrdersCollection, mongo.Pipeline{
			{{Key: "$match", Value: paid}},
			{{Key: "$group", Value: bson.M{
				"_id":     bson.M{"$dateToString": bson.M{"format": "%Y-%m-%d", "date": "$createdAt"}},
				"revenue": bson.M{"$sum": "$total"},
				"orders":  bson.M{"$sum": 1},
			}}},
			{{Key: "$sort", Value: bson.M{"_id": 1}}},
		})
		return
	})
	g.Go(func() (err error) {
		top, err = aggregate[topProduct](gctx, db.OrdersCollection, mongo.Pipeline{
			{{Key: "$match", Value: paid}},
			{{Key: "$unwind", Value: "$items"}},
			{{Key: "$group", Value: bson.M{
				"_id":       "$items.product",
				"name":      bson.M{"$first": "$items.name"},
				"image":     bson.M{"$first": "$items.image"},
				"totalSold": bson.M{"$sum": "$items.quantity"},
				"revenue":   lineRevenue,
			}}},
			{{Key: "$sort", Value: bson.M{"totalSold": -1}}},
			{{Key: "$limit", Value: 5}},
		})
		return
	})
	g.Go(func() (err error) {
		cats, err = aggregate[categorySales](gctx, db.OrdersCollection, mongo.Pipeline{
			{{Key: "$match", Value: paid}},
			{{Key: "$unwind", Value: "$items"}},
			{{Key: "$lookup", Value: bson.M{"from": "products", "localField": "items.product", "foreignField": "_id", "as": "product"}}},
			{{Key: "$unwind", Value: "$product"}},
			{{Key: "$group", Value: bson.M{
				"_id":     "$product.category",
				"revenue": lineRevenue,
				"count":   bson.M{"$sum": "$items.quantity"},
			}}},
			{{Key: "$sort", Value: bson.M{"revenue": -1}}},
		})
		return
	})
	if err := g.Wait(); err != nil {
		log.Printf("Analytics error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch analytics")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"overview": utils.M{
			"totalOrders":   orders,
			"totalRevenue":  rev,
			"totalProducts": products,
			"totalUsers":    users,
			"revenueGrowth": GrowthPercent(rev, prevRev),
			"ordersGrowth":  GrowthPercent(float64(orders), float64(prevOrders)),
		},
		"salesByDay":      days,
		"topProducts":     top,
		"ordersByStatus":  statuses,
		"salesByCategory": cats,
		"recentOrders":    recent,
	})
}
