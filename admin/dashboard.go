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
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"
)

var notCancelled = bson.M{"$ne": models.StatusCancelled}

func aggregate[T any](ctx context.Context, coll *mongo.Collection, pipeline mongo.Pipeline) ([]T, error) {
	cursor, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := []T{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// revenue sums order totals matching filter.
func revenue(ctx context.Context, filter bson.M) (float64, error) {
	rows, err := aggregate[struct {
		Total float64 `bson:"total"`
	}](ctx, db.OrdersCollection, mongo.Pipeline{
		{{Key: "$match", Value: filter}},
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$total"}}}},
	})
	if err != nil || len(rows) == 0 {
		return 0, err
	}
	return utils.RoundMoney(rows[0].Total), nil
}

func ordersByStatus(ctx context.Context, filter bson.M) (map[models.OrderStatus]int64, error) {
	rows, err := aggregate[statusCount](ctx, db.OrdersCollection, mongo.Pipeline{
		{{Key: "$match", Value: filter}},
		{{Key: "$group", Value: bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}}},
	})
	if err != nil {
		return nil, err
	}
	return byStatus(rows), nil
}

func recentOrders(ctx context.Context) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(5)
	return utils.FindAndDecode[models.Order](ctx, db.OrdersCollection, bson.M{}, opts)
}

type monthRevenue struct {
	ID struct {
		Year  int `json:"year" bson:"year"`
		Month int `json:"month" bson:"month"`
	} `json:"_id" bson:"_id"`
	Revenue float64 `json:"revenue" bson:"revenue"`
	Orders  int64   `json:"orders" bson:"orders"`
}

// GET /api/admin/dashboard
func Dashboard(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	var (
		totalOrders, totalUsers, totalProducts int64
		totalRevenue                           float64
		statuses                               map[models.OrderStatus]int64
		monthly                                []monthRevenue
		recent                                 []models.Order
	)
	sixMonthsAgo := time.Now().AddDate(0, -6, 0)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		totalOrders, err = db.OrdersCollection.CountDocuments(gctx, bson.M{})
		return
	})
	g.Go(func() (err error) {
		totalUsers, err = db.UserCollection.CountDocuments(gctx, bson.M{})
		return
	})
	g.Go(func() (err error) {
		totalProducts, err = db.ProductsCollection.CountDocuments(gctx, bson.M{})
		return
	})
	g.Go(func() (err error) {
		totalRevenue, err = revenue(gctx, bson.M{"status": notCancelled})
		return
	})
	g.Go(func() (err error) {
		statuses, err = ordersByStatus(gctx, bson.M{})
		return
	})
	g.Go(func() (err error) {
		monthly, err = aggregate[monthRevenue](gctx, db.OrdersCollection, mongo.Pipeline{
			{{Key: "$match", Value: bson.M{"createdAt": bson.M{"$gte": sixMonthsAgo}, "status": notCancelled}}},
			{{Key: "$group", Value: bson.M{
				"_id":     bson.M{"year": bson.M{"$year": "$createdAt"}, "month": bson.M{"$month": "$createdAt"}},
				"revenue": bson.M{"$sum": "$total"},
				"orders":  bson.M{"$sum": 1},
			}}},
			{{Key: "$sort", Value: bson.D{{Key: "_id.year", Value: 1}, {Key: "_id.month", Value: 1}}}},
		})
		return
	})
	g.Go(func() (err error) {
		recent, err = recentOrders(gctx)
		return
	})
	if err := g.Wait(); err != nil {
		log.Printf("Dashboard stats error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch dashboard stats")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"stats": utils.M{
			"totalOrders":    totalOrders,
			"totalUsers":     totalUsers,
			"totalProducts":  totalProducts,
			"totalRevenue":   totalRevenue,
			"ordersByStatus": statuses,
		},
		"monthlyRevenue": monthly,
		"recentOrders":   recent,
	})
}
