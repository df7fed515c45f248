package db

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

var (
	Client   *mongo.Client
	Database *mongo.Database

	ProductsCollection    *mongo.Collection
	CategoriesCollection  *mongo.Collection
	CartsCollection       *mongo.Collection
	CouponsCollection     *mongo.Collection
	OrdersCollection      *mongo.Collection
	UserCollection        *mongo.Collection
	ReviewsCollection     *mongo.Collection
	WishlistsCollection   *mongo.Collection
	BannersCollection     *mongo.Collection
	EventsCollection      *mongo.Collection
	IdempotencyCollection *mongo.Collection
)

// Connect opens the client, pings the primary and binds the collections.
func Connect(ctx context.Context, uri, database string) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("ping mongo: %w", err)
	}

	Client = client
	Database = client.Database(database)

	ProductsCollection = Database.Collection("products")
	CategoriesCollection = Database.Collection("categories")
	CartsCollection = Database.Collection("carts")
	CouponsCollection = Database.Collection("coupons")
	OrdersCollection = Database.Collection("orders")
	UserCollection = Database.Collection("users")
	ReviewsCollection = Database.Collection("reviews")
	WishlistsCollection = Database.Collection("wishlists")
	BannersCollection = Database.Collection("banners")
	EventsCollection = Database.Collection("events")
	IdempotencyCollection = Database.Collection("idempotency")

	log.Printf("Connected to MongoDB database %q", database)
	return nil
}

func Disconnect(ctx context.Context) {
	if Client == nil {
		return
	}
	if err := Client.Disconnect(ctx); err != nil {
		log.Printf("MongoDB disconnect error: %v", err)
	}
}

// EnsureIndexes creates the unique and query indexes the handlers rely on.
func EnsureIndexes(ctx context.Context) error {
	unique := func(name string) *options.IndexOptions {
		return options.Index().SetUnique(true).SetName(name)
	}

	plan := map[*mongo.Collection][]mongo.IndexModel{
		ProductsCollection: {
			{Keys: bson.D{{Key: "category", Value: 1}}},
			{Keys: bson.D{{Key: "price", Value: 1}}},
			{Keys: bson.D{{Key: "isBestSeller", Value: 1}}},
			{Keys: bson.D{{Key: "isTrending", Value: 1}}},
		},
		CategoriesCollection: {
			{Keys: bson.D{{Key: "slug", Value: 1}}, Options: unique("unique_slug")},
		},
		CartsCollection: {
			{Keys: bson.D{{Key: "user", Value: 1}}, Options: unique("unique_user")},
		},
		CouponsCollection: {
			{Keys: bson.D{{Key: "code", Value: 1}}, Options: unique("unique_code")},
		},
		OrdersCollection: {
			{Keys: bson.D{{Key: "user", Value: 1}}},
			{Keys: bson.D{{Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		},
		UserCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique("unique_email")},
		},
		ReviewsCollection: {
			{Keys: bson.D{{Key: "product", Value: 1}, {Key: "user", Value: 1}}, Options: unique("unique_product_user")},
		},
		WishlistsCollection: {
			{Keys: bson.D{{Key: "user", Value: 1}}, Options: unique("unique_user")},
		},
		IdempotencyCollection: {
			{Keys: bson.D{{Key: "key", Value: 1}}, Options: unique("unique_key")},
			{Keys: bson.D{{Key: "expires_at", Value: 1}}, Options: options.Index().SetExpireAfterSeconds(0).SetName("ttl_expires_at")},
		},
	}

	for coll, idxs := range plan {
		if _, err := coll.Indexes().CreateMany(ctx, idxs); err != nil {
			return fmt.Errorf("create indexes on %s: %w", coll.Name(), err)
		}
	}
	return nil
}

// IsDuplicateKey detects unique index violations.
func IsDuplicateKey(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}
