package search

import (
	"context"
	"regexp"

	"modesta/db"
	"modesta/models"
	"modesta/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const suggestionLimit = 5

// Suggestion is the compact product shape used by autocomplete.
type Suggestion struct {
	ID       string  `json:"id" bson:"_id"`
	Name     string  `json:"name" bson:"name"`
	Category string  `json:"category" bson:"category"`
	Image    string  `json:"image" bson:"image"`
	Price    float64 `json:"price" bson:"price"`
}

// Finder runs product queries against the catalog.
type Finder interface {
	Search(ctx context.Context, q string, limit int64) ([]models.Product, error)
	Suggest(ctx context.Context, q string) ([]Suggestion, error)
}

// matchAny builds a case-insensitive literal match of q over fields.
func matchAny(q string, fields ...string) bson.M {
	pattern := regexp.QuoteMeta(q)
	or := make(bson.A, len(fields))
	for i, f := range fields {
		or[i] = bson.M{f: bson.M{"$regex": pattern, "$options": "i"}}
	}
	return bson.M{"$or": or}
}

type MongoFinder struct{}

func (MongoFinder) Search(ctx context.Context, q string, limit int64) ([]models.Product, error) {
	opts := options.Find().SetLimit(limit).SetSort(bson.D{{Key: "reviewCount", Value: -1}, {Key: "createdAt", Value: -1}})
	return utils.FindAndDecode[models.Product](ctx, db.ProductsCollection, matchAny(q, "name", "category", "description"), opts)
}

func (MongoFinder) Suggest(ctx context.Context, q string) ([]Suggestion, error) {
	opts := options.Find().
		SetLimit(suggestionLimit).
		SetProjection(bson.M{"name": 1, "category": 1, "image": 1, "price": 1})
	return utils.FindAndDecode[Suggestion](ctx, db.ProductsCollection, matchAny(q, "name", "category"), opts)
}
