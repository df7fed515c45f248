package products

import (
	"net/url"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

// ListFilter turns storefront query parameters into a Mongo filter.
func ListFilter(q url.Values) bson.M {
	filter := bson.M{}
	if c := strings.TrimSpace(q.Get("category")); c != "" && c != "all" {
		filter["category"] = c
	}
	if s := strings.TrimSpace(q.Get("search")); s != "" {
		filter["name"] = bson.M{"$regex": regexp.QuoteMeta(s), "$options": "i"}
	}
	for param, field := range map[string]string{
		"newArrival": "isNewArrival",
		"bestSeller": "isBestSeller",
		"trending":   "isTrending",
	} {
		if q.Get(param) == "true" {
			filter[field] = true
		}
	}
	return filter
}

// SortOrder maps the sort parameter to a Mongo sort document. Unknown
// values fall back to newest first.
func SortOrder(s string) bson.D {
	switch s {
	case "price-asc":
		return bson.D{{Key: "price", Value: 1}}
	case "price-desc":
		return bson.D{{Key: "price", Value: -1}}
	case "rating":
		return bson.D{{Key: "averageRating", Value: -1}, {Key: "reviewCount", Value: -1}}
	default:
		return bson.D{{Key: "createdAt", Value: -1}}
	}
}
