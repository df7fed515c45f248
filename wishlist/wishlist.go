package wishlist

import (
	"context"
	"errors"
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
)

// Item is the product summary shown in a wishlist.
type Item struct {
	ID            string   `json:"id" bson:"_id"`
	Name          string   `json:"name" bson:"name"`
	Category      string   `json:"category" bson:"category"`
	Price         float64  `json:"price" bson:"price"`
	OriginalPrice *float64 `json:"originalPrice,omitempty" bson:"originalPrice,omitempty"`
	Image         string   `json:"image" bson:"image"`
}

// inOrder lists items in wishlist order, skipping products that are gone.
func inOrder(ids []string, items []Item) []Item {
	byID := make(map[string]Item, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}
	out := make([]Item, 0, len(ids))
	for _, id := range ids {
		if it, ok := byID[id]; ok {
			out = append(out, it)
		}
	}
	return out
}

// GET /api/wishlist
func GetWishlist(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var wl models.Wishlist
	err := db.WishlistsCollection.FindOne(ctx, bson.M{"user": userID}).Decode(&wl)
	if errors.Is(err, mongo.ErrNoDocuments) {
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"products": []Item{}})
		return
	}
	if err != nil {
		log.Printf("GetWishlist error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch wishlist")
		return
	}

	opts := options.Find().SetProjection(bson.M{"name": 1, "category": 1, "price": 1, "originalPrice": 1, "image": 1})
	items, err := utils.FindAndDecode[Item](ctx, db.ProductsCollection, bson.M{"_id": bson.M{"$in": wl.Products}}, opts)
	if err != nil {
		log.Printf("GetWishlist products error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch wishlist")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"products": inOrder(wl.Products, items)})
}

// POST /api/wishlist
func AddToWishlist(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var body struct {
		ProductID string `json:"productId"`
	}
	if err := utils.DecodeJSON(r, &body); err != nil || body.ProductID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Product ID is required")
		return
	}

	now := time.Now()
	update := bson.M{
		"$addToSet":    bson.M{"products": body.ProductID},
		"$set":         bson.M{"updatedAt": now},
		"$setOnInsert": bson.M{"_id": utils.GetUUID(), "createdAt": now},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var wl models.Wishlist
	if err := db.WishlistsCollection.FindOneAndUpdate(ctx, bson.M{"user": userID}, update, opts).Decode(&wl); err != nil {
		log.Printf("AddToWishlist error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to add to wishlist")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Product added to wishlist", "wishlist": wl})
}

// DELETE /api/wishlist?productId= removes one product; no productId clears it.
func RemoveFromWishlist(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	productID := r.URL.Query().Get("productId")
	var err error
	msg := "Wishlist cleared"
	if productID != "" {
		msg = "Product removed from wishlist"
		_, err = db.WishlistsCollection.UpdateOne(ctx, bson.M{"user": userID}, bson.M{
			"$pull": bson.M{"products": productID},
			"$set":  bson.M{"updatedAt": time.Now()},
		})
	} else {
		_, err = db.WishlistsCollection.DeleteOne(ctx, bson.M{"user": userID})
	}
	if err != nil {
		log.Printf("RemoveFromWishlist error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to remove from wishlist")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": msg})
}
