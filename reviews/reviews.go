package reviews

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"modesta/db"
	"modesta/globals"
	"modesta/models"
	"modesta/mq"
	"modesta/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Handler struct {
	Bus mq.Publisher
	Now func() time.Time
}

func NewHandler(bus mq.Publisher) *Handler {
	return &Handler{Bus: bus, Now: time.Now}
}

type reviewInput struct {
	ProductID string `json:"productId"`
	Rating    int    `json:"rating"`
	Title     string `json:"title"`
	Comment   string `json:"comment"`
}

func (in *reviewInput) validate() string {
	in.Title = strings.TrimSpace(in.Title)
	in.Comment = strings.TrimSpace(in.Comment)
	switch {
	case in.ProductID == "" || in.Rating == 0 || in.Title == "" || in.Comment == "":
		return "All fields are required"
	case in.Rating < 1 || in.Rating > 5:
		return "Rating must be between 1 and 5"
	case len([]rune(in.Title)) > models.MaxReviewTitle:
		return "Title cannot exceed 100 characters"
	case len([]rune(in.Comment)) > models.MaxReviewComment:
		return "Comment cannot exceed 1000 characters"
	}
	return ""
}

func ratingsOf(ctx context.Context, productID string) ([]int, error) {
	opts := options.Find().SetProjection(bson.M{"rating": 1})
	rows, err := utils.FindAndDecode[struct {
		Rating int `bson:"rating"`
	}](ctx, db.ReviewsCollection, bson.M{"product": productID}, opts)
	if err != nil {
		return nil, err
	}
	out := make([]int, len(rows))
	for i, row := range rows {
		out[i] = row.Rating
	}
	return out, nil
}

// GET /api/reviews?productId=
func (h *Handler) GetReviews(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	productID := r.URL.Query().Get("productId")
	if productID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Product ID is required")
		return
	}
	page := utils.ParsePagination(r, 10, 50)

	filter := bson.M{"product": productID}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetSkip(page.Skip()).SetLimit(page.Limit)
	reviews, err := utils.FindAndDecode[models.Review](ctx, db.ReviewsCollection, filter, opts)
	if err != nil {
		log.Printf("GetReviews error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch reviews")
		return
	}
	ratings, err := ratingsOf(ctx, productID)
	if err != nil {
		log.Printf("GetReviews stats error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch reviews")
		return
	}

	stats := Summarize(ratings)
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"reviews":    reviews,
		"pagination": page.WithTotal(int64(stats.TotalReviews)),
		"stats":      stats,
	})
}

// POST /api/reviews
func (h *Handler) AddReview(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Please login to leave a review")
		return
	}

	var in reviewInput
	if err := utils.DecodeJSON(r, &in); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if msg := in.validate(); msg != "" {
		utils.RespondWithError(w, http.StatusBadRequest, msg)
		return
	}

	count, err := db.ReviewsCollection.CountDocuments(ctx, bson.M{"user": userID, "product": in.ProductID})
	if err != nil {
		log.Printf("Error checking for existing review: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to submit review")
		return
	}
	if count > 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "You have already reviewed this product")
		return
	}

	delivered, err := db.OrdersCollection.CountDocuments(ctx, bson.M{
		"user":          userID,
		"items.product": in.ProductID,
		"status":        models.StatusDelivered,
	})
	if err != nil {
		log.Printf("Verified purchase lookup error: %v", err)
		delivered = 0
	}

	now := h.Now()
	userName, _ := r.Context().Value(globals.UsernameKey).(string)
	review := models.Review{
		ID:                 utils.GetUUID(),
		UserID:             userID,
		UserName:           userName,
		ProductID:          in.ProductID,
		Rating:             in.Rating,
		Title:              in.Title,
		Comment:            in.Comment,
		IsVerifiedPurchase: delivered > 0,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if _, err := db.ReviewsCollection.InsertOne(ctx, review); err != nil {
		if db.IsDuplicateKey(err) {
			utils.RespondWithError(w, http.StatusBadRequest, "You have already reviewed this product")
			return
		}
		log.Printf("Insert review error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to submit review")
		return
	}

	if err := refreshRating(ctx, in.ProductID, now); err != nil {
		log.Printf("Rating refresh for %s failed: %v", in.ProductID, err)
	}
	ev := models.BusEvent{Type: models.ProductChanged, EntityID: in.ProductID, UserID: userID, Status: "reviewed", At: now}
	go mq.Emit(context.Background(), h.Bus, mq.CatalogChannel, ev)

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"message": "Review submitted successfully", "review": review})
}

// refreshRating recomputes the product's averageRating and reviewCount.
func refreshRating(ctx context.Context, productID string, now time.Time) error {
	ratings, err := ratingsOf(ctx, productID)
	if err != nil {
		return err
	}
	s := Summarize(ratings)
	_, err = db.ProductsCollection.UpdateOne(ctx, bson.M{"_id": productID}, bson.M{"$set": bson.M{
		"averageRating": s.AverageRating,
		"reviewCount":   s.TotalReviews,
		"updatedAt":     now,
	}})
	return err
}
