package banners

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

// Visible reports whether an active banner's date window contains now.
// A missing bound is open.
func Visible(b models.Banner, now time.Time) bool {
	if !b.IsActive {
		return false
	}
	if b.StartDate != nil && now.Before(*b.StartDate) {
		return false
	}
	if b.EndDate != nil && now.After(*b.EndDate) {
		return false
	}
	return true
}

// visibleFilter is the query form of Visible.
func visibleFilter(now time.Time) bson.M {
	return bson.M{
		"isActive": true,
		"$and": bson.A{
			bson.M{"$or": bson.A{bson.M{"startDate": nil}, bson.M{"startDate": bson.M{"$lte": now}}}},
			bson.M{"$or": bson.A{bson.M{"endDate": nil}, bson.M{"endDate": bson.M{"$gte": now}}}},
		},
	}
}

type bannerInput struct {
	ID         string     `json:"id"`
	Title      *string    `json:"title"`
	Subtitle   *string    `json:"subtitle"`
	Image      *string    `json:"image"`
	Link       *string    `json:"link"`
	ButtonText *string    `json:"buttonText"`
	IsActive   *bool      `json:"isActive"`
	Order      *int       `json:"order"`
	StartDate  *time.Time `json:"startDate"`
	EndDate    *time.Time `json:"endDate"`
}

func (in bannerInput) apply(b *models.Banner) error {
	if in.Title != nil {
		b.Title = *in.Title
	}
	if in.Subtitle != nil {
		b.Subtitle = *in.Subtitle
	}
	if in.Image != nil {
		b.Image = *in.Image
	}
	if in.Link != nil {
		b.Link = *in.Link
	}
	if in.ButtonText != nil {
		b.ButtonText = *in.ButtonText
	}
	if in.IsActive != nil {
		b.IsActive = *in.IsActive
	}
	if in.Order != nil {
		b.Order = *in.Order
	}
	if in.StartDate != nil {
		b.StartDate = in.StartDate
	}
	if in.EndDate != nil {
		b.EndDate = in.EndDate
	}
	if b.Title == "" || b.Image == "" {
		return errors.New("title and image are required")
	}
	if b.StartDate != nil && b.EndDate != nil && b.EndDate.Before(*b.StartDate) {
		return errors.New("end date is before start date")
	}
	return nil
}

// GET /api/banners
func GetBanners(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "order", Value: 1}})
	banners, err := utils.FindAndDecode[models.Banner](ctx, db.BannersCollection, visibleFilter(time.Now()), opts)
	if err != nil {
		log.Printf("GetBanners error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch banners")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"banners": banners})
}

// GET /api/admin/banners
func AdminList(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "order", Value: 1}, {Key: "createdAt", Value: -1}})
	banners, err := utils.FindAndDecode[models.Banner](ctx, db.BannersCollection, bson.M{}, opts)
	if err != nil {
		log.Printf("Admin banner list error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch banners")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"banners": banners})
}

// POST /api/admin/banners
func Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var in bannerInput
	if err := utils.DecodeJSON(r, &in); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	now := time.Now()
	b := models.Banner{
		ID:         utils.GetUUID(),
		ButtonText: models.DefaultButtonText,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := in.apply(&b); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := db.BannersCollection.InsertOne(ctx, b); err != nil {
		log.Printf("Create banner error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create banner")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"message": "Banner created", "banner": b})
}

// PUT /api/admin/banners
func Update(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var in bannerInput
	if err := utils.DecodeJSON(r, &in); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if in.ID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Banner ID is required")
		return
	}

	var b models.Banner
	err := db.BannersCollection.FindOne(ctx, bson.M{"_id": in.ID}).Decode(&b)
	if errors.Is(err, mongo.ErrNoDocuments) {
		utils.RespondWithError(w, http.StatusNotFound, "Banner not found")
		return
	}
	if err != nil {
		log.Printf("Update banner lookup error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update banner")
		return
	}
	if err := in.apply(&b); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	b.UpdatedAt = time.Now()

	if _, err := db.BannersCollection.ReplaceOne(ctx, bson.M{"_id": b.ID}, b); err != nil {
		log.Printf("Update banner error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update banner")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Banner updated", "banner": b})
}

// DELETE /api/admin/banners?id=
func Delete(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	id := r.URL.Query().Get("id")
	if id == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Banner ID is required")
		return
	}
	if _, err := db.BannersCollection.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		log.Printf("Delete banner error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete banner")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Banner deleted"})
}
