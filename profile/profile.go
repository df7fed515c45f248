package profile

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"modesta/db"
	"modesta/models"
	"modesta/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLen = 6

// HashPassword bcrypt-hashes a plain password.
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

func loadUser(ctx context.Context, w http.ResponseWriter, userID string) (*models.User, bool) {
	var u models.User
	err := db.UserCollection.FindOne(ctx, bson.M{"_id": userID}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
		return nil, false
	}
	if err != nil {
		log.Printf("User lookup error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch profile")
		return nil, false
	}
	if u.Addresses == nil {
		u.Addresses = []models.Address{}
	}
	return &u, true
}

// GET /api/user/profile
func GetProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	u, ok := loadUser(ctx, w, userID)
	if !ok {
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"user": u})
}

type profileUpdate struct {
	Name            *string `json:"name"`
	Phone           *string `json:"phone"`
	Newsletter      *bool   `json:"newsletter"`
	CurrentPassword string  `json:"currentPassword"`
	NewPassword     string  `json:"newPassword"`
}

// PUT /api/user/profile
func UpdateProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var in profileUpdate
	if err := utils.DecodeJSON(r, &in); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	set := bson.M{"updatedAt": time.Now()}
	if in.Name != nil && strings.TrimSpace(*in.Name) != "" {
		set["name"] = strings.TrimSpace(*in.Name)
	}
	if in.Phone != nil {
		set["phone"] = *in.Phone
	}
	if in.Newsletter != nil {
		set["newsletter"] = *in.Newsletter
	}

	if in.NewPassword != "" {
		if in.CurrentPassword == "" {
			utils.RespondWithError(w, http.StatusBadRequest, "Current password is required")
			return
		}
		if len(in.NewPassword) < minPasswordLen {
			utils.RespondWithError(w, http.StatusBadRequest, "Password must be at least 6 characters")
			return
		}
		u, ok := loadUser(ctx, w, userID)
		if !ok {
			return
		}
		if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(in.CurrentPassword)) != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Current password is incorrect")
			return
		}
		hash, err := HashPassword(in.NewPassword)
		if err != nil {
			log.Printf("Password hash error: %v", err)
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update profile")
			return
		}
		set["password"] = hash
	}

	var u models.User
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := db.UserCollection.FindOneAndUpdate(ctx, bson.M{"_id": userID}, bson.M{"$set": set}, opts).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		log.Printf("UpdateProfile error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update profile")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Profile updated successfully", "user": u})
}

func saveAddresses(ctx context.Context, userID string, list []models.Address) error {
	_, err := db.UserCollection.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": bson.M{
		"addresses": list,
		"updatedAt": time.Now(),
	}})
	return err
}

// GET /api/user/addresses
func GetAddresses(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	u, ok := loadUser(ctx, w, userID)
	if !ok {
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"addresses": u.Addresses})
}

// POST /api/user/addresses
func AddAddress(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var a models.Address
	if err := utils.DecodeJSON(r, &a); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if !complete(a) {
		utils.RespondWithError(w, http.StatusBadRequest, "Please provide a complete address")
		return
	}
	a.ID = utils.GetUUID()

	u, ok := loadUser(ctx, w, userID)
	if !ok {
		return
	}
	list := addAddress(u.Addresses, a)
	if err := saveAddresses(ctx, userID, list); err != nil {
		log.Printf("AddAddress error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to add address")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Address added successfully", "addresses": list})
}

// PUT /api/user/addresses
func UpdateAddress(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var p addressPatch
	if err := utils.DecodeJSON(r, &p); err != nil || p.AddressID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Address ID is required")
		return
	}

	u, ok := loadUser(ctx, w, userID)
	if !ok {
		return
	}
	if !patchAddress(u.Addresses, p.AddressID, p) {
		utils.RespondWithError(w, http.StatusNotFound, "Address not found")
		return
	}
	if err := saveAddresses(ctx, userID, u.Addresses); err != nil {
		log.Printf("UpdateAddress error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update address")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Address updated successfully", "addresses": u.Addresses})
}

// DELETE /api/user/addresses?addressId=
func DeleteAddress(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	id := r.URL.Query().Get("addressId")
	if id == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Address ID is required")
		return
	}

	u, ok := loadUser(ctx, w, userID)
	if !ok {
		return
	}
	list := removeAddress(u.Addresses, id)
	if err := saveAddresses(ctx, userID, list); err != nil {
		log.Printf("DeleteAddress error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete address")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Address deleted successfully", "addresses": list})
}
