package categories

import (
	"context"
	"errors"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"

	"modesta/db"
	"modesta/models"
	"modesta/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const maxNameSize = 50

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases name and joins alphanumeric runs with single dashes.
func Slugify(name string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(name), "-"), "-")
}

type categoryInput struct {
	Name        *string `json:"name"`
	Image       *string `json:"image"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"isActive"`
}

func listCategories(ctx context.Context, filter bson.M) ([]models.Category, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	return utils.FindAndDecode[models.Category](ctx, db.CategoriesCollection, filter, opts)
}

// GET /api/categories
func GetCategories(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cats, err := listCategories(ctx, bson.M{"isActive": true})
	if err != nil {
		log.Printf("GetCategories error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch categories")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"categories": cats})
}

// GET /api/admin/categories
func AdminList(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cats, err := listCategories(ctx, bson.M{})
	if err != nil {
		log.Printf("Admin category list error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch categories")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"categories": cats})
}

// POST /api/admin/categories
func Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var in categoryInput
	if err := utils.DecodeJSON(r, &in); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" || in.Image == nil || *in.Image == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Name and image are required")
		return
	}
	name := strings.TrimSpace(*in.Name)
	if len([]rune(name)) > maxNameSize {
		utils.RespondWithError(w, http.StatusBadRequest, "Category name cannot exceed 50 characters")
		return
	}

	now := time.Now()
	c := models.Category{
		ID:        utils.GetUUID(),
		Name:      name,
		Slug:      Slugify(name),
		Image:     *in.Image,
		IsActive:  in.IsActive == nil || *in.IsActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if in.Description != nil {
		c.Description = *in.Description
	}

	if _, err := db.CategoriesCollection.InsertOne(ctx, c); err != nil {
		if db.IsDuplicateKey(err) {
			utils.RespondWithError(w, http.StatusBadRequest, "Category with this name already exists")
			return
		}
		log.Printf("Create category error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create category")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"message": "Category created successfully", "category": c})
}

// PUT /api/admin/categories/:id
func Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var in categoryInput
	if err := utils.DecodeJSON(r, &in); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	set := bson.M{"updatedAt": time.Now()}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" || len([]rune(name)) > maxNameSize {
			utils.RespondWithError(w, http.StatusBadRequest, "Category name must be 1 to 50 characters")
			return
		}
		set["name"] = name
		set["slug"] = Slugify(name)
	}
	if in.Image != nil {
		set["image"] = *in.Image
	}
	if in.Description != nil {
		set["description"] = *in.Description
	}
	if in.IsActive != nil {
		set["isActive"] = *in.IsActive
	}

	var c models.Category
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := db.CategoriesCollection.FindOneAndUpdate(ctx, bson.M{"_id": ps.ByName("id")}, bson.M{"$set": set}, opts).Decode(&c)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		utils.RespondWithError(w, http.StatusNotFound, "Category not found")
		return
	case db.IsDuplicateKey(err):
		utils.RespondWithError(w, http.StatusBadRequest, "Category with this name already exists")
		return
	case err != nil:
		log.Printf("Update category error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update category")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Category updated successfully", "category": c})
}

// DELETE /api/admin/categories/:id
func Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	res, err := db.CategoriesCollection.DeleteOne(ctx, bson.M{"_id": ps.ByName("id")})
	if err != nil {
		log.Printf("Delete category error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete category")
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Category not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Category deleted successfully"})
}
