package products

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"modesta/db"
	"modesta/models"
	"modesta/mq"
	"modesta/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Handler struct {
	Bus mq.Publisher
	Now func() time.Time
}

func NewHandler(bus mq.Publisher) *Handler {
	return &Handler{Bus: bus, Now: time.Now}
}

type listResponse struct {
	Products   []models.Product `json:"products"`
	Pagination utils.Pagination `json:"pagination"`
}

func list(ctx context.Context, filter bson.M, sort bson.D, page utils.Pagination) (listResponse, error) {
	opts := options.Find().SetSort(sort).SetSkip(page.Skip()).SetLimit(page.Limit)
	products, err := utils.FindAndDecode[models.Product](ctx, db.ProductsCollection, filter, opts)
	if err != nil {
		return listResponse{}, err
	}
	total, err := db.ProductsCollection.CountDocuments(ctx, filter)
	if err != nil {
		return listResponse{}, err
	}
	return listResponse{Products: products, Pagination: page.WithTotal(total)}, nil
}

// GET /api/products
func (h *Handler) GetProducts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	q := r.URL.Query()
	res, err := list(ctx, ListFilter(q), SortOrder(q.Get("sort")), utils.ParsePagination(r, 12, 100))
	if err != nil {
		log.Printf("GetProducts error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch products")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, res)
}

// GET /api/products/:id and GET /api/admin/products/:id
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var p models.Product
	err := db.ProductsCollection.FindOne(ctx, bson.M{"_id": ps.ByName("id")}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}
	if err != nil {
		log.Printf("GetProduct error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch product")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"product": p})
}

// GET /api/admin/products
func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	res, err := list(ctx, ListFilter(r.URL.Query()), SortOrder(""), utils.ParsePagination(r, 20, 100))
	if err != nil {
		log.Printf("Admin product list error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch products")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, res)
}

// POST /api/admin/products
func (h *Handler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var in productInput
	if err := utils.DecodeJSON(r, &in); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	p, err := in.create(h.Now())
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := db.ProductsCollection.InsertOne(ctx, p); err != nil {
		log.Printf("Create product error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create product")
		return
	}
	h.changed(p.ID, "created")
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"message": "Product created successfully", "product": p})
}

// PUT /api/admin/products/:id
func (h *Handler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	id := ps.ByName("id")
	var in productInput
	if err := utils.DecodeJSON(r, &in); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	set, err := in.updates(h.Now())
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	var p models.Product
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err = db.ProductsCollection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}
	if err != nil {
		log.Printf("Update product error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update product")
		return
	}
	h.changed(id, "updated")
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Product updated successfully", "product": p})
}

// DELETE /api/admin/products/:id
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	id := ps.ByName("id")
	res, err := db.ProductsCollection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		log.Printf("Delete product error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete product")
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}
	h.changed(id, "deleted")
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Product deleted successfully"})
}

func (h *Handler) changed(id, status string) {
	ev := models.BusEvent{Type: models.ProductChanged, EntityID: id, Status: status, At: h.Now()}
	go mq.Emit(context.Background(), h.Bus, mq.CatalogChannel, ev)
}
