package admin

import (
	"context"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"

	"modesta/db"
	"modesta/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type userRow struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	Email     string    `json:"email" bson:"email"`
	Phone     string    `json:"phone,omitempty" bson:"phone,omitempty"`
	Role      string    `json:"role" bson:"role"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

func userFilter(search string) bson.M {
	search = strings.TrimSpace(search)
	if search == "" {
		return bson.M{}
	}
	re := bson.M{"$regex": regexp.QuoteMeta(search), "$options": "i"}
	return bson.M{"$or": bson.A{bson.M{"name": re}, bson.M{"email": re}}}
}

// GET /api/admin/users?search=&page=&limit=
func ListUsers(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	page := utils.ParsePagination(r, 20, 100)
	filter := userFilter(r.URL.Query().Get("search"))
	opts := options.Find().
		SetProjection(bson.M{"name": 1, "email": 1, "phone": 1, "role": 1, "createdAt": 1}).
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(page.Skip()).
		SetLimit(page.Limit)

	users, err := utils.FindAndDecode[userRow](ctx, db.UserCollection, filter, opts)
	if err != nil {
		log.Printf("ListUsers error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch users")
		return
	}
	total, err := db.UserCollection.CountDocuments(ctx, filter)
	if err != nil {
		log.Printf("ListUsers count error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch users")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"users": users, "pagination": page.WithTotal(total)})
}
