package events

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

const upcomingLimit = 10

type eventInput struct {
	ID          string     `json:"id"`
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Image       *string    `json:"image"`
	Date        *time.Time `json:"date"`
	EndDate     *time.Time `json:"endDate"`
	Link        *string    `json:"link"`
	IsActive    *bool      `json:"isActive"`
}

func (in eventInput) apply(e *models.Event) error {
	if in.Title != nil {
		e.Title = *in.Title
	}
	if in.Description != nil {
		e.Description = *in.Description
	}
	if in.Image != nil {
		e.Image = *in.Image
	}
	if in.Date != nil {
		e.Date = *in.Date
	}
	if in.EndDate != nil {
		e.EndDate = in.EndDate
	}
	if in.Link != nil {
		e.Link = *in.Link
	}
	if in.IsActive != nil {
		e.IsActive = *in.IsActive
	}
	if e.Title == "" || e.Date.IsZero() {
		return errors.New("title and date are required")
	}
	if e.EndDate != nil && e.EndDate.Before(e.Date) {
		return errors.New("end date is before event date")
	}
	return nil
}

// GET /api/events
func GetEvents(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	filter := bson.M{"isActive": true, "date": bson.M{"$gte": time.Now()}}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}}).SetLimit(upcomingLimit)
	evs, err := utils.FindAndDecode[models.Event](ctx, db.EventsCollection, filter, opts)
	if err != nil {
		log.Printf("GetEvents error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch events")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"events": evs})
}

// GET /api/admin/events
func AdminList(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	evs, err := utils.FindAndDecode[models.Event](ctx, db.EventsCollection, bson.M{}, opts)
	if err != nil {
		log.Printf("Admin event list error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch events")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"events": evs})
}

// POST /api/admin/events
func Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var in eventInput
	if err := utils.DecodeJSON(r, &in); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	now := time.Now()
	e := models.Event{ID: utils.GetUUID(), IsActive: true, CreatedAt: now, UpdatedAt: now}
	if err := in.apply(&e); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := db.EventsCollection.InsertOne(ctx, e); err != nil {
		log.Printf("Create event error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create event")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"message": "Event created", "event": e})
}

// PUT /api/admin/events
func Update(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var in eventInput
	if err := utils.DecodeJSON(r, &in); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if in.ID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Event ID is required")
		return
	}

	var e models.Event
	err := db.EventsCollection.FindOne(ctx, bson.M{"_id": in.ID}).Decode(&e)
	if errors.Is(err, mongo.ErrNoDocuments) {
		utils.RespondWithError(w, http.StatusNotFound, "Event not found")
		return
	}
	if err != nil {
		log.Printf("Update event lookup error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update event")
		return
	}
	if err := in.apply(&e); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	e.UpdatedAt = time.Now()

	if _, err := db.EventsCollection.ReplaceOne(ctx, bson.M{"_id": e.ID}, e); err != nil {
		log.Printf("Update event error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update event")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Event updated", "event": e})
}

// DELETE /api/admin/events?id=
func Delete(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	id := r.URL.Query().Get("id")
	if id == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Event ID is required")
		return
	}
	if _, err := db.EventsCollection.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		log.Printf("Delete event error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete event")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Event deleted"})
}
