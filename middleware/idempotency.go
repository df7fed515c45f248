package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"modesta/db"
	"modesta/models"
	"modesta/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// maxIdempotentBody bounds the body that is buffered and hashed.
const maxIdempotentBody = 1 << 20

// IdempotencyStore persists Idempotency-Key records.
type IdempotencyStore interface {
	// Reserve inserts rec, or returns the record already stored under rec.Key.
	Reserve(ctx context.Context, rec models.IdempotencyRecord) (*models.IdempotencyRecord, error)
	SaveResponse(ctx context.Context, key string, resp map[string]interface{}) error
	Release(ctx context.Context, key string) error
}

// MongoIdempotency keeps records in db.IdempotencyCollection, which has a
// unique index on key and a TTL index on expires_at.
type MongoIdempotency struct{}

func (MongoIdempotency) Reserve(ctx context.Context, rec models.IdempotencyRecord) (*models.IdempotencyRecord, error) {
	_, err := db.IdempotencyCollection.InsertOne(ctx, rec)
	if err == nil {
		return nil, nil
	}
	if !mongo.IsDuplicateKeyError(err) {
		return nil, err
	}
	var existing models.IdempotencyRecord
	if err := db.IdempotencyCollection.FindOne(ctx, bson.M{"key": rec.Key}).Decode(&existing); err != nil {
		return nil, err
	}
	return &existing, nil
}

func (MongoIdempotency) SaveResponse(ctx context.Context, key string, resp map[string]interface{}) error {
	_, err := db.IdempotencyCollection.UpdateOne(ctx, bson.M{"key": key}, bson.M{"$set": bson.M{"response": resp}})
	return err
}

func (MongoIdempotency) Release(ctx context.Context, key string) error {
	_, err := db.IdempotencyCollection.DeleteOne(ctx, bson.M{"key": key})
	return err
}

func computeRequestHash(r *http.Request, bodyBytes []byte, userID string) string {
	h := sha256.New()
	h.Write([]byte(r.Method + ":" + r.URL.Path + ":" + userID + ":"))
	h.Write(bodyBytes)
	return hex.EncodeToString(h.Sum(nil))
}

// captureWriter records status and body while writing through.
type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
	wrote  bool
}

func (c *captureWriter) WriteHeader(status int) {
	if !c.wrote {
		c.status = status
		c.wrote = true
		c.ResponseWriter.WriteHeader(status)
	}
}

func (c *captureWriter) Write(b []byte) (int, error) {
	if !c.wrote {
		c.WriteHeader(http.StatusOK)
	}
	c.buf.Write(b)
	return c.ResponseWriter.Write(b)
}

// replayable reports whether a response is final for its key. Conflicts and
// server errors are released so the client can retry with the same key.
func replayable(status int) bool {
	return status < 500 && status != http.StatusConflict
}

// Idempotency replays the first response for a repeated Idempotency-Key.
// Requests without the header pass through. Reusing a key with a different
// body, or while the first request is still running, returns 409.
func Idempotency(s IdempotencyStore, ttl time.Duration) Middleware {
	return func(next httprouter.Handle) httprouter.Handle {
		return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
			key := r.Header.Get("Idempotency-Key")
			if key == "" {
				next(w, r, ps)
				return
			}

			userID := utils.GetUserIDFromRequest(r)
			bodyBytes, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxIdempotentBody))
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				utils.RespondWithError(w, http.StatusRequestEntityTooLarge, "Request body too large")
				return
			}
			if err != nil {
				utils.RespondWithError(w, http.StatusBadRequest, "Failed to read request body")
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(bodyBytes))

			reqHash := computeRequestHash(r, bodyBytes, userID)
			now := time.Now()
			rec := models.IdempotencyRecord{
				Key:         userID + ":" + key,
				Method:      r.Method,
				Path:        r.URL.Path,
				UserID:      userID,
				RequestHash: reqHash,
				CreatedAt:   now,
				ExpiresAt:   now.Add(ttl),
			}

			ctx := r.Context()
			existing, err := s.Reserve(ctx, rec)
			if err != nil {
				log.Printf("Idempotency reserve error: %v", err)
				utils.RespondWithError(w, http.StatusInternalServerError, "Idempotency lookup error")
				return
			}

			if existing == nil {
				crw := &captureWriter{ResponseWriter: w, status: http.StatusOK}
				next(crw, r, ps)

				// the request context may be done once the handler returns
				bg, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
				defer cancel()

				if !replayable(crw.status) {
					if err := s.Release(bg, rec.Key); err != nil {
						log.Printf("Idempotency release error: %v", err)
					}
					return
				}
				var parsed interface{}
				if err := json.Unmarshal(crw.buf.Bytes(), &parsed); err != nil {
					parsed = crw.buf.String()
				}
				resp := map[string]interface{}{"status": crw.status, "body": parsed}
				if err := s.SaveResponse(bg, rec.Key, resp); err != nil {
					log.Printf("Idempotency save error: %v", err)
				}
				return
			}

			if existing.RequestHash != reqHash {
				utils.RespondWithError(w, http.StatusConflict, "Idempotency-Key reused with a different request")
				return
			}
			if existing.Response == nil {
				utils.RespondWithError(w, http.StatusConflict, "Request with this Idempotency-Key is still in progress")
				return
			}

			w.Header().Set("Idempotent-Replayed", "true")
			utils.RespondWithJSON(w, statusOf(existing.Response["status"]), existing.Response["body"])
		}
	}
}

// statusOf reads a stored status that may have decoded as any numeric type.
func statusOf(v interface{}) int {
	switch n := v.(type) {
	case int:
		return n
	case int32:
		return int(n)
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return http.StatusOK
}
