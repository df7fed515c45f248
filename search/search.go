package search

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"modesta/models"
	"modesta/mq"
	"modesta/utils"

	"github.com/julienschmidt/httprouter"
)

const maxLimit = 50

// Cache is the result cache in front of the Finder; rdx.Cache implements it.
type Cache interface {
	Get(ctx context.Context, key string, dst interface{}) (bool, error)
	Set(ctx context.Context, key string, v interface{}) error
	Flush(ctx context.Context) error
}

type Handler struct {
	Finder Finder
	Cache  Cache
}

func NewHandler(f Finder, c Cache) *Handler {
	return &Handler{Finder: f, Cache: c}
}

type result struct {
	Products    []models.Product `json:"products,omitempty"`
	Suggestions []Suggestion     `json:"suggestions,omitempty"`
	Total       int              `json:"total"`
	Query       string           `json:"query"`
}

func cacheKey(q string, limit int64, autocomplete bool) string {
	mode := "full"
	if autocomplete {
		mode = "ac"
	}
	return fmt.Sprintf("%s:%d:%s", mode, limit, strings.ToLower(q))
}

// GET /api/search?q=&limit=&autocomplete=
func (h *Handler) Search(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	q := r.URL.Query()
	query := strings.TrimSpace(q.Get("q"))
	autocomplete := q.Get("autocomplete") == "true"
	if query == "" {
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"products": []models.Product{}, "suggestions": []Suggestion{}})
		return
	}
	limit := int64(utils.ParseInt(q.Get("limit"), 10))
	if limit < 1 || limit > maxLimit {
		limit = 10
	}

	key := cacheKey(query, limit, autocomplete)
	if h.Cache != nil {
		var cached result
		hit, err := h.Cache.Get(ctx, key, &cached)
		if err != nil {
			log.Printf("Search cache read error: %v", err)
		} else if hit {
			w.Header().Set("X-Cache", "HIT")
			utils.RespondWithJSON(w, http.StatusOK, cached)
			return
		}
	}

	res := result{Query: query}
	var err error
	if autocomplete {
		res.Suggestions, err = h.Finder.Suggest(ctx, query)
		res.Total = len(res.Suggestions)
	} else {
		res.Products, err = h.Finder.Search(ctx, query, limit)
		res.Total = len(res.Products)
	}
	if err != nil {
		log.Printf("Search error for %q: %v", query, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to search products")
		return
	}

	if h.Cache != nil {
		if err := h.Cache.Set(ctx, key, res); err != nil {
			log.Printf("Search cache write error: %v", err)
		}
	}
	w.Header().Set("X-Cache", "MISS")
	utils.RespondWithJSON(w, http.StatusOK, res)
}

// FlushOnCatalogChange empties the cache whenever a product changes.
func (h *Handler) FlushOnCatalogChange(ctx context.Context, bus mq.Bus) error {
	if h.Cache == nil || bus == nil {
		return nil
	}
	return bus.Subscribe(ctx, mq.CatalogChannel, func(ctx context.Context, ev models.BusEvent) {
		if ev.Type != models.ProductChanged {
			return
		}
		if err := h.Cache.Flush(ctx); err != nil {
			log.Printf("Search cache flush error: %v", err)
		}
	})
}
