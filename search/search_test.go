package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"modesta/models"
	"modesta/mq"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

type fakeFinder struct {
	searches, suggests int
	lastLimit          int64
}

func (f *fakeFinder) Search(_ context.Context, q string, limit int64) ([]models.Product, error) {
	f.searches++
	f.lastLimit = limit
	return []models.Product{{ID: "p1", Name: "Turkey Pashmina " + q}}, nil
}

func (f *fakeFinder) Suggest(_ context.Context, q string) ([]Suggestion, error) {
	f.suggests++
	return []Suggestion{{ID: "p1", Name: "Turkey Pashmina"}}, nil
}

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, key string, dst interface{}) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dst)
}

func (c *memCache) Set(_ context.Context, key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.data[key] = raw
	c.mu.Unlock()
	return nil
}

func (c *memCache) Flush(context.Context) error {
	c.mu.Lock()
	c.data = map[string][]byte{}
	c.mu.Unlock()
	return nil
}

func get(h *Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.Search(rec, httptest.NewRequest(http.MethodGet, target, nil), nil)
	return rec
}

func TestSearchEmptyQuery(t *testing.T) {
	f := &fakeFinder{}
	rec := get(NewHandler(f, nil), "/api/search?q=%20%20")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"products":[],"suggestions":[]}`, rec.Body.String())
	assert.Zero(t, f.searches)
}

func TestSearchCachesResults(t *testing.T) {
	f := &fakeFinder{}
	h := NewHandler(f, newMemCache())

	rec := get(h, "/api/search?q=Pashmina&limit=500")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.Equal(t, int64(10), f.lastLimit)

	rec = get(h, "/api/search?q=pashmina&limit=500")
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))
	assert.Equal(t, 1, f.searches)

	var out result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, 1, out.Total)
	assert.Equal(t, "Pashmina", out.Query)
}

func TestSearchAutocomplete(t *testing.T) {
	f := &fakeFinder{}
	rec := get(NewHandler(f, nil), "/api/search?q=pash&autocomplete=true")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, f.suggests)
	assert.Zero(t, f.searches)

	var out result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Len(t, out.Suggestions, 1)
	assert.Empty(t, out.Products)
}

func TestFlushOnCatalogChange(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	f := &fakeFinder{}
	cache := newMemCache()
	h := NewHandler(f, cache)
	bus := mq.NewLocalBus()
	require.NoError(t, h.FlushOnCatalogChange(ctx, bus))

	get(h, "/api/search?q=hijab")
	require.NoError(t, bus.Publish(ctx, mq.CatalogChannel, models.BusEvent{Type: models.OrderPlaced}))
	get(h, "/api/search?q=hijab")
	assert.Equal(t, 1, f.searches)

	require.NoError(t, bus.Publish(ctx, mq.CatalogChannel, models.BusEvent{Type: models.ProductChanged, EntityID: "p1"}))
	get(h, "/api/search?q=hijab")
	assert.Equal(t, 2, f.searches)
}

func TestMatchAnyEscapesInput(t *testing.T) {
	m := matchAny("a.b*", "name", "category")
	or := m["$or"].(bson.A)
	require.Len(t, or, 2)
	assert.Equal(t, bson.M{"name": bson.M{"$regex": `a\.b\*`, "$options": "i"}}, or[0])
}
