package admin

import (
	"testing"
	"time"

	"modesta/models"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestGrowthPercent(t *testing.T) {
	assert.Equal(t, 0.0, GrowthPercent(100, 0))
	assert.Equal(t, 50.0, GrowthPercent(150, 100))
	assert.Equal(t, -25.0, GrowthPercent(75, 100))
	assert.Equal(t, 33.3, GrowthPercent(4, 3))
	assert.Equal(t, -100.0, GrowthPercent(0, 10))
}

func TestByStatusFillsMissing(t *testing.T) {
	got := byStatus([]statusCount{
		{Status: models.StatusPending, Count: 3},
		{Status: models.StatusDelivered, Count: 1},
		{Status: "bogus", Count: 9},
	})
	assert.Len(t, got, len(models.OrderStatuses))
	assert.Equal(t, int64(3), got[models.StatusPending])
	assert.Equal(t, int64(0), got[models.StatusCancelled])
	assert.NotContains(t, got, models.OrderStatus("bogus"))
}

func TestPeriodWindow(t *testing.T) {
	now := time.Date(2026, 3, 31, 12, 0, 0, 0, time.UTC)
	w := periodWindow(now, 30)
	assert.Equal(t, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, time.Date(2026, 1, 30, 12, 0, 0, 0, time.UTC), w.PrevStart)

	assert.Equal(t, 30, parsePeriod(""))
	assert.Equal(t, 7, parsePeriod("7"))
	assert.Equal(t, 30, parsePeriod("-3"))
	assert.Equal(t, 30, parsePeriod("9999"))
}

func TestUserFilter(t *testing.T) {
	assert.Empty(t, userFilter("  "))
	f := userFilter("a+b@x.com")
	or := f["$or"].(bson.A)
	assert.Equal(t, bson.M{"name": bson.M{"$regex": `a\+b@x\.com`, "$options": "i"}}, or[0])
}
