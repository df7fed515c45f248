package admin

import (
	"time"

	"modesta/models"
	"modesta/utils"
)

// GrowthPercent is the change from prev to cur in percent, one decimal.
// No previous period means no growth.
func GrowthPercent(cur, prev float64) float64 {
	if prev <= 0 {
		return 0
	}
	return utils.RoundOne((cur - prev) / prev * 100)
}

type statusCount struct {
	Status models.OrderStatus `bson:"_id"`
	Count  int64              `bson:"count"`
}

// byStatus fills every known status, including ones with no orders.
func byStatus(rows []statusCount) map[models.OrderStatus]int64 {
	out := make(map[models.OrderStatus]int64, len(models.OrderStatuses))
	for _, s := range models.OrderStatuses {
		out[s] = 0
	}
	for _, r := range rows {
		if r.Status.Valid() {
			out[r.Status] = r.Count
		}
	}
	return out
}

// Window is the current analytics period and the one just before it.
type Window struct {
	Start, PrevStart time.Time
}

func periodWindow(now time.Time, days int) Window {
	start := now.AddDate(0, 0, -days)
	return Window{Start: start, PrevStart: start.AddDate(0, 0, -days)}
}

func parsePeriod(s string) int {
	days := utils.ParseInt(s, 30)
	if days < 1 || days > 365 {
		return 30
	}
	return days
}
