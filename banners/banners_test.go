package banners

import (
	"testing"
	"time"

	"modesta/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVisible(t *testing.T) {
	now := time.Date(2026, 4, 10, 12, 0, 0, 0, time.UTC)
	before := now.Add(-24 * time.Hour)
	after := now.Add(24 * time.Hour)

	tests := []struct {
		name   string
		banner models.Banner
		want   bool
	}{
		{"open window", models.Banner{IsActive: true}, true},
		{"inactive", models.Banner{IsActive: false}, false},
		{"inside window", models.Banner{IsActive: true, StartDate: &before, EndDate: &after}, true},
		{"not started", models.Banner{IsActive: true, StartDate: &after}, false},
		{"ended", models.Banner{IsActive: true, EndDate: &before}, false},
		{"start only", models.Banner{IsActive: true, StartDate: &before}, true},
		{"end only", models.Banner{IsActive: true, EndDate: &after}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Visible(tt.banner, now))
		})
	}
}

func TestBannerInputApply(t *testing.T) {
	b := models.Banner{ButtonText: models.DefaultButtonText, IsActive: true}
	title, image := "Eid Sale", "/eid.jpg"

	assert.Error(t, bannerInput{Title: &title}.apply(&b))

	require.NoError(t, bannerInput{Title: &title, Image: &image}.apply(&b))
	assert.Equal(t, "Shop Now", b.ButtonText)

	start := time.Now()
	end := start.Add(-time.Hour)
	assert.Error(t, bannerInput{StartDate: &start, EndDate: &end}.apply(&b))
}
