package main

import (
	"testing"
	"time"

	"modesta/categories"
	"modesta/coupons"
	"modesta/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedProductsAreValid(t *testing.T) {
	now := time.Now()
	names := map[string]bool{}
	for _, sp := range seedProducts {
		p := sp.product("id", now)
		assert.False(t, names[p.Name], "duplicate %s", p.Name)
		names[p.Name] = true
		assert.Greater(t, p.Price, 0.0, p.Name)
		assert.NotEmpty(t, p.Image, p.Name)
		assert.LessOrEqual(t, len(p.Name), models.MaxProductNameSize)
		assert.Equal(t, models.DefaultStock, p.Stock)
		assert.NotNil(t, p.Colors)
		if p.OriginalPrice != nil {
			assert.Greater(t, *p.OriginalPrice, p.Price, p.Name)
		}
	}
}

func TestSeedCategories(t *testing.T) {
	cats := seedCategories()
	assert.Equal(t, []string{"Hijab", "Abaya", "Gamis", "Dress", "Outerwear"}, cats)
	for _, c := range cats {
		assert.NotEmpty(t, categories.Slugify(c))
	}
}

func TestSeedCouponsApply(t *testing.T) {
	now := time.Now()
	cs := seedCoupons(now)
	require.Len(t, cs, 2)

	d, err := coupons.Evaluate(&cs[0], 500, now)
	require.NoError(t, err)
	assert.Equal(t, 20.0, d)

	_, err = coupons.Evaluate(&cs[1], 50, now)
	assert.Error(t, err)
}
