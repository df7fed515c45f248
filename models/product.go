package models

import "time"

// Product is a catalog entry. Stock is never negative.
type Product struct {
	ID             string    `json:"id" bson:"_id"`
	Name           string    `json:"name" bson:"name"`
	Category       string    `json:"category" bson:"category"`
	Price          float64   `json:"price" bson:"price"`
	OriginalPrice  *float64  `json:"originalPrice,omitempty" bson:"originalPrice,omitempty"`
	Image          string    `json:"image" bson:"image"`
	Colors         []string  `json:"colors" bson:"colors"`
	Sizes          []string  `json:"sizes" bson:"sizes"`
	Material       string    `json:"material,omitempty" bson:"material,omitempty"`
	Description    string    `json:"description,omitempty" bson:"description,omitempty"`
	Specifications []string  `json:"specifications,omitempty" bson:"specifications,omitempty"`
	Stock          int       `json:"stock" bson:"stock"`
	IsNewArrival   bool      `json:"isNewArrival" bson:"isNewArrival"`
	IsBestSeller   bool      `json:"isBestSeller" bson:"isBestSeller"`
	IsTrending     bool      `json:"isTrending" bson:"isTrending"`
	AverageRating  float64   `json:"averageRating" bson:"averageRating"`
	ReviewCount    int       `json:"reviewCount" bson:"reviewCount"`
	CreatedAt      time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt" bson:"updatedAt"`
}

const (
	DefaultStock       = 100
	MaxProductNameSize = 100
)
