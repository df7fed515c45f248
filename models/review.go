package models

import "time"

const (
	MaxReviewTitle   = 100
	MaxReviewComment = 1000
)

type Review struct {
	ID                 string    `json:"id" bson:"_id"`
	UserID             string    `json:"userId" bson:"user"`
	UserName           string    `json:"userName,omitempty" bson:"userName,omitempty"`
	ProductID          string    `json:"productId" bson:"product"`
	Rating             int       `json:"rating" bson:"rating"`
	Title              string    `json:"title" bson:"title"`
	Comment            string    `json:"comment" bson:"comment"`
	IsVerifiedPurchase bool      `json:"isVerifiedPurchase" bson:"isVerifiedPurchase"`
	CreatedAt          time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt" bson:"updatedAt"`
}

type Wishlist struct {
	ID        string    `json:"id" bson:"_id"`
	UserID    string    `json:"userId" bson:"user"`
	Products  []string  `json:"products" bson:"products"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}
