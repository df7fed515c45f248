package models

import "time"

type Category struct {
	ID          string    `json:"id" bson:"_id"`
	Name        string    `json:"name" bson:"name"`
	Slug        string    `json:"slug" bson:"slug"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	Image       string    `json:"image" bson:"image"`
	IsActive    bool      `json:"isActive" bson:"isActive"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`
}

type Banner struct {
	ID         string     `json:"id" bson:"_id"`
	Title      string     `json:"title" bson:"title"`
	Subtitle   string     `json:"subtitle,omitempty" bson:"subtitle,omitempty"`
	Image      string     `json:"image" bson:"image"`
	Link       string     `json:"link,omitempty" bson:"link,omitempty"`
	ButtonText string     `json:"buttonText" bson:"buttonText"`
	IsActive   bool       `json:"isActive" bson:"isActive"`
	Order      int        `json:"order" bson:"order"`
	StartDate  *time.Time `json:"startDate,omitempty" bson:"startDate,omitempty"`
	EndDate    *time.Time `json:"endDate,omitempty" bson:"endDate,omitempty"`
	CreatedAt  time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt" bson:"updatedAt"`
}

const DefaultButtonText = "Shop Now"

// Event is a storefront promotion (sale, launch) shown on the home page.
type Event struct {
	ID          string     `json:"id" bson:"_id"`
	Title       string     `json:"title" bson:"title"`
	Description string     `json:"description,omitempty" bson:"description,omitempty"`
	Image       string     `json:"image,omitempty" bson:"image,omitempty"`
	Date        time.Time  `json:"date" bson:"date"`
	EndDate     *time.Time `json:"endDate,omitempty" bson:"endDate,omitempty"`
	Link        string     `json:"link,omitempty" bson:"link,omitempty"`
	IsActive    bool       `json:"isActive" bson:"isActive"`
	CreatedAt   time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt" bson:"updatedAt"`
}
