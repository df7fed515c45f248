package models

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type Address struct {
	ID         string `json:"id" bson:"_id"`
	Label      string `json:"label" bson:"label"`
	FullName   string `json:"fullName" bson:"fullName"`
	Phone      string `json:"phone" bson:"phone"`
	Street     string `json:"street" bson:"street"`
	City       string `json:"city" bson:"city"`
	State      string `json:"state,omitempty" bson:"state,omitempty"`
	PostalCode string `json:"postalCode" bson:"postalCode"`
	Country    string `json:"country" bson:"country"`
	IsDefault  bool   `json:"isDefault" bson:"isDefault"`
}

// User password is a bcrypt hash and is never serialized to clients.
type User struct {
	ID         string    `json:"id" bson:"_id"`
	Name       string    `json:"name" bson:"name"`
	Email      string    `json:"email" bson:"email"`
	Password   string    `json:"-" bson:"password"`
	Phone      string    `json:"phone,omitempty" bson:"phone,omitempty"`
	Addresses  []Address `json:"addresses" bson:"addresses"`
	Newsletter bool      `json:"newsletter" bson:"newsletter"`
	Role       string    `json:"role" bson:"role"`
	CreatedAt  time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt" bson:"updatedAt"`
}
