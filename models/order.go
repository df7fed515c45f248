package models

import (
	"strings"
	"time"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusShipped   OrderStatus = "shipped"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

var OrderStatuses = []OrderStatus{StatusPending, StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled}

func (s OrderStatus) Valid() bool {
	for _, v := range OrderStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// OrderItem is a frozen copy of a product at purchase time.
type OrderItem struct {
	ProductID     string  `json:"productId" bson:"product"`
	Name          string  `json:"name" bson:"name"`
	Price         float64 `json:"price" bson:"price"`
	Quantity      int     `json:"quantity" bson:"quantity"`
	Image         string  `json:"image" bson:"image"`
	SelectedColor string  `json:"selectedColor,omitempty" bson:"selectedColor,omitempty"`
	SelectedSize  string  `json:"selectedSize,omitempty" bson:"selectedSize,omitempty"`
}

type ShippingAddress struct {
	FullName   string `json:"fullName" bson:"fullName"`
	Address    string `json:"address" bson:"address"`
	City       string `json:"city" bson:"city"`
	PostalCode string `json:"postalCode" bson:"postalCode"`
	Country    string `json:"country" bson:"country"`
	Phone      string `json:"phone" bson:"phone"`
}

// Complete reports whether every field is non-blank.
func (a ShippingAddress) Complete() bool {
	for _, f := range []string{a.FullName, a.Address, a.City, a.PostalCode, a.Country, a.Phone} {
		if strings.TrimSpace(f) == "" {
			return false
		}
	}
	return true
}

type Order struct {
	ID              string          `json:"id" bson:"_id"`
	UserID          string          `json:"userId" bson:"user"`
	Items           []OrderItem     `json:"items" bson:"items"`
	ShippingAddress ShippingAddress `json:"shippingAddress" bson:"shippingAddress"`
	Subtotal        float64         `json:"subtotal" bson:"subtotal"`
	Discount        float64         `json:"discount" bson:"discount"`
	CouponCode      string          `json:"couponCode,omitempty" bson:"couponCode,omitempty"`
	Total           float64         `json:"total" bson:"total"`
	Status          OrderStatus     `json:"status" bson:"status"`
	CreatedAt       time.Time       `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt" bson:"updatedAt"`
}

// Contains reports whether any line references productID.
func (o *Order) Contains(productID string) bool {
	for _, it := range o.Items {
		if it.ProductID == productID {
			return true
		}
	}
	return false
}
