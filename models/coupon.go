package models

import "time"

type CouponType string

const (
	CouponPercentage CouponType = "percentage"
	CouponFixed      CouponType = "fixed"
)

// UnlimitedUses marks a coupon without a redemption cap.
const UnlimitedUses = -1

type Coupon struct {
	ID          string     `json:"id" bson:"_id"`
	Code        string     `json:"code" bson:"code"` // stored uppercase
	Type        CouponType `json:"type" bson:"type"`
	Value       float64    `json:"value" bson:"value"`
	MinPurchase float64    `json:"minPurchase" bson:"minPurchase"`
	MaxDiscount *float64   `json:"maxDiscount,omitempty" bson:"maxDiscount,omitempty"`
	MaxUses     int        `json:"maxUses" bson:"maxUses"`
	UsedCount   int        `json:"usedCount" bson:"usedCount"`
	IsActive    bool       `json:"isActive" bson:"isActive"`
	ExpiresAt   time.Time  `json:"expiresAt" bson:"expiresAt"`
	CreatedAt   time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt" bson:"updatedAt"`
}

func (t CouponType) Valid() bool {
	return t == CouponPercentage || t == CouponFixed
}
