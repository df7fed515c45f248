package main

import (
	"time"

	"modesta/models"
)

func price(v float64) *float64 { return &v }

type seedProduct struct {
	name, category, image, material, description string
	price                                        float64
	originalPrice                                *float64
	colors, sizes, specs                         []string
	newArrival, bestSeller, trending             bool
}

var seedProducts = []seedProduct{
	{
		name: "Turkey Pashmina", category: "Hijab", price: 25, originalPrice: price(35),
		image:       "/images/ProductCatlog/image 88-1.png",
		colors:      []string{"#F5E6D3", "#D4A574", "#8B7355", "#2D2D2D"},
		sizes:       []string{"S", "M", "L", "XL"},
		material:    "Premium Pashmina",
		description: "Elegant Turkey Pashmina hijab with soft texture and beautiful drape.",
		specs:       []string{"The material is soft", "Not easy to wrinkle", "Quality materials", "Comfortable to wear everyday"},
		bestSeller:  true,
	},
	{name: "Young Pashmina Maroon", category: "Hijab", price: 22, image: "/images/ProductCatlog/image 87-2.png", colors: []string{"#8B2942", "#D4A574", "#F5E6D3"}, bestSeller: true},
	{name: "Young Pashmina Grey", category: "Hijab", price: 22, image: "/images/ProductCatlog/image 86-3.png", colors: []string{"#6B6B6B", "#2D2D2D"}, bestSeller: true},
	{name: "Young Pashmina Dusty Pink Milk", category: "Hijab", price: 24, image: "/images/ProductCatlog/image 85-4.png", colors: []string{"#E8D4D4", "#D4A574"}, bestSeller: true},
	{name: "Muslimah Cotton Satin", category: "Hijab", price: 18, image: "/images/ProductCatlog/image 84-5.png", colors: []string{"#2E5A3A", "#D4A574", "#2D2D2D"}, newArrival: true},
	{name: "Women Dress Abaya Black", category: "Abaya", price: 65, originalPrice: price(80), image: "/images/ProductCatlog/image 83-6.png", sizes: []string{"S", "M", "L", "XL", "XXL"}, trending: true},
	{name: "Women Gamis Dress Mocha", category: "Gamis", price: 58, image: "/images/ProductCatlog/image 82-7.png", sizes: []string{"S", "M", "L", "XL"}, trending: true},
	{name: "Muslimah Dress Mocc Green", category: "Dress", price: 45, image: "/images/ProductCatlog/image 81-8.png", sizes: []string{"S", "M", "L", "XL"}},
	{name: "Outwear Pashmina Choco Milky", category: "Outerwear", price: 35, originalPrice: price(45), image: "/images/ProductCatlog/image 80-9.png"},
	{name: "Muslimah Dress Mosc Green", category: "Dress", price: 35, image: "/images/ProductCatlog/image 79-10.png"},
	{name: "Outwear Pashmina Choco with Straps", category: "Outerwear", price: 40, image: "/images/ProductCatlog/image 78-11.png"},
	{name: "Outwear Gamis with Straps", category: "Gamis", price: 40, image: "/images/ProductCatlog/image 77-12.png"},
}

func (s seedProduct) product(id string, now time.Time) models.Product {
	p := models.Product{
		ID:             id,
		Name:           s.name,
		Category:       s.category,
		Price:          s.price,
		OriginalPrice:  s.originalPrice,
		Image:          s.image,
		Colors:         s.colors,
		Sizes:          s.sizes,
		Material:       s.material,
		Description:    s.description,
		Specifications: s.specs,
		Stock:          models.DefaultStock,
		IsNewArrival:   s.newArrival,
		IsBestSeller:   s.bestSeller,
		IsTrending:     s.trending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if p.Colors == nil {
		p.Colors = []string{}
	}
	if p.Sizes == nil {
		p.Sizes = []string{}
	}
	return p
}

// seedCategories derives one category per distinct product category.
func seedCategories() []string {
	seen := map[string]bool{}
	var out []string
	for _, p := range seedProducts {
		if !seen[p.category] {
			seen[p.category] = true
			out = append(out, p.category)
		}
	}
	return out
}

func seedCoupons(now time.Time) []models.Coupon {
	yearOut := now.AddDate(1, 0, 0)
	return []models.Coupon{
		{Code: "WELCOME10", Type: models.CouponPercentage, Value: 10, MaxDiscount: price(20), MaxUses: models.UnlimitedUses, IsActive: true, ExpiresAt: yearOut},
		{Code: "EID25", Type: models.CouponFixed, Value: 25, MinPurchase: 100, MaxUses: 100, IsActive: true, ExpiresAt: yearOut},
	}
}
