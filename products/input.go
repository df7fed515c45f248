package products

import (
	"strings"
	"time"

	"modesta/models"
	"modesta/utils"

	"go.mongodb.org/mongo-driver/bson"
)

// inputError messages are returned to the client as is.
type inputError string

func (e inputError) Error() string { return string(e) }

const (
	errRequired    inputError = "Name, category, price, and image are required"
	errNameTooLong inputError = "Product name cannot exceed 100 characters"
	errNegative    inputError = "Price and stock cannot be negative"
)

// productInput is the admin create/update body. Nil fields are left alone
// on update.
type productInput struct {
	Name           *string   `json:"name"`
	Category       *string   `json:"category"`
	Price          *float64  `json:"price"`
	OriginalPrice  *float64  `json:"originalPrice"`
	Image          *string   `json:"image"`
	Colors         *[]string `json:"colors"`
	Sizes          *[]string `json:"sizes"`
	Material       *string   `json:"material"`
	Description    *string   `json:"description"`
	Specifications *[]string `json:"specifications"`
	Stock          *int      `json:"stock"`
	IsNewArrival   *bool     `json:"isNewArrival"`
	IsBestSeller   *bool     `json:"isBestSeller"`
	IsTrending     *bool     `json:"isTrending"`
}

func (in productInput) create(now time.Time) (models.Product, error) {
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" ||
		in.Category == nil || *in.Category == "" ||
		in.Price == nil || *in.Price <= 0 ||
		in.Image == nil || *in.Image == "" {
		return models.Product{}, errRequired
	}
	p := models.Product{
		ID:        utils.GetUUID(),
		Colors:    []string{},
		Sizes:     []string{},
		Stock:     models.DefaultStock,
		CreatedAt: now,
	}
	if err := in.apply(&p, now); err != nil {
		return models.Product{}, err
	}
	if in.Stock != nil && *in.Stock == 0 {
		p.Stock = models.DefaultStock
	}
	return p, nil
}

func (in productInput) apply(p *models.Product, now time.Time) error {
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if len([]rune(name)) > models.MaxProductNameSize {
			return errNameTooLong
		}
		p.Name = name
	}
	if in.Category != nil {
		p.Category = *in.Category
	}
	if in.Price != nil {
		if *in.Price < 0 {
			return errNegative
		}
		p.Price = utils.RoundMoney(*in.Price)
	}
	if in.OriginalPrice != nil {
		op := utils.RoundMoney(*in.OriginalPrice)
		p.OriginalPrice = &op
	}
	if in.Image != nil {
		p.Image = *in.Image
	}
	if in.Colors != nil {
		p.Colors = *in.Colors
	}
	if in.Sizes != nil {
		p.Sizes = *in.Sizes
	}
	if in.Material != nil {
		p.Material = *in.Material
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Specifications != nil {
		p.Specifications = *in.Specifications
	}
	if in.Stock != nil {
		if *in.Stock < 0 {
			return errNegative
		}
		p.Stock = *in.Stock
	}
	if in.IsNewArrival != nil {
		p.IsNewArrival = *in.IsNewArrival
	}
	if in.IsBestSeller != nil {
		p.IsBestSeller = *in.IsBestSeller
	}
	if in.IsTrending != nil {
		p.IsTrending = *in.IsTrending
	}
	p.UpdatedAt = now
	return nil
}

// updates returns a $set document holding only the fields the request
// supplied. Stock, rating and review counts are written only when set here.
func (in productInput) updates(now time.Time) (bson.M, error) {
	var p models.Product
	if err := in.apply(&p, now); err != nil {
		return nil, err
	}
	set := bson.M{"updatedAt": p.UpdatedAt}
	if in.Name != nil {
		set["name"] = p.Name
	}
	if in.Category != nil {
		set["category"] = p.Category
	}
	if in.Price != nil {
		set["price"] = p.Price
	}
	if in.OriginalPrice != nil {
		set["originalPrice"] = p.OriginalPrice
	}
	if in.Image != nil {
		set["image"] = p.Image
	}
	if in.Colors != nil {
		set["colors"] = p.Colors
	}
	if in.Sizes != nil {
		set["sizes"] = p.Sizes
	}
	if in.Material != nil {
		set["material"] = p.Material
	}
	if in.Description != nil {
		set["description"] = p.Description
	}
	if in.Specifications != nil {
		set["specifications"] = p.Specifications
	}
	if in.Stock != nil {
		set["stock"] = p.Stock
	}
	if in.IsNewArrival != nil {
		set["isNewArrival"] = p.IsNewArrival
	}
	if in.IsBestSeller != nil {
		set["isBestSeller"] = p.IsBestSeller
	}
	if in.IsTrending != nil {
		set["isTrending"] = p.IsTrending
	}
	return set, nil
}
