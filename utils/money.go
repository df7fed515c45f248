package utils

import "github.com/shopspring/decimal"

// RoundMoney rounds half away from zero to 2 decimals.
func RoundMoney(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// RoundOne rounds to a single decimal, used for ratings and growth rates.
func RoundOne(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(1).Float64()
	return f
}
