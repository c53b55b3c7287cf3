package core

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// FinalPrice applies a percentage discount: price * (1 - discount/100).
// The arithmetic is done in decimal so 10 at 20% is exactly 8.
func FinalPrice(price, discount float64) float64 {
	p := decimal.NewFromFloat(price)
	factor := decimal.NewFromInt(1).Sub(decimal.NewFromFloat(discount).Div(hundred))
	f, _ := p.Mul(factor).Float64()
	return f
}
