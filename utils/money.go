package utils

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var brl = message.NewPrinter(language.BrazilianPortuguese)

// ToMoney renders a numeric amount as a BRL display string, e.g.
// "R$ 1.234,56". Internal arithmetic stays on raw float64 values; only
// responses go through here.
func ToMoney(value float64) string {
	return brl.Sprintf("R$ %v", number.Decimal(value,
		number.MinFractionDigits(2),
		number.MaxFractionDigits(2)))
}
