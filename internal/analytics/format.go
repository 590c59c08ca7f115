package analytics

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const currencySymbol = "₹"

// formatCurrency renders an amount with thousands grouping and at most two decimals,
// e.g. 12345.5 => "₹12,345.5".
func formatCurrency(amount float64) string {
	p := message.NewPrinter(language.English)
	return currencySymbol + p.Sprint(number.Decimal(amount, number.MaxFractionDigits(2)))
}
