package pdf

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var dePrinter = message.NewPrinter(language.German)

// FormatMoney renders an amount the German way: 1.234,50 €.
func FormatMoney(d decimal.Decimal, currency string) string {
	v := d.Round(2).InexactFloat64()
	return dePrinter.Sprint(number.Decimal(v, number.Scale(2))) + " " + currencySymbol(currency)
}

// FormatQuantity prints up to four decimals with a decimal comma and no trailing zeros.
func FormatQuantity(d decimal.Decimal) string {
	return dePrinter.Sprint(number.Decimal(d.InexactFloat64(), number.MaxFractionDigits(4)))
}

// FormatRate prints a tax or discount percentage: 19, 7, 5,5.
func FormatRate(d decimal.Decimal) string {
	return strings.Replace(d.String(), ".", ",", 1)
}

func currencySymbol(code string) string {
	switch code {
	case "", "EUR":
		return "€"
	case "USD":
		return "$"
	case "GBP":
		return "£"
	}
	return code
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// joinNonEmpty joins the non-empty parts with sep.
func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
