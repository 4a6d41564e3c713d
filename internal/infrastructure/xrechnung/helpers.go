package xrechnung

import (
	"strings"

	"github.com/DennisBaerXY/kostenlose-erechnung/internal/domain/invoice"
	"github.com/shopspring/decimal"
)

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// EscapeXML replaces the five reserved characters with their named entities.
// The replacer works in a single pass, so "&" is never escaped twice.
func EscapeXML(s string) string {
	if s == "" {
		return ""
	}
	return xmlEscaper.Replace(s)
}

// FormatDateCompact turns YYYY-MM-DD into YYYYMMDD (CII format 102).
func FormatDateCompact(iso string) string {
	if iso == "" {
		return ""
	}
	return strings.ReplaceAll(iso, "-", "")
}

// ExpandDateCompact turns YYYYMMDD back into YYYY-MM-DD. Other input is returned unchanged.
func ExpandDateCompact(s string) string {
	s = strings.TrimSpace(s)
	if len(s) != 8 {
		return s
	}
	return s[:4] + "-" + s[4:6] + "-" + s[6:]
}

// UN/CEFACT Recommendation 20 codes per unit label. Lump sums use LS.
var unitCodes = map[string]string{
	invoice.UnitPiece:       "C62",
	invoice.UnitHours:       "HUR",
	invoice.UnitDays:        "DAY",
	invoice.UnitLumpSum:     "LS",
	invoice.UnitKilometre:   "KMT",
	invoice.UnitKilogram:    "KGM",
	invoice.UnitSquareMetre: "MTK",
	invoice.UnitLitre:       "LTR",
	invoice.UnitMetre:       "MTR",
	"piece":                 "C62",
	"hours":                 "HUR",
	"days":                  "DAY",
	"lump-sum":              "LS",
	"liter":                 "LTR",
	"meter":                 "MTR",
}

var unitLabels = map[string]string{
	"C62": invoice.UnitPiece,
	"H87": invoice.UnitPiece,
	"HUR": invoice.UnitHours,
	"DAY": invoice.UnitDays,
	"LS":  invoice.UnitLumpSum,
	"KMT": invoice.UnitKilometre,
	"KGM": invoice.UnitKilogram,
	"MTK": invoice.UnitSquareMetre,
	"LTR": invoice.UnitLitre,
	"MTR": invoice.UnitMetre,
}

// UnitCode maps a unit label to its Rec 20 code; unknown labels give C62.
func UnitCode(label string) string {
	if code, ok := unitCodes[label]; ok {
		return code
	}
	return "C62"
}

// UnitLabel maps a Rec 20 code back to the form label; unknown codes are kept.
func UnitLabel(code string) string {
	if label, ok := unitLabels[code]; ok {
		return label
	}
	if code == "" {
		return invoice.UnitPiece
	}
	return code
}

// CategoryCode returns Z for a zero rate and S for every other rate.
func CategoryCode(rate decimal.Decimal) string {
	if rate.IsZero() {
		return "Z"
	}
	return "S"
}

func formatAmount(d decimal.Decimal) string {
	return d.Round(2).StringFixed(2)
}

// formatPrice keeps up to four decimals for unit prices that need them.
func formatPrice(d decimal.Decimal) string {
	if d.Equal(d.Round(2)) {
		return d.StringFixed(2)
	}
	return d.Round(4).String()
}

// lineRate is the rate actually charged on a line; Kleinunternehmer charge none.
func lineRate(inv *invoice.Invoice, it invoice.Item) decimal.Decimal {
	if inv.Metadata.IsKleinunternehmer() {
		return decimal.Zero
	}
	return it.TaxRate
}

// netUnitPrice applies the line discount to the unit price.
func netUnitPrice(it invoice.Item) decimal.Decimal {
	if it.Discount.IsZero() {
		return it.UnitPrice
	}
	return it.UnitPrice.Mul(decimal.NewFromInt(100).Sub(it.Discount)).Div(decimal.NewFromInt(100))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

const (
	buyerReferenceFallback = "N/A"
	kleinunternehmerNote   = "Gemäß § 19 UStG wird keine Umsatzsteuer berechnet."
)
