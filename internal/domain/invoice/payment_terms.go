package invoice

import (
	"fmt"
	"time"
)

const isoDate = "2006-01-02"

const defaultTermDays = 30

// TermDays returns the number of days granted by the payment terms. Unknown or
// custom terms fall back to 30 days.
func TermDays(terms PaymentTerms) int {
	switch terms {
	case PaymentNet14:
		return 14
	case PaymentImmediate:
		return 0
	default:
		return defaultTermDays
	}
}

// ParseDate accepts YYYY-MM-DD, optionally followed by a time part.
func ParseDate(s string) (time.Time, bool) {
	if len(s) > len(isoDate) {
		s = s[:len(isoDate)]
	}
	t, err := time.Parse(isoDate, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FormatDateDE renders an ISO date as DD.MM.YYYY; invalid input is returned unchanged.
func FormatDateDE(s string) string {
	t, ok := ParseDate(s)
	if !ok {
		return s
	}
	return t.Format("02.01.2006")
}

// CalculateDueDate adds the term days to the issue date. It returns "" when
// the date or the terms are missing.
func CalculateDueDate(date string, terms PaymentTerms) string {
	if date == "" || terms == "" {
		return ""
	}
	t, ok := ParseDate(date)
	if !ok {
		return ""
	}
	return t.AddDate(0, 0, TermDays(terms)).Format(isoDate)
}

// PaymentTermsText returns the German payment condition printed on the invoice.
func PaymentTermsText(m Metadata) string {
	if m.CustomPaymentTerms != "" {
		return m.CustomPaymentTerms
	}
	days := TermDays(m.PaymentTerms)
	if days == 0 {
		return "Zahlbar sofort ohne Abzug."
	}
	if t, ok := ParseDate(m.Date); ok {
		return fmt.Sprintf("Zahlbar ohne Abzug bis zum %s.", t.AddDate(0, 0, days).Format("02.01.2006"))
	}
	return fmt.Sprintf("Zahlbar innerhalb von %d Tagen ohne Abzug.", days)
}
