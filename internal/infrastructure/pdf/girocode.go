package pdf

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/DennisBaerXY/kostenlose-erechnung/internal/domain/invoice"
)

var maxGiroAmount = decimal.RequireFromString("999999999.99")

// GiroCode returns the EPC069-12 (version 002) SEPA credit transfer payload
// for the invoice total. ok is false when the invoice cannot be paid that way:
// no IBAN, a currency other than EUR or an amount outside the EPC range.
func GiroCode(inv *invoice.Invoice) (payload string, ok bool) {
	if inv == nil {
		return "", false
	}
	bank := inv.Sender.BankDetails
	iban := strings.ReplaceAll(bank.IBAN, " ", "")
	if iban == "" || inv.Metadata.CurrencyCode() != "EUR" {
		return "", false
	}
	amount := inv.Totals().Rounded().Total
	if amount.LessThan(decimal.RequireFromString("0.01")) || amount.GreaterThan(maxGiroAmount) {
		return "", false
	}

	lines := []string{
		"BCD",
		"002",
		"1",
		"SCT",
		strings.ReplaceAll(bank.BIC, " ", ""),
		truncate(nonEmpty(bank.AccountHolder, inv.Sender.Name), 70),
		iban,
		"EUR" + amount.StringFixed(2),
		"",
		"",
		truncate("Rechnung "+inv.Metadata.InvoiceNumber, 140),
	}
	return strings.Join(lines, "\n"), true
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
