package invoice

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// legacyShape captures field names used by older clients.
type legacyShape struct {
	Sender struct {
		IBAN          string `json:"iban"`
		BIC           string `json:"bic"`
		BankName      string `json:"bankName"`
		AccountHolder string `json:"accountHolder"`
	} `json:"sender"`
	Notes struct {
		IntroText   string `json:"introText"`
		ClosingText string `json:"closingText"`
	} `json:"notes"`
	Metadata struct {
		InvoiceType string `json:"invoiceType"`
	} `json:"metadata"`
	Items []struct {
		Price *decimal.Decimal `json:"price"`
	} `json:"items"`
}

// DecodeJSON reads an invoice in the canonical shape or any of the legacy
// shapes. Canonical fields win; legacy fields only fill empty ones.
func DecodeJSON(data []byte) (*Invoice, error) {
	var inv Invoice
	if err := json.Unmarshal(data, &inv); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInvoice, err)
	}
	var legacy legacyShape
	if err := json.Unmarshal(data, &legacy); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInvoice, err)
	}
	normalizeLegacy(&inv, &legacy)
	ApplyDefaults(&inv)
	return &inv, nil
}

func normalizeLegacy(inv *Invoice, legacy *legacyShape) {
	bank := &inv.Sender.BankDetails
	fill(&bank.IBAN, legacy.Sender.IBAN)
	fill(&bank.BIC, legacy.Sender.BIC)
	fill(&bank.BankName, legacy.Sender.BankName)
	fill(&bank.AccountHolder, legacy.Sender.AccountHolder)

	fill(&inv.Metadata.IntroductionText, legacy.Notes.IntroText)
	fill(&inv.Metadata.ClosingText, legacy.Notes.ClosingText)
	fill(&inv.Metadata.InvoiceTypeCode, legacy.Metadata.InvoiceType)

	for i := range inv.Items {
		if i >= len(legacy.Items) || legacy.Items[i].Price == nil {
			continue
		}
		if inv.Items[i].UnitPrice.IsZero() {
			inv.Items[i].UnitPrice = *legacy.Items[i].Price
		}
	}
}

func fill(dst *string, v string) {
	if *dst == "" && v != "" {
		*dst = v
	}
}

// ApplyDefaults sets currency, type code, countries and tax type where empty.
func ApplyDefaults(inv *Invoice) {
	fill(&inv.Metadata.Currency, DefaultCurrency)
	fill(&inv.Metadata.InvoiceTypeCode, DefaultInvoiceTypeCode)
	fill(&inv.Sender.Country, DefaultCountry)
	fill(&inv.Recipient.Country, DefaultCountry)
	if inv.Metadata.TaxType == "" {
		inv.Metadata.TaxType = TaxTypeRegular
	}
}
