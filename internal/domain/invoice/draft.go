package invoice

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	DefaultIntroductionText = "Unsere Lieferungen/Leistungen stellen wir Ihnen wie folgt in Rechnung."
	DefaultClosingText      = "Zahlbar sofort ohne Abzug.\nVielen Dank für Ihren Auftrag."
)

var defaultTaxRate = decimal.NewFromInt(19)

// GenerateInvoiceNumber returns YYMMDD-NNNN where NNNN are the last four digits
// of the millisecond clock.
func GenerateInvoiceNumber(now time.Time) string {
	return fmt.Sprintf("%s-%04d", now.Format("060102"), now.UnixMilli()%10000)
}

// NewItem returns an empty line with the form defaults.
func NewItem() Item {
	return Item{
		ID:        uuid.NewString(),
		Quantity:  decimal.NewFromInt(1),
		Unit:      UnitPiece,
		UnitPrice: decimal.Zero,
		TaxRate:   defaultTaxRate,
	}
}

// NewDraft returns the invoice a new wizard session starts from.
func NewDraft(now time.Time) *Invoice {
	return &Invoice{
		Sender:    Sender{Country: DefaultCountry},
		Recipient: Recipient{Country: DefaultCountry},
		Metadata: Metadata{
			InvoiceNumber:    GenerateInvoiceNumber(now),
			Date:             now.Format(isoDate),
			PaymentTerms:     PaymentNet30,
			DocumentTitle:    DefaultDocumentTitle,
			IntroductionText: DefaultIntroductionText,
			ClosingText:      DefaultClosingText,
			Currency:         DefaultCurrency,
			InvoiceTypeCode:  DefaultInvoiceTypeCode,
			TaxType:          TaxTypeRegular,
		},
		Items: []Item{NewItem()},
	}
}
