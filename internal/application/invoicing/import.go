package invoicing

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/DennisBaerXY/kostenlose-erechnung/internal/domain/invoice"
	"github.com/DennisBaerXY/kostenlose-erechnung/internal/infrastructure/xrechnung"
)

// totalsTolerance is the largest accepted gap between stated and recomputed totals.
var totalsTolerance = decimal.RequireFromString("0.01")

// ImportResult is a parsed document together with a plausibility check.
type ImportResult struct {
	Syntax     xrechnung.Syntax         `json:"syntax"`
	Profile    string                   `json:"profile"`
	Invoice    *invoice.Invoice         `json:"invoice"`
	Totals     invoice.Totals           `json:"totals"`
	Declared   xrechnung.DeclaredTotals `json:"declaredTotals"`
	Consistent bool                     `json:"consistent"`
	Validation invoice.Result           `json:"validation"`
}

// ImportUseCase reads XRechnung documents back into the form model.
type ImportUseCase struct {
	parser InvoiceParser
	log    zerolog.Logger
}

// NewImportUseCase builds the use case.
func NewImportUseCase(parser InvoiceParser, log zerolog.Logger) *ImportUseCase {
	return &ImportUseCase{parser: parser, log: log}
}

// Import parses data, recomputes the totals from the lines and compares them
// with the totals the document states. Parse failures are *invoice.ParseError.
func (uc *ImportUseCase) Import(ctx context.Context, data []byte) (*ImportResult, error) {
	parsed, err := uc.parser.Parse(ctx, data)
	if err != nil {
		uc.log.Warn().Err(err).Int("bytes", len(data)).Msg("invoice import failed")
		return nil, err
	}

	totals := parsed.Invoice.Totals().Rounded()
	res := &ImportResult{
		Syntax:     parsed.Syntax,
		Profile:    parsed.Profile,
		Invoice:    parsed.Invoice,
		Totals:     totals,
		Declared:   parsed.Totals,
		Consistent: consistent(totals, parsed.Totals),
		Validation: invoice.Validate(parsed.Invoice),
	}

	ev := uc.log.Info()
	if !res.Consistent {
		ev = uc.log.Warn()
	}
	ev.Str("syntax", string(res.Syntax)).
		Str("profile", res.Profile).
		Str("invoice_number", parsed.Invoice.Metadata.InvoiceNumber).
		Int("items", len(parsed.Invoice.Items)).
		Bool("consistent", res.Consistent).
		Msg("invoice imported")
	return res, nil
}

func consistent(computed invoice.Totals, declared xrechnung.DeclaredTotals) bool {
	near := func(a, b decimal.Decimal) bool {
		return a.Sub(b).Abs().LessThanOrEqual(totalsTolerance)
	}
	return near(computed.Subtotal, declared.NetTotal) &&
		near(computed.TaxAmount, declared.TaxTotal) &&
		near(computed.Total, declared.GrossTotal)
}
