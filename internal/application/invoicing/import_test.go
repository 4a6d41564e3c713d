package invoicing_test

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DennisBaerXY/kostenlose-erechnung/internal/application/invoicing"
	"github.com/DennisBaerXY/kostenlose-erechnung/internal/domain/invoice"
	"github.com/DennisBaerXY/kostenlose-erechnung/internal/infrastructure/xrechnung"
)

func newImport() *invoicing.ImportUseCase {
	return invoicing.NewImportUseCase(xrechnung.NewParser(), zerolog.Nop())
}

func TestImport_GeneratedCII(t *testing.T) {
	xml, err := xrechnung.NewCIIBuilder().Build(sampleInvoice())
	require.NoError(t, err)

	res, err := newImport().Import(context.Background(), xml)

	require.NoError(t, err)
	assert.Equal(t, xrechnung.SyntaxCII, res.Syntax)
	assert.Equal(t, "XRechnung", res.Profile)
	assert.Equal(t, "RE-2024-001", res.Invoice.Metadata.InvoiceNumber)
	assert.True(t, res.Consistent)
	assert.True(t, res.Totals.Total.Equal(dec("238")))
	assert.True(t, res.Validation.Valid, res.Validation.Errors)
}

func TestImport_GeneratedUBL(t *testing.T) {
	xml, err := xrechnung.NewUBLBuilder().Build(sampleInvoice())
	require.NoError(t, err)

	res, err := newImport().Import(context.Background(), xml)

	require.NoError(t, err)
	assert.Equal(t, xrechnung.SyntaxUBL, res.Syntax)
	assert.True(t, res.Consistent)
}

func TestImport_InconsistentTotals(t *testing.T) {
	xml, err := xrechnung.NewCIIBuilder().Build(sampleInvoice())
	require.NoError(t, err)
	tampered := strings.Replace(string(xml),
		"<ram:GrandTotalAmount>238.00</ram:GrandTotalAmount>",
		"<ram:GrandTotalAmount>250.00</ram:GrandTotalAmount>", 1)
	require.NotEqual(t, string(xml), tampered)

	res, err := newImport().Import(context.Background(), []byte(tampered))

	require.NoError(t, err)
	assert.False(t, res.Consistent)
	assert.True(t, res.Declared.GrossTotal.Equal(dec("250")))
}

func TestImport_Malformed(t *testing.T) {
	_, err := newImport().Import(context.Background(), []byte("<rsm:CrossIndustryInvoice"))

	var pe *invoice.ParseError
	require.ErrorAs(t, err, &pe)
	assert.ErrorIs(t, err, invoice.ErrMalformedXML)
}
