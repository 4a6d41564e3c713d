package pdf_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DennisBaerXY/kostenlose-erechnung/internal/domain/invoice"
	"github.com/DennisBaerXY/kostenlose-erechnung/internal/infrastructure/pdf"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func sampleInvoice() *invoice.Invoice {
	return &invoice.Invoice{
		Sender: invoice.Sender{
			Name:   "Muster GmbH",
			Street: "Hauptstraße 1",
			Zip:    "10115",
			City:   "Berlin",
			Email:  "rechnung@muster.de",
			TaxID:  "12/345/67890",
			UstID:  "DE123456789",
			BankDetails: invoice.BankDetails{
				AccountHolder: "Muster GmbH",
				BankName:      "Berliner Bank",
				IBAN:          "DE02 1203 0000 0000 2020 51",
				BIC:           "BYLADEM1001",
			},
			CompanyInfo: invoice.CompanyInfo{ManagingDirector: "Erika Muster", CommercialRegister: "HRB 12345", RegisterCourt: "Charlottenburg"},
		},
		Recipient: invoice.Recipient{Name: "Kunde AG", Street: "Nebenweg 2", Zip: "80331", City: "München", Reference: "PO-77"},
		Metadata: invoice.Metadata{
			InvoiceNumber:    "RE-1",
			Date:             "2024-03-15",
			DeliveryDate:     "2024-03-10",
			PaymentTerms:     invoice.PaymentNet14,
			IntroductionText: "Vielen Dank für Ihren Auftrag.",
			ClosingText:      "Mit freundlichen Grüßen",
		},
		Items: []invoice.Item{
			{Description: "Beratung", LongDescription: "Konzeption und Workshop", Quantity: dec("2"), Unit: invoice.UnitHours, UnitPrice: dec("100"), TaxRate: dec("19")},
			{Description: "Lizenz", Quantity: dec("1"), Unit: invoice.UnitPiece, UnitPrice: dec("50"), TaxRate: dec("7"), Discount: dec("10")},
		},
	}
}

func TestMarotoRenderer_Render(t *testing.T) {
	out, err := pdf.NewMarotoRenderer().Render(context.Background(), sampleInvoice(), "")

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestMarotoRenderer_Kleinunternehmer(t *testing.T) {
	inv := sampleInvoice()
	inv.Metadata.TaxType = invoice.TaxTypeKleinunternehmer
	inv.Sender.BankDetails = invoice.BankDetails{}

	out, err := pdf.NewMarotoRenderer().Render(context.Background(), inv, pdf.TemplateClassic)

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestMarotoRenderer_UnknownTemplate(t *testing.T) {
	_, err := pdf.NewMarotoRenderer().Render(context.Background(), sampleInvoice(), "modern")

	require.Error(t, err)
	assert.ErrorIs(t, err, invoice.ErrUnknownTemplate)
	var genErr *invoice.GenerationError
	assert.ErrorAs(t, err, &genErr)
}

func TestMarotoRenderer_NilInvoice(t *testing.T) {
	_, err := pdf.NewMarotoRenderer().Render(context.Background(), nil, "")

	var genErr *invoice.GenerationError
	assert.ErrorAs(t, err, &genErr)
}

func TestTemplates(t *testing.T) {
	assert.Equal(t, []string{"classic"}, pdf.Templates())
	assert.True(t, pdf.HasTemplate(""))
	assert.True(t, pdf.HasTemplate("classic"))
	assert.False(t, pdf.HasTemplate("modern"))
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "1.234,50 €", pdf.FormatMoney(dec("1234.5"), "EUR"))
	assert.Equal(t, "0,00 €", pdf.FormatMoney(dec("0"), ""))
	assert.Equal(t, "31,99 €", pdf.FormatMoney(dec("31.993"), "EUR"))
	assert.Equal(t, "12,00 CHF", pdf.FormatMoney(dec("12"), "CHF"))
}

func TestFormatQuantityAndRate(t *testing.T) {
	assert.Equal(t, "2", pdf.FormatQuantity(dec("2")))
	assert.Equal(t, "1,5", pdf.FormatQuantity(dec("1.5")))
	assert.Equal(t, "19", pdf.FormatRate(dec("19")))
	assert.Equal(t, "5,5", pdf.FormatRate(dec("5.5")))
}

func TestGiroCode(t *testing.T) {
	inv := sampleInvoice()
	inv.Items = inv.Items[:1]

	payload, ok := pdf.GiroCode(inv)

	require.True(t, ok)
	assert.Equal(t, strings.Join([]string{
		"BCD", "002", "1", "SCT", "BYLADEM1001", "Muster GmbH",
		"DE02120300000000202051", "EUR238.00", "", "", "Rechnung RE-1",
	}, "\n"), payload)
}

func TestGiroCode_NotPayable(t *testing.T) {
	noIBAN := sampleInvoice()
	noIBAN.Sender.BankDetails.IBAN = ""
	_, ok := pdf.GiroCode(noIBAN)
	assert.False(t, ok)

	foreign := sampleInvoice()
	foreign.Metadata.Currency = "USD"
	_, ok = pdf.GiroCode(foreign)
	assert.False(t, ok)

	empty := sampleInvoice()
	empty.Items = nil
	_, ok = pdf.GiroCode(empty)
	assert.False(t, ok)

	_, ok = pdf.GiroCode(nil)
	assert.False(t, ok)
}

func TestPDFCPUAttacher_Attach(t *testing.T) {
	ctx := context.Background()
	doc, err := pdf.NewMarotoRenderer().Render(ctx, sampleInvoice(), "")
	require.NoError(t, err)

	out, err := pdf.NewPDFCPUAttacher().Attach(ctx, doc, "zugferd-invoice.xml", "application/xml", []byte(`<?xml version="1.0"?><a/>`))

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.NotEqual(t, doc, out)

	attachments, err := api.Attachments(bytes.NewReader(out), model.NewDefaultConfiguration())
	require.NoError(t, err)
	require.Len(t, attachments, 1)
	assert.Equal(t, "zugferd-invoice.xml", attachments[0].FileName)
}

func TestPDFCPUAttacher_EmbeddedFileMetadata(t *testing.T) {
	ctx := context.Background()
	doc, err := pdf.NewMarotoRenderer().Render(ctx, sampleInvoice(), "")
	require.NoError(t, err)

	out, err := pdf.NewPDFCPUAttacher().Attach(ctx, doc, "zugferd-invoice.xml", "application/xml", []byte("<a/>"))
	require.NoError(t, err)

	pdfCtx, err := api.ReadContext(bytes.NewReader(out), model.NewDefaultConfiguration())
	require.NoError(t, err)
	xt := pdfCtx.XRefTable
	catalog, err := xt.Catalog()
	require.NoError(t, err)

	af := catalog.ArrayEntry("AF")
	require.Len(t, af, 1)
	spec, err := xt.DereferenceDict(af[0])
	require.NoError(t, err)
	rel := spec.NameEntry("AFRelationship")
	require.NotNil(t, rel)
	assert.Equal(t, "Alternative", *rel)

	ef := spec.DictEntry("EF")
	require.NotNil(t, ef)
	ref := ef.IndirectRefEntry("F")
	require.NotNil(t, ref)
	sd, _, err := xt.DereferenceStreamDict(*ref)
	require.NoError(t, err)
	require.NotNil(t, sd)
	subtype := sd.NameEntry("Subtype")
	require.NotNil(t, subtype)
	assert.Equal(t, "application/xml", *subtype)
	typ := sd.NameEntry("Type")
	require.NotNil(t, typ)
	assert.Equal(t, "EmbeddedFile", *typ)
}

func TestPDFCPUAttacher_RejectsNonPDF(t *testing.T) {
	_, err := pdf.NewPDFCPUAttacher().Attach(context.Background(), []byte("not a pdf"), "a.xml", "application/xml", []byte("<a/>"))

	assert.Error(t, err)
}
