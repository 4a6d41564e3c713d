package xrechnung_test

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DennisBaerXY/kostenlose-erechnung/internal/domain/invoice"
	"github.com/DennisBaerXY/kostenlose-erechnung/internal/infrastructure/xrechnung"
)

func TestEscapeXML(t *testing.T) {
	assert.Equal(t, "a &amp; b &lt; c &gt; d &quot;e&quot; &apos;f&apos;", xrechnung.EscapeXML(`a & b < c > d "e" 'f'`))
	assert.Equal(t, "&amp;amp;", xrechnung.EscapeXML("&amp;"))
	assert.Equal(t, "", xrechnung.EscapeXML(""))
	assert.Equal(t, "Größe", xrechnung.EscapeXML("Größe"))
}

func TestDateCompact(t *testing.T) {
	assert.Equal(t, "20240315", xrechnung.FormatDateCompact("2024-03-15"))
	assert.Equal(t, "", xrechnung.FormatDateCompact(""))
	assert.Equal(t, "2024-03-15", xrechnung.ExpandDateCompact("20240315"))
	assert.Equal(t, "2024-03-15", xrechnung.ExpandDateCompact("2024-03-15"))
}

func TestUnitCodes(t *testing.T) {
	tests := map[string]string{
		invoice.UnitPiece:   "C62",
		invoice.UnitHours:   "HUR",
		invoice.UnitDays:    "DAY",
		invoice.UnitLumpSum: "LS",
		"hours":             "HUR",
		"Paletten":          "C62",
		"":                  "C62",
	}
	for label, code := range tests {
		assert.Equal(t, code, xrechnung.UnitCode(label), "label %q", label)
	}

	assert.Equal(t, invoice.UnitPiece, xrechnung.UnitLabel("H87"))
	assert.Equal(t, invoice.UnitHours, xrechnung.UnitLabel("HUR"))
	assert.Equal(t, invoice.UnitPiece, xrechnung.UnitLabel(""))
	assert.Equal(t, "XPP", xrechnung.UnitLabel("XPP"))
}

func TestCategoryCode(t *testing.T) {
	assert.Equal(t, "Z", xrechnung.CategoryCode(dec("0")))
	assert.Equal(t, "Z", xrechnung.CategoryCode(dec("0.00")))
	assert.Equal(t, "S", xrechnung.CategoryCode(dec("7")))
	assert.Equal(t, "S", xrechnung.CategoryCode(dec("19")))
}

func TestValidateStructure(t *testing.T) {
	t.Run("generated cii", func(t *testing.T) {
		res := xrechnung.ValidateStructure([]byte(buildCII(t, sampleInvoice())))
		assert.True(t, res.Valid)
		assert.Equal(t, xrechnung.SyntaxCII, res.Syntax)
		assert.Empty(t, res.Errors)
	})

	t.Run("malformed", func(t *testing.T) {
		res := xrechnung.ValidateStructure([]byte(`<ubl:Invoice xmlns:ubl="urn:oasis:names:specification:ubl:schema:xsd:Invoice-2">`))
		assert.False(t, res.Valid)
		require.Len(t, res.Errors, 1)
		assert.Contains(t, res.Errors[0], "XML Parser Error: ")
	})

	t.Run("wrong root", func(t *testing.T) {
		res := xrechnung.ValidateStructure([]byte(`<Rechnung><Nr>1</Nr></Rechnung>`))
		assert.False(t, res.Valid)
		assert.Equal(t, []string{"Kein gültiges CrossIndustryInvoice oder UBL Invoice Root-Element"}, res.Errors)
	})
}

func TestDigest(t *testing.T) {
	a, err := xrechnung.Digest([]byte(`<a><b x="1"></b></a>`))
	require.NoError(t, err)
	b, err := xrechnung.Digest([]byte(`<a><b x="1"/></a>`))
	require.NoError(t, err)
	c, err := xrechnung.Digest([]byte(`<a><b x="2"/></a>`))
	require.NoError(t, err)

	assert.Len(t, a, 64)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestDigest_GeneratedDocumentIsStable(t *testing.T) {
	xml := []byte(buildCII(t, sampleInvoice()))

	first, err := xrechnung.Digest(xml)
	require.NoError(t, err)
	second, err := xrechnung.Digest([]byte(buildCII(t, sampleInvoice())))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestFilenames(t *testing.T) {
	assert.Equal(t, "RE-2024-001", xrechnung.SafeInvoiceNumber("RE-2024-001"))
	assert.Equal(t, "RE_2024_001", xrechnung.SafeInvoiceNumber("RE 2024/001"))
	assert.Equal(t, "Rechnung", xrechnung.SafeInvoiceNumber("  /// "))
	assert.Equal(t, "Rechnung", xrechnung.SafeInvoiceNumber(""))

	assert.Equal(t, "XRechnung_RE-1_CII.xml", xrechnung.XMLFilename("RE-1", xrechnung.SyntaxCII))
	assert.Equal(t, "XRechnung_RE-1_UBL.xml", xrechnung.XMLFilename("RE-1", xrechnung.SyntaxUBL))
	assert.Equal(t, "XRechnung_RE-1_ZUGFeRD.pdf", xrechnung.ZUGFeRDFilename("RE-1"))
	assert.Equal(t, "Rechnung_RE-1.pdf", xrechnung.PDFFilename("RE-1"))
	assert.Equal(t, "XRechnung_RE-1.zip", xrechnung.BundleFilename("RE-1"))
}

func TestBundle(t *testing.T) {
	data, err := xrechnung.Bundle(
		xrechnung.BundleEntry{Name: "a.xml", Content: []byte("<a/>")},
		xrechnung.BundleEntry{Name: "b.pdf", Content: []byte("%PDF-1.7")},
	)
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	require.Len(t, zr.File, 2)
	assert.Equal(t, "a.xml", zr.File[0].Name)
	assert.Equal(t, "b.pdf", zr.File[1].Name)

	rc, err := zr.File[1].Open()
	require.NoError(t, err)
	defer rc.Close()
	content, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7", string(content))
}
