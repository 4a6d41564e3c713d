package invoicing

import (
	"fmt"
	"strings"

	"github.com/DennisBaerXY/kostenlose-erechnung/internal/domain/invoice"
	"github.com/DennisBaerXY/kostenlose-erechnung/internal/infrastructure/xrechnung"
)

// Format is an output document type.
type Format string

const (
	FormatCII     Format = "CII"
	FormatUBL     Format = "UBL"
	FormatZUGFeRD Format = "ZUGFeRD"
	FormatPDF     Format = "PDF"
	FormatZIP     Format = "ZIP"
)

const (
	MimeXML = "application/xml"
	MimePDF = "application/pdf"
	MimeZIP = "application/zip"
)

var formats = []Format{FormatCII, FormatUBL, FormatZUGFeRD, FormatPDF, FormatZIP}

// Formats lists the supported output formats.
func Formats() []Format {
	return append([]Format(nil), formats...)
}

// ParseFormat matches s case-insensitively. Unknown names yield a GenerationError.
func ParseFormat(s string) (Format, error) {
	s = strings.TrimSpace(s)
	for _, f := range formats {
		if strings.EqualFold(string(f), s) {
			return f, nil
		}
	}
	return "", &invoice.GenerationError{Format: s, Err: fmt.Errorf("%w: %q", invoice.ErrUnknownFormat, s)}
}

// Syntax maps the XML formats to their syntax.
func (f Format) Syntax() (xrechnung.Syntax, bool) {
	switch f {
	case FormatCII:
		return xrechnung.SyntaxCII, true
	case FormatUBL:
		return xrechnung.SyntaxUBL, true
	}
	return "", false
}

// Document is a generated file ready for download.
type Document struct {
	Filename string         `json:"filename"`
	MimeType string         `json:"mimeType"`
	Content  []byte         `json:"-"`
	Totals   invoice.Totals `json:"totals"`
}
