package xrechnung

import (
	"regexp"
	"strings"
)

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// SafeInvoiceNumber strips everything but letters, digits, dot, dash and
// underscore so the number can be used in a file name.
func SafeInvoiceNumber(nr string) string {
	s := unsafeFilenameChars.ReplaceAllString(strings.TrimSpace(nr), "_")
	s = strings.Trim(s, "._")
	if s == "" {
		return "Rechnung"
	}
	return s
}

// XMLFilename returns XRechnung_{nr}_{CII|UBL}.xml.
func XMLFilename(invoiceNumber string, syntax Syntax) string {
	return "XRechnung_" + SafeInvoiceNumber(invoiceNumber) + "_" + string(syntax) + ".xml"
}

// ZUGFeRDFilename returns XRechnung_{nr}_ZUGFeRD.pdf.
func ZUGFeRDFilename(invoiceNumber string) string {
	return "XRechnung_" + SafeInvoiceNumber(invoiceNumber) + "_ZUGFeRD.pdf"
}

// PDFFilename returns Rechnung_{nr}.pdf for the visual-only PDF.
func PDFFilename(invoiceNumber string) string {
	return "Rechnung_" + SafeInvoiceNumber(invoiceNumber) + ".pdf"
}

// BundleFilename returns XRechnung_{nr}.zip.
func BundleFilename(invoiceNumber string) string {
	return "XRechnung_" + SafeInvoiceNumber(invoiceNumber) + ".zip"
}

// EmbeddedXMLFilename is the attachment name of the CII inside a ZUGFeRD PDF.
const EmbeddedXMLFilename = "zugferd-invoice.xml"
