// Package xrechnung renders invoices as XRechnung / ZUGFeRD XML in the two
// EN 16931 syntaxes (UN/CEFACT CII and OASIS UBL) and reads such documents back.
package xrechnung

// UN/CEFACT Cross Industry Invoice D16B.
const (
	NsRsm = "urn:un:unece:uncefact:data:standard:CrossIndustryInvoice:100"
	NsQdt = "urn:un:unece:uncefact:data:standard:QualifiedDataType:100"
	NsRam = "urn:un:unece:uncefact:data:standard:ReusableAggregateBusinessInformationEntity:100"
	NsXs  = "http://www.w3.org/2001/XMLSchema"
	NsUdt = "urn:un:unece:uncefact:data:standard:UnqualifiedDataType:100"
)

// OASIS UBL 2.1 Invoice.
const (
	NsUbl = "urn:oasis:names:specification:ubl:schema:xsd:Invoice-2"
	NsCac = "urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2"
	NsCbc = "urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2"
)

// Syntax identifies the XML dialect of a document.
type Syntax string

const (
	SyntaxCII Syntax = "CII"
	SyntaxUBL Syntax = "UBL"
)

const (
	rootCII = "CrossIndustryInvoice"
	rootUBL = "Invoice"

	dateFormat102 = "102" // YYYYMMDD
)
