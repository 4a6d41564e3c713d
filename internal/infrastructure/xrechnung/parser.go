package xrechnung

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"

	"github.com/DennisBaerXY/kostenlose-erechnung/internal/domain/invoice"
)

const (
	msgMalformedXML  = "Ungültiges XML-Format. Bitte prüfen Sie die Datei."
	msgUnknownSyntax = "Rechnungssyntax (UBL oder CII) konnte nicht erkannt werden."
)

// DeclaredTotals are the monetary totals as stated in the document itself.
type DeclaredTotals struct {
	NetTotal      decimal.Decimal `json:"netTotal"`
	TaxTotal      decimal.Decimal `json:"taxTotal"`
	GrossTotal    decimal.Decimal `json:"grossTotal"`
	PayableAmount decimal.Decimal `json:"payableAmount"`
}

// Parsed is the result of reading an XRechnung / ZUGFeRD document.
type Parsed struct {
	Syntax  Syntax           `json:"syntax"`
	Profile string           `json:"profile"`
	Invoice *invoice.Invoice `json:"invoice"`
	Totals  DeclaredTotals   `json:"totals"`
}

// Parser reads CII and UBL documents into the invoice model.
type Parser struct{}

// NewParser creates the parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse detects the syntax and extracts metadata, parties, lines and totals.
// It fails with *invoice.ParseError and never returns a partial invoice.
func (p *Parser) Parse(ctx context.Context, data []byte) (*Parsed, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc, err := readDocument(data)
	if err != nil {
		return nil, &invoice.ParseError{Op: "read", Message: msgMalformedXML, Err: errors.Join(invoice.ErrMalformedXML, err)}
	}
	root := doc.Root()
	syntax, ok := DetectSyntax(root)
	if !ok {
		return nil, &invoice.ParseError{Op: "detect", Message: msgUnknownSyntax, Err: invoice.ErrUnknownSyntax}
	}

	out := &Parsed{Syntax: syntax}
	if syntax == SyntaxCII {
		out.Invoice, out.Totals = parseCII(root)
	} else {
		out.Invoice, out.Totals = parseUBL(root)
	}
	out.Profile = DetectProfile(out.Invoice.Metadata.CustomizationID)
	return out, nil
}

func readDocument(data []byte) (*etree.Document, error) {
	if err := checkWellFormed(data); err != nil {
		return nil, err
	}
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charsetReader
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, err
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("xrechnung: document has no root element")
	}
	return doc, nil
}

// checkWellFormed runs the strict token stream once; the tree reader alone
// accepts documents with unclosed elements.
func checkWellFormed(data []byte) error {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charsetReader
	for {
		_, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// charsetReader decodes the legacy single-byte encodings some ERP exports declare.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "", "utf-8", "utf8":
		return input, nil
	case "iso-8859-1", "latin1", "latin-1", "iso8859-1":
		return charmap.ISO8859_1.NewDecoder().Reader(input), nil
	case "iso-8859-15", "latin9":
		return charmap.ISO8859_15.NewDecoder().Reader(input), nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252.NewDecoder().Reader(input), nil
	default:
		return nil, fmt.Errorf("xrechnung: unsupported charset %q", label)
	}
}

// DetectSyntax checks the namespace-qualified root element.
func DetectSyntax(root *etree.Element) (Syntax, bool) {
	if root == nil {
		return "", false
	}
	switch {
	case root.Tag == rootCII && root.NamespaceURI() == NsRsm:
		return SyntaxCII, true
	case root.Tag == rootUBL && root.NamespaceURI() == NsUbl:
		return SyntaxUBL, true
	}
	return "", false
}

// DetectProfile classifies a customization / guideline identifier.
func DetectProfile(id string) string {
	id = strings.TrimSpace(id)
	lower := strings.ToLower(id)
	switch {
	case id == "":
		return "Unbekanntes Profil"
	case strings.Contains(lower, "xrechnung"):
		return "XRechnung"
	case strings.Contains(lower, "zugferd"):
		upper := strings.ToUpper(id)
		switch {
		case strings.Contains(upper, "BASIC"):
			return "ZUGFeRD BASIC"
		case strings.Contains(upper, "EN16931"):
			return "ZUGFeRD EN 16931"
		case strings.Contains(upper, "EXTENDED"):
			return "ZUGFeRD EXTENDED"
		case strings.Contains(upper, "MINIMUM"):
			return "ZUGFeRD MINIMUM"
		}
		return "ZUGFeRD"
	}
	return "Standard"
}

// ---- path helpers (paths carry no prefixes, so any prefix binding matches)

func find(el *etree.Element, path string) *etree.Element {
	if el == nil {
		return nil
	}
	return el.FindElement(path)
}

func children(el *etree.Element, tag string) []*etree.Element {
	if el == nil {
		return nil
	}
	return el.SelectElements(tag)
}

func text(el *etree.Element, path string) string {
	found := find(el, path)
	if found == nil {
		return ""
	}
	return strings.TrimSpace(found.Text())
}

func number(el *etree.Element, path string) decimal.Decimal {
	s := text(el, path)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func attrOf(el *etree.Element, path, key string) string {
	found := find(el, path)
	if found == nil {
		return ""
	}
	return strings.TrimSpace(found.SelectAttrValue(key, ""))
}

func buyerReference(s string) string {
	if s == buyerReferenceFallback {
		return ""
	}
	return s
}

// discountFromPrices derives the percentage discount between gross and net
// unit price at full precision.
func discountFromPrices(gross, net decimal.Decimal) decimal.Decimal {
	if !gross.IsPositive() || gross.Equal(net) {
		return decimal.Zero
	}
	return gross.Sub(net).Mul(decimal.NewFromInt(100)).Div(gross)
}

// splitNotes separates the free-text introduction from the § 19 UStG note.
func splitNotes(notes []string) (intro string, kleinunternehmer bool) {
	for _, n := range notes {
		if n == kleinunternehmerNote {
			kleinunternehmer = true
			continue
		}
		if intro == "" {
			intro = n
		}
	}
	return intro, kleinunternehmer
}

func taxTypeOf(kleinunternehmer bool) invoice.TaxType {
	if kleinunternehmer {
		return invoice.TaxTypeKleinunternehmer
	}
	return invoice.TaxTypeRegular
}

// ---- CII

func parseCII(root *etree.Element) (*invoice.Invoice, DeclaredTotals) {
	doc := root.FindElement("./ExchangedDocument")
	tx := root.FindElement("./SupplyChainTradeTransaction")
	agreement := find(tx, "./ApplicableHeaderTradeAgreement")
	settlement := find(tx, "./ApplicableHeaderTradeSettlement")

	var notes []string
	for _, note := range children(doc, "IncludedNote") {
		notes = append(notes, text(note, "./Content"))
	}
	intro, ku := splitNotes(notes)

	inv := &invoice.Invoice{
		Metadata: invoice.Metadata{
			InvoiceNumber:      text(doc, "./ID"),
			Date:               ExpandDateCompact(text(doc, "./IssueDateTime/DateTimeString")),
			DeliveryDate:       ExpandDateCompact(text(tx, "./ApplicableHeaderTradeDelivery/ActualDeliverySupplyChainEvent/OccurrenceDateTime/DateTimeString")),
			DueDate:            ExpandDateCompact(text(settlement, "./SpecifiedTradePaymentTerms/DueDateDateTime/DateTimeString")),
			CustomPaymentTerms: text(settlement, "./SpecifiedTradePaymentTerms/Description"),
			IntroductionText:   intro,
			Currency:           firstNonEmpty(text(settlement, "./InvoiceCurrencyCode"), invoice.DefaultCurrency),
			InvoiceTypeCode:    text(doc, "./TypeCode"),
			CustomizationID:    text(root, "./ExchangedDocumentContext/GuidelineSpecifiedDocumentContextParameter/ID"),
			ProfileID:          text(root, "./ExchangedDocumentContext/BusinessProcessSpecifiedDocumentContextParameter/ID"),
			TaxType:            taxTypeOf(ku),
		},
	}
	if inv.Metadata.CustomPaymentTerms != "" {
		inv.Metadata.PaymentTerms = invoice.PaymentCustom
	}

	seller := find(agreement, "./SellerTradeParty")
	inv.Sender = invoice.Sender{
		Name:        text(seller, "./Name"),
		ContactName: text(seller, "./DefinedTradeContact/PersonName"),
		Street:      text(seller, "./PostalTradeAddress/LineOne"),
		Zip:         text(seller, "./PostalTradeAddress/PostcodeCode"),
		City:        text(seller, "./PostalTradeAddress/CityName"),
		Country:     text(seller, "./PostalTradeAddress/CountryID"),
		Phone:       text(seller, "./DefinedTradeContact/TelephoneUniversalCommunication/CompleteNumber"),
		Email: firstNonEmpty(
			text(seller, "./URIUniversalCommunication/URIID"),
			text(seller, "./DefinedTradeContact/EmailURIUniversalCommunication/URIID"),
		),
		TaxID: text(seller, "./SpecifiedTaxRegistration/ID[@schemeID='FC']"),
		UstID: text(seller, "./SpecifiedTaxRegistration/ID[@schemeID='VA']"),
		BankDetails: invoice.BankDetails{
			IBAN:          text(settlement, "./SpecifiedTradeSettlementPaymentMeans/PayeePartyCreditorFinancialAccount/IBANID"),
			AccountHolder: text(settlement, "./SpecifiedTradeSettlementPaymentMeans/PayeePartyCreditorFinancialAccount/AccountName"),
			BIC:           text(settlement, "./SpecifiedTradeSettlementPaymentMeans/PayeeSpecifiedCreditorFinancialInstitution/BICID"),
		},
	}
	if inv.Sender.ContactName == inv.Sender.Name {
		inv.Sender.ContactName = ""
	}

	buyer := find(agreement, "./BuyerTradeParty")
	inv.Recipient = invoice.Recipient{
		Name:          text(buyer, "./Name"),
		Street:        text(buyer, "./PostalTradeAddress/LineOne"),
		Zip:           text(buyer, "./PostalTradeAddress/PostcodeCode"),
		City:          text(buyer, "./PostalTradeAddress/CityName"),
		Country:       text(buyer, "./PostalTradeAddress/CountryID"),
		Email:         text(buyer, "./URIUniversalCommunication/URIID"),
		Reference:     buyerReference(text(agreement, "./BuyerReference")),
		ContactPerson: text(buyer, "./DefinedTradeContact/PersonName"),
		Department:    text(buyer, "./DefinedTradeContact/DepartmentName"),
	}

	inv.Items = []invoice.Item{}
	for _, line := range children(tx, "IncludedSupplyChainTradeLineItem") {
		net := number(line, "./SpecifiedLineTradeAgreement/NetPriceProductTradePrice/ChargeAmount")
		item := invoice.Item{
			ID:              text(line, "./AssociatedDocumentLineDocument/LineID"),
			Description:     text(line, "./SpecifiedTradeProduct/Name"),
			LongDescription: text(line, "./SpecifiedTradeProduct/Description"),
			ArticleNumber:   text(line, "./SpecifiedTradeProduct/SellerAssignedID"),
			Quantity:        number(line, "./SpecifiedLineTradeDelivery/BilledQuantity"),
			Unit:            UnitLabel(attrOf(line, "./SpecifiedLineTradeDelivery/BilledQuantity", "unitCode")),
			UnitPrice:       net,
			TaxRate:         number(line, "./SpecifiedLineTradeSettlement/ApplicableTradeTax/RateApplicablePercent"),
		}
		if gross := number(line, "./SpecifiedLineTradeAgreement/GrossPriceProductTradePrice/ChargeAmount"); gross.IsPositive() {
			item.UnitPrice = gross
			item.Discount = discountFromPrices(gross, net)
		}
		inv.Items = append(inv.Items, item)
	}

	sum := find(settlement, "./SpecifiedTradeSettlementHeaderMonetarySummation")
	totals := DeclaredTotals{
		NetTotal:      number(sum, "./LineTotalAmount"),
		TaxTotal:      number(sum, "./TaxTotalAmount"),
		GrossTotal:    number(sum, "./GrandTotalAmount"),
		PayableAmount: number(sum, "./DuePayableAmount"),
	}
	return inv, totals
}

// ---- UBL

func parseUBL(root *etree.Element) (*invoice.Invoice, DeclaredTotals) {
	var notes []string
	for _, n := range root.SelectElements("Note") {
		notes = append(notes, strings.TrimSpace(n.Text()))
	}
	intro, ku := splitNotes(notes)

	inv := &invoice.Invoice{
		Metadata: invoice.Metadata{
			InvoiceNumber:      text(root, "./ID"),
			Date:               text(root, "./IssueDate"),
			DeliveryDate:       text(root, "./Delivery/ActualDeliveryDate"),
			DueDate:            firstNonEmpty(text(root, "./DueDate"), text(root, "./PaymentMeans/PaymentDueDate")),
			CustomPaymentTerms: text(root, "./PaymentTerms/Note"),
			IntroductionText:   intro,
			Currency:           firstNonEmpty(text(root, "./DocumentCurrencyCode"), invoice.DefaultCurrency),
			InvoiceTypeCode:    text(root, "./InvoiceTypeCode"),
			CustomizationID:    text(root, "./CustomizationID"),
			ProfileID:          text(root, "./ProfileID"),
			TaxType:            taxTypeOf(ku),
		},
	}
	if inv.Metadata.CustomPaymentTerms != "" {
		inv.Metadata.PaymentTerms = invoice.PaymentCustom
	}

	supplier := root.FindElement("./AccountingSupplierParty/Party")
	inv.Sender = invoice.Sender{
		Name:        text(supplier, "./PartyName/Name"),
		ContactName: text(supplier, "./Contact/Name"),
		Street:      text(supplier, "./PostalAddress/StreetName"),
		Zip:         text(supplier, "./PostalAddress/PostalZone"),
		City:        text(supplier, "./PostalAddress/CityName"),
		Country:     text(supplier, "./PostalAddress/Country/IdentificationCode"),
		Phone:       text(supplier, "./Contact/Telephone"),
		Email:       firstNonEmpty(text(supplier, "./EndpointID[@schemeID='EM']"), text(supplier, "./Contact/ElectronicMail")),
		BankDetails: invoice.BankDetails{
			IBAN:          text(root, "./PaymentMeans/PayeeFinancialAccount/ID"),
			AccountHolder: text(root, "./PaymentMeans/PayeeFinancialAccount/Name"),
			BIC:           text(root, "./PaymentMeans/PayeeFinancialAccount/FinancialInstitutionBranch/ID"),
		},
	}
	for _, pts := range children(supplier, "PartyTaxScheme") {
		switch text(pts, "./TaxScheme/ID") {
		case "FC":
			inv.Sender.TaxID = text(pts, "./CompanyID")
		case "VAT":
			inv.Sender.UstID = text(pts, "./CompanyID")
		}
	}
	if inv.Sender.ContactName == inv.Sender.Name {
		inv.Sender.ContactName = ""
	}

	customer := root.FindElement("./AccountingCustomerParty/Party")
	inv.Recipient = invoice.Recipient{
		Name:          text(customer, "./PartyName/Name"),
		Street:        text(customer, "./PostalAddress/StreetName"),
		Zip:           text(customer, "./PostalAddress/PostalZone"),
		City:          text(customer, "./PostalAddress/CityName"),
		Country:       text(customer, "./PostalAddress/Country/IdentificationCode"),
		Email:         text(customer, "./EndpointID[@schemeID='EM']"),
		Reference:     buyerReference(text(root, "./BuyerReference")),
		ContactPerson: text(customer, "./Contact/Name"),
		Department:    text(customer, "./PostalAddress/Department"),
	}
	if inv.Recipient.Name == "" {
		inv.Recipient.Name = text(customer, "./PartyLegalEntity/RegistrationName")
	}

	inv.Items = []invoice.Item{}
	for _, line := range root.SelectElements("InvoiceLine") {
		net := number(line, "./Price/PriceAmount")
		item := invoice.Item{
			ID:              text(line, "./ID"),
			Description:     text(line, "./Item/Name"),
			LongDescription: text(line, "./Item/Description"),
			ArticleNumber:   text(line, "./Item/SellersItemIdentification/ID"),
			Quantity:        number(line, "./InvoicedQuantity"),
			Unit:            UnitLabel(attrOf(line, "./InvoicedQuantity", "unitCode")),
			UnitPrice:       net,
			TaxRate:         number(line, "./Item/ClassifiedTaxCategory/Percent"),
		}
		if gross := number(line, "./Price/AllowanceCharge/BaseAmount"); gross.IsPositive() {
			item.UnitPrice = gross
			item.Discount = discountFromPrices(gross, net)
		}
		inv.Items = append(inv.Items, item)
	}

	total := root.FindElement("./LegalMonetaryTotal")
	totals := DeclaredTotals{
		NetTotal:      number(total, "./LineExtensionAmount"),
		TaxTotal:      number(root, "./TaxTotal/TaxAmount"),
		GrossTotal:    number(total, "./TaxInclusiveAmount"),
		PayableAmount: number(total, "./PayableAmount"),
	}
	return inv, totals
}
