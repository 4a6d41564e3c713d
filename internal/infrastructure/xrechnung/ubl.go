package xrechnung

import (
	"fmt"
	"strconv"

	"github.com/beevik/etree"

	"github.com/DennisBaerXY/kostenlose-erechnung/internal/domain/invoice"
	"github.com/shopspring/decimal"
)

// UBLBuilder renders an invoice as OASIS UBL 2.1 Invoice.
type UBLBuilder struct{}

// NewUBLBuilder creates the builder.
func NewUBLBuilder() *UBLBuilder {
	return &UBLBuilder{}
}

// Build returns the complete UBL document. Dates stay in YYYY-MM-DD form.
func (b *UBLBuilder) Build(inv *invoice.Invoice) ([]byte, error) {
	if inv == nil {
		return nil, &invoice.GenerationError{Format: string(SyntaxUBL), Err: fmt.Errorf("nil invoice")}
	}
	meta := inv.Metadata
	currency := meta.CurrencyCode()
	totals := inv.Totals().Rounded()
	doc := newDocument()

	root := doc.CreateElement("ubl:Invoice")
	root.CreateAttr("xmlns:ubl", NsUbl)
	root.CreateAttr("xmlns:cac", NsCac)
	root.CreateAttr("xmlns:cbc", NsCbc)

	leaf(root, "cbc:CustomizationID", meta.Customization())
	leaf(root, "cbc:ProfileID", meta.Profile())
	leaf(root, "cbc:ID", meta.InvoiceNumber)
	leaf(root, "cbc:IssueDate", meta.Date)
	optional(root, "cbc:DueDate", meta.DueDate)
	leaf(root, "cbc:InvoiceTypeCode", meta.TypeCode())
	optional(root, "cbc:Note", meta.IntroductionText)
	if meta.IsKleinunternehmer() {
		leaf(root, "cbc:Note", kleinunternehmerNote)
	}
	leaf(root, "cbc:DocumentCurrencyCode", currency)
	leaf(root, "cbc:BuyerReference", firstNonEmpty(inv.Recipient.Reference, buyerReferenceFallback))

	b.writeSupplierParty(root, inv.Sender)
	b.writeCustomerParty(root, inv.Recipient)

	if meta.DeliveryDate != "" {
		leaf(root.CreateElement("cac:Delivery"), "cbc:ActualDeliveryDate", meta.DeliveryDate)
	}

	b.writePaymentMeans(root, inv.Sender.BankDetails)

	// Always present, as in CII, so both syntaxes read back the same terms.
	leaf(root.CreateElement("cac:PaymentTerms"), "cbc:Note", invoice.PaymentTermsText(meta))

	// ── cac:TaxTotal ────────────────────────────────────────────────────────
	taxTotal := root.CreateElement("cac:TaxTotal")
	writeCbcAmount(taxTotal, "cbc:TaxAmount", totals.TaxAmount, currency)
	for _, g := range totals.TaxGroups {
		sub := taxTotal.CreateElement("cac:TaxSubtotal")
		writeCbcAmount(sub, "cbc:TaxableAmount", g.Base, currency)
		writeCbcAmount(sub, "cbc:TaxAmount", g.Tax, currency)
		category := sub.CreateElement("cac:TaxCategory")
		leaf(category, "cbc:ID", CategoryCode(g.Rate))
		leaf(category, "cbc:Percent", g.Rate.String())
		writeTaxScheme(category, "VAT")
	}

	// ── cac:LegalMonetaryTotal ──────────────────────────────────────────────
	monetary := root.CreateElement("cac:LegalMonetaryTotal")
	writeCbcAmount(monetary, "cbc:LineExtensionAmount", totals.Subtotal, currency)
	writeCbcAmount(monetary, "cbc:TaxExclusiveAmount", totals.Subtotal, currency)
	writeCbcAmount(monetary, "cbc:TaxInclusiveAmount", totals.Total, currency)
	writeCbcAmount(monetary, "cbc:PayableAmount", totals.Total, currency)

	for i, it := range inv.Items {
		b.writeInvoiceLine(root, inv, i+1, it, currency)
	}

	return serialize(doc)
}

func writeCbcAmount(parent *etree.Element, tag string, value decimal.Decimal, currency string) {
	leafAttr(parent, tag, formatAmount(value), "currencyID", currency)
}

func writeTaxScheme(parent *etree.Element, id string) {
	leaf(parent.CreateElement("cac:TaxScheme"), "cbc:ID", id)
}

// writeUBLAddress follows the AddressType sequence: StreetName, Department,
// CityName, PostalZone, Country.
func writeUBLAddress(parent *etree.Element, street, department, city, zip, country string) {
	address := parent.CreateElement("cac:PostalAddress")
	optional(address, "cbc:StreetName", street)
	optional(address, "cbc:Department", department)
	optional(address, "cbc:CityName", city)
	optional(address, "cbc:PostalZone", zip)
	leaf(address.CreateElement("cac:Country"), "cbc:IdentificationCode", country)
}

func writeEndpoint(parent *etree.Element, email string) {
	if email == "" {
		return
	}
	leafAttr(parent, "cbc:EndpointID", email, "schemeID", "EM")
}

func (b *UBLBuilder) writeSupplierParty(parent *etree.Element, s invoice.Sender) {
	party := parent.CreateElement("cac:AccountingSupplierParty").CreateElement("cac:Party")
	writeEndpoint(party, s.Email)
	leaf(party.CreateElement("cac:PartyName"), "cbc:Name", s.Name)
	writeUBLAddress(party, s.Street, "", s.City, s.Zip, s.CountryCode())
	if s.TaxID != "" {
		scheme := party.CreateElement("cac:PartyTaxScheme")
		leaf(scheme, "cbc:CompanyID", s.TaxID)
		writeTaxScheme(scheme, "FC")
	}
	if s.UstID != "" {
		scheme := party.CreateElement("cac:PartyTaxScheme")
		leaf(scheme, "cbc:CompanyID", s.UstID)
		writeTaxScheme(scheme, "VAT")
	}
	leaf(party.CreateElement("cac:PartyLegalEntity"), "cbc:RegistrationName", s.Name)
	contact := party.CreateElement("cac:Contact")
	leaf(contact, "cbc:Name", firstNonEmpty(s.ContactName, s.Name))
	optional(contact, "cbc:Telephone", s.Phone)
	optional(contact, "cbc:ElectronicMail", s.Email)
}

func (b *UBLBuilder) writeCustomerParty(parent *etree.Element, r invoice.Recipient) {
	party := parent.CreateElement("cac:AccountingCustomerParty").CreateElement("cac:Party")
	writeEndpoint(party, r.Email)
	leaf(party.CreateElement("cac:PartyName"), "cbc:Name", r.Name)
	writeUBLAddress(party, r.Street, r.Department, r.City, r.Zip, r.CountryCode())
	leaf(party.CreateElement("cac:PartyLegalEntity"), "cbc:RegistrationName", r.Name)
	if r.ContactPerson != "" {
		leaf(party.CreateElement("cac:Contact"), "cbc:Name", r.ContactPerson)
	}
}

func (b *UBLBuilder) writePaymentMeans(parent *etree.Element, bank invoice.BankDetails) {
	means := parent.CreateElement("cac:PaymentMeans")
	if bank.IBAN == "" {
		leaf(means, "cbc:PaymentMeansCode", "1")
		return
	}
	leaf(means, "cbc:PaymentMeansCode", "58")
	account := means.CreateElement("cac:PayeeFinancialAccount")
	leaf(account, "cbc:ID", bank.IBAN)
	optional(account, "cbc:Name", bank.AccountHolder)
	if bank.BIC != "" {
		leaf(account.CreateElement("cac:FinancialInstitutionBranch"), "cbc:ID", bank.BIC)
	}
}

func (b *UBLBuilder) writeInvoiceLine(parent *etree.Element, inv *invoice.Invoice, lineNum int, it invoice.Item, currency string) {
	unitCode := UnitCode(it.Unit)
	rate := lineRate(inv, it)

	line := parent.CreateElement("cac:InvoiceLine")
	leaf(line, "cbc:ID", strconv.Itoa(lineNum))
	leafAttr(line, "cbc:InvoicedQuantity", it.Quantity.String(), "unitCode", unitCode)
	writeCbcAmount(line, "cbc:LineExtensionAmount", invoice.LineNet(it), currency)

	item := line.CreateElement("cac:Item")
	optional(item, "cbc:Description", it.LongDescription)
	leaf(item, "cbc:Name", it.Description)
	if it.ArticleNumber != "" {
		leaf(item.CreateElement("cac:SellersItemIdentification"), "cbc:ID", it.ArticleNumber)
	}
	category := item.CreateElement("cac:ClassifiedTaxCategory")
	leaf(category, "cbc:ID", CategoryCode(rate))
	leaf(category, "cbc:Percent", rate.String())
	writeTaxScheme(category, "VAT")

	price := line.CreateElement("cac:Price")
	leafAttr(price, "cbc:PriceAmount", formatPrice(netUnitPrice(it)), "currencyID", currency)
	leafAttr(price, "cbc:BaseQuantity", "1", "unitCode", unitCode)
	if !it.Discount.IsZero() {
		allowance := price.CreateElement("cac:AllowanceCharge")
		leaf(allowance, "cbc:ChargeIndicator", "false")
		leafAttr(allowance, "cbc:Amount", formatPrice(it.UnitPrice.Sub(netUnitPrice(it))), "currencyID", currency)
		leafAttr(allowance, "cbc:BaseAmount", formatPrice(it.UnitPrice), "currencyID", currency)
	}
}
