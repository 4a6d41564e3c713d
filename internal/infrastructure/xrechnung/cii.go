package xrechnung

import (
	"fmt"
	"strconv"

	"github.com/beevik/etree"

	"github.com/DennisBaerXY/kostenlose-erechnung/internal/domain/invoice"
)

// CIIBuilder renders an invoice as UN/CEFACT Cross Industry Invoice.
type CIIBuilder struct{}

// NewCIIBuilder creates the builder.
func NewCIIBuilder() *CIIBuilder {
	return &CIIBuilder{}
}

// Build returns the complete CII document. The invoice is not modified.
func (b *CIIBuilder) Build(inv *invoice.Invoice) ([]byte, error) {
	if inv == nil {
		return nil, &invoice.GenerationError{Format: string(SyntaxCII), Err: fmt.Errorf("nil invoice")}
	}
	totals := inv.Totals()
	doc := newDocument()

	root := doc.CreateElement("rsm:CrossIndustryInvoice")
	root.CreateAttr("xmlns:rsm", NsRsm)
	root.CreateAttr("xmlns:qdt", NsQdt)
	root.CreateAttr("xmlns:ram", NsRam)
	root.CreateAttr("xmlns:xs", NsXs)
	root.CreateAttr("xmlns:udt", NsUdt)

	// ── rsm:ExchangedDocumentContext ────────────────────────────────────────
	docContext := root.CreateElement("rsm:ExchangedDocumentContext")
	leaf(docContext.CreateElement("ram:BusinessProcessSpecifiedDocumentContextParameter"), "ram:ID", inv.Metadata.Profile())
	leaf(docContext.CreateElement("ram:GuidelineSpecifiedDocumentContextParameter"), "ram:ID", inv.Metadata.Customization())

	// ── rsm:ExchangedDocument ───────────────────────────────────────────────
	exchanged := root.CreateElement("rsm:ExchangedDocument")
	leaf(exchanged, "ram:ID", inv.Metadata.InvoiceNumber)
	leaf(exchanged, "ram:TypeCode", inv.Metadata.TypeCode())
	writeRamDate(exchanged, "ram:IssueDateTime", inv.Metadata.Date)
	writeRamNote(exchanged, inv.Metadata.IntroductionText)
	if inv.Metadata.IsKleinunternehmer() {
		writeRamNote(exchanged, kleinunternehmerNote)
	}

	// ── rsm:SupplyChainTradeTransaction ─────────────────────────────────────
	transaction := root.CreateElement("rsm:SupplyChainTradeTransaction")
	for i, it := range inv.Items {
		b.writeLineItem(transaction, inv, i+1, it)
	}
	b.writeAgreement(transaction, inv)
	delivery := transaction.CreateElement("ram:ApplicableHeaderTradeDelivery")
	if inv.Metadata.DeliveryDate != "" {
		writeRamDate(delivery.CreateElement("ram:ActualDeliverySupplyChainEvent"), "ram:OccurrenceDateTime", inv.Metadata.DeliveryDate)
	}
	b.writeSettlement(transaction, inv, totals)

	return serialize(doc)
}

func writeRamDate(parent *etree.Element, tag, iso string) {
	leafAttr(parent.CreateElement(tag), "udt:DateTimeString", FormatDateCompact(iso), "format", dateFormat102)
}

func writeRamNote(parent *etree.Element, text string) {
	if text == "" {
		return
	}
	leaf(parent.CreateElement("ram:IncludedNote"), "ram:Content", text)
}

func (b *CIIBuilder) writeLineItem(parent *etree.Element, inv *invoice.Invoice, lineNum int, it invoice.Item) {
	rate := lineRate(inv, it)

	line := parent.CreateElement("ram:IncludedSupplyChainTradeLineItem")
	leaf(line.CreateElement("ram:AssociatedDocumentLineDocument"), "ram:LineID", strconv.Itoa(lineNum))

	product := line.CreateElement("ram:SpecifiedTradeProduct")
	optional(product, "ram:SellerAssignedID", it.ArticleNumber)
	leaf(product, "ram:Name", it.Description)
	optional(product, "ram:Description", it.LongDescription)

	agreement := line.CreateElement("ram:SpecifiedLineTradeAgreement")
	if !it.Discount.IsZero() {
		gross := agreement.CreateElement("ram:GrossPriceProductTradePrice")
		leaf(gross, "ram:ChargeAmount", formatPrice(it.UnitPrice))
		allowance := gross.CreateElement("ram:AppliedTradeAllowanceCharge")
		leaf(allowance.CreateElement("ram:ChargeIndicator"), "udt:Indicator", "false")
		leaf(allowance, "ram:ActualAmount", formatPrice(it.UnitPrice.Sub(netUnitPrice(it))))
	}
	leaf(agreement.CreateElement("ram:NetPriceProductTradePrice"), "ram:ChargeAmount", formatPrice(netUnitPrice(it)))

	leafAttr(line.CreateElement("ram:SpecifiedLineTradeDelivery"), "ram:BilledQuantity", it.Quantity.String(), "unitCode", UnitCode(it.Unit))

	settlement := line.CreateElement("ram:SpecifiedLineTradeSettlement")
	tax := settlement.CreateElement("ram:ApplicableTradeTax")
	leaf(tax, "ram:TypeCode", "VAT")
	leaf(tax, "ram:CategoryCode", CategoryCode(rate))
	leaf(tax, "ram:RateApplicablePercent", rate.String())
	leaf(settlement.CreateElement("ram:SpecifiedTradeSettlementLineMonetarySummation"), "ram:LineTotalAmount", formatAmount(invoice.LineNet(it)))
}

func (b *CIIBuilder) writeAgreement(parent *etree.Element, inv *invoice.Invoice) {
	s, r := inv.Sender, inv.Recipient

	agreement := parent.CreateElement("ram:ApplicableHeaderTradeAgreement")
	leaf(agreement, "ram:BuyerReference", firstNonEmpty(r.Reference, buyerReferenceFallback))

	// ── ram:SellerTradeParty ────────────────────────────────────────────────
	seller := agreement.CreateElement("ram:SellerTradeParty")
	leaf(seller, "ram:Name", s.Name)
	contact := seller.CreateElement("ram:DefinedTradeContact")
	leaf(contact, "ram:PersonName", firstNonEmpty(s.ContactName, s.Name))
	if s.Phone != "" {
		leaf(contact.CreateElement("ram:TelephoneUniversalCommunication"), "ram:CompleteNumber", s.Phone)
	}
	if s.Email != "" {
		leaf(contact.CreateElement("ram:EmailURIUniversalCommunication"), "ram:URIID", s.Email)
	}
	writeRamAddress(seller, s.Zip, s.Street, s.City, s.CountryCode())
	writeRamEmailURI(seller, s.Email)
	if s.TaxID != "" {
		leafAttr(seller.CreateElement("ram:SpecifiedTaxRegistration"), "ram:ID", s.TaxID, "schemeID", "FC")
	}
	if s.UstID != "" {
		leafAttr(seller.CreateElement("ram:SpecifiedTaxRegistration"), "ram:ID", s.UstID, "schemeID", "VA")
	}

	// ── ram:BuyerTradeParty ─────────────────────────────────────────────────
	buyer := agreement.CreateElement("ram:BuyerTradeParty")
	leaf(buyer, "ram:Name", r.Name)
	if r.ContactPerson != "" || r.Department != "" {
		contact := buyer.CreateElement("ram:DefinedTradeContact")
		optional(contact, "ram:PersonName", r.ContactPerson)
		optional(contact, "ram:DepartmentName", r.Department)
	}
	writeRamAddress(buyer, r.Zip, r.Street, r.City, r.CountryCode())
	writeRamEmailURI(buyer, r.Email)
}

func writeRamAddress(parent *etree.Element, zip, street, city, country string) {
	address := parent.CreateElement("ram:PostalTradeAddress")
	optional(address, "ram:PostcodeCode", zip)
	optional(address, "ram:LineOne", street)
	optional(address, "ram:CityName", city)
	leaf(address, "ram:CountryID", country)
}

func writeRamEmailURI(parent *etree.Element, email string) {
	if email == "" {
		return
	}
	leafAttr(parent.CreateElement("ram:URIUniversalCommunication"), "ram:URIID", email, "schemeID", "EM")
}

func (b *CIIBuilder) writeSettlement(parent *etree.Element, inv *invoice.Invoice, totals invoice.Totals) {
	currency := inv.Metadata.CurrencyCode()
	bank := inv.Sender.BankDetails
	rounded := totals.Rounded()

	settlement := parent.CreateElement("ram:ApplicableHeaderTradeSettlement")
	leaf(settlement, "ram:InvoiceCurrencyCode", currency)

	// 58 SEPA credit transfer, 1 not defined
	means := settlement.CreateElement("ram:SpecifiedTradeSettlementPaymentMeans")
	if bank.IBAN != "" {
		leaf(means, "ram:TypeCode", "58")
		account := means.CreateElement("ram:PayeePartyCreditorFinancialAccount")
		leaf(account, "ram:IBANID", bank.IBAN)
		optional(account, "ram:AccountName", bank.AccountHolder)
		if bank.BIC != "" {
			leaf(means.CreateElement("ram:PayeeSpecifiedCreditorFinancialInstitution"), "ram:BICID", bank.BIC)
		}
	} else {
		leaf(means, "ram:TypeCode", "1")
	}

	for _, g := range rounded.TaxGroups {
		tax := settlement.CreateElement("ram:ApplicableTradeTax")
		leaf(tax, "ram:CalculatedAmount", formatAmount(g.Tax))
		leaf(tax, "ram:TypeCode", "VAT")
		leaf(tax, "ram:BasisAmount", formatAmount(g.Base))
		leaf(tax, "ram:CategoryCode", CategoryCode(g.Rate))
		leaf(tax, "ram:RateApplicablePercent", g.Rate.String())
	}

	terms := settlement.CreateElement("ram:SpecifiedTradePaymentTerms")
	leaf(terms, "ram:Description", invoice.PaymentTermsText(inv.Metadata))
	if inv.Metadata.DueDate != "" {
		writeRamDate(terms, "ram:DueDateDateTime", inv.Metadata.DueDate)
	}

	summation := settlement.CreateElement("ram:SpecifiedTradeSettlementHeaderMonetarySummation")
	leaf(summation, "ram:LineTotalAmount", formatAmount(rounded.Subtotal))
	leaf(summation, "ram:TaxBasisTotalAmount", formatAmount(rounded.Subtotal))
	leafAttr(summation, "ram:TaxTotalAmount", formatAmount(rounded.TaxAmount), "currencyID", currency)
	leaf(summation, "ram:GrandTotalAmount", formatAmount(rounded.Total))
	leaf(summation, "ram:DuePayableAmount", formatAmount(rounded.Total))
}
