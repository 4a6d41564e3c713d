// Package invoice holds the canonical invoice model used by every other layer:
// totals, validation, draft defaults and JSON decoding. Nothing in this package
// touches XML, PDF or storage.
package invoice

import "github.com/shopspring/decimal"

// TaxType distinguishes regular VAT invoices from the small-business exemption (§ 19 UStG).
type TaxType string

const (
	TaxTypeRegular          TaxType = "REGULAR"
	TaxTypeKleinunternehmer TaxType = "KLEINUNTERNEHMER"
)

// PaymentTerms is the payment condition selected for the invoice.
type PaymentTerms string

const (
	PaymentNet14     PaymentTerms = "net14"
	PaymentNet30     PaymentTerms = "net30"
	PaymentImmediate PaymentTerms = "immediate"
	PaymentCustom    PaymentTerms = "custom"
)

// Unit labels as entered in the invoice form.
const (
	UnitPiece       = "Stück"
	UnitHours       = "Stunden"
	UnitDays        = "Tage"
	UnitLumpSum     = "Pauschal"
	UnitKilometre   = "km"
	UnitKilogram    = "kg"
	UnitSquareMetre = "m²"
	UnitLitre       = "Liter"
	UnitMetre       = "Meter"
)

const (
	DefaultCurrency        = "EUR"
	DefaultInvoiceTypeCode = "380"
	DefaultCountry         = "DE"
	DefaultCustomizationID = "urn:cen.eu:en16931:2017#compliant#urn:xeinkauf.de:kosit:xrechnung_3.0"
	DefaultProfileID       = "urn:fdc:peppol.eu:2017:poacc:billing:01:1.0"
	DefaultDocumentTitle   = "Rechnung"
)

// Invoice is the complete invoice document.
type Invoice struct {
	Sender    Sender    `json:"sender"`
	Recipient Recipient `json:"recipient"`
	Metadata  Metadata  `json:"metadata"`
	Items     []Item    `json:"items"`
}

// BankDetails of the sender, printed on the PDF and used for payment means.
type BankDetails struct {
	AccountHolder string `json:"accountHolder"`
	BankName      string `json:"bankName"`
	IBAN          string `json:"iban"`
	BIC           string `json:"bic"`
}

// CompanyInfo holds register data required on invoices of incorporated companies.
type CompanyInfo struct {
	ManagingDirector   string `json:"managingDirector,omitempty"`
	CommercialRegister string `json:"commercialRegister,omitempty"`
	RegisterCourt      string `json:"registerCourt,omitempty"`
}

// Sender is the issuer of the invoice.
type Sender struct {
	Name        string      `json:"name"`
	ContactName string      `json:"contactName,omitempty"`
	Street      string      `json:"street"`
	Zip         string      `json:"zip"`
	City        string      `json:"city"`
	Country     string      `json:"country,omitempty"`
	Phone       string      `json:"phone,omitempty"`
	Email       string      `json:"email,omitempty"`
	Logo        string      `json:"logo,omitempty"`
	TaxID       string      `json:"taxId"`
	UstID       string      `json:"ustId,omitempty"`
	BankDetails BankDetails `json:"bankDetails"`
	CompanyInfo CompanyInfo `json:"companyInfo"`
}

// CountryCode returns the ISO 3166-1 code, DE when unset.
func (s Sender) CountryCode() string {
	if s.Country == "" {
		return DefaultCountry
	}
	return s.Country
}

// Recipient is the billed party.
type Recipient struct {
	Name          string `json:"name"`
	Street        string `json:"street"`
	Zip           string `json:"zip"`
	City          string `json:"city"`
	Country       string `json:"country,omitempty"`
	Email         string `json:"email,omitempty"`
	Reference     string `json:"reference,omitempty"`
	Department    string `json:"department,omitempty"`
	ContactPerson string `json:"contactPerson,omitempty"`
}

// CountryCode returns the ISO 3166-1 code, DE when unset.
func (r Recipient) CountryCode() string {
	if r.Country == "" {
		return DefaultCountry
	}
	return r.Country
}

// Metadata carries the document header. Dates are ISO YYYY-MM-DD strings.
type Metadata struct {
	InvoiceNumber      string       `json:"invoiceNumber"`
	Date               string       `json:"date"`
	DeliveryDate       string       `json:"deliveryDate,omitempty"`
	DueDate            string       `json:"dueDate,omitempty"`
	PaymentTerms       PaymentTerms `json:"paymentTerms,omitempty"`
	CustomPaymentTerms string       `json:"customPaymentTerms,omitempty"`
	DocumentTitle      string       `json:"documentTitle,omitempty"`
	IntroductionText   string       `json:"introductionText,omitempty"`
	ClosingText        string       `json:"closingText,omitempty"`
	Currency           string       `json:"currency,omitempty"`
	InvoiceTypeCode    string       `json:"invoiceTypeCode,omitempty"`
	CustomizationID    string       `json:"customizationId,omitempty"`
	ProfileID          string       `json:"profileId,omitempty"`
	TaxType            TaxType      `json:"taxType,omitempty"`
}

// CurrencyCode returns the ISO 4217 currency, EUR when unset.
func (m Metadata) CurrencyCode() string {
	if m.Currency == "" {
		return DefaultCurrency
	}
	return m.Currency
}

// TypeCode returns the UNTDID 1001 document type, 380 (commercial invoice) when unset.
func (m Metadata) TypeCode() string {
	if m.InvoiceTypeCode == "" {
		return DefaultInvoiceTypeCode
	}
	return m.InvoiceTypeCode
}

// Customization returns the guideline URN, XRechnung 3.0 when unset.
func (m Metadata) Customization() string {
	if m.CustomizationID == "" {
		return DefaultCustomizationID
	}
	return m.CustomizationID
}

// Profile returns the business process URN, PEPPOL billing when unset.
func (m Metadata) Profile() string {
	if m.ProfileID == "" {
		return DefaultProfileID
	}
	return m.ProfileID
}

// Title returns the document title shown on the PDF.
func (m Metadata) Title() string {
	if m.DocumentTitle == "" {
		return DefaultDocumentTitle
	}
	return m.DocumentTitle
}

// IsKleinunternehmer reports whether the § 19 UStG exemption applies.
func (m Metadata) IsKleinunternehmer() bool {
	return m.TaxType == TaxTypeKleinunternehmer
}

// Item is one invoice line. TaxRate and Discount are percentages.
type Item struct {
	ID              string          `json:"id,omitempty"`
	Description     string          `json:"description"`
	LongDescription string          `json:"longDescription,omitempty"`
	ArticleNumber   string          `json:"articleNumber,omitempty"`
	Quantity        decimal.Decimal `json:"quantity"`
	Unit            string          `json:"unit"`
	UnitPrice       decimal.Decimal `json:"unitPrice"`
	TaxRate         decimal.Decimal `json:"taxRate"`
	Discount        decimal.Decimal `json:"discount"`
}
