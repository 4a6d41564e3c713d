// Package pdf renders the visual invoice and embeds the CII for ZUGFeRD.
//
// Page layout of the classic template (A4):
//
//	┌─────────────────────────────────────────────────────────────┐
//	│                     Sender • Street • Zip City  [Logo]      │
//	│  Sender return line              Rechnungs-Nr. / Datum       │
//	│  RECIPIENT address block         Lieferdatum / Referenz      │
//	│  TITLE + introduction text                                   │
//	│  TABLE: Pos. | Bezeichnung | Menge | Einheit | EP | Gesamt   │
//	│                     Zwischensumme / + n% MwSt. / Gesamtbetrag│
//	│  Closing text, payment terms, GiroCode                       │
//	│  FOOTER: address / bank / tax registration                  │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/extension"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/DennisBaerXY/kostenlose-erechnung/internal/domain/invoice"
)

// TemplateClassic is the default layout.
const TemplateClassic = "classic"

const formatPDF = "PDF"

// ── Palette ───────────────────────────────────────────────────────────────────

var (
	colorText  = &props.Color{Red: 51, Green: 51, Blue: 51}
	colorMuted = &props.Color{Red: 136, Green: 136, Blue: 136}
	colorRule  = &props.Color{Red: 224, Green: 224, Blue: 224}
)

// ── Renderer ──────────────────────────────────────────────────────────────────

type layout func(m core.Maroto, inv *invoice.Invoice) error

var layouts = map[string]layout{
	TemplateClassic: classicLayout,
}

// Templates returns the known template ids in sorted order.
func Templates() []string {
	ids := make([]string, 0, len(layouts))
	for id := range layouts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// HasTemplate reports whether id names a layout. The empty id selects classic.
func HasTemplate(id string) bool {
	_, ok := layouts[nonEmpty(id, TemplateClassic)]
	return ok
}

// MarotoRenderer draws invoices with Maroto v2.
type MarotoRenderer struct{}

// NewMarotoRenderer builds the renderer.
func NewMarotoRenderer() *MarotoRenderer { return &MarotoRenderer{} }

// Render returns the PDF bytes of inv drawn with the given template.
func (r *MarotoRenderer) Render(ctx context.Context, inv *invoice.Invoice, template string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, &invoice.GenerationError{Format: formatPDF, Err: errors.New("nil invoice")}
	}
	draw, ok := layouts[nonEmpty(template, TemplateClassic)]
	if !ok {
		return nil, &invoice.GenerationError{Format: formatPDF, Err: fmt.Errorf("%w: %q", invoice.ErrUnknownTemplate, template)}
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(20).WithRightMargin(20).
		WithTopMargin(12).WithBottomMargin(12).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9, Color: colorText}).
		WithTitle(strings.TrimSpace(inv.Metadata.Title()+" "+inv.Metadata.InvoiceNumber), true).
		WithAuthor(inv.Sender.Name, true).
		Build()

	m := maroto.New(cfg)
	if err := draw(m, inv); err != nil {
		return nil, fmt.Errorf("pdf: layout: %w", err)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generate document: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Classic layout ────────────────────────────────────────────────────────────

func classicLayout(m core.Maroto, inv *invoice.Invoice) error {
	if err := m.RegisterFooter(footerRows(inv.Sender)...); err != nil {
		return err
	}
	totals := inv.Totals().Rounded()
	currency := inv.Metadata.CurrencyCode()

	m.AddRows(senderHeaderRow(inv.Sender))
	m.AddRows(row.New(14))
	m.AddRows(addressRow(inv))
	m.AddRows(row.New(10))
	m.AddRows(titleRows(inv.Metadata)...)

	m.AddRows(tableHeaderRow())
	m.AddRows(line.NewRow(1, props.Line{Color: colorText, Thickness: 0.3}))
	m.AddRows(itemRows(inv.Items, currency)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorRule, Thickness: 0.3}))

	m.AddRows(row.New(4))
	m.AddRows(totalsRows(inv.Metadata, totals, currency)...)
	m.AddRows(row.New(10))
	m.AddRows(closingRows(inv)...)
	return nil
}

// senderHeaderRow: compact sender line (right) and optional logo (left).
func senderHeaderRow(s invoice.Sender) core.Row {
	logoCol := col.New(4)
	if data, ext, ok := decodeLogo(s.Logo); ok {
		logoCol.Add(image.NewFromBytes(data, ext, props.Rect{Percent: 100}))
	}
	return row.New(16).Add(
		logoCol,
		col.New(8).Add(text.New(senderLine(s), props.Text{
			Size: 9, Align: align.Right, Color: colorMuted, Top: 2,
		})),
	)
}

func senderLine(s invoice.Sender) string {
	return joinNonEmpty(" • ", s.Name, s.Street, joinNonEmpty(" ", s.Zip, s.City))
}

// addressRow: recipient block for window envelopes (left) and document data (right).
func addressRow(inv *invoice.Invoice) core.Row {
	r, md := inv.Recipient, inv.Metadata

	left := col.New(7).Add(
		text.New(senderLine(inv.Sender), props.Text{Size: 7, Color: colorMuted}),
		text.New(r.Name, props.Text{Size: 11, Style: fontstyle.Bold, Top: 8}),
	)
	top := 14.0
	for _, l := range []string{r.Department, r.ContactPerson, r.Street, joinNonEmpty(" ", r.Zip, r.City)} {
		if l == "" {
			continue
		}
		left.Add(text.New(l, props.Text{Size: 11, Top: top}))
		top += 5
	}

	meta := [][2]string{
		{"Rechnungs-Nr.:", md.InvoiceNumber},
		{"Datum:", invoice.FormatDateDE(md.Date)},
	}
	if md.DeliveryDate != "" {
		meta = append(meta, [2]string{"Lieferdatum:", invoice.FormatDateDE(md.DeliveryDate)})
	}
	if r.Reference != "" {
		meta = append(meta, [2]string{"Ihre Referenz:", r.Reference})
	}
	if inv.Sender.UstID != "" {
		meta = append(meta, [2]string{"USt-IdNr.:", inv.Sender.UstID})
	}
	labels, values := col.New(2), col.New(3)
	for i, kv := range meta {
		y := 8 + float64(i)*5
		labels.Add(text.New(kv[0], props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right, Top: y}))
		values.Add(text.New(kv[1], props.Text{Size: 9, Align: align.Right, Top: y}))
	}

	return row.New(40).Add(left, labels, values)
}

func titleRows(md invoice.Metadata) []core.Row {
	rows := []core.Row{
		row.New(12).Add(col.New(12).Add(text.New(md.Title(), props.Text{
			Size: 18, Style: fontstyle.Bold,
		}))),
	}
	if md.IntroductionText != "" {
		rows = append(rows, row.New(textHeight(md.IntroductionText, 110)).Add(col.New(12).Add(
			text.New(md.IntroductionText, props.Text{Size: 9}),
		)))
	}
	return append(rows, row.New(6))
}

// tableHeaderRow: column captions of the item table.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Pos.", 1, align.Center),
		h("Bezeichnung", 5, align.Left),
		h("Menge", 1, align.Right),
		h("Einheit", 1, align.Left),
		h("Einzelpreis", 2, align.Right),
		h("Gesamt", 2, align.Right),
	)
}

// itemRows: one row per line; long descriptions and discounts go below the name.
func itemRows(items []invoice.Item, currency string) []core.Row {
	result := make([]core.Row, 0, len(items))
	for i, it := range items {
		desc := it.Description
		if it.LongDescription != "" {
			desc += "\n" + it.LongDescription
		}
		if !it.Discount.IsZero() {
			desc += "\nabzgl. " + FormatRate(it.Discount) + " % Rabatt"
		}
		height := textHeight(desc, 55)

		result = append(result, row.New(height).Add(
			col.New(1).Add(text.New(strconv.Itoa(i+1), props.Text{Size: 9, Align: align.Center, Top: 1})),
			col.New(5).Add(text.New(desc, props.Text{Size: 9, Top: 1, Left: 1})),
			col.New(1).Add(text.New(FormatQuantity(it.Quantity), props.Text{Size: 9, Align: align.Right, Top: 1, Right: 1})),
			col.New(1).Add(text.New(it.Unit, props.Text{Size: 9, Top: 1, Left: 1})),
			col.New(2).Add(text.New(FormatMoney(it.UnitPrice, currency), props.Text{Size: 9, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(FormatMoney(invoice.LineNet(it), currency), props.Text{Size: 9, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

// totalsRows: right-aligned summary block.
func totalsRows(md invoice.Metadata, t invoice.Totals, currency string) []core.Row {
	pair := func(label, value string, size float64, style fontstyle.Type) core.Row {
		return row.New(size/2+2).Add(
			col.New(6),
			col.New(3).Add(text.New(label, props.Text{Size: size, Style: style})),
			col.New(3).Add(text.New(value, props.Text{Size: size, Style: style, Align: align.Right, Right: 1})),
		)
	}

	if md.IsKleinunternehmer() {
		return []core.Row{
			pair("Gesamtbetrag", FormatMoney(t.Total, currency), 11, fontstyle.Bold),
			row.New(8).Add(
				col.New(6),
				col.New(6).Add(text.New("Gemäß § 19 UStG wird keine Umsatzsteuer berechnet.", props.Text{Size: 8, Top: 2})),
			),
		}
	}

	rows := []core.Row{pair("Zwischensumme", FormatMoney(t.Subtotal, currency), 9, fontstyle.Normal)}
	for _, g := range t.TaxGroups {
		rows = append(rows, pair("+ "+FormatRate(g.Rate)+"% MwSt.", FormatMoney(g.Tax, currency), 9, fontstyle.Normal))
	}
	rows = append(rows,
		row.New(2).Add(col.New(6), col.New(6).Add(line.New(props.Line{Color: colorText, Thickness: 0.3}))),
		pair("Gesamtbetrag", FormatMoney(t.Total, currency), 11, fontstyle.Bold),
	)
	return rows
}

// closingRows: closing text, payment terms and the GiroCode when the invoice is SEPA payable.
func closingRows(inv *invoice.Invoice) []core.Row {
	var rows []core.Row
	if inv.Metadata.ClosingText != "" {
		rows = append(rows, row.New(textHeight(inv.Metadata.ClosingText, 110)).Add(col.New(12).Add(
			text.New(inv.Metadata.ClosingText, props.Text{Size: 9}),
		)))
	}
	rows = append(rows, row.New(8).Add(col.New(12).Add(
		text.New(invoice.PaymentTermsText(inv.Metadata), props.Text{Size: 9, Style: fontstyle.Bold, Top: 2}),
	)))

	if payload, ok := GiroCode(inv); ok {
		rows = append(rows, row.New(32).Add(
			col.New(3).Add(code.NewQr(payload, props.Rect{Percent: 90, Top: 2})),
			col.New(9).Add(text.New("Bequem bezahlen: QR-Code mit der Banking-App scannen (GiroCode).", props.Text{
				Size: 8, Color: colorMuted, Top: 12, Left: 2,
			})),
		))
	}
	return rows
}

// footerRows: address, bank and registration data on every page.
func footerRows(s invoice.Sender) []core.Row {
	bank := s.BankDetails
	ci := s.CompanyInfo

	column := func(lines ...string) core.Col {
		c := col.New(4)
		top := 0.0
		for _, l := range lines {
			if strings.TrimSpace(l) == "" {
				continue
			}
			c.Add(text.New(l, props.Text{Size: 7, Color: colorMuted, Top: top}))
			top += 3.5
		}
		return c
	}
	prefixed := func(label, value string) string {
		if value == "" {
			return ""
		}
		return label + value
	}

	return []core.Row{
		line.NewRow(1, props.Line{Color: colorRule, Thickness: 0.3}),
		row.New(18).Add(
			column(
				s.Name,
				joinNonEmpty(", ", s.Street, joinNonEmpty(" ", s.Zip, s.City)),
				prefixed("Telefon: ", s.Phone),
				prefixed("E-Mail: ", s.Email),
			),
			column(
				prefixed("Bank: ", bank.BankName),
				prefixed("Kontoinhaber: ", bank.AccountHolder),
				prefixed("IBAN: ", bank.IBAN),
				prefixed("BIC: ", bank.BIC),
			),
			column(
				prefixed("Steuernummer: ", s.TaxID),
				prefixed("USt-IdNr.: ", s.UstID),
				prefixed("Geschäftsführer: ", ci.ManagingDirector),
				joinNonEmpty(" ", prefixed("", ci.CommercialRegister), prefixed("Amtsgericht ", ci.RegisterCourt)),
			),
		),
	}
}

// ── helpers ───────────────────────────────────────────────────────────────────

// textHeight estimates the row height for text wrapped at roughly perLine characters.
func textHeight(s string, perLine int) float64 {
	lines := 0
	for _, para := range strings.Split(s, "\n") {
		lines += len([]rune(para))/perLine + 1
	}
	return float64(lines)*4.5 + 2
}

// decodeLogo accepts a data URL (data:image/png;base64,...) as sent by the form.
func decodeLogo(logo string) ([]byte, extension.Type, bool) {
	header, payload, found := strings.Cut(logo, ",")
	if !found || !strings.HasPrefix(header, "data:image/") || !strings.HasSuffix(header, ";base64") {
		return nil, "", false
	}
	var ext extension.Type
	switch strings.TrimSuffix(strings.TrimPrefix(header, "data:image/"), ";base64") {
	case "png":
		ext = extension.Png
	case "jpeg", "jpg":
		ext = extension.Jpg
	default:
		return nil, "", false
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil || len(data) == 0 {
		return nil, "", false
	}
	return data, ext, true
}
