package invoice

import (
	"sort"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// TaxGroup aggregates all lines sharing one tax rate.
type TaxGroup struct {
	Rate decimal.Decimal `json:"rate"`
	Base decimal.Decimal `json:"base"`
	Tax  decimal.Decimal `json:"tax"`
}

// Totals is the derived money summary of an invoice. Values are kept at full
// precision; callers round when rendering.
type Totals struct {
	Subtotal  decimal.Decimal `json:"subtotal"`
	TaxGroups []TaxGroup      `json:"taxGroups"`
	TaxAmount decimal.Decimal `json:"taxAmount"`
	Total     decimal.Decimal `json:"total"`
}

// LineNet returns quantity * unitPrice * (1 - discount/100).
func LineNet(it Item) decimal.Decimal {
	gross := it.Quantity.Mul(it.UnitPrice)
	if it.Discount.IsZero() {
		return gross
	}
	return gross.Mul(hundred.Sub(it.Discount)).Div(hundred)
}

// ComputeTotals sums the lines and groups them by exact tax rate, ordered by
// ascending rate. For Kleinunternehmer invoices no tax is charged whatever the
// line rates say.
func ComputeTotals(items []Item, taxType TaxType) Totals {
	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(LineNet(it))
	}

	if taxType == TaxTypeKleinunternehmer {
		return Totals{
			Subtotal:  subtotal,
			TaxGroups: []TaxGroup{},
			TaxAmount: decimal.Zero,
			Total:     subtotal,
		}
	}

	byRate := make(map[string]*TaxGroup)
	for _, it := range items {
		key := it.TaxRate.String()
		g, ok := byRate[key]
		if !ok {
			g = &TaxGroup{Rate: it.TaxRate, Base: decimal.Zero, Tax: decimal.Zero}
			byRate[key] = g
		}
		net := LineNet(it)
		g.Base = g.Base.Add(net)
		g.Tax = g.Tax.Add(net.Mul(it.TaxRate).Div(hundred))
	}

	groups := make([]TaxGroup, 0, len(byRate))
	taxAmount := decimal.Zero
	for _, g := range byRate {
		groups = append(groups, *g)
		taxAmount = taxAmount.Add(g.Tax)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Rate.LessThan(groups[j].Rate) })

	return Totals{
		Subtotal:  subtotal,
		TaxGroups: groups,
		TaxAmount: taxAmount,
		Total:     subtotal.Add(taxAmount),
	}
}

// Totals computes the totals of the invoice.
func (inv *Invoice) Totals() Totals {
	return ComputeTotals(inv.Items, inv.Metadata.TaxType)
}

// Rounded returns a copy with every amount rounded to two decimals. The tax
// amount is rounded once from the full-precision sum; group amounts are
// rounded individually and only describe the breakdown. The total is the
// rounded subtotal plus the rounded tax amount, so the printed figures add up.
func (t Totals) Rounded() Totals {
	out := Totals{
		Subtotal:  t.Subtotal.Round(2),
		TaxGroups: make([]TaxGroup, len(t.TaxGroups)),
		TaxAmount: t.TaxAmount.Round(2),
	}
	for i, g := range t.TaxGroups {
		out.TaxGroups[i] = TaxGroup{Rate: g.Rate, Base: g.Base.Round(2), Tax: g.Tax.Round(2)}
	}
	out.Total = out.Subtotal.Add(out.TaxAmount)
	return out
}
