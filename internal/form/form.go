// Package form turns raw invoice input into a validated models.Invoice.
//
// Quantity and price arrive as free text. Rows that do not parse are kept in
// the form (they display a zero amount) but never reach the invoice.
package form

import (
	"strings"

	"github.com/diewo77/invoicer/internal/models"
	"github.com/shopspring/decimal"
)

// Row is one line of raw product input.
type Row struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Price    string `json:"price"`
}

// Parse converts the row to a line item. ok is false when quantity or price
// is not a number.
func (r Row) Parse() (item models.LineItem, ok bool) {
	q, err := parseNumber(r.Quantity)
	if err != nil {
		return item, false
	}
	p, err := parseNumber(r.Price)
	if err != nil {
		return item, false
	}
	return models.LineItem{Name: strings.TrimSpace(r.Name), Quantity: q, UnitPrice: p}, true
}

// Amount is the display amount for the row, "0.00" when it does not parse.
func (r Row) Amount() string {
	item, ok := r.Parse()
	if !ok {
		return models.Money(decimal.Zero)
	}
	return models.Money(item.Amount())
}

func parseNumber(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.TrimSpace(s))
}

// ParseItems keeps the rows that parse, in order.
func ParseItems(rows []Row) []models.LineItem {
	items := make([]models.LineItem, 0, len(rows))
	for _, r := range rows {
		if item, ok := r.Parse(); ok {
			items = append(items, item)
		}
	}
	return items
}

// Form is the ordered, editable collection of product rows.
// Every quantity or price edit recomputes all amounts and notifies observers.
type Form struct {
	rows      []Row
	observers []func(amounts []string)
}

// New returns a form with one empty row.
func New() *Form {
	f := &Form{}
	f.AddRow()
	return f
}

// AddRow appends an empty row and returns its index.
func (f *Form) AddRow() int {
	f.rows = append(f.rows, Row{})
	return len(f.rows) - 1
}

// OnChange registers fn to receive the recomputed amounts after each edit.
func (f *Form) OnChange(fn func(amounts []string)) {
	f.observers = append(f.observers, fn)
}

func (f *Form) SetName(i int, name string) {
	if f.valid(i) {
		f.rows[i].Name = name
	}
}

func (f *Form) SetQuantity(i int, qty string) {
	if f.valid(i) {
		f.rows[i].Quantity = qty
		f.recompute()
	}
}

func (f *Form) SetPrice(i int, price string) {
	if f.valid(i) {
		f.rows[i].Price = price
		f.recompute()
	}
}

// Rows returns a copy of the current rows.
func (f *Form) Rows() []Row {
	return append([]Row(nil), f.rows...)
}

// Amounts returns the display amount of every row.
func (f *Form) Amounts() []string {
	out := make([]string, len(f.rows))
	for i, r := range f.rows {
		out[i] = r.Amount()
	}
	return out
}

// Items returns the line items of all rows that parse.
func (f *Form) Items() []models.LineItem {
	return ParseItems(f.rows)
}

// Clear resets the form to a single empty row.
func (f *Form) Clear() {
	f.rows = f.rows[:0]
	f.AddRow()
	f.recompute()
}

func (f *Form) valid(i int) bool { return i >= 0 && i < len(f.rows) }

func (f *Form) recompute() {
	amounts := f.Amounts()
	for _, fn := range f.observers {
		fn(amounts)
	}
}
