package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// NumberLayout is the time layout embedded in invoice numbers.
const NumberLayout = "20060102-150405"

// DateLayout is the default invoice date format.
const DateLayout = "2006-01-02"

var hundred = decimal.NewFromInt(100)

// LineItem represents a product or service line on an invoice.
type LineItem struct {
	Name      string          `json:"name"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// Amount calculates the line total (quantity * unit price).
func (item LineItem) Amount() decimal.Decimal {
	return item.Quantity.Mul(item.UnitPrice)
}

// MarshalJSON writes the derived amount next to the inputs.
func (item LineItem) MarshalJSON() ([]byte, error) {
	type plain LineItem
	return json.Marshal(struct {
		plain
		Amount decimal.Decimal `json:"amount"`
	}{plain(item), item.Amount()})
}

// Invoice is the in-memory invoice built from user input.
// Once generated it is never modified, only deleted.
type Invoice struct {
	Number      string          `json:"invoice_number"`
	ClientName  string          `json:"client_name"`
	InvoiceDate string          `json:"invoice_date"`
	TaxPercent  decimal.Decimal `json:"tax_percent"`
	Items       []LineItem      `json:"items"`
	Notes       string          `json:"notes,omitempty"`
}

// Subtotal sums the line amounts before tax.
func (inv *Invoice) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range inv.Items {
		total = total.Add(item.Amount())
	}
	return total
}

// TaxAmount is subtotal * tax_percent / 100.
func (inv *Invoice) TaxAmount() decimal.Decimal {
	return inv.Subtotal().Mul(inv.TaxPercent).Div(hundred)
}

// Total is the subtotal plus tax.
func (inv *Invoice) Total() decimal.Decimal {
	return inv.Subtotal().Add(inv.TaxAmount())
}

// FileName is the name of the rendered PDF for this invoice.
func (inv *Invoice) FileName() string {
	return FileName(inv.Number)
}

// Record converts the invoice to its persisted row.
func (inv *Invoice) Record() *InvoiceRecord {
	return &InvoiceRecord{
		Number:      inv.Number,
		ClientName:  inv.ClientName,
		InvoiceDate: inv.InvoiceDate,
		Items:       NewItems(inv.Items),
		Total:       inv.Total().InexactFloat64(),
		TaxPercent:  inv.TaxPercent.InexactFloat64(),
		Notes:       inv.Notes,
	}
}

// FileName maps an invoice number to its PDF file name.
func FileName(number string) string {
	return number + ".pdf"
}

// GenerateInvoiceNumber generates the invoice number for a generation time.
// Format: INV-YYYYMMDD-HHMMSS (e.g., INV-20250314-093005)
func GenerateInvoiceNumber(at time.Time) string {
	return "INV-" + at.Format(NumberLayout)
}

// Money formats an amount with exactly two decimals.
func Money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
