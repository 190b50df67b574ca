package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Items is the text column holding an invoice's line items as a JSON array.
type Items = datatypes.JSONType[[]LineItem]

// NewItems wraps line items for storage.
func NewItems(items []LineItem) Items {
	return datatypes.NewJSONType(items)
}

// InvoiceRecord is the persisted invoice row, keyed by invoice number.
type InvoiceRecord struct {
	Number      string  `gorm:"column:invoice_number;primaryKey" json:"invoice_number"`
	ClientName  string  `gorm:"column:client_name" json:"client_name"`
	InvoiceDate string  `gorm:"column:invoice_date" json:"invoice_date"`
	Items       Items   `gorm:"column:items;type:text" json:"items"`
	Total       float64 `gorm:"column:total" json:"total"`
	TaxPercent  float64 `gorm:"column:tax_percent" json:"tax_percent"`
	Notes       string  `gorm:"column:notes" json:"notes,omitempty"`
}

func (InvoiceRecord) TableName() string { return "invoices" }

// Invoice rebuilds the in-memory invoice from a stored row.
func (r *InvoiceRecord) Invoice() *Invoice {
	return &Invoice{
		Number:      r.Number,
		ClientName:  r.ClientName,
		InvoiceDate: r.InvoiceDate,
		TaxPercent:  decimal.NewFromFloat(r.TaxPercent),
		Items:       r.Items.Data(),
		Notes:       r.Notes,
	}
}

// InvoiceSummary is one row of the invoice history listing.
type InvoiceSummary struct {
	Number      string  `gorm:"column:invoice_number" json:"invoice_number"`
	ClientName  string  `gorm:"column:client_name" json:"client_name"`
	InvoiceDate string  `gorm:"column:invoice_date" json:"invoice_date"`
	Total       float64 `gorm:"column:total" json:"total"`
}
