package form

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/diewo77/invoicer/internal/models"
	"github.com/diewo77/invoicer/validation"
)

var (
	// ErrClientRequired matches a ValidationError whose client name is blank.
	ErrClientRequired = errors.New("client name is required")
	// ErrNoLineItems matches a ValidationError with no parseable line item.
	ErrNoLineItems = errors.New("at least one valid line item is required")
	// ErrInvalidTax matches a ValidationError whose tax percent is not a number.
	ErrInvalidTax = errors.New("tax percent is not a number")
)

// ValidationError reports why a draft cannot become an invoice.
type ValidationError struct {
	Violations validation.Violations
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, f := range e.Violations.Fields() {
		parts = append(parts, f+": "+e.Violations[f])
	}
	return "invalid invoice: " + strings.Join(parts, ", ")
}

// Is lets callers test for a specific violation with errors.Is.
func (e *ValidationError) Is(target error) bool {
	switch target {
	case ErrClientRequired:
		return e.Violations["client_name"] != ""
	case ErrNoLineItems:
		return e.Violations["items"] != ""
	case ErrInvalidTax:
		return e.Violations["tax_percent"] != ""
	}
	return false
}

// Messages maps each violated field to the i18n code a surface should show.
func (e *ValidationError) Messages() map[string]string {
	out := make(map[string]string, len(e.Violations))
	for f := range e.Violations {
		switch f {
		case "client_name":
			out[f] = "client_required"
		case "items":
			out[f] = "items_required"
		case "tax_percent":
			out[f] = "tax_invalid"
		default:
			out[f] = e.Violations[f]
		}
	}
	return out
}

// Draft is the raw input of the invoice form.
type Draft struct {
	ClientName  string `json:"client_name"`
	InvoiceDate string `json:"invoice_date"`
	TaxPercent  string `json:"tax_percent"`
	Notes       string `json:"notes"`
	Rows        []Row  `json:"items"`
}

// Build validates the draft and returns the invoice it describes, numbered
// from now. Nothing is persisted here.
func (d Draft) Build(now time.Time) (*models.Invoice, error) {
	v := make(validation.Violations)
	client := strings.TrimSpace(d.ClientName)
	validation.Required("client_name", client, v)
	tax := validation.Decimal("tax_percent", d.TaxPercent, v)
	items := ParseItems(d.Rows)
	validation.AtLeastOne("items", len(items), v)
	if !v.Empty() {
		return nil, &ValidationError{Violations: v}
	}

	date := strings.TrimSpace(d.InvoiceDate)
	if date == "" {
		date = now.Format(models.DateLayout)
	}
	return &models.Invoice{
		Number:      models.GenerateInvoiceNumber(now),
		ClientName:  client,
		InvoiceDate: date,
		TaxPercent:  tax,
		Items:       items,
		Notes:       strings.TrimSpace(d.Notes),
	}, nil
}

// ParseRow reads a "name:quantity:price" triple. The name may itself contain
// colons; quantity and price are taken from the last two fields.
func ParseRow(s string) (Row, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 3 {
		return Row{}, fmt.Errorf("item %q: want name:quantity:price", s)
	}
	n := len(parts)
	return Row{
		Name:     strings.Join(parts[:n-2], ":"),
		Quantity: parts[n-2],
		Price:    parts[n-1],
	}, nil
}
