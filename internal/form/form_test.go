package form

import (
	"errors"
	"testing"
	"time"

	"github.com/diewo77/invoicer/internal/models"
)

var now = time.Date(2025, 3, 14, 9, 30, 5, 0, time.UTC)

func TestDraftBuild_Acme(t *testing.T) {
	d := Draft{
		ClientName: "Acme",
		TaxPercent: "10",
		Rows:       []Row{{Name: "Widget", Quantity: "2", Price: "5.00"}},
	}
	inv, err := d.Build(now)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if inv.Number != "INV-20250314-093005" {
		t.Errorf("Number = %s", inv.Number)
	}
	if inv.InvoiceDate != "2025-03-14" {
		t.Errorf("InvoiceDate defaulted to %q", inv.InvoiceDate)
	}
	if got := models.Money(inv.Subtotal()); got != "10.00" {
		t.Errorf("subtotal = %s", got)
	}
	if got := models.Money(inv.TaxAmount()); got != "1.00" {
		t.Errorf("tax = %s", got)
	}
	if got := models.Money(inv.Total()); got != "11.00" {
		t.Errorf("total = %s", got)
	}
}

func TestDraftBuild_SkipsInvalidRows(t *testing.T) {
	d := Draft{
		ClientName: "Acme",
		Rows: []Row{
			{Name: "Broken", Quantity: "1", Price: "abc"},
			{Name: "Valid", Quantity: "1", Price: "3"},
		},
	}
	inv, err := d.Build(now)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(inv.Items) != 1 || inv.Items[0].Name != "Valid" {
		t.Fatalf("unexpected items %+v", inv.Items)
	}
	if got := models.Money(inv.Subtotal()); got != "3.00" {
		t.Fatalf("subtotal = %s, want 3.00", got)
	}
}

func TestDraftBuild_Validation(t *testing.T) {
	valid := []Row{{Name: "Widget", Quantity: "1", Price: "1"}}
	tests := []struct {
		name    string
		draft   Draft
		target  error
		missing error
	}{
		{"blank client", Draft{ClientName: "", Rows: valid}, ErrClientRequired, ErrNoLineItems},
		{"whitespace client", Draft{ClientName: "  \t", Rows: valid}, ErrClientRequired, ErrNoLineItems},
		{"no rows", Draft{ClientName: "Acme"}, ErrNoLineItems, ErrClientRequired},
		{"only garbage rows", Draft{ClientName: "Acme", Rows: []Row{{Quantity: "x", Price: "1"}}}, ErrNoLineItems, ErrClientRequired},
		{"bad tax", Draft{ClientName: "Acme", TaxPercent: "ten", Rows: valid}, ErrInvalidTax, ErrNoLineItems},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv, err := tt.draft.Build(now)
			if inv != nil {
				t.Fatalf("expected no invoice, got %+v", inv)
			}
			if !errors.Is(err, tt.target) {
				t.Fatalf("expected %v, got %v", tt.target, err)
			}
			if errors.Is(err, tt.missing) {
				t.Fatalf("did not expect %v in %v", tt.missing, err)
			}
			var ve *ValidationError
			if !errors.As(err, &ve) || len(ve.Messages()) == 0 {
				t.Fatalf("expected ValidationError with messages, got %v", err)
			}
		})
	}
}

func TestDraftBuild_BothViolations(t *testing.T) {
	_, err := Draft{}.Build(now)
	if !errors.Is(err, ErrClientRequired) || !errors.Is(err, ErrNoLineItems) {
		t.Fatalf("expected both violations, got %v", err)
	}
}

func TestDraftBuild_KeepsDateAndEmptyName(t *testing.T) {
	d := Draft{
		ClientName:  " Acme ",
		InvoiceDate: "14/03/2025",
		Notes:       "  line one\nline two  ",
		Rows:        []Row{{Name: "", Quantity: " 2 ", Price: "1.5"}},
	}
	inv, err := d.Build(now)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if inv.ClientName != "Acme" || inv.InvoiceDate != "14/03/2025" {
		t.Fatalf("unexpected invoice %+v", inv)
	}
	if inv.Notes != "line one\nline two" {
		t.Fatalf("Notes = %q", inv.Notes)
	}
	if inv.Items[0].Name != "" || models.Money(inv.Items[0].Amount()) != "3.00" {
		t.Fatalf("unexpected item %+v", inv.Items[0])
	}
}

func TestForm_LiveAmounts(t *testing.T) {
	f := New()
	second := f.AddRow()

	var calls [][]string
	f.OnChange(func(amounts []string) { calls = append(calls, amounts) })

	f.SetQuantity(0, "2")
	f.SetPrice(0, "5")
	f.SetQuantity(second, "3")
	f.SetPrice(second, "oops")

	if len(calls) != 4 {
		t.Fatalf("expected 4 notifications, got %d", len(calls))
	}
	if calls[0][0] != "0.00" {
		t.Errorf("amount before price set = %s", calls[0][0])
	}
	if calls[1][0] != "10.00" {
		t.Errorf("amount after price set = %s", calls[1][0])
	}
	last := calls[3]
	if last[0] != "10.00" || last[1] != "0.00" {
		t.Errorf("bad row must not affect others: %v", last)
	}

	f.SetPrice(second, "1.25")
	if got := f.Amounts(); got[1] != "3.75" {
		t.Errorf("Amounts() = %v", got)
	}
	if items := f.Items(); len(items) != 2 {
		t.Errorf("Items() = %+v", items)
	}
}

func TestForm_NameDoesNotNotify(t *testing.T) {
	f := New()
	n := 0
	f.OnChange(func([]string) { n++ })
	f.SetName(0, "Widget")
	f.SetQuantity(5, "1")
	if n != 0 {
		t.Fatalf("expected no notification, got %d", n)
	}
	if f.Rows()[0].Name != "Widget" {
		t.Fatalf("name not set")
	}
}

func TestForm_Clear(t *testing.T) {
	f := New()
	f.SetQuantity(0, "1")
	f.AddRow()
	f.Clear()
	rows := f.Rows()
	if len(rows) != 1 || rows[0] != (Row{}) {
		t.Fatalf("Clear() left %+v", rows)
	}
}

func TestParseRow(t *testing.T) {
	r, err := ParseRow("Consulting: phase 1:2:150")
	if err != nil {
		t.Fatal(err)
	}
	if r.Name != "Consulting: phase 1" || r.Quantity != "2" || r.Price != "150" {
		t.Fatalf("unexpected row %+v", r)
	}
	if _, err := ParseRow("Widget:2"); err == nil {
		t.Fatal("expected error for missing price")
	}
}
