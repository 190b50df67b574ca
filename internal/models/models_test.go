package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestLineItem_Amount(t *testing.T) {
	tests := []struct {
		name  string
		qty   string
		price string
		want  string
	}{
		{"whole numbers", "2", "5.00", "10"},
		{"fractional quantity", "1.5", "3.30", "4.95"},
		{"zero quantity", "0", "99.99", "0"},
		{"binary-unfriendly", "3", "0.1", "0.3"},
		{"negative price", "2", "-1.25", "-2.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := LineItem{Quantity: dec(tt.qty), UnitPrice: dec(tt.price)}
			if got := item.Amount(); !got.Equal(dec(tt.want)) {
				t.Errorf("Amount() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestLineItem_AmountFollowsEdits(t *testing.T) {
	item := LineItem{Quantity: dec("2"), UnitPrice: dec("5")}
	item.Quantity = dec("3")
	if !item.Amount().Equal(dec("15")) {
		t.Fatalf("Amount() = %s after quantity edit", item.Amount())
	}
	item.UnitPrice = dec("0.5")
	if !item.Amount().Equal(dec("1.5")) {
		t.Fatalf("Amount() = %s after price edit", item.Amount())
	}
}

func TestInvoice_Totals(t *testing.T) {
	inv := &Invoice{
		ClientName: "Acme",
		TaxPercent: dec("10"),
		Items: []LineItem{
			{Name: "Widget", Quantity: dec("2"), UnitPrice: dec("5.00")},
		},
	}

	if got := Money(inv.Subtotal()); got != "10.00" {
		t.Errorf("Subtotal() = %s, want 10.00", got)
	}
	if got := Money(inv.TaxAmount()); got != "1.00" {
		t.Errorf("TaxAmount() = %s, want 1.00", got)
	}
	if got := Money(inv.Total()); got != "11.00" {
		t.Errorf("Total() = %s, want 11.00", got)
	}
}

func TestInvoice_TotalIdentity(t *testing.T) {
	items := []LineItem{
		{Quantity: dec("3"), UnitPrice: dec("19.99")},
		{Quantity: dec("0.25"), UnitPrice: dec("80")},
		{Quantity: dec("7"), UnitPrice: dec("0.01")},
	}
	for _, tax := range []string{"0", "5.5", "10", "20", "33.333"} {
		inv := &Invoice{TaxPercent: dec(tax), Items: items}
		sub := inv.Subtotal()
		want := sub.Add(sub.Mul(dec(tax)).Div(decimal.NewFromInt(100)))
		if !inv.Total().Equal(want) {
			t.Errorf("tax %s: Total() = %s, want %s", tax, inv.Total(), want)
		}
	}
}

func TestInvoice_EmptySubtotal(t *testing.T) {
	inv := &Invoice{TaxPercent: dec("20")}
	if !inv.Total().IsZero() {
		t.Fatalf("expected zero total, got %s", inv.Total())
	}
}

func TestGenerateInvoiceNumber(t *testing.T) {
	at := time.Date(2025, 3, 14, 9, 30, 5, 0, time.UTC)
	if got := GenerateInvoiceNumber(at); got != "INV-20250314-093005" {
		t.Fatalf("GenerateInvoiceNumber() = %s", got)
	}
	if got := FileName("INV-20250314-093005"); got != "INV-20250314-093005.pdf" {
		t.Fatalf("FileName() = %s", got)
	}
}

func TestInvoice_RecordRoundTrip(t *testing.T) {
	inv := &Invoice{
		Number:      "INV-20250314-093005",
		ClientName:  "Acme",
		InvoiceDate: "2025-03-14",
		TaxPercent:  dec("10"),
		Items:       []LineItem{{Name: "Widget", Quantity: dec("2"), UnitPrice: dec("5")}},
		Notes:       "Thanks",
	}
	rec := inv.Record()
	if rec.Total != 11 || rec.TaxPercent != 10 {
		t.Fatalf("unexpected record totals: %+v", rec)
	}
	back := rec.Invoice()
	if back.Number != inv.Number || back.ClientName != "Acme" || len(back.Items) != 1 {
		t.Fatalf("unexpected invoice: %+v", back)
	}
	if !back.Total().Equal(inv.Total()) {
		t.Fatalf("Total() = %s, want %s", back.Total(), inv.Total())
	}
}

func TestLineItem_JSONIncludesAmount(t *testing.T) {
	b, err := json.Marshal(LineItem{Name: "Widget", Quantity: dec("2"), UnitPrice: dec("5")})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), `"amount":"10"`) {
		t.Fatalf("missing amount in %s", b)
	}
	var back LineItem
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatal(err)
	}
	if back.Name != "Widget" || !back.Amount().Equal(dec("10")) {
		t.Fatalf("unexpected item %+v", back)
	}
}
