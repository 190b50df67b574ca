package render

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/diewo77/invoicer/internal/models"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/shopspring/decimal"
)

func init() {
	model.ConfigPath = "disable"
}

func sampleInvoice() *models.Invoice {
	return &models.Invoice{
		Number:      "INV-20250314-093005",
		ClientName:  "Acme",
		InvoiceDate: "2025-03-14",
		TaxPercent:  decimal.NewFromInt(10),
		Items: []models.LineItem{
			{Name: "Widget", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.RequireFromString("5.00")},
			{Name: "Setup", Quantity: decimal.RequireFromString("1.5"), UnitPrice: decimal.NewFromInt(40)},
		},
		Notes: "Payment due in 30 days\nThank you",
	}
}

func TestRenderContainsTemplateText(t *testing.T) {
	var buf bytes.Buffer
	r := NewPDFRenderer(WithCompression(false))
	if err := r.Render(sampleInvoice(), &buf); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "%PDF-") {
		t.Fatalf("output is not a PDF")
	}
	for _, want := range []string{
		"(INVOICE)",
		"(Invoice No: INV-20250314-093005)",
		"(Date: 2025-03-14)",
		"(Client: Acme)",
		"(Product)", "(Qty)", "(Price)", "(Amount)",
		"(Widget)", "(2)", "(5.00)", "(10.00)",
		"(Setup)", "(1.5)", "(40.00)", "(60.00)",
		"(Subtotal:)", "(70.00)",
		`(Tax \(10%\):)`, "(7.00)",
		"(Total:)", "(77.00)",
		"(Notes:)", "(Payment due in 30 days)", "(Thank you)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("PDF missing %s", want)
		}
	}
}

func TestRenderOmitsEmptyNotes(t *testing.T) {
	inv := sampleInvoice()
	inv.Notes = ""
	var buf bytes.Buffer
	if err := NewPDFRenderer(WithCompression(false)).Render(inv, &buf); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.Contains(buf.String(), "(Notes:)") {
		t.Fatal("did not expect a notes section")
	}
}

func TestRenderLongNoteIsNotWrapped(t *testing.T) {
	inv := sampleInvoice()
	inv.Notes = strings.Repeat("x", 400)
	var buf bytes.Buffer
	if err := NewPDFRenderer(WithCompression(false)).Render(inv, &buf); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(buf.String(), "("+inv.Notes+")") {
		t.Fatal("expected the note on a single line")
	}
}

func TestRenderFileWritesValidPDF(t *testing.T) {
	dir := t.TempDir()
	inv := sampleInvoice()
	path, err := NewPDFRenderer().RenderFile(inv, dir)
	if err != nil {
		t.Fatalf("RenderFile: %v", err)
	}
	if path != filepath.Join(dir, "INV-20250314-093005.pdf") {
		t.Fatalf("path = %s", path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("stat: %v", err)
	}
	if err := api.ValidateFile(path, nil); err != nil {
		t.Fatalf("pdfcpu validation: %v", err)
	}
}

func TestRenderManyItemsOverflowsSinglePage(t *testing.T) {
	inv := sampleInvoice()
	for i := 0; i < 80; i++ {
		inv.Items = append(inv.Items, inv.Items[0])
	}
	dir := t.TempDir()
	path, err := NewPDFRenderer().RenderFile(inv, dir)
	if err != nil {
		t.Fatalf("RenderFile: %v", err)
	}
	n, err := api.PageCountFile(path)
	if err != nil {
		t.Fatalf("PageCountFile: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected a single page, got %d", n)
	}
}

func TestRenderFileUnwritableDir(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "does", "not", "exist")
	if _, err := NewPDFRenderer().RenderFile(sampleInvoice(), missing); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestRenderFileKeepsExistingPDF(t *testing.T) {
	dir := t.TempDir()
	inv := sampleInvoice()
	path, err := NewPDFRenderer().RenderFile(inv, dir)
	if err != nil {
		t.Fatalf("RenderFile: %v", err)
	}
	before, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	other := sampleInvoice()
	other.ClientName = "Other"
	if _, err := NewPDFRenderer().RenderFile(other, dir); !errors.Is(err, ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}
	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("existing PDF removed: %v", err)
	}
	if !bytes.Equal(before, after) {
		t.Fatal("existing PDF was modified")
	}
}
