// Package render draws invoices as PDF documents with a fixed A4 template.
package render

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/diewo77/invoicer/internal/models"
	"github.com/phpdave11/gofpdf"
)

// Horizontal offsets in points.
const (
	colProduct = 50.0
	colQty     = 200.0
	colPrice   = 250.0
	colAmount  = 330.0
	colDate    = 300.0
)

// Vertical steps in points, measured from the top edge.
const (
	topMargin   = 40.0
	titleGap    = 30.0
	lineGap     = 20.0
	sectionGap  = 30.0
	rowGap      = 15.0
	noteLineGap = 12.0
)

// PDFRenderer renders invoices with gofpdf.
// Text is placed at fixed coordinates; nothing wraps or paginates, so long
// notes or many items run past the bottom of the page.
type PDFRenderer struct {
	compress bool
	creator  string
}

// ErrExists is returned by RenderFile when the target PDF is already on disk.
var ErrExists = errors.New("invoice PDF already exists")

type Option func(*PDFRenderer)

// WithCompression toggles content stream compression (on by default).
func WithCompression(on bool) Option {
	return func(r *PDFRenderer) { r.compress = on }
}

// WithCreator sets the PDF creator metadata.
func WithCreator(name string) Option {
	return func(r *PDFRenderer) { r.creator = name }
}

func NewPDFRenderer(opts ...Option) *PDFRenderer {
	r := &PDFRenderer{compress: true, creator: "invoicer"}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Render writes the invoice PDF to w.
func (r *PDFRenderer) Render(inv *models.Invoice, w io.Writer) error {
	pdf := r.draw(inv)
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render %s: %w", inv.Number, err)
	}
	return nil
}

// RenderFile writes <dir>/<invoice number>.pdf and returns its path.
// dir must already exist. An existing file is never overwritten: RenderFile
// fails with ErrExists and leaves it untouched.
func (r *PDFRenderer) RenderFile(inv *models.Invoice, dir string) (string, error) {
	path := filepath.Join(dir, inv.FileName())
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("render %s: %w", path, ErrExists)
		}
		return "", fmt.Errorf("render %s: %w", path, err)
	}
	err = r.Render(inv, f)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("render %s: %w", path, cerr)
	}
	if err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

func (r *PDFRenderer) draw(inv *models.Invoice) *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetCompression(r.compress)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle("Invoice "+inv.Number, true)
	pdf.SetCreator(r.creator, true)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	text := func(x, y float64, s string) { pdf.Text(x, y, tr(s)) }

	y := topMargin
	pdf.SetFont("Helvetica", "B", 16)
	text(colProduct, y, "INVOICE")
	y += titleGap

	pdf.SetFont("Helvetica", "", 10)
	text(colProduct, y, "Invoice No: "+inv.Number)
	text(colDate, y, "Date: "+inv.InvoiceDate)
	y += lineGap
	text(colProduct, y, "Client: "+inv.ClientName)
	y += sectionGap

	pdf.SetFont("Helvetica", "B", 10)
	text(colProduct, y, "Product")
	text(colQty, y, "Qty")
	text(colPrice, y, "Price")
	text(colAmount, y, "Amount")
	y += rowGap

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range inv.Items {
		text(colProduct, y, item.Name)
		text(colQty, y, item.Quantity.String())
		text(colPrice, y, models.Money(item.UnitPrice))
		text(colAmount, y, models.Money(item.Amount()))
		y += rowGap
	}

	y += rowGap
	text(colPrice, y, "Subtotal:")
	text(colAmount, y, models.Money(inv.Subtotal()))
	y += rowGap
	text(colPrice, y, fmt.Sprintf("Tax (%s%%):", inv.TaxPercent.String()))
	text(colAmount, y, models.Money(inv.TaxAmount()))
	y += rowGap
	pdf.SetFont("Helvetica", "B", 10)
	text(colPrice, y, "Total:")
	text(colAmount, y, models.Money(inv.Total()))
	y += sectionGap

	if inv.Notes != "" {
		pdf.SetFont("Helvetica", "", 10)
		text(colProduct, y, "Notes:")
		y += rowGap
		for _, line := range strings.Split(inv.Notes, "\n") {
			text(colProduct, y, strings.TrimRight(line, "\r"))
			y += noteLineGap
		}
	}
	return pdf
}
