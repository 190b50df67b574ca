package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/diewo77/invoicer/internal/export"
	"github.com/diewo77/invoicer/internal/form"
	"github.com/diewo77/invoicer/internal/models"
	"github.com/diewo77/invoicer/internal/render"
	"github.com/diewo77/invoicer/internal/store"
	"github.com/diewo77/invoicer/validation"
	"github.com/rs/zerolog"
)

var (
	// ErrPDFNotFound is returned when an invoice's PDF is missing on disk.
	ErrPDFNotFound = errors.New("invoice PDF not found")
	// ErrNoSelection is returned when an operation needs an invoice number and got none.
	ErrNoSelection = errors.New("no invoice selected")
)

// Store is the persistence the service needs.
type Store interface {
	Insert(ctx context.Context, rec *models.InvoiceRecord) error
	ListAll(ctx context.Context) ([]models.InvoiceSummary, error)
	Get(ctx context.Context, number string) (*models.InvoiceRecord, error)
	Delete(ctx context.Context, number string) error
}

// Renderer writes an invoice PDF into dir and returns its path.
type Renderer interface {
	RenderFile(inv *models.Invoice, dir string) (string, error)
}

// Viewer displays a PDF file.
type Viewer interface {
	Open(ctx context.Context, path string) error
}

// InvoiceService ties the form, renderer and store together.
type InvoiceService struct {
	store    Store
	renderer Renderer
	viewer   Viewer
	dir      string
	now      func() time.Time
	log      zerolog.Logger
}

type Option func(*InvoiceService)

// WithClock replaces time.Now, which drives invoice numbers and default dates.
func WithClock(now func() time.Time) Option {
	return func(s *InvoiceService) { s.now = now }
}

func WithViewer(v Viewer) Option {
	return func(s *InvoiceService) { s.viewer = v }
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *InvoiceService) { s.log = l }
}

// NewInvoiceService creates the service. PDFs live in dir.
func NewInvoiceService(store Store, renderer Renderer, dir string, opts ...Option) *InvoiceService {
	s := &InvoiceService{
		store:    store,
		renderer: renderer,
		dir:      dir,
		now:      time.Now,
		log:      zerolog.Nop(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Dir is the PDF output directory.
func (s *InvoiceService) Dir() string { return s.dir }

// EnsureOutputDir creates the PDF directory if needed.
func (s *InvoiceService) EnsureOutputDir() error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create invoice dir: %w", err)
	}
	return nil
}

// Generate validates the draft, renders its PDF, then stores the record.
// A validation or render failure leaves no trace. The renderer never
// overwrites an existing PDF, so a number already on disk is reported as
// store.ErrDuplicate; if the insert fails, only the PDF rendered by this
// call is removed.
func (s *InvoiceService) Generate(ctx context.Context, d form.Draft) (*models.Invoice, string, error) {
	inv, err := d.Build(s.now())
	if err != nil {
		return nil, "", err
	}
	path, err := s.renderer.RenderFile(inv, s.dir)
	if errors.Is(err, render.ErrExists) {
		return nil, "", fmt.Errorf("generate %s: %w", inv.Number, store.ErrDuplicate)
	}
	if err != nil {
		return nil, "", err
	}
	if err := s.store.Insert(ctx, inv.Record()); err != nil {
		if rmErr := os.Remove(path); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			s.log.Warn().Err(rmErr).Str("path", path).Msg("could not remove orphaned PDF")
		}
		return nil, "", err
	}
	s.log.Info().
		Str("invoice", inv.Number).
		Str("client", inv.ClientName).
		Str("total", models.Money(inv.Total())).
		Msg("invoice generated")
	return inv, path, nil
}

// Preview is the live view of a draft: per-row amounts and running totals.
type Preview struct {
	Amounts   []string `json:"amounts"`
	Subtotal  string   `json:"subtotal"`
	TaxAmount string   `json:"tax_amount"`
	Total     string   `json:"total"`
}

// Preview computes amounts and totals without validating or saving.
// An unparseable tax percent counts as zero.
func (s *InvoiceService) Preview(d form.Draft) Preview {
	inv := models.Invoice{
		TaxPercent: validation.Decimal("tax_percent", d.TaxPercent, validation.Violations{}),
		Items:      form.ParseItems(d.Rows),
	}
	amounts := make([]string, len(d.Rows))
	for i, r := range d.Rows {
		amounts[i] = r.Amount()
	}
	return Preview{
		Amounts:   amounts,
		Subtotal:  models.Money(inv.Subtotal()),
		TaxAmount: models.Money(inv.TaxAmount()),
		Total:     models.Money(inv.Total()),
	}
}

func (s *InvoiceService) List(ctx context.Context) ([]models.InvoiceSummary, error) {
	return s.store.ListAll(ctx)
}

func (s *InvoiceService) Get(ctx context.Context, number string) (*models.Invoice, error) {
	number, err := selected(number)
	if err != nil {
		return nil, err
	}
	rec, err := s.store.Get(ctx, number)
	if err != nil {
		return nil, err
	}
	return rec.Invoice(), nil
}

// PDFPath returns the PDF location for number if the file exists.
func (s *InvoiceService) PDFPath(number string) (string, error) {
	number, err := selected(number)
	if err != nil {
		return "", err
	}
	if number != filepath.Base(number) {
		return "", ErrPDFNotFound
	}
	path := filepath.Join(s.dir, models.FileName(number))
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrPDFNotFound
		}
		return "", err
	}
	return path, nil
}

// View opens the invoice PDF in the external viewer.
func (s *InvoiceService) View(ctx context.Context, number string) error {
	path, err := s.PDFPath(number)
	if err != nil {
		return err
	}
	if s.viewer == nil {
		return fmt.Errorf("no viewer configured for %s", path)
	}
	return s.viewer.Open(ctx, path)
}

// Delete removes the record and then its PDF. The two steps are not atomic:
// a crash in between leaves an orphaned file.
func (s *InvoiceService) Delete(ctx context.Context, number string) error {
	number, err := selected(number)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, number); err != nil {
		return err
	}
	if number == filepath.Base(number) {
		path := filepath.Join(s.dir, models.FileName(number))
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove %s: %w", path, err)
		}
	}
	s.log.Info().Str("invoice", number).Msg("invoice deleted")
	return nil
}

// Export writes the invoice history as an xlsx workbook and returns the row count.
func (s *InvoiceService) Export(ctx context.Context, w io.Writer) (int, error) {
	rows, err := s.store.ListAll(ctx)
	if err != nil {
		return 0, err
	}
	if err := export.WriteXLSX(w, rows); err != nil {
		return 0, fmt.Errorf("export xlsx: %w", err)
	}
	return len(rows), nil
}

// Totals returns display strings for an invoice's subtotal, tax and total.
func Totals(inv *models.Invoice) (subtotal, tax, total string) {
	return models.Money(inv.Subtotal()), models.Money(inv.TaxAmount()), models.Money(inv.Total())
}

func selected(number string) (string, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return "", ErrNoSelection
	}
	return number, nil
}
