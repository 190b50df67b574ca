package handlers

import (
	"bytes"
	"errors"
	"net/http"
	"strings"

	"github.com/diewo77/invoicer/httpx"
	"github.com/diewo77/invoicer/i18n"
	"github.com/diewo77/invoicer/internal/form"
	"github.com/diewo77/invoicer/internal/models"
	"github.com/diewo77/invoicer/internal/services"
	"github.com/diewo77/invoicer/internal/store"
	"github.com/rs/zerolog"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type InvoiceHandler struct {
	svc *services.InvoiceService
	log zerolog.Logger
}

func NewInvoiceHandler(svc *services.InvoiceService, log zerolog.Logger) *InvoiceHandler {
	return &InvoiceHandler{svc: svc, log: log}
}

// InvoiceResponse is an invoice with its display totals.
type InvoiceResponse struct {
	Invoice   *models.Invoice `json:"invoice"`
	Subtotal  string          `json:"subtotal"`
	TaxAmount string          `json:"tax_amount"`
	Total     string          `json:"total"`
	PDF       string          `json:"pdf"`
}

func newInvoiceResponse(inv *models.Invoice) InvoiceResponse {
	sub, tax, total := services.Totals(inv)
	return InvoiceResponse{
		Invoice:   inv,
		Subtotal:  sub,
		TaxAmount: tax,
		Total:     total,
		PDF:       "/invoices/" + inv.Number + "/pdf",
	}
}

func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *InvoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	d, err := readDraft(r)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "bad_request", err.Error(), nil)
		return
	}
	inv, _, err := h.svc.Generate(r.Context(), d)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Location", "/invoices/"+inv.Number)
	httpx.JSON(w, http.StatusCreated, newInvoiceResponse(inv))
}

// Preview returns live amounts and totals for a draft without saving it.
func (h *InvoiceHandler) Preview(w http.ResponseWriter, r *http.Request) {
	d, err := readDraft(r)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "bad_request", err.Error(), nil)
		return
	}
	httpx.JSON(w, http.StatusOK, h.svc.Preview(d))
}

func (h *InvoiceHandler) View(w http.ResponseWriter, r *http.Request) {
	inv, err := h.svc.Get(r.Context(), r.PathValue("number"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, newInvoiceResponse(inv))
}

func (h *InvoiceHandler) PDF(w http.ResponseWriter, r *http.Request) {
	path, err := h.svc.PDFPath(r.PathValue("number"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	http.ServeFile(w, r, path)
}

func (h *InvoiceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	number := r.PathValue("number")
	if err := h.svc.Delete(r.Context(), number); err != nil {
		h.fail(w, r, err)
		return
	}
	lang := i18n.LangFromContext(r.Context())
	httpx.JSON(w, http.StatusOK, map[string]string{
		"message": i18n.Tf(lang, "invoice_deleted", number),
	})
}

// Export streams the invoice history as an xlsx workbook.
func (h *InvoiceHandler) Export(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if _, err := h.svc.Export(r.Context(), &buf); err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="invoices.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// fail maps service errors to translated JSON responses.
func (h *InvoiceHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	lang := i18n.LangFromContext(r.Context())

	var verr *form.ValidationError
	switch {
	case errors.As(err, &verr):
		details := make(map[string]string, len(verr.Violations))
		for field, code := range verr.Messages() {
			details[field] = i18n.T(lang, code)
		}
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", i18n.T(lang, "validation_failed"), details)
	case errors.Is(err, services.ErrNoSelection):
		httpx.JSONError(w, http.StatusBadRequest, "no_selection", i18n.T(lang, "no_selection"), nil)
	case errors.Is(err, services.ErrPDFNotFound):
		httpx.JSONError(w, http.StatusNotFound, "pdf_not_found", i18n.T(lang, "pdf_not_found"), nil)
	case errors.Is(err, store.ErrNotFound):
		httpx.JSONError(w, http.StatusNotFound, "not_found", i18n.T(lang, "not_found"), nil)
	case errors.Is(err, store.ErrDuplicate):
		httpx.JSONError(w, http.StatusConflict, "duplicate", i18n.T(lang, "duplicate"), nil)
	default:
		h.log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", err.Error(), nil)
	}
}

// readDraft accepts a JSON body or an HTML form with parallel
// item_name / item_quantity / item_price fields.
func readDraft(r *http.Request) (form.Draft, error) {
	var d form.Draft
	if httpx.IsJSON(r) {
		err := httpx.Decode(r, &d)
		return d, err
	}
	if err := r.ParseForm(); err != nil {
		return d, err
	}
	d.ClientName = r.FormValue("client_name")
	d.InvoiceDate = r.FormValue("invoice_date")
	d.TaxPercent = r.FormValue("tax_percent")
	d.Notes = r.FormValue("notes")

	names := r.Form["item_name"]
	qtys := r.Form["item_quantity"]
	prices := r.Form["item_price"]
	for i := range names {
		row := form.Row{Name: names[i]}
		if i < len(qtys) {
			row.Quantity = qtys[i]
		}
		if i < len(prices) {
			row.Price = prices[i]
		}
		if strings.TrimSpace(row.Name+row.Quantity+row.Price) == "" {
			continue
		}
		d.Rows = append(d.Rows, row)
	}
	return d, nil
}
