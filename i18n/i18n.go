// Package i18n holds the user-facing message catalogue (fr, en).
package i18n

import (
	"context"
	"fmt"
	"strings"
)

const defaultLang = "fr"

var catalog = map[string]map[string]string{
	"fr": {
		"required":          "Requis",
		"at_least_one":      "Au moins un élément requis",
		"invalid_number":    "Nombre invalide",
		"client_required":   "Le nom du client est requis.",
		"items_required":    "Ajoutez au moins un produit.",
		"tax_invalid":       "Le taux de taxe doit être un nombre.",
		"validation_failed": "Informations manquantes",
		"pdf_not_found":     "Fichier PDF introuvable.",
		"not_found":         "Facture introuvable.",
		"no_selection":      "Sélectionnez une facture.",
		"duplicate":         "Ce numéro de facture existe déjà.",
		"invoice_saved":     "Facture enregistrée sous %s",
		"invoice_deleted":   "Facture %s supprimée.",
		"confirm_delete":    "Supprimer la facture %s ?",
		"delete_cancelled":  "Suppression annulée.",
		"no_invoices":       "Aucune facture.",
		"export_written":    "%d facture(s) exportée(s) vers %s",
	},
	"en": {
		"required":          "Required",
		"at_least_one":      "At least one entry required",
		"invalid_number":    "Invalid number",
		"client_required":   "Client name is required.",
		"items_required":    "Add at least one product.",
		"tax_invalid":       "Tax percent must be a number.",
		"validation_failed": "Missing Info",
		"pdf_not_found":     "PDF file not found.",
		"not_found":         "Invoice not found.",
		"no_selection":      "Select an invoice.",
		"duplicate":         "This invoice number already exists.",
		"invoice_saved":     "Invoice saved as %s",
		"invoice_deleted":   "Invoice %s deleted.",
		"confirm_delete":    "Delete invoice %s?",
		"delete_cancelled":  "Delete cancelled.",
		"no_invoices":       "No invoices.",
		"export_written":    "Exported %d invoice(s) to %s",
	},
}

// T translates code for lang, falling back to French and then to the code itself.
func T(lang, code string) string {
	if m, ok := catalog[strings.ToLower(lang)]; ok {
		if s, ok := m[code]; ok {
			return s
		}
	}
	if s, ok := catalog[defaultLang][code]; ok {
		return s
	}
	return code
}

// Tf translates code and formats it with args.
func Tf(lang, code string, args ...any) string {
	return fmt.Sprintf(T(lang, code), args...)
}

// DetectLanguage picks a supported language from an Accept-Language header.
func DetectLanguage(accept string) string {
	for _, part := range strings.Split(accept, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		base := strings.ToLower(strings.SplitN(tag, "-", 2)[0])
		if _, ok := catalog[base]; ok {
			return base
		}
	}
	return defaultLang
}

type langKey struct{}

// WithLang stores the active language in ctx.
func WithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, langKey{}, lang)
}

// LangFromContext returns the language stored by WithLang, or the default.
func LangFromContext(ctx context.Context) string {
	if l, ok := ctx.Value(langKey{}).(string); ok && l != "" {
		return l
	}
	return defaultLang
}
