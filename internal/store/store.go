// Package store persists invoice records in a single table keyed by invoice number.
// Records are only ever inserted or deleted.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/diewo77/invoicer/internal/models"
	"gorm.io/gorm"
)

var (
	// ErrDuplicate is returned by Insert when the invoice number already exists.
	ErrDuplicate = errors.New("invoice number already exists")
	// ErrNotFound is returned by Get for an unknown invoice number.
	ErrNotFound = errors.New("invoice not found")
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Insert stores a new record. An existing number is never overwritten.
func (s *Store) Insert(ctx context.Context, rec *models.InvoiceRecord) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.InvoiceRecord{}).Where("invoice_number = ?", rec.Number).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicate
		}
		return tx.Create(rec).Error
	})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrDuplicate), errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("insert %s: %w", rec.Number, ErrDuplicate)
	default:
		return fmt.Errorf("insert %s: %w", rec.Number, err)
	}
}

// ListAll returns every invoice, most recent date first. Dates are compared
// as strings, so only YYYY-MM-DD values sort chronologically.
func (s *Store) ListAll(ctx context.Context) ([]models.InvoiceSummary, error) {
	out := []models.InvoiceSummary{}
	err := s.db.WithContext(ctx).
		Model(&models.InvoiceRecord{}).
		Select("invoice_number", "client_name", "invoice_date", "total").
		Order("invoice_date DESC").
		Order("invoice_number DESC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	return out, nil
}

// Get loads the full record for number.
func (s *Store) Get(ctx context.Context, number string) (*models.InvoiceRecord, error) {
	var rec models.InvoiceRecord
	err := s.db.WithContext(ctx).Where("invoice_number = ?", number).Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", number, err)
	}
	return &rec, nil
}

// Delete removes the record for number. Deleting an unknown number is a no-op.
func (s *Store) Delete(ctx context.Context, number string) error {
	err := s.db.WithContext(ctx).Where("invoice_number = ?", number).Delete(&models.InvoiceRecord{}).Error
	if err != nil {
		return fmt.Errorf("delete %s: %w", number, err)
	}
	return nil
}
