package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/xproducts/ordering-api/internal/domains/ordering/domain"
	"github.com/xproducts/ordering-api/internal/domains/ordering/ports"
)

var _ ports.ProductCatalog = (*ProductRepository)(nil)

// Create inserts a new product row.
func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	if r == nil || r.db == nil {
		return errors.New("postgres product repository not configured")
	}
	if product == nil {
		return errors.New("product is nil")
	}
	record := toProductRecord(product)
	record.CreatedAt = time.Now().UTC()
	record.UpdatedAt = record.CreatedAt
	return r.db.WithContext(ctx).Create(&record).Error
}

// GetByID fetches a product by identifier outside any placement transaction.
func (r *ProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("postgres product repository not configured")
	}
	var record productRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrProductNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// Update overwrites the writable columns conditioned on the version token.
func (r *ProductRepository) Update(ctx context.Context, product *domain.Product, expectedVersion int64) error {
	if r == nil || r.db == nil {
		return errors.New("postgres product repository not configured")
	}
	result := r.db.WithContext(ctx).Model(&productRecord{}).
		Where("id = ? AND version = ?", product.ID, expectedVersion).
		Updates(map[string]any{
			"name":           product.Name,
			"description":    product.Description,
			"price_cents":    product.PriceCents,
			"stock_quantity": product.StockQuantity,
			"version":        expectedVersion + 1,
			"updated_at":     gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// Distinguish a vanished row from a lost version check.
		if _, err := r.GetByID(ctx, product.ID); err != nil {
			return err
		}
		return ports.ErrVersionConflict
	}
	product.Version = expectedVersion + 1
	return nil
}

// Delete removes a product row.
func (r *ProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if r == nil || r.db == nil {
		return errors.New("postgres product repository not configured")
	}
	result := r.db.WithContext(ctx).Delete(&productRecord{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrProductNotFound
	}
	return nil
}

func toProductRecord(product *domain.Product) productRecord {
	return productRecord{
		ID:            product.ID,
		Name:          product.Name,
		Description:   product.Description,
		PriceCents:    product.PriceCents,
		StockQuantity: product.StockQuantity,
		Version:       product.Version,
	}
}
