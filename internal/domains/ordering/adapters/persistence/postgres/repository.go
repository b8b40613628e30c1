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

var (
	_ ports.ProductStore = (*ProductRepository)(nil)
	_ ports.OrderStore   = (*OrderRepository)(nil)
)

// productRecord maps the product aggregate to a relational table. The version
// column is the optimistic concurrency token checked by UpdateStock.
type productRecord struct {
	ID            uuid.UUID `gorm:"primaryKey;column:id;type:uuid"`
	Name          string    `gorm:"column:name;type:varchar(200)"`
	Description   *string   `gorm:"column:description"`
	PriceCents    int64     `gorm:"column:price_cents"`
	StockQuantity int       `gorm:"column:stock_quantity"`
	Version       int64     `gorm:"column:version"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (productRecord) TableName() string { return "products" }

type orderRecord struct {
	ID         uuid.UUID `gorm:"primaryKey;column:id;type:uuid"`
	TotalCents int64     `gorm:"column:total_cents"`
	CreatedAt  time.Time `gorm:"column:created_at;index"`
}

func (orderRecord) TableName() string { return "orders" }

// orderLineRecord keeps the basket sequence through the position column.
type orderLineRecord struct {
	ID             uuid.UUID `gorm:"primaryKey;column:id;type:uuid"`
	OrderID        uuid.UUID `gorm:"column:order_id;type:uuid;index"`
	Position       int       `gorm:"column:position"`
	ProductID      uuid.UUID `gorm:"column:product_id;type:uuid"`
	Quantity       int       `gorm:"column:quantity"`
	UnitPriceCents int64     `gorm:"column:unit_price_cents"`
}

func (orderLineRecord) TableName() string { return "order_lines" }

// ProductRepository reads and conditionally writes products in PostgreSQL.
type ProductRepository struct {
	db *gorm.DB
}

// NewProductRepository wires a PostgreSQL-backed product store.
func NewProductRepository(db *gorm.DB) *ProductRepository {
	repo := &ProductRepository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&productRecord{})
	}
	return repo
}

// GetByIDs batch-reads products inside the transaction's read view. Missing
// IDs are absent from the result rather than an error.
func (r *ProductRepository) GetByIDs(_ context.Context, tx ports.Tx, ids []uuid.UUID) ([]*domain.Product, error) {
	db, err := txDB(tx)
	if err != nil {
		return nil, err
	}
	var records []productRecord
	if err := db.Where("id IN ?", ids).Find(&records).Error; err != nil {
		return nil, err
	}
	products := make([]*domain.Product, 0, len(records))
	for i := range records {
		products = append(products, records[i].toDomain())
	}
	return products, nil
}

// UpdateStock writes the decremented stock conditioned on the version read
// earlier still being current. Zero affected rows means a concurrent writer
// bumped the version in between, which surfaces as ErrVersionConflict.
func (r *ProductRepository) UpdateStock(_ context.Context, tx ports.Tx, product *domain.Product, expectedVersion int64) error {
	db, err := txDB(tx)
	if err != nil {
		return err
	}
	result := db.Model(&productRecord{}).
		Where("id = ? AND version = ?", product.ID, expectedVersion).
		Updates(map[string]any{
			"stock_quantity": product.StockQuantity,
			"version":        expectedVersion + 1,
			"updated_at":     gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrVersionConflict
	}
	product.Version = expectedVersion + 1
	return nil
}

// OrderRepository appends placed orders and their lines in PostgreSQL.
type OrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository wires a PostgreSQL-backed order store.
func NewOrderRepository(db *gorm.DB) *OrderRepository {
	repo := &OrderRepository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&orderRecord{}, &orderLineRecord{})
	}
	return repo
}

// Insert persists the order header and its lines within the transaction.
func (r *OrderRepository) Insert(_ context.Context, tx ports.Tx, order *domain.Order) error {
	db, err := txDB(tx)
	if err != nil {
		return err
	}
	if order == nil {
		return errors.New("order is nil")
	}
	header := orderRecord{ID: order.ID, TotalCents: order.TotalCents, CreatedAt: order.CreatedAt}
	if err := db.Create(&header).Error; err != nil {
		return err
	}
	lines := make([]orderLineRecord, 0, len(order.Lines))
	for i, line := range order.Lines {
		lines = append(lines, orderLineRecord{
			ID:             line.ID,
			OrderID:        order.ID,
			Position:       i,
			ProductID:      line.ProductID,
			Quantity:       line.Quantity,
			UnitPriceCents: line.UnitPriceCents,
		})
	}
	return db.Create(&lines).Error
}

// GetByID fetches a placed order with its lines in basket sequence.
func (r *OrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("postgres order repository not configured")
	}
	var header orderRecord
	if err := r.db.WithContext(ctx).First(&header, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrOrderNotFound
		}
		return nil, err
	}
	var lines []orderLineRecord
	if err := r.db.WithContext(ctx).Where("order_id = ?", id).Order("position ASC").Find(&lines).Error; err != nil {
		return nil, err
	}
	order := &domain.Order{ID: header.ID, CreatedAt: header.CreatedAt, TotalCents: header.TotalCents}
	for _, line := range lines {
		order.Lines = append(order.Lines, domain.OrderLine{
			ID:             line.ID,
			ProductID:      line.ProductID,
			Quantity:       line.Quantity,
			UnitPriceCents: line.UnitPriceCents,
		})
	}
	return order, nil
}

func (r productRecord) toDomain() *domain.Product {
	return &domain.Product{
		ID:            r.ID,
		Name:          r.Name,
		Description:   r.Description,
		PriceCents:    r.PriceCents,
		StockQuantity: r.StockQuantity,
		Version:       r.Version,
	}
}
