package migrations

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Run applies the schema for the ordering context.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&productRecord{},
		&orderRecord{},
		&orderLineRecord{},
	)
}

// Product schema mirrors the ordering Postgres adapter. The version column is
// the optimistic concurrency token.
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

// Order schema mirrors the ordering Postgres adapter.
type orderRecord struct {
	ID         uuid.UUID `gorm:"primaryKey;column:id;type:uuid"`
	TotalCents int64     `gorm:"column:total_cents"`
	CreatedAt  time.Time `gorm:"column:created_at;index"`
}

func (orderRecord) TableName() string { return "orders" }

type orderLineRecord struct {
	ID             uuid.UUID `gorm:"primaryKey;column:id;type:uuid"`
	OrderID        uuid.UUID `gorm:"column:order_id;type:uuid;index"`
	Position       int       `gorm:"column:position"`
	ProductID      uuid.UUID `gorm:"column:product_id;type:uuid"`
	Quantity       int       `gorm:"column:quantity"`
	UnitPriceCents int64     `gorm:"column:unit_price_cents"`
}

func (orderLineRecord) TableName() string { return "order_lines" }
