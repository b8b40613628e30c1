package postgres

import (
	"context"
	"database/sql"
	"errors"

	"gorm.io/gorm"

	"github.com/xproducts/ordering-api/internal/domains/ordering/ports"
)

var _ ports.TxBeginner = (*TxManager)(nil)

// TxManager begins GORM transactions spanning the product and order tables.
type TxManager struct {
	db *gorm.DB
}

// NewTxManager wires the transaction coordinator. Caller manages DB lifecycle.
func NewTxManager(db *gorm.DB) *TxManager {
	return &TxManager{db: db}
}

func (m *TxManager) Begin(ctx context.Context) (ports.Tx, error) {
	if m == nil || m.db == nil {
		return nil, errors.New("postgres transaction manager not configured")
	}
	tx := m.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &Tx{db: tx}, nil
}

// Tx adapts a *gorm.DB transaction to the ordering Tx port.
type Tx struct {
	db *gorm.DB
}

func (t *Tx) Commit(_ context.Context) error {
	return t.db.Commit().Error
}

func (t *Tx) Rollback(_ context.Context) error {
	err := t.db.Rollback().Error
	// A transaction that already committed or rolled back needs no rollback.
	if errors.Is(err, sql.ErrTxDone) {
		return nil
	}
	return err
}

// txDB unwraps the port handle back into the GORM transaction.
func txDB(tx ports.Tx) (*gorm.DB, error) {
	handle, ok := tx.(*Tx)
	if !ok || handle == nil || handle.db == nil {
		return nil, errors.New("transaction handle is not a postgres transaction")
	}
	return handle.db, nil
}
