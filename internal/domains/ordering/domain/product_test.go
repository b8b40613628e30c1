package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	desc := "mechanical, tenkeyless"
	product, err := NewProduct(uuid.New(), "Keyboard", &desc, 12900, 25)
	require.NoError(t, err)
	require.Equal(t, "Keyboard", product.Name)
	require.Equal(t, int64(12900), product.PriceCents)
	require.Equal(t, 25, product.StockQuantity)
	require.Equal(t, int64(1), product.Version)
}

func TestNewProduct_Validation(t *testing.T) {
	tests := []struct {
		name    string
		id      uuid.UUID
		pname   string
		price   int64
		stock   int
		wantErr error
	}{
		{"nil id", uuid.Nil, "Keyboard", 100, 1, ErrInvalidProductID},
		{"empty name", uuid.New(), "", 100, 1, ErrEmptyName},
		{"name too long", uuid.New(), strings.Repeat("x", 201), 100, 1, ErrNameTooLong},
		{"negative price", uuid.New(), "Keyboard", -1, 1, ErrNegativePrice},
		{"negative stock", uuid.New(), "Keyboard", 100, -1, ErrNegativeStock},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewProduct(tt.id, tt.pname, nil, tt.price, tt.stock)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestProduct_DecrementStock(t *testing.T) {
	product, err := NewProduct(uuid.New(), "Keyboard", nil, 100, 5)
	require.NoError(t, err)

	require.NoError(t, product.DecrementStock(3))
	require.Equal(t, 2, product.StockQuantity)

	require.ErrorIs(t, product.DecrementStock(3), ErrStockUnderflow)
	require.Equal(t, 2, product.StockQuantity)

	require.NoError(t, product.DecrementStock(2))
	require.Equal(t, 0, product.StockQuantity)
}
