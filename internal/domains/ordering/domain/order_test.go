package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestNewOrder_TotalIsSumOfSubtotals(t *testing.T) {
	lines := []OrderLine{
		{ID: uuid.New(), ProductID: uuid.New(), Quantity: 2, UnitPriceCents: 1500},
		{ID: uuid.New(), ProductID: uuid.New(), Quantity: 1, UnitPriceCents: 250},
	}
	order, err := NewOrder(uuid.New(), time.Now().UTC(), lines)
	require.NoError(t, err)
	require.Equal(t, int64(2*1500+250), order.TotalCents)
	require.Len(t, order.Lines, 2)
}

func TestNewOrder_Validation(t *testing.T) {
	valid := OrderLine{ID: uuid.New(), ProductID: uuid.New(), Quantity: 1, UnitPriceCents: 100}

	_, err := NewOrder(uuid.New(), time.Now().UTC(), nil)
	require.ErrorIs(t, err, ErrEmptyOrder)

	bad := valid
	bad.ProductID = uuid.Nil
	_, err = NewOrder(uuid.New(), time.Now().UTC(), []OrderLine{bad})
	require.ErrorIs(t, err, ErrInvalidLineProduct)

	bad = valid
	bad.Quantity = 0
	_, err = NewOrder(uuid.New(), time.Now().UTC(), []OrderLine{bad})
	require.ErrorIs(t, err, ErrInvalidQuantity)

	bad = valid
	bad.UnitPriceCents = -1
	_, err = NewOrder(uuid.New(), time.Now().UTC(), []OrderLine{bad})
	require.ErrorIs(t, err, ErrNegativeUnitPrice)
}

func TestOrderLine_SubtotalCents(t *testing.T) {
	line := OrderLine{Quantity: 3, UnitPriceCents: 499}
	require.Equal(t, int64(1497), line.SubtotalCents())
}
