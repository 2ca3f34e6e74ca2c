package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medinv/m/domain"
)

func TestRecordSaleDecrementsStock(t *testing.T) {
	db := newTestDB(t)
	inv := NewInventoryStore(db)
	sales := NewSalesStore(db)
	ctx := context.Background()

	userID := createTestUser(t, db, "alice", "alice@pharmacy.com")
	productID, err := inv.Add(ctx, userID, "Paracetamol", "2025-06-30", 20, 92)
	require.NoError(t, err)

	saleID, err := sales.Record(ctx, domain.Sale{
		CustomerName: "Ravi Kumar",
		MobileNumber: "9876543210",
		ProductID:    productID,
		Quantity:     5,
		Amount:       45.50,
		SaleDate:     "2024-01-15",
	})
	require.NoError(t, err)
	require.Greater(t, saleID, int64(0))

	products, err := inv.List(ctx, userID)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, int64(15), products[0].Quantity)

	sale, err := sales.FindByID(ctx, saleID)
	require.NoError(t, err)
	assert.Equal(t, "Ravi Kumar", sale.CustomerName)
	assert.Equal(t, "9876543210", sale.MobileNumber)
	assert.Equal(t, productID, sale.ProductID)
	assert.Equal(t, int64(5), sale.Quantity)
	assert.Equal(t, 45.50, sale.Amount)
	assert.Equal(t, "2024-01-15", sale.SaleDate)
}

func TestRecordSaleRollsBackOnInsufficientStock(t *testing.T) {
	db := newTestDB(t)
	inv := NewInventoryStore(db)
	sales := NewSalesStore(db)
	ctx := context.Background()

	userID := createTestUser(t, db, "alice", "alice@pharmacy.com")
	productID, err := inv.Add(ctx, userID, "Vicks", "2025-05-02", 3, 19.99)
	require.NoError(t, err)

	_, err = sales.Record(ctx, domain.Sale{
		CustomerName: "Ravi Kumar",
		MobileNumber: "9876543210",
		ProductID:    productID,
		Quantity:     5,
		Amount:       99,
		SaleDate:     "2024-01-15",
	})
	assert.ErrorIs(t, err, ErrInsufficientStock)

	// Neither write may survive: no sale row, stock untouched.
	recorded, err := sales.FindByDate(ctx, "2024-01-15")
	require.NoError(t, err)
	assert.Empty(t, recorded)

	products, err := inv.List(ctx, userID)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, int64(3), products[0].Quantity)
}

func TestRecordSaleUnknownProduct(t *testing.T) {
	db := newTestDB(t)
	sales := NewSalesStore(db)

	_, err := sales.Record(context.Background(), domain.Sale{
		CustomerName: "Ravi Kumar",
		MobileNumber: "9876543210",
		ProductID:    9999,
		Quantity:     1,
		Amount:       10,
		SaleDate:     "2024-01-15",
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFindSalesByDate(t *testing.T) {
	db := newTestDB(t)
	inv := NewInventoryStore(db)
	sales := NewSalesStore(db)
	ctx := context.Background()

	userID := createTestUser(t, db, "alice", "alice@pharmacy.com")
	productID, err := inv.Add(ctx, userID, "Candida", "2025-11-21", 50, 64)
	require.NoError(t, err)

	for _, date := range []string{"2024-01-15", "2024-01-15", "2024-01-16"} {
		_, err := sales.Record(ctx, domain.Sale{
			CustomerName: "Ravi Kumar",
			MobileNumber: "9876543210",
			ProductID:    productID,
			Quantity:     2,
			Amount:       20,
			SaleDate:     date,
		})
		require.NoError(t, err)
	}

	onFifteenth, err := sales.FindByDate(ctx, "2024-01-15")
	require.NoError(t, err)
	assert.Len(t, onFifteenth, 2)

	onSeventeenth, err := sales.FindByDate(ctx, "2024-01-17")
	require.NoError(t, err)
	assert.Empty(t, onSeventeenth)
}

func TestFindSaleByIDUnknown(t *testing.T) {
	db := newTestDB(t)
	sales := NewSalesStore(db)

	_, err := sales.FindByID(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolveProductName(t *testing.T) {
	db := newTestDB(t)
	inv := NewInventoryStore(db)
	sales := NewSalesStore(db)
	ctx := context.Background()

	userID := createTestUser(t, db, "alice", "alice@pharmacy.com")
	productID, err := inv.Add(ctx, userID, "Propanol Hydrochloride", "2025-09-10", 12, 61)
	require.NoError(t, err)

	name, err := sales.ProductName(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, "Propanol Hydrochloride", name)

	_, err = sales.ProductName(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}
