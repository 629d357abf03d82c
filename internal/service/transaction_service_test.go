package service

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/pos-register/internal/config"
	"github.com/carson-networks/pos-register/internal/operator"
	"github.com/carson-networks/pos-register/internal/record"
	"github.com/carson-networks/pos-register/internal/store"
)

func newTestService(t *testing.T) (*TransactionService, *store.Store) {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	env := &config.Config{
		DataDir:        t.TempDir(),
		TaxRatePercent: decimal.RequireFromString("8.5"),
	}
	st := store.NewStore(env, logger)

	delegator := operator.NewOperatorDelegator(st, 1)
	delegator.Start()
	t.Cleanup(delegator.Stop)

	svc := NewTransactionService(st, delegator, env, logger)
	svc.now = func() time.Time {
		return time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	}
	return svc, st
}

// -- checkout tests --

func TestCheckout_CashWithChange(t *testing.T) {
	svc, st := newTestService(t)

	tx, err := svc.Checkout(context.Background(), CheckoutRequest{
		Items: []CheckoutItem{
			{Name: "Coffee", UnitPrice: decimal.RequireFromString("5.00"), Quantity: 5},
		},
		PaymentMethod: record.PaymentCash,
		AmountPaid:    decimal.RequireFromString("30.00"),
	})

	require.NoError(t, err)
	assert.Equal(t, 1, tx.ID)
	assert.True(t, decimal.RequireFromString("25.00").Equal(tx.Subtotal))
	assert.True(t, decimal.RequireFromString("2.13").Equal(tx.TaxAmount), "2.125 rounds up to 2.13")
	assert.True(t, decimal.RequireFromString("27.13").Equal(tx.TotalDue))
	assert.True(t, decimal.RequireFromString("2.87").Equal(tx.ChangeAmount))

	loaded, err := st.LoadAll()
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.True(t, decimal.RequireFromString("27.13").Equal(loaded[0].TotalDue))
	require.Len(t, loaded[0].LineItems, 1)
	assert.Equal(t, 1, loaded[0].LineItems[0].TransactionID)
}

func TestCheckout_CardMasksNumber(t *testing.T) {
	svc, _ := newTestService(t)

	tx, err := svc.Checkout(context.Background(), CheckoutRequest{
		Items: []CheckoutItem{
			{Name: "Pen Set", UnitPrice: decimal.RequireFromString("5.99"), Quantity: 2},
		},
		PaymentMethod:  record.PaymentCard,
		CardLast4:      "4242",
		CardHolderName: "Dana Smith",
		CardExpiry:     "08/27",
	})

	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("11.98").Equal(tx.Subtotal))
	assert.True(t, decimal.RequireFromString("1.02").Equal(tx.TaxAmount))
	assert.True(t, decimal.RequireFromString("13.00").Equal(tx.TotalDue))
	assert.True(t, tx.AmountPaid.Equal(tx.TotalDue))
	assert.True(t, tx.ChangeAmount.IsZero())
	assert.Equal(t, "****-****-****-4242", tx.MaskedCard)
	assert.Equal(t, "Dana Smith", tx.HolderName)
	assert.Equal(t, "08/27", tx.Expiry)
}

func TestCheckout_CardDefaultsLast4(t *testing.T) {
	svc, _ := newTestService(t)

	tx, err := svc.Checkout(context.Background(), CheckoutRequest{
		Items: []CheckoutItem{
			{Name: "Cap", UnitPrice: decimal.RequireFromString("11.99"), Quantity: 1},
		},
		PaymentMethod: record.PaymentCard,
	})

	require.NoError(t, err)
	assert.Equal(t, "****-****-****-0000", tx.MaskedCard)
}

func TestCheckout_CashExactWhenAmountOmitted(t *testing.T) {
	svc, _ := newTestService(t)

	tx, err := svc.Checkout(context.Background(), CheckoutRequest{
		Items: []CheckoutItem{
			{Name: "Notebook", UnitPrice: decimal.RequireFromString("7.49"), Quantity: 1},
		},
		PaymentMethod: record.PaymentCash,
	})

	require.NoError(t, err)
	assert.True(t, tx.AmountPaid.Equal(tx.TotalDue))
	assert.True(t, tx.ChangeAmount.IsZero())
}

func TestCheckout_InsufficientCashLeavesStoreUnchanged(t *testing.T) {
	svc, st := newTestService(t)

	_, err := svc.Checkout(context.Background(), CheckoutRequest{
		Items: []CheckoutItem{
			{Name: "Coffee", UnitPrice: decimal.RequireFromString("5.00"), Quantity: 5},
		},
		PaymentMethod: record.PaymentCash,
		AmountPaid:    decimal.RequireFromString("20.00"),
	})

	require.ErrorIs(t, err, ErrInsufficientPayment)

	loaded, loadErr := st.LoadAll()
	require.NoError(t, loadErr)
	assert.Empty(t, loaded)

	next, nextErr := st.NextID()
	require.NoError(t, nextErr)
	assert.Equal(t, 1, next)
}

func TestCheckout_DropsNonPositiveQuantities(t *testing.T) {
	svc, _ := newTestService(t)

	tx, err := svc.Checkout(context.Background(), CheckoutRequest{
		Items: []CheckoutItem{
			{Name: "Cap", UnitPrice: decimal.RequireFromString("11.99"), Quantity: 0},
			{Name: "Wallet", UnitPrice: decimal.RequireFromString("17.49"), Quantity: 1},
		},
		PaymentMethod: record.PaymentCard,
	})

	require.NoError(t, err)
	require.Len(t, tx.LineItems, 1)
	assert.Equal(t, "Wallet", tx.LineItems[0].Description)
}

func TestCheckout_EmptyCart(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Checkout(context.Background(), CheckoutRequest{
		PaymentMethod: record.PaymentCash,
	})

	assert.ErrorIs(t, err, ErrEmptyCart)
}

// -- listing and summary tests --

func TestListTransactions_FileOrder(t *testing.T) {
	svc, _ := newTestService(t)

	for i := 0; i < 3; i++ {
		_, err := svc.Checkout(context.Background(), CheckoutRequest{
			Items: []CheckoutItem{
				{Name: "Notebook", UnitPrice: decimal.RequireFromString("7.49"), Quantity: 1},
			},
			PaymentMethod: record.PaymentCard,
		})
		require.NoError(t, err)
	}

	transactions, err := svc.ListTransactions(context.Background())

	require.NoError(t, err)
	require.Len(t, transactions, 3)
	for i, tx := range transactions {
		assert.Equal(t, i+1, tx.ID)
	}
}

func TestSummary_SplitsCashAndCard(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Checkout(context.Background(), CheckoutRequest{
		Items: []CheckoutItem{
			{Name: "Coffee", UnitPrice: decimal.RequireFromString("5.00"), Quantity: 5},
		},
		PaymentMethod: record.PaymentCash,
		AmountPaid:    decimal.RequireFromString("30.00"),
	})
	require.NoError(t, err)

	_, err = svc.Checkout(context.Background(), CheckoutRequest{
		Items: []CheckoutItem{
			{Name: "Pen Set", UnitPrice: decimal.RequireFromString("5.99"), Quantity: 2},
		},
		PaymentMethod: record.PaymentCard,
		CardLast4:     "4242",
	})
	require.NoError(t, err)

	summary, err := svc.Summary(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, summary.Count)
	assert.Equal(t, 1, summary.CashCount)
	assert.Equal(t, 1, summary.CardCount)
	assert.True(t, decimal.RequireFromString("27.13").Equal(summary.CashTotal))
	assert.True(t, decimal.RequireFromString("13.00").Equal(summary.CardTotal))
	assert.True(t, decimal.RequireFromString("40.13").Equal(summary.TotalSales))
	assert.True(t, decimal.RequireFromString("3.15").Equal(summary.TotalTax))
	assert.True(t, decimal.RequireFromString("20.07").Equal(summary.Average))
}

func TestSummary_EmptyStore(t *testing.T) {
	svc, _ := newTestService(t)

	summary, err := svc.Summary(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, summary.Count)
	assert.True(t, summary.TotalSales.IsZero())
}
