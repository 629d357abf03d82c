package store

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/pos-register/internal/config"
	"github.com/carson-networks/pos-register/internal/record"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewStore(&config.Config{DataDir: dir}, logger), dir
}

func cashTransaction(paid string) *record.Transaction {
	return &record.Transaction{
		Timestamp:      time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC),
		Subtotal:       decimal.RequireFromString("25.00"),
		TaxRatePercent: decimal.RequireFromString("8.5"),
		TaxAmount:      decimal.RequireFromString("2.13"),
		TotalDue:       decimal.RequireFromString("27.13"),
		PaymentMethod:  record.PaymentCash,
		AmountPaid:     decimal.RequireFromString(paid),
		ChangeAmount:   decimal.RequireFromString(paid).Sub(decimal.RequireFromString("27.13")),
		LineItems: []record.LineItem{
			{
				Description: "Coffee",
				Quantity:    2,
				UnitPrice:   decimal.RequireFromString("5.00"),
				LineTotal:   decimal.RequireFromString("10.00"),
			},
		},
	}
}

// -- identifier tests --

func TestNextID_EmptyStore(t *testing.T) {
	store, _ := newTestStore(t)

	id, err := store.NextID()

	require.NoError(t, err)
	assert.Equal(t, 1, id)
}

func TestSave_AssignsSequentialIDs(t *testing.T) {
	store, _ := newTestStore(t)

	for want := 1; want <= 3; want++ {
		id, err := store.Save(cashTransaction("30.00"))
		require.NoError(t, err)
		assert.Equal(t, want, id)
	}

	next, err := store.NextID()
	require.NoError(t, err)
	assert.Equal(t, 4, next)
}

func TestNextID_ReseededFromLogAfterRestart(t *testing.T) {
	store, dir := newTestStore(t)

	_, err := store.Save(cashTransaction("30.00"))
	require.NoError(t, err)
	_, err = store.Save(cashTransaction("28.00"))
	require.NoError(t, err)

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	reopened := NewStore(&config.Config{DataDir: dir}, logger)

	next, err := reopened.NextID()
	require.NoError(t, err)
	assert.Equal(t, 3, next)
}

// -- load tests --

func TestLoadAll_EmptyWhenFilesAbsent(t *testing.T) {
	store, _ := newTestStore(t)

	transactions, err := store.LoadAll()

	require.NoError(t, err)
	assert.Empty(t, transactions)
}

func TestLoadAll_JoinsLineItems(t *testing.T) {
	store, _ := newTestStore(t)

	tx := cashTransaction("30.00")
	id, err := store.Save(tx)
	require.NoError(t, err)

	loaded, err := store.LoadAll()
	require.NoError(t, err)
	require.Len(t, loaded, 1)

	got := loaded[0]
	assert.Equal(t, id, got.ID)
	assert.True(t, decimal.RequireFromString("25").Equal(got.Subtotal))
	assert.True(t, decimal.RequireFromString("2.13").Equal(got.TaxAmount))
	assert.True(t, decimal.RequireFromString("27.13").Equal(got.TotalDue))
	assert.True(t, decimal.RequireFromString("30").Equal(got.AmountPaid))
	assert.True(t, decimal.RequireFromString("2.87").Equal(got.ChangeAmount))
	assert.Equal(t, record.PaymentCash, got.PaymentMethod)

	require.Len(t, got.LineItems, 1)
	assert.Equal(t, id, got.LineItems[0].TransactionID)
	assert.Equal(t, "Coffee", got.LineItems[0].Description)
	assert.Equal(t, 2, got.LineItems[0].Quantity)
}

func TestLoadAll_SkipsBadRowsKeepsOrder(t *testing.T) {
	store, dir := newTestStore(t)

	lines := "1|2025-01-02 08:00:00|10|8.5|0.85|10.85|CASH|11|0.15|||\n" +
		"2|truncated\n" +
		"3|2025-01-02 09:00:00|20|8.5|1.70|21.70|CARD|21.70|0|****-****-****-4242|Dana|08/27\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "transactions.txt"), []byte(lines), 0o644))

	loaded, err := store.LoadAll()

	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, 1, loaded[0].ID)
	assert.Equal(t, 3, loaded[1].ID)
	assert.Equal(t, "****-****-****-4242", loaded[1].MaskedCard)
}

func TestLoadAll_Idempotent(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Save(cashTransaction("30.00"))
	require.NoError(t, err)
	_, err = store.Save(cashTransaction("27.13"))
	require.NoError(t, err)

	first, err := store.LoadAll()
	require.NoError(t, err)
	second, err := store.LoadAll()
	require.NoError(t, err)

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
		assert.True(t, first[i].TotalDue.Equal(second[i].TotalDue))
		assert.Equal(t, len(first[i].LineItems), len(second[i].LineItems))
	}
}

// -- failure tests --

func TestSave_PartialPersistSurfaced(t *testing.T) {
	store, dir := newTestStore(t)

	// A directory squatting on the line-item log makes the item append fail
	// after the header is already written.
	require.NoError(t, os.Mkdir(filepath.Join(dir, "line_items.txt"), 0o755))

	_, err := store.Save(cashTransaction("30.00"))

	var partial *PartialPersistError
	require.ErrorAs(t, err, &partial)
	assert.Equal(t, 1, partial.TransactionID)
	assert.Equal(t, 0, partial.ItemsWritten)
	assert.Error(t, partial.Unwrap())

	// The header consumed id 1, so the next save must not reuse it.
	next, err := store.NextID()
	require.NoError(t, err)
	assert.Equal(t, 2, next)
}

func TestSave_EncodeErrorLeavesStoreUnchanged(t *testing.T) {
	store, dir := newTestStore(t)

	bad := cashTransaction("30.00")
	bad.LineItems[0].Description = "Coffee|Large"

	_, err := store.Save(bad)

	require.ErrorIs(t, err, record.ErrFieldContainsDelimiter)
	_, statErr := os.Stat(filepath.Join(dir, "transactions.txt"))
	assert.True(t, os.IsNotExist(statErr))

	next, nextErr := store.NextID()
	require.NoError(t, nextErr)
	assert.Equal(t, 1, next)
}
