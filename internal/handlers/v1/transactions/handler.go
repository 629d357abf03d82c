package transactions

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/carson-networks/pos-register/internal/logging"
	"github.com/carson-networks/pos-register/internal/minijson"
	"github.com/carson-networks/pos-register/internal/record"
)

// transactionLister is the interface for listing stored transactions.
type transactionLister interface {
	ListTransactions(ctx context.Context) ([]*record.Transaction, error)
}

// Handler serves GET /api/transactions: every stored transaction with its
// line items nested, amounts rounded to cents at the boundary.
type Handler struct {
	TransactionService transactionLister
}

func NewHandler(svc transactionLister) Handler {
	return Handler{TransactionService: svc}
}

func (h *Handler) Handler(w http.ResponseWriter, req *http.Request, logData *logging.LogData) error {
	if req.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return errors.New("transactions: method not GET")
	}

	stopTimer := logData.AddTiming("listTransactionsMs")
	transactions, err := h.TransactionService.ListTransactions(req.Context())
	stopTimer()
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return err
	}

	elements := make([]any, 0, len(transactions))
	for _, tx := range transactions {
		elements = append(elements, transactionToObject(tx))
	}

	body, err := minijson.Encode(elements)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return err
	}

	logData.AddData("transactionCount", len(transactions))

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, err = io.WriteString(w, body)
	return err
}

func transactionToObject(tx *record.Transaction) *minijson.Object {
	obj := minijson.NewObject().
		Set("transactionId", tx.ID).
		Set("date", tx.Timestamp.Format(record.TimeLayout)).
		Set("subtotal", tx.Subtotal.Round(2)).
		Set("taxRatePercent", tx.TaxRatePercent).
		Set("tax", tx.TaxAmount.Round(2)).
		Set("total", tx.TotalDue.Round(2)).
		Set("method", string(tx.PaymentMethod)).
		Set("amountPaid", tx.AmountPaid.Round(2)).
		Set("changeAmount", tx.ChangeAmount.Round(2))

	if tx.MaskedCard != "" {
		obj.Set("maskedCard", tx.MaskedCard).
			Set("cardHolderName", tx.HolderName).
			Set("cardExpiry", tx.Expiry)
	}

	items := make([]any, 0, len(tx.LineItems))
	for i := range tx.LineItems {
		item := &tx.LineItems[i]
		items = append(items, minijson.NewObject().
			Set("description", item.Description).
			Set("quantity", item.Quantity).
			Set("unitPrice", item.UnitPrice.Round(2)).
			Set("lineTotal", item.LineTotal.Round(2)))
	}
	obj.Set("lineItems", items)

	return obj
}
