package service

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/pos-register/internal/config"
	"github.com/carson-networks/pos-register/internal/operator"
	"github.com/carson-networks/pos-register/internal/operator/actions"
	"github.com/carson-networks/pos-register/internal/record"
	"github.com/carson-networks/pos-register/internal/store"
)

// cardMaskPrefix replaces everything but the last four digits.
const cardMaskPrefix = "****-****-****-"

var (
	ErrEmptyCart           = errors.New("service: no items in cart")
	ErrInsufficientPayment = errors.New("service: insufficient cash payment")
)

// TransactionService handles checkout business logic: totals, tax, payment
// validation, and persistence through the operator queue.
type TransactionService struct {
	store    *store.Store
	operator *operator.OperatorDelegator
	taxRate  decimal.Decimal
	logger   *logrus.Logger
	now      func() time.Time
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(st *store.Store, op *operator.OperatorDelegator, env *config.Config, logger *logrus.Logger) *TransactionService {
	return &TransactionService{
		store:    st,
		operator: op,
		taxRate:  env.TaxRatePercent,
		logger:   logger,
		now:      time.Now,
	}
}

// Checkout builds a transaction from the cart, validates the payment, and
// persists it. All validation happens before any write: a rejected checkout
// leaves the store untouched.
func (s *TransactionService) Checkout(ctx context.Context, req CheckoutRequest) (*record.Transaction, error) {
	var lineItems []record.LineItem
	subtotal := decimal.Zero
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			continue
		}
		lineTotal := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		lineItems = append(lineItems, record.LineItem{
			Description: item.Name,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			LineTotal:   lineTotal,
		})
		subtotal = subtotal.Add(lineTotal)
	}
	if len(lineItems) == 0 {
		return nil, ErrEmptyCart
	}

	// Tax is rounded to cents before the sum so that
	// totalDue == subtotal + taxAmount holds exactly in storage.
	taxAmount := subtotal.Mul(s.taxRate).Div(decimal.NewFromInt(100)).Round(2)
	totalDue := subtotal.Add(taxAmount)

	tx := &record.Transaction{
		Timestamp:      s.now().Truncate(time.Second),
		Subtotal:       subtotal,
		TaxRatePercent: s.taxRate,
		TaxAmount:      taxAmount,
		TotalDue:       totalDue,
		LineItems:      lineItems,
	}

	if req.PaymentMethod == record.PaymentCash {
		tx.PaymentMethod = record.PaymentCash
		amountPaid := req.AmountPaid
		if amountPaid.IsZero() {
			amountPaid = totalDue
		}
		if amountPaid.LessThan(totalDue) {
			return nil, ErrInsufficientPayment
		}
		tx.AmountPaid = amountPaid
		tx.ChangeAmount = amountPaid.Sub(totalDue)
	} else {
		// Anything other than CASH settles as CARD.
		tx.PaymentMethod = record.PaymentCard
		tx.AmountPaid = totalDue
		tx.ChangeAmount = decimal.Zero
		last4 := req.CardLast4
		if last4 == "" {
			last4 = "0000"
		}
		tx.MaskedCard = cardMaskPrefix + last4
		tx.HolderName = req.CardHolderName
		tx.Expiry = req.CardExpiry
	}

	if err := s.operator.Process(ctx, &actions.SaveTransaction{Transaction: tx}); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"transactionID": tx.ID,
		"totalDue":      tx.TotalDue.String(),
		"method":        tx.PaymentMethod,
		"lineItems":     len(tx.LineItems),
	}).Info("TransactionService.Checkout.saved")

	return tx, nil
}

// ListTransactions returns every stored transaction in file order with line
// items joined.
func (s *TransactionService) ListTransactions(ctx context.Context) ([]*record.Transaction, error) {
	return s.store.LoadAll()
}

// Summary aggregates the full log into register totals.
func (s *TransactionService) Summary(ctx context.Context) (*Summary, error) {
	transactions, err := s.store.LoadAll()
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		TotalSales: decimal.Zero,
		TotalTax:   decimal.Zero,
		Average:    decimal.Zero,
		CashTotal:  decimal.Zero,
		CardTotal:  decimal.Zero,
	}
	for _, tx := range transactions {
		summary.Count++
		summary.TotalSales = summary.TotalSales.Add(tx.TotalDue)
		summary.TotalTax = summary.TotalTax.Add(tx.TaxAmount)

		if tx.PaymentMethod == record.PaymentCash {
			summary.CashCount++
			summary.CashTotal = summary.CashTotal.Add(tx.TotalDue)
		} else {
			summary.CardCount++
			summary.CardTotal = summary.CardTotal.Add(tx.TotalDue)
		}
	}
	if summary.Count > 0 {
		summary.Average = summary.TotalSales.Div(decimal.NewFromInt(int64(summary.Count))).Round(2)
	}

	return summary, nil
}
