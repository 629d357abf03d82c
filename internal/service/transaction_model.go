package service

import (
	"github.com/shopspring/decimal"

	"github.com/carson-networks/pos-register/internal/record"
)

// CheckoutItem is one cart entry before checkout.
type CheckoutItem struct {
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
}

// CheckoutRequest carries the cart and the settlement details. AmountPaid
// applies to cash (zero means exact payment); the card fields apply to card.
type CheckoutRequest struct {
	Items          []CheckoutItem
	PaymentMethod  record.PaymentMethod
	AmountPaid     decimal.Decimal
	CardLast4      string
	CardHolderName string
	CardExpiry     string
}

// Summary is the register-level aggregate over the whole transaction log.
type Summary struct {
	Count      int
	TotalSales decimal.Decimal
	TotalTax   decimal.Decimal
	Average    decimal.Decimal
	CashCount  int
	CardCount  int
	CashTotal  decimal.Decimal
	CardTotal  decimal.Decimal
}
