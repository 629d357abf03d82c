package record

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod is how a transaction was settled.
type PaymentMethod string

const (
	PaymentCash PaymentMethod = "CASH"
	PaymentCard PaymentMethod = "CARD"
)

// Transaction is one settled sale: the header fields plus the line items
// joined to it by identifier.
type Transaction struct {
	ID             int
	Timestamp      time.Time
	Subtotal       decimal.Decimal
	TaxRatePercent decimal.Decimal
	TaxAmount      decimal.Decimal
	TotalDue       decimal.Decimal
	PaymentMethod  PaymentMethod
	AmountPaid     decimal.Decimal
	ChangeAmount   decimal.Decimal
	MaskedCard     string
	HolderName     string
	Expiry         string
	LineItems      []LineItem
}

// LineItem is one cart row. TransactionID is a join key, not an ownership
// relation: line items live in their own log and are matched on read.
type LineItem struct {
	TransactionID int
	Description   string
	Quantity      int
	UnitPrice     decimal.Decimal
	LineTotal     decimal.Decimal
}
