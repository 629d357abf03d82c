// Package record owns the on-disk schema for the two transaction logs: one
// pipe-delimited line per header record and per line item. Fields are written
// without escaping, so no string field may contain the delimiter.
package record

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// Delimiter separates fields within one record line.
	Delimiter = "|"
	// TimeLayout is the stored timestamp format: seconds precision, no zone.
	TimeLayout = "2006-01-02 15:04:05"

	// A header row carries 12 fields, but the trailing three card fields are
	// optional; rows written before card support had only 9.
	headerMinFields   = 9
	lineItemMinFields = 5
)

var (
	ErrTruncatedRecord        = errors.New("record: truncated record")
	ErrMalformedNumber        = errors.New("record: malformed number")
	ErrMalformedTimestamp     = errors.New("record: malformed timestamp")
	ErrFieldContainsDelimiter = errors.New("record: field contains delimiter")
)

// EncodeHeader renders a transaction header as one log line. Field order is
// fixed: id, timestamp, subtotal, taxRatePercent, taxAmount, totalDue,
// paymentMethod, amountPaid, changeAmount, maskedCard, holderName, expiry.
func EncodeHeader(tx *Transaction) (string, error) {
	if err := checkDelimiterFree(map[string]string{
		"paymentMethod": string(tx.PaymentMethod),
		"maskedCard":    tx.MaskedCard,
		"holderName":    tx.HolderName,
		"expiry":        tx.Expiry,
	}); err != nil {
		return "", err
	}

	fields := []string{
		strconv.Itoa(tx.ID),
		tx.Timestamp.Format(TimeLayout),
		tx.Subtotal.String(),
		tx.TaxRatePercent.String(),
		tx.TaxAmount.String(),
		tx.TotalDue.String(),
		string(tx.PaymentMethod),
		tx.AmountPaid.String(),
		tx.ChangeAmount.String(),
		tx.MaskedCard,
		tx.HolderName,
		tx.Expiry,
	}
	return strings.Join(fields, Delimiter), nil
}

// DecodeHeader parses one transaction log line. The three card fields are
// optional trailing fields, defaulted to empty when missing. Line items are
// not part of the header and are left nil for the caller to join.
func DecodeHeader(line string) (*Transaction, error) {
	parts := strings.Split(line, Delimiter)
	if len(parts) < headerMinFields {
		return nil, fmt.Errorf("%w: header has %d of %d fields", ErrTruncatedRecord, len(parts), headerMinFields)
	}

	id, err := parseInt("id", parts[0])
	if err != nil {
		return nil, err
	}
	timestamp, err := time.Parse(TimeLayout, parts[1])
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrMalformedTimestamp, parts[1])
	}
	subtotal, err := parseDecimal("subtotal", parts[2])
	if err != nil {
		return nil, err
	}
	taxRate, err := parseDecimal("taxRatePercent", parts[3])
	if err != nil {
		return nil, err
	}
	taxAmount, err := parseDecimal("taxAmount", parts[4])
	if err != nil {
		return nil, err
	}
	totalDue, err := parseDecimal("totalDue", parts[5])
	if err != nil {
		return nil, err
	}
	amountPaid, err := parseDecimal("amountPaid", parts[7])
	if err != nil {
		return nil, err
	}
	changeAmount, err := parseDecimal("changeAmount", parts[8])
	if err != nil {
		return nil, err
	}

	tx := &Transaction{
		ID:             id,
		Timestamp:      timestamp,
		Subtotal:       subtotal,
		TaxRatePercent: taxRate,
		TaxAmount:      taxAmount,
		TotalDue:       totalDue,
		PaymentMethod:  PaymentMethod(parts[6]),
		AmountPaid:     amountPaid,
		ChangeAmount:   changeAmount,
	}

	if len(parts) > 9 {
		tx.MaskedCard = parts[9]
	}
	if len(parts) > 10 {
		tx.HolderName = parts[10]
	}
	if len(parts) > 11 {
		tx.Expiry = parts[11]
	}

	return tx, nil
}

// EncodeLineItem renders a line item as one log line: transactionId,
// description, quantity, unitPrice, lineTotal.
func EncodeLineItem(item *LineItem) (string, error) {
	if err := checkDelimiterFree(map[string]string{"description": item.Description}); err != nil {
		return "", err
	}

	fields := []string{
		strconv.Itoa(item.TransactionID),
		item.Description,
		strconv.Itoa(item.Quantity),
		item.UnitPrice.String(),
		item.LineTotal.String(),
	}
	return strings.Join(fields, Delimiter), nil
}

// DecodeLineItem parses one line-item log line.
func DecodeLineItem(line string) (*LineItem, error) {
	parts := strings.Split(line, Delimiter)
	if len(parts) < lineItemMinFields {
		return nil, fmt.Errorf("%w: line item has %d of %d fields", ErrTruncatedRecord, len(parts), lineItemMinFields)
	}

	transactionID, err := parseInt("transactionId", parts[0])
	if err != nil {
		return nil, err
	}
	quantity, err := parseInt("quantity", parts[2])
	if err != nil {
		return nil, err
	}
	unitPrice, err := parseDecimal("unitPrice", parts[3])
	if err != nil {
		return nil, err
	}
	lineTotal, err := parseDecimal("lineTotal", parts[4])
	if err != nil {
		return nil, err
	}

	return &LineItem{
		TransactionID: transactionID,
		Description:   parts[1],
		Quantity:      quantity,
		UnitPrice:     unitPrice,
		LineTotal:     lineTotal,
	}, nil
}

func checkDelimiterFree(fields map[string]string) error {
	for name, value := range fields {
		if strings.Contains(value, Delimiter) {
			return fmt.Errorf("%w: %s %q", ErrFieldContainsDelimiter, name, value)
		}
	}
	return nil
}

func parseInt(field, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q", ErrMalformedNumber, field, s)
	}
	return n, nil
}

func parseDecimal(field, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %s %q", ErrMalformedNumber, field, s)
	}
	return d, nil
}
