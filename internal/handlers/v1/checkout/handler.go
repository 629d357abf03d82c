package checkout

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/pos-register/internal/logging"
	"github.com/carson-networks/pos-register/internal/minijson"
	"github.com/carson-networks/pos-register/internal/record"
	"github.com/carson-networks/pos-register/internal/service"
)

// checkoutProcessor is the interface for processing a checkout.
type checkoutProcessor interface {
	Checkout(ctx context.Context, req service.CheckoutRequest) (*record.Transaction, error)
}

// Handler serves POST /api/checkout. The body is decoded by minijson, which
// owns the wire format at this boundary.
type Handler struct {
	TransactionService checkoutProcessor
}

func NewHandler(svc checkoutProcessor) Handler {
	return Handler{TransactionService: svc}
}

func (h *Handler) Handler(w http.ResponseWriter, req *http.Request, logData *logging.LogData) error {
	if req.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return errors.New("checkout: method not POST")
	}

	body, err := io.ReadAll(req.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return err
	}

	payload, err := minijson.DecodeObject(string(body))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return err
	}

	checkoutReq := parsePayload(payload)
	logData.AddData("itemCount", len(checkoutReq.Items))
	logData.AddData("paymentMethod", string(checkoutReq.PaymentMethod))

	tx, err := h.TransactionService.Checkout(req.Context(), checkoutReq)
	switch {
	case errors.Is(err, service.ErrEmptyCart):
		writeError(w, http.StatusBadRequest, "No items provided")
		return err
	case errors.Is(err, service.ErrInsufficientPayment):
		writeError(w, http.StatusBadRequest, "Insufficient cash payment")
		return err
	case err != nil:
		writeError(w, http.StatusInternalServerError, "Failed to save transaction")
		return err
	}

	logData.AddData("transactionID", tx.ID)

	response := minijson.NewObject().
		Set("success", true).
		Set("transactionId", tx.ID).
		Set("totalDue", tx.TotalDue.Round(2))
	return writeObject(w, http.StatusOK, response)
}

// parsePayload maps the wire object onto a CheckoutRequest. Missing fields
// stay zero; the service applies the defaults.
func parsePayload(payload *minijson.Object) service.CheckoutRequest {
	req := service.CheckoutRequest{
		CardLast4:      payload.String("cardLast4"),
		CardHolderName: payload.String("cardHolderName"),
		CardExpiry:     payload.String("cardExpiry"),
	}

	if strings.EqualFold(payload.String("paymentMethod"), string(record.PaymentCash)) {
		req.PaymentMethod = record.PaymentCash
	} else {
		req.PaymentMethod = record.PaymentCard
	}

	if paid, ok := payload.Number("amountPaid"); ok {
		req.AmountPaid = decimal.NewFromFloat(paid)
	}

	for _, item := range payload.Objects("items") {
		price, _ := item.Number("price")
		quantity, _ := item.Int("quantity")
		req.Items = append(req.Items, service.CheckoutItem{
			Name:      item.String("name"),
			UnitPrice: decimal.NewFromFloat(price),
			Quantity:  quantity,
		})
	}

	return req
}

func writeObject(w http.ResponseWriter, status int, obj *minijson.Object) error {
	body, err := minijson.Encode(obj)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return err
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, err = io.WriteString(w, body)
	return err
}

func writeError(w http.ResponseWriter, status int, message string) {
	// Encode cannot fail on a single string field; ignore the error like the
	// write itself.
	body, _ := minijson.Encode(minijson.NewObject().Set("error", message))
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}
