package products

import (
	"errors"
	"io"
	"net/http"

	"github.com/carson-networks/pos-register/internal/catalog"
	"github.com/carson-networks/pos-register/internal/logging"
	"github.com/carson-networks/pos-register/internal/minijson"
)

// Handler serves GET /api/products: the catalog as a JSON array of
// {name, price, description}.
type Handler struct {
	Catalog *catalog.Catalog
}

func NewHandler(c *catalog.Catalog) Handler {
	return Handler{Catalog: c}
}

func (h *Handler) Handler(w http.ResponseWriter, req *http.Request, logData *logging.LogData) error {
	if req.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return errors.New("products: method not GET")
	}

	products := h.Catalog.Products()
	elements := make([]any, 0, len(products))
	for _, p := range products {
		elements = append(elements, minijson.NewObject().
			Set("name", p.Name).
			Set("price", p.Price.Round(2)).
			Set("description", p.Description))
	}

	body, err := minijson.Encode(elements)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return err
	}

	logData.AddData("productCount", len(products))

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, err = io.WriteString(w, body)
	return err
}
