package products

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/pos-register/internal/catalog"
	"github.com/carson-networks/pos-register/internal/logging"
)

func createTestLogData() *logging.LogData {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logging.NewLogData(logger)
}

func TestHandler_ListsCatalog(t *testing.T) {
	handler := NewHandler(catalog.Builtin())
	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	w := httptest.NewRecorder()

	err := handler.Handler(w, req, createTestLogData())

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, w.Result().StatusCode)
	assert.Equal(t, "application/json; charset=utf-8", w.Result().Header.Get("Content-Type"))

	body := w.Body.String()
	assert.True(t, strings.HasPrefix(body, "["))
	assert.Contains(t, body, `{"name":"Classic T-Shirt","price":14.99,"description":"100% cotton unisex tee"}`)
	assert.Contains(t, body, `"name":"Pen Set"`)
}

func TestHandler_BadMethod(t *testing.T) {
	handler := NewHandler(catalog.Builtin())
	req := httptest.NewRequest(http.MethodPost, "/api/products", nil)
	w := httptest.NewRecorder()

	err := handler.Handler(w, req, createTestLogData())

	assert.Error(t, err)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Result().StatusCode)
}
