package common

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) ErrorBody {
	t.Helper()
	var payload struct {
		Error ErrorBody `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &payload))
	return payload.Error
}

func TestWriteErrorUsesAppErrorStatus(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/payments", nil)

	WriteError(rr, req, Overpayment("120.00"))

	require.Equal(t, http.StatusBadRequest, rr.Code)
	body := decodeError(t, rr)
	require.Equal(t, CodeOverpayment, body.Code)
	require.Equal(t, "Payment exceeds remaining balance of 120.00", body.Message)
}

func TestWriteErrorHidesInternalText(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/invoices", nil)

	WriteError(rr, req, errors.New("pq: connection refused to 10.0.0.3"))

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	body := decodeError(t, rr)
	require.Equal(t, CodeInternal, body.Code)
	require.Equal(t, "internal error", body.Message)
	require.NotContains(t, rr.Body.String(), "10.0.0.3")
}

func TestWriteErrorWrappedAppError(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	wrapped := errors.Join(errors.New("context"), NotFound("Product not found: %s", "abc"))

	WriteError(rr, req, wrapped)

	require.Equal(t, http.StatusNotFound, rr.Code)
	require.Equal(t, "Product not found: abc", decodeError(t, rr).Message)
	require.Equal(t, CodeNotFound, ErrorCode(wrapped))
}

func TestInsufficientStockNamesProduct(t *testing.T) {
	err := InsufficientStock("Basmati Rice 5kg")
	require.Equal(t, "Insufficient stock for Basmati Rice 5kg", err.Message)
	require.Equal(t, http.StatusBadRequest, err.HTTPStatus)
}
