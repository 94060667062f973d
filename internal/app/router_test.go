package app

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/devaakutty/Shashi-backend/internal/cache"
	"github.com/devaakutty/Shashi-backend/internal/common"
	"github.com/devaakutty/Shashi-backend/internal/customer"
	"github.com/devaakutty/Shashi-backend/internal/db"
	"github.com/devaakutty/Shashi-backend/internal/db/dbtest"
	"github.com/devaakutty/Shashi-backend/internal/events"
	"github.com/devaakutty/Shashi-backend/internal/expense"
	"github.com/devaakutty/Shashi-backend/internal/health"
	"github.com/devaakutty/Shashi-backend/internal/inventory"
	"github.com/devaakutty/Shashi-backend/internal/invoice"
	"github.com/devaakutty/Shashi-backend/internal/payment"
	"github.com/devaakutty/Shashi-backend/internal/product"
	"github.com/devaakutty/Shashi-backend/internal/ratelimit"
	"github.com/devaakutty/Shashi-backend/internal/report"
	"github.com/devaakutty/Shashi-backend/internal/security"
)

var operator = uuid.MustParse("5b0f2d7e-8d4c-4b55-9a3e-1f7c7a1e2b10")

// stubAuth accepts "Bearer ok" as the fixed operator.
func stubAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer ok" {
			common.JSONError(w, http.StatusUnauthorized, common.CodeUnauthorized, "missing or invalid token", nil)
			return
		}
		next.ServeHTTP(w, r.WithContext(common.WithUserID(r.Context(), operator.String())))
	})
}

type harness struct {
	router http.Handler
	store  *dbtest.Store
}

func newHarness(t *testing.T, writeLimit int64) harness {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	now := func() time.Time { return time.Date(2025, 3, 14, 10, 30, 0, 0, time.UTC) }
	store := dbtest.New()
	store.Now = now
	validate := common.NewValidator()
	productCache := cache.NewJSON(client, 5*time.Minute)
	reportCache := cache.NewJSON(client, time.Minute)
	bus := &events.Bus{
		Store:     store,
		Notifiers: []events.Notifier{cache.Invalidator{Products: productCache, Reports: reportCache, Location: time.UTC}},
	}

	d := Deps{
		Logger:      zerolog.Nop(),
		RequireAuth: stubAuth,
		Headers:     security.Headers{Enable: true},
		BodyLimit:   security.BodyLimit{Max: 1 << 16},
		WriteLimit:  ratelimit.Handler{Limiter: ratelimit.NewMemoryLimiter(writeLimit, time.Minute), WritesOnly: true},
		Idempotency: common.Idem{R: client, TTL: time.Hour},
		Health:      health.Handler{Checker: health.Deps{Redis: client}},
		Products:    &product.Handler{Svc: &product.Service{Store: store, Cache: productCache, Validate: validate}},
		Customers:   &customer.Handler{Svc: &customer.Service{Store: store, Validate: validate}},
		Invoices: &invoice.Handler{Svc: &invoice.Service{
			Store:    store,
			Ledger:   inventory.Ledger{LowStockThreshold: 2},
			Events:   bus,
			Validate: validate,
			Now:      now,
		}},
		Payments: &payment.Handler{Svc: &payment.Service{Store: store, Events: bus, Validate: validate, Now: now}},
		Expenses: &expense.Handler{Svc: &expense.Service{Store: store, Validate: validate, Now: now}},
		Reports:  &report.Handler{Svc: &report.Service{Q: store, Cache: reportCache, Location: time.UTC, Now: now}},
	}
	return harness{router: NewRouter(d), store: store}
}

func (h harness) do(t *testing.T, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Buffer
	if body != "" {
		reader = bytes.NewBufferString(body)
	} else {
		reader = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

var authed = map[string]string{"Authorization": "Bearer ok"}

func TestCheckoutFlowThroughRouter(t *testing.T) {
	h := newHarness(t, 100)

	rec := h.do(t, http.MethodPost, "/api/products", `{"name":"Notebook","price":100,"taxRate":10,"stock":5}`, authed)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var p product.View
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))

	rec = h.do(t, http.MethodGet, "/api/products", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))

	rec = h.do(t, http.MethodPost, "/api/invoices",
		`{"customer":{"name":"Asha","phone":"9800000001"},"items":[{"product":"`+p.ID+`","quantity":2}]}`, authed)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var inv invoice.View
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &inv))
	require.Equal(t, 220.0, inv.TotalAmount)
	require.Equal(t, db.InvoiceStatusUnpaid, inv.Status)

	rec = h.do(t, http.MethodPost, "/api/payments", `{"invoiceId":"`+inv.ID+`","amount":220,"method":"upi"}`, authed)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var receipt payment.ReceiptView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &receipt))
	require.Equal(t, "paid", receipt.InvoiceStatus)
	require.Equal(t, 0.0, receipt.RemainingAmount)

	rec = h.do(t, http.MethodGet, "/api/reports/daily", "", authed)
	require.Equal(t, http.StatusOK, rec.Code)
	var entries []report.Entry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
	require.Equal(t, inv.InvoiceNumber, entries[0].InvoiceNumber)

	stock, ok := h.store.Product(uuid.MustParse(p.ID))
	require.True(t, ok)
	require.EqualValues(t, 3, stock.Stock)
}

func TestUPINoteInvoiceAcceptsPayment(t *testing.T) {
	h := newHarness(t, 100)

	rec := h.do(t, http.MethodPost, "/api/products", `{"name":"Pen","price":100,"taxRate":10,"stock":5}`, authed)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var p product.View
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))

	rec = h.do(t, http.MethodPost, "/api/invoices",
		`{"customer":{"name":"Ravi","phone":"9800000002"},"items":[{"product":"`+p.ID+`","quantity":2}],"notes":"paid via upi"}`, authed)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var inv invoice.View
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &inv))
	require.Equal(t, db.InvoiceStatusPaid, inv.Status)
	require.NotNil(t, inv.PaidAt)
	require.Zero(t, inv.PaidAmount)

	rec = h.do(t, http.MethodPost, "/api/payments", `{"invoiceId":"`+inv.ID+`","amount":220,"method":"upi"}`, authed)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var receipt payment.ReceiptView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &receipt))
	require.Equal(t, db.InvoiceStatusPaid, receipt.InvoiceStatus)
	require.Equal(t, 220.0, receipt.PaidAmount)
	require.Equal(t, 0.0, receipt.RemainingAmount)
}

func TestRouterRequiresAuth(t *testing.T) {
	h := newHarness(t, 100)
	for _, path := range []string{"/api/invoices", "/api/payments", "/api/customers", "/api/expenses", "/api/reports/daily"} {
		rec := h.do(t, http.MethodGet, path, "", nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
	rec := h.do(t, http.MethodPost, "/api/products", `{"name":"x","price":1}`, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouterIdempotencyKey(t *testing.T) {
	h := newHarness(t, 100)
	headers := map[string]string{"Authorization": "Bearer ok", "Idempotency-Key": "abc"}
	body := `{"name":"Ravi","phone":"9811111111"}`

	rec := h.do(t, http.MethodPost, "/api/customers", body, headers)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = h.do(t, http.MethodPost, "/api/customers", body, headers)
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Contains(t, rec.Body.String(), "IDEMPOTENT_REPLAY")

	_, _, customers := h.store.Counts()
	require.Equal(t, 1, customers)
}

func TestRouterThrottlesWrites(t *testing.T) {
	h := newHarness(t, 2)
	for i := 0; i < 2; i++ {
		rec := h.do(t, http.MethodPost, "/api/expenses", `{"title":"Rent","amount":10}`, authed)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}
	rec := h.do(t, http.MethodPost, "/api/expenses", `{"title":"Rent","amount":10}`, authed)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.NotEmpty(t, rec.Header().Get("Retry-After"))

	rec = h.do(t, http.MethodGet, "/api/expenses", "", authed)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRouterHealthAndUnknownRoute(t *testing.T) {
	h := newHarness(t, 100)
	rec := h.do(t, http.MethodGet, "/health/live", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", rec.Body.String())

	rec = h.do(t, http.MethodGet, "/nope", "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Body.String(), common.CodeNotFound)
}
