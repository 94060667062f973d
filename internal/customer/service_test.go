package customer

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/devaakutty/Shashi-backend/internal/common"
	"github.com/devaakutty/Shashi-backend/internal/db"
	"github.com/devaakutty/Shashi-backend/internal/db/dbtest"
)

func newService() (*Service, *dbtest.Store) {
	store := dbtest.New()
	return &Service{Store: store, Validate: common.NewValidator()}, store
}

func strPtr(s string) *string { return &s }

func TestCreateAndDuplicatePhone(t *testing.T) {
	svc, _ := newService()
	actor := uuid.New()
	ctx := context.Background()

	c, err := svc.Create(ctx, actor, CreateRequest{Name: " Ravi ", Phone: "9811111111"})
	require.NoError(t, err)
	require.Equal(t, "Ravi", c.Name)

	_, err = svc.Create(ctx, actor, CreateRequest{Name: "Other", Phone: "9811111111"})
	require.Equal(t, common.CodeConflict, common.ErrorCode(err))

	_, err = svc.Create(ctx, actor, CreateRequest{Phone: "1"})
	require.Equal(t, common.CodeValidation, common.ErrorCode(err))

	_, err = svc.Create(ctx, actor, CreateRequest{Name: "Mail", Email: "not-an-email"})
	require.Equal(t, common.CodeValidation, common.ErrorCode(err))

	// customers without a phone never collide
	_, err = svc.Create(ctx, actor, CreateRequest{Name: "A"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, actor, CreateRequest{Name: "B"})
	require.NoError(t, err)
}

func TestOwnerScoping(t *testing.T) {
	svc, _ := newService()
	owner, stranger := uuid.New(), uuid.New()
	ctx := context.Background()

	c, err := svc.Create(ctx, owner, CreateRequest{Name: "Ravi"})
	require.NoError(t, err)
	id := uuid.MustParse(c.ID)

	_, err = svc.Get(ctx, stranger, id)
	require.Equal(t, common.CodeNotFound, common.ErrorCode(err))
	list, err := svc.List(ctx, stranger)
	require.NoError(t, err)
	require.Empty(t, list)
	require.Equal(t, common.CodeNotFound, common.ErrorCode(svc.Delete(ctx, stranger, id)))
}

func TestUpdatePartial(t *testing.T) {
	svc, _ := newService()
	actor := uuid.New()
	ctx := context.Background()

	c, err := svc.Create(ctx, actor, CreateRequest{Name: "Ravi", Phone: "1", Address: "MG Road"})
	require.NoError(t, err)
	id := uuid.MustParse(c.ID)

	updated, err := svc.Update(ctx, actor, id, UpdateRequest{Notes: strPtr("prefers UPI")})
	require.NoError(t, err)
	require.Equal(t, "Ravi", updated.Name)
	require.Equal(t, "MG Road", updated.Address)
	require.Equal(t, "prefers UPI", updated.Notes)

	_, err = svc.Update(ctx, actor, id, UpdateRequest{Name: strPtr("  ")})
	require.Equal(t, common.CodeValidation, common.ErrorCode(err))

	_, err = svc.Create(ctx, actor, CreateRequest{Name: "Other", Phone: "2"})
	require.NoError(t, err)
	_, err = svc.Update(ctx, actor, id, UpdateRequest{Phone: strPtr("2")})
	require.Equal(t, common.CodeConflict, common.ErrorCode(err))
}

func TestDeleteGuardsInvoices(t *testing.T) {
	svc, store := newService()
	actor := uuid.New()
	ctx := context.Background()

	c, err := svc.Create(ctx, actor, CreateRequest{Name: "Ravi", Phone: "1"})
	require.NoError(t, err)
	id := uuid.MustParse(c.ID)
	_, err = store.CreateInvoice(ctx, db.CreateInvoiceParams{
		ID:            uuid.New(),
		InvoiceNumber: "INV-1",
		CustomerID:    id,
		TotalAmount:   decimal.NewFromInt(10),
		Status:        db.InvoiceStatusUnpaid,
		PaymentMethod: "upi",
		DueDate:       time.Now(),
		CreatedBy:     actor,
	})
	require.NoError(t, err)

	err = svc.Delete(ctx, actor, id)
	require.Equal(t, CodeHasInvoices, common.ErrorCode(err))
	require.Equal(t, "Cannot delete customer with existing invoices", err.Error())

	other, err := svc.Create(ctx, actor, CreateRequest{Name: "Walk-in"})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, actor, uuid.MustParse(other.ID)))
	_, err = svc.Get(ctx, actor, uuid.MustParse(other.ID))
	require.Equal(t, common.CodeNotFound, common.ErrorCode(err))
}

func TestHandlerRoutes(t *testing.T) {
	svc, _ := newService()
	actor := uuid.New()
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(common.WithUserID(req.Context(), actor.String())))
		})
	})
	r.Route("/api/customers", (&Handler{Svc: svc}).Routes)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/customers/", bytes.NewBufferString(`{"name":"Ravi","phone":"1"}`)))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/customers/", bytes.NewBufferString(`{"name":"Dup","phone":"1"}`)))
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/customers/"+uuid.NewString(), nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}
