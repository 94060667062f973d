package payment

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/devaakutty/Shashi-backend/internal/common"
	"github.com/devaakutty/Shashi-backend/internal/db"
)

// View is the API representation of a payment.
type View struct {
	ID            string      `json:"id"`
	Invoice       string      `json:"invoice"`
	Amount        float64     `json:"amount"`
	Method        string      `json:"method"`
	TransactionID string      `json:"transactionId,omitempty"`
	Status        string      `json:"status"`
	PaidAt        time.Time   `json:"paidAt"`
	CreatedBy     string      `json:"createdBy"`
	CreatedAt     time.Time   `json:"createdAt"`
	InvoiceRef    *InvoiceRef `json:"invoiceRef,omitempty"`
}

// InvoiceRef summarises the invoice a listed payment settles.
type InvoiceRef struct {
	InvoiceNumber string  `json:"invoiceNumber"`
	TotalAmount   float64 `json:"totalAmount"`
	Status        string  `json:"status"`
}

// ReceiptView is the response to a recorded payment.
type ReceiptView struct {
	Message         string  `json:"message"`
	Payment         View    `json:"payment"`
	InvoiceStatus   string  `json:"invoiceStatus"`
	PaidAmount      float64 `json:"paidAmount"`
	RemainingAmount float64 `json:"remainingAmount"`
}

func newView(p db.Payment) View {
	return View{
		ID:            p.ID.String(),
		Invoice:       p.InvoiceID.String(),
		Amount:        p.Amount.InexactFloat64(),
		Method:        p.Method,
		TransactionID: p.TransactionID,
		Status:        p.Status,
		PaidAt:        p.PaidAt,
		CreatedBy:     p.CreatedBy.String(),
		CreatedAt:     p.CreatedAt,
	}
}

// Handler exposes payment endpoints.
type Handler struct {
	Svc *Service
}

// Routes mounts the payment endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.Record)
	r.Get("/", h.List)
	r.Get("/invoice/{invoiceId}", h.ListByInvoice)
}

func (h *Handler) Record(w http.ResponseWriter, r *http.Request) {
	actor, err := common.ActorID(r.Context())
	if err != nil {
		common.WriteError(w, r, err)
		return
	}
	var req RecordRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, r, err)
		return
	}
	receipt, err := h.Svc.Record(r.Context(), actor, req)
	if err != nil {
		common.WriteError(w, r, err)
		return
	}
	common.JSON(w, http.StatusCreated, ReceiptView{
		Message:         "Payment recorded successfully",
		Payment:         newView(receipt.Payment),
		InvoiceStatus:   receipt.InvoiceStatus,
		PaidAmount:      receipt.PaidAmount.InexactFloat64(),
		RemainingAmount: receipt.RemainingAmount.InexactFloat64(),
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	actor, err := common.ActorID(r.Context())
	if err != nil {
		common.WriteError(w, r, err)
		return
	}
	rows, err := h.Svc.List(r.Context(), actor)
	if err != nil {
		common.WriteError(w, r, err)
		return
	}
	out := make([]View, 0, len(rows))
	for _, row := range rows {
		v := newView(row.Payment)
		v.InvoiceRef = &InvoiceRef{
			InvoiceNumber: row.InvoiceNumber,
			TotalAmount:   row.InvoiceTotal.InexactFloat64(),
			Status:        row.InvoiceStatus,
		}
		out = append(out, v)
	}
	common.JSON(w, http.StatusOK, out)
}

func (h *Handler) ListByInvoice(w http.ResponseWriter, r *http.Request) {
	actor, err := common.ActorID(r.Context())
	if err != nil {
		common.WriteError(w, r, err)
		return
	}
	invoiceID, err := common.ParseID(chi.URLParam(r, "invoiceId"), "invoice id")
	if err != nil {
		common.WriteError(w, r, err)
		return
	}
	rows, err := h.Svc.ListByInvoice(r.Context(), actor, invoiceID)
	if err != nil {
		common.WriteError(w, r, err)
		return
	}
	out := make([]View, 0, len(rows))
	for _, row := range rows {
		out = append(out, newView(row))
	}
	common.JSON(w, http.StatusOK, out)
}
