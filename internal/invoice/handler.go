package invoice

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/devaakutty/Shashi-backend/internal/common"
)

// Handler exposes invoice endpoints.
type Handler struct {
	Svc *Service
}

// Routes mounts the invoice endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actor, err := common.ActorID(r.Context())
	if err != nil {
		common.WriteError(w, r, err)
		return
	}
	var req CreateRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, r, err)
		return
	}
	out, err := h.Svc.Create(r.Context(), actor, req)
	if err != nil {
		common.WriteError(w, r, err)
		return
	}
	common.JSON(w, http.StatusCreated, out)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	actor, err := common.ActorID(r.Context())
	if err != nil {
		common.WriteError(w, r, err)
		return
	}
	out, err := h.Svc.List(r.Context(), actor)
	if err != nil {
		common.WriteError(w, r, err)
		return
	}
	common.JSON(w, http.StatusOK, out)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := common.ParseID(chi.URLParam(r, "id"), "invoice id")
	if err != nil {
		common.WriteError(w, r, err)
		return
	}
	out, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		common.WriteError(w, r, err)
		return
	}
	common.JSON(w, http.StatusOK, out)
}
