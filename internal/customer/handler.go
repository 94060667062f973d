package customer

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/devaakutty/Shashi-backend/internal/common"
)

// Handler exposes customer endpoints.
type Handler struct {
	Svc *Service
}

// Routes mounts the customer endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
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
	actor, id, err := actorAndID(r)
	if err != nil {
		common.WriteError(w, r, err)
		return
	}
	out, err := h.Svc.Get(r.Context(), actor, id)
	if err != nil {
		common.WriteError(w, r, err)
		return
	}
	common.JSON(w, http.StatusOK, out)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	actor, id, err := actorAndID(r)
	if err != nil {
		common.WriteError(w, r, err)
		return
	}
	var req UpdateRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, r, err)
		return
	}
	out, err := h.Svc.Update(r.Context(), actor, id, req)
	if err != nil {
		common.WriteError(w, r, err)
		return
	}
	common.JSON(w, http.StatusOK, out)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, id, err := actorAndID(r)
	if err != nil {
		common.WriteError(w, r, err)
		return
	}
	if err := h.Svc.Delete(r.Context(), actor, id); err != nil {
		common.WriteError(w, r, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]string{"message": "Customer deleted successfully"})
}

func actorAndID(r *http.Request) (uuid.UUID, uuid.UUID, error) {
	actor, err := common.ActorID(r.Context())
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	id, err := common.ParseID(chi.URLParam(r, "id"), "customer id")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return actor, id, nil
}
