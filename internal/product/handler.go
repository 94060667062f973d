package product

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/devaakutty/Shashi-backend/internal/common"
)

// Handler exposes product endpoints.
type Handler struct {
	Svc *Service
}

// Routes mounts the product endpoints on r. Reads are public; writes pass
// through requireAuth.
func (h *Handler) Routes(r chi.Router, requireAuth func(http.Handler) http.Handler) {
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Group(func(r chi.Router) {
		if requireAuth != nil {
			r.Use(requireAuth)
		}
		r.Post("/", h.Create)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	out, err := h.Svc.ListActive(r.Context())
	if err != nil {
		common.WriteError(w, r, err)
		return
	}
	common.JSON(w, http.StatusOK, out)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := common.ParseID(chi.URLParam(r, "id"), "product id")
	if err != nil {
		common.WriteError(w, r, err)
		return
	}
	out, err := h.Svc.GetActive(r.Context(), id)
	if err != nil {
		common.WriteError(w, r, err)
		return
	}
	common.JSON(w, http.StatusOK, out)
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

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	actor, err := common.ActorID(r.Context())
	if err != nil {
		common.WriteError(w, r, err)
		return
	}
	id, err := common.ParseID(chi.URLParam(r, "id"), "product id")
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
	actor, err := common.ActorID(r.Context())
	if err != nil {
		common.WriteError(w, r, err)
		return
	}
	id, err := common.ParseID(chi.URLParam(r, "id"), "product id")
	if err != nil {
		common.WriteError(w, r, err)
		return
	}
	if err := h.Svc.Delete(r.Context(), actor, id); err != nil {
		common.WriteError(w, r, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]string{"message": "Product deleted successfully"})
}
