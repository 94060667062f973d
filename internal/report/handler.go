package report

import (
	"net/http"
	"time"

	"github.com/devaakutty/Shashi-backend/internal/common"
)

// Handler exposes report endpoints.
type Handler struct {
	Svc *Service
}

// Daily serves GET /api/reports/daily. An optional ?date=YYYY-MM-DD selects
// another local day.
func (h *Handler) Daily(w http.ResponseWriter, r *http.Request) {
	var (
		out []Entry
		err error
	)
	if raw := r.URL.Query().Get("date"); raw != "" {
		day, parseErr := time.ParseInLocation("2006-01-02", raw, h.Svc.location())
		if parseErr != nil {
			common.WriteError(w, r, common.ValidationError("date must be formatted as YYYY-MM-DD"))
			return
		}
		out, err = h.Svc.Daily(r.Context(), day)
	} else {
		out, err = h.Svc.Today(r.Context())
	}
	if err != nil {
		common.WriteError(w, r, err)
		return
	}
	common.JSON(w, http.StatusOK, out)
}
