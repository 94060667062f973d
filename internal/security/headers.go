package security

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

const defaultHSTSMaxAge = 365 * 24 * time.Hour

// apiPolicy locks JSON responses out of rendering and framing.
const apiPolicy = "default-src 'none'; frame-ancestors 'none'"

// HSTS is the Strict-Transport-Security policy. A zero MaxAge falls back to
// one year.
type HSTS struct {
	Enable            bool
	MaxAge            time.Duration
	IncludeSubdomains bool
	Preload           bool
}

func (h HSTS) value() string {
	maxAge := h.MaxAge
	if maxAge <= 0 {
		maxAge = defaultHSTSMaxAge
	}
	var b strings.Builder
	b.WriteString("max-age=")
	b.WriteString(strconv.FormatInt(int64(maxAge/time.Second), 10))
	if h.IncludeSubdomains {
		b.WriteString("; includeSubDomains")
	}
	if h.Preload {
		b.WriteString("; preload")
	}
	return b.String()
}

// Headers sets the response headers every billing API reply carries.
type Headers struct {
	Enable bool
	HSTS   HSTS
	// TrustForwardedProto treats X-Forwarded-Proto: https as a TLS request
	// when the API runs behind a terminating proxy.
	TrustForwardedProto bool
}

// Middleware attaches the headers before the handler runs so handlers may
// still override Cache-Control on cacheable reads.
func (h Headers) Middleware(next http.Handler) http.Handler {
	if !h.Enable {
		return next
	}
	hsts := h.HSTS.value()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers := w.Header()
		headers.Set("X-Content-Type-Options", "nosniff")
		headers.Set("X-Frame-Options", "DENY")
		headers.Set("Referrer-Policy", "no-referrer")
		headers.Set("Content-Security-Policy", apiPolicy)
		headers.Set("Cross-Origin-Resource-Policy", "same-origin")
		headers.Set("Cache-Control", "no-store")
		if h.HSTS.Enable && h.secure(r) {
			headers.Set("Strict-Transport-Security", hsts)
		}
		next.ServeHTTP(w, r)
	})
}

func (h Headers) secure(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	return h.TrustForwardedProto && strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}
