package common

import (
	"net"
	"net/http"
)

// ClientIP returns the host part of r.RemoteAddr. The router runs chi's
// RealIP middleware first, so proxy headers are already folded in.
func ClientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
