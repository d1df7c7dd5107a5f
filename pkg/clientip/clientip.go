// Package clientip extracts the real client IP from HTTP requests,
// honoring common proxy headers in priority order.
package clientip

import (
	"net"
	"net/http"
	"strings"
)

// Headers checked before falling back to RemoteAddr, most trusted first.
var proxyHeaders = []string{
	"CF-Connecting-IP",
	"X-Forwarded-For",
	"X-Real-IP",
}

// GetIP returns the client IP for the request. Proxy headers are validated;
// malformed values fall through to the next source. When nothing parses, the
// raw RemoteAddr host is returned.
func GetIP(r *http.Request) string {
	for _, header := range proxyHeaders {
		value := r.Header.Get(header)
		if value == "" {
			continue
		}
		// X-Forwarded-For may carry "client, proxy1, proxy2"; the leftmost
		// entry is the originating client.
		candidate := strings.TrimSpace(strings.SplitN(value, ",", 2)[0])
		if ip := normalize(candidate); ip != "" {
			return ip
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if ip := normalize(host); ip != "" {
		return ip
	}
	return r.RemoteAddr
}

func normalize(candidate string) string {
	ip := net.ParseIP(candidate)
	if ip == nil || ip.IsUnspecified() {
		return ""
	}
	return ip.String()
}
