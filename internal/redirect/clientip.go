package redirect

import (
	"net"
	"net/http"
	"strings"
)

// UnknownIP is the sentinel used when no header or address validates.
const UnknownIP = "0.0.0.0"

// ipHeaders in trust order: the proxy-supplied single-IP header first, then
// forwarded-for (first entry is the original client), then real-ip.
var ipHeaders = []string{
	"CF-Connecting-IP",
	"X-Forwarded-For",
	"X-Real-IP",
}

// ClientIP extracts the visitor's IP address. The first syntactically valid
// candidate wins; the raw connection address is the last resort.
func ClientIP(r *http.Request) string {
	for _, header := range ipHeaders {
		if ip := validIP(r.Header.Get(header)); ip != "" {
			return ip
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}

	if ip := validIP(host); ip != "" {
		return ip
	}

	return UnknownIP
}

func validIP(value string) string {
	if value == "" {
		return ""
	}

	// Forwarded-for headers may carry a comma-separated chain.
	if idx := strings.Index(value, ","); idx != -1 {
		value = value[:idx]
	}

	value = strings.TrimSpace(value)
	if net.ParseIP(value) == nil {
		return ""
	}

	return value
}
