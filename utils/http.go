package utils

import (
	"net"
	"net/http"
	"strings"
)

// RealClientIP resolves the caller's address, preferring the first hop of a
// proxy-provided X-Forwarded-For list.
func RealClientIP(r *http.Request) string {
	if xfwd := r.Header.Get("X-Forwarded-For"); xfwd != "" {
		if idx := strings.IndexByte(xfwd, ','); idx >= 0 {
			return strings.TrimSpace(xfwd[:idx])
		}
		return xfwd
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

func StringJoin(items []string, delim string) string {
	if len(items) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(items[0])
	for _, item := range items[1:] {
		b.WriteString(delim)
		b.WriteString(item)
	}
	return b.String()
}
