// server/redirect.go
package server

import (
	"net"
	"net/http"
	"strconv"
	"strings"
)

// redirectToHTTPS sends every request to the same host and path over
// HTTPS. Hosts and targets that could smuggle headers get a 400.
func redirectToHTTPS() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uri := r.URL.RequestURI()
		if !isValidHost(r.Host) || hasControlChars(uri) {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}
		http.Redirect(w, r, "https://"+r.Host+uri, http.StatusMovedPermanently)
	})
}

// isValidHost accepts host, host:port, [ipv6] and [ipv6]:port.
func isValidHost(host string) bool {
	if host == "" || strings.Contains(host, "://") || strings.ContainsAny(host, "/\\@") {
		return false
	}

	name := host
	if h, port, err := net.SplitHostPort(host); err == nil {
		if n, err := strconv.Atoi(port); err != nil || n < 1 || n > 65535 {
			return false
		}
		name = h
		if strings.Contains(name, ":") {
			// SplitHostPort strips the brackets.
			name = "[" + name + "]"
		}
	}
	if name == "" || hasControlChars(name) || strings.ContainsAny(name, " \t") {
		return false
	}

	if strings.HasPrefix(name, "[") {
		if !strings.HasSuffix(name, "]") {
			return false
		}
		ip := name[1 : len(name)-1]
		if i := strings.IndexByte(ip, '%'); i >= 0 {
			ip = ip[:i]
		}
		return net.ParseIP(ip) != nil
	}
	return true
}

func hasControlChars(s string) bool {
	for _, c := range s {
		if (c < 0x20 && c != '\t') || c == 0x7f {
			return true
		}
	}
	return false
}
