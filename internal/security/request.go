package security

import "net/http"

// IsSecureRequest reports whether the client reached us over HTTPS, directly
// or through a reverse proxy that sets X-Forwarded-Proto.
func IsSecureRequest(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	if r.Header.Get("X-Forwarded-Proto") == "https" {
		return true
	}
	return r.URL.Scheme == "https"
}

// RequestBaseURL rebuilds the scheme and host the client used, ending in "/"
func RequestBaseURL(r *http.Request) string {
	scheme := "http"
	if IsSecureRequest(r) {
		scheme = "https"
	}
	host := r.Host
	if forwarded := r.Header.Get("X-Forwarded-Host"); forwarded != "" {
		host = forwarded
	}
	return scheme + "://" + host + "/"
}
