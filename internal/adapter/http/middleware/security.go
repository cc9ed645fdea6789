package middleware

import "net/http"

// SecurityHeaders adds security-related HTTP headers to all responses. CSP is
// locked down to nothing: this server returns JSON only, no markup.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Prevent MIME type sniffing
		w.Header().Set("X-Content-Type-Options", "nosniff")

		// Prevent clickjacking
		w.Header().Set("X-Frame-Options", "DENY")

		// Control referrer information
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		// Restrict browser features; the fingerprint capture happens in the
		// frontend, never on this origin
		w.Header().Set("Permissions-Policy", "camera=(), microphone=(), geolocation=()")

		w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")

		// HTTP Strict Transport Security (only when behind TLS)
		if isTLS(r) {
			w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		next.ServeHTTP(w, r)
	})
}

// CORS answers preflight requests and marks responses for the configured
// frontend origin. allowedOrigin may be "*" (the upstream deployment fronted
// a separately hosted web app) or a single concrete origin.
func CORS(allowedOrigin string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && (allowedOrigin == "*" || origin == allowedOrigin) {
			w.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
			w.Header().Set("Vary", "Origin")
		}

		if r.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			w.Header().Set("Access-Control-Max-Age", "600")
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// isTLS checks if the request is served over TLS.
// It checks both the TLS connection state and the X-Forwarded-Proto header
// (for requests behind a reverse proxy).
func isTLS(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	return r.Header.Get("X-Forwarded-Proto") == "https"
}
