package http

import (
	"net/http"
	"time"

	"github.com/samaanhq/authcore/internal/adapter/http/middleware"
	"github.com/samaanhq/authcore/internal/adapter/http/ratelimit"
)

type Server struct {
	mux           *http.ServeMux
	creds         Credentials
	matcher       FingerprintMatcher
	loginGuard    *ratelimit.LoginGuard
	allowedOrigin string
}

func NewServer(creds Credentials, matcher FingerprintMatcher, allowedOrigin string) *Server {
	s := &Server{
		mux:           http.NewServeMux(),
		creds:         creds,
		matcher:       matcher,
		loginGuard:    ratelimit.NewLoginGuard(5, 15*time.Minute, 30*time.Minute),
		allowedOrigin: allowedOrigin,
	}

	s.registerRoutes()

	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /{$}", RootHandler())

	s.mux.HandleFunc("POST /auth/signup", SignupHandler(s.creds))
	s.mux.HandleFunc("POST /auth/login", LoginHandler(s.creds, s.loginGuard))

	s.mux.HandleFunc("POST /auth/fingerprint/enroll", EnrollFingerprintHandler(s.creds))
	s.mux.HandleFunc("POST /auth/fingerprint/verify", VerifyFingerprintHandler(s.matcher))
	s.mux.HandleFunc("POST /auth/fingerprint/login", FingerprintLoginHandler(s.matcher, s.loginGuard))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	handler := middleware.SecurityHeaders(s.mux)
	middleware.CORS(s.allowedOrigin, handler).ServeHTTP(w, r)
}
