package http

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/samaanhq/authcore/internal/adapter/http/ratelimit"
	"github.com/samaanhq/authcore/internal/domain"
	"github.com/samaanhq/authcore/internal/infrastructure/logger"
	"github.com/samaanhq/authcore/internal/service"
)

// Credentials is the slice of the credential service the route layer needs.
type Credentials interface {
	CreateAccount(username string, password *string) (domain.Identity, error)
	VerifyPassword(username, candidate string) bool
	EnrollFingerprint(username, sample string) error
}

// FingerprintMatcher is the slice of the matcher the route layer needs.
type FingerprintMatcher interface {
	Verify(username, sample string) bool
	Identify(sample string) (*domain.User, error)
}

type signupRequest struct {
	Username string  `json:"username"`
	Password *string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type fingerprintRequest struct {
	Username    string `json:"username"`
	Fingerprint string `json:"fingerprint"`
}

type fingerprintLoginRequest struct {
	Fingerprint string `json:"fingerprint"`
}

func SignupHandler(creds Credentials) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req signupRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		identity, err := creds.CreateAccount(req.Username, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrUserExists):
				writeError(w, http.StatusConflict, "username already taken")
			case errors.Is(err, service.ErrInvalidUsername):
				writeError(w, http.StatusBadRequest, "invalid username")
			default:
				logger.Error.Printf("signup failed: %v", err)
				writeError(w, http.StatusInternalServerError, "internal error")
			}
			return
		}

		logger.Info.Printf("account created: %q", logger.SanitizeForLog(identity.Username))
		writeJSON(w, http.StatusCreated, identity)
	}
}

func LoginHandler(creds Credentials, guard *ratelimit.LoginGuard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientID := clientIP(r)
		if allowed, retryAfter := guard.Check(clientID); !allowed {
			writeRetryAfter(w, retryAfter)
			return
		}

		var req loginRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		if !creds.VerifyPassword(req.Username, req.Password) {
			guard.Delay(clientID)
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}

		guard.Reset(clientID)
		writeJSON(w, http.StatusOK, domain.Identity{Username: req.Username})
	}
}

func EnrollFingerprintHandler(creds Credentials) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req fingerprintRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.Fingerprint == "" {
			writeError(w, http.StatusBadRequest, "fingerprint is required")
			return
		}

		if err := creds.EnrollFingerprint(req.Username, req.Fingerprint); err != nil {
			if errors.Is(err, service.ErrUserNotFound) {
				writeError(w, http.StatusNotFound, "no such account")
				return
			}
			logger.Error.Printf("enroll failed: %v", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func VerifyFingerprintHandler(matcher FingerprintMatcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req fingerprintRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		verified := matcher.Verify(req.Username, req.Fingerprint)
		writeJSON(w, http.StatusOK, map[string]bool{"verified": verified})
	}
}

func FingerprintLoginHandler(matcher FingerprintMatcher, guard *ratelimit.LoginGuard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientID := clientIP(r)
		if allowed, retryAfter := guard.Check(clientID); !allowed {
			writeRetryAfter(w, retryAfter)
			return
		}

		var req fingerprintLoginRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		user, err := matcher.Identify(req.Fingerprint)
		if err != nil {
			logger.Error.Printf("fingerprint login failed: %v", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if user == nil {
			guard.Delay(clientID)
			writeError(w, http.StatusUnauthorized, "no matching account")
			return
		}

		guard.Reset(clientID)
		writeJSON(w, http.StatusOK, user.Identity())
	}
}

func RootHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"service": "authcore",
			"status":  "ok",
		})
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error.Printf("write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeRetryAfter(w http.ResponseWriter, retryAfter time.Duration) {
	w.Header().Set("Retry-After", retryAfter.Round(time.Second).String())
	writeError(w, http.StatusTooManyRequests, "too many attempts")
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
