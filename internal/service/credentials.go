package service

import (
	"errors"
	"fmt"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"github.com/samaanhq/authcore/internal/domain"
	"github.com/samaanhq/authcore/internal/infrastructure/logger"
	"github.com/samaanhq/authcore/internal/port"
)

var (
	ErrUserExists      = errors.New("user already exists")
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidUsername = errors.New("invalid username")
)

func validateUsername(username string) error {
	if len(username) == 0 {
		return fmt.Errorf("must not be empty")
	}
	if len(username) > 50 {
		return fmt.Errorf("must be at most 50 characters")
	}
	for _, r := range username {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '-' && r != '.' && r != '@' {
			return fmt.Errorf("must contain only letters, numbers, and _-.@")
		}
	}
	return nil
}

// CredentialService owns account lifecycle and password authentication.
type CredentialService struct {
	store port.UserStore
}

func NewCredentialService(store port.UserStore) *CredentialService {
	return &CredentialService{store: store}
}

// CreateAccount creates a new account. A nil password leaves password login
// disabled until one is set; the account is then usable only via fingerprint.
// The raw password is hashed before storage and never persisted or logged.
func (s *CredentialService) CreateAccount(username string, password *string) (domain.Identity, error) {
	if err := validateUsername(username); err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %w", ErrInvalidUsername, err)
	}

	if _, err := s.store.GetUser(username); err == nil {
		return domain.Identity{}, ErrUserExists
	} else if !errors.Is(err, domain.ErrNotFound) {
		return domain.Identity{}, err
	}

	var passwordHash *string
	if password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
		if err != nil {
			return domain.Identity{}, err
		}
		h := string(hash)
		passwordHash = &h
	}

	user := domain.NewUser(username, passwordHash)
	if err := s.store.CreateUser(user); err != nil {
		// A concurrent create can win between the existence check and the
		// insert; the store's uniqueness constraint surfaces it here.
		if errors.Is(err, domain.ErrDuplicate) {
			return domain.Identity{}, ErrUserExists
		}
		return domain.Identity{}, err
	}

	return user.Identity(), nil
}

// LookupAccount returns the record for username, or domain.ErrNotFound.
func (s *CredentialService) LookupAccount(username string) (*domain.User, error) {
	return s.store.GetUser(username)
}

// VerifyPassword reports whether candidate matches the stored password hash.
// A missing account, a password-less account, a corrupt stored hash, and a
// wrong password all collapse to false: authentication must not leak which
// check failed, and must never fault through to the caller.
func (s *CredentialService) VerifyPassword(username, candidate string) bool {
	user, err := s.store.GetUser(username)
	if err != nil {
		return false
	}
	if !user.HasPassword() {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(candidate)) == nil
}

// EnrollFingerprint stores sample as the account's fingerprint, replacing any
// previously enrolled sample verbatim.
func (s *CredentialService) EnrollFingerprint(username, sample string) error {
	if err := s.store.SetFingerprint(username, sample); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	logger.Info.Printf("fingerprint enrolled for %q", logger.SanitizeForLog(username))
	return nil
}
