package service

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/samaanhq/authcore/internal/domain"
	"github.com/samaanhq/authcore/internal/infrastructure/logger"
	"github.com/samaanhq/authcore/internal/port"
)

// DefaultThreshold is the minimum similarity score considered a fingerprint
// match. Samples from the same capture device typically score well above it;
// unrelated samples score near zero.
const DefaultThreshold = 0.72

// Matcher scores fingerprint encodings against enrolled samples. Encodings
// are opaque strings; similarity is a sequence-matcher ratio, not a
// biometric-specific measure.
type Matcher struct {
	store     port.UserStore
	threshold float64
}

func NewMatcher(store port.UserStore, threshold float64) *Matcher {
	return &Matcher{store: store, threshold: threshold}
}

// Threshold returns the configured match threshold.
func (m *Matcher) Threshold() float64 {
	return m.threshold
}

// Similarity returns a symmetric score in [0, 1] between two fingerprint
// encodings: 0 if either is empty, 1 on exact equality, otherwise twice the
// number of matched characters divided by the combined length.
func (m *Matcher) Similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0.0
	}
	if a == b {
		return 1.0
	}
	sm := difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, ""))
	return sm.Ratio()
}

// Verify reports whether sample matches the fingerprint enrolled for
// username. A missing account and a missing enrollment both collapse to
// false, same as a low score.
func (m *Matcher) Verify(username, sample string) bool {
	user, err := m.store.GetUser(username)
	if err != nil {
		return false
	}
	if !user.HasFingerprint() {
		return false
	}
	score := m.Similarity(user.StoredFingerprint(), sample)
	logger.Info.Printf("fingerprint verify %q: score=%.2f threshold=%.2f",
		logger.SanitizeForLog(username), score, m.threshold)
	return score >= m.threshold
}

// Identify scans every enrolled account for the best-scoring match against
// sample and returns it if the score clears the threshold, or nil when no
// account matches. Full-table scan: linear in enrolled accounts.
func (m *Matcher) Identify(sample string) (*domain.User, error) {
	enrolled, err := m.store.ListEnrolled()
	if err != nil {
		return nil, err
	}

	var best *domain.User
	bestScore := 0.0
	for _, user := range enrolled {
		score := m.Similarity(user.StoredFingerprint(), sample)
		// Strict >: on a tie the earlier-scanned account keeps the slot.
		if score > bestScore {
			bestScore = score
			best = user
		}
	}

	matched := "none"
	if best != nil {
		matched = best.Username
	}
	logger.Info.Printf("fingerprint identify: best_score=%.2f threshold=%.2f user=%s",
		bestScore, m.threshold, logger.SanitizeForLog(matched))

	if best == nil || bestScore < m.threshold {
		return nil, nil
	}
	return best, nil
}
