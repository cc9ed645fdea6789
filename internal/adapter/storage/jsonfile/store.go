package jsonfile

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/samaanhq/authcore/internal/domain"
)

// Store is a file-backed account store used when the sqlite database cannot
// be opened. The whole table lives in memory and is flushed to disk on every
// write via an atomic rename.
type Store struct {
	mu    sync.RWMutex
	path  string
	users map[string]*domain.User
	maxID int64
}

func NewStore(dataDir string) (*Store, error) {
	path := filepath.Join(dataDir, "users.json")

	store := &Store{
		path:  path,
		users: make(map[string]*domain.User),
	}

	if err := store.load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	}

	return store, nil
}

func (s *Store) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return err
	}

	if len(data) == 0 {
		return nil
	}

	var userList []*domain.User
	if err := json.Unmarshal(data, &userList); err != nil {
		return err
	}

	for _, u := range userList {
		s.users[u.Username] = u
		if u.ID > s.maxID {
			s.maxID = u.ID
		}
	}

	return nil
}

func (s *Store) save() error {
	tmpPath := s.path + ".tmp"

	userList := make([]*domain.User, 0, len(s.users))
	for _, u := range s.users {
		userList = append(userList, u)
	}
	sort.Slice(userList, func(i, j int) bool { return userList[i].ID < userList[j].ID })

	data, err := json.MarshalIndent(userList, "", "  ")
	if err != nil {
		return err
	}

	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return err
	}

	return os.Rename(tmpPath, s.path)
}

func (s *Store) GetUser(username string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[username]
	if !ok {
		return nil, domain.ErrNotFound
	}

	return u, nil
}

func (s *Store) CreateUser(user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.Username]; ok {
		return domain.ErrDuplicate
	}

	s.maxID++
	user.ID = s.maxID
	s.users[user.Username] = user
	return s.save()
}

func (s *Store) SetFingerprint(username, sample string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[username]
	if !ok {
		return domain.ErrNotFound
	}

	u.Fingerprint = &sample
	return s.save()
}

// ListEnrolled returns accounts with a fingerprint in creation order, same
// as the sqlite store, so identification tie-breaks behave identically.
func (s *Store) ListEnrolled() ([]*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var enrolled []*domain.User
	for _, u := range s.users {
		if u.HasFingerprint() {
			enrolled = append(enrolled, u)
		}
	}
	sort.Slice(enrolled, func(i, j int) bool { return enrolled[i].ID < enrolled[j].ID })

	return enrolled, nil
}
