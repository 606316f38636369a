// Package accounts stores portal user profiles and renders the user
// context line shown to the assistant.
package accounts

import (
	"errors"
	"strings"
	"sync"

	"github.com/atu-portal/assistant/internal/i18n"
)

// ErrUserNotFound indicates no profile exists under the given name.
var ErrUserNotFound = errors.New("user not found")

// User is one portal profile.
type User struct {
	Name    string `json:"name"`
	Group   string `json:"group"`
	Program string `json:"program"`
}

// Store keeps user profiles and tracks the active session user.
type Store interface {
	Get(name string) (User, error)
	Update(user User) error
	Current() (User, bool)
	SetCurrent(name string) error
}

// FloorLabelReader reports the active elevator floor label, a portal UI
// detail surfaced in the profile summary.
type FloorLabelReader interface {
	FloorLabel() (string, bool)
}

// MemoryStore is an in-memory Store.
type MemoryStore struct {
	mu      sync.RWMutex
	users   map[string]User
	current string
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[string]User)}
}

func (s *MemoryStore) Get(name string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[strings.ToLower(name)]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return u, nil
}

func (s *MemoryStore) Update(user User) error {
	if strings.TrimSpace(user.Name) == "" {
		return errors.New("user name is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[strings.ToLower(user.Name)] = user
	return nil
}

// Current returns the active session user, false when browsing as a guest.
func (s *MemoryStore) Current() (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == "" {
		return User{}, false
	}
	u, ok := s.users[s.current]
	return u, ok
}

// SetCurrent switches the active user. An empty name switches to guest.
func (s *MemoryStore) SetCurrent(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if name == "" {
		s.current = ""
		return nil
	}
	key := strings.ToLower(name)
	if _, ok := s.users[key]; !ok {
		return ErrUserNotFound
	}
	s.current = key
	return nil
}

// UserContext renders the one-line user context passed alongside chat
// messages. floor may be nil when the portal UI state is not available.
func UserContext(store Store, floor FloorLabelReader) string {
	u, ok := store.Current()
	if !ok || strings.TrimSpace(u.Name) == "" {
		return i18n.T("user.guest")
	}
	return i18n.Sprintf("user.named", u.Name)
}

// ProfileSummary renders the multi-line profile reply for the current
// user, with localized placeholders for missing fields.
func ProfileSummary(store Store, floor FloorLabelReader) string {
	u, _ := store.Current()

	name := orDefault(u.Name, "user.no_name")
	group := orDefault(u.Group, "user.no_group")
	program := orDefault(u.Program, "user.no_program")

	floorLabel := i18n.T("user.no_floor")
	if floor != nil {
		if label, ok := floor.FloorLabel(); ok {
			floorLabel = label
		}
	}

	return i18n.Sprintf("user.profile", name, group, program, floorLabel)
}

func orDefault(value, key string) string {
	if strings.TrimSpace(value) == "" {
		return i18n.T(key)
	}
	return value
}
