package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/oshokin/authkeeper/internal/logger"
	"github.com/oshokin/authkeeper/internal/storage"
)

// Store holds the current session and mirrors it into durable storage.
// It is safe for concurrent use.
type Store struct {
	storage storage.Storage

	mu           sync.RWMutex
	user         *User
	accessToken  string
	refreshToken string
	subscribers  map[uint64]chan *User
	nextID       uint64
}

// NewStore creates a store and hydrates it from st.
// The user is restored only when an access token is stored alongside it.
// A stored user that cannot be decoded is logged and ignored.
func NewStore(ctx context.Context, st storage.Storage) (*Store, error) {
	s := &Store{
		storage:     st,
		subscribers: make(map[uint64]chan *User),
	}

	if err := s.hydrate(ctx); err != nil {
		return nil, err
	}

	return s, nil
}

// CurrentUser returns a copy of the current user, or nil.
func (s *Store) CurrentUser() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.user.Clone()
}

// Token returns the access token, or an empty string.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.accessToken
}

// RefreshToken returns the refresh token, or an empty string.
func (s *Store) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.refreshToken
}

// IsLoggedIn reports whether both a user and an access token are present.
func (s *Store) IsLoggedIn() bool {
	return s.Snapshot().IsLoggedIn()
}

// IsAdmin reports whether the current user has the admin role.
func (s *Store) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.user.IsAdmin()
}

// Snapshot returns a copy of the whole session.
func (s *Store) Snapshot() *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return &Session{
		User:         s.user.Clone(),
		AccessToken:  s.accessToken,
		RefreshToken: s.refreshToken,
	}
}

// SetSession replaces the user and both tokens in one in-memory step.
func (s *Store) SetSession(ctx context.Context, user *User, accessToken, refreshToken string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = user.Clone()
	s.accessToken = accessToken
	s.refreshToken = refreshToken

	s.persistUser(ctx)
	s.persistSlot(ctx, KeyToken, accessToken)
	s.persistSlot(ctx, KeyRefreshToken, refreshToken)
	s.publish()
}

// SetUser replaces the user and leaves the tokens untouched.
func (s *Store) SetUser(ctx context.Context, user *User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = user.Clone()

	s.persistUser(ctx)
	s.publish()
}

// SetAccessToken replaces only the access token.
func (s *Store) SetAccessToken(ctx context.Context, accessToken string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.accessToken = accessToken

	s.persistSlot(ctx, KeyToken, accessToken)
	s.publish()
}

// Clear removes the user and both tokens and notifies subscribers with nil.
// Storage failures are logged; Clear itself never fails.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = nil
	s.accessToken = ""
	s.refreshToken = ""

	for _, key := range []string{KeyCurrentUser, KeyToken, KeyRefreshToken} {
		if err := s.storage.Remove(ctx, key); err != nil {
			logger.WarnKV(ctx, "Failed to remove session slot", "key", key, "error", err)
		}
	}

	s.publish()
}

// Subscribe returns a channel that immediately holds the current user and
// afterwards receives the user after every mutation (nil after logout).
// A subscriber that falls behind only sees the newest value.
// The returned function unsubscribes and closes the channel.
func (s *Store) Subscribe() (<-chan *User, func()) {
	ch := make(chan *User, 1)

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subscribers[id] = ch
	ch <- s.user.Clone()
	s.mu.Unlock()

	var once sync.Once

	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subscribers, id)
			close(ch)
			s.mu.Unlock()
		})
	}

	return ch, cancel
}

// publish must be called with mu held.
func (s *Store) publish() {
	for _, ch := range s.subscribers {
		// Drop the stale value so the send below cannot block.
		select {
		case <-ch:
		default:
		}

		ch <- s.user.Clone()
	}
}

// persistUser must be called with mu held.
func (s *Store) persistUser(ctx context.Context) {
	if s.user == nil {
		if err := s.storage.Remove(ctx, KeyCurrentUser); err != nil {
			logger.WarnKV(ctx, "Failed to remove session slot", "key", KeyCurrentUser, "error", err)
		}

		return
	}

	encoded, err := json.Marshal(s.user)
	if err != nil {
		logger.WarnKV(ctx, "Failed to encode user", "error", err)

		return
	}

	s.persistSlot(ctx, KeyCurrentUser, string(encoded))
}

// persistSlot must be called with mu held.
func (s *Store) persistSlot(ctx context.Context, key, value string) {
	if err := s.storage.Set(ctx, key, value); err != nil {
		logger.WarnKV(ctx, "Failed to persist session slot", "key", key, "error", err)
	}
}

func (s *Store) hydrate(ctx context.Context) error {
	accessToken, _, err := s.storage.Get(ctx, KeyToken)
	if err != nil {
		return fmt.Errorf("failed to load access token: %w", err)
	}

	refreshToken, _, err := s.storage.Get(ctx, KeyRefreshToken)
	if err != nil {
		return fmt.Errorf("failed to load refresh token: %w", err)
	}

	encodedUser, hasUser, err := s.storage.Get(ctx, KeyCurrentUser)
	if err != nil {
		return fmt.Errorf("failed to load current user: %w", err)
	}

	s.accessToken = accessToken
	s.refreshToken = refreshToken

	if !hasUser || accessToken == "" {
		return nil
	}

	var user User
	if err = json.Unmarshal([]byte(encodedUser), &user); err != nil {
		logger.WarnKV(ctx, "Ignoring unreadable stored user", "error", err)

		return nil
	}

	s.user = &user

	return nil
}
