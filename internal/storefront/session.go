package storefront

import (
	"errors"
	"fmt"
	"sync"

	"github.com/adyen/shopcheck/internal/models"
	"github.com/google/uuid"
)

// ErrSessionNotFound is returned for an unknown session id
var ErrSessionNotFound = errors.New("session not found")

// Session is one visitor's cart and sign-in state
type Session struct {
	ID       string
	Cart     models.Cart
	Customer string
}

// SignedIn reports whether a customer is attached to the session
func (s *Session) SignedIn() bool {
	return s.Customer != ""
}

// SessionRepository defines the interface for session persistence
type SessionRepository interface {
	CreateSession(shipping models.Amount) (*Session, error)
	GetSession(id string) (*Session, error)
	SaveSession(session *Session) error
}

// MemorySessionStore keeps sessions in process memory
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]Session
}

// NewMemorySessionStore creates an empty store
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: map[string]Session{}}
}

// CreateSession stores a new empty session under a random id
func (s *MemorySessionStore) CreateSession(shipping models.Amount) (*Session, error) {
	session := Session{ID: uuid.NewString(), Cart: models.NewCart(shipping)}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
	return cloneSession(session), nil
}

// GetSession returns a copy of the stored session
func (s *MemorySessionStore) GetSession(id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return cloneSession(session), nil
}

// SaveSession replaces a stored session
func (s *MemorySessionStore) SaveSession(session *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[session.ID]; !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, session.ID)
	}
	s.sessions[session.ID] = *cloneSession(*session)
	return nil
}

func cloneSession(s Session) *Session {
	s.Cart.Items = append([]models.LineItem(nil), s.Cart.Items...)
	return &s
}
