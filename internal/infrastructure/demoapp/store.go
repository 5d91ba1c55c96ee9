package demoapp

import (
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"reactapp-uitests/internal/domain/entity"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

// Store keeps accounts and sessions in memory.
type Store struct {
	cost int

	mu       sync.RWMutex
	users    map[string][]byte
	sessions map[string]string
}

// NewStore hashes passwords with cost; 0 means bcrypt.DefaultCost.
func NewStore(cost int) *Store {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Store{
		cost:     cost,
		users:    make(map[string][]byte),
		sessions: make(map[string]string),
	}
}

// AddUser registers email. Emails compare case-insensitively.
func (s *Store) AddUser(email, password string) error {
	key := normalize(email)
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[key]; exists {
		return entity.ErrDuplicateRegistration
	}
	s.users[key] = hash
	return nil
}

func (s *Store) Authenticate(email, password string) error {
	s.mu.RLock()
	hash, ok := s.users[normalize(email)]
	s.mu.RUnlock()
	if !ok {
		return ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

func (s *Store) HasUser(email string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.users[normalize(email)]
	return ok
}

func (s *Store) StartSession(email string) string {
	token := uuid.New().String()
	s.mu.Lock()
	s.sessions[token] = normalize(email)
	s.mu.Unlock()
	return token
}

func (s *Store) SessionUser(token string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	email, ok := s.sessions[token]
	return email, ok
}

func (s *Store) EndSession(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

func (s *Store) ActiveSessions() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
