package onboarding

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Code is an issued one-time password. Only its hash is kept.
type Code struct {
	Phone     string    `json:"phone"`
	Hash      []byte    `json:"hash"`
	ExpiresAt time.Time `json:"expires_at"`
	Attempts  int       `json:"attempts"`
}

// Matches reports whether plain is the code that was issued
func (c *Code) Matches(plain string) bool {
	return bcrypt.CompareHashAndPassword(c.Hash, []byte(plain)) == nil
}

// CodeStore holds at most one outstanding code per key.
//
// Take removes and returns the code in one atomic step so a code can be
// consumed only once. Restore puts a code back only if no newer code was
// stored in the meantime.
type CodeStore interface {
	Put(ctx context.Context, key string, code Code) error
	Take(ctx context.Context, key string) (*Code, error)
	Restore(ctx context.Context, key string, code Code) error
}

// newCode generates a 6-digit code and its bcrypt hash
func newCode(phone string, ttl time.Duration, now time.Time) (string, Code, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", Code{}, fmt.Errorf("failed to generate code: %w", err)
	}
	plain := fmt.Sprintf("%06d", n.Int64())

	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", Code{}, fmt.Errorf("failed to hash code: %w", err)
	}
	return plain, Code{Phone: phone, Hash: hash, ExpiresAt: now.Add(ttl)}, nil
}

// MemoryCodeStore is a CodeStore for a single process
type MemoryCodeStore struct {
	mu    sync.Mutex
	codes map[string]Code
}

// NewMemoryCodeStore creates an empty in-memory code store
func NewMemoryCodeStore() *MemoryCodeStore {
	return &MemoryCodeStore{codes: make(map[string]Code)}
}

func (m *MemoryCodeStore) Put(_ context.Context, key string, code Code) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.codes[key] = code
	return nil
}

func (m *MemoryCodeStore) Take(_ context.Context, key string) (*Code, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	code, ok := m.codes[key]
	if !ok {
		return nil, nil
	}
	delete(m.codes, key)
	return &code, nil
}

func (m *MemoryCodeStore) Restore(_ context.Context, key string, code Code) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.codes[key]; !ok {
		m.codes[key] = code
	}
	return nil
}
