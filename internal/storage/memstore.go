// Package storage provides the in-memory store behind the reference backend.
package storage

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopkart/storefront/internal/domain"
)

var (
	// ErrUserExists is returned when registering an already-taken username
	ErrUserExists = errors.New("username is already taken")

	// ErrUserNotFound is returned when logging in with an unknown username
	ErrUserNotFound = errors.New("username is incorrect")

	// ErrWrongPassword is returned when logging in with a bad password
	ErrWrongPassword = errors.New("password is incorrect")

	// ErrInvalidToken is returned when a token is unknown or expired
	ErrInvalidToken = errors.New("invalid or expired token")

	// ErrProductNotFound is returned when a cart upsert names an unknown product
	ErrProductNotFound = errors.New("product doesn't exist")
)

type user struct {
	username string
	password string
	balance  float64
}

// session is a bearer token with expiration
type session struct {
	username   string
	expiration time.Time
}

// MemStore is a thread-safe in-memory store for products, users, sessions and
// carts. Cart record order is insertion order, which the cart endpoints
// preserve.
type MemStore struct {
	mu           sync.RWMutex
	products     []domain.Product
	users        map[string]user
	sessions     map[string]session
	carts        map[string][]domain.CartRecord
	sessionTTL   time.Duration
	startBalance float64
}

// NewMemStore creates an empty store. Sessions expire after sessionTTL; new
// users start with startBalance in their wallet.
func NewMemStore(sessionTTL time.Duration, startBalance float64) *MemStore {
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}

	s := &MemStore{
		users:        make(map[string]user),
		sessions:     make(map[string]session),
		carts:        make(map[string][]domain.CartRecord),
		sessionTTL:   sessionTTL,
		startBalance: startBalance,
	}

	// Remove expired sessions every 10 minutes
	go s.cleanupExpired()

	return s
}

// SeedProducts replaces the product catalog.
func (s *MemStore) SeedProducts(products []domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = append([]domain.Product(nil), products...)
}

// Products returns the full catalog.
func (s *MemStore) Products() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Product(nil), s.products...)
}

// SearchProducts returns the products whose name or category contains the
// query, case-insensitively. An empty query matches everything.
func (s *MemStore) SearchProducts(query string) []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := strings.ToLower(query)
	out := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		if q == "" || strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.Category), q) {
			out = append(out, p)
		}
	}
	return out
}

// Register creates a new user account.
func (s *MemStore) Register(username, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[username]; exists {
		return ErrUserExists
	}
	s.users[username] = user{username: username, password: password, balance: s.startBalance}
	return nil
}

// Login validates credentials and issues a fresh session token.
func (s *MemStore) Login(username, password string) (domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, exists := s.users[username]
	if !exists {
		return domain.Session{}, ErrUserNotFound
	}
	if u.password != password {
		return domain.Session{}, ErrWrongPassword
	}

	token := uuid.NewString()
	s.sessions[token] = session{username: username, expiration: time.Now().Add(s.sessionTTL)}

	return domain.Session{Token: token, Username: username, Balance: u.balance}, nil
}

// ResolveToken maps a bearer token to its username.
func (s *MemStore) ResolveToken(token string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, exists := s.sessions[token]
	if !exists || time.Now().After(sess.expiration) {
		return "", ErrInvalidToken
	}
	return sess.username, nil
}

// Cart returns the user's cart records in insertion order.
func (s *MemStore) Cart(username string) []domain.CartRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.CartRecord(nil), s.carts[username]...)
}

// UpsertCart creates or updates the record for productID with an absolute
// quantity. Qty 0 (or less) deletes the record. The full updated record set
// is returned.
func (s *MemStore) UpsertCart(username, productID string, qty int) ([]domain.CartRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.productExists(productID) {
		return nil, ErrProductNotFound
	}

	records := s.carts[username]

	idx := -1
	for i, r := range records {
		if r.ProductID == productID {
			idx = i
			break
		}
	}

	switch {
	case qty <= 0 && idx >= 0:
		records = append(records[:idx], records[idx+1:]...)
	case qty <= 0:
		// removing an absent record is a no-op
	case idx >= 0:
		records[idx].Qty = qty
	default:
		records = append(records, domain.CartRecord{ProductID: productID, Qty: qty})
	}

	s.carts[username] = records
	return append([]domain.CartRecord(nil), records...), nil
}

func (s *MemStore) productExists(productID string) bool {
	for _, p := range s.products {
		if p.ID == productID {
			return true
		}
	}
	return false
}

// cleanupExpired removes expired sessions periodically.
func (s *MemStore) cleanupExpired() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		s.mu.Lock()
		now := time.Now()
		for token, sess := range s.sessions {
			if now.After(sess.expiration) {
				delete(s.sessions, token)
			}
		}
		s.mu.Unlock()
	}
}

// DefaultProducts is the catalog the dev server seeds when none is supplied.
func DefaultProducts() []domain.Product {
	return []domain.Product{
		{ID: "v4sLtEcMpzabRyfx", Name: "iPhone XR", Category: "Phones", Cost: 100, Rating: 4, ImageURL: "https://i.imgur.com/lulqWzW.jpg"},
		{ID: "upLK9JbQ4rMhTwt4", Name: "Basketball", Category: "Sports", Cost: 100, Rating: 5, ImageURL: "https://i.imgur.com/lulqWzW.jpg"},
		{ID: "PmInA797xJhMIPti", Name: "Tan Leatherette Weekender Duffle", Category: "Fashion", Cost: 150, Rating: 4, ImageURL: "https://crio-directus-assets.s3.ap-south-1.amazonaws.com/ff071a1c-1099-48f9-9b03-f858ccc53832.png"},
		{ID: "TwMM4OAhmK0VQ93S", Name: "The Minimalist Slim Leather Watch", Category: "Electronics", Cost: 60, Rating: 5, ImageURL: "https://crio-directus-assets.s3.ap-south-1.amazonaws.com/5b478a4a-bf81-467c-964c-1881887799b7.png"},
		{ID: "BW0jAAeDJmlZCF8i", Name: "YONEX Smash Badminton Racquet", Category: "Sports", Cost: 100, Rating: 5, ImageURL: "https://crio-directus-assets.s3.ap-south-1.amazonaws.com/64b930f7-3c82-4a29-a433-dbc6f1493578.png"},
	}
}
