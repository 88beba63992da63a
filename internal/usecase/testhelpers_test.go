package usecase

import (
	"context"
	"strings"
	"sync"

	"github.com/shopkart/storefront/internal/domain"
)

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// recordingNotifier captures notices for assertions.
type recordingNotifier struct {
	mu      sync.Mutex
	notices []string
	levels  []domain.NoticeLevel
}

func (n *recordingNotifier) Notify(level domain.NoticeLevel, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.levels = append(n.levels, level)
	n.notices = append(n.notices, message)
}

func (n *recordingNotifier) messages() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.notices))
	copy(out, n.notices)
	return out
}

func (n *recordingNotifier) last() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.notices) == 0 {
		return ""
	}
	return n.notices[len(n.notices)-1]
}

// fakeCartClient counts calls and returns canned record sets or errors.
type fakeCartClient struct {
	mu          sync.Mutex
	fetchCalls  int
	upsertCalls int
	records     []domain.CartRecord
	fetchErr    error
	upsertErr   error

	// lastUpsert captures the most recent upsert arguments
	lastToken     string
	lastProductID string
	lastQty       int
}

func (f *fakeCartClient) FetchCart(ctx context.Context, token string) ([]domain.CartRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchCalls++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.records, nil
}

func (f *fakeCartClient) UpsertCart(ctx context.Context, token, productID string, qty int) ([]domain.CartRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upsertCalls++
	f.lastToken = token
	f.lastProductID = productID
	f.lastQty = qty
	if f.upsertErr != nil {
		return nil, f.upsertErr
	}
	return f.records, nil
}

func (f *fakeCartClient) upserts() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.upsertCalls
}

// fakeCatalogClient serves a canned catalog and records search queries.
type fakeCatalogClient struct {
	mu       sync.Mutex
	catalog  domain.Catalog
	err      error
	queries  []string
	allCalls int

	// block, when non-nil, is received from before a FetchFiltered call
	// returns; it lets tests hold a response in flight.
	block chan struct{}
}

func (f *fakeCatalogClient) FetchAll(ctx context.Context) (domain.Catalog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.allCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.catalog, nil
}

func (f *fakeCatalogClient) FetchFiltered(ctx context.Context, query string) (domain.Catalog, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	err := f.err
	catalog := f.catalog
	block := f.block
	f.mu.Unlock()

	if block != nil {
		<-block
	}
	if err != nil {
		return nil, err
	}

	// Filter the canned catalog by name substring, mimicking the backend
	filtered := domain.Catalog{}
	for _, p := range catalog {
		if query == "" || containsFold(p.Name, query) || containsFold(p.Category, query) {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

func (f *fakeCatalogClient) searchQueries() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.queries))
	copy(out, f.queries)
	return out
}

// fakeAuthClient returns a canned session.
type fakeAuthClient struct {
	session     domain.Session
	loginErr    error
	registerErr error
}

func (f *fakeAuthClient) Login(ctx context.Context, username, password string) (domain.Session, error) {
	if f.loginErr != nil {
		return domain.Session{}, f.loginErr
	}
	return f.session, nil
}

func (f *fakeAuthClient) Register(ctx context.Context, username, password string) error {
	return f.registerErr
}
