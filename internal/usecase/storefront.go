package usecase

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/shopkart/storefront/internal/domain"
)

// Storefront is the render-facing facade of the client core. It owns the
// three state snapshots — catalog, server cart records and derived cart
// lines — and is their single writer. Every snapshot is replaced wholesale;
// the cart lines are re-resolved synchronously whenever either input changes
// and are never patched in place. Accessors hand out copies, so the rendering
// layer can never observe a snapshot mid-update.
type Storefront struct {
	catalogClient domain.CatalogClient
	auth          domain.AuthClient
	cartSvc       *CartService
	search        *SearchController
	notifier      domain.Notifier

	mu      sync.Mutex
	session domain.Session
	catalog domain.Catalog
	records []domain.CartRecord
	lines   []domain.CartLine

	onChange func()
}

// NewStorefront wires the client core together. debounceDelay 0 selects the
// default search debounce window.
func NewStorefront(
	catalog domain.CatalogClient,
	cart domain.CartClient,
	auth domain.AuthClient,
	notifier domain.Notifier,
	debounceDelay time.Duration,
) *Storefront {
	s := &Storefront{
		catalogClient: catalog,
		auth:          auth,
		cartSvc:       NewCartService(cart, notifier),
		notifier:      notifier,
	}
	s.search = NewSearchController(catalog, notifier, debounceDelay, s.setCatalog)
	return s
}

// SetOnChange registers a callback invoked after every published state
// change. The rendering layer uses it to re-read the view model.
func (s *Storefront) SetOnChange(fn func()) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// Load fetches the full catalog and, when a session is active, the cart of
// record, then publishes the resolved view model. Fetch failures are
// converted to notices and leave the current snapshots untouched.
func (s *Storefront) Load(ctx context.Context) error {
	catalog, err := s.catalogClient.FetchAll(ctx)
	if err != nil {
		s.notifyFetchFailure(err)
		return err
	}

	s.mu.Lock()
	token := s.session.Token
	s.mu.Unlock()

	var records []domain.CartRecord
	if token != "" {
		records, err = s.cartSvc.cart.FetchCart(ctx, token)
		if err != nil {
			s.notifyFetchFailure(err)
			return err
		}
	}

	s.mu.Lock()
	s.catalog = catalog
	s.records = records
	s.lines = ResolveCart(s.records, s.catalog)
	s.mu.Unlock()
	s.publish()
	return nil
}

// HandleSearch is the keystroke handler bound to the search input.
func (s *Storefront) HandleSearch(ctx context.Context, text string) {
	s.search.HandleKeystroke(ctx, text)
}

// SearchText returns the latest typed search text.
func (s *Storefront) SearchText() string {
	return s.search.SearchText()
}

// AddToCart adds a product from the catalog view. Duplicate prevention is on:
// if the product is already in the cart the user is pointed at the sidebar's
// quantity stepper instead of silently bumping the quantity.
func (s *Storefront) AddToCart(ctx context.Context, productID string, qty int) error {
	return s.mutate(ctx, productID, qty, AddOptions{PreventDuplicate: true})
}

// HandleQuantity is the stepper callback bound to the cart sidebar. It sends
// the new absolute quantity, not a delta; qty 0 removes the item.
func (s *Storefront) HandleQuantity(ctx context.Context, productID string, qty int) error {
	return s.mutate(ctx, productID, qty, AddOptions{})
}

func (s *Storefront) mutate(ctx context.Context, productID string, qty int, opts AddOptions) error {
	s.mu.Lock()
	token := s.session.Token
	records := s.records
	catalog := s.catalog
	s.mu.Unlock()

	updated, lines, err := s.cartSvc.AddOrUpdate(ctx, token, records, catalog, productID, qty, opts)
	if err != nil {
		// Prior view model stays published; the mutation never shows as
		// partially applied.
		return err
	}

	s.mu.Lock()
	s.records = updated
	s.lines = lines
	s.mu.Unlock()
	s.publish()
	return nil
}

// Login authenticates against the backend, stores the session and loads the
// user's cart of record.
func (s *Storefront) Login(ctx context.Context, username, password string) error {
	if username == "" {
		s.notifier.Notify(domain.NoticeWarning, "Username is a required field")
		return domain.ErrInvalidRequest
	}
	if password == "" {
		s.notifier.Notify(domain.NoticeWarning, "Password is a required field")
		return domain.ErrInvalidRequest
	}

	session, err := s.auth.Login(ctx, username, password)
	if err != nil {
		if se, ok := domain.AsServerError(err); ok {
			s.notifier.Notify(domain.NoticeError, se.Message)
		} else {
			s.notifier.Notify(domain.NoticeError, noticeFetchFailure)
		}
		return err
	}

	s.mu.Lock()
	s.session = session
	s.mu.Unlock()
	s.notifier.Notify(domain.NoticeSuccess, "Logged in successfully")

	records, err := s.cartSvc.cart.FetchCart(ctx, session.Token)
	if err != nil {
		s.notifyFetchFailure(err)
		return err
	}

	s.mu.Lock()
	s.records = records
	s.lines = ResolveCart(s.records, s.catalog)
	s.mu.Unlock()
	s.publish()
	return nil
}

// Register creates a new account. The caller logs in separately afterwards.
func (s *Storefront) Register(ctx context.Context, username, password string) error {
	if username == "" {
		s.notifier.Notify(domain.NoticeWarning, "Username is a required field")
		return domain.ErrInvalidRequest
	}
	if password == "" {
		s.notifier.Notify(domain.NoticeWarning, "Password is a required field")
		return domain.ErrInvalidRequest
	}

	if err := s.auth.Register(ctx, username, password); err != nil {
		if se, ok := domain.AsServerError(err); ok {
			s.notifier.Notify(domain.NoticeError, se.Message)
		} else {
			s.notifier.Notify(domain.NoticeError, noticeFetchFailure)
		}
		return err
	}

	s.notifier.Notify(domain.NoticeSuccess, "Registered successfully")
	return nil
}

// Logout drops the session and the cart view.
func (s *Storefront) Logout() {
	s.mu.Lock()
	s.session = domain.Session{}
	s.records = nil
	s.lines = nil
	s.mu.Unlock()
	s.publish()
}

// Session returns the current session; a zero token means logged out.
func (s *Storefront) Session() domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

// Catalog returns a copy of the current catalog snapshot.
func (s *Storefront) Catalog() domain.Catalog {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(domain.Catalog, len(s.catalog))
	copy(out, s.catalog)
	return out
}

// Lines returns a copy of the current cart-line view model.
func (s *Storefront) Lines() []domain.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.CartLine, len(s.lines))
	copy(out, s.lines)
	return out
}

// setCatalog is the search controller's publish target: the catalog is
// replaced wholesale and the cart lines are re-resolved against it, hiding
// lines whose product fell outside the filtered view.
func (s *Storefront) setCatalog(catalog domain.Catalog) {
	s.mu.Lock()
	s.catalog = catalog
	s.lines = ResolveCart(s.records, s.catalog)
	s.mu.Unlock()
	s.publish()
}

func (s *Storefront) publish() {
	s.mu.Lock()
	fn := s.onChange
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (s *Storefront) notifyFetchFailure(err error) {
	if se, ok := domain.AsServerError(err); ok && se.Status == http.StatusNotFound {
		s.notifier.Notify(domain.NoticeError, se.Message)
		return
	}
	s.notifier.Notify(domain.NoticeError, noticeFetchFailure)
}
