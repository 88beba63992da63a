package usecase

import (
	"context"

	"github.com/shopkart/storefront/internal/domain"
)

// User-visible notice strings. The backend's structured error messages are
// surfaced verbatim; these cover the failures the client detects itself.
const (
	noticeLoginRequired = "Login to add an item to the Cart"
	noticeDuplicateItem = "Item already in cart. Use the cart sidebar to update quantity or remove item."
	noticeCartFailure   = "Could not update cart. Check that the backend is running, reachable and returns valid JSON."
	noticeFetchFailure  = "Something went wrong. Check that the backend is running, reachable and returns valid JSON."
)

// AddOptions controls the business rules applied by AddOrUpdate.
type AddOptions struct {
	// PreventDuplicate rejects the call when the product already has a cart
	// record with a positive quantity. "Add to Cart" buttons set this so they
	// never silently bump quantity; the cart sidebar's stepper does not.
	PreventDuplicate bool
}

// CartService orchestrates cart mutations against the backend. It applies
// the client-side business rules, issues the upsert, and re-derives the
// cart-line view model from the record set the backend returns. The client
// never computes quantities locally: after any successful mutation the server
// cart set is the source of truth.
type CartService struct {
	cart     domain.CartClient
	notifier domain.Notifier
}

// NewCartService creates a cart service using the given cart client.
func NewCartService(cart domain.CartClient, notifier domain.Notifier) *CartService {
	return &CartService{cart: cart, notifier: notifier}
}

// AddOrUpdate creates or updates the cart record for productID with an
// absolute quantity; qty 0 removes the record. The token, current records and
// catalog are passed in explicitly, never read from ambient state.
//
// On success it returns the authoritative record set from the backend and the
// cart lines resolved against catalog. On any failure it returns an error
// after emitting a user notice; the caller must keep its previous view model
// so a mutation never appears partially applied.
func (s *CartService) AddOrUpdate(
	ctx context.Context,
	token string,
	records []domain.CartRecord,
	catalog domain.Catalog,
	productID string,
	qty int,
	opts AddOptions,
) ([]domain.CartRecord, []domain.CartLine, error) {
	if token == "" {
		s.notifier.Notify(domain.NoticeWarning, noticeLoginRequired)
		return nil, nil, domain.ErrAuthRequired
	}

	if opts.PreventDuplicate && domain.HasItem(records, productID) {
		s.notifier.Notify(domain.NoticeWarning, noticeDuplicateItem)
		return nil, nil, domain.ErrDuplicateItem
	}

	updated, err := s.cart.UpsertCart(ctx, token, productID, qty)
	if err != nil {
		if se, ok := domain.AsServerError(err); ok {
			s.notifier.Notify(domain.NoticeError, se.Message)
		} else {
			s.notifier.Notify(domain.NoticeError, noticeCartFailure)
		}
		return nil, nil, err
	}

	return updated, ResolveCart(updated, catalog), nil
}
