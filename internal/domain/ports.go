package domain

import "context"

// CatalogClient defines the read operations against the product catalog
// endpoints. Every call hits the backend; there is no caching layer.
type CatalogClient interface {
	FetchAll(ctx context.Context) (Catalog, error)
	FetchFiltered(ctx context.Context, query string) (Catalog, error)
}

// CartClient defines the operations against the cart-of-record endpoints.
// The token is passed explicitly on every call, never read from ambient
// state. UpsertCart with qty 0 removes the record; both mutating and reading
// calls return the full authoritative record set.
type CartClient interface {
	FetchCart(ctx context.Context, token string) ([]CartRecord, error)
	UpsertCart(ctx context.Context, token, productID string, qty int) ([]CartRecord, error)
}

// AuthClient defines the registration and login operations.
type AuthClient interface {
	Register(ctx context.Context, username, password string) error
	Login(ctx context.Context, username, password string) (Session, error)
}

// NoticeLevel classifies user-visible notices, mirroring the severity
// variants of the rendering layer's toast component.
type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeWarning NoticeLevel = "warning"
	NoticeError   NoticeLevel = "error"
)

// Notifier receives user-visible transient notices. Errors detected by the
// client core are recovered at the component boundary and converted into
// notices; they never propagate into the view.
type Notifier interface {
	Notify(level NoticeLevel, message string)
}
