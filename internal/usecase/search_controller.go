package usecase

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/shopkart/storefront/internal/domain"
)

// DefaultDebounceDelay is the quiescence window used when no delay is
// configured.
const DefaultDebounceDelay = 500 * time.Millisecond

// SearchController turns a stream of keystroke events into at most one
// settled search per quiescence window. The displayed text tracks every
// keystroke immediately; only the network call is delayed. A burst of N
// keystrokes within the delay produces exactly one request, fired one delay
// after the last keystroke, carrying the text as of that keystroke.
//
// Each keystroke advances a sequence number and the fired request carries the
// number it was scheduled under. A response whose number no longer matches is
// discarded, so a slow response for an old query can never overwrite the
// result of a newer one.
type SearchController struct {
	catalog  domain.CatalogClient
	notifier domain.Notifier
	apply    func(domain.Catalog)
	delay    time.Duration

	mu           sync.Mutex
	pendingTimer *time.Timer
	searchText   string
	seq          uint64
}

// NewSearchController creates a search controller. apply is invoked with the
// result catalog of every settled, non-stale search; delay 0 selects
// DefaultDebounceDelay.
func NewSearchController(catalog domain.CatalogClient, notifier domain.Notifier, delay time.Duration, apply func(domain.Catalog)) *SearchController {
	if delay <= 0 {
		delay = DefaultDebounceDelay
	}
	return &SearchController{
		catalog:  catalog,
		notifier: notifier,
		apply:    apply,
		delay:    delay,
	}
}

// HandleKeystroke records the new search text, invalidates any pending
// delayed search, and schedules a fresh one. An empty text is a legal query
// and is passed to the backend unmodified.
func (c *SearchController) HandleKeystroke(ctx context.Context, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.searchText = text

	if c.pendingTimer != nil {
		c.pendingTimer.Stop()
	}

	c.seq++
	seq := c.seq
	c.pendingTimer = time.AfterFunc(c.delay, func() {
		c.fire(ctx, text, seq)
	})
}

// SearchText returns the latest raw input, which the rendering layer shows
// without delay.
func (c *SearchController) SearchText() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.searchText
}

// fire runs the settled search and publishes its result unless a newer
// keystroke superseded it while the request was in flight.
func (c *SearchController) fire(ctx context.Context, text string, seq uint64) {
	result, err := c.catalog.FetchFiltered(ctx, text)

	if c.stale(seq) {
		return
	}

	if err != nil {
		if se, ok := domain.AsServerError(err); ok && se.Status == http.StatusNotFound {
			// No match path on the backend: surface its status text and show
			// an empty catalog, which renders as "no products found".
			c.notifier.Notify(domain.NoticeError, se.Message)
			c.apply(domain.Catalog{})
			return
		}
		// Leave the current catalog in place on other failures.
		c.notifier.Notify(domain.NoticeError, noticeFetchFailure)
		return
	}

	c.apply(result)
}

func (c *SearchController) stale(seq uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return seq != c.seq
}
