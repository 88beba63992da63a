package usecase

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/shopkart/storefront/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// applied collects catalogs published by the controller.
type applied struct {
	mu       sync.Mutex
	catalogs []domain.Catalog
}

func (a *applied) apply(c domain.Catalog) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.catalogs = append(a.catalogs, c)
}

func (a *applied) count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.catalogs)
}

func (a *applied) last() domain.Catalog {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.catalogs) == 0 {
		return nil
	}
	return a.catalogs[len(a.catalogs)-1]
}

func TestHandleKeystroke_UpdatesSearchTextImmediately(t *testing.T) {
	catalog := &fakeCatalogClient{}
	out := &applied{}
	ctrl := NewSearchController(catalog, &recordingNotifier{}, time.Hour, out.apply)

	ctrl.HandleKeystroke(context.Background(), "a")
	assert.Equal(t, "a", ctrl.SearchText())

	ctrl.HandleKeystroke(context.Background(), "ap")
	assert.Equal(t, "ap", ctrl.SearchText())

	// Nothing fired: the delay has not elapsed
	assert.Empty(t, catalog.searchQueries())
	assert.Equal(t, 0, out.count())
}

func TestHandleKeystroke_CoalescesBurstIntoOneSearch(t *testing.T) {
	catalog := &fakeCatalogClient{catalog: testCatalog}
	out := &applied{}
	ctrl := NewSearchController(catalog, &recordingNotifier{}, 200*time.Millisecond, out.apply)

	ctx := context.Background()
	ctrl.HandleKeystroke(ctx, "b")
	time.Sleep(50 * time.Millisecond)
	ctrl.HandleKeystroke(ctx, "ba")
	time.Sleep(50 * time.Millisecond)
	ctrl.HandleKeystroke(ctx, "bal")

	// Well before the final keystroke settles: no call yet
	time.Sleep(100 * time.Millisecond)
	assert.Empty(t, catalog.searchQueries())

	// One delay after the last keystroke: exactly one call with its text
	require.Eventually(t, func() bool { return out.count() == 1 }, time.Second, 10*time.Millisecond)
	queries := catalog.searchQueries()
	require.Len(t, queries, 1)
	assert.Equal(t, "bal", queries[0])

	last := out.last()
	require.Len(t, last, 1)
	assert.Equal(t, "Ball", last[0].Name)
}

func TestHandleKeystroke_SeparateBurstsFireSeparately(t *testing.T) {
	catalog := &fakeCatalogClient{catalog: testCatalog}
	out := &applied{}
	ctrl := NewSearchController(catalog, &recordingNotifier{}, 30*time.Millisecond, out.apply)

	ctx := context.Background()
	ctrl.HandleKeystroke(ctx, "ball")
	require.Eventually(t, func() bool { return out.count() == 1 }, time.Second, 5*time.Millisecond)

	ctrl.HandleKeystroke(ctx, "phone")
	require.Eventually(t, func() bool { return out.count() == 2 }, time.Second, 5*time.Millisecond)

	assert.Equal(t, []string{"ball", "phone"}, catalog.searchQueries())
}

func TestHandleKeystroke_EmptyQueryIsLegal(t *testing.T) {
	catalog := &fakeCatalogClient{catalog: testCatalog}
	out := &applied{}
	ctrl := NewSearchController(catalog, &recordingNotifier{}, 20*time.Millisecond, out.apply)

	ctrl.HandleKeystroke(context.Background(), "")

	require.Eventually(t, func() bool { return out.count() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{""}, catalog.searchQueries())
	assert.Len(t, out.last(), len(testCatalog), "empty query is passed through, backend decides its meaning")
}

func TestFire_StaleResponseIsDiscarded(t *testing.T) {
	block := make(chan struct{})
	catalog := &fakeCatalogClient{catalog: testCatalog, block: block}
	out := &applied{}
	ctrl := NewSearchController(catalog, &recordingNotifier{}, 20*time.Millisecond, out.apply)

	ctx := context.Background()

	// First search fires and its response is held in flight.
	ctrl.HandleKeystroke(ctx, "ball")
	require.Eventually(t, func() bool { return len(catalog.searchQueries()) == 1 }, time.Second, 5*time.Millisecond)

	// A newer keystroke supersedes it while the response is pending.
	ctrl.HandleKeystroke(ctx, "phone")

	// Release the stale response, then the fresh one.
	block <- struct{}{}
	block <- struct{}{}

	require.Eventually(t, func() bool { return out.count() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"ball", "phone"}, catalog.searchQueries())

	last := out.last()
	require.Len(t, last, 1)
	assert.Equal(t, "iPhone XR", last[0].Name, "only the newest keystroke's result may be applied")

	// Give the stale goroutine a chance to misbehave; nothing further is applied.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, out.count())
}

func TestFire_NotFoundShowsEmptyCatalogWithStatusText(t *testing.T) {
	catalog := &fakeCatalogClient{err: &domain.ServerError{Status: http.StatusNotFound, Message: "Not Found"}}
	notifier := &recordingNotifier{}
	out := &applied{}
	ctrl := NewSearchController(catalog, notifier, 20*time.Millisecond, out.apply)

	ctrl.HandleKeystroke(context.Background(), "zzz")

	require.Eventually(t, func() bool { return out.count() == 1 }, time.Second, 5*time.Millisecond)
	assert.Empty(t, out.last(), "no match path renders as an empty catalog")
	assert.Equal(t, "Not Found", notifier.last())
}

func TestFire_OtherFailuresLeaveCatalogUntouched(t *testing.T) {
	catalog := &fakeCatalogClient{err: domain.ErrBackendUnreachable}
	notifier := &recordingNotifier{}
	out := &applied{}
	ctrl := NewSearchController(catalog, notifier, 20*time.Millisecond, out.apply)

	ctrl.HandleKeystroke(context.Background(), "ball")

	require.Eventually(t, func() bool { return notifier.last() != "" }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 0, out.count(), "a failed search must not replace the catalog")
	assert.Equal(t, noticeFetchFailure, notifier.last())
}

func TestNewSearchController_DefaultDelay(t *testing.T) {
	ctrl := NewSearchController(&fakeCatalogClient{}, &recordingNotifier{}, 0, func(domain.Catalog) {})
	assert.Equal(t, DefaultDebounceDelay, ctrl.delay)
}
