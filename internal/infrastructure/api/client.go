package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/shopkart/storefront/internal/domain"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Client handles communication with the storefront REST backend. It is the
// only component that touches the network; callers receive domain values or
// domain errors and never see transport details.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	rateLimiter *rate.Limiter
	debug       bool
}

// Options configures a Client.
type Options struct {
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
}

// NewClient creates a new storefront API client for the given base URL
// (e.g. "http://localhost:8082/api/v1").
func NewClient(baseURL string, opts Options) *Client {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	rps := opts.RequestsPerSecond
	if rps <= 0 {
		rps = 10
	}
	burst := opts.Burst
	if burst <= 0 {
		burst = 20
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:     baseURL,
		rateLimiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// SetDebug toggles request/response logging.
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// errorBody is the structured failure payload the backend sends with non-2xx
// responses.
type errorBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// FetchAll retrieves the unfiltered product list.
func (c *Client) FetchAll(ctx context.Context) (domain.Catalog, error) {
	var catalog domain.Catalog
	if err := c.get(ctx, c.baseURL+"/products", "", &catalog); err != nil {
		return nil, catalogNotFound(err)
	}
	if c.debug {
		logrus.WithField("count", len(catalog)).Debug("fetched product catalog")
	}
	return catalog, nil
}

// FetchFiltered retrieves the product list filtered by a free-text query. An
// empty result set is a valid response, not an error; the query string is
// passed through as typed, including the empty string.
func (c *Client) FetchFiltered(ctx context.Context, query string) (domain.Catalog, error) {
	reqURL := fmt.Sprintf("%s/products/search?value=%s", c.baseURL, url.QueryEscape(query))

	var catalog domain.Catalog
	if err := c.get(ctx, reqURL, "", &catalog); err != nil {
		return nil, catalogNotFound(err)
	}
	if c.debug {
		logrus.WithFields(logrus.Fields{"query": query, "count": len(catalog)}).Debug("fetched filtered catalog")
	}
	return catalog, nil
}

// FetchCart retrieves the authenticated user's cart records.
func (c *Client) FetchCart(ctx context.Context, token string) ([]domain.CartRecord, error) {
	var records []domain.CartRecord
	if err := c.get(ctx, c.baseURL+"/cart", token, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// UpsertCart creates or updates the cart record for productID. A qty of 0
// removes the record. The backend responds with the full updated record set,
// which is the authoritative cart state after the mutation.
func (c *Client) UpsertCart(ctx context.Context, token, productID string, qty int) ([]domain.CartRecord, error) {
	payload := domain.CartRecord{ProductID: productID, Qty: qty}

	var records []domain.CartRecord
	if err := c.post(ctx, c.baseURL+"/cart", token, payload, &records); err != nil {
		return nil, err
	}
	if c.debug {
		logrus.WithFields(logrus.Fields{"productId": productID, "qty": qty}).Debug("cart upserted")
	}
	return records, nil
}

// Login authenticates the user and returns the session the backend issued.
func (c *Client) Login(ctx context.Context, username, password string) (domain.Session, error) {
	payload := map[string]string{"username": username, "password": password}

	var session domain.Session
	if err := c.post(ctx, c.baseURL+"/auth/login", "", payload, &session); err != nil {
		return domain.Session{}, err
	}
	return session, nil
}

// Register creates a new user account.
func (c *Client) Register(ctx context.Context, username, password string) error {
	payload := map[string]string{"username": username, "password": password}
	return c.post(ctx, c.baseURL+"/auth/register", "", payload, nil)
}

// get executes a GET request and decodes a 2xx response body into out.
func (c *Client) get(ctx context.Context, reqURL, token string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	return c.do(req, token, out)
}

// post executes a POST request with a JSON body and decodes a 2xx response
// body into out (out may be nil when the body is irrelevant).
func (c *Client) post(ctx context.Context, reqURL, token string, body, out interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, token, out)
}

// do executes the request with rate limiting, bearer credentials and error
// mapping. No request is retried: a failed call surfaces immediately so the
// caller can keep its previous state.
func (c *Client) do(req *http.Request, token string, out interface{}) error {
	if err := c.rateLimiter.Wait(req.Context()); err != nil {
		return fmt.Errorf("rate limiter error: %w", err)
	}

	req.Header.Set("User-Agent", "storefront/1.0")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	if c.debug {
		logrus.WithFields(logrus.Fields{"method": req.Method, "url": req.URL.String()}).Debug("backend request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrBackendUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.decodeError(resp)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// decodeError maps a non-2xx response to a domain.ServerError carrying the
// message field of the structured body when present, falling back to the
// transport status text.
func (c *Client) decodeError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var eb errorBody
	message := http.StatusText(resp.StatusCode)
	if err := json.Unmarshal(body, &eb); err == nil && eb.Message != "" {
		message = eb.Message
	}

	if c.debug {
		logrus.WithFields(logrus.Fields{"status": resp.StatusCode, "body": string(body)}).Debug("backend error response")
	}

	return &domain.ServerError{Status: resp.StatusCode, Message: message}
}

// catalogNotFound rewrites a 404 from the catalog endpoints to the bare
// transport status text. The backend answers a no-match search with 404 and a
// structured body, but the caller renders that as an empty catalog, so the
// body message is not surfaced. Cart and auth errors keep their body message.
func catalogNotFound(err error) error {
	if se, ok := domain.AsServerError(err); ok && se.Status == http.StatusNotFound {
		return &domain.ServerError{Status: se.Status, Message: http.StatusText(se.Status)}
	}
	return err
}
