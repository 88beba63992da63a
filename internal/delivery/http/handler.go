package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopkart/storefront/internal/domain"
	"github.com/shopkart/storefront/internal/storage"
)

// Handler holds dependencies for the reference backend's HTTP handlers.
type Handler struct {
	store *storage.MemStore
}

// NewHandler creates a new HTTP handler backed by the given store.
func NewHandler(store *storage.MemStore) *Handler {
	return &Handler{store: store}
}

// credentials is the request body of the auth endpoints.
type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// failure writes the backend's structured error payload.
func failure(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "storefront-backend",
		"version": "1.0.0",
	})
}

// ListProducts handles GET /products: the unfiltered catalog.
func (h *Handler) ListProducts(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Products())
}

// SearchProducts handles GET /products/search?value=<text>. When nothing
// matches it answers 404, which clients render as "no products found".
func (h *Handler) SearchProducts(c *gin.Context) {
	query := c.Query("value")

	results := h.store.SearchProducts(query)
	if len(results) == 0 {
		failure(c, http.StatusNotFound, "No products found")
		return
	}
	c.JSON(http.StatusOK, results)
}

// GetCart handles GET /cart for the authenticated user.
func (h *Handler) GetCart(c *gin.Context) {
	username := c.GetString(usernameKey)
	c.JSON(http.StatusOK, h.store.Cart(username))
}

// UpsertCart handles POST /cart: create or update one record with an absolute
// quantity, qty 0 removing it. The full updated record set is returned so the
// client can treat the response as the authoritative cart state.
func (h *Handler) UpsertCart(c *gin.Context) {
	username := c.GetString(usernameKey)

	var record domain.CartRecord
	if err := c.ShouldBindJSON(&record); err != nil {
		failure(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if record.ProductID == "" {
		failure(c, http.StatusBadRequest, "productId is required")
		return
	}

	records, err := h.store.UpsertCart(username, record.ProductID, record.Qty)
	if err != nil {
		if errors.Is(err, storage.ErrProductNotFound) {
			failure(c, http.StatusNotFound, "Product doesn't exist")
			return
		}
		failure(c, http.StatusInternalServerError, "Something went wrong in the backend")
		return
	}
	c.JSON(http.StatusOK, records)
}

// Register handles POST /auth/register.
func (h *Handler) Register(c *gin.Context) {
	var creds credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		failure(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if creds.Username == "" {
		failure(c, http.StatusBadRequest, "Username is a required field")
		return
	}
	if len(creds.Password) < 6 {
		failure(c, http.StatusBadRequest, "Password must be at least 6 characters")
		return
	}

	if err := h.store.Register(creds.Username, creds.Password); err != nil {
		failure(c, http.StatusBadRequest, "Username is already taken")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true})
}

// Login handles POST /auth/login, issuing a bearer token.
func (h *Handler) Login(c *gin.Context) {
	var creds credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		failure(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	session, err := h.store.Login(creds.Username, creds.Password)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrUserNotFound):
			failure(c, http.StatusBadRequest, "Username is incorrect")
		case errors.Is(err, storage.ErrWrongPassword):
			failure(c, http.StatusBadRequest, "Password is incorrect")
		default:
			failure(c, http.StatusInternalServerError, "Something went wrong in the backend")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"token":    session.Token,
		"username": session.Username,
		"balance":  session.Balance,
	})
}
