package domain

// Product represents a single item available to buy in the storefront catalog.
// A product is immutable once fetched; its ID is unique within one catalog
// snapshot.
type Product struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Cost     float64 `json:"cost"`
	Rating   int     `json:"rating"` // aggregate rating, integer 0-5
	ImageURL string  `json:"imageUrl"`
}

// Catalog is the current in-memory product list, either the full list or a
// search-filtered subset. A catalog is replaced wholesale on every successful
// fetch and never mutated in place.
type Catalog []Product

// Find returns the product with the given id, or false if the catalog does
// not contain it.
func (c Catalog) Find(id string) (Product, bool) {
	for _, p := range c {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}
