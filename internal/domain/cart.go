package domain

// CartRecord is the server-authoritative cart entry: a product id and the
// quantity held. The backend enforces one record per product id and removes
// the record when its quantity reaches zero, so the client treats qty 0 as
// "absent".
type CartRecord struct {
	ProductID string `json:"productId"`
	Qty       int    `json:"qty"`
}

// CartLine is the client-derived, catalog-enriched cart entry used for
// display. Lines are recomputed wholesale from the record set and the catalog
// whenever either changes; they are never patched incrementally and never
// persisted.
type CartLine struct {
	Product Product `json:"product"`
	Qty     int     `json:"qty"`
}

// Session holds the authenticated user's credentials as returned by the
// login endpoint. The token is an opaque string, attached to cart requests as
// a bearer credential and never parsed client-side.
type Session struct {
	Token    string  `json:"token"`
	Username string  `json:"username"`
	Balance  float64 `json:"balance"`
}

// HasItem reports whether records contains an entry for productID with a
// positive quantity.
func HasItem(records []CartRecord, productID string) bool {
	for _, r := range records {
		if r.ProductID == productID && r.Qty > 0 {
			return true
		}
	}
	return false
}
