package usecase

import (
	"github.com/shopkart/storefront/internal/domain"

	"github.com/sirupsen/logrus"
)

// ResolveCart joins the server's cart records against the catalog and
// produces the dense, ordered cart-line view model.
//
// For each record the product is looked up by id; records whose product is
// missing from the catalog are dropped. That is not an error: the catalog is
// frequently a subset of the full product list, e.g. while a search filter is
// active, and the view degrades by hiding such lines rather than fabricating
// entries. Input record order is preserved.
//
// The function is deterministic and idempotent: re-running it on unchanged
// inputs yields a value-equal sequence.
func ResolveCart(records []domain.CartRecord, catalog domain.Catalog) []domain.CartLine {
	lines := make([]domain.CartLine, 0, len(records))
	for _, r := range records {
		if r.Qty <= 0 {
			// qty 0 means the server considers the record absent
			continue
		}
		p, ok := catalog.Find(r.ProductID)
		if !ok {
			logrus.WithField("productId", r.ProductID).Warn("cart record has no matching product in catalog, hiding line")
			continue
		}
		lines = append(lines, domain.CartLine{Product: p, Qty: r.Qty})
	}
	return lines
}
