package products

import (
	"slices"
	"time"

	"github.com/mytheresa/catalog-web/models"
)

// RecentWindow is how far back a product still counts as recently added.
const RecentWindow = 24 * time.Hour

// IsRecentlyCreated reports whether createdAt lies less than RecentWindow
// before now. A product exactly RecentWindow old is not recent; one stamped
// in the future is.
func IsRecentlyCreated(createdAt, now time.Time) bool {
	return now.Sub(createdAt) < RecentWindow
}

// FilterRecent keeps the recently created products, newest first.
func FilterRecent(products []models.Product, now time.Time) []models.Product {
	recent := make([]models.Product, 0, len(products))
	for _, p := range products {
		if IsRecentlyCreated(p.CreatedAt, now) {
			recent = append(recent, p)
		}
	}
	slices.SortStableFunc(recent, func(a, b models.Product) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return recent
}
