package enrich

import (
	"sort"
	"strconv"
	"strings"

	"github.com/voidshard/salespipe/pkg/domain"
)

// Stats summarises one merge.
type Stats struct {
	Total          int      `json:"total"`
	Enriched       int      `json:"enriched"`
	SuccessRate    float64  `json:"success_rate"`
	FailedProducts []string `json:"failed_products"`
}

// NumericID turns a product id like "P101" into 101.
func NumericID(productID string) (int, bool) {
	id, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(productID), "P"))
	if err != nil {
		return 0, false
	}
	return id, true
}

// Merge joins every transaction with its catalog entry. Each input yields
// exactly one output, matched or not.
func Merge(txns []*domain.Transaction, mapping domain.ProductMapping) ([]*domain.EnrichedTransaction, Stats) {
	enriched := make([]*domain.EnrichedTransaction, 0, len(txns))
	failed := map[string]bool{}
	stats := Stats{Total: len(txns), FailedProducts: []string{}}

	for _, t := range txns {
		record := &domain.EnrichedTransaction{Transaction: *t}

		product, ok := lookup(mapping, t.ProductID)
		if ok {
			record.APICategory = optional(product.Category)
			record.APIBrand = optional(product.Brand)
			if product.Rating != nil {
				rating := *product.Rating
				record.APIRating = &rating
			}
			record.APIMatch = true
			stats.Enriched++
		} else {
			failed[t.ProductID] = true
		}

		enriched = append(enriched, record)
	}

	for id := range failed {
		stats.FailedProducts = append(stats.FailedProducts, id)
	}
	sort.Strings(stats.FailedProducts)

	if stats.Total > 0 {
		stats.SuccessRate = float64(stats.Enriched) / float64(stats.Total) * 100
	}

	return enriched, stats
}

func lookup(mapping domain.ProductMapping, productID string) (domain.Product, bool) {
	id, ok := NumericID(productID)
	if !ok {
		return domain.Product{}, false
	}
	return mapping.Lookup(id)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
