package domain

// Product is the subset of catalog metadata used for enrichment.
// Rating is nil when the catalog has none.
type Product struct {
	ID       int      `json:"id"`
	Title    string   `json:"title"`
	Category string   `json:"category"`
	Brand    string   `json:"brand"`
	Rating   *float64 `json:"rating"`
}

// ProductMapping maps a numeric product id to its catalog entry.
// It is built once per run and only read afterwards.
type ProductMapping map[int]Product

// Lookup returns the product for id, if any.
func (m ProductMapping) Lookup(id int) (Product, bool) {
	p, ok := m[id]
	return p, ok
}
