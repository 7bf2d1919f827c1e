package catalog

import (
	"context"

	"github.com/voidshard/salespipe/pkg/domain"
)

// Source supplies the product catalog used for enrichment.
type Source interface {
	Products(context.Context) ([]*domain.Product, error)
}
