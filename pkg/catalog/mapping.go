package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/voidshard/salespipe/pkg/domain"
)

// FetchError means the catalog could not be loaded. The mapping returned
// alongside it is empty but usable.
type FetchError struct {
	Source string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching catalog from %s: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewMapping indexes products by id. Later duplicates replace earlier ones.
func NewMapping(products []*domain.Product) domain.ProductMapping {
	mapping := domain.ProductMapping{}
	for _, p := range products {
		if p == nil {
			continue
		}
		mapping[p.ID] = *p
	}
	return mapping
}

// Fetch loads a mapping from src. It never returns a nil mapping: on
// failure the mapping is empty and the error is a *FetchError.
func Fetch(ctx context.Context, src Source) (domain.ProductMapping, error) {
	products, err := src.Products(ctx)
	if err != nil {
		return domain.ProductMapping{}, &FetchError{Source: describe(src), Err: err}
	}
	return NewMapping(products), nil
}

// Open picks a Source from a location:
//
//	""                  the public dummyjson API
//	http(s)://host/path a dummyjson style API
//	file:/path/to.json  a JSON snapshot
//	/path/to.json       a JSON snapshot
func Open(location string, cfg HTTPConfig) Source {
	switch {
	case location == "":
		return NewDummyJSON(cfg)
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		cfg.BaseURL = location
		return NewDummyJSON(cfg)
	case strings.HasPrefix(location, "file:"):
		return NewFile(strings.TrimPrefix(location, "file:"))
	}
	return NewFile(location)
}

func describe(src Source) string {
	if s, ok := src.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", src)
}
