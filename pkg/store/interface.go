package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/voidshard/salespipe/pkg/domain"
)

// Store is where enriched transactions end up.
type Store interface {
	Write(context.Context, []*domain.EnrichedTransaction) error
}

// Open picks a Store from an out destination of the form kind:target, one of
//
//	pipe:/path/file.txt
//	jsonfile:/path/file.json
//	es8:http://myelasticsearch:9200
//
// A destination without a known kind is treated as a pipe file path.
func Open(out string) (Store, error) {
	if out == "" {
		return nil, fmt.Errorf("invalid out path, expected [pipe:/path/file.txt] [jsonfile:/path/file.json] or [es8:http://elasticsearch:9200]")
	}

	bits := strings.SplitN(out, ":", 2)
	if len(bits) == 2 {
		switch bits[0] {
		case "es8":
			return NewElasticsearchV8(bits[1]), nil
		case "jsonfile":
			return NewJSONFile(bits[1]), nil
		case "pipe":
			return NewPipeFile(bits[1]), nil
		}
	}

	return NewPipeFile(out), nil
}
