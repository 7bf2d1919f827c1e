package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/voidshard/salespipe/pkg/domain"
)

// check it meets the interface
var _ Source = &File{}

// File reads the catalog from a JSON snapshot on disk.
type File struct {
	filename string
}

func NewFile(filename string) *File {
	return &File{filename: filename}
}

func (f *File) String() string {
	return "file:" + f.filename
}

func (f *File) Products(ctx context.Context) ([]*domain.Product, error) {
	data, err := os.ReadFile(f.filename)
	if err != nil {
		return nil, err
	}

	products, err := parseProducts(data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", f.filename, err)
	}
	return products, nil
}

// WriteSnapshot saves products in a form File can read back.
func WriteSnapshot(filename string, products []*domain.Product) error {
	data, err := json.MarshalIndent(products, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0644)
}
