package store

import (
	"context"
	"encoding/json"

	"github.com/voidshard/salespipe/pkg/domain"
)

type JSONFile struct {
	filename string
}

func NewJSONFile(filename string) Store {
	return &JSONFile{filename: filename}
}

func (f *JSONFile) Write(ctx context.Context, txns []*domain.EnrichedTransaction) error {
	if txns == nil {
		txns = []*domain.EnrichedTransaction{}
	}
	data, err := json.Marshal(txns)
	if err != nil {
		return err
	}
	return writeFile(f.filename, data)
}
