package store

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/voidshard/salespipe/pkg/domain"
)

const delimiter = "|"

// Header is the column order of a pipe file.
var Header = []string{
	"TransactionID", "Date", "ProductID", "ProductName",
	"Quantity", "UnitPrice", "CustomerID", "Region",
	"API_Category", "API_Brand", "API_Rating", "API_Match",
}

var sanitizer = strings.NewReplacer(delimiter, " ", "\r", " ", "\n", " ")

// PipeFile writes enriched transactions as pipe delimited text, one per line
// after a header.
type PipeFile struct {
	filename string
}

func NewPipeFile(filename string) Store {
	return &PipeFile{filename: filename}
}

func (f *PipeFile) Write(ctx context.Context, txns []*domain.EnrichedTransaction) error {
	buf := &bytes.Buffer{}
	buf.WriteString(strings.Join(Header, delimiter) + "\n")
	for _, t := range txns {
		buf.WriteString(strings.Join(EncodeRow(t), delimiter) + "\n")
	}
	return writeFile(f.filename, buf.Bytes())
}

// Sanitize makes s safe to place in a single pipe delimited field.
func Sanitize(s string) string {
	return sanitizer.Replace(s)
}

// EncodeRow renders t as fields in Header order. Nil enrichment values
// become empty fields.
func EncodeRow(t *domain.EnrichedTransaction) []string {
	rating := ""
	if t.APIRating != nil {
		rating = strconv.FormatFloat(*t.APIRating, 'f', -1, 64)
	}

	row := []string{
		t.TransactionID,
		t.Date,
		t.ProductID,
		t.ProductName,
		strconv.Itoa(t.Quantity),
		t.UnitPrice.String(),
		t.CustomerID,
		t.Region,
		deref(t.APICategory),
		deref(t.APIBrand),
		rating,
		strconv.FormatBool(t.APIMatch),
	}
	for i := range row {
		row[i] = Sanitize(row[i])
	}
	return row
}

// DecodeRow is the inverse of EncodeRow.
func DecodeRow(fields []string) (*domain.EnrichedTransaction, error) {
	if len(fields) != len(Header) {
		return nil, fmt.Errorf("expected %d fields, got %d", len(Header), len(fields))
	}

	qty, err := strconv.Atoi(fields[4])
	if err != nil {
		return nil, fmt.Errorf("quantity: %w", err)
	}

	price, err := decimal.NewFromString(fields[5])
	if err != nil {
		return nil, fmt.Errorf("unit price: %w", err)
	}

	match, err := strconv.ParseBool(fields[11])
	if err != nil {
		return nil, fmt.Errorf("api match: %w", err)
	}

	t := &domain.EnrichedTransaction{
		Transaction: domain.Transaction{
			TransactionID: fields[0],
			Date:          fields[1],
			ProductID:     fields[2],
			ProductName:   fields[3],
			Quantity:      qty,
			UnitPrice:     price,
			CustomerID:    fields[6],
			Region:        fields[7],
		},
		APICategory: optional(fields[8]),
		APIBrand:    optional(fields[9]),
		APIMatch:    match,
	}

	if fields[10] != "" {
		rating, err := strconv.ParseFloat(fields[10], 64)
		if err != nil {
			return nil, fmt.Errorf("api rating: %w", err)
		}
		t.APIRating = &rating
	}

	return t, nil
}

// ReadPipeFile reads back a file written by PipeFile.
func ReadPipeFile(filename string) ([]*domain.EnrichedTransaction, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	txns := []*domain.EnrichedTransaction{}
	scanner := bufio.NewScanner(f)

	line := 0
	for scanner.Scan() {
		line++
		if line == 1 || scanner.Text() == "" {
			continue // header
		}
		t, err := DecodeRow(strings.Split(scanner.Text(), delimiter))
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", filename, line, err)
		}
		txns = append(txns, t)
	}

	return txns, scanner.Err()
}

func writeFile(filename string, data []byte) error {
	if dir := filepath.Dir(filename); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(filename, data, 0644)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
