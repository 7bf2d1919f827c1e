package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/voidshard/salespipe/pkg/domain"
)

const (
	// Delimiter separates fields of a raw sales line
	Delimiter = "|"

	// FieldCount is the number of fields a line must have
	FieldCount = 8
)

var (
	ErrFieldCount = errors.New("unexpected field count")
	ErrQuantity   = errors.New("invalid quantity")
	ErrUnitPrice  = errors.New("invalid unit price")
)

// SkipFunc is told about every line dropped by ParseWith.
// n is the zero based index of the line in the input.
type SkipFunc func(n int, line string, err error)

// Parse turns raw lines into transactions, silently skipping any line that
// is not structurally valid. Output order follows input order.
func Parse(lines []string) []*domain.Transaction {
	return ParseWith(lines, nil)
}

// ParseWith is Parse, reporting each skipped line to skip (if non nil).
func ParseWith(lines []string, skip SkipFunc) []*domain.Transaction {
	txns := []*domain.Transaction{}
	for i, line := range lines {
		t, err := ParseLine(line)
		if err != nil {
			if skip != nil {
				skip(i, line, err)
			}
			continue
		}
		txns = append(txns, t)
	}
	return txns
}

// ParseLine parses one pipe delimited line of 8 fields:
//
//	TransactionID|Date|ProductID|ProductName|Quantity|UnitPrice|CustomerID|Region
//
// Commas are removed from ProductName, and thousands separators from
// Quantity and UnitPrice. All fields are trimmed.
func ParseLine(line string) (*domain.Transaction, error) {
	parts := strings.Split(line, Delimiter)
	if len(parts) != FieldCount {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrFieldCount, len(parts), FieldCount)
	}

	qty, err := strconv.Atoi(cleanNumber(parts[4]))
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrQuantity, parts[4], err)
	}

	price, err := decimal.NewFromString(cleanNumber(parts[5]))
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrUnitPrice, parts[5], err)
	}

	return &domain.Transaction{
		TransactionID: strings.TrimSpace(parts[0]),
		Date:          strings.TrimSpace(parts[1]),
		ProductID:     strings.TrimSpace(parts[2]),
		ProductName:   strings.TrimSpace(strings.ReplaceAll(parts[3], ",", "")),
		Quantity:      qty,
		UnitPrice:     price,
		CustomerID:    strings.TrimSpace(parts[6]),
		Region:        strings.TrimSpace(parts[7]),
	}, nil
}

// cleanNumber drops thousands separators and surrounding whitespace.
func cleanNumber(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
}
