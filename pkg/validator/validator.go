package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/voidshard/salespipe/pkg/domain"
)

var (
	ErrTransactionID = errors.New("transaction id must start with T")
	ErrProductID     = errors.New("product id must start with P")
	ErrCustomerID    = errors.New("customer id must start with C")
	ErrNonPositive   = errors.New("quantity and unit price must be positive")

	// filter exclusions, not validation failures
	ErrRegionFiltered = errors.New("excluded by region filter")
	ErrAmountFiltered = errors.New("excluded by amount filter")
)

// Filter narrows the validated set. Zero values disable each filter.
type Filter struct {
	// Region is matched case insensitively, exactly.
	Region string

	// MinAmount and MaxAmount bound Quantity × UnitPrice inclusively.
	MinAmount *decimal.Decimal
	MaxAmount *decimal.Decimal
}

// Summary counts where every input transaction went.
// TotalInput = Invalid + FilteredByRegion + FilteredByAmount + FinalCount
type Summary struct {
	TotalInput       int `json:"total_input"`
	Invalid          int `json:"invalid"`
	FilteredByRegion int `json:"filtered_by_region"`
	FilteredByAmount int `json:"filtered_by_amount"`
	FinalCount       int `json:"final_count"`
}

// RejectFunc is told why a transaction was dropped.
type RejectFunc func(t *domain.Transaction, err error)

// Check applies the business rules in order, returning the first failure.
func Check(t *domain.Transaction) error {
	switch {
	case !strings.HasPrefix(t.TransactionID, "T"):
		return ErrTransactionID
	case !strings.HasPrefix(t.ProductID, "P"):
		return ErrProductID
	case !strings.HasPrefix(t.CustomerID, "C"):
		return ErrCustomerID
	case t.Quantity <= 0 || !t.UnitPrice.IsPositive():
		return ErrNonPositive
	}
	return nil
}

// Validate returns the transactions passing Check and the filter, the
// number that failed Check, and the full set of counters.
func Validate(txns []*domain.Transaction, f Filter) ([]*domain.Transaction, int, Summary) {
	return ValidateWith(txns, f, nil)
}

// ValidateWith is Validate, reporting each dropped transaction to reject
// (if non nil).
func ValidateWith(txns []*domain.Transaction, f Filter, reject RejectFunc) ([]*domain.Transaction, int, Summary) {
	valid := []*domain.Transaction{}
	sum := Summary{TotalInput: len(txns)}

	drop := func(t *domain.Transaction, err error) {
		if reject != nil {
			reject(t, err)
		}
	}

	for _, t := range txns {
		if err := Check(t); err != nil {
			sum.Invalid++
			drop(t, err)
			continue
		}

		if f.Region != "" && !strings.EqualFold(t.Region, f.Region) {
			sum.FilteredByRegion++
			drop(t, ErrRegionFiltered)
			continue
		}

		if !f.inRange(t.Amount()) {
			sum.FilteredByAmount++
			drop(t, ErrAmountFiltered)
			continue
		}

		valid = append(valid, t)
	}

	sum.FinalCount = len(valid)
	return valid, sum.Invalid, sum
}

func (f Filter) inRange(amount decimal.Decimal) bool {
	if f.MinAmount != nil && amount.LessThan(*f.MinAmount) {
		return false
	}
	if f.MaxAmount != nil && amount.GreaterThan(*f.MaxAmount) {
		return false
	}
	return true
}

// ParseBound reads an optional amount bound; "" means unbounded.
func ParseBound(s string) (*decimal.Decimal, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid amount bound %q: %w", s, err)
	}
	return &d, nil
}
