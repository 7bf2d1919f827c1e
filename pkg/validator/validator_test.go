package validator

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voidshard/salespipe/pkg/domain"
)

func tx(id, product, customer, region string, qty int, price float64) *domain.Transaction {
	return &domain.Transaction{
		TransactionID: id,
		Date:          "2024-01-05",
		ProductID:     product,
		ProductName:   "Thing",
		Quantity:      qty,
		UnitPrice:     decimal.NewFromFloat(price),
		CustomerID:    customer,
		Region:        region,
	}
}

func bound(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name string
		in   *domain.Transaction
		want error
	}{
		{"valid", tx("T1", "P1", "C1", "North", 1, 10), nil},
		{"bad transaction id", tx("X1", "P1", "C1", "North", 1, 10), ErrTransactionID},
		{"lowercase transaction id", tx("t1", "P1", "C1", "North", 1, 10), ErrTransactionID},
		{"bad product id", tx("T1", "Q1", "C1", "North", 1, 10), ErrProductID},
		{"bad customer id", tx("T1", "P1", "D1", "North", 1, 10), ErrCustomerID},
		{"zero quantity", tx("T1", "P1", "C1", "North", 0, 10), ErrNonPositive},
		{"negative quantity", tx("T1", "P1", "C1", "North", -2, 10), ErrNonPositive},
		{"zero price", tx("T1", "P1", "C1", "North", 1, 0), ErrNonPositive},
		{"first failure wins", tx("X1", "Q1", "D1", "North", 0, 0), ErrTransactionID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Check(tt.in))
		})
	}
}

func TestValidateNoFilter(t *testing.T) {
	in := []*domain.Transaction{
		tx("T1", "P1", "C1", "North", 1, 10),
		tx("X2", "P1", "C1", "North", 1, 10),
		tx("T3", "P1", "C1", "South", 0, 10),
		tx("T4", "P1", "C1", "South", 2, 5),
	}

	valid, invalid, sum := Validate(in, Filter{})

	require.Len(t, valid, 2)
	assert.Equal(t, "T1", valid[0].TransactionID)
	assert.Equal(t, "T4", valid[1].TransactionID)
	assert.Equal(t, 2, invalid)
	assert.Equal(t, Summary{TotalInput: 4, Invalid: 2, FinalCount: 2}, sum)
}

func TestValidateFilters(t *testing.T) {
	in := []*domain.Transaction{
		tx("T1", "P1", "C1", "North", 1, 100),  // 100, kept
		tx("T2", "P1", "C1", "north", 10, 100), // 1000, too large
		tx("T3", "P1", "C1", "South", 1, 100),  // wrong region
		tx("T4", "P1", "C1", "NORTH", 1, 10),   // 10, too small
		tx("T5", "P1", "C1", "North", 5, 100),  // 500, upper bound inclusive
		tx("T6", "P1", "X1", "South", 1, 100),  // invalid beats region filter
		tx("T7", "P1", "C1", "South", 1, 5),    // region filter beats amount filter
	}

	reasons := map[string]error{}
	valid, invalid, sum := ValidateWith(in, Filter{
		Region:    "North",
		MinAmount: bound(100),
		MaxAmount: bound(500),
	}, func(t *domain.Transaction, err error) {
		reasons[t.TransactionID] = err
	})

	require.Len(t, valid, 2)
	assert.Equal(t, "T1", valid[0].TransactionID)
	assert.Equal(t, "T5", valid[1].TransactionID)
	assert.Equal(t, 1, invalid)
	assert.Equal(t, Summary{
		TotalInput:       7,
		Invalid:          1,
		FilteredByRegion: 2,
		FilteredByAmount: 2,
		FinalCount:       2,
	}, sum)

	assert.Equal(t, ErrAmountFiltered, reasons["T2"])
	assert.Equal(t, ErrRegionFiltered, reasons["T3"])
	assert.Equal(t, ErrAmountFiltered, reasons["T4"])
	assert.Equal(t, ErrCustomerID, reasons["T6"])
	assert.Equal(t, ErrRegionFiltered, reasons["T7"])
}

func TestValidateCountersAlwaysBalance(t *testing.T) {
	in := []*domain.Transaction{}
	regions := []string{"North", "South", "East"}
	for i := 0; i < 60; i++ {
		id := "T"
		if i%7 == 0 {
			id = "Z"
		}
		in = append(in, tx(id, "P1", "C1", regions[i%3], i%5, float64(i*3)))
	}

	filters := []Filter{
		{},
		{Region: "south"},
		{MinAmount: bound(50)},
		{MaxAmount: bound(200)},
		{Region: "EAST", MinAmount: bound(10), MaxAmount: bound(300)},
	}

	for _, f := range filters {
		_, _, s := Validate(in, f)
		assert.Equal(t, s.TotalInput, s.Invalid+s.FilteredByRegion+s.FilteredByAmount+s.FinalCount)
	}
}

func TestValidateEmpty(t *testing.T) {
	valid, invalid, sum := Validate(nil, Filter{Region: "North"})
	assert.Empty(t, valid)
	assert.Equal(t, 0, invalid)
	assert.Equal(t, Summary{}, sum)
}

func TestParseBound(t *testing.T) {
	b, err := ParseBound("")
	assert.NoError(t, err)
	assert.Nil(t, b)

	b, err = ParseBound(" 1,500.25 ")
	require.NoError(t, err)
	assert.Equal(t, "1500.25", b.String())

	_, err = ParseBound("lots")
	assert.Error(t, err)
}
