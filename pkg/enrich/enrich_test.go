package enrich

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voidshard/salespipe/pkg/domain"
)

func tx(id, product string) *domain.Transaction {
	return &domain.Transaction{
		TransactionID: id,
		Date:          "2024-01-05",
		ProductID:     product,
		ProductName:   "Thing",
		Quantity:      1,
		UnitPrice:     decimal.NewFromInt(10),
		CustomerID:    "C1",
		Region:        "North",
	}
}

func rating(f float64) *float64 {
	return &f
}

func mapping() domain.ProductMapping {
	return domain.ProductMapping{
		101: {ID: 101, Title: "Laptop", Category: "laptops", Brand: "Apple", Rating: rating(4.5)},
		102: {ID: 102, Title: "Soap", Category: "beauty"},
	}
}

func TestNumericID(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"P101", 101, true},
		{"101", 101, true},
		{" P7 ", 7, true},
		{"P", 0, false},
		{"PX1", 0, false},
		{"Q101", 0, false},
	}

	for _, tt := range tests {
		got, ok := NumericID(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestMerge(t *testing.T) {
	in := []*domain.Transaction{
		tx("T1", "P101"),
		tx("T2", "P999"),
		tx("T3", "P102"),
		tx("T4", "P999"),
		tx("T5", "Pabc"),
	}

	out, stats := Merge(in, mapping())
	require.Len(t, out, len(in))

	hit := out[0]
	assert.Equal(t, "T1", hit.TransactionID)
	assert.True(t, hit.APIMatch)
	require.NotNil(t, hit.APICategory)
	assert.Equal(t, "laptops", *hit.APICategory)
	require.NotNil(t, hit.APIBrand)
	assert.Equal(t, "Apple", *hit.APIBrand)
	require.NotNil(t, hit.APIRating)
	assert.Equal(t, 4.5, *hit.APIRating)

	miss := out[1]
	assert.False(t, miss.APIMatch)
	assert.Nil(t, miss.APICategory)
	assert.Nil(t, miss.APIBrand)
	assert.Nil(t, miss.APIRating)

	noBrand := out[2]
	assert.True(t, noBrand.APIMatch)
	assert.Nil(t, noBrand.APIBrand)
	assert.Nil(t, noBrand.APIRating)

	assert.Equal(t, 5, stats.Total)
	assert.Equal(t, 2, stats.Enriched)
	assert.InDelta(t, 40.0, stats.SuccessRate, 1e-9)
	assert.Equal(t, []string{"P999", "Pabc"}, stats.FailedProducts)
}

func TestMergeDoesNotShareRating(t *testing.T) {
	m := mapping()
	out, _ := Merge([]*domain.Transaction{tx("T1", "P101")}, m)

	require.NotNil(t, out[0].APIRating)
	*out[0].APIRating = 1
	assert.Equal(t, 4.5, *m[101].Rating)
}

func TestMergeMatchIffMapped(t *testing.T) {
	m := mapping()
	in := []*domain.Transaction{tx("T1", "P101"), tx("T2", "P102"), tx("T3", "P103"), tx("T4", "P1")}

	out, _ := Merge(in, m)
	for _, e := range out {
		id, ok := NumericID(e.ProductID)
		_, mapped := m[id]
		assert.Equal(t, ok && mapped, e.APIMatch, e.ProductID)
	}
}

func TestMergeEmptyMapping(t *testing.T) {
	out, stats := Merge([]*domain.Transaction{tx("T1", "P101")}, domain.ProductMapping{})
	require.Len(t, out, 1)
	assert.False(t, out[0].APIMatch)
	assert.Equal(t, 0.0, stats.SuccessRate)
	assert.Equal(t, []string{"P101"}, stats.FailedProducts)
}

func TestMergeEmptyInput(t *testing.T) {
	out, stats := Merge(nil, mapping())
	assert.Empty(t, out)
	assert.Equal(t, Stats{FailedProducts: []string{}}, stats)
}

func TestMergeDoesNotAlias(t *testing.T) {
	in := tx("T1", "P101")
	out, _ := Merge([]*domain.Transaction{in}, mapping())

	out[0].Region = "Changed"
	assert.Equal(t, "North", in.Region)
}
