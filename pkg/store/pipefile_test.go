package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voidshard/salespipe/pkg/domain"
)

func str(s string) *string { return &s }

func num(f float64) *float64 { return &f }

func records() []*domain.EnrichedTransaction {
	price, _ := decimal.NewFromString("1499.99")
	return []*domain.EnrichedTransaction{
		{
			Transaction: domain.Transaction{
				TransactionID: "T001", Date: "2024-01-05", ProductID: "P101", ProductName: "Laptop",
				Quantity: 2, UnitPrice: decimal.NewFromInt(50000), CustomerID: "C001", Region: "North",
			},
			APICategory: str("laptops"), APIBrand: str("Apple"), APIRating: num(4.56), APIMatch: true,
		},
		{
			Transaction: domain.Transaction{
				TransactionID: "T002", Date: "2024-01-06", ProductID: "P999", ProductName: "Mouse",
				Quantity: 1, UnitPrice: price, CustomerID: "C002", Region: "South",
			},
		},
	}
}

func TestPipeFileLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "enriched.txt")
	require.NoError(t, NewPipeFile(path).Write(context.Background(), records()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "TransactionID|Date|ProductID|ProductName|Quantity|UnitPrice|CustomerID|Region|API_Category|API_Brand|API_Rating|API_Match", lines[0])
	assert.Equal(t, "T001|2024-01-05|P101|Laptop|2|50000|C001|North|laptops|Apple|4.56|true", lines[1])
	assert.Equal(t, "T002|2024-01-06|P999|Mouse|1|1499.99|C002|South||||false", lines[2])
}

func TestPipeFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "enriched.txt")
	in := records()
	require.NoError(t, NewPipeFile(path).Write(context.Background(), in))

	out, err := ReadPipeFile(path)
	require.NoError(t, err)
	require.Len(t, out, len(in))

	for i := range in {
		assert.Equal(t, EncodeRow(in[i]), EncodeRow(out[i]))
		assert.True(t, in[i].UnitPrice.Equal(out[i].UnitPrice))
		assert.Equal(t, in[i].APIMatch, out[i].APIMatch)
		assert.Equal(t, in[i].APIRating, out[i].APIRating)
		assert.Equal(t, in[i].APICategory, out[i].APICategory)
	}
}

func TestPipeFileSanitizesDelimiter(t *testing.T) {
	rec := records()[0]
	rec.ProductName = "Desk|Oak"
	rec.APIBrand = str("Acme|Co")

	path := filepath.Join(t.TempDir(), "enriched.txt")
	require.NoError(t, NewPipeFile(path).Write(context.Background(), []*domain.EnrichedTransaction{rec}))

	out, err := ReadPipeFile(path)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Desk Oak", out[0].ProductName)
	assert.Equal(t, "Acme Co", *out[0].APIBrand)
}

func TestDecodeRowErrors(t *testing.T) {
	_, err := DecodeRow([]string{"T1"})
	assert.Error(t, err)

	row := EncodeRow(records()[0])
	row[4] = "many"
	_, err = DecodeRow(row)
	assert.Error(t, err)

	row = EncodeRow(records()[0])
	row[11] = "maybe"
	_, err = DecodeRow(row)
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	s, err := Open("jsonfile:/tmp/x.json")
	require.NoError(t, err)
	assert.IsType(t, &JSONFile{}, s)

	s, err = Open("pipe:/tmp/x.txt")
	require.NoError(t, err)
	assert.IsType(t, &PipeFile{}, s)

	s, err = Open("es8:http://localhost:9200")
	require.NoError(t, err)
	assert.IsType(t, &ElasticsearchV8{}, s)
	assert.Equal(t, []string{"http://localhost:9200"}, s.(*ElasticsearchV8).addresses)

	s, err = Open("out/enriched.txt")
	require.NoError(t, err)
	assert.IsType(t, &PipeFile{}, s)

	_, err = Open("")
	assert.Error(t, err)
}
