package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar format of Transaction.Date
const DateLayout = "2006-01-02"

type Transaction struct {
	TransactionID string `json:"TransactionID"`
	Date          string `json:"Date"`

	ProductID   string `json:"ProductID"`
	ProductName string `json:"ProductName"`

	Quantity  int             `json:"Quantity"`
	UnitPrice decimal.Decimal `json:"UnitPrice"`

	CustomerID string `json:"CustomerID"`
	Region     string `json:"Region"`
}

// Amount is Quantity × UnitPrice, computed on every call.
func (t *Transaction) Amount() decimal.Decimal {
	return t.UnitPrice.Mul(decimal.NewFromInt(int64(t.Quantity)))
}

// Day parses Date as a calendar date. Date itself is left untouched.
func (t *Transaction) Day() (time.Time, error) {
	return time.Parse(DateLayout, t.Date)
}

func (t *Transaction) JSON() ([]byte, error) {
	return json.Marshal(t)
}
