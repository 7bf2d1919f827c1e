package domain

import (
	"encoding/json"
)

// EnrichedTransaction is a validated Transaction joined with catalog metadata.
// The API_* fields are nil when the product had no catalog match.
type EnrichedTransaction struct {
	Transaction

	APICategory *string  `json:"API_Category"`
	APIBrand    *string  `json:"API_Brand"`
	APIRating   *float64 `json:"API_Rating"`
	APIMatch    bool     `json:"API_Match"`
}

func (e *EnrichedTransaction) JSON() ([]byte, error) {
	return json.Marshal(e)
}
