package catalog

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/voidshard/salespipe/pkg/domain"
)

type productsReply struct {
	Products []dummyProduct `json:"products"`
	Total    int            `json:"total"`
	Skip     int            `json:"skip"`
	Limit    int            `json:"limit"`
}

type dummyProduct struct {
	ID       json.RawMessage `json:"id"`
	Title    string          `json:"title"`
	Category string          `json:"category"`
	Brand    string          `json:"brand"`
	Rating   *float64        `json:"rating"`
}

func parseProductsReply(data []byte) (*productsReply, error) {
	// we only parse a small subset of the fields
	rep := &productsReply{}
	err := json.Unmarshal(data, rep)
	return rep, err
}

// parseProducts accepts either the {"products": [...]} envelope or a bare
// array of products, as written by a snapshot.
func parseProducts(data []byte) ([]*domain.Product, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		raw := []dummyProduct{}
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return nil, err
		}
		return (&productsReply{Products: raw}).products(), nil
	}

	rep, err := parseProductsReply(trimmed)
	if err != nil {
		return nil, err
	}
	return rep.products(), nil
}

// products converts the wire records, dropping any without a usable id.
func (r *productsReply) products() []*domain.Product {
	out := []*domain.Product{}
	for _, p := range r.Products {
		id, ok := parseID(p.ID)
		if !ok {
			continue
		}
		out = append(out, &domain.Product{
			ID:       id,
			Title:    p.Title,
			Category: p.Category,
			Brand:    p.Brand,
			Rating:   p.Rating,
		})
	}
	return out
}

// parseID reads an id sent as a JSON number or a numeric string.
func parseID(raw json.RawMessage) (int, bool) {
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	if s == "" || s == "null" {
		return 0, false
	}

	if id, err := strconv.Atoi(s); err == nil {
		return id, true
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int(f), true
}
