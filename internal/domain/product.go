package domain

import (
	"bytes"
	"strconv"
	"strings"
)

// Price tolerates the two encodings seen in the product index: a JSON number
// or a numeric string. Unparsable input decodes as 0.
type Price float64

// UnmarshalJSON implements json.Unmarshaler.
func (p *Price) UnmarshalJSON(data []byte) error {
	s := string(bytes.TrimSpace(data))
	if s == "" || s == "null" {
		*p = 0
		return nil
	}
	if strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) && len(s) >= 2 {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*p = 0
		return nil
	}
	*p = Price(v)
	return nil
}

// MarshalJSON implements json.Marshaler. Prices always encode as numbers.
func (p Price) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(float64(p), 'f', -1, 64)), nil
}

// Product represents a single item in the product index. Identity is the ID
// field; it is what deduplication keys on.
type Product struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Company      string   `json:"company"`
	Price        Price    `json:"price"`
	ImageURL     string   `json:"image_url"`
	ProductURL   string   `json:"product_url"`
	MainCategory string   `json:"main_category"`
	ProductType  string   `json:"product_type"`
	Form         string   `json:"form,omitempty"`
	SetBundle    string   `json:"set_bundle,omitempty"`
	Tags         []string `json:"tags,omitempty"`
}
