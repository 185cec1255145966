package retriever

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultOrderIDPattern recognises IDs like ORD12345.
const DefaultOrderIDPattern = `(?i)\bORD\d+\b`

// OrderIDRecognizer extracts order IDs from free text.
type OrderIDRecognizer struct {
	re *regexp.Regexp
}

func NewOrderIDRecognizer(pattern string) (*OrderIDRecognizer, error) {
	if pattern == "" {
		pattern = DefaultOrderIDPattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid order id pattern: %w", err)
	}
	return &OrderIDRecognizer{re: re}, nil
}

// Find returns the first order ID in the query, uppercased.
func (r *OrderIDRecognizer) Find(query string) (string, bool) {
	m := r.re.FindString(query)
	if m == "" {
		return "", false
	}
	return strings.ToUpper(m), true
}
