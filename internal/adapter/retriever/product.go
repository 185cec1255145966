package retriever

import (
	"fmt"
	"strings"

	"supportbot/internal/domain"
)

// ProductField names a searchable product attribute.
type ProductField string

const (
	FieldName     ProductField = "name"
	FieldCategory ProductField = "category"
	FieldGender   ProductField = "gender"
	FieldStyle    ProductField = "style"
)

// ProductPolicy controls which fields are searched and how many matches are
// returned. A Limit of 0 returns every match.
type ProductPolicy struct {
	Fields []ProductField
	Limit  int
}

// DefaultProductPolicy searches all four fields and returns at most five
// products.
func DefaultProductPolicy() ProductPolicy {
	return ProductPolicy{
		Fields: []ProductField{FieldName, FieldCategory, FieldGender, FieldStyle},
		Limit:  5,
	}
}

// ParseProductPolicy builds a policy from configuration values.
func ParseProductPolicy(fields []string, limit int) (ProductPolicy, error) {
	if limit < 0 {
		return ProductPolicy{}, fmt.Errorf("product limit must be >= 0, got %d", limit)
	}
	if len(fields) == 0 {
		p := DefaultProductPolicy()
		p.Limit = limit
		return p, nil
	}

	policy := ProductPolicy{Limit: limit}
	seen := make(map[ProductField]bool)
	for _, f := range fields {
		field := ProductField(normalize(f))
		switch field {
		case FieldName, FieldCategory, FieldGender, FieldStyle:
		default:
			return ProductPolicy{}, fmt.Errorf("unknown product field %q", f)
		}
		if !seen[field] {
			seen[field] = true
			policy.Fields = append(policy.Fields, field)
		}
	}
	return policy, nil
}

// ProductRetriever matches queries against catalog fields.
type ProductRetriever struct {
	products []domain.Product
	policy   ProductPolicy
}

func NewProductRetriever(products []domain.Product, policy ProductPolicy) *ProductRetriever {
	return &ProductRetriever{products: products, policy: policy}
}

// Search returns products where the query occurs in at least one searched
// field, in source order, truncated to the policy limit.
func (r *ProductRetriever) Search(query string) []domain.Product {
	q := normalize(query)
	if q == "" {
		return nil
	}

	var results []domain.Product
	for _, p := range r.products {
		if !r.matches(p, q) {
			continue
		}
		results = append(results, p)
		if r.policy.Limit > 0 && len(results) == r.policy.Limit {
			break
		}
	}
	return results
}

func (r *ProductRetriever) matches(p domain.Product, q string) bool {
	for _, field := range r.policy.Fields {
		var value string
		switch field {
		case FieldName:
			value = p.Name
		case FieldCategory:
			value = p.Category
		case FieldGender:
			if p.Gender == "" {
				continue
			}
			value = p.Gender
		case FieldStyle:
			value = p.Style
		}
		if strings.Contains(strings.ToLower(value), q) {
			return true
		}
	}
	return false
}
