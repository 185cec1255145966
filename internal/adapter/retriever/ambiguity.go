package retriever

import (
	"fmt"
	"strings"
)

// AmbiguityClassifier flags bare product-type queries that could mean men's,
// women's or kids' items.
type AmbiguityClassifier struct {
	terms      map[string]struct{}
	qualifiers []string
}

// NewAmbiguityClassifier creates a classifier. Terms and qualifiers are
// matched case-insensitively.
func NewAmbiguityClassifier(terms, qualifiers []string) *AmbiguityClassifier {
	c := &AmbiguityClassifier{
		terms:      make(map[string]struct{}, len(terms)),
		qualifiers: make([]string, 0, len(qualifiers)),
	}
	for _, t := range terms {
		if t = normalize(t); t != "" {
			c.terms[t] = struct{}{}
		}
	}
	for _, q := range qualifiers {
		if q = normalize(q); q != "" {
			c.qualifiers = append(c.qualifiers, q)
		}
	}
	return c
}

// Classify returns the ambiguous term when the whole query equals one of the
// terms and carries no qualifier. "blue jeans" is not ambiguous; "jeans" is.
func (c *AmbiguityClassifier) Classify(query string) (string, bool) {
	q := normalize(query)

	if _, ok := c.terms[q]; !ok {
		return "", false
	}

	for _, qual := range c.qualifiers {
		if strings.Contains(q, qual) {
			return "", false
		}
	}

	return q, true
}

// ClarificationText is the question asked back for an ambiguous term.
func ClarificationText(term string) string {
	return fmt.Sprintf("Of course! Are you looking for %s for men, women, or kids?", term)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
