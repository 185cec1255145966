package retriever

import (
	"strings"

	"supportbot/internal/domain"
)

// FAQRetriever matches queries against FAQ questions.
type FAQRetriever struct {
	faqs      []domain.FAQ
	questions []string // lowercased, parallel to faqs
}

func NewFAQRetriever(faqs []domain.FAQ) *FAQRetriever {
	questions := make([]string, len(faqs))
	for i, f := range faqs {
		questions[i] = strings.ToLower(f.Question)
	}
	return &FAQRetriever{faqs: faqs, questions: questions}
}

// Search returns every FAQ whose question contains the query, in source
// order. An empty result means no match.
func (r *FAQRetriever) Search(query string) []domain.FAQ {
	q := normalize(query)
	if q == "" {
		return nil
	}

	var results []domain.FAQ
	for i, question := range r.questions {
		if strings.Contains(question, q) {
			results = append(results, r.faqs[i])
		}
	}
	return results
}
