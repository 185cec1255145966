package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supportbot/config"
	"supportbot/internal/adapter/orders"
	"supportbot/internal/domain"
)

func testKnowledgeBase() domain.KnowledgeBase {
	return domain.KnowledgeBase{
		FAQs: []domain.FAQ{
			{Question: "What is your return policy?", Answer: "Returns are accepted within 30 days."},
			{Question: "How long does shipping take?", Answer: "3-5 business days."},
			{Question: "Do you sell gift cards for jeans lovers?", Answer: "Yes, in any amount."},
		},
		Products: []domain.Product{
			{Name: "Slim Fit Jeans", Category: "Bottoms", Style: "Casual", Gender: "men", Price: 49.99, Stock: 12},
			{Name: "High Rise Jeans", Category: "Bottoms", Style: "Casual", Gender: "women", Price: 54, Stock: 3},
			{Name: "Kids Jeans", Category: "Bottoms", Style: "Playful", Gender: "kids", Price: 25, Stock: 8},
			{Name: "Bootcut Jeans", Category: "Bottoms", Style: "Retro", Gender: "men", Price: 45, Stock: 1},
			{Name: "Relaxed Jeans", Category: "Bottoms", Style: "Casual", Price: 40, Stock: 5},
			{Name: "Skinny Jeans", Category: "Bottoms", Style: "Modern", Gender: "women", Price: 52, Stock: 0},
			{Name: "Classic Oxford Shirt", Category: "Shirts", Style: "Formal", Gender: "men", Price: 45, Stock: 7},
			{Name: "Leather Jacket", Category: "Outerwear", Style: "Biker", Gender: "women", Price: 150, Stock: 2},
		},
		Fingerprint: "test",
	}
}

func newTestRetrieveUseCase(t *testing.T, lookup interface {
	Lookup(context.Context, string) (domain.Order, error)
}) *RetrieveUseCase {
	t.Helper()
	cfg := config.DefaultConfig()
	uc, err := BuildRetrieveUseCase(cfg.Retrieve, testKnowledgeBase(), lookup, nil)
	require.NoError(t, err)
	return uc
}

func defaultOrders() *orders.MemoryLookup {
	return orders.NewMemoryLookup(orders.FromConfig(config.DefaultConfig().Orders.Mock))
}

func TestRetrieve_AmbiguousTerms(t *testing.T) {
	uc := newTestRetrieveUseCase(t, defaultOrders())

	for _, term := range []string{"jeans", "shirt", "t-shirt", "trousers", "shoes", "jacket"} {
		result := uc.Retrieve(context.Background(), term)
		assert.Equal(t, domain.KindClarificationNeeded, result.Kind, term)
		assert.Equal(t, term, result.Term)
	}
}

func TestRetrieve_CaseInsensitiveAmbiguity(t *testing.T) {
	uc := newTestRetrieveUseCase(t, defaultOrders())

	for _, q := range []string{"JEANS", "jeans", "JeAnS"} {
		result := uc.Retrieve(context.Background(), q)
		assert.Equal(t, domain.Clarification("jeans"), result, q)
	}
}

func TestRetrieve_ClarificationSkipsDataSources(t *testing.T) {
	// "jeans" appears in an FAQ question and in product names; neither is consulted
	uc := newTestRetrieveUseCase(t, defaultOrders())

	result := uc.Retrieve(context.Background(), "jeans")
	assert.Equal(t, domain.KindClarificationNeeded, result.Kind)
	assert.Empty(t, result.FAQs)
	assert.Empty(t, result.Products)
}

func TestRetrieve_BlueJeansIsNotAmbiguous(t *testing.T) {
	uc := newTestRetrieveUseCase(t, defaultOrders())

	result := uc.Retrieve(context.Background(), "blue jeans")
	assert.NotEqual(t, domain.KindClarificationNeeded, result.Kind)
	assert.Equal(t, domain.KindNotFound, result.Kind)
}

func TestRetrieve_FAQPrecedesProducts(t *testing.T) {
	uc := newTestRetrieveUseCase(t, defaultOrders())

	// "jeans lovers" matches an FAQ question; "jeans" alone would also match products
	result := uc.Retrieve(context.Background(), "jeans lovers")
	require.Equal(t, domain.KindFAQMatches, result.Kind)
	assert.Len(t, result.FAQs, 1)
	assert.Empty(t, result.Products)

	result = uc.Retrieve(context.Background(), "Return Policy")
	require.Equal(t, domain.KindFAQMatches, result.Kind)
	assert.Equal(t, "Returns are accepted within 30 days.", result.FAQs[0].Answer)
}

func TestRetrieve_ProductMatchesCapped(t *testing.T) {
	uc := newTestRetrieveUseCase(t, defaultOrders())

	result := uc.Retrieve(context.Background(), "bottoms")
	require.Equal(t, domain.KindProductMatches, result.Kind)
	assert.Len(t, result.Products, 5)
	for _, p := range result.Products {
		fields := strings.ToLower(strings.Join([]string{p.Name, p.Category, p.Gender, p.Style}, " "))
		assert.Contains(t, fields, "bottoms")
	}
}

func TestRetrieve_UncappedPolicy(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Retrieve.ProductFields = []string{"name", "category"}
	cfg.Retrieve.ProductLimit = 0
	uc, err := BuildRetrieveUseCase(cfg.Retrieve, testKnowledgeBase(), nil, nil)
	require.NoError(t, err)

	result := uc.Retrieve(context.Background(), "bottoms")
	require.Equal(t, domain.KindProductMatches, result.Kind)
	assert.Len(t, result.Products, 6)
}

func TestRetrieve_NothingFound(t *testing.T) {
	uc := newTestRetrieveUseCase(t, defaultOrders())

	for _, q := range []string{"xyzzy", "", "   "} {
		result := uc.Retrieve(context.Background(), q)
		assert.Equal(t, domain.NotFound(), result, "query %q", q)
		assert.Nil(t, result.FAQs)
		assert.Nil(t, result.Products)
	}
}

func TestRetrieve_OrderStatus(t *testing.T) {
	uc := newTestRetrieveUseCase(t, defaultOrders())

	result := uc.Retrieve(context.Background(), "Where is my order ORD12345?")
	require.Equal(t, domain.KindOrderStatus, result.Kind)
	require.NotNil(t, result.Order)
	assert.Equal(t, "Shipped", result.Order.Status)
	assert.Equal(t, "2 days", result.Order.EstimatedDelivery)

	result = uc.Retrieve(context.Background(), "ord54321")
	require.Equal(t, domain.KindOrderStatus, result.Kind)
	assert.Equal(t, "N/A", result.Order.EstimatedDelivery)
}

func TestRetrieve_UnknownOrder(t *testing.T) {
	uc := newTestRetrieveUseCase(t, defaultOrders())

	result := uc.Retrieve(context.Background(), "ORD00000")
	assert.Equal(t, domain.OrderNotFound("ORD00000"), result)
}

type failingLookup struct{ err error }

func (f failingLookup) Lookup(context.Context, string) (domain.Order, error) {
	return domain.Order{}, f.err
}

func TestRetrieve_OrderServiceUnavailable(t *testing.T) {
	uc := newTestRetrieveUseCase(t, failingLookup{err: fmt.Errorf("%w: connection refused", domain.ErrServiceUnavailable)})

	result := uc.Retrieve(context.Background(), "status of ORD12345")
	assert.Equal(t, domain.ServiceUnavailable("ORD12345"), result)
	assert.NotEqual(t, domain.KindOrderNotFound, result.Kind)
}

func TestRetrieve_UnexpectedOrderErrorIsUnavailable(t *testing.T) {
	uc := newTestRetrieveUseCase(t, failingLookup{err: errors.New("boom")})

	result := uc.Retrieve(context.Background(), "ORD12345")
	assert.Equal(t, domain.KindServiceUnavailable, result.Kind)
}

func TestRetrieve_OrderRoutingDisabled(t *testing.T) {
	uc := newTestRetrieveUseCase(t, nil)

	result := uc.Retrieve(context.Background(), "ORD12345")
	assert.Equal(t, domain.KindNotFound, result.Kind)
}

func TestResult_Serialization(t *testing.T) {
	uc := newTestRetrieveUseCase(t, defaultOrders())

	data, err := json.Marshal(uc.Retrieve(context.Background(), "shipping"))
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "faq_matches", decoded["kind"])
	assert.Len(t, decoded["faqs"], 1)
	assert.NotContains(t, decoded, "products")
}
