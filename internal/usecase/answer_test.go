package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"supportbot/internal/domain"
)

type stubResponder struct {
	answer string
	err    error
	calls  int
}

func (s *stubResponder) Respond(context.Context, string, domain.Result, []domain.Turn) (string, error) {
	s.calls++
	return s.answer, s.err
}

func (s *stubResponder) ModelName() string { return "stub" }

func TestRender_FixedTexts(t *testing.T) {
	assert.Equal(t, "Of course! Are you looking for jeans for men, women, or kids?", Render(domain.Clarification("jeans")))
	assert.Equal(t, "I'm sorry, I couldn't find any information about that in our store's catalog or FAQ.", Render(domain.NotFound()))
	assert.Equal(t, "I couldn't find an order with ID ORD00000. Please check the number and try again.", Render(domain.OrderNotFound("ORD00000")))
	assert.Equal(t, "Our order status service is unavailable right now. Please try again later.", Render(domain.ServiceUnavailable("ORD1")))
}

func TestRender_FAQs(t *testing.T) {
	single := Render(domain.FAQMatches([]domain.FAQ{{Question: "Return policy?", Answer: "30 days."}}))
	assert.Equal(t, "30 days.", single)

	multi := Render(domain.FAQMatches([]domain.FAQ{
		{Question: "How long does shipping take?", Answer: "3-5 days."},
		{Question: "Is shipping free?", Answer: "Over $50."},
	}))
	assert.Contains(t, multi, "Q: How long does shipping take?\nA: 3-5 days.")
	assert.Contains(t, multi, "Q: Is shipping free?\nA: Over $50.")
}

func TestRender_Products(t *testing.T) {
	text := Render(domain.ProductMatches([]domain.Product{
		{Name: "Slim Fit Jeans", Category: "Bottoms", Style: "Casual", Gender: "men", Price: 49.99, Stock: 12},
		{Name: "Canvas Tote", Category: "Accessories", Style: "Minimal", Price: 15, Stock: 0},
	}))
	assert.Contains(t, text, "- Slim Fit Jeans (Bottoms, Casual, men): $49.99, 12 in stock")
	assert.Contains(t, text, "- Canvas Tote (Accessories, Minimal): $15.00, out of stock")
}

func TestRender_Order(t *testing.T) {
	shipped := Render(domain.OrderStatus(domain.Order{ID: "ORD12345", Status: "Shipped", EstimatedDelivery: "2 days"}))
	assert.Equal(t, "Order ORD12345 is Shipped. Estimated delivery: 2 days.", shipped)

	delivered := Render(domain.OrderStatus(domain.Order{ID: "ORD54321", Status: "Delivered", EstimatedDelivery: "N/A"}))
	assert.Equal(t, "Order ORD54321 is Delivered.", delivered)
}

func TestAnswer_UsesResponderForMatches(t *testing.T) {
	r := &stubResponder{answer: "Our jeans are great."}
	uc := NewAnswerUseCase(r, nil)

	got := uc.Answer(context.Background(), "slim", domain.ProductMatches([]domain.Product{{Name: "Slim Fit Jeans"}}), nil)
	assert.Equal(t, "Our jeans are great.", got)
	assert.Equal(t, 1, r.calls)
}

func TestAnswer_FixedTextsBypassResponder(t *testing.T) {
	r := &stubResponder{answer: "should not be used"}
	uc := NewAnswerUseCase(r, nil)

	for _, result := range []domain.Result{
		domain.Clarification("shoes"),
		domain.NotFound(),
		domain.OrderNotFound("ORD9"),
		domain.ServiceUnavailable("ORD9"),
	} {
		assert.Equal(t, Render(result), uc.Answer(context.Background(), "q", result, nil))
	}
	assert.Equal(t, 0, r.calls)
}

func TestAnswer_FallsBackOnResponderError(t *testing.T) {
	uc := NewAnswerUseCase(&stubResponder{err: errors.New("rate limited")}, nil)
	result := domain.FAQMatches([]domain.FAQ{{Question: "q", Answer: "Returns within 30 days."}})

	assert.Equal(t, "Returns within 30 days.", uc.Answer(context.Background(), "returns", result, nil))
}

func TestAnswer_NoResponder(t *testing.T) {
	uc := NewAnswerUseCase(nil, nil)
	result := domain.OrderStatus(domain.Order{ID: "ORD1", Status: "Processing", EstimatedDelivery: "5 days"})
	assert.Equal(t, "Order ORD1 is Processing. Estimated delivery: 5 days.", uc.Answer(context.Background(), "ORD1", result, nil))
}
