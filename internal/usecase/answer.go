package usecase

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"supportbot/internal/adapter/metrics"
	"supportbot/internal/adapter/retriever"
	"supportbot/internal/domain"
	"supportbot/internal/port"
)

const (
	textNotFound      = "I'm sorry, I couldn't find any information about that in our store's catalog or FAQ."
	textOrderNotFound = "I couldn't find an order with ID %s. Please check the number and try again."
	textUnavailable   = "Our order status service is unavailable right now. Please try again later."
)

// AnswerUseCase turns a retrieval result into text for the customer.
type AnswerUseCase struct {
	responder port.Responder // optional
	logger    *zap.Logger
}

func NewAnswerUseCase(responder port.Responder, logger *zap.Logger) *AnswerUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnswerUseCase{responder: responder, logger: logger}
}

// Answer phrases result. Clarifications and failures always use fixed
// texts; matches go through the responder when one is configured and fall
// back to Render when it fails.
func (u *AnswerUseCase) Answer(ctx context.Context, query string, result domain.Result, history []domain.Turn) string {
	switch result.Kind {
	case domain.KindFAQMatches, domain.KindProductMatches, domain.KindOrderStatus:
	default:
		return Render(result)
	}

	if u.responder == nil {
		return Render(result)
	}

	answer, err := u.responder.Respond(ctx, query, result, history)
	if err != nil {
		metrics.ResponderFallbacks.Inc()
		u.logger.Warn("responder failed, using template",
			zap.String("model", u.responder.ModelName()),
			zap.Error(err),
		)
		return Render(result)
	}
	return answer
}

// Render formats result without a language model.
func Render(result domain.Result) string {
	switch result.Kind {
	case domain.KindClarificationNeeded:
		return retriever.ClarificationText(result.Term)
	case domain.KindFAQMatches:
		return renderFAQs(result.FAQs)
	case domain.KindProductMatches:
		return renderProducts(result.Products)
	case domain.KindOrderStatus:
		return renderOrder(result.Order)
	case domain.KindOrderNotFound:
		return fmt.Sprintf(textOrderNotFound, result.OrderID)
	case domain.KindServiceUnavailable:
		return textUnavailable
	default:
		return textNotFound
	}
}

func renderFAQs(faqs []domain.FAQ) string {
	if len(faqs) == 1 {
		return faqs[0].Answer
	}

	var sb strings.Builder
	sb.WriteString("Here is what I found in our FAQ:")
	for _, f := range faqs {
		fmt.Fprintf(&sb, "\n\nQ: %s\nA: %s", f.Question, f.Answer)
	}
	return sb.String()
}

func renderProducts(products []domain.Product) string {
	var sb strings.Builder
	sb.WriteString("Here are the products I found:")
	for _, p := range products {
		details := []string{p.Category, p.Style}
		if p.Gender != "" {
			details = append(details, p.Gender)
		}

		stock := fmt.Sprintf("%d in stock", p.Stock)
		if p.Stock <= 0 {
			stock = "out of stock"
		}

		fmt.Fprintf(&sb, "\n- %s (%s): $%.2f, %s", p.Name, strings.Join(details, ", "), p.Price, stock)
	}
	return sb.String()
}

func renderOrder(order *domain.Order) string {
	if order == nil {
		return textNotFound
	}
	text := fmt.Sprintf("Order %s is %s.", order.ID, order.Status)
	if d := order.EstimatedDelivery; d != "" && !strings.EqualFold(d, "N/A") {
		text += fmt.Sprintf(" Estimated delivery: %s.", d)
	}
	return text
}
