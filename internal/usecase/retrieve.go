package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"supportbot/config"
	"supportbot/internal/adapter/metrics"
	"supportbot/internal/adapter/retriever"
	"supportbot/internal/domain"
	"supportbot/internal/port"
)

// RetrieveUseCase routes a query to at most one knowledge source.
type RetrieveUseCase struct {
	classifier *retriever.AmbiguityClassifier
	orderIDs   *retriever.OrderIDRecognizer
	orders     port.OrderLookup // nil disables order routing
	faqs       *retriever.FAQRetriever
	products   *retriever.ProductRetriever
	logger     *zap.Logger
}

// NewRetrieveUseCase creates a new retrieve use case.
func NewRetrieveUseCase(
	classifier *retriever.AmbiguityClassifier,
	orderIDs *retriever.OrderIDRecognizer,
	orders port.OrderLookup,
	faqs *retriever.FAQRetriever,
	products *retriever.ProductRetriever,
	logger *zap.Logger,
) *RetrieveUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RetrieveUseCase{
		classifier: classifier,
		orderIDs:   orderIDs,
		orders:     orders,
		faqs:       faqs,
		products:   products,
		logger:     logger,
	}
}

// BuildRetrieveUseCase wires the searchers for kb from retrieval config.
func BuildRetrieveUseCase(
	cfg config.RetrieveConfig,
	kb domain.KnowledgeBase,
	orders port.OrderLookup,
	logger *zap.Logger,
) (*RetrieveUseCase, error) {
	policy, err := retriever.ParseProductPolicy(cfg.ProductFields, cfg.ProductLimit)
	if err != nil {
		return nil, fmt.Errorf("product policy: %w", err)
	}

	orderIDs, err := retriever.NewOrderIDRecognizer(cfg.OrderIDPattern)
	if err != nil {
		return nil, err
	}

	return NewRetrieveUseCase(
		retriever.NewAmbiguityClassifier(cfg.AmbiguousTerms, cfg.Qualifiers),
		orderIDs,
		orders,
		retriever.NewFAQRetriever(kb.FAQs),
		retriever.NewProductRetriever(kb.Products, policy),
		logger,
	), nil
}

// Retrieve runs ambiguity check, order routing, FAQ search and product search
// in that order and returns the first result that applies.
func (u *RetrieveUseCase) Retrieve(ctx context.Context, query string) domain.Result {
	result := u.retrieve(ctx, query)
	metrics.QueriesTotal.WithLabelValues(string(result.Kind)).Inc()

	u.logger.Debug("retrieved",
		zap.String("query", query),
		zap.String("kind", string(result.Kind)),
		zap.Int("faqs", len(result.FAQs)),
		zap.Int("products", len(result.Products)),
	)
	return result
}

func (u *RetrieveUseCase) retrieve(ctx context.Context, query string) domain.Result {
	q := strings.TrimSpace(query)
	if q == "" {
		return domain.NotFound()
	}

	if term, ok := u.classifier.Classify(q); ok {
		return domain.Clarification(term)
	}

	if u.orders != nil {
		if id, ok := u.orderIDs.Find(q); ok {
			return u.lookupOrder(ctx, id)
		}
	}

	if faqs := u.faqs.Search(q); len(faqs) > 0 {
		return domain.FAQMatches(faqs)
	}

	if products := u.products.Search(q); len(products) > 0 {
		return domain.ProductMatches(products)
	}

	return domain.NotFound()
}

func (u *RetrieveUseCase) lookupOrder(ctx context.Context, id string) domain.Result {
	start := time.Now()
	order, err := u.orders.Lookup(ctx, id)

	outcome := "found"
	defer func() {
		metrics.OrderLookupDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
	}()

	switch {
	case err == nil:
		return domain.OrderStatus(order)
	case errors.Is(err, domain.ErrOrderNotFound):
		outcome = "not_found"
		return domain.OrderNotFound(id)
	case errors.Is(err, domain.ErrServiceUnavailable):
		outcome = "unavailable"
		return domain.ServiceUnavailable(id)
	default:
		outcome = "error"
		u.logger.Error("order lookup failed", zap.String("order_id", id), zap.Error(err))
		return domain.ServiceUnavailable(id)
	}
}
