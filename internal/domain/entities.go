package domain

import "time"

type Product struct {
	Name       string            `json:"name"`
	Category   string            `json:"category"`
	Style      string            `json:"style"`
	Gender     string            `json:"gender,omitempty"`
	Price      float64           `json:"price"`
	Stock      int               `json:"stock"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type Order struct {
	ID                string `json:"order_id"`
	Status            string `json:"status"`
	EstimatedDelivery string `json:"estimated_delivery"`
}

// KnowledgeBase is the loaded catalog and FAQ data. It is built once and
// only read afterwards.
type KnowledgeBase struct {
	Products    []Product
	FAQs        []FAQ
	Fingerprint string
	LoadedAt    time.Time
}

// ResultKind identifies which branch of retrieval produced a Result.
type ResultKind string

const (
	KindClarificationNeeded ResultKind = "clarification_needed"
	KindFAQMatches          ResultKind = "faq_matches"
	KindProductMatches      ResultKind = "product_matches"
	KindOrderStatus         ResultKind = "order_status"
	KindOrderNotFound       ResultKind = "order_not_found"
	KindNotFound            ResultKind = "not_found"
	KindServiceUnavailable  ResultKind = "service_unavailable"
)

// Result is the outcome of a single retrieval. Exactly one payload field is
// set, matching Kind.
type Result struct {
	Kind     ResultKind `json:"kind"`
	Term     string     `json:"term,omitempty"`
	FAQs     []FAQ      `json:"faqs,omitempty"`
	Products []Product  `json:"products,omitempty"`
	Order    *Order     `json:"order,omitempty"`
	OrderID  string     `json:"order_id,omitempty"`
}

func Clarification(term string) Result {
	return Result{Kind: KindClarificationNeeded, Term: term}
}

func FAQMatches(faqs []FAQ) Result {
	return Result{Kind: KindFAQMatches, FAQs: faqs}
}

func ProductMatches(products []Product) Result {
	return Result{Kind: KindProductMatches, Products: products}
}

func OrderStatus(order Order) Result {
	return Result{Kind: KindOrderStatus, Order: &order, OrderID: order.ID}
}

func OrderNotFound(id string) Result {
	return Result{Kind: KindOrderNotFound, OrderID: id}
}

func NotFound() Result {
	return Result{Kind: KindNotFound}
}

func ServiceUnavailable(id string) Result {
	return Result{Kind: KindServiceUnavailable, OrderID: id}
}

// Cacheable reports whether the result depends only on the loaded knowledge
// base. Order results reflect upstream state and are never cached.
func (r Result) Cacheable() bool {
	switch r.Kind {
	case KindOrderStatus, KindOrderNotFound, KindServiceUnavailable:
		return false
	}
	return true
}

// Role of a participant in a session turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one entry in an explicit session log.
type Turn struct {
	Role      Role       `json:"role"`
	Text      string     `json:"text"`
	Kind      ResultKind `json:"kind,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// SnapshotInfo describes a compiled knowledge snapshot.
type SnapshotInfo struct {
	Version      int       `json:"version"`
	Fingerprint  string    `json:"fingerprint"`
	ProductCount int       `json:"product_count"`
	FAQCount     int       `json:"faq_count"`
	CreatedAt    time.Time `json:"created_at"`
}
