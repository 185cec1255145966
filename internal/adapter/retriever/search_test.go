package retriever

import (
	"strings"
	"testing"

	"supportbot/internal/domain"
)

func testFAQs() []domain.FAQ {
	return []domain.FAQ{
		{Question: "What is your return policy?", Answer: "30 days."},
		{Question: "How long does shipping take?", Answer: "3-5 days."},
		{Question: "Do you offer free shipping?", Answer: "Over $50."},
		{Question: "Can I return sale items?", Answer: "No."},
	}
}

func testProducts() []domain.Product {
	return []domain.Product{
		{Name: "Slim Fit Jeans", Category: "Bottoms", Style: "Casual", Gender: "men"},
		{Name: "High Rise Jeans", Category: "Bottoms", Style: "Casual", Gender: "women"},
		{Name: "Denim Jacket", Category: "Outerwear", Style: "Denim Casual", Gender: "women"},
		{Name: "Kids Jeans", Category: "Bottoms", Style: "Playful", Gender: "kids"},
		{Name: "Bootcut Jeans", Category: "Bottoms", Style: "Retro", Gender: "men"},
		{Name: "Relaxed Jeans", Category: "Bottoms", Style: "Casual"},
		{Name: "Skinny Jeans", Category: "Bottoms", Style: "Modern", Gender: "women"},
		{Name: "Running Shoes", Category: "Footwear", Style: "Sport", Gender: "men"},
	}
}

func TestFAQRetriever_SubstringInSourceOrder(t *testing.T) {
	r := NewFAQRetriever(testFAQs())

	results := r.Search("RETURN")
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Question != "What is your return policy?" || results[1].Question != "Can I return sale items?" {
		t.Errorf("unexpected order: %+v", results)
	}
}

func TestFAQRetriever_NoCap(t *testing.T) {
	faqs := make([]domain.FAQ, 12)
	for i := range faqs {
		faqs[i] = domain.FAQ{Question: "shipping question", Answer: "a"}
	}
	r := NewFAQRetriever(faqs)

	if got := len(r.Search("shipping")); got != 12 {
		t.Errorf("expected all 12 matches, got %d", got)
	}
}

func TestFAQRetriever_MatchesQuestionOnly(t *testing.T) {
	r := NewFAQRetriever(testFAQs())

	if results := r.Search("30 days"); len(results) != 0 {
		t.Errorf("answers must not be searched, got %+v", results)
	}
	if results := r.Search(""); len(results) != 0 {
		t.Errorf("blank query must not match, got %d", len(results))
	}
}

func TestProductRetriever_DefaultCap(t *testing.T) {
	r := NewProductRetriever(testProducts(), DefaultProductPolicy())

	results := r.Search("jeans")
	if len(results) != 5 {
		t.Fatalf("expected 5 results (capped), got %d", len(results))
	}
	if results[0].Name != "Slim Fit Jeans" || results[4].Name != "Relaxed Jeans" {
		t.Errorf("expected source order, got %s ... %s", results[0].Name, results[4].Name)
	}
	for _, p := range results {
		if !containsAny(p, "jeans") {
			t.Errorf("result %q does not contain query", p.Name)
		}
	}
}

func TestProductRetriever_SearchesAllFields(t *testing.T) {
	r := NewProductRetriever(testProducts(), ProductPolicy{
		Fields: DefaultProductPolicy().Fields,
		Limit:  0,
	})

	tests := []struct {
		query string
		want  int
	}{
		{"outerwear", 1}, // category
		{"retro", 1},     // style
		{"kids", 1},      // gender and name
		{"women", 3},     // gender
		{"denim", 1},     // name and style of the same product
		{"xyzzy", 0},
	}

	for _, tt := range tests {
		if got := len(r.Search(tt.query)); got != tt.want {
			t.Errorf("Search(%q) = %d results, want %d", tt.query, got, tt.want)
		}
	}
}

func TestProductRetriever_MenMatchesWomenGender(t *testing.T) {
	// substring semantics: "men" is contained in "women"
	r := NewProductRetriever(testProducts(), ProductPolicy{Fields: []ProductField{FieldGender}})

	results := r.Search("men")
	if len(results) != 6 {
		t.Errorf("expected 6 products with a gender containing 'men', got %d", len(results))
	}
}

func TestProductRetriever_TabularPolicy(t *testing.T) {
	policy, err := ParseProductPolicy([]string{"name", "category"}, 0)
	if err != nil {
		t.Fatal(err)
	}
	r := NewProductRetriever(testProducts(), policy)

	if got := len(r.Search("jeans")); got != 6 {
		t.Errorf("expected 6 uncapped matches, got %d", got)
	}
	if got := len(r.Search("casual")); got != 0 {
		t.Errorf("style must not be searched, got %d", got)
	}
}

func TestParseProductPolicy(t *testing.T) {
	if _, err := ParseProductPolicy([]string{"price"}, 5); err == nil {
		t.Error("expected error for unknown field")
	}
	if _, err := ParseProductPolicy(nil, -1); err == nil {
		t.Error("expected error for negative limit")
	}

	p, err := ParseProductPolicy([]string{"Name", "name", "style"}, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Fields) != 2 || p.Limit != 3 {
		t.Errorf("unexpected policy %+v", p)
	}

	p, err = ParseProductPolicy(nil, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Fields) != 4 || p.Limit != 2 {
		t.Errorf("expected default fields with limit 2, got %+v", p)
	}
}

func TestOrderIDRecognizer(t *testing.T) {
	r, err := NewOrderIDRecognizer("")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		query string
		want  string
		ok    bool
	}{
		{"ORD12345", "ORD12345", true},
		{"where is my order ord67890?", "ORD67890", true},
		{"status of ORD1 and ORD2", "ORD1", true},
		{"ORDER12345", "", false},
		{"my order is late", "", false},
		{"XORD12345", "", false},
	}

	for _, tt := range tests {
		got, ok := r.Find(tt.query)
		if ok != tt.ok || got != tt.want {
			t.Errorf("Find(%q) = %q, %v; want %q, %v", tt.query, got, ok, tt.want, tt.ok)
		}
	}

	if _, err := NewOrderIDRecognizer("("); err == nil {
		t.Error("expected error for invalid pattern")
	}
}

func containsAny(p domain.Product, q string) bool {
	for _, v := range []string{p.Name, p.Category, p.Gender, p.Style} {
		if strings.Contains(strings.ToLower(v), q) {
			return true
		}
	}
	return false
}
