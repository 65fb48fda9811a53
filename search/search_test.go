package search

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		term string
		want string
	}{
		{term: "Products", want: "product"},
		{term: "  product  ", want: "product"},
		{term: "Product Variant", want: "productvariant"},
		{term: "orders", want: "order"},
		{term: "s", want: ""},
		{term: "address", want: "addres"},
		{term: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			t.Parallel()

			if got := Normalize(tt.term); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.term, got, tt.want)
			}
		})
	}
}

const productDocument = `{
  "__schema": {
    "queryType": {"name": "QueryRoot"},
    "mutationType": {"name": "Mutation"},
    "types": [
      {
        "kind": "OBJECT",
        "name": "QueryRoot",
        "fields": [
          {"name": "product", "args": [{"name": "id", "type": {"kind": "NON_NULL", "name": null, "ofType": {"kind": "SCALAR", "name": "ID", "ofType": null}}, "defaultValue": null}], "type": {"kind": "OBJECT", "name": "Product", "ofType": null}, "description": "Returns a product by ID."},
          {"name": "products", "args": [], "type": {"kind": "OBJECT", "name": "Product", "ofType": null}},
          {"name": "shop", "args": [], "type": {"kind": "OBJECT", "name": "Shop", "ofType": null}}
        ]
      },
      {
        "kind": "OBJECT",
        "name": "Mutation",
        "fields": [
          {"name": "productCreate", "args": [], "type": {"kind": "OBJECT", "name": "Product", "ofType": null}}
        ]
      },
      {"kind": "OBJECT", "name": "ProductVariant", "fields": [{"name": "id", "args": [], "type": {"kind": "SCALAR", "name": "ID", "ofType": null}}]},
      {"kind": "OBJECT", "name": "Product", "description": "A product in the catalog.", "fields": [{"name": "id", "args": [], "type": {"kind": "SCALAR", "name": "ID", "ofType": null}}]},
      {"kind": "OBJECT", "name": "ProductImage", "fields": [{"name": "url", "args": [], "type": {"kind": "SCALAR", "name": "String", "ofType": null}}]},
      {"kind": "OBJECT", "name": "Shop", "fields": [{"name": "name", "args": [], "type": {"kind": "SCALAR", "name": "String", "ofType": null}}]},
      {"kind": "OBJECT", "name": "__Product", "fields": [{"name": "x", "args": [], "type": {"kind": "SCALAR", "name": "String", "ofType": null}}]}
    ]
  }
}`

func TestSearchRankingAndSections(t *testing.T) {
	t.Parallel()

	got, err := Search([]byte(productDocument), "product", nil)
	if err != nil {
		t.Fatalf("search: %v", err)
	}

	// Shortest name first: Product(7) < ProductImage(12) < ProductVariant(14).
	iProduct := strings.Index(got, "OBJECT Product\n")
	iImage := strings.Index(got, "OBJECT ProductImage\n")
	iVariant := strings.Index(got, "OBJECT ProductVariant\n")
	if iProduct < 0 || iImage < 0 || iVariant < 0 {
		t.Fatalf("expected all three product types in output:\n%s", got)
	}
	if !(iProduct < iImage && iImage < iVariant) {
		t.Errorf("types not ordered by ascending name length:\n%s", got)
	}

	if strings.Contains(got, "__Product") {
		t.Errorf("introspection-internal type leaked into search output:\n%s", got)
	}

	if !strings.Contains(got, "product(id: ID!): Product") {
		t.Errorf("query field with args missing:\n%s", got)
	}
	if !strings.Contains(got, "Returns a product by ID.") {
		t.Errorf("query field description missing:\n%s", got)
	}
	if !strings.Contains(got, "productCreate: Product") {
		t.Errorf("mutation field missing:\n%s", got)
	}
}

func TestSearchSectionSelection(t *testing.T) {
	t.Parallel()

	got, err := Search([]byte(productDocument), "product", []Section{SectionQueries})
	if err != nil {
		t.Fatalf("search: %v", err)
	}

	if strings.Contains(got, "## Matching types") {
		t.Errorf("types section rendered although only queries were requested:\n%s", got)
	}
	if strings.Contains(got, "## Matching mutations") {
		t.Errorf("mutations section rendered although only queries were requested:\n%s", got)
	}
	if !strings.Contains(got, "## Matching queries") {
		t.Errorf("queries section missing:\n%s", got)
	}
}

func TestSearchRankingTiesKeepDocumentOrder(t *testing.T) {
	t.Parallel()

	doc := `{"__schema": {"queryType": {"name": "QueryRoot"}, "types": [
		{"kind": "OBJECT", "name": "QueryRoot", "fields": [{"name": "noop", "args": [], "type": {"kind": "SCALAR", "name": "Boolean", "ofType": null}}]},
		{"kind": "OBJECT", "name": "OrderEdit", "fields": [{"name": "id", "args": [], "type": {"kind": "SCALAR", "name": "ID", "ofType": null}}]},
		{"kind": "OBJECT", "name": "OrderNode", "fields": [{"name": "id", "args": [], "type": {"kind": "SCALAR", "name": "ID", "ofType": null}}]}
	]}}`

	got, err := Search([]byte(doc), "order", []Section{SectionTypes})
	if err != nil {
		t.Fatalf("search: %v", err)
	}

	iEdit := strings.Index(got, "OrderEdit")
	iNode := strings.Index(got, "OrderNode")
	if iEdit < 0 || iNode < 0 || iEdit > iNode {
		t.Errorf("equal-length names should keep document order:\n%s", got)
	}
}

func TestSearchDeterminism(t *testing.T) {
	t.Parallel()

	first, err := Search([]byte(productDocument), "product", nil)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	second, err := Search([]byte(productDocument), "product", nil)
	if err != nil {
		t.Fatalf("search: %v", err)
	}

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("search output is not deterministic (-first +second):\n%s", diff)
	}
}

func TestSearchTruncation(t *testing.T) {
	t.Parallel()

	var types []string
	for i := 0; i < 25; i++ {
		types = append(types, fmt.Sprintf(
			`{"kind": "OBJECT", "name": "Widget%02d", "fields": [{"name": "id", "args": [], "type": {"kind": "SCALAR", "name": "ID", "ofType": null}}]}`, i))
	}
	doc := fmt.Sprintf(`{"__schema": {"queryType": {"name": "QueryRoot"}, "types": [
		{"kind": "OBJECT", "name": "QueryRoot", "fields": [{"name": "noop", "args": [], "type": {"kind": "SCALAR", "name": "Boolean", "ofType": null}}]},
		%s
	]}}`, strings.Join(types, ",\n"))

	got, err := Search([]byte(doc), "widget", []Section{SectionTypes})
	if err != nil {
		t.Fatalf("search: %v", err)
	}

	if n := strings.Count(got, "OBJECT Widget"); n != maxMatchesPerSection {
		t.Errorf("got %d rendered matches, want %d:\n%s", n, maxMatchesPerSection, got)
	}
	if !strings.Contains(got, "Showing 10 of 25 matching types") {
		t.Errorf("truncation notice missing:\n%s", got)
	}

	// Below the cap there must be no notice.
	got, err = Search([]byte(doc), "widget0", []Section{SectionTypes})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if strings.Contains(got, "Refine the search term") {
		t.Errorf("truncation notice present although match count is under the cap:\n%s", got)
	}
}

func TestSearchFieldCap(t *testing.T) {
	t.Parallel()

	var fields []string
	for i := 0; i < 60; i++ {
		fields = append(fields, fmt.Sprintf(
			`{"name": "field%02d", "args": [], "type": {"kind": "SCALAR", "name": "String", "ofType": null}}`, i))
	}
	doc := fmt.Sprintf(`{"__schema": {"queryType": {"name": "QueryRoot"}, "types": [
		{"kind": "OBJECT", "name": "QueryRoot", "fields": [{"name": "noop", "args": [], "type": {"kind": "SCALAR", "name": "Boolean", "ofType": null}}]},
		{"kind": "OBJECT", "name": "Wide", "fields": [%s]}
	]}}`, strings.Join(fields, ",\n"))

	got, err := Search([]byte(doc), "wide", []Section{SectionTypes})
	if err != nil {
		t.Fatalf("search: %v", err)
	}

	if n := strings.Count(got, ": String"); n != maxFieldsPerType {
		t.Errorf("got %d rendered fields, want %d", n, maxFieldsPerType)
	}
	if !strings.Contains(got, "...and 10 more fields") {
		t.Errorf("field overflow suffix missing:\n%s", got)
	}
}

func TestSearchDescriptionTruncation(t *testing.T) {
	t.Parallel()

	longDesc := strings.Repeat("x", 500)
	doc := fmt.Sprintf(`{"__schema": {"queryType": {"name": "QueryRoot"}, "types": [
		{"kind": "OBJECT", "name": "QueryRoot", "fields": [{"name": "noop", "args": [], "type": {"kind": "SCALAR", "name": "Boolean", "ofType": null}}]},
		{"kind": "OBJECT", "name": "Verbose", "description": %q, "fields": [{"name": "id", "args": [], "type": {"kind": "SCALAR", "name": "ID", "ofType": null}}]}
	]}}`, longDesc)

	got, err := Search([]byte(doc), "verbose", []Section{SectionTypes})
	if err != nil {
		t.Fatalf("search: %v", err)
	}

	want := longDesc[:typeDescriptionCap] + "..."
	if !strings.Contains(got, want) {
		t.Errorf("description not truncated to %d chars:\n%s", typeDescriptionCap, got)
	}
	if strings.Contains(got, longDesc) {
		t.Error("full description leaked into output")
	}
}
