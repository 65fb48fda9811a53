// Package search implements free-text lookup over an introspection document.
// Matching is a normalized substring test over type and field names, results
// are ranked shortest-name-first and truncated per section so the output
// stays small enough to hand to an LLM client.
package search

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gqlatlas/gqlatlas/introspection"
)

type Section string

const (
	SectionAll       Section = "all"
	SectionTypes     Section = "types"
	SectionQueries   Section = "queries"
	SectionMutations Section = "mutations"
)

const (
	maxMatchesPerSection = 10
	maxFieldsPerType     = 50
	typeDescriptionCap   = 150
	fieldDescriptionCap  = 100
)

// Normalize reduces a raw search term to the form used for matching: trim,
// strip one trailing "s" (naive singularization, kept for compatibility),
// remove internal whitespace, lowercase.
func Normalize(term string) string {
	t := strings.TrimSpace(term)
	t = strings.TrimSuffix(t, "s")
	t = strings.Join(strings.Fields(t), "")

	return strings.ToLower(t)
}

// Search filters the document's types, query fields and mutation fields by
// term and renders the matches as readable text. sections selects which of
// the three groups to include; empty or containing SectionAll means all.
func Search(raw []byte, term string, sections []Section) (string, error) {
	doc, err := introspection.Parse(raw)
	if err != nil {
		return "", err
	}

	normalized := Normalize(term)
	wantTypes, wantQueries, wantMutations := selectSections(sections)

	var b strings.Builder

	if wantTypes {
		writeTypeSection(&b, doc, normalized, term)
	}
	if wantQueries {
		writeOperationSection(&b, doc, doc.Schema.QueryType, "queries", normalized, term)
	}
	if wantMutations {
		writeOperationSection(&b, doc, doc.Schema.MutationType, "mutations", normalized, term)
	}

	return strings.TrimRight(b.String(), "\n") + "\n", nil
}

func selectSections(sections []Section) (types, queries, mutations bool) {
	if len(sections) == 0 {
		return true, true, true
	}
	for _, s := range sections {
		switch s {
		case SectionAll:
			return true, true, true
		case SectionTypes:
			types = true
		case SectionQueries:
			queries = true
		case SectionMutations:
			mutations = true
		}
	}

	return types, queries, mutations
}

func matches(name *string, normalized string) bool {
	if name == nil {
		return false
	}

	return strings.Contains(strings.ToLower(*name), normalized)
}

// rank sorts matched items ascending by name length, shortest first, as a
// proxy for specificity. Items without a name sort last. The sort is stable
// so ties keep document order.
func rank[T any](items []T, nameOf func(T) *string) {
	sort.SliceStable(items, func(i, j int) bool {
		ni, nj := nameOf(items[i]), nameOf(items[j])
		switch {
		case ni == nil:
			return false
		case nj == nil:
			return true
		default:
			return len(*ni) < len(*nj)
		}
	})
}

func writeTypeSection(b *strings.Builder, doc *introspection.Document, normalized, term string) {
	var matched []*introspection.Type
	for _, typ := range doc.Schema.Types {
		if typ == nil || typ.IsInternal() {
			continue
		}
		if matches(typ.Name, normalized) {
			matched = append(matched, typ)
		}
	}

	rank(matched, func(t *introspection.Type) *string { return t.Name })

	fmt.Fprintf(b, "## Matching types\n\n")
	if len(matched) == 0 {
		fmt.Fprintf(b, "No types matching %q.\n\n", term)

		return
	}

	total := len(matched)
	if total > maxMatchesPerSection {
		matched = matched[:maxMatchesPerSection]
	}
	for _, typ := range matched {
		writeType(b, typ)
	}
	if total > maxMatchesPerSection {
		fmt.Fprintf(b, "Showing %d of %d matching types. Refine the search term to narrow the results.\n\n", maxMatchesPerSection, total)
	}
}

func writeType(b *strings.Builder, typ *introspection.Type) {
	fmt.Fprintf(b, "%s %s\n", typ.Kind, *typ.Name)
	if desc := deref(typ.Description); desc != "" {
		fmt.Fprintf(b, "  %s\n", truncate(desc, typeDescriptionCap))
	}
	if len(typ.Interfaces) > 0 {
		names := make([]string, 0, len(typ.Interfaces))
		for _, iface := range typ.Interfaces {
			if name := iface.Named(); name != "" {
				names = append(names, name)
			}
		}
		if len(names) > 0 {
			fmt.Fprintf(b, "  implements %s\n", strings.Join(names, " & "))
		}
	}

	shown := 0
	for _, f := range typ.Fields {
		if f == nil {
			continue
		}
		if shown == maxFieldsPerType {
			break
		}
		fmt.Fprintf(b, "  %s%s: %s\n", f.Name, argList(f.Args), f.Type.String())
		shown++
	}
	if remaining := len(typ.Fields) - shown; remaining > 0 {
		fmt.Fprintf(b, "  ...and %d more fields\n", remaining)
	}
	b.WriteString("\n")
}

func writeOperationSection(b *strings.Builder, doc *introspection.Document, root *introspection.RootRef, label, normalized, term string) {
	fmt.Fprintf(b, "## Matching %s\n\n", label)

	var fields []*introspection.Field
	if root != nil && root.Name != nil {
		if rootType := doc.Schema.Types.ByName(*root.Name); rootType != nil {
			fields = rootType.Fields
		}
	}

	var matched []*introspection.Field
	for _, f := range fields {
		if f == nil {
			continue
		}
		name := f.Name
		if matches(&name, normalized) {
			matched = append(matched, f)
		}
	}

	rank(matched, func(f *introspection.Field) *string { return &f.Name })

	if len(matched) == 0 {
		fmt.Fprintf(b, "No %s matching %q.\n\n", label, term)

		return
	}

	total := len(matched)
	if total > maxMatchesPerSection {
		matched = matched[:maxMatchesPerSection]
	}
	for _, f := range matched {
		fmt.Fprintf(b, "%s%s: %s\n", f.Name, argList(f.Args), f.Type.String())
		if desc := deref(f.Description); desc != "" {
			fmt.Fprintf(b, "  %s\n", truncate(desc, fieldDescriptionCap))
		}
	}
	b.WriteString("\n")
	if total > maxMatchesPerSection {
		fmt.Fprintf(b, "Showing %d of %d matching %s. Refine the search term to narrow the results.\n\n", maxMatchesPerSection, total, label)
	}
}

func argList(args []*introspection.InputValue) string {
	if len(args) == 0 {
		return ""
	}

	rendered := make([]string, 0, len(args))
	for _, a := range args {
		if a != nil {
			rendered = append(rendered, a.Name+": "+a.Type.String())
		}
	}
	if len(rendered) == 0 {
		return ""
	}

	return "(" + strings.Join(rendered, ", ") + ")"
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}

	return s[:n] + "..."
}

func deref(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}
