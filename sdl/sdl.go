// Package sdl compiles a GraphQL introspection document into an executable
// schema. The introspection tree is first rendered as schema definition
// language text and the text is then built with gqlparser, so the existing
// SDL parser does all structural checking. The rendering is lossy on purpose:
// descriptions, directives and deprecations are dropped, and types that come
// out of introspection with no members get a placeholder member so the
// generated text stays buildable.
package sdl

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/gqlatlas/gqlatlas/introspection"
)

// builtinScalars never get an explicit scalar declaration.
var builtinScalars = map[string]bool{
	"String":  true,
	"Int":     true,
	"Float":   true,
	"Boolean": true,
	"ID":      true,
}

const (
	placeholderField     = "_placeholder: String"
	placeholderEnumValue = "_PLACEHOLDER"
	placeholderQueryRoot = "PlaceholderQueryRoot"
)

// snippetLen bounds how much generated SDL a CompileError carries.
const snippetLen = 500

// CompileError reports introspection input that could not be turned into a
// buildable schema. SDL holds the beginning of the generated text when the
// failure happened at build time.
type CompileError struct {
	Err error
	SDL string
}

func (e *CompileError) Error() string {
	if e.SDL == "" {
		return fmt.Sprintf("compile schema: %v", e.Err)
	}

	return fmt.Sprintf("compile schema: %v (generated SDL begins: %s)", e.Err, e.SDL)
}

func (e *CompileError) Unwrap() error { return e.Err }

// Compile parses raw introspection JSON and builds an executable schema from it.
func Compile(raw []byte) (*ast.Schema, error) {
	doc, err := introspection.Parse(raw)
	if err != nil {
		return nil, &CompileError{Err: err}
	}

	return CompileDocument(doc)
}

// CompileDocument builds an executable schema from an already-parsed document.
func CompileDocument(doc *introspection.Document) (*ast.Schema, error) {
	text := Generate(doc)

	schema, err := gqlparser.LoadSchema(&ast.Source{Name: "introspection.graphql", Input: text})
	if err != nil {
		return nil, &CompileError{Err: err, SDL: head(text, snippetLen)}
	}

	return schema, nil
}

// Generate renders the document as SDL text. Declarations are emitted in a
// fixed order (scalars, enums, inputs, objects, interfaces, unions, schema
// block) so the output is deterministic for a given document.
func Generate(doc *introspection.Document) string {
	var b strings.Builder

	for _, typ := range doc.Schema.Types {
		if typ == nil || typ.Name == nil || typ.IsInternal() {
			continue
		}
		if typ.Kind == introspection.TypeKindScalar && !builtinScalars[*typ.Name] {
			fmt.Fprintf(&b, "scalar %s\n\n", *typ.Name)
		}
	}

	for _, typ := range doc.Schema.Types {
		if typ == nil || typ.Name == nil || typ.IsInternal() || typ.Kind != introspection.TypeKindEnum {
			continue
		}
		fmt.Fprintf(&b, "enum %s {\n", *typ.Name)
		if len(typ.EnumValues) == 0 {
			fmt.Fprintf(&b, "  %s\n", placeholderEnumValue)
		}
		for _, v := range typ.EnumValues {
			if v != nil {
				fmt.Fprintf(&b, "  %s\n", v.Name)
			}
		}
		b.WriteString("}\n\n")
	}

	for _, typ := range doc.Schema.Types {
		if typ == nil || typ.Name == nil || typ.IsInternal() || typ.Kind != introspection.TypeKindInputObject {
			continue
		}
		fmt.Fprintf(&b, "input %s {\n", *typ.Name)
		if len(typ.InputFields) == 0 {
			fmt.Fprintf(&b, "  %s\n", placeholderField)
		}
		for _, in := range typ.InputFields {
			if in != nil {
				fmt.Fprintf(&b, "  %s\n", inputValue(in))
			}
		}
		b.WriteString("}\n\n")
	}

	for _, typ := range doc.Schema.Types {
		if typ == nil || typ.Name == nil || typ.IsInternal() || typ.Kind != introspection.TypeKindObject {
			continue
		}
		writeCompositeType(&b, "type", typ)
	}

	for _, typ := range doc.Schema.Types {
		if typ == nil || typ.Name == nil || typ.IsInternal() || typ.Kind != introspection.TypeKindInterface {
			continue
		}
		writeCompositeType(&b, "interface", typ)
	}

	for _, typ := range doc.Schema.Types {
		if typ == nil || typ.Name == nil || typ.IsInternal() || typ.Kind != introspection.TypeKindUnion {
			continue
		}
		members := make([]string, 0, len(typ.PossibleTypes))
		for _, pt := range typ.PossibleTypes {
			if name := pt.Named(); name != "" {
				members = append(members, name)
			}
		}
		if len(members) == 0 {
			// A union with no members is not valid SDL.
			slog.Warn("skipping union with no possible types", "union", *typ.Name)

			continue
		}
		fmt.Fprintf(&b, "union %s = %s\n\n", *typ.Name, strings.Join(members, " | "))
	}

	writeSchemaBlock(&b, doc)

	return b.String()
}

func writeCompositeType(b *strings.Builder, keyword string, typ *introspection.Type) {
	fmt.Fprintf(b, "%s %s", keyword, *typ.Name)

	if len(typ.Interfaces) > 0 {
		names := make([]string, 0, len(typ.Interfaces))
		for _, iface := range typ.Interfaces {
			if name := iface.Named(); name != "" {
				names = append(names, name)
			}
		}
		if len(names) > 0 {
			fmt.Fprintf(b, " implements %s", strings.Join(names, " & "))
		}
	}

	b.WriteString(" {\n")
	if len(typ.Fields) == 0 {
		fmt.Fprintf(b, "  %s\n", placeholderField)
	}
	for _, f := range typ.Fields {
		if f == nil || f.Name == "" {
			continue
		}
		fmt.Fprintf(b, "  %s%s: %s\n", f.Name, argList(f.Args), f.Type.String())
	}
	b.WriteString("}\n\n")
}

func writeSchemaBlock(b *strings.Builder, doc *introspection.Document) {
	queryRoot := rootName(doc.Schema.QueryType)
	if queryRoot == "" {
		// SDL must always declare a query root.
		fmt.Fprintf(b, "type %s {\n  %s\n}\n\n", placeholderQueryRoot, placeholderField)
		queryRoot = placeholderQueryRoot
	}

	b.WriteString("schema {\n")
	fmt.Fprintf(b, "  query: %s\n", queryRoot)
	if mutationRoot := rootName(doc.Schema.MutationType); mutationRoot != "" {
		fmt.Fprintf(b, "  mutation: %s\n", mutationRoot)
	}
	b.WriteString("}\n")
}

func rootName(ref *introspection.RootRef) string {
	if ref == nil || ref.Name == nil {
		return ""
	}

	return *ref.Name
}

// argList renders "(a: Int, b: String = 10)" or "" when there are no args.
func argList(args []*introspection.InputValue) string {
	if len(args) == 0 {
		return ""
	}

	rendered := make([]string, 0, len(args))
	for _, a := range args {
		if a != nil {
			rendered = append(rendered, inputValue(a))
		}
	}
	if len(rendered) == 0 {
		return ""
	}

	return "(" + strings.Join(rendered, ", ") + ")"
}

// inputValue renders one argument or input field. DefaultValue arrives from
// introspection already formatted as a GraphQL literal.
func inputValue(in *introspection.InputValue) string {
	s := in.Name + ": " + in.Type.String()
	if in.DefaultValue != nil && *in.DefaultValue != "" {
		s += " = " + *in.DefaultValue
	}

	return s
}

func head(s string, n int) string {
	if len(s) <= n {
		return s
	}

	return s[:n]
}
