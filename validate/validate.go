// Package validate runs GraphQL operation text through extraction, parsing
// and schema validation, and classifies the result. The schema the operations
// are checked against is reconstructed from introspection, so validation
// errors caused by that reconstruction being lossy are filtered out before
// the verdict is made.
package validate

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vektah/gqlparser/v2/parser"
	"github.com/vektah/gqlparser/v2/validator"
	"golang.org/x/sync/errgroup"

	"github.com/gqlatlas/gqlatlas/extract"
)

type Outcome string

const (
	Success Outcome = "SUCCESS"
	Failed  Outcome = "FAILED"
	Skipped Outcome = "SKIPPED"
)

// Check is the structured result of validating one operation.
type Check struct {
	Outcome Outcome `json:"result"`
	Detail  string  `json:"detail"`
}

// BatchResult aggregates the checks for every codeblock found in one input.
// Valid is false iff any check failed; skipped checks do not count against it.
type BatchResult struct {
	Valid  bool    `json:"valid"`
	Checks []Check `json:"checks"`
}

// SchemaSource resolves a schema name to its compiled schema. Resolution
// errors (load or compile failures) propagate to the caller as Go errors,
// never as FAILED checks.
type SchemaSource interface {
	Supported() []string
	Schema(ctx context.Context, name string) (*ast.Schema, error)
}

// Pipeline validates operation text against schemas obtained from a
// SchemaSource. The zero value is not usable; construct with New.
type Pipeline struct {
	source SchemaSource
}

func New(source SchemaSource) *Pipeline {
	return &Pipeline{source: source}
}

// Operation validates a single operation embedded in text. Unlike Codeblocks
// it reports every validation error, and a successful check names the root
// operation kind in its detail.
func (p *Pipeline) Operation(ctx context.Context, text, schemaName string) (Check, error) {
	if check, ok := p.checkSchemaName(schemaName); !ok {
		return check, nil
	}

	source := extract.Operation(text)
	if source == "" {
		return Check{Outcome: Skipped, Detail: "no GraphQL operation found in the input"}, nil
	}

	doc, err := parser.ParseQuery(&ast.Source{Name: "operation.graphql", Input: source})
	if err != nil {
		return Check{Outcome: Failed, Detail: fmt.Sprintf("syntax error: %v", err)}, nil
	}

	schema, err := p.source.Schema(ctx, schemaName)
	if err != nil {
		return Check{}, err
	}

	if errs := validator.Validate(schema, doc); len(errs) > 0 {
		return Check{Outcome: Failed, Detail: joinErrors(errs)}, nil
	}

	return Check{Outcome: Success, Detail: fmt.Sprintf("valid %s operation", rootKind(doc))}, nil
}

// Codeblocks validates every GraphQL codeblock in text concurrently and
// reassembles the checks in input order. Validation errors attributable to
// the lossy schema reconstruction are discarded before classification.
func (p *Pipeline) Codeblocks(ctx context.Context, text, schemaName string) (BatchResult, error) {
	if check, ok := p.checkSchemaName(schemaName); !ok {
		return BatchResult{Valid: false, Checks: []Check{check}}, nil
	}

	sources := extract.Operations(text)
	if len(sources) == 0 {
		return BatchResult{
			Valid:  true,
			Checks: []Check{{Outcome: Skipped, Detail: "no GraphQL codeblocks found in the input"}},
		}, nil
	}

	schema, err := p.source.Schema(ctx, schemaName)
	if err != nil {
		return BatchResult{}, err
	}

	checks := make([]Check, len(sources))
	g, ctx := errgroup.WithContext(ctx)
	for i, source := range sources {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			checks[i] = checkCodeblock(schema, source)

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return BatchResult{}, err
	}

	valid := true
	for _, c := range checks {
		if c.Outcome == Failed {
			valid = false

			break
		}
	}

	return BatchResult{Valid: valid, Checks: checks}, nil
}

func checkCodeblock(schema *ast.Schema, source string) Check {
	doc, err := parser.ParseQuery(&ast.Source{Name: "operation.graphql", Input: source})
	if err != nil {
		return Check{Outcome: Failed, Detail: fmt.Sprintf("syntax error: %v", err)}
	}

	errs := validator.Validate(schema, doc)
	significant, ignored := SignificantErrors(schema, errs)
	if len(significant) > 0 {
		return Check{Outcome: Failed, Detail: joinErrors(significant)}
	}

	detail := fmt.Sprintf("valid %s operation", rootKind(doc))
	if ignored > 0 {
		detail += fmt.Sprintf(" (%d errors about unknown types were ignored)", ignored)
	}

	return Check{Outcome: Success, Detail: detail}
}

func (p *Pipeline) checkSchemaName(schemaName string) (Check, bool) {
	supported := p.source.Supported()
	for _, name := range supported {
		if name == schemaName {
			return Check{}, true
		}
	}

	sorted := append([]string(nil), supported...)
	sort.Strings(sorted)

	return Check{
		Outcome: Failed,
		Detail:  fmt.Sprintf("unsupported schema %q; supported schemas: %s", schemaName, strings.Join(sorted, ", ")),
	}, false
}

// rootKind reports the operation kind of the first definition in the parsed
// document: query, mutation or subscription.
func rootKind(doc *ast.QueryDocument) string {
	if len(doc.Operations) == 0 {
		return "query"
	}

	return string(doc.Operations[0].Operation)
}

func joinErrors(errs gqlerror.List) string {
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Message)
	}

	return strings.Join(msgs, "; ")
}
