package validate

import (
	"regexp"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

var fieldOnType = regexp.MustCompile(`Cannot query field "[^"]+" on type "([^"]+)"`)

// SignificantErrors discards validation errors that are expected fallout of
// reconstructing the schema from introspection rather than real defects in
// the operation: unknown types, anything mentioning scalars, and unknown
// fields whose parent type is itself not declared in the schema. It returns
// the surviving errors and how many were discarded.
//
// The classification is a substring heuristic over gqlparser's message
// wording. It lives behind this one function so the heuristic can be swapped
// without touching the pipeline.
func SignificantErrors(schema *ast.Schema, errs gqlerror.List) (gqlerror.List, int) {
	var significant gqlerror.List
	ignored := 0

	for _, err := range errs {
		if isReconstructionNoise(schema, err.Message) {
			ignored++

			continue
		}
		significant = append(significant, err)
	}

	return significant, ignored
}

func isReconstructionNoise(schema *ast.Schema, msg string) bool {
	if strings.Contains(msg, "Unknown type") {
		return true
	}
	if strings.Contains(strings.ToLower(msg), "scalar") {
		return true
	}
	if m := fieldOnType.FindStringSubmatch(msg); m != nil {
		if schema == nil {
			return false
		}
		if _, declared := schema.Types[m[1]]; !declared {
			return true
		}
	}

	return false
}
