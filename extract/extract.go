// Package extract locates GraphQL operation source inside free-form text,
// typically markdown produced by an LLM.
package extract

import (
	"regexp"
	"strings"
)

var (
	// A fence explicitly tagged as GraphQL, e.g. ```graphql ... ```.
	graphqlFence = regexp.MustCompile("(?s)```(?:graphql|gql)[ \t]*\r?\n(.*?)```")

	// Any fence, capturing the language tag (may be empty) separately from
	// the body. The remainder of the tag line is ignored, which allows an
	// operation name token after the tag.
	anyFence = regexp.MustCompile("(?s)```([A-Za-z]*)[^\n]*\n(.*?)```")
)

// operationTags are the fence tags treated as GraphQL when enumerating
// every codeblock in a document.
var operationTags = map[string]bool{
	"graphql":      true,
	"gql":          true,
	"query":        true,
	"mutation":     true,
	"subscription": true,
}

// Operation extracts a single operation from text. A fence tagged
// graphql/gql wins; otherwise the whole trimmed input is taken as the
// operation body. The empty string means nothing was extractable.
func Operation(text string) string {
	if m := graphqlFence.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}

	return strings.TrimSpace(text)
}

// Operations extracts every operation codeblock from text. Fences carrying a
// GraphQL tag are collected first; untagged fences are considered only when
// no tagged fence exists anywhere in the input. Bodies that are empty after
// trimming are dropped.
func Operations(text string) []string {
	var tagged, untagged []string
	taggedSeen := false

	for _, m := range anyFence.FindAllStringSubmatch(text, -1) {
		tag := strings.ToLower(m[1])
		body := strings.TrimSpace(m[2])
		switch {
		case operationTags[tag]:
			taggedSeen = true
			if body != "" {
				tagged = append(tagged, body)
			}
		case tag == "":
			if body != "" {
				untagged = append(untagged, body)
			}
		}
	}

	if taggedSeen {
		return tagged
	}

	return untagged
}
