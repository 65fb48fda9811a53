package extract

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestOperation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "graphql fence",
			text: "Here you go:\n```graphql\nquery { shop { name } }\n```\nEnjoy.",
			want: "query { shop { name } }",
		},
		{
			name: "gql fence",
			text: "```gql\n{ shop }\n```",
			want: "{ shop }",
		},
		{
			name: "fence with trailing whitespace after tag",
			text: "```graphql   \n{ shop }\n```",
			want: "{ shop }",
		},
		{
			name: "bare operation without fence",
			text: "  query { shop }  ",
			want: "query { shop }",
		},
		{
			name: "empty fenced block",
			text: "```graphql\n\n```",
			want: "",
		},
		{
			name: "empty input",
			text: "",
			want: "",
		},
		{
			name: "whitespace only",
			text: "   \n\t  ",
			want: "",
		},
		{
			name: "unterminated fence falls back to whole input",
			text: "```graphql\nquery {\n",
			want: "```graphql\nquery {",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Operation(tt.text); got != tt.want {
				t.Errorf("Operation() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOperations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "multiple tagged fences",
			text: "```graphql\n{ a }\n```\ntext\n```gql\n{ b }\n```",
			want: []string{"{ a }", "{ b }"},
		},
		{
			name: "operation kind tags",
			text: "```query\n{ a }\n```\n```mutation\nmutation { b }\n```\n```subscription\nsubscription { c }\n```",
			want: []string{"{ a }", "mutation { b }", "subscription { c }"},
		},
		{
			name: "tag followed by operation name token",
			text: "```graphql GetShop\n{ shop }\n```",
			want: []string{"{ shop }"},
		},
		{
			name: "untagged fallback when no tagged fence exists",
			text: "```\n{ a }\n```\n```\n{ b }\n```",
			want: []string{"{ a }", "{ b }"},
		},
		{
			name: "tagged fences suppress untagged ones",
			text: "```\n{ untagged }\n```\n```graphql\n{ tagged }\n```",
			want: []string{"{ tagged }"},
		},
		{
			name: "empty tagged fence still suppresses untagged fallback",
			text: "```graphql\n\n```\n```\n{ untagged }\n```",
			want: nil,
		},
		{
			name: "non-graphql tags are ignored",
			text: "```json\n{\"a\": 1}\n```\n```graphql\n{ a }\n```",
			want: []string{"{ a }"},
		},
		{
			name: "no fences at all",
			text: "just prose, no code",
			want: nil,
		},
		{
			name: "empty bodies dropped",
			text: "```graphql\n{ a }\n```\n```graphql\n   \n```",
			want: []string{"{ a }"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if diff := cmp.Diff(tt.want, Operations(tt.text)); diff != "" {
				t.Errorf("Operations() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
