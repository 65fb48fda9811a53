package introspection

import (
	"fmt"
	"strings"

	json "github.com/go-json-experiment/json"
)

type TypeKind string

const (
	TypeKindScalar      TypeKind = "SCALAR"
	TypeKindObject      TypeKind = "OBJECT"
	TypeKindInterface   TypeKind = "INTERFACE"
	TypeKindUnion       TypeKind = "UNION"
	TypeKindEnum        TypeKind = "ENUM"
	TypeKindInputObject TypeKind = "INPUT_OBJECT"
	TypeKindList        TypeKind = "LIST"
	TypeKindNonNull     TypeKind = "NON_NULL"
)

// Document is the root of a standard introspection query result.
type Document struct {
	Schema Schema `json:"__schema"`
}

type Schema struct {
	QueryType        *RootRef     `json:"queryType"`
	MutationType     *RootRef     `json:"mutationType"`
	SubscriptionType *RootRef     `json:"subscriptionType"`
	Types            Types        `json:"types"`
	Directives       []*Directive `json:"directives"`
}

type RootRef struct {
	Name *string `json:"name"`
}

type Types []*Type

func (ts Types) NameMap() map[string]*Type {
	typeMap := make(map[string]*Type, len(ts))
	for _, typ := range ts {
		if typ.Name != nil {
			typeMap[*typ.Name] = typ
		}
	}

	return typeMap
}

// ByName returns the named type, or nil when the document does not declare it.
func (ts Types) ByName(name string) *Type {
	for _, typ := range ts {
		if typ.Name != nil && *typ.Name == name {
			return typ
		}
	}

	return nil
}

type Type struct {
	Kind          TypeKind      `json:"kind"`
	Name          *string       `json:"name"`
	Description   *string       `json:"description"`
	Fields        []*Field      `json:"fields"`
	InputFields   []*InputValue `json:"inputFields"`
	Interfaces    []*TypeRef    `json:"interfaces"`
	EnumValues    []*EnumValue  `json:"enumValues"`
	PossibleTypes []*TypeRef    `json:"possibleTypes"`
}

// IsInternal reports whether the type belongs to the introspection system
// itself. Internal types never appear in generated SDL or search output.
func (t *Type) IsInternal() bool {
	return t.Name != nil && strings.HasPrefix(*t.Name, "__")
}

type Field struct {
	Type              TypeRef       `json:"type"`
	Description       *string       `json:"description"`
	DeprecationReason *string       `json:"deprecationReason"`
	Name              string        `json:"name"`
	Args              []*InputValue `json:"args"`
	IsDeprecated      bool          `json:"isDeprecated"`
}

type InputValue struct {
	Type         TypeRef `json:"type"`
	Description  *string `json:"description"`
	DefaultValue *string `json:"defaultValue"`
	Name         string  `json:"name"`
}

type EnumValue struct {
	Description       *string `json:"description"`
	DeprecationReason *string `json:"deprecationReason"`
	Name              string  `json:"name"`
	IsDeprecated      bool    `json:"isDeprecated"`
}

// TypeRef is the recursive NON_NULL/LIST/named-type wrapper structure.
type TypeRef struct {
	Name   *string  `json:"name"`
	OfType *TypeRef `json:"ofType"`
	Kind   TypeKind `json:"kind"`
}

// Named returns the innermost named type, unwrapping NON_NULL and LIST.
func (r *TypeRef) Named() string {
	if r == nil {
		return ""
	}
	if r.Name != nil && *r.Name != "" {
		return *r.Name
	}

	return r.OfType.Named()
}

// String renders the full type signature, e.g. "[String!]!".
func (r *TypeRef) String() string {
	if r == nil {
		return ""
	}
	switch r.Kind {
	case TypeKindNonNull:
		return r.OfType.String() + "!"
	case TypeKindList:
		return "[" + r.OfType.String() + "]"
	default:
		if r.Name != nil {
			return *r.Name
		}

		return ""
	}
}

type Directive struct {
	Name        string        `json:"name"`
	Description *string       `json:"description"`
	Locations   []string      `json:"locations"`
	Args        []*InputValue `json:"args"`
}

// envelope matches a full GraphQL response body so that a persisted
// introspection dump can be either the bare result or the wire envelope.
type envelope struct {
	Data *Document `json:"data"`
}

// Parse decodes an introspection dump. It accepts both the bare
// {"__schema": ...} object and the {"data": {"__schema": ...}} response
// envelope. A document without a __schema.types sequence is rejected.
func Parse(raw []byte) (*Document, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil && env.Data != nil && env.Data.Schema.Types != nil {
		return env.Data, nil
	}

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse introspection document: %w", err)
	}
	if doc.Schema.Types == nil {
		return nil, fmt.Errorf("parse introspection document: missing __schema.types")
	}

	return &doc, nil
}
