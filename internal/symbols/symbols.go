// Package symbols defines the canonical symbol records extracted from a
// generated source file. Every record is keyed by name within its container.
package symbols

// Unspecified is the type expression recorded when the source declares no
// type annotation.
const Unspecified = "unspecified"

// Visibility is the access level of a field.
type Visibility string

const (
	Public    Visibility = "public"
	Private   Visibility = "private"
	Protected Visibility = "protected"
)

// Parameter is one entry of a method's parameter list.
type Parameter struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Ordinal  int    `json:"ordinal"` // zero-based declared position
	Optional bool   `json:"optional"`
}

func (p Parameter) ItemName() string { return p.Name }
func (p Parameter) ItemOrdinal() int { return p.Ordinal }

// Method is a method, method signature or function.
type Method struct {
	Name       string      `json:"name"`
	ReturnType string      `json:"return_type"`
	Parameters []Parameter `json:"parameters"`
}

func (m Method) ItemName() string { return m.Name }

// Field is a class property or interface property signature.
type Field struct {
	Name       string     `json:"name"`
	Type       string     `json:"type"`
	Value      string     `json:"value,omitempty"` // literal initializer, empty when absent
	Visibility Visibility `json:"visibility"`
	ReadOnly   bool       `json:"read_only"`
}

func (f Field) ItemName() string { return f.Name }

// Class is a class declaration.
type Class struct {
	Name       string   `json:"name"`
	Exported   bool     `json:"exported"`
	Methods    []Method `json:"methods"`
	Fields     []Field  `json:"fields"`
	BaseClass  string   `json:"base_class,omitempty"`
	Interfaces []string `json:"interfaces,omitempty"`
}

func (c Class) ItemName() string { return c.Name }

// Interface is an interface declaration.
type Interface struct {
	Name     string   `json:"name"`
	Exported bool     `json:"exported"`
	Methods  []Method `json:"methods"`
	Fields   []Field  `json:"fields"`
	Extends  []string `json:"extends,omitempty"`
}

func (i Interface) ItemName() string { return i.Name }

// TypeAlias is a named alias for a type expression.
type TypeAlias struct {
	Name     string `json:"name"`
	Exported bool   `json:"exported"`
	Type     string `json:"type"`
}

func (t TypeAlias) ItemName() string { return t.Name }

// Variable is a module-scope variable or constant binding.
type Variable struct {
	Name     string `json:"name"`
	Exported bool   `json:"exported"`
	Type     string `json:"type"`
	Value    string `json:"value,omitempty"`
}

func (v Variable) ItemName() string { return v.Name }

// SourceDetails aggregates the symbols of one file. Each collection is in
// source declaration order.
type SourceDetails struct {
	Classes    []Class     `json:"classes"`
	Interfaces []Interface `json:"interfaces"`
	Types      []TypeAlias `json:"types"`
	Variables  []Variable  `json:"variables"`
}

// New returns SourceDetails with empty, non-nil collections.
func New() *SourceDetails {
	return &SourceDetails{
		Classes:    []Class{},
		Interfaces: []Interface{},
		Types:      []TypeAlias{},
		Variables:  []Variable{},
	}
}

// Name is a bare name used for name-only collections such as implemented
// interfaces.
type Name string

func (n Name) ItemName() string { return string(n) }

// Names converts a string slice to reconcilable names.
func Names(values []string) []Name {
	out := make([]Name, len(values))
	for i, v := range values {
		out[i] = Name(v)
	}
	return out
}
