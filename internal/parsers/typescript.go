package parsers

import (
	"strings"

	"github.com/mvp-joe/gencompare/internal/symbols"
	sitter "github.com/tree-sitter/go-tree-sitter"
	typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// TypeScriptExtractor extracts symbols from TypeScript and TSX files.
type TypeScriptExtractor struct {
	*treeSitterParser
}

// NewTypeScriptExtractor creates an extractor for .ts files.
func NewTypeScriptExtractor() *TypeScriptExtractor {
	lang := sitter.NewLanguage(typescript.LanguageTypescript())
	return &TypeScriptExtractor{
		treeSitterParser: newTreeSitterParser(lang, "typescript"),
	}
}

// NewTSXExtractor creates an extractor for .tsx files.
func NewTSXExtractor() *TypeScriptExtractor {
	lang := sitter.NewLanguage(typescript.LanguageTSX())
	return &TypeScriptExtractor{
		treeSitterParser: newTreeSitterParser(lang, "tsx"),
	}
}

// Extract builds SourceDetails from a TypeScript syntax tree.
func (e *TypeScriptExtractor) Extract(tree *Tree) (*symbols.SourceDetails, error) {
	x := &tsExtraction{extraction{path: tree.Path()}}
	root := tree.Root()
	details := symbols.New()

	for _, n := range root.Descendants("class_declaration", "abstract_class_declaration") {
		class, err := x.class(n)
		if err != nil {
			return nil, err
		}
		details.Classes = append(details.Classes, class)
	}

	for _, n := range root.Descendants("interface_declaration") {
		iface, err := x.iface(n)
		if err != nil {
			return nil, err
		}
		details.Interfaces = append(details.Interfaces, iface)
	}

	for _, n := range root.Descendants("type_alias_declaration") {
		alias, err := x.typeAlias(n)
		if err != nil {
			return nil, err
		}
		details.Types = append(details.Types, alias)
	}

	for _, n := range root.Descendants("variable_declarator") {
		if !isModuleScopeVariable(n) {
			continue
		}
		variable, err := x.variable(n)
		if err != nil {
			return nil, err
		}
		details.Variables = append(details.Variables, variable)
	}

	return details, nil
}

type tsExtraction struct {
	extraction
}

// isExported reports whether the declaration is wrapped in an export
// statement, directly or through a declare wrapper.
func isExported(n Node) bool {
	parent, ok := n.Parent()
	if ok && parent.Kind() == "ambient_declaration" {
		parent, ok = parent.Parent()
	}
	return ok && parent.Kind() == "export_statement"
}

// isModuleScopeVariable reports whether a variable_declarator is declared at
// module scope: its declaration sits directly in the program or in an export,
// optionally behind declare.
func isModuleScopeVariable(n Node) bool {
	declaration, ok := n.Parent()
	if !ok {
		return false
	}
	scope, ok := declaration.Parent()
	if !ok {
		return false
	}
	if scope.Kind() == "ambient_declaration" {
		if scope, ok = scope.Parent(); !ok {
			return false
		}
	}
	return scope.Kind() == "export_statement" || scope.Kind() == "program"
}

// annotationType returns the type expression inside a type annotation such as
// ": string", or Unspecified when the annotation is absent.
func annotationType(annotation Node, present bool) string {
	if !present {
		return symbols.Unspecified
	}
	if typ, ok := annotation.FirstNamedChild(); ok {
		return normalizeText(typ.Text())
	}
	return normalizeText(strings.TrimPrefix(strings.TrimSpace(annotation.Text()), ":"))
}

func (x *tsExtraction) class(n Node) (symbols.Class, error) {
	name, err := x.required(n, "name")
	if err != nil {
		return symbols.Class{}, err
	}
	body, err := x.required(n, "body")
	if err != nil {
		return symbols.Class{}, err
	}

	class := symbols.Class{
		Name:     name.Text(),
		Exported: isExported(n),
		Methods:  []symbols.Method{},
		Fields:   []symbols.Field{},
	}

	if heritage, ok := n.ChildOfKind("class_heritage"); ok {
		if extends, ok := heritage.ChildOfKind("extends_clause"); ok {
			// The clause text keeps type arguments such as Base<Model>.
			base := strings.TrimPrefix(strings.TrimSpace(extends.Text()), "extends")
			class.BaseClass = normalizeText(base)
		}
		if implements, ok := heritage.ChildOfKind("implements_clause"); ok {
			class.Interfaces = namedTexts(implements)
		}
	}

	for _, member := range body.NamedChildren() {
		switch member.Kind() {
		case "method_definition", "method_signature", "abstract_method_signature":
			method, err := x.method(member)
			if err != nil {
				return symbols.Class{}, err
			}
			class.Methods = append(class.Methods, method)
		case "public_field_definition", "field_definition":
			field, err := x.field(member)
			if err != nil {
				return symbols.Class{}, err
			}
			class.Fields = append(class.Fields, field)
		}
	}

	return class, nil
}

func (x *tsExtraction) iface(n Node) (symbols.Interface, error) {
	name, err := x.required(n, "name")
	if err != nil {
		return symbols.Interface{}, err
	}
	body, err := x.required(n, "body")
	if err != nil {
		return symbols.Interface{}, err
	}

	iface := symbols.Interface{
		Name:     name.Text(),
		Exported: isExported(n),
		Methods:  []symbols.Method{},
		Fields:   []symbols.Field{},
	}

	if extends, ok := n.ChildOfKind("extends_type_clause"); ok {
		iface.Extends = namedTexts(extends)
	}

	for _, member := range body.NamedChildren() {
		switch member.Kind() {
		case "method_signature":
			method, err := x.method(member)
			if err != nil {
				return symbols.Interface{}, err
			}
			iface.Methods = append(iface.Methods, method)
		case "property_signature":
			field, err := x.field(member)
			if err != nil {
				return symbols.Interface{}, err
			}
			iface.Fields = append(iface.Fields, field)
		}
	}

	return iface, nil
}

func (x *tsExtraction) method(n Node) (symbols.Method, error) {
	name, err := x.required(n, "name")
	if err != nil {
		return symbols.Method{}, err
	}
	params, err := x.required(n, "parameters")
	if err != nil {
		return symbols.Method{}, err
	}

	method := symbols.Method{
		Name:       name.Text(),
		ReturnType: annotationType(n.Field("return_type")),
		Parameters: []symbols.Parameter{},
	}

	for _, p := range params.NamedChildren() {
		switch p.Kind() {
		case "required_parameter", "optional_parameter":
		case "comment":
			continue
		default:
			return symbols.Method{}, x.fail(p, "unexpected parameter kind")
		}

		pattern, err := x.required(p, "pattern")
		if err != nil {
			return symbols.Method{}, err
		}
		_, hasDefault := p.Field("value")
		method.Parameters = append(method.Parameters, symbols.Parameter{
			Name:     pattern.Text(),
			Type:     annotationType(p.Field("type")),
			Ordinal:  len(method.Parameters),
			Optional: p.Kind() == "optional_parameter" || hasDefault,
		})
	}

	return method, nil
}

func (x *tsExtraction) field(n Node) (symbols.Field, error) {
	name, err := x.required(n, "name")
	if err != nil {
		return symbols.Field{}, err
	}

	field := symbols.Field{
		Name:       name.Text(),
		Type:       annotationType(n.Field("type")),
		Visibility: symbols.Public,
	}
	if value, ok := n.Field("value"); ok {
		field.Value = normalizeText(value.Text())
	}
	if modifier, ok := n.ChildOfKind("accessibility_modifier"); ok {
		field.Visibility = symbols.Visibility(strings.TrimSpace(modifier.Text()))
	} else if name.Kind() == "private_property_identifier" {
		field.Visibility = symbols.Private
	}
	_, field.ReadOnly = n.ChildOfKind("readonly")

	return field, nil
}

func (x *tsExtraction) typeAlias(n Node) (symbols.TypeAlias, error) {
	name, err := x.required(n, "name")
	if err != nil {
		return symbols.TypeAlias{}, err
	}
	value, err := x.required(n, "value")
	if err != nil {
		return symbols.TypeAlias{}, err
	}

	return symbols.TypeAlias{
		Name:     name.Text(),
		Exported: isExported(n),
		Type:     normalizeText(value.Text()),
	}, nil
}

func (x *tsExtraction) variable(n Node) (symbols.Variable, error) {
	name, err := x.required(n, "name")
	if err != nil {
		return symbols.Variable{}, err
	}

	declaration, _ := n.Parent()
	variable := symbols.Variable{
		Name:     name.Text(),
		Exported: isExported(declaration),
		Type:     annotationType(n.Field("type")),
	}
	if value, ok := n.Field("value"); ok {
		variable.Value = normalizeText(value.Text())
	}

	return variable, nil
}

// namedTexts returns the normalized text of every named child except comments.
func namedTexts(n Node) []string {
	var out []string
	for _, child := range n.NamedChildren() {
		if child.Kind() == "comment" {
			continue
		}
		out = append(out, normalizeText(child.Text()))
	}
	return out
}
