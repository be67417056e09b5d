package parsers

import (
	"strings"

	"github.com/mvp-joe/gencompare/internal/symbols"
	sitter "github.com/tree-sitter/go-tree-sitter"
	python "github.com/tree-sitter/tree-sitter-python/bindings/go"
)

// PythonExtractor extracts symbols from Python files.
type PythonExtractor struct {
	*treeSitterParser
}

// NewPythonExtractor creates an extractor for .py files.
func NewPythonExtractor() *PythonExtractor {
	lang := sitter.NewLanguage(python.Language())
	return &PythonExtractor{
		treeSitterParser: newTreeSitterParser(lang, "python"),
	}
}

// Extract builds SourceDetails from a Python syntax tree.
//
// Python has no export statement, so a declaration counts as exported when it
// sits at module level and its name has no leading underscore. Class-level
// assignments become fields, superclasses become the base class followed by
// the remaining bases as interfaces.
func (e *PythonExtractor) Extract(tree *Tree) (*symbols.SourceDetails, error) {
	x := &pyExtraction{extraction{path: tree.Path()}}
	root := tree.Root()
	details := symbols.New()

	for _, n := range root.Descendants("class_definition") {
		class, err := x.class(n)
		if err != nil {
			return nil, err
		}
		details.Classes = append(details.Classes, class)
	}

	for _, n := range root.Descendants("type_alias_statement") {
		alias, err := x.typeAliasStatement(n)
		if err != nil {
			return nil, err
		}
		details.Types = append(details.Types, alias)
	}

	for _, n := range root.Descendants("assignment") {
		if !isModuleScopeAssignment(n) {
			continue
		}
		left, err := x.required(n, "left")
		if err != nil {
			return nil, err
		}
		typ, hasType := n.Field("type")
		if hasType && isTypeAliasAnnotation(typ.Text()) {
			right, err := x.required(n, "right")
			if err != nil {
				return nil, err
			}
			details.Types = append(details.Types, symbols.TypeAlias{
				Name:     left.Text(),
				Exported: isPublicName(left.Text()),
				Type:     normalizeText(right.Text()),
			})
			continue
		}

		variable := symbols.Variable{
			Name:     left.Text(),
			Exported: isPublicName(left.Text()),
			Type:     symbols.Unspecified,
		}
		if hasType {
			variable.Type = normalizeText(typ.Text())
		}
		if right, ok := n.Field("right"); ok {
			variable.Value = normalizeText(right.Text())
		}
		details.Variables = append(details.Variables, variable)
	}

	return details, nil
}

type pyExtraction struct {
	extraction
}

// isModuleScopeAssignment reports whether an assignment is a statement
// directly inside the module.
func isModuleScopeAssignment(n Node) bool {
	statement, ok := n.Parent()
	if !ok || statement.Kind() != "expression_statement" {
		return false
	}
	scope, ok := statement.Parent()
	return ok && scope.Kind() == "module"
}

// isModuleLevel reports whether a definition's structural parent is the
// module, looking through a decorator wrapper.
func isModuleLevel(n Node) bool {
	parent, ok := n.Parent()
	if ok && parent.Kind() == "decorated_definition" {
		parent, ok = parent.Parent()
	}
	return ok && parent.Kind() == "module"
}

func isPublicName(name string) bool {
	return !strings.HasPrefix(name, "_")
}

func isTypeAliasAnnotation(annotation string) bool {
	annotation = strings.TrimSpace(annotation)
	return annotation == "TypeAlias" || strings.HasSuffix(annotation, ".TypeAlias")
}

// nameVisibility maps Python naming conventions to a visibility.
func nameVisibility(name string) symbols.Visibility {
	switch {
	case strings.HasPrefix(name, "__") && !strings.HasSuffix(name, "__"):
		return symbols.Private
	case strings.HasPrefix(name, "_"):
		return symbols.Protected
	default:
		return symbols.Public
	}
}

func (x *pyExtraction) class(n Node) (symbols.Class, error) {
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
		Exported: isModuleLevel(n) && isPublicName(name.Text()),
		Methods:  []symbols.Method{},
		Fields:   []symbols.Field{},
	}

	if bases, ok := n.Field("superclasses"); ok {
		var names []string
		for _, base := range bases.NamedChildren() {
			// metaclass=... and other keywords are not bases
			if base.Kind() == "keyword_argument" || base.Kind() == "comment" {
				continue
			}
			names = append(names, normalizeText(base.Text()))
		}
		if len(names) > 0 {
			class.BaseClass = names[0]
			class.Interfaces = names[1:]
		}
	}

	for _, statement := range body.NamedChildren() {
		definition := statement
		if statement.Kind() == "decorated_definition" {
			definition, err = x.required(statement, "definition")
			if err != nil {
				return symbols.Class{}, err
			}
		}

		switch definition.Kind() {
		case "function_definition":
			method, err := x.method(definition)
			if err != nil {
				return symbols.Class{}, err
			}
			class.Methods = append(class.Methods, method)
		case "expression_statement":
			assignment, ok := definition.ChildOfKind("assignment")
			if !ok {
				continue
			}
			field, err := x.field(assignment)
			if err != nil {
				return symbols.Class{}, err
			}
			class.Fields = append(class.Fields, field)
		}
	}

	return class, nil
}

func (x *pyExtraction) method(n Node) (symbols.Method, error) {
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
		ReturnType: symbols.Unspecified,
		Parameters: []symbols.Parameter{},
	}
	if ret, ok := n.Field("return_type"); ok {
		method.ReturnType = normalizeText(ret.Text())
	}

	for _, p := range params.NamedChildren() {
		param := symbols.Parameter{Type: symbols.Unspecified}

		switch p.Kind() {
		case "identifier":
			param.Name = p.Text()
		case "list_splat_pattern", "dictionary_splat_pattern":
			param.Name = p.Text()
			param.Optional = true
		case "typed_parameter":
			target, ok := p.ChildOfKind("identifier", "list_splat_pattern", "dictionary_splat_pattern")
			if !ok {
				return symbols.Method{}, x.fail(p, "typed parameter without a name")
			}
			typ, err := x.required(p, "type")
			if err != nil {
				return symbols.Method{}, err
			}
			param.Name = target.Text()
			param.Type = normalizeText(typ.Text())
			param.Optional = target.Kind() != "identifier"
		case "default_parameter", "typed_default_parameter":
			pname, err := x.required(p, "name")
			if err != nil {
				return symbols.Method{}, err
			}
			param.Name = pname.Text()
			param.Optional = true
			if typ, ok := p.Field("type"); ok {
				param.Type = normalizeText(typ.Text())
			}
		case "keyword_separator", "positional_separator", "comment":
			continue
		default:
			return symbols.Method{}, x.fail(p, "unexpected parameter kind")
		}

		param.Ordinal = len(method.Parameters)
		method.Parameters = append(method.Parameters, param)
	}

	return method, nil
}

func (x *pyExtraction) field(assignment Node) (symbols.Field, error) {
	left, err := x.required(assignment, "left")
	if err != nil {
		return symbols.Field{}, err
	}

	field := symbols.Field{
		Name:       left.Text(),
		Type:       symbols.Unspecified,
		Visibility: nameVisibility(left.Text()),
	}
	if typ, ok := assignment.Field("type"); ok {
		field.Type = normalizeText(typ.Text())
		field.ReadOnly = strings.HasPrefix(field.Type, "Final") || strings.Contains(field.Type, ".Final")
	}
	if right, ok := assignment.Field("right"); ok {
		field.Value = normalizeText(right.Text())
	}

	return field, nil
}

func (x *pyExtraction) typeAliasStatement(n Node) (symbols.TypeAlias, error) {
	left, err := x.required(n, "left")
	if err != nil {
		return symbols.TypeAlias{}, err
	}
	right, err := x.required(n, "right")
	if err != nil {
		return symbols.TypeAlias{}, err
	}

	parent, _ := n.Parent()
	return symbols.TypeAlias{
		Name:     left.Text(),
		Exported: parent.Kind() == "module" && isPublicName(left.Text()),
		Type:     normalizeText(right.Text()),
	}, nil
}
