// Package compare diffs extracted symbols field by field and dispatches
// generated files to the comparator registered for their language.
package compare

import (
	"github.com/mvp-joe/gencompare/internal/diff"
	"github.com/mvp-joe/gencompare/internal/symbols"
)

// none is shown in place of an absent optional value.
const none = "(none)"

func orNone(s string) string {
	if s == "" {
		return none
	}
	return s
}

// CompareParameter diffs the type and optionality of a parameter.
func CompareParameter(oldParam, newParam symbols.Parameter) *diff.Node {
	return diff.PrepareResult(oldParam.Name, diff.Changed,
		diff.CompareValue("Type", oldParam.Type, newParam.Type),
		diff.CompareValue("Optional", oldParam.Optional, newParam.Optional),
	)
}

// CompareMethod diffs a method's parameters, where position matters, and its
// return type.
func CompareMethod(oldMethod, newMethod symbols.Method) *diff.Node {
	return diff.PrepareResult(oldMethod.Name, diff.Changed,
		diff.CompareItems("Parameters", oldMethod.Parameters, newMethod.Parameters, CompareParameter, true),
		diff.CompareValue("Return Type", oldMethod.ReturnType, newMethod.ReturnType),
	)
}

// CompareField diffs a field's type, initializer, visibility and mutability.
func CompareField(oldField, newField symbols.Field) *diff.Node {
	return diff.PrepareResult(oldField.Name, diff.Changed,
		diff.CompareValue("Type", oldField.Type, newField.Type),
		diff.CompareValue("Value", orNone(oldField.Value), orNone(newField.Value)),
		diff.CompareValue("Visibility", oldField.Visibility, newField.Visibility),
		diff.CompareValue("Read Only", oldField.ReadOnly, newField.ReadOnly),
	)
}

func compareMethods(oldMethods, newMethods []symbols.Method) *diff.Node {
	return diff.CompareItems("Methods", oldMethods, newMethods, CompareMethod, false)
}

func compareFields(oldFields, newFields []symbols.Field) *diff.Node {
	return diff.CompareItems("Fields", oldFields, newFields, CompareField, false)
}

func compareNames(label string, oldNames, newNames []string, orderSensitive bool) *diff.Node {
	return diff.CompareItems(label, symbols.Names(oldNames), symbols.Names(newNames), nil, orderSensitive)
}

// CompareTypeAlias diffs the aliased type expression and export status.
func CompareTypeAlias(oldAlias, newAlias symbols.TypeAlias) *diff.Node {
	return diff.PrepareResult(oldAlias.Name, diff.Changed,
		diff.CompareValue("Type", oldAlias.Type, newAlias.Type),
		diff.CompareValue("Exported", oldAlias.Exported, newAlias.Exported),
	)
}

// CompareVariable diffs a module-scope variable.
func CompareVariable(oldVar, newVar symbols.Variable) *diff.Node {
	return diff.PrepareResult(oldVar.Name, diff.Changed,
		diff.CompareValue("Type", oldVar.Type, newVar.Type),
		diff.CompareValue("Value", orNone(oldVar.Value), orNone(newVar.Value)),
		diff.CompareValue("Exported", oldVar.Exported, newVar.Exported),
	)
}

func compareTypes(oldTypes, newTypes []symbols.TypeAlias) *diff.Node {
	return diff.CompareItems("Types", oldTypes, newTypes, CompareTypeAlias, false)
}

func compareVariables(oldVars, newVars []symbols.Variable) *diff.Node {
	return diff.CompareItems("Variables", oldVars, newVars, CompareVariable, false)
}
