package compare

import (
	"github.com/mvp-joe/gencompare/internal/diff"
	"github.com/mvp-joe/gencompare/internal/symbols"
)

// pythonBases returns the full base list of a class in declaration order.
func pythonBases(class symbols.Class) []string {
	if class.BaseClass == "" {
		return nil
	}
	return append([]string{class.BaseClass}, class.Interfaces...)
}

// ComparePythonClass diffs methods, class attributes and bases. Base order is
// significant because it determines method resolution order.
func ComparePythonClass(oldClass, newClass symbols.Class) *diff.Node {
	return diff.PrepareResult(oldClass.Name, diff.Changed,
		compareMethods(oldClass.Methods, newClass.Methods),
		compareFields(oldClass.Fields, newClass.Fields),
		compareNames("Bases", pythonBases(oldClass), pythonBases(newClass), true),
		diff.CompareValue("Exported", oldClass.Exported, newClass.Exported),
	)
}

// ComparePythonFile diffs classes, type aliases and module variables of two
// Python files.
func ComparePythonFile(name string, oldFile, newFile *symbols.SourceDetails) *diff.Node {
	return diff.PrepareResult(name, diff.Changed,
		diff.CompareItems("Classes", oldFile.Classes, newFile.Classes, ComparePythonClass, false),
		compareTypes(oldFile.Types, newFile.Types),
		compareVariables(oldFile.Variables, newFile.Variables),
	)
}
