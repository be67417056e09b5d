package compare

import (
	"github.com/mvp-joe/gencompare/internal/diff"
	"github.com/mvp-joe/gencompare/internal/symbols"
)

// CompareTypeScriptClass diffs members, heritage and export status of a class.
// Member order is not significant.
func CompareTypeScriptClass(oldClass, newClass symbols.Class) *diff.Node {
	return diff.PrepareResult(oldClass.Name, diff.Changed,
		compareMethods(oldClass.Methods, newClass.Methods),
		compareFields(oldClass.Fields, newClass.Fields),
		diff.CompareValue("Base Class", orNone(oldClass.BaseClass), orNone(newClass.BaseClass)),
		compareNames("Interfaces", oldClass.Interfaces, newClass.Interfaces, false),
		diff.CompareValue("Exported", oldClass.Exported, newClass.Exported),
	)
}

// CompareTypeScriptInterface diffs members, extended interfaces and export status.
func CompareTypeScriptInterface(oldIface, newIface symbols.Interface) *diff.Node {
	return diff.PrepareResult(oldIface.Name, diff.Changed,
		compareMethods(oldIface.Methods, newIface.Methods),
		compareFields(oldIface.Fields, newIface.Fields),
		compareNames("Extends", oldIface.Extends, newIface.Extends, false),
		diff.CompareValue("Exported", oldIface.Exported, newIface.Exported),
	)
}

// CompareTypeScriptFile diffs every top-level collection of two TypeScript files.
func CompareTypeScriptFile(name string, oldFile, newFile *symbols.SourceDetails) *diff.Node {
	return diff.PrepareResult(name, diff.Changed,
		diff.CompareItems("Classes", oldFile.Classes, newFile.Classes, CompareTypeScriptClass, false),
		diff.CompareItems("Interfaces", oldFile.Interfaces, newFile.Interfaces, CompareTypeScriptInterface, false),
		compareTypes(oldFile.Types, newFile.Types),
		compareVariables(oldFile.Variables, newFile.Variables),
	)
}
