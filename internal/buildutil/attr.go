// Package buildutil provides helpers for reading mod descriptors written
// in Starlark with the buildtools parser.
package buildutil

import (
	"github.com/bazelbuild/buildtools/build"
)

// Calls returns the top-level function calls of f in source order.
// Other statements (loads, assignments, comments) are skipped.
func Calls(f *build.File) []*build.CallExpr {
	var calls []*build.CallExpr
	for _, stmt := range f.Stmt {
		if call, ok := stmt.(*build.CallExpr); ok {
			calls = append(calls, call)
		}
	}
	return calls
}

// attr returns the value of the named keyword argument, or nil.
func attr(call *build.CallExpr, name string) build.Expr {
	for _, arg := range call.List {
		assign, ok := arg.(*build.AssignExpr)
		if !ok {
			continue
		}
		if lhs, ok := assign.LHS.(*build.Ident); ok && lhs.Name == name {
			return assign.RHS
		}
	}
	return nil
}

// Has reports whether the call sets the named keyword argument.
func Has(call *build.CallExpr, name string) bool {
	return attr(call, name) != nil
}

// String extracts a string attribute from a function call by name.
// If name is empty, returns the first positional string argument.
// Returns empty string if the attribute is not found or not a string.
func String(call *build.CallExpr, name string) string {
	var expr build.Expr
	if name == "" {
		if len(call.List) > 0 {
			expr = call.List[0]
		}
	} else {
		expr = attr(call, name)
	}
	if str, ok := expr.(*build.StringExpr); ok {
		return str.Value
	}
	return ""
}

// StringOrPositional returns the named string attribute, falling back to the
// first positional string argument.
func StringOrPositional(call *build.CallExpr, name string) string {
	if s := String(call, name); s != "" {
		return s
	}
	return String(call, "")
}

// StringList extracts a list of strings attribute from a function call by name.
// Returns nil if the attribute is not found or not a list.
// Non-string elements in the list are silently skipped.
func StringList(call *build.CallExpr, name string) []string {
	list, ok := attr(call, name).(*build.ListExpr)
	if !ok {
		return nil
	}
	result := make([]string, 0, len(list.List))
	for _, elem := range list.List {
		if str, ok := elem.(*build.StringExpr); ok {
			result = append(result, str.Value)
		}
	}
	return result
}

// FuncName returns the function name from a CallExpr.
// Returns empty string if the call is not a simple function call
// (e.g., method calls like foo.bar()).
func FuncName(call *build.CallExpr) string {
	if ident, ok := call.X.(*build.Ident); ok {
		return ident.Name
	}
	return ""
}

// IsFuncCall returns true if the call is for the specified function name.
func IsFuncCall(call *build.CallExpr, name string) bool {
	return FuncName(call) == name
}

// Line returns the 1-based source line of the call.
func Line(call *build.CallExpr) int {
	start, _ := call.Span()
	return start.Line
}
