package autofix

import "strings"

// Category buckets an error message by shape.
type Category string

const (
	CategoryImport  Category = "import"
	CategorySyntax  Category = "syntax"
	CategoryType    Category = "type"
	CategoryRuntime Category = "runtime"
	CategoryReact   Category = "react"
	CategoryGeneric Category = "generic"
)

// Classification is derived per error occurrence, never persisted.
type Classification struct {
	Category  Category `json:"category"`
	Priority  int      `json:"priority"` // 1 lowest – 5 highest
	Ignorable bool     `json:"ignorable"`
	Fixable   bool     `json:"fixable"`
}

// ignorablePatterns mirrors the tag list compiled into the sandbox telemetry
// shim: transient artifacts that the console shows but the pipeline skips.
var ignorablePatterns = []string{
	"resizeobserver loop",
	"script error",
	"loading chunk",
	"loading css chunk",
	"maximum update depth",
	"non-passive event listener",
	"was not wrapped in act(",
	"devtools failed to load source map",
}

var importPatterns = []string{
	"failed to resolve module specifier",
	"cannot find module",
	"does not provide an export named",
	"failed to fetch dynamically imported module",
	"error loading module",
	"failed to load entry module",
}

var syntaxPatterns = []string{
	"syntaxerror",
	"unexpected token",
	"unexpected end of input",
	"unterminated string",
	"failed to compile",
	"parse error",
}

var typePatterns = []string{
	"is not a function",
	"is not a constructor",
	"invalid assignment",
	"is not iterable",
}

var runtimePatterns = []string{
	"is not defined",
	"cannot read properties of undefined",
	"cannot read properties of null",
	"cannot read property",
	"undefined is not an object",
	"null is not an object",
	"unhandled promise rejection",
}

var reactPatterns = []string{
	"invalid hook call",
	"rendered more hooks",
	"rendered fewer hooks",
	"each child in a list should have a unique",
	"objects are not valid as a react child",
	"cannot update a component",
	"too many re-renders",
	"element type is invalid",
}

// Classify maps a raw error message to its handling profile. Pure and
// deterministic: same message, same result.
func Classify(message string) Classification {
	lower := strings.ToLower(message)

	for _, pattern := range ignorablePatterns {
		if strings.Contains(lower, pattern) {
			return Classification{Category: CategoryGeneric, Priority: 1, Ignorable: true}
		}
	}

	switch {
	case matchesAny(lower, importPatterns):
		return Classification{Category: CategoryImport, Priority: 5, Fixable: true}
	case matchesAny(lower, syntaxPatterns):
		return Classification{Category: CategorySyntax, Priority: 5, Fixable: true}
	case matchesAny(lower, reactPatterns):
		return Classification{Category: CategoryReact, Priority: 4, Fixable: true}
	case matchesAny(lower, runtimePatterns):
		return Classification{Category: CategoryRuntime, Priority: 4, Fixable: true}
	case matchesAny(lower, typePatterns):
		return Classification{Category: CategoryType, Priority: 3, Fixable: true}
	default:
		return Classification{Category: CategoryGeneric, Priority: 2, Fixable: false}
	}
}

func matchesAny(lower string, patterns []string) bool {
	for _, pattern := range patterns {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}
