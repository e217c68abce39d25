package autofix

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyCategories(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		category Category
		priority int
		fixable  bool
	}{
		{
			name:     "bare specifier import error",
			message:  `Failed to resolve module specifier "components/Header"`,
			category: CategoryImport,
			priority: 5,
			fixable:  true,
		},
		{
			name:     "missing export",
			message:  `The requested module './api.ts' does not provide an export named 'fetchUsers'`,
			category: CategoryImport,
			priority: 5,
			fixable:  true,
		},
		{
			name:     "syntax error",
			message:  "SyntaxError: Unexpected token '}'",
			category: CategorySyntax,
			priority: 5,
			fixable:  true,
		},
		{
			name:     "react hook violation",
			message:  "Invalid hook call. Hooks can only be called inside of the body of a function component",
			category: CategoryReact,
			priority: 4,
			fixable:  true,
		},
		{
			name:     "undefined property access",
			message:  "TypeError: Cannot read properties of undefined (reading 'map')",
			category: CategoryRuntime,
			priority: 4,
			fixable:  true,
		},
		{
			name:     "not a function",
			message:  "TypeError: user.getName is not a function",
			category: CategoryType,
			priority: 3,
			fixable:  true,
		},
		{
			name:     "unrecognized error",
			message:  "something completely novel went wrong",
			category: CategoryGeneric,
			priority: 2,
			fixable:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.message)
			assert.Equal(t, tt.category, got.Category)
			assert.Equal(t, tt.priority, got.Priority)
			assert.Equal(t, tt.fixable, got.Fixable)
			assert.False(t, got.Ignorable)
		})
	}
}

func TestClassifyIgnorable(t *testing.T) {
	messages := []string{
		"ResizeObserver loop completed with undelivered notifications",
		"Script error.",
		"Warning: Maximum update depth exceeded",
		"An update to App was not wrapped in act(...)",
	}

	for _, msg := range messages {
		got := Classify(msg)
		assert.True(t, got.Ignorable, "expected ignorable: %s", msg)
		assert.False(t, got.Fixable)
		assert.Equal(t, 1, got.Priority)
	}
}

func TestClassifyIsCaseInsensitive(t *testing.T) {
	upper := Classify(`FAILED TO RESOLVE MODULE SPECIFIER "clsx"`)
	assert.Equal(t, CategoryImport, upper.Category)
}

func TestClassifyIsDeterministic(t *testing.T) {
	msg := "TypeError: Cannot read properties of null (reading 'length')"
	first := Classify(msg)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Classify(msg))
	}
}

func TestRuntimeBeatsTypeWhenBothMatch(t *testing.T) {
	// "x is not defined" is runtime even though it mentions no function.
	got := Classify("ReferenceError: formatDate is not defined")
	assert.Equal(t, CategoryRuntime, got.Category)
}
