package autofix

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/sketchforge/studio/backend/internal/project"
	"github.com/sketchforge/studio/backend/internal/sandbox/resolver"
)

// RepairContext is everything handed to the AI for one repair attempt.
type RepairContext struct {
	TargetFile   string
	TargetSource string
	RelatedFiles map[string]string
	ConsoleTail  []string
	Category     Category
	ErrorMessage string
}

var (
	importSpecRe = regexp.MustCompile(`(?:import|export)[^'"]*?from\s*['"]([^'"\n]+)['"]`)
	identifierRe = regexp.MustCompile(`'([A-Za-z_$][A-Za-z0-9_$]*)'|"([A-Za-z_$][A-Za-z0-9_$]*)"|\b([A-Z][A-Za-z0-9_$]*)\b`)
	exportNameRe = regexp.MustCompile(`export\s+(?:default\s+)?(?:function|const|class|let|var)\s+([A-Za-z_$][A-Za-z0-9_$]*)`)
)

// BuildRepairContext assembles the bounded file set for an AI fix: the target
// file, its local imports, files exporting an identifier the error mentions,
// the shared type-definitions file if present, and the stack-trace file.
// maxRelated bounds everything except the target itself.
func BuildRepairContext(snapshot project.Snapshot, targetFile, errorMessage string, classification Classification, consoleTail []string, maxRelated int) (*RepairContext, error) {
	targetSource, ok := snapshot.Get(targetFile)
	if !ok {
		return nil, fmt.Errorf("target file %q not in project", targetFile)
	}

	related := make(map[string]string)
	addRelated := func(path string) {
		if path == "" || path == targetFile {
			return
		}
		if _, dup := related[path]; dup {
			return
		}
		if maxRelated >= 0 && len(related) >= maxRelated {
			return
		}
		if source, exists := snapshot.Get(path); exists {
			related[path] = source
		}
	}

	// Files the target imports locally.
	for _, match := range importSpecRe.FindAllStringSubmatch(targetSource, -1) {
		spec := match[1]
		if !strings.HasPrefix(spec, ".") {
			continue
		}
		addRelated(resolver.Resolve(snapshot, targetFile, spec))
	}

	// Files exporting an identifier the error mentions.
	for _, name := range mentionedIdentifiers(errorMessage) {
		for _, path := range snapshot.Paths() {
			if !project.IsScriptPath(path) || path == targetFile {
				continue
			}
			source, _ := snapshot.Get(path)
			if exportsIdentifier(source, name) {
				addRelated(path)
			}
		}
	}

	// Shared type definitions, when the project has them.
	for _, candidate := range []string{"src/types.ts", "src/types.tsx", "src/types/index.ts"} {
		if snapshot.Has(candidate) {
			addRelated(candidate)
		}
	}

	// The file the stack trace points at.
	addRelated(ParseStackLocation(snapshot, errorMessage).File)

	return &RepairContext{
		TargetFile:   targetFile,
		TargetSource: targetSource,
		RelatedFiles: related,
		ConsoleTail:  consoleTail,
		Category:     classification.Category,
		ErrorMessage: errorMessage,
	}, nil
}

// mentionedIdentifiers extracts plausible symbol names from an error message:
// quoted names plus capitalized bare words (component-shaped identifiers).
func mentionedIdentifiers(message string) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, match := range identifierRe.FindAllStringSubmatch(message, -1) {
		name := match[1]
		if name == "" {
			name = match[2]
		}
		if name == "" {
			name = match[3]
		}
		// Skip words that appear in every error sentence.
		switch name {
		case "", "Error", "TypeError", "ReferenceError", "SyntaxError", "Uncaught", "React", "Cannot", "Failed":
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

func exportsIdentifier(source, name string) bool {
	for _, match := range exportNameRe.FindAllStringSubmatch(source, -1) {
		if match[1] == name {
			return true
		}
	}
	// export { Foo, Bar }
	return strings.Contains(source, "export { "+name) ||
		strings.Contains(source, "export {"+name) ||
		strings.Contains(source, ", "+name+" }")
}

// categoryHints gives the AI the failure-mode checklist for each category.
var categoryHints = map[Category]string{
	CategoryImport: "Check named-vs-default export mismatches, exact file paths, " +
		"and that every imported symbol is actually exported by its module.",
	CategorySyntax: "Fix the syntax error precisely; do not restructure working code. " +
		"Check for unbalanced braces, unterminated strings, and stray JSX.",
	CategoryType: "Check that values are the type the call site expects; " +
		"guard optional values before use.",
	CategoryRuntime: "Check for undefined variables and null/undefined member access; " +
		"add missing declarations or optional chaining where appropriate.",
	CategoryReact: "Check the Rules of Hooks (top-level calls only, consistent order), " +
		"key props on list children, and that components return valid elements.",
	CategoryGeneric: "Identify the root cause from the error and console output, " +
		"then fix it with the smallest change.",
}

// BuildPrompt renders the single repair request. The response must be a
// complete replacement for the target file, nothing else.
func (rc *RepairContext) BuildPrompt() string {
	var sb strings.Builder

	sb.WriteString("The application crashed with this error:\n\n")
	sb.WriteString(rc.ErrorMessage)
	sb.WriteString("\n\nFix the file below. ")
	sb.WriteString(categoryHints[rc.Category])
	sb.WriteString("\n\nRespond with ONLY the complete corrected source of ")
	sb.WriteString(rc.TargetFile)
	sb.WriteString(" - no explanation, no markdown fences.\n")

	fmt.Fprintf(&sb, "\n--- %s (fix this file) ---\n%s\n", rc.TargetFile, rc.TargetSource)

	for path, source := range rc.RelatedFiles {
		fmt.Fprintf(&sb, "\n--- %s (reference only) ---\n%s\n", path, source)
	}

	if len(rc.ConsoleTail) > 0 {
		sb.WriteString("\n--- recent console output ---\n")
		for _, line := range rc.ConsoleTail {
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// CleanResponse strips markdown fences and surrounding prose from an AI
// response, keeping the first fenced block when one exists.
func CleanResponse(text string) string {
	trimmed := strings.TrimSpace(text)

	if start := strings.Index(trimmed, "```"); start >= 0 {
		rest := trimmed[start+3:]
		// Drop the language tag on the fence line.
		if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
			rest = rest[nl+1:]
		}
		if end := strings.Index(rest, "```"); end >= 0 {
			rest = rest[:end]
		}
		return strings.TrimSpace(rest)
	}
	return trimmed
}
