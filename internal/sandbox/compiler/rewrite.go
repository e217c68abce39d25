package compiler

import (
	"regexp"
	"strings"

	"github.com/sketchforge/studio/backend/internal/project"
	"github.com/sketchforge/studio/backend/internal/sandbox/resolver"
)

var (
	fromClauseRe = regexp.MustCompile(`(from\s*)(['"])([^'"\n]+)(['"])`)
	sideEffectRe = regexp.MustCompile(`(\bimport\s*)(['"])([^'"\n]+)(['"])`)
	dynamicRe    = regexp.MustCompile(`(\bimport\s*\(\s*)(['"])([^'"\n]+)(['"])`)
	iconImportRe = regexp.MustCompile(`import\s*\{([^}]*)\}\s*from\s*(['"])lucide-react['"]`)
)

// RewriteImports prepares a source file for compilation:
//
//  1. Relative specifiers are resolved to their canonical path so the
//     compiled code imports exact import-map keys.
//  2. Icon imports outside the known allow-list are aliased to a safe
//     fallback so an unknown icon name never crashes the module graph.
func RewriteImports(snapshot project.Snapshot, fromFile, source string) string {
	source = rewriteIconImports(source)

	rewriteSpec := func(prefix, quote, spec string) string {
		if !strings.HasPrefix(spec, ".") {
			return prefix + quote + spec + quote
		}
		resolved := resolver.Resolve(snapshot, fromFile, spec)
		return prefix + quote + resolved + quote
	}

	source = fromClauseRe.ReplaceAllStringFunc(source, func(match string) string {
		parts := fromClauseRe.FindStringSubmatch(match)
		return rewriteSpec(parts[1], parts[2], parts[3])
	})
	source = dynamicRe.ReplaceAllStringFunc(source, func(match string) string {
		parts := dynamicRe.FindStringSubmatch(match)
		return rewriteSpec(parts[1], parts[2], parts[3])
	})
	source = sideEffectRe.ReplaceAllStringFunc(source, func(match string) string {
		parts := sideEffectRe.FindStringSubmatch(match)
		return rewriteSpec(parts[1], parts[2], parts[3])
	})

	return source
}

// rewriteIconImports aliases unknown icon names to the fallback symbol at
// import time. resolveIconImport is total: every requested name maps to
// either itself or the fallback.
func rewriteIconImports(source string) string {
	return iconImportRe.ReplaceAllStringFunc(source, func(match string) string {
		parts := iconImportRe.FindStringSubmatch(match)
		names := strings.Split(parts[1], ",")

		rewritten := make([]string, 0, len(names))
		for _, raw := range names {
			name := strings.TrimSpace(raw)
			if name == "" {
				continue
			}
			rewritten = append(rewritten, resolveIconImport(name))
		}
		return "import { " + strings.Join(rewritten, ", ") + " } from " + parts[2] + "lucide-react" + parts[2]
	})
}

// resolveIconImport maps one named-import clause ("Home" or "Home as Icon")
// to a clause guaranteed to exist in the icon package.
func resolveIconImport(clause string) string {
	source := clause
	alias := ""
	if idx := strings.Index(clause, " as "); idx >= 0 {
		source = strings.TrimSpace(clause[:idx])
		alias = strings.TrimSpace(clause[idx+4:])
	}

	if knownIcons[source] {
		return clause
	}
	if alias == "" {
		alias = source
	}
	return fallbackIcon + " as " + alias
}
