package autofix

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/sketchforge/studio/backend/internal/project"
	"github.com/sketchforge/studio/backend/internal/sandbox/resolver"
	"github.com/sketchforge/studio/backend/internal/shared/id"
)

// FixResult is the outcome of one fix attempt.
type FixResult struct {
	ID          string `json:"id,omitempty"`
	Success     bool   `json:"success"`
	WasAINeeded bool   `json:"was_ai_needed"`
	NewCode     string `json:"new_code,omitempty"`
	TargetFile  string `json:"target_file,omitempty"`
	Description string `json:"description,omitempty"`
	FixType     string `json:"fix_type,omitempty"`
	Error       string `json:"error,omitempty"`
}

var (
	bareSpecifierRe = regexp.MustCompile(`[Ff]ailed to resolve module specifier ['"]([^'"]+)['"]`)
	notDefinedRe    = regexp.MustCompile(`\b([A-Za-z_$][A-Za-z0-9_$]*) is not defined`)
	quotedImportRe  = regexp.MustCompile(`(['"])([^'"\n]+)(['"])`)
)

// TryDeterministicFix attempts the known pattern-based textual repairs before
// any AI call. A nil result means no pattern applied; the caller escalates.
func TryDeterministicFix(snapshot project.Snapshot, message string) *FixResult {
	if result := fixBareSpecifier(snapshot, message); result != nil {
		result.ID = id.NewFixID()
		return result
	}
	if result := fixMissingReactImport(snapshot, message); result != nil {
		result.ID = id.NewFixID()
		return result
	}
	return nil
}

// fixBareSpecifier handles the browser's module-not-found error. The error
// names the unresolvable specifier; the fix targets the file that *imports*
// it, rewriting the specifier to its canonical resolvable path.
func fixBareSpecifier(snapshot project.Snapshot, message string) *FixResult {
	match := bareSpecifierRe.FindStringSubmatch(message)
	if match == nil {
		return nil
	}
	specifier := match[1]

	importer, ok := findReferencingFile(snapshot, specifier)
	if !ok {
		return &FixResult{
			FixType: "bare-specifier",
			Error:   "no file references specifier " + specifier,
		}
	}

	source, _ := snapshot.Get(importer)
	replaced := false
	rewritten := quotedImportRe.ReplaceAllStringFunc(source, func(m string) string {
		parts := quotedImportRe.FindStringSubmatch(m)
		if parts[2] != specifier {
			return m
		}
		resolved := resolveSpecifier(snapshot, importer, specifier)
		if resolved == "" {
			return m
		}
		replaced = true
		return parts[1] + resolved + parts[3]
	})

	if !replaced {
		return &FixResult{
			FixType:    "bare-specifier",
			TargetFile: importer,
			Error:      "specifier " + specifier + " could not be mapped to a project file",
		}
	}
	return &FixResult{
		Success:     true,
		TargetFile:  importer,
		NewCode:     rewritten,
		FixType:     "bare-specifier",
		Description: "rewrote import of " + specifier + " in " + importer,
	}
}

// resolveSpecifier maps a broken specifier to an existing project path,
// trying the resolver first and then a best-effort suffix search.
func resolveSpecifier(snapshot project.Snapshot, fromFile, specifier string) string {
	resolved := resolver.Resolve(snapshot, fromFile, specifier)
	if snapshot.Has(resolved) {
		return resolved
	}

	base := strings.TrimPrefix(strings.TrimPrefix(specifier, "./"), "/")
	for _, path := range snapshot.Paths() {
		bare := path
		for _, ext := range []string{".tsx", ".ts", ".jsx", ".js"} {
			bare = strings.TrimSuffix(bare, ext)
		}
		if strings.HasSuffix(bare, "/"+base) || bare == base {
			return path
		}
	}
	return ""
}

// fixMissingReactImport inserts the missing React default import when the
// classic runtime error names React itself.
func fixMissingReactImport(snapshot project.Snapshot, message string) *FixResult {
	match := notDefinedRe.FindStringSubmatch(message)
	if match == nil || match[1] != "React" {
		return nil
	}

	target := ParseStackLocation(snapshot, message).File
	if target == "" {
		target = snapshot.EntryFile()
	}
	source, ok := snapshot.Get(target)
	if !ok {
		return nil
	}
	if strings.Contains(source, `from "react"`) || strings.Contains(source, `from 'react'`) {
		// React is imported; the failure is something subtler. Leave it to AI.
		return nil
	}

	return &FixResult{
		Success:     true,
		TargetFile:  target,
		NewCode:     "import React from \"react\";\n" + source,
		FixType:     "missing-react-import",
		Description: "added missing React import to " + target,
	}
}

// findReferencingFile locates the file whose source textually references a
// specifier. The module loader reports the specifier, not the importer, so
// the fix has to search for the caller.
func findReferencingFile(snapshot project.Snapshot, specifier string) (string, bool) {
	quoted := []string{`"` + specifier + `"`, `'` + specifier + `'`}
	for _, path := range snapshot.Paths() {
		if !project.IsScriptPath(path) {
			continue
		}
		source, _ := snapshot.Get(path)
		for _, q := range quoted {
			if strings.Contains(source, q) {
				return path, true
			}
		}
	}
	return "", false
}

// StackLocation is a best-effort source position recovered from an error message.
type StackLocation struct {
	File   string
	Line   int
	Column int
}

var stackLocationPatterns = []*regexp.Regexp{
	// shim format: "(at src/App.tsx:10:5)"
	regexp.MustCompile(`\(at ([^():\s]+):(\d+):(\d+)\)`),
	// V8 stack frame: "at fn (https://host/src/App.tsx:10:5)"
	regexp.MustCompile(`at [^(]*\(([^():\s]+):(\d+):(\d+)\)`),
	// bare "src/App.tsx:10:5"
	regexp.MustCompile(`([^\s():'"]+\.(?:tsx|ts|jsx|js)):(\d+):(\d+)`),
}

// ParseStackLocation extracts {file, line, column} from the known error-shape
// patterns, mapping URL-qualified frames back to project paths. Falls back to
// the project's entry file when nothing matches.
func ParseStackLocation(snapshot project.Snapshot, message string) StackLocation {
	for _, re := range stackLocationPatterns {
		for _, match := range re.FindAllStringSubmatch(message, -1) {
			file := matchProjectPath(snapshot, match[1])
			if file == "" {
				continue
			}
			line, _ := strconv.Atoi(match[2])
			column, _ := strconv.Atoi(match[3])
			return StackLocation{File: file, Line: line, Column: column}
		}
	}
	return StackLocation{File: snapshot.EntryFile()}
}

// matchProjectPath maps a possibly URL-qualified frame path to a snapshot path.
func matchProjectPath(snapshot project.Snapshot, frame string) string {
	frame = strings.TrimPrefix(frame, "./")
	if snapshot.Has(frame) {
		return frame
	}
	for _, path := range snapshot.Paths() {
		if strings.HasSuffix(frame, "/"+path) {
			return path
		}
	}
	return ""
}
