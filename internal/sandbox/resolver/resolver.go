// Package resolver maps import specifiers to canonical paths in the project
// file map. Resolution is purely lexical over a snapshot; no filesystem access.
package resolver

import (
	"strings"

	"github.com/sketchforge/studio/backend/internal/project"
)

// scriptExtensions is the candidate order for extension probing.
var scriptExtensions = []string{".tsx", ".ts", ".jsx", ".js"}

// Resolve maps an import specifier, as written in fromFile, to a canonical
// path in the snapshot.
//
// Non-relative specifiers are external packages and are returned unchanged.
// Relative specifiers are resolved lexically against fromFile's directory,
// then probed: exact match, known extensions, then index files under the path
// as a directory. A miss returns the lexically resolved path so the failure
// surfaces later as a normal module-not-found error instead of vanishing.
func Resolve(snapshot project.Snapshot, fromFile, specifier string) string {
	if !strings.HasPrefix(specifier, ".") {
		return specifier
	}

	resolved := joinRelative(dirOf(fromFile), specifier)

	if snapshot.Has(resolved) {
		return resolved
	}
	for _, ext := range scriptExtensions {
		if snapshot.Has(resolved + ext) {
			return resolved + ext
		}
	}
	for _, ext := range scriptExtensions {
		if candidate := resolved + "/index" + ext; snapshot.Has(candidate) {
			return candidate
		}
	}
	return resolved
}

// dirOf returns the directory portion of a project-relative path, "" for a
// root-level file.
func dirOf(path string) string {
	idx := strings.LastIndex(path, "/")
	if idx < 0 {
		return ""
	}
	return path[:idx]
}

// joinRelative resolves "./" and "../" segments of specifier against base,
// producing a path with no dot segments. Climbing above the project root
// clamps at the root rather than failing.
func joinRelative(base, specifier string) string {
	segments := []string{}
	if base != "" {
		segments = strings.Split(base, "/")
	}

	for _, part := range strings.Split(specifier, "/") {
		switch part {
		case "", ".":
			// skip
		case "..":
			if len(segments) > 0 {
				segments = segments[:len(segments)-1]
			}
		default:
			segments = append(segments, part)
		}
	}
	return strings.Join(segments, "/")
}
