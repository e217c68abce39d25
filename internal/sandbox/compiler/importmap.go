package compiler

import "strings"

// registerAliases registers a compiled module under every specifier form
// AI-generated code is known to use. The generator mixes absolute-from-root,
// relative, and short-form imports across files, so the import map must
// satisfy all conventions at once.
func registerAliases(importMap map[string]string, path, target string) {
	for _, alias := range AliasesFor(path) {
		importMap[alias] = target
	}
}

// AliasesFor returns every import-map key a file is registered under:
//
//   - the exact path and its "./" form
//   - the extension-less path and its "./" form
//   - for files under src/, the same forms relative to src/
//   - for files under a components folder, the bare component name
func AliasesFor(path string) []string {
	seen := make(map[string]struct{})
	aliases := []string{}
	add := func(alias string) {
		if alias == "" {
			return
		}
		if _, dup := seen[alias]; dup {
			return
		}
		seen[alias] = struct{}{}
		aliases = append(aliases, alias)
	}

	bare := trimScriptExtension(path)

	add(path)
	add("./" + path)
	add(bare)
	add("./" + bare)

	if rel, ok := strings.CutPrefix(path, "src/"); ok {
		add(rel)
		add("./" + rel)
		relBare := trimScriptExtension(rel)
		add(relBare)
		add("./" + relBare)
	}

	if idx := strings.LastIndex(bare, "/components/"); idx >= 0 {
		name := bare[idx+len("/components/"):]
		add("components/" + name)
		add("./components/" + name)
	}

	return aliases
}

func trimScriptExtension(path string) string {
	for _, ext := range []string{".tsx", ".ts", ".jsx", ".js", ".css", ".json"} {
		if trimmed, ok := strings.CutSuffix(path, ext); ok {
			return trimmed
		}
	}
	return path
}
