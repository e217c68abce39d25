package compiler

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/evanw/esbuild/pkg/api"
	"github.com/gabriel-vasile/mimetype"

	"github.com/sketchforge/studio/backend/internal/project"
	"github.com/sketchforge/studio/backend/internal/sandbox/packages"
)

// CompileError records one file's failure without aborting the batch.
type CompileError struct {
	File  string `json:"file"`
	Error string `json:"error"`
}

// StyleInjection is a stylesheet to inline into the document, tagged with its
// origin path so a rebuild can replace it.
type StyleInjection struct {
	Path string `json:"path"`
	CSS  string `json:"css"`
}

// Result is the outcome of one build over a fixed snapshot.
type Result struct {
	// ImportMap maps every alias form to a resolvable URL (data URL for
	// project modules, CDN URL for pinned packages).
	ImportMap map[string]string
	Styles    []StyleInjection
	Errors    []CompileError
	// Incarnation is carried from the snapshot the build consumed.
	Incarnation uint64
}

// Build compiles every file in the snapshot. Deterministic for a fixed
// snapshot; alias collisions are last-write-wins over the sorted path order.
func Build(snapshot project.Snapshot) *Result {
	result := &Result{
		ImportMap:   packages.Entries(),
		Incarnation: snapshot.Incarnation(),
	}
	for prefix, url := range packages.PrefixEntries() {
		result.ImportMap[prefix] = url
	}

	for _, path := range snapshot.Paths() {
		source, _ := snapshot.Get(path)
		switch {
		case project.IsScriptPath(path):
			buildScript(snapshot, path, source, result)
		case strings.HasSuffix(path, ".css"):
			buildStylesheet(path, source, result)
		case strings.HasSuffix(path, ".json"):
			buildJSON(path, source, result)
		default:
			buildAsset(path, source, result)
		}
	}
	return result
}

func buildScript(snapshot project.Snapshot, path, source string, result *Result) {
	rewritten := RewriteImports(snapshot, path, source)

	transformed := api.Transform(rewritten, api.TransformOptions{
		Loader:          loaderFor(path),
		Format:          api.FormatESModule,
		Platform:        api.PlatformBrowser,
		Target:          api.ES2020,
		JSX:             api.JSXAutomatic,
		JSXImportSource: "react",
		Sourcefile:      path,
		LogLevel:        api.LogLevelSilent,
	})

	if len(transformed.Errors) > 0 {
		result.Errors = append(result.Errors, CompileError{
			File:  path,
			Error: formatMessages(transformed.Errors),
		})
		return
	}

	registerAliases(result.ImportMap, path, moduleDataURL(string(transformed.Code)))
}

func buildStylesheet(path, source string, result *Result) {
	result.Styles = append(result.Styles, StyleInjection{Path: path, CSS: source})
	// No-op module stand-in so `import './x.css'` resolves without a value.
	registerAliases(result.ImportMap, path, moduleDataURL("export default {};\n"))
}

func buildJSON(path, source string, result *Result) {
	var parsed interface{}
	if err := sonic.UnmarshalString(source, &parsed); err != nil {
		result.Errors = append(result.Errors, CompileError{
			File:  path,
			Error: fmt.Sprintf("invalid JSON: %v", err),
		})
		return
	}
	canonical, err := sonic.MarshalString(parsed)
	if err != nil {
		result.Errors = append(result.Errors, CompileError{File: path, Error: err.Error()})
		return
	}
	registerAliases(result.ImportMap, path, moduleDataURL("export default "+canonical+";\n"))
}

// buildAsset embeds non-code files (SVGs, images the generator checked in) as
// modules whose default export is a data URL, the way bundlers treat assets.
func buildAsset(path, source string, result *Result) {
	mime := mimetype.Detect([]byte(source)).String()
	dataURL := "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString([]byte(source))
	registerAliases(result.ImportMap, path, moduleDataURL("export default "+quoteJS(dataURL)+";\n"))
}

func loaderFor(path string) api.Loader {
	switch {
	case strings.HasSuffix(path, ".tsx"):
		return api.LoaderTSX
	case strings.HasSuffix(path, ".ts"):
		return api.LoaderTS
	case strings.HasSuffix(path, ".jsx"):
		return api.LoaderJSX
	default:
		return api.LoaderJS
	}
}

func formatMessages(messages []api.Message) string {
	var sb strings.Builder
	for i, msg := range messages {
		if i > 0 {
			sb.WriteString("; ")
		}
		if msg.Location != nil {
			fmt.Fprintf(&sb, "%s:%d:%d: ", msg.Location.File, msg.Location.Line, msg.Location.Column)
		}
		sb.WriteString(msg.Text)
	}
	return sb.String()
}

// moduleDataURL wraps compiled module code into a loadable URL.
func moduleDataURL(code string) string {
	return "data:text/javascript;base64," + base64.StdEncoding.EncodeToString([]byte(code))
}

func quoteJS(s string) string {
	quoted, err := sonic.MarshalString(s)
	if err != nil {
		return `""`
	}
	return quoted
}
