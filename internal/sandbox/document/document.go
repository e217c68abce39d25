package document

import (
	"fmt"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/sketchforge/studio/backend/internal/project"
	"github.com/sketchforge/studio/backend/internal/sandbox/compiler"
)

// Assembly is a fully rendered sandbox document plus build diagnostics.
type Assembly struct {
	HTML        string                  `json:"html"`
	Incarnation uint64                  `json:"incarnation"`
	Errors      []compiler.CompileError `json:"errors,omitempty"`
}

// Assemble builds the srcDoc HTML for one sandbox incarnation from an
// immutable snapshot. Compile errors are carried in the result and also
// rendered into the document as console errors so the fix pipeline sees them.
func Assemble(snapshot project.Snapshot) (*Assembly, error) {
	build := compiler.Build(snapshot)

	importMapJSON, err := sonic.MarshalString(map[string]map[string]string{
		"imports": build.ImportMap,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode import map: %w", err)
	}

	entry := snapshot.EntryFile()

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&sb, "<meta name=\"sandbox-incarnation\" content=\"%d\">\n", snapshot.Incarnation())
	sb.WriteString("<style>html,body,#root{height:100%;margin:0}</style>\n")

	for _, style := range build.Styles {
		fmt.Fprintf(&sb, "<style data-source-path=%q>\n%s\n</style>\n",
			style.Path, sanitizeStyle(style.CSS))
	}

	sb.WriteString("<script type=\"importmap\">\n")
	sb.WriteString(importMapJSON)
	sb.WriteString("\n</script>\n")

	fmt.Fprintf(&sb, "<script>window.__SANDBOX_INCARNATION__ = %d;</script>\n", snapshot.Incarnation())
	sb.WriteString("<script>\n" + telemetryScript + "\n</script>\n")
	sb.WriteString("<script>\n" + navigationScript + "\n</script>\n")
	sb.WriteString("</head>\n<body>\n<div id=\"root\"></div>\n")

	for _, compileErr := range build.Errors {
		msg, err := sonic.MarshalString(fmt.Sprintf("Failed to compile %s: %s", compileErr.File, compileErr.Error))
		if err != nil {
			continue
		}
		fmt.Fprintf(&sb, "<script>console.error(%s);</script>\n", msg)
	}

	if entry == "" {
		sb.WriteString("<script>console.error(\"No entry file found in project\");</script>\n")
	} else {
		entryJSON, err := sonic.MarshalString(entry)
		if err != nil {
			return nil, fmt.Errorf("failed to encode entry path: %w", err)
		}
		fmt.Fprintf(&sb, "<script type=\"module\">\nimport(%s).catch((err) => console.error(\"Failed to load entry module: \" + (err && err.message ? err.message : err)));\n</script>\n", entryJSON)
	}

	sb.WriteString("</body>\n</html>\n")

	return &Assembly{
		HTML:        sb.String(),
		Incarnation: snapshot.Incarnation(),
		Errors:      build.Errors,
	}, nil
}

// sanitizeStyle keeps a stylesheet from terminating its own style element.
func sanitizeStyle(css string) string {
	return strings.ReplaceAll(css, "</style", "<\\/style")
}
