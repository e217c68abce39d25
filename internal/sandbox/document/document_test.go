package document

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sketchforge/studio/backend/internal/project"
)

func TestAssembleEmbedsImportMapAndEntry(t *testing.T) {
	store := project.NewStore()
	snapshot := store.Replace(map[string]string{
		"src/main.tsx": `import App from "./App"; export default App;`,
		"src/App.tsx":  `export default function App() { return <div/>; }`,
	})

	assembly, err := Assemble(snapshot)
	require.NoError(t, err)
	require.Empty(t, assembly.Errors)

	assert.Contains(t, assembly.HTML, `<script type="importmap">`)
	assert.Contains(t, assembly.HTML, `"src/App.tsx"`)
	assert.Contains(t, assembly.HTML, `import("src/main.tsx")`)
	assert.Contains(t, assembly.HTML, "esm.sh/react@")
}

func TestAssembleCarriesIncarnation(t *testing.T) {
	store := project.NewStore()
	store.Replace(map[string]string{"src/main.tsx": "export default 1;"})
	snapshot, err := store.Write("src/main.tsx", "export default 2;")
	require.NoError(t, err)

	assembly, err := Assemble(snapshot)
	require.NoError(t, err)

	assert.Equal(t, uint64(2), assembly.Incarnation)
	assert.Contains(t, assembly.HTML, "window.__SANDBOX_INCARNATION__ = 2;")
}

func TestAssembleInlinesStyles(t *testing.T) {
	snapshot := project.SnapshotFromMap(map[string]string{
		"src/main.tsx":  `import "./app.css"; export default 1;`,
		"src/app.css":   "body { color: red; }",
	})

	assembly, err := Assemble(snapshot)
	require.NoError(t, err)

	assert.Contains(t, assembly.HTML, `data-source-path="src/app.css"`)
	assert.Contains(t, assembly.HTML, "color: red")
}

func TestAssembleRendersCompileErrorsAsConsoleErrors(t *testing.T) {
	snapshot := project.SnapshotFromMap(map[string]string{
		"src/main.tsx":   "export default 1;",
		"src/Broken.tsx": "function { nope",
	})

	assembly, err := Assemble(snapshot)
	require.NoError(t, err)

	require.Len(t, assembly.Errors, 1)
	assert.Contains(t, assembly.HTML, "Failed to compile src/Broken.tsx")
}

func TestAssembleWithoutEntryFile(t *testing.T) {
	snapshot := project.SnapshotFromMap(map[string]string{
		"README.md": "# no code here",
	})

	assembly, err := Assemble(snapshot)
	require.NoError(t, err)

	assert.Contains(t, assembly.HTML, "No entry file found")
}

func TestAssembleContainsShims(t *testing.T) {
	snapshot := project.SnapshotFromMap(map[string]string{
		"src/main.tsx": "export default 1;",
	})

	assembly, err := Assemble(snapshot)
	require.NoError(t, err)

	assert.Contains(t, assembly.HTML, "pushState")
	assert.Contains(t, assembly.HTML, "urlchange")
	assert.Contains(t, assembly.HTML, "IGNORABLE_PATTERNS")
}

func TestSanitizeStyleCannotEscapeElement(t *testing.T) {
	css := "body{}</style><script>alert(1)</script>"
	assert.False(t, strings.Contains(sanitizeStyle(css), "</style>"))
}
