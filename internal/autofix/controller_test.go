package autofix

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sketchforge/studio/backend/internal/console"
	"github.com/sketchforge/studio/backend/internal/infrastructure/logging"
	"github.com/sketchforge/studio/backend/internal/infrastructure/monitoring"
	"github.com/sketchforge/studio/backend/internal/notify"
	"github.com/sketchforge/studio/backend/internal/project"
)

type stubGenerator struct {
	mu       sync.Mutex
	response string
	err      error
	prompts  []string
}

func (g *stubGenerator) Generate(_ context.Context, req GenerateRequest) (string, error) {
	g.mu.Lock()
	g.prompts = append(g.prompts, req.Prompt)
	g.mu.Unlock()
	return g.response, g.err
}

func (g *stubGenerator) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.prompts)
}

type stubChat struct {
	mu       sync.Mutex
	messages []string
}

func (c *stubChat) SendErrorToChat(message string) {
	c.mu.Lock()
	c.messages = append(c.messages, message)
	c.mu.Unlock()
}

func testLogger() *logging.Logger {
	return &logging.Logger{Logger: zap.NewNop()}
}

type fixture struct {
	files         *project.Store
	console       *console.Store
	notifications *notify.Center
	generator     *stubGenerator
	chat          *stubChat
	controller    *Controller
}

func newFixture(t *testing.T, opts Options, files map[string]string) *fixture {
	t.Helper()
	f := &fixture{
		files:         project.NewStore(),
		console:       console.NewStore(),
		notifications: notify.NewCenter(time.Minute),
		generator:     &stubGenerator{response: "export default function App() { return null; }"},
		chat:          &stubChat{},
	}
	f.files.Replace(files)
	f.controller = NewController(opts, f.files, f.console, f.notifications, f.generator, f.chat, testLogger())
	return f
}

func quickOpts() Options {
	opts := DefaultOptions()
	opts.Debounce = 20 * time.Millisecond
	return opts
}

func waitForPrompt(t *testing.T, c *Controller) string {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if msg, ok := c.Pending(); ok {
			return msg
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("prompt never fired")
	return ""
}

func notificationKinds(center *notify.Center) []notify.Kind {
	var kinds []notify.Kind
	for _, n := range center.List() {
		kinds = append(kinds, n.Kind)
	}
	return kinds
}

func TestHandleErrorSkipsIgnorable(t *testing.T) {
	f := newFixture(t, quickOpts(), map[string]string{"src/App.tsx": "export default 1;"})

	f.controller.HandleError("ResizeObserver loop completed with undelivered notifications", false)
	f.controller.HandleError("TypeError: Cannot read properties of undefined (reading 'x')", true)

	time.Sleep(50 * time.Millisecond)
	_, pending := f.controller.Pending()
	assert.False(t, pending)
	assert.Zero(t, f.generator.callCount())
	assert.Empty(t, f.notifications.List())
}

func TestHandleErrorCountsClassifications(t *testing.T) {
	f := newFixture(t, quickOpts(), map[string]string{"src/App.tsx": "export default 1;"})
	metrics := monitoring.NewMetrics()
	f.controller.WithMetrics(metrics)

	// Ignorable errors are still counted before being skipped.
	f.controller.HandleError("script error", false)
	f.controller.HandleError("boom is not defined (at src/App.tsx:1:1)", false)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ErrorsClassified.WithLabelValues("generic")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ErrorsClassified.WithLabelValues("runtime")))

	f.controller.Decline()
}

func TestHandleErrorAppliesDeterministicFix(t *testing.T) {
	f := newFixture(t, quickOpts(), map[string]string{
		"src/App.tsx":               `import Header from "components/Header";`,
		"src/components/Header.tsx": "export default function Header() { return null; }",
	})
	message := `Failed to resolve module specifier "components/Header"`
	f.console.AppendLog(console.TypeError, message, time.Now())
	before := f.files.Incarnation()

	f.controller.HandleError(message, false)

	snap, err := f.files.Snapshot()
	require.NoError(t, err)
	source, _ := snap.Get("src/App.tsx")
	assert.Contains(t, source, `"src/components/Header.tsx"`)
	assert.Greater(t, f.files.Incarnation(), before)

	// No AI involvement and no prompt.
	assert.Zero(t, f.generator.callCount())
	_, pending := f.controller.Pending()
	assert.False(t, pending)
	assert.Contains(t, notificationKinds(f.notifications), notify.KindSuccess)

	logs := f.console.Logs()
	require.Len(t, logs, 1)
	assert.True(t, logs[0].IsFixed)
}

func TestCooldownSuppressesRepeat(t *testing.T) {
	f := newFixture(t, quickOpts(), map[string]string{
		"src/App.tsx":               `import Header from "components/Header";`,
		"src/components/Header.tsx": "export default function Header() { return null; }",
	})
	message := `Failed to resolve module specifier "components/Header"`

	f.controller.HandleError(message, false)
	after := f.files.Incarnation()

	// The sandbox re-reports the same error before reloading.
	f.controller.HandleError(message, false)
	assert.Equal(t, after, f.files.Incarnation())
}

func TestDebounceReplacesCandidateBeforePrompt(t *testing.T) {
	f := newFixture(t, quickOpts(), map[string]string{"src/App.tsx": "export default 1;"})

	f.controller.HandleError("TypeError: Cannot read properties of undefined (reading 'a')", false)
	f.controller.HandleError("TypeError: Cannot read properties of undefined (reading 'b')", false)

	msg := waitForPrompt(t, f.controller)
	assert.Contains(t, msg, "'b'")
}

func TestSinglePromptAfterFiring(t *testing.T) {
	f := newFixture(t, quickOpts(), map[string]string{"src/App.tsx": "export default 1;"})

	f.controller.HandleError("TypeError: Cannot read properties of undefined (reading 'a')", false)
	first := waitForPrompt(t, f.controller)

	// Later qualifying errors are recorded but never open a second prompt.
	f.controller.HandleError("TypeError: Cannot read properties of undefined (reading 'c')", false)
	time.Sleep(50 * time.Millisecond)

	current, ok := f.controller.Pending()
	require.True(t, ok)
	assert.Equal(t, first, current)
	assert.Contains(t, notificationKinds(f.notifications), notify.KindPrompt)
}

func TestConfirmRunsSingleGenerationAndApplies(t *testing.T) {
	f := newFixture(t, quickOpts(), map[string]string{
		"src/App.tsx": "export default function App() { return items.map(i => i); }",
	})
	f.generator.response = "```tsx\nexport default function App() { return null; }\n```"
	message := "TypeError: Cannot read properties of undefined (reading 'map') (at src/App.tsx:1:40)"

	f.controller.HandleError(message, false)
	waitForPrompt(t, f.controller)

	result := f.controller.Confirm(context.Background())
	require.True(t, result.Success, result.Error)
	assert.True(t, result.WasAINeeded)
	assert.Equal(t, "src/App.tsx", result.TargetFile)
	assert.Equal(t, 1, f.generator.callCount())

	snap, _ := f.files.Snapshot()
	source, _ := snap.Get("src/App.tsx")
	assert.Equal(t, "export default function App() { return null; }", source)

	_, pending := f.controller.Pending()
	assert.False(t, pending)
}

func TestConfirmGenerationFailureEscalates(t *testing.T) {
	f := newFixture(t, quickOpts(), map[string]string{
		"src/App.tsx": "export default function App() { return null; }",
	})
	f.generator.err = errors.New("model unavailable")
	message := "TypeError: Cannot read properties of undefined (reading 'map') (at src/App.tsx:1:1)"

	f.controller.HandleError(message, false)
	waitForPrompt(t, f.controller)

	result := f.controller.Confirm(context.Background())
	assert.False(t, result.Success)
	assert.True(t, result.WasAINeeded)
	// One attempt, never retried.
	assert.Equal(t, 1, f.generator.callCount())
	assert.Contains(t, notificationKinds(f.notifications), notify.KindEscalation)
}

func TestConfirmRejectsInvalidResponse(t *testing.T) {
	f := newFixture(t, quickOpts(), map[string]string{
		"src/App.tsx": "export default function App() { return null; }",
	})
	f.generator.response = "Sure! Here is what I would suggest you change in your file."
	message := "TypeError: Cannot read properties of undefined (reading 'x') (at src/App.tsx:1:1)"

	f.controller.HandleError(message, false)
	waitForPrompt(t, f.controller)

	before := f.files.Incarnation()
	result := f.controller.Confirm(context.Background())
	assert.False(t, result.Success)
	assert.Equal(t, before, f.files.Incarnation())
	assert.Contains(t, notificationKinds(f.notifications), notify.KindEscalation)
}

func TestConfirmWithoutPending(t *testing.T) {
	f := newFixture(t, quickOpts(), map[string]string{"src/App.tsx": "export default 1;"})

	result := f.controller.Confirm(context.Background())
	assert.False(t, result.Success)
	assert.Zero(t, f.generator.callCount())
}

func TestDeclineClearsPending(t *testing.T) {
	f := newFixture(t, quickOpts(), map[string]string{"src/App.tsx": "export default 1;"})

	f.controller.HandleError("TypeError: Cannot read properties of undefined (reading 'x')", false)
	waitForPrompt(t, f.controller)

	f.controller.Decline()
	_, pending := f.controller.Pending()
	assert.False(t, pending)
	assert.NotContains(t, notificationKinds(f.notifications), notify.KindPrompt)

	result := f.controller.Confirm(context.Background())
	assert.False(t, result.Success)
}

func TestLowPriorityErrorsNeverPrompt(t *testing.T) {
	f := newFixture(t, quickOpts(), map[string]string{"src/App.tsx": "export default 1;"})

	f.controller.HandleError("some totally unclassifiable failure", false)
	time.Sleep(50 * time.Millisecond)

	_, pending := f.controller.Pending()
	assert.False(t, pending)
	assert.Zero(t, f.generator.callCount())
}

func TestSendToChatForwards(t *testing.T) {
	f := newFixture(t, quickOpts(), map[string]string{"src/App.tsx": "export default 1;"})

	f.controller.SendToChat("please look at this")
	assert.Equal(t, []string{"please look at this"}, f.chat.messages)
}
