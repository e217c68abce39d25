package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackAtRootIsNoOp(t *testing.T) {
	s := New("/")

	change := s.Back()

	assert.Equal(t, "/", change.URL)
	assert.False(t, change.CanGoBack)
	assert.Equal(t, 1, s.Len())
}

func TestPushBackForwardBounds(t *testing.T) {
	s := New("/")
	s.Push(nil, "", "/first")
	s.Push(nil, "", "/second")
	s.Push(nil, "", "/third")

	s.Back()
	change := s.Back()

	assert.Equal(t, "/first", change.URL)
	assert.True(t, change.CanGoForward)

	change = s.Forward()
	assert.Equal(t, "/second", change.URL)
}

func TestPushTruncatesForwardEntries(t *testing.T) {
	s := New("/")
	s.Push(nil, "", "/a")
	s.Push(nil, "", "/b")
	s.Back()

	change := s.Push(nil, "", "/c")

	assert.Equal(t, "/c", change.URL)
	assert.False(t, change.CanGoForward)
	assert.Equal(t, 3, s.Len()) // root, /a, /c
}

func TestReplaceKeepsIndex(t *testing.T) {
	s := New("/")
	s.Push(nil, "", "/settings")

	change := s.Replace(map[string]interface{}{"tab": "profile"}, "Profile", "/settings/profile")

	assert.Equal(t, "/settings/profile", change.URL)
	assert.Equal(t, 2, s.Len())
	assert.True(t, change.CanGoBack)
	assert.False(t, change.CanGoForward)
}

func TestGoOutOfBoundsIsNoOp(t *testing.T) {
	s := New("/")
	s.Push(nil, "", "/page")

	change := s.Go(5)
	assert.Equal(t, "/page", change.URL)

	change = s.Go(-10)
	assert.Equal(t, "/page", change.URL)
}

func TestSubscribersNotifiedSynchronously(t *testing.T) {
	s := New("/")
	var seen []string
	s.Subscribe(func(c Change) { seen = append(seen, c.URL) })

	s.Push(nil, "", "/a")
	s.Back()

	require.Equal(t, []string{"/a", "/"}, seen)
}

func TestNoOpMovesDoNotNotify(t *testing.T) {
	s := New("/")
	calls := 0
	s.Subscribe(func(Change) { calls++ })

	s.Back()
	s.Forward()

	assert.Zero(t, calls)
}

func TestSyncReconcilesMirrorReports(t *testing.T) {
	s := New("/")

	change := s.Sync("/about")
	assert.Equal(t, "/about", change.URL)
	assert.True(t, change.CanGoBack)
	assert.Equal(t, 2, s.Len())

	// Re-reporting the current URL changes nothing.
	change = s.Sync("/about")
	assert.Equal(t, 2, s.Len())

	// The previous entry's URL is a back move, not a new entry.
	change = s.Sync("/")
	assert.Equal(t, "/", change.URL)
	assert.False(t, change.CanGoBack)
	assert.True(t, change.CanGoForward)
	assert.Equal(t, 2, s.Len())

	// The next entry's URL is the matching forward move.
	change = s.Sync("/about")
	assert.Equal(t, "/about", change.URL)
	assert.Equal(t, 2, s.Len())
}

func TestStateDoesNotNotify(t *testing.T) {
	s := New("/")
	calls := 0
	s.Subscribe(func(Change) { calls++ })
	s.Push(nil, "", "/a")

	state := s.State()

	assert.Equal(t, "/a", state.URL)
	assert.True(t, state.CanGoBack)
	assert.Equal(t, 1, calls)
}

func TestParseLocation(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want Location
	}{
		{"empty", "", Location{Pathname: "/"}},
		{"root", "/", Location{Pathname: "/"}},
		{"plain path", "/about", Location{Pathname: "/about"}},
		{"relative input", "about", Location{Pathname: "/about"}},
		{"search", "/items?page=2", Location{Pathname: "/items", Search: "?page=2"}},
		{"hash", "/docs#install", Location{Pathname: "/docs", Hash: "#install"}},
		{
			"search and hash",
			"/docs?v=1#install",
			Location{Pathname: "/docs", Search: "?v=1", Hash: "#install"},
		},
		{
			"absolute URL",
			"https://example.com/path?q=1#top",
			Location{Pathname: "/path", Search: "?q=1", Hash: "#top"},
		},
		{"absolute no path", "https://example.com", Location{Pathname: "/"}},
		{"hash only", "#section", Location{Pathname: "/", Hash: "#section"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLocation(tt.url))
		})
	}
}
