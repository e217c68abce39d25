package project

import (
	"errors"
	"sort"
	"strings"
	"sync"
)

var (
	// ErrEmptyPath is returned when a write names no file.
	ErrEmptyPath = errors.New("file path is empty")
	// ErrNoFiles is returned when a snapshot is requested before any project loaded.
	ErrNoFiles = errors.New("project has no files")
)

// Snapshot is an immutable view of the project file map, taken at a specific
// incarnation. Mutating methods on Store never touch an issued Snapshot.
type Snapshot struct {
	files       map[string]string
	incarnation uint64
}

// Get returns the source text for a path.
func (s Snapshot) Get(path string) (string, bool) {
	text, ok := s.files[path]
	return text, ok
}

// Has reports whether a path exists in the snapshot.
func (s Snapshot) Has(path string) bool {
	_, ok := s.files[path]
	return ok
}

// Paths returns all file paths in sorted order.
func (s Snapshot) Paths() []string {
	paths := make([]string, 0, len(s.files))
	for p := range s.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Len returns the number of files.
func (s Snapshot) Len() int { return len(s.files) }

// Incarnation returns the rebuild counter value this snapshot belongs to.
func (s Snapshot) Incarnation() uint64 { return s.incarnation }

// EntryFile returns the designated entry file for the project: the first of
// src/main.tsx, src/index.tsx, src/App.tsx (with .ts/.jsx/.js variants) that
// exists, falling back to the lexically first script file.
func (s Snapshot) EntryFile() string {
	candidates := []string{
		"src/main.tsx", "src/main.ts", "src/main.jsx", "src/main.js",
		"src/index.tsx", "src/index.ts", "src/index.jsx", "src/index.js",
		"src/App.tsx", "src/App.ts", "src/App.jsx", "src/App.js",
	}
	for _, c := range candidates {
		if s.Has(c) {
			return c
		}
	}
	for _, p := range s.Paths() {
		if IsScriptPath(p) {
			return p
		}
	}
	return ""
}

// IsScriptPath reports whether a path has a compilable script extension.
func IsScriptPath(path string) bool {
	for _, ext := range []string{".tsx", ".ts", ".jsx", ".js"} {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// Store is the single writer for project files. The host owns exactly one
// Store per session; every fix and manual edit goes through Replace or Write.
type Store struct {
	mu          sync.RWMutex
	files       map[string]string
	incarnation uint64
	subscribers []func(Snapshot)
}

// NewStore creates an empty project store.
func NewStore() *Store {
	return &Store{files: make(map[string]string)}
}

// Replace swaps the entire file map for a new generation result and bumps the
// incarnation counter.
func (s *Store) Replace(files map[string]string) Snapshot {
	s.mu.Lock()
	s.files = make(map[string]string, len(files))
	for p, text := range files {
		s.files[normalize(p)] = text
	}
	s.incarnation++
	snap := s.snapshotLocked()
	subs := append([]func(Snapshot){}, s.subscribers...)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
	return snap
}

// Write replaces a single file's source text, creating it if absent, and bumps
// the incarnation counter.
func (s *Store) Write(path, text string) (Snapshot, error) {
	if path == "" {
		return Snapshot{}, ErrEmptyPath
	}

	s.mu.Lock()
	s.files[normalize(path)] = text
	s.incarnation++
	snap := s.snapshotLocked()
	subs := append([]func(Snapshot){}, s.subscribers...)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
	return snap, nil
}

// Snapshot returns an immutable copy of the current file map.
func (s *Store) Snapshot() (Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.files) == 0 {
		return Snapshot{}, ErrNoFiles
	}
	return s.snapshotLocked(), nil
}

// Incarnation returns the current rebuild counter.
func (s *Store) Incarnation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.incarnation
}

// Subscribe registers a callback invoked after every write with the fresh
// snapshot. Callbacks run outside the store lock.
func (s *Store) Subscribe(fn func(Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

func (s *Store) snapshotLocked() Snapshot {
	files := make(map[string]string, len(s.files))
	for p, text := range s.files {
		files[p] = text
	}
	return Snapshot{files: files, incarnation: s.incarnation}
}

// normalize strips a leading "./" or "/" so all paths are project-root-relative.
func normalize(path string) string {
	path = strings.TrimPrefix(path, "./")
	return strings.TrimPrefix(path, "/")
}

// SnapshotFromMap builds a detached snapshot for tests and pure callers.
func SnapshotFromMap(files map[string]string) Snapshot {
	normalized := make(map[string]string, len(files))
	for p, text := range files {
		normalized[normalize(p)] = text
	}
	return Snapshot{files: normalized}
}
