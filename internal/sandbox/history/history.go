// Package history implements the virtual navigation stack the sandbox shim
// mirrors in-iframe. The host holds the authoritative copy so navigation
// commands and URL-change telemetry agree on back/forward availability.
//
// The stack is scoped to one sandbox incarnation; a rebuild discards it.
package history

import (
	"strings"
	"sync"
)

// Entry is one virtual history record.
type Entry struct {
	State interface{} `json:"state"`
	Title string      `json:"title"`
	URL   string      `json:"url"`
}

// Location is the current-location view derived from the active entry.
type Location struct {
	Pathname string `json:"pathname"`
	Search   string `json:"search"`
	Hash     string `json:"hash"`
}

// Change describes a navigation result delivered to subscribers.
type Change struct {
	URL          string   `json:"url"`
	Location     Location `json:"location"`
	CanGoBack    bool     `json:"can_go_back"`
	CanGoForward bool     `json:"can_go_forward"`
}

// Subscriber receives every history mutation synchronously.
type Subscriber func(Change)

// Stack is a bounded virtual history with a current index.
// Invariant: 0 <= index < len(entries).
type Stack struct {
	mu          sync.Mutex
	entries     []Entry
	index       int
	subscribers []Subscriber
}

// New creates a stack holding a single root entry.
func New(rootURL string) *Stack {
	if rootURL == "" {
		rootURL = "/"
	}
	return &Stack{
		entries: []Entry{{URL: rootURL}},
	}
}

// Push truncates any forward entries and appends a new one.
func (s *Stack) Push(state interface{}, title, url string) Change {
	s.mu.Lock()
	s.entries = append(s.entries[:s.index+1], Entry{State: state, Title: title, URL: url})
	s.index = len(s.entries) - 1
	change, subs := s.changeLocked()
	s.mu.Unlock()

	notify(subs, change)
	return change
}

// Replace mutates the entry at the current index.
func (s *Stack) Replace(state interface{}, title, url string) Change {
	s.mu.Lock()
	s.entries[s.index] = Entry{State: state, Title: title, URL: url}
	change, subs := s.changeLocked()
	s.mu.Unlock()

	notify(subs, change)
	return change
}

// Back moves one entry backward; a no-op at the root.
func (s *Stack) Back() Change { return s.Go(-1) }

// Forward moves one entry forward; a no-op at the tip.
func (s *Stack) Forward() Change { return s.Go(1) }

// Go moves the index by delta, clamping moves that would leave bounds to
// no-ops (browser history.go semantics).
func (s *Stack) Go(delta int) Change {
	s.mu.Lock()
	target := s.index + delta
	moved := target >= 0 && target < len(s.entries)
	if moved {
		s.index = target
	}
	change, subs := s.changeLocked()
	s.mu.Unlock()

	if moved {
		notify(subs, change)
	}
	return change
}

// Current returns the active entry.
func (s *Stack) Current() Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries[s.index]
}

// Location returns the parsed current location.
func (s *Stack) Location() Location {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ParseLocation(s.entries[s.index].URL)
}

// CanGoBack reports whether Back would move.
func (s *Stack) CanGoBack() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index > 0
}

// CanGoForward reports whether Forward would move.
func (s *Stack) CanGoForward() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index < len(s.entries)-1
}

// Len returns the entry count.
func (s *Stack) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// State returns the current navigation view without notifying anyone.
func (s *Stack) State() Change {
	s.mu.Lock()
	defer s.mu.Unlock()
	change, _ := s.changeLocked()
	return change
}

// Sync reconciles the stack with a URL reported by the in-iframe mirror. The
// current entry stays put; a URL matching a neighboring entry is the
// corresponding back or forward move; anything else is a push.
func (s *Stack) Sync(url string) Change {
	s.mu.Lock()
	switch {
	case s.entries[s.index].URL == url:
		change, _ := s.changeLocked()
		s.mu.Unlock()
		return change
	case s.index > 0 && s.entries[s.index-1].URL == url:
		s.mu.Unlock()
		return s.Go(-1)
	case s.index < len(s.entries)-1 && s.entries[s.index+1].URL == url:
		s.mu.Unlock()
		return s.Go(1)
	default:
		s.mu.Unlock()
		return s.Push(nil, "", url)
	}
}

// Subscribe registers a synchronous mutation observer.
func (s *Stack) Subscribe(fn Subscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

func (s *Stack) changeLocked() (Change, []Subscriber) {
	entry := s.entries[s.index]
	change := Change{
		URL:          entry.URL,
		Location:     ParseLocation(entry.URL),
		CanGoBack:    s.index > 0,
		CanGoForward: s.index < len(s.entries)-1,
	}
	return change, append([]Subscriber{}, s.subscribers...)
}

func notify(subs []Subscriber, change Change) {
	for _, fn := range subs {
		fn(change)
	}
}

// ParseLocation splits a URL into pathname/search/hash by hand. The native
// parser rejects the relative and malformed inputs generated routers produce;
// this never throws: empty input means the root path, absolute URLs are
// stripped to their path, and a missing leading slash is added.
func ParseLocation(url string) Location {
	loc := Location{Pathname: "/"}
	if url == "" {
		return loc
	}

	// Strip scheme and authority from already-absolute inputs.
	if idx := strings.Index(url, "://"); idx >= 0 {
		rest := url[idx+3:]
		if slash := strings.Index(rest, "/"); slash >= 0 {
			url = rest[slash:]
		} else {
			return loc
		}
	}

	if idx := strings.Index(url, "#"); idx >= 0 {
		loc.Hash = url[idx:]
		url = url[:idx]
	}
	if idx := strings.Index(url, "?"); idx >= 0 {
		loc.Search = url[idx:]
		url = url[:idx]
	}

	if url == "" {
		return loc
	}
	if !strings.HasPrefix(url, "/") {
		url = "/" + url
	}
	loc.Pathname = url
	return loc
}
