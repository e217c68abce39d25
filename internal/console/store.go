package console

import (
	"sync"
	"time"

	"github.com/sketchforge/studio/backend/internal/shared/id"
)

// LogType is the console channel a message arrived on.
type LogType string

const (
	TypeLog   LogType = "log"
	TypeWarn  LogType = "warn"
	TypeError LogType = "error"
	TypeInfo  LogType = "info"
)

// LogEntry is one captured console message.
type LogEntry struct {
	ID        string    `json:"id"`
	Type      LogType   `json:"type"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	IsFixing  bool      `json:"is_fixing,omitempty"`
	IsFixed   bool      `json:"is_fixed,omitempty"`
}

// NetworkEntry is one captured fetch/XHR observation.
type NetworkEntry struct {
	ID        string    `json:"id"`
	Method    string    `json:"method"`
	URL       string    `json:"url"`
	Status    int       `json:"status"`
	Duration  int64     `json:"duration_ms"`
	Timestamp time.Time `json:"timestamp"`
}

// Store holds the session's console and network logs.
type Store struct {
	mu      sync.RWMutex
	logs    []LogEntry
	network []NetworkEntry
}

// NewStore creates an empty telemetry store.
func NewStore() *Store {
	return &Store{}
}

// AppendLog records a console message and returns the stored entry.
func (s *Store) AppendLog(logType LogType, message string, at time.Time) LogEntry {
	entry := LogEntry{
		ID:        id.NewLogID(),
		Type:      logType,
		Message:   message,
		Timestamp: at,
	}
	s.mu.Lock()
	s.logs = append(s.logs, entry)
	s.mu.Unlock()
	return entry
}

// AppendNetwork records a network observation.
func (s *Store) AppendNetwork(method, url string, status int, durationMS int64, at time.Time) NetworkEntry {
	entry := NetworkEntry{
		ID:        id.NewLogID(),
		Method:    method,
		URL:       url,
		Status:    status,
		Duration:  durationMS,
		Timestamp: at,
	}
	s.mu.Lock()
	s.network = append(s.network, entry)
	s.mu.Unlock()
	return entry
}

// Logs returns a copy of all console entries.
func (s *Store) Logs() []LogEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]LogEntry{}, s.logs...)
}

// Network returns a copy of all network entries.
func (s *Store) Network() []NetworkEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]NetworkEntry{}, s.network...)
}

// MarkFixing flags the newest error entry with the given message as having a
// fix in flight.
func (s *Store) MarkFixing(message string) bool {
	return s.mark(message, func(e *LogEntry) { e.IsFixing = true })
}

// MarkFixed flags the newest error entry with the given message as fixed.
func (s *Store) MarkFixed(message string) bool {
	return s.mark(message, func(e *LogEntry) {
		e.IsFixing = false
		e.IsFixed = true
	})
}

func (s *Store) mark(message string, apply func(*LogEntry)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.logs) - 1; i >= 0; i-- {
		if s.logs[i].Type == TypeError && s.logs[i].Message == message {
			apply(&s.logs[i])
			return true
		}
	}
	return false
}

// Tail returns the messages of the most recent error and warning entries, in
// chronological order, capped at n.
func (s *Store) Tail(n int) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var tail []string
	for i := len(s.logs) - 1; i >= 0 && len(tail) < n; i-- {
		if s.logs[i].Type == TypeError || s.logs[i].Type == TypeWarn {
			tail = append(tail, string(s.logs[i].Type)+": "+s.logs[i].Message)
		}
	}
	for i, j := 0, len(tail)-1; i < j; i, j = i+1, j-1 {
		tail[i], tail[j] = tail[j], tail[i]
	}
	return tail
}

// ClearLogs drops all console entries.
func (s *Store) ClearLogs() {
	s.mu.Lock()
	s.logs = nil
	s.mu.Unlock()
}

// ClearNetwork drops all network entries.
func (s *Store) ClearNetwork() {
	s.mu.Lock()
	s.network = nil
	s.mu.Unlock()
}
