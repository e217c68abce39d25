// Package protocol defines the typed message catalog carried between the
// host and the sandboxed iframe. The browser shell relays raw postMessage
// payloads over the WebSocket unchanged; this package gives them types.
//
// The protocol is best-effort telemetry, not a control channel: malformed or
// unrecognized messages are dropped silently.
package protocol

import (
	"errors"

	"github.com/bytedance/sonic"
)

// Kind discriminates protocol messages.
type Kind string

// Sandbox→host kinds.
const (
	KindConsole   Kind = "console"
	KindNetwork   Kind = "network"
	KindInspect   Kind = "inspect"
	KindURLChange Kind = "urlchange"
)

// Host→sandbox kinds.
const (
	KindNavigate    Kind = "navigate"
	KindBack        Kind = "back"
	KindForward     Kind = "forward"
	KindSetDocument Kind = "setdocument"
	KindInspectMode Kind = "inspect-mode"
)

// ErrUnknownKind marks a message the catalog does not recognize.
var ErrUnknownKind = errors.New("unknown message kind")

// Envelope is the wire form common to every message.
type Envelope struct {
	Kind        Kind   `json:"kind"`
	Incarnation uint64 `json:"incarnation,omitempty"`
}

// ConsoleMessage carries one captured console call or uncaught error.
// Ignorable is tagged at the source, inside the sandbox, so the host console
// can still display the entry while the fix pipeline skips it cheaply.
type ConsoleMessage struct {
	Envelope
	LogType   string `json:"logType"`
	Message   string `json:"message"`
	Ignorable bool   `json:"ignorable,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// NetworkMessage carries one observed fetch.
type NetworkMessage struct {
	Envelope
	Method    string `json:"method"`
	URL       string `json:"url"`
	Status    int    `json:"status"`
	Duration  int64  `json:"duration"`
	Timestamp int64  `json:"timestamp"`
}

// ElementInfo describes an inspected DOM element.
type ElementInfo struct {
	Tag       string   `json:"tag"`
	ID        string   `json:"id,omitempty"`
	ClassName string   `json:"className,omitempty"`
	Text      string   `json:"text,omitempty"`
	// Component is the best-effort framework component name; empty when the
	// internal-tree walk found nothing.
	Component string   `json:"component,omitempty"`
	Ancestors []string `json:"ancestors,omitempty"`
	Rect      Rect     `json:"rect"`
}

// Rect is an element's bounding box in iframe coordinates.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// InspectMessage carries hover/select/leave/scroll inspection events.
type InspectMessage struct {
	Envelope
	Action    string       `json:"action"`
	Element   *ElementInfo `json:"element,omitempty"`
	Timestamp int64        `json:"timestamp"`
}

// URLChangeMessage reports virtual navigation state.
type URLChangeMessage struct {
	Envelope
	URL          string `json:"url"`
	CanGoBack    bool   `json:"canGoBack"`
	CanGoForward bool   `json:"canGoForward"`
}

// NavigateCommand drives the sandbox's virtual history programmatically.
type NavigateCommand struct {
	Envelope
	URL string `json:"url,omitempty"`
}

// SetDocumentCommand delivers a freshly assembled document to the shell,
// which recreates the iframe keyed by the incarnation.
type SetDocumentCommand struct {
	Envelope
	HTML string `json:"html"`
}

// InspectModeCommand arms or disarms element inspection in the sandbox.
type InspectModeCommand struct {
	Envelope
	Enabled bool `json:"enabled"`
}

// Decode parses a raw frame into its typed message. The concrete type of the
// returned value matches the kind. ErrUnknownKind (or a parse error) means
// the frame should be dropped, not surfaced.
func Decode(raw []byte) (interface{}, error) {
	var env Envelope
	if err := sonic.Unmarshal(raw, &env); err != nil {
		return nil, err
	}

	switch env.Kind {
	case KindConsole:
		var msg ConsoleMessage
		return &msg, sonic.Unmarshal(raw, &msg)
	case KindNetwork:
		var msg NetworkMessage
		return &msg, sonic.Unmarshal(raw, &msg)
	case KindInspect:
		var msg InspectMessage
		return &msg, sonic.Unmarshal(raw, &msg)
	case KindURLChange:
		var msg URLChangeMessage
		return &msg, sonic.Unmarshal(raw, &msg)
	case KindNavigate, KindBack, KindForward:
		var msg NavigateCommand
		return &msg, sonic.Unmarshal(raw, &msg)
	default:
		return nil, ErrUnknownKind
	}
}

// Encode serializes any protocol message for the wire.
func Encode(msg interface{}) ([]byte, error) {
	return sonic.Marshal(msg)
}
