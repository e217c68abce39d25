package ws

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/sketchforge/studio/backend/internal/autofix"
	"github.com/sketchforge/studio/backend/internal/console"
	"github.com/sketchforge/studio/backend/internal/infrastructure/logging"
	"github.com/sketchforge/studio/backend/internal/infrastructure/monitoring"
	"github.com/sketchforge/studio/backend/internal/project"
	"github.com/sketchforge/studio/backend/internal/protocol"
	"github.com/sketchforge/studio/backend/internal/sandbox/document"
	"github.com/sketchforge/studio/backend/internal/sandbox/history"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true // Shell runs on a different dev port
	},
}

const writeTimeout = 10 * time.Second

// client is one connected shell. gorilla allows a single concurrent writer,
// so all sends go through the client's mutex.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) send(payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

// Handler relays the sandbox protocol. Inbound frames are telemetry from the
// sandbox (relayed by the shell); outbound frames carry rebuilt documents and
// navigation commands into it. The handler also keeps the authoritative copy
// of the sandbox's virtual history, fed by navigation commands and urlchange
// telemetry, so the shell's address bar has one source of truth.
type Handler struct {
	files   *project.Store
	console *console.Store
	fixes   *autofix.Controller
	logger  *logging.Logger
	metrics *monitoring.Metrics

	mu      sync.Mutex
	clients map[*client]struct{}

	navMu          sync.Mutex
	nav            *history.Stack
	navIncarnation uint64
}

// NewHandler creates the relay and subscribes it to project writes, so every
// file change pushes a freshly assembled document to all connected shells.
func NewHandler(files *project.Store, consoleStore *console.Store, fixes *autofix.Controller, logger *logging.Logger, metrics *monitoring.Metrics) *Handler {
	h := &Handler{
		files:   files,
		console: consoleStore,
		fixes:   fixes,
		logger:  logger.Component("ws"),
		metrics: metrics,
		clients: make(map[*client]struct{}),
	}

	files.Subscribe(func(snap project.Snapshot) {
		h.pushDocument(snap)
	})
	return h
}

// HandleConnection upgrades the request and runs the read loop until the
// shell disconnects.
func (h *Handler) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}

	cl := &client{conn: conn}
	h.register(cl)
	defer h.unregister(cl)

	h.logger.Info("Shell connected", zap.String("remote", conn.RemoteAddr().String()))

	// A shell that connects mid-session gets the current document right away.
	if snap, err := h.files.Snapshot(); err == nil {
		if payload, ok := h.renderDocument(snap); ok {
			h.deliver(cl, protocol.KindSetDocument, payload)
		}
	}

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("WebSocket read failed", zap.Error(err))
			}
			return
		}
		h.handleFrame(raw)
	}
}

// handleFrame dispatches one inbound frame. Undecodable frames and frames
// from a previous sandbox incarnation are dropped.
func (h *Handler) handleFrame(raw []byte) {
	msg, err := protocol.Decode(raw)
	if err != nil {
		return
	}

	current := h.files.Incarnation()

	switch m := msg.(type) {
	case *protocol.ConsoleMessage:
		h.count(protocol.KindConsole, "inbound")
		if stale(m.Incarnation, current) {
			return
		}
		h.console.AppendLog(console.LogType(m.LogType), m.Message, timestampOrNow(m.Timestamp))
		if m.LogType == string(console.TypeError) {
			h.fixes.HandleError(m.Message, m.Ignorable)
		}

	case *protocol.NetworkMessage:
		h.count(protocol.KindNetwork, "inbound")
		if stale(m.Incarnation, current) {
			return
		}
		h.console.AppendNetwork(m.Method, m.URL, m.Status, m.Duration, timestampOrNow(m.Timestamp))

	case *protocol.InspectMessage:
		h.count(protocol.KindInspect, "inbound")
		if stale(m.Incarnation, current) {
			return
		}
		if m.Action == "select" && m.Element != nil {
			h.logger.Info("Element selected",
				zap.String("tag", m.Element.Tag),
				zap.String("component", m.Element.Component),
			)
		}

	case *protocol.URLChangeMessage:
		h.count(protocol.KindURLChange, "inbound")
		if stale(m.Incarnation, current) {
			return
		}
		incarnation := m.Incarnation
		if incarnation == 0 {
			incarnation = current
		}
		change := h.navFor(incarnation).Sync(m.URL)
		h.logger.Debug("Sandbox navigated",
			zap.String("url", change.URL),
			zap.Bool("can_go_back", change.CanGoBack),
		)
	}
}

// Navigate pushes a virtual navigation into every connected sandbox.
func (h *Handler) Navigate(url string) {
	h.navFor(h.files.Incarnation()).Push(nil, "", url)
	h.broadcast(protocol.KindNavigate, &protocol.NavigateCommand{
		Envelope: protocol.Envelope{Kind: protocol.KindNavigate},
		URL:      url,
	})
}

// Back steps the sandbox's virtual history backward.
func (h *Handler) Back() {
	h.navFor(h.files.Incarnation()).Back()
	h.broadcast(protocol.KindBack, &protocol.NavigateCommand{
		Envelope: protocol.Envelope{Kind: protocol.KindBack},
	})
}

// Forward steps the sandbox's virtual history forward.
func (h *Handler) Forward() {
	h.navFor(h.files.Incarnation()).Forward()
	h.broadcast(protocol.KindForward, &protocol.NavigateCommand{
		Envelope: protocol.Envelope{Kind: protocol.KindForward},
	})
}

// NavigationState reports the host's view of the sandbox's virtual location
// for the shell's address bar.
func (h *Handler) NavigationState() history.Change {
	return h.navFor(h.files.Incarnation()).State()
}

// navFor returns the host-side history for an incarnation, discarding the
// stack of any older sandbox.
func (h *Handler) navFor(incarnation uint64) *history.Stack {
	h.navMu.Lock()
	defer h.navMu.Unlock()
	if h.nav == nil || incarnation > h.navIncarnation {
		h.nav = history.New("/")
		h.navIncarnation = incarnation
	}
	return h.nav
}

// SetInspectMode arms or disarms element inspection.
func (h *Handler) SetInspectMode(enabled bool) {
	h.broadcast(protocol.KindInspectMode, &protocol.InspectModeCommand{
		Envelope: protocol.Envelope{Kind: protocol.KindInspectMode},
		Enabled:  enabled,
	})
}

// pushDocument assembles and broadcasts the document for a fresh snapshot.
func (h *Handler) pushDocument(snap project.Snapshot) {
	payload, ok := h.renderDocument(snap)
	if !ok {
		return
	}

	h.mu.Lock()
	targets := make([]*client, 0, len(h.clients))
	for cl := range h.clients {
		targets = append(targets, cl)
	}
	h.mu.Unlock()

	for _, cl := range targets {
		h.deliver(cl, protocol.KindSetDocument, payload)
	}
}

func (h *Handler) renderDocument(snap project.Snapshot) ([]byte, bool) {
	start := time.Now()
	assembly, err := document.Assemble(snap)
	if err != nil {
		h.logger.Error("Document assembly failed", zap.Error(err))
		return nil, false
	}
	if h.metrics != nil {
		h.metrics.RecordRebuild(time.Since(start), len(assembly.Errors), snap.Len())
	}

	payload, err := protocol.Encode(&protocol.SetDocumentCommand{
		Envelope: protocol.Envelope{Kind: protocol.KindSetDocument, Incarnation: assembly.Incarnation},
		HTML:     assembly.HTML,
	})
	if err != nil {
		h.logger.Error("Document encode failed", zap.Error(err))
		return nil, false
	}
	return payload, true
}

func (h *Handler) broadcast(kind protocol.Kind, msg interface{}) {
	payload, err := protocol.Encode(msg)
	if err != nil {
		return
	}

	h.mu.Lock()
	targets := make([]*client, 0, len(h.clients))
	for cl := range h.clients {
		targets = append(targets, cl)
	}
	h.mu.Unlock()

	for _, cl := range targets {
		h.deliver(cl, kind, payload)
	}
}

func (h *Handler) deliver(cl *client, kind protocol.Kind, payload []byte) {
	if err := cl.send(payload); err != nil {
		h.logger.Warn("WebSocket write failed", zap.Error(err))
		return
	}
	h.count(kind, "outbound")
}

func (h *Handler) register(cl *client) {
	h.mu.Lock()
	h.clients[cl] = struct{}{}
	h.mu.Unlock()
	if h.metrics != nil {
		h.metrics.WSConnections.Inc()
	}
}

func (h *Handler) unregister(cl *client) {
	h.mu.Lock()
	delete(h.clients, cl)
	h.mu.Unlock()
	cl.conn.Close()
	if h.metrics != nil {
		h.metrics.WSConnections.Dec()
	}
}

func (h *Handler) count(kind protocol.Kind, direction string) {
	if h.metrics != nil {
		h.metrics.WSMessages.WithLabelValues(string(kind), direction).Inc()
	}
}

// stale reports whether a tagged frame predates the current incarnation.
// Untagged frames (incarnation zero) are accepted.
func stale(tagged, current uint64) bool {
	return tagged != 0 && tagged < current
}

func timestampOrNow(millis int64) time.Time {
	if millis <= 0 {
		return time.Now()
	}
	return time.UnixMilli(millis)
}
