// Package ws relays the sandbox protocol between the host and connected
// browser shells.
//
// The shell forwards the sandbox iframe's postMessage traffic over one
// WebSocket connection; this package decodes those frames, feeds console and
// network telemetry into the session stores, and hands uncaught errors to the
// auto-fix controller. In the other direction it pushes freshly assembled
// documents after every project write and carries navigation and
// inspect-mode commands into the sandbox.
//
// Inbound (sandbox → host): console, network, inspect, urlchange.
// Outbound (host → sandbox): setdocument, navigate, back, forward,
// inspect-mode.
//
// Frames tagged with a stale incarnation are dropped; a rebuilt sandbox must
// not resurrect errors from its predecessor.
//
// Example Usage:
//
//	handler := ws.NewHandler(files, consoleStore, fixController, logger, metrics)
//	router.GET("/stream", handler.HandleConnection)
package ws
