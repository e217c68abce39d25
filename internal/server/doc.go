// Package server assembles the sandbox host.
//
// It owns construction order: logger, metrics, the session stores, the AI
// client and fix controller, the WebSocket relay, then the Gin router with
// its middleware stack (recovery, metrics, CORS, rate limiting) and the REST
// routes.
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	srv, err := server.New(cfg)
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
