// Package main is the entry point for the SketchForge sandbox host.
//
// The host sits between the browser shell and the AI generation service:
//
//	Shell (React) → Sandbox Host (Go) → AI Service (LLM)
//
// It serves:
//   - REST API for project uploads, telemetry, and fix confirmation
//   - WebSocket relay for the sandbox protocol and document pushes
//   - Prometheus metrics
//
// Configuration comes from environment variables (12-factor), with CLI flags
// as overrides and sane defaults for development.
//
// Usage:
//
//	./server -port 8000 -ai http://localhost:8091
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
