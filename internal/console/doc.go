// Package console accumulates log and network telemetry reported by the
// sandbox. Entries live until the user clears them; error entries carry
// fixing/fixed flags mutated by the auto-fix controller.
package console
