// Package project owns the mutable project file map.
//
// All writes are serialized through a single Store; readers take immutable
// snapshots keyed by a monotonically increasing incarnation counter, so a
// rebuild always sees a consistent file set even while fixes land.
package project
