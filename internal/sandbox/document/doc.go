// Package document assembles the complete HTML document served into the
// sandboxed iframe via srcDoc. A document embeds the import map, inlined
// stylesheets, the navigation shim, the telemetry bridge, and the bootstrap
// that mounts the project's entry module. Rebuilding always produces a whole
// new document; there is no partial-update path.
package document
