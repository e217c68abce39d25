// Package packages defines the closed-world set of external modules a
// generated project may import. Bare specifiers outside this set are not
// special-cased and fail at module resolution, which is deliberate.
package packages

import (
	"sort"
	"strings"
)

// Pin maps a bare module specifier to a versioned CDN URL.
type Pin struct {
	Specifier string `json:"specifier"`
	URL       string `json:"url"`
}

// catalog is the fixed, versioned allow-set: the UI framework, its DOM
// renderer, the icon set, and a handful of utility/animation/date/state
// libraries the generator is prompted to use.
var catalog = map[string]string{
	"react":             "https://esm.sh/react@18.3.1",
	"react-dom":         "https://esm.sh/react-dom@18.3.1",
	"react-dom/client":  "https://esm.sh/react-dom@18.3.1/client",
	"react/jsx-runtime": "https://esm.sh/react@18.3.1/jsx-runtime",
	"react-router-dom":  "https://esm.sh/react-router-dom@6.26.2",
	"lucide-react":      "https://esm.sh/lucide-react@0.446.0",
	"framer-motion":     "https://esm.sh/framer-motion@11.5.6",
	"clsx":              "https://esm.sh/clsx@2.1.1",
	"date-fns":          "https://esm.sh/date-fns@3.6.0",
	"zustand":           "https://esm.sh/zustand@4.5.5",
	"recharts":          "https://esm.sh/recharts@2.12.7",
}

// Lookup returns the pinned CDN URL for a bare specifier.
func Lookup(specifier string) (string, bool) {
	if url, ok := catalog[specifier]; ok {
		return url, true
	}
	// Subpath imports of a pinned package resolve against the package pin.
	if idx := strings.Index(specifier, "/"); idx > 0 {
		if base, ok := catalog[specifier[:idx]]; ok {
			return base + specifier[idx:], true
		}
	}
	return "", false
}

// All returns every pin, sorted by specifier.
func All() []Pin {
	pins := make([]Pin, 0, len(catalog))
	for spec, url := range catalog {
		pins = append(pins, Pin{Specifier: spec, URL: url})
	}
	sort.Slice(pins, func(i, j int) bool { return pins[i].Specifier < pins[j].Specifier })
	return pins
}

// Entries returns the specifier→URL map for direct inclusion in an import map.
func Entries() map[string]string {
	out := make(map[string]string, len(catalog))
	for spec, url := range catalog {
		out[spec] = url
	}
	return out
}

// PrefixEntries returns trailing-slash import-map keys so subpath imports the
// catalog does not pin explicitly ("date-fns/format") resolve against the
// package pin in the browser, mirroring Lookup's subpath rule. Explicitly
// pinned subpaths stay exact keys; the import map prefers those.
func PrefixEntries() map[string]string {
	out := make(map[string]string)
	for spec := range catalog {
		if strings.Contains(spec, "/") {
			continue
		}
		if url, ok := Lookup(spec + "/"); ok {
			out[spec+"/"] = url
		}
	}
	return out
}
