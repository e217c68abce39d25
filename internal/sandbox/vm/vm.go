// Package vm validates candidate source with an embedded JavaScript engine.
//
// AI repair responses are accepted only after they transpile and parse; this
// is a baseline plausibility gate, not a correctness proof. The real
// verification is the sandbox reload that follows every applied fix.
package vm

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dop251/goja"
	"github.com/evanw/esbuild/pkg/api"
)

var (
	// ErrEmptySource is returned for blank candidate code.
	ErrEmptySource = errors.New("source is empty")
	// ErrLooksLikeProse is returned when a response is conversation, not code.
	ErrLooksLikeProse = errors.New("source looks like prose, not code")
	// ErrTooLarge is returned when a candidate exceeds the configured bound.
	ErrTooLarge = errors.New("source exceeds size limit")
)

// Config bounds validation work.
type Config struct {
	// MaxSourceBytes rejects pathologically large candidates. Zero means no limit.
	MaxSourceBytes int
}

// Validator checks that candidate module source is syntactically plausible.
type Validator struct {
	config Config
}

// New creates a validator.
func New(config Config) *Validator {
	return &Validator{config: config}
}

// ValidateModule transpiles the candidate with the loader implied by its path
// and parses the output. Any failure rejects the candidate.
func (v *Validator) ValidateModule(path, source string) error {
	trimmed := strings.TrimSpace(source)
	if trimmed == "" {
		return ErrEmptySource
	}
	if v.config.MaxSourceBytes > 0 && len(source) > v.config.MaxSourceBytes {
		return ErrTooLarge
	}
	if looksLikeProse(trimmed) {
		return ErrLooksLikeProse
	}

	transformed := api.Transform(source, api.TransformOptions{
		Loader:          loaderFor(path),
		Format:          api.FormatCommonJS,
		Target:          api.ES2020,
		JSX:             api.JSXAutomatic,
		JSXImportSource: "react",
		Sourcefile:      path,
		LogLevel:        api.LogLevelSilent,
	})
	if len(transformed.Errors) > 0 {
		return fmt.Errorf("transpile failed: %s", transformed.Errors[0].Text)
	}

	if _, err := goja.Compile(path, string(transformed.Code), false); err != nil {
		return fmt.Errorf("parse failed: %w", err)
	}
	return nil
}

// looksLikeProse detects responses that open with conversation instead of
// code. Markdown fences are stripped before validation, so a leading sentence
// here means the cleaning step failed to find any code at all.
func looksLikeProse(source string) bool {
	firstLine := source
	if idx := strings.IndexByte(source, '\n'); idx >= 0 {
		firstLine = source[:idx]
	}
	firstLine = strings.TrimSpace(firstLine)

	prefixes := []string{
		"Here is", "Here's", "Sure", "I ", "I'", "The ", "This ",
		"Certainly", "Of course", "Below is", "Sorry",
	}
	for _, p := range prefixes {
		if strings.HasPrefix(firstLine, p) {
			return true
		}
	}
	return false
}

func loaderFor(path string) api.Loader {
	switch {
	case strings.HasSuffix(path, ".tsx"):
		return api.LoaderTSX
	case strings.HasSuffix(path, ".ts"):
		return api.LoaderTS
	case strings.HasSuffix(path, ".jsx"):
		return api.LoaderJSX
	default:
		return api.LoaderJS
	}
}
