package compiler

import (
	"fmt"
	"log/slog"

	"github.com/reoring/jsmodel/source"
)

// Options controls compilation. The zero value is usable: documents are loaded
// from the OS filesystem or over HTTP and nothing is logged.
type Options struct {
	// Logger receives warnings (non-boolean additionalProperties, deprecated
	// classes and properties) and debug records. Nil discards.
	Logger *slog.Logger
	// Fetcher retrieves documents for remote $ref prefixes. Defaults to a
	// source.Loader built from Loader.
	Fetcher source.Fetcher
	// Loader configures the default loader used for the root document.
	Loader source.Options
	// Strict turns compile-time warnings into errors.
	Strict bool
}

// Diag carries non-fatal warnings produced during compilation.
type Diag interface {
	HasWarnings() bool
	Warnings() []string
}

type simpleDiag struct{ ws []string }

func (d *simpleDiag) HasWarnings() bool        { return len(d.ws) > 0 }
func (d *simpleDiag) Warnings() []string       { return append([]string(nil), d.ws...) }
func (d *simpleDiag) warnf(f string, a ...any) { d.ws = append(d.ws, fmt.Sprintf(f, a...)) }
