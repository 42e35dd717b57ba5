// Package clip copies review text to, and reads source text from, the system
// clipboard.
package clip

import (
	"github.com/atotto/clipboard"
	"github.com/rs/zerolog"
)

// Replaced in tests.
var (
	writeAll = clipboard.WriteAll
	readAll  = clipboard.ReadAll
)

// Copier writes text to the clipboard. Failures are logged and otherwise
// ignored: copying is fire-and-forget for the user.
type Copier struct {
	logger zerolog.Logger
}

// New creates a Copier that logs failures to logger.
func New(logger zerolog.Logger) *Copier {
	return &Copier{logger: logger.With().Str("component", "clipboard").Logger()}
}

// Copy writes text verbatim to the clipboard and reports whether it succeeded.
func (c *Copier) Copy(text string) bool {
	if err := writeAll(text); err != nil {
		c.logger.Warn().Err(err).Msg("copy to clipboard failed")
		return false
	}
	c.logger.Debug().Int("bytes", len(text)).Msg("copied to clipboard")
	return true
}

// Paste returns the clipboard contents. Failures are logged and reported as
// false.
func (c *Copier) Paste() (string, bool) {
	text, err := readAll()
	if err != nil {
		c.logger.Warn().Err(err).Msg("read clipboard failed")
		return "", false
	}
	return text, true
}
