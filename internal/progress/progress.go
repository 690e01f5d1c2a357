// Package progress renders per-asset progress on stderr.
package progress

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

// NewBar returns a progress bar over total items. The bar stays invisible
// when quiet is set or stderr is not a terminal, so piped and logged runs
// remain clean.
func NewBar(total int, description string, quiet bool) *progressbar.ProgressBar {
	visible := !quiet && isatty.IsTerminal(os.Stderr.Fd())
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetVisibility(visible),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionShowCount(),
	)
}
