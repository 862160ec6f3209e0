package tui

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/browser"
	"github.com/pkg/errors"
)

// Run shows the table until the user quits or ctx is done.
func Run(ctx context.Context, opts Options) error {
	// the browser helper echoes to stdout, which would tear the alt screen
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard

	p := tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return errors.Wrap(err, "tui failed")
	}
	return nil
}
