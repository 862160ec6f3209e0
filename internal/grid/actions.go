package grid

import (
	"github.com/pkg/browser"
	"github.com/pkg/errors"
)

// Action per-row menu entry that opens an external site.
type Action struct {
	Label string
	URL   string
}

// Row actions in menu order.
var (
	ActionTrade = Action{Label: "Trade!", URL: "https://www.google.com"}
	ActionInfo  = Action{Label: "View more info.", URL: "https://www.coinmarketcap.com"}

	Actions = []Action{ActionTrade, ActionInfo}
)

// Opener opens url outside the application.
type Opener func(url string) error

// BrowserOpener opens url in the system browser.
func BrowserOpener(url string) error {
	return browser.OpenURL(url)
}

// Open runs the action with open, falling back to the system browser.
func (a Action) Open(open Opener) error {
	if open == nil {
		open = BrowserOpener
	}
	if err := open(a.URL); err != nil {
		return errors.Wrapf(err, "open %q", a.Label)
	}
	return nil
}
