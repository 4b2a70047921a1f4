package ui

import (
	"errors"
	"log/slog"

	"github.com/sag-enhanced/webshell/src/options"
)

// ErrHostInit is returned by Run when the window host could not be created.
var ErrHostInit = errors.New("window host failed to initialize")

// ErrDocumentBlocked rejects host function calls while the main frame shows a
// document the navigation gate refused.
var ErrDocumentBlocked = errors.New("the current document was blocked")

type UII interface {
	// Run opens the window on url and blocks until it is closed.
	Run(url string) error
	Navigate(url string)
	Eval(code string)
	// CurrentURL is the URL of the document shown in the main frame.
	CurrentURL() string
	Quit()
}

// Hooks are the decision points a backend consults. Both are called
// synchronously before the gated action happens.
type Hooks struct {
	// BeforeNavigate reports whether the main frame may load target.
	BeforeNavigate func(target string) bool
	// Call receives a host function call made by the page at currentURL. A
	// non-nil error rejects the call on the page.
	Call func(currentURL string, method string, callId int, params string) error
}

func NewUI(opt *options.Options, hooks Hooks, startURL string, logger *slog.Logger) UII {
	if opt.UI == options.PlaywrightUI {
		return createPlaywrightUII(opt, hooks, startURL, logger)
	}
	return createWebviewUII(opt, hooks, startURL, logger)
}

// callResult is what the __shell binding hands back to the page bridge.
// Results of accepted calls arrive later through Eval.
func callResult(err error) map[string]string {
	if err != nil {
		return map[string]string{"error": err.Error()}
	}
	return nil
}
