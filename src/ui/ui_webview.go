package ui

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kbinani/screenshot"
	"github.com/sag-enhanced/webshell/src/options"
	webview_go "github.com/webview/webview_go"
)

type WebviewUII struct {
	webview  webview_go.WebView
	options  *options.Options
	hooks    Hooks
	startURL string
	logger   *slog.Logger

	location *location
}

func createWebviewUII(options *options.Options, hooks Hooks, startURL string, logger *slog.Logger) *WebviewUII {
	return &WebviewUII{
		options:  options,
		hooks:    hooks,
		startURL: startURL,
		logger:   logger.With("ui", "webview"),
		location: newLocation(startURL),
	}
}

func (wui *WebviewUII) Run(url string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if wui.options.Proxy != nil {
		if err := configureWebviewProxy(ctx, wui.options.Proxy, wui.logger); err != nil {
			return err
		}
	}

	wui.webview = webview_go.New(wui.options.Debug)
	if wui.webview == nil {
		return fmt.Errorf("%w: webview.New returned nil", ErrHostInit)
	}
	defer wui.webview.Destroy()

	wui.webview.SetTitle(wui.options.Title)
	wui.applyGeometry()

	if err := wui.initBindings(); err != nil {
		return fmt.Errorf("%w: %v", ErrHostInit, err)
	}
	for _, script := range getScripts(wui.options, wui.startURL, true) {
		wui.webview.Init(script)
	}

	wui.location.begin(url)
	wui.webview.Navigate(url)
	wui.webview.Run()
	return nil
}

func (wui *WebviewUII) applyGeometry() {
	width, height := wui.options.Width, wui.options.Height
	hint := webview_go.HintNone
	if !wui.options.Resizable {
		hint = webview_go.HintFixed
	}
	if wui.options.Fullscreen {
		// no native fullscreen in webview, cover the primary display instead
		if screenshot.NumActiveDisplays() > 0 {
			bounds := screenshot.GetDisplayBounds(0)
			width, height = bounds.Dx(), bounds.Dy()
		} else {
			wui.logger.Warn("no active display found, ignoring --fullscreen")
		}
	}
	if wui.options.Minimized {
		wui.logger.Warn("starting minimized is not supported by the webview backend")
	}
	if !wui.options.Frame {
		wui.logger.Warn("frameless windows are not supported by the webview backend")
	}
	wui.webview.SetSize(width, height, hint)
}

func (wui *WebviewUII) initBindings() error {
	if err := wui.webview.Bind("__shell", wui.call); err != nil {
		return err
	}
	if err := wui.webview.Bind("__shellLocation", wui.setUrl); err != nil {
		return err
	}
	// the guard script already cancelled the navigation, this is for the log
	return wui.webview.Bind("__shellDenied", func(target string) {
		wui.hooks.BeforeNavigate(target)
	})
}

func (wui *WebviewUII) call(method string, callId int, params string) (any, error) {
	current, blocked := wui.location.state()
	if blocked {
		wui.logger.Warn("host function call from blocked document", "method", method)
		return callResult(ErrDocumentBlocked), nil
	}
	return callResult(wui.hooks.Call(current, method, callId, params)), nil
}

// webview has no builtin way to get the current url, so the init script
// reports it together with a secret only the host and the script know
func (wui *WebviewUII) setUrl(currentUrl string, secret string) {
	// someone is doing something fishy
	if secret != wui.options.CurrentUrlSecret {
		wui.logger.Warn("url report with wrong secret, quitting", "url", currentUrl)
		wui.Quit()
		return
	}

	// a refused document keeps the previous url; calls it makes are rejected
	// until the window is back on an allowed page
	if back := wui.location.arrive(currentUrl, wui.hooks.BeforeNavigate(currentUrl)); back != "" {
		wui.logger.Debug("returning to last allowed page", "url", back)
		wui.Navigate(back)
	}
}

func (wui *WebviewUII) CurrentURL() string {
	return wui.location.url()
}

func (wui *WebviewUII) Navigate(url string) {
	wui.logger.Debug("navigate", "url", url)
	wui.webview.Dispatch(func() {
		wui.webview.Navigate(url)
	})
}

func (wui *WebviewUII) Eval(code string) {
	wui.logger.Debug("eval", "code", code)
	wui.webview.Dispatch(func() {
		wui.webview.Eval(code)
	})
}

func (wui *WebviewUII) Quit() {
	wui.webview.Dispatch(func() {
		wui.webview.Terminate()
	})
}
