package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/playwright-community/playwright-go"
	"github.com/sag-enhanced/webshell/src/options"
)

type PlaywrightUII struct {
	page       playwright.Page
	mainThread chan func()
	options    *options.Options
	hooks      Hooks
	startURL   string
	logger     *slog.Logger

	location *location
	closed   chan struct{}
	stopOnce sync.Once
}

func createPlaywrightUII(options *options.Options, hooks Hooks, startURL string, logger *slog.Logger) *PlaywrightUII {
	return &PlaywrightUII{
		mainThread: make(chan func()),
		options:    options,
		hooks:      hooks,
		startURL:   startURL,
		logger:     logger.With("ui", "playwright"),
		location:   newLocation(startURL),
		closed:     make(chan struct{}),
	}
}

func (pwui *PlaywrightUII) Run(url string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	defer pwui.stop()

	launch := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(false),
		Args:     pwui.launchArgs(),
		IgnoreDefaultArgs: []string{
			// disables "Chrome is being controlled by automated test software" banner
			"--enable-automation",
		},
	}
	if pwui.options.Proxy != nil {
		proxy, err := browserProxy(ctx, pwui.options.Proxy, pwui.logger)
		if err != nil {
			return err
		}
		launch.Proxy = &playwright.Proxy{Server: fmt.Sprintf("%s://%s", proxy.Scheme, proxy.Host)}
	}

	if err := playwright.Install(&playwright.RunOptions{
		Browsers: []string{"chromium"},
	}); err != nil {
		return fmt.Errorf("%w: installing chromium: %v", ErrHostInit, err)
	}

	pw, err := playwright.Run()
	if err != nil {
		return fmt.Errorf("%w: starting playwright: %v", ErrHostInit, err)
	}
	defer pw.Stop()

	browser, err := pw.Chromium.Launch(launch)
	if err != nil {
		return fmt.Errorf("%w: launching browser: %v", ErrHostInit, err)
	}
	defer browser.Close()

	pwui.page, err = browser.NewPage(playwright.BrowserNewPageOptions{
		NoViewport: playwright.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("%w: creating page: %v", ErrHostInit, err)
	}
	defer pwui.page.Close()

	if err := pwui.initBinding(); err != nil {
		return fmt.Errorf("%w: %v", ErrHostInit, err)
	}
	if err := pwui.initNavigationGate(); err != nil {
		return fmt.Errorf("%w: %v", ErrHostInit, err)
	}

	for _, script := range getScripts(pwui.options, pwui.startURL, false) {
		if err := pwui.page.AddInitScript(playwright.Script{
			Content: playwright.String(script),
		}); err != nil {
			return fmt.Errorf("%w: adding init script: %v", ErrHostInit, err)
		}
	}

	pwui.page.OnClose(func(_ playwright.Page) {
		// this will wake-up the main thread which will then realize its time to exit
		go pwui.dispatch(func() {})
	})
	pwui.page.OnFrameNavigated(pwui.frameNavigated)

	if pwui.options.Minimized {
		pwui.minimize()
	}

	pwui.location.begin(url)
	if _, err := pwui.page.Goto(url); err != nil {
		pwui.logger.Warn("initial navigation failed", "url", url, "error", err)
	}

	for !pwui.page.IsClosed() {
		fn := <-pwui.mainThread
		fn()
	}
	// Navigate, Eval and Quit called from now on return without doing anything
	pwui.stop()
	return nil
}

func (pwui *PlaywrightUII) launchArgs() []string {
	args := []string{
		"--disable-blink-features=AutomationControlled",
		fmt.Sprintf("--window-size=%d,%d", pwui.options.Width, pwui.options.Height),
	}
	if pwui.options.Fullscreen {
		args = append(args, "--start-fullscreen")
	}
	if pwui.options.Debug {
		args = append(args, "--auto-open-devtools-for-tabs")
	}
	if !pwui.options.Resizable {
		pwui.logger.Warn("fixed-size windows are not supported by the playwright backend")
	}
	if !pwui.options.Frame {
		pwui.logger.Warn("frameless windows are not supported by the playwright backend")
	}
	return args
}

func (pwui *PlaywrightUII) minimize() {
	session, err := pwui.page.Context().NewCDPSession(pwui.page)
	if err != nil {
		pwui.logger.Warn("cannot minimize window", "error", err)
		return
	}
	defer session.Detach()

	result, err := session.Send("Browser.getWindowForTarget", nil)
	if err != nil {
		pwui.logger.Warn("cannot minimize window", "error", err)
		return
	}
	window, _ := result.(map[string]interface{})
	if _, err := session.Send("Browser.setWindowBounds", map[string]interface{}{
		"windowId": window["windowId"],
		"bounds":   map[string]interface{}{"windowState": "minimized"},
	}); err != nil {
		pwui.logger.Warn("cannot minimize window", "error", err)
	}
}

// every main frame navigation passes the gate before the request is sent
func (pwui *PlaywrightUII) initNavigationGate() error {
	return pwui.page.Route("**/*", func(route playwright.Route) {
		request := route.Request()
		isMainFrame := request.Frame() == pwui.page.MainFrame()
		if !pwui.allowRequest(request.IsNavigationRequest(), isMainFrame, request.URL()) {
			if err := route.Abort("blockedbyclient"); err != nil {
				pwui.logger.Debug("abort failed", "url", request.URL(), "error", err)
			}
			return
		}
		if err := route.Continue(); err != nil {
			pwui.logger.Debug("continue failed", "url", request.URL(), "error", err)
		}
	})
}

func (pwui *PlaywrightUII) allowRequest(isNavigation, isMainFrame bool, url string) bool {
	if !isNavigation || !isMainFrame {
		return true
	}
	return pwui.hooks.BeforeNavigate(url)
}

// documents that never went through the route (about:, data:, history
// changes) are checked once they are shown
func (pwui *PlaywrightUII) frameNavigated(frame playwright.Frame) {
	if frame != pwui.page.MainFrame() {
		return
	}
	pwui.arrive(frame.URL())
}

func (pwui *PlaywrightUII) arrive(url string) {
	if back := pwui.location.arrive(url, pwui.hooks.BeforeNavigate(url)); back != "" {
		pwui.logger.Debug("returning to last allowed page", "url", back)
		// event handlers must not wait for the main thread
		go pwui.Navigate(back)
	}
}

func (pwui *PlaywrightUII) initBinding() error {
	if err := pwui.page.ExposeBinding("__shell", func(source *playwright.BindingSource, args ...any) any {
		// calls are judged by the frame that made them, not by the page
		return pwui.handleCall(source.Frame.URL(), args)
	}); err != nil {
		return err
	}
	return pwui.page.ExposeBinding("__shellDenied", func(source *playwright.BindingSource, args ...any) any {
		if len(args) == 1 {
			if target, ok := args[0].(string); ok {
				pwui.hooks.BeforeNavigate(target)
			}
		}
		return nil
	})
}

func (pwui *PlaywrightUII) handleCall(callerURL string, args []any) any {
	if len(args) != 3 {
		return callResult(errors.New("__shell() expects 3 arguments"))
	}
	method, ok := args[0].(string)
	params, ok2 := args[2].(string)
	callId, ok3 := toInt(args[1])
	if !ok || !ok2 || !ok3 {
		return callResult(errors.New("__shell() got malformed arguments"))
	}
	if _, blocked := pwui.location.state(); blocked {
		pwui.logger.Warn("host function call from blocked document", "method", method)
		return callResult(ErrDocumentBlocked)
	}
	return callResult(pwui.hooks.Call(callerURL, method, callId, params))
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}

func (pwui *PlaywrightUII) CurrentURL() string {
	return pwui.location.url()
}

// dispatch runs fn on the thread that owns the page. It returns immediately
// once the window is gone.
func (pwui *PlaywrightUII) dispatch(fn func()) {
	select {
	case pwui.mainThread <- fn:
	case <-pwui.closed:
	}
}

func (pwui *PlaywrightUII) stop() {
	pwui.stopOnce.Do(func() { close(pwui.closed) })
}

func (pwui *PlaywrightUII) Navigate(url string) {
	pwui.logger.Debug("navigate", "url", url)
	pwui.dispatch(func() {
		if _, err := pwui.page.Goto(url); err != nil {
			pwui.logger.Warn("navigation failed", "url", url, "error", err)
		}
	})
}

func (pwui *PlaywrightUII) Eval(code string) {
	pwui.logger.Debug("eval", "code", code)
	pwui.dispatch(func() {
		if _, err := pwui.page.Evaluate(code); err != nil {
			pwui.logger.Debug("eval failed", "error", err)
		}
	})
}

func (pwui *PlaywrightUII) Quit() {
	pwui.dispatch(func() {
		pwui.page.Close()
	})
}
