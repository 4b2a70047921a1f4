// Package shell composes the launch options, the window host and the host
// functions, and owns the two allow-list gates between them.
package shell

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/sag-enhanced/webshell/src/bindings"
	"github.com/sag-enhanced/webshell/src/options"
	"github.com/sag-enhanced/webshell/src/origin"
	"github.com/sag-enhanced/webshell/src/server"
	"github.com/sag-enhanced/webshell/src/ui"
)

// ErrAccessDenied is returned to the page when a host function is called from
// a host outside the API allow-list.
var ErrAccessDenied = errors.New("access denied")

type Shell struct {
	options    *options.Options
	navigation *origin.Matcher
	api        *origin.Matcher
	logger     *slog.Logger

	startURL string

	ui       ui.UII
	bindings *bindings.Bindings

	// replaced in tests
	newUI func(*options.Options, ui.Hooks, string, *slog.Logger) ui.UII
}

func New(opt *options.Options, logger *slog.Logger) *Shell {
	return &Shell{
		options:    opt,
		navigation: origin.NewMatcher(opt.NavigationDomains),
		api:        origin.NewMatcher(opt.APIDomains),
		logger:     logger,
		newUI:      ui.NewUI,
	}
}

// Run serves the start page, opens the window and blocks until it closes.
func (s *Shell) Run() error {
	if !s.navigation.Restricted() {
		s.logger.Warn("no navigation allow-list configured, every host may be loaded")
	}
	if !s.api.Restricted() {
		s.logger.Warn("no API allow-list configured, every host may call host functions")
	}

	start, err := server.Start(s.logger)
	if err != nil {
		return err
	}
	defer start.Close()

	s.attach(start.URL())
	return s.ui.Run(s.InitialURL())
}

// attach builds the window host and the host functions around the given start
// page.
func (s *Shell) attach(startURL string) {
	s.startURL = startURL
	s.ui = s.newUI(s.options, ui.Hooks{
		BeforeNavigate: s.AllowNavigation,
		Call:           s.Call,
	}, startURL, s.logger)
	s.bindings = bindings.NewBindings(s.options, s.ui, s.logger)
}

// InitialURL is the target URL if it is well formed and passes the
// navigation gate, and the start page otherwise.
func (s *Shell) InitialURL() string {
	if s.options.TargetURL == "" {
		return s.startURL
	}
	target, err := options.ParseTarget(s.options.TargetURL)
	if err != nil {
		s.logger.Warn("malformed target URL, loading start page", "url", s.options.TargetURL, "error", err)
		return s.startURL
	}
	if !s.AllowNavigation(target.String()) {
		return s.startURL
	}
	return target.String()
}

// AllowNavigation is the navigation gate. The start page is always allowed.
func (s *Shell) AllowNavigation(target string) bool {
	if s.startURL != "" && sameOrigin(target, s.startURL) {
		return true
	}
	host := origin.Host(target)
	if s.navigation.Allowed(host) {
		return true
	}
	s.logger.Warn("navigation blocked", "url", target, "host", host)
	return false
}

// Call is the privileged-call gate. It runs synchronously on the host's event
// thread; allowed calls are handed to the bindings which answer
// asynchronously.
func (s *Shell) Call(currentURL string, method string, callId int, params string) error {
	host := origin.Host(currentURL)
	if !s.api.Allowed(host) {
		s.logger.Warn("host function call blocked", "method", method, "url", currentURL, "host", host)
		return fmt.Errorf("%w: %s() is not allowed to be called from %q", ErrAccessDenied, method, host)
	}
	return s.bindings.BindHandler(method, callId, params)
}

func sameOrigin(a, b string) bool {
	ua, err := url.Parse(a)
	if err != nil {
		return false
	}
	ub, err := url.Parse(b)
	if err != nil {
		return false
	}
	return ua.Scheme == ub.Scheme && ua.Host != "" && ua.Host == ub.Host
}
