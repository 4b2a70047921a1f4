package ui

import (
	"io"
	"log/slog"
	"reflect"
	"testing"
	"time"
)

func newTestPlaywright(t *testing.T) (*PlaywrightUII, *gateRecorder) {
	t.Helper()
	rec := &gateRecorder{}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	pwui := createPlaywrightUII(testOptions(t), rec.hooks(), testStartURL, log)
	pwui.location.begin("https://app.example.com/")
	return pwui, rec
}

func TestPlaywrightCallUsesFrameURL(t *testing.T) {
	pwui, rec := newTestPlaywright(t)
	// an iframe on an allowed page calls the binding
	result := pwui.handleCall("https://evil.test/frame", []any{"greet", float64(1), `["test"]`})
	if msg := callError(t, result); msg != "" {
		t.Errorf("call rejected by the backend: %s", msg)
	}
	if !reflect.DeepEqual(rec.callers, []string{"https://evil.test/frame"}) {
		t.Errorf("call judged by %q, want the calling frame", rec.callers)
	}
}

func TestPlaywrightCallMalformed(t *testing.T) {
	pwui, rec := newTestPlaywright(t)
	for _, args := range [][]any{
		{"greet", float64(1)},
		{"greet", "one", "[]"},
		{1, float64(1), "[]"},
	} {
		if msg := callError(t, pwui.handleCall("https://app.example.com/", args)); msg == "" {
			t.Errorf("handleCall(%#v) accepted", args)
		}
	}
	if len(rec.callers) != 0 {
		t.Errorf("malformed calls reached the gate: %q", rec.callers)
	}
}

func TestPlaywrightCallFromBlockedDocument(t *testing.T) {
	pwui, rec := newTestPlaywright(t)
	pwui.location.arrive("https://evil.test/", false)

	result := pwui.handleCall("https://app.example.com/", []any{"greet", float64(1), `["test"]`})
	if msg := callError(t, result); msg != ErrDocumentBlocked.Error() {
		t.Errorf("error = %q", msg)
	}
	if len(rec.callers) != 0 {
		t.Errorf("call reached the gate: %q", rec.callers)
	}
}

func TestPlaywrightAllowRequest(t *testing.T) {
	pwui, rec := newTestPlaywright(t)
	tests := []struct {
		navigation, mainFrame bool
		url                   string
		want                  bool
	}{
		{true, true, "https://app.example.com/next", true},
		{true, true, "https://evil.test/", false},
		// subresources and iframes are not navigations of the window
		{false, true, "https://evil.test/script.js", true},
		{true, false, "https://evil.test/frame", true},
	}
	for _, tt := range tests {
		if got := pwui.allowRequest(tt.navigation, tt.mainFrame, tt.url); got != tt.want {
			t.Errorf("allowRequest(%v, %v, %q) = %v, want %v", tt.navigation, tt.mainFrame, tt.url, got, tt.want)
		}
	}
	want := []string{"https://app.example.com/next", "https://evil.test/"}
	if !reflect.DeepEqual(rec.navigations, want) {
		t.Errorf("gate consulted for %q, want %q", rec.navigations, want)
	}
}

func TestPlaywrightDispatch(t *testing.T) {
	pwui, _ := newTestPlaywright(t)
	ran := make(chan struct{})
	go func() {
		fn := <-pwui.mainThread
		fn()
	}()
	pwui.dispatch(func() { close(ran) })
	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("dispatched function did not run")
	}
}

func TestPlaywrightDispatchAfterClose(t *testing.T) {
	pwui, _ := newTestPlaywright(t)
	pwui.stop()
	pwui.stop()

	done := make(chan struct{})
	go func() {
		pwui.Eval("1")
		pwui.Navigate("https://app.example.com/")
		pwui.Quit()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Eval, Navigate and Quit block once the window is closed")
	}
}
