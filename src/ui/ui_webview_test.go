package ui

import (
	"io"
	"log/slog"
	"reflect"
	"testing"

	webview_go "github.com/webview/webview_go"
)

// fakeWebview runs dispatched functions inline and records what the backend
// asks the window to do.
type fakeWebview struct {
	webview_go.WebView

	navigated  []string
	terminated bool
}

func (f *fakeWebview) Dispatch(fn func()) { fn() }

func (f *fakeWebview) Navigate(url string) { f.navigated = append(f.navigated, url) }

func (f *fakeWebview) Eval(js string) {}

func (f *fakeWebview) Terminate() { f.terminated = true }

func newTestWebview(t *testing.T) (*WebviewUII, *fakeWebview, *gateRecorder) {
	t.Helper()
	rec := &gateRecorder{}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	wui := createWebviewUII(testOptions(t), rec.hooks(), testStartURL, log)
	fake := &fakeWebview{}
	wui.webview = fake
	wui.location.begin("https://app.example.com/")
	return wui, fake, rec
}

func TestWebviewWrongSecretQuits(t *testing.T) {
	wui, fake, rec := newTestWebview(t)
	wui.setUrl("https://app.example.com/next", "not-the-secret")

	if !fake.terminated {
		t.Error("window not terminated after a report with the wrong secret")
	}
	if len(rec.navigations) != 0 {
		t.Errorf("gate consulted for an unauthenticated report: %q", rec.navigations)
	}
	if got := wui.CurrentURL(); got != "https://app.example.com/" {
		t.Errorf("CurrentURL() = %q, unauthenticated report must not change it", got)
	}
}

func TestWebviewTracksAllowedDocuments(t *testing.T) {
	wui, fake, rec := newTestWebview(t)
	wui.setUrl("https://app.example.com/next", wui.options.CurrentUrlSecret)

	if got := wui.CurrentURL(); got != "https://app.example.com/next" {
		t.Errorf("CurrentURL() = %q", got)
	}
	if len(fake.navigated) != 0 {
		t.Errorf("allowed document sent away: %q", fake.navigated)
	}
	if msg := callError(t, mustCall(t, wui)); msg != "" {
		t.Errorf("call rejected: %s", msg)
	}
	if !reflect.DeepEqual(rec.callers, []string{"https://app.example.com/next"}) {
		t.Errorf("calls judged by %q", rec.callers)
	}
}

func TestWebviewDeniedDocumentReturns(t *testing.T) {
	wui, fake, rec := newTestWebview(t)
	secret := wui.options.CurrentUrlSecret
	wui.setUrl("https://app.example.com/next", secret)
	wui.setUrl("https://evil.test/", secret)

	if got := wui.CurrentURL(); got != "https://app.example.com/next" {
		t.Errorf("CurrentURL() = %q, refused document must not replace it", got)
	}
	if !reflect.DeepEqual(fake.navigated, []string{"https://app.example.com/next"}) {
		t.Errorf("navigated = %q, want the last allowed page", fake.navigated)
	}

	// the refused document can still reach the raw binding until it is gone
	if msg := callError(t, mustCall(t, wui)); msg != ErrDocumentBlocked.Error() {
		t.Errorf("call from refused document: error = %q", msg)
	}
	if len(rec.callers) != 0 {
		t.Errorf("call from refused document reached the gate: %q", rec.callers)
	}

	wui.setUrl("https://app.example.com/next", secret)
	if msg := callError(t, mustCall(t, wui)); msg != "" {
		t.Errorf("call rejected after returning: %s", msg)
	}
}

func TestWebviewRedirectingReturnPage(t *testing.T) {
	wui, fake, _ := newTestWebview(t)
	secret := wui.options.CurrentUrlSecret
	wui.setUrl("https://evil.test/", secret)
	wui.setUrl("https://evil.test/", secret)

	want := []string{"https://app.example.com/", testStartURL}
	if !reflect.DeepEqual(fake.navigated, want) {
		t.Errorf("navigated = %q, want %q", fake.navigated, want)
	}
}

func TestWebviewQuit(t *testing.T) {
	wui, fake, _ := newTestWebview(t)
	wui.Quit()
	if !fake.terminated {
		t.Error("Quit did not terminate the window")
	}
}

func mustCall(t *testing.T, wui *WebviewUII) any {
	t.Helper()
	result, err := wui.call("greet", 0, `["test"]`)
	if err != nil {
		t.Fatal(err)
	}
	return result
}
