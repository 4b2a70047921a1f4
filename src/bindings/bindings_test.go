package bindings

import (
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/sag-enhanced/webshell/src/options"
)

type fakeUI struct {
	url   string
	evals chan string
	quit  chan struct{}
}

func newFakeUI(url string) *fakeUI {
	return &fakeUI{url: url, evals: make(chan string, 8), quit: make(chan struct{}, 1)}
}

func (f *fakeUI) Run(string) error   { return nil }
func (f *fakeUI) Navigate(string)    {}
func (f *fakeUI) Eval(code string)   { f.evals <- code }
func (f *fakeUI) CurrentURL() string { return f.url }
func (f *fakeUI) Quit()              { f.quit <- struct{}{} }

func newTestBindings(t *testing.T) (*Bindings, *fakeUI) {
	t.Helper()
	opt, err := options.NewOptions()
	if err != nil {
		t.Fatal(err)
	}
	fake := newFakeUI("https://docs.example.com/page")
	return NewBindings(opt, fake, slog.New(slog.NewTextHandler(io.Discard, nil))), fake
}

func waitEval(t *testing.T, fake *fakeUI) string {
	t.Helper()
	select {
	case code := <-fake.evals:
		return code
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for result eval")
	}
	return ""
}

func TestBindHandlerResolves(t *testing.T) {
	b, fake := newTestBindings(t)

	tests := []struct {
		method string
		params string
		want   string
	}{
		{"greet", `["Ada"]`, `shelld[4].a("Hello, Ada! You've been greeted from Go!")`},
		{"url", `[]`, `shelld[4].a("https://docs.example.com/page")`},
		{"build", `[]`, `shelld[4].a(3)`},
		{"version", `[]`, `shelld[4].a("` + options.Version + `")`},
	}
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			if err := b.BindHandler(tt.method, 4, tt.params); err != nil {
				t.Fatalf("BindHandler: %v", err)
			}
			code := waitEval(t, fake)
			if !strings.HasPrefix(code, "if(shelld[4]){") || !strings.HasSuffix(code, ";delete shelld[4]}") {
				t.Errorf("eval not guarded by slot check: %s", code)
			}
			if !strings.Contains(code, tt.want) {
				t.Errorf("eval = %s, want it to contain %s", code, tt.want)
			}
		})
	}
}

func TestBindHandlerRejects(t *testing.T) {
	b, fake := newTestBindings(t)

	if err := b.BindHandler("open", 9, `["http://insecure.example.com"]`); err != nil {
		t.Fatalf("BindHandler: %v", err)
	}
	code := waitEval(t, fake)
	if !strings.Contains(code, `shelld[9].b(new Error("refusing to open url"))`) {
		t.Errorf("eval = %s", code)
	}
}

func TestBindHandlerQuit(t *testing.T) {
	b, fake := newTestBindings(t)
	if err := b.BindHandler("quit", 1, `[]`); err != nil {
		t.Fatal(err)
	}
	select {
	case <-fake.quit:
	case <-time.After(2 * time.Second):
		t.Fatal("quit not forwarded to the ui")
	}
}

func TestBindHandlerErrors(t *testing.T) {
	b, fake := newTestBindings(t)

	tests := []struct {
		name   string
		method string
		params string
	}{
		{"unknown method", "launchMissiles", `[]`},
		{"empty method", "", `[]`},
		{"handler itself", "bindHandler", `["greet", 1, "[]"]`},
		{"too few args", "greet", `[]`},
		{"too many args", "greet", `["a", "b"]`},
		{"bad json", "greet", `["a"`},
		{"wrong arg type", "greet", `[42]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := b.BindHandler(tt.method, 1, tt.params); err == nil {
				t.Errorf("BindHandler(%q, %s) succeeded", tt.method, tt.params)
			}
		})
	}

	select {
	case code := <-fake.evals:
		t.Errorf("rejected calls must not run, got eval %s", code)
	case <-time.After(50 * time.Millisecond):
	}
}
