package options

import "fmt"

type UI = string

const (
	PlaywrightUI UI = "playwright"
	WebviewUI    UI = "webview"
)

func GetPreferredUI() UI {
	if isWebviewAvailable() {
		return WebviewUI
	}
	return PlaywrightUI
}

func parseUI(name string) (UI, error) {
	switch name {
	case WebviewUI, PlaywrightUI:
		return name, nil
	}
	return "", fmt.Errorf("unknown ui %q (expected %q or %q)", name, WebviewUI, PlaywrightUI)
}
