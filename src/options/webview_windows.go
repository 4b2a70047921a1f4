//go:build windows

package options

import "golang.org/x/sys/windows/registry"

// WebView2 runtime client key, see
// https://learn.microsoft.com/en-us/microsoft-edge/webview2/concepts/distribution#detect-if-a-webview2-runtime-is-already-installed
const webview2Client = `Microsoft\EdgeUpdate\Clients\{F3017226-FE2A-4295-8BDF-00C3A9A7E4C5}`

var webview2Keys = []struct {
	root registry.Key
	path string
}{
	{registry.LOCAL_MACHINE, `SOFTWARE\WOW6432Node\` + webview2Client},
	{registry.LOCAL_MACHINE, `SOFTWARE\` + webview2Client},
	{registry.CURRENT_USER, `Software\` + webview2Client},
}

func isWebviewAvailable() bool {
	_, ok := webview2Version()
	return ok
}

func webview2Version() (string, bool) {
	for _, location := range webview2Keys {
		key, err := registry.OpenKey(location.root, location.path, registry.QUERY_VALUE)
		if err != nil {
			continue
		}
		version, _, err := key.GetStringValue("pv")
		key.Close()
		if err == nil && version != "" && version != "0.0.0.0" {
			return version, true
		}
	}
	return "", false
}
