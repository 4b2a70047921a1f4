//go:build !windows

package options

// webkit2gtk and WKWebView are linked at build time, so if we are running at
// all the webview backend is usable.
func isWebviewAvailable() bool {
	return true
}
