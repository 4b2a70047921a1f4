package ui

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"os"
	"runtime"
	"time"

	_ "github.com/wzshiming/anyproxy/proxies/socks5"
	"github.com/wzshiming/bridge/chain"
	"github.com/wzshiming/bridge/config"
	"github.com/wzshiming/bridge/logger"
	_ "github.com/wzshiming/bridge/protocols/connect"
	_ "github.com/wzshiming/bridge/protocols/socks4"
	_ "github.com/wzshiming/bridge/protocols/socks5"
	_ "github.com/wzshiming/bridge/protocols/ssh"
	_ "github.com/wzshiming/bridge/protocols/tls"
)

// browserProxy returns the proxy the browser engine should use. Chromium
// cannot take proxy credentials on the command line, so a proxy with user
// info gets a local unauthenticated socks5 bridge in front of it that lives
// until stop is done.
func browserProxy(stop context.Context, proxy *url.URL, log *slog.Logger) (*url.URL, error) {
	if proxy.User == nil && proxy.Scheme != "ssh" {
		return proxy, nil
	}
	return createProxyBridge(stop, proxy, log)
}

func createProxyBridge(stop context.Context, proxy *url.URL, log *slog.Logger) (*url.URL, error) {
	freePort, err := getFreePort()
	if err != nil {
		return nil, err
	}

	localProxy := &url.URL{
		Scheme: "socks5",
		Host:   fmt.Sprintf("127.0.0.1:%d", freePort),
	}
	log.Debug("local proxy bridge", "listen", localProxy.String(), "upstream", proxy.Redacted())

	cfg := config.Chain{
		Bind: []config.Node{
			{
				LB: []string{localProxy.String()},
			},
		},
		Proxy: []config.Node{
			{
				LB: []string{"-"},
			},
			{
				LB: []string{proxy.String()},
			},
		},
		IdleTimeout: 120 * time.Second,
	}
	b := chain.NewBridge(logger.Std, false)

	go func() {
		if err := b.BridgeWithConfig(stop, cfg); err != nil {
			log.Error("proxy bridge stopped", "error", err)
		}
	}()

	return localProxy, nil
}

// configureWebviewProxy only has an effect on WebView2, which reads extra
// Chromium arguments from the environment when the webview is created.
func configureWebviewProxy(stop context.Context, proxy *url.URL, log *slog.Logger) error {
	if runtime.GOOS != "windows" {
		log.Warn("--proxy is only supported by the webview backend on windows, ignoring")
		return nil
	}
	target, err := browserProxy(stop, proxy, log)
	if err != nil {
		return err
	}
	return os.Setenv("WEBVIEW2_ADDITIONAL_BROWSER_ARGUMENTS", proxyServerArgument(target))
}

func proxyServerArgument(proxy *url.URL) string {
	return fmt.Sprintf("--proxy-server=%s://%s", proxy.Scheme, proxy.Host)
}

func getFreePort() (int, error) {
	l, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		return 0, err
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}
