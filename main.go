package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/sag-enhanced/webshell/src/isadmin"
	"github.com/sag-enhanced/webshell/src/options"
	"github.com/sag-enhanced/webshell/src/shell"
	"github.com/sag-enhanced/webshell/src/ui"
	"github.com/spf13/pflag"
	"github.com/sqweek/dialog"
)

func main() {
	opt, err := options.Parse(os.Args[1:])
	if err != nil {
		switch {
		case errors.Is(err, pflag.ErrHelp):
			printHelp()
			return
		case errors.Is(err, options.ErrVersion):
			fmt.Printf("webshell %s (b%d)\n", options.Version, options.BuildNumber)
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n\n", err)
		printHelp()
		os.Exit(2)
	}

	level := slog.LevelInfo
	if opt.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if isadmin.IsAdmin() {
		logger.Warn("running with administrator privileges, host functions run elevated too")
	}
	logger.Debug("starting", "ui", opt.UI, "url", opt.TargetURL, "config", opt.ConfigFile)

	if err := shell.New(opt, logger).Run(); err != nil {
		logger.Error("window host failed", "error", err)
		message := err.Error()
		if errors.Is(err, ui.ErrHostInit) && runtime.GOOS == "windows" && opt.UI == options.WebviewUI {
			message += "\n\nWindows 10 users need to install the WebView2 runtime:\nhttps://developer.microsoft.com/en-us/microsoft-edge/webview2/"
		}
		dialog.Message("%s", message).Title(opt.Title).Error()
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Fprintf(os.Stderr, `webshell - open a URL in a desktop webview window.

Usage:
  webshell [flags]

Examples:
  # Open a site, only allowing navigation within it
  webshell --url https://app.example.com --allowed-domains example.com

  # Only pages on example.com may call host functions
  webshell -u https://app.example.com --api-domains example.com

Flags:
%s`, options.NewFlagSet().FlagUsages())
}
