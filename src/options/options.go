package options

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/spf13/pflag"
)

const (
	Version     = "0.3.0"
	BuildNumber = 3

	DefaultTitle  = "webshell"
	DefaultWidth  = 800
	DefaultHeight = 600
)

// ErrVersion is returned by Parse when --version was requested.
var ErrVersion = errors.New("version requested")

// Options is the launch configuration. It is resolved once by Parse and only
// read afterwards.
type Options struct {
	Build uint32

	// TargetURL is the raw --url value. Empty means the built-in start page.
	TargetURL string
	Title     string

	Width      int
	Height     int
	Fullscreen bool
	Minimized  bool
	Resizable  bool
	Frame      bool

	// nil means no restriction was configured.
	NavigationDomains []string
	APIDomains        []string

	UI          UI
	Proxy       *url.URL
	OpenCommand []string
	Debug       bool
	Verbose     bool
	ConfigFile  string

	CurrentUrlSecret string
}

func NewOptions() (*Options, error) {
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("generating url secret: %w", err)
	}

	return &Options{
		Build: BuildNumber,

		Title:     DefaultTitle,
		Width:     DefaultWidth,
		Height:    DefaultHeight,
		Resizable: true,
		Frame:     true,

		UI:          GetPreferredUI(),
		OpenCommand: GetDefaultOpenCommand(),

		CurrentUrlSecret: base64.RawURLEncoding.EncodeToString(secret),
	}, nil
}

// NewFlagSet declares the command-line surface. Parse uses it; it is exported
// so the entry point can print usage.
func NewFlagSet() *pflag.FlagSet {
	flagSet := pflag.NewFlagSet("webshell", pflag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.StringP("url", "u", "", "URL to load (e.g. https://example.com or http://localhost:3000)")
	flagSet.String("title", DefaultTitle, "window title")
	flagSet.Int("width", DefaultWidth, "initial window width in pixels")
	flagSet.Int("height", DefaultHeight, "initial window height in pixels")
	flagSet.Bool("fullscreen", false, "start fullscreen")
	flagSet.Bool("minimized", false, "start minimized")
	flagSet.Bool("no-resizable", false, "disallow resizing the window")
	flagSet.Bool("frameless", false, "hide the window frame")
	flagSet.String("allowed-domains", "", "comma separated domain suffixes the window may navigate to")
	flagSet.String("api-domains", "", "comma separated domain suffixes allowed to call host functions")
	flagSet.String("ui", "", "host backend: webview or playwright (default depends on platform)")
	flagSet.String("proxy", "", "proxy URL for all page traffic (socks5://, http://, ssh://)")
	flagSet.String("open", "", "command used to open URLs in the system browser")
	flagSet.String("config", "", "JSONC file with launch options; flags take precedence")
	flagSet.Bool("debug", false, "enable the webview developer tools")
	flagSet.BoolP("verbose", "v", false, "enable VERY verbose logging")
	flagSet.BoolP("version", "V", false, "print version and exit")
	flagSet.BoolP("help", "h", false, "show help")
	return flagSet
}

// Parse resolves Options from args (without the program name). It returns
// pflag.ErrHelp or ErrVersion when the caller should print and exit.
func Parse(args []string) (*Options, error) {
	flagSet := NewFlagSet()
	if err := flagSet.Parse(args); err != nil {
		return nil, err
	}
	if help, _ := flagSet.GetBool("help"); help {
		return nil, pflag.ErrHelp
	}
	if version, _ := flagSet.GetBool("version"); version {
		return nil, ErrVersion
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return nil, fmt.Errorf("unexpected argument: %s", rest[0])
	}

	options, err := NewOptions()
	if err != nil {
		return nil, err
	}

	if path, _ := flagSet.GetString("config"); path != "" {
		config, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		options.ConfigFile = path
		if err := config.apply(options); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	if err := applyFlags(flagSet, options); err != nil {
		return nil, err
	}

	if options.Width <= 0 {
		options.Width = DefaultWidth
	}
	if options.Height <= 0 {
		options.Height = DefaultHeight
	}
	return options, nil
}

func applyFlags(flagSet *pflag.FlagSet, options *Options) error {
	var err error
	flagSet.Visit(func(flag *pflag.Flag) {
		if err != nil {
			return
		}
		value := flag.Value.String()
		switch flag.Name {
		case "url":
			options.TargetURL = value
		case "title":
			options.Title = value
		case "width":
			options.Width, _ = flagSet.GetInt("width")
		case "height":
			options.Height, _ = flagSet.GetInt("height")
		case "fullscreen":
			options.Fullscreen, _ = flagSet.GetBool("fullscreen")
		case "minimized":
			options.Minimized, _ = flagSet.GetBool("minimized")
		case "no-resizable":
			noResizable, _ := flagSet.GetBool("no-resizable")
			options.Resizable = !noResizable
		case "frameless":
			frameless, _ := flagSet.GetBool("frameless")
			options.Frame = !frameless
		case "allowed-domains":
			options.NavigationDomains = SplitDomains(value)
		case "api-domains":
			options.APIDomains = SplitDomains(value)
		case "ui":
			options.UI, err = parseUI(value)
		case "proxy":
			options.Proxy, err = parseProxy(value)
		case "open":
			options.OpenCommand = parseOpenCommand(value)
		case "debug":
			options.Debug, _ = flagSet.GetBool("debug")
		case "verbose":
			options.Verbose, _ = flagSet.GetBool("verbose")
		}
	})
	return err
}

// SplitDomains turns a comma separated list into trimmed, non-empty entries.
// The result is never nil: an explicitly given but empty list denies
// everything.
func SplitDomains(list string) []string {
	return normalizeDomains(strings.Split(list, ","))
}

// an empty suffix would match every host, so blank entries are dropped. The
// result is never nil: a list that was given but holds nothing denies all.
func normalizeDomains(list []string) []string {
	domains := []string{}
	for _, domain := range list {
		if domain = strings.TrimSpace(domain); domain != "" {
			domains = append(domains, domain)
		}
	}
	return domains
}

// ParseTarget validates a --url value. It must carry a scheme, and http(s)
// URLs must carry a host.
func ParseTarget(raw string) (*url.URL, error) {
	target, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if target.Scheme == "" {
		return nil, fmt.Errorf("missing scheme in %q", raw)
	}
	if (target.Scheme == "http" || target.Scheme == "https") && target.Host == "" {
		return nil, fmt.Errorf("missing host in %q", raw)
	}
	return target, nil
}

func parseProxy(raw string) (*url.URL, error) {
	if raw == "" {
		return nil, nil
	}
	proxy, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid proxy: %w", err)
	}
	if proxy.Scheme == "" || proxy.Host == "" {
		return nil, fmt.Errorf("invalid proxy %q: expected scheme://host:port", raw)
	}
	return proxy, nil
}
