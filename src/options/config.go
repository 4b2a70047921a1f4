package options

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tidwall/jsonc"
)

// Config is the on-disk form of the launch options. Absent fields keep their
// defaults. Comments and trailing commas are allowed.
type Config struct {
	URL            *string  `json:"url"`
	Title          *string  `json:"title"`
	Width          *int     `json:"width"`
	Height         *int     `json:"height"`
	Fullscreen     *bool    `json:"fullscreen"`
	Minimized      *bool    `json:"minimized"`
	Resizable      *bool    `json:"resizable"`
	Frameless      *bool    `json:"frameless"`
	AllowedDomains []string `json:"allowed_domains"`
	APIDomains     []string `json:"api_domains"`
	UI             *string  `json:"ui"`
	Proxy          *string  `json:"proxy"`
	Open           *string  `json:"open"`
	Debug          *bool    `json:"debug"`
	Verbose        *bool    `json:"verbose"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return ParseConfig(data)
}

func ParseConfig(data []byte) (*Config, error) {
	var config Config
	if err := json.Unmarshal(jsonc.ToJSON(data), &config); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &config, nil
}

func (config *Config) apply(options *Options) error {
	var err error
	if config.URL != nil {
		options.TargetURL = *config.URL
	}
	if config.Title != nil {
		options.Title = *config.Title
	}
	if config.Width != nil {
		options.Width = *config.Width
	}
	if config.Height != nil {
		options.Height = *config.Height
	}
	if config.Fullscreen != nil {
		options.Fullscreen = *config.Fullscreen
	}
	if config.Minimized != nil {
		options.Minimized = *config.Minimized
	}
	if config.Resizable != nil {
		options.Resizable = *config.Resizable
	}
	if config.Frameless != nil {
		options.Frame = !*config.Frameless
	}
	if config.AllowedDomains != nil {
		options.NavigationDomains = normalizeDomains(config.AllowedDomains)
	}
	if config.APIDomains != nil {
		options.APIDomains = normalizeDomains(config.APIDomains)
	}
	if config.UI != nil {
		if options.UI, err = parseUI(*config.UI); err != nil {
			return err
		}
	}
	if config.Proxy != nil {
		if options.Proxy, err = parseProxy(*config.Proxy); err != nil {
			return err
		}
	}
	if config.Open != nil {
		options.OpenCommand = parseOpenCommand(*config.Open)
	}
	if config.Debug != nil {
		options.Debug = *config.Debug
	}
	if config.Verbose != nil {
		options.Verbose = *config.Verbose
	}
	return nil
}
