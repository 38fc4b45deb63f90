package config

import (
	"net/netip"
	"net/url"

	"dario.cat/mergo"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const (
	// DriverPlaywright drives a headless Chromium via playwright.
	DriverPlaywright = "playwright"

	// NotifierTelegram delivers notifications via the Telegram Bot API.
	NotifierTelegram = "telegram"

	// NotifierNull only logs notifications. This is intended for dry runs
	// and testing purposes.
	NotifierNull = "null"
)

// Options holds everything a monitoring run needs. Options must not be
// modified after Load returned.
type Options struct {
	ConfigFile     string
	DriverName     string
	NotifierName   string
	LockFile       string
	PushgatewayURL string

	Config Config
}

// NewDefaultOptions creates a new *Options with defaults.
func NewDefaultOptions() *Options {
	return &Options{
		DriverName:   DriverPlaywright,
		NotifierName: NotifierTelegram,
		LockFile:     "/tmp/page-monitor-bot.lock",
		Config:       NewDefaultConfig(),
	}
}

// AddFlags adds flags for options to cmd.
func (o *Options) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.ConfigFile, "config", o.ConfigFile, "Path to a YAML or TOML config file.")
	cmd.Flags().StringVar(&o.DriverName, "driver", o.DriverName, "Page driver to use. Currently only "+DriverPlaywright+" is supported.")
	cmd.Flags().StringVar(&o.NotifierName, "notifier", o.NotifierName, "Notifier to use. Can be one of "+NotifierTelegram+" or "+NotifierNull+".")
	cmd.Flags().StringVar(&o.LockFile, "lock-file", o.LockFile, "Lock file that prevents overlapping runs. Empty disables locking.")
	cmd.Flags().StringVar(&o.PushgatewayURL, "pushgateway-url", o.PushgatewayURL, "If set, run metrics are pushed to this Prometheus Pushgateway.")
	cmd.Flags().StringVar(&o.Config.Target.URL, "url", o.Config.Target.URL, "URL of the login page. Overrides the config file.")
	cmd.Flags().StringVar(&o.Config.Target.Marker, "marker", o.Config.Target.Marker, "Marker text to look for. Overrides the config file.")
	cmd.Flags().BoolVar(&o.Config.Browser.Headless, "headless", o.Config.Browser.Headless, "Run the browser without a window. Overrides the config file.")
}

// Load reads the config file (if any) and merges it into the defaults.
// Flags that were explicitly set on cmd take precedence over file values.
func (o *Options) Load(cmd *cobra.Command) error {
	if o.ConfigFile == "" {
		return nil
	}

	fileConfig, err := ReadConfig(o.ConfigFile)
	if err != nil {
		return errors.Wrapf(err, "failed to load config from file")
	}

	flagTarget := o.Config.Target
	flagHeadless := o.Config.Browser.Headless

	err = mergo.Merge(&o.Config, fileConfig, mergo.WithOverride)
	if err != nil {
		return errors.Wrapf(err, "failed to merge configs")
	}

	if cmd == nil {
		return nil
	}

	flags := cmd.Flags()

	if flags.Changed("url") {
		o.Config.Target.URL = flagTarget.URL
	}

	if flags.Changed("marker") {
		o.Config.Target.Marker = flagTarget.Marker
	}

	if flags.Changed("headless") {
		o.Config.Browser.Headless = flagHeadless
	}

	return nil
}

// Validate validates options and returns an error if invalid options are
// detected.
func (o *Options) Validate() error {
	if o.DriverName != DriverPlaywright {
		return errors.Errorf("unsupported driver %q", o.DriverName)
	}

	if o.NotifierName != NotifierTelegram && o.NotifierName != NotifierNull {
		return errors.Errorf("unsupported notifier %q", o.NotifierName)
	}

	if err := o.Config.Target.validate(); err != nil {
		return err
	}

	if o.Config.Browser.NavigationTimeout <= 0 {
		return errors.New("browser navigation timeout must be positive")
	}

	if o.NotifierName == NotifierTelegram {
		return o.Config.Telegram.validate()
	}

	return nil
}

func (c *TargetConfig) validate() error {
	if c.URL == "" {
		return errors.New("target url must not be empty")
	}

	if _, err := url.ParseRequestURI(c.URL); err != nil {
		return errors.Wrapf(err, "invalid target url")
	}

	if c.Marker == "" {
		return errors.New("marker text must not be empty")
	}

	if c.LoginButtonSelector == "" || c.ActionButtonSelector == "" {
		return errors.New("login and action button selectors must not be empty")
	}

	if c.ContentMode != ContentModeHTML && c.ContentMode != ContentModeText {
		return errors.Errorf("content mode must be one of %q or %q, got %q", ContentModeHTML, ContentModeText, c.ContentMode)
	}

	return nil
}

func (c *TelegramConfig) validate() error {
	if c.BotToken == "" || c.ChatID == "" {
		return errors.New("telegram bot token and chat id must not be empty")
	}

	u, err := url.Parse(c.APIBaseURL)
	if err != nil {
		return errors.Wrapf(err, "invalid telegram api base url")
	}

	if u.Scheme != "https" && u.Scheme != "http" {
		return errors.Errorf("telegram api base url must be http(s), got %q", c.APIBaseURL)
	}

	for _, addr := range c.FallbackAddresses {
		ip, err := netip.ParseAddr(addr)
		if err != nil {
			return errors.Errorf("fallback address %q is not an IP address", addr)
		}

		// Requests are dialed over IPv4 only.
		if !ip.Is4() && !ip.Is4In6() {
			return errors.Errorf("fallback address %q is not an IPv4 address", addr)
		}
	}

	if c.MaxAttempts < 1 {
		return errors.Errorf("max attempts must be at least 1, got %d", c.MaxAttempts)
	}

	if c.RequestTimeout <= 0 {
		return errors.New("telegram request timeout must be positive")
	}

	if c.BackoffBase < 0 {
		return errors.New("telegram backoff base must not be negative")
	}

	return nil
}
