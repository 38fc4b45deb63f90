package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"sigs.k8s.io/yaml"
)

const (
	// ContentModeHTML matches the marker against the raw page markup.
	ContentModeHTML = "html"

	// ContentModeText matches the marker against the visible page text only.
	ContentModeText = "text"
)

// Config contains the monitor configuration that can be provided via config
// file. Values that are not set in the file keep their defaults.
type Config struct {
	Target   TargetConfig   `json:"target" toml:"target"`
	Browser  BrowserConfig  `json:"browser" toml:"browser"`
	Telegram TelegramConfig `json:"telegram" toml:"telegram"`
}

// TargetConfig describes the monitored web application and how to get from
// the login page to the page that is checked for the marker.
type TargetConfig struct {
	// URL is the page that is opened first. It must show the login form.
	URL string `json:"url" toml:"url"`

	// LoginEmail is the login name. If not specified, the value will be read
	// from the MONITOR_LOGIN_EMAIL environment variable.
	LoginEmail string `json:"loginEmail" toml:"login_email"`

	// LoginPassword is the login password. If not specified, the value will be
	// read from the MONITOR_LOGIN_PASSWORD environment variable.
	LoginPassword string `json:"loginPassword" toml:"login_password"`

	EmailSelector       string `json:"emailSelector" toml:"email_selector"`
	PasswordSelector    string `json:"passwordSelector" toml:"password_selector"`
	LoginButtonSelector string `json:"loginButtonSelector" toml:"login_button_selector"`

	// DashboardSelector must become visible after a successful login.
	DashboardSelector string `json:"dashboardSelector" toml:"dashboard_selector"`

	// ActionReadySelector must become visible before the action button is
	// clicked.
	ActionReadySelector  string `json:"actionReadySelector" toml:"action_ready_selector"`
	ActionButtonSelector string `json:"actionButtonSelector" toml:"action_button_selector"`

	// SettleDelay is the time to wait after clicking the action button
	// before the page content is read.
	SettleDelay Duration `json:"settleDelay" toml:"settle_delay"`

	// Marker is the text whose presence triggers a notification. Matching is
	// case insensitive.
	Marker string `json:"marker" toml:"marker"`

	// ContentMode is one of "html" or "text".
	ContentMode string `json:"contentMode" toml:"content_mode"`

	// MessageTitle is the first line of the notification message.
	MessageTitle string `json:"messageTitle" toml:"message_title"`

	// TimestampLayout is the time.Format layout used in the notification
	// message.
	TimestampLayout string `json:"timestampLayout" toml:"timestamp_layout"`
}

// BrowserConfig configures the headless browser.
type BrowserConfig struct {
	Headless          bool     `json:"headless" toml:"headless"`
	ViewportWidth     int      `json:"viewportWidth" toml:"viewport_width"`
	ViewportHeight    int      `json:"viewportHeight" toml:"viewport_height"`
	NavigationTimeout Duration `json:"navigationTimeout" toml:"navigation_timeout"`
	Args              []string `json:"args" toml:"args"`
}

// TelegramConfig configures notification delivery via the Telegram Bot API.
type TelegramConfig struct {
	// APIBaseURL is the canonical, hostname based API endpoint.
	APIBaseURL string `json:"apiBaseURL" toml:"api_base_url"`

	// BotToken is the bot API token. If not specified, the value will be read
	// from the TELEGRAM_BOT_TOKEN environment variable.
	BotToken string `json:"botToken" toml:"bot_token"`

	// ChatID is the target chat. If not specified, the value will be read
	// from the TELEGRAM_CHAT_ID environment variable.
	ChatID string `json:"chatID" toml:"chat_id"`

	ParseMode string `json:"parseMode" toml:"parse_mode"`

	// FallbackAddresses are raw IPv4 addresses of the API that are tried after
	// the hostname based endpoint, in order.
	FallbackAddresses []string `json:"fallbackAddresses" toml:"fallback_addresses"`

	RequestTimeout Duration `json:"requestTimeout" toml:"request_timeout"`

	// MaxAttempts is the number of outer delivery attempts. Insecure retries
	// after certificate errors are not counted.
	MaxAttempts int `json:"maxAttempts" toml:"max_attempts"`

	// BackoffBase is multiplied with the number of failed attempts to get
	// the delay before the next attempt.
	BackoffBase Duration `json:"backoffBase" toml:"backoff_base"`
}

// NewDefaultConfig creates a new default config.
func NewDefaultConfig() Config {
	return Config{
		Target: TargetConfig{
			LoginEmail:          os.Getenv("MONITOR_LOGIN_EMAIL"),
			LoginPassword:       os.Getenv("MONITOR_LOGIN_PASSWORD"),
			EmailSelector:       `[name="email"]`,
			PasswordSelector:    `[name="password"]`,
			LoginButtonSelector: "#login-form button",
			DashboardSelector:   "#dashboard-page",
			ActionReadySelector: "#dataTableServices",
			SettleDelay:         Duration(3 * time.Second),
			ContentMode:         ContentModeHTML,
			MessageTitle:        "Page Status Update",
			TimestampLayout:     "Jan 2, 2006, 3:04:05 PM",
		},
		Browser: BrowserConfig{
			Headless:          true,
			ViewportWidth:     1920,
			ViewportHeight:    1080,
			NavigationTimeout: Duration(15 * time.Second),
			Args:              []string{"--no-sandbox", "--disable-dev-shm-usage"},
		},
		Telegram: TelegramConfig{
			APIBaseURL:        "https://api.telegram.org",
			BotToken:          os.Getenv("TELEGRAM_BOT_TOKEN"),
			ChatID:            os.Getenv("TELEGRAM_CHAT_ID"),
			ParseMode:         "HTML",
			FallbackAddresses: []string{"149.154.167.220", "149.154.167.221"},
			RequestTimeout:    Duration(15 * time.Second),
			MaxAttempts:       3,
			BackoffBase:       Duration(2 * time.Second),
		},
	}
}

// ReadConfig reads the configuration from given file. Files ending in .toml
// are decoded as TOML, everything else as YAML (which includes JSON).
func ReadConfig(filename string) (*Config, error) {
	buf, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var config Config

	if strings.EqualFold(filepath.Ext(filename), ".toml") {
		err = toml.Unmarshal(buf, &config)
	} else {
		err = yaml.Unmarshal(buf, &config)
	}

	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode %s", filename)
	}

	return &config, nil
}
