package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validOptions() *Options {
	o := NewDefaultOptions()
	o.Config.Target.URL = "https://example.com/"
	o.Config.Target.Marker = "Passport"
	o.Config.Target.ActionButtonSelector = "td > a > button"
	o.Config.Telegram.BotToken = "token"
	o.Config.Telegram.ChatID = "42"

	return o
}

func TestOptions_Validate(t *testing.T) {
	tests := []struct {
		name     string
		modify   func(*Options)
		expected string
	}{
		{
			name: "valid options",
		},
		{
			name:     "unsupported driver",
			modify:   func(o *Options) { o.DriverName = "selenium" },
			expected: `unsupported driver "selenium"`,
		},
		{
			name:     "unsupported notifier",
			modify:   func(o *Options) { o.NotifierName = "slack" },
			expected: `unsupported notifier "slack"`,
		},
		{
			name:     "empty marker",
			modify:   func(o *Options) { o.Config.Target.Marker = "" },
			expected: "marker text must not be empty",
		},
		{
			name:     "empty url",
			modify:   func(o *Options) { o.Config.Target.URL = "" },
			expected: "target url must not be empty",
		},
		{
			name:     "invalid content mode",
			modify:   func(o *Options) { o.Config.Target.ContentMode = "pdf" },
			expected: `content mode must be one of "html" or "text", got "pdf"`,
		},
		{
			name:     "missing telegram credentials",
			modify:   func(o *Options) { o.Config.Telegram.BotToken = "" },
			expected: "telegram bot token and chat id must not be empty",
		},
		{
			name: "missing telegram credentials are fine for null notifier",
			modify: func(o *Options) {
				o.NotifierName = NotifierNull
				o.Config.Telegram.BotToken = ""
			},
		},
		{
			name:     "fallback address is not an ip",
			modify:   func(o *Options) { o.Config.Telegram.FallbackAddresses = []string{"149.154.167.220", "api.example.com"} },
			expected: `fallback address "api.example.com" is not an IP address`,
		},
		{
			name:     "fallback address is ipv6",
			modify:   func(o *Options) { o.Config.Telegram.FallbackAddresses = []string{"149.154.167.220", "2001:67c:4e8:f004::9"} },
			expected: `fallback address "2001:67c:4e8:f004::9" is not an IPv4 address`,
		},
		{
			name:   "ipv4-mapped fallback address",
			modify: func(o *Options) { o.Config.Telegram.FallbackAddresses = []string{"::ffff:149.154.167.220"} },
		},
		{
			name:     "zero attempts",
			modify:   func(o *Options) { o.Config.Telegram.MaxAttempts = 0 },
			expected: "max attempts must be at least 1, got 0",
		},
		{
			name:     "zero request timeout",
			modify:   func(o *Options) { o.Config.Telegram.RequestTimeout = 0 },
			expected: "telegram request timeout must be positive",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			o := validOptions()
			if test.modify != nil {
				test.modify(o)
			}

			err := o.Validate()
			if test.expected != "" {
				require.Error(t, err)
				assert.Equal(t, test.expected, err.Error())
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func writeFile(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestOptions_Load(t *testing.T) {
	yamlConfig := `
target:
  url: https://file.example.com/
  marker: Appointment
  settleDelay: 5s
telegram:
  chatID: "1234"
  maxAttempts: 5
  fallbackAddresses:
    - 10.0.0.1
`

	tomlConfig := `
[target]
url = "https://file.example.com/"
marker = "Appointment"
settle_delay = "5s"

[telegram]
chat_id = "1234"
max_attempts = 5
fallback_addresses = ["10.0.0.1"]
`

	tests := []struct {
		name     string
		filename string
		content  string
		args     []string
		validate func(*testing.T, *Options)
	}{
		{
			name:     "yaml file overrides defaults",
			filename: "config.yaml",
			content:  yamlConfig,
			validate: func(t *testing.T, o *Options) {
				assert.Equal(t, "https://file.example.com/", o.Config.Target.URL)
				assert.Equal(t, "Appointment", o.Config.Target.Marker)
				assert.Equal(t, 5*time.Second, o.Config.Target.SettleDelay.Std())
				assert.Equal(t, "1234", o.Config.Telegram.ChatID)
				assert.Equal(t, 5, o.Config.Telegram.MaxAttempts)
				assert.Equal(t, []string{"10.0.0.1"}, o.Config.Telegram.FallbackAddresses)
				assert.Equal(t, "#dashboard-page", o.Config.Target.DashboardSelector)
				assert.Equal(t, 2*time.Second, o.Config.Telegram.BackoffBase.Std())
			},
		},
		{
			name:     "toml file overrides defaults",
			filename: "config.toml",
			content:  tomlConfig,
			validate: func(t *testing.T, o *Options) {
				assert.Equal(t, "https://file.example.com/", o.Config.Target.URL)
				assert.Equal(t, "Appointment", o.Config.Target.Marker)
				assert.Equal(t, 5*time.Second, o.Config.Target.SettleDelay.Std())
				assert.Equal(t, 5, o.Config.Telegram.MaxAttempts)
				assert.Equal(t, []string{"10.0.0.1"}, o.Config.Telegram.FallbackAddresses)
				assert.Equal(t, "HTML", o.Config.Telegram.ParseMode)
			},
		},
		{
			name:     "explicit flags override file values",
			filename: "config.yaml",
			content:  yamlConfig,
			args:     []string{"--marker", "Passport", "--headless=false"},
			validate: func(t *testing.T, o *Options) {
				assert.Equal(t, "Passport", o.Config.Target.Marker)
				assert.Equal(t, "https://file.example.com/", o.Config.Target.URL)
				assert.False(t, o.Config.Browser.Headless)
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			o := NewDefaultOptions()
			cmd := &cobra.Command{}
			o.AddFlags(cmd)

			args := append([]string{"--config", writeFile(t, test.filename, test.content)}, test.args...)
			require.NoError(t, cmd.ParseFlags(args))

			require.NoError(t, o.Load(cmd))

			test.validate(t, o)
		})
	}
}

func TestOptions_Load_InvalidFile(t *testing.T) {
	o := NewDefaultOptions()
	o.ConfigFile = writeFile(t, "config.yaml", "target: [")

	err := o.Load(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config from file")
}

func TestOptions_Load_MissingFile(t *testing.T) {
	o := NewDefaultOptions()
	o.ConfigFile = filepath.Join(t.TempDir(), "missing.yaml")

	require.Error(t, o.Load(nil))
}

func TestDuration_UnmarshalJSON(t *testing.T) {
	var d Duration

	require.NoError(t, d.UnmarshalJSON([]byte(`"1m30s"`)))
	assert.Equal(t, 90*time.Second, d.Std())

	require.NoError(t, d.UnmarshalJSON([]byte(`1000000000`)))
	assert.Equal(t, time.Second, d.Std())

	assert.Error(t, d.UnmarshalJSON([]byte(`"soon"`)))
	assert.Error(t, d.UnmarshalJSON([]byte(`true`)))
}

func TestReadConfig_Example(t *testing.T) {
	o := NewDefaultOptions()
	o.ConfigFile = "../../config.example.yaml"
	o.Config.Telegram.BotToken = "token"
	o.Config.Telegram.ChatID = "42"

	require.NoError(t, o.Load(nil))
	require.NoError(t, o.Validate())

	assert.Equal(t, "Passport", o.Config.Target.Marker)
	assert.Equal(t, []string{"149.154.167.220", "149.154.167.221"}, o.Config.Telegram.FallbackAddresses)
	assert.Equal(t, 15*time.Second, o.Config.Browser.NavigationTimeout.Std())
}
