package monitor

import (
	"fmt"
	"strings"
	"time"

	"github.com/bonial-oss/page-monitor-bot/pkg/config"
	"golang.org/x/net/html"
)

// FormatMessage builds the notification message for a marker found in the
// target at time at. Values are HTML escaped if parseMode is HTML.
func FormatMessage(target config.TargetConfig, parseMode string, at time.Time) string {
	title, marker, url := target.MessageTitle, target.Marker, target.URL

	if strings.EqualFold(parseMode, "HTML") {
		title = html.EscapeString(title)
		marker = html.EscapeString(marker)
		url = html.EscapeString(url)
	}

	return fmt.Sprintf("🚨 %s\nFound \"%s\" at %s\nURL: %s", title, marker, at.Format(target.TimestampLayout), url)
}
