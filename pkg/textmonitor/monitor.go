package textmonitor

import (
	"strings"

	"github.com/bonial-oss/page-monitor-bot/pkg/config"
	"github.com/go-logr/logr"
)

// ContentReader provides page content. driver.Session satisfies it.
type ContentReader interface {
	ReadContent() (string, error)
}

// Monitor checks page content for a marker text.
type Monitor struct {
	marker string
	mode   string
	log    logr.Logger
}

// New creates a new *Monitor looking for marker. mode is one of
// config.ContentModeHTML or config.ContentModeText.
func New(marker, mode string, log logr.Logger) *Monitor {
	return &Monitor{
		marker: marker,
		mode:   mode,
		log:    log.WithName("text-monitor"),
	}
}

// Check reads the content from r and reports whether it contains the marker.
// Read errors are logged and reported as not found.
func (m *Monitor) Check(r ContentReader) bool {
	content, err := r.ReadContent()
	if err != nil {
		m.log.Error(err, "text check failed")
		return false
	}

	if m.mode == config.ContentModeText {
		content = VisibleText(content)
	}

	found := Contains(content, m.marker)
	if found {
		m.log.Info("found marker text", "marker", m.marker)
	} else {
		m.log.Info("marker text not found", "marker", m.marker)
	}

	return found
}

// Contains reports whether marker occurs in content, ignoring case.
func Contains(content, marker string) bool {
	return strings.Contains(strings.ToLower(content), strings.ToLower(marker))
}
