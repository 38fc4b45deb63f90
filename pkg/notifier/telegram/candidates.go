package telegram

import (
	"net"
	"net/netip"
	"net/url"
	"strings"

	"github.com/bonial-oss/page-monitor-bot/pkg/models"
	"github.com/pkg/errors"
)

// BuildCandidates returns the ordered delivery candidates for the
// sendMessage endpoint below baseURL: the canonical endpoint first, followed
// by one endpoint per address in addresses. Address endpoints keep scheme,
// port and path of the canonical endpoint and only replace the hostname.
func BuildCandidates(baseURL, token string, addresses []string) ([]models.Candidate, error) {
	if baseURL == "" {
		return nil, models.ErrNoCandidates
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid api base url")
	}

	if base.Host == "" {
		return nil, errors.Errorf("api base url %q has no host", baseURL)
	}

	canonical := *base
	canonical.Path = strings.TrimSuffix(base.Path, "/") + "/bot" + token + "/sendMessage"
	canonical.RawPath = ""
	canonical.RawQuery = ""
	canonical.Fragment = ""

	candidates := make([]models.Candidate, 0, len(addresses)+1)
	candidates = append(candidates, models.Candidate{
		URL:          canonical.String(),
		Host:         canonical.Host,
		AddressBased: IsAddress(canonical.Hostname()),
	})

	for _, addr := range addresses {
		u := canonical
		u.Host = joinHostPort(addr, canonical.Port())

		candidates = append(candidates, models.Candidate{
			URL:          u.String(),
			Host:         canonical.Host,
			Address:      addr,
			AddressBased: IsAddress(addr),
		})
	}

	return candidates, nil
}

// IsAddress returns true if host is an IPv4 or IPv6 address literal.
func IsAddress(host string) bool {
	_, err := netip.ParseAddr(host)
	return err == nil
}

func joinHostPort(host, port string) string {
	if port != "" {
		return net.JoinHostPort(host, port)
	}

	if strings.Contains(host, ":") {
		return "[" + host + "]"
	}

	return host
}
