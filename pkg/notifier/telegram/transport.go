package telegram

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/bonial-oss/page-monitor-bot/pkg/models"
	"github.com/pkg/errors"
)

// httpDoer is the part of *http.Client the notifier needs.
type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// clientFactory returns the client used for a single request to candidate.
type clientFactory func(candidate models.Candidate, insecure bool) httpDoer

// newClientFactory returns a clientFactory creating IPv4-only clients with
// given request timeout. rootCAs may be nil to use the system pool.
func newClientFactory(timeout time.Duration, rootCAs *x509.CertPool) clientFactory {
	return func(candidate models.Candidate, insecure bool) httpDoer {
		dialer := &net.Dialer{Timeout: timeout}

		tlsConfig := &tls.Config{
			RootCAs:            rootCAs,
			InsecureSkipVerify: insecure, //nolint:gosec
		}

		if candidate.AddressBased {
			// Verify the certificate against the canonical hostname instead of
			// the address we are connecting to.
			tlsConfig.ServerName = (&url.URL{Host: candidate.Host}).Hostname()
		}

		return &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				DialContext: func(ctx context.Context, _, addr string) (net.Conn, error) {
					return dialer.DialContext(ctx, "tcp4", addr)
				},
				TLSClientConfig:     tlsConfig,
				TLSHandshakeTimeout: timeout,
				DisableKeepAlives:   true,
			},
		}
	}
}

// isCertificateError returns true if err was caused by a failed certificate
// validation.
func isCertificateError(err error) bool {
	var (
		verificationErr  *tls.CertificateVerificationError
		unknownAuthority x509.UnknownAuthorityError
		hostnameErr      x509.HostnameError
		invalidErr       x509.CertificateInvalidError
	)

	return errors.As(err, &verificationErr) ||
		errors.As(err, &unknownAuthority) ||
		errors.As(err, &hostnameErr) ||
		errors.As(err, &invalidErr)
}

// failureReason describes err without the request URL, which contains the
// bot token.
func failureReason(err error) string {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Op + ": " + urlErr.Err.Error()
	}

	return err.Error()
}

// sleep waits for d or until ctx is done, whichever happens first.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
