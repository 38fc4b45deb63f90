package models

import (
	"errors"
	"time"
)

// ErrNoCandidates is returned if no delivery candidate could be built.
var ErrNoCandidates = errors.New("no delivery candidates")

// Candidate is one concrete endpoint a notification can be delivered to.
type Candidate struct {
	// URL is the full request URL.
	URL string

	// Host is the canonical host of the endpoint. It is sent as Host header
	// and used as TLS server name for address based candidates.
	Host string

	// Address is the raw network address that replaced the hostname. It is
	// empty for the canonical candidate.
	Address string

	// AddressBased is true if the URL's host is an IP address literal.
	AddressBased bool
}

// Kind returns "address" or "hostname".
func (c Candidate) Kind() string {
	if c.AddressBased {
		return "address"
	}

	return "hostname"
}

// NotificationAttempt describes a single delivery try.
type NotificationAttempt struct {
	// Number is the 1-based outer attempt this try belongs to. An insecure
	// retry shares the number of the attempt that triggered it.
	Number int

	Candidate Candidate

	// Insecure is true if certificate verification was disabled.
	Insecure bool

	Success    bool
	StatusCode int

	// Reason describes why the attempt failed.
	Reason string

	// CertificateError is true if the attempt failed during certificate
	// validation.
	CertificateError bool

	Duration time.Duration
}

// DeliveryReport is the outcome of one delivery cycle.
type DeliveryReport struct {
	Attempts  []NotificationAttempt
	Backoffs  []time.Duration
	Delivered bool
}

// OuterAttempts returns the number of attempts that counted towards the
// attempt budget.
func (r *DeliveryReport) OuterAttempts() int {
	n := 0

	for _, attempt := range r.Attempts {
		if !attempt.Insecure {
			n++
		}
	}

	return n
}

// InsecureRetries returns the number of attempts made with certificate
// verification disabled.
func (r *DeliveryReport) InsecureRetries() int {
	return len(r.Attempts) - r.OuterAttempts()
}
