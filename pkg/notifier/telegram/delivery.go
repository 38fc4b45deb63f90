package telegram

import (
	"context"
	"time"

	"github.com/bonial-oss/page-monitor-bot/pkg/models"
)

// state is a state of the delivery state machine.
//
//	TryCandidate  --200-->                    Success
//	TryCandidate  --cert error, address-->    InsecureRetry
//	TryCandidate  --failure, budget left-->   Backoff
//	TryCandidate  --failure, budget spent-->  Exhausted
//	InsecureRetry --200-->                    Success
//	InsecureRetry --failure, budget left-->   Backoff
//	InsecureRetry --failure, budget spent-->  Exhausted
//	Backoff       --waited-->                 TryCandidate
//	Backoff       --cancelled-->              Exhausted
type state int

const (
	stateTryCandidate state = iota
	stateInsecureRetry
	stateBackoff
	stateSuccess
	stateExhausted
)

func (s state) String() string {
	switch s {
	case stateTryCandidate:
		return "TryCandidate"
	case stateInsecureRetry:
		return "InsecureRetry"
	case stateBackoff:
		return "Backoff"
	case stateSuccess:
		return "Success"
	case stateExhausted:
		return "Exhausted"
	default:
		return "Unknown"
	}
}

// afterSecureAttempt returns the state following a regular outer attempt.
func afterSecureAttempt(attempt models.NotificationAttempt, attemptsMade, maxAttempts int) state {
	switch {
	case attempt.Success:
		return stateSuccess
	case attempt.CertificateError && attempt.Candidate.AddressBased:
		return stateInsecureRetry
	case attemptsMade >= maxAttempts:
		return stateExhausted
	default:
		return stateBackoff
	}
}

// afterInsecureAttempt returns the state following the insecure retry.
func afterInsecureAttempt(attempt models.NotificationAttempt, attemptsMade, maxAttempts int) state {
	switch {
	case attempt.Success:
		return stateSuccess
	case attemptsMade >= maxAttempts:
		return stateExhausted
	default:
		return stateBackoff
	}
}

// delivery is a single delivery cycle of one message.
type delivery struct {
	notifier *Notifier
	message  string
	report   *models.DeliveryReport

	// attempt is the number of outer attempts made so far.
	attempt   int
	candidate models.Candidate
}

func (d *delivery) run(ctx context.Context) {
	s := stateTryCandidate
	if d.notifier.config.MaxAttempts < 1 {
		s = stateExhausted
	}

	for {
		switch s {
		case stateSuccess:
			d.report.Delivered = true
			return
		case stateExhausted:
			return
		default:
			s = d.step(ctx, s)
		}
	}
}

func (d *delivery) step(ctx context.Context, s state) state {
	n := d.notifier
	maxAttempts := n.config.MaxAttempts

	switch s {
	case stateTryCandidate:
		if ctx.Err() != nil {
			n.log.Info("notification delivery cancelled", "attempts", d.attempt)
			return stateExhausted
		}

		d.candidate = n.candidates[d.attempt%len(n.candidates)]
		d.attempt++

		n.log.Info("sending notification", "attempt", d.attempt, "via", d.candidate.Kind(), "address", d.candidate.Address)

		attempt := d.send(ctx, d.candidate, false)
		if !attempt.Success {
			n.log.Info("notification attempt failed", "attempt", d.attempt, "status", attempt.StatusCode, "reason", attempt.Reason)
		}

		return afterSecureAttempt(attempt, d.attempt, maxAttempts)
	case stateInsecureRetry:
		n.log.Info("bypassing certificate verification for address fallback", "attempt", d.attempt, "address", d.candidate.Address)

		attempt := d.send(ctx, d.candidate, true)
		if !attempt.Success {
			n.log.Info("insecure fallback failed", "attempt", d.attempt, "status", attempt.StatusCode, "reason", attempt.Reason)
		}

		return afterInsecureAttempt(attempt, d.attempt, maxAttempts)
	case stateBackoff:
		delay := n.config.BackoffBase.Std() * time.Duration(d.attempt)

		n.log.V(1).Info("waiting before next attempt", "delay", delay.String())

		if err := n.sleep(ctx, delay); err != nil {
			n.log.Info("notification delivery cancelled", "attempts", d.attempt)
			return stateExhausted
		}

		d.report.Backoffs = append(d.report.Backoffs, delay)

		return stateTryCandidate
	default:
		return s
	}
}
