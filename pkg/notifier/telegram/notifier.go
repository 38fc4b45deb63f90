package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/bonial-oss/page-monitor-bot/pkg/config"
	"github.com/bonial-oss/page-monitor-bot/pkg/metrics"
	"github.com/bonial-oss/page-monitor-bot/pkg/models"
	"github.com/go-logr/logr"
	"github.com/pkg/errors"
)

// maxErrorBodySize limits how much of a failed response is read to extract
// the error description.
const maxErrorBodySize = 4096

// Notifier delivers messages via the Telegram Bot API sendMessage method. It
// implements notifier.Interface.
type Notifier struct {
	config     config.TelegramConfig
	candidates []models.Candidate
	log        logr.Logger
	newClient  clientFactory
	sleep      func(ctx context.Context, d time.Duration) error
	now        func() time.Time
}

// NewNotifier creates a new *Notifier with given TelegramConfig. Returns an
// error if the delivery candidates cannot be built from the config.
func NewNotifier(config config.TelegramConfig, log logr.Logger) (*Notifier, error) {
	candidates, err := BuildCandidates(config.APIBaseURL, config.BotToken, config.FallbackAddresses)
	if err != nil {
		return nil, err
	}

	return &Notifier{
		config:     config,
		candidates: candidates,
		log:        log.WithName("telegram-notifier"),
		newClient:  newClientFactory(config.RequestTimeout.Std(), nil),
		sleep:      sleep,
		now:        time.Now,
	}, nil
}

// Candidates returns the ordered delivery candidates.
func (n *Notifier) Candidates() []models.Candidate {
	return append([]models.Candidate(nil), n.candidates...)
}

// Notify implements notifier.Interface.
func (n *Notifier) Notify(ctx context.Context, message string) bool {
	return n.Deliver(ctx, message).Delivered
}

// Deliver tries to deliver message and reports every attempt that was made.
// It never fails; an undelivered message is reported via
// DeliveryReport.Delivered.
func (n *Notifier) Deliver(ctx context.Context, message string) *models.DeliveryReport {
	d := &delivery{
		notifier: n,
		message:  message,
		report:   &models.DeliveryReport{},
	}

	if message == "" {
		n.log.Info("refusing to send empty notification")
		return d.report
	}

	d.run(ctx)

	metrics.NotificationsTotal.WithLabelValues(metrics.Outcome(d.report.Delivered)).Inc()

	if d.report.Delivered {
		n.log.Info("notification sent successfully", "attempts", d.report.OuterAttempts())
	} else {
		n.log.Info("all notification attempts failed", "attempts", d.report.OuterAttempts())
	}

	return d.report
}

type sendMessageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode,omitempty"`
}

type errorResponse struct {
	Description string `json:"description"`
}

// send performs a single request against candidate and records it in the
// report.
func (d *delivery) send(ctx context.Context, candidate models.Candidate, insecure bool) models.NotificationAttempt {
	n := d.notifier
	started := n.now()

	attempt := models.NotificationAttempt{
		Number:    d.attempt,
		Candidate: candidate,
		Insecure:  insecure,
	}

	err := d.post(ctx, candidate, insecure, &attempt)
	if err != nil {
		attempt.Reason = failureReason(err)
		attempt.CertificateError = isCertificateError(err)
	}

	attempt.Duration = n.now().Sub(started)

	metrics.NotificationAttemptsTotal.WithLabelValues(candidate.Kind(), strconv.FormatBool(insecure), metrics.Outcome(attempt.Success)).Inc()

	d.report.Attempts = append(d.report.Attempts, attempt)

	return attempt
}

func (d *delivery) post(ctx context.Context, candidate models.Candidate, insecure bool, attempt *models.NotificationAttempt) error {
	n := d.notifier

	body, err := json.Marshal(sendMessageRequest{
		ChatID:    n.config.ChatID,
		Text:      d.message,
		ParseMode: n.config.ParseMode,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, candidate.URL, bytes.NewReader(body))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")

	if candidate.AddressBased {
		req.Host = candidate.Host
	}

	resp, err := n.newClient(candidate, insecure).Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	attempt.StatusCode = resp.StatusCode

	if resp.StatusCode == http.StatusOK {
		attempt.Success = true
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	return unexpectedStatus(resp)
}

func unexpectedStatus(resp *http.Response) error {
	buf, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))

	var errResp errorResponse
	if json.Unmarshal(buf, &errResp) == nil && errResp.Description != "" {
		return errors.Errorf("unexpected status %d: %s", resp.StatusCode, errResp.Description)
	}

	return errors.Errorf("unexpected status %d", resp.StatusCode)
}
