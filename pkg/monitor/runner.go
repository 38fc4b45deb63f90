package monitor

import (
	"context"
	"time"

	"github.com/bonial-oss/page-monitor-bot/pkg/config"
	"github.com/bonial-oss/page-monitor-bot/pkg/driver"
	"github.com/bonial-oss/page-monitor-bot/pkg/metrics"
	"github.com/bonial-oss/page-monitor-bot/pkg/models"
	"github.com/bonial-oss/page-monitor-bot/pkg/notifier"
	"github.com/bonial-oss/page-monitor-bot/pkg/textmonitor"
	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Runner performs monitoring runs: log in, trigger the action, check the
// page for the marker and notify if it was found.
type Runner struct {
	opener            driver.Opener
	notifier          notifier.Interface
	target            config.TargetConfig
	navigationTimeout time.Duration
	parseMode         string
	log               logr.Logger
	now               func() time.Time
	sleep             func(ctx context.Context, d time.Duration) error
}

// NewRunner creates a new *Runner.
func NewRunner(options *config.Options, opener driver.Opener, notifier notifier.Interface, log logr.Logger) *Runner {
	return &Runner{
		opener:            opener,
		notifier:          notifier,
		target:            options.Config.Target,
		navigationTimeout: options.Config.Browser.NavigationTimeout.Std(),
		parseMode:         options.Config.Telegram.ParseMode,
		log:               log.WithName("monitor"),
		now:               time.Now,
		sleep:             sleep,
	}
}

// step is one stage of a run. If fn fails, the run ends with result.
type step struct {
	name   string
	result models.RunResult
	fn     func(ctx context.Context, session driver.Session, log logr.Logger) error
}

// Run performs a single monitoring run. Failures are logged and reflected in
// the returned result; Run never panics.
func (r *Runner) Run(ctx context.Context) models.RunResult {
	log := r.log.WithValues("run", uuid.NewString())
	started := r.now()

	log.Info("starting monitoring run", "url", r.target.URL)

	result := r.run(ctx, log)

	metrics.RunsTotal.WithLabelValues(string(result)).Inc()
	metrics.RunDurationSeconds.Observe(r.now().Sub(started).Seconds())
	metrics.LastRunTimestampSeconds.SetToCurrentTime()

	log.Info("monitoring completed", "result", result, "checked", result.Completed())

	return result
}

func (r *Runner) run(ctx context.Context, log logr.Logger) (result models.RunResult) {
	defer func() {
		if v := recover(); v != nil {
			log.Error(errors.Errorf("%v", v), "critical error")
			result = models.RunCrashed
		}
	}()

	session, err := r.opener.Open(ctx)
	if err != nil {
		log.Error(err, "failed to open browser session")
		return models.RunSessionFailed
	}

	defer func() {
		if err := session.Close(); err != nil {
			log.Error(err, "failed to close browser session")
		}
	}()

	steps := []step{
		{name: "login", result: models.RunLoginFailed, fn: r.login},
		{name: "action", result: models.RunActionFailed, fn: r.triggerAction},
	}

	for _, s := range steps {
		if ctx.Err() != nil {
			return models.RunCancelled
		}

		if err := s.fn(ctx, session, log); err != nil {
			if ctx.Err() != nil {
				return models.RunCancelled
			}

			log.Error(err, s.name+" failed")
			return s.result
		}
	}

	if !textmonitor.New(r.target.Marker, r.target.ContentMode, log).Check(session) {
		return models.RunMarkerNotFound
	}

	message := FormatMessage(r.target, r.parseMode, r.now())

	if !r.notifier.Notify(ctx, message) {
		return models.RunNotificationFailed
	}

	return models.RunNotified
}

func (r *Runner) login(_ context.Context, s driver.Session, log logr.Logger) error {
	t := r.target

	return firstError(
		func() error {
			log.Info("navigating to login page", "url", t.URL)
			return s.Navigate(t.URL, r.navigationTimeout)
		},
		func() error {
			log.Info("filling login form")
			return s.WaitForElement(t.EmailSelector, r.navigationTimeout)
		},
		func() error { return s.TypeInto(t.EmailSelector, t.LoginEmail) },
		func() error { return s.TypeInto(t.PasswordSelector, t.LoginPassword) },
		func() error {
			log.Info("submitting login")
			return s.Click(t.LoginButtonSelector)
		},
		func() error { return s.WaitForElement(t.DashboardSelector, r.navigationTimeout) },
	)
}

func (r *Runner) triggerAction(ctx context.Context, s driver.Session, log logr.Logger) error {
	t := r.target

	return firstError(
		func() error {
			log.V(1).Info("waiting for action to become available", "selector", t.ActionReadySelector)
			return s.WaitForElement(t.ActionReadySelector, r.navigationTimeout)
		},
		func() error {
			log.Info("clicking action button")
			return s.Click(t.ActionButtonSelector)
		},
		func() error {
			return errors.Wrapf(r.sleep(ctx, t.SettleDelay.Std()), "waiting for page to settle")
		},
	)
}

// firstError runs actions in order and returns the first error.
func firstError(actions ...func() error) error {
	for _, action := range actions {
		if err := action(); err != nil {
			return err
		}
	}

	return nil
}

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
