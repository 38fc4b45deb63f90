package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bonial-oss/page-monitor-bot/pkg/config"
	"github.com/bonial-oss/page-monitor-bot/pkg/driver"
	"github.com/bonial-oss/page-monitor-bot/pkg/metrics"
	"github.com/bonial-oss/page-monitor-bot/pkg/monitor"
	"github.com/bonial-oss/page-monitor-bot/pkg/notifier"
	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/gofrs/flock"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const metricsJob = "page-monitor-bot"

var (
	debug bool

	zapLog = zap.NewNop()
	logger = logr.Discard()
	log    = logger
)

// NewRootCommand creates a new *cobra.Command that is used as the root command
// for page-monitor-bot.
func NewRootCommand() *cobra.Command {
	options := config.NewDefaultOptions()

	cmd := &cobra.Command{
		Use:           "page-monitor-bot",
		Short:         "Log into a web application and notify via Telegram when a marker text shows up",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			z, err := newLogger(debug)
			if err != nil {
				return err
			}

			zapLog = z
			logger = zapr.NewLogger(zapLog)
			log = logger.WithName("main")

			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := options.Load(cmd)
			if err != nil {
				return err
			}

			err = options.Validate()
			if err != nil {
				return err
			}

			return Run(cmd.Context(), options)
		},
	}

	options.AddFlags(cmd)

	return cmd
}

func newLogger(debug bool) (*zap.Logger, error) {
	zapConfig := zap.NewProductionConfig()
	if debug {
		zapConfig = zap.NewDevelopmentConfig()
	}

	z, err := zapConfig.Build()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to set up logging")
	}

	return z, nil
}

func main() {
	cmd := NewRootCommand()

	cmd.PersistentFlags().BoolVar(&debug, "debug", debug, "Enable debug logging.")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := cmd.ExecuteContext(ctx)

	// Sync fails on some platforms for stderr, nothing to do about it.
	_ = zapLog.Sync()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Run sets up the page driver and the notifier and performs a single
// monitoring run. Run only fails if setup fails; the outcome of the run
// itself is logged.
func Run(ctx context.Context, options *config.Options) error {
	if options.LockFile != "" {
		lock := flock.New(options.LockFile)

		locked, err := lock.TryLock()
		if err != nil {
			return errors.Wrapf(err, "failed to acquire lock %s", options.LockFile)
		}

		if !locked {
			log.Info("another run is still in progress, skipping", "lock-file", options.LockFile)
			return nil
		}

		defer func() {
			if err := lock.Unlock(); err != nil {
				log.Error(err, "failed to release lock", "lock-file", options.LockFile)
			}
		}()
	}

	opener, err := driver.New(options.DriverName, options.Config.Browser)
	if err != nil {
		return errors.Wrapf(err, "failed to initialize page driver")
	}

	n, err := notifier.New(options.NotifierName, options.Config.Telegram, logger)
	if err != nil {
		return errors.Wrapf(err, "failed to initialize notifier")
	}

	runner := monitor.NewRunner(options, opener, n, logger)

	result := runner.Run(ctx)

	if options.PushgatewayURL != "" {
		log.V(1).Info("pushing metrics", "pushgateway", options.PushgatewayURL)

		if err := metrics.Push(options.PushgatewayURL, metricsJob); err != nil {
			log.Error(err, "failed to push metrics", "result", result)
		}
	}

	return nil
}
