package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/littercam/littercam/internal/config"
	"github.com/littercam/littercam/internal/logging"
	"github.com/littercam/littercam/internal/robot"
)

type options struct {
	credentials   string
	baseURL       string
	pollInterval  time.Duration
	cleanInterval time.Duration
	dryRun        bool
	logLevel      string
}

func parseFlags(args []string) (*options, error) {
	opts := &options{}

	fs := flag.NewFlagSet("robotctl", flag.ContinueOnError)
	fs.StringVar(&opts.credentials, "credentials", "account_info.json", "path to the account credentials JSON file")
	fs.StringVar(&opts.baseURL, "base-url", "", "appliance API base URL")
	fs.DurationVar(&opts.pollInterval, "poll-interval", robot.DefaultPollInterval, "how often to inspect the fleet")
	fs.DurationVar(&opts.cleanInterval, "clean-interval", robot.DefaultCleanInterval, "how often to start a clean cycle")
	fs.BoolVar(&opts.dryRun, "dry-run", false, "rehearse the schedule against a stub fleet, no network calls")
	fs.StringVar(&opts.logLevel, "log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if !opts.dryRun && opts.baseURL == "" {
		return nil, fmt.Errorf("-base-url is required (or use -dry-run)")
	}
	if opts.pollInterval <= 0 {
		return nil, fmt.Errorf("poll interval must be positive, got %s", opts.pollInterval)
	}
	if opts.cleanInterval < opts.pollInterval {
		return nil, fmt.Errorf("clean interval %s must not be shorter than the poll interval %s",
			opts.cleanInterval, opts.pollInterval)
	}
	return opts, nil
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "robotctl: %v\n", err)
		os.Exit(2)
	}

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "robotctl: %v\n", err)
		os.Exit(1)
	}
}

func run(opts *options) error {
	logger := logging.NewLogger(opts.logLevel)

	var client robot.Client
	if opts.dryRun {
		logger.Info("dry run: using stub appliance client")
		client = robot.NewStubClient(logger)
	} else {
		creds, err := robot.LoadCredentials(opts.credentials)
		if err != nil {
			return err
		}
		client = robot.NewHTTPClient(opts.baseURL, creds, logger)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("starting appliance control",
		"version", config.Version,
		"poll_interval", opts.pollInterval.String(),
		"clean_interval", opts.cleanInterval.String(),
	)

	poller := robot.NewPoller(client, opts.pollInterval, opts.cleanInterval, logger)
	poller.Run(ctx)
	return nil
}
