package robot

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

const (
	DefaultPollInterval  = 10 * time.Minute
	DefaultCleanInterval = 8 * time.Hour
)

// Poller drives the fixed-cadence appliance schedule: every poll interval it
// connects, inspects the fleet, issues a clean once per clean interval and a
// reset for any wedged unit, then disconnects. Errors are logged and retried
// on the next cycle; a flaky network never stops the loop.
type Poller struct {
	client Client
	poll   time.Duration
	logger *slog.Logger

	// clean cadence is counted in whole poll cycles, and the counter starts
	// one short of the threshold so the first cycle cleans immediately
	cyclesPerClean int
	cycle          int
}

func NewPoller(client Client, pollInterval, cleanInterval time.Duration, logger *slog.Logger) *Poller {
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	if cleanInterval <= 0 {
		cleanInterval = DefaultCleanInterval
	}

	cycles := int(cleanInterval / pollInterval)
	if cycles < 1 {
		cycles = 1
	}

	return &Poller{
		client:         client,
		poll:           pollInterval,
		logger:         logger,
		cyclesPerClean: cycles,
		cycle:          cycles - 1,
	}
}

// Run polls until ctx is cancelled. The first cycle runs immediately, the
// rest on the ticker.
func (p *Poller) Run(ctx context.Context) {
	p.logger.Info("appliance poller started",
		"poll_interval", p.poll.String(),
		"cycles_per_clean", p.cyclesPerClean,
	)

	p.runCycle(ctx)

	ticker := time.NewTicker(p.poll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("appliance poller stopping")
			return
		case <-ticker.C:
			p.runCycle(ctx)
		}
	}
}

func (p *Poller) runCycle(ctx context.Context) {
	if err := p.cycleOnce(ctx); err != nil {
		p.logger.Error("poll cycle failed", "error", err)
	}
}

// cycleOnce is one pass of the schedule. It always disconnects, even when the
// inspection fails partway through.
func (p *Poller) cycleOnce(ctx context.Context) error {
	if err := p.client.Connect(ctx); err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer func() {
		if err := p.client.Disconnect(ctx); err != nil {
			p.logger.Warn("disconnect failed", "error", err)
		}
	}()

	p.cycle++
	cleanDue := p.cycle >= p.cyclesPerClean

	robots, err := p.client.Robots(ctx)
	if err != nil {
		return fmt.Errorf("list robots: %w", err)
	}
	p.logger.Debug("fleet inspected", "robots", len(robots), "clean_due", cleanDue)

	for _, r := range robots {
		if cleanDue && r.Status != StatusCleanCycle {
			if err := p.client.SendCommand(ctx, r.ID, CommandClean); err != nil {
				return fmt.Errorf("clean %s: %w", r.Name, err)
			}
			p.logger.Info("clean cycle started", "robot", r.Name)
			p.cycle = 0
		}

		if r.NeedsReset() {
			if err := p.client.SendCommand(ctx, r.ID, CommandReset); err != nil {
				return fmt.Errorf("reset %s: %w", r.Name, err)
			}
			p.logger.Info("robot reset", "robot", r.Name, "status", r.Status)
		}
	}

	return nil
}
