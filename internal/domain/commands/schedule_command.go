package commands

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/upstreamwatch/internal/domain/entities"
)

// Schedule is the interface for the recurring upstream check scheduler.
type Schedule interface {
	Start(ctx context.Context) error
	Stop()
}

// ScheduleCommand runs the check cycle on a cron cadence, plus once after a
// startup delay. A trigger that fires while a cycle is still running is
// skipped.
type ScheduleCommand struct {
	check        Check
	expression   string
	startupDelay time.Duration

	mu           sync.Mutex
	runner       *cron.Cron
	startupTimer *time.Timer
	stopped      bool

	cycle sync.Mutex // held while a cycle runs
}

// NewScheduleCommand creates a new ScheduleCommand from the upstream settings.
func NewScheduleCommand(check Check, settings *entities.Settings) *ScheduleCommand {
	return &ScheduleCommand{
		check:        check,
		expression:   settings.Upstream.Cron,
		startupDelay: settings.Upstream.StartupDelay,
	}
}

// Start registers the recurring job and the one-shot startup run. The
// context is handed to every cycle; cancelling it interrupts a running cycle
// but does not unregister the job, use Stop for that.
func (it *ScheduleCommand) Start(ctx context.Context) error {
	it.mu.Lock()
	defer it.mu.Unlock()

	if it.runner != nil {
		return entities.ErrAlreadyScheduled
	}

	runner := cron.New(cron.WithLogger(cronLogger{}))
	if _, err := runner.AddFunc(it.expression, func() {
		it.trigger(ctx, "Scheduled")
	}); err != nil {
		return fmt.Errorf("failed to schedule upstream checks with cron %q: %w", it.expression, err)
	}

	logger.Infof("Scheduling upstream checks with cron: %s", it.expression)
	runner.Start()
	it.runner = runner

	it.startupTimer = time.AfterFunc(it.startupDelay, func() {
		logger.Info("Running initial upstream check")
		it.trigger(ctx, "Initial")
	})

	return nil
}

// Stop unregisters both triggers and waits for a running cycle to finish.
// No cycle starts once Stop has been called.
func (it *ScheduleCommand) Stop() {
	it.mu.Lock()
	if it.runner == nil || it.stopped {
		it.mu.Unlock()
		return
	}
	it.stopped = true
	runner, timer := it.runner, it.startupTimer
	it.mu.Unlock()

	timer.Stop()
	<-runner.Stop().Done()

	it.cycle.Lock()
	it.cycle.Unlock() //nolint:staticcheck // waits for the in-flight cycle
}

// trigger runs one cycle, recovering from anything it raises so the
// recurring job survives.
func (it *ScheduleCommand) trigger(ctx context.Context, name string) {
	it.mu.Lock()
	if it.stopped {
		it.mu.Unlock()
		logger.Debugf("%s upstream check skipped: scheduler stopped", name)
		return
	}
	if !it.cycle.TryLock() {
		it.mu.Unlock()
		logger.Warnf("%s upstream check skipped: previous cycle still running", name)
		return
	}
	it.mu.Unlock()
	defer it.cycle.Unlock()

	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("%s upstream check failed: %v", name, r)
		}
	}()

	if _, err := it.check.RunCycle(ctx); err != nil {
		logger.Errorf("%s upstream check failed: %v", name, err)
		logger.Debug(err)
	}
}

// cronLogger routes the cron runner's logs to logrus.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	logger.WithFields(toFields(keysAndValues)).Debug("cron: " + msg)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	logger.WithFields(toFields(keysAndValues)).WithError(err).Error("cron: " + msg)
}

func toFields(keysAndValues []interface{}) logger.Fields {
	fields := make(logger.Fields, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fields[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return fields
}
