package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"stock-ranker/internal/logger"
)

// cronSpec turns an HH:MM time of day into a five-field cron spec.
func cronSpec(hhmm string) (string, error) {
	parts := strings.Split(strings.TrimSpace(hhmm), ":")
	if len(parts) != 2 {
		return "", fmt.Errorf("schedule time %q must be HH:MM", hhmm)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return "", fmt.Errorf("schedule time %q has invalid hour", hhmm)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return "", fmt.Errorf("schedule time %q has invalid minute", hhmm)
	}
	return fmt.Sprintf("%d %d * * *", minute, hour), nil
}

// cronLogger routes cron messages, such as skipped runs, through the
// structured logger.
type cronLogger struct {
	ctx context.Context
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	logger.Info(l.ctx, "Scheduler: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	logger.ErrorWithErr(l.ctx, "Scheduler: "+msg, err, keysAndValues...)
}

// newDailyJob wraps run in a single job shared by every schedule entry, so a
// run still in progress from one time slot makes every other slot skip.
func newDailyJob(ctx context.Context, run func(context.Context) error) cron.Job {
	return cron.NewChain(cron.SkipIfStillRunning(cronLogger{ctx: ctx})).Then(cron.FuncJob(func() {
		if err := run(ctx); err != nil {
			logger.ErrorWithErr(ctx, "Scheduled run failed", err)
		}
	}))
}

// runSchedule runs the daily pipeline at each time until ctx is done.
// Overlapping runs are skipped rather than queued.
func runSchedule(ctx context.Context, a *app, times []string, loc *time.Location) error {
	c := cron.New(cron.WithLocation(loc))
	job := newDailyJob(ctx, func(ctx context.Context) error {
		_, err := a.RunDaily(ctx)
		return err
	})

	for _, t := range times {
		spec, err := cronSpec(t)
		if err != nil {
			return err
		}
		if _, err := c.AddJob(spec, job); err != nil {
			return fmt.Errorf("failed to schedule %s: %w", t, err)
		}
	}

	c.Start()
	logger.Info(ctx, "Scheduler started", "times", times, "timezone", loc.String())

	<-ctx.Done()
	<-c.Stop().Done()
	logger.Info(ctx, "Scheduler stopped")
	return nil
}
