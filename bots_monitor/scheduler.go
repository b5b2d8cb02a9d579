package bot

import (
	"context"
	"fmt"
	"time"

	log "glucose-chart/internal/infra/log"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler runs a job on a standard 5-field cron schedule.
type Scheduler struct {
	spec     string
	loc      *time.Location
	schedule cron.Schedule
	job      func(ctx context.Context)
}

// NewScheduler parses spec. An empty spec yields a disabled scheduler whose
// Run only waits for ctx.
func NewScheduler(spec string, loc *time.Location, job func(ctx context.Context)) (*Scheduler, error) {
	if loc == nil {
		loc = time.UTC
	}
	s := &Scheduler{spec: spec, loc: loc, job: job}
	if spec == "" {
		return s, nil
	}
	if job == nil {
		return nil, fmt.Errorf("scheduler job is nil")
	}

	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid cron schedule %q: %w", spec, err)
	}
	s.schedule = schedule
	return s, nil
}

// Enabled reports whether a schedule is configured.
func (s *Scheduler) Enabled() bool { return s.schedule != nil }

// Next returns the first activation after t, or the zero time when disabled.
func (s *Scheduler) Next(t time.Time) time.Time {
	if s.schedule == nil {
		return time.Time{}
	}
	return s.schedule.Next(t.In(s.loc))
}

// Run blocks until ctx ends. Overlapping activations are skipped and a
// panicking job is logged, not fatal. Running jobs finish before Run returns.
func (s *Scheduler) Run(ctx context.Context) {
	if !s.Enabled() {
		log.LogInfo("Chart schedule disabled")
		<-ctx.Done()
		return
	}

	logger := cronLogger{}
	c := cron.New(
		cron.WithLocation(s.loc),
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)
	c.Schedule(s.schedule, cron.FuncJob(func() { s.job(ctx) }))
	c.Start()

	log.LogInfo("Chart schedule started",
		zap.String("cron", s.spec),
		zap.String("location", s.loc.String()),
		zap.Time("next", s.Next(time.Now())))

	<-ctx.Done()
	<-c.Stop().Done()
	log.LogInfo("Chart schedule stopped")
}

// cronLogger routes cron's own messages into the application log.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	log.LogDebug("cron: "+msg, kvFields(keysAndValues)...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	log.LogError("cron: "+msg, append(kvFields(keysAndValues), zap.Error(err))...)
}

func kvFields(kv []interface{}) []zap.Field {
	fields := make([]zap.Field, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			key = fmt.Sprint(kv[i])
		}
		fields = append(fields, zap.Any(key, kv[i+1]))
	}
	return fields
}
