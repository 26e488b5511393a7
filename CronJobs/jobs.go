package CronJobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"Fleetbook/Models"
)

// scheduleParser reads the six-field format cron.WithSeconds uses.
var scheduleParser = cron.NewParser(
	cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// MonthlyCostOpener is the store call the month opener needs.
type MonthlyCostOpener interface {
	GetOrCreateMonthlyCost(ctx context.Context, ym string) (Models.MonthlyFixedCost, bool, error)
}

// MonthOpener creates the current month's blank fixed-cost row on a
// schedule, so the month shows as waiting for its fixed costs from day one.
type MonthOpener struct {
	cronScheduler  *cron.Cron
	store          MonthlyCostOpener
	schedule       string
	runImmediately bool
	jobID          cron.EntryID
	now            func() time.Time
}

// NewMonthOpener creates a month opener. schedule uses the six-field cron
// format with seconds, e.g. "0 5 0 1 * *" for 00:05 on the 1st.
func NewMonthOpener(store MonthlyCostOpener, schedule string, runImmediately bool) *MonthOpener {
	return &MonthOpener{
		cronScheduler:  cron.New(cron.WithSeconds()),
		store:          store,
		schedule:       schedule,
		runImmediately: runImmediately,
		now:            time.Now,
	}
}

// Start schedules the job and starts the scheduler.
func (m *MonthOpener) Start() error {
	schedule, err := scheduleParser.Parse(m.schedule)
	if err != nil {
		return fmt.Errorf("error scheduling month opener: %w", err)
	}
	m.jobID = m.cronScheduler.Schedule(schedule, cron.FuncJob(m.run))

	m.cronScheduler.Start()
	slog.Info("month opener scheduled", "schedule", m.schedule)

	if m.runImmediately {
		m.run()
	}
	return nil
}

// Stop terminates the scheduler and waits for a running job to finish.
func (m *MonthOpener) Stop() {
	if m.cronScheduler != nil {
		<-m.cronScheduler.Stop().Done()
		slog.Info("month opener stopped")
	}
}

// UpdateSchedule replaces the job's schedule. An invalid schedule leaves the
// current one running.
func (m *MonthOpener) UpdateSchedule(schedule string) error {
	parsed, err := scheduleParser.Parse(schedule)
	if err != nil {
		return fmt.Errorf("error updating month opener schedule: %w", err)
	}

	m.cronScheduler.Remove(m.jobID)
	m.jobID = m.cronScheduler.Schedule(parsed, cron.FuncJob(m.run))
	m.schedule = schedule
	slog.Info("month opener rescheduled", "schedule", schedule)
	return nil
}

// NextRun is when the job fires next, zero while not scheduled.
func (m *MonthOpener) NextRun() time.Time {
	return m.cronScheduler.Entry(m.jobID).Next
}

func (m *MonthOpener) run() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if _, err := m.OpenMonth(ctx); err != nil {
		slog.Error("month opener failed", "error", err)
	}
}

// OpenMonth makes sure the current month has a fixed-cost row and reports
// whether it had to create one.
func (m *MonthOpener) OpenMonth(ctx context.Context) (bool, error) {
	ym := m.now().Format(Models.YearMonthLayout)
	_, created, err := m.store.GetOrCreateMonthlyCost(ctx, ym)
	if err != nil {
		return false, fmt.Errorf("open month %s: %w", ym, err)
	}
	if created {
		slog.Info("opened month for fixed costs", "year_month", ym)
	}
	return created, nil
}
