package scheduler

import (
	"context"
	"sync"
	"time"

	"NewsIntel/internal/ports"
)

// DailyScheduler fires the job once a day at the configured local time.
type DailyScheduler struct {
	hour     int
	minute   int
	location *time.Location

	mu   sync.Mutex
	stop chan struct{}
}

var _ ports.Scheduler = (*DailyScheduler)(nil)

// NewDailyScheduler builds a scheduler for hour:minute in loc.
func NewDailyScheduler(hour, minute int, loc *time.Location) *DailyScheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &DailyScheduler{hour: hour, minute: minute, location: loc}
}

// Start launches the firing loop. Idempotent while running.
func (d *DailyScheduler) Start(ctx context.Context, job func(time.Time)) error {
	if job == nil {
		return nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stop != nil {
		return nil
	}

	// The goroutine holds its own reference: Stop may nil the field while
	// the loop is still selecting.
	stop := make(chan struct{})
	d.stop = stop
	go func() {
		for {
			timer := time.NewTimer(time.Until(d.next(time.Now())))
			select {
			case t := <-timer.C:
				job(t)
			case <-ctx.Done():
				timer.Stop()
				return
			case <-stop:
				timer.Stop()
				return
			}
		}
	}()

	return nil
}

// Stop halts the firing loop.
func (d *DailyScheduler) Stop(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stop == nil {
		return nil
	}
	close(d.stop)
	d.stop = nil
	return nil
}

func (d *DailyScheduler) next(now time.Time) time.Time {
	local := now.In(d.location)
	fire := time.Date(local.Year(), local.Month(), local.Day(),
		d.hour, d.minute, 0, 0, d.location)
	if !fire.After(local) {
		fire = fire.Add(24 * time.Hour)
	}
	return fire
}
