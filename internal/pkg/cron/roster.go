package cron

import (
	"context"
	"log/slog"
	"time"
)

// RosterRefresher rebuilds the admin roster and remembers it as known-good.
type RosterRefresher interface {
	Refresh(ctx context.Context) error
}

type RosterJobs struct {
	roster  RosterRefresher
	timeout time.Duration
}

func NewRosterJobs(roster RosterRefresher, timeout time.Duration) *RosterJobs {
	return &RosterJobs{roster: roster, timeout: timeout}
}

func (j *RosterJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	scheduler.AddJob("refresh_roster", interval, j.RefreshRoster)
}

// RefreshRoster rebuilds the roster, bounded by the job timeout when set.
func (j *RosterJobs) RefreshRoster(ctx context.Context) error {
	if j.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.timeout)
		defer cancel()
	}

	if err := j.roster.Refresh(ctx); err != nil {
		return err
	}
	slog.Debug("Cron: Roster refreshed")
	return nil
}
