package roster

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/attendance-portal/internal/domain/roster"
	"github.com/cmlabs-hris/attendance-portal/internal/pkg/apperror"
	attendanceService "github.com/cmlabs-hris/attendance-portal/internal/service/attendance"
	"golang.org/x/sync/errgroup"
)

// BuildResult is the outcome of one roster build.
type BuildResult struct {
	Rows    []roster.EmployeeView
	BuiltAt time.Time
	// Stale is true when Rows is the last known-good roster.
	Stale bool
	// Partial holds the snapshot error when rows were built from identities alone.
	Partial error
}

type RosterServiceImpl struct {
	identities roster.IdentityRepository
	snapshots  roster.AttendanceSnapshotRepository
	policy     attendanceService.Policy
	clock      attendanceService.Clock

	mu        sync.RWMutex
	lastGood  []roster.EmployeeView
	lastBuilt time.Time
}

func NewRosterService(identities roster.IdentityRepository, snapshots roster.AttendanceSnapshotRepository, policy attendanceService.Policy, clock attendanceService.Clock) *RosterServiceImpl {
	if clock == nil {
		clock = time.Now
	}
	return &RosterServiceImpl{
		identities: identities,
		snapshots:  snapshots,
		policy:     policy,
		clock:      clock,
	}
}

// Build fetches identities and today's snapshot concurrently and merges them.
// A snapshot failure degrades every row to identity fallbacks. An identity
// failure returns the last known-good roster, if one exists, with the error.
func (s *RosterServiceImpl) Build(ctx context.Context) (BuildResult, error) {
	var (
		identities []roster.Identity
		snapshot   []roster.TodayAttendance
		snapErr    error
	)

	// An identity failure cancels the snapshot fetch. A snapshot failure is
	// tolerated and only recorded.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.identities.ListEmployees(gctx)
		if err != nil {
			return err
		}
		identities = rows
		return nil
	})
	g.Go(func() error {
		snapshot, snapErr = s.snapshots.ListToday(gctx)
		return nil
	})

	if idErr := g.Wait(); idErr != nil {
		slog.Error("Failed to fetch employee list", "error", idErr)
		err := fmt.Errorf("%w: %w", roster.ErrIdentitiesUnavailable, idErr)

		rows, builtAt, ok := s.knownGood()
		if !ok {
			return BuildResult{Rows: []roster.EmployeeView{}}, err
		}
		return BuildResult{Rows: rows, BuiltAt: builtAt, Stale: true}, err
	}

	byEmployee := make(map[string]*roster.TodayAttendance, len(snapshot))
	if snapErr != nil {
		slog.Warn("Failed to fetch today's attendance, using identity fallbacks", "error", snapErr)
		snapErr = fmt.Errorf("%w: %w", roster.ErrSnapshotUnavailable, snapErr)
	} else {
		for i := range snapshot {
			byEmployee[snapshot[i].EmployeeID] = &snapshot[i]
		}
	}

	rows := make([]roster.EmployeeView, 0, len(identities))
	for _, identity := range identities {
		rows = append(rows, MergeEmployeeWithAttendance(s.policy, identity, byEmployee[identity.ID]))
	}

	builtAt := s.clock()
	if snapErr == nil {
		s.remember(rows, builtAt)
	}

	return BuildResult{Rows: rows, BuiltAt: builtAt, Partial: snapErr}, nil
}

func (s *RosterServiceImpl) knownGood() ([]roster.EmployeeView, time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastGood == nil {
		return nil, time.Time{}, false
	}
	rows := make([]roster.EmployeeView, len(s.lastGood))
	copy(rows, s.lastGood)
	return rows, s.lastBuilt, true
}

func (s *RosterServiceImpl) remember(rows []roster.EmployeeView, builtAt time.Time) {
	kept := make([]roster.EmployeeView, len(rows))
	copy(kept, rows)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastGood = kept
	s.lastBuilt = builtAt
}

// GetRoster implements roster.RosterService.
func (s *RosterServiceImpl) GetRoster(ctx context.Context, filter roster.RosterFilter) (roster.RosterResponse, error) {
	result, err := s.Build(ctx)
	if err != nil && !result.Stale {
		return roster.RosterResponse{}, err
	}

	rows := Filter(result.Rows, filter.Search, filter.Status)
	resp := roster.RosterResponse{
		Employees: rows,
		Total:     len(rows),
		Stale:     result.Stale,
	}
	if !result.BuiltAt.IsZero() {
		resp.BuiltAt = result.BuiltAt.In(s.policy.Location()).Format(time.RFC3339)
	}

	switch {
	case err != nil:
		resp.Warning = "Showing the last known roster: " + apperror.UserMessage(err)
	case result.Partial != nil:
		resp.Warning = apperror.UserMessage(result.Partial)
	}

	return resp, nil
}

// GetSummary implements roster.RosterService.
func (s *RosterServiceImpl) GetSummary(ctx context.Context) (roster.SummaryResponse, error) {
	result, err := s.Build(ctx)
	if err != nil && !result.Stale {
		return roster.SummaryResponse{}, err
	}
	return Summary(result.Rows), nil
}

// Refresh implements roster.RosterService.
func (s *RosterServiceImpl) Refresh(ctx context.Context) error {
	result, err := s.Build(ctx)
	if err != nil {
		return err
	}
	if result.Partial != nil {
		return result.Partial
	}
	slog.Debug("Roster refreshed", "employees", len(result.Rows))
	return nil
}

var _ roster.RosterService = (*RosterServiceImpl)(nil)

