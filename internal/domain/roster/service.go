package roster

import "context"

type RosterService interface {
	// GetRoster builds the roster and applies the search and status filters.
	GetRoster(ctx context.Context, filter RosterFilter) (RosterResponse, error)

	// GetSummary counts roster rows per status.
	GetSummary(ctx context.Context) (SummaryResponse, error)

	// Refresh rebuilds the known-good roster.
	Refresh(ctx context.Context) error
}
