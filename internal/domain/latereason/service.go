package latereason

import "context"

type LateReasonService interface {
	// Submit records a late-login reason for the calling employee.
	Submit(ctx context.Context, req SubmitReasonRequest) (ReasonResponse, error)

	// List returns reasons visible to the caller.
	List(ctx context.Context, filter ReasonFilter) ([]ReasonResponse, error)

	// Decide approves or rejects a reason (admin only).
	Decide(ctx context.Context, req DecideRequest) (ReasonResponse, error)
}
