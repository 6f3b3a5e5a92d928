package latereason

import "context"

type LateReasonRepository interface {
	Create(ctx context.Context, reason LateLoginReason) (LateLoginReason, error)
	// List returns reasons newest first. An empty employeeID lists everyone's.
	List(ctx context.Context, employeeID string, state *ApprovalState) ([]LateLoginReason, error)
	// SetDecision returns ErrReasonNotFound for an unknown id.
	SetDecision(ctx context.Context, id string, approved bool, decidedBy string) (LateLoginReason, error)
}
