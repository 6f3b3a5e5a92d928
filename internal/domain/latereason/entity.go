package latereason

import "time"

// ApprovalState is the moderation state of a late-login reason.
// On the wire it is a nullable boolean: null, true or false.
type ApprovalState string

const (
	StatePending  ApprovalState = "pending"
	StateApproved ApprovalState = "approved"
	StateRejected ApprovalState = "rejected"
)

func (s ApprovalState) IsValid() bool {
	return s == StatePending || s == StateApproved || s == StateRejected
}

// Label is the display text used next to the reason.
func (s ApprovalState) Label() string {
	switch s {
	case StateApproved:
		return "Approved"
	case StateRejected:
		return "Not Approved"
	}
	return "Pending"
}

// Nullable converts s to its wire form.
func (s ApprovalState) Nullable() *bool {
	switch s {
	case StateApproved:
		v := true
		return &v
	case StateRejected:
		v := false
		return &v
	}
	return nil
}

func StateFromNullable(approved *bool) ApprovalState {
	if approved == nil {
		return StatePending
	}
	if *approved {
		return StateApproved
	}
	return StateRejected
}

// LateLoginReason is created by an employee and decided by an administrator.
// Records are never deleted.
type LateLoginReason struct {
	ID            string
	EmployeeID    string
	EmployeeName  *string
	ReasonText    string
	LoginTime     *time.Time
	ExpectedTime  *string // "HH:MM:SS"
	SubmittedAt   time.Time
	ApprovalState ApprovalState
	DecidedBy     *string
	DecidedAt     *time.Time
}
