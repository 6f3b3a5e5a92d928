package upstream

import (
	"context"
	"net/http"
	"net/url"
	"sort"

	"github.com/cmlabs-hris/attendance-portal/internal/domain/latereason"
)

// LateReasonGateway implements latereason.LateReasonRepository over the upstream API.
type LateReasonGateway struct {
	*Client
}

func NewLateReasonGateway(c *Client) *LateReasonGateway {
	return &LateReasonGateway{Client: c}
}

type lateReasonJSON struct {
	ID           flexID  `json:"id"`
	Employee     flexID  `json:"employee"`
	EmployeeName *string `json:"employee_name"`
	LoginTime    *string `json:"login_time"`
	ExpectedTime *string `json:"expected_time"`
	Reason       string  `json:"reason"`
	IsApproved   *bool   `json:"is_approved"`
	ApprovedBy   *flexID `json:"approved_by"`
	CreatedAt    *string `json:"created_at"`
	UpdatedAt    *string `json:"updated_at"`
}

type submitReasonJSON struct {
	Reason       string  `json:"reason"`
	ExpectedTime *string `json:"expected_time,omitempty"`
}

func (g *LateReasonGateway) toReason(r lateReasonJSON) latereason.LateLoginReason {
	reason := latereason.LateLoginReason{
		ID:            string(r.ID),
		EmployeeID:    string(r.Employee),
		EmployeeName:  r.EmployeeName,
		ReasonText:    r.Reason,
		LoginTime:     g.parseTime(r.LoginTime),
		ExpectedTime:  r.ExpectedTime,
		ApprovalState: latereason.StateFromNullable(r.IsApproved),
	}
	if created := g.parseTime(r.CreatedAt); created != nil {
		reason.SubmittedAt = *created
	}
	if r.ApprovedBy != nil && *r.ApprovedBy != "" {
		decidedBy := string(*r.ApprovedBy)
		reason.DecidedBy = &decidedBy
		reason.DecidedAt = g.parseTime(r.UpdatedAt)
	}
	return reason
}

// Create submits a reason as the caller identified by the context token.
func (g *LateReasonGateway) Create(ctx context.Context, r latereason.LateLoginReason) (latereason.LateLoginReason, error) {
	var out lateReasonJSON
	body := submitReasonJSON{Reason: r.ReasonText, ExpectedTime: r.ExpectedTime}
	if err := g.do(ctx, "submit late login reason", http.MethodPost, "/api/late-login-reasons/", nil, body, &out); err != nil {
		return latereason.LateLoginReason{}, err
	}
	created := g.toReason(out)
	if created.EmployeeID == "" {
		created.EmployeeID = r.EmployeeID
	}
	return created, nil
}

// List fetches reasons and filters by employee and state locally.
func (g *LateReasonGateway) List(ctx context.Context, employeeID string, state *latereason.ApprovalState) ([]latereason.LateLoginReason, error) {
	query := url.Values{}
	if employeeID != "" {
		query.Set("employee_id", employeeID)
	}

	var items []lateReasonJSON
	if err := g.do(ctx, "list late login reasons", http.MethodGet, "/api/late-login-reasons/", query, nil, &items); err != nil {
		return nil, err
	}

	reasons := make([]latereason.LateLoginReason, 0, len(items))
	for _, item := range items {
		r := g.toReason(item)
		if employeeID != "" && r.EmployeeID != employeeID {
			continue
		}
		if state != nil && r.ApprovalState != *state {
			continue
		}
		reasons = append(reasons, r)
	}
	sort.SliceStable(reasons, func(i, j int) bool {
		return reasons[i].SubmittedAt.After(reasons[j].SubmittedAt)
	})
	return reasons, nil
}

// SetDecision posts an approve/reject decision. A 404 maps to ErrReasonNotFound.
func (g *LateReasonGateway) SetDecision(ctx context.Context, id string, approved bool, decidedBy string) (latereason.LateLoginReason, error) {
	var out lateReasonJSON
	body := map[string]bool{"approved": approved}
	err := g.do(ctx, "decide late login reason", http.MethodPost, "/api/late-login-reasons/"+url.PathEscape(id)+"/approve/", nil, body, &out)
	if err != nil {
		if statusCode(err) == http.StatusNotFound {
			return latereason.LateLoginReason{}, latereason.ErrReasonNotFound
		}
		return latereason.LateLoginReason{}, err
	}

	decided := g.toReason(out)
	if decided.ID == "" {
		// some deployments answer with {"status": "..."} only
		decided.ID = id
		decided.ApprovalState = latereason.StateFromNullable(&approved)
	}
	if decided.DecidedBy == nil && decidedBy != "" {
		decided.DecidedBy = &decidedBy
	}
	return decided, nil
}
