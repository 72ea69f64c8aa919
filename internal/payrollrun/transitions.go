package payrollrun

import (
	payrollrunerrors "go-payday/internal/payrollrun/errors"
	"go-payday/internal/rbac"
)

// Transition actions. Each maps to exactly one edge in the approval
// pipeline.
const (
	ActionSubmit         = "submit"
	ActionPublish        = "publish"
	ActionManagerApprove = "manager-approve"
	ActionManagerReject  = "manager-reject"
	ActionFinanceApprove = "finance-approve"
	ActionFinanceReject  = "finance-reject"
	ActionMarkPaid       = "mark-paid"
	ActionUnfreeze       = "unfreeze"
)

type transition struct {
	from  []string
	to    string
	roles []string
}

// The complete edge table. Any (action, state, role) triple not present
// here is rejected; nothing else mutates a run's status.
var transitions = map[string]transition{
	ActionSubmit: {
		from:  []string{StatusDraft},
		to:    StatusUnderReview,
		roles: []string{rbac.RoleSpecialist},
	},
	ActionPublish: {
		from:  []string{StatusUnderReview},
		to:    StatusWaitingManagerApproval,
		roles: []string{rbac.RoleSpecialist},
	},
	ActionManagerApprove: {
		from:  []string{StatusWaitingManagerApproval},
		to:    StatusWaitingFinanceApproval,
		roles: []string{rbac.RoleManager},
	},
	ActionManagerReject: {
		from:  []string{StatusWaitingManagerApproval},
		to:    StatusDraft,
		roles: []string{rbac.RoleManager},
	},
	ActionFinanceApprove: {
		from:  []string{StatusWaitingFinanceApproval},
		to:    StatusLocked,
		roles: []string{rbac.RoleFinance},
	},
	ActionFinanceReject: {
		from:  []string{StatusWaitingFinanceApproval},
		to:    StatusDraft,
		roles: []string{rbac.RoleFinance},
	},
	ActionMarkPaid: {
		from:  []string{StatusLocked},
		to:    StatusPaid,
		roles: []string{rbac.RoleFinance},
	},
	ActionUnfreeze: {
		from:  []string{StatusLocked, StatusPaid},
		to:    StatusUnderReview,
		roles: []string{rbac.RoleManager},
	},
}

// resolveTransition checks the actor's role before the run's state: an
// unauthorized caller gets Forbidden even when the run also happens to be
// in the wrong state.
func resolveTransition(action, currentStatus, role string) (string, error) {
	tr, ok := transitions[action]
	if !ok {
		return "", payrollrunerrors.ErrInvalidTransition
	}

	roleOK := false
	for _, r := range tr.roles {
		if r == role {
			roleOK = true
			break
		}
	}
	if !roleOK {
		return "", payrollrunerrors.ErrForbiddenTransition
	}

	for _, from := range tr.from {
		if from == currentStatus {
			return tr.to, nil
		}
	}
	return "", payrollrunerrors.ErrInvalidTransition
}
