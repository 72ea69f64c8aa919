package payrollrun

import (
	"testing"

	"github.com/stretchr/testify/assert"

	payrollrunerrors "go-payday/internal/payrollrun/errors"
	"go-payday/internal/rbac"
)

var allStatuses = []string{
	StatusDraft,
	StatusUnderReview,
	StatusWaitingManagerApproval,
	StatusWaitingFinanceApproval,
	StatusLocked,
	StatusPaid,
}

var allRoles = []string{rbac.RoleSpecialist, rbac.RoleManager, rbac.RoleFinance}

func TestResolveTransition_FullTable(t *testing.T) {
	type edge struct {
		action string
		from   string
		role   string
		to     string
	}
	allowed := []edge{
		{ActionSubmit, StatusDraft, rbac.RoleSpecialist, StatusUnderReview},
		{ActionPublish, StatusUnderReview, rbac.RoleSpecialist, StatusWaitingManagerApproval},
		{ActionManagerApprove, StatusWaitingManagerApproval, rbac.RoleManager, StatusWaitingFinanceApproval},
		{ActionManagerReject, StatusWaitingManagerApproval, rbac.RoleManager, StatusDraft},
		{ActionFinanceApprove, StatusWaitingFinanceApproval, rbac.RoleFinance, StatusLocked},
		{ActionFinanceReject, StatusWaitingFinanceApproval, rbac.RoleFinance, StatusDraft},
		{ActionMarkPaid, StatusLocked, rbac.RoleFinance, StatusPaid},
		{ActionUnfreeze, StatusLocked, rbac.RoleManager, StatusUnderReview},
		{ActionUnfreeze, StatusPaid, rbac.RoleManager, StatusUnderReview},
	}

	allowedSet := make(map[[3]string]string)
	for _, e := range allowed {
		allowedSet[[3]string{e.action, e.from, e.role}] = e.to
	}

	for action := range transitions {
		for _, from := range allStatuses {
			for _, role := range allRoles {
				to, err := resolveTransition(action, from, role)
				if want, ok := allowedSet[[3]string{action, from, role}]; ok {
					assert.NoError(t, err, "%s from %s as %s", action, from, role)
					assert.Equal(t, want, to)
					continue
				}
				assert.Error(t, err, "%s from %s as %s should be rejected", action, from, role)
			}
		}
	}
}

func TestResolveTransition_RoleCheckedBeforeState(t *testing.T) {
	// A manager approving a run still in draft has the right role but the
	// wrong state.
	_, err := resolveTransition(ActionManagerApprove, StatusDraft, rbac.RoleManager)
	assert.ErrorIs(t, err, payrollrunerrors.ErrInvalidTransition)

	// A specialist approving anything is a role mismatch, reported as
	// Forbidden regardless of state.
	_, err = resolveTransition(ActionManagerApprove, StatusDraft, rbac.RoleSpecialist)
	assert.ErrorIs(t, err, payrollrunerrors.ErrForbiddenTransition)
	_, err = resolveTransition(ActionManagerApprove, StatusWaitingManagerApproval, rbac.RoleSpecialist)
	assert.ErrorIs(t, err, payrollrunerrors.ErrForbiddenTransition)
}

func TestResolveTransition_UnknownAction(t *testing.T) {
	_, err := resolveTransition("escalate", StatusDraft, rbac.RoleManager)
	assert.ErrorIs(t, err, payrollrunerrors.ErrInvalidTransition)
}
