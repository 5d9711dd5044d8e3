package workflow

import (
	"testing"

	"removal-backend/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestCanAct(t *testing.T) {
	allStatuses := []string{
		model.StatusDraft,
		model.StatusPendingHOD,
		model.StatusPendingFinance,
		model.StatusPendingMOD,
		model.StatusPendingSecurity,
		model.StatusApproved,
		model.StatusRejected,
	}

	// The full role → actionable-statuses table.
	expected := map[string][]string{
		model.RoleEmployee: {},
		model.RoleHOD:      {model.StatusPendingHOD},
		model.RoleFinance:  {model.StatusPendingFinance},
		model.RoleMOD:      {model.StatusPendingMOD},
		model.RoleSecurity: {model.StatusPendingSecurity},
		model.RoleAdmin: {
			model.StatusPendingHOD,
			model.StatusPendingFinance,
			model.StatusPendingMOD,
			model.StatusPendingSecurity,
		},
	}

	for role, actionable := range expected {
		allowed := make(map[string]bool, len(actionable))
		for _, s := range actionable {
			allowed[s] = true
		}
		for _, status := range allStatuses {
			assert.Equal(t, allowed[status], CanAct(role, status),
				"role %s acting on %s", role, status)
		}
	}
}

func TestCanAct_TotalOverUnknownInputs(t *testing.T) {
	assert.False(t, CanAct("INTERN", model.StatusPendingHOD))
	assert.False(t, CanAct(model.RoleHOD, "PENDING_NOWHERE"))
	assert.False(t, CanAct("", ""))
}
