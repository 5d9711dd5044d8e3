package workflow

import "removal-backend/internal/model"

// actionableStatuses is the full authorization policy: which request
// statuses each role may decide on. Adding a role or stage is a table
// edit, not a logic change.
var actionableStatuses = map[string][]string{
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

// CanAct reports whether a holder of role may approve or reject a request
// currently in status. Total over all inputs: unknown roles or statuses
// simply yield false.
func CanAct(role, status string) bool {
	for _, s := range actionableStatuses[role] {
		if s == status {
			return true
		}
	}
	return false
}
