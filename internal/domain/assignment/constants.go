package assignment

const (
	RolePrimary   = "primary"
	RoleSecondary = "secondary"
)

// Roles lists every evaluator role in line order.
var Roles = []string{RolePrimary, RoleSecondary}

func lineDefaults(role string) (order int, required bool) {
	if role == RolePrimary {
		return 1, true
	}
	return 2, false
}
