// Package access holds the static role→permission tables.
//
// This is a fixed lookup, not a policy engine: no wildcards, no role
// hierarchy, no permission inheritance. Unknown or unresolved roles fall
// back to a safe default so a cashier terminal stays usable even when the
// role row is missing.
package access

import "github.com/snackhub/api/internal/enum"

// Navigation item names, as rendered by the admin client.
const (
	NavDashboard = "Dashboard"
	NavRoles     = "Roles"
	NavUsers     = "Users"
	NavProducts  = "Products"
	NavPOS       = "POS"
	NavFeedbacks = "Feedbacks"
)

// navByRole maps a role name to the navigation items it may see.
var navByRole = map[string][]string{
	enum.RoleAdmin:   {NavDashboard, NavRoles, NavUsers, NavProducts, NavPOS, NavFeedbacks},
	enum.RoleManager: {NavDashboard, NavProducts, NavPOS, NavFeedbacks},
	enum.RoleCashier: {NavDashboard, NavPOS},
}

// defaultNav is what a user with no resolvable role sees.
var defaultNav = []string{NavDashboard, NavPOS}

// NavItems returns the navigation items visible to the given role name.
// The returned slice is a copy; callers may not mutate the table.
func NavItems(roleName string) []string {
	items, ok := navByRole[roleName]
	if !ok {
		items = defaultNav
	}
	out := make([]string, len(items))
	copy(out, items)
	return out
}

// Route allow-lists. These gate mutation endpoints independently of the
// navigation table above.
var (
	RolesAdmin        = []string{enum.RoleAdmin}
	RolesAdminManager = []string{enum.RoleAdmin, enum.RoleManager}
)
