package domain

// Role is the per-tenant role from admin_user_tenants. Closed enum:
// unknown values rank below viewer and never satisfy any requirement.
type Role string

const (
	RoleViewer Role = "viewer"
	RoleEditor Role = "editor"
	RoleAdmin  Role = "admin"

	// RoleAny as a minimum requirement means "any grant on the tenant".
	RoleAny Role = ""
)

var roleRank = map[Role]int{
	RoleViewer: 1,
	RoleEditor: 2,
	RoleAdmin:  3,
}

func (r Role) Valid() bool {
	return roleRank[r] > 0
}

// AtLeast reports whether r satisfies the minimum role min.
// viewer < editor < admin; an invalid r never satisfies anything.
func (r Role) AtLeast(min Role) bool {
	if !r.Valid() {
		return false
	}
	if min == RoleAny {
		return true
	}
	return roleRank[r] >= roleRank[min]
}
