package domain

// Principal kinds.
const (
	PrincipalAdmin   = "admin"
	PrincipalEnduser = "enduser"
)

// Principal is the authenticated actor attached to a request after token
// verification. It deliberately carries no role: admin roles are derived
// per tenant by the Access Guard.
type Principal struct {
	UserID int64
	Email  string
	Name   string
	Kind   string // PrincipalAdmin | PrincipalEnduser

	// TenantID is set for end users only: the tenant the session was issued for.
	TenantID int64
}

// AuthContext is what the pipeline hands to module handlers. Handlers scope
// every query by TenantID and never re-derive identity themselves.
type AuthContext struct {
	TenantID   int64
	TenantRole Role
	UserID     int64
}
