package shared

import "context"

// Role names recognised by the authorization layer.
const (
	RoleSuperAdmin = "SuperAdmin"
	RoleAdmin      = "Admin"
	RoleManager    = "Manager"
	RoleCustomer   = "Customer"
)

// Claims carries the authenticated caller identity through the request context.
type Claims struct {
	AdminID  int64
	Username string
	Role     string
}

type claimsContextKey struct{}

// ContextWithClaims stores the caller claims in context.
func ContextWithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey{}, claims)
}

// ClaimsFromContext extracts the caller claims from context, nil when anonymous.
func ClaimsFromContext(ctx context.Context) *Claims {
	claims, _ := ctx.Value(claimsContextKey{}).(*Claims)
	return claims
}
