package shared

import "context"

// Principal is the authenticated actor decoded from a capability token.
// Every downstream authorization decision trusts its embedded feature set
// without re-querying the database.
type Principal struct {
	UserID     int64
	ClientID   int64
	StoreID    int64
	Role       string
	Name       string
	Features   []string
	PlanActive bool
}

// HasFeature reports whether the principal holds the given feature key.
func (p *Principal) HasFeature(feature string) bool {
	if p == nil {
		return false
	}
	for _, f := range p.Features {
		if f == feature {
			return true
		}
	}
	return false
}

type principalContextKey struct{}

// ContextWithPrincipal stores the principal in context.
func ContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, p)
}

// PrincipalFromContext extracts the principal from context.
func PrincipalFromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalContextKey{}).(*Principal)
	return p
}
