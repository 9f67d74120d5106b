package cont

import (
	"context"

	"StorePing/entity"
)

type ctxKey int

const tenantKey ctxKey = iota

// PutTenant stores the authenticated tenant on the request context.
func PutTenant(ctx context.Context, tenant *entity.Tenant) context.Context {
	return context.WithValue(ctx, tenantKey, tenant)
}

// GetTenant returns the tenant placed by the auth middleware, or nil.
func GetTenant(ctx context.Context) *entity.Tenant {
	tenant, _ := ctx.Value(tenantKey).(*entity.Tenant)
	return tenant
}
