// Package authz decides whether an authenticated caller may act on a
// person-owned resource. One authorizer exists per backend mode, selected
// once at startup.
package authz

import (
	"context"

	"github.com/fittrack/fittrack/internal/auth"
)

// Mode is the backend operating mode.
type Mode string

const (
	// ModeDemo runs without a persistent backend; every caller is
	// authorized and writes are ephemeral.
	ModeDemo Mode = "demo"

	// ModeSingleTenant runs against SQLite with a single-household
	// assumption: any authenticated caller may act on any record.
	ModeSingleTenant Mode = "single_tenant"

	// ModeMultiTenant runs against Postgres with households as tenant
	// boundaries.
	ModeMultiTenant Mode = "multi_tenant"
)

// Decision represents an authorization decision.
type Decision struct {
	// Allowed indicates if the action is allowed.
	Allowed bool

	// Reason explains a denial.
	Reason string
}

// Authorizer verifies a caller's right to act on a resource owned by a
// household.
type Authorizer interface {
	// AuthorizePerson decides whether the caller may act on a resource
	// belonging to ownerHouseholdID.
	AuthorizePerson(ctx context.Context, ac *auth.Context, ownerHouseholdID string) Decision
}

// ForMode returns the authorizer for the given backend mode.
func ForMode(mode Mode) Authorizer {
	switch mode {
	case ModeMultiTenant:
		return householdAuthorizer{}
	case ModeSingleTenant:
		return singleTenantAuthorizer{}
	default:
		return demoAuthorizer{}
	}
}

// demoAuthorizer always allows: there is no identity to scope by.
type demoAuthorizer struct{}

func (demoAuthorizer) AuthorizePerson(ctx context.Context, ac *auth.Context, ownerHouseholdID string) Decision {
	return Decision{Allowed: true}
}

// singleTenantAuthorizer allows any authenticated caller.
type singleTenantAuthorizer struct{}

func (singleTenantAuthorizer) AuthorizePerson(ctx context.Context, ac *auth.Context, ownerHouseholdID string) Decision {
	if ac == nil || !ac.Authenticated {
		return Decision{Reason: "authentication required"}
	}
	return Decision{Allowed: true}
}

// householdAuthorizer allows only callers whose household owns the resource.
type householdAuthorizer struct{}

func (householdAuthorizer) AuthorizePerson(ctx context.Context, ac *auth.Context, ownerHouseholdID string) Decision {
	if ac == nil || !ac.Authenticated {
		return Decision{Reason: "authentication required"}
	}
	if ac.HouseholdID == "" || ac.HouseholdID != ownerHouseholdID {
		return Decision{Reason: "resource belongs to another household"}
	}
	return Decision{Allowed: true}
}
