package kernel

import (
	"fmt"

	"courierpos/internal/pkg/errs"
)

// Role names a permission level carried by a request. Roles are resolved by
// the authentication layer before a request reaches the core; the core only
// inspects them.
type Role string

const (
	// RoleOperator is a POS counter clerk. Privileged financial actions by an
	// operator require a supervisor override.
	RoleOperator Role = "operator"

	// RoleSupervisor can approve overrides and perform gated actions directly.
	RoleSupervisor Role = "supervisor"

	// RoleBranchAdmin administers one branch and holds supervisor powers there.
	RoleBranchAdmin Role = "branch_admin"

	// RoleAdmin is the back-office administrator.
	RoleAdmin Role = "admin"
)

// Validate checks the role is one of the defined values.
func (r Role) Validate() error {
	switch r {
	case RoleOperator, RoleSupervisor, RoleBranchAdmin, RoleAdmin:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("role",
			fmt.Errorf("%q is not a valid role", string(r)))
	}
}

// IsElevated reports whether the role may approve supervisor overrides and
// bypass approval gates.
func (r Role) IsElevated() bool {
	return r == RoleSupervisor || r == RoleBranchAdmin || r == RoleAdmin
}

// Actor is the resolved identity of the request issuer: user id plus roles.
// It is passed explicitly into every core operation so the core never reaches
// for ambient authentication state.
type Actor struct {
	id    UUID
	roles []Role
}

// NewActor creates an Actor. At least one valid role is required.
func NewActor(id UUID, roles []Role) (Actor, error) {
	if err := id.Validate(); err != nil {
		return Actor{}, err
	}
	if len(roles) == 0 {
		return Actor{}, errs.NewValueIsRequiredError("roles")
	}
	for _, r := range roles {
		if err := r.Validate(); err != nil {
			return Actor{}, err
		}
	}
	copied := make([]Role, len(roles))
	copy(copied, roles)
	return Actor{id: id, roles: copied}, nil
}

// ID returns the user id.
func (a Actor) ID() UUID {
	return a.id
}

// Roles returns a copy of the actor's roles.
func (a Actor) Roles() []Role {
	copied := make([]Role, len(a.roles))
	copy(copied, a.roles)
	return copied
}

// HasRole reports whether the actor carries the given role.
func (a Actor) HasRole(role Role) bool {
	for _, r := range a.roles {
		if r == role {
			return true
		}
	}
	return false
}

// HasElevatedRole reports whether any of the actor's roles may approve
// overrides or bypass approval gates.
func (a Actor) HasElevatedRole() bool {
	for _, r := range a.roles {
		if r.IsElevated() {
			return true
		}
	}
	return false
}

// Validate ensures the actor was created via NewActor.
func (a Actor) Validate() error {
	if err := a.id.Validate(); err != nil {
		return err
	}
	if len(a.roles) == 0 {
		return errs.NewValueIsRequiredError("roles")
	}
	return nil
}
