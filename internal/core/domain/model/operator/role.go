package operator

import (
	"fmt"
	"strings"

	"ordertracking/internal/pkg/errs"
)

// Role groups operators by physical sector and authority.
type Role int

const (
	UnknownRole Role = iota

	// System is the reconciliation actor. It has no credential code.
	System

	// Admin is the privileged office role.
	Admin

	// Preparation operators work in the cold room and prepare orders.
	Preparation

	// Dispatch operators hand prepared orders to carriers.
	Dispatch
)

var roleNames = map[Role]string{
	System:      "SYSTEM",
	Admin:       "ADMIN",
	Preparation: "PREPARATION",
	Dispatch:    "DISPATCH",
}

// MovementRoles are the roles allowed to create movements with a credential code.
func MovementRoles() []Role {
	return []Role{System, Admin, Preparation, Dispatch}
}

func ParseRole(raw string) (Role, error) {
	upper := strings.ToUpper(strings.TrimSpace(raw))
	for r, name := range roleNames {
		if name == upper {
			return r, nil
		}
	}
	return UnknownRole, errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a role", raw))
}

func (r Role) Validate() error {
	if _, ok := roleNames[r]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%d is not a role", r))
	}
	return nil
}

// IsPrivileged reports whether the role may perform any transition.
func (r Role) IsPrivileged() bool {
	return r == System || r == Admin
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "UNKNOWN"
}
