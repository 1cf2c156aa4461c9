package domain

import (
	"fmt"
	"strings"
)

// Role is a tier in the user hierarchy. The zero value is RoleUnknown,
// which ranks below every real role so unrecognised data never grants access.
type Role int

const (
	RoleUnknown Role = iota
	RoleUser
	RoleReceptionist
	RoleDoctor
	RoleAdmin
)

// Roles lists every assignable role in ascending rank.
var Roles = []Role{RoleUser, RoleReceptionist, RoleDoctor, RoleAdmin}

var roleNames = map[Role]string{
	RoleUser:         "user",
	RoleReceptionist: "receptionist",
	RoleDoctor:       "doctor",
	RoleAdmin:        "admin",
}

// Rank returns the position of r in the hierarchy.
func (r Role) Rank() int {
	if _, ok := roleNames[r]; !ok {
		return 0
	}
	return int(r)
}

// AtLeast reports whether r ranks at or above min. It is the only role
// comparison used for authorization.
func (r Role) AtLeast(min Role) bool {
	return r.Rank() > 0 && r.Rank() >= min.Rank()
}

// Valid reports whether r is one of the assignable roles.
func (r Role) Valid() bool {
	return r.Rank() > 0
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "unknown"
}

// ParseRole maps a stored or requested role name onto the enum.
func ParseRole(s string) (Role, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for role, name := range roleNames {
		if name == key {
			return role, nil
		}
	}
	return RoleUnknown, fmt.Errorf("unknown role %q", s)
}

// MarshalText renders the role by name so JSON payloads never expose ranks.
func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText accepts any name ParseRole does.
func (r *Role) UnmarshalText(b []byte) error {
	role, err := ParseRole(string(b))
	if err != nil {
		return err
	}
	*r = role
	return nil
}
