package domain

import "fmt"

// CheckActive denies absent or deactivated principals.
func CheckActive(p Principal) error {
	if p == nil {
		return ErrUnauthenticated
	}
	if !p.Active() {
		return ErrAccountInactive
	}
	return nil
}

// CheckRole reports whether p satisfies min. Administrators pass every role
// check regardless of the user hierarchy.
func CheckRole(p Principal, min Role) error {
	if err := CheckActive(p); err != nil {
		return err
	}
	switch v := p.(type) {
	case *AdminPrincipal:
		return nil
	case *UserPrincipal:
		if v.Role.AtLeast(min) {
			return nil
		}
		return fmt.Errorf("%w: %s below %s", ErrInsufficientRole, v.Role, min)
	default:
		return ErrUnauthenticated
	}
}

// CheckSelfOrAdmin allows p to act on targetID when it owns that id or is
// an administrator.
func CheckSelfOrAdmin(p Principal, targetID int64) error {
	if err := CheckActive(p); err != nil {
		return err
	}
	switch v := p.(type) {
	case *AdminPrincipal:
		return nil
	case *UserPrincipal:
		if v.ID == targetID {
			return nil
		}
		return fmt.Errorf("%w: principal %d cannot act on %d", ErrInsufficientRole, v.ID, targetID)
	default:
		return ErrUnauthenticated
	}
}
