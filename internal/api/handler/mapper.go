package handler

import (
	"github.com/medqueue/clinic-auth/internal/core/domain"
)

// --- Principal → HTTP response ---

func toPrincipalResponse(p domain.Principal) principalResponse {
	switch v := p.(type) {
	case *domain.AdminPrincipal:
		return identityResponse(domain.KindAdmin, v.Identity)
	case *domain.UserPrincipal:
		r := identityResponse(domain.KindUser, v.Identity)
		r.Role = v.Role.String()
		return r
	}
	return principalResponse{}
}

func identityResponse(kind domain.PrincipalKind, id domain.Identity) principalResponse {
	r := principalResponse{
		ID:       id.ID,
		Kind:     string(kind),
		Email:    id.Email,
		IsActive: id.IsActive,
	}
	if id.LastLogin != nil {
		t := id.LastLogin.UTC()
		r.LastLogin = &t
	}
	return r
}
