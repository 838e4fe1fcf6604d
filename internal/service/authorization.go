package service

import (
	"github.com/spec-kit/decor-manager/internal/domain"
)

// HasPermission reports whether the current identity's role grants perm.
func (s *Session) HasPermission(perm string) bool {
	identity, ok := s.Current()
	if !ok {
		return false
	}
	return identity.Role.Grants(perm)
}

// CanAccess decides whether the current identity may see record.
func (s *Session) CanAccess(record domain.Enquiry) bool {
	return CanAccess(s.identityOrNil(), record)
}

// Permissions lists the current identity's permissions.
func (s *Session) Permissions() []string {
	identity, ok := s.Current()
	if !ok {
		return nil
	}
	return identity.Role.Permissions()
}

// RoleInfo returns the display entry of the current identity's role.
func (s *Session) RoleInfo() (domain.RoleInfo, bool) {
	identity, ok := s.Current()
	if !ok {
		return domain.RoleInfo{}, false
	}
	return domain.LookupRole(identity.Role)
}

func (s *Session) identityOrNil() *domain.Identity {
	identity, _ := s.Current()
	return identity
}

// CanAccess applies the record visibility rule for identity. A nil identity sees nothing.
func CanAccess(identity *domain.Identity, record domain.Enquiry) bool {
	if identity == nil {
		return false
	}
	role := identity.Role
	switch {
	case role.Grants(domain.PermViewAll):
		return true
	case role.Grants(domain.PermViewAssigned):
		return record.Manager == identity.Name
	default:
		return false
	}
}
