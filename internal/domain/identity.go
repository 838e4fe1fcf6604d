package domain

import (
	"strings"
	"time"
)

// Role enumerates access levels.
type Role string

const (
	RoleAdmin       Role = "ADMIN"
	RoleManager     Role = "MANAGER"
	RoleSeniorStaff Role = "SENIOR_STAFF"
	RoleStaff       Role = "STAFF"
	RoleViewer      Role = "VIEWER"
)

// Permission strings checked by the session controller.
const (
	PermAll              = "all"
	PermViewAll          = "view_all"
	PermViewAssigned     = "view_assigned"
	PermEditAll          = "edit_all"
	PermEditAssigned     = "edit_assigned"
	PermCreateEnquiry    = "create_enquiry"
	PermViewReports      = "view_reports"
	PermViewBasicReports = "view_basic_reports"
	PermManageStaff      = "manage_staff"
)

// RoleInfo describes a role and the permissions it grants.
type RoleInfo struct {
	Role        Role     `json:"role"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Permissions []string `json:"permissions"`
}

var roleTable = map[Role]RoleInfo{
	RoleAdmin: {
		Role:        RoleAdmin,
		Name:        "Admin",
		Description: "Full system access",
		Permissions: []string{PermAll},
	},
	RoleManager: {
		Role:        RoleManager,
		Name:        "Manager",
		Description: "Can manage all enquiries and view reports",
		Permissions: []string{PermViewAll, PermEditAll, PermCreateEnquiry, PermViewReports, PermManageStaff},
	},
	RoleSeniorStaff: {
		Role:        RoleSeniorStaff,
		Name:        "Senior Staff",
		Description: "Can view all enquiries, edit assigned ones",
		Permissions: []string{PermViewAll, PermEditAssigned, PermCreateEnquiry, PermViewBasicReports},
	},
	RoleStaff: {
		Role:        RoleStaff,
		Name:        "Staff",
		Description: "Can only access assigned enquiries",
		Permissions: []string{PermViewAssigned, PermEditAssigned, PermCreateEnquiry},
	},
	RoleViewer: {
		Role:        RoleViewer,
		Name:        "Viewer",
		Description: "Read-only access to assigned enquiries",
		Permissions: []string{PermViewAssigned},
	},
}

// LookupRole returns the table entry for r.
func LookupRole(r Role) (RoleInfo, bool) {
	info, ok := roleTable[r]
	if !ok {
		return RoleInfo{}, false
	}
	info.Permissions = append([]string(nil), info.Permissions...)
	return info, true
}

// Valid reports whether r exists in the permission table.
func (r Role) Valid() bool {
	_, ok := roleTable[r]
	return ok
}

// Permissions returns the permission set of r; unknown roles have none.
func (r Role) Permissions() []string {
	info, ok := LookupRole(r)
	if !ok {
		return nil
	}
	return info.Permissions
}

// Grants reports whether r holds perm, directly or through "all".
func (r Role) Grants(perm string) bool {
	for _, p := range roleTable[r].Permissions {
		if p == PermAll || p == perm {
			return true
		}
	}
	return false
}

// Identity is an authenticated user record.
type Identity struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Role      Role      `json:"role"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// MatchesEmail compares emails case-insensitively.
func (i Identity) MatchesEmail(email string) bool {
	return strings.EqualFold(strings.TrimSpace(i.Email), strings.TrimSpace(email))
}

// MatchesPhone compares phones after normalisation.
func (i Identity) MatchesPhone(phone string) bool {
	n := NormalizePhone(phone)
	return n != "" && NormalizePhone(i.Phone) == n
}
