package domain

import "time"

type UserRole string

const (
	RoleAdmin          UserRole = "admin"
	RoleDesigner       UserRole = "designer"
	RoleProjectManager UserRole = "project_manager"
	RoleCustomer       UserRole = "customer"
)

// Permission names consulted before mutating operations.
const (
	PermLeadsView     = "leads.view"
	PermLeadsEdit     = "leads.edit"
	PermLeadsAssign   = "leads.assign"
	PermLeadsConvert  = "leads.convert"
	PermProjectsView  = "projects.view"
	PermProjectsEdit  = "projects.edit"
	PermAnalyticsView = "analytics.view"
)

var rolePermissions = map[UserRole]map[string]bool{
	RoleAdmin: {
		PermLeadsView: true, PermLeadsEdit: true, PermLeadsAssign: true, PermLeadsConvert: true,
		PermProjectsView: true, PermProjectsEdit: true, PermAnalyticsView: true,
	},
	RoleProjectManager: {
		PermLeadsView: true, PermLeadsEdit: true, PermLeadsAssign: true, PermLeadsConvert: true,
		PermProjectsView: true, PermProjectsEdit: true, PermAnalyticsView: true,
	},
	RoleDesigner: {
		PermLeadsView: true, PermProjectsView: true,
	},
	RoleCustomer: {},
}

// RoleHasPermission answers the authorization collaborator's yes/no question.
func RoleHasPermission(role UserRole, permission string) bool {
	perms, ok := rolePermissions[role]
	if !ok {
		return false
	}
	return perms[permission]
}

// CanOwnLeads reports whether the role is eligible as a lead assignee.
func (r UserRole) CanOwnLeads() bool {
	return r == RoleDesigner || r == RoleProjectManager
}

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         UserRole  `json:"role"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone,omitempty"`
	City         string    `json:"city,omitempty"`
	ReferralCode string    `json:"referralCode,omitempty"`
	ReferredBy   *int64    `json:"referredBy,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (u *User) HasPermission(permission string) bool {
	return RoleHasPermission(u.Role, permission)
}
