package users

import (
	"strings"
	"time"
)

// RoleType represents a user's role within their firm
type RoleType string

const (
	RoleFirmManager RoleType = "firm_manager" // Can manage members, cases, and firm settings
	RoleAttorney    RoleType = "attorney"     // Works cases, may be granted task assignment
	RoleParalegal   RoleType = "paralegal"    // Supports cases, no member management
	RoleStaff       RoleType = "staff"        // Read-mostly access
)

// FirmMembership represents a user's membership in a firm as returned by the
// remote service alongside the profile.
type FirmMembership struct {
	ID             int64    `json:"id"`
	Name           string   `json:"name"`
	Role           RoleType `json:"role"`
	CanAssignTasks bool     `json:"can_assign_tasks"`
}

// Profile is the user snapshot held by the session controller and persisted
// under the durable session record. It carries no credentials.
type Profile struct {
	ID          int64           `json:"id,omitempty"`
	Email       string          `json:"email,omitempty"`
	FirstName   string          `json:"first_name,omitempty"`
	LastName    string          `json:"last_name,omitempty"`
	IsSuperuser bool            `json:"is_superuser,omitempty"`
	Firm        *FirmMembership `json:"firm,omitempty"`
	DateJoined  time.Time       `json:"date_joined,omitempty"`
	LastLogin   time.Time       `json:"last_login,omitempty"`
}

// FullName joins first and last name, falling back to the email address.
func (p *Profile) FullName() string {
	name := strings.TrimSpace(p.FirstName + " " + p.LastName)
	if name == "" {
		return p.Email
	}
	return name
}

// HasRole reports whether the user holds the given firm role.
// Superusers implicitly hold every role.
func (p *Profile) HasRole(role RoleType) bool {
	if p == nil {
		return false
	}
	if p.IsSuperuser {
		return true
	}
	return p.Firm != nil && p.Firm.Role == role
}

// IsManager reports whether the user is a firm manager or a superuser.
func (p *Profile) IsManager() bool {
	if p == nil {
		return false
	}
	return p.IsSuperuser || (p.Firm != nil && p.Firm.Role == RoleFirmManager)
}

// CanAssignTasks reports whether the user may assign tasks: managers and
// superusers always can, other members only with the explicit firm flag.
func (p *Profile) CanAssignTasks() bool {
	if p == nil {
		return false
	}
	if p.IsSuperuser {
		return true
	}
	if p.Firm == nil {
		return false
	}
	if p.Firm.Role == RoleFirmManager {
		return true
	}
	return p.Firm.CanAssignTasks
}
