package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/casedesk/casedesk-go/users"
)

// Firm is the tenant owning cases, clients, and members.
type Firm struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// RegisterFirmInput self-registers a firm together with its first manager
// account.
type RegisterFirmInput struct {
	FirmName  string `json:"firm_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// RegisterFirmResponse is the payload of POST /firms/register/.
type RegisterFirmResponse struct {
	Tokens *TokenPair    `json:"tokens,omitempty"`
	User   users.Profile `json:"user"`
	Firm   Firm          `json:"firm"`
}

// FirmMember is one member of the firm roster.
type FirmMember struct {
	ID             int64          `json:"id"`
	Email          string         `json:"email"`
	FirstName      string         `json:"first_name"`
	LastName       string         `json:"last_name"`
	Role           users.RoleType `json:"role"`
	CanAssignTasks bool           `json:"can_assign_tasks"`
	IsActive       bool           `json:"is_active"`
}

// FirmMemberInput invites or updates a member.
type FirmMemberInput struct {
	Email          string         `json:"email,omitempty"`
	Role           users.RoleType `json:"role,omitempty"`
	CanAssignTasks *bool          `json:"can_assign_tasks,omitempty"`
}

// FirmsAPI covers firm registration and roster management.
type FirmsAPI struct {
	c *Client
}

// Register self-registers a firm; the first account becomes its manager.
func (a *FirmsAPI) Register(ctx context.Context, input RegisterFirmInput) (*RegisterFirmResponse, error) {
	out := &RegisterFirmResponse{}
	if err := a.c.do(ctx, http.MethodPost, "/firms/register/", nil, input, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *FirmsAPI) Get(ctx context.Context, id int64) (*Firm, error) {
	out := &Firm{}
	if err := a.c.do(ctx, http.MethodGet, fmt.Sprintf("/firms/%d/", id), nil, nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *FirmsAPI) Update(ctx context.Context, id int64, name string) (*Firm, error) {
	out := &Firm{}
	payload := map[string]string{"name": name}
	if err := a.c.do(ctx, http.MethodPut, fmt.Sprintf("/firms/%d/", id), nil, payload, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *FirmsAPI) Members(ctx context.Context, firmID int64) ([]FirmMember, error) {
	var out []FirmMember
	if err := a.c.do(ctx, http.MethodGet, fmt.Sprintf("/firms/%d/members/", firmID), nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *FirmsAPI) InviteMember(ctx context.Context, firmID int64, input FirmMemberInput) (*FirmMember, error) {
	out := &FirmMember{}
	if err := a.c.do(ctx, http.MethodPost, fmt.Sprintf("/firms/%d/members/", firmID), nil, input, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *FirmsAPI) UpdateMember(ctx context.Context, firmID, userID int64, input FirmMemberInput) (*FirmMember, error) {
	out := &FirmMember{}
	if err := a.c.do(ctx, http.MethodPut, fmt.Sprintf("/firms/%d/members/%d/", firmID, userID), nil, input, out); err != nil {
		return nil, err
	}
	return out, nil
}

// SetMemberStatus activates or deactivates a member account.
func (a *FirmsAPI) SetMemberStatus(ctx context.Context, firmID, userID int64, active bool) (*FirmMember, error) {
	out := &FirmMember{}
	payload := map[string]bool{"is_active": active}
	if err := a.c.do(ctx, http.MethodPatch, fmt.Sprintf("/firms/%d/members/%d/status/", firmID, userID), nil, payload, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *FirmsAPI) RemoveMember(ctx context.Context, firmID, userID int64) error {
	return a.c.do(ctx, http.MethodDelete, fmt.Sprintf("/firms/%d/members/%d/", firmID, userID), nil, nil, nil)
}
