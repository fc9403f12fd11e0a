package users_test

import (
	"testing"

	"github.com/casedesk/casedesk-go/users"
	"github.com/stretchr/testify/require"
)

func TestHasRole(t *testing.T) {
	var nilProfile *users.Profile
	require.False(t, nilProfile.HasRole(users.RoleAttorney))

	attorney := &users.Profile{
		Firm: &users.FirmMembership{ID: 1, Name: "Smith & Co", Role: users.RoleAttorney},
	}
	require.True(t, attorney.HasRole(users.RoleAttorney))
	require.False(t, attorney.HasRole(users.RoleFirmManager))

	super := &users.Profile{IsSuperuser: true}
	require.True(t, super.HasRole(users.RoleFirmManager))
	require.True(t, super.HasRole(users.RoleParalegal))
}

func TestIsManager(t *testing.T) {
	manager := &users.Profile{
		Firm: &users.FirmMembership{ID: 1, Role: users.RoleFirmManager},
	}
	require.True(t, manager.IsManager())

	attorney := &users.Profile{
		Firm: &users.FirmMembership{ID: 1, Role: users.RoleAttorney},
	}
	require.False(t, attorney.IsManager())

	super := &users.Profile{IsSuperuser: true}
	require.True(t, super.IsManager())

	noFirm := &users.Profile{}
	require.False(t, noFirm.IsManager())
}

func TestCanAssignTasks(t *testing.T) {
	tests := []struct {
		name    string
		profile *users.Profile
		want    bool
	}{
		{"nil profile", nil, false},
		{"superuser without firm", &users.Profile{IsSuperuser: true}, true},
		{"firm manager", &users.Profile{Firm: &users.FirmMembership{Role: users.RoleFirmManager}}, true},
		{"attorney with flag", &users.Profile{Firm: &users.FirmMembership{Role: users.RoleAttorney, CanAssignTasks: true}}, true},
		{"attorney without flag", &users.Profile{Firm: &users.FirmMembership{Role: users.RoleAttorney}}, false},
		{"no firm", &users.Profile{}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, tc.profile.CanAssignTasks())
		})
	}
}

func TestFullName(t *testing.T) {
	p := &users.Profile{FirstName: "Jane", LastName: "Doe", Email: "jane@example.com"}
	require.Equal(t, "Jane Doe", p.FullName())

	p = &users.Profile{Email: "jane@example.com"}
	require.Equal(t, "jane@example.com", p.FullName())
}
