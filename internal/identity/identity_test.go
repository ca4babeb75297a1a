package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromProfileDisplayNameFallback(t *testing.T) {
	tests := []struct {
		name    string
		profile Profile
		want    string
	}{
		{
			name: "explicit display name wins",
			profile: Profile{
				ID: "u-1", Email: "ada@sparky.example",
				DisplayName: "Ada L.", FirstName: "Ada", LastName: "Lovelace",
			},
			want: "Ada L.",
		},
		{
			name: "first and last name",
			profile: Profile{
				ID: "u-1", Email: "ada@sparky.example",
				FirstName: "Ada", LastName: "Lovelace",
			},
			want: "Ada Lovelace",
		},
		{
			name:    "first name only",
			profile: Profile{ID: "u-1", Email: "ada@sparky.example", FirstName: "Ada"},
			want:    "Ada",
		},
		{
			name:    "email local part",
			profile: Profile{ID: "u-1", Email: "ada@sparky.example"},
			want:    "ada",
		},
		{
			name:    "whitespace display name falls through",
			profile: Profile{ID: "u-1", Email: "ada@sparky.example", DisplayName: "   "},
			want:    "ada",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FromProfile(tt.profile).DisplayName)
		})
	}
}

func TestFromProfileDropsRedundantSecondaryRole(t *testing.T) {
	id := FromProfile(Profile{
		ID: "u-1", Email: "ada@sparky.example",
		Role: "manager", SecondaryRole: "Manager",
	})

	assert.Equal(t, RoleManager, id.PrimaryRole)
	assert.Empty(t, id.SecondaryRole)
}

func TestFromProfileKeepsDistinctSecondaryRole(t *testing.T) {
	id := FromProfile(Profile{
		ID: "u-1", Email: "ada@sparky.example",
		Role: "admin", SecondaryRole: "user",
	})

	assert.Equal(t, RoleAdmin, id.PrimaryRole)
	assert.Equal(t, RoleUser, id.SecondaryRole)
}

func TestValidateRejectsSecondaryEqualsPrimary(t *testing.T) {
	id := Identity{
		ID: "u-1", Email: "ada@sparky.example", DisplayName: "Ada",
		PrimaryRole: RoleManager, SecondaryRole: RoleManager,
	}

	assert.ErrorIs(t, id.Validate(), ErrSecondaryEqualsPrimary)
}

func TestValidateRequiresFields(t *testing.T) {
	assert.Error(t, Identity{Email: "ada@sparky.example", PrimaryRole: RoleUser}.Validate())
	assert.Error(t, Identity{ID: "u-1", Email: "not-an-email", PrimaryRole: RoleUser}.Validate())

	require.NoError(t, Identity{
		ID: "u-1", Email: "ada@sparky.example", PrimaryRole: RoleUser,
	}.Validate())
}

func TestAnonymous(t *testing.T) {
	a := Anonymous()
	assert.True(t, a.IsAnonymous())
	assert.Equal(t, "Unknown User", a.DisplayName)
	assert.Equal(t, RoleUser, a.PrimaryRole)

	assert.False(t, Identity{ID: "u-1"}.IsAnonymous())
	assert.True(t, Identity{}.IsAnonymous())
}
