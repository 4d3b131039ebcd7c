package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRole_Capabilities(t *testing.T) {
	t.Run("Should grant rating only to normal users", func(t *testing.T) {
		assert.True(t, RoleNormal.Capabilities().CanRate)
		assert.False(t, RoleAdmin.Capabilities().CanRate)
		assert.False(t, RoleOwner.Capabilities().CanRate)
	})

	t.Run("Should grant management to administrators", func(t *testing.T) {
		caps := RoleAdmin.Capabilities()
		assert.True(t, caps.CanManageUsers)
		assert.True(t, caps.CanManageStores)
		assert.False(t, caps.CanViewOwnerDashboard)
	})

	t.Run("Should grant nothing to unknown roles", func(t *testing.T) {
		assert.Equal(t, Capabilities{}, Role("Guest").Capabilities())
		assert.False(t, Role("Guest").IsValid())
	})
}

func TestRole_Layout(t *testing.T) {
	t.Run("Should route each role to its dashboard", func(t *testing.T) {
		assert.Equal(t, "/admin/dashboard", RoleAdmin.Layout().Dashboard)
		assert.Equal(t, "/owner/dashboard", RoleOwner.Layout().Dashboard)
		assert.Equal(t, "/stores", RoleNormal.Layout().Dashboard)
	})

	t.Run("Should give administrators their own profile path", func(t *testing.T) {
		assert.Equal(t, "/admin/profile", RoleAdmin.Layout().Profile)
		assert.Equal(t, "/profile", RoleNormal.Layout().Profile)
	})

	t.Run("Should end every authenticated nav with Profile", func(t *testing.T) {
		for _, r := range Roles {
			nav := r.Layout().Nav
			require.NotEmpty(t, nav, r.String())
			assert.Equal(t, "Profile", nav[len(nav)-1].Label, r.String())
		}
	})

	t.Run("Should return a copy of the nav table", func(t *testing.T) {
		layout := RoleNormal.Layout()
		layout.Nav[0].Label = "changed"
		assert.Equal(t, "All Stores", RoleNormal.Layout().Nav[0].Label)
	})

	t.Run("Should fall back to the guest layout", func(t *testing.T) {
		var s *Session
		assert.Equal(t, "/login", s.Layout().Nav[0].Path)
		assert.Equal(t, Capabilities{}, s.Capabilities())
	})
}

func TestParseRole(t *testing.T) {
	t.Run("Should match labels case-insensitively", func(t *testing.T) {
		r, ok := ParseRole(" normal user ")
		require.True(t, ok)
		assert.Equal(t, RoleNormal, r)
	})

	t.Run("Should reject unknown labels", func(t *testing.T) {
		_, ok := ParseRole("Root")
		assert.False(t, ok)
	})
}

func TestFromContext(t *testing.T) {
	t.Run("Should return the stored session", func(t *testing.T) {
		s := New(User{ID: "u-1", Role: RoleNormal}, "token")
		got, err := FromContext(ContextWithSession(t.Context(), s))
		require.NoError(t, err)
		assert.Same(t, s, got)
		assert.True(t, got.Capabilities().CanRate)
	})

	t.Run("Should report a missing session", func(t *testing.T) {
		_, err := FromContext(t.Context())
		assert.ErrorIs(t, err, ErrNoSession)
	})
}
