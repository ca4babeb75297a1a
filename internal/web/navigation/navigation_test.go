package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sparky-messaging/sparky-admin/internal/impersonation"
)

func TestNewContext(t *testing.T) {
	nav := NewContext("Dashboard", "dashboard", "overview")

	assert.Equal(t, "Dashboard", nav.PageTitle)
	assert.Equal(t, "dashboard", nav.ActiveSection)
	assert.Equal(t, "overview", nav.ActivePage)
	assert.Empty(t, nav.Breadcrumbs)
}

func TestAddBreadcrumb(t *testing.T) {
	nav := NewContext("Directory", "directory", "directory").
		AddBreadcrumb("Home", "/", false).
		AddBreadcrumb("Directory", "/directory", true)

	assert.Len(t, nav.Breadcrumbs, 2)
	assert.Equal(t, "Home", nav.Breadcrumbs[0].Title)
	assert.False(t, nav.Breadcrumbs[0].Active)
	assert.True(t, nav.Breadcrumbs[1].Active)
}

func TestWithUser(t *testing.T) {
	view := impersonation.View{
		DisplayName:             "Uma Thurl",
		Role:                    "user",
		IsImpersonating:         true,
		ImpersonatedDisplayName: "Uma Thurl",
	}

	nav := NewContext("Dashboard", "dashboard", "overview").WithUser(view)

	assert.True(t, nav.User.IsImpersonating)
	assert.Equal(t, "Uma Thurl", nav.User.ImpersonatedDisplayName)
}

func TestIsActive(t *testing.T) {
	nav := NewContext("Dashboard", "dashboard", "overview")

	assert.True(t, nav.IsActive("dashboard", "overview"))
	assert.False(t, nav.IsActive("dashboard", "uploads"))
	assert.True(t, nav.IsSectionActive("dashboard"))
	assert.False(t, nav.IsSectionActive("directory"))
}
