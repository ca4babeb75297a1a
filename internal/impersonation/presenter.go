package impersonation

// View is everything the navigation UI needs to render the signed-in user
// and the impersonation banner.
type View struct {
	DisplayName             string `json:"displayName"`
	Role                    string `json:"role"`
	SecondaryRole           string `json:"secondaryRole,omitempty"`
	IsImpersonating         bool   `json:"isImpersonating"`
	ImpersonatedDisplayName string `json:"impersonatedDisplayName,omitempty"`
}

// View builds the presenter data for the current state.
func (m *Manager) View() View {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.viewLocked()
}

func (m *Manager) viewLocked() View {
	presented := m.presentedLocked()

	v := View{
		DisplayName:   presented.DisplayName,
		Role:          presented.PrimaryRole.String(),
		SecondaryRole: presented.SecondaryRole.String(),
	}

	if m.session != nil {
		v.IsImpersonating = true
		v.ImpersonatedDisplayName = m.session.Presented.DisplayName
	}

	return v
}
