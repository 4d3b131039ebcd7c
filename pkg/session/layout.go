package session

// Capabilities describes what a role may do in the client
type Capabilities struct {
	CanRate               bool `json:"can_rate"`
	CanManageUsers        bool `json:"can_manage_users"`
	CanManageStores       bool `json:"can_manage_stores"`
	CanViewOwnerDashboard bool `json:"can_view_owner_dashboard"`
}

// NavItem is one navigation entry. Command names the CLI invocation that
// serves the entry, empty when the client has no surface for it.
type NavItem struct {
	Label   string `json:"label"`
	Path    string `json:"path"`
	Command string `json:"command,omitempty"`
}

// Layout is the role-specific navigation shell
type Layout struct {
	Dashboard string    `json:"dashboard"`
	Profile   string    `json:"profile"`
	Nav       []NavItem `json:"nav"`
}

var capabilityTable = map[Role]Capabilities{
	RoleAdmin:  {CanManageUsers: true, CanManageStores: true},
	RoleOwner:  {CanViewOwnerDashboard: true},
	RoleNormal: {CanRate: true},
}

var layoutTable = map[Role]Layout{
	RoleAdmin: {
		Dashboard: "/admin/dashboard",
		Profile:   "/admin/profile",
		Nav: []NavItem{
			{Label: "Dashboard", Path: "/admin/dashboard"},
			{Label: "User Management", Path: "/admin/users", Command: "users list"},
			{Label: "Store Management", Path: "/admin/stores", Command: "stores list"},
			{Label: "Profile", Path: "/admin/profile", Command: "session"},
		},
	},
	RoleOwner: {
		Dashboard: "/owner/dashboard",
		Profile:   "/profile",
		Nav: []NavItem{
			{Label: "Owner Dashboard", Path: "/owner/dashboard"},
			{Label: "My Stores", Path: "/stores", Command: "stores list"},
			{Label: "Profile", Path: "/profile", Command: "session"},
		},
	},
	RoleNormal: {
		Dashboard: "/stores",
		Profile:   "/profile",
		Nav: []NavItem{
			{Label: "All Stores", Path: "/stores", Command: "stores list"},
			{Label: "My Ratings", Path: "/my-ratings"},
			{Label: "Profile", Path: "/profile", Command: "session"},
		},
	},
}

var guestLayout = Layout{
	Dashboard: "/",
	Profile:   "",
	Nav: []NavItem{
		{Label: "Login", Path: "/login"},
		{Label: "Sign Up", Path: "/signup"},
	},
}

// Capabilities looks up the role's capabilities; unknown roles get none
func (r Role) Capabilities() Capabilities {
	return capabilityTable[r]
}

// Layout looks up the role's layout; unknown roles get the guest layout
func (r Role) Layout() Layout {
	layout, ok := layoutTable[r]
	if !ok {
		layout = guestLayout
	}
	nav := make([]NavItem, len(layout.Nav))
	copy(nav, layout.Nav)
	layout.Nav = nav
	return layout
}
