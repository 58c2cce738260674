package domain

type NavLink struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

type NavSection struct {
	Title string    `json:"title"`
	Links []NavLink `json:"links"`
}

func standardSection() NavSection {
	return NavSection{
		Title: "Console",
		Links: []NavLink{
			{Label: "Dashboard", Path: "/dashboard"},
			{Label: "Facilities", Path: "/facilities"},
			{Label: "Staff", Path: "/staff"},
			{Label: "Students", Path: "/students"},
			{Label: "Applications", Path: "/applications"},
			{Label: "Calendar", Path: "/events"},
			{Label: "Attendance", Path: "/attendance"},
			{Label: "Invoices", Path: "/invoices"},
			{Label: "Support", Path: "/tickets"},
			{Label: "Help", Path: "/help"},
		},
	}
}

func adminSection() NavSection {
	return NavSection{
		Title: "Admin",
		Links: []NavLink{
			{Label: "User Management", Path: "/admin/users"},
			{Label: "Facility Management", Path: "/admin/facilities"},
			{Label: "Support Board", Path: "/admin/tickets"},
			{Label: "Roles", Path: "/admin/roles"},
			{Label: "Reports", Path: "/admin/reports"},
		},
	}
}

// NavigationFor returns the sections visible to roleName. The admin section
// is appended only when HasAdminAccess holds.
func NavigationFor(roleName string) []NavSection {
	sections := []NavSection{standardSection()}
	if HasAdminAccess(roleName) {
		sections = append(sections, adminSection())
	}
	return sections
}
