package domain

// Decision is the outcome of gating a route against a session.
type Decision int

const (
	Allow Decision = iota
	RequireLogin
	Forbidden
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case RequireLogin:
		return "require_login"
	case Forbidden:
		return "forbidden"
	}
	return "unknown"
}

// RouteDescriptor declares the access policy for one navigable page.
// AllowedRoles is never empty; when AllowGuest is true the page must
// tolerate a session with no role.
type RouteDescriptor struct {
	Path         string
	Name         string
	AllowedRoles []Role
	AllowGuest   bool
}

// Decide applies the access policy of a route to the current session.
// It has no side effects: navigation on RequireLogin and the 403 rendering
// on Forbidden are performed by the gate middleware.
func Decide(route RouteDescriptor, session Session) Decision {
	if !session.Authenticated() {
		if route.AllowGuest {
			return Allow
		}
		return RequireLogin
	}

	if session.HasRole(route.AllowedRoles...) {
		return Allow
	}

	// An authenticated visitor of the wrong role still gets guest-level
	// access on guest-tolerant routes.
	if route.AllowGuest {
		return Allow
	}
	return Forbidden
}

// Routes is the portal's static route table. Every navigable page appears
// here exactly once; the gate middleware is the only consumer of the access
// fields.
func Routes() []RouteDescriptor {
	return []RouteDescriptor{
		// Public pages.
		{Path: "/", Name: "home", AllowedRoles: []Role{RoleUser}, AllowGuest: true},
		{Path: "/blog", Name: "blog", AllowedRoles: []Role{RoleUser}, AllowGuest: true},
		{Path: "/blogdetail/:id", Name: "blog_detail", AllowedRoles: []Role{RoleUser}, AllowGuest: true},
		{Path: "/workshops", Name: "workshops", AllowedRoles: []Role{RoleUser}, AllowGuest: true},
		{Path: "/login", Name: "login", AllowedRoles: []Role{RoleUser}, AllowGuest: true},
		{Path: "/register", Name: "register", AllowedRoles: []Role{RoleUser}, AllowGuest: true},
		{Path: "/forgotpassword", Name: "forgot_password", AllowedRoles: []Role{RoleUser}, AllowGuest: true},
		{Path: "/verifyemail", Name: "verify_email", AllowedRoles: []Role{RoleUser}, AllowGuest: true},

		// Customer pages.
		{Path: "/workshopdetail/:id", Name: "workshop_detail", AllowedRoles: []Role{RoleUser}},
		{Path: "/mybookings", Name: "my_bookings", AllowedRoles: []Role{RoleUser}},
		{Path: "/profile", Name: "profile", AllowedRoles: []Role{RoleUser}},

		// Organizer pages.
		{Path: "/organizerdashboard", Name: "organizer_dashboard", AllowedRoles: []Role{RoleOrganizer}},
		{Path: "/organizerworkshops", Name: "organizer_workshops", AllowedRoles: []Role{RoleOrganizer}},
		{Path: "/organizerworkshops/new", Name: "organizer_workshop_new", AllowedRoles: []Role{RoleOrganizer}},

		// Admin pages.
		{Path: "/admindashboard", Name: "admin_dashboard", AllowedRoles: []Role{RoleAdmin}},
		{Path: "/admincategories", Name: "admin_categories", AllowedRoles: []Role{RoleAdmin}},
		{Path: "/adminbadges", Name: "admin_badges", AllowedRoles: []Role{RoleAdmin}},
		{Path: "/adminblog", Name: "admin_blog", AllowedRoles: []Role{RoleAdmin}},
	}
}
