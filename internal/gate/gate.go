// Package gate decides whether a session may render a client route. It is a
// pure function of the session and the route's declared requirement.
package gate

import (
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/models"
)

const (
	LoginPath          = "/login"
	SetNewPasswordPath = "/set-new-password"
	AdminHomePath      = "/admin/dashboard"
	AssociateHomePath  = "/dashboard"
)

// Requirement is what a route demands of the session.
type Requirement int

const (
	Public Requirement = iota
	Authenticated
	RoleRestricted
	AdminOnly
)

func (r Requirement) String() string {
	switch r {
	case Public:
		return "public"
	case Authenticated:
		return "authenticated"
	case RoleRestricted:
		return "role-restricted"
	case AdminOnly:
		return "admin-only"
	}
	return "unknown"
}

// Route is a client route and its requirement. Roles is only consulted for
// RoleRestricted routes.
type Route struct {
	Path        string        `json:"path"`
	Requirement Requirement   `json:"-"`
	Roles       []models.Role `json:"roles,omitempty"`
}

// Decision is either Render or a redirect target.
type Decision struct {
	Render     bool   `json:"render"`
	RedirectTo string `json:"redirect_to,omitempty"`
}

func render() Decision              { return Decision{Render: true} }
func redirect(path string) Decision { return Decision{RedirectTo: path} }

// HomeFor returns the landing route for a role.
func HomeFor(role models.Role) string {
	if role == models.RoleAdmin {
		return AdminHomePath
	}
	return AssociateHomePath
}

// Decide evaluates the rules in order; the first match wins.
func Decide(s *models.Session, route Route) Decision {
	if s == nil {
		if route.Requirement != Public {
			return redirect(LoginPath)
		}
		return render()
	}

	if s.RequiresPasswordChange && s.Role == models.RoleAssociate && route.Path != SetNewPasswordPath {
		return redirect(SetNewPasswordPath)
	}

	switch route.Requirement {
	case Public:
		return redirect(HomeFor(s.Role))
	case RoleRestricted:
		if !hasRole(route.Roles, s.Role) {
			return redirect(HomeFor(s.Role))
		}
	case AdminOnly:
		if s.Role != models.RoleAdmin {
			return redirect(AssociateHomePath)
		}
	}

	return render()
}

func hasRole(roles []models.Role, r models.Role) bool {
	for _, allowed := range roles {
		if allowed == r {
			return true
		}
	}
	return false
}
