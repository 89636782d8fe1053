package gate

import (
	"strings"

	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/models"
)

var associateOnly = []models.Role{models.RoleAssociate}

// Routes is the client route table. Segments starting with ':' match any
// single path segment.
var Routes = []Route{
	{Path: LoginPath, Requirement: Public},
	{Path: "/register", Requirement: Public},
	{Path: "/forgot-password", Requirement: Public},
	{Path: SetNewPasswordPath, Requirement: Authenticated},
	{Path: "/profile", Requirement: Authenticated},
	{Path: "/notifications", Requirement: Authenticated},

	{Path: AssociateHomePath, Requirement: RoleRestricted, Roles: associateOnly},
	{Path: "/leads", Requirement: RoleRestricted, Roles: associateOnly},
	{Path: "/leads/new", Requirement: RoleRestricted, Roles: associateOnly},
	{Path: "/leads/:id", Requirement: RoleRestricted, Roles: associateOnly},
	{Path: "/packages", Requirement: RoleRestricted, Roles: associateOnly},
	{Path: "/commissions", Requirement: RoleRestricted, Roles: associateOnly},

	{Path: AdminHomePath, Requirement: AdminOnly},
	{Path: "/admin/associates", Requirement: AdminOnly},
	{Path: "/admin/associates/:id", Requirement: AdminOnly},
	{Path: "/admin/leads", Requirement: AdminOnly},
	{Path: "/admin/leads/:id", Requirement: AdminOnly},
	{Path: "/admin/packages", Requirement: AdminOnly},
	{Path: "/admin/packages/:id", Requirement: AdminOnly},
	{Path: "/admin/commissions", Requirement: AdminOnly},
	{Path: "/admin/policies", Requirement: AdminOnly},
	{Path: "/admin/notifications", Requirement: AdminOnly},
}

// Lookup finds the route entry for a concrete path. Unknown paths are
// treated as requiring authentication.
func Lookup(path string) Route {
	path = cleanPath(path)
	for _, r := range Routes {
		if matches(r.Path, path) {
			out := r
			out.Path = path
			return out
		}
	}
	return Route{Path: path, Requirement: Authenticated}
}

// DecidePath is Decide over the route table.
func DecidePath(s *models.Session, path string) Decision {
	return Decide(s, Lookup(path))
}

func cleanPath(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if p == "" {
		return "/"
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}

func matches(pattern, path string) bool {
	ps := strings.Split(pattern, "/")
	xs := strings.Split(path, "/")
	if len(ps) != len(xs) {
		return false
	}
	for i := range ps {
		if strings.HasPrefix(ps[i], ":") {
			if xs[i] == "" {
				return false
			}
			continue
		}
		if ps[i] != xs[i] {
			return false
		}
	}
	return true
}
