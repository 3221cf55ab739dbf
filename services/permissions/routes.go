package permissions

import (
	"fmt"
	"strings"

	"concierge/models"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

// routeModel allows a path when some policy allows it and none denies it.
// keyMatch treats "/admin*" as a plain prefix, so "/admin", "/admin/users"
// and "/administration" all fall under it.
const routeModel = `
[request_definition]
r = sub, obj

[policy_definition]
p = sub, obj, eft

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow)) && !some(where (p.eft == deny))

[matchers]
m = g(r.sub, p.sub) && keyMatch(r.obj, p.obj)
`

// RouteGate answers whether a role may open a path.
type RouteGate struct {
	enforcer *casbin.Enforcer
}

// NewRouteGate builds the enforcer: every role may reach every path, except that only
// admins may reach the admin area, both the UI prefix and the API prefix.
func NewRouteGate() (*RouteGate, error) {
	m, err := model.NewModelFromString(routeModel)
	if err != nil {
		return nil, fmt.Errorf("failed to parse route model: %w", err)
	}
	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize route enforcer: %w", err)
	}

	grouping := [][]string{
		{string(models.RoleAdmin), "staff"},
		{string(models.RoleVipManager), "staff"},
		{string(models.RoleManager), "staff"},
		{string(models.RoleVipManager), "restricted"},
		{string(models.RoleManager), "restricted"},
	}
	if _, err := e.AddGroupingPolicies(grouping); err != nil {
		return nil, fmt.Errorf("failed to add route roles: %w", err)
	}
	policies := [][]string{
		{"staff", "/*", "allow"},
		{"restricted", "/admin*", "deny"},
		{"restricted", "/api/admin*", "deny"},
	}
	if _, err := e.AddPolicies(policies); err != nil {
		return nil, fmt.Errorf("failed to add route policies: %w", err)
	}
	return &RouteGate{enforcer: e}, nil
}

// CanAccessRoute reports whether role may open path. Unknown roles are denied everywhere.
func (g *RouteGate) CanAccessRoute(role models.Role, path string) bool {
	if !role.Valid() {
		return false
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	ok, err := g.enforcer.Enforce(string(role), path)
	if err != nil {
		return false
	}
	return ok
}
