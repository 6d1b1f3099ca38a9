package authz

import (
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"

	"go-welfare/internal/shared/contextutil"
)

// Resource and action names used by the endpoint gates. Row-level visibility
// (own record, own department) stays in the services; the enforcer only
// answers whether a role may perform a verb on a resource at all.
const (
	ResourceDepartments    = "departments"
	ResourceItemTypes      = "item-types"
	ResourceUsers          = "users"
	ResourceWelfareRecords = "welfare-records"
	ResourceStatusLogs     = "status-logs"

	ActionRead   = "read"
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"

	// ActionBulkUpdate is granted to ADMIN only through its wildcard policy.
	ActionBulkUpdate = "bulk-update"
)

const modelText = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && (p.obj == "*" || r.obj == p.obj) && (p.act == "*" || r.act == p.act)
`

// userPolicy enumerates what a regular USER may do at the verb level. Self or
// department scoping of the rows behind these verbs is enforced per service.
var userPolicy = [][2]string{
	{ResourceDepartments, ActionRead},
	{ResourceItemTypes, ActionRead},
	{ResourceUsers, ActionRead},
	{ResourceUsers, ActionUpdate},
	{ResourceWelfareRecords, ActionRead},
	{ResourceWelfareRecords, ActionCreate},
	{ResourceWelfareRecords, ActionUpdate},
	{ResourceStatusLogs, ActionRead},
	{ResourceStatusLogs, ActionCreate},
}

// NewEnforcer builds the casbin enforcer with the static two-role policy:
// ADMIN may do everything, USER gets the scoped subset above.
func NewEnforcer() (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}

	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	if _, err := e.AddPolicy(contextutil.RoleAdmin, "*", "*"); err != nil {
		return nil, err
	}
	for _, p := range userPolicy {
		if _, err := e.AddPolicy(contextutil.RoleUser, p[0], p[1]); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// Enforce reports whether role may perform action on resource.
func Enforce(e *casbin.Enforcer, role, resource, action string) (bool, error) {
	return e.Enforce(role, resource, action)
}
