package authz_test

import (
	"testing"

	"go-welfare/internal/authz"
	"go-welfare/internal/shared/contextutil"

	"github.com/stretchr/testify/assert"
)

func TestEnforcer_RoleMatrix(t *testing.T) {
	e, err := authz.NewEnforcer()
	assert.NoError(t, err)

	cases := []struct {
		role     string
		resource string
		action   string
		allowed  bool
	}{
		{contextutil.RoleAdmin, authz.ResourceDepartments, authz.ActionCreate, true},
		{contextutil.RoleAdmin, authz.ResourceWelfareRecords, authz.ActionDelete, true},
		{contextutil.RoleAdmin, authz.ResourceUsers, authz.ActionDelete, true},
		{contextutil.RoleAdmin, authz.ResourceWelfareRecords, authz.ActionBulkUpdate, true},

		{contextutil.RoleUser, authz.ResourceDepartments, authz.ActionRead, true},
		{contextutil.RoleUser, authz.ResourceDepartments, authz.ActionCreate, false},
		{contextutil.RoleUser, authz.ResourceDepartments, authz.ActionDelete, false},
		{contextutil.RoleUser, authz.ResourceItemTypes, authz.ActionRead, true},
		{contextutil.RoleUser, authz.ResourceItemTypes, authz.ActionUpdate, false},
		{contextutil.RoleUser, authz.ResourceWelfareRecords, authz.ActionRead, true},
		{contextutil.RoleUser, authz.ResourceWelfareRecords, authz.ActionCreate, true},
		{contextutil.RoleUser, authz.ResourceWelfareRecords, authz.ActionUpdate, true},
		{contextutil.RoleUser, authz.ResourceWelfareRecords, authz.ActionDelete, false},
		{contextutil.RoleUser, authz.ResourceWelfareRecords, authz.ActionBulkUpdate, false},
		{contextutil.RoleUser, authz.ResourceStatusLogs, authz.ActionCreate, true},
		{contextutil.RoleUser, authz.ResourceUsers, authz.ActionDelete, false},

		{"", authz.ResourceDepartments, authz.ActionRead, false},
		{"GUEST", authz.ResourceWelfareRecords, authz.ActionRead, false},
	}

	for _, tc := range cases {
		allowed, err := authz.Enforce(e, tc.role, tc.resource, tc.action)
		assert.NoError(t, err)
		assert.Equal(t, tc.allowed, allowed, "%s %s:%s", tc.role, tc.resource, tc.action)
	}
}
