package rbac

import (
	"testing"

	"go-farmops/internal/rbac/infra"

	"github.com/stretchr/testify/assert"
)

type mockRepo struct{}

func (m *mockRepo) GetUserRoles(farmID string) ([]UserRoleRow, error) {
	if farmID != "farm-1" {
		return nil, nil
	}
	return []UserRoleRow{
		{UserID: "user-admin", RoleID: "role-admin"},
		{UserID: "user-clerk", RoleID: "role-clerk"},
	}, nil
}

func (m *mockRepo) GetRolePermissions(farmID string) ([]RolePermissionRow, error) {
	if farmID != "farm-1" {
		return nil, nil
	}
	return []RolePermissionRow{
		{RoleID: "role-admin", Resource: "attendance", Action: "close"},
		{RoleID: "role-admin", Resource: "salary", Action: "*"},
		{RoleID: "role-clerk", Resource: "attendance", Action: "read"},
	}, nil
}

func (m *mockRepo) ListRoles(farmID string) ([]Role, error) {
	return []Role{{ID: "role-admin", Name: "Admin"}, {ID: "role-viewer", Name: "Viewer"}}, nil
}

func (m *mockRepo) ListPermissions() ([]Permission, error) {
	return []Permission{{ID: "p1", Resource: "attendance", Action: "close", Label: "Close period", Category: "Attendance"}}, nil
}

func newTestService(t *testing.T) Service {
	t.Helper()
	enforcer, err := infra.NewEnforcer("")
	assert.NoError(t, err)
	return NewService(&mockRepo{}, enforcer)
}

func TestRBACService_Enforce(t *testing.T) {
	service := newTestService(t)

	assert.NoError(t, service.LoadFarmPolicy("farm-1"))

	tests := []struct {
		name string
		req  EnforceRequest
		want bool
	}{
		{"admin closes period", EnforceRequest{UserID: "user-admin", FarmID: "farm-1", Resource: "attendance", Action: "close"}, true},
		{"wildcard action", EnforceRequest{UserID: "user-admin", FarmID: "farm-1", Resource: "salary", Action: "delete"}, true},
		{"clerk cannot close", EnforceRequest{UserID: "user-clerk", FarmID: "farm-1", Resource: "attendance", Action: "close"}, false},
		{"other farm", EnforceRequest{UserID: "user-admin", FarmID: "farm-2", Resource: "attendance", Action: "close"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			allowed, err := service.Enforce(tt.req)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, allowed)
		})
	}
}

func TestRBACService_ListRoles(t *testing.T) {
	service := newTestService(t)

	roles, err := service.ListRoles("farm-1")

	assert.NoError(t, err)
	assert.Len(t, roles, 2)
	assert.ElementsMatch(t, []string{"attendance:close", "salary:*"}, roles[0].Permissions)
	assert.Empty(t, roles[1].Permissions)
}
