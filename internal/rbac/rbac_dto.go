package rbac

import "go-farmops/internal/domain"

type (
	EnforceRequest     = domain.EnforceRequest
	EnforceResponse    = domain.EnforceResponse
	RoleResponse       = domain.RoleResponse
	PermissionResponse = domain.PermissionResponse
)

// CheckRequest is the body of POST /rbac/enforce. The subject and farm come
// from the bearer token, never from the body.
type CheckRequest struct {
	Resource string `json:"resource" binding:"required"`
	Action   string `json:"action" binding:"required"`
}
