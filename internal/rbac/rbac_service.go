package rbac

import (
	"sync"

	"github.com/casbin/casbin/v2"
	"go.uber.org/zap"
)

type Service interface {
	LoadFarmPolicy(farmID string) error
	Enforce(req EnforceRequest) (bool, error)
	ListRoles(farmID string) ([]RoleResponse, error)
	ListPermissions() ([]PermissionResponse, error)
}

type service struct {
	repo     Repository
	enforcer *casbin.Enforcer
	mu       sync.Mutex
	logger   *zap.Logger
}

func NewService(repo Repository, enforcer *casbin.Enforcer, logger ...*zap.Logger) Service {
	l := zap.L().Named("rbac.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.service")
	}
	return &service{
		repo:     repo,
		enforcer: enforcer,
		logger:   l,
	}
}

func (s *service) LoadFarmPolicy(farmID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadFarmPolicyUnlocked(farmID)
}

// The enforcer holds one farm's policy at a time, so callers must hold mu.
func (s *service) loadFarmPolicyUnlocked(farmID string) error {
	s.enforcer.ClearPolicy()

	userRoles, err := s.repo.GetUserRoles(farmID)
	if err != nil {
		return err
	}

	for _, ur := range userRoles {
		if _, err := s.enforcer.AddGroupingPolicy(ur.UserID, ur.RoleID, farmID); err != nil {
			return err
		}
	}

	rolePerms, err := s.repo.GetRolePermissions(farmID)
	if err != nil {
		return err
	}

	for _, rp := range rolePerms {
		if _, err := s.enforcer.AddPolicy(rp.RoleID, farmID, rp.Resource, rp.Action); err != nil {
			return err
		}
	}

	s.logger.Debug("rbac policy loaded",
		zap.String("farm_id", farmID),
		zap.Int("user_roles", len(userRoles)),
		zap.Int("role_permissions", len(rolePerms)),
	)
	return nil
}

func (s *service) Enforce(req EnforceRequest) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadFarmPolicyUnlocked(req.FarmID); err != nil {
		return false, err
	}

	allowed, err := s.enforcer.Enforce(req.UserID, req.FarmID, req.Resource, req.Action)
	if err != nil {
		s.logger.Error("rbac enforce failed",
			zap.String("user_id", req.UserID),
			zap.String("farm_id", req.FarmID),
			zap.Error(err),
		)
		return false, err
	}

	s.logger.Debug("rbac enforce result",
		zap.String("user_id", req.UserID),
		zap.String("farm_id", req.FarmID),
		zap.String("resource", req.Resource),
		zap.String("action", req.Action),
		zap.Bool("allowed", allowed),
	)
	return allowed, nil
}

func (s *service) ListRoles(farmID string) ([]RoleResponse, error) {
	roles, err := s.repo.ListRoles(farmID)
	if err != nil {
		return nil, err
	}
	rolePerms, err := s.repo.GetRolePermissions(farmID)
	if err != nil {
		return nil, err
	}

	permsByRole := make(map[string][]string)
	for _, rp := range rolePerms {
		permsByRole[rp.RoleID] = append(permsByRole[rp.RoleID], rp.Resource+":"+rp.Action)
	}

	resp := make([]RoleResponse, len(roles))
	for i, r := range roles {
		perms := permsByRole[r.ID]
		if perms == nil {
			perms = []string{}
		}
		resp[i] = RoleResponse{
			ID:          r.ID,
			Name:        r.Name,
			Description: r.Description,
			Permissions: perms,
		}
	}
	return resp, nil
}

func (s *service) ListPermissions() ([]PermissionResponse, error) {
	perms, err := s.repo.ListPermissions()
	if err != nil {
		return nil, err
	}
	resp := make([]PermissionResponse, len(perms))
	for i, p := range perms {
		resp[i] = PermissionResponse{
			ID:       p.ID,
			Resource: p.Resource,
			Action:   p.Action,
			Label:    p.Label,
			Category: p.Category,
		}
	}
	return resp, nil
}
