package rbac

import "gorm.io/gorm"

type Repository interface {
	GetUserRoles(farmID string) ([]UserRoleRow, error)
	GetRolePermissions(farmID string) ([]RolePermissionRow, error)

	ListRoles(farmID string) ([]Role, error)
	ListPermissions() ([]Permission, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

type UserRoleRow struct {
	UserID string
	RoleID string
}

type RolePermissionRow struct {
	RoleID   string
	Resource string
	Action   string
}

func (r *repository) GetUserRoles(farmID string) ([]UserRoleRow, error) {
	var result []UserRoleRow

	err := r.db.
		Table("user_roles").
		Select("user_roles.user_id, user_roles.role_id").
		Joins("JOIN roles ON roles.id = user_roles.role_id").
		Where("roles.farm_id = ?", farmID).
		Scan(&result).Error

	return result, err
}

func (r *repository) GetRolePermissions(farmID string) ([]RolePermissionRow, error) {
	var result []RolePermissionRow

	err := r.db.
		Table("role_permissions").
		Select("role_permissions.role_id, permissions.resource, permissions.action").
		Joins("JOIN roles ON roles.id = role_permissions.role_id").
		Joins("JOIN permissions ON permissions.id = role_permissions.permission_id").
		Where("roles.farm_id = ?", farmID).
		Scan(&result).Error

	return result, err
}

func (r *repository) ListRoles(farmID string) ([]Role, error) {
	var result []Role
	err := r.db.Where("farm_id = ?", farmID).Order("name").Find(&result).Error
	return result, err
}

func (r *repository) ListPermissions() ([]Permission, error) {
	var result []Permission
	err := r.db.Order("category, label").Find(&result).Error
	return result, err
}
