package rbac

import "time"

type Role struct {
	ID          string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	FarmID      string `gorm:"type:uuid;not null;uniqueIndex:idx_roles_farm_name"`
	Name        string `gorm:"type:varchar(100);not null;uniqueIndex:idx_roles_farm_name"`
	Description string `gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Permission struct {
	ID       string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Resource string `gorm:"type:varchar(50);not null;uniqueIndex:idx_permissions_resource_action"`
	Action   string `gorm:"type:varchar(50);not null;uniqueIndex:idx_permissions_resource_action"`
	Label    string `gorm:"type:varchar(100)"`
	Category string `gorm:"type:varchar(50)"`
}

type RolePermission struct {
	RoleID       string `gorm:"primaryKey;type:uuid"`
	PermissionID string `gorm:"primaryKey;type:uuid"`
}

type UserRole struct {
	UserID string `gorm:"primaryKey;type:uuid"`
	RoleID string `gorm:"primaryKey;type:uuid"`
}
