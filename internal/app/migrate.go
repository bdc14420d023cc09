package app

import (
	"go-farmops/internal/advance"
	"go-farmops/internal/approval"
	"go-farmops/internal/attendance"
	"go-farmops/internal/employeesalary"
	"go-farmops/internal/leave"
	"go-farmops/internal/payroll"
	"go-farmops/internal/rbac"
	"go-farmops/internal/receipt"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Tables the gorm models do not describe. The outbox and the counters are
// read and written with plain SQL.
var rawMigrations = []string{
	`CREATE TABLE IF NOT EXISTS outbox_events (
		id uuid PRIMARY KEY,
		request_id varchar(64),
		aggregate_type varchar(64) NOT NULL,
		aggregate_id varchar(128) NOT NULL,
		event_type varchar(64) NOT NULL,
		topic varchar(128) NOT NULL,
		payload jsonb NOT NULL,
		status varchar(16) NOT NULL DEFAULT 'pending',
		retry_count int NOT NULL DEFAULT 0,
		error_message text,
		next_retry_at timestamptz,
		processed_at timestamptz,
		created_at timestamptz NOT NULL DEFAULT now(),
		updated_at timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_outbox_events_pending ON outbox_events (status, next_retry_at, created_at)`,
	`CREATE TABLE IF NOT EXISTS farm_counters (
		farm_id uuid NOT NULL,
		counter_type varchar(32) NOT NULL,
		last_value bigint NOT NULL DEFAULT 0,
		updated_at timestamptz NOT NULL DEFAULT now(),
		PRIMARY KEY (farm_id, counter_type)
	)`,
}

func migrate(db *gorm.DB, log *zap.Logger) error {
	if err := db.AutoMigrate(
		&rbac.Role{},
		&rbac.Permission{},
		&rbac.RolePermission{},
		&rbac.UserRole{},
		&employeesalary.EmployeeSalary{},
		&attendance.Checkin{},
		&attendance.AttendancePeriod{},
		&attendance.AttendanceClosing{},
		&payroll.PayrollSnapshot{},
		&payroll.PayrollLog{},
		&approval.ApprovalLog{},
		&leave.LeaveRequest{},
		&advance.SalaryAdvance{},
		&receipt.Receipt{},
		&receipt.ChangeRequest{},
	); err != nil {
		return err
	}

	for _, stmt := range rawMigrations {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}

	log.Info("database migrated")
	return nil
}
