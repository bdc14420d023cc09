package employeesalary

import (
	"context"
	"database/sql"
	"time"

	employeesalaryerrors "go-farmops/internal/employeesalary/errors"
	"go-farmops/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	Create(ctx context.Context, farmID string, req CreateEmployeeSalaryRequest) (EmployeeSalaryResponse, error)
	GetAll(ctx context.Context, farmID string, filter ListFilter) ([]EmployeeSalaryResponse, error)
	GetByID(ctx context.Context, farmID, id string) (EmployeeSalaryResponse, error)
	Update(ctx context.Context, farmID, id string, req UpdateEmployeeSalaryRequest) (EmployeeSalaryResponse, error)
	Delete(ctx context.Context, farmID, id string) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("employeesalary.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employeesalary.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

func (s *service) Create(
	ctx context.Context,
	farmID string,
	req CreateEmployeeSalaryRequest,
) (EmployeeSalaryResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	farmUUID, err := uuid.Parse(farmID)
	if err != nil {
		return EmployeeSalaryResponse{}, employeesalaryerrors.ErrInvalidFarmID
	}
	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return EmployeeSalaryResponse{}, employeesalaryerrors.ErrInvalidEmployeeID
	}

	salary := &EmployeeSalary{
		ID:         uuid.New(),
		FarmID:     farmUUID,
		EmployeeID: employeeID,
	}
	if err := applyProfile(salary, req.BaseSalary, req.WorkDaysPerMonth, req.OvertimeRate, req.EffectiveDate); err != nil {
		return EmployeeSalaryResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return EmployeeSalaryResponse{}, err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).Create(ctx, salary); err != nil {
		return EmployeeSalaryResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		log.Error("create salary profile commit failed", zap.Error(err))
		return EmployeeSalaryResponse{}, err
	}

	log.Info("salary profile created",
		zap.String("salary_id", salary.ID.String()),
		zap.String("employee_id", salary.EmployeeID.String()),
		zap.String("effective_date", salary.EffectiveDate.Format("2006-01-02")),
	)
	return mapToResponse(*salary), nil
}

func (s *service) GetAll(
	ctx context.Context,
	farmID string,
	filter ListFilter,
) ([]EmployeeSalaryResponse, error) {
	salaries, err := s.repo.FindAllByFarm(ctx, farmID, filter)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	return mapToListResponse(salaries), nil
}

func (s *service) GetByID(
	ctx context.Context,
	farmID, id string,
) (EmployeeSalaryResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return EmployeeSalaryResponse{}, employeesalaryerrors.ErrSalaryNotFound
	}
	salary, err := s.repo.FindByIDAndFarm(ctx, farmID, id)
	if err != nil {
		return EmployeeSalaryResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*salary), nil
}

func (s *service) Update(
	ctx context.Context,
	farmID, id string,
	req UpdateEmployeeSalaryRequest,
) (EmployeeSalaryResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	if _, err := uuid.Parse(id); err != nil {
		return EmployeeSalaryResponse{}, employeesalaryerrors.ErrSalaryNotFound
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return EmployeeSalaryResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	salary, err := qtx.FindByIDAndFarm(ctx, farmID, id)
	if err != nil {
		return EmployeeSalaryResponse{}, mapRepositoryError(err)
	}
	if err := applyProfile(salary, req.BaseSalary, req.WorkDaysPerMonth, req.OvertimeRate, req.EffectiveDate); err != nil {
		return EmployeeSalaryResponse{}, err
	}

	if err := qtx.Update(ctx, salary); err != nil {
		return EmployeeSalaryResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		log.Error("update salary profile commit failed", zap.Error(err))
		return EmployeeSalaryResponse{}, err
	}

	log.Info("salary profile updated", zap.String("salary_id", id))
	return mapToResponse(*salary), nil
}

func (s *service) Delete(
	ctx context.Context,
	farmID, id string,
) error {
	if _, err := uuid.Parse(id); err != nil {
		return employeesalaryerrors.ErrSalaryNotFound
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	affected, err := s.repo.WithTx(tx).Delete(ctx, farmID, id)
	if err != nil {
		return mapRepositoryError(err)
	}
	if affected == 0 {
		return employeesalaryerrors.ErrSalaryNotFound
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	contextutil.GetLogger(ctx, s.logger).Info("salary profile deleted", zap.String("salary_id", id))
	return nil
}

func applyProfile(salary *EmployeeSalary, baseSalary int64, workDays int, overtimeRate int64, effectiveDate string) error {
	if baseSalary <= 0 {
		return employeesalaryerrors.ErrInvalidBaseSalary
	}
	if overtimeRate < 0 {
		return employeesalaryerrors.ErrInvalidOvertimeRate
	}
	date, err := time.Parse("2006-01-02", effectiveDate)
	if err != nil {
		return employeesalaryerrors.ErrInvalidDateFormat
	}
	if workDays <= 0 {
		workDays = DefaultWorkDaysPerMonth
	}

	salary.BaseSalary = baseSalary
	salary.WorkDaysPerMonth = workDays
	salary.OvertimeRate = overtimeRate
	salary.EffectiveDate = date
	return nil
}

func mapToResponse(salary EmployeeSalary) EmployeeSalaryResponse {
	return EmployeeSalaryResponse{
		ID:               salary.ID.String(),
		EmployeeID:       salary.EmployeeID.String(),
		BaseSalary:       salary.BaseSalary,
		WorkDaysPerMonth: salary.WorkDaysPerMonth,
		OvertimeRate:     salary.OvertimeRate,
		EffectiveDate:    salary.EffectiveDate.Format("2006-01-02"),
	}
}

func mapToListResponse(salaries []EmployeeSalary) []EmployeeSalaryResponse {
	res := make([]EmployeeSalaryResponse, len(salaries))
	for i, salary := range salaries {
		res[i] = mapToResponse(salary)
	}
	return res
}
