package employeesalary_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-farmops/internal/employeesalary"
	employeesalaryerrors "go-farmops/internal/employeesalary/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeEmployeeSalaryService struct {
	createFn  func(ctx context.Context, farmID string, req employeesalary.CreateEmployeeSalaryRequest) (employeesalary.EmployeeSalaryResponse, error)
	getAllFn  func(ctx context.Context, farmID string, filter employeesalary.ListFilter) ([]employeesalary.EmployeeSalaryResponse, error)
	getByIDFn func(ctx context.Context, farmID, id string) (employeesalary.EmployeeSalaryResponse, error)
	updateFn  func(ctx context.Context, farmID, id string, req employeesalary.UpdateEmployeeSalaryRequest) (employeesalary.EmployeeSalaryResponse, error)
	deleteFn  func(ctx context.Context, farmID, id string) error
}

func (f *fakeEmployeeSalaryService) Create(ctx context.Context, farmID string, req employeesalary.CreateEmployeeSalaryRequest) (employeesalary.EmployeeSalaryResponse, error) {
	return f.createFn(ctx, farmID, req)
}
func (f *fakeEmployeeSalaryService) GetAll(ctx context.Context, farmID string, filter employeesalary.ListFilter) ([]employeesalary.EmployeeSalaryResponse, error) {
	return f.getAllFn(ctx, farmID, filter)
}
func (f *fakeEmployeeSalaryService) GetByID(ctx context.Context, farmID, id string) (employeesalary.EmployeeSalaryResponse, error) {
	return f.getByIDFn(ctx, farmID, id)
}
func (f *fakeEmployeeSalaryService) Update(ctx context.Context, farmID, id string, req employeesalary.UpdateEmployeeSalaryRequest) (employeesalary.EmployeeSalaryResponse, error) {
	return f.updateFn(ctx, farmID, id, req)
}
func (f *fakeEmployeeSalaryService) Delete(ctx context.Context, farmID, id string) error {
	return f.deleteFn(ctx, farmID, id)
}

func TestEmployeeSalaryHandler_Create(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("success", func(t *testing.T) {
		farmID := uuid.New().String()
		employeeID := uuid.New().String()

		svc := &fakeEmployeeSalaryService{
			createFn: func(ctx context.Context, fid string, req employeesalary.CreateEmployeeSalaryRequest) (employeesalary.EmployeeSalaryResponse, error) {
				assert.Equal(t, farmID, fid)
				assert.Equal(t, employeeID, req.EmployeeID)
				return employeesalary.EmployeeSalaryResponse{
					ID:               uuid.New().String(),
					EmployeeID:       req.EmployeeID,
					BaseSalary:       req.BaseSalary,
					WorkDaysPerMonth: 26,
					EffectiveDate:    req.EffectiveDate,
				}, nil
			},
		}

		h := employeesalary.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		body := `{"employee_id":"` + employeeID + `","base_salary":10000000,"overtime_rate":20000,"effective_date":"2026-02-01"}`
		req := httptest.NewRequest(http.MethodPost, "/salary-profiles", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		c.Request = req
		c.Set("farm_id", farmID)

		h.Create(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), employeeID)
	})

	t.Run("validation error", func(t *testing.T) {
		h := employeesalary.NewHandler(&fakeEmployeeSalaryService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		req := httptest.NewRequest(http.MethodPost, "/salary-profiles", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		c.Request = req
		c.Set("farm_id", uuid.New().String())

		h.Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("duplicate effective date", func(t *testing.T) {
		svc := &fakeEmployeeSalaryService{
			createFn: func(ctx context.Context, fid string, req employeesalary.CreateEmployeeSalaryRequest) (employeesalary.EmployeeSalaryResponse, error) {
				return employeesalary.EmployeeSalaryResponse{}, employeesalaryerrors.ErrSalaryEffectiveDateAlreadyExists
			},
		}

		h := employeesalary.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		body := `{"employee_id":"` + uuid.New().String() + `","base_salary":10000000,"effective_date":"2026-02-01"}`
		req := httptest.NewRequest(http.MethodPost, "/salary-profiles", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		c.Request = req
		c.Set("farm_id", uuid.New().String())

		h.Create(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "CONFLICT")
	})
}

func TestEmployeeSalaryHandler_GetAll(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		farmID := uuid.New().String()
		employeeID := uuid.New().String()

		svc := &fakeEmployeeSalaryService{
			getAllFn: func(ctx context.Context, fid string, filter employeesalary.ListFilter) ([]employeesalary.EmployeeSalaryResponse, error) {
				assert.Equal(t, farmID, fid)
				assert.Equal(t, employeeID, filter.EmployeeID)
				return []employeesalary.EmployeeSalaryResponse{
					{ID: uuid.New().String(), EmployeeID: employeeID, BaseSalary: 10000000, EffectiveDate: "2026-02-01"},
				}, nil
			},
		}

		h := employeesalary.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/salary-profiles?employee_id="+employeeID, nil)
		c.Set("farm_id", farmID)

		h.GetAll(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), employeeID)
	})

	t.Run("service error", func(t *testing.T) {
		svc := &fakeEmployeeSalaryService{
			getAllFn: func(ctx context.Context, fid string, filter employeesalary.ListFilter) ([]employeesalary.EmployeeSalaryResponse, error) {
				return nil, errors.New("db error")
			},
		}

		h := employeesalary.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/salary-profiles", nil)
		c.Set("farm_id", uuid.New().String())

		h.GetAll(c)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestEmployeeSalaryHandler_GetByID(t *testing.T) {
	farmID := uuid.New().String()
	salaryID := uuid.New().String()

	svc := &fakeEmployeeSalaryService{
		getByIDFn: func(ctx context.Context, fid, id string) (employeesalary.EmployeeSalaryResponse, error) {
			if id != salaryID {
				return employeesalary.EmployeeSalaryResponse{}, employeesalaryerrors.ErrSalaryNotFound
			}
			return employeesalary.EmployeeSalaryResponse{ID: id, BaseSalary: 10000000, EffectiveDate: "2026-02-01"}, nil
		},
	}

	h := employeesalary.NewHandler(svc)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("farm_id", farmID)
		c.Next()
	})
	r.GET("/salary-profiles/:id", h.GetById)

	t.Run("success", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/salary-profiles/"+salaryID, nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), salaryID)
	})

	t.Run("not found", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/salary-profiles/"+uuid.New().String(), nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestEmployeeSalaryHandler_Delete(t *testing.T) {
	farmID := uuid.New().String()
	salaryID := uuid.New().String()

	svc := &fakeEmployeeSalaryService{
		deleteFn: func(ctx context.Context, fid, id string) error {
			assert.Equal(t, farmID, fid)
			assert.Equal(t, salaryID, id)
			return nil
		},
	}

	h := employeesalary.NewHandler(svc)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("farm_id", farmID)
		c.Next()
	})
	r.DELETE("/salary-profiles/:id", h.Delete)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/salary-profiles/"+salaryID, nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
}
