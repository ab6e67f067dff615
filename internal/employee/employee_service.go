package employee

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Arce-y-Vargas/arceyvargas-system/internal/shared/contextutil"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const employeeOptionsKey = "employees:options"

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	GetAll(ctx context.Context) ([]EmployeeResponse, error)
	GetByCedula(ctx context.Context, cedula string) (EmployeeResponse, error)
	GetOptions(ctx context.Context) ([]EmployeeOption, error)
	InvalidateOptions(ctx context.Context)
}

type service struct {
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{
		repo:   repo,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

func (s *service) GetAll(ctx context.Context) ([]EmployeeResponse, error) {
	emps, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]EmployeeResponse, len(emps))
	for i, emp := range emps {
		resp[i] = mapToResponse(emp)
	}
	return resp, nil
}

func (s *service) GetByCedula(ctx context.Context, cedula string) (EmployeeResponse, error) {
	emp, err := s.repo.FindByCedula(ctx, cedula)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EmployeeResponse{}, MapRepositoryError(err)
		}
		return EmployeeResponse{}, err
	}
	return mapToResponse(*emp), nil
}

// GetOptions serves the cedula/name listing from redis when warm; cache
// misses are collapsed through singleflight so a burst of request-form
// loads produces a single database query.
func (s *service) GetOptions(ctx context.Context) ([]EmployeeOption, error) {
	rid := contextutil.GetRequestID(ctx)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, employeeOptionsKey).Result(); err == nil {
			var options []EmployeeOption
			if err := json.Unmarshal([]byte(cached), &options); err == nil {
				return options, nil
			}
		}
	}

	v, err, _ := s.sf.Do(employeeOptionsKey, func() (any, error) {
		emps, err := s.repo.FindAll(ctx)
		if err != nil {
			return nil, err
		}

		options := make([]EmployeeOption, len(emps))
		for i, emp := range emps {
			options[i] = EmployeeOption{Cedula: emp.Cedula, Nombre: emp.Nombre}
		}

		if s.rdb != nil {
			if payload, err := json.Marshal(options); err == nil {
				if err := s.rdb.Set(ctx, employeeOptionsKey, payload, 10*time.Minute).Err(); err != nil {
					s.logger.Warn("cache employee options failed",
						zap.String("request_id", rid),
						zap.Error(err),
					)
				}
			}
		}

		return options, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]EmployeeOption), nil
}

// InvalidateOptions drops the cached listing. Called after the HR request
// applicator commits a change to the employees table.
func (s *service) InvalidateOptions(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, employeeOptionsKey).Err(); err != nil {
		s.logger.Warn("invalidate employee options failed", zap.Error(err))
	}
}

func mapToResponse(emp Employee) EmployeeResponse {
	return EmployeeResponse{
		Cedula:       emp.Cedula,
		Nombre:       emp.Nombre,
		Posicion:     emp.Posicion,
		Departamento: emp.Departamento,
		FechaInicio:  emp.FechaInicio,
		Salario:      emp.Salario,
		Status:       emp.Status,
		Vacaciones:   emp.Vacaciones,
	}
}
