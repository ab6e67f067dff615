package employee_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/Arce-y-Vargas/arceyvargas-system/internal/employee"
	employeeerrors "github.com/Arce-y-Vargas/arceyvargas-system/internal/employee/errors"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeEmployeeRepository struct {
	createFn       func(ctx context.Context, emp *employee.Employee) error
	findAllFn      func(ctx context.Context) ([]employee.Employee, error)
	findByCedulaFn func(ctx context.Context, cedula string) (*employee.Employee, error)
	existsFn       func(ctx context.Context, cedula string) (bool, error)
	updateFieldsFn func(ctx context.Context, cedula string, fields map[string]any) (int64, error)

	findAllCalls int
}

func (f *fakeEmployeeRepository) WithTx(tx *sql.Tx) employee.Repository { return f }
func (f *fakeEmployeeRepository) Create(ctx context.Context, emp *employee.Employee) error {
	return f.createFn(ctx, emp)
}
func (f *fakeEmployeeRepository) FindAll(ctx context.Context) ([]employee.Employee, error) {
	f.findAllCalls++
	return f.findAllFn(ctx)
}
func (f *fakeEmployeeRepository) FindByCedula(ctx context.Context, cedula string) (*employee.Employee, error) {
	return f.findByCedulaFn(ctx, cedula)
}
func (f *fakeEmployeeRepository) Exists(ctx context.Context, cedula string) (bool, error) {
	return f.existsFn(ctx, cedula)
}
func (f *fakeEmployeeRepository) UpdateFields(ctx context.Context, cedula string, fields map[string]any) (int64, error) {
	return f.updateFieldsFn(ctx, cedula, fields)
}

func sampleEmployees() []employee.Employee {
	return []employee.Employee{
		{Cedula: "102340567", Nombre: "Laura Solano", Posicion: "Supervisora", Departamento: "Operaciones", Salario: 850000, Status: "Activo"},
		{Cedula: "405550123", Nombre: "Marta Rojas", Posicion: "Operaria", Departamento: "Taller", Salario: 520000, Status: "Activo"},
	}
}

func TestEmployeeService_GetAll(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		repo := &fakeEmployeeRepository{
			findAllFn: func(ctx context.Context) ([]employee.Employee, error) {
				return sampleEmployees(), nil
			},
		}
		svc := employee.NewService(repo, nil)

		resp, err := svc.GetAll(context.Background())

		assert.NoError(t, err)
		assert.Len(t, resp, 2)
		assert.Equal(t, "Laura Solano", resp[0].Nombre)
		assert.Equal(t, "405550123", resp[1].Cedula)
	})

	t.Run("negative repository error", func(t *testing.T) {
		repo := &fakeEmployeeRepository{
			findAllFn: func(ctx context.Context) ([]employee.Employee, error) {
				return nil, errors.New("db down")
			},
		}
		svc := employee.NewService(repo, nil)

		_, err := svc.GetAll(context.Background())

		assert.Error(t, err)
	})
}

func TestEmployeeService_GetByCedula(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		repo := &fakeEmployeeRepository{
			findByCedulaFn: func(ctx context.Context, cedula string) (*employee.Employee, error) {
				emp := sampleEmployees()[0]
				assert.Equal(t, emp.Cedula, cedula)
				return &emp, nil
			},
		}
		svc := employee.NewService(repo, nil)

		resp, err := svc.GetByCedula(context.Background(), "102340567")

		assert.NoError(t, err)
		assert.Equal(t, "Laura Solano", resp.Nombre)
		assert.InDelta(t, 850000, resp.Salario, 0.001)
	})

	t.Run("negative not found", func(t *testing.T) {
		repo := &fakeEmployeeRepository{
			findByCedulaFn: func(ctx context.Context, cedula string) (*employee.Employee, error) {
				return nil, gorm.ErrRecordNotFound
			},
		}
		svc := employee.NewService(repo, nil)

		_, err := svc.GetByCedula(context.Background(), "999999999")

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})
}

func TestEmployeeService_GetOptions(t *testing.T) {
	t.Run("builds options from repository when cache is absent", func(t *testing.T) {
		repo := &fakeEmployeeRepository{
			findAllFn: func(ctx context.Context) ([]employee.Employee, error) {
				return sampleEmployees(), nil
			},
		}
		svc := employee.NewService(repo, nil)

		options, err := svc.GetOptions(context.Background())

		assert.NoError(t, err)
		assert.Len(t, options, 2)
		assert.Equal(t, "102340567", options[0].Cedula)
		assert.Equal(t, "Marta Rojas", options[1].Nombre)
		assert.Equal(t, 1, repo.findAllCalls)
	})

	t.Run("negative repository error", func(t *testing.T) {
		repo := &fakeEmployeeRepository{
			findAllFn: func(ctx context.Context) ([]employee.Employee, error) {
				return nil, errors.New("db down")
			},
		}
		svc := employee.NewService(repo, nil)

		_, err := svc.GetOptions(context.Background())

		assert.Error(t, err)
	})
}
