package hrrequest_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/Arce-y-Vargas/arceyvargas-system/internal/auth"
	autherrors "github.com/Arce-y-Vargas/arceyvargas-system/internal/auth/errors"
	"github.com/Arce-y-Vargas/arceyvargas-system/internal/employee"
	employeeerrors "github.com/Arce-y-Vargas/arceyvargas-system/internal/employee/errors"
	"github.com/Arce-y-Vargas/arceyvargas-system/internal/hrrequest"
	hrrequesterrors "github.com/Arce-y-Vargas/arceyvargas-system/internal/hrrequest/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeEmployeeRepository struct {
	createFn       func(ctx context.Context, emp *employee.Employee) error
	existsFn       func(ctx context.Context, cedula string) (bool, error)
	updateFieldsFn func(ctx context.Context, cedula string, fields map[string]any) (int64, error)
}

func (f *fakeEmployeeRepository) WithTx(tx *sql.Tx) employee.Repository { return f }

func (f *fakeEmployeeRepository) Create(ctx context.Context, emp *employee.Employee) error {
	if f.createFn != nil {
		return f.createFn(ctx, emp)
	}
	return nil
}

func (f *fakeEmployeeRepository) FindAll(ctx context.Context) ([]employee.Employee, error) {
	return nil, nil
}

func (f *fakeEmployeeRepository) FindByCedula(ctx context.Context, cedula string) (*employee.Employee, error) {
	return nil, nil
}

func (f *fakeEmployeeRepository) Exists(ctx context.Context, cedula string) (bool, error) {
	if f.existsFn != nil {
		return f.existsFn(ctx, cedula)
	}
	return false, nil
}

func (f *fakeEmployeeRepository) UpdateFields(ctx context.Context, cedula string, fields map[string]any) (int64, error) {
	if f.updateFieldsFn != nil {
		return f.updateFieldsFn(ctx, cedula, fields)
	}
	return 1, nil
}

type fakeAccountWriter struct {
	createAccountFn func(ctx context.Context, email, password, name, role string, cedula *string) (string, error)
}

func (f *fakeAccountWriter) WithTx(tx *sql.Tx) auth.AccountWriter { return f }

func (f *fakeAccountWriter) CreateAccount(ctx context.Context, email, password, name, role string, cedula *string) (string, error) {
	if f.createAccountFn != nil {
		return f.createAccountFn(ctx, email, password, name, role, cedula)
	}
	return uuid.New().String(), nil
}

func addEmployeeRequest(proposed hrrequest.JSONMap) *hrrequest.HRRequest {
	return &hrrequest.HRRequest{
		ID:           uuid.New(),
		Type:         hrrequest.TypeAddEmployee,
		ProposedData: proposed,
		Status:       hrrequest.StatusApproved,
	}
}

func TestApplicator_AddEmployee(t *testing.T) {
	ctx := context.Background()

	t.Run("success with default credential", func(t *testing.T) {
		employees := &fakeEmployeeRepository{}
		accounts := &fakeAccountWriter{}
		applicator := hrrequest.NewApplicator(employees, accounts)

		accounts.createAccountFn = func(ctx context.Context, email, password, name, role string, cedula *string) (string, error) {
			assert.Equal(t, "martarojas@arceyvargas.app", email)
			assert.Equal(t, "temporal123", password)
			assert.Equal(t, "Marta Rojas", name)
			assert.Equal(t, auth.RoleEmpleado, role)
			assert.NotNil(t, cedula)
			assert.Equal(t, "405550123", *cedula)
			return uuid.New().String(), nil
		}
		employees.createFn = func(ctx context.Context, emp *employee.Employee) error {
			assert.Equal(t, "405550123", emp.Cedula)
			assert.Equal(t, "Marta Rojas", emp.Nombre)
			assert.Equal(t, "Contadora", emp.Posicion)
			assert.Equal(t, "Activo", emp.Status)
			assert.Equal(t, 850000.0, emp.Salario)
			return nil
		}

		err := applicator.Apply(ctx, addEmployeeRequest(hrrequest.JSONMap{
			"cedula":   "405550123",
			"nombre":   "Marta Rojas",
			"posicion": "Contadora",
			"salario":  850000.0,
		}))

		assert.NoError(t, err)
	})

	t.Run("success with provided credential", func(t *testing.T) {
		employees := &fakeEmployeeRepository{}
		accounts := &fakeAccountWriter{}
		applicator := hrrequest.NewApplicator(employees, accounts)

		accounts.createAccountFn = func(ctx context.Context, email, password, name, role string, cedula *string) (string, error) {
			assert.Equal(t, "secreta9", password)
			return uuid.New().String(), nil
		}

		err := applicator.Apply(ctx, addEmployeeRequest(hrrequest.JSONMap{
			"cedula":   "405550123",
			"nombre":   "Marta Rojas",
			"password": "secreta9",
		}))

		assert.NoError(t, err)
	})

	t.Run("success folds accents out of the login email", func(t *testing.T) {
		employees := &fakeEmployeeRepository{}
		accounts := &fakeAccountWriter{}
		applicator := hrrequest.NewApplicator(employees, accounts)

		accounts.createAccountFn = func(ctx context.Context, email, password, name, role string, cedula *string) (string, error) {
			assert.Equal(t, "joseperezjimenez@arceyvargas.app", email)
			assert.Equal(t, "José Pérez Jiménez", name)
			return uuid.New().String(), nil
		}

		err := applicator.Apply(ctx, addEmployeeRequest(hrrequest.JSONMap{
			"cedula": "208760341",
			"nombre": "José Pérez Jiménez",
		}))

		assert.NoError(t, err)
	})

	t.Run("negative duplicate cedula", func(t *testing.T) {
		employees := &fakeEmployeeRepository{
			existsFn: func(ctx context.Context, cedula string) (bool, error) {
				return true, nil
			},
		}
		applicator := hrrequest.NewApplicator(employees, &fakeAccountWriter{})

		err := applicator.Apply(ctx, addEmployeeRequest(hrrequest.JSONMap{
			"cedula": "405550123",
			"nombre": "Marta Rojas",
		}))

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeAlreadyExists)
	})

	t.Run("negative email already registered", func(t *testing.T) {
		accounts := &fakeAccountWriter{
			createAccountFn: func(ctx context.Context, email, password, name, role string, cedula *string) (string, error) {
				return "", autherrors.ErrEmailAlreadyRegistered
			},
		}
		applicator := hrrequest.NewApplicator(&fakeEmployeeRepository{}, accounts)

		err := applicator.Apply(ctx, addEmployeeRequest(hrrequest.JSONMap{
			"cedula": "405550123",
			"nombre": "Marta Rojas",
		}))

		assert.ErrorIs(t, err, autherrors.ErrEmailAlreadyRegistered)
	})

	t.Run("negative incomplete data", func(t *testing.T) {
		applicator := hrrequest.NewApplicator(&fakeEmployeeRepository{}, &fakeAccountWriter{})

		err := applicator.Apply(ctx, addEmployeeRequest(hrrequest.JSONMap{
			"nombre": "Marta Rojas",
		}))

		assert.ErrorIs(t, err, hrrequesterrors.ErrIncompleteProposedData)
	})
}

func TestApplicator_EditEmployee(t *testing.T) {
	ctx := context.Background()
	cedula := "102340567"

	editRequest := func(reqType hrrequest.RequestType, proposed hrrequest.JSONMap) *hrrequest.HRRequest {
		return &hrrequest.HRRequest{
			ID:           uuid.New(),
			Type:         reqType,
			TargetCedula: &cedula,
			ProposedData: proposed,
			Status:       hrrequest.StatusApproved,
		}
	}

	t.Run("success maps whitelisted fields to columns", func(t *testing.T) {
		employees := &fakeEmployeeRepository{}
		applicator := hrrequest.NewApplicator(employees, &fakeAccountWriter{})

		employees.updateFieldsFn = func(ctx context.Context, target string, fields map[string]any) (int64, error) {
			assert.Equal(t, cedula, target)
			assert.Equal(t, 950000.0, fields["salario"])
			assert.Equal(t, "2024-02-01", fields["fecha_inicio"])
			assert.NotContains(t, fields, "fechaInicio")
			assert.NotContains(t, fields, "password")
			assert.NotContains(t, fields, "apodo")
			return 1, nil
		}

		err := applicator.Apply(ctx, editRequest(hrrequest.TypeSalaryChange, hrrequest.JSONMap{
			"salario":     950000.0,
			"fechaInicio": "2024-02-01",
			"password":    "nunca",
			"apodo":       "ignored",
		}))

		assert.NoError(t, err)
	})

	t.Run("negative missing target", func(t *testing.T) {
		applicator := hrrequest.NewApplicator(&fakeEmployeeRepository{}, &fakeAccountWriter{})

		req := editRequest(hrrequest.TypePositionChange, hrrequest.JSONMap{"posicion": "Jefa"})
		req.TargetCedula = nil

		err := applicator.Apply(ctx, req)

		assert.ErrorIs(t, err, hrrequesterrors.ErrMissingTargetEmployee)
	})

	t.Run("negative nothing to update", func(t *testing.T) {
		applicator := hrrequest.NewApplicator(&fakeEmployeeRepository{}, &fakeAccountWriter{})

		err := applicator.Apply(ctx, editRequest(hrrequest.TypeEditEmployee, hrrequest.JSONMap{
			"password": "nunca",
		}))

		assert.ErrorIs(t, err, hrrequesterrors.ErrIncompleteProposedData)
	})

	t.Run("negative target not found", func(t *testing.T) {
		employees := &fakeEmployeeRepository{
			updateFieldsFn: func(ctx context.Context, target string, fields map[string]any) (int64, error) {
				return 0, nil
			},
		}
		applicator := hrrequest.NewApplicator(employees, &fakeAccountWriter{})

		err := applicator.Apply(ctx, editRequest(hrrequest.TypeDepartmentChange, hrrequest.JSONMap{
			"departamento": "Finanzas",
		}))

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})
}
