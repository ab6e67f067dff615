package hrrequest

import (
	"context"
	"database/sql"
	"strings"
	"unicode"

	"github.com/Arce-y-Vargas/arceyvargas-system/internal/auth"
	"github.com/Arce-y-Vargas/arceyvargas-system/internal/employee"
	employeeerrors "github.com/Arce-y-Vargas/arceyvargas-system/internal/employee/errors"
	hrrequesterrors "github.com/Arce-y-Vargas/arceyvargas-system/internal/hrrequest/errors"

	"go.uber.org/zap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	// fallback credential when the requester left the field blank
	defaultPassword = "temporal123"

	loginDomain = "arceyvargas.app"

	passwordKey = "password"
)

// proposedFieldColumns whitelists the employee fields a request may carry
// and maps them to their columns. The password key is deliberately absent:
// it is consumed at apply time and never written anywhere.
var proposedFieldColumns = map[string]string{
	"nombre":       "nombre",
	"posicion":     "posicion",
	"departamento": "departamento",
	"fechaInicio":  "fecha_inicio",
	"salario":      "salario",
	"status":       "status",
	"vacaciones":   "vacaciones",
}

// Applicator performs the roster mutation for a fully approved request.
// It runs inside the approval transaction, so a failure leaves no partial
// write behind.
//
//go:generate mockgen -source=applicator.go -destination=mock/applicator_mock.go -package=mock
type Applicator interface {
	WithTx(tx *sql.Tx) Applicator
	Apply(ctx context.Context, req *HRRequest) error
}

type changeApplicator struct {
	employees employee.Repository
	accounts  auth.AccountWriter
	logger    *zap.Logger
}

func NewApplicator(employees employee.Repository, accounts auth.AccountWriter, logger ...*zap.Logger) Applicator {
	l := zap.L().Named("hrrequest.applicator")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("hrrequest.applicator")
	}
	return &changeApplicator{employees: employees, accounts: accounts, logger: l}
}

func (a *changeApplicator) WithTx(tx *sql.Tx) Applicator {
	return &changeApplicator{
		employees: a.employees.WithTx(tx),
		accounts:  a.accounts.WithTx(tx),
		logger:    a.logger,
	}
}

func (a *changeApplicator) Apply(ctx context.Context, req *HRRequest) error {
	a.logger.Debug("applying approved request",
		zap.String("request_id", req.ID.String()),
		zap.String("type", string(req.Type)),
	)

	switch req.Type {
	case TypeAddEmployee:
		return a.applyAddEmployee(ctx, req.ProposedData)
	case TypeEditEmployee, TypeSalaryChange, TypePositionChange,
		TypeDepartmentChange, TypeStatusChange:
		return a.applyEditEmployee(ctx, req.TargetCedula, req.ProposedData)
	default:
		// unreachable for requests that passed submission validation
		return hrrequesterrors.ErrInvalidRequestType
	}
}

func (a *changeApplicator) applyAddEmployee(ctx context.Context, proposed JSONMap) error {
	cedula, _ := proposed["cedula"].(string)
	nombre, _ := proposed["nombre"].(string)
	if cedula == "" || nombre == "" {
		return hrrequesterrors.ErrIncompleteProposedData
	}

	exists, err := a.employees.Exists(ctx, cedula)
	if err != nil {
		return err
	}
	if exists {
		return employeeerrors.ErrEmployeeAlreadyExists
	}

	password, _ := proposed[passwordKey].(string)
	if password == "" {
		password = defaultPassword
	}

	email := loginEmailForName(nombre)
	if _, err := a.accounts.CreateAccount(ctx, email, password, nombre, auth.RoleEmpleado, &cedula); err != nil {
		return err
	}

	emp := &employee.Employee{
		Cedula:       cedula,
		Nombre:       nombre,
		Posicion:     stringField(proposed, "posicion"),
		Departamento: stringField(proposed, "departamento"),
		FechaInicio:  stringField(proposed, "fechaInicio"),
		Salario:      numberField(proposed, "salario"),
		Status:       stringFieldDefault(proposed, "status", "Activo"),
		Vacaciones:   numberField(proposed, "vacaciones"),
	}

	if err := a.employees.Create(ctx, emp); err != nil {
		return employee.MapRepositoryError(err)
	}

	a.logger.Info("employee created from approved request", zap.String("cedula", cedula))
	return nil
}

func (a *changeApplicator) applyEditEmployee(ctx context.Context, targetCedula *string, proposed JSONMap) error {
	if targetCedula == nil || *targetCedula == "" {
		return hrrequesterrors.ErrMissingTargetEmployee
	}

	fields := make(map[string]any, len(proposed))
	for key, value := range proposed {
		if column, ok := proposedFieldColumns[key]; ok {
			fields[column] = value
		}
	}
	if len(fields) == 0 {
		return hrrequesterrors.ErrIncompleteProposedData
	}

	rows, err := a.employees.UpdateFields(ctx, *targetCedula, fields)
	if err != nil {
		return employee.MapRepositoryError(err)
	}
	if rows == 0 {
		return employeeerrors.ErrEmployeeNotFound
	}

	a.logger.Info("employee updated from approved request",
		zap.String("cedula", *targetCedula),
		zap.Int("fields", len(fields)),
	)
	return nil
}

// loginEmailForName derives the login identity the same way the business
// has always issued accounts: the full name lowercased with spaces
// removed, at the company domain. Accents are folded out so names like
// "José Pérez" produce a plain ASCII mailbox.
func loginEmailForName(nombre string) string {
	folded, _, err := transform.String(
		transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC),
		nombre,
	)
	if err != nil {
		folded = nombre
	}
	local := strings.ToLower(strings.ReplaceAll(folded, " ", ""))
	return local + "@" + loginDomain
}

func stringField(m JSONMap, key string) string {
	v, _ := m[key].(string)
	return v
}

func stringFieldDefault(m JSONMap, key, fallback string) string {
	if v, ok := m[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

func numberField(m JSONMap, key string) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}
