package auth_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/Arce-y-Vargas/arceyvargas-system/internal/auth"
	autherrors "github.com/Arce-y-Vargas/arceyvargas-system/internal/auth/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fakeAccountRepository struct {
	withTxCalled bool
	createFn     func(ctx context.Context, account *auth.Account) error
	getByEmailFn func(ctx context.Context, email string) (*auth.Account, error)
	getByIDFn    func(ctx context.Context, id uuid.UUID) (*auth.Account, error)
	emailExists  func(ctx context.Context, email string) (bool, error)
}

func (f *fakeAccountRepository) WithTx(tx *sql.Tx) auth.Repository {
	f.withTxCalled = true
	return f
}
func (f *fakeAccountRepository) Create(ctx context.Context, account *auth.Account) error {
	return f.createFn(ctx, account)
}
func (f *fakeAccountRepository) GetByEmail(ctx context.Context, email string) (*auth.Account, error) {
	return f.getByEmailFn(ctx, email)
}
func (f *fakeAccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*auth.Account, error) {
	return f.getByIDFn(ctx, id)
}
func (f *fakeAccountRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	return f.emailExists(ctx, email)
}

func hashedAccount(t *testing.T, password string) *auth.Account {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	cedula := "102340567"
	return &auth.Account{
		ID:       uuid.New(),
		Email:    "laura.solano@arceyvargas.app",
		Password: string(hash),
		Name:     "Laura Solano",
		Role:     auth.RoleSupervisor,
		Cedula:   &cedula,
	}
}

func TestAuthService_Login(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	t.Run("success", func(t *testing.T) {
		account := hashedAccount(t, "hunter2")
		repo := &fakeAccountRepository{
			getByEmailFn: func(ctx context.Context, email string) (*auth.Account, error) {
				assert.Equal(t, account.Email, email)
				return account, nil
			},
		}
		svc := auth.NewService(repo)

		access, refresh, resp, err := svc.Login(context.Background(), account.Email, "hunter2")

		assert.NoError(t, err)
		assert.NotEmpty(t, access)
		assert.NotEmpty(t, refresh)
		assert.Equal(t, account.Name, resp.Name)
		assert.Equal(t, auth.RoleSupervisor, resp.Role)
	})

	t.Run("negative wrong password", func(t *testing.T) {
		account := hashedAccount(t, "hunter2")
		repo := &fakeAccountRepository{
			getByEmailFn: func(ctx context.Context, email string) (*auth.Account, error) {
				return account, nil
			},
		}
		svc := auth.NewService(repo)

		_, _, _, err := svc.Login(context.Background(), account.Email, "wrong")

		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("negative unknown email", func(t *testing.T) {
		repo := &fakeAccountRepository{
			getByEmailFn: func(ctx context.Context, email string) (*auth.Account, error) {
				return nil, gorm.ErrRecordNotFound
			},
		}
		svc := auth.NewService(repo)

		_, _, _, err := svc.Login(context.Background(), "nobody@arceyvargas.app", "hunter2")

		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})
}

func TestAuthService_CreateAccount(t *testing.T) {
	t.Run("success hashes password and lowercases email", func(t *testing.T) {
		var created *auth.Account
		repo := &fakeAccountRepository{
			emailExists: func(ctx context.Context, email string) (bool, error) { return false, nil },
			createFn: func(ctx context.Context, account *auth.Account) error {
				created = account
				return nil
			},
		}
		svc := auth.NewService(repo)

		cedula := "405550123"
		id, err := svc.CreateAccount(context.Background(), "MartaRojas@arceyvargas.app", "temporal123", "Marta Rojas", auth.RoleEmpleado, &cedula)

		assert.NoError(t, err)
		assert.NotEmpty(t, id)
		assert.NotNil(t, created)
		assert.Equal(t, "martarojas@arceyvargas.app", created.Email)
		assert.NotEqual(t, "temporal123", created.Password)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("temporal123")))
	})

	t.Run("negative duplicate email", func(t *testing.T) {
		repo := &fakeAccountRepository{
			emailExists: func(ctx context.Context, email string) (bool, error) { return true, nil },
		}
		svc := auth.NewService(repo)

		_, err := svc.CreateAccount(context.Background(), "marta@arceyvargas.app", "temporal123", "Marta Rojas", auth.RoleEmpleado, nil)

		assert.ErrorIs(t, err, autherrors.ErrEmailAlreadyRegistered)
	})

	t.Run("negative invalid role", func(t *testing.T) {
		svc := auth.NewService(&fakeAccountRepository{})

		_, err := svc.CreateAccount(context.Background(), "marta@arceyvargas.app", "temporal123", "Marta Rojas", "superadmin", nil)

		assert.ErrorIs(t, err, autherrors.ErrInvalidRole)
	})
}

func TestAccountWriter_WithTx(t *testing.T) {
	repo := &fakeAccountRepository{
		emailExists: func(ctx context.Context, email string) (bool, error) { return false, nil },
		createFn:    func(ctx context.Context, account *auth.Account) error { return nil },
	}
	writer := auth.NewAccountWriter(repo)

	bound := writer.WithTx(&sql.Tx{})

	assert.True(t, repo.withTxCalled)

	_, err := bound.CreateAccount(context.Background(), "nuevo@arceyvargas.app", "temporal123", "Nuevo Empleado", auth.RoleEmpleado, nil)
	assert.NoError(t, err)
}
