package auth

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"strings"
	"time"

	autherrors "github.com/Arce-y-Vargas/arceyvargas-system/internal/auth/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Roles recognized across the system. GM and HR are the two approval
// tracks for change requests; supervisors review overtime.
const (
	RoleGerente    = "gerente"
	RoleRRHH       = "rrhh"
	RoleSupervisor = "supervisor"
	RoleEmpleado   = "empleado"
)

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	Login(ctx context.Context, email, password string) (accessToken, refreshToken string, resp AuthResponse, err error)
	RefreshToken(ctx context.Context, refreshToken string) (newAccessToken, newRefreshToken string, resp AuthResponse, err error)
	GetMe(ctx context.Context, userID string) (*AuthResponse, error)
	CreateAccount(ctx context.Context, email, password, name, role string, cedula *string) (string, error)
}

// AccountWriter is the slice of the auth service that other workflows
// use to provision login identities inside their own transaction.
type AccountWriter interface {
	WithTx(tx *sql.Tx) AccountWriter
	CreateAccount(ctx context.Context, email, password, name, role string, cedula *string) (string, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	return &service{repo: repo, logger: l}
}

// NewAccountWriter exposes account provisioning over the same repository
// for callers that bring their own transaction.
func NewAccountWriter(repo Repository, logger ...*zap.Logger) AccountWriter {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) WithTx(tx *sql.Tx) AccountWriter {
	return &service{repo: s.repo.WithTx(tx), logger: s.logger}
}

func (s *service) Login(ctx context.Context, email, password string) (string, string, AuthResponse, error) {
	account, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(password)); err != nil {
		return "", "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	accessToken, err := s.generateToken(account, time.Minute*15)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}
	refreshToken, err := s.generateToken(account, time.Hour*24*7)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}

	s.logger.Info("login success", zap.String("account_id", account.ID.String()), zap.String("role", account.Role))

	return accessToken, refreshToken, mapToAuthResponse(account), nil
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (string, string, AuthResponse, error) {
	token, err := jwt.Parse(refreshToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, autherrors.ErrInvalidToken
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		return "", "", AuthResponse{}, autherrors.ErrInvalidRefreshToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", AuthResponse{}, autherrors.ErrInvalidToken
	}

	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return "", "", AuthResponse{}, autherrors.ErrInvalidToken
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrInvalidToken
	}

	account, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrAccountNotFound
	}

	newAccessToken, err := s.generateToken(account, time.Minute*15)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}
	newRefreshToken, err := s.generateToken(account, time.Hour*24*7)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}

	return newAccessToken, newRefreshToken, mapToAuthResponse(account), nil
}

func (s *service) GetMe(ctx context.Context, userID string) (*AuthResponse, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, autherrors.ErrInvalidToken
	}

	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, autherrors.ErrAccountNotFound
		}
		return nil, err
	}

	resp := mapToAuthResponse(account)
	return &resp, nil
}

// CreateAccount registers a login identity. Called by the HR request
// applicator when an add-employee request is fully approved; a duplicate
// email is reported as a conflict so the whole apply can be rolled back.
func (s *service) CreateAccount(ctx context.Context, email, password, name, role string, cedula *string) (string, error) {
	switch role {
	case RoleGerente, RoleRRHH, RoleSupervisor, RoleEmpleado:
	default:
		return "", autherrors.ErrInvalidRole
	}

	exists, err := s.repo.EmailExists(ctx, email)
	if err != nil {
		return "", err
	}
	if exists {
		return "", autherrors.ErrEmailAlreadyRegistered
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	account := &Account{
		ID:       uuid.New(),
		Email:    strings.ToLower(email),
		Password: string(hash),
		Name:     name,
		Role:     role,
		Cedula:   cedula,
	}

	if err := s.repo.Create(ctx, account); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return "", autherrors.ErrEmailAlreadyRegistered
		}
		s.logger.Error("create account persist failed", zap.String("email", email), zap.Error(err))
		return "", err
	}

	s.logger.Info("account created",
		zap.String("account_id", account.ID.String()),
		zap.String("role", role),
	)

	return account.ID.String(), nil
}

func (s *service) generateToken(account *Account, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": account.ID.String(),
		"email":   account.Email,
		"name":    account.Name,
		"role":    account.Role,
		"exp":     time.Now().Add(ttl).Unix(),
	}
	if account.Cedula != nil {
		claims["cedula"] = *account.Cedula
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

func mapToAuthResponse(account *Account) AuthResponse {
	return AuthResponse{
		ID:     account.ID.String(),
		Email:  account.Email,
		Name:   account.Name,
		Role:   account.Role,
		Cedula: account.Cedula,
	}
}
