package auth

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=auth_repo.go -destination=mock/auth_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, account *Account) error
	GetByEmail(ctx context.Context, email string) (*Account, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Account, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

// conn returns a gorm handle bound to the pending transaction when one
// is set, so the caller's rollback also reverts work done here.
func (r *repository) conn(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.tx != nil {
		db = db.Session(&gorm.Session{Context: ctx, NewDB: true})
		db.Statement.ConnPool = r.tx
	}
	return db
}

func (r *repository) Create(ctx context.Context, account *Account) error {
	return r.conn(ctx).Create(account).Error
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*Account, error) {
	var account Account
	err := r.conn(ctx).
		First(&account, "email = ?", email).Error
	return &account, err
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Account, error) {
	var account Account
	err := r.conn(ctx).
		First(&account, "id = ?", id).Error
	return &account, err
}

func (r *repository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Model(&Account{}).
		Where("email = ?", email).
		Count(&count).Error
	return count > 0, err
}
