package employee

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, emp *Employee) error
	FindAll(ctx context.Context) ([]Employee, error)
	FindByCedula(ctx context.Context, cedula string) (*Employee, error)
	Exists(ctx context.Context, cedula string) (bool, error)
	UpdateFields(ctx context.Context, cedula string, fields map[string]any) (int64, error)
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

func (r *repository) Create(ctx context.Context, emp *Employee) error {
	return r.conn(ctx).Create(emp).Error
}

func (r *repository) FindAll(ctx context.Context) ([]Employee, error) {
	var emps []Employee
	err := r.conn(ctx).
		Order("nombre ASC").
		Find(&emps).Error
	return emps, err
}

func (r *repository) FindByCedula(ctx context.Context, cedula string) (*Employee, error) {
	var emp Employee
	err := r.conn(ctx).
		First(&emp, "cedula = ?", cedula).Error
	return &emp, err
}

func (r *repository) Exists(ctx context.Context, cedula string) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Model(&Employee{}).
		Where("cedula = ?", cedula).
		Count(&count).Error
	return count > 0, err
}

// UpdateFields merges only the given columns into the row. Returns the
// number of rows touched so callers can tell a missing employee apart
// from a no-op.
func (r *repository) UpdateFields(ctx context.Context, cedula string, fields map[string]any) (int64, error) {
	res := r.conn(ctx).
		Model(&Employee{}).
		Where("cedula = ?", cedula).
		Updates(fields)
	return res.RowsAffected, res.Error
}
