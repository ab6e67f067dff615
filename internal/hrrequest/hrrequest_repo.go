package hrrequest

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

type ListFilters struct {
	Status      string
	Type        string
	RequestedBy string
}

//go:generate mockgen -source=hrrequest_repo.go -destination=mock/hrrequest_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, req *HRRequest) error
	FindByID(ctx context.Context, id string) (*HRRequest, error)
	FindAll(ctx context.Context, filters ListFilters) ([]HRRequest, error)
	UpdateIfStatus(ctx context.Context, id, expectedStatus string, fields map[string]any) (int64, error)
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

func (r *repository) Create(ctx context.Context, req *HRRequest) error {
	return r.conn(ctx).Create(req).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*HRRequest, error) {
	var req HRRequest
	err := r.conn(ctx).
		First(&req, "id = ?", id).Error
	return &req, err
}

func (r *repository) FindAll(ctx context.Context, filters ListFilters) ([]HRRequest, error) {
	db := r.conn(ctx).
		Model(&HRRequest{}).
		Order("submitted_at DESC")

	if filters.Status != "" && filters.Status != "all" {
		db = db.Where("status = ?", filters.Status)
	}
	if filters.Type != "" && filters.Type != "all" {
		db = db.Where("type = ?", filters.Type)
	}
	if filters.RequestedBy != "" {
		db = db.Where("requested_by = ?", filters.RequestedBy)
	}

	var reqs []HRRequest
	err := db.Find(&reqs).Error
	return reqs, err
}

// UpdateIfStatus merges fields into the request only if its status still
// equals expectedStatus, and reports how many rows matched. A zero count
// means another approver got there first; the caller must not proceed
// with side effects.
func (r *repository) UpdateIfStatus(ctx context.Context, id, expectedStatus string, fields map[string]any) (int64, error) {
	res := r.conn(ctx).
		Model(&HRRequest{}).
		Where("id = ?", id).
		Where("status = ?", expectedStatus).
		Updates(fields)
	return res.RowsAffected, res.Error
}
