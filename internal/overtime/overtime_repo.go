package overtime

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

type ListFilters struct {
	Cedula string
	Status string
}

//go:generate mockgen -source=overtime_repo.go -destination=mock/overtime_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, req *OvertimeRequest) error
	FindByID(ctx context.Context, id string) (*OvertimeRequest, error)
	FindAll(ctx context.Context, filters ListFilters) ([]OvertimeRequest, error)
	UpdateIfStatus(ctx context.Context, id, expectedStatus string, fields map[string]any) (int64, error)
	RecordReviewFailure(ctx context.Context, id, reason string) error
}

// AccrualRepository maintains the horas_extras weekly buckets.
type AccrualRepository interface {
	WithTx(tx *sql.Tx) AccrualRepository
	FindByCedula(ctx context.Context, cedula string) (*WeeklyAccrual, error)
	Create(ctx context.Context, accrual *WeeklyAccrual) error
	IncrementDay(ctx context.Context, cedula, dayColumn string, hours float64) (int64, error)
	ListAll(ctx context.Context) ([]WeeklyAccrual, error)
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

func (r *repository) Create(ctx context.Context, req *OvertimeRequest) error {
	return r.conn(ctx).Create(req).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*OvertimeRequest, error) {
	var req OvertimeRequest
	err := r.conn(ctx).
		First(&req, "id = ?", id).Error
	return &req, err
}

func (r *repository) FindAll(ctx context.Context, filters ListFilters) ([]OvertimeRequest, error) {
	db := r.conn(ctx).
		Model(&OvertimeRequest{}).
		Order("submitted_at DESC")

	if filters.Cedula != "" {
		db = db.Where("cedula = ?", filters.Cedula)
	}
	if filters.Status != "" && filters.Status != "all" {
		db = db.Where("status = ?", filters.Status)
	}

	var reqs []OvertimeRequest
	err := db.Find(&reqs).Error
	return reqs, err
}

// UpdateIfStatus merges fields only while the request still holds
// expectedStatus. Zero rows means another reviewer decided first.
func (r *repository) UpdateIfStatus(ctx context.Context, id, expectedStatus string, fields map[string]any) (int64, error) {
	res := r.conn(ctx).
		Model(&OvertimeRequest{}).
		Where("id = ?", id).
		Where("status = ?", expectedStatus).
		Updates(fields)
	return res.RowsAffected, res.Error
}

// RecordReviewFailure stores the accrual failure reason on the request
// outside any transaction. Called after a rollback, so the request is
// still pending and the note tells the reviewer what went wrong.
func (r *repository) RecordReviewFailure(ctx context.Context, id, reason string) error {
	return r.db.WithContext(ctx).
		Model(&OvertimeRequest{}).
		Where("id = ?", id).
		Update("review_comments", reason).Error
}

type accrualRepository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewAccrualRepository(db *gorm.DB) AccrualRepository {
	return &accrualRepository{db: db}
}

func (r *accrualRepository) WithTx(tx *sql.Tx) AccrualRepository {
	return &accrualRepository{db: r.db, tx: tx}
}

func (r *accrualRepository) conn(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.tx != nil {
		db = db.Session(&gorm.Session{Context: ctx, NewDB: true})
		db.Statement.ConnPool = r.tx
	}
	return db
}

func (r *accrualRepository) FindByCedula(ctx context.Context, cedula string) (*WeeklyAccrual, error) {
	var accrual WeeklyAccrual
	err := r.conn(ctx).
		First(&accrual, "cedula = ?", cedula).Error
	return &accrual, err
}

func (r *accrualRepository) Create(ctx context.Context, accrual *WeeklyAccrual) error {
	return r.conn(ctx).Create(accrual).Error
}

// IncrementDay adds hours to one day column in place so concurrent
// approvals for the same employee cannot lose an update.
func (r *accrualRepository) IncrementDay(ctx context.Context, cedula, dayColumn string, hours float64) (int64, error) {
	res := r.conn(ctx).
		Model(&WeeklyAccrual{}).
		Where("cedula = ?", cedula).
		Update(dayColumn, gorm.Expr(dayColumn+" + ?", hours))
	return res.RowsAffected, res.Error
}

func (r *accrualRepository) ListAll(ctx context.Context) ([]WeeklyAccrual, error) {
	var accruals []WeeklyAccrual
	err := r.conn(ctx).
		Order("nombre ASC").
		Find(&accruals).Error
	return accruals, err
}
