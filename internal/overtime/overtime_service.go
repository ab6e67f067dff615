package overtime

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Arce-y-Vargas/arceyvargas-system/internal/events"
	"github.com/Arce-y-Vargas/arceyvargas-system/internal/messaging/kafka"
	overtimeerrors "github.com/Arce-y-Vargas/arceyvargas-system/internal/overtime/errors"
	"github.com/Arce-y-Vargas/arceyvargas-system/internal/shared/apperror"
	"github.com/Arce-y-Vargas/arceyvargas-system/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"

	defaultReviewComment = "sin comentarios"
)

//go:generate mockgen -source=overtime_service.go -destination=mock/overtime_service_mock.go -package=mock
type Service interface {
	Submit(ctx context.Context, cedula, employeeName string, req SubmitOvertimeRequest) (OvertimeResponse, error)
	GetAll(ctx context.Context, filters ListFilters) ([]OvertimeResponse, error)
	GetByID(ctx context.Context, id string) (OvertimeResponse, error)
	Approve(ctx context.Context, id, reviewerName, comments string) (OvertimeResponse, error)
	Reject(ctx context.Context, id, reviewerName, comments string) (OvertimeResponse, error)
	ListAccruals(ctx context.Context) ([]AccrualResponse, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	accruals AccrualRepository
	outbox   kafka.OutboxRepository
	logger   *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	accruals AccrualRepository,
	outboxRepo kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("overtime.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("overtime.service")
	}
	return &service{
		db:       db,
		repo:     repo,
		accruals: accruals,
		outbox:   outboxRepo,
		logger:   l,
	}
}

func (s *service) Submit(ctx context.Context, cedula, employeeName string, req SubmitOvertimeRequest) (OvertimeResponse, error) {
	s.logger.Debug("submit overtime",
		zap.String("request_id", contextutil.GetRequestID(ctx)),
		zap.String("cedula", cedula),
		zap.String("date", req.Date),
	)

	if _, err := time.Parse(dateLayout, req.Date); err != nil {
		return OvertimeResponse{}, overtimeerrors.ErrInvalidDate
	}

	hours, err := computeHours(req.StartTime, req.EndTime)
	if err != nil {
		return OvertimeResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("submit overtime begin tx failed", zap.Error(err))
		return OvertimeResponse{}, err
	}
	defer tx.Rollback()

	r := &OvertimeRequest{
		ID:            uuid.New(),
		Cedula:        cedula,
		EmployeeName:  employeeName,
		Date:          req.Date,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		OvertimeHours: hours,
		Location:      req.Location,
		Description:   req.Description,
		PhotoEvidence: req.PhotoEvidence,
		Status:        StatusPending,
		SubmittedAt:   time.Now().UTC(),
	}

	if err := s.repo.WithTx(tx).Create(ctx, r); err != nil {
		s.logger.Error("submit overtime persist failed", zap.Error(err))
		return OvertimeResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("submit overtime commit failed", zap.Error(err))
		return OvertimeResponse{}, err
	}

	s.logger.Info("overtime submitted",
		zap.String("overtime_id", r.ID.String()),
		zap.Float64("hours", hours),
	)

	return mapToResponse(*r), nil
}

func (s *service) GetAll(ctx context.Context, filters ListFilters) ([]OvertimeResponse, error) {
	reqs, err := s.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(reqs), nil
}

func (s *service) GetByID(ctx context.Context, id string) (OvertimeResponse, error) {
	req, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return OvertimeResponse{}, overtimeerrors.ErrOvertimeNotFound
		}
		return OvertimeResponse{}, err
	}
	return mapToResponse(*req), nil
}

func (s *service) Approve(ctx context.Context, id, reviewerName, comments string) (OvertimeResponse, error) {
	s.logger.Debug("approve overtime",
		zap.String("overtime_id", id),
		zap.String("reviewer", reviewerName),
	)

	if comments == "" {
		comments = defaultReviewComment
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("approve overtime begin tx failed", zap.Error(err))
		return OvertimeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	req, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return OvertimeResponse{}, overtimeerrors.ErrOvertimeNotFound
		}
		return OvertimeResponse{}, err
	}

	if req.Status != StatusPending {
		return OvertimeResponse{}, overtimeerrors.ErrAlreadyReviewed
	}

	now := time.Now().UTC()
	fields := map[string]any{
		"status":          StatusApproved,
		"reviewed_by":     reviewerName,
		"reviewed_at":     now,
		"review_comments": comments,
	}

	rows, err := qtx.UpdateIfStatus(ctx, id, StatusPending, fields)
	if err != nil {
		s.logger.Error("approve overtime persist failed", zap.String("overtime_id", id), zap.Error(err))
		return OvertimeResponse{}, err
	}
	if rows == 0 {
		return OvertimeResponse{}, overtimeerrors.ErrConcurrentReview
	}

	req.Status = StatusApproved
	req.ReviewedBy = &reviewerName
	req.ReviewedAt = &now
	req.ReviewComments = &comments

	if err := s.accrue(ctx, tx, req); err != nil {
		// roll back before the compensating write: it runs outside the
		// transaction and would otherwise wait on the row lock held here
		s.logger.Error("overtime accrual failed",
			zap.String("overtime_id", id),
			zap.String("cedula", req.Cedula),
			zap.Error(err),
		)
		_ = tx.Rollback()

		reason := fmt.Sprintf("Error al registrar horas: %v", err)
		if recErr := s.repo.RecordReviewFailure(ctx, id, reason); recErr != nil {
			s.logger.Error("record accrual failure note failed",
				zap.String("overtime_id", id),
				zap.Error(recErr),
			)
		}

		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			return OvertimeResponse{}, err
		}
		return OvertimeResponse{}, apperror.Wrap(
			err,
			apperror.CodeApplyFailed,
			"Failed to record approved hours in the weekly accrual",
			http.StatusInternalServerError,
		)
	}

	if err := s.enqueueReviewEvent(ctx, tx, req, now); err != nil {
		s.logger.Error("enqueue overtime event failed", zap.String("overtime_id", id), zap.Error(err))
		return OvertimeResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("approve overtime commit failed", zap.String("overtime_id", id), zap.Error(err))
		return OvertimeResponse{}, err
	}

	s.logger.Info("overtime approved",
		zap.String("overtime_id", id),
		zap.Float64("hours", req.OvertimeHours),
	)

	return mapToResponse(*req), nil
}

func (s *service) Reject(ctx context.Context, id, reviewerName, comments string) (OvertimeResponse, error) {
	s.logger.Debug("reject overtime",
		zap.String("overtime_id", id),
		zap.String("reviewer", reviewerName),
	)

	if comments == "" {
		comments = defaultReviewComment
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("reject overtime begin tx failed", zap.Error(err))
		return OvertimeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	req, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return OvertimeResponse{}, overtimeerrors.ErrOvertimeNotFound
		}
		return OvertimeResponse{}, err
	}

	if req.Status != StatusPending {
		return OvertimeResponse{}, overtimeerrors.ErrAlreadyReviewed
	}

	now := time.Now().UTC()
	fields := map[string]any{
		"status":          StatusRejected,
		"reviewed_by":     reviewerName,
		"reviewed_at":     now,
		"review_comments": comments,
	}

	rows, err := qtx.UpdateIfStatus(ctx, id, StatusPending, fields)
	if err != nil {
		s.logger.Error("reject overtime persist failed", zap.String("overtime_id", id), zap.Error(err))
		return OvertimeResponse{}, err
	}
	if rows == 0 {
		return OvertimeResponse{}, overtimeerrors.ErrConcurrentReview
	}

	req.Status = StatusRejected
	req.ReviewedBy = &reviewerName
	req.ReviewedAt = &now
	req.ReviewComments = &comments

	if err := s.enqueueReviewEvent(ctx, tx, req, now); err != nil {
		s.logger.Error("enqueue overtime event failed", zap.String("overtime_id", id), zap.Error(err))
		return OvertimeResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("reject overtime commit failed", zap.String("overtime_id", id), zap.Error(err))
		return OvertimeResponse{}, err
	}

	s.logger.Info("overtime rejected", zap.String("overtime_id", id))

	return mapToResponse(*req), nil
}

func (s *service) ListAccruals(ctx context.Context) ([]AccrualResponse, error) {
	accruals, err := s.accruals.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]AccrualResponse, 0, len(accruals))
	for _, accrual := range accruals {
		out = append(out, mapToAccrualResponse(accrual))
	}
	return out, nil
}

// accrue adds the approved hours to the weekly bucket matching the
// calendar weekday of the request date, creating the employee row lazily.
func (s *service) accrue(ctx context.Context, tx *sql.Tx, req *OvertimeRequest) error {
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return overtimeerrors.ErrInvalidDate
	}

	column, err := weekdayColumn(date.Weekday())
	if err != nil {
		return err
	}

	accruals := s.accruals.WithTx(tx)

	if _, err := accruals.FindByCedula(ctx, req.Cedula); err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := accruals.Create(ctx, &WeeklyAccrual{
			Cedula: req.Cedula,
			Nombre: req.EmployeeName,
		}); err != nil {
			return err
		}
	}

	rows, err := accruals.IncrementDay(ctx, req.Cedula, column, req.OvertimeHours)
	if err != nil {
		return err
	}
	if rows == 0 {
		return overtimeerrors.ErrAccrualFailed
	}

	return nil
}

func (s *service) enqueueReviewEvent(ctx context.Context, tx *sql.Tx, req *OvertimeRequest, at time.Time) error {
	if s.outbox == nil {
		return nil
	}

	payload, err := json.Marshal(events.OvertimeReviewedEvent{
		EventType:  events.OvertimeReviewedType,
		RequestID:  req.ID.String(),
		Cedula:     req.Cedula,
		Status:     req.Status,
		Hours:      req.OvertimeHours,
		OccurredAt: at,
	})
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "overtime_request",
		AggregateID:   req.ID.String(),
		EventType:     events.OvertimeReviewedType,
		Topic:         events.OvertimeReviewedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

// computeHours derives the claimed hours from the HH:MM bounds. The
// result must be positive and within the per-request cap.
func computeHours(startTime, endTime string) (float64, error) {
	start, err := time.Parse(timeLayout, startTime)
	if err != nil {
		return 0, overtimeerrors.ErrInvalidTimeRange
	}
	end, err := time.Parse(timeLayout, endTime)
	if err != nil {
		return 0, overtimeerrors.ErrInvalidTimeRange
	}

	minutes := end.Sub(start).Minutes()
	if minutes <= 0 {
		return 0, overtimeerrors.ErrInvalidTimeRange
	}

	hours := minutes / 60
	if hours > MaxHoursPerRequest {
		return 0, overtimeerrors.ErrHoursOutOfRange
	}
	return hours, nil
}

// weekdayColumn maps a calendar weekday onto its bucket column. The
// switch covers every time.Weekday value; the error branch guards
// against future enum changes only.
func weekdayColumn(day time.Weekday) (string, error) {
	switch day {
	case time.Monday:
		return "lunes", nil
	case time.Tuesday:
		return "martes", nil
	case time.Wednesday:
		return "miercoles", nil
	case time.Thursday:
		return "jueves", nil
	case time.Friday:
		return "viernes", nil
	case time.Saturday:
		return "sabado", nil
	case time.Sunday:
		return "domingo", nil
	default:
		return "", fmt.Errorf("unknown weekday %d", day)
	}
}
