package hrrequest

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Arce-y-Vargas/arceyvargas-system/internal/events"
	hrrequesterrors "github.com/Arce-y-Vargas/arceyvargas-system/internal/hrrequest/errors"
	"github.com/Arce-y-Vargas/arceyvargas-system/internal/messaging/kafka"
	"github.com/Arce-y-Vargas/arceyvargas-system/internal/shared/apperror"
	"github.com/Arce-y-Vargas/arceyvargas-system/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultRejectionReason = "sin comentarios"

// OptionsInvalidator lets the workflow drop the cached employee listing
// after an applied change. Satisfied by employee.Service.
type OptionsInvalidator interface {
	InvalidateOptions(ctx context.Context)
}

//go:generate mockgen -source=hrrequest_service.go -destination=mock/hrrequest_service_mock.go -package=mock
type Service interface {
	Submit(ctx context.Context, requestedBy, requestedByName, requestedByRole string, req SubmitHRRequest) (HRRequestResponse, error)
	GetAll(ctx context.Context, filters ListFilters) ([]HRRequestResponse, error)
	GetByID(ctx context.Context, id string) (HRRequestResponse, error)
	ApproveGM(ctx context.Context, id, approverName, comments string) (HRRequestResponse, error)
	ApproveHR(ctx context.Context, id, approverName, comments string) (HRRequestResponse, error)
	Reject(ctx context.Context, id, approverName, reason string) (HRRequestResponse, error)
}

type service struct {
	db         *sql.DB
	repo       Repository
	applicator Applicator
	outbox     kafka.OutboxRepository
	cache      OptionsInvalidator
	logger     *zap.Logger
}

func NewService(db *sql.DB, repo Repository, applicator Applicator, logger ...*zap.Logger) Service {
	return NewServiceWithOutbox(db, repo, applicator, nil, nil, logger...)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	applicator Applicator,
	outboxRepo kafka.OutboxRepository,
	cache OptionsInvalidator,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("hrrequest.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("hrrequest.service")
	}
	return &service{
		db:         db,
		repo:       repo,
		applicator: applicator,
		outbox:     outboxRepo,
		cache:      cache,
		logger:     l,
	}
}

func (s *service) Submit(ctx context.Context, requestedBy, requestedByName, requestedByRole string, req SubmitHRRequest) (HRRequestResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("submit hr request",
		zap.String("request_id", rid),
		zap.String("type", req.Type),
		zap.String("requested_by", requestedBy),
	)

	reqType := RequestType(req.Type)
	if !reqType.IsValid() {
		return HRRequestResponse{}, hrrequesterrors.ErrInvalidRequestType
	}
	if reqType.IsEdit() && (req.TargetCedula == nil || *req.TargetCedula == "") {
		return HRRequestResponse{}, hrrequesterrors.ErrMissingTargetEmployee
	}
	if reqType == TypeAddEmployee {
		cedula, _ := req.ProposedData["cedula"].(string)
		nombre, _ := req.ProposedData["nombre"].(string)
		if cedula == "" || nombre == "" {
			return HRRequestResponse{}, hrrequesterrors.ErrIncompleteProposedData
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("submit hr request begin tx failed", zap.Error(err))
		return HRRequestResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	r := &HRRequest{
		ID:                 uuid.New(),
		Type:               reqType,
		RequestedBy:        requestedBy,
		RequestedByName:    requestedByName,
		RequestedByRole:    requestedByRole,
		Title:              req.Title,
		Description:        req.Description,
		CurrentData:        JSONMap(req.CurrentData),
		ProposedData:       JSONMap(req.ProposedData),
		TargetCedula:       req.TargetCedula,
		TargetEmployeeName: req.TargetEmployeeName,
		Status:             StatusPending,
		SubmittedAt:        time.Now().UTC(),
	}

	if err := qtx.Create(ctx, r); err != nil {
		s.logger.Error("submit hr request persist failed", zap.Error(err))
		return HRRequestResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("submit hr request commit failed", zap.Error(err))
		return HRRequestResponse{}, err
	}

	s.logger.Info("hr request submitted",
		zap.String("hr_request_id", r.ID.String()),
		zap.String("type", req.Type),
	)

	return mapToResponse(*r), nil
}

func (s *service) GetAll(ctx context.Context, filters ListFilters) ([]HRRequestResponse, error) {
	reqs, err := s.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(reqs), nil
}

func (s *service) GetByID(ctx context.Context, id string) (HRRequestResponse, error) {
	req, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return HRRequestResponse{}, hrrequesterrors.ErrRequestNotFound
		}
		return HRRequestResponse{}, err
	}
	return mapToResponse(*req), nil
}

// approvalTrack describes one of the two independent sign-off tracks.
// The state machine is symmetric: approving the second track, in either
// order, moves the request to approved.
type approvalTrack struct {
	byColumn       string
	atColumn       string
	commentsColumn string
	partialStatus  string
	isSet          func(*HRRequest) bool
	otherIsSet     func(*HRRequest) bool
	record         func(*HRRequest, string, time.Time, string)
}

var trackGM = approvalTrack{
	byColumn:       "gm_approved_by",
	atColumn:       "gm_approved_at",
	commentsColumn: "gm_comments",
	partialStatus:  StatusApprovedByGM,
	isSet:          func(r *HRRequest) bool { return r.GMApprovedAt != nil },
	otherIsSet:     func(r *HRRequest) bool { return r.HRApprovedAt != nil },
	record: func(r *HRRequest, by string, at time.Time, comments string) {
		r.GMApprovedBy = &by
		r.GMApprovedAt = &at
		r.GMComments = &comments
	},
}

var trackHR = approvalTrack{
	byColumn:       "hr_approved_by",
	atColumn:       "hr_approved_at",
	commentsColumn: "hr_comments",
	partialStatus:  StatusApprovedByHR,
	isSet:          func(r *HRRequest) bool { return r.HRApprovedAt != nil },
	otherIsSet:     func(r *HRRequest) bool { return r.GMApprovedAt != nil },
	record: func(r *HRRequest, by string, at time.Time, comments string) {
		r.HRApprovedBy = &by
		r.HRApprovedAt = &at
		r.HRComments = &comments
	},
}

func (s *service) ApproveGM(ctx context.Context, id, approverName, comments string) (HRRequestResponse, error) {
	return s.approve(ctx, id, approverName, comments, trackGM)
}

func (s *service) ApproveHR(ctx context.Context, id, approverName, comments string) (HRRequestResponse, error) {
	return s.approve(ctx, id, approverName, comments, trackHR)
}

func (s *service) approve(ctx context.Context, id, approverName, comments string, track approvalTrack) (HRRequestResponse, error) {
	s.logger.Debug("approve hr request",
		zap.String("hr_request_id", id),
		zap.String("approver", approverName),
		zap.String("track_status", track.partialStatus),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("approve hr request begin tx failed", zap.Error(err))
		return HRRequestResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	req, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return HRRequestResponse{}, hrrequesterrors.ErrRequestNotFound
		}
		return HRRequestResponse{}, err
	}

	if IsTerminal(req.Status) {
		return HRRequestResponse{}, hrrequesterrors.ErrRequestFinalized
	}
	if track.isSet(req) {
		return HRRequestResponse{}, hrrequesterrors.ErrTrackAlreadyApproved
	}

	now := time.Now().UTC()
	newStatus := track.partialStatus
	if track.otherIsSet(req) {
		newStatus = StatusApproved
	}

	fields := map[string]any{
		"status":             newStatus,
		track.byColumn:       approverName,
		track.atColumn:       now,
		track.commentsColumn: comments,
	}
	if newStatus == StatusApproved {
		fields["processed_at"] = now
		if scrubbed, changed := scrubPassword(req.ProposedData); changed {
			fields["proposed_data"] = scrubbed
		}
	}

	priorStatus := req.Status
	rows, err := qtx.UpdateIfStatus(ctx, id, priorStatus, fields)
	if err != nil {
		s.logger.Error("approve hr request persist failed", zap.String("hr_request_id", id), zap.Error(err))
		return HRRequestResponse{}, err
	}
	if rows == 0 {
		s.logger.Warn("approve hr request lost status race",
			zap.String("hr_request_id", id),
			zap.String("expected_status", priorStatus),
		)
		return HRRequestResponse{}, hrrequesterrors.ErrConcurrentUpdate
	}

	track.record(req, approverName, now, comments)
	req.Status = newStatus

	if newStatus == StatusApproved {
		req.ProcessedAt = &now

		if err := s.applicator.WithTx(tx).Apply(ctx, req); err != nil {
			// the deferred rollback reverts the request to its
			// pre-action status and clears this approval
			s.logger.Error("apply approved hr request failed",
				zap.String("hr_request_id", id),
				zap.String("type", string(req.Type)),
				zap.String("reverted_to", priorStatus),
				zap.Error(err),
			)
			var appErr *apperror.AppError
			if errors.As(err, &appErr) {
				return HRRequestResponse{}, err
			}
			return HRRequestResponse{}, apperror.Wrap(
				err,
				apperror.CodeApplyFailed,
				"Failed to apply approved request",
				http.StatusInternalServerError,
			)
		}

		if err := s.enqueueDecisionEvent(ctx, tx, req, now); err != nil {
			s.logger.Error("enqueue hr request event failed", zap.String("hr_request_id", id), zap.Error(err))
			return HRRequestResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("approve hr request commit failed", zap.String("hr_request_id", id), zap.Error(err))
		return HRRequestResponse{}, err
	}

	if newStatus == StatusApproved && s.cache != nil {
		s.cache.InvalidateOptions(ctx)
	}

	s.logger.Info("hr request approval recorded",
		zap.String("hr_request_id", id),
		zap.String("status", newStatus),
	)

	return mapToResponse(*req), nil
}

func (s *service) Reject(ctx context.Context, id, approverName, reason string) (HRRequestResponse, error) {
	s.logger.Debug("reject hr request",
		zap.String("hr_request_id", id),
		zap.String("approver", approverName),
	)

	if reason == "" {
		reason = defaultRejectionReason
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("reject hr request begin tx failed", zap.Error(err))
		return HRRequestResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	req, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return HRRequestResponse{}, hrrequesterrors.ErrRequestNotFound
		}
		return HRRequestResponse{}, err
	}

	if IsTerminal(req.Status) {
		return HRRequestResponse{}, hrrequesterrors.ErrRequestFinalized
	}

	// earlier approvals stay on the request for audit; only status and
	// the rejection fields change
	now := time.Now().UTC()
	fields := map[string]any{
		"status":           StatusRejected,
		"rejected_by":      approverName,
		"rejected_at":      now,
		"rejection_reason": reason,
		"processed_at":     now,
	}

	priorStatus := req.Status
	rows, err := qtx.UpdateIfStatus(ctx, id, priorStatus, fields)
	if err != nil {
		s.logger.Error("reject hr request persist failed", zap.String("hr_request_id", id), zap.Error(err))
		return HRRequestResponse{}, err
	}
	if rows == 0 {
		return HRRequestResponse{}, hrrequesterrors.ErrConcurrentUpdate
	}

	req.Status = StatusRejected
	req.RejectedBy = &approverName
	req.RejectedAt = &now
	req.RejectionReason = &reason
	req.ProcessedAt = &now

	if err := s.enqueueDecisionEvent(ctx, tx, req, now); err != nil {
		s.logger.Error("enqueue hr request event failed", zap.String("hr_request_id", id), zap.Error(err))
		return HRRequestResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("reject hr request commit failed", zap.String("hr_request_id", id), zap.Error(err))
		return HRRequestResponse{}, err
	}

	s.logger.Info("hr request rejected", zap.String("hr_request_id", id))

	return mapToResponse(*req), nil
}

func (s *service) enqueueDecisionEvent(ctx context.Context, tx *sql.Tx, req *HRRequest, at time.Time) error {
	if s.outbox == nil {
		return nil
	}

	payload, err := json.Marshal(events.HRRequestDecidedEvent{
		EventType:  events.HRRequestDecidedType,
		RequestID:  req.ID.String(),
		Type:       string(req.Type),
		Status:     req.Status,
		OccurredAt: at,
	})
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "hr_request",
		AggregateID:   req.ID.String(),
		EventType:     events.HRRequestDecidedType,
		Topic:         events.HRRequestDecidedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

// scrubPassword returns proposed without the one-time credential. The
// second result reports whether anything was removed.
func scrubPassword(proposed JSONMap) (JSONMap, bool) {
	if proposed == nil {
		return nil, false
	}
	if _, ok := proposed[passwordKey]; !ok {
		return proposed, false
	}

	scrubbed := make(JSONMap, len(proposed))
	for key, value := range proposed {
		if key == passwordKey {
			continue
		}
		scrubbed[key] = value
	}
	return scrubbed, true
}
