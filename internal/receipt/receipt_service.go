package receipt

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-farmops/internal/approval"
	receipterrors "go-farmops/internal/receipt/errors"
	"go-farmops/internal/shared/contextutil"
	"go-farmops/internal/shared/counter"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service interface {
	Create(ctx context.Context, farmID, actorID string, req CreateReceiptRequest) (ReceiptResponse, error)
	GetAll(ctx context.Context, farmID string, filter ListFilter) ([]ReceiptResponse, error)
	GetByID(ctx context.Context, farmID, id string) (ReceiptResponse, error)
	Approve(ctx context.Context, farmID, actorID, id string) (ReceiptResponse, error)
	Reject(ctx context.Context, farmID, actorID, id, rejectionReason string) (ReceiptResponse, error)

	RequestChange(ctx context.Context, farmID, actorID, receiptID string, req CreateChangeRequestRequest) (ChangeRequestResponse, error)
	ListChangeRequests(ctx context.Context, farmID string, filter ChangeRequestFilter) ([]ChangeRequestResponse, error)
	ApproveChange(ctx context.Context, farmID, actorID, id string) (ChangeRequestResponse, error)
	RejectChange(ctx context.Context, farmID, actorID, id, rejectionReason string) (ChangeRequestResponse, error)
}

type service struct {
	db          *sql.DB
	repo        Repository
	counterRepo counter.Repository
	approvals   approval.Service
	logger      *zap.Logger
}

func NewService(db *sql.DB, repo Repository, counterRepo counter.Repository, approvals approval.Service, logger ...*zap.Logger) Service {
	l := zap.L().Named("receipt.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("receipt.service")
	}
	return &service{db: db, repo: repo, counterRepo: counterRepo, approvals: approvals, logger: l}
}

func FormatReceiptNumber(seq int64) string {
	return fmt.Sprintf("RCP-%06d", seq)
}

func (s *service) Create(ctx context.Context, farmID, actorID string, req CreateReceiptRequest) (ReceiptResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	farmUUID, err := uuid.Parse(farmID)
	if err != nil {
		return ReceiptResponse{}, receipterrors.ErrInvalidFarmID
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return ReceiptResponse{}, receipterrors.ErrInvalidActorID
	}
	receiptDate, err := time.Parse("2006-01-02", req.ReceiptDate)
	if err != nil {
		return ReceiptResponse{}, receipterrors.ErrInvalidDateFormat
	}
	if req.Amount <= 0 {
		return ReceiptResponse{}, receipterrors.ErrInvalidAmount
	}
	fund := strings.TrimSpace(req.Fund)
	if fund == "" {
		return ReceiptResponse{}, receipterrors.ErrEmptyFund
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("create receipt begin tx failed", zap.Error(err))
		return ReceiptResponse{}, err
	}
	defer tx.Rollback()

	seq, err := s.counterRepo.WithTx(tx).GetNextValue(ctx, farmID, counter.CounterReceiptNumber)
	if err != nil {
		log.Error("create receipt counter failed", zap.Error(err))
		return ReceiptResponse{}, err
	}

	rc := &Receipt{
		ID:            uuid.New(),
		FarmID:        farmUUID,
		ReceiptNumber: FormatReceiptNumber(seq),
		ReceiptType:   req.ReceiptType,
		Fund:          fund,
		Amount:        req.Amount,
		ReceiptDate:   receiptDate,
		Description:   req.Description,
		CreatedBy:     actorUUID,
		Review:        approval.Review{Status: approval.StatusPending},
	}
	if err := s.repo.WithTx(tx).Create(ctx, rc); err != nil {
		log.Error("create receipt persist failed", zap.Error(err))
		return ReceiptResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		log.Error("create receipt commit failed", zap.Error(err))
		return ReceiptResponse{}, err
	}

	log.Info("create receipt success",
		zap.String("receipt_id", rc.ID.String()),
		zap.String("receipt_number", rc.ReceiptNumber),
		zap.Int64("amount", rc.Amount),
	)
	return mapReceipt(*rc), nil
}

func (s *service) GetAll(ctx context.Context, farmID string, filter ListFilter) ([]ReceiptResponse, error) {
	receipts, err := s.repo.FindAllByFarm(ctx, farmID, filter)
	if err != nil {
		return nil, err
	}
	resp := make([]ReceiptResponse, len(receipts))
	for i, rc := range receipts {
		resp[i] = mapReceipt(rc)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, farmID, id string) (ReceiptResponse, error) {
	rc, err := s.findReceipt(ctx, s.repo, farmID, id)
	if err != nil {
		return ReceiptResponse{}, err
	}
	return mapReceipt(*rc), nil
}

func (s *service) Approve(ctx context.Context, farmID, actorID, id string) (ReceiptResponse, error) {
	if _, err := s.approvals.Approve(ctx, farmID, actorID, approval.KindReceipt, id); err != nil {
		return ReceiptResponse{}, err
	}
	return s.GetByID(ctx, farmID, id)
}

func (s *service) Reject(ctx context.Context, farmID, actorID, id, rejectionReason string) (ReceiptResponse, error) {
	if _, err := s.approvals.Reject(ctx, farmID, actorID, approval.KindReceipt, id, rejectionReason); err != nil {
		return ReceiptResponse{}, err
	}
	return s.GetByID(ctx, farmID, id)
}

func (s *service) RequestChange(ctx context.Context, farmID, actorID, receiptID string, req CreateChangeRequestRequest) (ChangeRequestResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	farmUUID, err := uuid.Parse(farmID)
	if err != nil {
		return ChangeRequestResponse{}, receipterrors.ErrInvalidFarmID
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return ChangeRequestResponse{}, receipterrors.ErrInvalidActorID
	}
	proposed, err := parseProposedChanges(req.RequestType, req.ProposedChanges)
	if err != nil {
		return ChangeRequestResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("request change begin tx failed", zap.Error(err))
		return ChangeRequestResponse{}, err
	}
	defer tx.Rollback()

	qrepo := s.repo.WithTx(tx)

	rc, err := s.findReceipt(ctx, qrepo, farmID, receiptID)
	if err != nil {
		return ChangeRequestResponse{}, err
	}
	if rc.Status != approval.StatusApproved {
		return ChangeRequestResponse{}, receipterrors.ErrReceiptNotApproved
	}
	if rc.CancelledAt != nil {
		return ChangeRequestResponse{}, receipterrors.ErrReceiptCancelled
	}

	pending, err := qrepo.HasPendingChangeRequest(ctx, farmID, receiptID)
	if err != nil {
		return ChangeRequestResponse{}, err
	}
	if pending {
		return ChangeRequestResponse{}, receipterrors.ErrChangeRequestPending
	}

	cr := &ChangeRequest{
		ID:              uuid.New(),
		FarmID:          farmUUID,
		ReceiptID:       rc.ID,
		RequestType:     req.RequestType,
		ProposedChanges: proposed,
		Reason:          strings.TrimSpace(req.Reason),
		CreatedBy:       actorUUID,
		Review:          approval.Review{Status: approval.StatusPending},
	}
	if err := qrepo.CreateChangeRequest(ctx, cr); err != nil {
		mapped := mapRepositoryError(err)
		if mapped == err {
			log.Error("request change persist failed", zap.Error(err))
		}
		return ChangeRequestResponse{}, mapped
	}

	if err := tx.Commit(); err != nil {
		log.Error("request change commit failed", zap.Error(err))
		return ChangeRequestResponse{}, err
	}

	log.Info("change request created",
		zap.String("change_request_id", cr.ID.String()),
		zap.String("receipt_id", receiptID),
		zap.String("request_type", cr.RequestType),
	)
	return mapChangeRequest(*cr), nil
}

func (s *service) ListChangeRequests(ctx context.Context, farmID string, filter ChangeRequestFilter) ([]ChangeRequestResponse, error) {
	crs, err := s.repo.FindChangeRequests(ctx, farmID, filter)
	if err != nil {
		return nil, err
	}
	resp := make([]ChangeRequestResponse, len(crs))
	for i, cr := range crs {
		resp[i] = mapChangeRequest(cr)
	}
	return resp, nil
}

func (s *service) ApproveChange(ctx context.Context, farmID, actorID, id string) (ChangeRequestResponse, error) {
	if _, err := s.approvals.Approve(ctx, farmID, actorID, approval.KindChangeRequest, id); err != nil {
		return ChangeRequestResponse{}, err
	}
	return s.getChangeRequest(ctx, farmID, id)
}

func (s *service) RejectChange(ctx context.Context, farmID, actorID, id, rejectionReason string) (ChangeRequestResponse, error) {
	if _, err := s.approvals.Reject(ctx, farmID, actorID, approval.KindChangeRequest, id, rejectionReason); err != nil {
		return ChangeRequestResponse{}, err
	}
	return s.getChangeRequest(ctx, farmID, id)
}

func (s *service) getChangeRequest(ctx context.Context, farmID, id string) (ChangeRequestResponse, error) {
	cr, err := s.repo.FindChangeRequestByID(ctx, farmID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ChangeRequestResponse{}, receipterrors.ErrChangeRequestNotFound
		}
		return ChangeRequestResponse{}, err
	}
	return mapChangeRequest(*cr), nil
}

func (s *service) findReceipt(ctx context.Context, repo Repository, farmID, id string) (*Receipt, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, receipterrors.ErrReceiptNotFound
	}
	rc, err := repo.FindByIDAndFarm(ctx, farmID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, receipterrors.ErrReceiptNotFound
		}
		return nil, err
	}
	return rc, nil
}

func mapReceipt(rc Receipt) ReceiptResponse {
	resp := ReceiptResponse{
		ID:              rc.ID.String(),
		FarmID:          rc.FarmID.String(),
		ReceiptNumber:   rc.ReceiptNumber,
		ReceiptType:     rc.ReceiptType,
		Fund:            rc.Fund,
		Amount:          rc.Amount,
		ReceiptDate:     rc.ReceiptDate.Format("2006-01-02"),
		Description:     rc.Description,
		Status:          rc.Status,
		Cancelled:       rc.CancelledAt != nil,
		CreatedBy:       rc.CreatedBy.String(),
		RejectionReason: rc.RejectionReason,
		CreatedAt:       rc.CreatedAt.Format(time.RFC3339),
	}
	resp.ReviewedBy, resp.ReviewedAt = formatReview(rc.Review)
	return resp
}

func mapChangeRequest(cr ChangeRequest) ChangeRequestResponse {
	resp := ChangeRequestResponse{
		ID:              cr.ID.String(),
		ReceiptID:       cr.ReceiptID.String(),
		RequestType:     cr.RequestType,
		Reason:          cr.Reason,
		Status:          cr.Status,
		CreatedBy:       cr.CreatedBy.String(),
		RejectionReason: cr.RejectionReason,
		CreatedAt:       cr.CreatedAt.Format(time.RFC3339),
	}
	if len(cr.ProposedChanges) > 0 {
		resp.ProposedChanges = json.RawMessage(cr.ProposedChanges)
	}
	resp.ReviewedBy, resp.ReviewedAt = formatReview(cr.Review)
	return resp
}

func formatReview(r approval.Review) (*string, *string) {
	var by, at *string
	if r.ReviewedBy != nil {
		v := r.ReviewedBy.String()
		by = &v
	}
	if r.ReviewedAt != nil {
		v := r.ReviewedAt.Format(time.RFC3339)
		at = &v
	}
	return by, at
}
