package refund

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"go-payday/internal/audit"
	"go-payday/internal/rbac"
	refunderrors "go-payday/internal/refund/errors"
	"go-payday/internal/shared/contextutil"
)

// Applier is the slice of the service the payroll run lock consumes.
// ApplyPending flips pending refunds to PAID inside the caller's
// transaction, skipping employees the predicate rejects.
type Applier interface {
	ApplyPending(ctx context.Context, tx *sql.Tx, companyID string, runID uuid.UUID, inRun func(uuid.UUID) bool) ([]Applied, error)
}

type Service interface {
	Applier

	SubmitClaim(ctx context.Context, companyID string, req CreateClaimRequest) (ClaimResponse, error)
	GetClaims(ctx context.Context, companyID string) ([]ClaimResponse, error)
	GetClaimByID(ctx context.Context, companyID, id string) (ClaimResponse, error)
	ReviewClaim(ctx context.Context, companyID, actorID, role, id string, req ReviewRequest) (ClaimResponse, error)

	SubmitDispute(ctx context.Context, companyID string, req CreateDisputeRequest) (DisputeResponse, error)
	GetDisputeByID(ctx context.Context, companyID, id string) (DisputeResponse, error)
	ReviewDispute(ctx context.Context, companyID, actorID, role, id string, req ReviewDisputeRequest) (DisputeResponse, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	auditRepo audit.Repository
}

func NewService(db *sql.DB, repo Repository, auditRepo audit.Repository) Service {
	return &service{db: db, repo: repo, auditRepo: auditRepo}
}

// reviewStep binds a track status to the single role allowed to act on it
// and the status an approval advances to. Rejection always terminates.
type reviewStep struct {
	role      string
	approveTo string
}

var reviewSteps = map[string]reviewStep{
	TrackStatusUnderReview:    {role: rbac.RoleSpecialist, approveTo: TrackStatusPendingManager},
	TrackStatusPendingManager: {role: rbac.RoleManager, approveTo: TrackStatusPendingFinance},
	TrackStatusPendingFinance: {role: rbac.RoleFinance, approveTo: TrackStatusApproved},
}

// nextStatus validates the actor's role before the record's state so that
// an out-of-turn actor always gets a 403, never a transition error.
func nextStatus(current, role string, approved bool) (string, error) {
	allowed := false
	for _, step := range reviewSteps {
		if step.role == role {
			allowed = true
			break
		}
	}
	if !allowed {
		return "", refunderrors.ErrReviewRoleMismatch
	}

	step, ok := reviewSteps[current]
	if !ok {
		return "", refunderrors.ErrInvalidReviewTransition
	}
	if step.role != role {
		return "", refunderrors.ErrReviewRoleMismatch
	}
	if approved {
		return step.approveTo, nil
	}
	return TrackStatusRejected, nil
}

func (s *service) SubmitClaim(ctx context.Context, companyID string, req CreateClaimRequest) (ClaimResponse, error) {
	if req.Amount <= 0 {
		return ClaimResponse{}, refunderrors.ErrInvalidAmount
	}
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return ClaimResponse{}, refunderrors.ErrClaimNotFound
	}
	employeeUUID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return ClaimResponse{}, refunderrors.ErrClaimNotFound
	}

	claim := &Claim{
		ID:          uuid.New(),
		CompanyID:   companyUUID,
		EmployeeID:  employeeUUID,
		Description: req.Description,
		Amount:      req.Amount,
		Status:      TrackStatusUnderReview,
	}
	if err := s.repo.CreateClaim(ctx, claim); err != nil {
		return ClaimResponse{}, err
	}
	return toClaimResponse(claim, nil), nil
}

func (s *service) GetClaims(ctx context.Context, companyID string) ([]ClaimResponse, error) {
	claims, err := s.repo.FindAllClaimsByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	out := make([]ClaimResponse, 0, len(claims))
	for i := range claims {
		out = append(out, toClaimResponse(&claims[i], nil))
	}
	return out, nil
}

func (s *service) GetClaimByID(ctx context.Context, companyID, id string) (ClaimResponse, error) {
	claim, err := s.repo.FindClaimByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return ClaimResponse{}, err
	}
	refund, err := s.repo.FindRefundBySource(ctx, companyID, SourceClaim, claim.ID)
	if err != nil {
		return ClaimResponse{}, err
	}
	return toClaimResponse(claim, refund), nil
}

func (s *service) ReviewClaim(
	ctx context.Context,
	companyID, actorID, role, id string,
	req ReviewRequest,
) (ClaimResponse, error) {
	log := contextutil.GetLogger(ctx, zap.L()).Named("refund")

	if !req.Approved && (req.Reason == nil || *req.Reason == "") {
		return ClaimResponse{}, refunderrors.ErrRejectionReasonRequired
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ClaimResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	qAudit := s.auditRepo.WithTx(tx)

	claim, err := qtx.FindClaimByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return ClaimResponse{}, err
	}

	next, err := nextStatus(claim.Status, role, req.Approved)
	if err != nil {
		return ClaimResponse{}, err
	}

	claim.Status = next
	if next == TrackStatusRejected {
		claim.RejectionReason = req.Reason
	}
	if err := qtx.UpdateClaim(ctx, claim); err != nil {
		return ClaimResponse{}, err
	}

	var spawned *Refund
	if next == TrackStatusApproved {
		spawned, err = s.spawnRefund(ctx, qtx, qAudit, claim.CompanyID, claim.EmployeeID, SourceClaim, claim.ID, claim.Amount, actorID, role)
		if err != nil {
			return ClaimResponse{}, err
		}
	}

	if err := appendTrackAudit(ctx, qAudit, audit.SubjectClaim, claim.CompanyID, claim.ID, next, actorID, role, req.Reason); err != nil {
		return ClaimResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return ClaimResponse{}, err
	}

	log.Info("claim reviewed",
		zap.String("claim_id", claim.ID.String()),
		zap.String("status", next),
	)
	return toClaimResponse(claim, spawned), nil
}

func (s *service) SubmitDispute(ctx context.Context, companyID string, req CreateDisputeRequest) (DisputeResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return DisputeResponse{}, refunderrors.ErrDisputeNotFound
	}
	employeeUUID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return DisputeResponse{}, refunderrors.ErrDisputeNotFound
	}

	dispute := &Dispute{
		ID:          uuid.New(),
		CompanyID:   companyUUID,
		EmployeeID:  employeeUUID,
		Description: req.Description,
		Status:      TrackStatusUnderReview,
	}
	if err := s.repo.CreateDispute(ctx, dispute); err != nil {
		return DisputeResponse{}, err
	}
	return toDisputeResponse(dispute, nil), nil
}

func (s *service) GetDisputeByID(ctx context.Context, companyID, id string) (DisputeResponse, error) {
	dispute, err := s.repo.FindDisputeByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return DisputeResponse{}, err
	}
	refund, err := s.repo.FindRefundBySource(ctx, companyID, SourceDispute, dispute.ID)
	if err != nil {
		return DisputeResponse{}, err
	}
	return toDisputeResponse(dispute, refund), nil
}

func (s *service) ReviewDispute(
	ctx context.Context,
	companyID, actorID, role, id string,
	req ReviewDisputeRequest,
) (DisputeResponse, error) {
	if !req.Approved && (req.Reason == nil || *req.Reason == "") {
		return DisputeResponse{}, refunderrors.ErrRejectionReasonRequired
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return DisputeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	qAudit := s.auditRepo.WithTx(tx)

	dispute, err := qtx.FindDisputeByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return DisputeResponse{}, err
	}

	next, err := nextStatus(dispute.Status, role, req.Approved)
	if err != nil {
		return DisputeResponse{}, err
	}

	// A dispute has no intrinsic amount; finance fixes the payout when it
	// signs off.
	if next == TrackStatusApproved {
		if req.Amount == nil || *req.Amount <= 0 {
			return DisputeResponse{}, refunderrors.ErrResolvedAmountRequired
		}
		dispute.ResolvedAmount = req.Amount
	}

	dispute.Status = next
	if next == TrackStatusRejected {
		dispute.RejectionReason = req.Reason
	}
	if err := qtx.UpdateDispute(ctx, dispute); err != nil {
		return DisputeResponse{}, err
	}

	var spawned *Refund
	if next == TrackStatusApproved {
		spawned, err = s.spawnRefund(ctx, qtx, qAudit, dispute.CompanyID, dispute.EmployeeID, SourceDispute, dispute.ID, *dispute.ResolvedAmount, actorID, role)
		if err != nil {
			return DisputeResponse{}, err
		}
	}

	if err := appendTrackAudit(ctx, qAudit, audit.SubjectDispute, dispute.CompanyID, dispute.ID, next, actorID, role, req.Reason); err != nil {
		return DisputeResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return DisputeResponse{}, err
	}
	return toDisputeResponse(dispute, spawned), nil
}

// spawnRefund materializes the single pending refund for an approved source.
// The unique (source_type, source_id) index backs the lookup against races.
func (s *service) spawnRefund(
	ctx context.Context,
	qtx Repository,
	qAudit audit.Repository,
	companyID, employeeID uuid.UUID,
	sourceType string,
	sourceID uuid.UUID,
	amount int64,
	actorID, role string,
) (*Refund, error) {
	existing, err := qtx.FindRefundBySource(ctx, companyID.String(), sourceType, sourceID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, refunderrors.ErrRefundAlreadyExists
	}

	refund := &Refund{
		ID:         uuid.New(),
		CompanyID:  companyID,
		EmployeeID: employeeID,
		SourceType: sourceType,
		SourceID:   sourceID,
		Amount:     amount,
		Status:     RefundStatusPending,
	}
	if err := qtx.CreateRefund(ctx, refund); err != nil {
		return nil, err
	}
	if err := appendTrackAudit(ctx, qAudit, audit.SubjectRefund, companyID, refund.ID, RefundStatusPending, actorID, role, nil); err != nil {
		return nil, err
	}
	return refund, nil
}

// ApplyPending is called by the payroll run service inside the lock
// transaction. Each flip is a compare-and-set on PENDING, so a refund
// already consumed by a concurrent lock is silently skipped and a retried
// lock never double-pays.
func (s *service) ApplyPending(
	ctx context.Context,
	tx *sql.Tx,
	companyID string,
	runID uuid.UUID,
	inRun func(uuid.UUID) bool,
) ([]Applied, error) {
	pending, err := s.repo.ListPendingByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	qtx := s.repo.WithTx(tx)
	applied := make([]Applied, 0, len(pending))
	for i := range pending {
		ref := pending[i]
		if inRun != nil && !inRun(ref.EmployeeID) {
			continue
		}
		ok, err := qtx.MarkPaidCAS(ctx, ref.ID, runID)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		applied = append(applied, Applied{
			RefundID:   ref.ID,
			EmployeeID: ref.EmployeeID,
			Amount:     ref.Amount,
		})
	}
	return applied, nil
}

func appendTrackAudit(
	ctx context.Context,
	qAudit audit.Repository,
	subjectType string,
	companyID, subjectID uuid.UUID,
	status, actorID, role string,
	note *string,
) error {
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		actorUUID = uuid.Nil
	}
	return qAudit.Append(ctx, &audit.Entry{
		CompanyID:   companyID,
		SubjectType: subjectType,
		SubjectID:   subjectID,
		Status:      status,
		ActorID:     actorUUID,
		Role:        role,
		Note:        note,
	})
}

func toClaimResponse(c *Claim, refund *Refund) ClaimResponse {
	resp := ClaimResponse{
		ID:              c.ID.String(),
		CompanyID:       c.CompanyID.String(),
		EmployeeID:      c.EmployeeID.String(),
		Description:     c.Description,
		Amount:          c.Amount,
		Status:          c.Status,
		RejectionReason: c.RejectionReason,
	}
	if refund != nil {
		id := refund.ID.String()
		resp.RefundID = &id
	}
	return resp
}

func toDisputeResponse(d *Dispute, refund *Refund) DisputeResponse {
	resp := DisputeResponse{
		ID:              d.ID.String(),
		CompanyID:       d.CompanyID.String(),
		EmployeeID:      d.EmployeeID.String(),
		Description:     d.Description,
		Status:          d.Status,
		ResolvedAmount:  d.ResolvedAmount,
		RejectionReason: d.RejectionReason,
	}
	if refund != nil {
		id := refund.ID.String()
		resp.RefundID = &id
	}
	return resp
}
