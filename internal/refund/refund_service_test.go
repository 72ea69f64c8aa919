package refund_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"go-payday/internal/audit"
	"go-payday/internal/rbac"
	"go-payday/internal/refund"
	refunderrors "go-payday/internal/refund/errors"
)

type fakeRefundRepository struct {
	withTxFn                 func(tx *sql.Tx) refund.Repository
	createClaimFn            func(ctx context.Context, claim *refund.Claim) error
	findClaimFn              func(ctx context.Context, companyID, id string) (*refund.Claim, error)
	updateClaimFn            func(ctx context.Context, claim *refund.Claim) error
	findAllClaimsFn          func(ctx context.Context, companyID string) ([]refund.Claim, error)
	createDisputeFn          func(ctx context.Context, dispute *refund.Dispute) error
	findDisputeFn            func(ctx context.Context, companyID, id string) (*refund.Dispute, error)
	updateDisputeFn          func(ctx context.Context, dispute *refund.Dispute) error
	createRefundFn           func(ctx context.Context, r *refund.Refund) error
	findRefundBySourceFn     func(ctx context.Context, companyID, sourceType string, sourceID uuid.UUID) (*refund.Refund, error)
	listPendingByCompanyFn   func(ctx context.Context, companyID string) ([]refund.Refund, error)
	listByRunFn              func(ctx context.Context, companyID string, runID uuid.UUID) ([]refund.Refund, error)
	markPaidCASFn            func(ctx context.Context, refundID, runID uuid.UUID) (bool, error)
}

func (f *fakeRefundRepository) WithTx(tx *sql.Tx) refund.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeRefundRepository) CreateClaim(ctx context.Context, claim *refund.Claim) error {
	if f.createClaimFn != nil {
		return f.createClaimFn(ctx, claim)
	}
	return nil
}

func (f *fakeRefundRepository) FindClaimByIDAndCompany(ctx context.Context, companyID, id string) (*refund.Claim, error) {
	if f.findClaimFn != nil {
		return f.findClaimFn(ctx, companyID, id)
	}
	return nil, refunderrors.ErrClaimNotFound
}

func (f *fakeRefundRepository) UpdateClaim(ctx context.Context, claim *refund.Claim) error {
	if f.updateClaimFn != nil {
		return f.updateClaimFn(ctx, claim)
	}
	return nil
}

func (f *fakeRefundRepository) FindAllClaimsByCompany(ctx context.Context, companyID string) ([]refund.Claim, error) {
	if f.findAllClaimsFn != nil {
		return f.findAllClaimsFn(ctx, companyID)
	}
	return nil, nil
}

func (f *fakeRefundRepository) CreateDispute(ctx context.Context, dispute *refund.Dispute) error {
	if f.createDisputeFn != nil {
		return f.createDisputeFn(ctx, dispute)
	}
	return nil
}

func (f *fakeRefundRepository) FindDisputeByIDAndCompany(ctx context.Context, companyID, id string) (*refund.Dispute, error) {
	if f.findDisputeFn != nil {
		return f.findDisputeFn(ctx, companyID, id)
	}
	return nil, refunderrors.ErrDisputeNotFound
}

func (f *fakeRefundRepository) UpdateDispute(ctx context.Context, dispute *refund.Dispute) error {
	if f.updateDisputeFn != nil {
		return f.updateDisputeFn(ctx, dispute)
	}
	return nil
}

func (f *fakeRefundRepository) CreateRefund(ctx context.Context, r *refund.Refund) error {
	if f.createRefundFn != nil {
		return f.createRefundFn(ctx, r)
	}
	return nil
}

func (f *fakeRefundRepository) FindRefundBySource(ctx context.Context, companyID, sourceType string, sourceID uuid.UUID) (*refund.Refund, error) {
	if f.findRefundBySourceFn != nil {
		return f.findRefundBySourceFn(ctx, companyID, sourceType, sourceID)
	}
	return nil, nil
}

func (f *fakeRefundRepository) ListPendingByCompany(ctx context.Context, companyID string) ([]refund.Refund, error) {
	if f.listPendingByCompanyFn != nil {
		return f.listPendingByCompanyFn(ctx, companyID)
	}
	return nil, nil
}

func (f *fakeRefundRepository) ListByRun(ctx context.Context, companyID string, runID uuid.UUID) ([]refund.Refund, error) {
	if f.listByRunFn != nil {
		return f.listByRunFn(ctx, companyID, runID)
	}
	return nil, nil
}

func (f *fakeRefundRepository) MarkPaidCAS(ctx context.Context, refundID, runID uuid.UUID) (bool, error) {
	if f.markPaidCASFn != nil {
		return f.markPaidCASFn(ctx, refundID, runID)
	}
	return true, nil
}

type fakeAuditRepository struct {
	entries []audit.Entry
}

func (f *fakeAuditRepository) WithTx(tx *sql.Tx) audit.Repository { return f }

func (f *fakeAuditRepository) Append(ctx context.Context, entry *audit.Entry) error {
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeAuditRepository) ListBySubject(ctx context.Context, companyID, subjectType string, subjectID uuid.UUID) ([]audit.Entry, error) {
	return f.entries, nil
}

func (f *fakeAuditRepository) LatestBySubject(ctx context.Context, companyID, subjectType string, subjectID uuid.UUID) (*audit.Entry, error) {
	if len(f.entries) == 0 {
		return nil, nil
	}
	return &f.entries[len(f.entries)-1], nil
}

type refundServiceDeps struct {
	db        *sql.DB
	sqlMock   sqlmock.Sqlmock
	service   refund.Service
	repo      *fakeRefundRepository
	auditRepo *fakeAuditRepository
}

func setupRefundServiceTest(t *testing.T) *refundServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeRefundRepository{}
	auditRepo := &fakeAuditRepository{}
	svc := refund.NewService(db, repo, auditRepo)

	return &refundServiceDeps{db: db, sqlMock: sqlMock, service: svc, repo: repo, auditRepo: auditRepo}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func strptr(s string) *string { return &s }

func TestRefundService_SubmitClaim(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	employeeID := uuid.New().String()

	deps := setupRefundServiceTest(t)
	defer deps.db.Close()

	var created *refund.Claim
	deps.repo.createClaimFn = func(ctx context.Context, claim *refund.Claim) error {
		created = claim
		return nil
	}

	resp, err := deps.service.SubmitClaim(ctx, companyID, refund.CreateClaimRequest{
		EmployeeID:  employeeID,
		Description: "Business trip taxi",
		Amount:      120,
	})

	assert.NoError(t, err)
	assert.Equal(t, refund.TrackStatusUnderReview, resp.Status)
	assert.NotNil(t, created)
	assert.Equal(t, int64(120), created.Amount)
}

func TestRefundService_SubmitClaim_RejectsNonPositiveAmount(t *testing.T) {
	deps := setupRefundServiceTest(t)
	defer deps.db.Close()

	_, err := deps.service.SubmitClaim(context.Background(), uuid.New().String(), refund.CreateClaimRequest{
		EmployeeID:  uuid.New().String(),
		Description: "bad",
		Amount:      0,
	})
	assert.ErrorIs(t, err, refunderrors.ErrInvalidAmount)
}

func TestRefundService_ReviewClaim_FullChainSpawnsOneRefund(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()
	employeeID := uuid.New()
	claimID := uuid.New()

	deps := setupRefundServiceTest(t)
	defer deps.db.Close()

	claim := &refund.Claim{
		ID:          claimID,
		CompanyID:   companyID,
		EmployeeID:  employeeID,
		Description: "Hotel overcharge",
		Amount:      300,
		Status:      refund.TrackStatusUnderReview,
	}
	deps.repo.findClaimFn = func(ctx context.Context, cid, id string) (*refund.Claim, error) {
		return claim, nil
	}
	deps.repo.updateClaimFn = func(ctx context.Context, c *refund.Claim) error {
		claim = c
		return nil
	}
	var spawned []*refund.Refund
	deps.repo.createRefundFn = func(ctx context.Context, r *refund.Refund) error {
		spawned = append(spawned, r)
		return nil
	}

	steps := []struct {
		role string
		want string
	}{
		{rbac.RoleSpecialist, refund.TrackStatusPendingManager},
		{rbac.RoleManager, refund.TrackStatusPendingFinance},
		{rbac.RoleFinance, refund.TrackStatusApproved},
	}
	for _, step := range steps {
		expectTx(t, deps.sqlMock, true)
		resp, err := deps.service.ReviewClaim(ctx, companyID.String(), uuid.New().String(), step.role, claimID.String(), refund.ReviewRequest{Approved: true})
		assert.NoError(t, err)
		assert.Equal(t, step.want, resp.Status)
	}

	assert.Len(t, spawned, 1)
	assert.Equal(t, refund.RefundStatusPending, spawned[0].Status)
	assert.Equal(t, int64(300), spawned[0].Amount)
	assert.Equal(t, refund.SourceClaim, spawned[0].SourceType)
	assert.Equal(t, claimID, spawned[0].SourceID)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestRefundService_ReviewClaim_WrongRoleIsForbidden(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()
	claimID := uuid.New()

	deps := setupRefundServiceTest(t)
	defer deps.db.Close()

	deps.repo.findClaimFn = func(ctx context.Context, cid, id string) (*refund.Claim, error) {
		return &refund.Claim{ID: claimID, CompanyID: companyID, Status: refund.TrackStatusUnderReview, Amount: 50}, nil
	}

	// Manager acting on a claim still with the specialist.
	expectTx(t, deps.sqlMock, false)
	_, err := deps.service.ReviewClaim(ctx, companyID.String(), uuid.New().String(), rbac.RoleManager, claimID.String(), refund.ReviewRequest{Approved: true})
	assert.ErrorIs(t, err, refunderrors.ErrReviewRoleMismatch)
}

func TestRefundService_ReviewClaim_TerminalStateRejected(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()
	claimID := uuid.New()

	deps := setupRefundServiceTest(t)
	defer deps.db.Close()

	deps.repo.findClaimFn = func(ctx context.Context, cid, id string) (*refund.Claim, error) {
		return &refund.Claim{ID: claimID, CompanyID: companyID, Status: refund.TrackStatusApproved, Amount: 50}, nil
	}

	expectTx(t, deps.sqlMock, false)
	_, err := deps.service.ReviewClaim(ctx, companyID.String(), uuid.New().String(), rbac.RoleFinance, claimID.String(), refund.ReviewRequest{Approved: true})
	assert.ErrorIs(t, err, refunderrors.ErrInvalidReviewTransition)
}

func TestRefundService_ReviewClaim_RejectRequiresReason(t *testing.T) {
	deps := setupRefundServiceTest(t)
	defer deps.db.Close()

	_, err := deps.service.ReviewClaim(context.Background(), uuid.New().String(), uuid.New().String(), rbac.RoleSpecialist, uuid.New().String(), refund.ReviewRequest{Approved: false})
	assert.ErrorIs(t, err, refunderrors.ErrRejectionReasonRequired)
}

func TestRefundService_ReviewClaim_RejectStoresReason(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()
	claimID := uuid.New()

	deps := setupRefundServiceTest(t)
	defer deps.db.Close()

	deps.repo.findClaimFn = func(ctx context.Context, cid, id string) (*refund.Claim, error) {
		return &refund.Claim{ID: claimID, CompanyID: companyID, Status: refund.TrackStatusPendingManager, Amount: 75}, nil
	}
	var updated *refund.Claim
	deps.repo.updateClaimFn = func(ctx context.Context, c *refund.Claim) error {
		updated = c
		return nil
	}

	expectTx(t, deps.sqlMock, true)
	resp, err := deps.service.ReviewClaim(ctx, companyID.String(), uuid.New().String(), rbac.RoleManager, claimID.String(), refund.ReviewRequest{
		Approved: false,
		Reason:   strptr("no receipt attached"),
	})

	assert.NoError(t, err)
	assert.Equal(t, refund.TrackStatusRejected, resp.Status)
	assert.NotNil(t, updated.RejectionReason)
	assert.Equal(t, "no receipt attached", *updated.RejectionReason)
}

func TestRefundService_ReviewClaim_DuplicateRefundBlocked(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()
	claimID := uuid.New()

	deps := setupRefundServiceTest(t)
	defer deps.db.Close()

	deps.repo.findClaimFn = func(ctx context.Context, cid, id string) (*refund.Claim, error) {
		return &refund.Claim{ID: claimID, CompanyID: companyID, Status: refund.TrackStatusPendingFinance, Amount: 75}, nil
	}
	deps.repo.findRefundBySourceFn = func(ctx context.Context, cid, sourceType string, sourceID uuid.UUID) (*refund.Refund, error) {
		return &refund.Refund{ID: uuid.New(), SourceType: sourceType, SourceID: sourceID}, nil
	}

	expectTx(t, deps.sqlMock, false)
	_, err := deps.service.ReviewClaim(ctx, companyID.String(), uuid.New().String(), rbac.RoleFinance, claimID.String(), refund.ReviewRequest{Approved: true})
	assert.ErrorIs(t, err, refunderrors.ErrRefundAlreadyExists)
}

func TestRefundService_ReviewDispute_FinanceSetsResolvedAmount(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()
	disputeID := uuid.New()
	amount := int64(90)

	deps := setupRefundServiceTest(t)
	defer deps.db.Close()

	deps.repo.findDisputeFn = func(ctx context.Context, cid, id string) (*refund.Dispute, error) {
		return &refund.Dispute{ID: disputeID, CompanyID: companyID, EmployeeID: uuid.New(), Status: refund.TrackStatusPendingFinance}, nil
	}
	var spawned *refund.Refund
	deps.repo.createRefundFn = func(ctx context.Context, r *refund.Refund) error {
		spawned = r
		return nil
	}

	expectTx(t, deps.sqlMock, true)
	resp, err := deps.service.ReviewDispute(ctx, companyID.String(), uuid.New().String(), rbac.RoleFinance, disputeID.String(), refund.ReviewDisputeRequest{
		Approved: true,
		Amount:   &amount,
	})

	assert.NoError(t, err)
	assert.Equal(t, refund.TrackStatusApproved, resp.Status)
	assert.Equal(t, amount, *resp.ResolvedAmount)
	assert.NotNil(t, spawned)
	assert.Equal(t, amount, spawned.Amount)
	assert.Equal(t, refund.SourceDispute, spawned.SourceType)
}

func TestRefundService_ReviewDispute_FinanceApproveWithoutAmount(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()
	disputeID := uuid.New()

	deps := setupRefundServiceTest(t)
	defer deps.db.Close()

	deps.repo.findDisputeFn = func(ctx context.Context, cid, id string) (*refund.Dispute, error) {
		return &refund.Dispute{ID: disputeID, CompanyID: companyID, Status: refund.TrackStatusPendingFinance}, nil
	}

	expectTx(t, deps.sqlMock, false)
	_, err := deps.service.ReviewDispute(ctx, companyID.String(), uuid.New().String(), rbac.RoleFinance, disputeID.String(), refund.ReviewDisputeRequest{Approved: true})
	assert.ErrorIs(t, err, refunderrors.ErrResolvedAmountRequired)
}

func TestRefundService_ApplyPending(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()
	runID := uuid.New()
	inRunEmployee := uuid.New()
	outsideEmployee := uuid.New()

	deps := setupRefundServiceTest(t)
	defer deps.db.Close()

	alreadyPaid := refund.Refund{ID: uuid.New(), CompanyID: companyID, EmployeeID: inRunEmployee, Amount: 10, Status: refund.RefundStatusPending}
	applicable := refund.Refund{ID: uuid.New(), CompanyID: companyID, EmployeeID: inRunEmployee, Amount: 150, Status: refund.RefundStatusPending}
	notInRun := refund.Refund{ID: uuid.New(), CompanyID: companyID, EmployeeID: outsideEmployee, Amount: 40, Status: refund.RefundStatusPending}

	deps.repo.listPendingByCompanyFn = func(ctx context.Context, cid string) ([]refund.Refund, error) {
		return []refund.Refund{alreadyPaid, applicable, notInRun}, nil
	}
	deps.repo.markPaidCASFn = func(ctx context.Context, refundID, rid uuid.UUID) (bool, error) {
		assert.Equal(t, runID, rid)
		// Simulate a concurrent lock having consumed the first refund.
		return refundID != alreadyPaid.ID, nil
	}

	deps.sqlMock.ExpectBegin()
	tx, err := deps.db.Begin()
	assert.NoError(t, err)

	applied, err := deps.service.ApplyPending(ctx, tx, companyID.String(), runID, func(id uuid.UUID) bool {
		return id == inRunEmployee
	})

	assert.NoError(t, err)
	assert.Len(t, applied, 1)
	assert.Equal(t, applicable.ID, applied[0].RefundID)
	assert.Equal(t, int64(150), applied[0].Amount)
}
