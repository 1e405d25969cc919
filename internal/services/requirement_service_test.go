package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"procurement-system/internal/approval"
	"procurement-system/internal/dto"
	"procurement-system/internal/entities"
	"procurement-system/internal/repositories"
	"procurement-system/pkg/constants"
	apperrors "procurement-system/pkg/errors"
	"procurement-system/pkg/types"
)

type fakeRequirementRepo struct {
	byID   map[int64]*entities.Requirement
	nextID int64
	sig    *fakeSigRepo
}

func newFakeRequirementRepo(sig *fakeSigRepo) *fakeRequirementRepo {
	return &fakeRequirementRepo{byID: map[int64]*entities.Requirement{}, nextID: 1, sig: sig}
}

func (f *fakeRequirementRepo) Create(_ context.Context, _ repositories.Querier, requirement *entities.Requirement) (int64, error) {
	id := f.nextID
	f.nextID++
	clone := *requirement
	clone.ID = id
	f.byID[id] = &clone
	// Keep the signature repo's view in sync, as one database would.
	f.sig.put(&approval.Document{
		EntityType: constants.EntityRequirement,
		EntityID:   id,
		Status:     clone.Status,
		Amount:     clone.Amount,
		CreatorID:  clone.CreatorID,
		Slots:      &entities.SignatureSlots{},
	})
	return id, nil
}

func (f *fakeRequirementRepo) FindByID(_ context.Context, id int64) (*entities.Requirement, error) {
	requirement, ok := f.byID[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	if doc, ok := f.sig.docs[configKey(constants.EntityRequirement, id)]; ok {
		requirement.Status = doc.Status
	}
	clone := *requirement
	return &clone, nil
}

func (f *fakeRequirementRepo) List(_ context.Context, _ types.Filter) ([]entities.Requirement, uint64, error) {
	out := make([]entities.Requirement, 0, len(f.byID))
	for _, r := range f.byID {
		out = append(out, *r)
	}
	return out, uint64(len(out)), nil
}

func (f *fakeRequirementRepo) Update(_ context.Context, requirement *entities.Requirement) error {
	stored, ok := f.byID[requirement.ID]
	if !ok {
		return apperrors.ErrNotFound
	}
	if stored.Status != constants.StatusPending {
		return apperrors.ErrInvalidState
	}
	clone := *requirement
	f.byID[requirement.ID] = &clone
	return nil
}

func (f *fakeRequirementRepo) SoftDelete(_ context.Context, id int64) error {
	stored, ok := f.byID[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	if stored.Status != constants.StatusPending {
		return apperrors.ErrInvalidState
	}
	delete(f.byID, id)
	return nil
}

func newRequirementFixture(t *testing.T) (*RequirementService, *fakeConfigRepo, *fakeSigRepo) {
	t.Helper()
	configRepo := newFakeConfigRepo()
	sigRepo := newFakeSigRepo()
	approvalSvc := NewApprovalService(configRepo, sigRepo, &fakeSettings{threshold: 10000}, fakeTxManager{}, zap.NewNop())
	repo := newFakeRequirementRepo(sigRepo)
	svc := NewRequirementService(repo, sigRepo, approvalSvc, fakeTxManager{}, zap.NewNop())
	return svc, configRepo, sigRepo
}

func TestRequirementCreate_MaterializesChainByAmount(t *testing.T) {
	svc, configRepo, _ := newRequirementFixture(t)
	configRepo.templates[constants.TemplateLow+"/"+constants.EntityRequirement] = fullChain()[:3]
	configRepo.templates[constants.TemplateFull+"/"+constants.EntityRequirement] = fullChain()
	ctx := context.Background()

	low, err := svc.Create(ctx, 100, dto.CreateRequirementDTO{Description: "office chairs", Amount: 5000})
	require.NoError(t, err)
	assert.Equal(t, constants.StatusPending, low.Status)
	assert.NotEmpty(t, low.Number)

	rows, err := configRepo.Resolve(ctx, constants.EntityRequirement, low.ID)
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	high, err := svc.Create(ctx, 100, dto.CreateRequirementDTO{Description: "excavator", Amount: 250000})
	require.NoError(t, err)

	rows, err = configRepo.Resolve(ctx, constants.EntityRequirement, high.ID)
	require.NoError(t, err)
	assert.Len(t, rows, 4)
}

func TestRequirementUpdate_CreatorOnlyWhilePending(t *testing.T) {
	svc, _, sigRepo := newRequirementFixture(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, 100, dto.CreateRequirementDTO{Description: "laptops", Amount: 3000})
	require.NoError(t, err)

	newDescription := "laptops and docks"
	_, err = svc.Update(ctx, created.ID, 999, dto.UpdateRequirementDTO{Description: &newDescription})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	updated, err := svc.Update(ctx, created.ID, 100, dto.UpdateRequirementDTO{Description: &newDescription})
	require.NoError(t, err)
	assert.Equal(t, newDescription, updated.Description)

	sigRepo.docs[configKey(constants.EntityRequirement, created.ID)].Status = constants.StatusSigned1
	_, err = svc.Update(ctx, created.ID, 100, dto.UpdateRequirementDTO{Description: &newDescription})
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
}

func TestRequirementCancel(t *testing.T) {
	svc, _, sigRepo := newRequirementFixture(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, 100, dto.CreateRequirementDTO{Description: "printer paper", Amount: 200})
	require.NoError(t, err)

	_, err = svc.Cancel(ctx, created.ID, 999)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	cancelled, err := svc.Cancel(ctx, created.ID, 100)
	require.NoError(t, err)
	assert.Equal(t, constants.StatusCancelled, cancelled.Status)

	// Cancellation is only reachable from PENDING.
	sigRepo.docs[configKey(constants.EntityRequirement, created.ID)].Status = constants.StatusSigned2
	_, err = svc.Cancel(ctx, created.ID, 100)
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
}

func TestRequirementDelete_CreatorOnlyWhilePending(t *testing.T) {
	svc, _, sigRepo := newRequirementFixture(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, 100, dto.CreateRequirementDTO{Description: "toner", Amount: 150})
	require.NoError(t, err)

	err = svc.Delete(ctx, created.ID, 999)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	// A document with signatures on it stays visible to the approval chain.
	sigRepo.docs[configKey(constants.EntityRequirement, created.ID)].Status = constants.StatusApproved
	err = svc.Delete(ctx, created.ID, 100)
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)

	sigRepo.docs[configKey(constants.EntityRequirement, created.ID)].Status = constants.StatusPending
	require.NoError(t, svc.Delete(ctx, created.ID, 100))
	_, err = svc.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
