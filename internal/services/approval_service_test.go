package services

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"procurement-system/internal/approval"
	"procurement-system/internal/entities"
	"procurement-system/pkg/constants"
	apperrors "procurement-system/pkg/errors"
	"procurement-system/pkg/types"
)

type fakeConfigRepo struct {
	configs   map[string][]approval.ConfigRow
	templates map[string][]approval.ConfigRow
}

func newFakeConfigRepo() *fakeConfigRepo {
	return &fakeConfigRepo{
		configs:   map[string][]approval.ConfigRow{},
		templates: map[string][]approval.ConfigRow{},
	}
}

func configKey(entityType string, entityID int64) string {
	return entityType + "/" + strconv.FormatInt(entityID, 10)
}

func (f *fakeConfigRepo) Resolve(_ context.Context, entityType string, entityID int64) ([]approval.ConfigRow, error) {
	return f.configs[configKey(entityType, entityID)], nil
}

func (f *fakeConfigRepo) GetConfigurations(_ context.Context, entityType string, entityID int64) ([]entities.ApprovalConfiguration, error) {
	rows := f.configs[configKey(entityType, entityID)]
	out := make([]entities.ApprovalConfiguration, 0, len(rows))
	for _, row := range rows {
		out = append(out, entities.ApprovalConfiguration{
			EntityType:     entityType,
			EntityID:       entityID,
			SignatureLevel: row.Level,
			RoleName:       row.Role,
			IsRequired:     row.Required,
			IsActive:       true,
		})
	}
	return out, nil
}

func (f *fakeConfigRepo) DeactivateInTx(_ context.Context, _ pgx.Tx, entityType string, entityID int64) error {
	delete(f.configs, configKey(entityType, entityID))
	return nil
}

func (f *fakeConfigRepo) InsertRowsInTx(_ context.Context, _ pgx.Tx, entityType string, entityID int64, rows []approval.ConfigRow) error {
	f.configs[configKey(entityType, entityID)] = append(f.configs[configKey(entityType, entityID)], rows...)
	return nil
}

func (f *fakeConfigRepo) GetTemplateRows(_ context.Context, templateName, entityType string) ([]approval.ConfigRow, error) {
	rows, ok := f.templates[templateName+"/"+entityType]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return rows, nil
}

func (f *fakeConfigRepo) ListTemplates(_ context.Context, _ types.Filter) ([]entities.ApprovalTemplate, uint64, error) {
	return nil, 0, nil
}

func (f *fakeConfigRepo) CreateTemplate(_ context.Context, templateName, entityType string, rows []approval.ConfigRow) error {
	f.templates[templateName+"/"+entityType] = rows
	return nil
}

type fakeSigRepo struct {
	docs map[string]*approval.Document
}

func newFakeSigRepo() *fakeSigRepo {
	return &fakeSigRepo{docs: map[string]*approval.Document{}}
}

func (f *fakeSigRepo) put(doc *approval.Document) {
	f.docs[configKey(doc.EntityType, doc.EntityID)] = doc
}

func (f *fakeSigRepo) FindForApproval(_ context.Context, entityType string, entityID int64) (*approval.Document, error) {
	doc, ok := f.docs[configKey(entityType, entityID)]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	clone := *doc
	slots := *doc.Slots
	clone.Slots = &slots
	return &clone, nil
}

func (f *fakeSigRepo) ApplySignature(_ context.Context, entityType string, entityID int64, level int, signature string, signerID int64, signedAt time.Time, newStatus string) error {
	doc, ok := f.docs[configKey(entityType, entityID)]
	if !ok {
		return apperrors.ErrNotFound
	}
	// Mirror the conditional UPDATE: occupied slot, rejection mark or a
	// terminal status all mean zero affected rows.
	if doc.Slots.IsSlotSet(level) || doc.Slots.IsRejected() || constants.IsTerminalStatus(doc.Status) {
		return apperrors.ErrConflict
	}
	doc.Slots.SetSlot(level, signature, signerID, signedAt)
	doc.Status = newStatus
	return nil
}

func (f *fakeSigRepo) ApplyRejection(_ context.Context, entityType string, entityID int64, reason string, rejectedBy int64, rejectedAt time.Time, newStatus string) error {
	doc, ok := f.docs[configKey(entityType, entityID)]
	if !ok {
		return apperrors.ErrNotFound
	}
	if doc.Slots.IsRejected() || constants.IsTerminalStatus(doc.Status) {
		return apperrors.ErrConflict
	}
	doc.Slots.Reject(reason, rejectedBy, rejectedAt)
	doc.Status = newStatus
	return nil
}

func (f *fakeSigRepo) Cancel(_ context.Context, entityType string, entityID int64, newStatus string) error {
	doc, ok := f.docs[configKey(entityType, entityID)]
	if !ok {
		return apperrors.ErrNotFound
	}
	if doc.Status != constants.StatusPending {
		return apperrors.ErrConflict
	}
	doc.Status = newStatus
	return nil
}

type fakeSettings struct{ threshold float64 }

func (f *fakeSettings) GetAmountThreshold(context.Context) (float64, error) { return f.threshold, nil }
func (f *fakeSettings) SetAmountThreshold(_ context.Context, v float64) error {
	f.threshold = v
	return nil
}

type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(_ context.Context, fn func(tx pgx.Tx) error) error {
	return fn(nil)
}

func fullChain() []approval.ConfigRow {
	return []approval.ConfigRow{
		{Level: 1, Role: constants.RoleSolicitante, Required: true},
		{Level: 2, Role: constants.RoleOficinaTecnica, Required: true},
		{Level: 3, Role: constants.RoleAdministracion, Required: true},
		{Level: 4, Role: constants.RoleGerencia, Required: true},
	}
}

func newTestService(t *testing.T) (*ApprovalService, *fakeConfigRepo, *fakeSigRepo) {
	t.Helper()
	configRepo := newFakeConfigRepo()
	sigRepo := newFakeSigRepo()
	svc := NewApprovalService(configRepo, sigRepo, &fakeSettings{threshold: 10000}, fakeTxManager{}, zap.NewNop())
	return svc, configRepo, sigRepo
}

func seedDoc(sigRepo *fakeSigRepo, configRepo *fakeConfigRepo, entityID int64, amount float64, creatorID int64) {
	sigRepo.put(&approval.Document{
		EntityType: constants.EntityRequirement,
		EntityID:   entityID,
		Status:     constants.StatusPending,
		Amount:     amount,
		CreatorID:  creatorID,
		Slots:      &entities.SignatureSlots{},
	})
	configRepo.configs[configKey(constants.EntityRequirement, entityID)] = fullChain()
}

func capsFor(roles ...string) map[string]bool {
	m := map[string]bool{}
	for _, role := range roles {
		m[approval.SignPermission(constants.EntityRequirement, role)] = true
	}
	return m
}

func TestSign_LowAmountDocumentApprovesAfterThreeSignatures(t *testing.T) {
	svc, configRepo, sigRepo := newTestService(t)
	seedDoc(sigRepo, configRepo, 1, 5000, 100)
	ctx := context.Background()

	outcome, err := svc.Sign(ctx, constants.EntityRequirement, 1, 100, nil, "YmxvYg==")
	require.NoError(t, err)
	assert.Equal(t, constants.StatusSigned1, outcome.Status)

	outcome, err = svc.Sign(ctx, constants.EntityRequirement, 1, 200, capsFor(constants.RoleOficinaTecnica), "YmxvYg==")
	require.NoError(t, err)
	assert.Equal(t, constants.StatusSigned2, outcome.Status)

	outcome, err = svc.Sign(ctx, constants.EntityRequirement, 1, 300, capsFor(constants.RoleAdministracion), "YmxvYg==")
	require.NoError(t, err)
	assert.Equal(t, constants.StatusApproved, outcome.Status)
	assert.True(t, outcome.BecameApproved)
}

func TestSign_HighAmountDocumentNeedsManagement(t *testing.T) {
	svc, configRepo, sigRepo := newTestService(t)
	seedDoc(sigRepo, configRepo, 2, 50000, 100)
	ctx := context.Background()

	_, err := svc.Sign(ctx, constants.EntityRequirement, 2, 100, nil, "YmxvYg==")
	require.NoError(t, err)
	_, err = svc.Sign(ctx, constants.EntityRequirement, 2, 200, capsFor(constants.RoleOficinaTecnica), "YmxvYg==")
	require.NoError(t, err)

	outcome, err := svc.Sign(ctx, constants.EntityRequirement, 2, 300, capsFor(constants.RoleAdministracion), "YmxvYg==")
	require.NoError(t, err)
	assert.Equal(t, constants.StatusSigned3, outcome.Status)
	assert.False(t, outcome.BecameApproved)

	outcome, err = svc.Sign(ctx, constants.EntityRequirement, 2, 400, capsFor(constants.RoleGerencia), "YmxvYg==")
	require.NoError(t, err)
	assert.Equal(t, constants.StatusApproved, outcome.Status)
}

func TestSign_WithoutPermissionIsForbidden(t *testing.T) {
	svc, configRepo, sigRepo := newTestService(t)
	seedDoc(sigRepo, configRepo, 3, 5000, 100)

	_, err := svc.Sign(context.Background(), constants.EntityRequirement, 3, 999, nil, "YmxvYg==")
	require.Error(t, err)

	var httpErr *apperrors.HttpError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 403, httpErr.Code)
}

func TestSign_UnknownEntityType(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Sign(context.Background(), "invoice", 1, 1, nil, "YmxvYg==")
	var invalid *apperrors.InvalidInputError
	assert.ErrorAs(t, err, &invalid)
}

func TestSign_MissingDocument(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Sign(context.Background(), constants.EntityRequirement, 42, 1, nil, "YmxvYg==")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestReject_BySignerOfAnActiveLevel(t *testing.T) {
	svc, configRepo, sigRepo := newTestService(t)
	seedDoc(sigRepo, configRepo, 4, 5000, 100)

	status, err := svc.Reject(context.Background(), constants.EntityRequirement, 4, 300, capsFor(constants.RoleAdministracion), "missing cost estimate")
	require.NoError(t, err)
	assert.Equal(t, constants.StatusRejected, status)

	doc, err := sigRepo.FindForApproval(context.Background(), constants.EntityRequirement, 4)
	require.NoError(t, err)
	assert.True(t, doc.Slots.IsRejected())
}

func TestReject_ByCreator(t *testing.T) {
	svc, configRepo, sigRepo := newTestService(t)
	seedDoc(sigRepo, configRepo, 5, 5000, 100)

	status, err := svc.Reject(context.Background(), constants.EntityRequirement, 5, 100, nil, "created by mistake")
	require.NoError(t, err)
	assert.Equal(t, constants.StatusRejected, status)
}

func TestReject_WithoutAnyRoleIsForbidden(t *testing.T) {
	svc, configRepo, sigRepo := newTestService(t)
	seedDoc(sigRepo, configRepo, 6, 5000, 100)

	_, err := svc.Reject(context.Background(), constants.EntityRequirement, 6, 999, nil, "nope")
	var httpErr *apperrors.HttpError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 403, httpErr.Code)
}

func TestReject_RequiresReason(t *testing.T) {
	svc, configRepo, sigRepo := newTestService(t)
	seedDoc(sigRepo, configRepo, 7, 5000, 100)

	_, err := svc.Reject(context.Background(), constants.EntityRequirement, 7, 100, nil, "")
	var invalid *apperrors.InvalidInputError
	assert.ErrorAs(t, err, &invalid)
}

func TestReject_TerminalDocument(t *testing.T) {
	svc, configRepo, sigRepo := newTestService(t)
	seedDoc(sigRepo, configRepo, 8, 5000, 100)
	sigRepo.docs[configKey(constants.EntityRequirement, 8)].Status = constants.StatusApproved

	_, err := svc.Reject(context.Background(), constants.EntityRequirement, 8, 100, nil, "too late")
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
}

func TestProgress(t *testing.T) {
	svc, configRepo, sigRepo := newTestService(t)
	seedDoc(sigRepo, configRepo, 9, 5000, 100)
	ctx := context.Background()

	report, err := svc.Progress(ctx, constants.EntityRequirement, 9)
	require.NoError(t, err)
	assert.Equal(t, 80, report.Progress)
	assert.Equal(t, 3, report.ActiveLevels) // GERENCIA skipped below the threshold
	assert.Equal(t, 0, report.SignedLevels)

	_, err = svc.Sign(ctx, constants.EntityRequirement, 9, 100, nil, "YmxvYg==")
	require.NoError(t, err)

	report, err = svc.Progress(ctx, constants.EntityRequirement, 9)
	require.NoError(t, err)
	assert.Equal(t, 86, report.Progress)
	assert.Equal(t, 1, report.SignedLevels)
}

func TestEvaluateEligibility_ReportsTurn(t *testing.T) {
	svc, configRepo, sigRepo := newTestService(t)
	seedDoc(sigRepo, configRepo, 1, 5000, 100)
	ctx := context.Background()

	decision, err := svc.EvaluateEligibility(ctx, constants.EntityRequirement, 1, 100, nil)
	require.NoError(t, err)
	assert.True(t, decision.CanSign)
	assert.Equal(t, 1, decision.Level)

	decision, err = svc.EvaluateEligibility(ctx, constants.EntityRequirement, 1, 200, capsFor(constants.RoleOficinaTecnica))
	require.NoError(t, err)
	assert.False(t, decision.CanSign)
}

func TestApplyTemplate(t *testing.T) {
	svc, configRepo, sigRepo := newTestService(t)
	seedDoc(sigRepo, configRepo, 1, 5000, 100)
	configRepo.templates[constants.TemplateLow+"/"+constants.EntityRequirement] = []approval.ConfigRow{
		{Level: 1, Role: constants.RoleSolicitante, Required: true},
		{Level: 2, Role: constants.RoleAdministracion, Required: true},
	}
	ctx := context.Background()

	require.NoError(t, svc.ApplyTemplate(ctx, constants.EntityRequirement, 1, constants.TemplateLow))

	rows, err := configRepo.Resolve(ctx, constants.EntityRequirement, 1)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestApplyTemplate_MissingTemplate(t *testing.T) {
	svc, configRepo, sigRepo := newTestService(t)
	seedDoc(sigRepo, configRepo, 1, 5000, 100)

	err := svc.ApplyTemplate(context.Background(), constants.EntityRequirement, 1, "NOPE")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestApplyTemplate_SupersedesRowsOnPartiallySignedDocument(t *testing.T) {
	svc, configRepo, sigRepo := newTestService(t)
	seedDoc(sigRepo, configRepo, 1, 5000, 100)
	configRepo.templates[constants.TemplateFull+"/"+constants.EntityRequirement] = fullChain()
	ctx := context.Background()

	_, err := svc.Sign(ctx, constants.EntityRequirement, 1, 100, nil, "YmxvYg==")
	require.NoError(t, err)

	require.NoError(t, svc.ApplyTemplate(ctx, constants.EntityRequirement, 1, constants.TemplateFull))

	rows, err := configRepo.Resolve(ctx, constants.EntityRequirement, 1)
	require.NoError(t, err)
	assert.Len(t, rows, 4)

	// The recorded level-1 signature survives the reconfiguration.
	doc, err := sigRepo.FindForApproval(ctx, constants.EntityRequirement, 1)
	require.NoError(t, err)
	assert.True(t, doc.Slots.IsSlotSet(1))
	assert.Equal(t, constants.StatusSigned1, doc.Status)
}

func TestApplyTemplate_TerminalDocument(t *testing.T) {
	svc, configRepo, sigRepo := newTestService(t)
	seedDoc(sigRepo, configRepo, 1, 5000, 100)
	sigRepo.docs[configKey(constants.EntityRequirement, 1)].Status = constants.StatusApproved

	err := svc.ApplyTemplate(context.Background(), constants.EntityRequirement, 1, constants.TemplateLow)
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
}

func TestApplyCustomConfiguration_Validation(t *testing.T) {
	svc, configRepo, sigRepo := newTestService(t)
	seedDoc(sigRepo, configRepo, 1, 5000, 100)
	ctx := context.Background()

	cases := []struct {
		name string
		rows []approval.ConfigRow
	}{
		{"empty", nil},
		{"level out of range", []approval.ConfigRow{{Level: 5, Role: constants.RoleGerencia, Required: true}}},
		{"duplicate level", []approval.ConfigRow{
			{Level: 1, Role: constants.RoleSolicitante, Required: true},
			{Level: 1, Role: constants.RoleGerencia, Required: true},
		}},
		{"unknown role", []approval.ConfigRow{{Level: 1, Role: "CEO", Required: true}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := svc.ApplyCustomConfiguration(ctx, constants.EntityRequirement, 1, tc.rows)
			var invalid *apperrors.InvalidInputError
			assert.ErrorAs(t, err, &invalid)
		})
	}
}

func TestApplyCustomConfiguration_ReplacesExistingRows(t *testing.T) {
	svc, configRepo, sigRepo := newTestService(t)
	seedDoc(sigRepo, configRepo, 1, 5000, 100)
	ctx := context.Background()

	err := svc.ApplyCustomConfiguration(ctx, constants.EntityRequirement, 1, []approval.ConfigRow{
		{Level: 2, Role: constants.RoleGerencia, Required: true},
		{Level: 1, Role: constants.RoleSolicitante, Required: true},
	})
	require.NoError(t, err)

	rows, err := configRepo.Resolve(ctx, constants.EntityRequirement, 1)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	// Rows come back sorted by level regardless of input order.
	assert.Equal(t, 1, rows[0].Level)
	assert.Equal(t, 2, rows[1].Level)
}

func TestApplyCustomConfiguration_AllowedMidChain(t *testing.T) {
	svc, configRepo, sigRepo := newTestService(t)
	seedDoc(sigRepo, configRepo, 1, 5000, 100)
	sigRepo.docs[configKey(constants.EntityRequirement, 1)].Status = constants.StatusSigned1

	err := svc.ApplyCustomConfiguration(context.Background(), constants.EntityRequirement, 1, fullChain())
	require.NoError(t, err)

	rows, err := configRepo.Resolve(context.Background(), constants.EntityRequirement, 1)
	require.NoError(t, err)
	assert.Len(t, rows, 4)
}

func TestSetupForNewDocument_PicksTemplateByAmount(t *testing.T) {
	svc, configRepo, sigRepo := newTestService(t)
	configRepo.templates[constants.TemplateLow+"/"+constants.EntityRequirement] = fullChain()[:3]
	configRepo.templates[constants.TemplateFull+"/"+constants.EntityRequirement] = fullChain()
	sigRepo.put(&approval.Document{
		EntityType: constants.EntityRequirement, EntityID: 1,
		Status: constants.StatusPending, Amount: 500, CreatorID: 1,
		Slots: &entities.SignatureSlots{},
	})
	ctx := context.Background()

	require.NoError(t, svc.SetupForNewDocumentInTx(ctx, nil, constants.EntityRequirement, 1, 500))
	rows, _ := configRepo.Resolve(ctx, constants.EntityRequirement, 1)
	assert.Len(t, rows, 3)

	require.NoError(t, svc.SetupForNewDocumentInTx(ctx, nil, constants.EntityRequirement, 2, 20000))
	rows, _ = configRepo.Resolve(ctx, constants.EntityRequirement, 2)
	assert.Len(t, rows, 4)
}

func TestSetupForNewDocument_NoTemplateIsNotFatal(t *testing.T) {
	svc, configRepo, _ := newTestService(t)

	require.NoError(t, svc.SetupForNewDocumentInTx(context.Background(), nil, constants.EntityQuotation, 1, 500))
	rows, _ := configRepo.Resolve(context.Background(), constants.EntityQuotation, 1)
	assert.Empty(t, rows)
}
