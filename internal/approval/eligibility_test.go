package approval

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"procurement-system/internal/entities"
	"procurement-system/pkg/constants"
)

const testThreshold = 10000

func fullConfig() []ConfigRow {
	return []ConfigRow{
		{Level: 1, Role: constants.RoleSolicitante, Required: true},
		{Level: 2, Role: constants.RoleAdministracion, Required: true},
		{Level: 3, Role: constants.RoleOficinaTecnica, Required: true},
		{Level: 4, Role: constants.RoleGerencia, Required: true},
	}
}

func newDoc(amount float64, creatorID int64) Document {
	return Document{
		EntityType: constants.EntityRequirement,
		EntityID:   1,
		Status:     constants.StatusPending,
		Amount:     amount,
		CreatorID:  creatorID,
		Slots:      &entities.SignatureSlots{},
	}
}

func sign(t *testing.T, doc Document, level int, actorID int64) {
	t.Helper()
	doc.Slots.SetSlot(level, "c2ln", actorID, time.Now())
}

func caps(perms ...string) map[string]bool {
	m := make(map[string]bool, len(perms))
	for _, p := range perms {
		m[p] = true
	}
	return m
}

func TestEvaluate_CreatorSignsFirstLevel(t *testing.T) {
	doc := newDoc(50000, 7)

	decision := Evaluate(doc, 7, nil, fullConfig(), testThreshold)
	require.True(t, decision.CanSign)
	assert.Equal(t, 1, decision.Level)
}

func TestEvaluate_NonCreatorNeverSignsRequesterLevel(t *testing.T) {
	doc := newDoc(50000, 7)

	// Even a capability set containing every sign permission must not
	// unlock the requester slot for someone else.
	allCaps := caps(
		SignPermission(constants.EntityRequirement, constants.RoleSolicitante),
		SignPermission(constants.EntityRequirement, constants.RoleAdministracion),
		SignPermission(constants.EntityRequirement, constants.RoleOficinaTecnica),
		SignPermission(constants.EntityRequirement, constants.RoleGerencia),
	)

	decision := Evaluate(doc, 99, allCaps, fullConfig(), testThreshold)
	assert.False(t, decision.CanSign)
	assert.Equal(t, "no permission at any available level", decision.Reason)
}

func TestEvaluate_LevelOrderIsEnforced(t *testing.T) {
	doc := newDoc(50000, 7)
	admin := caps(SignPermission(constants.EntityRequirement, constants.RoleAdministracion))

	// Level 1 is still empty, so the level 2 approver has to wait.
	decision := Evaluate(doc, 20, admin, fullConfig(), testThreshold)
	assert.False(t, decision.CanSign)

	sign(t, doc, 1, 7)
	decision = Evaluate(doc, 20, admin, fullConfig(), testThreshold)
	require.True(t, decision.CanSign)
	assert.Equal(t, 2, decision.Level)
}

func TestEvaluate_RejectedDocumentCannotBeSigned(t *testing.T) {
	doc := newDoc(50000, 7)
	doc.Slots.Reject("budget exceeded", 20, time.Now())

	decision := Evaluate(doc, 7, nil, fullConfig(), testThreshold)
	assert.False(t, decision.CanSign)
	assert.Equal(t, "document has been rejected", decision.Reason)
}

func TestEvaluate_CancelledDocumentCannotBeSigned(t *testing.T) {
	doc := newDoc(50000, 7)
	doc.Status = constants.StatusCancelled

	decision := Evaluate(doc, 7, nil, fullConfig(), testThreshold)
	assert.False(t, decision.CanSign)
	assert.Equal(t, "document has been cancelled", decision.Reason)
}

func TestEvaluate_NoConfigurationMeansNothingToSign(t *testing.T) {
	doc := newDoc(50000, 7)

	decision := Evaluate(doc, 7, nil, nil, testThreshold)
	assert.False(t, decision.CanSign)
	assert.Equal(t, "no approval workflow configured", decision.Reason)
}

func TestEvaluate_FullySignedDocumentIsDone(t *testing.T) {
	doc := newDoc(50000, 7)
	for level := 1; level <= 4; level++ {
		sign(t, doc, level, int64(level))
	}
	doc.Status = constants.StatusApproved

	decision := Evaluate(doc, 7, nil, fullConfig(), testThreshold)
	assert.False(t, decision.CanSign)
	assert.Equal(t, "document is already fully approved", decision.Reason)
}

func TestEvaluate_GerenciaRowIsAmountGated(t *testing.T) {
	gerencia := caps(SignPermission(constants.EntityRequirement, constants.RoleGerencia))

	t.Run("skipped below threshold", func(t *testing.T) {
		doc := newDoc(5000, 7)
		sign(t, doc, 1, 7)
		sign(t, doc, 2, 20)
		sign(t, doc, 3, 21)

		decision := Evaluate(doc, 30, gerencia, fullConfig(), testThreshold)
		assert.False(t, decision.CanSign, "low-amount documents must not offer the management level")
		assert.Equal(t, "document is already fully approved", decision.Reason)
	})

	t.Run("enforced at or above threshold", func(t *testing.T) {
		doc := newDoc(50000, 7)
		sign(t, doc, 1, 7)
		sign(t, doc, 2, 20)
		sign(t, doc, 3, 21)

		decision := Evaluate(doc, 30, gerencia, fullConfig(), testThreshold)
		require.True(t, decision.CanSign)
		assert.Equal(t, 4, decision.Level)

		// ...and only management may take it.
		admin := caps(SignPermission(constants.EntityRequirement, constants.RoleAdministracion))
		decision = Evaluate(doc, 20, admin, fullConfig(), testThreshold)
		assert.False(t, decision.CanSign)
	})
}

func TestEvaluate_OptionalRowsDoNotBlock(t *testing.T) {
	cfg := []ConfigRow{
		{Level: 1, Role: constants.RoleSolicitante, Required: true},
		{Level: 2, Role: constants.RoleAdministracion, Required: false},
		{Level: 3, Role: constants.RoleOficinaTecnica, Required: true},
	}
	doc := newDoc(50000, 7)
	sign(t, doc, 1, 7)

	tecnica := caps(SignPermission(constants.EntityRequirement, constants.RoleOficinaTecnica))
	decision := Evaluate(doc, 21, tecnica, cfg, testThreshold)
	require.True(t, decision.CanSign)
	assert.Equal(t, 3, decision.Level, "the optional level 2 row must be skippable")
}

func TestEvaluate_WrongCapabilityIsRefused(t *testing.T) {
	doc := newDoc(50000, 7)
	sign(t, doc, 1, 7)

	// quotation capability must not unlock a requirement document
	other := caps(SignPermission(constants.EntityQuotation, constants.RoleAdministracion))
	decision := Evaluate(doc, 20, other, fullConfig(), testThreshold)
	assert.False(t, decision.CanSign)
	assert.Equal(t, "no permission at any available level", decision.Reason)
}
