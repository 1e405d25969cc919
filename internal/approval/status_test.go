package approval

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"procurement-system/internal/entities"
	"procurement-system/pkg/constants"
)

func TestStatusForSignature(t *testing.T) {
	assert.Equal(t, constants.StatusSigned1, StatusForSignature(constants.EntityRequirement, 1, false))
	assert.Equal(t, constants.StatusSigned3, StatusForSignature(constants.EntityQuotation, 3, false))
	assert.Equal(t, constants.StatusApproved, StatusForSignature(constants.EntityFuelControl, 2, true))
}

func TestTerminalStates(t *testing.T) {
	for _, status := range []string{constants.StatusApproved, constants.StatusRejected, constants.StatusCancelled} {
		assert.True(t, IsTerminal(status), status)
		assert.False(t, CanReject(status), status)
	}
	for _, status := range []string{constants.StatusPending, constants.StatusSigned1, constants.StatusSigned4} {
		assert.False(t, IsTerminal(status), status)
		assert.True(t, CanReject(status), status)
	}
}

func TestCanCancel_OnlyFromPending(t *testing.T) {
	assert.True(t, CanCancel(constants.EntityPurchaseOrder, constants.StatusPending))
	assert.False(t, CanCancel(constants.EntityPurchaseOrder, constants.StatusSigned1))
	assert.False(t, CanCancel(constants.EntityPurchaseOrder, constants.StatusApproved))
}

func TestProgress(t *testing.T) {
	cfg := fullConfig()
	active := ActiveRows(cfg, TierFull)

	slots := &entities.SignatureSlots{}
	assert.Equal(t, 0, Progress(nil, slots), "no workflow, no progress")
	assert.Equal(t, 80, Progress(active, slots))

	slots.SetSlot(1, "ZmlybWE=", 7, time.Now())
	assert.Equal(t, 85, Progress(active, slots))

	slots.SetSlot(2, "ZmlybWE=", 20, time.Now())
	slots.SetSlot(3, "ZmlybWE=", 21, time.Now())
	assert.Equal(t, 95, Progress(active, slots))

	slots.SetSlot(4, "ZmlybWE=", 30, time.Now())
	assert.Equal(t, 100, Progress(active, slots))
}

func TestSelectTier(t *testing.T) {
	assert.Equal(t, TierLow, SelectTier(9999.99, 10000))
	assert.Equal(t, TierFull, SelectTier(10000, 10000), "threshold itself is FULL")
	assert.Equal(t, TierFull, SelectTier(50000, 10000))
}

func TestActiveRows(t *testing.T) {
	cfg := fullConfig()

	assert.Len(t, ActiveRows(cfg, TierFull), 4)

	low := ActiveRows(cfg, TierLow)
	assert.Len(t, low, 3)
	for _, row := range low {
		assert.NotEqual(t, constants.RoleGerencia, row.Role)
	}
}

func TestSignPermission(t *testing.T) {
	assert.Equal(t, "requirement-signed-administracion",
		SignPermission(constants.EntityRequirement, constants.RoleAdministracion))
	assert.Equal(t, "purchase_order-signed-oficina_tecnica",
		SignPermission(constants.EntityPurchaseOrder, constants.RoleOficinaTecnica))
}
