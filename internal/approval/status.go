package approval

import (
	"procurement-system/internal/entities"
	"procurement-system/pkg/constants"
)

// statusLabels is the per-document-type status vocabulary. The transition
// rule (highest signed level determines the label) is shared; only the
// labels are parameterized. All four document types currently use the same
// codes, so the table maps every entity type to the default set.
type statusLabels struct {
	Pending   string
	Signed    [4]string
	Approved  string
	Rejected  string
	Cancelled string
}

var defaultLabels = statusLabels{
	Pending: constants.StatusPending,
	Signed: [4]string{
		constants.StatusSigned1,
		constants.StatusSigned2,
		constants.StatusSigned3,
		constants.StatusSigned4,
	},
	Approved:  constants.StatusApproved,
	Rejected:  constants.StatusRejected,
	Cancelled: constants.StatusCancelled,
}

var statusTable = map[string]statusLabels{
	constants.EntityRequirement:   defaultLabels,
	constants.EntityQuotation:     defaultLabels,
	constants.EntityFuelControl:   defaultLabels,
	constants.EntityPurchaseOrder: defaultLabels,
}

func labelsFor(entityType string) statusLabels {
	if labels, ok := statusTable[entityType]; ok {
		return labels
	}
	return defaultLabels
}

// StatusForSignature maps the level just signed to the document's new
// status: the terminal approved label once every active row is satisfied,
// otherwise the intermediate per-level label.
func StatusForSignature(entityType string, level int, approved bool) string {
	labels := labelsFor(entityType)
	if approved {
		return labels.Approved
	}
	return labels.Signed[level-1]
}

func RejectedStatus(entityType string) string {
	return labelsFor(entityType).Rejected
}

func CancelledStatus(entityType string) string {
	return labelsFor(entityType).Cancelled
}

// IsTerminal reports whether a status admits no further transitions.
func IsTerminal(status string) bool {
	return constants.IsTerminalStatus(status)
}

// CanCancel: cancellation is only reachable from PENDING.
func CanCancel(entityType, status string) bool {
	return status == labelsFor(entityType).Pending
}

// CanReject: rejection is reachable from any non-terminal state.
func CanReject(status string) bool {
	return !IsTerminal(status)
}

// Progress returns the UI progress percentage: 80% base once a workflow
// exists, plus a linear share of the remaining 20% per completed required
// signature. 100% only when every active row is signed.
func Progress(active []ConfigRow, slots *entities.SignatureSlots) int {
	if len(active) == 0 {
		return 0
	}
	signed := 0
	for _, row := range active {
		if slots.IsSlotSet(row.Level) {
			signed++
		}
	}
	return 80 + (20*signed)/len(active)
}
