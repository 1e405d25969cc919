// Package approval implements the multi-level document signature engine:
// configuration resolution, amount-tier selection, eligibility evaluation,
// signature application and the document status machine. The package is
// pure; persistence and HTTP live in the repositories and controllers
// around it.
package approval

import (
	"fmt"
	"strings"

	"procurement-system/internal/entities"
	"procurement-system/pkg/constants"
)

// ConfigRow is one resolved approval configuration row: who must sign at
// which level. Rows arrive ordered by level ascending.
type ConfigRow struct {
	Level    int    `json:"level"`
	Role     string `json:"role"`
	Required bool   `json:"required"`
}

// Document is the slice of a signable document the engine reads. Services
// build it from the concrete entity (requirement, quotation, ...).
type Document struct {
	EntityType string
	EntityID   int64
	Status     string
	Amount     float64
	CreatorID  int64
	Slots      *entities.SignatureSlots
}

// SignPermission synthesizes the capability token that allows signing for
// a role on a document type, e.g. "requirement-signed-administracion".
func SignPermission(entityType, role string) string {
	return fmt.Sprintf("%s-signed-%s", entityType, strings.ToLower(role))
}

// ActiveRows filters the resolved configuration down to the rows actually
// enforced for the document's tier: required rows, minus GERENCIA rows on
// low-amount documents.
func ActiveRows(cfg []ConfigRow, tier Tier) []ConfigRow {
	active := make([]ConfigRow, 0, len(cfg))
	for _, row := range cfg {
		if !row.Required {
			continue
		}
		if tier == TierLow && row.Role == constants.RoleGerencia {
			continue
		}
		active = append(active, row)
	}
	return active
}

// AllSigned reports whether every active row's slot is filled.
func AllSigned(active []ConfigRow, slots *entities.SignatureSlots) bool {
	if len(active) == 0 {
		return false
	}
	for _, row := range active {
		if !slots.IsSlotSet(row.Level) {
			return false
		}
	}
	return true
}

// lowerLevelsSigned reports whether every active row below the given level
// already carries a signature. Levels not present in the active set may be
// skipped.
func lowerLevelsSigned(active []ConfigRow, level int, slots *entities.SignatureSlots) bool {
	for _, row := range active {
		if row.Level >= level {
			continue
		}
		if !slots.IsSlotSet(row.Level) {
			return false
		}
	}
	return true
}
