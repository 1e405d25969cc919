package approval

import "procurement-system/pkg/constants"

// Decision is the outcome of an eligibility evaluation. Level is only
// meaningful when CanSign is true.
type Decision struct {
	CanSign bool   `json:"can_sign"`
	Level   int    `json:"level,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

func denied(reason string) Decision {
	return Decision{CanSign: false, Reason: reason}
}

// Evaluate decides whether the actor may apply the next signature on the
// document, and at which level. The walk order is a deliberate tie-break
// policy: conditional rows (creator-gated, amount-gated) are skipped
// rather than failing the whole evaluation, so later rows still get
// considered.
func Evaluate(doc Document, actorID int64, capabilities map[string]bool, cfg []ConfigRow, threshold float64) Decision {
	if doc.Slots.IsRejected() || doc.Status == RejectedStatus(doc.EntityType) {
		return denied("document has been rejected")
	}
	if doc.Status == CancelledStatus(doc.EntityType) {
		return denied("document has been cancelled")
	}

	tier := SelectTier(doc.Amount, threshold)
	active := ActiveRows(cfg, tier)
	if len(active) == 0 {
		return denied("no approval workflow configured")
	}
	if AllSigned(active, doc.Slots) {
		return denied("document is already fully approved")
	}

	for _, row := range cfg {
		if !row.Required {
			continue
		}
		// Management sign-off is not enforced below the amount threshold,
		// even when a stray configuration row exists.
		if tier == TierLow && row.Role == constants.RoleGerencia {
			continue
		}
		if doc.Slots.IsSlotSet(row.Level) {
			continue
		}
		if !lowerLevelsSigned(active, row.Level, doc.Slots) {
			continue
		}

		if row.Role == constants.RoleSolicitante {
			// The requester slot belongs to the document creator alone.
			// Anyone else skips this row; with the level-order guard above
			// that leaves them nothing to sign until the creator acts.
			if actorID == doc.CreatorID {
				return Decision{CanSign: true, Level: row.Level}
			}
			continue
		}

		if capabilities[SignPermission(doc.EntityType, row.Role)] {
			return Decision{CanSign: true, Level: row.Level}
		}
	}

	return denied("no permission at any available level")
}
