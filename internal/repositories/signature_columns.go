package repositories

import "procurement-system/internal/entities"

// signatureColumns is the column set every signable document table shares,
// in the order scanSignatureDest expects.
var signatureColumns = []string{
	"sig1", "signer1", "signed1_at",
	"sig2", "signer2", "signed2_at",
	"sig3", "signer3", "signed3_at",
	"sig4", "signer4", "signed4_at",
	"reject_reason", "rejected_by", "rejected_at",
}

func scanSignatureDest(s *entities.SignatureSlots) []interface{} {
	return []interface{}{
		&s.Slots[0].Signature, &s.Slots[0].SignerID, &s.Slots[0].SignedAt,
		&s.Slots[1].Signature, &s.Slots[1].SignerID, &s.Slots[1].SignedAt,
		&s.Slots[2].Signature, &s.Slots[2].SignerID, &s.Slots[2].SignedAt,
		&s.Slots[3].Signature, &s.Slots[3].SignerID, &s.Slots[3].SignedAt,
		&s.Rejection.Reason, &s.Rejection.RejectedBy, &s.Rejection.RejectedAt,
	}
}
