package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

// SignatureSlot is one of the four ordered signatures a document can carry.
// The signature itself is an opaque base64 blob; nothing here parses it.
type SignatureSlot struct {
	Signature null.String `json:"signature" db:"signature"`
	SignerID  null.Int64  `json:"signer_id" db:"signer_id"`
	SignedAt  null.Time   `json:"signed_at" db:"signed_at"`
}

func (s SignatureSlot) IsSet() bool {
	return s.Signature.Valid
}

// RejectionRecord is the absorbing rejection mark. Once set, no further
// slot may be written.
type RejectionRecord struct {
	Reason     null.String `json:"reason" db:"reject_reason"`
	RejectedBy null.Int64  `json:"rejected_by" db:"rejected_by"`
	RejectedAt null.Time   `json:"rejected_at" db:"rejected_at"`
}

func (r RejectionRecord) IsSet() bool {
	return r.Reason.Valid
}

// SignatureSlots is the approval-chain state embedded by value in every
// signable document entity (requirement, quotation, fuel control,
// purchase order).
type SignatureSlots struct {
	Slots     [4]SignatureSlot `json:"slots"`
	Rejection RejectionRecord  `json:"rejection"`
}

// Slot returns the slot for a 1-based signature level. Level must be 1..4;
// callers validate before reaching here.
func (s *SignatureSlots) Slot(level int) *SignatureSlot {
	return &s.Slots[level-1]
}

func (s *SignatureSlots) IsSlotSet(level int) bool {
	return s.Slots[level-1].IsSet()
}

func (s *SignatureSlots) IsRejected() bool {
	return s.Rejection.IsSet()
}

// SetSlot writes a signature into the given level. It does not check
// occupancy or rejection; the processor owns those rules.
func (s *SignatureSlots) SetSlot(level int, blob string, signerID int64, signedAt time.Time) {
	slot := s.Slot(level)
	slot.Signature = null.StringFrom(blob)
	slot.SignerID = null.Int64From(signerID)
	slot.SignedAt = null.TimeFrom(signedAt)
}

// Reject records the rejection mark. Like SetSlot, state rules live in the
// processor.
func (s *SignatureSlots) Reject(reason string, rejectedBy int64, rejectedAt time.Time) {
	s.Rejection.Reason = null.StringFrom(reason)
	s.Rejection.RejectedBy = null.Int64From(rejectedBy)
	s.Rejection.RejectedAt = null.TimeFrom(rejectedAt)
}

// HighestSignedLevel returns the highest level with a non-empty slot, or 0.
func (s *SignatureSlots) HighestSignedLevel() int {
	highest := 0
	for i := range s.Slots {
		if s.Slots[i].IsSet() {
			highest = i + 1
		}
	}
	return highest
}
