package approval

import (
	"fmt"
	"time"

	"procurement-system/pkg/constants"
	apperrors "procurement-system/pkg/errors"
)

// SignResult describes the state transition produced by applying a
// signature.
type SignResult struct {
	Status         string
	BecameApproved bool
}

// Apply writes a signature into the document's slot for the given level
// and recomputes the status. Re-signing an occupied slot fails with
// ErrInvalidState so duplicate submissions never double-count progress.
// The caller persists the transition with a conditional update; this
// function only mutates the in-memory value.
func Apply(doc Document, level int, actorID int64, signatureBlob string, signedAt time.Time, cfg []ConfigRow, threshold float64) (SignResult, error) {
	if level < constants.MinSignatureLevel || level > constants.MaxSignatureLevel {
		return SignResult{}, apperrors.NewInvalidInputError("signature level %d is out of range", level)
	}
	if doc.Slots.IsRejected() {
		return SignResult{}, fmt.Errorf("cannot sign a rejected document: %w", apperrors.ErrInvalidState)
	}
	if IsTerminal(doc.Status) {
		return SignResult{}, fmt.Errorf("document status %s is terminal: %w", doc.Status, apperrors.ErrInvalidState)
	}
	if doc.Slots.IsSlotSet(level) {
		return SignResult{}, fmt.Errorf("signature level %d is already set: %w", level, apperrors.ErrInvalidState)
	}

	doc.Slots.SetSlot(level, signatureBlob, actorID, signedAt)

	active := ActiveRows(cfg, SelectTier(doc.Amount, threshold))
	approved := AllSigned(active, doc.Slots)

	return SignResult{
		Status:         StatusForSignature(doc.EntityType, level, approved),
		BecameApproved: approved,
	}, nil
}

// ApplyRejection records the rejection mark and returns the terminal
// rejected status. Rejection is reachable from any non-terminal state.
func ApplyRejection(doc Document, reason string, actorID int64, rejectedAt time.Time) (string, error) {
	if doc.Slots.IsRejected() || IsTerminal(doc.Status) {
		return "", fmt.Errorf("document status %s is terminal: %w", doc.Status, apperrors.ErrInvalidState)
	}
	doc.Slots.Reject(reason, actorID, rejectedAt)
	return RejectedStatus(doc.EntityType), nil
}
