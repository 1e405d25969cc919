package approval

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"procurement-system/pkg/constants"
	apperrors "procurement-system/pkg/errors"
)

func TestApply_LowAmountScenario(t *testing.T) {
	// threshold 10000, amount 5000: the GERENCIA level is skipped and the
	// document approves right after level 3.
	doc := newDoc(5000, 7)
	cfg := fullConfig()
	now := time.Now()

	res, err := Apply(doc, 1, 7, "ZmlybWEx", now, cfg, testThreshold)
	require.NoError(t, err)
	assert.Equal(t, constants.StatusSigned1, res.Status)
	assert.False(t, res.BecameApproved)

	res, err = Apply(doc, 2, 20, "ZmlybWEy", now, cfg, testThreshold)
	require.NoError(t, err)
	assert.Equal(t, constants.StatusSigned2, res.Status)

	res, err = Apply(doc, 3, 21, "ZmlybWEz", now, cfg, testThreshold)
	require.NoError(t, err)
	assert.Equal(t, constants.StatusApproved, res.Status)
	assert.True(t, res.BecameApproved)
}

func TestApply_HighAmountScenario(t *testing.T) {
	// Same configuration, amount 50000: levels 1-3 leave the document at
	// SIGNED_3 and only the level-4 signature approves it.
	doc := newDoc(50000, 7)
	cfg := fullConfig()
	now := time.Now()

	for level, actor := range map[int]int64{1: 7, 2: 20, 3: 21} {
		_, err := Apply(doc, level, actor, "ZmlybWE=", now, cfg, testThreshold)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, doc.Slots.HighestSignedLevel())

	active := ActiveRows(cfg, SelectTier(doc.Amount, testThreshold))
	assert.False(t, AllSigned(active, doc.Slots))

	res, err := Apply(doc, 4, 30, "Z2VyZW5jaWE=", now, cfg, testThreshold)
	require.NoError(t, err)
	assert.Equal(t, constants.StatusApproved, res.Status)
	assert.True(t, res.BecameApproved)
}

func TestApply_SameLevelTwiceFailsTheSecondTime(t *testing.T) {
	doc := newDoc(50000, 7)
	cfg := fullConfig()

	_, err := Apply(doc, 1, 7, "ZmlybWE=", time.Now(), cfg, testThreshold)
	require.NoError(t, err)

	_, err = Apply(doc, 1, 7, "ZmlybWE=", time.Now(), cfg, testThreshold)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
}

func TestApply_RejectedDocumentRefusesSignatures(t *testing.T) {
	doc := newDoc(50000, 7)
	doc.Slots.Reject("missing attachments", 20, time.Now())
	doc.Status = constants.StatusRejected

	_, err := Apply(doc, 1, 7, "ZmlybWE=", time.Now(), fullConfig(), testThreshold)
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
}

func TestApply_TerminalStatusesRefuseSignatures(t *testing.T) {
	for _, status := range []string{constants.StatusApproved, constants.StatusRejected, constants.StatusCancelled} {
		doc := newDoc(50000, 7)
		doc.Status = status
		_, err := Apply(doc, 2, 20, "ZmlybWE=", time.Now(), fullConfig(), testThreshold)
		assert.ErrorIs(t, err, apperrors.ErrInvalidState, "status %s must be absorbing", status)
	}
}

func TestApply_LevelOutOfRange(t *testing.T) {
	doc := newDoc(50000, 7)
	for _, level := range []int{0, 5, -1} {
		_, err := Apply(doc, level, 7, "ZmlybWE=", time.Now(), fullConfig(), testThreshold)
		var invalidInput *apperrors.InvalidInputError
		assert.ErrorAs(t, err, &invalidInput)
	}
}

// Approval must hold exactly when the signed set covers every active row:
// enumerate all subsets of levels {1,2,3,4} against the full configuration.
func TestApprovalRequiresEveryActiveRow(t *testing.T) {
	cfg := fullConfig()
	active := ActiveRows(cfg, TierFull)

	for mask := 0; mask < 16; mask++ {
		doc := newDoc(50000, 7)
		for level := 1; level <= 4; level++ {
			if mask&(1<<(level-1)) != 0 {
				doc.Slots.SetSlot(level, "ZmlybWE=", int64(level), time.Now())
			}
		}
		assert.Equal(t, mask == 15, AllSigned(active, doc.Slots), "mask %04b", mask)
	}
}

func TestApplyRejection(t *testing.T) {
	t.Run("from an intermediate state", func(t *testing.T) {
		doc := newDoc(50000, 7)
		doc.Status = constants.StatusSigned2

		status, err := ApplyRejection(doc, "price out of budget", 20, time.Now())
		require.NoError(t, err)
		assert.Equal(t, constants.StatusRejected, status)
		assert.True(t, doc.Slots.IsRejected())
	})

	t.Run("terminal states are absorbing", func(t *testing.T) {
		for _, status := range []string{constants.StatusApproved, constants.StatusRejected, constants.StatusCancelled} {
			doc := newDoc(50000, 7)
			doc.Status = status
			_, err := ApplyRejection(doc, "too late", 20, time.Now())
			assert.ErrorIs(t, err, apperrors.ErrInvalidState)
		}
	})

	t.Run("rejection mark alone blocks a second rejection", func(t *testing.T) {
		doc := newDoc(50000, 7)
		doc.Slots.Reject("first", 20, time.Now())
		_, err := ApplyRejection(doc, "second", 21, time.Now())
		assert.ErrorIs(t, err, apperrors.ErrInvalidState)
	})
}
