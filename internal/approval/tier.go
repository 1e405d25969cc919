package approval

// Tier selects between the short and the full approval chain based on the
// document amount.
type Tier string

const (
	TierLow  Tier = "LOW"
	TierFull Tier = "FULL"
)

// SelectTier is a pure comparison: amounts strictly below the threshold
// follow the short chain.
func SelectTier(amount, threshold float64) Tier {
	if amount < threshold {
		return TierLow
	}
	return TierFull
}
