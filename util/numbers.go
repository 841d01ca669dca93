package util

// SplitChips divides total into numSplits integer shares using floor
// division. Any remainder goes entirely to the first share. This is a fixed
// payout policy; changing it would alter final chip counts in split-pot
// hands.
func SplitChips(total int64, numSplits int) []int64 {
	if numSplits <= 0 {
		return nil
	}
	shares := make([]int64, numSplits)
	base := total / int64(numSplits)
	for i := range shares {
		shares[i] = base
	}
	shares[0] += total % int64(numSplits)
	return shares
}

func MinInt64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
