package keyset

// MaxLimit is the page size ceiling used when no other maximum is configured.
const MaxLimit = 100

// IsNormalizedLimitMax clamps limit to [1, maxLimit]. A non-positive limit is
// never treated as unbounded: it falls back to maxLimit. The second return
// value reports whether limit was already within bounds.
func IsNormalizedLimitMax(limit int, maxLimit int) (int, bool) {
	if maxLimit <= 0 {
		maxLimit = MaxLimit
	}

	if limit <= 0 || limit > maxLimit {
		return maxLimit, false
	}

	return limit, true
}

func NormalizeLimitMax(limit int, maxLimit int) int {
	ret, _ := IsNormalizedLimitMax(limit, maxLimit)
	return ret
}

func NormalizeLimit(limit int) int {
	return NormalizeLimitMax(limit, MaxLimit)
}
