package util

import "strconv"

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 50
)

// Page parses limit/offset query values. Invalid values fall back to the
// defaults; limit is clamped to MaxPageLimit.
func Page(limitRaw, offsetRaw string) (limit, offset int) {
	limit = DefaultPageLimit
	if v, err := strconv.Atoi(limitRaw); err == nil && v > 0 {
		limit = v
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	if v, err := strconv.Atoi(offsetRaw); err == nil && v > 0 {
		offset = v
	}
	return limit, offset
}

// Window returns the [start, end) bounds of a page over n items.
func Window(n, limit, offset int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if offset >= n {
		return n, n
	}
	end := n
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return offset, end
}
