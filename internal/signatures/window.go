package signatures

import "math/big"

// WindowContains reports whether now (unix seconds) falls inside the
// half-open interval [start, end). A request not yet valid and a request past
// its end are both outside; the protocol does not distinguish the two.
func WindowContains(now int64, start, end *big.Int) bool {
	ts := big.NewInt(now)
	return start.Cmp(ts) <= 0 && ts.Cmp(end) < 0
}
