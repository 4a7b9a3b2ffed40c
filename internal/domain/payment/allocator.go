package payment

import (
	"sort"
	"time"
)

// SelectAccount picks the collection account that should receive the given
// transaction, or nil when no account qualifies.
//
// Candidates are filtered to enabled accounts whose capability matches the
// request and whose projected counters can absorb the amount without
// breaching min(dailyLimit, securityLimit) or the monthly limit. Survivors
// are ordered by priority rank ascending, then by last use ascending with
// never-used accounts first, so traffic spreads to the coldest account at
// equal priority. The selection is deterministic for identical pool state.
func SelectAccount(accounts []*Account, req TransactionRequest, now time.Time) *Account {
	candidates := make([]*Account, 0, len(accounts))
	for _, account := range accounts {
		if account.CanAccept(req, now) {
			candidates = append(candidates, account)
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.PriorityOrder != b.PriorityOrder {
			return a.PriorityOrder < b.PriorityOrder
		}
		switch {
		case a.LastUsedAt == nil && b.LastUsedAt == nil:
			return false
		case a.LastUsedAt == nil:
			return true
		case b.LastUsedAt == nil:
			return false
		default:
			return a.LastUsedAt.Before(*b.LastUsedAt)
		}
	})

	return candidates[0]
}
