package scanner

import (
	"sort"

	"github.com/dualarb/darb/models"
)

// Rank re-sorts already computed results in place; nothing is recomputed.
// Unknown sort keys fall back to safety ordering.
func Rank(results []models.ScanResult, by models.SortBy) {
	sort.Slice(results, func(i, j int) bool {
		switch by {
		case models.SortByProfit:
			return results[i].CreditAtMaxSpread > results[j].CreditAtMaxSpread
		case models.SortByRatio:
			return results[i].RiskReward > results[j].RiskReward
		default:
			return results[i].WorstCase > results[j].WorstCase
		}
	})
}
