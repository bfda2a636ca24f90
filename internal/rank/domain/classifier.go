package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// CategoryNormal is the sentinel category for balances below every active
// threshold, and the result when no rules are configured.
const CategoryNormal = "Normal"

// Classify returns the name of the first rule, in the given order, whose
// threshold is <= balance. Callers pass rules sorted by SortRules (threshold
// descending); the repository returns them that way. Comparison is exact
// decimal comparison, negative balances simply fall through to the sentinel
// unless a rule's threshold admits them.
func Classify(balance decimal.Decimal, rules []RankConfiguration) string {
	for _, rule := range rules {
		if rule.ThresholdAmount.LessThanOrEqual(balance) {
			return rule.RankName
		}
	}
	return CategoryNormal
}

// SortRules orders rules by threshold descending. The sort is stable so that
// rules sharing a threshold keep their incoming order; combined with the
// repository's id tiebreak this makes equal-threshold evaluation
// deterministic.
func SortRules(rules []RankConfiguration) {
	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].ThresholdAmount.GreaterThan(rules[j].ThresholdAmount)
	})
}
