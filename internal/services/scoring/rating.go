package scoring

import "strings"

// Grades that count as buy-equivalent on their own, regardless of the
// previous grade.
var buyGrades = map[string]struct{}{
	"buy":        {},
	"strong buy": {},
	"outperform": {},
	"overweight": {},
}

// Ordinal scale for upgrade detection. Hold and neutral share a rung.
var gradeOrdinal = map[string]int{
	"sell":         0,
	"underperform": 1,
	"hold":         2,
	"neutral":      2,
	"buy":          3,
	"outperform":   4,
}

// IsBuySignal reports whether an analyst action is positive: either the new
// grade is buy-equivalent, or the move is a genuine upgrade on the ordinal
// scale. An unknown previous grade is never treated as an upgrade.
func IsBuySignal(currentGrade, previousGrade string) bool {
	cur := normalizeGrade(currentGrade)
	if _, ok := buyGrades[cur]; ok {
		return true
	}
	curOrd, curKnown := gradeOrdinal[cur]
	prevOrd, prevKnown := gradeOrdinal[normalizeGrade(previousGrade)]
	return curKnown && prevKnown && curOrd > prevOrd
}

func normalizeGrade(g string) string {
	return strings.ToLower(strings.TrimSpace(g))
}
