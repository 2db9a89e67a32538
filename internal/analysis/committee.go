package analysis

import (
	"strings"

	"github.com/ybird-labs/senate-insight-lab/internal/domain/models"
)

const fuzzyCommitteeScore = 0.5

// CommitteeScore checks whether the member's committee seats oversee the
// traded stock's industry. A committee whose name carries the industry
// itself scores 1.0; a name that only touches one of the industry's topic
// keywords scores the intermediate fuzzy value. Tickers missing from the
// symbol table resolve to an unknown industry and always score 0.0.
func (d *Detector) CommitteeScore(tx models.Transaction, assignments []models.CommitteeAssignment) float64 {
	industry := d.industries.TickerIndustry(tx.Ticker)
	if industry == IndustryUnknown {
		return 0.0
	}

	best := 0.0
	for _, a := range assignments {
		name := strings.ToLower(a.CommitteeName)
		if name == "" {
			continue
		}
		switch {
		case ContainsToken(name, industry):
			return 1.0
		case d.industries.TextMatchesIndustry(name, industry):
			if fuzzyCommitteeScore > best {
				best = fuzzyCommitteeScore
			}
		}
	}
	return clamp01(best)
}
