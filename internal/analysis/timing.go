package analysis

import (
	"strings"

	"github.com/ybird-labs/senate-insight-lab/internal/domain/models"
	"github.com/ybird-labs/senate-insight-lab/pkg/util"
)

// TimingScore measures how closely the transaction preceded relevant
// legislative action. Only actions on or after the transaction date and
// within the timing window count; a gap of 0 to NearWindowDays scores the
// full 1.0, the remainder of the window scores FarWindowScore. The result is
// the best candidate across all relevant actions, 0.0 when none qualify.
func (d *Detector) TimingScore(tx models.Transaction, actions []models.LegislativeAction) float64 {
	if len(actions) == 0 {
		return 0.0
	}

	best := 0.0
	for _, action := range actions {
		if !d.actionRelevant(action, tx) {
			continue
		}
		gap := util.DaysBetween(tx.TransactionDate, action.ActionDate)
		if gap < 0 || gap > d.params.TimingWindowDays {
			continue
		}
		candidate := d.params.FarWindowScore
		if gap <= d.params.NearWindowDays {
			candidate = 1.0
		}
		if candidate > best {
			best = candidate
		}
	}
	return clamp01(best)
}

// actionRelevant decides whether a legislative action touches the traded
// stock, using the same industry tables as the committee scorer: the
// action's title, subject tags and committee are matched against the
// ticker's industry keywords, with a direct ticker or company-name mention
// accepted for unmapped symbols.
func (d *Detector) actionRelevant(action models.LegislativeAction, tx models.Transaction) bool {
	text := action.BillTitle
	if len(action.IndustriesAffected) > 0 {
		text += " " + strings.Join(action.IndustriesAffected, " ")
	}
	if action.Committee != "" {
		text += " " + action.Committee
	}

	if industry := d.industries.TickerIndustry(tx.Ticker); industry != IndustryUnknown {
		if d.industries.TextMatchesIndustry(text, industry) {
			return true
		}
	}
	if ContainsToken(text, tx.Ticker) {
		return true
	}
	for _, word := range strings.Fields(tx.CompanyName) {
		if len(word) > 3 && ContainsToken(text, word) {
			return true
		}
	}
	return false
}
