package models

import "time"

// Chamber identifies which chamber of Congress a member sits in.
type Chamber string

const (
	ChamberSenate Chamber = "senate"
	ChamberHouse  Chamber = "house"
)

// Member represents a member of Congress. Immutable once loaded for a run.
type Member struct {
	MemberID   string   `json:"member_id"`
	Name       string   `json:"name"`
	Chamber    Chamber  `json:"chamber"`
	State      string   `json:"state"`
	District   string   `json:"district,omitempty"` // House only
	Party      string   `json:"party"`
	Committees []string `json:"committees,omitempty"`
}

// CommitteeAssignment is a member's seat on a committee over a date range.
type CommitteeAssignment struct {
	MemberID      string     `json:"member_id"`
	CommitteeName string     `json:"committee_name"`
	CommitteeCode string     `json:"committee_code,omitempty"`
	Role          string     `json:"role,omitempty"` // Chair, Ranking Member, Member
	StartDate     time.Time  `json:"start_date"`
	EndDate       *time.Time `json:"end_date,omitempty"`
}

// LegislativeAction is a vote, sponsorship or other legislative event taken
// by a member. IndustriesAffected carries bill subject tags when the
// upstream provider supplies them.
type LegislativeAction struct {
	ActionID           string    `json:"action_id"`
	MemberID           string    `json:"member_id"`
	ActionType         string    `json:"action_type"` // vote, sponsor, cosponsor
	BillID             string    `json:"bill_id,omitempty"`
	BillTitle          string    `json:"bill_title"`
	ActionDate         time.Time `json:"action_date"`
	Position           string    `json:"position,omitempty"`
	IndustriesAffected []string  `json:"industries_affected,omitempty"`
	Committee          string    `json:"committee,omitempty"`
}
