package entity

import "github.com/canonlab/backend/pkg/enum"

type CanonEventType string

var (
	EventMilestone          = enum.New(CanonEventType("milestone"))
	EventRareUnlock         = enum.New(CanonEventType("rare_unlock"))
	EventCrewSave           = enum.New(CanonEventType("crew_save"))
	EventReviewCommendation = enum.New(CanonEventType("review_commendation"))
	EventCustomBroadcast    = enum.New(CanonEventType("custom_broadcast"))
)

type CanonRank string

var (
	RankLocal     = enum.New(CanonRank("local"))
	RankRegional  = enum.New(CanonRank("regional"))
	RankGlobal    = enum.New(CanonRank("global"))
	RankLegendary = enum.New(CanonRank("legendary"))
)

var rankOrder = map[CanonRank]int{
	RankLocal:     0,
	RankRegional:  1,
	RankGlobal:    2,
	RankLegendary: 3,
}

// Level returns the position of the rank in the escalation order, or -1 for
// an unknown rank.
func (r CanonRank) Level() int {
	level, ok := rankOrder[r]
	if !ok {
		return -1
	}

	return level
}

// Next returns the following rank. The second value is false if r is the
// terminal rank or unknown.
func (r CanonRank) Next() (CanonRank, bool) {
	switch r {
	case RankLocal:
		return RankRegional, true
	case RankRegional:
		return RankGlobal, true
	case RankGlobal:
		return RankLegendary, true
	default:
		return r, false
	}
}

// CanonEvent is a community-verified moment. Rank only moves forward through
// local, regional, global, legendary; there is no demotion.
type CanonEvent struct {
	Base

	OwnerUserID string `gorm:"index"`
	OwnerUser   User   `gorm:"foreignKey:OwnerUserID"`

	Type      CanonEventType
	Title     string
	Rank      CanonRank
	VoteScore int64
}
