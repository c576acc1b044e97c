package entity

import (
	"time"

	"github.com/canonlab/backend/pkg/enum"
)

type CanonVoteType string

var (
	VoteHeart  = enum.New(CanonVoteType("heart"))
	VoteFire   = enum.New(CanonVoteType("fire"))
	VoteSalute = enum.New(CanonVoteType("salute"))
	VoteClown  = enum.New(CanonVoteType("clown"))
	VoteSkull  = enum.New(CanonVoteType("skull"))
)

var voteWeight = map[CanonVoteType]int{
	VoteHeart:  2,
	VoteFire:   3,
	VoteSalute: 1,
	VoteClown:  -1,
	VoteSkull:  -2,
}

func (t CanonVoteType) Weight() int {
	return voteWeight[t]
}

// IsUpvote reports whether the vote type carries a positive weight.
func (t CanonVoteType) IsUpvote() bool {
	return voteWeight[t] > 0
}

// CanonVote is one row of the vote log. Votes are hard-deleted on toggle-off
// so the unique index always reflects the active vote set.
type CanonVote struct {
	ID        int64 `gorm:"primaryKey"`
	CreatedAt time.Time

	EventID string     `gorm:"uniqueIndex:idx_canon_votes_event_voter_type;index:idx_canon_votes_event_created"`
	Event   CanonEvent `gorm:"foreignKey:EventID"`

	VoterUserID string `gorm:"uniqueIndex:idx_canon_votes_event_voter_type"`
	VoterUser   User   `gorm:"foreignKey:VoterUserID"`

	Type   CanonVoteType `gorm:"uniqueIndex:idx_canon_votes_event_voter_type"`
	Weight int
}
