package entity

import "time"

// Subscription follows another user's canon events. A nil EventTypes means
// every type passes; MinimumRank filters against the event's current rank.
// Rows are hard-deleted on unfollow so the pair can be recreated.
type Subscription struct {
	CreatedAt time.Time
	UpdatedAt time.Time

	FollowerID string `gorm:"primaryKey"`
	Follower   User   `gorm:"foreignKey:FollowerID"`

	FollowedID string `gorm:"primaryKey"`
	Followed   User   `gorm:"foreignKey:FollowedID"`

	EventTypes  Array[CanonEventType]
	MinimumRank CanonRank
}
