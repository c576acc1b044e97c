package entity

import "time"

// Season gates fusion stamp crafting. At most one season is active at a
// time; activation is done in a single transaction that deactivates the
// rest.
type Season struct {
	Base

	Theme     string
	StartDate time.Time
	EndDate   time.Time
	Active    bool
}

// SeasonProgress tracks a user's tier within one season. Stamp triggers add
// points; the tier is points divided by the configured points-per-tier.
type SeasonProgress struct {
	CreatedAt time.Time
	UpdatedAt time.Time

	UserID string `gorm:"primaryKey"`
	User   User   `gorm:"foreignKey:UserID"`

	SeasonID string `gorm:"primaryKey"`
	Season   Season `gorm:"foreignKey:SeasonID"`

	Points uint64
	Tier   int
}
