package entity

import (
	"time"

	"github.com/canonlab/backend/pkg/enum"
)

// UserStamp is mutated only by the stamp progression engine. CurrentTier is
// the highest tier whose required count does not exceed EvolutionCount.
type UserStamp struct {
	CreatedAt time.Time
	UpdatedAt time.Time

	UserID string `gorm:"primaryKey"`
	User   User   `gorm:"foreignKey:UserID"`

	StampID string          `gorm:"primaryKey"`
	Stamp   StampDefinition `gorm:"foreignKey:StampID"`

	EvolutionCount int
	CurrentTier    int
}

type StampKind string

var (
	KindStamp  = enum.New(StampKind("stamp"))
	KindFusion = enum.New(StampKind("fusion"))
)

// EquippedStamp occupies one of the three display slots of a user. The
// primary key forbids two stamps in the same slot; the stamp unique index
// forbids equipping the same stamp twice.
type EquippedStamp struct {
	CreatedAt time.Time

	UserID string `gorm:"primaryKey;uniqueIndex:idx_equipped_stamps_user_stamp"`
	User   User   `gorm:"foreignKey:UserID"`

	Position int `gorm:"primaryKey"`

	StampID string    `gorm:"uniqueIndex:idx_equipped_stamps_user_stamp"`
	Kind    StampKind `gorm:"uniqueIndex:idx_equipped_stamps_user_stamp"`
}
