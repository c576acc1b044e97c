package entity

import "time"

type FusionStampDefinition struct {
	Base

	Name             string `gorm:"unique"`
	RequiredStampIDs Array[string]
	UnlockableAtTier int
	CanonMultiplier  float64
	IconURL          string
	FlavorText       string
}

// UserFusionStamp records a crafted fusion. The unique index on
// (user_id, fusion_stamp_id) is the idempotence guarantee for crafting; the
// application never relies on a check-then-insert.
type UserFusionStamp struct {
	Base

	UserID string `gorm:"uniqueIndex:idx_user_fusion_stamps_user_fusion"`
	User   User   `gorm:"foreignKey:UserID"`

	FusionStampID string                `gorm:"uniqueIndex:idx_user_fusion_stamps_user_fusion"`
	FusionStamp   FusionStampDefinition `gorm:"foreignKey:FusionStampID"`

	// SourceStampIDs snapshots the stamps that satisfied eligibility at craft
	// time, so later changes to the user's stamps cannot invalidate the
	// fusion.
	SourceStampIDs Array[string]
	CraftedAt      time.Time
}
