package entity

import "github.com/canonlab/backend/pkg/enum"

type StampRarity string

var (
	RarityCommon    = enum.New(StampRarity("common"))
	RarityRare      = enum.New(StampRarity("rare"))
	RarityUnique    = enum.New(StampRarity("unique"))
	RarityLegendary = enum.New(StampRarity("legendary"))
)

type StampDefinition struct {
	Base

	Name       string `gorm:"unique"`
	Category   string
	Rarity     StampRarity
	IconURL    string
	FlavorText string
}

// StampEvolutionTier defines one evolution step of a base stamp. Tiers of the
// same stamp must have strictly increasing required counts.
type StampEvolutionTier struct {
	BaseStampID string          `gorm:"primaryKey"`
	BaseStamp   StampDefinition `gorm:"foreignKey:BaseStampID"`

	Tier          int `gorm:"primaryKey"`
	RequiredCount int

	EvolvedName       string
	EvolvedIconURL    string
	EvolvedFlavorText string
}
