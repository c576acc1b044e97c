package model

type Stamp struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Category   string `json:"category"`
	Rarity     string `json:"rarity"`
	IconURL    string `json:"icon_url"`
	FlavorText string `json:"flavor_text"`
}

type EvolutionTier struct {
	Tier              int    `json:"tier"`
	RequiredCount     int    `json:"required_count"`
	EvolvedName       string `json:"evolved_name"`
	EvolvedIconURL    string `json:"evolved_icon_url"`
	EvolvedFlavorText string `json:"evolved_flavor_text"`
}

type UserStamp struct {
	StampID        string `json:"stamp_id"`
	EvolutionCount int    `json:"evolution_count"`
	CurrentTier    int    `json:"current_tier"`
}

type FusionStamp struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	RequiredStampIDs []string `json:"required_stamp_ids"`
	UnlockableAtTier int      `json:"unlockable_at_tier"`
	CanonMultiplier  float64  `json:"canon_multiplier"`
	IconURL          string   `json:"icon_url"`
	FlavorText       string   `json:"flavor_text"`
}

type UserFusionStamp struct {
	FusionStampID  string   `json:"fusion_stamp_id"`
	SourceStampIDs []string `json:"source_stamp_ids"`
	CraftedAt      string   `json:"crafted_at"`
}

type EquippedStamp struct {
	StampID  string `json:"stamp_id"`
	Kind     string `json:"kind"`
	Position int    `json:"position"`
}

type CreateStampRequest struct {
	Name       string `json:"name"`
	Category   string `json:"category"`
	Rarity     string `json:"rarity"`
	IconURL    string `json:"icon_url"`
	FlavorText string `json:"flavor_text"`
}

type CreateStampResponse struct {
	Stamp Stamp `json:"stamp"`
}

type CreateStampTierRequest struct {
	BaseStampID       string `json:"base_stamp_id"`
	Tier              int    `json:"tier"`
	RequiredCount     int    `json:"required_count"`
	EvolvedName       string `json:"evolved_name"`
	EvolvedIconURL    string `json:"evolved_icon_url"`
	EvolvedFlavorText string `json:"evolved_flavor_text"`
}

type CreateStampTierResponse struct{}

type CreateFusionStampRequest struct {
	Name             string   `json:"name"`
	RequiredStampIDs []string `json:"required_stamp_ids"`
	UnlockableAtTier int      `json:"unlockable_at_tier"`
	CanonMultiplier  float64  `json:"canon_multiplier"`
	IconURL          string   `json:"icon_url"`
	FlavorText       string   `json:"flavor_text"`
}

type CreateFusionStampResponse struct {
	FusionStamp FusionStamp `json:"fusion_stamp"`
}

type TriggerStampRequest struct {
	UserID  string `json:"user_id"`
	StampID string `json:"stamp_id"`
}

type TriggerStampResponse struct {
	EvolutionCount int `json:"evolution_count"`
	CurrentTier    int `json:"current_tier"`
}

type GetFusionEligibilityRequest struct {
	FusionStampID string `json:"fusion_stamp_id" form:"fusion_stamp_id"`
	UserID        string `json:"user_id" form:"user_id"`
}

type GetFusionEligibilityResponse struct {
	Eligible        bool     `json:"eligible"`
	MissingStampIDs []string `json:"missing_stamp_ids,omitempty"`
	RequiredTier    int      `json:"required_tier"`
	CurrentTier     int      `json:"current_tier"`
}

type CraftFusionStampRequest struct {
	FusionStampID string `json:"fusion_stamp_id"`
}

type CraftFusionStampResponse struct {
	FusionStamp UserFusionStamp `json:"fusion_stamp"`
}

type EquipStampRequest struct {
	StampID  string `json:"stamp_id"`
	Kind     string `json:"kind"`
	Position int    `json:"position"`
}

type EquipStampResponse struct {
	Equipped []EquippedStamp `json:"equipped"`
}

type UnequipStampRequest struct {
	Position int `json:"position"`
}

type UnequipStampResponse struct {
	Equipped []EquippedStamp `json:"equipped"`
}

type GetAllStampsRequest struct{}

type GetAllStampsResponse struct {
	Stamps  []Stamp       `json:"stamps"`
	Fusions []FusionStamp `json:"fusions"`
}

type GetMyStampsRequest struct{}

type GetMyStampsResponse struct {
	Stamps   []UserStamp       `json:"stamps"`
	Fusions  []UserFusionStamp `json:"fusions"`
	Equipped []EquippedStamp   `json:"equipped"`
}
