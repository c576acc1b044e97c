package domain

import (
	"time"

	"github.com/canonlab/backend/internal/entity"
	"github.com/canonlab/backend/internal/model"
	"github.com/canonlab/backend/pkg/dateutil"
)

func convertUser(user *entity.User) model.User {
	if user == nil {
		return model.User{}
	}

	return model.User{
		ID:        user.ID,
		Name:      user.Name,
		AvatarURL: user.AvatarURL,
	}
}

func convertCanonEvent(event *entity.CanonEvent) model.CanonEvent {
	if event == nil {
		return model.CanonEvent{}
	}

	return model.CanonEvent{
		ID:          event.ID,
		OwnerUserID: event.OwnerUserID,
		Type:        string(event.Type),
		Title:       event.Title,
		Rank:        string(event.Rank),
		VoteScore:   event.VoteScore,
		CreatedAt:   event.CreatedAt.Format(time.RFC3339),
	}
}

func convertTrustEdge(edge *entity.TrustEdge, anonymize bool) model.TrustEdge {
	if edge == nil {
		return model.TrustEdge{}
	}

	result := model.TrustEdge{
		Ordinal:        edge.Position,
		TrustScore:     edge.TrustScore,
		LastSeen:       edge.LastSeen.Format(time.RFC3339),
		SharedEventIDs: edge.SharedEventIDs,
	}

	if !anonymize {
		result.TargetUserID = edge.TargetUserID
	}

	return result
}

func convertStamp(stamp *entity.StampDefinition) model.Stamp {
	if stamp == nil {
		return model.Stamp{}
	}

	return model.Stamp{
		ID:         stamp.ID,
		Name:       stamp.Name,
		Category:   stamp.Category,
		Rarity:     string(stamp.Rarity),
		IconURL:    stamp.IconURL,
		FlavorText: stamp.FlavorText,
	}
}

func convertFusionStamp(def *entity.FusionStampDefinition) model.FusionStamp {
	if def == nil {
		return model.FusionStamp{}
	}

	return model.FusionStamp{
		ID:               def.ID,
		Name:             def.Name,
		RequiredStampIDs: def.RequiredStampIDs,
		UnlockableAtTier: def.UnlockableAtTier,
		CanonMultiplier:  def.CanonMultiplier,
		IconURL:          def.IconURL,
		FlavorText:       def.FlavorText,
	}
}

func convertUserStamp(stamp *entity.UserStamp) model.UserStamp {
	if stamp == nil {
		return model.UserStamp{}
	}

	return model.UserStamp{
		StampID:        stamp.StampID,
		EvolutionCount: stamp.EvolutionCount,
		CurrentTier:    stamp.CurrentTier,
	}
}

func convertUserFusionStamp(fusion *entity.UserFusionStamp) model.UserFusionStamp {
	if fusion == nil {
		return model.UserFusionStamp{}
	}

	return model.UserFusionStamp{
		FusionStampID:  fusion.FusionStampID,
		SourceStampIDs: fusion.SourceStampIDs,
		CraftedAt:      fusion.CraftedAt.Format(time.RFC3339),
	}
}

func convertEquippedStamp(equipped *entity.EquippedStamp) model.EquippedStamp {
	if equipped == nil {
		return model.EquippedStamp{}
	}

	return model.EquippedStamp{
		StampID:  equipped.StampID,
		Kind:     string(equipped.Kind),
		Position: equipped.Position,
	}
}

func convertSeason(season *entity.Season) model.Season {
	if season == nil {
		return model.Season{}
	}

	return model.Season{
		ID:        season.ID,
		Theme:     season.Theme,
		StartDate: dateutil.Date(season.StartDate),
		EndDate:   dateutil.Date(season.EndDate),
		Active:    season.Active,
	}
}
