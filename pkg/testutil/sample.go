package testutil

import (
	"context"

	"github.com/canonlab/backend/internal/entity"
	"github.com/canonlab/backend/pkg/xcontext"
	"github.com/google/uuid"
)

// Fixture users, events, and stamps shared by tests. CreateFixtureDb inserts
// all of them into the database carried by ctx.
var (
	User1 = entity.User{
		Base: entity.Base{ID: "user1"},
		Name: "user1",
	}

	User2 = entity.User{
		Base: entity.Base{ID: "user2"},
		Name: "user2",
	}

	User3 = entity.User{
		Base: entity.Base{ID: "user3"},
		Name: "user3",
	}

	CanonEvent1 = entity.CanonEvent{
		Base:        entity.Base{ID: "canon_event1"},
		OwnerUserID: User1.ID,
		Type:        entity.EventMilestone,
		Title:       "First clear of the abyss",
		Rank:        entity.RankLocal,
	}

	CanonEvent2 = entity.CanonEvent{
		Base:        entity.Base{ID: "canon_event2"},
		OwnerUserID: User2.ID,
		Type:        entity.EventRareUnlock,
		Title:       "Found the hidden blade",
		Rank:        entity.RankGlobal,
	}

	Stamp1 = entity.StampDefinition{
		Base:     entity.Base{ID: "stamp1"},
		Name:     "Pathfinder",
		Category: "exploration",
		Rarity:   entity.RarityCommon,
	}

	Stamp2 = entity.StampDefinition{
		Base:     entity.Base{ID: "stamp2"},
		Name:     "Guardian",
		Category: "defense",
		Rarity:   entity.RarityRare,
	}

	Stamp1Tiers = []entity.StampEvolutionTier{
		{BaseStampID: Stamp1.ID, Tier: 1, RequiredCount: 5, EvolvedName: "Wayfinder"},
		{BaseStampID: Stamp1.ID, Tier: 2, RequiredCount: 15, EvolvedName: "Trailblazer"},
		{BaseStampID: Stamp1.ID, Tier: 3, RequiredCount: 30, EvolvedName: "Worldwalker"},
	}

	FusionStamp1 = entity.FusionStampDefinition{
		Base:             entity.Base{ID: "fusion_stamp1"},
		Name:             "Vanguard",
		RequiredStampIDs: []string{Stamp1.ID, Stamp2.ID},
		UnlockableAtTier: 0,
		CanonMultiplier:  1.5,
	}

	Season1 = entity.Season{
		Base:   entity.Base{ID: "season1"},
		Theme:  "Frozen Frontier",
		Active: true,
	}
)

func CreateFixtureDb(ctx context.Context) {
	db := xcontext.DB(ctx)

	for _, u := range []entity.User{User1, User2, User3} {
		if err := db.Create(&u).Error; err != nil {
			panic(err)
		}
	}

	for _, e := range []entity.CanonEvent{CanonEvent1, CanonEvent2} {
		if err := db.Create(&e).Error; err != nil {
			panic(err)
		}
	}

	for _, s := range []entity.StampDefinition{Stamp1, Stamp2} {
		if err := db.Create(&s).Error; err != nil {
			panic(err)
		}
	}

	for _, t := range Stamp1Tiers {
		if err := db.Create(&t).Error; err != nil {
			panic(err)
		}
	}

	if err := db.Create(&FusionStamp1).Error; err != nil {
		panic(err)
	}

	if err := db.Create(&Season1).Error; err != nil {
		panic(err)
	}
}

// SampleUser creates a randomized user, overridable by non-zero fields of
// init.
func SampleUser(ctx context.Context, init *entity.User) entity.User {
	sample := entity.User{
		Base: entity.Base{ID: uuid.NewString()},
		Name: uuid.NewString(),
	}

	if init != nil {
		if init.ID != "" {
			sample.ID = init.ID
		}

		if init.Name != "" {
			sample.Name = init.Name
		}
	}

	if err := xcontext.DB(ctx).Create(&sample).Error; err != nil {
		panic(err)
	}

	return sample
}
