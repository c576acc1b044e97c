package domain

import (
	"sync"
	"testing"

	"github.com/canonlab/backend/internal/domain/stamp"
	"github.com/canonlab/backend/internal/model"
	"github.com/canonlab/backend/internal/repository"
	"github.com/canonlab/backend/pkg/errorx"
	"github.com/canonlab/backend/pkg/testutil"
	"github.com/canonlab/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func newStampDomainForTest() *stampDomain {
	stampRepo := repository.NewStampRepository()
	userStampRepo := repository.NewUserStampRepository()
	fusionStampRepo := repository.NewFusionStampRepository()
	seasonRepo := repository.NewSeasonRepository()
	engine := stamp.NewEngine(stampRepo, userStampRepo, seasonRepo)

	return NewStampDomain(stampRepo, userStampRepo, fusionStampRepo, engine)
}

func Test_stampDomain_CreateStampTier_strictlyIncreasing(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	stampDomain := newStampDomainForTest()

	// Stamp1 already has tiers 1/2/3 with required counts 5/15/30. A tier 4
	// below the tier 3 count is rejected.
	_, err := stampDomain.CreateStampTier(ctx, &model.CreateStampTierRequest{
		BaseStampID:   testutil.Stamp1.ID,
		Tier:          4,
		RequiredCount: 20,
	})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.BadRequest, errx.Code)

	_, err = stampDomain.CreateStampTier(ctx, &model.CreateStampTierRequest{
		BaseStampID:   testutil.Stamp1.ID,
		Tier:          4,
		RequiredCount: 50,
	})
	require.NoError(t, err)

	// Duplicated tier.
	_, err = stampDomain.CreateStampTier(ctx, &model.CreateStampTierRequest{
		BaseStampID:   testutil.Stamp1.ID,
		Tier:          4,
		RequiredCount: 60,
	})
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.AlreadyExists, errx.Code)
}

func Test_stampDomain_Trigger_and_GetMyStamps(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	stampDomain := newStampDomainForTest()

	ctx = xcontext.WithRequestUserID(ctx, testutil.User1.ID)

	for i := 0; i < 5; i++ {
		resp, err := stampDomain.Trigger(ctx, &model.TriggerStampRequest{
			StampID: testutil.Stamp1.ID,
		})
		require.NoError(t, err)
		require.Equal(t, i+1, resp.EvolutionCount)
	}

	mine, err := stampDomain.GetMyStamps(ctx, &model.GetMyStampsRequest{})
	require.NoError(t, err)
	require.Len(t, mine.Stamps, 1)
	require.Equal(t, testutil.Stamp1.ID, mine.Stamps[0].StampID)
	require.Equal(t, 5, mine.Stamps[0].EvolutionCount)
	require.Equal(t, 1, mine.Stamps[0].CurrentTier)
}

func Test_stampDomain_Craft_idempotence(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	stampDomain := newStampDomainForTest()

	ctx = xcontext.WithRequestUserID(ctx, testutil.User1.ID)

	for _, stampID := range []string{testutil.Stamp1.ID, testutil.Stamp2.ID} {
		_, err := stampDomain.Trigger(ctx, &model.TriggerStampRequest{StampID: stampID})
		require.NoError(t, err)
	}

	crafted, err := stampDomain.Craft(ctx, &model.CraftFusionStampRequest{
		FusionStampID: testutil.FusionStamp1.ID,
	})
	require.NoError(t, err)
	require.Equal(t, testutil.FusionStamp1.ID, crafted.FusionStamp.FusionStampID)
	require.ElementsMatch(t,
		testutil.FusionStamp1.RequiredStampIDs,
		crafted.FusionStamp.SourceStampIDs)

	// Crafting the same fusion again hits the unique index.
	_, err = stampDomain.Craft(ctx, &model.CraftFusionStampRequest{
		FusionStampID: testutil.FusionStamp1.ID,
	})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.AlreadyCrafted, errx.Code)
}

func Test_stampDomain_Craft_concurrentClaims(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	stampDomain := newStampDomainForTest()

	ctx = xcontext.WithRequestUserID(ctx, testutil.User1.ID)

	for _, stampID := range []string{testutil.Stamp1.ID, testutil.Stamp2.ID} {
		_, err := stampDomain.Trigger(ctx, &model.TriggerStampRequest{StampID: stampID})
		require.NoError(t, err)
	}

	const callers = 8
	results := make(chan error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := stampDomain.Craft(ctx, &model.CraftFusionStampRequest{
				FusionStampID: testutil.FusionStamp1.ID,
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	// The unique index lets exactly one caller claim the craft.
	crafted, rejected := 0, 0
	for err := range results {
		if err == nil {
			crafted++
			continue
		}

		var errx errorx.Error
		require.ErrorAs(t, err, &errx)
		require.Equal(t, errorx.AlreadyCrafted, errx.Code)
		rejected++
	}
	require.Equal(t, 1, crafted)
	require.Equal(t, callers-1, rejected)
}

func Test_stampDomain_Craft_notEligible(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	stampDomain := newStampDomainForTest()

	ctx = xcontext.WithRequestUserID(ctx, testutil.User3.ID)

	_, err := stampDomain.Craft(ctx, &model.CraftFusionStampRequest{
		FusionStampID: testutil.FusionStamp1.ID,
	})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.PermissionDenied, errx.Code)
}

func Test_stampDomain_Equip_slotInvariants(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	stampDomain := newStampDomainForTest()

	ctx = xcontext.WithRequestUserID(ctx, testutil.User1.ID)

	for _, stampID := range []string{testutil.Stamp1.ID, testutil.Stamp2.ID} {
		_, err := stampDomain.Trigger(ctx, &model.TriggerStampRequest{StampID: stampID})
		require.NoError(t, err)
	}

	resp, err := stampDomain.Equip(ctx, &model.EquipStampRequest{
		StampID:  testutil.Stamp1.ID,
		Kind:     "stamp",
		Position: 1,
	})
	require.NoError(t, err)
	require.Len(t, resp.Equipped, 1)

	// The slot is taken.
	_, err = stampDomain.Equip(ctx, &model.EquipStampRequest{
		StampID:  testutil.Stamp2.ID,
		Kind:     "stamp",
		Position: 1,
	})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.PositionOccupied, errx.Code)

	// The same stamp cannot occupy two slots.
	_, err = stampDomain.Equip(ctx, &model.EquipStampRequest{
		StampID:  testutil.Stamp1.ID,
		Kind:     "stamp",
		Position: 2,
	})
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.AlreadyExists, errx.Code)

	// Positions outside 1..3 are rejected.
	_, err = stampDomain.Equip(ctx, &model.EquipStampRequest{
		StampID:  testutil.Stamp2.ID,
		Kind:     "stamp",
		Position: 4,
	})
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.BadRequest, errx.Code)
}

func Test_stampDomain_Equip_requiresOwnership(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	stampDomain := newStampDomainForTest()

	ctx = xcontext.WithRequestUserID(ctx, testutil.User3.ID)

	_, err := stampDomain.Equip(ctx, &model.EquipStampRequest{
		StampID:  testutil.Stamp1.ID,
		Kind:     "stamp",
		Position: 1,
	})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.PermissionDenied, errx.Code)
}

func Test_stampDomain_Unequip(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	stampDomain := newStampDomainForTest()

	ctx = xcontext.WithRequestUserID(ctx, testutil.User1.ID)

	_, err := stampDomain.Trigger(ctx, &model.TriggerStampRequest{StampID: testutil.Stamp1.ID})
	require.NoError(t, err)

	_, err = stampDomain.Equip(ctx, &model.EquipStampRequest{
		StampID:  testutil.Stamp1.ID,
		Kind:     "stamp",
		Position: 2,
	})
	require.NoError(t, err)

	resp, err := stampDomain.Unequip(ctx, &model.UnequipStampRequest{Position: 2})
	require.NoError(t, err)
	require.Empty(t, resp.Equipped)

	// The slot can be reused after unequip.
	_, err = stampDomain.Equip(ctx, &model.EquipStampRequest{
		StampID:  testutil.Stamp1.ID,
		Kind:     "stamp",
		Position: 2,
	})
	require.NoError(t, err)

	_, err = stampDomain.Unequip(ctx, &model.UnequipStampRequest{Position: 3})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.NotFound, errx.Code)
}
