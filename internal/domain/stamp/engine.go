package stamp

import (
	"context"
	"errors"
	"sync"

	"github.com/canonlab/backend/internal/entity"
	"github.com/canonlab/backend/internal/repository"
	"github.com/canonlab/backend/pkg/xcontext"
	"github.com/puzpuzpuz/xsync"
	"gorm.io/gorm"
)

// seasonPoints is the season progress awarded by one trigger of a stamp of
// the given rarity.
var seasonPoints = map[entity.StampRarity]uint64{
	entity.RarityCommon:    1,
	entity.RarityRare:      2,
	entity.RarityUnique:    3,
	entity.RarityLegendary: 5,
}

// Engine owns the stamp progression rules. Evolution counts only grow and the
// derived tier never regresses, so triggers can be applied in any order.
type Engine struct {
	stampRepo     repository.StampRepository
	userStampRepo repository.UserStampRepository
	seasonRepo    repository.SeasonRepository

	equipLocks *xsync.MapOf[string, *sync.Mutex]
}

func NewEngine(
	stampRepo repository.StampRepository,
	userStampRepo repository.UserStampRepository,
	seasonRepo repository.SeasonRepository,
) *Engine {
	return &Engine{
		stampRepo:     stampRepo,
		userStampRepo: userStampRepo,
		seasonRepo:    seasonRepo,
		equipLocks:    xsync.NewMapOf[*sync.Mutex](),
	}
}

// TierFor returns the highest tier whose required count does not exceed the
// evolution count, or zero when no tier is reached yet. Tiers must be sorted
// ascending.
func TierFor(tiers []entity.StampEvolutionTier, evolutionCount int) int {
	result := 0
	for _, t := range tiers {
		if t.RequiredCount <= evolutionCount {
			result = t.Tier
		}
	}

	return result
}

// Trigger records one firing of the stamp for the user, re-derives the tier,
// and awards season progress. It returns the user stamp after the trigger.
func (e *Engine) Trigger(ctx context.Context, userID, stampID string) (*entity.UserStamp, error) {
	stamp, err := e.stampRepo.GetByID(ctx, stampID)
	if err != nil {
		return nil, err
	}

	if err := e.userStampRepo.IncreaseCount(ctx, userID, stampID); err != nil {
		return nil, err
	}

	userStamp, err := e.userStampRepo.Get(ctx, userID, stampID)
	if err != nil {
		return nil, err
	}

	tiers, err := e.stampRepo.GetTiers(ctx, stampID)
	if err != nil {
		return nil, err
	}

	tier := TierFor(tiers, userStamp.EvolutionCount)
	if tier > userStamp.CurrentTier {
		if err := e.userStampRepo.UpdateTier(ctx, userID, stampID, tier); err != nil {
			return nil, err
		}

		userStamp.CurrentTier = tier
	}

	if err := e.awardSeasonPoints(ctx, userID, stamp.Rarity); err != nil {
		return nil, err
	}

	return userStamp, nil
}

func (e *Engine) awardSeasonPoints(
	ctx context.Context, userID string, rarity entity.StampRarity,
) error {
	season, err := e.seasonRepo.GetActive(ctx)
	if err != nil {
		// Triggers outside any season still evolve stamps.
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}

		return err
	}

	points := seasonPoints[rarity]
	if points == 0 {
		points = 1
	}

	if err := e.seasonRepo.AddPoints(ctx, userID, season.ID, points); err != nil {
		return err
	}

	progress, err := e.seasonRepo.GetProgress(ctx, userID, season.ID)
	if err != nil {
		return err
	}

	pointsPerTier := xcontext.Configs(ctx).Stamp.SeasonTierPoints
	if pointsPerTier <= 0 {
		return nil
	}

	tier := int(progress.Points) / pointsPerTier
	if tier > progress.Tier {
		return e.seasonRepo.UpdateTier(ctx, userID, season.ID, tier)
	}

	return nil
}

// SeasonTier returns the user's tier in the active season, or zero when no
// season is active or the user has no progress yet.
func (e *Engine) SeasonTier(ctx context.Context, userID string) (int, error) {
	season, err := e.seasonRepo.GetActive(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}

		return 0, err
	}

	progress, err := e.seasonRepo.GetProgress(ctx, userID, season.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}

		return 0, err
	}

	return progress.Tier, nil
}

// Eligibility is the result of checking a fusion recipe for a user.
type Eligibility struct {
	Eligible        bool
	MissingStampIDs []string
	RequiredTier    int
	CurrentTier     int
	SourceStampIDs  []string
}

// CheckEligibility verifies that the user owns every required stamp and has
// reached the unlock tier of the active season.
func (e *Engine) CheckEligibility(
	ctx context.Context, userID string, def *entity.FusionStampDefinition,
) (*Eligibility, error) {
	owned, err := e.userStampRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	ownedSet := map[string]struct{}{}
	for _, s := range owned {
		ownedSet[s.StampID] = struct{}{}
	}

	missing := []string{}
	source := []string{}
	for _, required := range def.RequiredStampIDs {
		if _, ok := ownedSet[required]; ok {
			source = append(source, required)
		} else {
			missing = append(missing, required)
		}
	}

	seasonTier, err := e.SeasonTier(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &Eligibility{
		Eligible:        len(missing) == 0 && seasonTier >= def.UnlockableAtTier,
		MissingStampIDs: missing,
		RequiredTier:    def.UnlockableAtTier,
		CurrentTier:     seasonTier,
		SourceStampIDs:  source,
	}, nil
}

// LockEquipSlots serializes equip and unequip calls of one user within this
// process, so the slot checks do not race. The returned function releases the
// lock.
func (e *Engine) LockEquipSlots(userID string) func() {
	mutex, _ := e.equipLocks.LoadOrStore(userID, &sync.Mutex{})
	mutex.Lock()
	return mutex.Unlock
}
