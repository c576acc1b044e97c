package migration

import (
	"context"

	"github.com/canonlab/backend/internal/entity"
	"github.com/canonlab/backend/pkg/xcontext"
)

// When this migrator is called, no need to call other migrators.
func AutoMigrate(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&entity.User{},
		&entity.CanonEvent{},
		&entity.CanonVote{},
		&entity.TrustGraphSnapshot{},
		&entity.TrustEdge{},
		&entity.StampDefinition{},
		&entity.StampEvolutionTier{},
		&entity.UserStamp{},
		&entity.EquippedStamp{},
		&entity.FusionStampDefinition{},
		&entity.UserFusionStamp{},
		&entity.Subscription{},
		&entity.Season{},
		&entity.SeasonProgress{},
	)
}
