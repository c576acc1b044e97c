package domain

import (
	"testing"

	"github.com/canonlab/backend/internal/entity"
	"github.com/canonlab/backend/internal/model"
	"github.com/canonlab/backend/internal/repository"
	"github.com/canonlab/backend/pkg/errorx"
	"github.com/canonlab/backend/pkg/testutil"
	"github.com/canonlab/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func Test_seasonDomain_Activate_singleActive(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	seasonDomain := NewSeasonDomain(repository.NewSeasonRepository())

	created, err := seasonDomain.Create(ctx, &model.CreateSeasonRequest{
		Theme:     "Ashen Plains",
		StartDate: "2026-09-01",
		EndDate:   "2026-12-01",
	})
	require.NoError(t, err)

	// The fixture season is active; activating the new one must supersede
	// it.
	_, err = seasonDomain.Activate(ctx, &model.ActivateSeasonRequest{ID: created.ID})
	require.NoError(t, err)

	active, err := seasonDomain.GetActive(ctx, &model.GetActiveSeasonRequest{})
	require.NoError(t, err)
	require.Equal(t, created.ID, active.Season.ID)

	var count int64
	err = xcontext.DB(ctx).Model(&entity.Season{}).
		Where("active=?", true).Count(&count).Error
	require.NoError(t, err)
	require.EqualValues(t, 1, count)
}

func Test_seasonDomain_Activate_notFound(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	seasonDomain := NewSeasonDomain(repository.NewSeasonRepository())

	_, err := seasonDomain.Activate(ctx, &model.ActivateSeasonRequest{ID: "no-such-season"})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.NotFound, errx.Code)
}

func Test_seasonDomain_Create_validation(t *testing.T) {
	ctx := testutil.MockContext()
	seasonDomain := NewSeasonDomain(repository.NewSeasonRepository())

	var errx errorx.Error

	_, err := seasonDomain.Create(ctx, &model.CreateSeasonRequest{
		StartDate: "2026-09-01",
		EndDate:   "2026-12-01",
	})
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.BadRequest, errx.Code)

	_, err = seasonDomain.Create(ctx, &model.CreateSeasonRequest{
		Theme:     "Backwards",
		StartDate: "2026-12-01",
		EndDate:   "2026-09-01",
	})
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.BadRequest, errx.Code)
}

func Test_seasonDomain_GetActive_withProgress(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	seasonRepo := repository.NewSeasonRepository()
	seasonDomain := NewSeasonDomain(seasonRepo)

	require.NoError(t, seasonRepo.AddPoints(ctx, testutil.User1.ID, testutil.Season1.ID, 25))
	require.NoError(t, seasonRepo.UpdateTier(ctx, testutil.User1.ID, testutil.Season1.ID, 2))

	ctx = xcontext.WithRequestUserID(ctx, testutil.User1.ID)
	active, err := seasonDomain.GetActive(ctx, &model.GetActiveSeasonRequest{})
	require.NoError(t, err)
	require.NotNil(t, active.Progress)
	require.EqualValues(t, 25, active.Progress.Points)
	require.Equal(t, 2, active.Progress.Tier)
}
