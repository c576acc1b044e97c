package domain

import (
	"context"
	"errors"
	"time"

	"github.com/canonlab/backend/internal/entity"
	"github.com/canonlab/backend/internal/model"
	"github.com/canonlab/backend/internal/repository"
	"github.com/canonlab/backend/pkg/errorx"
	"github.com/canonlab/backend/pkg/xcontext"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SeasonDomain interface {
	Create(context.Context, *model.CreateSeasonRequest) (*model.CreateSeasonResponse, error)
	Activate(context.Context, *model.ActivateSeasonRequest) (*model.ActivateSeasonResponse, error)
	GetActive(context.Context, *model.GetActiveSeasonRequest) (*model.GetActiveSeasonResponse, error)
}

type seasonDomain struct {
	seasonRepo repository.SeasonRepository
}

func NewSeasonDomain(seasonRepo repository.SeasonRepository) *seasonDomain {
	return &seasonDomain{seasonRepo: seasonRepo}
}

func (d *seasonDomain) Create(
	ctx context.Context, req *model.CreateSeasonRequest,
) (*model.CreateSeasonResponse, error) {
	if req.Theme == "" {
		return nil, errorx.New(errorx.BadRequest, "Require a theme")
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid start date")
	}

	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid end date")
	}

	if !endDate.After(startDate) {
		return nil, errorx.New(errorx.BadRequest, "End date must be after start date")
	}

	season := &entity.Season{
		Base:      entity.Base{ID: uuid.NewString()},
		Theme:     req.Theme,
		StartDate: startDate,
		EndDate:   endDate,
	}

	if err := d.seasonRepo.Create(ctx, season); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create season: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreateSeasonResponse{ID: season.ID}, nil
}

// Activate marks the season active inside a transaction, so readers never
// observe two active seasons.
func (d *seasonDomain) Activate(
	ctx context.Context, req *model.ActivateSeasonRequest,
) (*model.ActivateSeasonResponse, error) {
	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.seasonRepo.Activate(ctx, req.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found season")
		}

		xcontext.Logger(ctx).Errorf("Cannot activate season: %v", err)
		return nil, errorx.Unknown
	}

	ctx = xcontext.WithCommitDBTransaction(ctx)

	return &model.ActivateSeasonResponse{}, nil
}

func (d *seasonDomain) GetActive(
	ctx context.Context, req *model.GetActiveSeasonRequest,
) (*model.GetActiveSeasonResponse, error) {
	season, err := d.seasonRepo.GetActive(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "No active season")
		}

		xcontext.Logger(ctx).Errorf("Cannot get active season: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.GetActiveSeasonResponse{Season: convertSeason(season)}

	if userID := xcontext.RequestUserID(ctx); userID != "" {
		progress, err := d.seasonRepo.GetProgress(ctx, userID, season.ID)
		if err == nil {
			resp.Progress = &model.SeasonProgress{
				SeasonID: season.ID,
				Points:   progress.Points,
				Tier:     progress.Tier,
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot get season progress: %v", err)
			return nil, errorx.Unknown
		}
	}

	return resp, nil
}
