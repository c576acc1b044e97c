package repository

import (
	"context"

	"github.com/canonlab/backend/internal/entity"
	"github.com/canonlab/backend/pkg/xcontext"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SeasonRepository interface {
	Create(ctx context.Context, season *entity.Season) error
	GetByID(ctx context.Context, id string) (*entity.Season, error)
	GetActive(ctx context.Context) (*entity.Season, error)
	Activate(ctx context.Context, id string) error
	GetProgress(ctx context.Context, userID, seasonID string) (*entity.SeasonProgress, error)
	AddPoints(ctx context.Context, userID, seasonID string, points uint64) error
	UpdateTier(ctx context.Context, userID, seasonID string, tier int) error
}

type seasonRepository struct{}

func NewSeasonRepository() *seasonRepository {
	return &seasonRepository{}
}

func (r *seasonRepository) Create(ctx context.Context, season *entity.Season) error {
	return xcontext.DB(ctx).Create(season).Error
}

func (r *seasonRepository) GetByID(ctx context.Context, id string) (*entity.Season, error) {
	result := &entity.Season{}
	if err := xcontext.DB(ctx).Take(result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *seasonRepository) GetActive(ctx context.Context) (*entity.Season, error) {
	result := &entity.Season{}
	if err := xcontext.DB(ctx).Take(result, "active=?", true).Error; err != nil {
		return nil, err
	}

	return result, nil
}

// Activate marks the season active and clears the flag everywhere else, so
// at most one season is active after the call.
func (r *seasonRepository) Activate(ctx context.Context, id string) error {
	db := xcontext.DB(ctx)

	err := db.Model(&entity.Season{}).
		Where("active=?", true).
		Update("active", false).Error
	if err != nil {
		return err
	}

	tx := db.Model(&entity.Season{}).Where("id=?", id).Update("active", true)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *seasonRepository) GetProgress(
	ctx context.Context, userID, seasonID string,
) (*entity.SeasonProgress, error) {
	result := &entity.SeasonProgress{}
	err := xcontext.DB(ctx).
		Take(result, "user_id=? AND season_id=?", userID, seasonID).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *seasonRepository) AddPoints(
	ctx context.Context, userID, seasonID string, points uint64,
) error {
	return xcontext.DB(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "user_id"},
				{Name: "season_id"},
			},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"points": gorm.Expr("points + ?", points),
			}),
		}).
		Create(&entity.SeasonProgress{
			UserID:   userID,
			SeasonID: seasonID,
			Points:   points,
		}).Error
}

func (r *seasonRepository) UpdateTier(
	ctx context.Context, userID, seasonID string, tier int,
) error {
	return xcontext.DB(ctx).
		Model(&entity.SeasonProgress{}).
		Where("user_id=? AND season_id=? AND tier < ?", userID, seasonID, tier).
		Update("tier", tier).Error
}
