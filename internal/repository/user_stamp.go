package repository

import (
	"context"
	"errors"

	"github.com/canonlab/backend/internal/entity"
	"github.com/canonlab/backend/pkg/xcontext"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserStampRepository interface {
	Get(ctx context.Context, userID, stampID string) (*entity.UserStamp, error)
	GetByUserID(ctx context.Context, userID string) ([]entity.UserStamp, error)
	IncreaseCount(ctx context.Context, userID, stampID string) error
	UpdateTier(ctx context.Context, userID, stampID string, tier int) error

	Equip(ctx context.Context, equipped *entity.EquippedStamp) error
	Unequip(ctx context.Context, userID string, position int) (bool, error)
	GetEquipped(ctx context.Context, userID string) ([]entity.EquippedStamp, error)
}

type userStampRepository struct{}

func NewUserStampRepository() *userStampRepository {
	return &userStampRepository{}
}

func (r *userStampRepository) Get(ctx context.Context, userID, stampID string) (*entity.UserStamp, error) {
	result := &entity.UserStamp{}
	err := xcontext.DB(ctx).
		Take(result, "user_id=? AND stamp_id=?", userID, stampID).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *userStampRepository) GetByUserID(ctx context.Context, userID string) ([]entity.UserStamp, error) {
	result := []entity.UserStamp{}
	if err := xcontext.DB(ctx).Find(&result, "user_id=?", userID).Error; err != nil {
		return nil, err
	}

	return result, nil
}

// IncreaseCount records one trigger firing. The conditional insert makes two
// concurrent triggers both count.
func (r *userStampRepository) IncreaseCount(ctx context.Context, userID, stampID string) error {
	return xcontext.DB(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "user_id"},
				{Name: "stamp_id"},
			},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"evolution_count": gorm.Expr("evolution_count + 1"),
			}),
		}).
		Create(&entity.UserStamp{
			UserID:         userID,
			StampID:        stampID,
			EvolutionCount: 1,
			CurrentTier:    0,
		}).Error
}

func (r *userStampRepository) UpdateTier(ctx context.Context, userID, stampID string, tier int) error {
	tx := xcontext.DB(ctx).
		Model(&entity.UserStamp{}).
		Where("user_id=? AND stamp_id=? AND current_tier < ?", userID, stampID, tier).
		Update("current_tier", tier)

	if tx.Error != nil {
		return tx.Error
	}

	return nil
}

func (r *userStampRepository) Equip(ctx context.Context, equipped *entity.EquippedStamp) error {
	return xcontext.DB(ctx).Create(equipped).Error
}

func (r *userStampRepository) Unequip(ctx context.Context, userID string, position int) (bool, error) {
	tx := xcontext.DB(ctx).
		Where("user_id=? AND position=?", userID, position).
		Delete(&entity.EquippedStamp{})

	if tx.Error != nil {
		return false, tx.Error
	}

	if tx.RowsAffected > 1 {
		return false, errors.New("the number of affected rows is invalid")
	}

	return tx.RowsAffected > 0, nil
}

func (r *userStampRepository) GetEquipped(ctx context.Context, userID string) ([]entity.EquippedStamp, error) {
	result := []entity.EquippedStamp{}
	err := xcontext.DB(ctx).
		Where("user_id=?", userID).
		Order("position ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
