package repository

import (
	"context"

	"github.com/canonlab/backend/internal/entity"
	"github.com/canonlab/backend/pkg/xcontext"
)

type StampRepository interface {
	Create(ctx context.Context, stamp *entity.StampDefinition) error
	GetByID(ctx context.Context, id string) (*entity.StampDefinition, error)
	GetByIDs(ctx context.Context, ids []string) ([]entity.StampDefinition, error)
	GetAll(ctx context.Context) ([]entity.StampDefinition, error)
	CreateTier(ctx context.Context, tier *entity.StampEvolutionTier) error
	GetTiers(ctx context.Context, baseStampID string) ([]entity.StampEvolutionTier, error)
}

type stampRepository struct{}

func NewStampRepository() *stampRepository {
	return &stampRepository{}
}

func (r *stampRepository) Create(ctx context.Context, stamp *entity.StampDefinition) error {
	return xcontext.DB(ctx).Create(stamp).Error
}

func (r *stampRepository) GetByID(ctx context.Context, id string) (*entity.StampDefinition, error) {
	result := &entity.StampDefinition{}
	if err := xcontext.DB(ctx).Take(result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *stampRepository) GetByIDs(ctx context.Context, ids []string) ([]entity.StampDefinition, error) {
	result := []entity.StampDefinition{}
	if err := xcontext.DB(ctx).Find(&result, "id IN (?)", ids).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *stampRepository) GetAll(ctx context.Context) ([]entity.StampDefinition, error) {
	result := []entity.StampDefinition{}
	if err := xcontext.DB(ctx).Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *stampRepository) CreateTier(ctx context.Context, tier *entity.StampEvolutionTier) error {
	return xcontext.DB(ctx).Create(tier).Error
}

func (r *stampRepository) GetTiers(
	ctx context.Context, baseStampID string,
) ([]entity.StampEvolutionTier, error) {
	result := []entity.StampEvolutionTier{}
	err := xcontext.DB(ctx).
		Where("base_stamp_id=?", baseStampID).
		Order("tier ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
