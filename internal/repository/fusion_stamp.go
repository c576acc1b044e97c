package repository

import (
	"context"

	"github.com/canonlab/backend/internal/entity"
	"github.com/canonlab/backend/pkg/xcontext"
)

type FusionStampRepository interface {
	CreateDefinition(ctx context.Context, def *entity.FusionStampDefinition) error
	GetDefinitionByID(ctx context.Context, id string) (*entity.FusionStampDefinition, error)
	GetAllDefinitions(ctx context.Context) ([]entity.FusionStampDefinition, error)
	CreateUserFusion(ctx context.Context, fusion *entity.UserFusionStamp) error
	GetUserFusion(ctx context.Context, userID, fusionStampID string) (*entity.UserFusionStamp, error)
	GetUserFusions(ctx context.Context, userID string) ([]entity.UserFusionStamp, error)
}

type fusionStampRepository struct{}

func NewFusionStampRepository() *fusionStampRepository {
	return &fusionStampRepository{}
}

func (r *fusionStampRepository) CreateDefinition(
	ctx context.Context, def *entity.FusionStampDefinition,
) error {
	return xcontext.DB(ctx).Create(def).Error
}

func (r *fusionStampRepository) GetDefinitionByID(
	ctx context.Context, id string,
) (*entity.FusionStampDefinition, error) {
	result := &entity.FusionStampDefinition{}
	if err := xcontext.DB(ctx).Take(result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *fusionStampRepository) GetAllDefinitions(
	ctx context.Context,
) ([]entity.FusionStampDefinition, error) {
	result := []entity.FusionStampDefinition{}
	if err := xcontext.DB(ctx).Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

// CreateUserFusion inserts the crafted fusion. A unique violation means
// another request already crafted it; the caller maps that to AlreadyCrafted
// rather than pre-checking.
func (r *fusionStampRepository) CreateUserFusion(
	ctx context.Context, fusion *entity.UserFusionStamp,
) error {
	return xcontext.DB(ctx).Create(fusion).Error
}

func (r *fusionStampRepository) GetUserFusion(
	ctx context.Context, userID, fusionStampID string,
) (*entity.UserFusionStamp, error) {
	result := &entity.UserFusionStamp{}
	err := xcontext.DB(ctx).
		Take(result, "user_id=? AND fusion_stamp_id=?", userID, fusionStampID).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *fusionStampRepository) GetUserFusions(
	ctx context.Context, userID string,
) ([]entity.UserFusionStamp, error) {
	result := []entity.UserFusionStamp{}
	err := xcontext.DB(ctx).
		Where("user_id=?", userID).
		Order("crafted_at ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
