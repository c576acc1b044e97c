package repository

import (
	"context"

	"github.com/canonlab/backend/internal/entity"
	"github.com/canonlab/backend/pkg/xcontext"
)

type CanonEventFilter struct {
	OwnerUserID string
	Type        entity.CanonEventType
	Offset      int
	Limit       int
}

type CanonEventRepository interface {
	Create(ctx context.Context, event *entity.CanonEvent) error
	GetByID(ctx context.Context, id string) (*entity.CanonEvent, error)
	GetByIDs(ctx context.Context, ids []string) ([]entity.CanonEvent, error)
	GetList(ctx context.Context, filter CanonEventFilter) ([]entity.CanonEvent, error)
	GetByOwnerIDs(ctx context.Context, ownerIDs []string) ([]entity.CanonEvent, error)
	UpdateVoteScore(ctx context.Context, id string, score int64) error
	Escalate(ctx context.Context, id string, from, to entity.CanonRank) (bool, error)
}

type canonEventRepository struct{}

func NewCanonEventRepository() *canonEventRepository {
	return &canonEventRepository{}
}

func (r *canonEventRepository) Create(ctx context.Context, event *entity.CanonEvent) error {
	return xcontext.DB(ctx).Create(event).Error
}

func (r *canonEventRepository) GetByID(ctx context.Context, id string) (*entity.CanonEvent, error) {
	result := &entity.CanonEvent{}
	if err := xcontext.DB(ctx).Take(result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *canonEventRepository) GetByIDs(ctx context.Context, ids []string) ([]entity.CanonEvent, error) {
	result := []entity.CanonEvent{}
	if err := xcontext.DB(ctx).Find(&result, "id IN (?)", ids).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *canonEventRepository) GetList(
	ctx context.Context, filter CanonEventFilter,
) ([]entity.CanonEvent, error) {
	tx := xcontext.DB(ctx).Model(&entity.CanonEvent{})

	if filter.OwnerUserID != "" {
		tx = tx.Where("owner_user_id=?", filter.OwnerUserID)
	}

	if filter.Type != "" {
		tx = tx.Where("type=?", filter.Type)
	}

	if filter.Limit > 0 {
		tx = tx.Offset(filter.Offset).Limit(filter.Limit)
	}

	result := []entity.CanonEvent{}
	if err := tx.Order("created_at DESC").Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *canonEventRepository) GetByOwnerIDs(
	ctx context.Context, ownerIDs []string,
) ([]entity.CanonEvent, error) {
	result := []entity.CanonEvent{}
	err := xcontext.DB(ctx).
		Where("owner_user_id IN (?)", ownerIDs).
		Order("created_at DESC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *canonEventRepository) UpdateVoteScore(ctx context.Context, id string, score int64) error {
	return xcontext.DB(ctx).
		Model(&entity.CanonEvent{}).
		Where("id=?", id).
		Update("vote_score", score).Error
}

// Escalate advances the rank with a compare-and-swap on the rank observed by
// the caller. It returns false without an error when another evaluation
// already advanced the event; repeated surge detections are therefore safe.
func (r *canonEventRepository) Escalate(
	ctx context.Context, id string, from, to entity.CanonRank,
) (bool, error) {
	tx := xcontext.DB(ctx).
		Model(&entity.CanonEvent{}).
		Where("id=? AND `rank`=?", id, from).
		Update("rank", to)

	if tx.Error != nil {
		return false, tx.Error
	}

	return tx.RowsAffected > 0, nil
}
