package repository

import (
	"context"
	"errors"

	"github.com/canonlab/backend/internal/entity"
	"github.com/canonlab/backend/pkg/xcontext"
)

type SubscriptionRepository interface {
	Create(ctx context.Context, subscription *entity.Subscription) error
	Delete(ctx context.Context, followerID, followedID string) (bool, error)
	Get(ctx context.Context, followerID, followedID string) (*entity.Subscription, error)
	GetByFollowerID(ctx context.Context, followerID string) ([]entity.Subscription, error)
}

type subscriptionRepository struct{}

func NewSubscriptionRepository() *subscriptionRepository {
	return &subscriptionRepository{}
}

func (r *subscriptionRepository) Create(ctx context.Context, subscription *entity.Subscription) error {
	return xcontext.DB(ctx).Create(subscription).Error
}

func (r *subscriptionRepository) Delete(ctx context.Context, followerID, followedID string) (bool, error) {
	tx := xcontext.DB(ctx).
		Where("follower_id=? AND followed_id=?", followerID, followedID).
		Delete(&entity.Subscription{})

	if tx.Error != nil {
		return false, tx.Error
	}

	if tx.RowsAffected > 1 {
		return false, errors.New("the number of affected rows is invalid")
	}

	return tx.RowsAffected > 0, nil
}

func (r *subscriptionRepository) Get(
	ctx context.Context, followerID, followedID string,
) (*entity.Subscription, error) {
	result := &entity.Subscription{}
	err := xcontext.DB(ctx).
		Take(result, "follower_id=? AND followed_id=?", followerID, followedID).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *subscriptionRepository) GetByFollowerID(
	ctx context.Context, followerID string,
) ([]entity.Subscription, error) {
	result := []entity.Subscription{}
	if err := xcontext.DB(ctx).Find(&result, "follower_id=?", followerID).Error; err != nil {
		return nil, err
	}

	return result, nil
}
