package repository

import (
	"context"
	"time"

	"github.com/canonlab/backend/internal/entity"
	"github.com/canonlab/backend/pkg/xcontext"
)

type CanonVoteRepository interface {
	Create(ctx context.Context, vote *entity.CanonVote) error
	Delete(ctx context.Context, eventID, voterID string, voteType entity.CanonVoteType) (bool, error)
	GetWindow(ctx context.Context, eventID string, since time.Time) ([]entity.CanonVote, error)
	GetByEventID(ctx context.Context, eventID string) ([]entity.CanonVote, error)
	GetUpvotesByEventIDs(ctx context.Context, eventIDs []string) ([]entity.CanonVote, error)
	GetUpvotesByVoterID(ctx context.Context, voterID string) ([]entity.CanonVote, error)
}

type canonVoteRepository struct{}

func NewCanonVoteRepository() *canonVoteRepository {
	return &canonVoteRepository{}
}

func (r *canonVoteRepository) Create(ctx context.Context, vote *entity.CanonVote) error {
	return xcontext.DB(ctx).Create(vote).Error
}

// Delete removes the active vote of the tuple and reports whether a row
// existed. Votes are hard-deleted so the unique index only covers active
// votes.
func (r *canonVoteRepository) Delete(
	ctx context.Context, eventID, voterID string, voteType entity.CanonVoteType,
) (bool, error) {
	tx := xcontext.DB(ctx).
		Where("event_id=? AND voter_user_id=? AND type=?", eventID, voterID, voteType).
		Delete(&entity.CanonVote{})

	if tx.Error != nil {
		return false, tx.Error
	}

	return tx.RowsAffected > 0, nil
}

func (r *canonVoteRepository) GetWindow(
	ctx context.Context, eventID string, since time.Time,
) ([]entity.CanonVote, error) {
	result := []entity.CanonVote{}
	err := xcontext.DB(ctx).
		Where("event_id=? AND created_at >= ?", eventID, since).
		Order("created_at ASC, id ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *canonVoteRepository) GetByEventID(
	ctx context.Context, eventID string,
) ([]entity.CanonVote, error) {
	result := []entity.CanonVote{}
	err := xcontext.DB(ctx).
		Where("event_id=?", eventID).
		Order("created_at ASC, id ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *canonVoteRepository) GetUpvotesByEventIDs(
	ctx context.Context, eventIDs []string,
) ([]entity.CanonVote, error) {
	result := []entity.CanonVote{}
	err := xcontext.DB(ctx).
		Where("event_id IN (?) AND weight > 0", eventIDs).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *canonVoteRepository) GetUpvotesByVoterID(
	ctx context.Context, voterID string,
) ([]entity.CanonVote, error) {
	result := []entity.CanonVote{}
	err := xcontext.DB(ctx).
		Where("voter_user_id=? AND weight > 0", voterID).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
