package repository

import (
	"context"
	"errors"

	"github.com/canonlab/backend/internal/entity"
	"github.com/canonlab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type TrustGraphRepository interface {
	ReplaceSnapshot(ctx context.Context, snapshot *entity.TrustGraphSnapshot, edges []entity.TrustEdge) error
	GetLatest(ctx context.Context, ownerUserID string) (*entity.TrustGraphSnapshot, error)
	GetEdges(ctx context.Context, snapshotID string) ([]entity.TrustEdge, error)
}

type trustGraphRepository struct{}

func NewTrustGraphRepository() *trustGraphRepository {
	return &trustGraphRepository{}
}

// ReplaceSnapshot writes the snapshot and its edges, superseding any earlier
// snapshot of the same owner and graph date. The caller is expected to run it
// inside a transaction so a cancelled build never leaves partial edges
// visible.
func (r *trustGraphRepository) ReplaceSnapshot(
	ctx context.Context, snapshot *entity.TrustGraphSnapshot, edges []entity.TrustEdge,
) error {
	db := xcontext.DB(ctx)

	existing := &entity.TrustGraphSnapshot{}
	err := db.Take(existing, "owner_user_id=? AND graph_date=?",
		snapshot.OwnerUserID, snapshot.GraphDate).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if err == nil {
		if err := db.Delete(&entity.TrustEdge{}, "snapshot_id=?", existing.ID).Error; err != nil {
			return err
		}

		if err := db.Unscoped().Delete(existing).Error; err != nil {
			return err
		}
	}

	if err := db.Create(snapshot).Error; err != nil {
		return err
	}

	for i := range edges {
		edges[i].SnapshotID = snapshot.ID
	}

	if len(edges) > 0 {
		if err := db.Create(&edges).Error; err != nil {
			return err
		}
	}

	return nil
}

func (r *trustGraphRepository) GetLatest(
	ctx context.Context, ownerUserID string,
) (*entity.TrustGraphSnapshot, error) {
	result := &entity.TrustGraphSnapshot{}
	err := xcontext.DB(ctx).
		Where("owner_user_id=?", ownerUserID).
		Order("graph_date DESC, as_of DESC").
		Take(result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *trustGraphRepository) GetEdges(
	ctx context.Context, snapshotID string,
) ([]entity.TrustEdge, error) {
	result := []entity.TrustEdge{}
	err := xcontext.DB(ctx).
		Where("snapshot_id=?", snapshotID).
		Order("position ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
