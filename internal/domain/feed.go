package domain

import (
	"context"
	"errors"

	"github.com/canonlab/backend/internal/entity"
	"github.com/canonlab/backend/internal/model"
	"github.com/canonlab/backend/internal/repository"
	"github.com/canonlab/backend/pkg/enum"
	"github.com/canonlab/backend/pkg/errorx"
	"github.com/canonlab/backend/pkg/xcontext"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

type FeedDomain interface {
	Follow(context.Context, *model.FollowRequest) (*model.FollowResponse, error)
	Unfollow(context.Context, *model.UnfollowRequest) (*model.UnfollowResponse, error)
	GetSubscriptions(context.Context, *model.GetSubscriptionsRequest) (*model.GetSubscriptionsResponse, error)
	GetFeed(context.Context, *model.GetFeedRequest) (*model.GetFeedResponse, error)
}

type feedDomain struct {
	subscriptionRepo repository.SubscriptionRepository
	canonEventRepo   repository.CanonEventRepository
	userRepo         repository.UserRepository
}

func NewFeedDomain(
	subscriptionRepo repository.SubscriptionRepository,
	canonEventRepo repository.CanonEventRepository,
	userRepo repository.UserRepository,
) *feedDomain {
	return &feedDomain{
		subscriptionRepo: subscriptionRepo,
		canonEventRepo:   canonEventRepo,
		userRepo:         userRepo,
	}
}

func (d *feedDomain) Follow(
	ctx context.Context, req *model.FollowRequest,
) (*model.FollowResponse, error) {
	followerID := xcontext.RequestUserID(ctx)
	if followerID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "Require an authenticated user")
	}

	if req.FollowedID == followerID {
		return nil, errorx.New(errorx.BadRequest, "Cannot follow yourself")
	}

	if _, err := d.userRepo.GetByID(ctx, req.FollowedID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	var eventTypes entity.Array[entity.CanonEventType]
	for _, t := range req.EventTypes {
		eventType, err := enum.ToEnum[entity.CanonEventType](t)
		if err != nil {
			xcontext.Logger(ctx).Debugf("Invalid event type: %v", err)
			return nil, errorx.New(errorx.BadRequest, "Invalid event type %s", t)
		}

		eventTypes = append(eventTypes, eventType)
	}

	minimumRank := entity.RankLocal
	if req.MinimumRank != "" {
		rank, err := enum.ToEnum[entity.CanonRank](req.MinimumRank)
		if err != nil {
			xcontext.Logger(ctx).Debugf("Invalid rank: %v", err)
			return nil, errorx.New(errorx.BadRequest, "Invalid rank %s", req.MinimumRank)
		}

		minimumRank = rank
	}

	err := d.subscriptionRepo.Create(ctx, &entity.Subscription{
		FollowerID:  followerID,
		FollowedID:  req.FollowedID,
		EventTypes:  eventTypes,
		MinimumRank: minimumRank,
	})
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, errorx.New(errorx.AlreadyExists, "Already followed this user")
		}

		xcontext.Logger(ctx).Errorf("Cannot create subscription: %v", err)
		return nil, errorx.Unknown
	}

	return &model.FollowResponse{}, nil
}

func (d *feedDomain) Unfollow(
	ctx context.Context, req *model.UnfollowRequest,
) (*model.UnfollowResponse, error) {
	followerID := xcontext.RequestUserID(ctx)
	if followerID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "Require an authenticated user")
	}

	removed, err := d.subscriptionRepo.Delete(ctx, followerID, req.FollowedID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete subscription: %v", err)
		return nil, errorx.Unknown
	}

	if !removed {
		return nil, errorx.New(errorx.NotFound, "Not found subscription")
	}

	return &model.UnfollowResponse{}, nil
}

func (d *feedDomain) GetSubscriptions(
	ctx context.Context, req *model.GetSubscriptionsRequest,
) (*model.GetSubscriptionsResponse, error) {
	followerID := xcontext.RequestUserID(ctx)
	if followerID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "Require an authenticated user")
	}

	subscriptions, err := d.subscriptionRepo.GetByFollowerID(ctx, followerID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get subscriptions: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.GetSubscriptionsResponse{Subscriptions: []model.Subscription{}}
	for _, s := range subscriptions {
		eventTypes := []string{}
		for _, t := range s.EventTypes {
			eventTypes = append(eventTypes, string(t))
		}

		resp.Subscriptions = append(resp.Subscriptions, model.Subscription{
			FollowedID:  s.FollowedID,
			EventTypes:  eventTypes,
			MinimumRank: string(s.MinimumRank),
		})
	}

	return resp, nil
}

// GetFeed returns the followed users' events that pass each subscription's
// type and minimum rank filters. Filtering uses the event's current rank, so
// an event can enter the feed later when a surge escalates it.
func (d *feedDomain) GetFeed(
	ctx context.Context, req *model.GetFeedRequest,
) (*model.GetFeedResponse, error) {
	followerID := xcontext.RequestUserID(ctx)
	if followerID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "Require an authenticated user")
	}

	subscriptions, err := d.subscriptionRepo.GetByFollowerID(ctx, followerID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get subscriptions: %v", err)
		return nil, errorx.Unknown
	}

	if len(subscriptions) == 0 {
		return &model.GetFeedResponse{Events: []model.CanonEvent{}}, nil
	}

	followedIDs := []string{}
	subscriptionByOwner := map[string]entity.Subscription{}
	for _, s := range subscriptions {
		followedIDs = append(followedIDs, s.FollowedID)
		subscriptionByOwner[s.FollowedID] = s
	}

	events, err := d.canonEventRepo.GetByOwnerIDs(ctx, followedIDs)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get canon events: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.GetFeedResponse{Events: []model.CanonEvent{}}
	for _, e := range events {
		subscription, ok := subscriptionByOwner[e.OwnerUserID]
		if !ok {
			continue
		}

		if len(subscription.EventTypes) > 0 && !slices.Contains(subscription.EventTypes, e.Type) {
			continue
		}

		if e.Rank.Level() < subscription.MinimumRank.Level() {
			continue
		}

		resp.Events = append(resp.Events, convertCanonEvent(&e))
	}

	return resp, nil
}
