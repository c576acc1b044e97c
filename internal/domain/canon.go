package domain

import (
	"context"
	"errors"
	"time"

	"github.com/canonlab/backend/internal/domain/surge"
	"github.com/canonlab/backend/internal/entity"
	"github.com/canonlab/backend/internal/model"
	"github.com/canonlab/backend/internal/repository"
	"github.com/canonlab/backend/pkg/enum"
	"github.com/canonlab/backend/pkg/errorx"
	"github.com/canonlab/backend/pkg/xcontext"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CanonDomain interface {
	CreateEvent(context.Context, *model.CreateCanonEventRequest) (*model.CreateCanonEventResponse, error)
	GetEvent(context.Context, *model.GetCanonEventRequest) (*model.GetCanonEventResponse, error)
	GetListEvents(context.Context, *model.GetListCanonEventRequest) (*model.GetListCanonEventResponse, error)
	Vote(context.Context, *model.VoteCanonEventRequest) (*model.VoteCanonEventResponse, error)
}

type canonDomain struct {
	canonEventRepo repository.CanonEventRepository
	canonVoteRepo  repository.CanonVoteRepository
	userRepo       repository.UserRepository
	surgeDetector  *surge.Detector
}

func NewCanonDomain(
	canonEventRepo repository.CanonEventRepository,
	canonVoteRepo repository.CanonVoteRepository,
	userRepo repository.UserRepository,
	surgeDetector *surge.Detector,
) *canonDomain {
	return &canonDomain{
		canonEventRepo: canonEventRepo,
		canonVoteRepo:  canonVoteRepo,
		userRepo:       userRepo,
		surgeDetector:  surgeDetector,
	}
}

func (d *canonDomain) CreateEvent(
	ctx context.Context, req *model.CreateCanonEventRequest,
) (*model.CreateCanonEventResponse, error) {
	if req.Title == "" {
		return nil, errorx.New(errorx.BadRequest, "Require a title")
	}

	eventType, err := enum.ToEnum[entity.CanonEventType](req.Type)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Invalid event type: %v", err)
		return nil, errorx.New(errorx.BadRequest, "Invalid event type %s", req.Type)
	}

	ownerID := req.OwnerUserID
	if ownerID == "" {
		ownerID = xcontext.RequestUserID(ctx)
	}

	if _, err := d.userRepo.GetByID(ctx, ownerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	event := &entity.CanonEvent{
		Base:        entity.Base{ID: uuid.NewString()},
		OwnerUserID: ownerID,
		Type:        eventType,
		Title:       req.Title,
		Rank:        entity.RankLocal,
	}

	if err := d.canonEventRepo.Create(ctx, event); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create canon event: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreateCanonEventResponse{Event: convertCanonEvent(event)}, nil
}

func (d *canonDomain) GetEvent(
	ctx context.Context, req *model.GetCanonEventRequest,
) (*model.GetCanonEventResponse, error) {
	event, err := d.canonEventRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found canon event")
		}

		xcontext.Logger(ctx).Errorf("Cannot get canon event: %v", err)
		return nil, errorx.Unknown
	}

	votes, err := d.canonVoteRepo.GetByEventID(ctx, req.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get canon votes: %v", err)
		return nil, errorx.Unknown
	}

	counts := map[entity.CanonVoteType]int{}
	for _, v := range votes {
		counts[v.Type]++
	}

	breakdown := []model.VoteCount{}
	for _, t := range enum.Values[entity.CanonVoteType]() {
		if counts[t] > 0 {
			breakdown = append(breakdown, model.VoteCount{Type: string(t), Count: counts[t]})
		}
	}

	return &model.GetCanonEventResponse{
		Event:         convertCanonEvent(event),
		VoteBreakdown: breakdown,
	}, nil
}

func (d *canonDomain) GetListEvents(
	ctx context.Context, req *model.GetListCanonEventRequest,
) (*model.GetListCanonEventResponse, error) {
	if req.Limit == 0 {
		req.Limit = 50
	}

	if req.Limit < 0 || req.Limit > 100 {
		return nil, errorx.New(errorx.BadRequest, "Limit must be between 1 and 100")
	}

	filter := repository.CanonEventFilter{
		OwnerUserID: req.OwnerUserID,
		Offset:      req.Offset,
		Limit:       req.Limit,
	}

	if req.Type != "" {
		eventType, err := enum.ToEnum[entity.CanonEventType](req.Type)
		if err != nil {
			xcontext.Logger(ctx).Debugf("Invalid event type: %v", err)
			return nil, errorx.New(errorx.BadRequest, "Invalid event type %s", req.Type)
		}

		filter.Type = eventType
	}

	events, err := d.canonEventRepo.GetList(ctx, filter)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get canon events: %v", err)
		return nil, errorx.Unknown
	}

	clientEvents := []model.CanonEvent{}
	for _, e := range events {
		clientEvents = append(clientEvents, convertCanonEvent(&e))
	}

	return &model.GetListCanonEventResponse{Events: clientEvents}, nil
}

// Vote toggles the (event, voter, type) vote. An odd number of identical
// requests leaves the vote active, an even number leaves it absent. After the
// toggle the trailing window score is recomputed and surge detection runs.
func (d *canonDomain) Vote(
	ctx context.Context, req *model.VoteCanonEventRequest,
) (*model.VoteCanonEventResponse, error) {
	voterID := xcontext.RequestUserID(ctx)
	if voterID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "Require an authenticated voter")
	}

	voteType, err := enum.ToEnum[entity.CanonVoteType](req.VoteType)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Invalid vote type: %v", err)
		return nil, errorx.New(errorx.BadRequest, "Invalid vote type %s", req.VoteType)
	}

	event, err := d.canonEventRepo.GetByID(ctx, req.EventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found canon event")
		}

		xcontext.Logger(ctx).Errorf("Cannot get canon event: %v", err)
		return nil, errorx.Unknown
	}

	active, err := d.toggleVote(ctx, event.ID, voterID, voteType)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot toggle canon vote: %v", err)
		return nil, errorx.Unknown
	}

	now := time.Now()
	windowStart := now.Add(-xcontext.Configs(ctx).Canon.VoteWindow)
	votes, err := d.canonVoteRepo.GetWindow(ctx, event.ID, windowStart)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get vote window: %v", err)
		return nil, errorx.Unknown
	}

	var score int64
	var upvotes int
	for _, v := range votes {
		score += int64(v.Weight)
		if v.Weight > 0 {
			upvotes++
		}
	}

	if err := d.canonEventRepo.UpdateVoteScore(ctx, event.ID, score); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update vote score: %v", err)
		return nil, errorx.Unknown
	}

	rank, _, err := d.surgeDetector.Evaluate(ctx, event, now)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot evaluate surge: %v", err)
		return nil, errorx.Unknown
	}

	return &model.VoteCanonEventResponse{
		Active:    active,
		VoteScore: score,
		Upvotes:   upvotes,
		Rank:      string(rank),
	}, nil
}

// toggleVote deletes the active vote if present, otherwise inserts one. When
// two identical requests race, both may miss the delete and one insert hits
// the unique index; that loser retries the delete so the pair still nets out
// to a toggle.
func (d *canonDomain) toggleVote(
	ctx context.Context, eventID, voterID string, voteType entity.CanonVoteType,
) (bool, error) {
	deleted, err := d.canonVoteRepo.Delete(ctx, eventID, voterID, voteType)
	if err != nil {
		return false, err
	}

	if deleted {
		return false, nil
	}

	err = d.canonVoteRepo.Create(ctx, &entity.CanonVote{
		ID:          xcontext.SnowflakeID(ctx),
		EventID:     eventID,
		VoterUserID: voterID,
		Type:        voteType,
		Weight:      voteType.Weight(),
	})
	if err == nil {
		return true, nil
	}

	if !repository.IsUniqueViolation(err) {
		return false, err
	}

	deleted, derr := d.canonVoteRepo.Delete(ctx, eventID, voterID, voteType)
	if derr != nil {
		return false, derr
	}

	return !deleted, nil
}
