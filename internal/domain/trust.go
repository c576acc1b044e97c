package domain

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/canonlab/backend/internal/entity"
	"github.com/canonlab/backend/internal/model"
	"github.com/canonlab/backend/internal/repository"
	"github.com/canonlab/backend/pkg/dateutil"
	"github.com/canonlab/backend/pkg/errorx"
	"github.com/canonlab/backend/pkg/xcontext"
	"github.com/canonlab/backend/pkg/xredis"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// baseTrustWeight maps the current rank of a shared event to the undecayed
// contribution of one positive vote on it.
var baseTrustWeight = map[entity.CanonRank]float64{
	entity.RankLocal:     2,
	entity.RankRegional:  3,
	entity.RankGlobal:    5,
	entity.RankLegendary: 8,
}

type TrustDomain interface {
	Rebuild(context.Context, *model.RebuildTrustGraphRequest) (*model.RebuildTrustGraphResponse, error)
	Get(context.Context, *model.GetTrustGraphRequest) (*model.GetTrustGraphResponse, error)
}

type trustDomain struct {
	trustGraphRepo repository.TrustGraphRepository
	canonEventRepo repository.CanonEventRepository
	canonVoteRepo  repository.CanonVoteRepository
	userRepo       repository.UserRepository
	redisClient    xredis.Client
}

func NewTrustDomain(
	trustGraphRepo repository.TrustGraphRepository,
	canonEventRepo repository.CanonEventRepository,
	canonVoteRepo repository.CanonVoteRepository,
	userRepo repository.UserRepository,
	redisClient xredis.Client,
) *trustDomain {
	return &trustDomain{
		trustGraphRepo: trustGraphRepo,
		canonEventRepo: canonEventRepo,
		canonVoteRepo:  canonVoteRepo,
		userRepo:       userRepo,
		redisClient:    redisClient,
	}
}

func trustGraphCacheKey(ownerUserID string) string {
	return fmt.Sprintf("trust_graph:%s", ownerUserID)
}

func trustEdgeRankingKey(ownerUserID string) string {
	return fmt.Sprintf("trust_edges:%s", ownerUserID)
}

// Rebuild computes the whole trust graph of the user from the vote log as of
// now and replaces today's snapshot. Older snapshots are kept for history.
func (d *trustDomain) Rebuild(
	ctx context.Context, req *model.RebuildTrustGraphRequest,
) (*model.RebuildTrustGraphResponse, error) {
	userID := req.UserID
	if userID == "" {
		userID = xcontext.RequestUserID(ctx)
	}

	if _, err := d.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	asOf := time.Now()
	edges, err := d.buildEdges(ctx, userID, asOf)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot build trust edges: %v", err)
		return nil, errorx.Unknown
	}

	snapshot := &entity.TrustGraphSnapshot{
		Base:        entity.Base{ID: uuid.NewString()},
		OwnerUserID: userID,
		GraphDate:   dateutil.Date(asOf),
		AsOf:        asOf,
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.trustGraphRepo.ReplaceSnapshot(ctx, snapshot, edges); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot replace trust snapshot: %v", err)
		return nil, errorx.Unknown
	}

	ctx = xcontext.WithCommitDBTransaction(ctx)

	d.cacheGraph(ctx, snapshot, edges)

	return &model.RebuildTrustGraphResponse{
		SnapshotID: snapshot.ID,
		GraphDate:  snapshot.GraphDate,
		EdgeCount:  len(edges),
	}, nil
}

// buildEdges derives one edge per counterpart user. A counterpart is anyone
// who upvoted one of the owner's events or whose event the owner upvoted.
// Each shared event contributes the base weight of its current rank exactly
// once, no matter how many positive reactions rode on it, decayed
// exponentially by the event's age at asOf.
func (d *trustDomain) buildEdges(
	ctx context.Context, ownerUserID string, asOf time.Time,
) ([]entity.TrustEdge, error) {
	halfLife := xcontext.Configs(ctx).Canon.TrustHalfLife
	lambda := math.Ln2 / halfLife.Seconds()

	type accumulator struct {
		score          float64
		lastSeen       time.Time
		sharedEventIDs map[string]struct{}
	}

	accumulators := map[string]*accumulator{}
	accumulate := func(targetUserID string, event entity.CanonEvent, votedAt time.Time) {
		if targetUserID == ownerUserID {
			return
		}

		acc, ok := accumulators[targetUserID]
		if !ok {
			acc = &accumulator{sharedEventIDs: map[string]struct{}{}}
			accumulators[targetUserID] = acc
		}

		if votedAt.After(acc.lastSeen) {
			acc.lastSeen = votedAt
		}

		if _, ok := acc.sharedEventIDs[event.ID]; ok {
			return
		}

		acc.sharedEventIDs[event.ID] = struct{}{}

		age := asOf.Sub(event.CreatedAt).Seconds()
		if age < 0 {
			age = 0
		}

		acc.score += baseTrustWeight[event.Rank] * math.Exp(-lambda*age)
	}

	ownEvents, err := d.canonEventRepo.GetByOwnerIDs(ctx, []string{ownerUserID})
	if err != nil {
		return nil, err
	}

	if len(ownEvents) > 0 {
		eventIDs := make([]string, len(ownEvents))
		ownEventByID := map[string]entity.CanonEvent{}
		for i, e := range ownEvents {
			eventIDs[i] = e.ID
			ownEventByID[e.ID] = e
		}

		upvotes, err := d.canonVoteRepo.GetUpvotesByEventIDs(ctx, eventIDs)
		if err != nil {
			return nil, err
		}

		for _, v := range upvotes {
			accumulate(v.VoterUserID, ownEventByID[v.EventID], v.CreatedAt)
		}
	}

	castUpvotes, err := d.canonVoteRepo.GetUpvotesByVoterID(ctx, ownerUserID)
	if err != nil {
		return nil, err
	}

	if len(castUpvotes) > 0 {
		eventIDs := []string{}
		for _, v := range castUpvotes {
			eventIDs = append(eventIDs, v.EventID)
		}

		events, err := d.canonEventRepo.GetByIDs(ctx, eventIDs)
		if err != nil {
			return nil, err
		}

		eventByID := map[string]entity.CanonEvent{}
		for _, e := range events {
			eventByID[e.ID] = e
		}

		for _, v := range castUpvotes {
			event, ok := eventByID[v.EventID]
			if !ok {
				continue
			}

			accumulate(event.OwnerUserID, event, v.CreatedAt)
		}
	}

	edges := make([]entity.TrustEdge, 0, len(accumulators))
	for targetUserID, acc := range accumulators {
		sharedEventIDs := make([]string, 0, len(acc.sharedEventIDs))
		for id := range acc.sharedEventIDs {
			sharedEventIDs = append(sharedEventIDs, id)
		}
		sort.Strings(sharedEventIDs)

		edges = append(edges, entity.TrustEdge{
			TargetUserID:   targetUserID,
			TrustScore:     acc.score,
			LastSeen:       acc.lastSeen,
			SharedEventIDs: sharedEventIDs,
		})
	}

	sort.Slice(edges, func(i, j int) bool {
		if edges[i].TrustScore != edges[j].TrustScore {
			return edges[i].TrustScore > edges[j].TrustScore
		}

		return edges[i].TargetUserID < edges[j].TargetUserID
	})

	for i := range edges {
		edges[i].Position = i + 1
	}

	return edges, nil
}

type cachedTrustGraph struct {
	SnapshotID string             `json:"snapshot_id"`
	GraphDate  string             `json:"graph_date"`
	AsOf       time.Time          `json:"as_of"`
	Edges      []entity.TrustEdge `json:"edges"`
}

func (d *trustDomain) cacheGraph(
	ctx context.Context, snapshot *entity.TrustGraphSnapshot, edges []entity.TrustEdge,
) {
	if d.redisClient == nil {
		return
	}

	err := d.redisClient.SetObj(ctx, trustGraphCacheKey(snapshot.OwnerUserID),
		cachedTrustGraph{
			SnapshotID: snapshot.ID,
			GraphDate:  snapshot.GraphDate,
			AsOf:       snapshot.AsOf,
			Edges:      edges,
		},
		xcontext.Configs(ctx).Canon.TrustGraphCacheTTL)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot cache trust graph: %v", err)
	}

	if len(edges) == 0 {
		return
	}

	// Mirror the edges into a sorted set for cheap top-N reads. The database
	// snapshot stays the source of truth.
	ranking := make([]redis.Z, 0, len(edges))
	for _, edge := range edges {
		ranking = append(ranking, redis.Z{
			Score:  edge.TrustScore,
			Member: edge.TargetUserID,
		})
	}

	err = d.redisClient.ZAdd(ctx, trustEdgeRankingKey(snapshot.OwnerUserID), ranking...)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot cache trust edge ranking: %v", err)
	}
}

func (d *trustDomain) Get(
	ctx context.Context, req *model.GetTrustGraphRequest,
) (*model.GetTrustGraphResponse, error) {
	userID := req.UserID
	if userID == "" {
		userID = xcontext.RequestUserID(ctx)
	}

	if userID == "" {
		return nil, errorx.New(errorx.BadRequest, "Require a user id")
	}

	if cached := d.getCachedGraph(ctx, userID); cached != nil {
		return toTrustGraphResponse(cached, req.Anonymize), nil
	}

	snapshot, err := d.trustGraphRepo.GetLatest(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found trust graph")
		}

		xcontext.Logger(ctx).Errorf("Cannot get trust snapshot: %v", err)
		return nil, errorx.Unknown
	}

	edges, err := d.trustGraphRepo.GetEdges(ctx, snapshot.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get trust edges: %v", err)
		return nil, errorx.Unknown
	}

	graph := &cachedTrustGraph{
		SnapshotID: snapshot.ID,
		GraphDate:  snapshot.GraphDate,
		AsOf:       snapshot.AsOf,
		Edges:      edges,
	}

	d.cacheGraph(ctx, snapshot, edges)

	return toTrustGraphResponse(graph, req.Anonymize), nil
}

func (d *trustDomain) getCachedGraph(ctx context.Context, userID string) *cachedTrustGraph {
	if d.redisClient == nil {
		return nil
	}

	cached := &cachedTrustGraph{}
	err := d.redisClient.GetObj(ctx, trustGraphCacheKey(userID), cached)
	if err != nil {
		if !errors.Is(err, xredis.ErrNotFound) {
			xcontext.Logger(ctx).Warnf("Cannot get cached trust graph: %v", err)
		}

		return nil
	}

	return cached
}

func toTrustGraphResponse(graph *cachedTrustGraph, anonymize bool) *model.GetTrustGraphResponse {
	clientEdges := []model.TrustEdge{}
	for _, e := range graph.Edges {
		clientEdges = append(clientEdges, convertTrustEdge(&e, anonymize))
	}

	return &model.GetTrustGraphResponse{
		SnapshotID: graph.SnapshotID,
		GraphDate:  graph.GraphDate,
		AsOf:       graph.AsOf.Format(time.RFC3339),
		Edges:      clientEdges,
	}
}
