package domain

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/canonlab/backend/internal/entity"
	"github.com/canonlab/backend/internal/model"
	"github.com/canonlab/backend/internal/repository"
	"github.com/canonlab/backend/pkg/errorx"
	"github.com/canonlab/backend/pkg/testutil"
	"github.com/canonlab/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func newTrustDomainForTest() *trustDomain {
	return NewTrustDomain(
		repository.NewTrustGraphRepository(),
		repository.NewCanonEventRepository(),
		repository.NewCanonVoteRepository(),
		repository.NewUserRepository(),
		testutil.NewMockRedisClient(),
	)
}

func castVoteAt(
	t *testing.T, ctx context.Context,
	eventID, voterID string, voteType entity.CanonVoteType, at time.Time,
) {
	t.Helper()
	err := repository.NewCanonVoteRepository().Create(ctx, &entity.CanonVote{
		ID:          xcontext.SnowflakeID(ctx),
		CreatedAt:   at,
		EventID:     eventID,
		VoterUserID: voterID,
		Type:        voteType,
		Weight:      voteType.Weight(),
	})
	require.NoError(t, err)
}

func createEventAt(
	t *testing.T, ctx context.Context,
	id, ownerID string, rank entity.CanonRank, at time.Time,
) {
	t.Helper()
	err := repository.NewCanonEventRepository().Create(ctx, &entity.CanonEvent{
		Base:        entity.Base{ID: id, CreatedAt: at},
		OwnerUserID: ownerID,
		Type:        entity.EventMilestone,
		Title:       "event " + id,
		Rank:        rank,
	})
	require.NoError(t, err)
}

func Test_trustDomain_Rebuild_halfLifeDecay(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	trustDomain := newTrustDomainForTest()

	halfLife := xcontext.Configs(ctx).Canon.TrustHalfLife

	// User2 saluted a local event of user1 that happened exactly one
	// half-life ago; the base weight 2 must have decayed to about 1.
	createEventAt(t, ctx, "old_event", testutil.User1.ID,
		entity.RankLocal, time.Now().Add(-halfLife))
	castVoteAt(t, ctx, "old_event", testutil.User2.ID,
		entity.VoteSalute, time.Now())

	resp, err := trustDomain.Rebuild(ctx, &model.RebuildTrustGraphRequest{
		UserID: testutil.User1.ID,
	})
	require.NoError(t, err)
	require.Equal(t, 1, resp.EdgeCount)

	graph, err := trustDomain.Get(ctx, &model.GetTrustGraphRequest{
		UserID: testutil.User1.ID,
	})
	require.NoError(t, err)
	require.Len(t, graph.Edges, 1)
	require.Equal(t, testutil.User2.ID, graph.Edges[0].TargetUserID)
	require.InDelta(t, 1.0, graph.Edges[0].TrustScore, 0.01)
	require.Equal(t, []string{"old_event"}, graph.Edges[0].SharedEventIDs)
}

func Test_trustDomain_Rebuild_multipleReactionsCountOnce(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	trustDomain := newTrustDomainForTest()

	// Heart and fire on the same fresh local event still price the event
	// only once, so the edge carries the plain base weight 2.
	castVoteAt(t, ctx, testutil.CanonEvent1.ID, testutil.User2.ID,
		entity.VoteHeart, time.Now())
	castVoteAt(t, ctx, testutil.CanonEvent1.ID, testutil.User2.ID,
		entity.VoteFire, time.Now())

	_, err := trustDomain.Rebuild(ctx, &model.RebuildTrustGraphRequest{
		UserID: testutil.User1.ID,
	})
	require.NoError(t, err)

	graph, err := trustDomain.Get(ctx, &model.GetTrustGraphRequest{
		UserID: testutil.User1.ID,
	})
	require.NoError(t, err)
	require.Len(t, graph.Edges, 1)
	require.Equal(t, testutil.User2.ID, graph.Edges[0].TargetUserID)
	require.InDelta(t, 2.0, graph.Edges[0].TrustScore, 0.01)
	require.Equal(t, []string{testutil.CanonEvent1.ID}, graph.Edges[0].SharedEventIDs)
}

func Test_trustDomain_Rebuild_symmetricInteraction(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	trustDomain := newTrustDomainForTest()

	halfLife := xcontext.Configs(ctx).Canon.TrustHalfLife
	lambda := math.Ln2 / halfLife.Seconds()
	age := 30 * 24 * time.Hour

	// User1 hearted a global event user2 posted 30 days ago. The
	// interaction shows up in both users' graphs with the same decayed
	// weight of 5.
	createEventAt(t, ctx, "global_event", testutil.User2.ID,
		entity.RankGlobal, time.Now().Add(-age))
	castVoteAt(t, ctx, "global_event", testutil.User1.ID,
		entity.VoteHeart, time.Now())

	want := 5 * math.Exp(-lambda*age.Seconds())

	_, err := trustDomain.Rebuild(ctx, &model.RebuildTrustGraphRequest{UserID: testutil.User1.ID})
	require.NoError(t, err)
	_, err = trustDomain.Rebuild(ctx, &model.RebuildTrustGraphRequest{UserID: testutil.User2.ID})
	require.NoError(t, err)

	graph1, err := trustDomain.Get(ctx, &model.GetTrustGraphRequest{UserID: testutil.User1.ID})
	require.NoError(t, err)
	require.Len(t, graph1.Edges, 1)
	require.Equal(t, testutil.User2.ID, graph1.Edges[0].TargetUserID)
	require.InDelta(t, want, graph1.Edges[0].TrustScore, 0.01)

	graph2, err := trustDomain.Get(ctx, &model.GetTrustGraphRequest{UserID: testutil.User2.ID})
	require.NoError(t, err)
	require.Len(t, graph2.Edges, 1)
	require.Equal(t, testutil.User1.ID, graph2.Edges[0].TargetUserID)
	require.InDelta(t, want, graph2.Edges[0].TrustScore, 0.01)
}

func Test_trustDomain_Rebuild_replacesSameDaySnapshot(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	trustDomain := newTrustDomainForTest()

	castVoteAt(t, ctx, testutil.CanonEvent1.ID, testutil.User2.ID,
		entity.VoteHeart, time.Now())

	first, err := trustDomain.Rebuild(ctx, &model.RebuildTrustGraphRequest{
		UserID: testutil.User1.ID,
	})
	require.NoError(t, err)

	castVoteAt(t, ctx, testutil.CanonEvent1.ID, testutil.User3.ID,
		entity.VoteFire, time.Now())

	second, err := trustDomain.Rebuild(ctx, &model.RebuildTrustGraphRequest{
		UserID: testutil.User1.ID,
	})
	require.NoError(t, err)
	require.NotEqual(t, first.SnapshotID, second.SnapshotID)
	require.Equal(t, first.GraphDate, second.GraphDate)
	require.Equal(t, 2, second.EdgeCount)

	// Only one snapshot survives for the date.
	var count int64
	err = xcontext.DB(ctx).Model(&entity.TrustGraphSnapshot{}).
		Where("owner_user_id=?", testutil.User1.ID).Count(&count).Error
	require.NoError(t, err)
	require.EqualValues(t, 1, count)
}

func Test_trustDomain_Rebuild_edgeOrdering(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	trustDomain := newTrustDomainForTest()

	now := time.Now()
	// User3 shares a global event with user1 while user2 only shares a
	// local one, so user3 must come first.
	createEventAt(t, ctx, "grand_event", testutil.User1.ID, entity.RankGlobal, now)
	castVoteAt(t, ctx, testutil.CanonEvent1.ID, testutil.User2.ID, entity.VoteSalute, now)
	castVoteAt(t, ctx, "grand_event", testutil.User3.ID, entity.VoteFire, now)

	_, err := trustDomain.Rebuild(ctx, &model.RebuildTrustGraphRequest{
		UserID: testutil.User1.ID,
	})
	require.NoError(t, err)

	graph, err := trustDomain.Get(ctx, &model.GetTrustGraphRequest{UserID: testutil.User1.ID})
	require.NoError(t, err)
	require.Len(t, graph.Edges, 2)
	require.Equal(t, testutil.User3.ID, graph.Edges[0].TargetUserID)
	require.Equal(t, 1, graph.Edges[0].Ordinal)
	require.Equal(t, testutil.User2.ID, graph.Edges[1].TargetUserID)
	require.Equal(t, 2, graph.Edges[1].Ordinal)
}

func Test_trustDomain_Get_anonymized(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	trustDomain := newTrustDomainForTest()

	castVoteAt(t, ctx, testutil.CanonEvent1.ID, testutil.User2.ID,
		entity.VoteHeart, time.Now())

	_, err := trustDomain.Rebuild(ctx, &model.RebuildTrustGraphRequest{
		UserID: testutil.User1.ID,
	})
	require.NoError(t, err)

	graph, err := trustDomain.Get(ctx, &model.GetTrustGraphRequest{
		UserID:    testutil.User1.ID,
		Anonymize: true,
	})
	require.NoError(t, err)
	require.Len(t, graph.Edges, 1)
	require.Empty(t, graph.Edges[0].TargetUserID)
	require.Equal(t, 1, graph.Edges[0].Ordinal)
}

func Test_trustDomain_Get_notFound(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	trustDomain := newTrustDomainForTest()

	_, err := trustDomain.Get(ctx, &model.GetTrustGraphRequest{UserID: testutil.User3.ID})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.NotFound, errx.Code)
}

func Test_trustDomain_Rebuild_downvotesExcluded(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	trustDomain := newTrustDomainForTest()

	castVoteAt(t, ctx, testutil.CanonEvent1.ID, testutil.User2.ID,
		entity.VoteClown, time.Now())

	resp, err := trustDomain.Rebuild(ctx, &model.RebuildTrustGraphRequest{
		UserID: testutil.User1.ID,
	})
	require.NoError(t, err)
	require.Equal(t, 0, resp.EdgeCount)
}
