package domain

import (
	"testing"

	"github.com/canonlab/backend/internal/model"
	"github.com/canonlab/backend/internal/repository"
	"github.com/canonlab/backend/pkg/errorx"
	"github.com/canonlab/backend/pkg/testutil"
	"github.com/canonlab/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func newFeedDomainForTest() *feedDomain {
	return NewFeedDomain(
		repository.NewSubscriptionRepository(),
		repository.NewCanonEventRepository(),
		repository.NewUserRepository(),
	)
}

func Test_feedDomain_Follow_and_Unfollow(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	feedDomain := newFeedDomainForTest()

	ctx = xcontext.WithRequestUserID(ctx, testutil.User3.ID)

	_, err := feedDomain.Follow(ctx, &model.FollowRequest{FollowedID: testutil.User1.ID})
	require.NoError(t, err)

	// Following twice is rejected.
	_, err = feedDomain.Follow(ctx, &model.FollowRequest{FollowedID: testutil.User1.ID})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.AlreadyExists, errx.Code)

	// Following yourself is rejected.
	_, err = feedDomain.Follow(ctx, &model.FollowRequest{FollowedID: testutil.User3.ID})
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.BadRequest, errx.Code)

	_, err = feedDomain.Unfollow(ctx, &model.UnfollowRequest{FollowedID: testutil.User1.ID})
	require.NoError(t, err)

	_, err = feedDomain.Unfollow(ctx, &model.UnfollowRequest{FollowedID: testutil.User1.ID})
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.NotFound, errx.Code)

	// The pair can be recreated after unfollow.
	_, err = feedDomain.Follow(ctx, &model.FollowRequest{FollowedID: testutil.User1.ID})
	require.NoError(t, err)
}

func Test_feedDomain_GetFeed_filters(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	feedDomain := newFeedDomainForTest()

	ctx = xcontext.WithRequestUserID(ctx, testutil.User3.ID)

	// Everything of user1, only global rare unlocks of user2.
	_, err := feedDomain.Follow(ctx, &model.FollowRequest{FollowedID: testutil.User1.ID})
	require.NoError(t, err)
	_, err = feedDomain.Follow(ctx, &model.FollowRequest{
		FollowedID:  testutil.User2.ID,
		EventTypes:  []string{"rare_unlock"},
		MinimumRank: "global",
	})
	require.NoError(t, err)

	feed, err := feedDomain.GetFeed(ctx, &model.GetFeedRequest{})
	require.NoError(t, err)
	require.Len(t, feed.Events, 2)

	subs, err := feedDomain.GetSubscriptions(ctx, &model.GetSubscriptionsRequest{})
	require.NoError(t, err)
	require.Len(t, subs.Subscriptions, 2)
}

func Test_feedDomain_GetFeed_minimumRankExcludes(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	feedDomain := newFeedDomainForTest()

	ctx = xcontext.WithRequestUserID(ctx, testutil.User3.ID)

	// CanonEvent1 is still local, so a legendary floor hides it.
	_, err := feedDomain.Follow(ctx, &model.FollowRequest{
		FollowedID:  testutil.User1.ID,
		MinimumRank: "legendary",
	})
	require.NoError(t, err)

	feed, err := feedDomain.GetFeed(ctx, &model.GetFeedRequest{})
	require.NoError(t, err)
	require.Empty(t, feed.Events)
}

func Test_feedDomain_GetFeed_typeFilterExcludes(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	feedDomain := newFeedDomainForTest()

	ctx = xcontext.WithRequestUserID(ctx, testutil.User3.ID)

	// CanonEvent2 is a rare unlock, so a crew_save-only subscription hides
	// it.
	_, err := feedDomain.Follow(ctx, &model.FollowRequest{
		FollowedID: testutil.User2.ID,
		EventTypes: []string{"crew_save"},
	})
	require.NoError(t, err)

	feed, err := feedDomain.GetFeed(ctx, &model.GetFeedRequest{})
	require.NoError(t, err)
	require.Empty(t, feed.Events)
}

func Test_feedDomain_GetFeed_emptyWithoutSubscriptions(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	feedDomain := newFeedDomainForTest()

	ctx = xcontext.WithRequestUserID(ctx, testutil.User3.ID)

	feed, err := feedDomain.GetFeed(ctx, &model.GetFeedRequest{})
	require.NoError(t, err)
	require.Empty(t, feed.Events)
}
