package domain

import (
	"errors"
	"testing"

	"github.com/canonlab/backend/internal/domain/surge"
	"github.com/canonlab/backend/internal/model"
	"github.com/canonlab/backend/internal/repository"
	"github.com/canonlab/backend/pkg/errorx"
	"github.com/canonlab/backend/pkg/testutil"
	"github.com/canonlab/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func newCanonDomainForTest(publisher *testutil.MockPublisher) *canonDomain {
	canonEventRepo := repository.NewCanonEventRepository()
	canonVoteRepo := repository.NewCanonVoteRepository()
	userRepo := repository.NewUserRepository()
	detector := surge.NewDetector(canonEventRepo, canonVoteRepo, publisher)

	return NewCanonDomain(canonEventRepo, canonVoteRepo, userRepo, detector)
}

func Test_canonDomain_CreateEvent_and_GetEvent(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	canonDomain := newCanonDomainForTest(testutil.NewMockPublisher())

	ctx = xcontext.WithRequestUserID(ctx, testutil.User1.ID)
	created, err := canonDomain.CreateEvent(ctx, &model.CreateCanonEventRequest{
		Type:  "milestone",
		Title: "Cleared the gauntlet",
	})
	require.NoError(t, err)
	require.Equal(t, "local", created.Event.Rank)
	require.Equal(t, testutil.User1.ID, created.Event.OwnerUserID)

	got, err := canonDomain.GetEvent(ctx, &model.GetCanonEventRequest{ID: created.Event.ID})
	require.NoError(t, err)
	require.Equal(t, created.Event.ID, got.Event.ID)
	require.Empty(t, got.VoteBreakdown)

	_, err = canonDomain.CreateEvent(ctx, &model.CreateCanonEventRequest{
		Type:  "not_a_type",
		Title: "Bad",
	})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.BadRequest, errx.Code)
}

func Test_canonDomain_Vote_toggle(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	canonDomain := newCanonDomainForTest(testutil.NewMockPublisher())

	ctx = xcontext.WithRequestUserID(ctx, testutil.User2.ID)

	// First vote activates it and counts its weight in the window score.
	resp, err := canonDomain.Vote(ctx, &model.VoteCanonEventRequest{
		EventID:  testutil.CanonEvent1.ID,
		VoteType: "heart",
	})
	require.NoError(t, err)
	require.True(t, resp.Active)
	require.EqualValues(t, 2, resp.VoteScore)
	require.Equal(t, 1, resp.Upvotes)
	require.Equal(t, "local", resp.Rank)

	// An identical second vote removes it.
	resp, err = canonDomain.Vote(ctx, &model.VoteCanonEventRequest{
		EventID:  testutil.CanonEvent1.ID,
		VoteType: "heart",
	})
	require.NoError(t, err)
	require.False(t, resp.Active)
	require.EqualValues(t, 0, resp.VoteScore)

	// A third one activates it again, an odd total is always active.
	resp, err = canonDomain.Vote(ctx, &model.VoteCanonEventRequest{
		EventID:  testutil.CanonEvent1.ID,
		VoteType: "heart",
	})
	require.NoError(t, err)
	require.True(t, resp.Active)
	require.EqualValues(t, 2, resp.VoteScore)
}

func Test_canonDomain_Vote_differentTypesCoexist(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	canonDomain := newCanonDomainForTest(testutil.NewMockPublisher())

	ctx = xcontext.WithRequestUserID(ctx, testutil.User2.ID)

	_, err := canonDomain.Vote(ctx, &model.VoteCanonEventRequest{
		EventID:  testutil.CanonEvent1.ID,
		VoteType: "heart",
	})
	require.NoError(t, err)

	resp, err := canonDomain.Vote(ctx, &model.VoteCanonEventRequest{
		EventID:  testutil.CanonEvent1.ID,
		VoteType: "skull",
	})
	require.NoError(t, err)
	require.True(t, resp.Active)
	require.EqualValues(t, 0, resp.VoteScore) // heart +2, skull -2
	require.Equal(t, 1, resp.Upvotes)

	breakdown, err := canonDomain.GetEvent(ctx, &model.GetCanonEventRequest{
		ID: testutil.CanonEvent1.ID,
	})
	require.NoError(t, err)
	require.Len(t, breakdown.VoteBreakdown, 2)
}

func Test_canonDomain_Vote_errors(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	canonDomain := newCanonDomainForTest(testutil.NewMockPublisher())

	// Unauthenticated voter.
	_, err := canonDomain.Vote(ctx, &model.VoteCanonEventRequest{
		EventID:  testutil.CanonEvent1.ID,
		VoteType: "heart",
	})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.Unauthenticated, errx.Code)

	ctx = xcontext.WithRequestUserID(ctx, testutil.User2.ID)

	// Unknown event.
	_, err = canonDomain.Vote(ctx, &model.VoteCanonEventRequest{
		EventID:  "no-such-event",
		VoteType: "heart",
	})
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.NotFound, errx.Code)

	// Unknown vote type.
	_, err = canonDomain.Vote(ctx, &model.VoteCanonEventRequest{
		EventID:  testutil.CanonEvent1.ID,
		VoteType: "thumbsup",
	})
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.BadRequest, errx.Code)
	require.False(t, errors.Is(err, errorx.Unknown))
}

func Test_canonDomain_GetListEvents(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	canonDomain := newCanonDomainForTest(testutil.NewMockPublisher())

	all, err := canonDomain.GetListEvents(ctx, &model.GetListCanonEventRequest{})
	require.NoError(t, err)
	require.Len(t, all.Events, 2)

	filtered, err := canonDomain.GetListEvents(ctx, &model.GetListCanonEventRequest{
		OwnerUserID: testutil.User1.ID,
	})
	require.NoError(t, err)
	require.Len(t, filtered.Events, 1)
	require.Equal(t, testutil.CanonEvent1.ID, filtered.Events[0].ID)

	byType, err := canonDomain.GetListEvents(ctx, &model.GetListCanonEventRequest{
		Type: "rare_unlock",
	})
	require.NoError(t, err)
	require.Len(t, byType.Events, 1)
	require.Equal(t, testutil.CanonEvent2.ID, byType.Events[0].ID)
}
