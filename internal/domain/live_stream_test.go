package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/ywitter/backend/internal/model"
	"github.com/ywitter/backend/internal/repository"
	"github.com/ywitter/backend/pkg/errorx"
	"github.com/ywitter/backend/pkg/testutil"
	"github.com/ywitter/backend/pkg/xcontext"
)

func newTestLiveStreamDomain() *liveStreamDomain {
	return NewLiveStreamDomain(repository.NewLiveStreamRepository(), repository.NewUserRepository())
}

func Test_liveStreamDomain_Start(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User3.ID)
	testutil.CreateFixtureDb(ctx)
	d := newTestLiveStreamDomain()

	resp, err := d.Start(ctx, &model.StartStreamRequest{Title: " Go live ", Description: "questions"})
	require.NoError(t, err)
	require.Equal(t, "Go live", resp.Stream.Title)
	require.True(t, resp.Stream.IsLive)
	require.Len(t, resp.Stream.StreamKey, 64)

	live, err := d.GetLive(ctx, &model.GetLiveStreamsRequest{})
	require.NoError(t, err)
	require.Len(t, live.Streams, 2)
	for _, s := range live.Streams {
		require.Empty(t, s.StreamKey)
	}

	_, err = d.Start(ctx, &model.StartStreamRequest{Title: "  "})
	require.Equal(t, errorx.New(errorx.BadRequest, "Stream title is required"), err)

	_, err = d.Start(ctx, &model.StartStreamRequest{Title: strings.Repeat("a", 101)})
	require.Equal(t, errorx.New(errorx.BadRequest, "Stream title is too long (at most %d characters)", 100), err)
}

func Test_liveStreamDomain_End(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)
	d := newTestLiveStreamDomain()

	_, err := d.End(xcontext.WithRequestUserID(ctx, testutil.User2.ID), &model.EndStreamRequest{StreamID: testutil.Stream1.ID})
	require.Equal(t, errorx.New(errorx.PermissionDenied, "Only owner can end this stream"), err)

	resp, err := d.End(ctx, &model.EndStreamRequest{StreamID: testutil.Stream1.ID})
	require.NoError(t, err)
	require.False(t, resp.Stream.IsLive)
	require.NotEmpty(t, resp.Stream.EndedAt)

	_, err = d.End(ctx, &model.EndStreamRequest{StreamID: testutil.Stream1.ID})
	require.Equal(t, errorx.New(errorx.InvalidState, "Stream already ended"), err)

	live, err := d.GetLive(ctx, &model.GetLiveStreamsRequest{})
	require.NoError(t, err)
	require.Empty(t, live.Streams)
}

func Test_liveStreamDomain_Join(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User2.ID)
	testutil.CreateFixtureDb(ctx)
	d := newTestLiveStreamDomain()

	resp, err := d.Join(ctx, &model.JoinStreamRequest{StreamID: testutil.Stream1.ID})
	require.NoError(t, err)
	require.Equal(t, 1, resp.Stream.ViewersCount)
	require.Empty(t, resp.Stream.StreamKey)

	_, err = d.Join(ctx, &model.JoinStreamRequest{StreamID: testutil.Stream2.ID})
	require.Equal(t, errorx.New(errorx.InvalidState, "Stream already ended"), err)

	_, err = d.Join(ctx, &model.JoinStreamRequest{StreamID: "invalid-stream"})
	require.Equal(t, errorx.New(errorx.NotFound, "Not found stream"), err)
}
