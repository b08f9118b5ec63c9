package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/ywitter/backend/internal/model"
	"github.com/ywitter/backend/internal/repository"
	"github.com/ywitter/backend/pkg/errorx"
	"github.com/ywitter/backend/pkg/testutil"
	"github.com/ywitter/backend/pkg/xcontext"
)

func Test_notificationDomain_GetList(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)
	d := NewNotificationDomain(repository.NewNotificationRepository())

	resp, err := d.GetList(ctx, &model.GetNotificationsRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Notifications, 2)
	require.Equal(t, testutil.Notification1.ID, resp.Notifications[0].ID)
	require.Equal(t, testutil.Notification2.ID, resp.Notifications[1].ID)
	require.Equal(t, testutil.User3.ID, resp.Notifications[0].ActorID)

	resp, err = d.GetList(ctx, &model.GetNotificationsRequest{UnreadOnly: true})
	require.NoError(t, err)
	require.Len(t, resp.Notifications, 1)
	require.False(t, resp.Notifications[0].IsRead)

	_, err = d.GetList(ctx, &model.GetNotificationsRequest{Offset: -1})
	require.Equal(t, errorx.New(errorx.BadRequest, "Not allow negative offset"), err)

	_, err = d.GetList(testutil.MockContext(), &model.GetNotificationsRequest{})
	require.Equal(t, errorx.New(errorx.Unauthenticated, "You need to authenticate before"), err)
}

func Test_notificationDomain_MarkRead(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)
	d := NewNotificationDomain(repository.NewNotificationRepository())

	count, err := d.CountUnread(ctx, &model.CountUnreadNotificationsRequest{})
	require.NoError(t, err)
	require.Equal(t, int64(1), count.Count)

	_, err = d.MarkRead(ctx, &model.MarkNotificationReadRequest{ID: testutil.Notification1.ID})
	require.NoError(t, err)

	count, err = d.CountUnread(ctx, &model.CountUnreadNotificationsRequest{})
	require.NoError(t, err)
	require.Equal(t, int64(0), count.Count)

	_, err = d.MarkRead(ctx, &model.MarkNotificationReadRequest{ID: "invalid-notification"})
	require.Equal(t, errorx.New(errorx.NotFound, "Not found notification"), err)
}

func Test_notificationDomain_MarkRead_NotOwner(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User2.ID)
	testutil.CreateFixtureDb(ctx)
	d := NewNotificationDomain(repository.NewNotificationRepository())

	_, err := d.MarkRead(ctx, &model.MarkNotificationReadRequest{ID: testutil.Notification1.ID})
	require.Equal(t, errorx.New(errorx.NotFound, "Not found notification"), err)
}

func Test_notificationDomain_MarkAllRead(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User3.ID)
	testutil.CreateFixtureDb(ctx)
	d := NewNotificationDomain(repository.NewNotificationRepository())

	// A mention of alice by charlie.
	_, err := newTestPostDomain().Create(ctx, &model.CreatePostRequest{Content: "hi @alice"})
	require.NoError(t, err)

	ctx1 := xcontext.WithRequestUserID(ctx, testutil.User1.ID)

	resp, err := d.MarkAllRead(ctx1, &model.MarkAllNotificationsReadRequest{})
	require.NoError(t, err)
	require.Equal(t, int64(2), resp.Count)

	resp, err = d.MarkAllRead(ctx1, &model.MarkAllNotificationsReadRequest{})
	require.NoError(t, err)
	require.Equal(t, int64(0), resp.Count)
}
