package domain

import (
	"context"
	"testing"
	"time"

	"github.com/questx-lab/classroom/internal/entity"
	"github.com/questx-lab/classroom/internal/model"
	"github.com/questx-lab/classroom/internal/repository"
	"github.com/questx-lab/classroom/pkg/errorx"
	"github.com/questx-lab/classroom/pkg/testutil"
	"github.com/questx-lab/classroom/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func createNotifications(t *testing.T, ctx context.Context) {
	now := time.Now()
	notifications := []*entity.Notification{
		{
			Base:        entity.Base{ID: "n1", CreatedAt: now.Add(-2 * time.Minute)},
			RecipientID: testutil.Student1.ID,
			Title:       "New Activity",
			Message:     "New activity Quiz 1 added to following course -> Algebra",
		},
		{
			Base:        entity.Base{ID: "n2", CreatedAt: now.Add(-time.Minute)},
			RecipientID: testutil.Student1.ID,
			Title:       "New Material",
			Message:     "New material Slides added to following course -> activity: Algebra -> Quiz 1",
			IsRead:      true,
		},
		{
			Base:        entity.Base{ID: "n3", CreatedAt: now},
			RecipientID: testutil.Teacher1.ID,
			Title:       "New Enrollment",
			Message:     "New enrollment for course Algebra - student1",
		},
	}

	for _, n := range notifications {
		require.NoError(t, xcontext.DB(ctx).Create(n).Error)
	}
}

func Test_notificationDomain_GetNotifications(t *testing.T) {
	tests := []struct {
		name    string
		userID  string
		req     *model.GetNotificationsRequest
		wantIDs []string
		wantErr error
	}{
		{
			name:    "newest first",
			userID:  testutil.Student1.ID,
			req:     &model.GetNotificationsRequest{},
			wantIDs: []string{"n2", "n1"},
		},
		{
			name:    "unread only",
			userID:  testutil.Student1.ID,
			req:     &model.GetNotificationsRequest{UnreadOnly: true},
			wantIDs: []string{"n1"},
		},
		{
			name:    "offset and limit",
			userID:  testutil.Student1.ID,
			req:     &model.GetNotificationsRequest{Offset: 1, Limit: 1},
			wantIDs: []string{"n1"},
		},
		{
			name:    "other user",
			userID:  testutil.Student2.ID,
			req:     &model.GetNotificationsRequest{},
			wantIDs: []string{},
		},
		{
			name:    "limit too large",
			userID:  testutil.Student1.ID,
			req:     &model.GetNotificationsRequest{Limit: maxNotificationLimit + 1},
			wantErr: errorx.New(errorx.BadRequest, "Limit must be in range 1-100"),
		},
		{
			name:    "negative offset",
			userID:  testutil.Student1.ID,
			req:     &model.GetNotificationsRequest{Offset: -1},
			wantErr: errorx.New(errorx.BadRequest, "Offset must not be negative"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testutil.MockContextWithUserID(tt.userID)
			testutil.CreateFixtureDb(ctx)
			createNotifications(t, ctx)

			d := NewNotificationDomain(repository.NewNotificationRepository())
			got, err := d.GetNotifications(ctx, tt.req)
			if tt.wantErr != nil {
				require.Equal(t, tt.wantErr, err)
				return
			}

			require.NoError(t, err)
			ids := []string{}
			for _, n := range got.Notifications {
				ids = append(ids, n.ID)
			}
			require.Equal(t, tt.wantIDs, ids)
		})
	}
}

func Test_notificationDomain_ToggleNotificationRead(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.Student1.ID)
	testutil.CreateFixtureDb(ctx)
	createNotifications(t, ctx)

	d := NewNotificationDomain(repository.NewNotificationRepository())

	resp, err := d.ToggleNotificationRead(ctx, &model.ToggleNotificationReadRequest{ID: "n1"})
	require.NoError(t, err)
	require.True(t, resp.Notification.IsRead)

	resp, err = d.ToggleNotificationRead(ctx, &model.ToggleNotificationReadRequest{ID: "n1"})
	require.NoError(t, err)
	require.False(t, resp.Notification.IsRead)

	// Only the recipient can toggle.
	_, err = d.ToggleNotificationRead(ctx, &model.ToggleNotificationReadRequest{ID: "n3"})
	require.Equal(t, errorx.New(errorx.NotFound, "Not found notification"), err)

	n3, err := repository.NewNotificationRepository().GetByID(ctx, "n3")
	require.NoError(t, err)
	require.False(t, n3.IsRead)

	_, err = d.ToggleNotificationRead(ctx, &model.ToggleNotificationReadRequest{ID: "unknown"})
	require.True(t, errorx.Is(err, errorx.NotFound))

	_, err = d.ToggleNotificationRead(ctx, &model.ToggleNotificationReadRequest{})
	require.True(t, errorx.Is(err, errorx.BadRequest))
}
