package proxy

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/questx-lab/classroom/internal/domain/notification/dispatcher"
	"github.com/questx-lab/classroom/internal/domain/notification/group"
	"github.com/questx-lab/classroom/internal/domain/notification/registry"
	"github.com/questx-lab/classroom/internal/domain/notification/task"
	"github.com/questx-lab/classroom/internal/entity"
	"github.com/questx-lab/classroom/internal/middleware"
	"github.com/questx-lab/classroom/internal/model"
	"github.com/questx-lab/classroom/internal/repository"
	"github.com/questx-lab/classroom/pkg/jwt"
	"github.com/questx-lab/classroom/pkg/router"
	"github.com/questx-lab/classroom/pkg/testutil"
	"github.com/questx-lab/classroom/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	ctx      context.Context
	registry registry.Registry
	queue    interface {
		task.Queue
		Wait()
	}
	url string
}

func newTestServer(t *testing.T) *testServer {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	reg := registry.NewMemoryRegistry()
	queue := task.NewMemoryQueue(16)

	userRepo := repository.NewUserRepository()
	enrollmentRepo := repository.NewEnrollmentRepository()
	lobbyMessageRepo := repository.NewLobbyMessageRepository()

	d := dispatcher.NewDispatcher(
		reg,
		userRepo,
		repository.NewCourseRepository(),
		repository.NewCourseActivityRepository(),
		enrollmentRepo,
		repository.NewNotificationRepository(),
		lobbyMessageRepo,
	)

	runCtx, cancel := context.WithCancel(ctx)
	go queue.Run(runCtx, task.NewWorker(d, repository.NewTaskFailureRepository()))

	r := router.New(ctx)
	r.Before(middleware.NewAuthVerifier().WithAccessToken().Middleware())
	r.Before(middleware.MustExistUser(userRepo))
	router.Websocket(r, "/notifications", NewNotificationProxy(reg, userRepo, enrollmentRepo).ServeNotification)
	router.Websocket(r, "/lobby", NewLobbyProxy(reg, userRepo, lobbyMessageRepo, queue).ServeLobby)

	server := httptest.NewServer(r.Handler(xcontext.Configs(ctx).Notification.Server))
	t.Cleanup(func() {
		server.Close()
		cancel()
	})

	return &testServer{
		ctx:      ctx,
		registry: reg,
		queue:    queue,
		url:      "ws" + strings.TrimPrefix(server.URL, "http"),
	}
}

func (s *testServer) dial(t *testing.T, path, userID string) *websocket.Conn {
	engine := jwt.NewEngine[model.AccessToken](xcontext.Configs(s.ctx).Auth.TokenSecret, time.Minute)
	token, err := engine.Generate(userID, model.AccessToken{ID: userID})
	require.NoError(t, err)

	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)
	conn, _, err := websocket.DefaultDialer.Dial(s.url+path, header)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return conn
}

func (s *testServer) requireCount(t *testing.T, groupName string, n int) {
	require.Eventually(t, func() bool {
		count, err := s.registry.Count(s.ctx, groupName)
		return err == nil && count == n
	}, time.Second, 5*time.Millisecond, "group %s", groupName)
}

func readFrame(t *testing.T, conn *websocket.Conn) map[string]any {
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	frame := map[string]any{}
	require.NoError(t, json.Unmarshal(msg, &frame))
	return frame
}

func requireNoFrame(t *testing.T, conn *websocket.Conn) {
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(100*time.Millisecond)))
	_, _, err := conn.ReadMessage()
	require.Error(t, err)
}

func studentGroups() []string {
	return []string{
		group.User(testutil.Student1.ID),
		group.Material(testutil.Course1.ID),
		group.Activity(testutil.Course1.ID),
		group.Material(testutil.Course2.ID),
		group.Activity(testutil.Course2.ID),
		group.ChatNotifications,
	}
}

func TestNotificationProxy_Groups(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	p := NewNotificationProxy(registry.NewMemoryRegistry(),
		repository.NewUserRepository(), repository.NewEnrollmentRepository())

	tests := []struct {
		name string
		user *entity.User
		want []string
	}{
		{
			name: "student with two courses",
			user: testutil.Student1,
			want: studentGroups(),
		},
		{
			name: "blocked enrollment is skipped",
			user: testutil.Student3,
			want: []string{group.User(testutil.Student3.ID), group.ChatNotifications},
		},
		{
			name: "teacher",
			user: testutil.Teacher1,
			want: []string{
				group.User(testutil.Teacher1.ID),
				group.EnrollmentTeacher(testutil.Teacher1.ID),
				group.ChatNotifications,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			groups, err := p.Groups(ctx, tt.user)
			require.NoError(t, err)
			require.ElementsMatch(t, tt.want, groups)
		})
	}
}

func TestServeNotification_JoinAndLeave(t *testing.T) {
	s := newTestServer(t)

	conn := s.dial(t, "/notifications", testutil.Student1.ID)
	for _, g := range studentGroups() {
		s.requireCount(t, g, 1)
	}

	require.NoError(t, conn.Close())
	for _, g := range studentGroups() {
		s.requireCount(t, g, 0)
	}

	require.Empty(t, s.registry.(interface{ Groups() []string }).Groups())
}

func TestServeNotification_RejectAnonymous(t *testing.T) {
	s := newTestServer(t)

	_, resp, err := websocket.DefaultDialer.Dial(s.url+"/notifications", nil)
	require.ErrorIs(t, err, websocket.ErrBadHandshake)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	_, resp, err = websocket.DefaultDialer.Dial(s.url+"/lobby", nil)
	require.ErrorIs(t, err, websocket.ErrBadHandshake)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	require.Empty(t, s.registry.(interface{ Groups() []string }).Groups())
}

func TestServeNotification_RejectDeletedUser(t *testing.T) {
	s := newTestServer(t)

	engine := jwt.NewEngine[model.AccessToken](xcontext.Configs(s.ctx).Auth.TokenSecret, time.Minute)
	token, err := engine.Generate("ghost", model.AccessToken{ID: "ghost"})
	require.NoError(t, err)

	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)
	for _, path := range []string{"/notifications", "/lobby"} {
		_, resp, err := websocket.DefaultDialer.Dial(s.url+path, header)
		require.ErrorIs(t, err, websocket.ErrBadHandshake)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	}

	require.Empty(t, s.registry.(interface{ Groups() []string }).Groups())
}

func TestServeNotification_ChatNotificationCommands(t *testing.T) {
	s := newTestServer(t)

	conn := s.dial(t, "/notifications", testutil.Student1.ID)
	s.requireCount(t, group.ChatNotifications, 1)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"command":"leave_chat_notifications"}`)))
	s.requireCount(t, group.ChatNotifications, 0)
	s.requireCount(t, group.User(testutil.Student1.ID), 1)

	// Malformed frames and unknown commands keep the connection open.
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`not json`)))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"command":"dance"}`)))

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"command":"join_chat_notifications"}`)))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"command":"join_chat_notifications"}`)))
	s.requireCount(t, group.ChatNotifications, 1)
}

func TestServeNotification_DynamicSubscription(t *testing.T) {
	s := newTestServer(t)

	teacherConn := s.dial(t, "/notifications", testutil.Teacher2.ID)
	studentConn := s.dial(t, "/notifications", testutil.Student2.ID)
	s.requireCount(t, group.EnrollmentTeacher(testutil.Teacher2.ID), 1)
	s.requireCount(t, group.User(testutil.Student2.ID), 1)
	s.requireCount(t, group.Material(testutil.Course2.ID), 0)

	enrollment := &entity.Enrollment{
		Base:      entity.Base{ID: "enrollment5"},
		CourseID:  testutil.Course2.ID,
		StudentID: testutil.Student2.ID,
	}
	require.NoError(t, repository.NewEnrollmentRepository().Create(s.ctx, enrollment))
	require.NoError(t, s.queue.Enqueue(s.ctx, task.EnrollmentCreated,
		task.EnrollmentCreatedArgs{EnrollmentID: enrollment.ID}))

	require.Equal(t, map[string]any{
		"type":           "dynamic_subscription",
		"material_group": group.Material(testutil.Course2.ID),
		"activity_group": group.Activity(testutil.Course2.ID),
	}, readFrame(t, studentConn))
	s.requireCount(t, group.Material(testutil.Course2.ID), 1)
	s.requireCount(t, group.Activity(testutil.Course2.ID), 1)

	require.Equal(t, map[string]any{
		"type":    "new_notification",
		"title":   "New Enrollment",
		"message": "New enrollment for course Biology - student2",
	}, readFrame(t, teacherConn))

	// The new course is live without reconnecting.
	require.NoError(t, s.queue.Enqueue(s.ctx, task.ActivityCreated, task.ActivityCreatedArgs{
		StudentID: testutil.Student2.ID,
		CourseID:  testutil.Course2.ID,
		Title:     "Lab 1",
	}))

	frame := readFrame(t, studentConn)
	require.Equal(t, "new_notification", frame["type"])
	require.Equal(t, "New Activity", frame["title"])
}

func TestServeNotification_Midterm(t *testing.T) {
	s := newTestServer(t)

	student1 := s.dial(t, "/notifications", testutil.Student1.ID)
	student2 := s.dial(t, "/notifications", testutil.Student2.ID)
	s.requireCount(t, group.Activity(testutil.Course1.ID), 2)

	require.NoError(t, s.queue.Enqueue(s.ctx, task.ActivityCreated, task.ActivityCreatedArgs{
		StudentID: testutil.Student1.ID,
		CourseID:  testutil.Course1.ID,
		Title:     "Midterm",
	}))
	s.queue.Wait()

	require.Equal(t, map[string]any{
		"type":    "new_notification",
		"title":   "New Activity",
		"message": "New activity Midterm added to following course -> Algebra",
	}, readFrame(t, student1))

	// The event is addressed to student1 only.
	requireNoFrame(t, student2)
}

func TestServeNotification_TwoTabs(t *testing.T) {
	s := newTestServer(t)

	first := s.dial(t, "/notifications", testutil.Student1.ID)
	second := s.dial(t, "/notifications", testutil.Student1.ID)
	for _, g := range studentGroups() {
		s.requireCount(t, g, 2)
	}

	require.NoError(t, first.Close())
	for _, g := range studentGroups() {
		s.requireCount(t, g, 1)
	}

	require.NoError(t, s.queue.Enqueue(s.ctx, task.ActivityCreated, task.ActivityCreatedArgs{
		StudentID: testutil.Student1.ID,
		CourseID:  testutil.Course1.ID,
		Title:     "Quiz",
	}))

	require.Equal(t, map[string]any{
		"type":    "new_notification",
		"title":   "New Activity",
		"message": "New activity Quiz added to following course -> Algebra",
	}, readFrame(t, second))
}

func TestServeLobby(t *testing.T) {
	s := newTestServer(t)

	author := s.dial(t, "/lobby", testutil.Teacher1.ID)
	listener := s.dial(t, "/notifications", testutil.Student2.ID)
	s.requireCount(t, group.PublicLobby, 1)
	s.requireCount(t, group.ChatNotifications, 1)

	// Blank messages are dropped without a reply.
	require.NoError(t, author.WriteMessage(websocket.TextMessage, []byte(`{"message":"   "}`)))
	require.NoError(t, author.WriteMessage(websocket.TextMessage, []byte(`{"message":""}`)))
	require.NoError(t, author.WriteMessage(websocket.TextMessage, []byte(`{"message":"hello class"}`)))

	require.Equal(t, map[string]any{
		"type":       "chat_message",
		"message":    "hello class",
		"username":   testutil.Teacher1.Username,
		"is_teacher": true,
	}, readFrame(t, author))

	require.Equal(t, map[string]any{
		"type":    "chat_notification",
		"message": "New message in the public lobby",
	}, readFrame(t, listener))

	s.queue.Wait()
	requireNoFrame(t, listener)
	requireNoFrame(t, author)

	var messages []entity.LobbyMessage
	require.NoError(t, xcontext.DB(s.ctx).Find(&messages).Error)
	require.Len(t, messages, 1)
	require.Equal(t, "hello class", messages[0].Text)
	require.Equal(t, testutil.Teacher1.ID, messages[0].AuthorID)

	require.NoError(t, author.Close())
	s.requireCount(t, group.PublicLobby, 0)
}

func TestSession_Deliver(t *testing.T) {
	ctx := testutil.MockContext()
	reg := registry.NewMemoryRegistry()

	s := NewSession(ctx, testutil.Student1.ID, reg)
	require.Equal(t, Connecting, s.State())
	require.NoError(t, s.Join(ctx, group.Activity(testutil.Course1.ID)))
	require.NoError(t, s.Join(ctx, group.ChatNotifications))
	require.Equal(t, []string{group.Activity(testutil.Course1.ID), group.ChatNotifications}, s.Groups())

	buffer := xcontext.Configs(ctx).Notification.SessionBufferSize
	for i := 0; i < buffer+5; i++ {
		require.NoError(t, reg.Send(ctx, group.ChatNotifications, newChatNotification()))
	}
	require.Len(t, s.C, buffer)

	for len(s.C) > 0 {
		<-s.C
	}

	require.NoError(t, reg.Send(ctx, group.Activity(testutil.Course1.ID), newActivityNotification("someone")))
	require.Len(t, s.C, 0)

	require.NoError(t, reg.Send(ctx, group.Activity(testutil.Course1.ID), newActivityNotification(testutil.Student1.ID)))
	require.Len(t, s.C, 1)

	s.LeaveAll(ctx)
	require.Equal(t, Disconnected, s.State())
	require.Empty(t, s.Groups())

	count, err := reg.Count(ctx, group.ChatNotifications)
	require.NoError(t, err)
	require.Zero(t, count)
}
