package service

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"UniVideo.com/cmd/model"
	"UniVideo.com/cmd/notification/dal/db"
	userdb "UniVideo.com/cmd/user/dal/db"
	"UniVideo.com/pkg/database/dbtest"
	"UniVideo.com/pkg/errno"
	"UniVideo.com/pkg/mq"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var notificationColumns = []string{"id", "title", "content", "msg_type", "related_link", "user_id", "is_read", "video_id", "extra_data", "created_at"}

type recordingPublisher struct {
	events []*mq.NotificationEvent
	err    error
}

func (p *recordingPublisher) PublishNotificationEvent(_ context.Context, e *mq.NotificationEvent) error {
	p.events = append(p.events, e)
	return p.err
}

func setup(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	gdb, mock := dbtest.New(t)
	db.Init(gdb)
	userdb.Init(gdb)
	return gdb, mock
}

func TestNotifyValidation(t *testing.T) {
	setup(t)
	s := NewNotificationService(context.Background(), nil)

	_, err := s.Notify(&NotifyRequest{Recipient: model.Broadcast(), Title: "  ", Content: "c"})
	require.True(t, errors.Is(err, errno.ValidationErr))
	_, err = s.Notify(&NotifyRequest{Recipient: model.Broadcast(), Title: "t", Content: ""})
	require.True(t, errors.Is(err, errno.ValidationErr))
	_, err = s.Notify(&NotifyRequest{Recipient: model.Broadcast(), Title: "t", Content: "c", Type: "promo"})
	require.True(t, errors.Is(err, errno.ValidationErr))
}

func TestNotifyBuildsRow(t *testing.T) {
	_, mock := setup(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `notifications`")).
		WillReturnResult(sqlmock.NewResult(3, 1))

	pub := &recordingPublisher{err: errors.New("broker down")}
	vid := int64(7)
	n, err := NewNotificationService(context.Background(), pub).Notify(&NotifyRequest{
		Recipient:   model.ToUser(2),
		Title:       " 视频审核结果 ",
		Content:     "内容",
		RelatedLink: "/upload",
		VideoID:     &vid,
		Extra:       map[string]interface{}{"reason": "blurry"},
	})
	// 推送失败不影响结果
	require.NoError(t, err)
	require.Equal(t, int64(3), n.ID)
	require.Equal(t, "视频审核结果", n.Title)
	require.Equal(t, model.NotificationSystem, n.MsgType)
	require.Equal(t, int64(2), *n.UserID)
	require.Equal(t, "/upload", *n.RelatedLink)
	require.JSONEq(t, `{"reason":"blurry"}`, *n.ExtraData)
	require.Len(t, pub.events, 1)
}

func TestSendByUsername(t *testing.T) {
	ctx := context.Background()

	t.Run("broadcast when username empty", func(t *testing.T) {
		_, mock := setup(t)
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `notifications`")).
			WillReturnResult(sqlmock.NewResult(8, 1))

		pub := &recordingPublisher{}
		res, err := NewNotificationService(ctx, pub).SendByUsername(&SendRequest{Title: "维护", Content: "今晚维护"})
		require.NoError(t, err)
		require.Equal(t, "全体用户", res.TargetUsername)
		require.Nil(t, res.UserID)
		require.Len(t, pub.events, 1)
		require.True(t, pub.events[0].Recipient().IsBroadcast())
	})

	t.Run("personal", func(t *testing.T) {
		_, mock := setup(t)
		mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `users`")).
			WillReturnRows(sqlmock.NewRows([]string{"id", "username"}).AddRow(5, "carol"))
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `notifications`")).
			WillReturnResult(sqlmock.NewResult(9, 1))

		res, err := NewNotificationService(ctx, nil).SendByUsername(&SendRequest{TargetUsername: "carol", Title: "t", Content: "c", MsgType: "interaction"})
		require.NoError(t, err)
		require.Equal(t, "carol", res.TargetUsername)
		require.Equal(t, int64(5), *res.UserID)
		require.Equal(t, model.NotificationInteraction, res.MsgType)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, mock := setup(t)
		mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `users`")).
			WillReturnRows(sqlmock.NewRows([]string{"id", "username"}))

		_, err := NewNotificationService(ctx, nil).SendByUsername(&SendRequest{TargetUsername: "ghost", Title: "t", Content: "c"})
		require.True(t, errors.Is(err, errno.NotFoundErr))
		require.Contains(t, errno.ConvertErr(err).ErrMsg, "找不到用户: ghost")
	})
}

func TestVisibleToSQL(t *testing.T) {
	gdb, _ := setup(t)
	dry := gdb.Session(&gorm.Session{DryRun: true})

	var list []*model.Notification
	stmt := dry.Model(&model.Notification{}).Scopes(db.VisibleTo(model.ToUser(3))).Find(&list).Statement
	require.Contains(t, stmt.SQL.String(), "user_id = ? OR user_id IS NULL")
	require.Equal(t, []interface{}{int64(3)}, stmt.Vars)

	stmt = dry.Model(&model.Notification{}).Scopes(db.VisibleTo(model.Broadcast())).Find(&list).Statement
	require.Contains(t, stmt.SQL.String(), "user_id IS NULL")
	require.NotContains(t, stmt.SQL.String(), "user_id = ?")
}

func TestListIncludesBroadcastForEveryone(t *testing.T) {
	now := time.Now()
	for _, r := range []model.Recipient{model.ToUser(1), model.ToUser(2), model.Broadcast()} {
		_, mock := setup(t)
		mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM `notifications`")).
			WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(1))
		mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `notifications` WHERE")).
			WillReturnRows(sqlmock.NewRows(notificationColumns).
				AddRow(1, "公告", "全站公告", "system", nil, nil, false, nil, nil, now))

		res, err := NewNotificationService(context.Background(), nil).List(r, nil, 0, -5)
		require.NoError(t, err)
		require.Equal(t, int64(1), res.Total)
		require.Len(t, res.List, 1)
		require.Nil(t, res.List[0].UserID)
		require.True(t, r.Visible(res.List[0]))
	}
}

func TestMarkRead(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("not found", func(t *testing.T) {
		_, mock := setup(t)
		mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `notifications` WHERE id = ?")).
			WillReturnRows(sqlmock.NewRows(notificationColumns))
		_, err := NewNotificationService(ctx, nil).MarkRead(model.ToUser(1), 99)
		require.True(t, errors.Is(err, errno.NotFoundErr))
	})

	t.Run("other user's notification", func(t *testing.T) {
		_, mock := setup(t)
		mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `notifications` WHERE id = ?")).
			WillReturnRows(sqlmock.NewRows(notificationColumns).AddRow(4, "t", "c", "audit", nil, 2, false, nil, nil, now))
		_, err := NewNotificationService(ctx, nil).MarkRead(model.ToUser(1), 4)
		require.True(t, errors.Is(err, errno.ForbiddenErr))
	})

	t.Run("broadcast", func(t *testing.T) {
		_, mock := setup(t)
		mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `notifications` WHERE id = ?")).
			WillReturnRows(sqlmock.NewRows(notificationColumns).AddRow(5, "t", "c", "system", nil, nil, false, nil, nil, now))
		mock.ExpectExec(regexp.QuoteMeta("UPDATE `notifications` SET `is_read`=? WHERE id = ? AND is_read = ?")).
			WithArgs(true, int64(5), false).
			WillReturnResult(sqlmock.NewResult(0, 1))
		updated, err := NewNotificationService(ctx, nil).MarkRead(model.ToUser(1), 5)
		require.NoError(t, err)
		require.Equal(t, int64(1), updated)
	})

	t.Run("already read", func(t *testing.T) {
		_, mock := setup(t)
		mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `notifications` WHERE id = ?")).
			WillReturnRows(sqlmock.NewRows(notificationColumns).AddRow(6, "t", "c", "audit", nil, 1, true, nil, nil, now))
		updated, err := NewNotificationService(ctx, nil).MarkRead(model.ToUser(1), 6)
		require.NoError(t, err)
		require.Equal(t, int64(0), updated)
	})

	t.Run("read concurrently in between", func(t *testing.T) {
		_, mock := setup(t)
		mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `notifications` WHERE id = ?")).
			WillReturnRows(sqlmock.NewRows(notificationColumns).AddRow(7, "t", "c", "audit", nil, 1, false, nil, nil, now))
		mock.ExpectExec(regexp.QuoteMeta("UPDATE `notifications` SET `is_read`=? WHERE id = ? AND is_read = ?")).
			WillReturnResult(sqlmock.NewResult(0, 0))
		updated, err := NewNotificationService(ctx, nil).MarkRead(model.ToUser(1), 7)
		require.NoError(t, err)
		require.Equal(t, int64(0), updated)
	})
}

func TestMarkAllReadAndUnread(t *testing.T) {
	ctx := context.Background()
	_, mock := setup(t)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE `notifications` SET `is_read`=? WHERE is_read = ? AND (user_id = ? OR user_id IS NULL)")).
		WithArgs(true, false, int64(6)).
		WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM `notifications` WHERE is_read = ? AND user_id IS NULL")).
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(2))

	s := NewNotificationService(ctx, nil)
	updated, err := s.MarkAllRead(model.ToUser(6))
	require.NoError(t, err)
	require.Equal(t, int64(4), updated)

	unread, err := s.UnreadCount(model.Broadcast())
	require.NoError(t, err)
	require.Equal(t, int64(2), unread)
}
