package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"UniVideo.com/cmd/interaction/dal/db"
	"UniVideo.com/cmd/interaction/infras/redis"
	"UniVideo.com/cmd/model"
	userdb "UniVideo.com/cmd/user/dal/db"
	videodb "UniVideo.com/cmd/video/dal/db"
	"UniVideo.com/pkg/database/dbtest"
	"UniVideo.com/pkg/errno"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/go-sql-driver/mysql"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

var (
	commentColumns = []string{"id", "content", "user_id", "video_id", "parent_id", "root_id", "created_at"}
	userColumns    = []string{"id", "username", "nickname"}
)

func setup(t *testing.T) sqlmock.Sqlmock {
	gdb, mock := dbtest.New(t)
	db.Init(gdb)
	userdb.Init(gdb)
	videodb.Init(gdb)
	return mock
}

func countRows(n int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"count(*)"}).AddRow(n)
}

type fakeGuard struct {
	err      error
	released []string
}

func (g *fakeGuard) Check(context.Context, int64, string) error { return g.err }

func (g *fakeGuard) Release(_ context.Context, _ int64, content string) {
	g.released = append(g.released, content)
}

func TestResolveThread(t *testing.T) {
	one := int64(1)

	root, err := resolveThread(&model.Comment{ID: 1, VideoID: 5}, 5)
	require.NoError(t, err)
	require.Equal(t, int64(1), *root)

	// 回复的回复继承顶层评论
	root, err = resolveThread(&model.Comment{ID: 2, VideoID: 5, ParentID: &one, RootID: &one}, 5)
	require.NoError(t, err)
	require.Equal(t, int64(1), *root)

	_, err = resolveThread(nil, 5)
	require.True(t, errors.Is(err, errno.InvalidReferenceErr))
	_, err = resolveThread(&model.Comment{ID: 1, VideoID: 6}, 5)
	require.True(t, errors.Is(err, errno.InvalidReferenceErr))
	require.Contains(t, errno.ConvertErr(err).ErrMsg, "不属于该视频")
}

func expectCommentPrelude(mock sqlmock.Sqlmock) {
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM `videos` WHERE id = ?")).
		WillReturnRows(countRows(1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `users` WHERE id = ?")).
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(3, "dave", "Dave"))
}

func TestReplyChain(t *testing.T) {
	mock := setup(t)
	s := NewInteractionService(context.Background(), nil)
	now := time.Now()

	expectCommentPrelude(mock)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `comments`")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()
	c1, err := s.PostComment(&PostCommentRequest{VideoID: 5, UserID: 3, Content: " 第一 "})
	require.NoError(t, err)
	require.Equal(t, "第一", c1.Content)
	require.Nil(t, c1.ParentID)
	require.Nil(t, c1.RootID)
	require.Equal(t, "dave", c1.Author.Username)

	expectCommentPrelude(mock)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `comments` WHERE id = ?") + ".*FOR SHARE").
		WillReturnRows(sqlmock.NewRows(commentColumns).AddRow(1, "第一", 3, 5, nil, nil, now))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `comments`")).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()
	c2, err := s.PostComment(&PostCommentRequest{VideoID: 5, UserID: 3, Content: "回复", ParentID: &c1.ID})
	require.NoError(t, err)
	require.Equal(t, c1.ID, *c2.ParentID)
	require.Equal(t, c1.ID, *c2.RootID)

	expectCommentPrelude(mock)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `comments` WHERE id = ?") + ".*FOR SHARE").
		WillReturnRows(sqlmock.NewRows(commentColumns).AddRow(2, "回复", 3, 5, 1, 1, now))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `comments`")).
		WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectCommit()
	c3, err := s.PostComment(&PostCommentRequest{VideoID: 5, UserID: 3, Content: "楼中楼", ParentID: &c2.ID})
	require.NoError(t, err)
	require.Equal(t, c2.ID, *c3.ParentID)
	require.Equal(t, c1.ID, *c3.RootID)
}

func TestPostCommentErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("content", func(t *testing.T) {
		setup(t)
		s := NewInteractionService(ctx, nil)
		_, err := s.PostComment(&PostCommentRequest{VideoID: 1, UserID: 1, Content: "   "})
		require.True(t, errors.Is(err, errno.ValidationErr))
		_, err = s.PostComment(&PostCommentRequest{VideoID: 1, UserID: 1, Content: strings.Repeat("长", 501)})
		require.True(t, errors.Is(err, errno.ValidationErr))
	})

	t.Run("guard rejects before db", func(t *testing.T) {
		setup(t)
		g := &fakeGuard{err: errno.TooManyRequestsErr}
		_, err := NewInteractionService(ctx, g).PostComment(&PostCommentRequest{VideoID: 1, UserID: 1, Content: "hi"})
		require.True(t, errors.Is(err, errno.TooManyRequestsErr))
		require.Empty(t, g.released)
	})

	t.Run("missing video", func(t *testing.T) {
		mock := setup(t)
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM `videos`")).
			WillReturnRows(countRows(0))
		mock.ExpectRollback()
		g := &fakeGuard{}
		_, err := NewInteractionService(ctx, g).PostComment(&PostCommentRequest{VideoID: 1, UserID: 1, Content: " hi "})
		require.True(t, errors.Is(err, errno.NotFoundErr))
		require.Equal(t, []string{"hi"}, g.released)
	})

	t.Run("missing parent", func(t *testing.T) {
		mock := setup(t)
		expectCommentPrelude(mock)
		mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `comments` WHERE id = ?")).
			WillReturnRows(sqlmock.NewRows(commentColumns))
		mock.ExpectRollback()
		parent := int64(77)
		_, err := NewInteractionService(ctx, nil).PostComment(&PostCommentRequest{VideoID: 5, UserID: 3, Content: "hi", ParentID: &parent})
		require.True(t, errors.Is(err, errno.InvalidReferenceErr))
		require.Contains(t, errno.ConvertErr(err).ErrMsg, "父评论不存在")
	})
}

func TestFailedPostCanBeResent(t *testing.T) {
	ctx := context.Background()
	mock := setup(t)
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	defer client.Close()
	s := NewInteractionService(ctx, redis.NewCommentGuard(client))

	expectCommentPrelude(mock)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `comments` WHERE id = ?")).
		WillReturnRows(sqlmock.NewRows(commentColumns))
	mock.ExpectRollback()
	parent := int64(77)
	_, err := s.PostComment(&PostCommentRequest{VideoID: 5, UserID: 3, Content: "hello", ParentID: &parent})
	require.True(t, errors.Is(err, errno.InvalidReferenceErr))

	expectCommentPrelude(mock)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `comments`")).
		WillReturnResult(sqlmock.NewResult(9, 1))
	mock.ExpectCommit()
	view, err := s.PostComment(&PostCommentRequest{VideoID: 5, UserID: 3, Content: "hello"})
	require.NoError(t, err)
	require.Equal(t, int64(9), view.ID)

	// 成功写入后重复内容仍被拦截
	_, err = s.PostComment(&PostCommentRequest{VideoID: 5, UserID: 3, Content: "hello"})
	require.True(t, errors.Is(err, errno.ValidationErr))
}

func TestListComments(t *testing.T) {
	mock := setup(t)
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM `videos` WHERE id = ?")).
		WillReturnRows(countRows(1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `comments` WHERE video_id = ? ORDER BY created_at ASC,id ASC")).
		WillReturnRows(sqlmock.NewRows(commentColumns).
			AddRow(1, "a", 3, 5, nil, nil, now).
			AddRow(2, "b", 3, 5, 1, 1, now.Add(time.Second)))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `users` WHERE `users`.`id`")).
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(3, "dave", "Dave"))

	res, err := NewInteractionService(context.Background(), nil).ListComments(5)
	require.NoError(t, err)
	require.Equal(t, int64(2), res.Total)
	require.Equal(t, int64(1), res.List[0].ID)
	require.Equal(t, "Dave", res.List[1].Author.Nickname)
}

func TestListThreadRequiresTopLevelRoot(t *testing.T) {
	mock := setup(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `comments` WHERE id = ?")).
		WillReturnRows(sqlmock.NewRows(commentColumns).AddRow(2, "b", 3, 5, 1, 1, time.Now()))
	_, err := NewInteractionService(context.Background(), nil).ListThread(5, 2)
	require.True(t, errors.Is(err, errno.ValidationErr))
}

func expectTogglePrelude(mock sqlmock.Sqlmock, table string, existing bool) {
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM `users` WHERE id = ?")).
		WillReturnRows(countRows(1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM `videos` WHERE id = ?")).
		WillReturnRows(countRows(1))
	rows := sqlmock.NewRows([]string{"id"})
	if existing {
		rows.AddRow(40)
	}
	mock.ExpectQuery(regexp.QuoteMeta("SELECT `id` FROM `"+table+"` WHERE user_id = ? AND video_id = ?") + ".*FOR UPDATE").
		WillReturnRows(rows)
}

func TestToggleTwiceRestoresState(t *testing.T) {
	mock := setup(t)
	s := NewInteractionService(context.Background(), nil)

	expectTogglePrelude(mock, "likes", false)
	mock.ExpectExec("SAVEPOINT sp").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `likes`")).
		WillReturnResult(sqlmock.NewResult(40, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM `likes` WHERE video_id = ?")).
		WillReturnRows(countRows(4))
	mock.ExpectCommit()

	first, err := s.Toggle(KindLike, 3, 5)
	require.NoError(t, err)
	require.Equal(t, &ToggleResult{Outcome: Activated, Active: true, Count: 4}, first)

	expectTogglePrelude(mock, "likes", true)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `likes` WHERE user_id = ? AND video_id = ?")).
		WithArgs(int64(3), int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM `likes` WHERE video_id = ?")).
		WillReturnRows(countRows(3))
	mock.ExpectCommit()

	second, err := s.Toggle(KindLike, 3, 5)
	require.NoError(t, err)
	require.Equal(t, &ToggleResult{Outcome: Deactivated, Active: false, Count: 3}, second)
}

func TestToggleRaceOnUniqueKey(t *testing.T) {
	mock := setup(t)

	expectTogglePrelude(mock, "collections", false)
	mock.ExpectExec("SAVEPOINT sp").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `collections`")).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry '3-5' for key 'unique_collection'"})
	mock.ExpectExec("ROLLBACK TO SAVEPOINT sp").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `collections` WHERE user_id = ? AND video_id = ?")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM `collections` WHERE video_id = ?")).
		WillReturnRows(countRows(0))
	mock.ExpectCommit()

	res, err := NewInteractionService(context.Background(), nil).Toggle(KindCollect, 3, 5)
	require.NoError(t, err)
	require.Equal(t, RaceRetried, res.Outcome)
	require.False(t, res.Active)
	require.Equal(t, int64(0), res.Count)
}

func TestToggleDeadlockRerunsOnce(t *testing.T) {
	mock := setup(t)

	// 第一次：插入时被 InnoDB 判定死锁，整个事务回滚
	expectTogglePrelude(mock, "likes", false)
	mock.ExpectExec("SAVEPOINT sp").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `likes`")).
		WillReturnError(&mysql.MySQLError{Number: 1213, Message: "Deadlock found when trying to get lock; try restarting transaction"})
	mock.ExpectExec("ROLLBACK TO SAVEPOINT sp").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	// 重跑：对方已提交，行存在
	expectTogglePrelude(mock, "likes", true)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `likes` WHERE user_id = ? AND video_id = ?")).
		WithArgs(int64(3), int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM `likes` WHERE video_id = ?")).
		WillReturnRows(countRows(0))
	mock.ExpectCommit()

	res, err := NewInteractionService(context.Background(), nil).Toggle(KindLike, 3, 5)
	require.NoError(t, err)
	require.Equal(t, &ToggleResult{Outcome: RaceRetried, Active: false, Count: 0}, res)
}

func TestToggleDeadlockTwiceSurfaces(t *testing.T) {
	mock := setup(t)
	for i := 0; i < 2; i++ {
		expectTogglePrelude(mock, "likes", false)
		mock.ExpectExec("SAVEPOINT sp").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `likes`")).
			WillReturnError(&mysql.MySQLError{Number: 1213})
		mock.ExpectExec("ROLLBACK TO SAVEPOINT sp").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()
	}

	_, err := NewInteractionService(context.Background(), nil).Toggle(KindLike, 3, 5)
	require.Error(t, err)
}

func TestToggleErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown kind", func(t *testing.T) {
		setup(t)
		_, err := NewInteractionService(ctx, nil).Toggle(Kind("share"), 1, 1)
		require.True(t, errors.Is(err, errno.ValidationErr))
	})

	t.Run("missing video rolls back", func(t *testing.T) {
		mock := setup(t)
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM `users`")).
			WillReturnRows(countRows(1))
		mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM `videos`")).
			WillReturnRows(countRows(0))
		mock.ExpectRollback()
		_, err := NewInteractionService(ctx, nil).Toggle(KindLike, 1, 9)
		require.True(t, errors.Is(err, errno.NotFoundErr))
	})

	t.Run("other insert errors surface", func(t *testing.T) {
		mock := setup(t)
		expectTogglePrelude(mock, "likes", false)
		mock.ExpectExec("SAVEPOINT sp").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `likes`")).
			WillReturnError(errors.New("connection reset"))
		mock.ExpectExec("ROLLBACK TO SAVEPOINT sp").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()
		_, err := NewInteractionService(ctx, nil).Toggle(KindLike, 3, 5)
		require.Error(t, err)
		require.True(t, errors.Is(errno.ConvertErr(err), errno.ServiceErr))
	})
}

func TestStatus(t *testing.T) {
	mock := setup(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM `videos` WHERE id = ?")).
		WillReturnRows(countRows(1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM `collections` WHERE user_id = ? AND video_id = ?")).
		WithArgs(int64(3), int64(5)).
		WillReturnRows(countRows(1))

	active, err := NewInteractionService(context.Background(), nil).Status(KindCollect, 3, 5)
	require.NoError(t, err)
	require.True(t, active)
}

func TestDanmaku(t *testing.T) {
	ctx := context.Background()

	t.Run("validation", func(t *testing.T) {
		for _, req := range []*PostDanmakuRequest{
			{Text: " "},
			{Text: strings.Repeat("弹", 101)},
			{Text: "hi", Time: -1},
			{Text: "hi", Mode: 3},
			{Text: "hi", Color: "red"},
		} {
			_, err := req.build()
			require.True(t, errors.Is(err, errno.ValidationErr), "%+v", req)
		}
	})

	t.Run("defaults color", func(t *testing.T) {
		mock := setup(t)
		mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM `videos` WHERE id = ?")).
			WillReturnRows(countRows(1))
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `danmaku`")).
			WillReturnResult(sqlmock.NewResult(9, 1))

		d, err := NewInteractionService(ctx, nil).PostDanmaku(&PostDanmakuRequest{VideoID: 5, UserID: 3, Text: " 前方高能 ", Time: 12.5, Mode: model.DanmakuTop})
		require.NoError(t, err)
		require.Equal(t, int64(9), d.ID)
		require.Equal(t, "前方高能", d.Text)
		require.Equal(t, "#FFFFFF", d.Color)
	})

	t.Run("list on missing video", func(t *testing.T) {
		mock := setup(t)
		mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM `videos` WHERE id = ?")).
			WillReturnRows(countRows(0))
		_, err := NewInteractionService(ctx, nil).ListDanmaku(5)
		require.True(t, errors.Is(err, errno.NotFoundErr))
	})
}
