package mysql

import (
	"context"
	"errors"
	"testing"
	"time"

	"Lin_BookClub/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// seedPostAt 控制 created_at，方便构造时间线
func seedPostAt(t *testing.T, db *gorm.DB, authorID uint64, title string, at time.Time) *model.Post {
	t.Helper()
	p := seedPost(t, db, authorID, title)
	require.NoError(t, db.Model(p).UpdateColumn("created_at", at).Error)
	p.CreatedAt = at
	return p
}

func TestListCursorPagination(t *testing.T) {
	db := testDB(t)
	u := seedUser(t, db, "writer")
	posts := &PostRepository{DB: db}

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		seedPostAt(t, db, u.ID, "post", base.Add(time.Duration(i)*time.Minute))
	}

	page1, err := posts.ListCursor("", 0, time.Time{}, 2)
	require.NoError(t, err)
	require.Len(t, page1, 2)
	assert.True(t, page1[0].CreatedAt.After(page1[1].CreatedAt))

	last := page1[len(page1)-1]
	page2, err := posts.ListCursor("", last.ID, last.CreatedAt, 2)
	require.NoError(t, err)
	require.Len(t, page2, 2)
	assert.True(t, page2[0].CreatedAt.Before(last.CreatedAt) ||
		(page2[0].CreatedAt.Equal(last.CreatedAt) && page2[0].ID < last.ID))

	last = page2[len(page2)-1]
	page3, err := posts.ListCursor("", last.ID, last.CreatedAt, 2)
	require.NoError(t, err)
	assert.Len(t, page3, 1)
}

func TestListCursorTieBreakOnSameTimestamp(t *testing.T) {
	db := testDB(t)
	u := seedUser(t, db, "writer")
	posts := &PostRepository{DB: db}

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		seedPostAt(t, db, u.ID, "same-second", at)
	}

	page1, err := posts.ListCursor("", 0, time.Time{}, 2)
	require.NoError(t, err)
	require.Len(t, page1, 2)
	assert.Greater(t, page1[0].ID, page1[1].ID)

	last := page1[1]
	page2, err := posts.ListCursor("", last.ID, last.CreatedAt, 2)
	require.NoError(t, err)
	require.Len(t, page2, 1)
	assert.Less(t, page2[0].ID, last.ID)
}

func TestListCursorSearch(t *testing.T) {
	db := testDB(t)
	u := seedUser(t, db, "writer")
	posts := &PostRepository{DB: db}

	seedPost(t, db, u.ID, "gophers at work")
	seedPost(t, db, u.ID, "cats at rest")

	list, err := posts.ListCursor("gopher", 0, time.Time{}, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "gophers at work", list[0].Title)
}

func TestFeedOnlyFollowedAuthors(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	me := seedUser(t, db, "me")
	friend := seedUser(t, db, "friend")
	stranger := seedUser(t, db, "stranger")

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	seedPostAt(t, db, friend.ID, "from friend old", base)
	seedPostAt(t, db, friend.ID, "from friend new", base.Add(time.Hour))
	seedPostAt(t, db, stranger.ID, "from stranger", base.Add(2*time.Hour))

	follows := &FollowRepository{DB: db}
	_, err := follows.Follow(ctx, me.ID, friend.ID)
	require.NoError(t, err)

	posts := &PostRepository{DB: db}
	feed, err := posts.Feed(ctx, me.ID, 0, time.Time{}, 10)
	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.Equal(t, "from friend new", feed[0].Title)
	assert.Equal(t, "from friend old", feed[1].Title)

	// 取关后 feed 清空
	_, err = follows.Unfollow(ctx, me.ID, friend.ID)
	require.NoError(t, err)
	feed, err = posts.Feed(ctx, me.ID, 0, time.Time{}, 10)
	require.NoError(t, err)
	assert.Empty(t, feed)
}

func TestPostDeleteCascade(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	author := seedUser(t, db, "author")
	fan := seedUser(t, db, "fan")
	post := seedPost(t, db, author.ID, "doomed")

	require.NoError(t, db.Create(&model.Comment{PostID: post.ID, AuthorID: fan.ID, Content: "nice"}).Error)
	likes := &PostLikeRepository{DB: db}
	_, err := likes.Like(ctx, fan.ID, post.ID)
	require.NoError(t, err)

	posts := &PostRepository{DB: db}
	require.NoError(t, posts.DeleteCascade(ctx, post.ID))

	for _, m := range []any{&model.Comment{}, &model.PostLike{}} {
		var n int64
		require.NoError(t, db.Model(m).Where("post_id = ?", post.ID).Count(&n).Error)
		assert.Zero(t, n)
	}
	var n int64
	require.NoError(t, db.Model(&model.Notification{}).
		Where("target_type = ? AND target_id = ?", model.TargetPost, post.ID).Count(&n).Error)
	assert.Zero(t, n)

	err = posts.DeleteCascade(ctx, post.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}
