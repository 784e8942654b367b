package mysql

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"Lin_BookClub/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCommentCreateNotifiesAuthor(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	author := seedUser(t, db, "author")
	reader := seedUser(t, db, "reader")
	post := seedPost(t, db, author.ID, "discuss")

	comments := &CommentRepository{DB: db}
	c := &model.Comment{PostID: post.ID, AuthorID: reader.ID, Content: "first"}
	require.NoError(t, comments.Create(ctx, c))
	require.NotZero(t, c.ID)

	var notifs []model.Notification
	require.NoError(t, db.Where("recipient_id = ?", author.ID).Find(&notifs).Error)
	require.Len(t, notifs, 1)
	assert.Equal(t, model.VerbComment, notifs[0].Verb)
	assert.Equal(t, post.ID, notifs[0].TargetID)

	// 评论自己的帖子不通知自己
	require.NoError(t, comments.Create(ctx, &model.Comment{PostID: post.ID, AuthorID: author.ID, Content: "self"}))
	var n int64
	require.NoError(t, db.Model(&model.Notification{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestCommentCreateMissingPost(t *testing.T) {
	db := testDB(t)
	reader := seedUser(t, db, "reader")

	comments := &CommentRepository{DB: db}
	err := comments.Create(context.Background(), &model.Comment{PostID: 999, AuthorID: reader.ID, Content: "x"})
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	var n int64
	require.NoError(t, db.Model(&model.Comment{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestCommentListOrderedOldestFirst(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	author := seedUser(t, db, "author")
	post := seedPost(t, db, author.ID, "discuss")

	comments := &CommentRepository{DB: db}
	for i := 0; i < 3; i++ {
		require.NoError(t, comments.Create(ctx, &model.Comment{
			PostID: post.ID, AuthorID: author.ID, Content: fmt.Sprintf("c%d", i),
		}))
	}

	list, err := comments.ListByPost(post.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "c0", list[0].Content)
	assert.Equal(t, "c2", list[2].Content)

	list, err = comments.ListByPost(post.ID, 1, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "c1", list[0].Content)
}
