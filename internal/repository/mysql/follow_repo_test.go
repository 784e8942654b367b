package mysql

import (
	"context"
	"fmt"
	"testing"

	"Lin_BookClub/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func userCounts(t *testing.T, db *gorm.DB, id uint64) (following, followers int64) {
	t.Helper()
	var u model.User
	require.NoError(t, db.First(&u, id).Error)
	return u.FollowingCount, u.FollowerCount
}

func TestFollowLifecycle(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	follows := &FollowRepository{DB: db}

	changed, err := follows.Follow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, changed)

	// 重复关注幂等，计数只加一次
	changed, err = follows.Follow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, changed)

	following, _ := userCounts(t, db, alice.ID)
	_, followers := userCounts(t, db, bob.ID)
	assert.Equal(t, int64(1), following)
	assert.Equal(t, int64(1), followers)

	ok, err := follows.IsFollowing(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	// 关注方向是单向的
	ok, err = follows.IsFollowing(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	// 被关注者收到通知
	var notifs []model.Notification
	require.NoError(t, db.Where("recipient_id = ?", bob.ID).Find(&notifs).Error)
	require.Len(t, notifs, 1)
	assert.Equal(t, model.VerbFollow, notifs[0].Verb)
	assert.Equal(t, alice.ID, notifs[0].ActorID)

	changed, err = follows.Unfollow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = follows.Unfollow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, changed)

	following, _ = userCounts(t, db, alice.ID)
	_, followers = userCounts(t, db, bob.ID)
	assert.Zero(t, following)
	assert.Zero(t, followers)

	// 重新关注：边记录复用，仍只有一条
	changed, err = follows.Follow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, changed)
	var edges int64
	require.NoError(t, db.Model(&model.Follow{}).
		Where("follower_id = ? AND followee_id = ?", alice.ID, bob.ID).Count(&edges).Error)
	assert.Equal(t, int64(1), edges)
}

func TestListFollowingsAndFollowers(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	me := seedUser(t, db, "hub")
	follows := &FollowRepository{DB: db}

	for i := 0; i < 5; i++ {
		other := seedUser(t, db, fmt.Sprintf("peer%d", i))
		_, err := follows.Follow(ctx, me.ID, other.ID)
		require.NoError(t, err)
		_, err = follows.Follow(ctx, other.ID, me.ID)
		require.NoError(t, err)
	}

	page1, next, err := follows.ListFollowings(ctx, me.ID, 0, 3)
	require.NoError(t, err)
	require.Len(t, page1, 3)
	require.NotZero(t, next)

	page2, next2, err := follows.ListFollowings(ctx, me.ID, next, 3)
	require.NoError(t, err)
	assert.Len(t, page2, 2)
	assert.Zero(t, next2)

	fans, _, err := follows.ListFollowers(ctx, me.ID, 0, 10)
	require.NoError(t, err)
	assert.Len(t, fans, 5)
}

func TestReconcilerRepairsDriftedCounts(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	post := seedPost(t, db, bob.ID, "p")

	follows := &FollowRepository{DB: db}
	likes := &PostLikeRepository{DB: db}
	_, err := follows.Follow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	_, err = likes.Like(ctx, alice.ID, post.ID)
	require.NoError(t, err)

	// 人为制造漂移
	require.NoError(t, db.Model(&model.User{}).Where("id = ?", alice.ID).
		UpdateColumn("following_count", 99).Error)
	require.NoError(t, db.Model(&model.Post{}).Where("id = ?", post.ID).
		UpdateColumn("like_count", 42).Error)

	rec := &ReconcilerRepo{DB: db}

	users, _, err := rec.UserBatch(ctx, 100, 0)
	require.NoError(t, err)
	for _, u := range users {
		real, err := rec.RealFollowings(ctx, u.ID)
		require.NoError(t, err)
		if real != u.FollowingCount {
			require.NoError(t, rec.SetFollowingCount(ctx, u.ID, real))
		}
	}

	postPairs, _, err := rec.PostBatch(ctx, 100, 0)
	require.NoError(t, err)
	for _, p := range postPairs {
		real, err := rec.RealLikes(ctx, p.ID)
		require.NoError(t, err)
		if real != p.LikeCount {
			require.NoError(t, rec.SetLikeCount(ctx, p.ID, real))
		}
	}

	following, _ := userCounts(t, db, alice.ID)
	assert.Equal(t, int64(1), following)

	count, err := likes.GetLikeCount(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
