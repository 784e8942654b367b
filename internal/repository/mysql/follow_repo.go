package mysql

import (
	"context"
	"errors"

	"Lin_BookClub/internal/model"

	"gorm.io/gorm"
)

type FollowRepository struct {
	DB *gorm.DB
}

type ReconcilerRepo struct {
	DB *gorm.DB
}

// UserCountPair 对账消息结构体
type UserCountPair struct {
	ID             uint64
	FollowingCount int64
	FollowerCount  int64
}

type PostCountPair struct {
	ID        uint64
	LikeCount int64
}

// Follow 设置关系为关注（幂等）。状态从未关注切换为已关注时返回 changed=true。
// 并发下的重复插入由 (follower_id, followee_id) 唯一键兜底。
func (r *FollowRepository) Follow(ctx context.Context, followerID, followeeID uint64) (bool, error) {
	var changed bool
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rel model.Follow
		if err := tx.Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
			First(&rel).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			rel = model.Follow{FollowerID: followerID, FolloweeID: followeeID, Status: 1}
			if err = tx.Create(&rel).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					// 并发请求先到了一步，视为已关注
					changed = false
					return nil
				}
				return err
			}
			changed = true
			if err = adjustFollowCounts(tx, followerID, followeeID, +1); err != nil {
				return err
			}
			return notifyInTx(tx, followeeID, followerID, model.VerbFollow, model.TargetUser, followerID)
		}
		// 幂等：区分重复请求和重新关注
		if rel.Status == 1 {
			changed = false
			return nil
		}
		if err := tx.Model(&model.Follow{}).
			Where("id = ? AND status = 0", rel.ID).
			Update("status", 1).Error; err != nil {
			return err
		}
		changed = true
		if err := adjustFollowCounts(tx, followerID, followeeID, +1); err != nil {
			return err
		}
		return notifyInTx(tx, followeeID, followerID, model.VerbFollow, model.TargetUser, followerID)
	})
	return changed, err
}

// Unfollow 解除关注（幂等）
func (r *FollowRepository) Unfollow(ctx context.Context, followerID, followeeID uint64) (bool, error) {
	var changed bool
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rel model.Follow
		if err := tx.Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
			First(&rel).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				changed = false
				return nil
			}
			return err
		}
		if rel.Status == 0 {
			changed = false
			return nil
		}
		if err := tx.Model(&model.Follow{}).
			Where("id = ? AND status = 1", rel.ID).
			Update("status", 0).Error; err != nil {
			return err
		}
		changed = true
		if err := adjustFollowCounts(tx, followerID, followeeID, -1); err != nil {
			return err
		}
		// 取关不产生通知，只发事件
		return insertOutbox(tx, "unfollow", followerID, followeeID, model.TargetUser, followerID)
	})
	return changed, err
}

// IsFollowing 判断是否关注
func (r *FollowRepository) IsFollowing(ctx context.Context, followerID, followeeID uint64) (bool, error) {
	var n int64
	if err := r.DB.WithContext(ctx).
		Model(&model.Follow{}).
		Where("follower_id = ? AND followee_id = ? AND status = 1", followerID, followeeID).
		Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListFollowings 获取关注列表
func (r *FollowRepository) ListFollowings(ctx context.Context, userID uint64, cursor uint64, limit int) ([]model.Follow, uint64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	q := r.DB.WithContext(ctx).Model(&model.Follow{}).
		Where("follower_id = ? AND status = 1", userID)
	if cursor > 0 {
		q = q.Where("id < ?", cursor)
	}
	var rows []model.Follow
	// limit+1 是为了判断是否还有下一页
	if err := q.Order("id DESC").Limit(limit + 1).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	var next uint64
	if len(rows) > limit {
		next = rows[limit-1].ID
		rows = rows[:limit]
	}
	return rows, next, nil
}

// ListFollowers 获取粉丝列表
func (r *FollowRepository) ListFollowers(ctx context.Context, userID uint64, cursor uint64, limit int) ([]model.Follow, uint64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	q := r.DB.WithContext(ctx).Model(&model.Follow{}).
		Where("followee_id = ? AND status = 1", userID)
	if cursor > 0 {
		q = q.Where("id < ?", cursor)
	}
	var rows []model.Follow
	if err := q.Order("id DESC").Limit(limit + 1).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	var next uint64
	if len(rows) > limit {
		next = rows[limit-1].ID
		rows = rows[:limit]
	}
	return rows, next, nil
}

// adjustFollowCounts 同步调整双方的冗余计数，减法防负数
func adjustFollowCounts(tx *gorm.DB, followerID, followeeID uint64, delta int64) error {
	followingExpr := gorm.Expr("following_count + ?", delta)
	followerExpr := gorm.Expr("follower_count + ?", delta)
	if delta < 0 {
		followingExpr = gorm.Expr("CASE WHEN following_count > 0 THEN following_count - 1 ELSE 0 END")
		followerExpr = gorm.Expr("CASE WHEN follower_count > 0 THEN follower_count - 1 ELSE 0 END")
	}
	if err := tx.Model(&model.User{}).
		Where("id = ?", followerID).
		UpdateColumn("following_count", followingExpr).Error; err != nil {
		return err
	}
	return tx.Model(&model.User{}).
		Where("id = ?", followeeID).
		UpdateColumn("follower_count", followerExpr).Error
}

// UserBatch 对账用户批量查询
func (r *ReconcilerRepo) UserBatch(ctx context.Context, batchSize int, lastID uint64) ([]UserCountPair, uint64, error) {
	var list []UserCountPair
	if err := r.DB.WithContext(ctx).Model(&model.User{}).
		Select("id", "following_count", "follower_count").
		Where("id > ?", lastID).
		Order("id ASC").
		Limit(batchSize).
		Find(&list).Error; err != nil {
		return nil, lastID, err
	}
	if len(list) == 0 {
		return nil, lastID, nil
	}
	return list, list[len(list)-1].ID, nil
}

// RealFollowings 真实关注数查询
func (r *ReconcilerRepo) RealFollowings(ctx context.Context, userID uint64) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.Follow{}).
		Where("follower_id = ? AND status = 1", userID).
		Count(&n).Error
	return n, err
}

// RealFollowers 真实粉丝数查询
func (r *ReconcilerRepo) RealFollowers(ctx context.Context, userID uint64) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.Follow{}).
		Where("followee_id = ? AND status = 1", userID).
		Count(&n).Error
	return n, err
}

func (r *ReconcilerRepo) SetFollowingCount(ctx context.Context, userID uint64, n int64) error {
	return r.DB.WithContext(ctx).Model(&model.User{}).Where("id = ?", userID).
		UpdateColumn("following_count", n).Error
}

func (r *ReconcilerRepo) SetFollowerCount(ctx context.Context, userID uint64, n int64) error {
	return r.DB.WithContext(ctx).Model(&model.User{}).Where("id = ?", userID).
		UpdateColumn("follower_count", n).Error
}

// PostBatch 帖子点赞计数对账批量查询
func (r *ReconcilerRepo) PostBatch(ctx context.Context, batchSize int, lastID uint64) ([]PostCountPair, uint64, error) {
	var list []PostCountPair
	if err := r.DB.WithContext(ctx).Model(&model.Post{}).
		Select("id", "like_count").
		Where("id > ?", lastID).
		Order("id ASC").
		Limit(batchSize).
		Find(&list).Error; err != nil {
		return nil, lastID, err
	}
	if len(list) == 0 {
		return nil, lastID, nil
	}
	return list, list[len(list)-1].ID, nil
}

func (r *ReconcilerRepo) RealLikes(ctx context.Context, postID uint64) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.PostLike{}).
		Where("post_id = ?", postID).
		Count(&n).Error
	return n, err
}

func (r *ReconcilerRepo) SetLikeCount(ctx context.Context, postID uint64, n int64) error {
	return r.DB.WithContext(ctx).Model(&model.Post{}).Where("id = ?", postID).
		UpdateColumn("like_count", n).Error
}
