package mysql

import (
	"context"
	"errors"

	"Lin_BookClub/internal/model"

	"gorm.io/gorm"
)

type PostLikeRepository struct {
	DB *gorm.DB
}

// Like 点赞。点赞行、计数、给作者的通知在同一个事务里落库：
// 要么全部成功要么全部回滚。重复点赞被 (user_id, post_id) 唯一键拒绝，
// 返回 changed=false，不产生第二条边。
func (r *PostLikeRepository) Like(ctx context.Context, userID, postID uint64) (bool, error) {
	var changed bool
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post model.Post
		if err := tx.First(&post, postID).Error; err != nil {
			return err
		}
		if err := tx.Create(&model.PostLike{UserID: userID, PostID: postID}).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// 已点过，幂等
				changed = false
				return nil
			}
			return err
		}
		changed = true
		if err := tx.Model(&model.Post{}).
			Where("id = ?", postID).
			UpdateColumn("like_count", gorm.Expr("like_count + 1")).Error; err != nil {
			return err
		}
		return notifyInTx(tx, post.AuthorID, userID, model.VerbLike, model.TargetPost, postID)
	})
	return changed, err
}

// Unlike 取消点赞，未点过则幂等返回
func (r *PostLikeRepository) Unlike(ctx context.Context, userID, postID uint64) (bool, error) {
	var changed bool
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND post_id = ?", userID, postID).
			Delete(&model.PostLike{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			changed = false
			return nil
		}
		changed = true
		// 计数防负数，残余误差由对账兜底
		return tx.Model(&model.Post{}).
			Where("id = ?", postID).
			UpdateColumn("like_count", gorm.Expr("CASE WHEN like_count > 0 THEN like_count - 1 ELSE 0 END")).
			Error
	})
	return changed, err
}

func (r *PostLikeRepository) IsLiked(ctx context.Context, userID, postID uint64) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).
		Model(&model.PostLike{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error
	return count > 0, err
}

func (r *PostLikeRepository) GetLikeCount(ctx context.Context, postID uint64) (int64, error) {
	var p model.Post
	err := r.DB.WithContext(ctx).Select("id", "like_count").First(&p, postID).Error
	if err != nil {
		return 0, err
	}
	return p.LikeCount, nil
}
