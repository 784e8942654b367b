package mysql

import (
	"context"
	"time"

	"Lin_BookClub/internal/model"

	"gorm.io/gorm"
)

type PostRepository struct {
	DB *gorm.DB
}

func (r *PostRepository) Create(post *model.Post) error {
	return r.DB.Create(post).Error
}

func (r *PostRepository) FindByID(id uint64) (*model.Post, error) {
	var post model.Post
	err := r.DB.First(&post, id).Error
	return &post, err
}

// Update 只允许 title/content/tags；author_id 建帖后不可变
func (r *PostRepository) Update(id uint64, updates map[string]any) error {
	return r.DB.Model(&model.Post{}).Where("id = ?", id).Updates(updates).Error
}

// ListCursor 基于 (created_at, id) 游标的查询；lastCreatedAt 零值表示第一页
func (r *PostRepository) ListCursor(search string, lastID uint64, lastCreatedAt time.Time, limit int) ([]model.Post, error) {
	q := r.DB.Model(&model.Post{})
	if search != "" {
		like := "%" + search + "%"
		q = q.Where("title LIKE ? OR content LIKE ?", like, like)
	}
	if !lastCreatedAt.IsZero() {
		// 先比时间，再在同一时间点用 id 打破并列
		q = q.Where("(created_at < ? OR (created_at = ? AND id < ?))", lastCreatedAt, lastCreatedAt, lastID)
	}
	var list []model.Post
	err := q.Order("created_at DESC, id DESC").Limit(limit).Find(&list).Error
	return list, err
}

// Feed 关注流：只取关注对象的帖子，时间倒序
func (r *PostRepository) Feed(ctx context.Context, userID uint64, lastID uint64, lastCreatedAt time.Time, limit int) ([]model.Post, error) {
	q := r.DB.WithContext(ctx).Model(&model.Post{}).
		Where("author_id IN (?)",
			r.DB.Model(&model.Follow{}).Select("followee_id").
				Where("follower_id = ? AND status = 1", userID))
	if !lastCreatedAt.IsZero() {
		q = q.Where("(created_at < ? OR (created_at = ? AND id < ?))", lastCreatedAt, lastCreatedAt, lastID)
	}
	var list []model.Post
	err := q.Order("created_at DESC, id DESC").Limit(limit).Find(&list).Error
	return list, err
}

// DeleteCascade 删除帖子并级联清掉评论、点赞和指向它的通知，不留孤儿行
func (r *PostRepository) DeleteCascade(ctx context.Context, postID uint64) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", postID).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", postID).Delete(&model.PostLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("target_type = ? AND target_id = ?", model.TargetPost, postID).
			Delete(&model.Notification{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Post{}, postID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
