package mysql

import (
	"context"

	"Lin_BookClub/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func (r *UserRepository) Create(user *model.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) FindByUsername(username string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("username = ? OR email = ?", username, username).First(&user).Error
	return &user, err
}

func (r *UserRepository) FindByID(id uint64) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, id).Error
	return &user, err
}

func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var usr model.User
	err := r.DB.Where("email = ?", email).First(&usr).Error
	return &usr, err
}

func (r *UserRepository) UpdatePassword(user *model.User, newPassword string) error {
	return r.DB.Model(user).Update("password", newPassword).Error
}

func (r *UserRepository) UpdateProfile(id uint64, updates map[string]any) error {
	return r.DB.Model(&model.User{}).Where("id = ?", id).Updates(updates).Error
}

// DeleteCascade 删除用户及其全部从属数据：帖子（连同帖子的评论/点赞/通知）、
// 本人发出的评论和点赞、两个方向的关注边、相关通知。
// 其他帖子的 like_count 余量交给对账任务修正。
func (r *UserRepository) DeleteCascade(ctx context.Context, userID uint64) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var postIDs []uint64
		if err := tx.Model(&model.Post{}).Where("author_id = ?", userID).
			Pluck("id", &postIDs).Error; err != nil {
			return err
		}
		if len(postIDs) > 0 {
			if err := tx.Where("post_id IN ?", postIDs).Delete(&model.Comment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("post_id IN ?", postIDs).Delete(&model.PostLike{}).Error; err != nil {
				return err
			}
			if err := tx.Where("target_type = ? AND target_id IN ?", model.TargetPost, postIDs).
				Delete(&model.Notification{}).Error; err != nil {
				return err
			}
			if err := tx.Where("author_id = ?", userID).Delete(&model.Post{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("author_id = ?", userID).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&model.PostLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("follower_id = ? OR followee_id = ?", userID, userID).
			Delete(&model.Follow{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipient_id = ? OR actor_id = ?", userID, userID).
			Delete(&model.Notification{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.User{}, userID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
