package mysql

import (
	"context"

	"Lin_BookClub/internal/model"

	"gorm.io/gorm"
)

type CommentRepository struct {
	DB *gorm.DB
}

// Create 评论与给帖子作者的通知同事务落库
func (r *CommentRepository) Create(ctx context.Context, comment *model.Comment) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post model.Post
		if err := tx.First(&post, comment.PostID).Error; err != nil {
			return err
		}
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		return notifyInTx(tx, post.AuthorID, comment.AuthorID, model.VerbComment, model.TargetPost, comment.PostID)
	})
}

func (r *CommentRepository) FindByID(id uint64) (*model.Comment, error) {
	var comment model.Comment
	err := r.DB.First(&comment, id).Error
	return &comment, err
}

func (r *CommentRepository) ListByPost(postID uint64, offset, limit int) ([]model.Comment, error) {
	var list []model.Comment
	err := r.DB.Where("post_id = ?", postID).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&list).Error
	return list, err
}

func (r *CommentRepository) UpdateContent(id uint64, content string) error {
	return r.DB.Model(&model.Comment{}).Where("id = ?", id).
		Update("content", content).Error
}

func (r *CommentRepository) Delete(id uint64) (int64, error) {
	res := r.DB.Delete(&model.Comment{}, id)
	return res.RowsAffected, res.Error
}
