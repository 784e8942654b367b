package service

import (
	"context"

	"Lin_BookClub/internal/model"
	"Lin_BookClub/internal/pkg"
	"Lin_BookClub/internal/repository/mysql"

	"gorm.io/gorm"
)

type CommentService struct {
	repo *mysql.CommentRepository
}

func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{
		repo: &mysql.CommentRepository{DB: db},
	}
}

func (s *CommentService) CreateComment(ctx context.Context, actorID, postID uint64, content string) (*model.Comment, error) {
	if content == "" {
		return nil, pkg.NewError(pkg.KindValidation, "content required")
	}
	comment := &model.Comment{
		PostID:   postID,
		AuthorID: actorID,
		Content:  content,
	}
	if err := s.repo.Create(ctx, comment); err != nil {
		return nil, storeErr(err, "post not found", "")
	}
	return comment, nil
}

func (s *CommentService) ListByPost(postID uint64, page, size int) ([]model.Comment, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 50
	}
	list, err := s.repo.ListByPost(postID, (page-1)*size, size)
	if err != nil {
		return nil, pkg.WrapError(pkg.KindInternal, "list comments failed", err)
	}
	return list, nil
}

// UpdateComment 本人或管理员可改
func (s *CommentService) UpdateComment(actorID uint64, actorRole pkg.Role, id uint64, content string) (*model.Comment, error) {
	if content == "" {
		return nil, pkg.NewError(pkg.KindValidation, "content required")
	}
	comment, err := s.repo.FindByID(id)
	if err != nil {
		return nil, storeErr(err, "comment not found", "")
	}
	if d := pkg.OwnerOrRole(actorID, comment.AuthorID, actorRole, pkg.RoleAdmin); !d.Allowed {
		return nil, d.Forbidden()
	}
	if err = s.repo.UpdateContent(id, content); err != nil {
		return nil, pkg.WrapError(pkg.KindInternal, "update comment failed", err)
	}
	comment.Content = content
	return comment, nil
}

// DeleteComment 本人或管理员可删
func (s *CommentService) DeleteComment(actorID uint64, actorRole pkg.Role, id uint64) error {
	comment, err := s.repo.FindByID(id)
	if err != nil {
		return storeErr(err, "comment not found", "")
	}
	if d := pkg.OwnerOrRole(actorID, comment.AuthorID, actorRole, pkg.RoleAdmin); !d.Allowed {
		return d.Forbidden()
	}
	if _, err = s.repo.Delete(id); err != nil {
		return pkg.WrapError(pkg.KindInternal, "delete comment failed", err)
	}
	return nil
}
