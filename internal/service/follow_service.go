package service

import (
	"context"

	"Lin_BookClub/internal/model"
	"Lin_BookClub/internal/pkg"
	"Lin_BookClub/internal/repository/mysql"

	"gorm.io/gorm"
)

type FollowService struct {
	repo  *mysql.FollowRepository
	users *mysql.UserRepository
}

func NewFollowService(db *gorm.DB) *FollowService {
	return &FollowService{
		repo:  &mysql.FollowRepository{DB: db},
		users: &mysql.UserRepository{DB: db},
	}
}

// Follow 关注。对自己的关注请求按无操作处理，changed=false，不写任何边。
func (s *FollowService) Follow(ctx context.Context, followerID, followeeID uint64) (bool, error) {
	if followerID == 0 || followeeID == 0 {
		return false, pkg.NewError(pkg.KindValidation, "invalid user id")
	}
	if followerID == followeeID {
		return false, nil
	}
	if _, err := s.users.FindByID(followeeID); err != nil {
		return false, storeErr(err, "user not found", "")
	}
	changed, err := s.repo.Follow(ctx, followerID, followeeID)
	if err != nil {
		return false, pkg.WrapError(pkg.KindInternal, "follow failed", err)
	}
	return changed, nil
}

func (s *FollowService) Unfollow(ctx context.Context, followerID, followeeID uint64) (bool, error) {
	if followerID == 0 || followeeID == 0 {
		return false, pkg.NewError(pkg.KindValidation, "invalid user id")
	}
	if followerID == followeeID {
		return false, nil
	}
	changed, err := s.repo.Unfollow(ctx, followerID, followeeID)
	if err != nil {
		return false, pkg.WrapError(pkg.KindInternal, "unfollow failed", err)
	}
	return changed, nil
}

func (s *FollowService) IsFollowing(ctx context.Context, followerID, followeeID uint64) (bool, error) {
	if followerID == 0 || followeeID == 0 {
		return false, pkg.NewError(pkg.KindValidation, "invalid user id")
	}
	ok, err := s.repo.IsFollowing(ctx, followerID, followeeID)
	if err != nil {
		return false, pkg.WrapError(pkg.KindInternal, "relation query failed", err)
	}
	return ok, nil
}

func (s *FollowService) ListFollowings(ctx context.Context, userID uint64, cursor uint64, limit int) ([]model.Follow, uint64, error) {
	return s.repo.ListFollowings(ctx, userID, cursor, limit)
}

func (s *FollowService) ListFollowers(ctx context.Context, userID uint64, cursor uint64, limit int) ([]model.Follow, uint64, error) {
	return s.repo.ListFollowers(ctx, userID, cursor, limit)
}
