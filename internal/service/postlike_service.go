package service

import (
	"context"
	"fmt"
	"time"

	"Lin_BookClub/internal/pkg"
	"Lin_BookClub/internal/repository/mysql"
	"Lin_BookClub/internal/repository/redis"

	"gorm.io/gorm"
)

type PostLikeService struct {
	repo      *mysql.PostLikeRepository
	likeCache *redis.LikeCacheRepository
	lock      *redis.DistLock
}

func NewPostLikeService(db *gorm.DB) *PostLikeService {
	return &PostLikeService{
		repo:      &mysql.PostLikeRepository{DB: db},
		likeCache: redis.NewLikeCacheRepository(),
		lock:      &redis.DistLock{},
	}
}

// Like 先写库（点赞行+计数+通知同事务），缓存只做尽力而为的加速。
// changed=false 表示重复点赞，由 handler 映射为 "already liked"。
func (s *PostLikeService) Like(ctx context.Context, userID, postID uint64) (bool, error) {
	if userID == 0 || postID == 0 {
		return false, pkg.NewError(pkg.KindValidation, "invalid id")
	}

	changed, err := s.repo.Like(ctx, userID, postID)
	if err != nil {
		return false, storeErr(err, "post not found", "already liked")
	}
	if !changed {
		// 幂等命中，惰性回填集合（不创建新集合）
		s.likeCache.WarmIsLiked(ctx, userID, postID, true)
		return false, nil
	}

	// 集合可直接更新（不强制），失败忽略
	_ = s.likeCache.AddLike(ctx, userID, postID)

	// 计数缓存：拿到锁则回源校准，拿不到就删Key交给读侧重建
	token := fmt.Sprintf("%d-%d-%d", userID, postID, time.Now().UnixNano())
	got, _ := s.lock.Acquire(ctx, postID, token)
	if got {
		defer func() { _ = s.lock.Release(ctx, postID, token) }()
		if cnt, err := s.repo.GetLikeCount(ctx, postID); err == nil {
			_ = s.likeCache.SetLikeCount(ctx, postID, cnt)
		} else {
			_ = s.likeCache.DeleteCount(ctx, postID)
		}
	} else {
		_ = s.likeCache.DeleteCount(ctx, postID)
	}
	return true, nil
}

// Unlike 同样先写库，再维护缓存
func (s *PostLikeService) Unlike(ctx context.Context, userID, postID uint64) (bool, error) {
	if userID == 0 || postID == 0 {
		return false, pkg.NewError(pkg.KindValidation, "invalid id")
	}
	changed, err := s.repo.Unlike(ctx, userID, postID)
	if err != nil {
		return false, storeErr(err, "post not found", "")
	}
	if !changed {
		s.likeCache.WarmIsLiked(ctx, userID, postID, false)
		return false, nil
	}

	_ = s.likeCache.RemoveLike(ctx, userID, postID)

	token := fmt.Sprintf("%d-%d-%d", userID, postID, time.Now().UnixNano())
	got, _ := s.lock.Acquire(ctx, postID, token)
	if got {
		defer func() { _ = s.lock.Release(ctx, postID, token) }()
		if cnt, err := s.repo.GetLikeCount(ctx, postID); err == nil {
			_ = s.likeCache.SetLikeCount(ctx, postID, cnt)
		} else {
			_ = s.likeCache.DeleteCount(ctx, postID)
		}
	} else {
		_ = s.likeCache.DeleteCount(ctx, postID)
	}
	return true, nil
}

// IsLiked 先问缓存，miss再回源并惰性回填
func (s *PostLikeService) IsLiked(ctx context.Context, userID, postID uint64) (bool, error) {
	if b, hit, err := s.likeCache.IsLikedCached(ctx, userID, postID); err == nil && hit {
		return b, nil
	}
	b, err := s.repo.IsLiked(ctx, userID, postID)
	if err != nil {
		return false, storeErr(err, "post not found", "")
	}
	s.likeCache.WarmIsLiked(ctx, userID, postID, b)
	return b, nil
}

// GetCountWithLock 点赞数查询：缓存miss时用锁做单兵回源，防止击穿
func (s *PostLikeService) GetCountWithLock(ctx context.Context, userID, postID uint64) (int64, error) {
	if v, ok, err := s.likeCache.GetLikeCountCached(ctx, postID); err == nil && ok {
		return v, nil
	}
	token := fmt.Sprintf("%d-%d-%d", userID, postID, time.Now().UnixNano())
	got, _ := s.lock.Acquire(ctx, postID, token)

	if got {
		defer func() { _ = s.lock.Release(ctx, postID, token) }()

		// 双检
		if v, ok, err := s.likeCache.GetLikeCountCached(ctx, postID); err == nil && ok {
			return v, nil
		}

		v, err := s.repo.GetLikeCount(ctx, postID)
		if err != nil {
			return 0, storeErr(err, "post not found", "")
		}
		_ = s.likeCache.SetLikeCount(ctx, postID, v)
		return v, nil
	}

	// 没拿到锁，短暂退避后再读一次缓存，避免全体打DB
	time.Sleep(50 * time.Millisecond)
	if v, ok, err := s.likeCache.GetLikeCountCached(ctx, postID); err == nil && ok {
		return v, nil
	}

	v, err := s.repo.GetLikeCount(ctx, postID)
	if err != nil {
		return 0, storeErr(err, "post not found", "")
	}
	return v, nil
}
