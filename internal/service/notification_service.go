package service

import (
	"context"
	"log"
	"time"

	"Lin_BookClub/internal/model"
	"Lin_BookClub/internal/pkg"
	"Lin_BookClub/internal/repository/mysql"

	"gorm.io/gorm"
)

type NotificationService struct {
	repo *mysql.NotificationRepository
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{
		repo: &mysql.NotificationRepository{DB: db},
	}
}

// List 只返回本人的通知
func (s *NotificationService) List(ctx context.Context, userID uint64, unreadOnly bool, cursor uint64, limit int) ([]model.Notification, uint64, error) {
	return s.repo.ListByRecipient(ctx, userID, unreadOnly, cursor, limit)
}

// MarkRead 只有接收者能标记已读
func (s *NotificationService) MarkRead(ctx context.Context, actorID, id uint64) error {
	n, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return storeErr(err, "notification not found", "")
	}
	if n.RecipientID != actorID {
		return pkg.NewError(pkg.KindForbidden, "not the recipient")
	}
	if err = s.repo.MarkRead(ctx, id); err != nil {
		return pkg.WrapError(pkg.KindInternal, "mark read failed", err)
	}
	return nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID uint64) (int64, error) {
	n, err := s.repo.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, pkg.WrapError(pkg.KindInternal, "mark all read failed", err)
	}
	return n, nil
}

type Sender func(ctx context.Context, ob *model.NotificationOutbox) error

// OutboxRelayer 把 outbox 里的通知事件异步投递出去
type OutboxRelayer struct {
	repo      *mysql.OutboxRepository
	batchSize int
	interval  time.Duration
	sender    Sender
}

func NewOutboxRelayer(db *gorm.DB, sender Sender) *OutboxRelayer {
	return &OutboxRelayer{
		repo:      &mysql.OutboxRepository{DB: db},
		batchSize: 200,
		interval:  time.Second,
		sender:    sender,
	}
}

// Run outbox启动器
func (r *OutboxRelayer) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.drainOnce(ctx)
		}
	}
}

// drainOnce 按批读取待投递事件并发送，失败的记失败并累加重试数
func (r *OutboxRelayer) drainOnce(ctx context.Context) {
	rows, err := r.repo.List(ctx, r.batchSize)
	if err != nil {
		log.Printf("outbox query err: %v", err)
		return
	}
	for i := range rows {
		ob := rows[i]
		if err = r.sender(ctx, &ob); err != nil {
			_ = r.repo.RetryUpdate(ctx, ob.ID)
			continue
		}
		_ = r.repo.SuccessUpdate(ctx, ob.ID)
	}
}

// LogSender 没配 Kafka 时的降级 sender：只打日志
func LogSender(ctx context.Context, ob *model.NotificationOutbox) error {
	log.Printf("OUTBOX SEND verb=%s actor=%d recipient=%d payload=%s", ob.Verb, ob.ActorID, ob.RecipientID, ob.Payload)
	return nil
}

// KafkaSender 事件经 NotificationProducer 投递，分区键在 producer 里定
func KafkaSender(p *pkg.NotificationProducer) Sender {
	return func(ctx context.Context, ob *model.NotificationOutbox) error {
		return p.Publish(ctx, ob.RecipientID, []byte(ob.Payload))
	}
}

// CountReconciler 冗余计数对账：修正关注/粉丝数和帖子点赞数的漂移
type CountReconciler struct {
	repo      *mysql.ReconcilerRepo
	batchSize int
	interval  time.Duration
}

func NewCountReconciler(db *gorm.DB) *CountReconciler {
	return &CountReconciler{
		repo:      &mysql.ReconcilerRepo{DB: db},
		batchSize: 500,
		interval:  5 * time.Minute,
	}
}

// Run 对账定时任务启动器
func (r *CountReconciler) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.ReconcileOnce(ctx)
		}
	}
}

// ReconcileOnce 全量扫一遍用户和帖子，按批推进游标
func (r *CountReconciler) ReconcileOnce(ctx context.Context) {
	var lastID uint64
	for {
		users, next, err := r.repo.UserBatch(ctx, r.batchSize, lastID)
		if err != nil {
			log.Printf("reconcile user batch err: %v", err)
			return
		}
		if len(users) == 0 {
			break
		}
		lastID = next
		for _, u := range users {
			realFollowing, err := r.repo.RealFollowings(ctx, u.ID)
			if err != nil {
				continue
			}
			realFollower, err := r.repo.RealFollowers(ctx, u.ID)
			if err != nil {
				continue
			}
			if realFollowing != u.FollowingCount {
				_ = r.repo.SetFollowingCount(ctx, u.ID, realFollowing)
			}
			if realFollower != u.FollowerCount {
				_ = r.repo.SetFollowerCount(ctx, u.ID, realFollower)
			}
		}
	}

	lastID = 0
	for {
		posts, next, err := r.repo.PostBatch(ctx, r.batchSize, lastID)
		if err != nil {
			log.Printf("reconcile post batch err: %v", err)
			return
		}
		if len(posts) == 0 {
			break
		}
		lastID = next
		for _, p := range posts {
			real, err := r.repo.RealLikes(ctx, p.ID)
			if err != nil {
				continue
			}
			if real != p.LikeCount {
				_ = r.repo.SetLikeCount(ctx, p.ID, real)
			}
		}
	}
}
