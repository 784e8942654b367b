package mysql

import (
	"context"
	"encoding/json"
	"time"

	"Lin_BookClub/internal/model"

	"gorm.io/gorm"
)

type NotificationRepository struct {
	DB *gorm.DB
}

type OutboxRepository struct {
	DB *gorm.DB
}

// notifyInTx 在业务事务内写通知行；actor 对自己的动作不产生通知
func notifyInTx(tx *gorm.DB, recipientID, actorID uint64, verb, targetType string, targetID uint64) error {
	if recipientID == actorID {
		return nil
	}
	n := &model.Notification{
		RecipientID: recipientID,
		ActorID:     actorID,
		Verb:        verb,
		TargetType:  targetType,
		TargetID:    targetID,
	}
	if err := tx.Create(n).Error; err != nil {
		return err
	}
	return insertOutbox(tx, verb, actorID, recipientID, targetType, targetID)
}

// insertOutbox 写通知事件表，由 relayer 异步投递
func insertOutbox(tx *gorm.DB, verb string, actorID, recipientID uint64, targetType string, targetID uint64) error {
	payload, _ := json.Marshal(map[string]any{
		"event_time":  time.Now().UTC().Format(time.RFC3339Nano),
		"verb":        verb,
		"actor":       actorID,
		"recipient":   recipientID,
		"target_type": targetType,
		"target_id":   targetID,
	})
	ob := &model.NotificationOutbox{
		Verb:        verb,
		ActorID:     actorID,
		RecipientID: recipientID,
		Payload:     string(payload),
		Status:      0,
	}
	return tx.Create(ob).Error
}

// ListByRecipient 只返回本人的通知，时间倒序，游标分页
func (r *NotificationRepository) ListByRecipient(ctx context.Context, recipientID uint64, unreadOnly bool, cursor uint64, limit int) ([]model.Notification, uint64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	q := r.DB.WithContext(ctx).Model(&model.Notification{}).
		Where("recipient_id = ?", recipientID)
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}
	if cursor > 0 {
		q = q.Where("id < ?", cursor)
	}
	var rows []model.Notification
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

func (r *NotificationRepository) FindByID(ctx context.Context, id uint64) (*model.Notification, error) {
	var n model.Notification
	err := r.DB.WithContext(ctx).First(&n, id).Error
	return &n, err
}

// MarkRead 除已读标记外通知不可变
func (r *NotificationRepository) MarkRead(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.Notification{}).
		Where("id = ?", id).
		Update("is_read", true).Error
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, recipientID uint64) (int64, error) {
	res := r.DB.WithContext(ctx).Model(&model.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

// List outbox查询
func (r *OutboxRepository) List(ctx context.Context, batchSize int) ([]model.NotificationOutbox, error) {
	var list []model.NotificationOutbox
	if err := r.DB.WithContext(ctx).
		Where("status = 0").
		Order("id ASC").
		Limit(batchSize).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// RetryUpdate outbox记录消息失败重试
func (r *OutboxRepository) RetryUpdate(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.NotificationOutbox{}).Where("id = ?", id).
		Updates(map[string]any{"status": 2, "retry": gorm.Expr("retry + 1")}).Error
}

// SuccessUpdate outbox成功记录消息更新
func (r *OutboxRepository) SuccessUpdate(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.NotificationOutbox{}).Where("id = ?", id).
		Update("status", 1).Error
}
