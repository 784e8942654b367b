package model

import "time"

const (
	VerbLike    = "like"
	VerbFollow  = "follow"
	VerbComment = "comment"

	TargetPost = "post"
	TargetUser = "user"
)

type Notification struct {
	ID          uint64    `gorm:"primaryKey" json:"id"`
	RecipientID uint64    `gorm:"not null;index:idx_recipient_time" json:"recipient_id"`
	ActorID     uint64    `gorm:"not null;index" json:"actor_id"`
	Verb        string    `gorm:"size:16;not null" json:"verb"` // like / follow / comment
	TargetType  string    `gorm:"size:16;not null" json:"target_type"`
	TargetID    uint64    `gorm:"not null" json:"target_id"`
	IsRead      bool      `gorm:"not null;default:false;index" json:"is_read"`
	CreatedAt   time.Time `gorm:"index:idx_recipient_time" json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }

// NotificationOutbox 通知事件监控表
type NotificationOutbox struct {
	ID          uint64 `gorm:"primaryKey"`
	Verb        string `gorm:"size:16;not null"`
	ActorID     uint64 `gorm:"not null"`
	RecipientID uint64 `gorm:"not null"`
	Payload     string `gorm:"type:text;not null"`
	Status      int8   `gorm:"not null;default:0;comment:'0=pending,1=sent,2=failed'"`
	Retry       int    `gorm:"not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (NotificationOutbox) TableName() string { return "notification_outbox" }
