package pkg

import (
	"context"
	"strconv"

	"github.com/segmentio/kafka-go"
)

// NotificationProducer 把通知事件写进 Kafka。
// 以接收者 id 作分区键，保证同一个用户收到的通知在分区内有序。
type NotificationProducer struct {
	writer *kafka.Writer
}

func NewNotificationProducer(brokers []string, topic string) *NotificationProducer {
	return &NotificationProducer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			Async:        false,
		},
	}
}

// Publish payload 是 outbox 里攒好的通知事件 JSON，这里不再解包
func (p *NotificationProducer) Publish(ctx context.Context, recipientID uint64, payload []byte) error {
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   strconv.AppendUint(nil, recipientID, 10),
		Value: payload,
	})
}

func (p *NotificationProducer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
