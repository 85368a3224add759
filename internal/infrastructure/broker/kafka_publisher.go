package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/sanosuguru/go-hotel-reservation/internal/domain/reservation"
)

type kafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher は予約イベントを Kafka トピックに送信する
// 部屋IDをキーにして、同じ部屋のイベントは同じパーティションに入る
type KafkaPublisher struct {
	writer kafkaWriter
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			WriteTimeout: 5 * time.Second,
		},
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, ev reservation.Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("イベントの変換に失敗: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(ev.RoomID),
		Value: body,
		Time:  ev.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(ev.Type)},
			{Key: "event_id", Value: []byte(ev.ID)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("イベント送信に失敗: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
