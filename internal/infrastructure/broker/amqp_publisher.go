package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/sanosuguru/go-hotel-reservation/internal/domain/reservation"
)

// amqpChannel は AMQPPublisher が使う amqp.Channel のメソッド
type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPPublisher は予約イベントを RabbitMQ の永続キューに送信する
type AMQPPublisher struct {
	conn    *amqp.Connection
	channel amqpChannel
	queue   string
}

// NewAMQPPublisher は接続とチャネルを開き、キューを宣言する
func NewAMQPPublisher(url, queue string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("RabbitMQ接続に失敗: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("RabbitMQチャネル作成に失敗: %w", err)
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("キュー宣言に失敗: %w", err)
	}
	return &AMQPPublisher{conn: conn, channel: ch, queue: queue}, nil
}

// Publish はイベントをデフォルトエクスチェンジ経由でキューへ送る
func (p *AMQPPublisher) Publish(ctx context.Context, ev reservation.Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("イベントの変換に失敗: %w", err)
	}
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.ID,
		Type:         string(ev.Type),
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := p.channel.PublishWithContext(ctx, "", p.queue, false, false, msg); err != nil {
		return fmt.Errorf("イベント送信に失敗: %w", err)
	}
	return nil
}

// Close はチャネルと接続を閉じる
func (p *AMQPPublisher) Close() error {
	if err := p.channel.Close(); err != nil {
		return err
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
