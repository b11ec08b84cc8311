package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"tattoola/models"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	EventFeedPosted  = "feed_posted"
	EventFeedDeleted = "feed_deleted"
)

var (
	rabbitConn    *amqp.Connection
	rabbitChannel *amqp.Channel
	// канал amqp091 нельзя использовать для публикации из нескольких горутин сразу
	rabbitMu     sync.Mutex
	feedExchange = "feed_events"
)

// FeedEvent - событие ленты для конкретного получателя
type FeedEvent struct {
	Event  string           `json:"event"`
	UserID uuid.UUID        `json:"user_id"`
	PostID uuid.UUID        `json:"post_id"`
	Post   *models.FeedPost `json:"post,omitempty"`
}

// InitRabbitMQ инициализирует соединение и exchange
func InitRabbitMQ(url, exchange string) error {
	if url == "" {
		return fmt.Errorf("RabbitMQ url is not configured")
	}
	if exchange != "" {
		feedExchange = exchange
	}
	var err error
	rabbitConn, err = amqp.Dial(url)
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	rabbitChannel, err = rabbitConn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	// Создаем exchange типа topic
	if err := rabbitChannel.ExchangeDeclare(
		feedExchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,   // args
	); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}
	log.Printf("RabbitMQ initialized successfully, exchange=%s", feedExchange)
	return nil
}

func CloseRabbitMQ() {
	if rabbitChannel != nil {
		_ = rabbitChannel.Close()
	}
	if rabbitConn != nil {
		_ = rabbitConn.Close()
	}
}

// PublishFeedEvent публикует событие ленты с routing key user.<id>
func PublishFeedEvent(ctx context.Context, event FeedEvent) error {
	rabbitMu.Lock()
	defer rabbitMu.Unlock()
	if rabbitChannel == nil {
		return fmt.Errorf("RabbitMQ channel not initialized")
	}
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	routingKey := fmt.Sprintf("user.%s", event.UserID)
	return rabbitChannel.PublishWithContext(ctx,
		feedExchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}

// StartFeedEventConsumer слушает события ленты и пушит их через WebSocket
func StartFeedEventConsumer(ctx context.Context, queueName string) error {
	if rabbitConn == nil {
		return fmt.Errorf("RabbitMQ connection not initialized")
	}
	// отдельный канал, чтобы потребление не мешало публикации
	ch, err := rabbitConn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open consumer channel: %w", err)
	}
	q, err := ch.QueueDeclare(
		queueName,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}
	if err := ch.QueueBind(q.Name, "user.*", feedExchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue: %w", err)
	}
	msgs, err := ch.Consume(
		q.Name,
		"",
		true,  // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to start consumer: %w", err)
	}
	go func() {
		defer ch.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					log.Println("ERROR: feed event consumer channel closed")
					return
				}
				var event FeedEvent
				if err := json.Unmarshal(msg.Body, &event); err != nil {
					log.Println("ERROR: Failed to unmarshal feed event:", err)
					continue
				}
				GlobalWSConnManager.Send(event.UserID, msg.Body)
			}
		}
	}()
	return nil
}
