package mq

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/foodorder/apiserver/config"
	"github.com/segmentio/kafka-go"
)

// Events are written one at a time from request handlers, so the writer
// flushes almost immediately instead of waiting for a full batch.
const kafkaBatchTimeout = 5 * time.Millisecond

// KafkaClient maps channels to Kafka topics. One writer serves every topic;
// each Subscribe call opens its own consumer-group reader.
type KafkaClient struct {
	brokers []string
	groupID string
	writer  *kafka.Writer
}

func NewKafkaClient(cfg config.KafkaConfig) (*KafkaClient, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka brokers are required")
	}

	return &KafkaClient{
		brokers: cfg.Brokers,
		groupID: cfg.GroupID,
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(cfg.Brokers...),
			Balancer:               &kafka.LeastBytes{},
			BatchTimeout:           kafkaBatchTimeout,
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
		},
	}, nil
}

func (k *KafkaClient) Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	if strings.TrimSpace(channel) == "" {
		return "", errors.New("kafka channel is required")
	}

	messageID := newMessageID()
	headers := make([]kafka.Header, 0, len(attrs))
	for key, value := range attrs {
		headers = append(headers, kafka.Header{Key: key, Value: []byte(value)})
	}

	err := k.writer.WriteMessages(ctx, kafka.Message{
		Topic:   channel,
		Key:     []byte(messageID),
		Value:   data,
		Headers: headers,
	})
	if err != nil {
		return "", err
	}
	return messageID, nil
}

// Subscribe consumes the topic as part of the configured consumer group.
func (k *KafkaClient) Subscribe(ctx context.Context, channel string, handler Handler) error {
	if strings.TrimSpace(channel) == "" {
		return errors.New("kafka channel is required")
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: k.brokers,
		Topic:   channel,
		GroupID: k.groupID,
	})
	defer reader.Close()

	return consumeKafka(ctx, reader, handler)
}

func (k *KafkaClient) Close() error {
	return k.writer.Close()
}

type kafkaReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

// consumeKafka commits each message after its handler succeeds. Group
// offsets are linear, so a later commit would also acknowledge a failed
// message; consumption stops at the first handler error instead, leaving
// that message uncommitted for the next run.
func consumeKafka(ctx context.Context, reader kafkaReader, handler Handler) error {
	for {
		km, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}

		attrs := make(map[string]string, len(km.Headers))
		for _, header := range km.Headers {
			attrs[header.Key] = string(header.Value)
		}
		msg := Message{ID: string(km.Key), Data: km.Value, Attributes: attrs}
		if err := handler(ctx, msg); err != nil {
			return fmt.Errorf("handle message %s at offset %d: %w", msg.ID, km.Offset, err)
		}
		if err := reader.CommitMessages(ctx, km); err != nil {
			return err
		}
	}
}
