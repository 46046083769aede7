package mq

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/foodorder/apiserver/config"
	amqp "github.com/rabbitmq/amqp091-go"
)

// defaultRoutingKey is used for messages published without a type attribute.
const defaultRoutingKey = "event"

// RabbitMQClient publishes each channel to a topic exchange of the same name,
// routed by the message "type" attribute (for example "order.placed"). A
// queue of that name is bound to every key so events published while no
// consumer is attached are kept.
type RabbitMQClient struct {
	conn       *amqp.Connection
	ch         *amqp.Channel
	durable    bool
	autoDelete bool

	mu       sync.Mutex
	declared map[string]bool
}

func NewRabbitMQClient(cfg config.RabbitMQConfig) (*RabbitMQClient, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, errors.New("rabbitmq url is required")
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	if cfg.PrefetchCount > 0 {
		if err := ch.Qos(cfg.PrefetchCount, 0, false); err != nil {
			_ = ch.Close()
			_ = conn.Close()
			return nil, err
		}
	}

	return &RabbitMQClient{
		conn:       conn,
		ch:         ch,
		durable:    cfg.QueueDurable,
		autoDelete: cfg.QueueAutoDelete,
		declared:   map[string]bool{},
	}, nil
}

func (r *RabbitMQClient) Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	if err := r.ensureTopology(channel); err != nil {
		return "", err
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Transient,
		MessageId:    newMessageID(),
		Type:         attrs["type"],
		Headers:      make(amqp.Table, len(attrs)),
		Body:         data,
	}
	if r.durable {
		msg.DeliveryMode = amqp.Persistent
	}
	for key, value := range attrs {
		msg.Headers[key] = value
	}

	if err := r.ch.PublishWithContext(ctx, channel, routingKey(attrs), false, false, msg); err != nil {
		return "", fmt.Errorf("publish to %s: %w", channel, err)
	}
	return msg.MessageId, nil
}

// Subscribe consumes every event type on the channel. A handler error
// requeues the delivery.
func (r *RabbitMQClient) Subscribe(ctx context.Context, channel string, handler Handler) error {
	if err := r.ensureTopology(channel); err != nil {
		return err
	}

	tag := "tail-" + newMessageID()
	deliveries, err := r.ch.Consume(channel, tag, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", channel, err)
	}
	defer func() {
		_ = r.ch.Cancel(tag, false)
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return errors.New("rabbitmq delivery channel closed")
			}
			err := handler(ctx, deliveryMessage(d))
			if err != nil {
				_ = d.Nack(false, true)
			} else {
				_ = d.Ack(false)
			}
		}
	}
}

func (r *RabbitMQClient) Close() error {
	if r.ch != nil {
		_ = r.ch.Close()
	}
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}

// ensureTopology declares the exchange, the queue and the catch-all binding
// once per channel name.
func (r *RabbitMQClient) ensureTopology(channel string) error {
	if strings.TrimSpace(channel) == "" {
		return errors.New("rabbitmq channel is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.declared[channel] {
		return nil
	}

	if err := r.ch.ExchangeDeclare(channel, amqp.ExchangeTopic, r.durable, r.autoDelete, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange %s: %w", channel, err)
	}
	if _, err := r.ch.QueueDeclare(channel, r.durable, r.autoDelete, false, false, nil); err != nil {
		return fmt.Errorf("declare queue %s: %w", channel, err)
	}
	if err := r.ch.QueueBind(channel, "#", channel, false, nil); err != nil {
		return fmt.Errorf("bind queue %s: %w", channel, err)
	}
	r.declared[channel] = true
	return nil
}

func routingKey(attrs map[string]string) string {
	if key := strings.TrimSpace(attrs["type"]); key != "" {
		return key
	}
	return defaultRoutingKey
}

func deliveryMessage(d amqp.Delivery) Message {
	msg := Message{ID: d.MessageId, Data: d.Body}
	if len(d.Headers) == 0 && d.Type == "" {
		return msg
	}

	msg.Attributes = make(map[string]string, len(d.Headers)+1)
	for key, value := range d.Headers {
		switch v := value.(type) {
		case string:
			msg.Attributes[key] = v
		case []byte:
			msg.Attributes[key] = string(v)
		default:
			msg.Attributes[key] = fmt.Sprint(v)
		}
	}
	if _, ok := msg.Attributes["type"]; !ok && d.Type != "" {
		msg.Attributes["type"] = d.Type
	}
	return msg
}

func newMessageID() string {
	var buf [16]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return ""
	}
	return hex.EncodeToString(buf[:])
}
