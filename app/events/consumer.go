package events

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/IBM/sarama"
)

// MessageHandler processes one consumed message. A returned error or a false
// shouldMark leaves the message unmarked so it is redelivered.
type MessageHandler interface {
	HandleMessage(ctx context.Context, message []byte) (shouldMark bool, err error)
}

// Consumer reads invalidation events from a Kafka consumer group.
type Consumer struct {
	group   sarama.ConsumerGroup
	handler MessageHandler
	topic   string
	groupID string
}

type ConsumerConfig struct {
	Brokers []string
	Topic   string
	GroupID string
	Handler MessageHandler
}

func NewConsumer(config ConsumerConfig) (*Consumer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Version = sarama.V3_6_0_0
	saramaConfig.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}
	saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	saramaConfig.Consumer.Return.Errors = true

	group, err := sarama.NewConsumerGroup(config.Brokers, config.GroupID, saramaConfig)
	if err != nil {
		return nil, err
	}

	return &Consumer{
		group:   group,
		handler: config.Handler,
		topic:   config.Topic,
		groupID: config.GroupID,
	}, nil
}

// Start joins the consumer group and blocks until the first session is set
// up or ctx ends.
func (c *Consumer) Start(ctx context.Context) error {
	handler := newGroupHandler(c.handler)
	ready := handler.ready

	go func() {
		for {
			if err := c.group.Consume(ctx, []string{c.topic}, handler); err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, sarama.ErrClosedConsumerGroup) {
					slog.Info("Kafka consumer stopped")
					return
				}
				slog.Error("Error from Kafka consumer", "error", err)
			}

			if ctx.Err() != nil {
				return
			}
			handler.rearm()
		}
	}()

	select {
	case <-ready:
	case <-ctx.Done():
		return ctx.Err()
	}
	slog.Info("Kafka consumer started", "group", c.groupID, "topic", c.topic)

	go func() {
		for err := range c.group.Errors() {
			slog.Error("Kafka consumer error", "error", err)
		}
	}()

	return nil
}

func (c *Consumer) Close() error {
	slog.Info("Closing Kafka consumer")
	return c.group.Close()
}

// groupHandler implements sarama.ConsumerGroupHandler. ready is closed
// when a session is set up and replaced before the next Consume call.
type groupHandler struct {
	messageHandler MessageHandler
	ready          chan bool
}

func newGroupHandler(messageHandler MessageHandler) *groupHandler {
	return &groupHandler{
		messageHandler: messageHandler,
		ready:          make(chan bool),
	}
}

func (h *groupHandler) rearm() {
	h.ready = make(chan bool)
}

func (h *groupHandler) Setup(sarama.ConsumerGroupSession) error {
	close(h.ready)
	return nil
}

func (h *groupHandler) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *groupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message := <-claim.Messages():
			if message == nil {
				return nil
			}

			slog.Debug("Received Kafka message",
				"partition", message.Partition,
				"offset", message.Offset,
				"key", string(message.Key))

			shouldMark, err := h.messageHandler.HandleMessage(session.Context(), message.Value)
			if err != nil {
				slog.Error("Failed to handle message", "error", err)
			}
			if shouldMark {
				session.MarkMessage(message, "")
			}

		case <-session.Context().Done():
			return nil
		}
	}
}

// TypedMessageHandler decodes JSON messages into T before processing.
type TypedMessageHandler[T any] struct {
	Validate func(msg *T) bool
	Process  func(ctx context.Context, msg *T) error
	// AlwaysMark marks undecodable and invalid messages so they are skipped.
	AlwaysMark bool
}

func (h *TypedMessageHandler[T]) HandleMessage(ctx context.Context, message []byte) (bool, error) {
	var msg T
	if err := json.Unmarshal(message, &msg); err != nil {
		slog.Warn("Failed to unmarshal message", "error", err)
		return h.AlwaysMark, nil
	}

	if h.Validate != nil && !h.Validate(&msg) {
		return h.AlwaysMark, nil
	}

	if err := h.Process(ctx, &msg); err != nil {
		return false, err
	}
	return true, nil
}
