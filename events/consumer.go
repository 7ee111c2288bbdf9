package events

import (
	"context"
	"sync"

	"github.com/thejerf/suture/v4"

	"sprout/logger"
	"sprout/metrics"
	"sprout/models"
)

// InteractionHandler 处理一次交互事件
type InteractionHandler func(ctx context.Context, ev models.InteractionEvent)

// Consumer 订阅交互事件并逐条处理，实现 suture.Service
type Consumer struct {
	bus     *Bus
	handle  InteractionHandler
	ready   chan struct{}
	readyMu sync.Once
}

// NewInteractionConsumer 创建交互事件消费者
func NewInteractionConsumer(bus *Bus, handle InteractionHandler) *Consumer {
	return &Consumer{
		bus:    bus,
		handle: handle,
		ready:  make(chan struct{}),
	}
}

// Ready 首次订阅成功后关闭
func (c *Consumer) Ready() <-chan struct{} {
	return c.ready
}

// Serve 消费事件直到 ctx 结束
func (c *Consumer) Serve(ctx context.Context) error {
	msgs, err := c.bus.Subscribe(ctx)
	if err != nil {
		return err
	}
	c.readyMu.Do(func() { close(c.ready) })
	logger.Info("Interaction consumer started", "topic", TopicInteractions)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				// 总线已关闭
				return suture.ErrDoNotRestart
			}

			ev, err := decodeInteraction(msg.Payload)
			if err != nil {
				logger.Warn("Dropping malformed interaction event", "message_id", msg.UUID, "error", err)
				metrics.EventsConsumed.WithLabelValues("malformed").Inc()
				msg.Ack()
				continue
			}

			c.handle(ctx, ev)
			metrics.EventsConsumed.WithLabelValues("ok").Inc()
			msg.Ack()
		}
	}
}

func (c *Consumer) String() string {
	return "interaction-consumer"
}
