// Package events 进程内交互事件总线，权重学习与交互请求解耦
package events

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"

	"sprout/config"
	"sprout/logger"
	"sprout/metrics"
	"sprout/models"
)

// TopicInteractions 用户交互事件主题
const TopicInteractions = "sprout.interactions"

// Bus 基于 watermill gochannel 的事件总线，没有订阅者时消息被丢弃
type Bus struct {
	pubsub *gochannel.GoChannel
}

// NewBus 创建事件总线
func NewBus(cfg *config.Config) *Bus {
	buffer := cfg.Events.Buffer
	if buffer <= 0 {
		buffer = 1024
	}
	return &Bus{
		pubsub: gochannel.NewGoChannel(
			gochannel.Config{OutputChannelBuffer: int64(buffer)},
			watermill.NewSlogLogger(logger.Logger),
		),
	}
}

// PublishInteraction 发布一次交互事件
func (b *Bus) PublishInteraction(ev models.InteractionEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encoding interaction event: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("user_id", ev.UserID)
	if err := b.pubsub.Publish(TopicInteractions, msg); err != nil {
		return fmt.Errorf("publishing interaction event: %w", err)
	}
	metrics.EventsPublished.Inc()
	return nil
}

// Subscribe 订阅交互事件，ctx 结束时通道关闭
func (b *Bus) Subscribe(ctx context.Context) (<-chan *message.Message, error) {
	return b.pubsub.Subscribe(ctx, TopicInteractions)
}

// Close 关闭总线
func (b *Bus) Close() error {
	return b.pubsub.Close()
}

// decodeInteraction 解析事件负载
func decodeInteraction(payload []byte) (models.InteractionEvent, error) {
	var ev models.InteractionEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return ev, fmt.Errorf("decoding interaction event: %w", err)
	}
	return ev, nil
}
