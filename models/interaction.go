package models

import (
	"fmt"
	"strings"
	"time"
)

// InteractionKind 用户交互类型，只有 read / save / dismiss 三种
type InteractionKind int

const (
	InteractionRead InteractionKind = iota + 1
	InteractionSave
	InteractionDismiss
)

// Adjustment 该交互对话题权重的调整量
func (k InteractionKind) Adjustment() float64 {
	switch k {
	case InteractionRead:
		return 0.1
	case InteractionSave:
		return 0.2
	case InteractionDismiss:
		return -0.1
	default:
		return 0
	}
}

func (k InteractionKind) String() string {
	switch k {
	case InteractionRead:
		return "read"
	case InteractionSave:
		return "save"
	case InteractionDismiss:
		return "dismiss"
	default:
		return "unknown"
	}
}

// ParseInteractionKind 从字符串解析交互类型
func ParseInteractionKind(s string) (InteractionKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "read":
		return InteractionRead, nil
	case "save", "saved":
		return InteractionSave, nil
	case "dismiss", "dismissed":
		return InteractionDismiss, nil
	default:
		return 0, fmt.Errorf("unknown interaction kind %q", s)
	}
}

func (k InteractionKind) MarshalText() ([]byte, error) {
	if k.Adjustment() == 0 {
		return nil, fmt.Errorf("invalid interaction kind %d", int(k))
	}
	return []byte(k.String()), nil
}

func (k *InteractionKind) UnmarshalText(text []byte) error {
	parsed, err := ParseInteractionKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// InteractionEvent 一次用户交互事件，由 UI 层产生，引擎只读取其类型
type InteractionEvent struct {
	UserID     string          `json:"user_id"`
	ContentID  int64           `json:"content_id"`
	Kind       InteractionKind `json:"kind"`
	OccurredAt time.Time       `json:"occurred_at"`
}
