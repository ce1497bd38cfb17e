// Package events publishes committed activities to a message broker so other
// services can react to back-office changes.
package events

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/realdesk/internal/store"
	"github.com/mesh-intelligence/realdesk/pkg/types"
)

// Publisher delivers activities.
type Publisher interface {
	Publish(ctx context.Context, a types.Activity) error
	Close() error
}

// Nop discards every activity.
type Nop struct{}

func (Nop) Publish(context.Context, types.Activity) error { return nil }
func (Nop) Close() error { return nil }

// publishTimeout bounds each delivery made by a Hook.
const publishTimeout = 5 * time.Second

// Hook returns a store hook that publishes each committed activity. Publish
// failures are logged; the mutation has already committed.
func Hook(p Publisher, log *zap.Logger) store.ActivityHook {
	return func(ctx context.Context, a types.Activity) {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
		defer cancel()

		if err := p.Publish(ctx, a); err != nil {
			log.Warn("publishing activity failed",
				zap.Int64("activity_id", a.ID),
				zap.String("type", a.Type),
				zap.Error(err))
		}
	}
}
