package events

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/gookit/event"
)

// Bus publishes gateway events to registered listeners.
type Bus struct {
	manager *event.Manager
	logger  *slog.Logger

	mu     sync.RWMutex
	closed bool
}

// NewBus creates an event bus.
func NewBus(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		manager: event.NewManager("gateway"),
		logger:  logger.With("component", "events"),
	}
}

// PublishRouterConfigSaved fires EventRouterConfigSaved.
func (b *Bus) PublishRouterConfigSaved(e RouterConfigSaved) error {
	b.logger.Debug("publishing event",
		"event", EventRouterConfigSaved,
		"router_type", e.RouterType,
	)
	return b.fire(EventRouterConfigSaved, e)
}

// PublishRouterProbeCompleted fires EventRouterProbeCompleted.
func (b *Bus) PublishRouterProbeCompleted(e RouterProbeCompleted) error {
	b.logger.Debug("publishing event",
		"event", EventRouterProbeCompleted,
		"router_type", e.RouterType,
		"success", e.Success,
	)
	return b.fire(EventRouterProbeCompleted, e)
}

// OnRouterConfigSaved registers fn for EventRouterConfigSaved.
func (b *Bus) OnRouterConfigSaved(fn func(RouterConfigSaved)) {
	b.manager.On(EventRouterConfigSaved, event.ListenerFunc(func(e event.Event) error {
		payload, ok := e.Get(payloadKey).(RouterConfigSaved)
		if !ok {
			return fmt.Errorf("unexpected payload %T for %s", e.Get(payloadKey), EventRouterConfigSaved)
		}
		fn(payload)
		return nil
	}), event.Normal)
}

// OnRouterProbeCompleted registers fn for EventRouterProbeCompleted.
func (b *Bus) OnRouterProbeCompleted(fn func(RouterProbeCompleted)) {
	b.manager.On(EventRouterProbeCompleted, event.ListenerFunc(func(e event.Event) error {
		payload, ok := e.Get(payloadKey).(RouterProbeCompleted)
		if !ok {
			return fmt.Errorf("unexpected payload %T for %s", e.Get(payloadKey), EventRouterProbeCompleted)
		}
		fn(payload)
		return nil
	}), event.Normal)
}

// Close removes every listener. Later publishes fail.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.closed {
		b.closed = true
		b.manager.Clear()
	}
	return nil
}

func (b *Bus) fire(name string, payload any) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return fmt.Errorf("event bus is closed")
	}

	if err, _ := b.manager.Fire(name, event.M{payloadKey: payload}); err != nil {
		b.logger.Error("event listener failed", "event", name, "error", err)
		return fmt.Errorf("failed to publish %s: %w", name, err)
	}
	return nil
}
