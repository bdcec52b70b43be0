// Package event delivers schedule change notifications over an in-process
// watermill pub/sub: the API publishes after each committed write, the
// scheduling engine consumes one message at a time.
package event

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/Deepreo/schedulerd/core"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/ThreeDotsLabs/watermill/message/router/plugin"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type Notifier struct {
	router *message.Router
	pubSub *gochannel.GoChannel
	logger watermill.LoggerAdapter

	mu        sync.RWMutex
	onSaved   []core.ScheduleSavedFunc
	onDeleted []core.ScheduleDeletedFunc
}

func NewNotifier(sl *slog.Logger) (*Notifier, error) {
	logger := watermill.NewSlogLogger(sl)
	router, err := message.NewRouter(message.RouterConfig{}, logger)
	if err != nil {
		return nil, err
	}
	// PreserveContext keeps the publish-side context (trace state) visible
	// to the handlers.
	pubSub := gochannel.NewGoChannel(gochannel.Config{PreserveContext: true}, logger)
	router.AddPlugin(plugin.SignalsHandler)

	n := &Notifier{router: router, pubSub: pubSub, logger: logger}
	router.AddNoPublisherHandler(core.ScheduleSavedName, core.ScheduleSavedName, pubSub, n.handleSaved)
	router.AddNoPublisherHandler(core.ScheduleDeletedName, core.ScheduleDeletedName, pubSub, n.handleDeleted)
	return n, nil
}

func (n *Notifier) Use(middleware ...message.HandlerMiddleware) {
	n.router.AddMiddleware(middleware...)
}

func (n *Notifier) AddPublisherDecorator(decorators ...message.PublisherDecorator) {
	n.router.AddPublisherDecorators(decorators...)
}

// OnSaved registers a callback for created/updated schedule records.
// Registration must happen before Run.
func (n *Notifier) OnSaved(fn core.ScheduleSavedFunc) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.onSaved = append(n.onSaved, fn)
}

// OnDeleted registers a callback for removed schedule records.
func (n *Notifier) OnDeleted(fn core.ScheduleDeletedFunc) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.onDeleted = append(n.onDeleted, fn)
}

func (n *Notifier) PublishSaved(ctx context.Context, record core.ScheduleRecord) error {
	return n.publish(ctx, core.NewScheduleSaved(record))
}

func (n *Notifier) PublishDeleted(ctx context.Context, id string) error {
	return n.publish(ctx, core.NewScheduleDeleted(id))
}

func (n *Notifier) publish(ctx context.Context, event core.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	msg := message.NewMessageWithContext(ctx, event.EventID(), payload)
	return n.pubSub.Publish(event.EventName(), msg)
}

func (n *Notifier) handleSaved(msg *message.Message) error {
	var event core.ScheduleSaved
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		return err
	}
	n.mu.RLock()
	callbacks := n.onSaved
	n.mu.RUnlock()
	for _, fn := range callbacks {
		if err := fn(msg.Context(), event.Record); err != nil {
			return err
		}
	}
	return nil
}

func (n *Notifier) handleDeleted(msg *message.Message) error {
	var event core.ScheduleDeleted
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		return err
	}
	n.mu.RLock()
	callbacks := n.onDeleted
	n.mu.RUnlock()
	for _, fn := range callbacks {
		if err := fn(msg.Context(), event.ScheduleID); err != nil {
			return err
		}
	}
	return nil
}

func (n *Notifier) Run(ctx context.Context) error {
	poisonQueueMiddleware, err := middleware.PoisonQueue(n.pubSub, "poison_queue")
	if err != nil {
		return err
	}

	retryMiddleware := middleware.Retry{
		MaxRetries:      3,
		InitialInterval: time.Millisecond * 100,
		MaxInterval:     time.Second * 1,
		Multiplier:      2.0,
		Logger:          n.logger,
	}

	n.router.AddMiddleware(
		retryMiddleware.Middleware,
		poisonQueueMiddleware,
	)
	n.AddPublisherDecorator(TraceContextDecorator)

	return n.router.Run(ctx)
}
