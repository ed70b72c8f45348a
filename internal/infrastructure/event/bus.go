package event

import (
	"context"
	"sync"

	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/bizsuite/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// BusConfig controls dispatch behavior of the in-memory bus.
// With Async disabled, Publish dispatches inline on the caller's goroutine.
type BusConfig struct {
	Async       bool
	BufferSize  int
	WorkerCount int
}

// DefaultBusConfig returns a synchronous bus configuration
func DefaultBusConfig() BusConfig {
	return BusConfig{
		Async:       false,
		BufferSize:  256,
		WorkerCount: 4,
	}
}

// eventEnvelope carries a queued event together with the request metadata
// captured at publish time. Workers dispatch on a fresh context, so the
// caller's actor, tenant and request IDs must travel with the event or
// downstream handlers (the audit recorder in particular) lose them.
type eventEnvelope struct {
	event     shared.DomainEvent
	userID    string
	tenantID  string
	requestID string
}

// wrapEvent snapshots the dispatch metadata from the publishing context
func wrapEvent(ctx context.Context, event shared.DomainEvent) eventEnvelope {
	return eventEnvelope{
		event:     event,
		userID:    logger.GetUserID(ctx),
		tenantID:  logger.GetTenantID(ctx),
		requestID: logger.GetRequestID(ctx),
	}
}

// restore rebuilds a dispatch context carrying the captured metadata
func (e eventEnvelope) restore(base context.Context) context.Context {
	ctx := base
	if e.userID != "" {
		ctx = context.WithValue(ctx, logger.UserIDKey, e.userID)
	}
	if e.tenantID != "" {
		ctx = context.WithValue(ctx, logger.TenantIDKey, e.tenantID)
	}
	if e.requestID != "" {
		ctx = context.WithValue(ctx, logger.RequestIDKey, e.requestID)
	}
	return ctx
}

// InMemoryEventBus implements EventBus with in-memory pub/sub.
// In async mode a fixed worker pool drains a buffered queue; when the
// queue is full or the bus is stopped, Publish falls back to inline
// dispatch rather than block or drop.
type InMemoryEventBus struct {
	registry *HandlerRegistry
	logger   *zap.Logger
	config   BusConfig

	// mu guards running and queue. Sends happen under the read lock so
	// Stop cannot close the queue while a publish is mid-send.
	mu      sync.RWMutex
	running bool
	queue   chan eventEnvelope
	wg      sync.WaitGroup
}

// NewInMemoryEventBus creates a new in-memory event bus
func NewInMemoryEventBus(logger *zap.Logger, config BusConfig) *InMemoryEventBus {
	if config.BufferSize <= 0 {
		config.BufferSize = 256
	}
	if config.WorkerCount <= 0 {
		config.WorkerCount = 4
	}
	return &InMemoryEventBus{
		registry: NewHandlerRegistry(),
		logger:   logger,
		config:   config,
	}
}

// Publish publishes events to all registered handlers
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	for _, event := range events {
		if b.config.Async && b.enqueue(ctx, event) {
			continue
		}
		b.dispatch(ctx, event)
	}
	return nil
}

// enqueue hands the event to the worker pool. Returns false when the bus
// is not running or the queue is full; the caller dispatches inline then.
func (b *InMemoryEventBus) enqueue(ctx context.Context, event shared.DomainEvent) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.running || b.queue == nil {
		return false
	}

	select {
	case b.queue <- wrapEvent(ctx, event):
		return true
	default:
		b.logger.Warn("event queue full, dispatching inline",
			zap.String("event_type", event.EventType()),
		)
		return false
	}
}

// Subscribe registers a handler for specific event types
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	// Handlers that declare their own interests win over the argument list
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}
	b.registry.Register(handler, eventTypes...)
	b.logger.Debug("handler subscribed",
		zap.Strings("event_types", eventTypes),
	)
}

// Unsubscribe removes a handler
func (b *InMemoryEventBus) Unsubscribe(handler shared.EventHandler) {
	b.registry.Unregister(handler)
	b.logger.Debug("handler unsubscribed")
}

// Start starts the worker pool when async dispatch is enabled
func (b *InMemoryEventBus) Start(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.running {
		return nil
	}
	b.running = true

	if b.config.Async {
		b.queue = make(chan eventEnvelope, b.config.BufferSize)
		for i := 0; i < b.config.WorkerCount; i++ {
			b.wg.Add(1)
			go b.worker(b.queue)
		}
		b.logger.Info("event bus started",
			zap.Int("workers", b.config.WorkerCount),
			zap.Int("buffer_size", b.config.BufferSize),
		)
		return nil
	}

	b.logger.Info("event bus started", zap.Bool("async", false))
	return nil
}

// Stop stops the event bus, draining queued events first
func (b *InMemoryEventBus) Stop(ctx context.Context) error {
	b.mu.Lock()
	if !b.running {
		b.mu.Unlock()
		return nil
	}
	b.running = false
	queue := b.queue
	b.queue = nil
	b.mu.Unlock()

	// No publisher can be mid-send here: sends hold the read lock and
	// re-check running, so closing the drained queue is safe.
	if queue != nil {
		close(queue)
		b.wg.Wait()
	}

	b.logger.Info("event bus stopped")
	return nil
}

// worker drains the queue until it is closed
func (b *InMemoryEventBus) worker(queue <-chan eventEnvelope) {
	defer b.wg.Done()
	for env := range queue {
		b.dispatch(env.restore(context.Background()), env.event)
	}
}

// dispatch fans an event out to every matching handler
func (b *InMemoryEventBus) dispatch(ctx context.Context, event shared.DomainEvent) {
	handlers := b.registry.GetHandlers(event.EventType())

	for _, handler := range handlers {
		if err := b.dispatchToHandler(ctx, handler, event); err != nil {
			// One failing handler must not starve the others
			b.logger.Error("handler failed to process event",
				zap.String("event_type", event.EventType()),
				zap.String("event_id", event.EventID().String()),
				zap.Error(err),
			)
		}
	}
}

// dispatchToHandler safely dispatches an event to a handler
func (b *InMemoryEventBus) dispatchToHandler(ctx context.Context, handler shared.EventHandler, event shared.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("handler panicked",
				zap.String("event_type", event.EventType()),
				zap.Any("panic", r),
			)
		}
	}()

	return handler.Handle(ctx, event)
}

// Ensure InMemoryEventBus implements EventBus
var _ shared.EventBus = (*InMemoryEventBus)(nil)
