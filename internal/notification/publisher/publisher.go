// Package publisher hands notification events to a message broker without blocking the caller.
package publisher

import (
	"context"
	"hash/fnv"
	"log/slog"
	"sync"
	"time"

	"github.com/allisson/barter/internal/metrics"
	"github.com/allisson/barter/internal/notification/domain"
)

const metricsDomain = "notifications"

// Producer sends one encoded event to the broker. Implementations must be safe for
// concurrent use.
type Producer interface {
	Send(ctx context.Context, key string, value []byte) error
}

// Config controls sharding and the retry budget of an AsyncPublisher.
type Config struct {
	Workers        int
	QueueSize      int
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

func (c Config) withDefaults() Config {
	if c.Workers <= 0 {
		c.Workers = 1
	}
	if c.QueueSize <= 0 {
		c.QueueSize = 1
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 1
	}
	if c.InitialBackoff < 0 {
		c.InitialBackoff = 0
	}
	if c.MaxBackoff < c.InitialBackoff {
		c.MaxBackoff = c.InitialBackoff
	}
	return c
}

// AsyncPublisher queues events on bounded per-shard queues and sends them from background
// workers. Events sharing a key are handled by the same worker, so their relative order is
// kept. Publish never waits on the broker; when a shard queue is full the event is dropped.
type AsyncPublisher struct {
	producer        Producer
	config          Config
	logger          *slog.Logger
	businessMetrics metrics.BusinessMetrics

	shards []chan domain.Event
	wg     sync.WaitGroup

	mu     sync.RWMutex
	closed bool

	// sendCtx bounds in-flight sends and backoff sleeps; cancelled when a drain times out.
	sendCtx    context.Context
	cancelSend context.CancelFunc
}

// New starts the shard workers and returns a ready publisher. Call Close to stop it.
func New(
	producer Producer,
	config Config,
	logger *slog.Logger,
	businessMetrics metrics.BusinessMetrics,
) *AsyncPublisher {
	config = config.withDefaults()
	sendCtx, cancelSend := context.WithCancel(context.Background())

	p := &AsyncPublisher{
		producer:        producer,
		config:          config,
		logger:          logger,
		businessMetrics: businessMetrics,
		shards:          make([]chan domain.Event, config.Workers),
		sendCtx:         sendCtx,
		cancelSend:      cancelSend,
	}

	for i := range p.shards {
		p.shards[i] = make(chan domain.Event, config.QueueSize)
		p.wg.Add(1)
		go p.work(p.shards[i])
	}

	return p
}

// Publish enqueues the event and returns immediately. It never reports broker failures;
// those are logged and counted by the worker.
func (p *AsyncPublisher) Publish(ctx context.Context, event domain.Event) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		p.drop(ctx, event, "publisher closed")
		return
	}

	select {
	case p.shards[p.shardFor(event.Key())] <- event:
	default:
		p.drop(ctx, event, "queue full")
	}
}

// Close stops accepting events and waits for queued events to be sent. If ctx expires first,
// in-flight sends are cancelled and ctx.Err() is returned.
func (p *AsyncPublisher) Close(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		for _, shard := range p.shards {
			close(shard)
		}
	}
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.cancelSend()
		return nil
	case <-ctx.Done():
		p.cancelSend()
		<-done
		return ctx.Err()
	}
}

func (p *AsyncPublisher) shardFor(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(p.shards)))
}

func (p *AsyncPublisher) work(queue <-chan domain.Event) {
	defer p.wg.Done()
	for event := range queue {
		p.deliver(event)
	}
}

func (p *AsyncPublisher) deliver(event domain.Event) {
	start := time.Now()

	value, err := event.Encode()
	if err != nil {
		p.logger.Error("failed to encode notification event", slog.String("event_id", event.ID), slog.Any("error", err))
		p.record(metrics.StatusDropped, start)
		return
	}

	backoff := p.config.InitialBackoff
	for attempt := 1; attempt <= p.config.MaxAttempts; attempt++ {
		err = p.producer.Send(p.sendCtx, event.Key(), value)
		if err == nil {
			p.record(metrics.StatusSuccess, start)
			return
		}

		p.logger.Warn("notification publish attempt failed",
			slog.String("event_id", event.ID),
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", p.config.MaxAttempts),
			slog.Any("error", err),
		)

		if attempt == p.config.MaxAttempts || !p.sleep(backoff) {
			break
		}
		backoff = min(backoff*2, p.config.MaxBackoff)
	}

	p.logger.Error("notification event dropped after retries",
		slog.String("event_id", event.ID),
		slog.String("type", event.Type),
		slog.Any("error", err),
	)
	p.record(metrics.StatusError, start)
}

// sleep waits for d and reports false when the publisher is being torn down.
func (p *AsyncPublisher) sleep(d time.Duration) bool {
	if d <= 0 {
		return p.sendCtx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-p.sendCtx.Done():
		return false
	}
}

func (p *AsyncPublisher) drop(ctx context.Context, event domain.Event, reason string) {
	p.logger.Warn("notification event dropped",
		slog.String("event_id", event.ID),
		slog.String("type", event.Type),
		slog.String("reason", reason),
	)
	p.businessMetrics.RecordOperation(ctx, metricsDomain, "publish", metrics.StatusDropped)
}

func (p *AsyncPublisher) record(status string, start time.Time) {
	ctx := context.Background()
	p.businessMetrics.RecordOperation(ctx, metricsDomain, "publish", status)
	p.businessMetrics.RecordDuration(ctx, metricsDomain, "publish", time.Since(start), status)
}
