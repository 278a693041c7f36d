package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	q "github.com/iliyamo/movie-catalog/internal/queue"
)

// EventPublisher publishes catalog change events.  Implementations must not
// panic; callers log returned errors and carry on.
type EventPublisher interface {
	PublishCatalogEvent(ctx context.Context, event q.CatalogEvent) error
}

// NopPublisher drops every event.  It is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishCatalogEvent(context.Context, q.CatalogEvent) error { return nil }

// AMQPPublisher publishes to the durable catalog.changed queue on the
// default exchange.  The connection and channel are opened on first use and
// shared; a failed publish drops them so the next call redials.
type AMQPPublisher struct {
	URL         string
	DialTimeout time.Duration

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

// NewAMQPPublisher returns a publisher for url, or a NopPublisher when url
// is empty.
func NewAMQPPublisher(url string) EventPublisher {
	if url == "" {
		return NopPublisher{}
	}
	return &AMQPPublisher{URL: url, DialTimeout: 2 * time.Second}
}

// PublishCatalogEvent marshals event and publishes it as a persistent
// message.  Errors are logged and returned.
func (p *AMQPPublisher) PublishCatalogEvent(ctx context.Context, event q.CatalogEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.channel()
	if err != nil {
		log.Printf("rabbitmq: connect failed: %v", err)
		return err
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", q.CatalogQueueName, false, false, pub); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		p.reset()
		return err
	}
	return nil
}

// Close releases the shared connection.
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reset()
	return nil
}

// channel returns the shared channel, dialing when there is none or the
// previous one was closed by the broker.  Callers hold p.mu.
func (p *AMQPPublisher) channel() (*amqp.Channel, error) {
	if p.ch != nil && !p.ch.IsClosed() && p.conn != nil && !p.conn.IsClosed() {
		return p.ch, nil
	}
	p.reset()

	conn, err := amqp.DialConfig(p.URL, amqp.Config{Dial: amqp.DefaultDial(p.DialTimeout)})
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	// Idempotent; durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(
		q.CatalogQueueName, // name
		true,               // durable
		false,              // autoDelete
		false,              // exclusive
		false,              // noWait
		nil,                // args
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	p.conn, p.ch = conn, ch
	return ch, nil
}

func (p *AMQPPublisher) reset() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}

// ErrPublishQueueFull is returned by AsyncPublisher when its buffer is full
// and the event was dropped.
var ErrPublishQueueFull = errors.New("publish queue full")

// AsyncPublisher hands events to a background worker so request handlers
// never wait on the broker.  Events are published in order with a fresh
// context; when the buffer is full new events are dropped.
type AsyncPublisher struct {
	next    EventPublisher
	timeout time.Duration
	events  chan q.CatalogEvent
	done    chan struct{}

	mu     sync.RWMutex
	closed bool
}

// NewAsyncPublisher starts the worker.  Close must be called to stop it.
func NewAsyncPublisher(next EventPublisher, buffer int) *AsyncPublisher {
	if buffer < 1 {
		buffer = 1
	}
	p := &AsyncPublisher{
		next:    next,
		timeout: 5 * time.Second,
		events:  make(chan q.CatalogEvent, buffer),
		done:    make(chan struct{}),
	}
	go p.run()
	return p
}

// ErrPublisherClosed is returned for events published after Close.
var ErrPublisherClosed = errors.New("publisher closed")

// PublishCatalogEvent enqueues event without blocking.
func (p *AsyncPublisher) PublishCatalogEvent(_ context.Context, event q.CatalogEvent) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPublisherClosed
	}
	select {
	case p.events <- event:
		return nil
	default:
		return ErrPublishQueueFull
	}
}

// Close stops accepting events, waits for queued ones to be published or
// ctx to expire, and closes the wrapped publisher when it supports it.
func (p *AsyncPublisher) Close(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.events)
	}
	p.mu.Unlock()
	select {
	case <-p.done:
	case <-ctx.Done():
		return ctx.Err()
	}
	if c, ok := p.next.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

func (p *AsyncPublisher) run() {
	defer close(p.done)
	for ev := range p.events {
		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		if err := p.next.PublishCatalogEvent(ctx, ev); err != nil {
			log.Printf("catalog-events: %s %s id=%d dropped: %v", ev.Resource, ev.Action, ev.ID, err)
		}
		cancel()
	}
}
