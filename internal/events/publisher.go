package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"salesdesk-be/internal/logger"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

var (
	ErrPublisherClosed = errors.New("publisher closed")
	ErrBufferFull      = errors.New("publish buffer full")
)

type Publisher interface {
	Publish(ctx context.Context, key string, env Envelope) error
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, Envelope) error { return nil }

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher queues messages in memory and writes them from a single
// goroutine started by Start. Close drains the queue before returning.
type KafkaPublisher struct {
	w     messageWriter
	inbox chan kafka.Message
	done  chan struct{}

	mu     sync.RWMutex
	closed bool
}

func NewKafkaPublisher(brokers []string, topic string, buf int) *KafkaPublisher {
	return newKafkaPublisher(&kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
	}, buf)
}

func newKafkaPublisher(w messageWriter, buf int) *KafkaPublisher {
	if buf <= 0 {
		buf = 256
	}
	return &KafkaPublisher{
		w:     w,
		inbox: make(chan kafka.Message, buf),
		done:  make(chan struct{}),
	}
}

func (p *KafkaPublisher) Start() {
	go func() {
		defer close(p.done)
		log := logger.L().With(zap.String("layer", "events"))

		for m := range p.inbox {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := p.w.WriteMessages(ctx, m); err != nil {
				log.Error("failed to write event",
					zap.String("key", string(m.Key)),
					zap.Error(err),
				)
			}
			cancel()
		}

		if err := p.w.Close(); err != nil {
			log.Warn("failed to close kafka writer", zap.Error(err))
		}
	}()
}

func (p *KafkaPublisher) Publish(ctx context.Context, key string, env Envelope) error {
	value, err := json.Marshal(env)
	if err != nil {
		return err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPublisherClosed
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: value,
		Time:  env.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(env.EventType)},
			{Key: "request_id", Value: []byte(logger.RequestIDFrom(ctx))},
		},
	}

	select {
	case p.inbox <- msg:
		return nil
	default:
		return ErrBufferFull
	}
}

// Close stops accepting events and blocks until the queue has been flushed.
// It must only be called after Start.
func (p *KafkaPublisher) Close() {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.inbox)
	}
	p.mu.Unlock()
	<-p.done
}
