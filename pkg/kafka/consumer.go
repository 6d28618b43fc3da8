package kafka

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	kafka_config "snaplink/pkg/kafka/config"
	"snaplink/pkg/logger"
)

type Consumer struct {
	reader     *kafka.Reader
	dlqWriter  *kafka.Writer
	topic      string
	groupID    string
	maxRetries int
	backoff    time.Duration
	handler    MessageHandler
	middleware []ConsumerMiddleware
	logger     *logger.Logger
	closed     bool
	mu         sync.RWMutex
	wg         sync.WaitGroup
}

type ConsumerMiddleware func(ctx context.Context, msg Message, next MessageHandler) error

func NewConsumer(cfg *kafka_config.Config, topic, groupID, dlqTopic string, handler MessageHandler, log *logger.Logger) (*Consumer, error) {
	switch {
	case cfg == nil:
		return nil, fmt.Errorf("config cannot be nil")
	case len(cfg.Brokers) == 0:
		return nil, fmt.Errorf("at least one broker is required")
	case topic == "":
		return nil, fmt.Errorf("topic cannot be empty")
	case groupID == "":
		return nil, fmt.Errorf("group ID cannot be empty")
	case handler == nil:
		return nil, fmt.Errorf("message handler cannot be nil")
	}

	log = log.WithComponent("kafka_consumer")
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		Topic:          topic,
		GroupID:        groupID,
		MaxWait:        cfg.ConsumerMaxWait,
		CommitInterval: cfg.ConsumerCommitInterval,
		SessionTimeout: cfg.ConsumerSessionTimeout,
		StartOffset:    cfg.ConsumerStartOffset,
		Logger:         kafka.LoggerFunc(func(string, ...any) {}),
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...any) {
			log.Error("kafka reader error", "topic", topic, "detail", fmt.Sprintf(msg, args...))
		}),
	})

	c := &Consumer{
		reader:     reader,
		topic:      topic,
		groupID:    groupID,
		maxRetries: cfg.ConsumerMaxRetries,
		backoff:    cfg.ConsumerRetryBackoff,
		handler:    handler,
		logger:     log,
	}
	if dlqTopic != "" {
		c.dlqWriter = newWriter(cfg.Brokers, dlqTopic, compressionOf(cfg.ProducerCompression), kafka.RequireAll, 3, log)
	}
	return c, nil
}

func (c *Consumer) Use(middleware ConsumerMiddleware) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.middleware = append(c.middleware, middleware)
}

// Start blocks, consuming until ctx is cancelled. Offsets are committed only
// after the handler succeeded or the message was parked in the DLQ.
func (c *Consumer) Start(ctx context.Context) error {
	c.mu.RLock()
	if c.closed {
		c.mu.RUnlock()
		return ErrConsumerClosed
	}
	handler := chainConsumer(c.middleware, c.handler)
	c.mu.RUnlock()

	c.wg.Add(1)
	defer c.wg.Done()

	c.logger.Info("kafka consumer started", "topic", c.topic, "group_id", c.groupID)
	for {
		km, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, io.EOF) {
				return ErrConsumerClosed
			}
			c.logger.Error("failed to fetch kafka message", "topic", c.topic, "error", err)
			if !sleep(ctx, time.Second) {
				return ctx.Err()
			}
			continue
		}

		if err := c.process(ctx, handler, fromKafkaMessage(km)); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			// Not committed; the message is redelivered after a rebalance or restart.
			c.logger.Error("kafka message left uncommitted", "topic", c.topic, "offset", km.Offset, "error", err)
			continue
		}
		if err := c.reader.CommitMessages(ctx, km); err != nil && ctx.Err() == nil {
			c.logger.Error("failed to commit kafka offset", "topic", c.topic, "offset", km.Offset, "error", err)
		}
	}
}

func chainConsumer(middleware []ConsumerMiddleware, final MessageHandler) MessageHandler {
	handler := final
	for i := len(middleware) - 1; i >= 0; i-- {
		mw, next := middleware[i], handler
		handler = func(ctx context.Context, m Message) error {
			return mw(ctx, m, next)
		}
	}
	return handler
}

// process runs handler with in-place retries for transient errors. A nil
// return means the offset may be committed.
func (c *Consumer) process(ctx context.Context, handler MessageHandler, msg Message) error {
	for {
		err := handler(ctx, msg)
		if err == nil {
			return nil
		}

		retries := msg.GetRetryCount()
		if ShouldRetry(err, retries, c.maxRetries) {
			msg.IncrementRetryCount()
			c.logger.Warn("retrying kafka message",
				"topic", c.topic, "event_id", msg.GetEventID(), "attempt", retries+1, "max_retries", c.maxRetries, "error", err)
			if !sleep(ctx, c.backoff*time.Duration(retries+1)) {
				return ctx.Err()
			}
			continue
		}

		if c.dlqWriter == nil {
			c.logger.Error("dropping kafka message", "topic", c.topic, "event_id", msg.GetEventID(), "error", err)
			return nil
		}
		dl := deadLetter(msg, c.topic, err)
		dl.Headers["dlq-consumer-group"] = c.groupID
		if dlqErr := c.dlqWriter.WriteMessages(ctx, toKafkaMessage(dl)); dlqErr != nil {
			return errors.Join(err, fmt.Errorf("dead letter: %w", dlqErr))
		}
		c.logger.Warn("kafka message sent to DLQ", "topic", c.topic, "event_id", msg.GetEventID(), "retries", retries, "error", err)
		return nil
	}
}

func (c *Consumer) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	err := c.reader.Close()
	c.wg.Wait()
	if c.dlqWriter != nil {
		if dlqErr := c.dlqWriter.Close(); err == nil {
			err = dlqErr
		}
	}
	return err
}

func (c *Consumer) Name() string {
	return "kafka_consumer:" + c.topic
}

func (c *Consumer) Lag() int64 {
	return c.reader.Stats().Lag
}

func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
