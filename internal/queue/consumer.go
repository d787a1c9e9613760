package queue

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "time"

    "github.com/labstack/gommon/log"
    amqp "github.com/rabbitmq/amqp091-go"

    "github.com/renotrack/renovation-tracker/internal/config"
)

const maxBackoff = 30 * time.Second

// Handler processes one decoded event.
type Handler func(ctx context.Context, ev ListingImportedEvent) error

// Consumer reads ListingImportedEvent messages and hands them to a Handler.
type Consumer struct {
    cfg    config.QueueConfig
    handle Handler
    logger *log.Logger
}

func NewConsumer(cfg config.QueueConfig, h Handler, logger *log.Logger) *Consumer {
    if cfg.Queue == "" {
        cfg.Queue = ListingImportedQueue
    }
    return &Consumer{cfg: cfg, handle: h, logger: logger}
}

// Run connects to the broker, declares the durable queue and consumes
// until ctx is cancelled.  Lost connections are re-dialled with an
// exponential backoff capped at 30s.  Run only returns ctx.Err().
func (c *Consumer) Run(ctx context.Context) error {
    backoff := time.Second
    for {
        conn, err := amqp.Dial(c.cfg.URL)
        if err != nil {
            c.logger.Warnf("failed to dial broker: %v; retrying in %s", err, backoff)
            if !sleep(ctx, backoff) {
                return ctx.Err()
            }
            backoff = nextBackoff(backoff)
            continue
        }
        backoff = time.Second // reset after successful connect
        c.logger.Infof("consuming %s", c.cfg.Queue)

        err = c.consumeLoop(ctx, conn)
        _ = conn.Close()
        if ctx.Err() != nil {
            return ctx.Err()
        }
        c.logger.Warnf("consume loop ended: %v; reconnecting", err)
        if !sleep(ctx, 2*time.Second) {
            return ctx.Err()
        }
    }
}

func (c *Consumer) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("channel open: %w", err)
    }
    defer func() { _ = ch.Close() }()

    if err := ch.Qos(c.cfg.Prefetch, 0, false); err != nil {
        c.logger.Warnf("set QoS failed: %v", err)
    }

    if _, err := ch.QueueDeclare(c.cfg.Queue, true, false, false, false, nil); err != nil {
        return fmt.Errorf("queue declare: %w", err)
    }

    msgs, err := ch.Consume(c.cfg.Queue, "", false, false, false, false, nil)
    if err != nil {
        return fmt.Errorf("queue consume: %w", err)
    }

    for {
        select {
        case <-ctx.Done():
            return ctx.Err()
        case d, ok := <-msgs:
            if !ok {
                return errors.New("deliveries channel closed")
            }
            c.deliver(ctx, d)
        }
    }
}

// deliver acks a processed message and rejects it without requeue on
// any failure, so a poison message cannot spin the consumer.
func (c *Consumer) deliver(ctx context.Context, d amqp.Delivery) {
    var ev ListingImportedEvent
    if err := json.Unmarshal(d.Body, &ev); err != nil || ev.ListingID == 0 {
        c.logger.Errorf("malformed message dropped: %v", err)
        _ = d.Nack(false, false)
        return
    }
    if err := c.handle(ctx, ev); err != nil {
        c.logger.Errorf("listing %d: handle event failed: %v", ev.ListingID, err)
        _ = d.Nack(false, false)
        return
    }
    _ = d.Ack(false)
}

func nextBackoff(d time.Duration) time.Duration {
    d *= 2
    if d > maxBackoff {
        return maxBackoff
    }
    return d
}

func sleep(ctx context.Context, d time.Duration) bool {
    t := time.NewTimer(d)
    defer t.Stop()
    select {
    case <-ctx.Done():
        return false
    case <-t.C:
        return true
    }
}
