// Package service holds the application services that sit between the
// HTTP handlers and the adapters: listing import, photo room inference
// and event publishing.
package service

import (
    "context"
    "encoding/json"
    "time"

    "github.com/labstack/gommon/log"
    amqp "github.com/rabbitmq/amqp091-go"

    "github.com/renotrack/renovation-tracker/internal/config"
    "github.com/renotrack/renovation-tracker/internal/queue"
)

// dialTimeout caps the TCP connect and AMQP handshake when the caller's
// context has no earlier deadline.
const dialTimeout = 3 * time.Second

// Publisher sends domain events to RabbitMQ.  It dials per publish;
// import traffic is low and a short-lived connection never goes stale.
type Publisher struct {
    cfg    config.QueueConfig
    logger *log.Logger
}

func NewPublisher(cfg config.QueueConfig, logger *log.Logger) *Publisher {
    if cfg.Queue == "" {
        cfg.Queue = queue.ListingImportedQueue
    }
    return &Publisher{cfg: cfg, logger: logger}
}

// PublishListingImported publishes ev to the listing.imported queue.
// Any error is logged and returned so the caller can choose to ignore
// it.  Messages are marked as persistent.
func (p *Publisher) PublishListingImported(ctx context.Context, ev queue.ListingImportedEvent) error {
    if err := ctx.Err(); err != nil {
        return err
    }
    timeout := dialTimeout
    if dl, ok := ctx.Deadline(); ok && time.Until(dl) < timeout {
        timeout = time.Until(dl)
    }
    conn, err := amqp.DialConfig(p.cfg.URL, amqp.Config{
        Heartbeat: 10 * time.Second,
        Locale:    "en_US",
        Dial:      amqp.DefaultDial(timeout),
    })
    if err != nil {
        p.logger.Errorf("dial failed: %v", err)
        return err
    }
    defer func() { _ = conn.Close() }()

    ch, err := conn.Channel()
    if err != nil {
        p.logger.Errorf("channel open failed: %v", err)
        return err
    }
    defer func() { _ = ch.Close() }()

    // Durable so messages survive broker restarts.
    if _, err := ch.QueueDeclare(
        p.cfg.Queue, // name
        true,        // durable
        false,       // autoDelete
        false,       // exclusive
        false,       // noWait
        nil,         // args
    ); err != nil {
        p.logger.Errorf("queue declare failed: %v", err)
        return err
    }

    body, err := json.Marshal(ev)
    if err != nil {
        return err
    }

    pub := amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent,
        Timestamp:    time.Now().UTC(),
        Body:         body,
    }

    if err := ch.PublishWithContext(ctx,
        "",          // default exchange
        p.cfg.Queue, // routing key = queue name
        false,       // mandatory
        false,       // immediate
        pub,
    ); err != nil {
        p.logger.Errorf("publish failed: %v", err)
        return err
    }
    p.logger.Debugf("published listing %d to %s", ev.ListingID, p.cfg.Queue)
    return nil
}
