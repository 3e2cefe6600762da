package queue

import (
    "context"
    "encoding/json"
    "fmt"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
    "go.uber.org/zap"

    "github.com/d60-Lab/feedcore/config"
    "github.com/d60-Lab/feedcore/internal/service"
)

// RabbitMQ 发布任务出队端：声明 exchange/queue/binding，持久化 JSON 投递。
// 真正的发布由队列消费方执行，不在本核心范围内。
type RabbitMQ struct {
    conn       *amqp.Connection
    channel    *amqp.Channel
    exchange   string
    routingKey string
    logger     *zap.Logger
}

func NewRabbitMQ(cfg config.RabbitMQConfig, logger *zap.Logger) (*RabbitMQ, error) {
    conn, err := amqp.Dial(cfg.URL)
    if err != nil {
        return nil, fmt.Errorf("connect to rabbitmq: %w", err)
    }

    ch, err := conn.Channel()
    if err != nil {
        conn.Close()
        return nil, fmt.Errorf("open channel: %w", err)
    }

    if err := ch.ExchangeDeclare(cfg.Exchange, "direct", true, false, false, false, nil); err != nil {
        ch.Close()
        conn.Close()
        return nil, fmt.Errorf("declare exchange: %w", err)
    }

    q, err := ch.QueueDeclare(cfg.QueueName, true, false, false, false, nil)
    if err != nil {
        ch.Close()
        conn.Close()
        return nil, fmt.Errorf("declare queue: %w", err)
    }

    if err := ch.QueueBind(q.Name, cfg.RoutingKey, cfg.Exchange, false, nil); err != nil {
        ch.Close()
        conn.Close()
        return nil, fmt.Errorf("bind queue: %w", err)
    }

    logger.Info("connected to rabbitmq",
        zap.String("exchange", cfg.Exchange),
        zap.String("queue", cfg.QueueName),
        zap.String("routing_key", cfg.RoutingKey))

    return &RabbitMQ{
        conn:       conn,
        channel:    ch,
        exchange:   cfg.Exchange,
        routingKey: cfg.RoutingKey,
        logger:     logger,
    }, nil
}

// PublishJobsMessage 队列里的一批发布任务
type PublishJobsMessage struct {
    Jobs      []service.PublishJob `json:"jobs"`
    Timestamp time.Time            `json:"timestamp"`
}

func (r *RabbitMQ) EnqueuePublishJobs(ctx context.Context, jobs []service.PublishJob) error {
    msg := PublishJobsMessage{Jobs: jobs, Timestamp: time.Now().UTC()}

    body, err := json.Marshal(msg)
    if err != nil {
        return fmt.Errorf("marshal message: %w", err)
    }

    err = r.channel.PublishWithContext(
        ctx,
        r.exchange,
        r.routingKey,
        false,
        false,
        amqp.Publishing{
            DeliveryMode: amqp.Persistent,
            ContentType:  "application/json",
            Body:         body,
            Timestamp:    time.Now(),
        },
    )
    if err != nil {
        return fmt.Errorf("publish message: %w", err)
    }

    r.logger.Debug("enqueued publish jobs", zap.Int("count", len(jobs)))
    return nil
}

func (r *RabbitMQ) Close() error {
    if r.channel != nil {
        r.channel.Close()
    }
    if r.conn != nil {
        return r.conn.Close()
    }
    return nil
}
