// Package notifier consumes queued notifications and delivers them through
// a notify.Sender.
package notifier

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/cuongbtq/sitejobs/internal/notifier/domain"
	"github.com/cuongbtq/sitejobs/internal/notify"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Broker is the subset of the RabbitMQ client the notifier consumes from
type Broker interface {
	Qos(prefetchCount int) error
	Consume(consumerTag string) (<-chan amqp.Delivery, error)
}

// Config holds notifier configuration
type Config struct {
	Logger        *slog.Logger
	Broker        Broker
	Sender        notify.Sender
	WorkerID      string
	QueueName     string
	Concurrency   int
	PrefetchCount int
	SendTimeout   time.Duration
	// MaxMessageAge drops notifications older than this; 0 keeps them all
	MaxMessageAge time.Duration
}

// Notifier represents the background notification worker
type Notifier struct {
	logger        *slog.Logger
	broker        Broker
	sender        notify.Sender
	workerID      string
	queueName     string
	concurrency   int
	prefetchCount int
	sendTimeout   time.Duration
	maxMessageAge time.Duration
	now           func() time.Time

	wg           sync.WaitGroup
	stopChan     chan struct{}
	stopOnce     sync.Once
	messagesChan chan *domain.Envelope
}

// NewNotifier creates a new notifier instance
func NewNotifier(cfg *Config) *Notifier {
	n := &Notifier{
		logger:        cfg.Logger,
		broker:        cfg.Broker,
		sender:        cfg.Sender,
		workerID:      cfg.WorkerID,
		queueName:     cfg.QueueName,
		concurrency:   cfg.Concurrency,
		prefetchCount: cfg.PrefetchCount,
		sendTimeout:   cfg.SendTimeout,
		maxMessageAge: cfg.MaxMessageAge,
		now:           time.Now,
		stopChan:      make(chan struct{}),
	}

	if n.logger == nil {
		n.logger = slog.Default()
	}
	if n.concurrency <= 0 {
		n.concurrency = 1
	}
	if n.prefetchCount <= 0 {
		n.prefetchCount = n.concurrency
	}
	if n.sendTimeout <= 0 {
		n.sendTimeout = 10 * time.Second
	}
	if n.workerID == "" {
		n.workerID = "notifier"
	}
	n.messagesChan = make(chan *domain.Envelope, n.concurrency)

	return n
}

// Start consumes until ctx is canceled, Stop is called or the delivery
// channel closes, then waits for in-flight messages
func (n *Notifier) Start(ctx context.Context) error {
	n.logger.Info("Starting notifier",
		slog.String("worker_id", n.workerID),
		slog.Int("concurrency", n.concurrency),
		slog.Duration("send_timeout", n.sendTimeout),
	)

	deliveries, err := n.setupConsumer()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-n.stopChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	n.spawnWorkerPool(ctx)
	n.startMessageDispatcher(ctx, deliveries)

	close(n.messagesChan)
	n.wg.Wait()

	n.logger.Info("Notifier stopped", slog.String("worker_id", n.workerID))
	return nil
}

// Stop signals Start to return
func (n *Notifier) Stop() {
	n.stopOnce.Do(func() {
		n.logger.Info("Stopping notifier...")
		close(n.stopChan)
	})
}
