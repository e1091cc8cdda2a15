package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/campusnest/sublet-market/internal/core/domain"
	"github.com/campusnest/sublet-market/internal/core/ports"
	"github.com/campusnest/sublet-market/internal/pkg/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	sendTimeout    = 30 * time.Second
)

// Dispatcher delivers notifications on a fixed set of workers using
// consistent hashing on the recipient address, so emails to one recipient
// go out in the order they were queued.
type Dispatcher struct {
	workers []chan domain.Notification
	mailer  ports.Mailer
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, mailer ports.Mailer, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.Notification, numWorkers),
		mailer:  mailer,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.Notification, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. When ctx is cancelled each worker
// delivers what is already buffered and then returns.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Enqueue hands a notification to the worker responsible for its recipient.
// It never blocks: when the worker's buffer is full the notification is
// dropped and logged.
func (d *Dispatcher) Enqueue(n domain.Notification) {
	idx := d.shardIndex(n.To)
	select {
	case d.workers[idx] <- n:
		metrics.NotificationsQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.NotificationsTotal.WithLabelValues(string(n.Kind), "dropped").Inc()
		d.log.Warn().
			Str("kind", string(n.Kind)).
			Int("worker_id", idx).
			Msg("notification queue full, dropping")
	}
}

// shardIndex maps a recipient deterministically to a worker index.
func (d *Dispatcher) shardIndex(recipient string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(recipient))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.Notification) {
	defer d.wg.Done()
	label := strconv.Itoa(id)

	for {
		select {
		case <-ctx.Done():
			d.drain(ctx, id, ch)
			return
		case n, ok := <-ch:
			if !ok {
				return
			}
			metrics.NotificationsQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			d.deliver(ctx, id, n)
		}
	}
}

// drain delivers the notifications still buffered on ch without blocking
// for new ones.
func (d *Dispatcher) drain(ctx context.Context, id int, ch <-chan domain.Notification) {
	label := strconv.Itoa(id)
	for {
		select {
		case n, ok := <-ch:
			if !ok {
				return
			}
			metrics.NotificationsQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			d.deliver(ctx, id, n)
		default:
			return
		}
	}
}

// deliver bounds each send by sendTimeout only, so a shutdown does not abort
// a send that is already queued.
func (d *Dispatcher) deliver(ctx context.Context, workerID int, n domain.Notification) {
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sendTimeout)
	defer cancel()

	start := time.Now()
	err := d.mailer.Send(sendCtx, n.To, n.Subject, n.Body)
	metrics.NotificationDeliveryDuration.WithLabelValues(string(n.Kind)).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.NotificationsTotal.WithLabelValues(string(n.Kind), "failed").Inc()
		d.log.Error().Err(err).
			Str("kind", string(n.Kind)).
			Int("worker_id", workerID).
			Msg("notification delivery failed")
		return
	}
	metrics.NotificationsTotal.WithLabelValues(string(n.Kind), "sent").Inc()
}
