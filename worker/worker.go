package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"checkout-pricing-api/logger"
	"checkout-pricing-api/queue"
	"checkout-pricing-api/services/email"
)

// JobSource is the part of the queue the worker consumes.
type JobSource interface {
	Dequeue(ctx context.Context, timeout time.Duration) (*queue.Job, error)
	CompleteJob(ctx context.Context, job *queue.Job) error
	FailJob(ctx context.Context, job *queue.Job, err error) error
	ProcessDelayedJobs(ctx context.Context) (int, error)
}

// Worker handles background jobs produced by purchases.
type Worker struct {
	queue    JobSource
	mailer   email.Sender
	shutdown chan struct{}
	wg       sync.WaitGroup
	mu       sync.Mutex
	running  bool

	pollTimeout   time.Duration
	delayedPeriod time.Duration
}

func NewWorker(q JobSource, mailer email.Sender) *Worker {
	return &Worker{
		queue:         q,
		mailer:        mailer,
		shutdown:      make(chan struct{}),
		pollTimeout:   5 * time.Second,
		delayedPeriod: 10 * time.Second,
	}
}

// Start launches concurrency consumers and the delayed jobs mover.
func (w *Worker) Start(concurrency int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return
	}
	if concurrency < 1 {
		concurrency = 1
	}
	w.running = true

	for i := 0; i < concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(i)
	}
	w.wg.Add(1)
	go w.moveDelayedJobs()

	logger.Log.Info("worker started", zap.Int("concurrency", concurrency))
}

// Stop signals the consumers and waits for the jobs in flight.
func (w *Worker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	close(w.shutdown)
	w.mu.Unlock()

	logger.Log.Info("stopping worker")
	w.wg.Wait()
}

func (w *Worker) processJobs(workerID int) {
	defer w.wg.Done()
	log := logger.Log.With(zap.Int("worker_id", workerID))

	for {
		select {
		case <-w.shutdown:
			log.Info("worker shutting down")
			return
		default:
		}

		ctx, cancel := context.WithTimeout(context.Background(), w.pollTimeout+time.Second)
		job, err := w.queue.Dequeue(ctx, w.pollTimeout)
		cancel()

		if err != nil {
			log.Error("error dequeuing job", zap.Error(err))
			w.sleep(time.Second)
			continue
		}
		if job == nil {
			continue
		}

		w.handle(log, job)
	}
}

func (w *Worker) handle(log *zap.Logger, job *queue.Job) {
	log = log.With(zap.String("job_id", job.ID), zap.String("job_type", string(job.Type)))
	log.Info("processing job")

	if jobErr := w.processJob(job); jobErr != nil {
		log.Warn("error processing job", zap.Error(jobErr))

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := w.queue.FailJob(ctx, job, jobErr); err != nil {
			log.Error("error marking job as failed", zap.Error(err))
		}
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := w.queue.CompleteJob(ctx, job); err != nil {
		log.Error("error marking job as complete", zap.Error(err))
	}
}

func (w *Worker) processJob(job *queue.Job) error {
	switch job.Type {
	case queue.JobTypePurchaseConfirmation:
		return w.sendPurchaseConfirmation(job)
	default:
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
}

func (w *Worker) sendPurchaseConfirmation(job *queue.Job) error {
	to := stringField(job.Data, "email")
	if to == "" {
		return fmt.Errorf("invalid email in job data")
	}

	return email.SendPurchaseConfirmation(w.mailer, email.PurchaseConfirmation{
		To:            to,
		AttemptID:     stringField(job.Data, "attempt_id"),
		PlanID:        intField(job.Data, "plan_id"),
		Total:         stringField(job.Data, "total"),
		PaymentMethod: stringField(job.Data, "payment_method"),
		Discount:      stringField(job.Data, "discount"),
		ExtraCredits:  intField(job.Data, "extra_credits"),
		Locale:        stringField(job.Data, "locale"),
	})
}

func (w *Worker) moveDelayedJobs() {
	defer w.wg.Done()
	ticker := time.NewTicker(w.delayedPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-w.shutdown:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			moved, err := w.queue.ProcessDelayedJobs(ctx)
			cancel()
			if err != nil {
				logger.Log.Error("error moving delayed jobs", zap.Error(err))
			} else if moved > 0 {
				logger.Log.Info("moved delayed jobs", zap.Int("count", moved))
			}
		}
	}
}

func (w *Worker) sleep(d time.Duration) {
	select {
	case <-w.shutdown:
	case <-time.After(d):
	}
}

func stringField(data map[string]interface{}, key string) string {
	s, _ := data[key].(string)
	return s
}

// intField reads numbers that went through JSON, where they decode as float64.
func intField(data map[string]interface{}, key string) int {
	switch v := data[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}
