package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"checkout-pricing-api/logger"
)

type JobType string

const (
	JobTypePurchaseConfirmation JobType = "purchase_confirmation"
)

const MaxRetries = 5

type Job struct {
	ID         string                 `json:"id"`
	Type       JobType                `json:"type"`
	Data       map[string]interface{} `json:"data"`
	CreatedAt  time.Time              `json:"created_at"`
	RetryCount int                    `json:"retry_count"`
}

// Queue is a Redis list backed job queue. Jobs being worked on sit in the processing
// list, retries wait in a sorted set scored by their due time.
type Queue struct {
	client     *redis.Client
	queueName  string
	processing string
	delayed    string
	failed     string
}

func NewQueue(client *redis.Client, queueName string) *Queue {
	return &Queue{
		client:     client,
		queueName:  queueName,
		processing: queueName + ":processing",
		delayed:    queueName + ":delayed",
		failed:     queueName + ":failed",
	}
}

func (q *Queue) Enqueue(ctx context.Context, jobType JobType, data map[string]interface{}) error {
	job := Job{
		ID:        uuid.NewString(),
		Type:      jobType,
		Data:      data,
		CreatedAt: time.Now(),
	}

	jobJSON, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}

	if err := q.client.RPush(ctx, q.queueName, jobJSON).Err(); err != nil {
		return fmt.Errorf("failed to push job to queue: %w", err)
	}

	logger.Log.Info("enqueued job", zap.String("job_id", job.ID), zap.String("job_type", string(job.Type)))
	return nil
}

// Dequeue blocks up to timeout for a job. It returns nil, nil when none arrived.
func (q *Queue) Dequeue(ctx context.Context, timeout time.Duration) (*Job, error) {
	result, err := q.client.BLPop(ctx, timeout, q.queueName).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job from queue: %w", err)
	}

	if len(result) < 2 {
		return nil, fmt.Errorf("unexpected BLPOP result format")
	}

	var job Job
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		return nil, fmt.Errorf("failed to unmarshal job: %w", err)
	}

	if err := q.client.HSet(ctx, q.processing, job.ID, result[1]).Err(); err != nil {
		logger.Log.Warn("failed to track job as processing", zap.String("job_id", job.ID), zap.Error(err))
	}

	return &job, nil
}

func (q *Queue) CompleteJob(ctx context.Context, job *Job) error {
	if err := q.client.HDel(ctx, q.processing, job.ID).Err(); err != nil {
		return fmt.Errorf("failed to remove job from processing: %w", err)
	}

	logger.Log.Info("completed job", zap.String("job_id", job.ID), zap.String("job_type", string(job.Type)))
	return nil
}

// RetryDelay is the wait before retry n (1 based): 15s, 30s, 60s...
func RetryDelay(retry int) time.Duration {
	if retry < 1 {
		retry = 1
	}
	return time.Duration(15*(1<<(retry-1))) * time.Second
}

// FailJob schedules a retry with exponential delay, or parks the job in the failed list
// once MaxRetries is exceeded.
func (q *Queue) FailJob(ctx context.Context, job *Job, jobErr error) error {
	if err := q.client.HDel(ctx, q.processing, job.ID).Err(); err != nil {
		logger.Log.Warn("failed to remove job from processing", zap.String("job_id", job.ID), zap.Error(err))
	}

	job.RetryCount++
	if job.Data == nil {
		job.Data = map[string]interface{}{}
	}
	job.Data["last_error"] = jobErr.Error()

	log := logger.Log.With(
		zap.String("job_id", job.ID),
		zap.String("job_type", string(job.Type)),
		zap.Int("retry", job.RetryCount),
	)

	if job.RetryCount <= MaxRetries {
		delay := RetryDelay(job.RetryCount)
		jobJSON, err := json.Marshal(job)
		if err != nil {
			return fmt.Errorf("failed to marshal job: %w", err)
		}

		retryAt := time.Now().Add(delay)
		err = q.client.ZAdd(ctx, q.delayed, &redis.Z{
			Score:  float64(retryAt.Unix()),
			Member: jobJSON,
		}).Err()
		if err == nil {
			log.Warn("job scheduled for retry", zap.Duration("delay", delay), zap.Error(jobErr))
			return nil
		}
		log.Warn("failed to schedule retry, moving job to failed list", zap.Error(err))
	}

	job.Data["all_retries_exhausted"] = job.RetryCount > MaxRetries
	jobJSON, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}
	if err := q.client.RPush(ctx, q.failed, jobJSON).Err(); err != nil {
		return fmt.Errorf("failed to push job to failed queue: %w", err)
	}

	log.Error("job moved to failed list", zap.Error(jobErr))
	return nil
}

// ProcessDelayedJobs moves retries that are due back to the main queue.
func (q *Queue) ProcessDelayedJobs(ctx context.Context) (int, error) {
	now := strconv.FormatInt(time.Now().Unix(), 10)

	jobs, err := q.client.ZRangeByScore(ctx, q.delayed, &redis.ZRangeBy{
		Min: "0",
		Max: now,
	}).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get delayed jobs: %w", err)
	}

	moved := 0
	for _, jobJSON := range jobs {
		removed, err := q.client.ZRem(ctx, q.delayed, jobJSON).Result()
		if err != nil {
			logger.Log.Warn("failed to remove job from delayed set", zap.Error(err))
			continue
		}
		if removed == 0 {
			// Another worker took it.
			continue
		}
		if err := q.client.RPush(ctx, q.queueName, jobJSON).Err(); err != nil {
			logger.Log.Error("failed to move delayed job to queue", zap.Error(err))
			continue
		}
		moved++
	}
	return moved, nil
}

// FailedJobs returns the jobs that ran out of retries.
func (q *Queue) FailedJobs(ctx context.Context) ([]Job, error) {
	entries, err := q.client.LRange(ctx, q.failed, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list failed jobs: %w", err)
	}

	jobs := make([]Job, 0, len(entries))
	for _, entry := range entries {
		var job Job
		if err := json.Unmarshal([]byte(entry), &job); err != nil {
			continue
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

// Len returns the number of jobs waiting in the main queue.
func (q *Queue) Len(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, q.queueName).Result()
}
