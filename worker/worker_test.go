package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"checkout-pricing-api/queue"
)

type fakeSource struct {
	mu        sync.Mutex
	jobs      []*queue.Job
	completed []string
	failed    []string
	delayed   int
}

func (f *fakeSource) Dequeue(ctx context.Context, timeout time.Duration) (*queue.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.jobs) == 0 {
		time.Sleep(time.Millisecond)
		return nil, nil
	}
	job := f.jobs[0]
	f.jobs = f.jobs[1:]
	return job, nil
}

func (f *fakeSource) CompleteJob(ctx context.Context, job *queue.Job) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.completed = append(f.completed, job.ID)
	return nil
}

func (f *fakeSource) FailJob(ctx context.Context, job *queue.Job, err error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failed = append(f.failed, job.ID)
	return nil
}

func (f *fakeSource) ProcessDelayedJobs(ctx context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.delayed++
	return 0, nil
}

func (f *fakeSource) snapshot() (completed, failed []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.completed...), append([]string(nil), f.failed...)
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (m *fakeMailer) SendEmail(to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, to)
	return nil
}

func confirmationJob(id, to string) *queue.Job {
	return &queue.Job{
		ID:   id,
		Type: queue.JobTypePurchaseConfirmation,
		Data: map[string]interface{}{
			"email":         to,
			"plan_id":       float64(7),
			"total":         "285.00",
			"extra_credits": float64(100),
		},
	}
}

func TestProcessJob(t *testing.T) {
	mailer := &fakeMailer{}
	w := NewWorker(&fakeSource{}, mailer)

	require.NoError(t, w.processJob(confirmationJob("1", "user@example.com")))
	assert.Equal(t, []string{"user@example.com"}, mailer.sent)

	assert.Error(t, w.processJob(confirmationJob("2", "")))
	assert.Error(t, w.processJob(&queue.Job{ID: "3", Type: "unknown"}))
}

func TestWorkerCompletesAndFailsJobs(t *testing.T) {
	source := &fakeSource{jobs: []*queue.Job{
		confirmationJob("ok", "user@example.com"),
		{ID: "bad", Type: "unknown"},
	}}
	w := NewWorker(source, &fakeMailer{})
	w.pollTimeout = 10 * time.Millisecond
	w.delayedPeriod = 10 * time.Millisecond

	w.Start(2)
	assert.Eventually(t, func() bool {
		completed, failed := source.snapshot()
		return len(completed) == 1 && len(failed) == 1
	}, time.Second, 10*time.Millisecond)
	w.Stop()
	w.Stop()

	completed, failed := source.snapshot()
	assert.Equal(t, []string{"ok"}, completed)
	assert.Equal(t, []string{"bad"}, failed)
}

func TestWorkerFailsJobWhenMailerFails(t *testing.T) {
	source := &fakeSource{jobs: []*queue.Job{confirmationJob("1", "user@example.com")}}
	w := NewWorker(source, &fakeMailer{err: errors.New("smtp down")})
	w.pollTimeout = 10 * time.Millisecond

	w.Start(1)
	assert.Eventually(t, func() bool {
		_, failed := source.snapshot()
		return len(failed) == 1
	}, time.Second, 10*time.Millisecond)
	w.Stop()
}

func TestIntField(t *testing.T) {
	data := map[string]interface{}{"a": float64(3), "b": 4, "c": "5"}
	assert.Equal(t, 3, intField(data, "a"))
	assert.Equal(t, 4, intField(data, "b"))
	assert.Equal(t, 0, intField(data, "c"))
	assert.Equal(t, 0, intField(data, "missing"))
}
