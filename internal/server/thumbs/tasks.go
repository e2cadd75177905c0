// Package thumbs contains the asynchronous derived-asset pipeline: the job
// payload shared by producer and consumer, the queue binding, and the
// worker that renders thumbnail variants.
package thumbs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// TypeThumbnail is the task type routing thumbnail jobs to the worker.
const TypeThumbnail = "thumbnail:generate"

// Job is the only coupling between the upload pipeline and the worker.
// Delivery is at least once; the worker must tolerate re-runs.
type Job struct {
	UserID string `json:"userId"`
	FileID string `json:"fileId"`
}

// NewTask serializes a Job into a queue task.
func NewTask(job Job) (*asynq.Task, error) {
	payload, err := json.Marshal(job)
	if err != nil {
		return nil, fmt.Errorf("marshaling job: %w", err)
	}
	return asynq.NewTask(TypeThumbnail, payload), nil
}

// Queue is the producer-side capability the upload pipeline holds.
type Queue interface {
	Enqueue(ctx context.Context, job Job) error
}

// AsynqQueue enqueues jobs on the Redis-backed task queue.
type AsynqQueue struct {
	client *asynq.Client
}

func NewAsynqQueue(client *asynq.Client) *AsynqQueue {
	return &AsynqQueue{client: client}
}

func (q *AsynqQueue) Enqueue(ctx context.Context, job Job) error {
	task, err := NewTask(job)
	if err != nil {
		return err
	}
	if _, err := q.client.EnqueueContext(ctx, task); err != nil {
		return fmt.Errorf("enqueueing thumbnail job: %w", err)
	}
	return nil
}
