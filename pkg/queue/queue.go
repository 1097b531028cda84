// Package queue wraps asynq for background invoice scanning. Task
// status is mirrored into plain redis keys so the API can report
// progress without inspecting asynq internals.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	cfg "github.com/invoxa/invoice-manager/config"
)

const (
	TaskTypeInvoiceScan = "invoice:scan"
)

// Queue enqueues scan tasks and tracks their status.
type Queue interface {
	Enqueue(ctx context.Context, task *Task) error
	GetTaskStatus(ctx context.Context, taskID string) (*TaskStatus, error)
	CancelTask(ctx context.Context, taskID string) error
	SaveStatus(ctx context.Context, status *TaskStatus) error
}

// Task carries everything a worker needs to scan one stored invoice.
type Task struct {
	ID        string            `json:"id"`
	Type      string            `json:"type"`
	InvoiceID string            `json:"invoiceId"`
	FileKey   string            `json:"fileKey"`
	FileExt   string            `json:"fileExt"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
}

type TaskStatus struct {
	TaskID     string    `json:"taskId"`
	InvoiceID  string    `json:"invoiceId,omitempty"`
	Status     string    `json:"status"`
	Error      string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt,omitempty"`
}

type QueueConfig struct {
	RedisAddr      string
	RedisDB        int
	MaxRetries     int
	RetryDelay     time.Duration
	ProcessTimeout time.Duration
}

// AsynqQueue is the redis-backed Queue implementation.
type AsynqQueue struct {
	client    *asynq.Client
	inspector *asynq.Inspector
	redis     *redis.Client
}

// GetQueue builds a queue from server config.
func GetQueue() (*AsynqQueue, error) {
	serverCfg := cfg.GetServerConfig()
	return NewAsynqQueue(&QueueConfig{
		RedisAddr:      serverCfg.RedisAddr,
		RedisDB:        serverCfg.RedisDB,
		MaxRetries:     3,
		RetryDelay:     1 * time.Minute,
		ProcessTimeout: 10 * time.Minute,
	})
}

func NewAsynqQueue(cfg *QueueConfig) (*AsynqQueue, error) {
	redisOpt := asynq.RedisClientOpt{
		Addr: cfg.RedisAddr,
		DB:   cfg.RedisDB,
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
		DB:   cfg.RedisDB,
	})

	return &AsynqQueue{
		client:    asynq.NewClient(redisOpt),
		inspector: asynq.NewInspector(redisOpt),
		redis:     redisClient,
	}, nil
}

// Enqueue submits the task for background processing.
func (q *AsynqQueue) Enqueue(ctx context.Context, task *Task) error {
	payload, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal task: %w", err)
	}

	opts := []asynq.Option{
		asynq.MaxRetry(3),
		asynq.Timeout(10 * time.Minute),
		asynq.TaskID(task.ID),
		asynq.Queue("default"),
	}

	t := asynq.NewTask(task.Type, payload, opts...)
	if _, err := q.client.EnqueueContext(ctx, t); err != nil {
		return fmt.Errorf("failed to enqueue task: %w", err)
	}

	return q.SaveStatus(ctx, &TaskStatus{
		TaskID:    task.ID,
		InvoiceID: task.InvoiceID,
		Status:    "pending",
		StartedAt: time.Now(),
	})
}

// GetTaskStatus reads the mirrored status, falling back to the asynq
// inspector for tasks that never reported.
func (q *AsynqQueue) GetTaskStatus(ctx context.Context, taskID string) (*TaskStatus, error) {
	key := statusKey(taskID)
	data, err := q.redis.Get(ctx, key).Bytes()
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to get status from redis: %w", err)
	}

	if err == nil {
		var status TaskStatus
		if err := json.Unmarshal(data, &status); err != nil {
			return nil, fmt.Errorf("failed to unmarshal status: %w", err)
		}
		return &status, nil
	}

	info, err := q.inspector.GetTaskInfo("default", taskID)
	if err != nil {
		return nil, fmt.Errorf("task not found: %w", err)
	}

	return convertAsynqStatus(info), nil
}

// CancelTask removes a pending task from the queue.
func (q *AsynqQueue) CancelTask(ctx context.Context, taskID string) error {
	if err := q.inspector.DeleteTask("default", taskID); err != nil {
		return fmt.Errorf("failed to cancel task: %w", err)
	}
	return nil
}

// SaveStatus mirrors the task status into redis with a 24h TTL.
func (q *AsynqQueue) SaveStatus(ctx context.Context, status *TaskStatus) error {
	data, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("failed to marshal status: %w", err)
	}

	if err := q.redis.Set(ctx, statusKey(status.TaskID), data, 24*time.Hour).Err(); err != nil {
		return fmt.Errorf("failed to save status: %w", err)
	}

	return nil
}

func (q *AsynqQueue) Close() error {
	if err := q.client.Close(); err != nil {
		return err
	}
	return q.redis.Close()
}

func statusKey(taskID string) string {
	return fmt.Sprintf("scan_status:%s", taskID)
}

func convertAsynqStatus(info *asynq.TaskInfo) *TaskStatus {
	status := &TaskStatus{
		TaskID:    info.ID,
		StartedAt: info.NextProcessAt,
	}

	switch info.State {
	case asynq.TaskStatePending:
		status.Status = "pending"
	case asynq.TaskStateActive:
		status.Status = "running"
	case asynq.TaskStateCompleted:
		status.Status = "completed"
		status.FinishedAt = info.CompletedAt
	case asynq.TaskStateRetry, asynq.TaskStateArchived:
		status.Status = "failed"
		status.Error = info.LastErr
	default:
		status.Status = "pending"
	}

	return status
}
