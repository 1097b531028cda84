package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/invoxa/invoice-manager/internal/service/invoice"
	"github.com/invoxa/invoice-manager/pkg/logger"
	"github.com/invoxa/invoice-manager/pkg/queue"
)

// ScanWorker consumes queued invoice scans and mirrors task outcomes
// back into the queue's status store.
type ScanWorker struct {
	BaseWorker
	invoiceService invoice.Service
	queue          queue.Queue
}

func NewScanWorker(cfg *Config, invoiceService invoice.Service, q queue.Queue, logger logger.Logger) (*ScanWorker, error) {
	server := asynq.NewServer(
		asynq.RedisClientOpt{Addr: cfg.RedisAddr, DB: cfg.RedisDB},
		asynq.Config{
			Concurrency: cfg.Concurrency,
			Queues:      cfg.Queues,
			RetryDelayFunc: func(n int, err error, task *asynq.Task) time.Duration {
				return time.Duration(n) * time.Minute
			},
		},
	)

	w := &ScanWorker{
		BaseWorker: BaseWorker{
			server:   server,
			mux:      asynq.NewServeMux(),
			logger:   logger,
			stopChan: make(chan struct{}),
		},
		invoiceService: invoiceService,
		queue:          q,
	}

	w.mux.HandleFunc(queue.TaskTypeInvoiceScan, w.handleInvoiceScan)
	return w, nil
}

func (w *ScanWorker) handleInvoiceScan(ctx context.Context, t *asynq.Task) error {
	var task queue.Task
	if err := json.Unmarshal(t.Payload(), &task); err != nil {
		w.logger.Error("Failed to unmarshal task",
			logger.Error(err),
			logger.String("payload", string(t.Payload())),
		)
		return fmt.Errorf("failed to unmarshal task: %w", err)
	}

	w.logger.Info("Processing invoice scan",
		logger.String("taskId", task.ID),
		logger.String("invoiceId", task.InvoiceID),
	)

	if task.ID == "" || task.InvoiceID == "" || task.FileKey == "" {
		return fmt.Errorf("invalid task data: missing required fields")
	}

	w.saveStatus(ctx, &queue.TaskStatus{
		TaskID:    task.ID,
		InvoiceID: task.InvoiceID,
		Status:    "running",
		StartedAt: task.CreatedAt,
	})

	if err := w.invoiceService.HandleScanTask(ctx, &task); err != nil {
		w.saveStatus(ctx, &queue.TaskStatus{
			TaskID:     task.ID,
			InvoiceID:  task.InvoiceID,
			Status:     "failed",
			Error:      err.Error(),
			StartedAt:  task.CreatedAt,
			FinishedAt: time.Now(),
		})
		return err
	}

	w.saveStatus(ctx, &queue.TaskStatus{
		TaskID:     task.ID,
		InvoiceID:  task.InvoiceID,
		Status:     "completed",
		StartedAt:  task.CreatedAt,
		FinishedAt: time.Now(),
	})

	return nil
}

func (w *ScanWorker) saveStatus(ctx context.Context, status *queue.TaskStatus) {
	if err := w.queue.SaveStatus(ctx, status); err != nil {
		w.logger.Error("Failed to save task status",
			logger.String("taskId", status.TaskID),
			logger.Error(err),
		)
	}
}

func (w *ScanWorker) Start(ctx context.Context) error {
	go func() {
		if err := w.server.Run(w.mux); err != nil {
			w.logger.Error("Worker server stopped", logger.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		w.Stop()
	}()

	return nil
}
