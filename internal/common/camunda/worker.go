package camunda

import (
	"context"
	"fmt"
	"time"

	"talent-workers/internal/common/logger"
	"talent-workers/internal/common/metrics"
	"talent-workers/internal/common/observability"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

type WorkerOptions struct {
	TaskType      string
	MaxJobsActive int
	Timeout       time.Duration
}

// Worker is one open job subscription.
type Worker struct {
	jobWorker worker.JobWorker
	taskType  string
	logger    logger.Logger
}

// StartWorker opens a job worker for opts.TaskType with handler wrapped by
// Instrument.
func (c *Client) StartWorker(opts WorkerOptions, handler worker.JobHandler, obs *observability.Observability, log logger.Logger) *Worker {
	jobWorker := c.client.NewJobWorker().
		JobType(opts.TaskType).
		Handler(Instrument(opts.TaskType, handler, obs)).
		MaxJobsActive(opts.MaxJobsActive).
		Timeout(opts.Timeout).
		RequestTimeout(c.config.RequestTimeout).
		Name(fmt.Sprintf("%s-worker", opts.TaskType)).
		Open()

	log.Info("worker started", map[string]interface{}{
		"taskType":      opts.TaskType,
		"maxJobsActive": opts.MaxJobsActive,
		"timeout":       opts.Timeout.String(),
	})

	return &Worker{
		jobWorker: jobWorker,
		taskType:  opts.TaskType,
		logger:    log,
	}
}

// Instrument tracks active jobs and handling time for taskType.
func Instrument(taskType string, handler worker.JobHandler, obs *observability.Observability) worker.JobHandler {
	return func(client worker.JobClient, job entities.Job) {
		start := time.Now()
		active := metrics.WorkerJobsActive.WithLabelValues(taskType)
		active.Inc()
		defer func() {
			active.Dec()
			elapsed := time.Since(start)
			metrics.WorkerJobDuration.WithLabelValues(taskType).Observe(elapsed.Seconds())
			obs.RecordJob(context.Background(), taskType, "handled", elapsed)
		}()

		handler(client, job)
	}
}

func (w *Worker) TaskType() string {
	return w.taskType
}

// Stop closes the subscription and waits for in-flight jobs.
func (w *Worker) Stop() {
	if w.jobWorker == nil {
		return
	}
	w.logger.Info("stopping worker", map[string]interface{}{"taskType": w.taskType})
	w.jobWorker.Close()
	w.jobWorker.AwaitClose()
	w.jobWorker = nil
}
