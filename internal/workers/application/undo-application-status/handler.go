package undoapplicationstatus

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"talent-workers/internal/audit"
	"talent-workers/internal/common/config"
	"talent-workers/internal/common/errors"
	"talent-workers/internal/common/logger"
	"talent-workers/internal/common/metrics"
	"talent-workers/internal/common/validation"
	"talent-workers/internal/models"
	"talent-workers/internal/status"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const TaskType = "undo-application-status"

var schema = validation.MustCompile(TaskType, inputSchema)

type Handler struct {
	config       *Config
	applications ApplicationStore
	history      status.HistoryFor
	audit        AuditRecorder
	errors       *errors.ErrorHandler
	logger       logger.Logger
}

type HandlerOptions struct {
	AppConfig    *config.Config
	CustomConfig *Config
	Applications ApplicationStore
	History      status.HistoryFor
	Audit        AuditRecorder
	Logger       logger.Logger
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	cfg := createConfigFromAppConfig(opts.AppConfig, opts.CustomConfig)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", TaskType, err)
	}
	if opts.Applications == nil || opts.History == nil {
		return nil, fmt.Errorf("invalid configuration for %s: application store and history store are required", TaskType)
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewStructured("info", "json")
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})

	return &Handler{
		config:       cfg,
		applications: opts.Applications,
		history:      opts.History,
		audit:        opts.Audit,
		errors:       errors.NewErrorHandler(log),
		logger:       log,
	}, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.GetKey(),
		"workflowKey": job.GetProcessInstanceKey(),
	})

	input, err := h.parseInput(job)
	if err != nil {
		h.failJob(client, job, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.Execute(ctx, input)
	if err != nil {
		h.failJob(client, job, err)
		return
	}

	h.completeJob(client, job, output)
}

// Execute moves the application back to the status recorded in the session's
// undo slot. The slot then holds the status just left.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	current, err := h.currentStatus(ctx, input)
	if err != nil {
		return nil, err
	}

	engine := status.NewEngine(h.history(input.SessionID))
	pending, err := engine.Undo(ctx, input.ApplicationID, current)
	if err != nil {
		metrics.StatusRejections.WithLabelValues(string(status.KindUndo), string(errors.Code(err))).Inc()
		return nil, err
	}

	result, err := engine.Apply(ctx, pending, h.applications)
	if err != nil {
		metrics.HistoryRollbacks.WithLabelValues(string(status.KindUndo)).Inc()
		h.logger.Warn("undo write failed, undo history restored", map[string]interface{}{
			"applicationId": pending.Key,
			"error":         err,
		})
		return nil, err
	}

	metrics.StatusTransitions.WithLabelValues(string(result.PreviousStatus), string(result.NewStatus), string(result.Kind)).Inc()

	output := &Output{
		TransitionID:   uuid.New().String(),
		ApplicationID:  result.ApplicationID,
		PreviousStatus: result.PreviousStatus,
		NewStatus:      result.NewStatus,
		HistoryUpdated: result.HistoryUpdated,
		Intents:        result.Intents,
	}

	if h.audit != nil {
		id, err := h.audit.Record(ctx, audit.Event{
			TransitionID:   output.TransitionID,
			ApplicationKey: result.Key,
			From:           string(result.PreviousStatus),
			To:             string(result.NewStatus),
			Kind:           string(result.Kind),
			Actor:          string(status.ActorEmployer),
			SessionID:      input.SessionID,
		})
		if err != nil {
			h.logger.Warn("audit record failed", map[string]interface{}{
				"applicationId": result.Key,
				"error":         err,
			})
		}
		output.AuditEventID = id
	}

	h.logger.Info("application status undone", map[string]interface{}{
		"applicationId": result.Key,
		"from":          result.PreviousStatus,
		"to":            result.NewStatus,
	})

	return output, nil
}

func (h *Handler) currentStatus(ctx context.Context, input *Input) (models.Status, error) {
	if strings.TrimSpace(input.CurrentStatus) != "" {
		return models.Status(input.CurrentStatus), nil
	}
	app, err := h.applications.GetApplication(ctx, input.ApplicationID)
	if err != nil {
		return "", err
	}
	return app.Status, nil
}

func (h *Handler) parseInput(job entities.Job) (*Input, error) {
	if err := schema.ValidateVariables(job.GetVariables()); err != nil {
		return nil, err
	}
	var input Input
	if err := json.Unmarshal([]byte(job.GetVariables()), &input); err != nil {
		return nil, errors.NewParseError(err)
	}
	return &input, nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.GetKey()).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  err,
		})
		return
	}

	if _, err := cmd.Send(context.Background()); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  err,
		})
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	h.logger.Info("job completed successfully", map[string]interface{}{"jobKey": job.GetKey()})
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, err error) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(errors.Code(err))).Inc()
	h.errors.HandleJobError(context.Background(), client, job, err)
}

func createConfigFromAppConfig(appConfig *config.Config, customConfig *Config) *Config {
	if customConfig != nil {
		return customConfig
	}

	cfg := DefaultConfig()
	if appConfig == nil {
		return cfg
	}
	if workerCfg, exists := appConfig.Workers[TaskType]; exists {
		cfg.Enabled = workerCfg.Enabled
		if workerCfg.MaxJobsActive > 0 {
			cfg.MaxJobsActive = workerCfg.MaxJobsActive
		}
		if workerCfg.Timeout > 0 {
			cfg.Timeout = config.GetDuration(workerCfg.Timeout)
		}
	}
	return cfg
}

func (h *Handler) Config() *Config {
	return h.config
}
