package transitionapplicationstatus

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

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

const TaskType = "transition-application-status"

var schema = validation.MustCompile(TaskType, inputSchema)

type Handler struct {
	config       *Config
	applications ApplicationStore
	history      status.HistoryFor
	audit        AuditRecorder
	now          func() time.Time
	errors       *errors.ErrorHandler
	logger       logger.Logger
}

type HandlerOptions struct {
	AppConfig    *config.Config
	CustomConfig *Config
	Applications ApplicationStore
	History      status.HistoryFor
	// Audit is optional.
	Audit  AuditRecorder
	Clock  func() time.Time
	Logger logger.Logger
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	cfg := createConfigFromAppConfig(opts.AppConfig, opts.CustomConfig)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", TaskType, err)
	}
	if opts.Applications == nil {
		return nil, fmt.Errorf("invalid configuration for %s: application store is required", TaskType)
	}
	if opts.History == nil {
		return nil, fmt.Errorf("invalid configuration for %s: history store is required", TaskType)
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewStructured("info", "json")
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})

	now := opts.Clock
	if now == nil {
		now = time.Now
	}

	return &Handler{
		config:       cfg,
		applications: opts.Applications,
		history:      opts.History,
		audit:        opts.Audit,
		now:          now,
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

// Execute validates the move, records the undo slot, writes the new status to
// the backend and appends an audit row. A failed backend write leaves the
// undo slot as it was.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	from, err := h.currentStatus(ctx, input)
	if err != nil {
		return nil, err
	}

	engine := status.NewEngine(h.history(input.SessionID), status.WithClock(h.now))
	pending, err := engine.Transition(ctx, status.Request{
		ApplicationID: input.ApplicationID,
		From:          from,
		To:            models.Status(input.ToStatus),
		Actor:         status.Actor(strings.ToLower(strings.TrimSpace(input.Actor))),
		Interview:     input.Interview,
		Notes:         input.Notes,
	})
	if err != nil {
		metrics.StatusRejections.WithLabelValues(string(status.KindForward), string(errors.Code(err))).Inc()
		return nil, err
	}

	result, err := engine.Apply(ctx, pending, h.applications)
	if err != nil {
		metrics.HistoryRollbacks.WithLabelValues(string(status.KindForward)).Inc()
		h.logger.Warn("status write failed, undo history restored", map[string]interface{}{
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
	output.AuditEventID = h.recordAudit(ctx, output, result, input)

	h.logger.Info("application status changed", map[string]interface{}{
		"applicationId": result.Key,
		"from":          result.PreviousStatus,
		"to":            result.NewStatus,
		"intents":       len(result.Intents),
		"transitionId":  output.TransitionID,
	})

	return output, nil
}

func (h *Handler) currentStatus(ctx context.Context, input *Input) (models.Status, error) {
	if strings.TrimSpace(input.FromStatus) != "" {
		return models.Status(input.FromStatus), nil
	}
	app, err := h.applications.GetApplication(ctx, input.ApplicationID)
	if err != nil {
		return "", err
	}
	return app.Status, nil
}

// recordAudit never fails the job; the status change has already been applied.
func (h *Handler) recordAudit(ctx context.Context, out *Output, result *status.Result, input *Input) string {
	if h.audit == nil {
		return ""
	}
	actor := strings.ToLower(strings.TrimSpace(input.Actor))
	if actor == "" {
		actor = string(status.ActorEmployer)
	}

	id, err := h.audit.Record(ctx, audit.Event{
		TransitionID:   out.TransitionID,
		ApplicationKey: result.Key,
		From:           string(result.PreviousStatus),
		To:             string(result.NewStatus),
		Kind:           string(result.Kind),
		Actor:          actor,
		SessionID:      input.SessionID,
	})
	if err != nil {
		h.logger.Warn("audit record failed", map[string]interface{}{
			"applicationId": result.Key,
			"transitionId":  out.TransitionID,
			"error":         err,
		})
		return ""
	}
	return id
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
