package computeprofilescore

import (
	"context"
	"encoding/json"
	"fmt"

	"talent-workers/internal/common/config"
	"talent-workers/internal/common/errors"
	"talent-workers/internal/common/logger"
	"talent-workers/internal/common/metrics"
	"talent-workers/internal/common/validation"
	"talent-workers/internal/scoring"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "compute-profile-score"

var schema = validation.MustCompile(TaskType, inputSchema)

type Handler struct {
	config     *Config
	classifier *scoring.Classifier
	profiles   ProfileFetcher
	errors     *errors.ErrorHandler
	logger     logger.Logger
}

type HandlerOptions struct {
	AppConfig    *config.Config
	CustomConfig *Config
	Profiles     ProfileFetcher
	Logger       logger.Logger
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	cfg := createConfigFromAppConfig(opts.AppConfig, opts.CustomConfig)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", TaskType, err)
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewStructured("info", "json")
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})

	return &Handler{
		config:     cfg,
		classifier: scoring.NewClassifier(cfg.TopCompanies),
		profiles:   opts.Profiles,
		errors:     errors.NewErrorHandler(log),
		logger:     log,
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

// Execute scores the inline profile, or the one fetched for input.UserID.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	rec := input.Profile
	if rec == nil {
		if h.profiles == nil {
			return nil, errors.NewValidationError("profile is required", "no inline profile and no profile source configured")
		}
		fetched, err := h.profiles.GetProfileDetails(ctx, input.UserID)
		if err != nil {
			return nil, err
		}
		rec = fetched
	}

	eval, err := h.classifier.Evaluate(*rec, scoring.Accrual{
		Bonuses:  input.Bonuses,
		Deducted: input.PointsDeducted,
	})
	if err != nil {
		return nil, errors.NewValidationError("invalid profile", err.Error())
	}

	kind := string(eval.Kind)
	metrics.ProfileCompletion.WithLabelValues(kind).Observe(float64(eval.Completion))
	metrics.TierAssignments.WithLabelValues(kind, string(eval.Tier)).Inc()

	userID := input.UserID
	if userID == "" {
		userID = rec.UserID
	}

	output := &Output{
		UserID:            userID,
		ProfileCompletion: eval.Completion,
		MembershipTier:    eval.Tier,
		AvailablePoints:   eval.AvailablePoints,
		ProfileScore:      eval,
	}
	if input.RedeemCost > 0 {
		ok := scoring.CanRedeem(eval.AvailablePoints, input.RedeemCost)
		output.CanRedeem = &ok
	}

	h.logger.Info("profile scored", map[string]interface{}{
		"userId":     userID,
		"kind":       kind,
		"completion": eval.Completion,
		"tier":       eval.Tier,
		"available":  eval.AvailablePoints,
	})

	return output, nil
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
	if len(appConfig.Engine.TopCompanies) > 0 {
		cfg.TopCompanies = appConfig.Engine.TopCompanies
	}
	return cfg
}

func (h *Handler) Config() *Config {
	return h.config
}
