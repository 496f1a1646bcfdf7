package checkapplicationeligibility

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"talent-workers/internal/common/config"
	"talent-workers/internal/common/errors"
	"talent-workers/internal/common/logger"
	"talent-workers/internal/common/metrics"
	"talent-workers/internal/common/validation"
	"talent-workers/internal/eligibility"
	"talent-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "check-application-eligibility"

var schema = validation.MustCompile(TaskType, inputSchema)

type Handler struct {
	config   *Config
	gate     *eligibility.Gate
	profiles ProfileFetcher
	errors   *errors.ErrorHandler
	logger   logger.Logger
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
		config:   cfg,
		gate:     eligibility.NewGate(cfg.MinCompletion),
		profiles: opts.Profiles,
		errors:   errors.NewErrorHandler(log),
		logger:   log,
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

// Execute runs the gate. An ineligible seeker is a normal result, not an error.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	profile, err := h.loadProfile(ctx, input)
	if err != nil {
		return nil, err
	}

	hasResume := strings.TrimSpace(profile.ResumeURL) != ""
	if input.HasResume != nil {
		hasResume = *input.HasResume
	}

	result := h.gate.IsEligible(profile, hasResume)
	metrics.EligibilityChecks.WithLabelValues(strconv.FormatBool(result.Eligible)).Inc()

	h.logger.Info("eligibility checked", map[string]interface{}{
		"userId":     input.UserID,
		"jobId":      input.JobID,
		"eligible":   result.Eligible,
		"completion": result.Completion,
		"missing":    len(result.MissingFields),
	})

	return &Output{
		Eligible:          result.Eligible,
		ProfileCompletion: result.Completion,
		MinCompletion:     result.MinCompletion,
		MissingFields:     result.MissingFields,
	}, nil
}

func (h *Handler) loadProfile(ctx context.Context, input *Input) (*models.JobSeekerProfile, error) {
	if input.Profile != nil {
		return input.Profile, nil
	}
	if h.profiles == nil {
		return nil, errors.NewValidationError("profile is required", "no inline profile and no profile source configured")
	}

	rec, err := h.profiles.GetProfileDetails(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if rec.Kind != models.ProfileJobSeeker || rec.JobSeeker == nil {
		return nil, errors.NewValidationError("only job seekers can apply", fmt.Sprintf("profile kind %q", rec.Kind))
	}
	return rec.JobSeeker, nil
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
	if appConfig.Engine.MinCompletion > 0 {
		cfg.MinCompletion = appConfig.Engine.MinCompletion
	}
	return cfg
}

func (h *Handler) Config() *Config {
	return h.config
}
