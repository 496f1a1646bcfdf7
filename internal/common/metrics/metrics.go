package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "worker_job_duration_seconds",
			Help:    "Duration of job processing in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of jobs currently being handled per worker",
		},
		[]string{"task_type"},
	)

	StatusTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "application_status_transitions_total",
			Help: "Applied application status transitions",
		},
		[]string{"from", "to", "kind"},
	)

	StatusRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "application_status_rejections_total",
			Help: "Transitions refused before reaching the backend",
		},
		[]string{"kind", "error_code"},
	)

	HistoryRollbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "application_status_history_rollbacks_total",
			Help: "Undo history entries restored after a failed status write",
		},
		[]string{"kind"},
	)

	ProfileCompletion = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "profile_completion_percent",
			Help:    "Computed profile completion percentages",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
		[]string{"kind"},
	)

	TierAssignments = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "profile_tier_assignments_total",
			Help: "Membership tiers assigned by profile kind",
		},
		[]string{"kind", "tier"},
	)

	EligibilityChecks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "application_eligibility_checks_total",
			Help: "Eligibility gate decisions",
		},
		[]string{"eligible"},
	)
)
