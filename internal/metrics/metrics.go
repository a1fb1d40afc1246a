package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	FilesScannedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "videodupes_files_scanned_total",
		Help: "Total number of video files discovered across all runs",
	})

	ComparisonsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "videodupes_comparisons_total",
		Help: "Pairwise video comparisons, by outcome",
	}, []string{"outcome"})

	FailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "videodupes_failures_total",
		Help: "Non-fatal failures, by stage",
	}, []string{"stage"})

	GroupsFoundTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "videodupes_groups_found_total",
		Help: "Total number of duplicate groups found",
	})

	FilesDeletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "videodupes_files_deleted_total",
		Help: "Total number of duplicate files removed",
	})

	RunDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "videodupes_run_duration_seconds",
		Help:    "Duration of duplicate detection runs, by stage",
		Buckets: []float64{0.1, 1, 5, 10, 30, 60, 300, 900, 3600},
	}, []string{"stage"})
)
