package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HarvestStagesTotal counts executed harvest stages by stage and result.
	HarvestStagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fluxus_harvest_stages_total",
		Help: "Harvest stage invocations by stage and result.",
	}, []string{"stage", "result"})

	// DepositsTotal counts completed user deposits.
	DepositsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fluxus_deposits_total",
		Help: "Completed user deposits.",
	})

	// UnstakesTotal counts completed user withdrawals.
	UnstakesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fluxus_unstakes_total",
		Help: "Completed user withdrawals.",
	})

	// FarmsByState tracks how many tracked farms sit in each lifecycle state.
	FarmsByState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "fluxus_farms",
		Help: "Tracked farms by lifecycle state.",
	}, []string{"state"})

	// SnapshotFailures counts persistence snapshots that could not be written.
	SnapshotFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fluxus_snapshot_failures_total",
		Help: "State snapshots that failed to persist.",
	})
)
