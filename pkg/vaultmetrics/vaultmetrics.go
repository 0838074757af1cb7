// Package vaultmetrics declares the Prometheus series exported by
// cmd/vaultd: promauto-registered counters/histograms, one
// request-duration histogram per surface, and a build-info gauge.
package vaultmetrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler returns the /metrics scrape endpoint for the default registry.
func Handler() http.Handler { return promhttp.Handler() }

var (
	BuildInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "solvault_build_info",
			Help: "Build information of the vault service.",
		},
		[]string{"version", "commit"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "solvault_http_requests_total",
			Help: "Total number of HTTP requests handled.",
		},
		[]string{"vault", "op", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "solvault_http_request_duration_seconds",
			Help:    "Duration of HTTP requests handled.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"vault", "op"},
	)

	DepositsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "solvault_deposits_total",
			Help: "Total number of successful deposits, by vault.",
		},
		[]string{"vault"},
	)

	RedemptionsOpenedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "solvault_mint_redemptions_opened_total",
			Help: "Total number of redemption requests opened.",
		},
	)

	RedemptionsCompletedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "solvault_mint_redemptions_completed_total",
			Help: "Total number of redemption requests completed.",
		},
	)

	RewardsClaimedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "solvault_mint_rewards_claimed_total",
			Help: "Total number of successful reward claims.",
		},
	)

	UnbondingTicketsOpenTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "solvault_stake_unbonding_tickets_open",
			Help: "Current number of open unbonding tickets.",
		},
	)

	ExchangeRate = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "solvault_stake_exchange_rate",
			Help: "Current stake-pool exchange rate, scaled by 1e9.",
		},
	)

	RewardsPublishedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "solvault_stake_rewards_published_total",
			Help: "Total number of successful cross-program reward publications.",
		},
	)
)
