// Package api wires mint/vault.Engine and stake/vault.Engine behind chi
// HTTP handlers: one POST per mutating entry point, GET for the Stake
// Vault's non-mutating queries, instrumented with request-scoped metrics.
package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/solvault/engine/pkg/ratelimit"
	"github.com/solvault/engine/pkg/vaultmetrics"
	mintvault "github.com/solvault/engine/mint/vault"
	stakevault "github.com/solvault/engine/stake/vault"
	"golang.org/x/time/rate"
)

// Server holds the wiring every handler closes over.
type Server struct {
	Mint  *mintvault.Engine
	Stake *stakevault.Engine
	Log   *slog.Logger
}

// defaultRateLimit is generous enough for a legitimate integrator polling
// the read-only endpoints while still bounding a runaway or misbehaving
// caller on the mutating ones.
const (
	defaultRateLimit = rate.Limit(20)
	defaultBurst     = 40
)

// NewRouter builds the full chi.Router for cmd/vaultd.
func NewRouter(s *Server) chi.Router { // exported entry point used by main.go
	r := chi.NewRouter()

	limiter := ratelimit.New(defaultRateLimit, defaultBurst)

	r.Use(requestIDMiddleware)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	sentryMW := sentryhttp.New(sentryhttp.Options{Repanic: true})
	r.Use(sentryMW.Handle)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type", callerHeader},
	}))
	r.Use(ratelimit.Middleware(limiter, callerKey))
	r.Use(metricsMiddleware)

	r.Handle("/metrics", vaultmetrics.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	r.Route("/mint", func(mr chi.Router) {
		mr.Post("/initialize", s.handleMintInitialize)
		mr.Post("/pause", s.handleMintPause)
		mr.Post("/update_freeze_administrators", s.handleMintUpdateFreezeAdministrators)
		mr.Post("/update_rewards_administrators", s.handleMintUpdateRewardsAdministrators)
		mr.Post("/update_vault_token_account", s.handleMintUpdateVaultTokenAccount)
		mr.Post("/set_vault_token_account_config", s.handleMintSetVaultTokenAccountConfig)
		mr.Post("/deposit", s.handleMintDeposit)
		mr.Post("/request_redeem", s.handleMintRequestRedeem)
		mr.Post("/complete_redeem", s.handleMintCompleteRedeem)
		mr.Post("/sweep_redeem_vault_funds", s.handleMintSweepRedeemVaultFunds)
		mr.Post("/create_rewards_epoch", s.handleMintCreateRewardsEpoch)
		mr.Post("/claim_rewards", s.handleMintClaimRewards)
		mr.Post("/freeze_token_account", s.handleMintFreezeTokenAccount)
		mr.Post("/thaw_token_account", s.handleMintThawTokenAccount)
	})

	r.Route("/stake", func(sr chi.Router) {
		sr.Post("/initialize", s.handleStakeInitialize)
		sr.Post("/pause", s.handleStakePause)
		sr.Post("/update_config", s.handleStakeUpdateConfig)
		sr.Post("/update_freeze_administrators", s.handleStakeUpdateFreezeAdministrators)
		sr.Post("/update_rewards_administrators", s.handleStakeUpdateRewardsAdministrators)
		sr.Post("/set_stake_vault_token_account_config", s.handleStakeSetVaultTokenAccountConfig)
		sr.Post("/deposit", s.handleStakeDeposit)
		sr.Post("/unbond", s.handleStakeUnbond)
		sr.Post("/redeem", s.handleStakeRedeem)
		sr.Post("/publish_rewards", s.handleStakePublishRewards)
		sr.Get("/shares_to_assets", s.handleStakeSharesToAssets)
		sr.Get("/assets_to_shares", s.handleStakeAssetsToShares)
		sr.Get("/exchange_rate", s.handleStakeExchangeRate)
		sr.Post("/freeze_token_account", s.handleStakeFreezeTokenAccount)
		sr.Post("/thaw_token_account", s.handleStakeThawTokenAccount)
	})

	return r
}

func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		vault := routeVault(r.URL.Path)
		op := routeOp(r.URL.Path)
		vaultmetrics.HTTPRequestsTotal.WithLabelValues(vault, op, strconv.Itoa(ww.Status())).Inc()
		vaultmetrics.HTTPRequestDuration.WithLabelValues(vault, op).Observe(time.Since(start).Seconds())
	})
}

func routeVault(path string) string {
	switch {
	case len(path) >= 5 && path[:5] == "/mint":
		return "mint"
	case len(path) >= 6 && path[:6] == "/stake":
		return "stake"
	default:
		return "other"
	}
}

func routeOp(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[i+1:]
		}
	}
	return path
}
