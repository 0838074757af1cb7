package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gagliardetto/solana-go"
	flag "github.com/spf13/pflag"

	"github.com/solvault/engine/cmd/vaultd/internal/api"
	"github.com/solvault/engine/cmd/vaultd/internal/config"
	"github.com/solvault/engine/mint/vault"
	"github.com/solvault/engine/pkg/clock"
	"github.com/solvault/engine/pkg/guard"
	"github.com/solvault/engine/pkg/logging"
	"github.com/solvault/engine/pkg/store"
	"github.com/solvault/engine/pkg/telemetry"
	"github.com/solvault/engine/pkg/tokenledger"
	stakevault "github.com/solvault/engine/stake/vault"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	verboseFlag := flag.Bool("verbose", false, "enable verbose (debug) logging")
	bindFlag := flag.String("bind", "0.0.0.0", "HTTP bind address")
	portFlag := flag.Int("port", 8080, "HTTP port")

	mintProgramFlag := flag.String("mint-program-id", "", "Mint Vault program ID (base58, or set MINT_PROGRAM_ID env var)")
	stakeProgramFlag := flag.String("stake-program-id", "", "Stake Vault program ID (base58, or set STAKE_PROGRAM_ID env var)")
	upgradeAuthorityFlag := flag.String("upgrade-authority", "", "upgrade-authority public key (base58, or set UPGRADE_AUTHORITY env var)")

	usePostgresFlag := flag.Bool("use-postgres", false, "persist state in Postgres instead of in-memory")
	pgHostFlag := flag.String("postgres-host", "localhost", "Postgres host (or set POSTGRES_HOST env var)")
	pgPortFlag := flag.String("postgres-port", "5432", "Postgres port (or set POSTGRES_PORT env var)")
	pgDatabaseFlag := flag.String("postgres-database", "solvault", "Postgres database (or set POSTGRES_DATABASE env var)")
	pgUsernameFlag := flag.String("postgres-username", "solvault", "Postgres username (or set POSTGRES_USERNAME env var)")
	pgPasswordFlag := flag.String("postgres-password", "", "Postgres password (or set POSTGRES_PASSWORD env var)")
	pgSSLModeFlag := flag.String("postgres-sslmode", "disable", "Postgres sslmode (or set POSTGRES_SSLMODE env var)")

	dotenvFlag := flag.String("dotenv", ".env", "path to an optional .env file")
	sentryDSNFlag := flag.String("sentry-dsn", "", "Sentry DSN for error tracking (or set SENTRY_DSN env var; empty disables reporting)")
	sentryEnvFlag := flag.String("sentry-environment", "development", "Sentry environment tag (or set SENTRY_ENVIRONMENT env var)")

	flag.Parse()

	config.LoadDotEnv(*dotenvFlag)

	*sentryDSNFlag = config.EnvOr("SENTRY_DSN", *sentryDSNFlag)
	*sentryEnvFlag = config.EnvOr("SENTRY_ENVIRONMENT", *sentryEnvFlag)
	if err := telemetry.Init(*sentryDSNFlag, *sentryEnvFlag); err != nil {
		return fmt.Errorf("init sentry: %w", err)
	}
	defer telemetry.Flush()

	*mintProgramFlag = config.EnvOr("MINT_PROGRAM_ID", *mintProgramFlag)
	*stakeProgramFlag = config.EnvOr("STAKE_PROGRAM_ID", *stakeProgramFlag)
	*upgradeAuthorityFlag = config.EnvOr("UPGRADE_AUTHORITY", *upgradeAuthorityFlag)
	*pgHostFlag = config.EnvOr("POSTGRES_HOST", *pgHostFlag)
	*pgPortFlag = config.EnvOr("POSTGRES_PORT", *pgPortFlag)
	*pgDatabaseFlag = config.EnvOr("POSTGRES_DATABASE", *pgDatabaseFlag)
	*pgUsernameFlag = config.EnvOr("POSTGRES_USERNAME", *pgUsernameFlag)
	*pgPasswordFlag = config.EnvOr("POSTGRES_PASSWORD", *pgPasswordFlag)
	*pgSSLModeFlag = config.EnvOr("POSTGRES_SSLMODE", *pgSSLModeFlag)

	log := logging.New(*verboseFlag)

	if *mintProgramFlag == "" || *stakeProgramFlag == "" || *upgradeAuthorityFlag == "" {
		return fmt.Errorf("--mint-program-id, --stake-program-id and --upgrade-authority are all required")
	}
	mintProgramID, err := solana.PublicKeyFromBase58(*mintProgramFlag)
	if err != nil {
		return fmt.Errorf("invalid --mint-program-id: %w", err)
	}
	stakeProgramID, err := solana.PublicKeyFromBase58(*stakeProgramFlag)
	if err != nil {
		return fmt.Errorf("invalid --stake-program-id: %w", err)
	}
	upgradeAuthority, err := solana.PublicKeyFromBase58(*upgradeAuthorityFlag)
	if err != nil {
		return fmt.Errorf("invalid --upgrade-authority: %w", err)
	}

	cfg := config.Config{
		Verbose:          *verboseFlag,
		HTTPBind:         *bindFlag,
		HTTPPort:         *portFlag,
		UsePostgres:      *usePostgresFlag,
		MintProgramID:    mintProgramID,
		StakeProgramID:   stakeProgramID,
		UpgradeAuthority: upgradeAuthority,
		Postgres: store.PostgresConfig{
			Host:     *pgHostFlag,
			Port:     *pgPortFlag,
			Database: *pgDatabaseFlag,
			Username: *pgUsernameFlag,
			Password: *pgPasswordFlag,
			SSLMode:  *pgSSLModeFlag,
		},
	}

	ctx := context.Background()

	var mintBackend store.Backend
	var stakeBackend store.Backend
	if cfg.UsePostgres {
		pg, err := store.NewPostgres(ctx, cfg.Postgres)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		mintBackend = pg
		stakeBackend = pg
		log.Info("persisting state in postgres", "host", cfg.Postgres.Host, "database", cfg.Postgres.Database)
	} else {
		mintBackend = store.NewMemory()
		stakeBackend = store.NewMemory()
		log.Info("persisting state in memory")
	}

	ledger := tokenledger.NewMemory()
	clk := clock.New()
	meta := guard.StaticProgramMetadata{Authority: cfg.UpgradeAuthority}

	mintEngine := vault.New(cfg.MintProgramID, mintBackend, ledger, clk, meta, log)
	stakeEngine := stakevault.New(cfg.StakeProgramID, stakeBackend, ledger, clk, meta, mintEngine, log)

	router := api.NewRouter(&api.Server{Mint: mintEngine, Stake: stakeEngine, Log: log})

	addr := fmt.Sprintf("%s:%d", cfg.HTTPBind, cfg.HTTPPort)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.Info("vaultd ready", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server error", "error", err)
			os.Exit(1)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Info("received signal, shutting down", "signal", sig.String())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to shut down http server", "error", err)
	}

	log.Info("vaultd stopped")
	return nil
}
