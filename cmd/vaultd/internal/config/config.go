// Package config loads cmd/vaultd's runtime configuration from flags and
// environment variables: flag-with-env-override, plus an optional .env
// file via joho/godotenv.
package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/gagliardetto/solana-go"

	"github.com/solvault/engine/pkg/store"
)

// Config is cmd/vaultd's fully resolved runtime configuration.
type Config struct {
	Verbose bool

	HTTPBind string
	HTTPPort int

	UsePostgres bool
	Postgres    store.PostgresConfig

	MintProgramID  solana.PublicKey
	StakeProgramID solana.PublicKey
	UpgradeAuthority solana.PublicKey
}

// LoadDotEnv loads a .env file if present; a missing file is not an error,
// matching joho/godotenv's conventional best-effort use in the corpus.
func LoadDotEnv(path string) {
	_ = godotenv.Load(path)
}

// EnvOr returns the named environment variable, or fallback if it is unset
// or empty — the override half of the flag-with-env-override pattern.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
