package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the pgx driver for goose's database/sql use
	"github.com/near/borsh-go"
	"github.com/pressly/goose/v3"

	"github.com/solvault/engine/pkg/retry"
	"github.com/solvault/engine/pkg/vaulterr"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// PostgresConfig configures a Postgres-backed Backend.
type PostgresConfig struct {
	Host     string
	Port     string
	Database string
	Username string
	Password string
	SSLMode  string
}

func (c PostgresConfig) dsn() string {
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Username, c.Password, c.Host, c.Port, c.Database, sslMode)
}

// Postgres is a Backend that persists records as rows keyed by base58
// address, durable across process restarts — the property cmd/vaultd needs
// that the in-memory Backend cannot offer.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres connects, runs goose migrations, and returns a ready Backend.
func NewPostgres(ctx context.Context, cfg PostgresConfig) (*Postgres, error) {
	dsn := cfg.dsn()

	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	// The pool can come up before Postgres finishes accepting connections
	// (common right after a container start), so the initial ping gets a
	// short retry budget rather than failing cmd/vaultd's startup outright.
	if err := retry.Do(ctx, retry.DefaultConfig(), func() error { return pool.Ping(ctx) }); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if err := runMigrations(dsn); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Postgres{pool: pool}, nil
}

func runMigrations(dsn string) error {
	goose.SetBaseFS(embedMigrations)
	defer goose.SetBaseFS(nil)

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.Up(db, "migrations")
}

// Close releases the underlying connection pool.
func (p *Postgres) Close() { p.pool.Close() }

func addrKey(addr solana.PublicKey) string { return addr.String() }

func (p *Postgres) Create(ctx context.Context, addr solana.PublicKey, value any) error {
	enc, err := encode(value)
	if err != nil {
		return err
	}
	tag, err := p.pool.Exec(ctx,
		`INSERT INTO vault_records (address, data) VALUES ($1, $2) ON CONFLICT (address) DO NOTHING`,
		addrKey(addr), enc)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return vaulterr.New("store.Create", vaulterr.KindAlreadyExists, nil)
	}
	return nil
}

func (p *Postgres) Put(ctx context.Context, addr solana.PublicKey, value any) error {
	enc, err := encode(value)
	if err != nil {
		return err
	}
	_, err = p.pool.Exec(ctx,
		`INSERT INTO vault_records (address, data) VALUES ($1, $2)
		 ON CONFLICT (address) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`,
		addrKey(addr), enc)
	return err
}

func (p *Postgres) Get(ctx context.Context, addr solana.PublicKey, out any) (bool, error) {
	var data []byte
	err := p.pool.QueryRow(ctx, `SELECT data FROM vault_records WHERE address = $1`, addrKey(addr)).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	if err := borsh.Deserialize(out, data); err != nil {
		return false, err
	}
	return true, nil
}

func (p *Postgres) Has(ctx context.Context, addr solana.PublicKey) (bool, error) {
	var exists bool
	err := p.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM vault_records WHERE address = $1)`, addrKey(addr)).Scan(&exists)
	return exists, err
}

func (p *Postgres) Delete(ctx context.Context, addr solana.PublicKey) error {
	_, err := p.pool.Exec(ctx, `DELETE FROM vault_records WHERE address = $1`, addrKey(addr))
	return err
}

var _ Backend = (*Postgres)(nil)
