package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"journeymap/internal/config"
)

// NewPool construye y devuelve un pool de conexiones configurado.
func NewPool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	// Configuración razonable para ambientes iniciales.
	poolCfg.MaxConns = 10
	poolCfg.MinConns = 1
	poolCfg.MaxConnLifetime = 30 * time.Minute
	poolCfg.MaxConnIdleTime = 5 * time.Minute
	poolCfg.HealthCheckPeriod = 30 * time.Second
	poolCfg.ConnConfig.ConnectTimeout = 5 * time.Second

	return pgxpool.NewWithConfig(ctx, poolCfg)
}

// Ping verifica conectividad con la base de datos.
func Ping(ctx context.Context, pool *pgxpool.Pool) error {
	return pool.Ping(ctx)
}

// EnsureSchema crea las tablas si no existen. Las colecciones anidadas
// (goals, stages, etc.) viajan como jsonb: el documento completo es la
// unidad de guardado, no hay edicion parcial en base.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	const schema = `
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			email         TEXT UNIQUE NOT NULL,
			display_name  TEXT NOT NULL DEFAULT '',
			password_hash TEXT NOT NULL DEFAULT '',
			photo_url     TEXT NOT NULL DEFAULT '',
			created_at    TIMESTAMPTZ NOT NULL
		);
		CREATE TABLE IF NOT EXISTS personas (
			id              TEXT PRIMARY KEY,
			user_id         TEXT NOT NULL REFERENCES users(id),
			name            TEXT NOT NULL,
			age             TEXT NOT NULL,
			occupation      TEXT NOT NULL,
			goals           JSONB NOT NULL,
			pain_points     JSONB NOT NULL,
			custom_sections JSONB NOT NULL,
			avatar          TEXT NOT NULL,
			created_at      TIMESTAMPTZ NOT NULL
		);
		CREATE TABLE IF NOT EXISTS journeys (
			id          TEXT PRIMARY KEY,
			user_id     TEXT NOT NULL REFERENCES users(id),
			name        TEXT NOT NULL,
			description TEXT NOT NULL,
			persona_ids JSONB NOT NULL,
			stages      JSONB NOT NULL,
			created_at  TIMESTAMPTZ NOT NULL,
			updated_at  TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_personas_user ON personas(user_id, created_at);
		CREATE INDEX IF NOT EXISTS idx_journeys_user ON journeys(user_id, created_at);
	`
	_, err := pool.Exec(ctx, schema)
	return err
}
