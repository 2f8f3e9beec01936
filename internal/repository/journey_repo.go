package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"journeymap/internal/domain"
)

// JourneyRepository define el contrato de persistencia para journeys.
// Save es un upsert: el primer commit crea la fila y los recommits la
// reemplazan completa.
type JourneyRepository interface {
	Save(ctx context.Context, journey domain.Journey) error
	ListByUser(ctx context.Context, userID string) ([]domain.Journey, error)
	Delete(ctx context.Context, id string) error
}

// PgJourneyRepository implementa JourneyRepository usando pgxpool.
type PgJourneyRepository struct {
	pool *pgxpool.Pool
}

func NewPgJourneyRepository(pool *pgxpool.Pool) *PgJourneyRepository {
	return &PgJourneyRepository{pool: pool}
}

func (r *PgJourneyRepository) Save(ctx context.Context, journey domain.Journey) error {
	personaIDs, err := json.Marshal(journey.PersonaIDs)
	if err != nil {
		return fmt.Errorf("marshal persona ids: %w", err)
	}
	stages, err := json.Marshal(journey.Stages)
	if err != nil {
		return fmt.Errorf("marshal stages: %w", err)
	}

	const query = `
		INSERT INTO journeys (id, user_id, name, description, persona_ids, stages, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			persona_ids = EXCLUDED.persona_ids,
			stages = EXCLUDED.stages,
			updated_at = EXCLUDED.updated_at
	`
	_, err = r.pool.Exec(ctx, query,
		journey.ID,
		journey.UserID,
		journey.Name,
		journey.Description,
		personaIDs,
		stages,
		journey.CreatedAt,
		journey.UpdatedAt,
	)
	return err
}

func (r *PgJourneyRepository) ListByUser(ctx context.Context, userID string) ([]domain.Journey, error) {
	const query = `
		SELECT id, user_id, name, description, persona_ids, stages, created_at, updated_at
		FROM journeys
		WHERE user_id = $1
		ORDER BY created_at
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var journeys []domain.Journey
	for rows.Next() {
		var j domain.Journey
		var personaIDs, stages []byte
		if err := rows.Scan(
			&j.ID,
			&j.UserID,
			&j.Name,
			&j.Description,
			&personaIDs,
			&stages,
			&j.CreatedAt,
			&j.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(personaIDs, &j.PersonaIDs); err != nil {
			return nil, fmt.Errorf("unmarshal persona ids: %w", err)
		}
		if err := json.Unmarshal(stages, &j.Stages); err != nil {
			return nil, fmt.Errorf("unmarshal stages: %w", err)
		}
		journeys = append(journeys, j)
	}
	return journeys, rows.Err()
}

func (r *PgJourneyRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM journeys WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}
