package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"journeymap/internal/domain"
)

// PersonaRepository define el contrato de persistencia para personas.
// Save se invoca en cada commit exitoso; ListByUser siembra el workspace
// al abrir la sesion.
type PersonaRepository interface {
	Save(ctx context.Context, persona domain.Persona) error
	ListByUser(ctx context.Context, userID string) ([]domain.Persona, error)
	Delete(ctx context.Context, id string) error
}

// PgPersonaRepository implementa PersonaRepository usando pgxpool.
type PgPersonaRepository struct {
	pool *pgxpool.Pool
}

func NewPgPersonaRepository(pool *pgxpool.Pool) *PgPersonaRepository {
	return &PgPersonaRepository{pool: pool}
}

func (r *PgPersonaRepository) Save(ctx context.Context, persona domain.Persona) error {
	goals, err := json.Marshal(persona.Goals)
	if err != nil {
		return fmt.Errorf("marshal goals: %w", err)
	}
	painPoints, err := json.Marshal(persona.PainPoints)
	if err != nil {
		return fmt.Errorf("marshal pain points: %w", err)
	}
	sections, err := json.Marshal(persona.CustomSections)
	if err != nil {
		return fmt.Errorf("marshal custom sections: %w", err)
	}

	const query = `
		INSERT INTO personas (id, user_id, name, age, occupation, goals, pain_points, custom_sections, avatar, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			age = EXCLUDED.age,
			occupation = EXCLUDED.occupation,
			goals = EXCLUDED.goals,
			pain_points = EXCLUDED.pain_points,
			custom_sections = EXCLUDED.custom_sections,
			avatar = EXCLUDED.avatar
	`
	_, err = r.pool.Exec(ctx, query,
		persona.ID,
		persona.UserID,
		persona.Name,
		persona.Age,
		persona.Occupation,
		goals,
		painPoints,
		sections,
		persona.Avatar,
		persona.CreatedAt,
	)
	return err
}

func (r *PgPersonaRepository) ListByUser(ctx context.Context, userID string) ([]domain.Persona, error) {
	const query = `
		SELECT id, user_id, name, age, occupation, goals, pain_points, custom_sections, avatar, created_at
		FROM personas
		WHERE user_id = $1
		ORDER BY created_at
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var personas []domain.Persona
	for rows.Next() {
		var p domain.Persona
		var goals, painPoints, sections []byte
		if err := rows.Scan(
			&p.ID,
			&p.UserID,
			&p.Name,
			&p.Age,
			&p.Occupation,
			&goals,
			&painPoints,
			&sections,
			&p.Avatar,
			&p.CreatedAt,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(goals, &p.Goals); err != nil {
			return nil, fmt.Errorf("unmarshal goals: %w", err)
		}
		if err := json.Unmarshal(painPoints, &p.PainPoints); err != nil {
			return nil, fmt.Errorf("unmarshal pain points: %w", err)
		}
		if err := json.Unmarshal(sections, &p.CustomSections); err != nil {
			return nil, fmt.Errorf("unmarshal custom sections: %w", err)
		}
		personas = append(personas, p)
	}
	return personas, rows.Err()
}

func (r *PgPersonaRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM personas WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}
