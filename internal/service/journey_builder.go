package service

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"journeymap/internal/domain"
)

// JourneyDraft arma un journey por ediciones incrementales. A diferencia
// del draft de persona, permanece en Editing y puede recommittearse: el
// primer commit crea el journey y los siguientes lo actualizan.
type JourneyDraft struct {
	mu            sync.Mutex
	id            string
	createdAt     time.Time
	maxImageBytes int64

	name        string
	description string
	personaIDs  []string
	stages      []domain.Stage
}

// NewJourneyDraft crea un draft vacio.
func NewJourneyDraft() *JourneyDraft {
	return &JourneyDraft{
		personaIDs: []string{},
		stages:     []domain.Stage{},
	}
}

// SetImageLimit ajusta el techo de payload de imagen.
func (d *JourneyDraft) SetImageLimit(n int64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.maxImageBytes = n
}

// SetField actualiza name o description.
func (d *JourneyDraft) SetField(field, value string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	switch field {
	case "name":
		d.name = value
	case "description":
		d.description = value
	default:
		return domain.ErrUnknownField
	}
	return nil
}

// TogglePersona agrega o quita la asociacion con una persona. Dos
// toggles consecutivos son un no-op sobre el resultado confirmado.
func (d *JourneyDraft) TogglePersona(personaID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, id := range d.personaIDs {
		if id == personaID {
			if updated, err := domain.RemoveAt(d.personaIDs, i, 0); err == nil {
				d.personaIDs = updated
			}
			return
		}
	}
	d.personaIDs = domain.Append(d.personaIDs, personaID)
}

// AddStage agrega un stage al final; el orden es cronologico y se
// preserva en toda edicion.
func (d *JourneyDraft) AddStage(name string) domain.Stage {
	d.mu.Lock()
	defer d.mu.Unlock()
	stage := domain.NewStage(name)
	d.stages = domain.Append(d.stages, stage)
	return stage
}

// RemoveStage quita el stage en stageIndex. La coleccion de stages no
// tiene minimo durante la edicion.
func (d *JourneyDraft) RemoveStage(stageIndex int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	updated, err := domain.RemoveAt(d.stages, stageIndex, 0)
	if err != nil {
		return err
	}
	d.stages = updated
	return nil
}

// RenameStage cambia el nombre del stage preservando sus touchpoints.
func (d *JourneyDraft) RenameStage(stageIndex int, name string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if stageIndex < 0 || stageIndex >= len(d.stages) {
		return domain.ErrIndexOutOfRange
	}
	stage := d.stages[stageIndex]
	stage.Name = name
	updated, err := domain.UpdateAt(d.stages, stageIndex, stage)
	if err != nil {
		return err
	}
	d.stages = updated
	return nil
}

// AddTouchpoint agrega un touchpoint con los valores por defecto del
// formulario al stage indicado.
func (d *JourneyDraft) AddTouchpoint(stageIndex int) (domain.Touchpoint, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if stageIndex < 0 || stageIndex >= len(d.stages) {
		return domain.Touchpoint{}, domain.ErrIndexOutOfRange
	}
	stage := d.stages[stageIndex]
	tp := domain.NewTouchpoint()
	stage.Touchpoints = domain.Append(stage.Touchpoints, tp)

	updated, err := domain.UpdateAt(d.stages, stageIndex, stage)
	if err != nil {
		return domain.Touchpoint{}, err
	}
	d.stages = updated
	return tp, nil
}

// RemoveTouchpoint quita un touchpoint del stage indicado.
func (d *JourneyDraft) RemoveTouchpoint(stageIndex, touchpointIndex int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if stageIndex < 0 || stageIndex >= len(d.stages) {
		return domain.ErrIndexOutOfRange
	}
	stage := d.stages[stageIndex]
	touchpoints, err := domain.RemoveAt(stage.Touchpoints, touchpointIndex, 0)
	if err != nil {
		return err
	}
	stage.Touchpoints = touchpoints

	updated, err := domain.UpdateAt(d.stages, stageIndex, stage)
	if err != nil {
		return err
	}
	d.stages = updated
	return nil
}

// TouchpointPatch lleva solo los campos que el formulario cambio; los
// no provistos quedan intactos.
type TouchpointPatch struct {
	Name           *string         `json:"name,omitempty"`
	Description    *string         `json:"description,omitempty"`
	CustomerAction *string         `json:"customer_action,omitempty"`
	Emotion        *domain.Emotion `json:"emotion,omitempty"`
	Satisfaction   *int            `json:"satisfaction,omitempty"`
	Effort         *int            `json:"effort,omitempty"`
	Completion     *int            `json:"completion,omitempty"`
}

// UpdateTouchpoint aplica un merge parcial sobre el touchpoint. Las
// metricas se acotan a [0,100]; una emocion fuera del conjunto cerrado
// se rechaza sin tocar el draft.
func (d *JourneyDraft) UpdateTouchpoint(stageIndex, touchpointIndex int, patch TouchpointPatch) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if stageIndex < 0 || stageIndex >= len(d.stages) {
		return domain.ErrIndexOutOfRange
	}
	stage := d.stages[stageIndex]
	if touchpointIndex < 0 || touchpointIndex >= len(stage.Touchpoints) {
		return domain.ErrIndexOutOfRange
	}
	if patch.Emotion != nil && !patch.Emotion.Valid() {
		return domain.NewValidationError("emotion")
	}

	tp := stage.Touchpoints[touchpointIndex]
	if patch.Name != nil {
		tp.Name = *patch.Name
	}
	if patch.Description != nil {
		tp.Description = *patch.Description
	}
	if patch.CustomerAction != nil {
		tp.CustomerAction = *patch.CustomerAction
	}
	if patch.Emotion != nil {
		tp.Emotion = *patch.Emotion
	}
	if patch.Satisfaction != nil {
		tp.Metrics.Satisfaction = *patch.Satisfaction
	}
	if patch.Effort != nil {
		tp.Metrics.Effort = *patch.Effort
	}
	if patch.Completion != nil {
		tp.Metrics.Completion = *patch.Completion
	}
	tp.Metrics = tp.Metrics.Clamp()

	touchpoints, err := domain.UpdateAt(stage.Touchpoints, touchpointIndex, tp)
	if err != nil {
		return err
	}
	stage.Touchpoints = touchpoints

	updated, err := domain.UpdateAt(d.stages, stageIndex, stage)
	if err != nil {
		return err
	}
	d.stages = updated
	return nil
}

// SetTouchpointImage adjunta una imagen codificada al touchpoint, con
// el mismo techo de payload que el avatar de persona.
func (d *JourneyDraft) SetTouchpointImage(stageIndex, touchpointIndex int, data []byte, contentType string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if stageIndex < 0 || stageIndex >= len(d.stages) {
		return domain.ErrIndexOutOfRange
	}
	stage := d.stages[stageIndex]
	if touchpointIndex < 0 || touchpointIndex >= len(stage.Touchpoints) {
		return domain.ErrIndexOutOfRange
	}

	encoded, err := domain.EncodeImage(data, contentType, d.maxImageBytes)
	if err != nil {
		return err
	}

	tp := stage.Touchpoints[touchpointIndex]
	tp.Image = encoded

	touchpoints, err := domain.UpdateAt(stage.Touchpoints, touchpointIndex, tp)
	if err != nil {
		return err
	}
	stage.Touchpoints = touchpoints

	updated, err := domain.UpdateAt(d.stages, stageIndex, stage)
	if err != nil {
		return err
	}
	d.stages = updated
	return nil
}

// Commit valida y entrega el journey al workspace: create en el primer
// commit, update en los siguientes reutilizando el mismo id. Igual que
// en el draft de persona, el mutex del draft se suelta antes de tocar
// el workspace para no sostener ambos locks a la vez.
func (d *JourneyDraft) Commit(ws *Workspace) (domain.Journey, error) {
	d.mu.Lock()

	var missing []string
	if strings.TrimSpace(d.name) == "" {
		missing = append(missing, "name")
	}
	if len(d.stages) == 0 {
		missing = append(missing, "stages")
	}
	if len(missing) > 0 {
		d.mu.Unlock()
		return domain.Journey{}, domain.NewValidationError(missing...)
	}

	now := time.Now().UTC()
	creating := d.id == ""
	if creating {
		d.id = uuid.NewString()
		d.createdAt = now
	}

	journey := domain.Journey{
		ID:          d.id,
		UserID:      ws.UserID(),
		Name:        strings.TrimSpace(d.name),
		Description: d.description,
		PersonaIDs:  append([]string(nil), d.personaIDs...),
		Stages:      append([]domain.Stage(nil), d.stages...),
		CreatedAt:   d.createdAt,
		UpdatedAt:   now,
	}
	d.mu.Unlock()

	var err error
	if creating {
		err = ws.CreateJourney(journey)
		if err != nil {
			// Revertir la asignacion para que un retry vuelva a crear.
			d.mu.Lock()
			if d.id == journey.ID {
				d.id = ""
				d.createdAt = time.Time{}
			}
			d.mu.Unlock()
		}
	} else {
		err = ws.UpdateJourney(journey)
	}
	if err != nil {
		return domain.Journey{}, err
	}
	return journey, nil
}

// DraftFromJourney carga un journey confirmado en un draft para
// edicion; el commit siguiente actualiza en lugar de crear.
func DraftFromJourney(j domain.Journey) *JourneyDraft {
	d := NewJourneyDraft()
	d.id = j.ID
	d.createdAt = j.CreatedAt
	d.name = j.Name
	d.description = j.Description
	if len(j.PersonaIDs) > 0 {
		d.personaIDs = append([]string(nil), j.PersonaIDs...)
	}
	if len(j.Stages) > 0 {
		d.stages = append([]domain.Stage(nil), j.Stages...)
	}
	return d
}

// Snapshot devuelve la forma serializable del draft.
func (d *JourneyDraft) Snapshot() JourneyDraftSnapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return JourneyDraftSnapshot{
		ID:          d.id,
		Name:        d.name,
		Description: d.description,
		PersonaIDs:  append([]string(nil), d.personaIDs...),
		Stages:      append([]domain.Stage(nil), d.stages...),
		CreatedAt:   d.createdAt,
	}
}

// RestoreJourneyDraft reconstruye un draft desde un snapshot cacheado.
func RestoreJourneyDraft(s JourneyDraftSnapshot) *JourneyDraft {
	d := NewJourneyDraft()
	d.id = s.ID
	d.name = s.Name
	d.description = s.Description
	if len(s.PersonaIDs) > 0 {
		d.personaIDs = append([]string(nil), s.PersonaIDs...)
	}
	if len(s.Stages) > 0 {
		d.stages = append([]domain.Stage(nil), s.Stages...)
	}
	d.createdAt = s.CreatedAt
	return d
}

// JourneyDraftSnapshot es la forma JSON del draft de journey.
type JourneyDraftSnapshot struct {
	ID          string         `json:"id,omitempty"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	PersonaIDs  []string       `json:"persona_ids"`
	Stages      []domain.Stage `json:"stages"`
	CreatedAt   time.Time      `json:"created_at,omitempty"`
}
