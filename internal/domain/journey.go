package domain

import (
	"time"

	"github.com/google/uuid"
)

// Emotion clasifica la reaccion del cliente en un touchpoint.
type Emotion string

const (
	EmotionPositive Emotion = "positive"
	EmotionNeutral  Emotion = "neutral"
	EmotionNegative Emotion = "negative"
)

// Valid reporta si la emocion pertenece al conjunto cerrado.
func (e Emotion) Valid() bool {
	switch e {
	case EmotionPositive, EmotionNeutral, EmotionNegative:
		return true
	}
	return false
}

// Metrics son porcentajes acotados a [0,100], renderizados como barras.
type Metrics struct {
	Satisfaction int `json:"satisfaction"`
	Effort       int `json:"effort"`
	Completion   int `json:"completion"`
}

// Clamp devuelve las metricas con cada valor acotado a [0,100]. Valores
// fuera de rango nunca se almacenan.
func (m Metrics) Clamp() Metrics {
	return Metrics{
		Satisfaction: clampPercent(m.Satisfaction),
		Effort:       clampPercent(m.Effort),
		Completion:   clampPercent(m.Completion),
	}
}

func clampPercent(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// Touchpoint es un punto de interaccion dentro de un stage.
type Touchpoint struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	CustomerAction string  `json:"customer_action"`
	Emotion        Emotion `json:"emotion"`
	Metrics        Metrics `json:"metrics"`
	Image          string  `json:"image,omitempty"`
}

// NewTouchpoint crea un touchpoint con id fresco y valores por defecto
// del formulario: emocion neutral y metricas al 50%.
func NewTouchpoint() Touchpoint {
	return Touchpoint{
		ID:      uuid.NewString(),
		Emotion: EmotionNeutral,
		Metrics: Metrics{Satisfaction: 50, Effort: 50, Completion: 50},
	}
}

// Stage es una fase nombrada del journey; el orden de sus touchpoints es
// significativo.
type Stage struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Touchpoints []Touchpoint `json:"touchpoints"`
}

// NewStage crea un stage vacio con id fresco.
func NewStage(name string) Stage {
	return Stage{ID: uuid.NewString(), Name: name, Touchpoints: []Touchpoint{}}
}

// Journey es un mapa ordenado de la experiencia del cliente. PersonaIDs
// son referencias debiles: una persona referenciada puede no existir ya y
// los consumidores la omiten en silencio.
type Journey struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	PersonaIDs  []string  `json:"persona_ids"`
	Stages      []Stage   `json:"stages"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// References reporta si el journey referencia la persona dada.
func (j Journey) References(personaID string) bool {
	for _, id := range j.PersonaIDs {
		if id == personaID {
			return true
		}
	}
	return false
}
