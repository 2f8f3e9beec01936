package domain

import (
	"fmt"
	"time"
)

// Persona representa un perfil de cliente ficticio con metas, dolores y
// secciones personalizadas. Los journeys la referencian por id, nunca la
// poseen.
type Persona struct {
	ID             string          `json:"id"`
	UserID         string          `json:"user_id"`
	Name           string          `json:"name"`
	Age            string          `json:"age"`
	Occupation     string          `json:"occupation"`
	Goals          []string        `json:"goals"`
	PainPoints     []string        `json:"pain_points"`
	CustomSections []CustomSection `json:"custom_sections"`
	Avatar         string          `json:"avatar"`
	CreatedAt      time.Time       `json:"created_at"`
}

// CustomSection es una seccion libre del formulario de persona.
type CustomSection struct {
	Title string   `json:"title"`
	Items []string `json:"items"`
}

// NewCustomSection devuelve la seccion por defecto: titulo generico y un
// item vacio listo para editar.
func NewCustomSection() CustomSection {
	return CustomSection{Title: "New Section", Items: []string{""}}
}

// PlaceholderAvatar devuelve la referencia de avatar usada cuando la
// persona se confirma sin foto. Nunca queda vacio.
func PlaceholderAvatar(personaID string) string {
	return fmt.Sprintf("https://source.unsplash.com/400x400/?portrait&%s", personaID)
}
