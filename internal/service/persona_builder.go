package service

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"journeymap/internal/domain"
)

// ArrayOp identifica la operacion de edicion sobre una secuencia.
type ArrayOp string

const (
	OpAdd    ArrayOp = "add"
	OpRemove ArrayOp = "remove"
	OpUpdate ArrayOp = "update"
)

// ErrDraftCommitted indica una edicion sobre un draft ya confirmado.
var ErrDraftCommitted = errors.New("draft already committed")

// PersonaDraft es la maquina de estados del formulario de persona:
// Editing (inicial) y Committed (terminal). Toda falla deja el draft
// intacto y recuperable.
type PersonaDraft struct {
	mu            sync.Mutex
	committed     bool
	maxImageBytes int64

	name       string
	age        string
	occupation string
	goals      []string
	painPoints []string
	sections   []domain.CustomSection
	avatar     string
}

// NewPersonaDraft crea el draft inicial del formulario: un slot vacio
// por lista, sin secciones y sin avatar.
func NewPersonaDraft() *PersonaDraft {
	return &PersonaDraft{
		goals:      []string{""},
		painPoints: []string{""},
		sections:   []domain.CustomSection{},
	}
}

// SetImageLimit ajusta el techo de payload de imagen. Cero usa el
// limite por defecto.
func (d *PersonaDraft) SetImageLimit(n int64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.maxImageBytes = n
}

// Committed reporta si el draft llego a su estado terminal.
func (d *PersonaDraft) Committed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.committed
}

// SetField actualiza un campo escalar: name, age u occupation.
func (d *PersonaDraft) SetField(field, value string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.committed {
		return ErrDraftCommitted
	}
	switch field {
	case "name":
		d.name = value
	case "age":
		d.age = value
	case "occupation":
		d.occupation = value
	default:
		return domain.ErrUnknownField
	}
	return nil
}

// EditArray delega en las primitivas de coleccion sobre goals o
// painPoints. Ambas listas mantienen al menos un elemento durante la
// edicion. OpAdd siempre agrega un slot vacio al final e ignora value,
// igual que el boton "+" del formulario; el contenido llega despues via
// OpUpdate.
func (d *PersonaDraft) EditArray(field string, op ArrayOp, index int, value string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.committed {
		return ErrDraftCommitted
	}

	var seq []string
	switch field {
	case "goals":
		seq = d.goals
	case "painPoints":
		seq = d.painPoints
	default:
		return domain.ErrUnknownField
	}

	updated, err := applyStringOp(seq, op, index, value, 1)
	if err != nil {
		return err
	}

	if field == "goals" {
		d.goals = updated
	} else {
		d.painPoints = updated
	}
	return nil
}

// AddCustomSection agrega una seccion con titulo por defecto y un item
// vacio.
func (d *PersonaDraft) AddCustomSection() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.committed {
		return
	}
	d.sections = domain.Append(d.sections, domain.NewCustomSection())
}

// RemoveCustomSection descarta la seccion completa. La coleccion de
// secciones no tiene minimo.
func (d *PersonaDraft) RemoveCustomSection(index int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.committed {
		return ErrDraftCommitted
	}
	updated, err := domain.RemoveAt(d.sections, index, 0)
	if err != nil {
		return err
	}
	d.sections = updated
	return nil
}

// EditSectionTitle renombra una seccion.
func (d *PersonaDraft) EditSectionTitle(index int, title string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.committed {
		return ErrDraftCommitted
	}
	if index < 0 || index >= len(d.sections) {
		return domain.ErrIndexOutOfRange
	}
	section := d.sections[index]
	section.Title = title
	updated, err := domain.UpdateAt(d.sections, index, section)
	if err != nil {
		return err
	}
	d.sections = updated
	return nil
}

// EditSectionItem edita los items de una seccion via primitivas; cada
// seccion mantiene al menos un item durante la edicion. OpAdd agrega un
// slot vacio ignorando value, como en EditArray.
func (d *PersonaDraft) EditSectionItem(sectionIndex int, op ArrayOp, index int, value string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.committed {
		return ErrDraftCommitted
	}
	if sectionIndex < 0 || sectionIndex >= len(d.sections) {
		return domain.ErrIndexOutOfRange
	}

	section := d.sections[sectionIndex]
	items, err := applyStringOp(section.Items, op, index, value, 1)
	if err != nil {
		return err
	}
	section.Items = items

	updated, err := domain.UpdateAt(d.sections, sectionIndex, section)
	if err != nil {
		return err
	}
	d.sections = updated
	return nil
}

// SetAvatar codifica el payload como data URI, rechazando imagenes por
// encima del techo configurado.
func (d *PersonaDraft) SetAvatar(data []byte, contentType string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.committed {
		return ErrDraftCommitted
	}
	encoded, err := domain.EncodeImage(data, contentType, d.maxImageBytes)
	if err != nil {
		return err
	}
	d.avatar = encoded
	return nil
}

// Commit valida el draft, construye la Persona con id fresco y la
// entrega al workspace. En falla el draft queda en Editing sin cambios.
// El mutex del draft se suelta antes de tocar el workspace: el
// workspace toma su propio lock y sus lectores consultan este draft,
// asi que sostener ambos a la vez invierte el orden de adquisicion.
func (d *PersonaDraft) Commit(ws *Workspace) (domain.Persona, error) {
	d.mu.Lock()
	if d.committed {
		d.mu.Unlock()
		return domain.Persona{}, ErrDraftCommitted
	}

	goals := dropBlank(d.goals)
	painPoints := dropBlank(d.painPoints)

	var missing []string
	if strings.TrimSpace(d.name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(d.age) == "" {
		missing = append(missing, "age")
	}
	if strings.TrimSpace(d.occupation) == "" {
		missing = append(missing, "occupation")
	}
	if len(goals) == 0 {
		missing = append(missing, "goals")
	}
	if len(painPoints) == 0 {
		missing = append(missing, "painPoints")
	}
	if len(missing) > 0 {
		d.mu.Unlock()
		return domain.Persona{}, domain.NewValidationError(missing...)
	}

	sections := make([]domain.CustomSection, 0, len(d.sections))
	for _, s := range d.sections {
		items := dropBlank(s.Items)
		if len(items) == 0 {
			continue
		}
		sections = append(sections, domain.CustomSection{Title: s.Title, Items: items})
	}

	persona := domain.Persona{
		ID:             uuid.NewString(),
		UserID:         ws.UserID(),
		Name:           strings.TrimSpace(d.name),
		Age:            strings.TrimSpace(d.age),
		Occupation:     strings.TrimSpace(d.occupation),
		Goals:          goals,
		PainPoints:     painPoints,
		CustomSections: sections,
		Avatar:         d.avatar,
		CreatedAt:      time.Now().UTC(),
	}
	if persona.Avatar == "" {
		persona.Avatar = domain.PlaceholderAvatar(persona.ID)
	}

	// Reservar el estado terminal antes de soltar el lock: un segundo
	// commit concurrente ve Committed y falla; si el workspace rechaza
	// la entrega, se revierte.
	d.committed = true
	d.mu.Unlock()

	if err := ws.CreatePersona(persona); err != nil {
		d.mu.Lock()
		d.committed = false
		d.mu.Unlock()
		return domain.Persona{}, err
	}
	return persona, nil
}

// Snapshot devuelve una vista serializable del draft para el cache de
// reanudacion y para las respuestas del formulario.
func (d *PersonaDraft) Snapshot() PersonaDraftSnapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return PersonaDraftSnapshot{
		Name:           d.name,
		Age:            d.age,
		Occupation:     d.occupation,
		Goals:          append([]string(nil), d.goals...),
		PainPoints:     append([]string(nil), d.painPoints...),
		CustomSections: append([]domain.CustomSection(nil), d.sections...),
		Avatar:         d.avatar,
		Committed:      d.committed,
	}
}

// RestorePersonaDraft reconstruye un draft desde un snapshot cacheado.
func RestorePersonaDraft(s PersonaDraftSnapshot) *PersonaDraft {
	d := NewPersonaDraft()
	d.name = s.Name
	d.age = s.Age
	d.occupation = s.Occupation
	if len(s.Goals) > 0 {
		d.goals = append([]string(nil), s.Goals...)
	}
	if len(s.PainPoints) > 0 {
		d.painPoints = append([]string(nil), s.PainPoints...)
	}
	d.sections = append([]domain.CustomSection(nil), s.CustomSections...)
	d.avatar = s.Avatar
	d.committed = s.Committed
	return d
}

// PersonaDraftSnapshot es la forma JSON del draft de persona.
type PersonaDraftSnapshot struct {
	Name           string                 `json:"name"`
	Age            string                 `json:"age"`
	Occupation     string                 `json:"occupation"`
	Goals          []string               `json:"goals"`
	PainPoints     []string               `json:"pain_points"`
	CustomSections []domain.CustomSection `json:"custom_sections"`
	Avatar         string                 `json:"avatar,omitempty"`
	Committed      bool                   `json:"committed"`
}

// applyStringOp aplica la operacion sobre la secuencia. add agrega un
// slot vacio (value no aplica), remove respeta el minimo y update
// reemplaza en index.
func applyStringOp(seq []string, op ArrayOp, index int, value string, minLen int) ([]string, error) {
	switch op {
	case OpAdd:
		return domain.Append(seq, ""), nil
	case OpRemove:
		return domain.RemoveAt(seq, index, minLen)
	case OpUpdate:
		return domain.UpdateAt(seq, index, value)
	default:
		return nil, domain.ErrUnknownField
	}
}

func dropBlank(seq []string) []string {
	var out []string
	for _, s := range seq {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}
