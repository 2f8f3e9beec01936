package service

import (
	"strings"
	"sync"

	"journeymap/internal/domain"
)

// Workspace es el estado compartido de una sesion autenticada: las
// colecciones confirmadas de personas y journeys mas los drafts activos.
// Las mutaciones son atomicas frente a los lectores; las lecturas
// devuelven copias para que ningun consumidor observe ediciones a medias.
//
// Orden de locks: w.mu puede tomarse antes que el mutex de un draft
// (StartPersonaDraft consulta Committed bajo w.mu), nunca al reves. Los
// commits de los drafts sueltan su propio mutex antes de llamar al
// workspace.
type Workspace struct {
	mu       sync.RWMutex
	userID   string
	personas []domain.Persona
	journeys []domain.Journey

	personaDraft *PersonaDraft
	journeyDraft *JourneyDraft
}

// NewWorkspace crea el workspace de un usuario, sembrado con las
// colecciones cargadas por el collaborator de persistencia.
func NewWorkspace(userID string, personas []domain.Persona, journeys []domain.Journey) *Workspace {
	return &Workspace{
		userID:   userID,
		personas: append([]domain.Persona(nil), personas...),
		journeys: append([]domain.Journey(nil), journeys...),
	}
}

// UserID devuelve el dueno de la sesion.
func (w *Workspace) UserID() string {
	return w.userID
}

// Personas devuelve una copia de la coleccion en orden de insercion.
func (w *Workspace) Personas() []domain.Persona {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]domain.Persona(nil), w.personas...)
}

// Journeys devuelve una copia de la coleccion en orden de insercion.
func (w *Workspace) Journeys() []domain.Journey {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]domain.Journey(nil), w.journeys...)
}

// PersonaByID busca una persona confirmada.
func (w *Workspace) PersonaByID(id string) (domain.Persona, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, p := range w.personas {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Persona{}, false
}

// JourneyByID busca un journey confirmado.
func (w *Workspace) JourneyByID(id string) (domain.Journey, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, j := range w.journeys {
		if j.ID == id {
			return j, true
		}
	}
	return domain.Journey{}, false
}

// CreatePersona agrega una persona confirmada. La colision de ids no
// deberia ocurrir con uuids frescos; se chequea defensivamente.
func (w *Workspace) CreatePersona(p domain.Persona) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, existing := range w.personas {
		if existing.ID == p.ID {
			return domain.ErrDuplicateID
		}
	}
	w.personas = domain.Append(w.personas, p)
	return nil
}

// CreateJourney agrega un journey confirmado.
func (w *Workspace) CreateJourney(j domain.Journey) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, existing := range w.journeys {
		if existing.ID == j.ID {
			return domain.ErrDuplicateID
		}
	}
	w.journeys = domain.Append(w.journeys, j)
	return nil
}

// UpdateJourney reemplaza el journey con id coincidente.
func (w *Workspace) UpdateJourney(j domain.Journey) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i, existing := range w.journeys {
		if existing.ID == j.ID {
			updated, err := domain.UpdateAt(w.journeys, i, j)
			if err != nil {
				return err
			}
			w.journeys = updated
			return nil
		}
	}
	return domain.ErrNotFound
}

// DeletePersona remueve la persona. No cascadea a los journeys que la
// referencian: los ids colgantes quedan y los consumidores los omiten.
func (w *Workspace) DeletePersona(id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i, p := range w.personas {
		if p.ID == id {
			updated, err := domain.RemoveAt(w.personas, i, 0)
			if err != nil {
				return err
			}
			w.personas = updated
			return nil
		}
	}
	return domain.ErrNotFound
}

// DeleteJourney remueve el journey.
func (w *Workspace) DeleteJourney(id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i, j := range w.journeys {
		if j.ID == id {
			updated, err := domain.RemoveAt(w.journeys, i, 0)
			if err != nil {
				return err
			}
			w.journeys = updated
			return nil
		}
	}
	return domain.ErrNotFound
}

// SearchPersonas filtra por substring case-insensitive sobre nombre y
// ocupacion, preservando el orden relativo original.
func (w *Workspace) SearchPersonas(term string) []domain.Persona {
	w.mu.RLock()
	defer w.mu.RUnlock()
	var out []domain.Persona
	for _, p := range w.personas {
		if matchesTerm(term, p.Name, p.Occupation) {
			out = append(out, p)
		}
	}
	return out
}

// SearchJourneys filtra por substring case-insensitive sobre nombre y
// descripcion, preservando el orden relativo original.
func (w *Workspace) SearchJourneys(term string) []domain.Journey {
	w.mu.RLock()
	defer w.mu.RUnlock()
	var out []domain.Journey
	for _, j := range w.journeys {
		if matchesTerm(term, j.Name, j.Description) {
			out = append(out, j)
		}
	}
	return out
}

// AssociatedPersonas resuelve las personas referenciadas por un journey
// en el orden de insercion del workspace, no en el orden de toggle. Los
// ids colgantes se omiten en silencio.
func (w *Workspace) AssociatedPersonas(j domain.Journey) []domain.Persona {
	w.mu.RLock()
	defer w.mu.RUnlock()
	var out []domain.Persona
	for _, p := range w.personas {
		if j.References(p.ID) {
			out = append(out, p)
		}
	}
	return out
}

// StartPersonaDraft abre el draft de persona activo, creandolo si no
// existe. Hay a lo sumo un draft por tipo por sesion.
func (w *Workspace) StartPersonaDraft() *PersonaDraft {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.personaDraft == nil || w.personaDraft.Committed() {
		w.personaDraft = NewPersonaDraft()
	}
	return w.personaDraft
}

// PersonaDraftInProgress devuelve el draft activo si existe.
func (w *Workspace) PersonaDraftInProgress() (*PersonaDraft, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.personaDraft == nil || w.personaDraft.Committed() {
		return nil, false
	}
	return w.personaDraft, true
}

// ResumePersonaDraft adopta un draft reconstruido desde el cache de
// reanudacion.
func (w *Workspace) ResumePersonaDraft(d *PersonaDraft) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.personaDraft = d
}

// DiscardPersonaDraft abandona el draft sin rollback: nada se confirma
// hasta el commit.
func (w *Workspace) DiscardPersonaDraft() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.personaDraft = nil
}

// StartJourneyDraft abre el draft de journey activo, creandolo si no
// existe. A diferencia del de persona, sobrevive a los commits para
// permitir recommits iterativos.
func (w *Workspace) StartJourneyDraft() *JourneyDraft {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.journeyDraft == nil {
		w.journeyDraft = NewJourneyDraft()
	}
	return w.journeyDraft
}

// JourneyDraftInProgress devuelve el draft activo si existe.
func (w *Workspace) JourneyDraftInProgress() (*JourneyDraft, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.journeyDraft == nil {
		return nil, false
	}
	return w.journeyDraft, true
}

// ResumeJourneyDraft adopta un draft reconstruido desde el cache o
// cargado desde un journey existente para edicion.
func (w *Workspace) ResumeJourneyDraft(d *JourneyDraft) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.journeyDraft = d
}

// DiscardJourneyDraft abandona el draft de journey.
func (w *Workspace) DiscardJourneyDraft() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.journeyDraft = nil
}

func matchesTerm(term string, fields ...string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}
