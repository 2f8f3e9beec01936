package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"journeymap/internal/repository"
)

// WorkspaceManager mantiene un Workspace por usuario autenticado. Se
// abre al iniciar sesion (sembrado desde persistencia) y se desarma al
// cerrar sesion; su vida esta atada a la sesion, no al proceso.
type WorkspaceManager struct {
	mu         sync.Mutex
	logger     *zap.Logger
	personas   repository.PersonaRepository
	journeys   repository.JourneyRepository
	workspaces map[string]*Workspace
}

func NewWorkspaceManager(logger *zap.Logger, personas repository.PersonaRepository, journeys repository.JourneyRepository) *WorkspaceManager {
	return &WorkspaceManager{
		logger:     logger,
		personas:   personas,
		journeys:   journeys,
		workspaces: make(map[string]*Workspace),
	}
}

// Open devuelve el workspace del usuario, creandolo y sembrandolo con
// loadAll si todavia no existe. Idempotente dentro de una sesion.
func (m *WorkspaceManager) Open(ctx context.Context, userID string) (*Workspace, error) {
	m.mu.Lock()
	if ws, ok := m.workspaces[userID]; ok {
		m.mu.Unlock()
		return ws, nil
	}
	m.mu.Unlock()

	// Cargar fuera del lock: la siembra puede tocar red.
	personas, err := m.personas.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	journeys, err := m.journeys.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if ws, ok := m.workspaces[userID]; ok {
		return ws, nil
	}
	ws := NewWorkspace(userID, personas, journeys)
	m.workspaces[userID] = ws
	m.logger.Info("workspace opened",
		zap.String("user_id", userID),
		zap.Int("personas", len(personas)),
		zap.Int("journeys", len(journeys)),
	)
	return ws, nil
}

// Get devuelve el workspace si la sesion ya lo abrio.
func (m *WorkspaceManager) Get(userID string) (*Workspace, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ws, ok := m.workspaces[userID]
	return ws, ok
}

// Close desarma el workspace al cerrar sesion. Los drafts no
// confirmados se descartan; nada llego a persistencia.
func (m *WorkspaceManager) Close(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.workspaces[userID]; ok {
		delete(m.workspaces, userID)
		m.logger.Info("workspace closed", zap.String("user_id", userID))
	}
}
