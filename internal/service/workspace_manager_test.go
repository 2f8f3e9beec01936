package service

import (
	"context"
	"sync"
	"testing"

	"go.uber.org/zap"

	"journeymap/internal/domain"
)

type seededPersonaRepo struct {
	mu       sync.Mutex
	personas []domain.Persona
	lists    int
}

func (r *seededPersonaRepo) Save(_ context.Context, p domain.Persona) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.personas = append(r.personas, p)
	return nil
}

func (r *seededPersonaRepo) ListByUser(_ context.Context, userID string) ([]domain.Persona, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lists++
	var out []domain.Persona
	for _, p := range r.personas {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *seededPersonaRepo) Delete(_ context.Context, _ string) error { return nil }

type seededJourneyRepo struct {
	journeys []domain.Journey
}

func (r *seededJourneyRepo) Save(_ context.Context, _ domain.Journey) error { return nil }

func (r *seededJourneyRepo) ListByUser(_ context.Context, userID string) ([]domain.Journey, error) {
	var out []domain.Journey
	for _, j := range r.journeys {
		if j.UserID == userID {
			out = append(out, j)
		}
	}
	return out, nil
}

func (r *seededJourneyRepo) Delete(_ context.Context, _ string) error { return nil }

func TestOpenSeedsWorkspaceFromRepositories(t *testing.T) {
	personaRepo := &seededPersonaRepo{personas: []domain.Persona{
		{ID: "p1", UserID: "u1", Name: "Amari"},
		{ID: "p2", UserID: "other", Name: "Not mine"},
	}}
	journeyRepo := &seededJourneyRepo{journeys: []domain.Journey{
		{ID: "j1", UserID: "u1", Name: "Onboarding"},
	}}
	manager := NewWorkspaceManager(zap.NewNop(), personaRepo, journeyRepo)

	ws, err := manager.Open(context.Background(), "u1")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if len(ws.Personas()) != 1 || ws.Personas()[0].ID != "p1" {
		t.Fatalf("unexpected personas: %+v", ws.Personas())
	}
	if len(ws.Journeys()) != 1 {
		t.Fatalf("unexpected journeys: %+v", ws.Journeys())
	}
}

func TestOpenIsIdempotentWithinSession(t *testing.T) {
	personaRepo := &seededPersonaRepo{}
	manager := NewWorkspaceManager(zap.NewNop(), personaRepo, &seededJourneyRepo{})

	first, err := manager.Open(context.Background(), "u1")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	second, err := manager.Open(context.Background(), "u1")
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if first != second {
		t.Fatal("expected one workspace per session")
	}
}

func TestCloseDropsWorkspaceAndUncommittedDrafts(t *testing.T) {
	manager := NewWorkspaceManager(zap.NewNop(), &seededPersonaRepo{}, &seededJourneyRepo{})

	ws, err := manager.Open(context.Background(), "u1")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	ws.StartPersonaDraft()

	manager.Close("u1")
	if _, ok := manager.Get("u1"); ok {
		t.Fatal("workspace must be gone after close")
	}

	reopened, err := manager.Open(context.Background(), "u1")
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if _, ok := reopened.PersonaDraftInProgress(); ok {
		t.Fatal("uncommitted draft must not survive logout")
	}
}

func TestWorkspacesAreIsolatedPerUser(t *testing.T) {
	manager := NewWorkspaceManager(zap.NewNop(), &seededPersonaRepo{}, &seededJourneyRepo{})
	ctx := context.Background()

	wsA, err := manager.Open(ctx, "ua")
	if err != nil {
		t.Fatalf("open a: %v", err)
	}
	wsB, err := manager.Open(ctx, "ub")
	if err != nil {
		t.Fatalf("open b: %v", err)
	}

	if err := wsA.CreatePersona(domain.Persona{ID: "p1", UserID: "ua"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(wsB.Personas()) != 0 {
		t.Fatal("persona leaked across workspaces")
	}
}
