package service

import (
	"errors"
	"sync"
	"testing"
	"time"

	"journeymap/internal/domain"
)

func TestJourneyDraftCommitCreatesThenUpdates(t *testing.T) {
	ws := newTestWorkspace()
	draft := ws.StartJourneyDraft()

	if err := draft.SetField("name", "Onboarding"); err != nil {
		t.Fatalf("set name: %v", err)
	}
	draft.AddStage("Discover")

	first, err := draft.Commit(ws)
	if err != nil {
		t.Fatalf("first commit: %v", err)
	}
	if first.ID == "" {
		t.Fatal("expected id assigned on first commit")
	}
	if len(ws.Journeys()) != 1 {
		t.Fatalf("expected one journey, got %d", len(ws.Journeys()))
	}

	// El draft sobrevive al commit: mas ediciones y recommit actualizan.
	if err := draft.SetField("description", "From signup to value"); err != nil {
		t.Fatalf("set description: %v", err)
	}
	draft.AddStage("Activate")

	second, err := draft.Commit(ws)
	if err != nil {
		t.Fatalf("second commit: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("recommit changed id: %q vs %q", second.ID, first.ID)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Fatal("recommit must preserve created_at")
	}

	journeys := ws.Journeys()
	if len(journeys) != 1 {
		t.Fatalf("recommit duplicated journey: %d", len(journeys))
	}
	if len(journeys[0].Stages) != 2 || journeys[0].Description == "" {
		t.Fatalf("update not applied: %+v", journeys[0])
	}
}

func TestJourneyDraftCommitRequiresNameAndStage(t *testing.T) {
	ws := newTestWorkspace()
	draft := ws.StartJourneyDraft()

	_, err := draft.Commit(ws)
	var vErr *domain.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(vErr.Fields) != 2 || vErr.Fields[0] != "name" || vErr.Fields[1] != "stages" {
		t.Fatalf("unexpected fields: %v", vErr.Fields)
	}
	if len(ws.Journeys()) != 0 {
		t.Fatal("failed commit must not touch the workspace")
	}
}

func TestTogglePersonaTwiceIsIdentity(t *testing.T) {
	draft := NewJourneyDraft()

	draft.TogglePersona("p1")
	if snap := draft.Snapshot(); len(snap.PersonaIDs) != 1 || snap.PersonaIDs[0] != "p1" {
		t.Fatalf("expected p1 associated, got %v", snap.PersonaIDs)
	}

	draft.TogglePersona("p1")
	if snap := draft.Snapshot(); len(snap.PersonaIDs) != 0 {
		t.Fatalf("expected association removed, got %v", snap.PersonaIDs)
	}
}

func TestUpdateTouchpointMergesOnlyProvidedFields(t *testing.T) {
	draft := NewJourneyDraft()
	draft.AddStage("Discover")
	if _, err := draft.AddTouchpoint(0); err != nil {
		t.Fatalf("add touchpoint: %v", err)
	}

	name := "Signup"
	satisfaction := 90
	if err := draft.UpdateTouchpoint(0, 0, TouchpointPatch{Name: &name, Satisfaction: &satisfaction}); err != nil {
		t.Fatalf("patch: %v", err)
	}

	tp := draft.Snapshot().Stages[0].Touchpoints[0]
	if tp.Name != "Signup" {
		t.Fatalf("name not applied: %q", tp.Name)
	}
	if tp.Metrics.Satisfaction != 90 {
		t.Fatalf("satisfaction not applied: %d", tp.Metrics.Satisfaction)
	}
	// Los campos no provistos conservan los defaults del formulario.
	if tp.Emotion != domain.EmotionNeutral || tp.Metrics.Effort != 50 || tp.Metrics.Completion != 50 {
		t.Fatalf("untouched fields changed: %+v", tp)
	}
}

func TestUpdateTouchpointClampsMetrics(t *testing.T) {
	draft := NewJourneyDraft()
	draft.AddStage("Discover")
	if _, err := draft.AddTouchpoint(0); err != nil {
		t.Fatalf("add touchpoint: %v", err)
	}

	over := 150
	under := -10
	if err := draft.UpdateTouchpoint(0, 0, TouchpointPatch{Satisfaction: &over, Effort: &under}); err != nil {
		t.Fatalf("patch: %v", err)
	}
	tp := draft.Snapshot().Stages[0].Touchpoints[0]
	if tp.Metrics.Satisfaction != 100 || tp.Metrics.Effort != 0 {
		t.Fatalf("metrics not clamped: %+v", tp.Metrics)
	}
}

func TestUpdateTouchpointRejectsUnknownEmotion(t *testing.T) {
	draft := NewJourneyDraft()
	draft.AddStage("Discover")
	if _, err := draft.AddTouchpoint(0); err != nil {
		t.Fatalf("add touchpoint: %v", err)
	}

	bad := domain.Emotion("ecstatic")
	err := draft.UpdateTouchpoint(0, 0, TouchpointPatch{Emotion: &bad})
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if tp := draft.Snapshot().Stages[0].Touchpoints[0]; tp.Emotion != domain.EmotionNeutral {
		t.Fatalf("rejected patch mutated draft: %q", tp.Emotion)
	}
}

func TestJourneyDraftStageAndTouchpointIndexBounds(t *testing.T) {
	draft := NewJourneyDraft()
	draft.AddStage("Only")

	if err := draft.RemoveStage(3); !errors.Is(err, domain.ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
	if err := draft.RenameStage(-1, "x"); !errors.Is(err, domain.ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
	if _, err := draft.AddTouchpoint(1); !errors.Is(err, domain.ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
	if err := draft.RemoveTouchpoint(0, 0); !errors.Is(err, domain.ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange for empty touchpoints, got %v", err)
	}
}

func TestJourneyDraftCommitCompletesUnderConcurrentWorkspaceReads(t *testing.T) {
	ws := newTestWorkspace()
	draft := ws.StartJourneyDraft()
	if err := draft.SetField("name", "Onboarding"); err != nil {
		t.Fatalf("set name: %v", err)
	}
	draft.AddStage("Discover")

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
				ws.JourneyDraftInProgress()
				ws.PersonaDraftInProgress()
			}
		}
	}()

	done := make(chan error, 1)
	go func() {
		_, err := draft.Commit(ws)
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("commit: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("commit never completed under concurrent workspace reads")
	}
	close(stop)
	wg.Wait()

	if len(ws.Journeys()) != 1 {
		t.Fatalf("expected one journey, got %d", len(ws.Journeys()))
	}
}

func TestDraftFromJourneyRecommitsAsUpdate(t *testing.T) {
	ws := newTestWorkspace()
	seeded := domain.Journey{
		ID:     "j1",
		UserID: "u1",
		Name:   "Support flow",
		Stages: []domain.Stage{domain.NewStage("Contact")},
	}
	if err := ws.CreateJourney(seeded); err != nil {
		t.Fatalf("seed journey: %v", err)
	}

	draft := DraftFromJourney(seeded)
	ws.ResumeJourneyDraft(draft)
	if err := draft.SetField("name", "Support flow v2"); err != nil {
		t.Fatalf("set name: %v", err)
	}

	committed, err := draft.Commit(ws)
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if committed.ID != "j1" {
		t.Fatalf("expected update of j1, got %q", committed.ID)
	}
	journeys := ws.Journeys()
	if len(journeys) != 1 || journeys[0].Name != "Support flow v2" {
		t.Fatalf("update not applied: %+v", journeys)
	}
}
