package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"journeymap/internal/domain"
	"journeymap/internal/service"
	"journeymap/internal/storage"
)

// stubPersonaRepo y stubJourneyRepo guardan en memoria para los tests de
// handlers; el guardado asincrono de los services escribe aca sin red.
type stubPersonaRepo struct {
	mu       sync.Mutex
	personas map[string]domain.Persona
}

func newStubPersonaRepo() *stubPersonaRepo {
	return &stubPersonaRepo{personas: make(map[string]domain.Persona)}
}

func (r *stubPersonaRepo) Save(_ context.Context, p domain.Persona) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.personas[p.ID] = p
	return nil
}

func (r *stubPersonaRepo) ListByUser(_ context.Context, userID string) ([]domain.Persona, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Persona
	for _, p := range r.personas {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *stubPersonaRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.personas, id)
	return nil
}

type stubJourneyRepo struct {
	mu       sync.Mutex
	journeys map[string]domain.Journey
}

func newStubJourneyRepo() *stubJourneyRepo {
	return &stubJourneyRepo{journeys: make(map[string]domain.Journey)}
}

func (r *stubJourneyRepo) Save(_ context.Context, j domain.Journey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.journeys[j.ID] = j
	return nil
}

func (r *stubJourneyRepo) ListByUser(_ context.Context, userID string) ([]domain.Journey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Journey
	for _, j := range r.journeys {
		if j.UserID == userID {
			out = append(out, j)
		}
	}
	return out, nil
}

func (r *stubJourneyRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.journeys, id)
	return nil
}

type stubUserRepo struct {
	mu    sync.Mutex
	users map[string]domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]domain.User)}
}

func (r *stubUserRepo) Create(_ context.Context, u domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) GetByID(_ context.Context, id string) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (r *stubUserRepo) GetByEmail(_ context.Context, email string) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, pgx.ErrNoRows
}

func (r *stubUserRepo) UpdateProfile(_ context.Context, id, displayName, photoURL string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	u.DisplayName = displayName
	u.PhotoURL = photoURL
	r.users[id] = u
	return nil
}

type testEnv struct {
	router *gin.Engine
	token  string
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	userRepo := newStubUserRepo()
	personaRepo := newStubPersonaRepo()
	journeyRepo := newStubJourneyRepo()

	jwtSvc := service.NewJWTServiceWithStore("test-secret", 15*time.Minute, time.Hour, service.NewMemoryRefreshTokenStore())
	userSvc := service.NewUserService(logger, userRepo, storage.NewDisabledStore("disabled in tests"))
	personaSvc := service.NewPersonaService(logger, personaRepo)
	journeySvc := service.NewJourneyService(logger, journeyRepo)
	manager := service.NewWorkspaceManager(logger, personaRepo, journeyRepo)
	drafts := service.NewMemoryDraftCache()

	authH := NewAuthHandler(logger, userSvc, jwtSvc, manager)
	profileH := NewProfileHandler(logger, userSvc, domain.MaxImageBytes)
	personaH := NewPersonaHandler(logger, manager, personaSvc, drafts, domain.MaxImageBytes)
	journeyH := NewJourneyHandler(logger, manager, journeySvc, drafts, domain.MaxImageBytes)
	router := NewRouter(logger, jwtSvc, authH, profileH, personaH, journeyH)

	user := domain.User{ID: "u1", Email: "user@example.com", DisplayName: "Amari", CreatedAt: time.Now().UTC()}
	if err := userRepo.Create(context.Background(), user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	pair, err := jwtSvc.GeneratePair(user)
	if err != nil {
		t.Fatalf("generate pair: %v", err)
	}

	return testEnv{router: router, token: pair.AccessToken}
}

func (e testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Authorization", "Bearer "+e.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, into any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), into); err != nil {
		t.Fatalf("decode response: %v (%s)", err, rec.Body.String())
	}
}
