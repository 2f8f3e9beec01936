package main

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"journeymap/internal/config"
	"journeymap/internal/db"
	"journeymap/internal/domain"
	"journeymap/internal/repository"
)

// Siembra un usuario demo con dos personas y un journey para probar la
// API sin pasar por el formulario.
func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	if err := db.EnsureSchema(ctx, pool); err != nil {
		logger.Fatal("ensure schema", zap.Error(err))
	}

	userRepo := repository.NewPgUserRepository(pool)
	personaRepo := repository.NewPgPersonaRepository(pool)
	journeyRepo := repository.NewPgJourneyRepository(pool)

	hash, err := bcrypt.GenerateFromPassword([]byte("demo-password"), bcrypt.DefaultCost)
	if err != nil {
		logger.Fatal("hash password", zap.Error(err))
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:           uuid.NewString(),
		Email:        "demo@journeymap.local",
		DisplayName:  "Demo",
		PasswordHash: string(hash),
		CreatedAt:    now,
	}
	if err := userRepo.Create(ctx, user); err != nil {
		logger.Fatal("seed user", zap.Error(err))
	}

	amari := domain.Persona{
		ID:         uuid.NewString(),
		UserID:     user.ID,
		Name:       "Amari",
		Age:        "34",
		Occupation: "Product Manager",
		Goals:      []string{"Ship features faster", "Understand customer churn"},
		PainPoints: []string{"Fragmented feedback channels"},
		CustomSections: []domain.CustomSection{
			{Title: "Tools", Items: []string{"Jira", "Figma"}},
		},
		CreatedAt: now,
	}
	amari.Avatar = domain.PlaceholderAvatar(amari.ID)

	river := domain.Persona{
		ID:         uuid.NewString(),
		UserID:     user.ID,
		Name:       "River",
		Age:        "27",
		Occupation: "Support Engineer",
		Goals:      []string{"Resolve tickets on first contact"},
		PainPoints: []string{"No visibility into product roadmap"},
		CreatedAt:  now,
	}
	river.Avatar = domain.PlaceholderAvatar(river.ID)

	for _, p := range []domain.Persona{amari, river} {
		if err := personaRepo.Save(ctx, p); err != nil {
			logger.Fatal("seed persona", zap.Error(err))
		}
	}

	onboarding := domain.NewTouchpoint()
	onboarding.Name = "Account signup"
	onboarding.Description = "First contact with the product"
	onboarding.CustomerAction = "Creates an account and invites the team"
	onboarding.Emotion = domain.EmotionPositive
	onboarding.Metrics = domain.Metrics{Satisfaction: 80, Effort: 30, Completion: 95}

	journey := domain.Journey{
		ID:          uuid.NewString(),
		UserID:      user.ID,
		Name:        "Onboarding",
		Description: "From signup to first value",
		PersonaIDs:  []string{amari.ID, river.ID},
		Stages: []domain.Stage{
			{ID: uuid.NewString(), Name: "Discover", Touchpoints: []domain.Touchpoint{onboarding}},
			{ID: uuid.NewString(), Name: "Activate", Touchpoints: []domain.Touchpoint{}},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := journeyRepo.Save(ctx, journey); err != nil {
		logger.Fatal("seed journey", zap.Error(err))
	}

	logger.Info("seed complete",
		zap.String("user_id", user.ID),
		zap.String("email", user.Email),
		zap.Int("personas", 2),
		zap.Int("journeys", 1),
	)
}
