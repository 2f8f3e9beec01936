package service

import (
	"context"

	"go.uber.org/zap"

	"journeymap/internal/domain"
	"journeymap/internal/repository"
)

// JourneyService orquesta commits y bajas de journeys, con el mismo
// guardado asincrono que PersonaService.
type JourneyService struct {
	logger   *zap.Logger
	journeys repository.JourneyRepository
}

func NewJourneyService(logger *zap.Logger, journeys repository.JourneyRepository) *JourneyService {
	return &JourneyService{logger: logger, journeys: journeys}
}

// Commit confirma el draft: create en el primer commit, update en los
// siguientes. El repositorio hace upsert, asi que ambos caminos
// comparten el mismo Save.
func (s *JourneyService) Commit(ws *Workspace, draft *JourneyDraft) (domain.Journey, error) {
	journey, err := draft.Commit(ws)
	if err != nil {
		return domain.Journey{}, err
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		if err := s.journeys.Save(ctx, journey); err != nil {
			s.logger.Error("persist journey failed",
				zap.String("journey_id", journey.ID),
				zap.Error(err),
			)
		}
	}()
	return journey, nil
}

// Delete remueve el journey del workspace y de persistencia.
func (s *JourneyService) Delete(ws *Workspace, id string) error {
	if err := ws.DeleteJourney(id); err != nil {
		return err
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		if err := s.journeys.Delete(ctx, id); err != nil {
			s.logger.Error("delete journey failed",
				zap.String("journey_id", id),
				zap.Error(err),
			)
		}
	}()
	return nil
}
