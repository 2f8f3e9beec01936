package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"journeymap/internal/domain"
	"journeymap/internal/repository"
)

const persistTimeout = 5 * time.Second

// PersonaService orquesta el commit del draft: valida via el draft,
// entrega la persona al workspace y despacha el guardado al
// collaborator de persistencia. El ack de persistencia es asincrono
// para no frenar las ediciones locales; una falla se loguea y no
// revierte el estado de sesion.
type PersonaService struct {
	logger   *zap.Logger
	personas repository.PersonaRepository
}

func NewPersonaService(logger *zap.Logger, personas repository.PersonaRepository) *PersonaService {
	return &PersonaService{logger: logger, personas: personas}
}

// Commit confirma el draft activo contra el workspace y persiste.
func (s *PersonaService) Commit(ws *Workspace, draft *PersonaDraft) (domain.Persona, error) {
	persona, err := draft.Commit(ws)
	if err != nil {
		return domain.Persona{}, err
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		if err := s.personas.Save(ctx, persona); err != nil {
			s.logger.Error("persist persona failed",
				zap.String("persona_id", persona.ID),
				zap.Error(err),
			)
		}
	}()
	return persona, nil
}

// Delete remueve la persona del workspace y de persistencia. No
// cascadea: los journeys que la referencian conservan el id colgante.
func (s *PersonaService) Delete(ws *Workspace, id string) error {
	if err := ws.DeletePersona(id); err != nil {
		return err
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		if err := s.personas.Delete(ctx, id); err != nil {
			s.logger.Error("delete persona failed",
				zap.String("persona_id", id),
				zap.Error(err),
			)
		}
	}()
	return nil
}
