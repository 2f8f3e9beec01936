package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"journeymap/internal/service"
)

const journeyDraftKind = "journey"

// JourneyHandler mantiene dependencias para endpoints de journeys y su
// builder incremental.
type JourneyHandler struct {
	logger        *zap.Logger
	manager       *service.WorkspaceManager
	journeyServ   *service.JourneyService
	drafts        service.DraftCache
	maxImageBytes int64
}

// NewJourneyHandler crea una instancia de JourneyHandler con dependencias necesarias.
func NewJourneyHandler(logger *zap.Logger, manager *service.WorkspaceManager, journeyServ *service.JourneyService, drafts service.DraftCache, maxImageBytes int64) *JourneyHandler {
	return &JourneyHandler{
		logger:        logger,
		manager:       manager,
		journeyServ:   journeyServ,
		drafts:        drafts,
		maxImageBytes: maxImageBytes,
	}
}

// ListJourneys maneja GET /journeys?q=term.
func (h *JourneyHandler) ListJourneys(c *gin.Context) {
	ws, _, ok := workspaceFor(c, h.logger, h.manager)
	if !ok {
		return
	}
	journeys := ws.SearchJourneys(c.Query("q"))
	c.JSON(http.StatusOK, gin.H{"journeys": journeys, "total": len(journeys)})
}

// AssociatedPersonas maneja GET /journeys/:id/personas. Resuelve las
// personas referenciadas en orden de insercion, omitiendo ids colgantes.
func (h *JourneyHandler) AssociatedPersonas(c *gin.Context) {
	ws, _, ok := workspaceFor(c, h.logger, h.manager)
	if !ok {
		return
	}
	journey, found := ws.JourneyByID(c.Param("id"))
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	personas := ws.AssociatedPersonas(journey)
	c.JSON(http.StatusOK, gin.H{"personas": personas, "total": len(personas)})
}

// DeleteJourney maneja DELETE /journeys/:id.
func (h *JourneyHandler) DeleteJourney(c *gin.Context) {
	ws, _, ok := workspaceFor(c, h.logger, h.manager)
	if !ok {
		return
	}
	if err := h.journeyServ.Delete(ws, c.Param("id")); err != nil {
		respondEditError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// StartDraft maneja POST /journeys/draft. Con journey_id carga un
// journey existente para edicion; sin el, reanuda el draft cacheado o
// abre uno vacio.
func (h *JourneyHandler) StartDraft(c *gin.Context) {
	ws, claims, ok := workspaceFor(c, h.logger, h.manager)
	if !ok {
		return
	}

	var req struct {
		JourneyID string `json:"journey_id"`
	}
	// El body es opcional: un draft vacio no necesita payload.
	_ = c.ShouldBindJSON(&req)

	var draft *service.JourneyDraft
	if req.JourneyID != "" {
		journey, found := ws.JourneyByID(req.JourneyID)
		if !found {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		draft = service.DraftFromJourney(journey)
		ws.ResumeJourneyDraft(draft)
	} else if draft, ok = ws.JourneyDraftInProgress(); !ok {
		var snap service.JourneyDraftSnapshot
		found, err := h.drafts.Load(c.Request.Context(), claims.UserID, journeyDraftKind, &snap)
		if err != nil {
			h.logger.Warn("load journey draft failed", zap.Error(err))
		}
		if found {
			draft = service.RestoreJourneyDraft(snap)
			ws.ResumeJourneyDraft(draft)
		} else {
			draft = ws.StartJourneyDraft()
		}
	}
	draft.SetImageLimit(h.maxImageBytes)
	c.JSON(http.StatusOK, gin.H{"draft": draft.Snapshot()})
}

// GetDraft maneja GET /journeys/draft.
func (h *JourneyHandler) GetDraft(c *gin.Context) {
	ws, _, ok := workspaceFor(c, h.logger, h.manager)
	if !ok {
		return
	}
	draft, inProgress := ws.JourneyDraftInProgress()
	if !inProgress {
		c.JSON(http.StatusNotFound, gin.H{"error": "no active draft"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"draft": draft.Snapshot()})
}

// SetDraftField maneja PUT /journeys/draft/fields.
func (h *JourneyHandler) SetDraftField(c *gin.Context) {
	var req struct {
		Field string `json:"field" binding:"required"`
		Value string `json:"value"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	h.withDraft(c, func(draft *service.JourneyDraft) error {
		return draft.SetField(req.Field, req.Value)
	})
}

// TogglePersona maneja POST /journeys/draft/personas/:personaID/toggle.
func (h *JourneyHandler) TogglePersona(c *gin.Context) {
	h.withDraft(c, func(draft *service.JourneyDraft) error {
		draft.TogglePersona(c.Param("personaID"))
		return nil
	})
}

// AddStage maneja POST /journeys/draft/stages.
func (h *JourneyHandler) AddStage(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	h.withDraft(c, func(draft *service.JourneyDraft) error {
		draft.AddStage(req.Name)
		return nil
	})
}

// RenameStage maneja PUT /journeys/draft/stages/:index.
func (h *JourneyHandler) RenameStage(c *gin.Context) {
	index, ok := pathIndex(c, "index")
	if !ok {
		return
	}
	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	h.withDraft(c, func(draft *service.JourneyDraft) error {
		return draft.RenameStage(index, req.Name)
	})
}

// RemoveStage maneja DELETE /journeys/draft/stages/:index.
func (h *JourneyHandler) RemoveStage(c *gin.Context) {
	index, ok := pathIndex(c, "index")
	if !ok {
		return
	}
	h.withDraft(c, func(draft *service.JourneyDraft) error {
		return draft.RemoveStage(index)
	})
}

// AddTouchpoint maneja POST /journeys/draft/stages/:index/touchpoints.
func (h *JourneyHandler) AddTouchpoint(c *gin.Context) {
	index, ok := pathIndex(c, "index")
	if !ok {
		return
	}
	h.withDraft(c, func(draft *service.JourneyDraft) error {
		_, err := draft.AddTouchpoint(index)
		return err
	})
}

// UpdateTouchpoint maneja PATCH /journeys/draft/stages/:index/touchpoints/:tp
// con merge parcial de campos.
func (h *JourneyHandler) UpdateTouchpoint(c *gin.Context) {
	stageIndex, ok := pathIndex(c, "index")
	if !ok {
		return
	}
	tpIndex, ok := pathIndex(c, "tp")
	if !ok {
		return
	}
	var patch service.TouchpointPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	h.withDraft(c, func(draft *service.JourneyDraft) error {
		return draft.UpdateTouchpoint(stageIndex, tpIndex, patch)
	})
}

// RemoveTouchpoint maneja DELETE /journeys/draft/stages/:index/touchpoints/:tp.
func (h *JourneyHandler) RemoveTouchpoint(c *gin.Context) {
	stageIndex, ok := pathIndex(c, "index")
	if !ok {
		return
	}
	tpIndex, ok := pathIndex(c, "tp")
	if !ok {
		return
	}
	h.withDraft(c, func(draft *service.JourneyDraft) error {
		return draft.RemoveTouchpoint(stageIndex, tpIndex)
	})
}

// SetTouchpointImage maneja PUT /journeys/draft/stages/:index/touchpoints/:tp/image.
func (h *JourneyHandler) SetTouchpointImage(c *gin.Context) {
	stageIndex, ok := pathIndex(c, "index")
	if !ok {
		return
	}
	tpIndex, ok := pathIndex(c, "tp")
	if !ok {
		return
	}
	data, _, contentType, err := readUpload(c, "image", h.maxImageBytes)
	if err != nil {
		respondEditError(c, err)
		return
	}
	h.withDraft(c, func(draft *service.JourneyDraft) error {
		return draft.SetTouchpointImage(stageIndex, tpIndex, data, contentType)
	})
}

// CommitDraft maneja POST /journeys/draft/commit. El draft sobrevive al
// commit: ediciones posteriores recommittean como update.
func (h *JourneyHandler) CommitDraft(c *gin.Context) {
	ws, claims, ok := workspaceFor(c, h.logger, h.manager)
	if !ok {
		return
	}
	draft, inProgress := ws.JourneyDraftInProgress()
	if !inProgress {
		c.JSON(http.StatusNotFound, gin.H{"error": "no active draft"})
		return
	}

	journey, err := h.journeyServ.Commit(ws, draft)
	if err != nil {
		respondEditError(c, err)
		return
	}
	if err := h.drafts.Save(c.Request.Context(), claims.UserID, journeyDraftKind, draft.Snapshot()); err != nil {
		h.logger.Warn("mirror journey draft failed", zap.Error(err))
	}
	c.JSON(http.StatusCreated, gin.H{"journey": journey})
}

// DiscardDraft maneja DELETE /journeys/draft.
func (h *JourneyHandler) DiscardDraft(c *gin.Context) {
	ws, claims, ok := workspaceFor(c, h.logger, h.manager)
	if !ok {
		return
	}
	ws.DiscardJourneyDraft()
	if err := h.drafts.Discard(c.Request.Context(), claims.UserID, journeyDraftKind); err != nil {
		h.logger.Warn("discard journey draft failed", zap.Error(err))
	}
	c.Status(http.StatusNoContent)
}

// withDraft aplica una edicion sobre el draft activo y espeja el estado
// resultante en el cache de reanudacion.
func (h *JourneyHandler) withDraft(c *gin.Context, edit func(*service.JourneyDraft) error) {
	ws, claims, ok := workspaceFor(c, h.logger, h.manager)
	if !ok {
		return
	}
	draft, inProgress := ws.JourneyDraftInProgress()
	if !inProgress {
		c.JSON(http.StatusNotFound, gin.H{"error": "no active draft"})
		return
	}
	if err := edit(draft); err != nil {
		respondEditError(c, err)
		return
	}

	snap := draft.Snapshot()
	if err := h.drafts.Save(c.Request.Context(), claims.UserID, journeyDraftKind, snap); err != nil {
		h.logger.Warn("mirror journey draft failed", zap.Error(err))
	}
	c.JSON(http.StatusOK, gin.H{"draft": snap})
}
