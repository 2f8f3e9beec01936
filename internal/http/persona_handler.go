package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"journeymap/internal/service"
)

const personaDraftKind = "persona"

// PersonaHandler mantiene dependencias para endpoints de personas y su
// formulario de creacion.
type PersonaHandler struct {
	logger        *zap.Logger
	manager       *service.WorkspaceManager
	personaServ   *service.PersonaService
	drafts        service.DraftCache
	maxImageBytes int64
}

// NewPersonaHandler crea una instancia de PersonaHandler con dependencias necesarias.
func NewPersonaHandler(logger *zap.Logger, manager *service.WorkspaceManager, personaServ *service.PersonaService, drafts service.DraftCache, maxImageBytes int64) *PersonaHandler {
	return &PersonaHandler{
		logger:        logger,
		manager:       manager,
		personaServ:   personaServ,
		drafts:        drafts,
		maxImageBytes: maxImageBytes,
	}
}

// ListPersonas maneja GET /personas?q=term.
func (h *PersonaHandler) ListPersonas(c *gin.Context) {
	ws, _, ok := workspaceFor(c, h.logger, h.manager)
	if !ok {
		return
	}
	personas := ws.SearchPersonas(c.Query("q"))
	c.JSON(http.StatusOK, gin.H{"personas": personas, "total": len(personas)})
}

// DeletePersona maneja DELETE /personas/:id. No cascadea a journeys.
func (h *PersonaHandler) DeletePersona(c *gin.Context) {
	ws, _, ok := workspaceFor(c, h.logger, h.manager)
	if !ok {
		return
	}
	if err := h.personaServ.Delete(ws, c.Param("id")); err != nil {
		respondEditError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// StartDraft maneja POST /personas/draft. Reanuda el draft cacheado si
// una sesion anterior dejo uno a medias.
func (h *PersonaHandler) StartDraft(c *gin.Context) {
	ws, claims, ok := workspaceFor(c, h.logger, h.manager)
	if !ok {
		return
	}

	draft, inProgress := ws.PersonaDraftInProgress()
	if !inProgress {
		var snap service.PersonaDraftSnapshot
		found, err := h.drafts.Load(c.Request.Context(), claims.UserID, personaDraftKind, &snap)
		if err != nil {
			h.logger.Warn("load persona draft failed", zap.Error(err))
		}
		if found && !snap.Committed {
			draft = service.RestorePersonaDraft(snap)
			ws.ResumePersonaDraft(draft)
		} else {
			draft = ws.StartPersonaDraft()
		}
	}
	draft.SetImageLimit(h.maxImageBytes)
	c.JSON(http.StatusOK, gin.H{"draft": draft.Snapshot()})
}

// GetDraft maneja GET /personas/draft.
func (h *PersonaHandler) GetDraft(c *gin.Context) {
	ws, _, ok := workspaceFor(c, h.logger, h.manager)
	if !ok {
		return
	}
	draft, inProgress := ws.PersonaDraftInProgress()
	if !inProgress {
		c.JSON(http.StatusNotFound, gin.H{"error": "no active draft"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"draft": draft.Snapshot()})
}

// SetDraftField maneja PUT /personas/draft/fields.
func (h *PersonaHandler) SetDraftField(c *gin.Context) {
	var req struct {
		Field string `json:"field" binding:"required"`
		Value string `json:"value"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	h.withDraft(c, func(draft *service.PersonaDraft) error {
		return draft.SetField(req.Field, req.Value)
	})
}

// EditDraftList maneja POST /personas/draft/lists/:field sobre goals o
// pain-points. value solo aplica a update: add agrega un slot vacio
// para que el formulario lo complete.
func (h *PersonaHandler) EditDraftList(c *gin.Context) {
	field := c.Param("field")
	if field == "pain-points" {
		field = "painPoints"
	}
	var req struct {
		Op    service.ArrayOp `json:"op" binding:"required"`
		Index int             `json:"index"`
		Value string          `json:"value"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	h.withDraft(c, func(draft *service.PersonaDraft) error {
		return draft.EditArray(field, req.Op, req.Index, req.Value)
	})
}

// AddDraftSection maneja POST /personas/draft/sections.
func (h *PersonaHandler) AddDraftSection(c *gin.Context) {
	h.withDraft(c, func(draft *service.PersonaDraft) error {
		draft.AddCustomSection()
		return nil
	})
}

// RemoveDraftSection maneja DELETE /personas/draft/sections/:index.
func (h *PersonaHandler) RemoveDraftSection(c *gin.Context) {
	index, ok := pathIndex(c, "index")
	if !ok {
		return
	}
	h.withDraft(c, func(draft *service.PersonaDraft) error {
		return draft.RemoveCustomSection(index)
	})
}

// EditDraftSectionTitle maneja PUT /personas/draft/sections/:index/title.
func (h *PersonaHandler) EditDraftSectionTitle(c *gin.Context) {
	index, ok := pathIndex(c, "index")
	if !ok {
		return
	}
	var req struct {
		Title string `json:"title"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	h.withDraft(c, func(draft *service.PersonaDraft) error {
		return draft.EditSectionTitle(index, req.Title)
	})
}

// EditDraftSectionItems maneja POST /personas/draft/sections/:index/items.
func (h *PersonaHandler) EditDraftSectionItems(c *gin.Context) {
	sectionIndex, ok := pathIndex(c, "index")
	if !ok {
		return
	}
	var req struct {
		Op    service.ArrayOp `json:"op" binding:"required"`
		Index int             `json:"index"`
		Value string          `json:"value"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	h.withDraft(c, func(draft *service.PersonaDraft) error {
		return draft.EditSectionItem(sectionIndex, req.Op, req.Index, req.Value)
	})
}

// SetDraftAvatar maneja PUT /personas/draft/avatar con multipart form.
func (h *PersonaHandler) SetDraftAvatar(c *gin.Context) {
	data, _, contentType, err := readUpload(c, "image", h.maxImageBytes)
	if err != nil {
		respondEditError(c, err)
		return
	}
	h.withDraft(c, func(draft *service.PersonaDraft) error {
		return draft.SetAvatar(data, contentType)
	})
}

// CommitDraft maneja POST /personas/draft/commit.
func (h *PersonaHandler) CommitDraft(c *gin.Context) {
	ws, claims, ok := workspaceFor(c, h.logger, h.manager)
	if !ok {
		return
	}
	draft, inProgress := ws.PersonaDraftInProgress()
	if !inProgress {
		c.JSON(http.StatusNotFound, gin.H{"error": "no active draft"})
		return
	}

	persona, err := h.personaServ.Commit(ws, draft)
	if err != nil {
		respondEditError(c, err)
		return
	}
	if err := h.drafts.Discard(c.Request.Context(), claims.UserID, personaDraftKind); err != nil {
		h.logger.Warn("discard persona draft failed", zap.Error(err))
	}
	c.JSON(http.StatusCreated, gin.H{"persona": persona})
}

// DiscardDraft maneja DELETE /personas/draft.
func (h *PersonaHandler) DiscardDraft(c *gin.Context) {
	ws, claims, ok := workspaceFor(c, h.logger, h.manager)
	if !ok {
		return
	}
	ws.DiscardPersonaDraft()
	if err := h.drafts.Discard(c.Request.Context(), claims.UserID, personaDraftKind); err != nil {
		h.logger.Warn("discard persona draft failed", zap.Error(err))
	}
	c.Status(http.StatusNoContent)
}

// withDraft aplica una edicion sobre el draft activo y espeja el estado
// resultante en el cache de reanudacion.
func (h *PersonaHandler) withDraft(c *gin.Context, edit func(*service.PersonaDraft) error) {
	ws, claims, ok := workspaceFor(c, h.logger, h.manager)
	if !ok {
		return
	}
	draft, inProgress := ws.PersonaDraftInProgress()
	if !inProgress {
		c.JSON(http.StatusNotFound, gin.H{"error": "no active draft"})
		return
	}
	if err := edit(draft); err != nil {
		respondEditError(c, err)
		return
	}

	snap := draft.Snapshot()
	if err := h.drafts.Save(c.Request.Context(), claims.UserID, personaDraftKind, snap); err != nil {
		h.logger.Warn("mirror persona draft failed", zap.Error(err))
	}
	c.JSON(http.StatusOK, gin.H{"draft": snap})
}

// pathIndex parsea un parametro de ruta numerico.
func pathIndex(c *gin.Context, name string) (int, bool) {
	index, err := strconv.Atoi(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid index"})
		return 0, false
	}
	return index, true
}
