package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"journeymap/internal/domain"
	"journeymap/internal/service"
)

// workspaceFor resuelve el workspace de la sesion autenticada. Si el
// proceso se reinicio despues del login, se reabre desde persistencia.
func workspaceFor(c *gin.Context, logger *zap.Logger, manager *service.WorkspaceManager) (*service.Workspace, service.Claims, bool) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return nil, service.Claims{}, false
	}
	ws, ok := manager.Get(claims.UserID)
	if !ok {
		var err error
		ws, err = manager.Open(c.Request.Context(), claims.UserID)
		if err != nil {
			logger.Error("open workspace failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not open workspace"})
			return nil, service.Claims{}, false
		}
	}
	return ws, claims, true
}

// respondEditError traduce los errores del modelo a status HTTP.
func respondEditError(c *gin.Context, err error) {
	var vErr *domain.ValidationError
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation failed", "fields": vErr.Fields})
	case errors.Is(err, domain.ErrIndexOutOfRange),
		errors.Is(err, domain.ErrMinimumSize),
		errors.Is(err, domain.ErrUnknownField):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, domain.ErrPayloadTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image too large"})
	case errors.Is(err, domain.ErrDuplicateID), errors.Is(err, service.ErrDraftCommitted):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// readUpload lee el archivo del form multipart bajo la clave "image".
func readUpload(c *gin.Context, key string, limit int64) ([]byte, string, string, error) {
	fh, err := c.FormFile(key)
	if err != nil {
		return nil, "", "", err
	}
	if limit > 0 && fh.Size > limit {
		return nil, "", "", domain.ErrPayloadTooLarge
	}
	f, err := fh.Open()
	if err != nil {
		return nil, "", "", err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, "", "", err
	}
	return data, fh.Filename, fh.Header.Get("Content-Type"), nil
}
