package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"journeymap/internal/domain"
	"journeymap/internal/service"
)

// ProfileHandler mantiene dependencias para el perfil del usuario.
type ProfileHandler struct {
	logger        *zap.Logger
	userServ      *service.UserService
	maxImageBytes int64
}

// NewProfileHandler crea una instancia de ProfileHandler con dependencias necesarias.
func NewProfileHandler(logger *zap.Logger, userServ *service.UserService, maxImageBytes int64) *ProfileHandler {
	return &ProfileHandler{
		logger:        logger,
		userServ:      userServ,
		maxImageBytes: maxImageBytes,
	}
}

// UpdateProfile maneja PUT /profile con multipart form: display_name y,
// opcionalmente, una foto que va al object store.
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	displayName := c.PostForm("display_name")

	var photo []byte
	var photoName, contentType string
	if _, err := c.FormFile("photo"); err == nil {
		photo, photoName, contentType, err = readUpload(c, "photo", h.maxImageBytes)
		if err != nil {
			respondEditError(c, err)
			return
		}
	}

	user, err := h.userServ.UpdateProfile(c.Request.Context(), claims.UserID, displayName, photo, photoName, contentType)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		case errors.Is(err, domain.ErrPayloadTooLarge):
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image too large"})
		default:
			h.logger.Error("update profile failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update profile"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}
