package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eregistrar/eregistrar-api/internal/service"
	appErrors "github.com/eregistrar/eregistrar-api/pkg/errors"
	"github.com/eregistrar/eregistrar-api/pkg/response"
)

// MediaHandler wires HTTP endpoints to the media service.
type MediaHandler struct {
	service *service.MediaService
}

// NewMediaHandler creates a new handler.
func NewMediaHandler(svc *service.MediaService) *MediaHandler {
	return &MediaHandler{service: svc}
}

// Upload godoc
// @Summary Upload an image
// @Description Upload an image; type and size are validated before anything is stored
// @Tags Media
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Image file"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 415 {object} response.Envelope
// @Router /media [post]
func (h *MediaHandler) Upload(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "file field is required"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read upload"))
		return
	}
	defer file.Close() //nolint:errcheck

	mimeType := fileHeader.Header.Get("Content-Type")
	item, err := h.service.Upload(c.Request.Context(), claims.UserID, fileHeader.Filename, mimeType, fileHeader.Size, file)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// SignDownload godoc
// @Summary Get a signed download link
// @Description Issue a short-lived signed token for a media item the caller owns
// @Tags Media
// @Produce json
// @Param id path string true "Media ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /media/{id}/sign [get]
func (h *MediaHandler) SignDownload(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	signed, err := h.service.SignDownload(c.Request.Context(), claims.UserID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, signed, nil)
}

// Download godoc
// @Summary Download by signed token
// @Description Stream the file referenced by a valid signed token
// @Tags Media
// @Produce octet-stream
// @Param token query string true "Signed token"
// @Success 200 {file} binary
// @Failure 401 {object} response.Envelope
// @Router /media/download [get]
func (h *MediaHandler) Download(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token query parameter is required"))
		return
	}

	item, file, err := h.service.OpenSigned(c.Request.Context(), token)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close() //nolint:errcheck

	c.Header("Content-Disposition", "inline; filename="+item.Filename)
	c.DataFromReader(http.StatusOK, item.SizeBytes, item.MimeType, file, nil)
}

// Delete godoc
// @Summary Delete a media item
// @Tags Media
// @Produce json
// @Param id path string true "Media ID"
// @Success 204 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /media/{id} [delete]
func (h *MediaHandler) Delete(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.service.Delete(c.Request.Context(), claims.UserID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
