package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eregistrar/eregistrar-api/internal/dto"
	"github.com/eregistrar/eregistrar-api/internal/models"
	"github.com/eregistrar/eregistrar-api/internal/service"
	appErrors "github.com/eregistrar/eregistrar-api/pkg/errors"
	"github.com/eregistrar/eregistrar-api/pkg/response"
)

// ProfileHandler wires HTTP endpoints to the profile service.
type ProfileHandler struct {
	service *service.ProfileService
}

// NewProfileHandler creates a new handler.
func NewProfileHandler(svc *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{service: svc}
}

// Get godoc
// @Summary Get my profile
// @Description Return the caller's profile document
// @Tags Profile
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /profile [get]
func (h *ProfileHandler) Get(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	profile, err := h.service.Get(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, profile, nil)
}

// SaveSection godoc
// @Summary Save one profile section
// @Description Merge-write the profile or school sub-document
// @Tags Profile
// @Accept json
// @Produce json
// @Param payload body dto.SaveSectionRequest true "Tagged section payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /profile/sections [put]
func (h *ProfileHandler) SaveSection(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.SaveSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid section payload"))
		return
	}

	profile, err := h.service.SaveSection(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, profile, nil)
}

// DeleteSection godoc
// @Summary Clear one profile section
// @Description Remove the profile or school sub-document, leaving the other intact
// @Tags Profile
// @Produce json
// @Param section path string true "Section name: profile or school"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /profile/sections/{section} [delete]
func (h *ProfileHandler) DeleteSection(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	profile, err := h.service.DeleteSection(c.Request.Context(), claims.UserID, models.ProfileSection(c.Param("section")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, profile, nil)
}

// UpdateUsername godoc
// @Summary Rename my profile
// @Tags Profile
// @Accept json
// @Produce json
// @Param payload body dto.UpdateUsernameRequest true "New username"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /profile/username [put]
func (h *ProfileHandler) UpdateUsername(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.UpdateUsernameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid username payload"))
		return
	}

	profile, err := h.service.UpdateUsername(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, profile, nil)
}

// SetAvatar godoc
// @Summary Set my avatar
// @Description Point the profile at an uploaded media item
// @Tags Profile
// @Accept json
// @Produce json
// @Param payload body map[string]string true "Media ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /profile/avatar [put]
func (h *ProfileHandler) SetAvatar(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var payload struct {
		MediaID string `json:"media_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "media id required"))
		return
	}

	profile, err := h.service.SetAvatar(c.Request.Context(), claims.UserID, payload.MediaID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, profile, nil)
}
