package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eregistrar/eregistrar-api/internal/dto"
	"github.com/eregistrar/eregistrar-api/internal/service"
	appErrors "github.com/eregistrar/eregistrar-api/pkg/errors"
	"github.com/eregistrar/eregistrar-api/pkg/response"
)

// JournalHandler wires HTTP endpoints to the travel-journal service.
type JournalHandler struct {
	service *service.JournalService
}

// NewJournalHandler creates a new handler.
func NewJournalHandler(svc *service.JournalService) *JournalHandler {
	return &JournalHandler{service: svc}
}

// List godoc
// @Summary List my journal entries
// @Tags Journal
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /journal [get]
func (h *JournalHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	entries, err := h.service.List(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}

// Create godoc
// @Summary Add a journal entry
// @Tags Journal
// @Accept json
// @Produce json
// @Param payload body dto.CreateJournalRequest true "Entry payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /journal [post]
func (h *JournalHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.CreateJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid journal payload"))
		return
	}

	entry, err := h.service.Create(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, entry)
}

// Delete godoc
// @Summary Delete a journal entry
// @Tags Journal
// @Produce json
// @Param id path string true "Entry ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /journal/{id} [delete]
func (h *JournalHandler) Delete(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.service.Delete(c.Request.Context(), c.Param("id"), claims.UserID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
