package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eregistrar/eregistrar-api/internal/service"
	"github.com/eregistrar/eregistrar-api/pkg/response"
)

// ContentHandler serves the static onboarding and tutorial copy.
type ContentHandler struct {
	service *service.ContentService
}

// NewContentHandler creates a new handler.
func NewContentHandler(svc *service.ContentService) *ContentHandler {
	return &ContentHandler{service: svc}
}

// Onboarding godoc
// @Summary Onboarding slides
// @Description First-run walkthrough pages in display order
// @Tags Content
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /content/onboarding [get]
func (h *ContentHandler) Onboarding(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.OnboardingSlides(), nil, map[string]interface{}{
		"version": h.service.Version(),
	})
}

// Tutorial godoc
// @Summary Request tutorial steps
// @Description The in-app request walkthrough in display order
// @Tags Content
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /content/tutorial [get]
func (h *ContentHandler) Tutorial(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.TutorialSteps(), nil, map[string]interface{}{
		"version": h.service.Version(),
	})
}
