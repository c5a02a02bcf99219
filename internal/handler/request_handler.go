package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eregistrar/eregistrar-api/internal/dto"
	"github.com/eregistrar/eregistrar-api/internal/models"
	"github.com/eregistrar/eregistrar-api/internal/service"
	appErrors "github.com/eregistrar/eregistrar-api/pkg/errors"
	"github.com/eregistrar/eregistrar-api/pkg/response"
)

// RequestHandler wires HTTP endpoints to the per-identity request engine.
type RequestHandler struct {
	binding *service.BindingService
	export  *service.ExportService
}

// NewRequestHandler creates a new handler.
func NewRequestHandler(binding *service.BindingService, export *service.ExportService) *RequestHandler {
	return &RequestHandler{binding: binding, export: export}
}

func (h *RequestHandler) engine(c *gin.Context) (*service.RequestEngine, bool) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrNoIdentity)
		return nil, false
	}
	engine, err := h.binding.Engine(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return nil, false
	}
	return engine, true
}

// List godoc
// @Summary List document requests
// @Description List the caller's requests for one status tab
// @Tags Requests
// @Produce json
// @Param tab query string false "Tab name: Processing, To Receive or Completed"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /requests [get]
func (h *RequestHandler) List(c *gin.Context) {
	engine, ok := h.engine(c)
	if !ok {
		return
	}

	tab, ok := models.ParseTab(c.Query("tab"))
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown tab %q", c.Query("tab"))))
		return
	}

	items := engine.List(tab)
	response.JSON(c, http.StatusOK, items, nil, map[string]interface{}{
		"tab":   string(tab),
		"total": len(engine.Snapshot()),
	})
}

// Get godoc
// @Summary Get one document request
// @Tags Requests
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /requests/{id} [get]
func (h *RequestHandler) Get(c *gin.Context) {
	engine, ok := h.engine(c)
	if !ok {
		return
	}

	item, err := engine.Get(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Create godoc
// @Summary Submit a document request
// @Description Create a new request; it starts in Processing
// @Tags Requests
// @Accept json
// @Produce json
// @Param payload body dto.RequestFields true "Request payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /requests [post]
func (h *RequestHandler) Create(c *gin.Context) {
	engine, ok := h.engine(c)
	if !ok {
		return
	}

	var fields dto.RequestFields
	if err := c.ShouldBindJSON(&fields); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid request payload"))
		return
	}

	item, err := engine.Create(c.Request.Context(), fields)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// Update godoc
// @Summary Edit a document request
// @Description Edit a request still in Processing; id and status are preserved
// @Tags Requests
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Param payload body dto.RequestFields true "Request payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /requests/{id} [put]
func (h *RequestHandler) Update(c *gin.Context) {
	engine, ok := h.engine(c)
	if !ok {
		return
	}

	var fields dto.RequestFields
	if err := c.ShouldBindJSON(&fields); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid request payload"))
		return
	}

	item, err := engine.Edit(c.Request.Context(), c.Param("id"), fields)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Delete godoc
// @Summary Delete a document request
// @Description Delete a request still in Processing
// @Tags Requests
// @Produce json
// @Param id path string true "Request ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /requests/{id} [delete]
func (h *RequestHandler) Delete(c *gin.Context) {
	engine, ok := h.engine(c)
	if !ok {
		return
	}

	if err := engine.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Claim godoc
// @Summary Claim a ready document
// @Description Mark a To Receive request as Completed after pickup
// @Tags Requests
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /requests/{id}/claim [post]
func (h *RequestHandler) Claim(c *gin.Context) {
	engine, ok := h.engine(c)
	if !ok {
		return
	}

	item, err := engine.Claim(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// ClaimSlip godoc
// @Summary Download a claim slip
// @Description Render the printable claim stub for a ready or completed request
// @Tags Requests
// @Produce application/pdf
// @Param id path string true "Request ID"
// @Success 200 {file} binary
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /requests/{id}/slip [get]
func (h *RequestHandler) ClaimSlip(c *gin.Context) {
	engine, ok := h.engine(c)
	if !ok {
		return
	}

	rendered, err := h.export.ClaimSlip(c.Request.Context(), engine, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=claim-slip-%s.pdf", c.Param("id")))
	c.Data(http.StatusOK, "application/pdf", rendered)
}

// ExportHistory godoc
// @Summary Export request history
// @Description Download the caller's full request collection as CSV
// @Tags Requests
// @Produce text/csv
// @Success 200 {file} binary
// @Failure 401 {object} response.Envelope
// @Router /requests/export [get]
func (h *RequestHandler) ExportHistory(c *gin.Context) {
	engine, ok := h.engine(c)
	if !ok {
		return
	}

	rendered, err := h.export.History(c.Request.Context(), engine)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=request-history.csv")
	c.Data(http.StatusOK, "text/csv", rendered)
}
