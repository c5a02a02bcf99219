package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/eregistrar/eregistrar-api/internal/models"
	appErrors "github.com/eregistrar/eregistrar-api/pkg/errors"
	"github.com/eregistrar/eregistrar-api/pkg/export"
)

type slipRenderer interface {
	Render(slip export.Slip) ([]byte, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

// ExportService renders claim slips and request-history exports for the
// bound identity's request collection.
type ExportService struct {
	slips  slipRenderer
	csv    csvRenderer
	logger *zap.Logger
}

// NewExportService constructs an ExportService instance.
func NewExportService(slips slipRenderer, csv csvRenderer, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if slips == nil {
		slips = export.NewSlipExporter()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	return &ExportService{slips: slips, csv: csv, logger: logger}
}

// ClaimSlip renders a printable claim stub for one request. Only requests
// that are ready for pickup or already completed have a slip.
func (s *ExportService) ClaimSlip(ctx context.Context, engine *RequestEngine, requestID string) ([]byte, error) {
	item, err := engine.Get(requestID)
	if err != nil {
		return nil, err
	}
	if item.Status != models.StatusToReceive && item.Status != models.StatusCompleted {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "request has no claim slip yet")
	}

	slip := export.Slip{
		Title:    "Document Claim Slip",
		Subtitle: "Office of the Registrar",
		Fields: []export.SlipField{
			{Label: "Reference No.", Value: item.ID},
			{Label: "Name", Value: fmt.Sprintf("%s %s", item.FirstName, item.LastName)},
			{Label: "Student ID", Value: item.StudentID},
			{Label: "Document", Value: item.Document},
			{Label: "Status", Value: string(item.Status)},
			{Label: "Pickup Date", Value: item.Date},
		},
		Footnote: "Present this slip together with a valid school ID when claiming your document at the registrar window.",
	}

	rendered, err := s.slips.Render(slip)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render claim slip")
	}

	s.logger.Info("claim slip rendered",
		zap.String("request_id", item.ID),
		zap.String("status", string(item.Status)))
	return rendered, nil
}

// History renders the identity's full request collection as a CSV export.
func (s *ExportService) History(ctx context.Context, engine *RequestEngine) ([]byte, error) {
	items := engine.Snapshot()

	headers := []string{"Reference No.", "Name", "Student ID", "Document", "Status", "Pickup Date", "Requested At"}
	rows := make([]map[string]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, map[string]string{
			"Reference No.": item.ID,
			"Name":          fmt.Sprintf("%s %s", item.FirstName, item.LastName),
			"Student ID":    item.StudentID,
			"Document":      item.Document,
			"Status":        string(item.Status),
			"Pickup Date":   item.Date,
			"Requested At":  item.CreatedAt.Format(time.RFC3339),
		})
	}

	rendered, err := s.csv.Render(export.Dataset{Headers: headers, Rows: rows})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render history export")
	}
	return rendered, nil
}
