package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"procurement-system/internal/repositories"
	apperrors "procurement-system/pkg/errors"
)

type ReportServiceInterface interface {
	// ApprovalsExcel renders the approvals report for the given period as
	// an xlsx workbook.
	ApprovalsExcel(ctx context.Context, from, to time.Time, status string) (*bytes.Buffer, error)
}

type ReportService struct {
	reportRepo repositories.ReportRepositoryInterface
	logger     *zap.Logger
}

func NewReportService(reportRepo repositories.ReportRepositoryInterface, logger *zap.Logger) *ReportService {
	return &ReportService{reportRepo: reportRepo, logger: logger}
}

var reportHeader = []string{"Type", "ID", "Number", "Description", "Amount", "Status", "Creator", "Signatures", "Created"}

func (s *ReportService) ApprovalsExcel(ctx context.Context, from, to time.Time, status string) (*bytes.Buffer, error) {
	if !to.After(from) {
		return nil, apperrors.NewInvalidInputError("report period end must be after its start")
	}

	rows, err := s.reportRepo.ApprovalRows(ctx, from, to, status)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Approvals"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create report sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#DDEBF7"}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for col, title := range reportHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return nil, fmt.Errorf("failed to write report header: %w", err)
		}
	}
	if err := f.SetRowStyle(sheet, 1, 1, headerStyle); err != nil {
		return nil, fmt.Errorf("failed to style report header: %w", err)
	}

	for i, row := range rows {
		values := []interface{}{
			row.EntityType,
			row.EntityID,
			row.Number,
			row.Description,
			row.Amount,
			row.Status,
			row.CreatorID,
			row.SignedCount,
			row.CreatedAt.Format("2006-01-02 15:04"),
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, fmt.Errorf("failed to write report row: %w", err)
			}
		}
	}

	if err := f.SetColWidth(sheet, "A", "I", 18); err != nil {
		return nil, fmt.Errorf("failed to size report columns: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize report: %w", err)
	}

	s.logger.Info("approvals report generated",
		zap.Time("from", from),
		zap.Time("to", to),
		zap.Int("rows", len(rows)))
	return buf, nil
}
