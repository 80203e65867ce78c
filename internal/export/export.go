// Package export renders reviewed submissions to spreadsheet formats
// for offline grading and record-keeping.
package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/GokalpAyar/amplify-lms-client/internal/review"
)

var headers = []string{
	"Assignment", "Student Name", "J-Number", "Submitted At", "Answers", "Grade",
}

type Service interface {
	ExportSubmissionsToCSV(ctx context.Context) ([]byte, error)
	ExportSubmissionsToExcel(ctx context.Context) ([]byte, error)
}

type exportService struct {
	review review.Service
	logger *slog.Logger
}

func NewService(reviewService review.Service, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &exportService{
		review: reviewService,
		logger: logger,
	}
}

func (s *exportService) ExportSubmissionsToCSV(ctx context.Context) ([]byte, error) {
	submissions, err := s.review.ListSubmissions(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}
	for _, sub := range submissions {
		if err := writer.Write(submissionRow(sub)); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}

	s.logger.Info("Exported submissions to CSV", "count", len(submissions))
	return buf.Bytes(), nil
}

func (s *exportService) ExportSubmissionsToExcel(ctx context.Context) ([]byte, error) {
	submissions, err := s.review.ListSubmissions(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheetName := "Submissions"

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	f.SetActiveSheet(index)

	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	for rowIndex, sub := range submissions {
		for colIndex, value := range submissionRow(sub) {
			cell := fmt.Sprintf("%c%d", 'A'+colIndex, rowIndex+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}

	s.logger.Info("Exported submissions to Excel", "count", len(submissions))
	return buf.Bytes(), nil
}

func submissionRow(sub review.Submission) []string {
	submittedAt := ""
	if sub.SubmittedAt != nil {
		submittedAt = sub.SubmittedAt.Format(time.RFC3339)
	}
	grade := ""
	if sub.Grade != nil {
		grade = strconv.FormatFloat(*sub.Grade, 'f', -1, 64)
	}

	return []string{
		sub.AssignmentTitle,
		sub.StudentName,
		sub.JNumber,
		submittedAt,
		strconv.Itoa(len(sub.Answers)),
		grade,
	}
}
