package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/batch-timetable/internal/models"
	appErrors "github.com/noah-isme/batch-timetable/pkg/errors"
	"github.com/noah-isme/batch-timetable/pkg/export"
)

type runReader interface {
	GetRun(ctx context.Context, runID string) (*models.RunSummary, error)
}

// ExportResult is a rendered report ready to be served as a download.
type ExportResult struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ExportService renders run summaries as downloadable reports.
type ExportService struct {
	runs   runReader
	logger *zap.Logger
	now    func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(runs runReader, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{runs: runs, logger: logger, now: time.Now}
}

// RunReport renders the unplaceable classes of a run with the run's counts and
// advisories as notes.
func (s *ExportService) RunReport(ctx context.Context, runID, rawFormat string) (*ExportResult, error) {
	format, err := export.ParseFormat(strings.ToLower(strings.TrimSpace(rawFormat)))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	summary, err := s.runs.GetRun(ctx, runID)
	if err != nil {
		return nil, err
	}
	if summary.State != models.RunStateDone && summary.State != models.RunStateFailed {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, fmt.Sprintf("run %s is still %s", runID, summary.State))
	}

	body, err := export.RendererFor(format).Render(runReportTable(summary))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render run report")
	}
	s.logger.Info("run report rendered",
		zap.String("run_id", runID),
		zap.String("format", string(format)),
		zap.Int("bytes", len(body)),
	)
	return &ExportResult{
		Filename:    s.buildFilename(summary, format),
		ContentType: format.ContentType(),
		Body:        body,
	}, nil
}

func runReportTable(summary *models.RunSummary) export.Table {
	scope := summary.Scope
	if summary.BatchID != nil {
		scope = fmt.Sprintf("%s %s", scope, *summary.BatchID)
	}
	notes := []string{
		fmt.Sprintf("Run %s (%s), state %s, seed %d", summary.RunID, scope, summary.State, summary.Seed),
		fmt.Sprintf("Requested %d, placed %d, unplaceable %d, cleared %d",
			summary.RequestedCount, summary.PlacedCount, summary.UnplaceableCount, summary.ClearedCount),
	}
	if summary.Error != "" {
		notes = append(notes, "Error: "+summary.Error)
	}
	for _, adv := range summary.Advisories {
		notes = append(notes, describeAdvisory(adv))
	}

	table := export.Table{
		Title:   "Unplaceable classes",
		Notes:   notes,
		Headers: []string{"#", "Batch", "Subject", "Subject name", "Reason"},
		Rows:    make([][]string, 0, len(summary.Unplaceable)),
	}
	for i, item := range summary.Unplaceable {
		table.Rows = append(table.Rows, []string{
			strconv.Itoa(i + 1),
			item.BatchID,
			item.SubjectID,
			item.SubjectName,
			string(item.Reason),
		})
	}
	return table
}

func describeAdvisory(adv models.Advisory) string {
	switch adv.Type {
	case models.AdvisoryTeacherWeeklyLoad:
		return fmt.Sprintf("Advisory: teacher %s has %d classes a week, limit %d", adv.TeacherID, adv.Actual, adv.Limit)
	case models.AdvisorySubjectDailyLimit:
		return fmt.Sprintf("Advisory: batch %s has %d %s classes on %s, limit %d",
			adv.BatchID, adv.Actual, adv.SubjectID, adv.DayOfWeek, adv.Limit)
	}
	return fmt.Sprintf("Advisory: %s (%d > %d)", adv.Type, adv.Actual, adv.Limit)
}

func (s *ExportService) buildFilename(summary *models.RunSummary, format export.Format) string {
	timestamp := s.now().UTC().Format("20060102_150405")
	scopePart := summary.Scope
	if summary.BatchID != nil {
		scopePart = sanitizeFilename(*summary.BatchID)
	}
	return fmt.Sprintf("run_%s_%s_%s.%s", scopePart, sanitizeFilename(shortID(summary.RunID)), timestamp, format)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "__", "_")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}
