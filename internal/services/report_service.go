package services

import (
	"context"
	"errors"
	"log/slog"

	"etacli/internal/dataprocessing"
	apperrors "etacli/internal/errors"
)

// Report is the result of one (dataset, criteria) invocation: the final
// projected table, its summary statistics, and the diagnostics the host
// surfaces to the user verbatim.
type Report struct {
	Table       dataprocessing.Table        `json:"table"`
	Stats       dataprocessing.SummaryStats `json:"stats"`
	Diagnostics dataprocessing.Diagnostics  `json:"diagnostics"`
	// FilteredRows counts prediction rows after filtering, before
	// deduplication collapsed them to shipment level.
	FilteredRows int `json:"filtered_rows"`
}

// ReportService runs the full report pipeline: filter, deduplicate, project,
// summarize. Every invocation recomputes from the memoized parse; no derived
// state is shared between requests.
type ReportService struct {
	datasets *DatasetService
	logger   *slog.Logger
}

// NewReportService creates a report service over the given dataset store.
func NewReportService(datasets *DatasetService, logger *slog.Logger) *ReportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportService{
		datasets: datasets,
		logger:   logger.With(slog.String("component", "report_service")),
	}
}

// Generate builds the shipment-level report for a dataset under the given
// filter criteria.
func (s *ReportService) Generate(ctx context.Context, datasetID string, criteria dataprocessing.FilterCriteria) (*Report, error) {
	ds, err := s.datasets.Get(datasetID)
	if err != nil {
		return nil, err
	}

	filtered := dataprocessing.ApplyFilter(ds.Table, ds.Fields, criteria)
	deduped, dropped, applied := dataprocessing.Deduplicate(filtered, ds.Fields)
	if dropped > 0 {
		rowsDroppedMissingID.Add(float64(dropped))
	}

	projected, omitted, err := dataprocessing.Project(deduped, ds.Fields, criteria.Buckets)
	if err != nil {
		if errors.Is(err, dataprocessing.ErrEmptyProjection) {
			return nil, apperrors.NewEmptyProjectionError(err).
				WithContext("dataset_id", datasetID)
		}
		return nil, err
	}

	report := &Report{
		Table: projected,
		Stats: dataprocessing.Summarize(projected, ds.Fields),
		Diagnostics: dataprocessing.Diagnostics{
			Unresolved:       ds.Fields.Unresolved(),
			DedupApplied:     applied,
			DroppedMissingID: dropped,
			OmittedColumns:   omitted,
		},
		FilteredRows: len(filtered.Rows),
	}

	reportsGenerated.Inc()
	s.logger.InfoContext(ctx, "report generated",
		slog.String("dataset_id", datasetID),
		slog.Int("filtered_rows", report.FilteredRows),
		slog.Int("shipment_rows", len(projected.Rows)),
		slog.Int("dropped_missing_id", dropped),
		slog.Bool("dedup_applied", applied))

	return report, nil
}
