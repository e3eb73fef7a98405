package http

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"etacli/internal/dataprocessing"
	apierrors "etacli/internal/errors"
	"etacli/internal/exporter"
	"etacli/internal/services"
	"etacli/internal/validation"
)

// DatasetHandler handles dataset upload and report requests.
type DatasetHandler struct {
	datasets       *services.DatasetService
	reports        *services.ReportService
	logger         *slog.Logger
	errorHandler   *apierrors.ErrorHandler
	validate       *validator.Validate
	uploads        *validation.UploadValidator
	maxUploadBytes int64
}

// NewDatasetHandler creates a new dataset handler.
func NewDatasetHandler(datasets *services.DatasetService, reports *services.ReportService, logger *slog.Logger, errorHandler *apierrors.ErrorHandler, maxUploadBytes int64) *DatasetHandler {
	return &DatasetHandler{
		datasets:       datasets,
		reports:        reports,
		logger:         logger.With(slog.String("handler", "dataset")),
		errorHandler:   errorHandler,
		validate:       validator.New(),
		uploads:        validation.NewUploadValidator(logger, maxUploadBytes),
		maxUploadBytes: maxUploadBytes,
	}
}

// Routes returns the dataset routes.
func (h *DatasetHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Post("/", h.Upload)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/facets", h.GetFacets)
		r.Post("/report", h.GenerateReport)
		r.Post("/report.csv", h.DownloadReport)
	})
	return r
}

// Upload handles POST /api/datasets: a multipart upload of one CSV or XLSX
// file under the "file" form field.
func (h *DatasetHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.errorHandler.HandleError(w, r, apierrors.ErrPayloadTooLarge)
			return
		}
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("file", "A file upload is required"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.errorHandler.HandleError(w, r, apierrors.ErrPayloadTooLarge)
			return
		}
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	if err := h.uploads.Validate(header.Filename, data); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("file", err.Error()))
		return
	}

	ds, err := h.datasets.Upload(r.Context(), header.Filename, data)
	if err != nil {
		if errors.Is(err, services.ErrUnsupportedFile) {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("file", err.Error()))
			return
		}
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data": map[string]interface{}{
			"dataset_id":        ds.ID,
			"filename":          ds.Name,
			"rows":              len(ds.Table.Rows),
			"facets":            ds.Facets,
			"unresolved_fields": ds.Fields.Unresolved(),
		},
	})
}

// GetFacets handles GET /api/datasets/{id}/facets.
func (h *DatasetHandler) GetFacets(w http.ResponseWriter, r *http.Request) {
	ds, ok := h.dataset(w, r)
	if !ok {
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   ds.Facets,
	})
}

// GenerateReport handles POST /api/datasets/{id}/report.
func (h *DatasetHandler) GenerateReport(w http.ResponseWriter, r *http.Request) {
	report, ok := h.generate(w, r)
	if !ok {
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   report,
	})
}

// DownloadReport handles POST /api/datasets/{id}/report.csv, streaming the
// projected table as a CSV attachment.
func (h *DatasetHandler) DownloadReport(w http.ResponseWriter, r *http.Request) {
	report, ok := h.generate(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="eta_shipment_level_filtered.csv"`)

	if err := exporter.WriteTable(w, report.Table, exporter.WriteOptions{BOMPrefix: true}); err != nil {
		// headers are already written; log instead of re-rendering
		h.logger.ErrorContext(r.Context(), "failed to stream report CSV",
			slog.String("error", err.Error()))
	}
}

// generate parses the criteria payload, validates it, and runs the report
// pipeline. It writes the error response itself when ok is false.
func (h *DatasetHandler) generate(w http.ResponseWriter, r *http.Request) (*services.Report, bool) {
	id := chi.URLParam(r, "id")

	var criteria dataprocessing.FilterCriteria
	if err := render.DecodeJSON(r.Body, &criteria); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return nil, false
	}
	if criteria.StopMode == "" {
		criteria.StopMode = dataprocessing.StopNone
	}

	if err := h.validate.Struct(criteria); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
			http.StatusBadRequest,
			"VALIDATION_FAILED",
			"Invalid filter criteria",
			err.Error(),
		))
		return nil, false
	}
	if criteria.StopMode == dataprocessing.StopRange && criteria.High < criteria.Low {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("high", "Range upper bound must not be below the lower bound"))
		return nil, false
	}

	report, err := h.reports.Generate(r.Context(), id, criteria)
	if err != nil {
		if errors.Is(err, services.ErrDatasetNotFound) {
			h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
				http.StatusNotFound,
				"DATASET_NOT_FOUND",
				fmt.Sprintf("Dataset '%s' not found", id),
				map[string]interface{}{"dataset_id": id},
			))
			return nil, false
		}
		h.errorHandler.HandleError(w, r, err)
		return nil, false
	}
	return report, true
}

// dataset resolves the {id} URL parameter to a stored dataset, writing the
// error response itself when ok is false.
func (h *DatasetHandler) dataset(w http.ResponseWriter, r *http.Request) (*services.Dataset, bool) {
	id := chi.URLParam(r, "id")
	ds, err := h.datasets.Get(id)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
			http.StatusNotFound,
			"DATASET_NOT_FOUND",
			fmt.Sprintf("Dataset '%s' not found", id),
			map[string]interface{}{"dataset_id": id},
		))
		return nil, false
	}
	return ds, true
}
