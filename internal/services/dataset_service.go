package services

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"etacli/internal/dataprocessing"
)

// Dataset is one parsed upload together with its resolved schema and filter
// facets. The table and field map are immutable after construction; any
// number of report requests may read them concurrently.
type Dataset struct {
	ID         string
	Name       string
	UploadedAt time.Time

	Table  dataprocessing.Table
	Fields dataprocessing.FieldMap
	Facets dataprocessing.Facets

	checksum string
}

// DatasetService parses uploads and memoizes the result by file content
// identity, so repeated filter changes against the same file never re-parse
// it. The store is bounded; the oldest dataset is evicted first.
type DatasetService struct {
	logger      *slog.Logger
	maxDatasets int

	mu         sync.RWMutex
	byID       map[string]*Dataset
	byChecksum map[string]*Dataset
	order      []string

	group singleflight.Group
}

// NewDatasetService creates a dataset service holding at most maxDatasets
// parsed datasets.
func NewDatasetService(logger *slog.Logger, maxDatasets int) *DatasetService {
	if logger == nil {
		logger = slog.Default()
	}
	if maxDatasets <= 0 {
		maxDatasets = 16
	}
	return &DatasetService{
		logger:      logger.With(slog.String("component", "dataset_service")),
		maxDatasets: maxDatasets,
		byID:        make(map[string]*Dataset),
		byChecksum:  make(map[string]*Dataset),
	}
}

// Upload parses a raw uploaded file into a dataset. Files whose content was
// already parsed return the existing dataset; concurrent uploads of the same
// content share a single parse.
func (s *DatasetService) Upload(ctx context.Context, filename string, data []byte) (*Dataset, error) {
	sum := sha256.Sum256(data)
	checksum := hex.EncodeToString(sum[:])

	v, err, _ := s.group.Do(checksum, func() (interface{}, error) {
		if ds := s.lookup(checksum); ds != nil {
			parseCacheHits.Inc()
			s.logger.InfoContext(ctx, "upload served from parse cache",
				slog.String("dataset_id", ds.ID),
				slog.String("filename", filename))
			return ds, nil
		}
		return s.parse(ctx, filename, data, checksum)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Dataset), nil
}

// Get returns a dataset by ID.
func (s *DatasetService) Get(id string) (*Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ds, ok := s.byID[id]
	if !ok {
		return nil, ErrDatasetNotFound
	}
	return ds, nil
}

func (s *DatasetService) lookup(checksum string) *Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.byChecksum[checksum]
}

func (s *DatasetService) parse(ctx context.Context, filename string, data []byte, checksum string) (*Dataset, error) {
	table, err := parseByExtension(filename, data)
	if err != nil {
		return nil, err
	}

	fields := dataprocessing.Resolve(table.Headers)
	ds := &Dataset{
		ID:         uuid.New().String(),
		Name:       filename,
		UploadedAt: time.Now(),
		Table:      table,
		Fields:     fields,
		Facets:     dataprocessing.ComputeFacets(table, fields),
		checksum:   checksum,
	}

	s.mu.Lock()
	s.byID[ds.ID] = ds
	s.byChecksum[checksum] = ds
	s.order = append(s.order, ds.ID)
	for len(s.order) > s.maxDatasets {
		oldest := s.order[0]
		s.order = s.order[1:]
		if old, ok := s.byID[oldest]; ok {
			delete(s.byID, oldest)
			delete(s.byChecksum, old.checksum)
		}
	}
	s.mu.Unlock()

	datasetsParsed.Inc()
	s.logger.InfoContext(ctx, "dataset parsed",
		slog.String("dataset_id", ds.ID),
		slog.String("filename", filename),
		slog.Int("rows", len(table.Rows)),
		slog.Int("columns", len(table.Headers)),
		slog.Int("unresolved_fields", len(fields.Unresolved())))

	return ds, nil
}

func parseByExtension(filename string, data []byte) (dataprocessing.Table, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		return dataprocessing.ParseXLSX(data)
	case ".csv", "", ".txt":
		return dataprocessing.ParseCSV(bytes.NewReader(data))
	default:
		return dataprocessing.Table{}, fmt.Errorf("%w: %s", ErrUnsupportedFile, filepath.Ext(filename))
	}
}
