// Command shipmentcsv filters a shipment prediction export from the command
// line: it reads one CSV or XLSX file, applies stop-number and lane filters,
// collapses to one row per bill of lading, and writes the projected CSV.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"etacli/internal/dataprocessing"
	"etacli/internal/exporter"
	"etacli/internal/validation"
)

func main() {
	in := flag.String("in", "", "input file (csv or xlsx)")
	out := flag.String("out", "eta_shipment_level_filtered.csv", "output csv file path")
	stop := flag.String("stop", "", "stop number selection: a single value (\"2\") or an inclusive range (\"1-3\")")
	lanes := flag.String("lanes", "", "comma-separated lane values to keep (default: all lanes)")
	buckets := flag.String("buckets", "", "comma-separated accuracy bucket minutes to show (default: all available)")
	flag.Parse()

	if *in == "" {
		fmt.Fprintln(os.Stderr, "usage: shipmentcsv -in predictions.csv [-out filtered.csv] [-stop 1-3] [-lanes LANE1,LANE2] [-buckets 30,60]")
		os.Exit(2)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	table, err := parseFile(logger, *in)
	if err != nil {
		logger.Error("failed to parse input", "file", *in, "error", err)
		os.Exit(1)
	}

	fields := dataprocessing.Resolve(table.Headers)
	facets := dataprocessing.ComputeFacets(table, fields)
	for _, f := range fields.Unresolved() {
		logger.Warn("column not found, feature disabled", "field", string(f))
	}

	criteria, err := buildCriteria(*stop, *lanes, *buckets, facets)
	if err != nil {
		logger.Error("invalid filter selection", "error", err)
		os.Exit(2)
	}

	filtered := dataprocessing.ApplyFilter(table, fields, criteria)
	deduped, dropped, applied := dataprocessing.Deduplicate(filtered, fields)
	if !applied {
		logger.Warn("shipment identifier column not found, duplicate rows may remain")
	}
	if dropped > 0 {
		logger.Warn("rows without a shipment identifier were dropped", "count", dropped)
	}

	projected, omitted, err := dataprocessing.Project(deduped, fields, criteria.Buckets)
	if err != nil {
		logger.Error("nothing to export", "error", err)
		os.Exit(1)
	}
	for _, f := range omitted {
		logger.Info("column omitted from output", "field", string(f))
	}

	stats := dataprocessing.Summarize(projected, fields)

	f, err := os.Create(*out)
	if err != nil {
		logger.Error("failed to create output file", "file", *out, "error", err)
		os.Exit(1)
	}
	defer f.Close()

	if err := exporter.WriteTable(f, projected, exporter.WriteOptions{BOMPrefix: true}); err != nil {
		logger.Error("failed to write output", "file", *out, "error", err)
		os.Exit(1)
	}

	fmt.Printf("Shipments (unique BOL): %d\n", stats.Shipments)
	if stats.PingCoverageAvailable {
		fmt.Printf("Avg ping coverage:      %.2f\n", stats.PingCoverageMean)
	} else {
		fmt.Println("Avg ping coverage:      unavailable")
	}
	if stats.TotalPredictionsAvailable {
		fmt.Printf("Total predictions:      %.0f\n", stats.TotalPredictions)
	} else {
		fmt.Println("Total predictions:      unavailable")
	}
	fmt.Printf("Prediction rows kept:   %d\n", len(filtered.Rows))
	fmt.Printf("Wrote %s (%d rows, %d columns)\n", *out, len(projected.Rows), len(projected.Headers))
}

func parseFile(logger *slog.Logger, path string) (dataprocessing.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return dataprocessing.Table{}, err
	}
	if err := validation.NewUploadValidator(logger, 0).Validate(filepath.Base(path), data); err != nil {
		return dataprocessing.Table{}, err
	}
	if ext := strings.ToLower(filepath.Ext(path)); ext == ".xlsx" || ext == ".xlsm" {
		return dataprocessing.ParseXLSX(data)
	}
	return dataprocessing.ParseCSV(strings.NewReader(string(data)))
}

func buildCriteria(stop, lanes, buckets string, facets dataprocessing.Facets) (dataprocessing.FilterCriteria, error) {
	criteria := dataprocessing.FilterCriteria{StopMode: dataprocessing.StopNone}

	if stop != "" {
		if lo, hi, ok := strings.Cut(stop, "-"); ok {
			low, err := strconv.ParseFloat(lo, 64)
			if err != nil {
				return criteria, fmt.Errorf("bad range lower bound %q", lo)
			}
			high, err := strconv.ParseFloat(hi, 64)
			if err != nil {
				return criteria, fmt.Errorf("bad range upper bound %q", hi)
			}
			if high < low {
				return criteria, fmt.Errorf("range upper bound %v below lower bound %v", high, low)
			}
			criteria.StopMode = dataprocessing.StopRange
			criteria.Low, criteria.High = low, high
		} else {
			value, err := strconv.ParseFloat(stop, 64)
			if err != nil {
				return criteria, fmt.Errorf("bad stop number %q", stop)
			}
			criteria.StopMode = dataprocessing.StopExact
			criteria.Value = value
		}
	}

	if lanes != "" {
		for _, lane := range strings.Split(lanes, ",") {
			criteria.Lanes = append(criteria.Lanes, strings.TrimSpace(lane))
		}
	}

	if buckets == "" {
		criteria.Buckets = facets.Buckets
	} else {
		for _, b := range strings.Split(buckets, ",") {
			mins, err := strconv.Atoi(strings.TrimSpace(b))
			if err != nil {
				return criteria, fmt.Errorf("bad bucket %q", b)
			}
			criteria.Buckets = append(criteria.Buckets, mins)
		}
	}

	return criteria, nil
}
