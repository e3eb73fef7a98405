// Package dataprocessing implements the shipment-level ETA accuracy report
// engine.
//
// The package contains the full report pipeline as pure, in-memory
// transformations over immutable tables:
//
// Resolve: maps loosely-named input columns onto canonical semantic fields
// using case-insensitive alias lists.
//
// ApplyFilter: restricts a table to rows matching stop-number and lane
// criteria. Accuracy bucket selection never affects row filtering; it only
// controls which columns Project emits.
//
// Deduplicate: collapses a table to one row per shipment identifier with a
// deterministic tie-break.
//
// Project: assembles the renamed, order-stable output projection.
//
// Summarize: derives aggregate statistics over the final table.
//
// Every stage produces a derived table and never mutates its input, so a
// single parsed table can serve any number of concurrent filter requests
// without locking. Unresolved canonical fields degrade functionality (a
// disabled filter, an omitted column) instead of failing; the only terminal
// condition is ErrEmptyProjection.
package dataprocessing
