package services

import "errors"

// Sentinel errors returned by services and mapped to API errors at the
// transport layer.
var (
	ErrDatasetNotFound = errors.New("dataset not found")
	ErrUnsupportedFile = errors.New("unsupported file format")
)
