// Package http implements the HTTP handlers for the shipment ETA report
// service. Handlers stay thin: they parse and validate requests, delegate to
// the service layer, and transform service errors into structured API
// responses. All business logic lives in internal/services and
// internal/dataprocessing.
package http
