// Package services orchestrates the report engine for the HTTP transport:
// dataset upload and memoization, and report generation over a dataset with
// caller-supplied filter criteria.
package services
