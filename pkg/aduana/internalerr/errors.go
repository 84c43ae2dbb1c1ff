package internalerr

import "errors"

// Sentinel errors for common cases
var (
	// ErrNoInputFiles means a pipeline run found no spreadsheets to load.
	ErrNoInputFiles = errors.New("no input files")
	// ErrInvalidMapping means the project's column mapping does not resolve
	// against the uploaded data. Fatal to the run, never retried.
	ErrInvalidMapping = errors.New("invalid column mapping")
	// ErrInvalidConfig means a project configuration document is missing or
	// cannot be decoded.
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrNotFound is returned by lookups over project documents.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput covers bad arguments to collaborator-facing operations.
	ErrInvalidInput = errors.New("invalid input")
)
