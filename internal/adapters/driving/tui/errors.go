package tui

import "errors"

// ErrMissingReconcileService is returned when the reconcile service is not provided.
var ErrMissingReconcileService = errors.New("tui: reconcile service is required")

// ErrMissingReport is returned when there is no report to display.
var ErrMissingReport = errors.New("tui: report is required")
