package models

import "errors"

// Error kinds shared across components. Callers branch with errors.Is; the
// concrete message carries the detail.
var (
	// ErrInvalidInput marks a request rejected before any network call:
	// no text and no attachment, an oversized attachment, or an
	// unsupported MIME type.
	ErrInvalidInput = errors.New("invalid input")

	// ErrTransport marks a failure of the generative service at the
	// network or service layer.
	ErrTransport = errors.New("transport failure")

	// ErrSchema marks a service payload that was empty or did not parse
	// against the expected structure. Callers treat it like ErrTransport:
	// the analysis did not complete.
	ErrSchema = errors.New("schema violation")

	// ErrDeviceAccess marks microphone or audio-device failure. Reported
	// without retry; capture simply does not start.
	ErrDeviceAccess = errors.New("device access failure")
)
