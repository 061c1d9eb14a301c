// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldRunID       = "run_id"
	FieldRequestID   = "request_id"
	FieldBroadcastID = "broadcast_id"
	FieldProgramID   = "program_id"
	FieldChannelID   = "channel_id"

	// Process / pipeline fields
	FieldEvent     = "event"
	FieldComponent = "component"
	FieldStage     = "stage"

	// Upstream fields
	FieldURL     = "url"
	FieldStatus  = "status"
	FieldAttempt = "attempt"
	FieldPages   = "pages"

	// Path fields
	FieldPath       = "path"
	FieldConfigFile = "config_file"
)
