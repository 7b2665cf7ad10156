// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// EventPayload is what the host process hands a hook on stdin.
type EventPayload struct {
	ToolName string         `json:"toolName"`
	Content  string         `json:"content"`
	Result   string         `json:"result,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// IsEmpty reports whether the payload carries no text at all.
func (p EventPayload) IsEmpty() bool {
	return p.Content == "" && p.Result == ""
}

// HookEvent is the envelope read from stdin. Payload is optional.
type HookEvent struct {
	Payload *EventPayload `json:"payload,omitempty"`
}

// ExperimentNotification is the log written when an experiment analysis completes.
type ExperimentNotification struct {
	Timestamp    time.Time `json:"timestamp"`
	ExperimentID string    `json:"experimentId"`
	Summary      string    `json:"summary"`
	Event        string    `json:"event"`
}

// PaperNotification is the log written when a paper analysis completes.
type PaperNotification struct {
	Timestamp  time.Time `json:"timestamp"`
	PaperTitle string    `json:"paperTitle"`
	Authors    []string  `json:"authors"`
	Journal    string    `json:"journal,omitempty"`
	Year       int       `json:"year,omitempty"`
	Summary    string    `json:"summary"`
	Event      string    `json:"event"`
}

// Event names stored in notification logs.
const (
	EventExperimentComplete = "experiment_complete"
	EventPaperAnalyzed      = "paper_analyzed"
)
