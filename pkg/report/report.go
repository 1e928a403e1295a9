// Package report builds and delivers intelligence reports to the upstream
// collection endpoint. Delivery is fire-and-forget: a report that cannot be
// sent is logged and dropped, never retried, and never blocks the message
// path.
package report

import (
	"github.com/google/uuid"

	"github.com/tamattalab/sentinal/pkg/intel"
	"github.com/tamattalab/sentinal/pkg/session"
)

// Metrics is the engagement summary attached to reports and responses.
type Metrics struct {
	EngagementDurationSeconds int `json:"engagementDurationSeconds"`
	TotalMessagesExchanged    int `json:"totalMessagesExchanged"`
}

// Payload is the wire format posted to the collection endpoint.
type Payload struct {
	ReportID               string          `json:"reportId"`
	SessionID              string          `json:"sessionId"`
	ScamDetected           bool            `json:"scamDetected"`
	ScamType               string          `json:"scamType"`
	ConfidenceLevel        float64         `json:"confidenceLevel"`
	TotalMessagesExchanged int             `json:"totalMessagesExchanged"`
	ExtractedIntelligence  intel.Artifacts `json:"extractedIntelligence"`
	EngagementMetrics      Metrics         `json:"engagementMetrics"`
	AgentNotes             string          `json:"agentNotes"`
}

// Build assembles a report from a session snapshot. Each call mints a
// fresh report ID so redelivered snapshots stay distinguishable upstream.
func Build(s *session.Session, secondsPerTurn int) Payload {
	metrics := Metrics{
		EngagementDurationSeconds: s.EngagementDuration(secondsPerTurn),
		TotalMessagesExchanged:    s.MessageCount(),
	}
	scamType := s.ScamType
	if scamType == "" {
		scamType = "GENERAL_FRAUD"
	}
	return Payload{
		ReportID:               uuid.NewString(),
		SessionID:              s.ID,
		ScamDetected:           true,
		ScamType:               scamType,
		ConfidenceLevel:        s.Confidence,
		TotalMessagesExchanged: metrics.TotalMessagesExchanged,
		ExtractedIntelligence:  s.Intelligence.Clone(),
		EngagementMetrics:      metrics,
		AgentNotes:             s.NotesString(),
	}
}

// ShouldDispatch reports whether a session snapshot qualifies for a
// per-turn report: the scam latch is set and at least one payment-capable
// artifact has been captured.
func ShouldDispatch(s *session.Session) bool {
	return s.ScamDetected && s.Intelligence.HasPaymentIntel()
}
