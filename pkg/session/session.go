// Package session holds per-conversation engagement state and the stores
// that persist it. A session accumulates evidence monotonically: confidence
// never drops, the scam latch never clears, artifact sets only grow.
package session

import (
	"strconv"
	"time"

	"github.com/tamattalab/sentinal/pkg/intel"
)

// BaselineConfidence is the floor every session starts from.
const BaselineConfidence = 0.50

// maxRecentReplies bounds how far back reply deduplication looks.
const maxRecentReplies = 8

// Session is the single source of truth for one conversation.
type Session struct {
	ID           string    `json:"sessionId"`
	CreatedAt    time.Time `json:"createdAt"`
	LastActivity time.Time `json:"lastActivity"`

	ScamDetected bool    `json:"scamDetected"`
	ScamType     string  `json:"scamType,omitempty"`
	Confidence   float64 `json:"confidenceLevel"`
	ReportSent   bool    `json:"reportSent"`

	Intelligence        intel.Artifacts `json:"intelligence"`
	AccumulatedKeywords []string        `json:"accumulatedKeywords,omitempty"`

	AgentNotes    []string `json:"agentNotes,omitempty"`
	LastRichNotes string   `json:"lastRichNotes,omitempty"`

	PreviousReplies []string `json:"previousReplies,omitempty"`

	RedFlags          []string  `json:"redFlags,omitempty"`
	ProbingQuestions  []string  `json:"probingQuestions,omitempty"`
	ManipulationTypes []string  `json:"manipulationTypes,omitempty"`
	EscalationScores  []float64 `json:"escalationScores,omitempty"`

	TurnCount           int `json:"turnCount"`
	HistoryMessageCount int `json:"historyMessageCount"`
	HistoryDurationSecs int `json:"historyDurationSecs"`
}

// New creates a fresh session with the baseline confidence.
func New(id string) *Session {
	now := time.Now()
	return &Session{
		ID:           id,
		CreatedAt:    now,
		LastActivity: now,
		Confidence:   BaselineConfidence,
	}
}

// RecordTurn counts one scammer-message/honeypot-reply exchange.
func (s *Session) RecordTurn() {
	s.TurnCount++
	s.LastActivity = time.Now()
}

// MarkScam sets the scam latch. It never clears.
func (s *Session) MarkScam() {
	s.ScamDetected = true
}

// RaiseConfidence updates confidence to the maximum seen so far.
func (s *Session) RaiseConfidence(c float64) {
	if c > s.Confidence {
		s.Confidence = c
	}
}

// SetScamType records a scam type. A generic tag never overwrites a
// specific one already latched on the session.
func (s *Session) SetScamType(t string) {
	if t == "" {
		return
	}
	if t == "GENERAL_FRAUD" && s.ScamType != "" && s.ScamType != "GENERAL_FRAUD" {
		return
	}
	s.ScamType = t
}

// AbsorbKeywords appends new hit keywords, preserving first-seen order.
func (s *Session) AbsorbKeywords(keywords []string) {
	for _, kw := range keywords {
		seen := false
		for _, existing := range s.AccumulatedKeywords {
			if existing == kw {
				seen = true
				break
			}
		}
		if !seen {
			s.AccumulatedKeywords = append(s.AccumulatedKeywords, kw)
		}
	}
}

// TrackRedFlag records a red flag once.
func (s *Session) TrackRedFlag(flag string) {
	s.RedFlags = appendOnce(s.RedFlags, flag)
}

// TrackProbingQuestion records an asked probe once.
func (s *Session) TrackProbingQuestion(q string) {
	s.ProbingQuestions = appendOnce(s.ProbingQuestions, q)
}

// TrackManipulation folds new manipulation tags into the session set.
func (s *Session) TrackManipulation(tags []string) {
	for _, tag := range tags {
		s.ManipulationTypes = appendOnce(s.ManipulationTypes, tag)
	}
}

// TrackEscalation appends one per-message escalation score.
func (s *Session) TrackEscalation(score float64) {
	s.EscalationScores = append(s.EscalationScores, score)
}

// AddReply records a sent reply for deduplication.
func (s *Session) AddReply(reply string) {
	s.PreviousReplies = append(s.PreviousReplies, reply)
	if len(s.PreviousReplies) > maxRecentReplies*2 {
		s.PreviousReplies = s.PreviousReplies[len(s.PreviousReplies)-maxRecentReplies:]
	}
}

// AddNote appends a monitoring note.
func (s *Session) AddNote(note string) {
	s.AgentNotes = append(s.AgentNotes, note)
}

// NotesString returns the best available notes for reporting.
func (s *Session) NotesString() string {
	if s.LastRichNotes != "" {
		return s.LastRichNotes
	}
	if len(s.AgentNotes) == 0 {
		return "Monitoring conversation"
	}
	out := s.AgentNotes[0]
	for _, n := range s.AgentNotes[1:] {
		out += " | " + n
	}
	return out
}

// UpdateMessageCountFromHistory folds in the transcript length supplied by
// the caller, plus the current exchange. The count never decreases.
func (s *Session) UpdateMessageCountFromHistory(historyLen int) {
	if total := historyLen + 2; total > s.HistoryMessageCount {
		s.HistoryMessageCount = total
	}
}

// MessageCount is the total messages exchanged: whichever of the turn-based
// and transcript-based counts is larger.
func (s *Session) MessageCount() int {
	turnBased := s.TurnCount * 2
	if s.HistoryMessageCount > turnBased {
		return s.HistoryMessageCount
	}
	return turnBased
}

// UpdateDurationFromTimestamps widens the known engagement span using
// transcript timestamps. The stored span never shrinks.
func (s *Session) UpdateDurationFromTimestamps(stamps []time.Time) {
	if len(stamps) < 2 {
		return
	}
	earliest, latest := stamps[0], stamps[0]
	for _, ts := range stamps[1:] {
		if ts.Before(earliest) {
			earliest = ts
		}
		if ts.After(latest) {
			latest = ts
		}
	}
	if span := int(latest.Sub(earliest).Seconds()); span > s.HistoryDurationSecs {
		s.HistoryDurationSecs = span
	}
}

// EngagementDuration returns the best duration estimate in seconds: the
// max of wall clock since creation, the transcript span, and a realistic
// floor of secondsPerTurn per recorded turn.
func (s *Session) EngagementDuration(secondsPerTurn int) int {
	wallClock := int(time.Since(s.CreatedAt).Seconds())
	realistic := s.TurnCount * secondsPerTurn

	duration := wallClock
	if s.HistoryDurationSecs > duration {
		duration = s.HistoryDurationSecs
	}
	if realistic > duration {
		duration = realistic
	}
	return duration
}

// ParseTimestamp interprets a transcript timestamp value: epoch seconds,
// epoch milliseconds (numeric or string) or an ISO 8601 string. Values
// before the year 2001 are rejected as noise.
func ParseTimestamp(v any) (time.Time, bool) {
	const minEpochSeconds = 1_000_000_000
	const msThreshold = 1_000_000_000_000

	fromEpoch := func(n int64) (time.Time, bool) {
		if n > msThreshold {
			n /= 1000
		}
		if n > minEpochSeconds {
			return time.Unix(n, 0), true
		}
		return time.Time{}, false
	}

	switch ts := v.(type) {
	case float64:
		return fromEpoch(int64(ts))
	case int64:
		return fromEpoch(ts)
	case int:
		return fromEpoch(int64(ts))
	case string:
		if n, err := strconv.ParseInt(ts, 10, 64); err == nil {
			return fromEpoch(n)
		}
		for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05"} {
			if t, err := time.Parse(layout, ts); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

func appendOnce(dst []string, item string) []string {
	if item == "" {
		return dst
	}
	for _, existing := range dst {
		if existing == item {
			return dst
		}
	}
	return append(dst, item)
}

// Clone deep-copies the session so callers outside the store's lock can
// read it safely.
func (s *Session) Clone() *Session {
	out := *s
	out.Intelligence = s.Intelligence.Clone()
	out.AccumulatedKeywords = append([]string(nil), s.AccumulatedKeywords...)
	out.AgentNotes = append([]string(nil), s.AgentNotes...)
	out.PreviousReplies = append([]string(nil), s.PreviousReplies...)
	out.RedFlags = append([]string(nil), s.RedFlags...)
	out.ProbingQuestions = append([]string(nil), s.ProbingQuestions...)
	out.ManipulationTypes = append([]string(nil), s.ManipulationTypes...)
	out.EscalationScores = append([]float64(nil), s.EscalationScores...)
	return &out
}
