package session

import (
	"testing"
	"time"
)

func TestNewSessionBaseline(t *testing.T) {
	s := New("s1")
	if s.Confidence != BaselineConfidence {
		t.Errorf("confidence = %v, want %v", s.Confidence, BaselineConfidence)
	}
	if s.ScamDetected {
		t.Error("new session already latched")
	}
}

func TestRaiseConfidenceMonotone(t *testing.T) {
	s := New("s1")
	s.RaiseConfidence(0.8)
	s.RaiseConfidence(0.3)
	if s.Confidence != 0.8 {
		t.Errorf("confidence = %v, want 0.8 (never drops)", s.Confidence)
	}
}

func TestSetScamTypeNoDowngrade(t *testing.T) {
	s := New("s1")
	s.SetScamType("GENERAL_FRAUD")
	if s.ScamType != "GENERAL_FRAUD" {
		t.Fatalf("scam type = %s", s.ScamType)
	}
	s.SetScamType("KYC_FRAUD")
	s.SetScamType("GENERAL_FRAUD")
	if s.ScamType != "KYC_FRAUD" {
		t.Errorf("generic tag downgraded specific: %s", s.ScamType)
	}
	s.SetScamType("OTP_FRAUD")
	if s.ScamType != "OTP_FRAUD" {
		t.Errorf("specific tag should overwrite: %s", s.ScamType)
	}
}

func TestMessageCount(t *testing.T) {
	s := New("s1")
	s.RecordTurn()
	s.RecordTurn()
	if got := s.MessageCount(); got != 4 {
		t.Errorf("turn-based count = %d, want 4", got)
	}
	s.UpdateMessageCountFromHistory(10)
	if got := s.MessageCount(); got != 12 {
		t.Errorf("history-based count = %d, want 12", got)
	}
	s.UpdateMessageCountFromHistory(3)
	if got := s.MessageCount(); got != 12 {
		t.Errorf("count shrank to %d", got)
	}
}

func TestEngagementDuration(t *testing.T) {
	s := New("s1")
	s.TurnCount = 5
	if got := s.EngagementDuration(20); got != 100 {
		t.Errorf("duration = %d, want realistic floor 100", got)
	}

	base := time.Now().Add(-10 * time.Minute)
	s.UpdateDurationFromTimestamps([]time.Time{base, base.Add(400 * time.Second)})
	if got := s.EngagementDuration(20); got != 400 {
		t.Errorf("duration = %d, want transcript span 400", got)
	}
}

func TestUpdateDurationNeverShrinks(t *testing.T) {
	s := New("s1")
	base := time.Now()
	s.UpdateDurationFromTimestamps([]time.Time{base, base.Add(300 * time.Second)})
	s.UpdateDurationFromTimestamps([]time.Time{base, base.Add(60 * time.Second)})
	if s.HistoryDurationSecs != 300 {
		t.Errorf("span = %d, want 300", s.HistoryDurationSecs)
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name string
		in   any
		ok   bool
	}{
		{"epoch seconds float", float64(1739269800), true},
		{"epoch millis float", float64(1739269800000), true},
		{"epoch seconds string", "1739269800", true},
		{"iso with zone", "2025-02-11T10:30:00Z", true},
		{"iso without zone", "2025-02-11T10:30:00", true},
		{"small number", float64(42), false},
		{"garbage string", "yesterday", false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, ok := ParseTimestamp(tt.in)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v (ts=%v)", ok, tt.ok, ts)
			}
			if ok && ts.IsZero() {
				t.Error("ok result with zero time")
			}
		})
	}
}

func TestParseTimestampMillisMatchSeconds(t *testing.T) {
	sec, _ := ParseTimestamp(float64(1739269800))
	ms, _ := ParseTimestamp(float64(1739269800000))
	if !sec.Equal(ms) {
		t.Errorf("millis %v != seconds %v", ms, sec)
	}
}

func TestTrackersDeduplicate(t *testing.T) {
	s := New("s1")
	s.TrackRedFlag("flag a")
	s.TrackRedFlag("flag a")
	s.TrackRedFlag("")
	if len(s.RedFlags) != 1 {
		t.Errorf("red flags = %v", s.RedFlags)
	}
	s.TrackManipulation([]string{"urgency", "fear"})
	s.TrackManipulation([]string{"fear", "greed"})
	if len(s.ManipulationTypes) != 3 {
		t.Errorf("manipulation = %v", s.ManipulationTypes)
	}
}

func TestNotesString(t *testing.T) {
	s := New("s1")
	if got := s.NotesString(); got != "Monitoring conversation" {
		t.Errorf("empty notes = %q", got)
	}
	s.AddNote("first")
	s.AddNote("second")
	if got := s.NotesString(); got != "first | second" {
		t.Errorf("joined notes = %q", got)
	}
	s.LastRichNotes = "rich"
	if got := s.NotesString(); got != "rich" {
		t.Errorf("rich notes = %q", got)
	}
}

func TestCloneIsDeep(t *testing.T) {
	s := New("s1")
	s.AbsorbKeywords([]string{"otp"})
	s.Intelligence.PhoneNumbers = []string{"9876543210"}

	c := s.Clone()
	c.AbsorbKeywords([]string{"kyc"})
	c.Intelligence.PhoneNumbers = append(c.Intelligence.PhoneNumbers, "1112223334")

	if len(s.AccumulatedKeywords) != 1 {
		t.Errorf("clone mutation leaked into keywords: %v", s.AccumulatedKeywords)
	}
	if len(s.Intelligence.PhoneNumbers) != 1 {
		t.Errorf("clone mutation leaked into intelligence: %v", s.Intelligence.PhoneNumbers)
	}
}
