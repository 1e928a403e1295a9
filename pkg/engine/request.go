package engine

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/tamattalab/sentinal/pkg/session"
)

// HistoryItem is one prior transcript entry after tolerant normalization.
type HistoryItem struct {
	Sender    string
	Text      string
	Timestamp time.Time
	HasStamp  bool
}

// Request is a normalized analysis request. Platforms disagree on field
// names, so parsing accepts every variant seen in the wild and never fails
// on shape alone.
type Request struct {
	SessionID string
	Message   string
	History   []HistoryItem
}

// ParseRequest normalizes a raw request body. Session ID falls back to
// "unknown", the message may arrive as a string or an object, and history
// may live under any of four keys. Only malformed JSON is an error.
func ParseRequest(raw []byte) (Request, error) {
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		return Request{}, fmt.Errorf("decode request: %w", err)
	}

	req := Request{SessionID: firstString(body, "sessionId", "session_id")}
	if req.SessionID == "" {
		req.SessionID = "unknown"
	}

	switch msg := body["message"].(type) {
	case string:
		req.Message = msg
	case map[string]any:
		req.Message = firstString(msg, "text", "content", "body")
	}

	for _, key := range []string{"conversationHistory", "conversation_history", "messages", "history"} {
		items, ok := body[key].([]any)
		if !ok || len(items) == 0 {
			continue
		}
		for _, raw := range items {
			entry, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			item := HistoryItem{
				Sender: firstString(entry, "sender", "role"),
				Text:   firstString(entry, "text", "content"),
			}
			if ts, ok := session.ParseTimestamp(entry["timestamp"]); ok {
				item.Timestamp = ts
				item.HasStamp = true
			}
			req.History = append(req.History, item)
		}
		break
	}

	return req, nil
}

// HistoryTexts returns the transcript bodies in order, skipping empties.
func (r Request) HistoryTexts() []string {
	var texts []string
	for _, item := range r.History {
		if item.Text != "" {
			texts = append(texts, item.Text)
		}
	}
	return texts
}

// Timestamps returns the parseable transcript timestamps in order.
func (r Request) Timestamps() []time.Time {
	var stamps []time.Time
	for _, item := range r.History {
		if item.HasStamp {
			stamps = append(stamps, item.Timestamp)
		}
	}
	return stamps
}

func firstString(m map[string]any, keys ...string) string {
	for _, key := range keys {
		if s, ok := m[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}
