// Package engine orchestrates the per-message analysis pipeline: scam
// detection, intelligence extraction, behavioral tracking, persona reply
// generation and report dispatch, all against a single session update.
package engine

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/tamattalab/sentinal/pkg/config"
	"github.com/tamattalab/sentinal/pkg/detect"
	"github.com/tamattalab/sentinal/pkg/intel"
	"github.com/tamattalab/sentinal/pkg/persona"
	"github.com/tamattalab/sentinal/pkg/profile"
	"github.com/tamattalab/sentinal/pkg/report"
	"github.com/tamattalab/sentinal/pkg/session"
)

const (
	fallbackReplySession = "Sorry ji, network problem. Can you repeat that?"
	fallbackReplyCold    = "Sorry, I didn't understand. Can you explain again? What is your name and employee ID?"
)

// Engine ties the analysis pipeline together. Safe for concurrent use.
type Engine struct {
	store      session.Store
	responder  *persona.Responder
	dispatcher *report.Dispatcher
	cfg        *config.Config
	log        *zap.Logger
}

// New assembles an engine. A nil logger disables logging.
func New(store session.Store, responder *persona.Responder, dispatcher *report.Dispatcher, cfg *config.Config, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		store:      store,
		responder:  responder,
		dispatcher: dispatcher,
		cfg:        cfg,
		log:        log,
	}
}

// Analyze runs the full pipeline for one scammer message. It never fails:
// internal errors degrade to a success-shaped fallback response so the
// upstream platform keeps the conversation alive.
func (e *Engine) Analyze(ctx context.Context, raw []byte) Response {
	req, err := ParseRequest(raw)
	if err != nil {
		e.log.Error("request parse failed", zap.Error(err))
		return e.fallbackResponse(ctx, "")
	}

	e.log.Info("processing message",
		zap.String("sessionId", req.SessionID),
		zap.Int("historyLen", len(req.History)))

	var (
		resp     Response
		dispatch bool
	)
	snap, err := e.store.Update(ctx, req.SessionID, func(s *session.Session) error {
		resp, dispatch = e.analyzeTurn(s, req)
		return nil
	})
	if err != nil {
		e.log.Error("session update failed",
			zap.String("sessionId", req.SessionID), zap.Error(err))
		return e.fallbackResponse(ctx, req.SessionID)
	}

	e.log.Info("turn analyzed",
		zap.String("sessionId", req.SessionID),
		zap.Bool("scamDetected", resp.ScamDetected),
		zap.String("scamType", resp.ScamType),
		zap.Int("messages", resp.TotalMessagesExchanged),
		zap.Int("intelCount", snap.Intelligence.Count()))

	if dispatch {
		e.dispatcher.DispatchAsync(report.Build(snap, e.cfg.SecondsPerTurn))
	}
	return resp
}

// analyzeTurn mutates the session for one turn and produces the response.
// Runs inside the store's atomic update.
func (e *Engine) analyzeTurn(s *session.Session, req Request) (Response, bool) {
	historyTexts := req.HistoryTexts()

	s.UpdateMessageCountFromHistory(len(req.History))
	s.UpdateDurationFromTimestamps(req.Timestamps())

	s.TrackManipulation(profile.ManipulationTags(req.Message))
	s.TrackEscalation(profile.EscalationScore(req.Message))

	// Detection always runs so keywords keep accumulating after the latch.
	sig := detect.Score(req.Message, historyTexts)

	scamDetected := s.ScamDetected
	scamType := s.ScamType
	if s.ScamDetected {
		if len(sig.Keywords) > 0 {
			s.AbsorbKeywords(sig.Keywords)
			s.RaiseConfidence(detect.Confidence(
				sig.Score, len(s.AccumulatedKeywords), len(sig.CategoriesHit), len(req.History)))
			if better := detect.Classify(s.AccumulatedKeywords); detect.IsSpecific(better) {
				s.SetScamType(string(better))
				scamType = string(better)
			}
		}
	} else if sig.IsScam {
		scamDetected = true
		scamType = string(detect.Classify(sig.Keywords))
		s.AbsorbKeywords(sig.Keywords)
		s.RaiseConfidence(detect.Confidence(
			sig.Score, len(sig.Keywords), len(sig.CategoriesHit), len(req.History)))

		// A generic first verdict often sharpens once the transcript as a
		// whole is classified.
		if scamType == string(detect.TypeGeneralFraud) && len(historyTexts) > 0 {
			histSig := detect.Score(strings.Join(historyTexts, " "), nil)
			if t := detect.Classify(histSig.Keywords); detect.IsSpecific(t) {
				scamType = string(t)
			}
		}
	}

	artifacts := intel.ExtractAll(req.Message, historyTexts)
	artifacts.AbsorbKeywords(s.AccumulatedKeywords, 15)

	if scamDetected {
		s.MarkScam()
	}
	if scamType != "" {
		s.SetScamType(scamType)
	}
	s.Intelligence.Merge(artifacts)
	s.RecordTurn()

	if len(sig.Keywords) > 0 {
		s.AddNote("Turn " + strconv.Itoa(s.TurnCount) + ": " + strings.Join(head(sig.Keywords, 5), ", "))
	}

	risk := detect.AssessRisk(req.Message, len(req.History))

	allKeywords := s.AccumulatedKeywords
	if len(allKeywords) == 0 {
		allKeywords = sig.Keywords
	}

	var reply persona.Reply
	if scamDetected {
		reply = e.responder.Respond(req.Message, s.TurnCount, s.ScamType, s.PreviousReplies)
	} else {
		reply = e.responder.ConfusedReply(req.Message, s.PreviousReplies)
	}
	s.AddReply(reply.Text)
	s.TrackRedFlag(reply.RedFlag)
	s.TrackProbingQuestion(reply.Probe)

	resp := e.buildResponse(s, scamDetected, s.ScamType, allKeywords, reply.Text, &risk)

	dispatch := report.ShouldDispatch(s)
	if dispatch {
		s.LastRichNotes = buildAgentNotes(s, true, s.ScamType, allKeywords, &risk)
	}
	return resp, dispatch
}

// fallbackResponse builds a degraded answer from whatever session state
// exists. With no session at all it returns safe defaults that still claim
// a detection, keeping the scammer engaged.
func (e *Engine) fallbackResponse(ctx context.Context, sessionID string) Response {
	if sessionID != "" {
		if s, err := e.store.Get(ctx, sessionID); err == nil && s != nil {
			keywords := s.AccumulatedKeywords
			return e.buildResponse(s, s.ScamDetected, s.ScamType, keywords, fallbackReplySession, nil)
		}
	}

	if sessionID == "" {
		sessionID = "unknown"
	}
	return Response{
		SessionID:       sessionID,
		Status:          "success",
		ScamDetected:    true,
		ScamType:        string(detect.TypeGeneralFraud),
		ConfidenceLevel: session.BaselineConfidence,
		FraudAnalysis: FraudAnalysis{
			RiskAssessment: detect.RiskAssessment{Label: "fraudulent", RiskLevel: "HIGH"},
			ModelInfo:      riskModelInfo,
		},
		AgentNotes: "Scam attempt detected. Honeypot monitoring for intelligence extraction.",
		Reply:      fallbackReplyCold,
	}
}
