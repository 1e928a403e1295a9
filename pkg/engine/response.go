package engine

import (
	"fmt"
	"strings"

	"github.com/tamattalab/sentinal/pkg/detect"
	"github.com/tamattalab/sentinal/pkg/intel"
	"github.com/tamattalab/sentinal/pkg/profile"
	"github.com/tamattalab/sentinal/pkg/report"
	"github.com/tamattalab/sentinal/pkg/session"
)

const riskModelInfo = "GaussianNB transaction risk model"

// FraudAnalysis is the transaction-risk section of an analysis response.
type FraudAnalysis struct {
	detect.RiskAssessment
	ModelInfo string `json:"modelInfo"`
}

// Response is the full analysis result returned for every message.
type Response struct {
	SessionID                 string               `json:"sessionId"`
	Status                    string               `json:"status"`
	ScamDetected              bool                 `json:"scamDetected"`
	ScamType                  string               `json:"scamType"`
	ConfidenceLevel           float64              `json:"confidenceLevel"`
	TotalMessagesExchanged    int                  `json:"totalMessagesExchanged"`
	EngagementDurationSeconds int                  `json:"engagementDurationSeconds"`
	ExtractedIntelligence     intel.Artifacts      `json:"extractedIntelligence"`
	EngagementMetrics         report.Metrics       `json:"engagementMetrics"`
	BehavioralIntelligence    profile.Intelligence `json:"behavioralIntelligence"`
	FraudAnalysis             FraudAnalysis        `json:"fraudAnalysis"`
	AgentNotes                string               `json:"agentNotes"`
	RedFlags                  []string             `json:"redFlags"`
	ProbingQuestions          []string             `json:"probingQuestions"`
	Reply                     string               `json:"reply"`
}

// buildResponse assembles the response from a session snapshot. The risk
// assessment may be nil on the degraded error path.
func (e *Engine) buildResponse(s *session.Session, scamDetected bool, scamType string, keywords []string, reply string, risk *detect.RiskAssessment) Response {
	if scamType == "" {
		scamType = s.ScamType
	}
	if scamType == "" {
		scamType = string(detect.TypeGeneralFraud)
	}

	metrics := report.Metrics{
		EngagementDurationSeconds: s.EngagementDuration(e.cfg.SecondsPerTurn),
		TotalMessagesExchanged:    s.MessageCount(),
	}

	fraud := FraudAnalysis{ModelInfo: riskModelInfo}
	if risk != nil {
		fraud.RiskAssessment = *risk
	} else {
		fraud.Label = "fraudulent"
		fraud.RiskLevel = "HIGH"
	}

	return Response{
		SessionID:                 s.ID,
		Status:                    "success",
		ScamDetected:              scamDetected,
		ScamType:                  scamType,
		ConfidenceLevel:           s.Confidence,
		TotalMessagesExchanged:    metrics.TotalMessagesExchanged,
		EngagementDurationSeconds: metrics.EngagementDurationSeconds,
		ExtractedIntelligence:     s.Intelligence.Clone(),
		EngagementMetrics:         metrics,
		BehavioralIntelligence: profile.Build(
			scamType, s.EscalationScores, s.ManipulationTypes,
			s.RedFlags, s.ProbingQuestions, keywords, s.TurnCount,
		),
		FraudAnalysis:    fraud,
		AgentNotes:       buildAgentNotes(s, scamDetected, scamType, keywords, risk),
		RedFlags:         append([]string(nil), s.RedFlags...),
		ProbingQuestions: append([]string(nil), s.ProbingQuestions...),
		Reply:            reply,
	}
}

// keywordRedFlagRules back-fill the red flag section of agent notes when
// the responder has not surfaced any yet.
var keywordRedFlagRules = []struct {
	Flag string
	Any  []string
}{
	{"Artificial urgency - pressuring victim to act without thinking", []string{"urgent", "immediately", "now"}},
	{"Account threat - fake claims of account suspension to create panic", []string{"blocked", "suspended", "deactivated"}},
	{"Credential request - asking for OTP/PIN/CVV which banks never request", []string{"otp", "pin", "cvv", "password"}},
	{"Suspicious URL shared - potential phishing link to steal credentials", []string{detect.MarkerURL}},
	{"Unsolicited prize notification - classic advance-fee fraud indicator", []string{"won", "winner", "prize", "lottery", "reward"}},
	{"Guaranteed returns promise - no legitimate investment offers risk-free profits", []string{"invest", "profit", "guaranteed", "returns"}},
	{"KYC request via phone/SMS - banks only do KYC verification in-branch", []string{"kyc", "verify", "verification"}},
	{"Legal intimidation - fake law enforcement threats to coerce compliance", []string{"arrest", "police", "legal", "fir", "warrant"}},
	{"Advance fee request - asking victim to pay upfront before receiving service", []string{"transfer", "send", "pay", "fee", "charge"}},
}

func keywordRedFlags(keywords []string) []string {
	set := map[string]bool{}
	for _, kw := range keywords {
		set[strings.ToLower(kw)] = true
	}
	var flags []string
	for _, rule := range keywordRedFlagRules {
		for _, kw := range rule.Any {
			if set[kw] {
				flags = append(flags, rule.Flag)
				break
			}
		}
	}
	if len(flags) == 0 {
		flags = append(flags, "Unsolicited contact - no legitimate organization cold-calls requesting personal info")
	}
	return flags
}

// buildAgentNotes produces the narrative notes string that accompanies
// every response and report.
func buildAgentNotes(s *session.Session, scamDetected bool, scamType string, keywords []string, risk *detect.RiskAssessment) string {
	if !scamDetected {
		return strings.Join([]string{
			"No scam detected yet",
			"Monitoring conversation for suspicious activity",
			"Red Flags Identified: Unsolicited contact - monitoring for further indicators",
		}, " | ")
	}

	if scamType == "" {
		scamType = string(detect.TypeGeneralFraud)
	}
	parts := []string{
		"Scam Type: " + scamType,
		fmt.Sprintf("Confidence Level: %.2f", s.Confidence),
	}

	if tactics := profile.Tactics(keywords); len(tactics) > 0 {
		parts = append(parts, "Tactics: "+strings.Join(tactics, ", "))
	}

	if items := intelSummary(&s.Intelligence); len(items) > 0 {
		parts = append(parts, "Intelligence Extracted: "+strings.Join(items, ", "))
	}

	if len(s.RedFlags) > 0 {
		parts = append(parts, "Red Flags Identified: "+strings.Join(head(s.RedFlags, 8), "; "))
	} else {
		parts = append(parts, "Red Flags Identified: "+strings.Join(keywordRedFlags(keywords), "; "))
	}

	if len(s.ProbingQuestions) > 0 {
		parts = append(parts, "Probing Questions Asked: "+strings.Join(head(s.ProbingQuestions, 5), "; "))
	}

	if pattern := profile.EscalationPattern(s.EscalationScores); pattern != "none" {
		parts = append(parts, "Escalation Pattern: "+pattern)
	}
	if len(s.ManipulationTypes) > 0 {
		parts = append(parts, "Manipulation Types: "+strings.Join(s.ManipulationTypes, ", "))
	}
	if len(keywords) > 0 {
		parts = append(parts, "Keywords: "+strings.Join(head(keywords, 10), ", "))
	}

	if risk != nil {
		parts = append(parts, fmt.Sprintf(
			"GNB Fraud Risk: %d/100 (%s) | Label=%s | Prob=%.3f | Model: %s",
			risk.RiskScore, risk.RiskLevel, risk.Label, risk.Probability, riskModelInfo,
		))
	}

	return strings.Join(parts, " | ")
}

func intelSummary(a *intel.Artifacts) []string {
	var items []string
	add := func(n int, label string) {
		if n > 0 {
			items = append(items, fmt.Sprintf("%d %s", n, label))
		}
	}
	add(len(a.PhoneNumbers), "phone(s)")
	add(len(a.BankAccounts), "bank account(s)")
	add(len(a.UPIIDs), "UPI ID(s)")
	add(len(a.PhishingLinks), "phishing link(s)")
	add(len(a.EmailAddresses), "email(s)")
	add(len(a.CaseIDs), "case ID(s)")
	add(len(a.PolicyNumbers), "policy number(s)")
	add(len(a.OrderNumbers), "order/txn number(s)")
	add(len(a.SuspiciousKeywords), "suspicious keyword(s)")
	return items
}

func head(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[:n]
}
