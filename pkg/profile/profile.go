// Package profile derives behavioral intelligence from scammer messages:
// manipulation typing, escalation scoring, red-flag identification and the
// per-turn probing questions the persona asks back.
package profile

import (
	"strconv"
	"strings"
)

// manipulationRules map message vocabulary to manipulation-type tags.
var manipulationRules = []struct {
	Tag   string
	Words []string
}{
	{"urgency", []string{"urgent", "immediately", "now", "fast", "hurry"}},
	{"fear", []string{"blocked", "suspended", "arrest", "police", "legal", "court"}},
	{"authority", []string{"official", "government", "rbi", "officer", "inspector"}},
	{"greed", []string{"won", "prize", "reward", "profit", "returns", "free"}},
	{"credential_theft", []string{"otp", "pin", "cvv", "password"}},
	{"impersonation", []string{"kyc", "verify", "update"}},
}

// ManipulationTags returns the manipulation types present in one message,
// in rule order.
func ManipulationTags(text string) []string {
	t := strings.ToLower(text)
	var tags []string
	for _, rule := range manipulationRules {
		for _, w := range rule.Words {
			if strings.Contains(t, w) {
				tags = append(tags, rule.Tag)
				break
			}
		}
	}
	return tags
}

// EscalationScore rates the pressure level of a single message in [0, 1].
// Each matched band contributes once regardless of repeat words.
func EscalationScore(text string) float64 {
	t := strings.ToLower(text)
	score := 0.0
	if containsAny(t, "final", "last", "warning") {
		score += 0.3
	}
	if containsAny(t, "arrest", "police", "jail", "court") {
		score += 0.4
	}
	if containsAny(t, "immediately", "now", "2 hours", "within") {
		score += 0.2
	}
	if containsAny(t, "won't", "cannot", "impossible", "too late") {
		score += 0.1
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// EscalationPattern classifies the whole-conversation pressure trajectory
// from per-message escalation scores. Average intensity is judged before
// trend: a uniformly aggressive conversation is "aggressive" even if flat.
func EscalationPattern(scores []float64) string {
	if len(scores) == 0 {
		return "none"
	}
	sum := 0.0
	for _, s := range scores {
		sum += s
	}
	avg := sum / float64(len(scores))
	switch {
	case avg > 0.6:
		return "aggressive"
	case avg > 0.3:
		return "gradual"
	case len(scores) > 3 && scores[len(scores)-1] > scores[0]:
		return "escalating"
	default:
		return "moderate"
	}
}

// redFlagRules, checked in order. The first matching rule names the most
// damning behavior in the message, so credential harvesting outranks the
// softer pressure patterns further down.
var redFlagRules = []struct {
	Words []string
	Flag  string
}{
	{[]string{"otp", "pin", "cvv", "password"},
		"Requesting sensitive credentials (OTP/PIN/CVV) - legitimate banks never ask for these"},
	{[]string{"account number", "card number", "16-digit", "debit card", "credit card"},
		"Requesting account/card number - legitimate banks already have this on file"},
	{[]string{"blocked", "suspended", "deactivated", "frozen"},
		"Account threat/pressure tactic - creating urgency to bypass rational thinking"},
	{[]string{"urgent", "immediately", "right now", "right away", "within 2 hours", "last chance"},
		"Artificial time pressure - scammers create urgency to prevent verification"},
	{[]string{"arrest", "police", "legal", "fir", "warrant", "court order"},
		"Legal intimidation - fake authority threats to coerce compliance"},
	{[]string{"won", "winner", "prize", "lottery", "reward"},
		"Unsolicited prize - classic advance-fee fraud pattern"},
	{[]string{"invest", "guaranteed", "returns", "profit", "doubl"},
		"Guaranteed returns promise - no legitimate investment guarantees profits"},
	{[]string{"http", "www", "click", "link"},
		"Suspicious URL shared - potential phishing link to steal credentials"},
	{[]string{"kyc", "update your", "verify your", "verification required"},
		"KYC/verification request via phone/message - banks do KYC in-branch only"},
	{[]string{"transfer", "send money", "pay", "fee", "charge", "penalty"},
		"Requesting money transfer - legitimate services don't ask for upfront payments this way"},
	{[]string{"whatsapp", "telegram", "personal number"},
		"Moving to personal messaging - attempting to evade official communication channels"},
	{[]string{"reply", "confirm", "submit", "provide", "share your"},
		"Requesting personal information via unsecured channel - potential social engineering"},
	{[]string{"refund", "cashback", "compensation"},
		"Refund bait - creating false hope to extract banking credentials"},
	{[]string{"final", "warning", "terminat", "cancel"},
		"Escalation threat - increasing pressure to force immediate compliance"},
	{[]string{"customs", "seized", "parcel"},
		"Customs seizure threat - fake authority claim to extort payment"},
	{[]string{"electricity", "power cut", "disconnection"},
		"Utility disconnection threat - creating urgency around essential services"},
	{[]string{"job", "hiring", "work from home"},
		"Fake job offer - employment bait requiring upfront registration fees"},
}

// DetectRedFlag names the most relevant red flag in a message, or "" when
// nothing matches.
func DetectRedFlag(text string) string {
	t := strings.ToLower(text)
	for _, rule := range redFlagRules {
		for _, w := range rule.Words {
			if strings.Contains(t, w) {
				return rule.Flag
			}
		}
	}
	return ""
}

// probeQuestions cycle through distinct intelligence targets so that
// consecutive turns fish for different artifacts.
var probeQuestions = []string{
	"By the way, what is your official email ID? I want to verify with my bank.",
	"Can you share your employee ID and supervisor's phone number for my records?",
	"What UPI ID should I use if I need to make any payment?",
	"Which bank branch are you calling from? Share the branch phone number please.",
	"My son wants your official callback number and email before I proceed.",
	"I need your full name and badge number for the complaint I'm filing at the branch.",
	"Share your WhatsApp number - I'll send the documents there.",
	"What is the bank account number for the fee payment? I'll do NEFT.",
	"Can you email me the official notice? What's your bank email address?",
	"My grandson is a cyber crime officer - share your ID details for his verification.",
	"What is the exact case reference number? Please email it to me on your official ID.",
	"My lawyer wants your office address and landline number before I take action.",
}

// ProbingQuestion rotates deterministically on the 1-based turn count.
func ProbingQuestion(turn int) string {
	if turn < 1 {
		turn = 1
	}
	return probeQuestions[(turn-1)%len(probeQuestions)]
}

var redFlagPrefixes = []string{
	"This is a red flag - my son warned me about this kind of thing!",
	"Wait, this sounds like a red flag to me!",
	"My son says this is a major red flag!",
	"Hmm, this feels like a red flag... but let me cooperate.",
	"Red flag alert - my banker neighbour warned me about this!",
	"Something feels off, this is a red flag! But I'll try to help.",
	"My grandson says asking for this is a clear red flag!",
	"I read in the newspaper that this is a red flag for scams!",
	"Sir, my wife is saying this is a red flag. But I trust you.",
	"Beta says this is a classic red flag! But ok, I'll listen.",
}

// RedFlagPrefix rotates the persona's spoken red-flag callout on the
// 1-based turn count.
func RedFlagPrefix(turn int) string {
	if turn < 1 {
		turn = 1
	}
	return redFlagPrefixes[(turn-1)%len(redFlagPrefixes)]
}

// tacticRules translate accumulated keyword evidence into named tactics.
var tacticRules = []struct {
	Label string
	Any   []string
}{
	{"Credential Theft", []string{"otp", "pin", "cvv", "password"}},
	{"Urgency/Fear", []string{"urgent", "immediately", "blocked", "suspended"}},
	{"KYC Impersonation", []string{"kyc", "verify", "verification", "update"}},
	{"Prize Bait", []string{"won", "winner", "prize", "lottery"}},
	{"Investment Fraud", []string{"invest", "profit", "returns", "bitcoin"}},
	{"Banking Fraud", []string{"bank", "account", "transfer"}},
	{"Phishing Link", []string{"contains_url"}},
	{"Job Bait", []string{"job", "work from home", "earning"}},
}

// Tactics names every tactic the accumulated keywords support, falling
// back to a generic label when nothing concrete matched.
func Tactics(keywords []string) []string {
	set := make(map[string]bool, len(keywords))
	for _, kw := range keywords {
		set[strings.ToLower(kw)] = true
	}
	var out []string
	for _, rule := range tacticRules {
		for _, kw := range rule.Any {
			if set[kw] {
				out = append(out, rule.Label)
				break
			}
		}
	}
	if len(out) == 0 {
		out = append(out, "Social Engineering")
	}
	return out
}

// Intelligence is the behavioral section of an analysis response.
type Intelligence struct {
	EscalationPattern     string   `json:"escalationPattern"`
	ManipulationTypes     []string `json:"manipulationTypes"`
	RedFlagsIdentified    []string `json:"redFlagsIdentified"`
	ProbingQuestionsAsked []string `json:"probingQuestionsAsked"`
	ScammerProfile        string   `json:"scammerProfile"`
	TacticsUsed           []string `json:"tacticsUsed"`
}

// Build assembles the behavioral intelligence report for a session.
func Build(scamType string, escalationScores []float64, manipulation, redFlags, probes, keywords []string, turns int) Intelligence {
	if scamType == "" {
		scamType = "GENERAL_FRAUD"
	}
	pattern := EscalationPattern(escalationScores)
	tactics := Tactics(keywords)

	parts := []string{
		"Scam type: " + scamType,
		"Escalation: " + pattern,
	}
	if len(manipulation) > 0 {
		parts = append(parts, "Manipulation: "+strings.Join(manipulation, ", "))
	}
	parts = append(parts, "Turns engaged: "+strconv.Itoa(turns))

	return Intelligence{
		EscalationPattern:     pattern,
		ManipulationTypes:     manipulation,
		RedFlagsIdentified:    redFlags,
		ProbingQuestionsAsked: probes,
		ScammerProfile:        strings.Join(parts, " | "),
		TacticsUsed:           tactics,
	}
}

func containsAny(t string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(t, w) {
			return true
		}
	}
	return false
}
