package persona

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/tamattalab/sentinal/pkg/profile"
)

// scamTypeCategory maps detector scam types to template categories.
var scamTypeCategory = map[string]string{
	"KYC_FRAUD":        "kyc_fraud",
	"ACCOUNT_THREAT":   "account_threat",
	"OTP_FRAUD":        "otp_fraud",
	"LOTTERY_SCAM":     "lottery_scam",
	"INVESTMENT_SCAM":  "investment_scam",
	"PHISHING":         "phishing",
	"UPI_FRAUD":        "payment_request",
	"BANK_FRAUD":       "account_threat",
	"GENERAL_FRAUD":    "general",
	"JOB_SCAM":         "job_scam",
	"INSURANCE_SCAM":   "insurance_scam",
	"TAX_SCAM":         "tax_scam",
	"CUSTOMS_SCAM":     "customs_scam",
	"ELECTRICITY_SCAM": "electricity_scam",
	"REFUND_SCAM":      "refund_scam",
	"GOVT_SCAM":        "govt_scam",
}

// contentCategoryRules refine the category from the current message text.
// Checked in order; OTP harvesting and legal threats outrank everything
// else because the reply must address what the scammer just demanded, not
// the scheme the session settled on earlier.
var contentCategoryRules = []struct {
	Category string
	Words    []string
}{
	{"otp_fraud", []string{"otp", "pin", "cvv", "password", "code", "one time", "verification code"}},
	{"tax_scam", []string{"arrest", "police", "legal", "court", "jail", "fine", "penalty", "case filed", "fir", "warrant", "summon"}},
	{"investment_scam", []string{"invest", "bitcoin", "crypto", "trading", "returns", "profit", "guaranteed", "mutual fund", "stock", "forex", "doubl"}},
	{"lottery_scam", []string{"won", "winner", "prize", "lottery", "reward", "congratulat", "selected", "lucky", "cashback", "gift"}},
	{"job_scam", []string{"job", "work from home", "part time", "earn", "hiring", "vacancy", "resume", "salary", "registration fee"}},
	{"insurance_scam", []string{"insurance", "policy", "lic", "premium", "maturity", "claim", "nominee", "endowment", "irda"}},
	{"delivery_scam", []string{"deliver", "courier", "package", "parcel", "customs", "shipment", "tracking", "dispatch", "consignment", "seized", "narcotics", "drugs", "ndps"}},
	{"tech_support", []string{"virus", "hack", "malware", "computer", "laptop", "microsoft", "remote", "teamviewer", "anydesk"}},
	{"electricity_scam", []string{"electricity", "power", "bijli", "discom", "meter", "bill overdue", "disconnection", "power cut"}},
	{"govt_scam", []string{"government scheme", "pm scheme", "subsidy", "housing scheme", "pradhan mantri", "ministry", "ration", "aadhar"}},
	{"refund_scam", []string{"refund", "reprocess", "failed transaction", "compensation"}},
	{"loan_scam", []string{"loan", "credit card", "emi", "cibil", "pre-approved", "disburse", "sanction", "processing fee"}},
	{"romance_scam", []string{"dear", "beloved", "love", "marry", "relationship", "lonely", "heart", "dating", "soul"}},
	{"payment_request", []string{"pay", "send money", "transfer", "amount", "rupee", "rs ", "rs.", "fee", "charge", "upi", "cashback"}},
	{"kyc_fraud", []string{"kyc", "verify", "update", "document", "aadhaar", "pan", "aadhar", "identity"}},
	{"phishing", []string{"click", "link", "url", "website", "download", "http", "www", "log in", "login"}},
	{"account_threat", []string{"block", "suspend", "urgent", "immediately", "deactivat", "frozen", "expire", "terminat"}},
}

// customsWords split the delivery rule into customs vs plain courier bait.
var customsWords = []string{"customs", "seized", "narcotics", "ndps"}

// identityProbes are asked on non-scam turns to pull out who is calling.
var identityProbes = []string{
	"By the way, who is this? What is your name and where are you calling from?",
	"Sorry, I didn't catch your name. Who are you and which company?",
	"Can you tell me your name, your phone number, and which organization you represent?",
	"Who gave you my number? What is your official email ID?",
	"I don't recognize this number. What is your name and employee ID?",
}

const confusedRedFlagPrefix = "This is a red flag - something doesn't feel right!"

// Reply is a generated persona turn.
type Reply struct {
	Text    string
	RedFlag string
	Probe   string
}

// Responder selects context-aware persona replies from a template corpus.
// Safe for concurrent use.
type Responder struct {
	templates *Templates

	mu  sync.Mutex
	rng *rand.Rand
}

// NewResponder wraps a template corpus with a time-seeded selector.
func NewResponder(templates *Templates) *Responder {
	return &Responder{
		templates: templates,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// detectCategory resolves the template category from message content,
// falling back to general.
func detectCategory(text string) string {
	t := strings.ToLower(text)
	for _, rule := range contentCategoryRules {
		for _, w := range rule.Words {
			if !strings.Contains(t, w) {
				continue
			}
			if rule.Category == "delivery_scam" {
				for _, cw := range customsWords {
					if strings.Contains(t, cw) {
						return "customs_scam"
					}
				}
				return "delivery_scam"
			}
			return rule.Category
		}
	}
	return "general"
}

// phaseFor maps a 1-based turn count to a conversation phase.
func phaseFor(turn int) string {
	switch {
	case turn <= 2:
		return PhaseEarly
	case turn <= 6:
		return PhaseMiddle
	default:
		return PhaseLate
	}
}

// Respond builds a scam-engagement reply: template selection, red-flag
// callout prefix and rotating probing question.
func (r *Responder) Respond(message string, turn int, scamType string, previousReplies []string) Reply {
	category := ""
	if mapped, ok := scamTypeCategory[scamType]; ok {
		category = mapped
	}
	if content := detectCategory(message); content != "general" {
		category = content
	} else if category == "" {
		category = "general"
	}

	phase := phaseFor(turn)
	language := DetectLanguage(message)

	pool := r.templates.Pool(category, phase, language)
	if len(pool) == 0 {
		for _, alt := range []string{PhaseMiddle, PhaseEarly, PhaseLate} {
			if pool = r.templates.Pool(category, alt, language); len(pool) > 0 {
				break
			}
		}
	}
	if len(pool) == 0 {
		pool = r.templates.Pool("general", PhaseMiddle, language)
	}

	text := r.selectUnique(pool, previousReplies)

	redFlag := profile.DetectRedFlag(message)
	probe := profile.ProbingQuestion(turn)

	if redFlag != "" {
		text = profile.RedFlagPrefix(turn) + " " + text
	}
	if probe != "" && !strings.Contains(strings.ToLower(text), strings.ToLower(probe)) {
		text = text + " " + probe
	}

	return Reply{Text: text, RedFlag: redFlag, Probe: probe}
}

// ConfusedReply handles turns that did not look like a scam: a confused
// early-phase reply plus an identity probe.
func (r *Responder) ConfusedReply(message string, previousReplies []string) Reply {
	language := DetectLanguage(message)
	pool := r.templates.Pool("general", PhaseEarly, language)
	text := r.selectUnique(pool, previousReplies)

	redFlag := profile.DetectRedFlag(message)
	r.mu.Lock()
	probe := identityProbes[r.rng.Intn(len(identityProbes))]
	r.mu.Unlock()

	if redFlag != "" {
		text = confusedRedFlagPrefix + " " + text
	}
	if !strings.Contains(strings.ToLower(text), strings.ToLower(probe)) {
		text = text + " " + probe
	}

	return Reply{Text: text, RedFlag: redFlag, Probe: probe}
}

// selectUnique picks a pool entry that is not a near-repeat of a recent
// reply. When every candidate repeats, any entry is better than silence.
func (r *Responder) selectUnique(pool []string, previousReplies []string) string {
	if len(pool) == 0 {
		return ""
	}
	shuffled := append([]string(nil), pool...)
	r.mu.Lock()
	r.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	fallback := pool[r.rng.Intn(len(pool))]
	r.mu.Unlock()

	for _, candidate := range shuffled {
		if !isRepeat(candidate, previousReplies) {
			return candidate
		}
	}
	return fallback
}

// isRepeat reports whether the candidate matches a recent reply exactly or
// shares more than 75% of its words with one.
func isRepeat(candidate string, previousReplies []string) bool {
	if len(previousReplies) == 0 {
		return false
	}
	recent := previousReplies
	if len(recent) > 8 {
		recent = recent[len(recent)-8:]
	}
	candLower := strings.TrimSpace(strings.ToLower(candidate))
	candWords := wordSet(candLower)

	for _, prev := range recent {
		prevLower := strings.TrimSpace(strings.ToLower(prev))
		if candLower == prevLower {
			return true
		}
		prevWords := wordSet(prevLower)
		if len(candWords) == 0 || len(prevWords) == 0 {
			continue
		}
		shared := 0
		for w := range candWords {
			if prevWords[w] {
				shared++
			}
		}
		larger := len(candWords)
		if len(prevWords) > larger {
			larger = len(prevWords)
		}
		if float64(shared)/float64(larger) > 0.75 {
			return true
		}
	}
	return false
}

func wordSet(s string) map[string]bool {
	set := map[string]bool{}
	for _, w := range strings.Fields(s) {
		set[w] = true
	}
	return set
}
