package persona

import (
	"strings"
	"testing"
)

func newTestResponder(t *testing.T) *Responder {
	t.Helper()
	templates, err := LoadTemplates("")
	if err != nil {
		t.Fatalf("loading built-in corpus: %v", err)
	}
	return NewResponder(templates)
}

func TestBuiltinCorpusLoads(t *testing.T) {
	templates, err := LoadTemplates("")
	if err != nil {
		t.Fatalf("loading built-in corpus: %v", err)
	}

	wantCategories := []string{
		"kyc_fraud", "account_threat", "otp_fraud", "lottery_scam",
		"investment_scam", "phishing", "delivery_scam", "tax_scam",
		"tech_support", "loan_scam", "romance_scam", "job_scam",
		"insurance_scam", "electricity_scam", "customs_scam", "govt_scam",
		"refund_scam", "payment_request", "general",
	}
	for _, category := range wantCategories {
		for _, phase := range []string{PhaseEarly, PhaseMiddle, PhaseLate} {
			if pool := templates.Pool(category, phase, LangEnglish); len(pool) == 0 {
				t.Errorf("empty english pool for %s/%s", category, phase)
			}
		}
	}
	if pool := templates.Pool("general", PhaseEarly, LangHinglish); len(pool) == 0 {
		t.Error("empty hinglish general/early pool")
	}
}

func TestPoolCrossLanguageFallback(t *testing.T) {
	templates, err := LoadTemplates("")
	if err != nil {
		t.Fatal(err)
	}
	// The hinglish corpus has no lottery pool, so the english one serves.
	pool := templates.Pool("lottery_scam", PhaseEarly, LangHinglish)
	if len(pool) == 0 {
		t.Fatal("no cross-language fallback for hinglish lottery_scam")
	}
	english := templates.Pool("lottery_scam", PhaseEarly, LangEnglish)
	if pool[0] != english[0] {
		t.Error("fallback pool is not the english pool")
	}
}

func TestLoadTemplatesMissingFile(t *testing.T) {
	if _, err := LoadTemplates("/nonexistent/corpus.yaml"); err == nil {
		t.Error("expected error for missing corpus file")
	}
}

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"Your KYC has expired, verify immediately", LangEnglish},
		{"Aapka account block ho jayega, abhi verify karo", LangHinglish},
		{"आपका खाता बंद हो जाएगा", LangHinglish},
		{"sir please respond", LangEnglish}, // one vocab hit is not enough
		{"", LangEnglish},
	}
	for _, tt := range tests {
		if got := DetectLanguage(tt.text); got != tt.want {
			t.Errorf("DetectLanguage(%q) = %s, want %s", tt.text, got, tt.want)
		}
	}
}

func TestDetectCategory(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"share the otp to unblock", "otp_fraud"},
		{"police will arrest you", "tax_scam"},
		{"your parcel is held at customs", "customs_scam"},
		{"your courier package is waiting", "delivery_scam"},
		{"pay the fee via upi", "payment_request"},
		{"complete your kyc", "kyc_fraud"},
		{"account will be blocked", "account_threat"},
		{"good morning", "general"},
	}
	for _, tt := range tests {
		if got := detectCategory(tt.text); got != tt.want {
			t.Errorf("detectCategory(%q) = %s, want %s", tt.text, got, tt.want)
		}
	}
}

func TestPhaseFor(t *testing.T) {
	tests := []struct {
		turn int
		want string
	}{
		{1, PhaseEarly}, {2, PhaseEarly},
		{3, PhaseMiddle}, {6, PhaseMiddle},
		{7, PhaseLate}, {20, PhaseLate},
	}
	for _, tt := range tests {
		if got := phaseFor(tt.turn); got != tt.want {
			t.Errorf("phaseFor(%d) = %s, want %s", tt.turn, got, tt.want)
		}
	}
}

func TestRespondAppendsProbeAndPrefix(t *testing.T) {
	r := newTestResponder(t)
	reply := r.Respond("share your otp immediately", 1, "OTP_FRAUD", nil)

	if reply.RedFlag == "" {
		t.Error("no red flag for an OTP demand")
	}
	if reply.Probe == "" {
		t.Error("no probing question")
	}
	if !strings.Contains(reply.Text, reply.Probe) {
		t.Error("probe not appended to reply text")
	}
	if !strings.Contains(strings.ToLower(reply.Text), "red flag") {
		t.Errorf("red-flag prefix missing from reply: %q", reply.Text)
	}
}

func TestRespondAvoidsRepeats(t *testing.T) {
	r := newTestResponder(t)
	var previous []string
	seen := map[string]bool{}
	for turn := 1; turn <= 6; turn++ {
		reply := r.Respond("update your kyc today", turn, "KYC_FRAUD", previous)
		if seen[reply.Text] {
			t.Errorf("turn %d repeated a reply verbatim", turn)
		}
		seen[reply.Text] = true
		previous = append(previous, reply.Text)
	}
}

func TestRespondUnknownScamTypeFallsBack(t *testing.T) {
	r := newTestResponder(t)
	reply := r.Respond("good morning to you", 1, "SOMETHING_NEW", nil)
	if reply.Text == "" {
		t.Fatal("empty reply for unknown scam type")
	}
}

func TestConfusedReply(t *testing.T) {
	r := newTestResponder(t)
	reply := r.ConfusedReply("hello, is this the library?", nil)
	if reply.Text == "" {
		t.Fatal("empty confused reply")
	}
	if reply.Probe == "" {
		t.Error("confused reply missing identity probe")
	}
	if !strings.Contains(reply.Text, reply.Probe) {
		t.Error("identity probe not appended")
	}
	if reply.RedFlag != "" {
		t.Errorf("benign message produced red flag %q", reply.RedFlag)
	}
}

func TestConfusedReplyHinglish(t *testing.T) {
	r := newTestResponder(t)
	reply := r.ConfusedReply("hello ji, aap kaun bol rahe ho", nil)
	if reply.Text == "" {
		t.Fatal("empty hinglish confused reply")
	}
}

func TestIsRepeatWordOverlap(t *testing.T) {
	prev := []string{"Share your email and phone number for callback please sir"}
	if !isRepeat("Share your email and phone number for callback please", prev) {
		t.Error("near-identical reply not flagged as repeat")
	}
	if isRepeat("Completely different sentence about the weather today", prev) {
		t.Error("unrelated reply flagged as repeat")
	}
}
