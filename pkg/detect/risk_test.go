package detect

import "testing"

func TestAssessRiskHighValueTransfer(t *testing.T) {
	got := AssessRisk("Transfer Rs 5 lakh to this account before customs releases the parcel", 0)

	if got.Features.TransactionType != "CASH-TRANSFER" {
		t.Errorf("tx type = %s, want CASH-TRANSFER", got.Features.TransactionType)
	}
	if got.Features.BeneCountry != "MYANMAR" {
		t.Errorf("bene country = %s, want MYANMAR", got.Features.BeneCountry)
	}
	if got.Label != "fraudulent" {
		t.Errorf("label = %s (prob %v), want fraudulent", got.Label, got.Probability)
	}
	if got.RiskLevel != "CRITICAL" && got.RiskLevel != "HIGH" {
		t.Errorf("risk level = %s, want HIGH or CRITICAL", got.RiskLevel)
	}
}

func TestAssessRiskBenignMessage(t *testing.T) {
	got := AssessRisk("hello, how are you doing", 0)
	if got.Features.USDAmount != 500 {
		t.Errorf("default amount = %v, want 500", got.Features.USDAmount)
	}
	if got.Features.SenderCountry != "INDIA" {
		t.Errorf("sender = %s, want INDIA", got.Features.SenderCountry)
	}
	if got.Features.BeneCountry != "SRI-LANKA" {
		t.Errorf("bene = %s, want SRI-LANKA", got.Features.BeneCountry)
	}
}

func TestAssessRiskHistoryBoostsAmount(t *testing.T) {
	short := AssessRisk("send it fast", 0)
	long := AssessRisk("send it fast", 5)
	if long.Features.USDAmount < 1000 {
		t.Errorf("long-history amount = %v, want >= 1000", long.Features.USDAmount)
	}
	if long.Probability < short.Probability {
		t.Errorf("probability fell with history: %v < %v", long.Probability, short.Probability)
	}
}

func TestExtractUSDAmount(t *testing.T) {
	tests := []struct {
		text string
		want float64
	}{
		{"pay 2 lakh now", 2 * 100000 / 83.0},
		{"Rs 8,300 pending", 100},
		{"send $250 today", 250},
		{"amount is 8300", 100},
		{"no numbers here", 500},
	}
	for _, tt := range tests {
		if got := extractUSDAmount(tt.text); got != tt.want {
			t.Errorf("extractUSDAmount(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestRiskLevelBands(t *testing.T) {
	// CRITICAL require prob >= 0.80 after rounding; the lakh-scale transfer
	// to a high-risk corridor should clear it.
	got := AssessRisk("transfer 10 lakh via crypto to nigeria immediately", 5)
	if got.RiskLevel != "CRITICAL" {
		t.Errorf("risk level = %s (score %d), want CRITICAL", got.RiskLevel, got.RiskScore)
	}
}
